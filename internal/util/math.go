package util

import "math"

// Max: 두 정수 중 더 큰 값을 반환합니다.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Min: 두 정수 중 더 작은 값을 반환합니다.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Round2: 소수점 둘째 자리까지 반올림한다. (통계 평균값 저장 규격)
// math.Round는 round-half-away-from-zero 동작을 따른다.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
