package account

import "fmt"

// ErrorCode: 구글 로그인 연동에서 쓰이는 인증 오류 코드
type ErrorCode string

const (
	CodeForbidden    ErrorCode = "FORBIDDEN"     // X-INTERNAL-KEY 불일치
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"  // 토큰 없음/만료/위조
	CodeInvalidInput ErrorCode = "INVALID_INPUT" // 토큰 클레임에 이메일 없음 등
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
)

// Error: 서비스 레벨 에러 (HTTP 레이어에서 status/code로 매핑)
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err == nil && e.Message == "" {
		return fmt.Sprintf("account error code=%s", e.Code)
	}
	if e.Err == nil {
		return fmt.Sprintf("account error code=%s: %s", e.Code, e.Message)
	}
	if e.Message == "" {
		return fmt.Sprintf("account error code=%s: %v", e.Code, e.Err)
	}
	return fmt.Sprintf("account error code=%s: %s: %v", e.Code, e.Message, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(code ErrorCode, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}
