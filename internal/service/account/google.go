package account

import (
	"context"

	"google.golang.org/api/idtoken"
)

// Claims: 외부 신원 제공자 토큰에서 추출한 프로필 정보
type Claims struct {
	Email   string
	Name    string
	Picture string
}

// TokenVerifier: 외부 발급 ID 토큰을 검증하고 프로필 클레임을 추출한다.
// 테스트에서는 가짜 구현으로 대체된다.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}

// GoogleVerifier: 구글 OAuth2 ID 토큰 검증기.
// 서명/만료/audience 검증은 구글 라이브러리에 위임한다.
type GoogleVerifier struct {
	clientID string
}

// NewGoogleVerifier: audience(클라이언트 ID)를 고정한 검증기를 생성한다.
func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{clientID: clientID}
}

// Verify: ID 토큰을 검증하고 이메일/이름/프로필 사진 클레임을 반환한다.
func (v *GoogleVerifier) Verify(ctx context.Context, token string) (*Claims, error) {
	payload, err := idtoken.Validate(ctx, token, v.clientID)
	if err != nil {
		return nil, newError(CodeUnauthorized, "invalid google token", err)
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	picture, _ := payload.Claims["picture"].(string)

	if email == "" {
		return nil, newError(CodeInvalidInput, "token has no email claim", nil)
	}

	return &Claims{Email: email, Name: name, Picture: picture}, nil
}
