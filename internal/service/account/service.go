package account

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

const defaultUsername = "User"

// Service: 외부 신원 제공자 토큰을 로컬 계정으로 매핑하는 신원 브릿지.
// 최초 로그인 시 계정을 만들고, 재로그인 시 아바타만 갱신한다.
type Service struct {
	repo        *Repository
	verifier    TokenVerifier
	internalKey string
	logger      *slog.Logger
}

// NewService: 신원 브릿지 서비스를 생성한다.
// internalKey가 비어있으면 모든 로그인 요청이 거부된다.
func NewService(repo *Repository, verifier TokenVerifier, internalKey string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:        repo,
		verifier:    verifier,
		internalKey: internalKey,
		logger:      logger,
	}
}

// LoginResult: 로그인 처리 결과
type LoginResult struct {
	Account *Account
	Created bool // 이번 요청으로 계정이 새로 만들어졌는지
}

// LoginWithGoogle: 내부 키와 구글 ID 토큰을 검증하고 로컬 계정을 반환한다.
// 이메일 기준 create-on-first-use이며, 신규 계정의 ranking_score는 0으로 시작한다.
func (s *Service) LoginWithGoogle(ctx context.Context, internalKey, token string) (*LoginResult, error) {
	if s.internalKey == "" ||
		subtle.ConstantTimeCompare([]byte(internalKey), []byte(s.internalKey)) != 1 {
		return nil, newError(CodeForbidden, "internal key mismatch", nil)
	}

	if token == "" {
		return nil, newError(CodeUnauthorized, "missing bearer token", nil)
	}

	claims, err := s.verifier.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByEmail(ctx, claims.Email)
	if err != nil {
		return nil, newError(CodeInternal, "failed to look up account", err)
	}

	if existing != nil {
		if claims.Picture != "" {
			pic := claims.Picture
			if err := s.repo.UpdateProfilePic(ctx, existing.ID, &pic); err != nil {
				return nil, newError(CodeInternal, "failed to update avatar", err)
			}
			existing.ProfilePic = &pic
		}

		s.logger.Info("Google login",
			slog.Int("user_id", existing.ID),
			slog.String("username", existing.Username),
		)
		return &LoginResult{Account: ToAccount(existing)}, nil
	}

	username, err := s.disambiguateUsername(ctx, claims.Name)
	if err != nil {
		return nil, newError(CodeInternal, "failed to pick username", err)
	}

	model := &Model{
		Username:     username,
		Email:        claims.Email,
		RankingScore: 0,
	}
	if claims.Picture != "" {
		pic := claims.Picture
		model.ProfilePic = &pic
	}

	if err := s.repo.Create(ctx, model); err != nil {
		return nil, newError(CodeInternal, "failed to create account", err)
	}

	s.logger.Info("Google signup",
		slog.Int("user_id", model.ID),
		slog.String("username", model.Username),
	)
	return &LoginResult{Account: ToAccount(model), Created: true}, nil
}

// disambiguateUsername: 표시 이름 충돌 시 짧은 랜덤 토큰을 접미사로 붙인다.
func (s *Service) disambiguateUsername(ctx context.Context, name string) (string, error) {
	if name == "" {
		name = defaultUsername
	}

	exists, err := s.repo.UsernameExists(ctx, name)
	if err != nil {
		return "", err
	}
	if !exists {
		return name, nil
	}

	return fmt.Sprintf("%s_%s", name, uuid.NewString()[:4]), nil
}
