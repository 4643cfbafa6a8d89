package service

import (
	"context"
	"errors"

	"anonworld/internal/pkg"
)

var ErrSessionReplaced = errors.New("account has been logged in elsewhere")

type SessionStore interface {
	Add(ctx context.Context, operatorID uint64, token string) error
	Get(ctx context.Context, operatorID uint64) (string, error)
	Extend(ctx context.Context, operatorID uint64) error
	Delete(ctx context.Context, operatorID uint64) error
}

type AuthService struct {
	tokens   *pkg.TokenManager
	sessions SessionStore
}

func NewAuthService(tokens *pkg.TokenManager, sessions SessionStore) *AuthService {
	return &AuthService{tokens: tokens, sessions: sessions}
}

// Issue 签发 token 并将 access 写入 redis，旧的登录态随之失效
func (s *AuthService) Issue(ctx context.Context, operatorID uint64) (*pkg.Pair, error) {
	pair, err := s.tokens.GeneratePair(operatorID)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Add(ctx, operatorID, pair.AccessToken); err != nil {
		return nil, err
	}
	return pair, nil
}

// Refresh 只有登录态仍在时才能续签，登出后旧的 refresh 失效
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*pkg.Pair, error) {
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, err
	}
	if _, err := s.sessions.Get(ctx, claims.OperatorID); err != nil {
		return nil, err
	}
	return s.Issue(ctx, claims.OperatorID)
}

// Authenticate 校验 access token 且必须与 redis 中的登录态一致，通过后续期
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (uint64, error) {
	claims, err := s.tokens.ParseAccess(accessToken)
	if err != nil {
		return 0, err
	}
	current, err := s.sessions.Get(ctx, claims.OperatorID)
	if err != nil {
		return 0, err
	}
	if current != accessToken {
		return 0, ErrSessionReplaced
	}
	if err := s.sessions.Extend(ctx, claims.OperatorID); err != nil {
		return 0, err
	}
	return claims.OperatorID, nil
}

func (s *AuthService) Logout(ctx context.Context, operatorID uint64) error {
	return s.sessions.Delete(ctx, operatorID)
}
