package pkg

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired      = errors.New("token expired")
	ErrTokenInvalid      = errors.New("token invalid")
	ErrRefreshExpired    = errors.New("refresh expired")
	ErrRefreshInvalid    = errors.New("refresh invalid")
	ErrTokenParseFailure = errors.New("token parse failure")
	ErrEmptySecret       = errors.New("jwt secret is empty")
)

const (
	AccessTTL  = time.Minute * 30
	RefreshTTL = time.Hour * 24

	subjectAccess  = "access"
	subjectRefresh = "refresh"
)

// Claims 运营人员（可修改社区资料的账号）的 token 声明
type Claims struct {
	OperatorID uint64 `json:"operator_id"`
	jwt.RegisteredClaims
}

type Pair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	now           func() time.Time
}

func NewTokenManager(accessSecret, refreshSecret string) (*TokenManager, error) {
	if accessSecret == "" || refreshSecret == "" {
		return nil, ErrEmptySecret
	}
	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		now:           time.Now,
	}, nil
}

func (m *TokenManager) GeneratePair(operatorID uint64) (*Pair, error) {
	now := m.now()

	accessToken, err := m.sign(operatorID, subjectAccess, now, AccessTTL, m.accessSecret)
	if err != nil {
		return nil, err
	}
	refreshToken, err := m.sign(operatorID, subjectRefresh, now, RefreshTTL, m.refreshSecret)
	if err != nil {
		return nil, err
	}
	return &Pair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (m *TokenManager) sign(operatorID uint64, subject string, now time.Time, ttl time.Duration, secret []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		OperatorID: operatorID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Subject:   subject,
			// 同一秒内签发的 token 也要不同，否则 redis 会话无法区分
			ID: strconv.FormatInt(now.UnixNano(), 36),
		},
	})
	return token.SignedString(secret)
}

// ParseAccess 解析 access
func (m *TokenManager) ParseAccess(tokenStr string) (*Claims, error) {
	claims, err := m.parse(tokenStr, m.accessSecret, subjectAccess)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenInvalid
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		default:
			return nil, err
		}
	}
	return claims, nil
}

// ParseRefresh 解析 refresh
func (m *TokenManager) ParseRefresh(refreshToken string) (*Claims, error) {
	claims, err := m.parse(refreshToken, m.refreshSecret, subjectRefresh)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrRefreshInvalid
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrRefreshExpired
		}
		return nil, err
	}
	return claims, nil
}

// Refresh 校验 refresh 并签发新的一对 token
func (m *TokenManager) Refresh(refreshToken string) (*Pair, error) {
	claims, err := m.ParseRefresh(refreshToken)
	if err != nil {
		return nil, err
	}
	return m.GeneratePair(claims.OperatorID)
}

func (m *TokenManager) parse(tokenStr string, secret []byte, subject string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithSubject(subject),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrTokenParseFailure
	}
	return token.Claims.(*Claims), nil
}
