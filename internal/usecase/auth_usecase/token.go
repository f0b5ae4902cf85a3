package auth

import (
	"errors"
	"fmt"
	"time"

	"estore/internal/domain/model"

	"github.com/golang-jwt/jwt/v5"
)

// 期限切れ・改ざん・形式不正はすべてこれ
var ErrInvalidToken = errors.New("invalid token")

// 現在の時間
type Clock interface {
	Now() time.Time
}

// UUID 等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

// アクセストークンのclaims。subはusername
type Claims struct {
	UserID       int64  `json:"uid"`
	Role         string `json:"role"`
	TokenVersion int    `json:"tv"`
	jwt.RegisteredClaims
}

func (c Claims) Identity() model.Identity {
	return model.Identity{
		UserID:   c.UserID,
		Username: c.Subject,
		Role:     model.Role(c.Role),
	}
}

// HS256で署名・検証する
type TokenService struct {
	secret []byte
	ttl    time.Duration
	clock  Clock
	idGen  IDGenerator
}

func NewTokenService(secret string, ttl time.Duration, clock Clock, idGen IDGenerator) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		clock:  clock,
		idGen:  idGen,
	}
}

// トークン発行
func (s *TokenService) Issue(user model.User) (string, time.Time, error) {
	now := s.clock.Now()
	expiresAt := now.Add(s.ttl)

	claims := Claims{
		UserID:       user.ID,
		Role:         string(user.Role),
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			ID:        s.idGen.NewID(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// トークン検証。HS256以外・期限なし・期限切れは弾く
func (s *TokenService) Parse(raw string) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock.Now),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID <= 0 || claims.Subject == "" || !model.Role(claims.Role).Valid() {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}
