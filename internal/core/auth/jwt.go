package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrEmptySecret  = errors.New("jwt secret is empty")
)

type Claims struct {
	UID  string `json:"uid"`
	Role string `json:"role"` // "admin" or "regular"
	jwt.RegisteredClaims
}

type JWTer struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
}

func NewJWTer(secret, issuer string, ttl time.Duration) *JWTer {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &JWTer{Secret: []byte(secret), Issuer: issuer, TTL: ttl}
}

func (j *JWTer) Issue(uid, role string) (string, error) {
	if len(j.Secret) == 0 {
		return "", ErrEmptySecret
	}
	now := time.Now()
	claims := Claims{
		UID:  uid,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.Issuer,
			Subject:   uid,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

// IssueForUser 多角色时优先 admin
func (j *JWTer) IssueForUser(id uint, roles []string) (string, error) {
	role := ""
	for _, r := range roles {
		if r == "admin" {
			role = r
			break
		}
		if role == "" {
			role = r
		}
	}
	return j.Issue(strconv.FormatUint(uint64(id), 10), role)
}

func (j *JWTer) Parse(tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected alg %v", token.Header["alg"])
		}
		return j.Secret, nil
	}, jwt.WithIssuer(j.Issuer), jwt.WithLeeway(60*time.Second))

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if c, ok := t.Claims.(*Claims); ok && t.Valid {
		return c, nil
	}
	return nil, ErrInvalidToken
}
