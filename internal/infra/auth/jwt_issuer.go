package auth

import (
	"strconv"
	"time"

	"delivery/internal/domain/model"

	"github.com/golang-jwt/jwt/v4"
)

const defaultAccessTTL = 60 * time.Minute

// HS256 の JWT を発行する。
// claims: sub(ユーザーID) / email / role / rid(レストランID) / tv(token_version)
type JWTIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func NewJWTIssuer(secret string, accessTTL time.Duration) *JWTIssuer {
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	return &JWTIssuer{secret: []byte(secret), accessTTL: accessTTL}
}

func (i *JWTIssuer) Issue(user model.User, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":   strconv.FormatInt(user.ID, 10),
		"email": user.Email,
		"role":  string(user.Role),
		"tv":    user.TokenVersion,
		"iat":   now.Unix(),
		"exp":   expiresAt.Unix(),
	}
	if user.RestaurantID != nil {
		claims["rid"] = *user.RestaurantID
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}
