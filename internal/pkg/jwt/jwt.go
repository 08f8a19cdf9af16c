package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

const (
	RoleAuthor = "author"
	RoleReader = "reader"
)

// Claims carries the selected diary role. There is no account identity
// behind it, the token only pins down which mode the book was opened in.
type Claims struct {
	Role string `json:"role"`
	jwtlib.RegisteredClaims
}

func ValidRole(role string) bool {
	return role == RoleAuthor || role == RoleReader
}

func GenerateToken(role string, secret []byte, ttl time.Duration) (string, error) {
	if !ValidRole(role) {
		return "", errors.New("unknown role")
	}
	claims := Claims{
		Role: role,
		RegisteredClaims: jwtlib.RegisteredClaims{
			ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwtlib.NewNumericDate(time.Now()),
		},
	}
	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func ParseToken(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwtlib.ParseWithClaims(tokenString, &Claims{}, func(token *jwtlib.Token) (interface{}, error) {
		if token.Method.Alg() != jwtlib.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || !ValidRole(claims.Role) {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
