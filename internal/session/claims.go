package session

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"todo-client/internal/domain"
)

// Claims es el payload que emite el backend en POST /login.
type Claims struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Verified bool   `json:"verified"`
	jwt.RegisteredClaims
}

// DecodeIdentity lee los claims del token sin verificar la firma.
// El resultado solo sirve para mostrar datos y enrutar.
func DecodeIdentity(token string) (domain.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Identity{}, ErrMissingCredential
	}
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %v", ErrTokenDecode, err)
	}
	if strings.TrimSpace(claims.Email) == "" {
		return domain.Identity{}, fmt.Errorf("%w: missing email claim", ErrTokenDecode)
	}
	return domain.Identity{
		UserID:   claims.UserID,
		Email:    claims.Email,
		Verified: claims.Verified,
	}, nil
}
