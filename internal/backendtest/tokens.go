package backendtest

import (
	"github.com/golang-jwt/jwt/v5"

	"todo-client/internal/session"
)

func (b *Backend) signToken(u *user) (string, error) {
	now := b.now().UTC()
	claims := session.Claims{
		UserID:   u.id,
		Email:    u.email,
		Verified: u.verified,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.id,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(b.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(b.secret)
}

// ParseToken valida la firma de un token emitido por este backend.
func (b *Backend) ParseToken(token string) (session.Claims, error) {
	var claims session.Claims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return b.secret, nil
	})
	if err != nil {
		return session.Claims{}, err
	}
	return claims, nil
}

// SignToken emite un token para un usuario ya registrado.
func (b *Backend) SignToken(email string) (string, bool) {
	b.mu.Lock()
	u, ok := b.users[email]
	var snapshot user
	if ok {
		snapshot = *u
	}
	b.mu.Unlock()
	if !ok {
		return "", false
	}
	token, err := b.signToken(&snapshot)
	if err != nil {
		return "", false
	}
	return token, true
}
