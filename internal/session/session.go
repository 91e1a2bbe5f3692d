package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"todo-client/internal/domain"
)

// DefaultKey es la clave bajo la que se guarda el token.
const DefaultKey = "jwt"

var (
	// ErrMissingCredential indica que no hay sesion iniciada.
	ErrMissingCredential = errors.New("missing credential")
	// ErrTokenDecode indica un token guardado que no se puede leer.
	ErrTokenDecode = errors.New("token decode failed")
)

// Store es el unico punto de acceso a la credencial persistida.
// Lee el token en cada llamada; no lo cachea.
type Store struct {
	tokens TokenStore
	logger *zap.Logger
}

func NewStore(tokens TokenStore, logger *zap.Logger) *Store {
	if tokens == nil {
		tokens = NewMemoryTokenStore()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{tokens: tokens, logger: logger}
}

// Save persiste el token hasta que se llame a Clear.
func (s *Store) Save(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrMissingCredential
	}
	if err := s.tokens.Save(ctx, token); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.logger.Debug("session saved")
	return nil
}

// Token devuelve el token guardado o ErrMissingCredential.
func (s *Store) Token(ctx context.Context) (string, error) {
	token, err := s.tokens.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrNoToken) {
			return "", ErrMissingCredential
		}
		return "", fmt.Errorf("load session: %w", err)
	}
	return token, nil
}

// CurrentIdentity decodifica el token guardado. No comprueba expiracion:
// un token vencido sigue valiendo hasta que el backend lo rechace.
func (s *Store) CurrentIdentity(ctx context.Context) (domain.Identity, error) {
	token, err := s.Token(ctx)
	if err != nil {
		return domain.Identity{}, err
	}
	identity, err := DecodeIdentity(token)
	if err != nil {
		s.logger.Warn("stored token unreadable", zap.Error(err))
		return domain.Identity{}, err
	}
	return identity, nil
}

// Clear borra el token.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.tokens.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.logger.Debug("session cleared")
	return nil
}
