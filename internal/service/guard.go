package service

import (
	"context"

	"go.uber.org/zap"

	"todo-client/internal/domain"
)

// Guard protege las vistas que necesitan sesion. Sin identidad legible
// navega a /login en lugar de fallar.
type Guard struct {
	identity IdentitySource
	nav      domain.Navigator
	logger   *zap.Logger
}

func NewGuard(identity IdentitySource, nav domain.Navigator, logger *zap.Logger) *Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	if nav == nil {
		nav = domain.NavigatorFunc(func(domain.Route) {})
	}
	return &Guard{identity: identity, nav: nav, logger: logger}
}

// RequireIdentity devuelve la identidad actual o redirige al login.
func (g *Guard) RequireIdentity(ctx context.Context) (domain.Identity, error) {
	identity, err := g.identity.CurrentIdentity(ctx)
	if err != nil {
		g.logger.Debug("no usable session, redirecting to login", zap.Error(err))
		g.nav.Navigate(domain.RouteLogin)
		return domain.Identity{}, err
	}
	return identity, nil
}

// Resolve decide la vista final para una ruta pedida.
func (g *Guard) Resolve(ctx context.Context, route domain.Route) domain.Route {
	switch route {
	case domain.RouteLogin:
		return domain.RouteLogin
	case domain.RouteTodos, domain.RouteRoot:
		if _, err := g.identity.CurrentIdentity(ctx); err != nil {
			return domain.RouteLogin
		}
		return domain.RouteTodos
	default:
		return domain.RouteLogin
	}
}
