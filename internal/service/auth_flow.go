package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"todo-client/internal/api"
	"todo-client/internal/domain"
)

const (
	msgLoginOK       = "Logged in successfully!"
	msgLoginFailed   = "Login failed"
	msgSignupOK      = "Account created successfully! Login to the App."
	msgSignupFailed  = "Signup failed"
	msgPasswordMatch = "Passwords do not match"
)

// DefaultRedirectDelay es la pausa entre el login exitoso y la vista de todos.
const DefaultRedirectDelay = 500 * time.Millisecond

type AuthState int

const (
	AuthIdle AuthState = iota
	AuthSubmitting
	AuthSucceeded
	AuthFailed
)

func (s AuthState) String() string {
	switch s {
	case AuthSubmitting:
		return "submitting"
	case AuthSucceeded:
		return "success"
	case AuthFailed:
		return "failed"
	default:
		return "idle"
	}
}

type Tab string

const (
	TabLogin    Tab = "login"
	TabRegister Tab = "register"
)

// Feedback es el unico mensaje visible del formulario: error o exito, nunca ambos.
type Feedback struct {
	Error   string
	Success string
}

// AuthFlow maneja login y registro. Cada envio es independiente.
type AuthFlow struct {
	api           AuthAPI
	session       SessionWriter
	nav           domain.Navigator
	logger        *zap.Logger
	redirectDelay time.Duration

	mu       sync.Mutex
	state    AuthState
	tab      Tab
	feedback Feedback
}

func NewAuthFlow(authAPI AuthAPI, session SessionWriter, nav domain.Navigator, logger *zap.Logger, redirectDelay time.Duration) *AuthFlow {
	if logger == nil {
		logger = zap.NewNop()
	}
	if nav == nil {
		nav = domain.NavigatorFunc(func(domain.Route) {})
	}
	if redirectDelay < 0 {
		redirectDelay = 0
	}
	return &AuthFlow{
		api:           authAPI,
		session:       session,
		nav:           nav,
		logger:        logger,
		redirectDelay: redirectDelay,
		tab:           TabLogin,
	}
}

// Login autentica, guarda el token y tras redirectDelay navega a /todos.
// Si ctx se cancela durante la espera no navega.
func (f *AuthFlow) Login(ctx context.Context, email, password string) error {
	f.begin()

	token, err := f.api.Login(ctx, email, password)
	if err != nil {
		f.logger.Warn("login failed", zap.String("email", email), zap.Error(err))
		f.fail(api.ErrorMessage(err, msgLoginFailed))
		return err
	}
	if err := f.session.Save(ctx, token); err != nil {
		f.logger.Warn("login session not saved", zap.Error(err))
		f.fail(msgLoginFailed)
		return err
	}
	f.succeed(msgLoginOK)

	if f.redirectDelay > 0 {
		timer := time.NewTimer(f.redirectDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}
	}
	f.nav.Navigate(domain.RouteTodos)
	return nil
}

// Signup registra al usuario. No inicia sesion.
func (f *AuthFlow) Signup(ctx context.Context, email, password, confirmPassword string) error {
	f.begin()

	if password != confirmPassword {
		f.fail(msgPasswordMatch)
		return domain.ErrPasswordMismatch
	}
	if err := f.api.Signup(ctx, email, password); err != nil {
		f.logger.Warn("signup failed", zap.String("email", email), zap.Error(err))
		f.fail(api.ErrorMessage(err, msgSignupFailed))
		return err
	}
	f.succeed(msgSignupOK)
	return nil
}

// Logout borra la sesion y vuelve al login.
func (f *AuthFlow) Logout(ctx context.Context) error {
	if err := f.session.Clear(ctx); err != nil {
		return err
	}
	f.mu.Lock()
	f.state = AuthIdle
	f.feedback = Feedback{}
	f.mu.Unlock()
	f.nav.Navigate(domain.RouteLogin)
	return nil
}

// SwitchTab cambia entre login y registro y limpia el feedback.
func (f *AuthFlow) SwitchTab(tab Tab) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tab = tab
	f.feedback = Feedback{}
	f.state = AuthIdle
}

func (f *AuthFlow) Tab() Tab {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tab
}

func (f *AuthFlow) Feedback() Feedback {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.feedback
}

func (f *AuthFlow) State() AuthState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *AuthFlow) begin() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.feedback = Feedback{}
	f.state = AuthSubmitting
}

func (f *AuthFlow) fail(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.feedback = Feedback{Error: msg}
	f.state = AuthFailed
}

func (f *AuthFlow) succeed(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.feedback = Feedback{Success: msg}
	f.state = AuthSucceeded
}
