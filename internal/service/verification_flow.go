package service

import (
	"context"
	"errors"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"

	"todo-client/internal/api"
	"todo-client/internal/domain"
)

const (
	// DefaultOTPSeconds es la duracion de la cuenta regresiva del OTP.
	DefaultOTPSeconds = 180
	// MaxCodeLength es el largo maximo del codigo que acepta el prompt.
	MaxCodeLength = 6
)

const (
	msgCodeSent         = "Verification code sent, check your email"
	msgCodeSendFailed   = "Failed to send verification code"
	msgCodeSendNetwork  = "Network error sending verification code"
	msgVerified         = "Email verified successfully!"
	msgVerifyUserFailed = "Failed to verify email try again after sometime!"
	msgInvalidCode      = "Invalid or expired OTP"
	msgVerifyNetwork    = "Network error verifying OTP"
)

// ErrAlreadyVerified se devuelve al pedir un OTP con la cuenta ya verificada.
var ErrAlreadyVerified = errors.New("account already verified")

type VerificationState int

const (
	VerifyIdle VerificationState = iota
	VerifyRequested
	VerifyCodeEntry
	VerifyVerified
	VerifyExpired
	VerifyCancelled
)

func (s VerificationState) String() string {
	switch s {
	case VerifyRequested:
		return "challengeRequested"
	case VerifyCodeEntry:
		return "codeEntry"
	case VerifyVerified:
		return "verified"
	case VerifyExpired:
		return "expired"
	case VerifyCancelled:
		return "cancelled"
	default:
		return "idle"
	}
}

// VerificationOptions configura VerificationFlow. Los ceros toman valores por defecto.
type VerificationOptions struct {
	Seconds   int
	NewTicker TickerFunc
	// OnTick recibe el tiempo restante en cada segundo. No debe llamar al flujo.
	OnTick func(remaining int)
}

// VerificationFlow pide un OTP, lleva la cuenta regresiva y envia el codigo.
// El indicador Verified se siembra desde el token al montar y despues solo
// cambia con una verificacion exitosa; el token no se vuelve a leer.
type VerificationFlow struct {
	api       VerificationAPI
	notifier  domain.Notifier
	logger    *zap.Logger
	countdown *Countdown
	seconds   int
	onTick    func(int)

	mu         sync.Mutex
	state      VerificationState
	promptOpen bool
	verified   bool
}

func NewVerificationFlow(verifyAPI VerificationAPI, notifier domain.Notifier, logger *zap.Logger, opts VerificationOptions) *VerificationFlow {
	if notifier == nil {
		notifier = domain.DiscardNotifier
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Seconds <= 0 {
		opts.Seconds = DefaultOTPSeconds
	}
	return &VerificationFlow{
		api:       verifyAPI,
		notifier:  notifier,
		logger:    logger,
		countdown: NewCountdown(opts.NewTicker),
		seconds:   opts.Seconds,
		onTick:    opts.OnTick,
	}
}

// Mount inicializa el indicador de verificacion con los claims del token.
func (f *VerificationFlow) Mount(identity domain.Identity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verified = identity.Verified
	f.state = VerifyIdle
}

// RequestChallenge pide un OTP para email. Si el backend acepta, abre el
// prompt y reinicia la cuenta a Seconds aunque ya hubiera una en curso.
func (f *VerificationFlow) RequestChallenge(ctx context.Context, email string) error {
	f.mu.Lock()
	if f.verified {
		f.mu.Unlock()
		return ErrAlreadyVerified
	}
	prev := f.state
	f.state = VerifyRequested
	f.mu.Unlock()

	if err := f.api.RequestVerification(ctx, email); err != nil {
		f.logger.Warn("request verification failed", zap.String("email", email), zap.Error(err))
		f.mu.Lock()
		if f.promptOpen {
			f.state = prev
		} else {
			f.state = VerifyIdle
		}
		f.mu.Unlock()
		if errors.Is(err, api.ErrNetwork) {
			f.toast(domain.LevelError, msgCodeSendNetwork)
		} else {
			f.toast(domain.LevelError, msgCodeSendFailed)
		}
		return err
	}

	f.countdown.Start(f.seconds, f.onTick)
	f.mu.Lock()
	f.promptOpen = true
	f.state = VerifyCodeEntry
	f.mu.Unlock()
	f.logger.Debug("verification prompt opened", zap.Int("seconds", f.seconds))
	f.toast(domain.LevelSuccess, msgCodeSent)
	return nil
}

// SubmitCode envia el codigo. Con la cuenta en 0 se rechaza sin tocar la red.
// Si el codigo es valido marca al usuario y cierra el prompt aunque esa
// segunda llamada falle.
func (f *VerificationFlow) SubmitCode(ctx context.Context, email, code string) error {
	f.mu.Lock()
	open := f.promptOpen
	f.mu.Unlock()
	if !open {
		return domain.ErrPromptClosed
	}
	if f.countdown.Remaining() == 0 {
		return domain.ErrChallengeExpired
	}
	if utf8.RuneCountInString(code) > MaxCodeLength {
		return domain.ErrCodeTooLong
	}

	if err := f.api.VerifyCode(ctx, email, code); err != nil {
		f.logger.Warn("verify code rejected", zap.String("email", email), zap.Error(err))
		if errors.Is(err, api.ErrNetwork) {
			f.toast(domain.LevelError, msgVerifyNetwork)
		} else {
			f.toast(domain.LevelError, api.ErrorMessage(err, msgInvalidCode))
		}
		return err
	}

	err := f.api.VerifyUser(ctx, email)
	f.countdown.Stop()
	f.mu.Lock()
	f.promptOpen = false
	if err != nil {
		f.state = VerifyIdle
	} else {
		f.state = VerifyVerified
		f.verified = true
	}
	f.mu.Unlock()

	if err != nil {
		f.logger.Warn("verify user failed", zap.String("email", email), zap.Error(err))
		f.toast(domain.LevelError, msgVerifyUserFailed)
		return err
	}
	f.toast(domain.LevelSuccess, msgVerified)
	return nil
}

// Cancel cierra el prompt sin llamar al backend.
func (f *VerificationFlow) Cancel() {
	f.countdown.Stop()
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.promptOpen {
		f.promptOpen = false
		f.state = VerifyCancelled
	}
}

// Close libera la cuenta regresiva al desmontar la vista.
func (f *VerificationFlow) Close() {
	f.countdown.Stop()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.promptOpen = false
}

func (f *VerificationFlow) State() VerificationState {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.promptOpen && f.state == VerifyCodeEntry && f.countdown.Remaining() == 0 {
		return VerifyExpired
	}
	return f.state
}

func (f *VerificationFlow) Remaining() int {
	return f.countdown.Remaining()
}

// CanSubmit es falso si el prompt esta cerrado o la cuenta llego a 0.
func (f *VerificationFlow) CanSubmit() bool {
	f.mu.Lock()
	open := f.promptOpen
	f.mu.Unlock()
	return open && f.countdown.Remaining() > 0
}

// CanRequest indica si el boton de verificar esta habilitado.
func (f *VerificationFlow) CanRequest() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.verified
}

func (f *VerificationFlow) PromptOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.promptOpen
}

// Verified es el indicador de la vista, no la verdad del servidor ni del token.
func (f *VerificationFlow) Verified() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.verified
}

func (f *VerificationFlow) toast(level domain.Level, msg string) {
	f.notifier.Notify(domain.Notice{Channel: domain.ChannelToast, Level: level, Message: msg})
}
