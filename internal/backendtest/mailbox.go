package backendtest

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"
)

// Message es un correo de verificacion capturado.
type Message struct {
	To        string
	Code      string
	ExpiresAt time.Time
}

// Mailbox reemplaza al envio SMTP: guarda los codigos en memoria.
type Mailbox struct {
	now func() time.Time

	mu       sync.Mutex
	messages []Message
	pending  map[string]Message
}

func NewMailbox(now func() time.Time) *Mailbox {
	if now == nil {
		now = time.Now
	}
	return &Mailbox{now: now, pending: make(map[string]Message)}
}

// SendVerificationOTP registra el codigo vigente para toEmail.
func (m *Mailbox) SendVerificationOTP(_ context.Context, toEmail, code string, expiresAt time.Time) error {
	if strings.TrimSpace(toEmail) == "" {
		return fmt.Errorf("to email is required")
	}
	msg := Message{To: toEmail, Code: code, ExpiresAt: expiresAt}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	m.pending[toEmail] = msg
	return nil
}

// LastCode devuelve el ultimo codigo enviado a email.
func (m *Mailbox) LastCode(email string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.messages) - 1; i >= 0; i-- {
		if m.messages[i].To == email {
			return m.messages[i].Code, true
		}
	}
	return "", false
}

func (m *Mailbox) Messages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.messages...)
}

// consume valida y gasta el codigo vigente de email.
func (m *Mailbox) consume(email, code string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.pending[email]
	if !ok || msg.Code != code {
		return false
	}
	delete(m.pending, email)
	return m.now().Before(msg.ExpiresAt)
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
