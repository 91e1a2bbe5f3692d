package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"todo-client/internal/domain"
)

// DefaultBaseURL es la direccion del backend cuando no se configura otra.
const DefaultBaseURL = "http://localhost:8000"

var (
	// ErrNetwork envuelve fallos de transporte (backend caido, DNS, timeout).
	ErrNetwork = errors.New("network error")
	// ErrMissingToken indica un login 2xx sin campo token.
	ErrMissingToken = errors.New("login response without token")
)

// RequestError es una respuesta no-2xx del backend.
type RequestError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed: %s %s: status=%d", e.Method, e.Path, e.Status)
	}
	return fmt.Sprintf("request failed: %s %s: status=%d: %s", e.Method, e.Path, e.Status, e.Message)
}

// ErrorMessage devuelve el mensaje que envio el backend o fallback.
func ErrorMessage(err error, fallback string) string {
	var reqErr *RequestError
	if errors.As(err, &reqErr) && strings.TrimSpace(reqErr.Message) != "" {
		return reqErr.Message
	}
	return fallback
}

// TokenSource entrega el token bearer actual, si lo hay.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client habla con el backend de todos via JSON sobre HTTP.
type Client struct {
	baseURL string
	client  *http.Client
	tokens  TokenSource
	logger  *zap.Logger
}

// NewClient construye un cliente. tokens puede ser nil.
func NewClient(baseURL string, httpClient *http.Client, tokens TokenSource, logger *zap.Logger) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
		tokens:  tokens,
		logger:  logger,
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Verified bool   `json:"verified"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type codeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Login envia credenciales y devuelve el token emitido.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/login", credentials{Email: email, Password: password}, &resp); err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.Token) == "" {
		return "", ErrMissingToken
	}
	return resp.Token, nil
}

// Signup registra un usuario nuevo, siempre sin verificar.
func (c *Client) Signup(ctx context.Context, email, password string) error {
	return c.do(ctx, http.MethodPost, "/signup", signupRequest{Email: email, Password: password, Verified: false}, nil)
}

// ListTodos devuelve los todos del usuario en el orden del backend.
// Un cuerpo null se devuelve como slice nil.
func (c *Client) ListTodos(ctx context.Context, email string) ([]domain.Todo, error) {
	var todos []domain.Todo
	if err := c.do(ctx, http.MethodGet, "/todos/"+url.PathEscape(email), nil, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

func (c *Client) CreateTodo(ctx context.Context, in domain.TodoInput) error {
	return c.do(ctx, http.MethodPost, "/todos", in, nil)
}

func (c *Client) UpdateTodo(ctx context.Context, id string, update domain.TodoUpdate) error {
	return c.do(ctx, http.MethodPut, "/todos/"+url.PathEscape(id), update, nil)
}

func (c *Client) DeleteTodo(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/todos/"+url.PathEscape(id), nil, nil)
}

// RequestVerification pide al backend que envie un OTP al email.
func (c *Client) RequestVerification(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/request-verify", emailRequest{Email: email}, nil)
}

// VerifyCode comprueba el OTP ingresado.
func (c *Client) VerifyCode(ctx context.Context, email, code string) error {
	return c.do(ctx, http.MethodPost, "/verify-code", codeRequest{Email: email, Code: code}, nil)
}

// VerifyUser marca el usuario como verificado en el backend.
func (c *Client) VerifyUser(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/verify-user", emailRequest{Email: email}, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.tokens != nil {
		if token, err := c.tokens.Token(ctx); err == nil && token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("backend unreachable", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%w: %s %s: %w", ErrNetwork, method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %w", ErrNetwork, err)
	}

	c.logger.Debug("backend call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reqErr := &RequestError{Method: method, Path: path, Status: resp.StatusCode}
		var er errorResponse
		if json.Unmarshal(respBody, &er) == nil {
			reqErr.Message = strings.TrimSpace(er.Error)
		}
		return reqErr
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
