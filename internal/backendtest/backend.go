// Package backendtest es un backend en memoria con el mismo contrato REST que
// el servidor de todos. Solo sirve para pruebas.
package backendtest

import (
	"net/http/httptest"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"todo-client/internal/domain"
)

// DefaultSecret firma los tokens si Options.Secret esta vacio.
const DefaultSecret = "backendtest-secret"

// DefaultOTPTTL es la vida de un codigo OTP emitido.
const DefaultOTPTTL = 5 * time.Minute

// ListHook se invoca en GET /todos/:user despues de tomar la foto de la
// coleccion y antes de responder. Puede bloquear.
type ListHook func(email string, snapshot []domain.Todo)

type Options struct {
	Secret   string
	TokenTTL time.Duration
	OTPTTL   time.Duration
	Logger   *zap.Logger
	Now      func() time.Time

	// RequireBearer protege las rutas de todos con el token de /login.
	RequireBearer bool
}

type user struct {
	id           string
	email        string
	passwordHash []byte
	verified     bool
}

type failure struct {
	status  int
	message string
}

// Backend guarda usuarios, todos y codigos OTP en memoria.
type Backend struct {
	secret   []byte
	tokenTTL time.Duration
	otpTTL   time.Duration
	logger   *zap.Logger
	now      func() time.Time
	mailbox  *Mailbox
	bearer   bool

	mu       sync.Mutex
	users    map[string]*user
	todos    []domain.Todo
	failures map[string]failure
	onList   ListHook
}

func New(opts Options) *Backend {
	if opts.Secret == "" {
		opts.Secret = DefaultSecret
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	if opts.OTPTTL <= 0 {
		opts.OTPTTL = DefaultOTPTTL
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Backend{
		secret:   []byte(opts.Secret),
		tokenTTL: opts.TokenTTL,
		otpTTL:   opts.OTPTTL,
		logger:   opts.Logger,
		now:      opts.Now,
		mailbox:  NewMailbox(opts.Now),
		bearer:   opts.RequireBearer,
		users:    make(map[string]*user),
		failures: make(map[string]failure),
	}
}

// Router arma el router de gin con las nueve rutas del contrato.
func (b *Backend) Router() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(zapLoggerMiddleware(b.logger), gin.Recovery(), b.failureMiddleware())

	r.POST("/signup", b.signup)
	r.POST("/login", b.login)

	r.POST("/request-verify", b.requestVerify)
	r.POST("/verify-code", b.verifyCode)
	r.POST("/verify-user", b.verifyUser)

	todos := r.Group("/todos")
	if b.bearer {
		todos.Use(b.bearerAuth())
	}
	todos.GET("/:user", b.listTodos)
	todos.POST("", b.createTodo)
	todos.PUT("/:id", b.updateTodo)
	todos.DELETE("/:id", b.deleteTodo)
	return r
}

// Start levanta el backend en un httptest.Server. El llamador debe cerrarlo.
func (b *Backend) Start() *httptest.Server {
	return httptest.NewServer(b.Router())
}

// Mailbox expone los codigos OTP "enviados".
func (b *Backend) Mailbox() *Mailbox {
	return b.mailbox
}

// OnList instala un hook para GET /todos/:user. nil lo quita.
func (b *Backend) OnList(hook ListHook) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onList = hook
}

// FailNext hace que la proxima peticion a method+route responda status.
// route es el patron de gin, por ejemplo "/todos/:id".
func (b *Backend) FailNext(method, route string, status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method+" "+route] = failure{status: status, message: message}
}

// Todos devuelve la coleccion completa en orden de insercion.
func (b *Backend) Todos() []domain.Todo {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]domain.Todo(nil), b.todos...)
}

// Verified informa el estado de verificacion guardado para email.
func (b *Backend) Verified(email string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[email]
	return ok && u.verified
}

func (b *Backend) failureMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Request.Method + " " + c.FullPath()
		b.mu.Lock()
		f, ok := b.failures[key]
		if ok {
			delete(b.failures, key)
		}
		b.mu.Unlock()
		if ok {
			if f.message == "" {
				c.AbortWithStatus(f.status)
				return
			}
			c.AbortWithStatusJSON(f.status, gin.H{"error": f.message})
			return
		}
		c.Next()
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("backendtest request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// AddUser registra un usuario sin pasar por /signup.
func (b *Backend) AddUser(email, password string, verified bool) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.users[email] = &user{id: uuid.NewString(), email: email, passwordHash: hash, verified: verified}
	return nil
}

// AddTodo inserta un todo con id nuevo y lo devuelve.
func (b *Backend) AddTodo(email, tag, description string) domain.Todo {
	todo := domain.Todo{
		ID:          uuid.NewString(),
		User:        email,
		Date:        b.now().UTC().Format(time.RFC3339),
		Tag:         tag,
		Description: description,
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.todos = append(b.todos, todo)
	return todo
}
