package backendtest

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"todo-client/internal/domain"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Verified bool   `json:"verified"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type codeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type createTodoRequest struct {
	User        string `json:"user"`
	Tag         string `json:"tag"`
	Description string `json:"description"`
}

type updateTodoRequest struct {
	Tag         *string `json:"tag"`
	Description *string `json:"description"`
}

func (b *Backend) signup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Email) == "" || len(req.Password) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signup payload"})
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not hash password"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.users[req.Email]; exists {
		c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		return
	}
	b.users[req.Email] = &user{
		id:           uuid.NewString(),
		email:        req.Email,
		passwordHash: hash,
		verified:     req.Verified,
	}
	c.JSON(http.StatusCreated, gin.H{"message": "user created"})
}

func (b *Backend) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid login payload"})
		return
	}

	b.mu.Lock()
	u, ok := b.users[req.Email]
	var snapshot user
	if ok {
		snapshot = *u
	}
	b.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(snapshot.passwordHash, []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := b.signToken(&snapshot)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (b *Backend) requestVerify(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email"})
		return
	}
	code, err := generateOTP()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate code"})
		return
	}
	if err := b.mailbox.SendVerificationOTP(c.Request.Context(), req.Email, code, b.now().Add(b.otpTTL)); err != nil {
		b.logger.Warn("otp not delivered", zap.String("email", req.Email), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not send code"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "code_sent"})
}

func (b *Backend) verifyCode(c *gin.Context) {
	var req codeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if !b.mailbox.consume(req.Email, req.Code) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired code"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"verified": true})
}

func (b *Backend) verifyUser(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email payload"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[req.Email]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	u.verified = true
	c.JSON(http.StatusOK, gin.H{"status": "verified"})
}

// listTodos responde null cuando el usuario no tiene todos, igual que el servidor real.
func (b *Backend) listTodos(c *gin.Context) {
	email := c.Param("user")

	b.mu.Lock()
	var snapshot []domain.Todo
	for _, t := range b.todos {
		if t.User == email {
			snapshot = append(snapshot, t)
		}
	}
	hook := b.onList
	b.mu.Unlock()

	if hook != nil {
		hook(email, snapshot)
	}
	c.JSON(http.StatusOK, snapshot)
}

func (b *Backend) createTodo(c *gin.Context) {
	var req createTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.User == "" || req.Tag == "" || req.Description == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user, tag and description are required"})
		return
	}
	todo := domain.Todo{
		ID:          uuid.NewString(),
		User:        req.User,
		Date:        b.now().UTC().Format(time.RFC3339),
		Tag:         req.Tag,
		Description: req.Description,
	}
	b.mu.Lock()
	b.todos = append(b.todos, todo)
	b.mu.Unlock()
	c.JSON(http.StatusCreated, gin.H{"InsertedID": todo.ID})
}

func (b *Backend) updateTodo(c *gin.Context) {
	id := c.Param("id")
	var req updateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Tag == nil && req.Description == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no fields to update"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.todos {
		if b.todos[i].ID != id {
			continue
		}
		if req.Tag != nil {
			b.todos[i].Tag = *req.Tag
		}
		if req.Description != nil {
			b.todos[i].Description = *req.Description
		}
		c.JSON(http.StatusOK, gin.H{"updatedId": id, "modifiedCount": 1})
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "todo not found"})
}

func (b *Backend) deleteTodo(c *gin.Context) {
	id := c.Param("id")
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.todos {
		if b.todos[i].ID == id {
			b.todos = append(b.todos[:i], b.todos[i+1:]...)
			c.JSON(http.StatusOK, gin.H{"deletedId": id})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "todo not found"})
}
