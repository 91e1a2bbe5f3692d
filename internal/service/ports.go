package service

import (
	"context"

	"todo-client/internal/domain"
)

// AuthAPI es la parte del backend que usa AuthFlow.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (string, error)
	Signup(ctx context.Context, email, password string) error
}

// VerificationAPI es la parte del backend que usa VerificationFlow.
type VerificationAPI interface {
	RequestVerification(ctx context.Context, email string) error
	VerifyCode(ctx context.Context, email, code string) error
	VerifyUser(ctx context.Context, email string) error
}

// TodoAPI es la parte del backend que usa TodoManager.
type TodoAPI interface {
	ListTodos(ctx context.Context, email string) ([]domain.Todo, error)
	CreateTodo(ctx context.Context, in domain.TodoInput) error
	UpdateTodo(ctx context.Context, id string, update domain.TodoUpdate) error
	DeleteTodo(ctx context.Context, id string) error
}

// IdentitySource lee la identidad de la sesion actual.
type IdentitySource interface {
	CurrentIdentity(ctx context.Context) (domain.Identity, error)
}

// SessionWriter es la capacidad de sesion completa que recibe AuthFlow.
type SessionWriter interface {
	IdentitySource
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}
