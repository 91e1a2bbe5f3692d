package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"todo-client/internal/api"
	"todo-client/internal/config"
	"todo-client/internal/domain"
	"todo-client/internal/service"
	"todo-client/internal/session"
	"todo-client/internal/view"
)

// app agrupa las dependencias compartidas por los comandos.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	session  *session.Store
	client   *api.Client
	renderer *view.Renderer
	in       *bufio.Reader
	stdin    io.Reader
	route    domain.Route
	closers  []func()
}

func newApp(cfg *config.Config, in io.Reader, out io.Writer) (*app, error) {
	logger, err := newLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	a := &app{
		cfg:      cfg,
		logger:   logger,
		renderer: view.NewRenderer(out),
		in:       bufio.NewReader(in),
		stdin:    in,
		route:    domain.RouteRoot,
	}
	a.closers = append(a.closers, func() { _ = logger.Sync() })

	tokens, err := a.tokenStore()
	if err != nil {
		return nil, err
	}
	a.session = session.NewStore(tokens, logger.Named("session"))
	a.client = api.NewClient(cfg.APIURL, &http.Client{Timeout: cfg.HTTPTimeout}, a.session, logger.Named("api"))
	return a, nil
}

func (a *app) tokenStore() (session.TokenStore, error) {
	switch strings.ToLower(strings.TrimSpace(a.cfg.SessionStore)) {
	case "memory":
		return session.NewMemoryTokenStore(), nil
	case "redis":
		if a.cfg.RedisAddr == "" {
			return nil, errors.New("REDIS_ADDR is required for the redis session store")
		}
		client := redis.NewClient(&redis.Options{
			Addr:     a.cfg.RedisAddr,
			Password: a.cfg.RedisPassword,
			DB:       a.cfg.RedisDB,
		})
		a.closers = append(a.closers, func() { _ = client.Close() })
		return session.NewRedisTokenStore(client, a.cfg.SessionKey), nil
	case "", "file":
		return session.NewFileTokenStore(a.cfg.SessionFile, a.cfg.SessionKey), nil
	default:
		return nil, fmt.Errorf("unknown session store %q", a.cfg.SessionStore)
	}
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// Navigate implementa domain.Navigator para la vista de terminal.
func (a *app) Navigate(route domain.Route) {
	a.logger.Debug("navigate", zap.String("route", string(route)))
	a.route = route
}

func (a *app) guard() *service.Guard {
	return service.NewGuard(a.session, a, a.logger.Named("guard"))
}

func (a *app) authFlow() *service.AuthFlow {
	return service.NewAuthFlow(a.client, a.session, a, a.logger.Named("auth"), a.cfg.RedirectDelay)
}

func (a *app) todoManager() *service.TodoManager {
	return service.NewTodoManager(a.client, a.session, a.renderer, a.logger.Named("todos"))
}

// requireIdentity es el guard de los comandos que necesitan sesion.
func (a *app) requireIdentity(ctx context.Context) (domain.Identity, error) {
	identity, err := a.guard().RequireIdentity(ctx)
	if err != nil {
		a.renderer.Notice(domain.Notice{Channel: domain.ChannelInline, Level: domain.LevelError, Message: "Not logged in. Run: todo login"})
		return domain.Identity{}, err
	}
	return identity, nil
}

func (a *app) login(ctx context.Context, email string) error {
	email, password, err := a.askCredentials(email)
	if err != nil {
		return err
	}
	flow := a.authFlow()
	err = flow.Login(ctx, email, password)
	a.renderer.Feedback(flow.Feedback())
	return err
}

func (a *app) signup(ctx context.Context, email string) error {
	email, password, err := a.askCredentials(email)
	if err != nil {
		return err
	}
	confirm, err := a.readPassword("Confirm password: ")
	if err != nil {
		return err
	}
	flow := a.authFlow()
	flow.SwitchTab(service.TabRegister)
	err = flow.Signup(ctx, email, password, confirm)
	a.renderer.Feedback(flow.Feedback())
	return err
}

func (a *app) logout(ctx context.Context) error {
	if err := a.authFlow().Logout(ctx); err != nil {
		return err
	}
	a.renderer.Println("Logged out.")
	return nil
}

func (a *app) whoami(ctx context.Context) error {
	identity, err := a.requireIdentity(ctx)
	if err != nil {
		return err
	}
	a.renderer.Identity(identity.Email, identity.Verified)
	return nil
}

func (a *app) listTodos(ctx context.Context) error {
	if _, err := a.requireIdentity(ctx); err != nil {
		return err
	}
	mgr := a.todoManager()
	err := mgr.Mount(ctx)
	a.renderer.Todos(mgr.Items(), mgr.Error())
	return err
}

func (a *app) addTodo(ctx context.Context, tag, description string) error {
	if _, err := a.requireIdentity(ctx); err != nil {
		return err
	}
	var err error
	if tag == "" {
		if tag, err = a.readLine("Tag: "); err != nil {
			return err
		}
	}
	if description == "" {
		if description, err = a.readLine("Description: "); err != nil {
			return err
		}
	}
	mgr := a.todoManager()
	if err := mgr.Create(ctx, tag, description); err != nil {
		return err
	}
	a.renderer.Todos(mgr.Items(), mgr.Error())
	return nil
}

func (a *app) editTodo(ctx context.Context, pos, tag, description string) error {
	if _, err := a.requireIdentity(ctx); err != nil {
		return err
	}
	mgr := a.todoManager()
	if err := mgr.Mount(ctx); err != nil {
		return err
	}
	return a.editAt(ctx, mgr, pos, tag, description)
}

func (a *app) editAt(ctx context.Context, mgr *service.TodoManager, pos, tag, description string) error {
	todo, err := todoAt(mgr.Items(), pos)
	if err != nil {
		return err
	}
	if err := mgr.OpenEdit(todo.ID); err != nil {
		return err
	}
	if tag == "" {
		if tag, err = a.readLineDefault("Tag", todo.Tag); err != nil {
			mgr.CloseEdit()
			return err
		}
	}
	if description == "" {
		if description, err = a.readLineDefault("Description", todo.Description); err != nil {
			mgr.CloseEdit()
			return err
		}
	}
	mgr.SetEditFields(tag, description)
	if err := mgr.SaveEdit(ctx); err != nil {
		return err
	}
	a.renderer.Todos(mgr.Items(), mgr.Error())
	return nil
}

func (a *app) removeTodo(ctx context.Context, pos string) error {
	if _, err := a.requireIdentity(ctx); err != nil {
		return err
	}
	mgr := a.todoManager()
	if err := mgr.Mount(ctx); err != nil {
		return err
	}
	return a.removeAt(ctx, mgr, pos)
}

func (a *app) removeAt(ctx context.Context, mgr *service.TodoManager, pos string) error {
	todo, err := todoAt(mgr.Items(), pos)
	if err != nil {
		return err
	}
	if err := mgr.Remove(ctx, todo.ID); err != nil {
		return err
	}
	a.renderer.Todos(mgr.Items(), mgr.Error())
	return nil
}

// todoAt resuelve una posicion 1-based de la lista visible.
func todoAt(items []domain.Todo, pos string) (domain.Todo, error) {
	n, err := strconv.Atoi(strings.TrimSpace(pos))
	if err != nil || n < 1 || n > len(items) {
		return domain.Todo{}, fmt.Errorf("%w: no todo at position %q", service.ErrTodoNotFound, pos)
	}
	return items[n-1], nil
}

func joinArgs(args []string, from int) string {
	if from >= len(args) {
		return ""
	}
	return strings.Join(args[from:], " ")
}
