package main

import (
	"context"
	"errors"
	"io"
	"strings"

	"go.uber.org/zap"

	"todo-client/internal/domain"
	"todo-client/internal/service"
)

const todosHelp = `Commands:
  list                 reload the list
  add                  add a todo
  edit <n>             edit the todo at position n
  rm <n>               delete the todo at position n
  verify               verify your email
  logout               end the session
  quit                 leave the shell`

// shell recorre las tres rutas hasta que el usuario sale o se cierra stdin.
func (a *app) shell(ctx context.Context) error {
	auth := a.authFlow()
	a.route = a.guard().Resolve(ctx, domain.RouteRoot)
	for {
		var (
			quit bool
			err  error
		)
		switch a.guard().Resolve(ctx, a.route) {
		case domain.RouteTodos:
			quit, err = a.todosView(ctx)
		default:
			a.route = domain.RouteLogin
			quit, err = a.loginView(ctx, auth)
		}
		if quit || errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil && ctx.Err() != nil {
			return err
		}
		if err != nil {
			a.logger.Debug("shell action failed", zap.Error(err))
		}
	}
}

func (a *app) loginView(ctx context.Context, auth *service.AuthFlow) (bool, error) {
	a.renderer.Println("")
	if auth.Tab() == service.TabRegister {
		a.renderer.Println("== Register ==  (l) switch to login  (q) quit")
	} else {
		a.renderer.Println("== Login ==  (r) switch to register  (q) quit")
	}
	choice, err := a.readLine("Email: ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(choice) {
	case "q", "quit":
		return true, nil
	case "r":
		auth.SwitchTab(service.TabRegister)
		return false, nil
	case "l":
		auth.SwitchTab(service.TabLogin)
		return false, nil
	}

	password, err := a.readPassword("Password: ")
	if err != nil {
		return false, err
	}
	if auth.Tab() == service.TabRegister {
		confirm, err := a.readPassword("Confirm password: ")
		if err != nil {
			return false, err
		}
		err = auth.Signup(ctx, choice, password, confirm)
		a.renderer.Feedback(auth.Feedback())
		return false, err
	}
	err = auth.Login(ctx, choice, password)
	a.renderer.Feedback(auth.Feedback())
	return false, err
}

func (a *app) todosView(ctx context.Context) (bool, error) {
	identity, err := a.guard().RequireIdentity(ctx)
	if err != nil {
		return false, err
	}
	mgr := a.todoManager()
	flow := a.verificationFlow()
	defer flow.Close()
	flow.Mount(identity)
	_ = mgr.Mount(ctx)

	for a.route == domain.RouteTodos {
		a.renderer.Println("")
		a.renderer.Identity(identity.Email, flow.Verified())
		a.renderer.Todos(mgr.Items(), mgr.Error())

		line, err := a.readLine("> ")
		if err != nil {
			return false, err
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		arg := ""
		if len(fields) > 1 {
			arg = fields[1]
		}

		switch strings.ToLower(fields[0]) {
		case "list", "refresh":
			_ = mgr.List(ctx, identity.Email)
		case "add":
			err = a.shellAdd(ctx, mgr)
		case "edit":
			err = a.editAt(ctx, mgr, arg, "", "")
		case "rm", "delete":
			err = a.removeAt(ctx, mgr, arg)
		case "verify":
			err = a.runVerification(ctx, flow, identity.Email)
		case "logout":
			return false, a.logout(ctx)
		case "q", "quit", "exit":
			return true, nil
		default:
			a.renderer.Println(todosHelp)
		}
		if errors.Is(err, io.EOF) {
			return false, err
		}
		if errors.Is(err, service.ErrTodoNotFound) {
			a.renderer.Println("No todo at that position.")
		}
	}
	return false, nil
}

// shellAdd usa el formulario de alta: si el guardado falla, lo escrito se
// ofrece de nuevo en el siguiente intento.
func (a *app) shellAdd(ctx context.Context, mgr *service.TodoManager) error {
	mgr.OpenAdd()
	draft := mgr.AddPrompt()
	tag, err := a.readLineDefault("Tag", draft.Tag)
	if err != nil {
		mgr.CancelAdd()
		return err
	}
	description, err := a.readLineDefault("Description", draft.Description)
	if err != nil {
		mgr.CancelAdd()
		return err
	}
	mgr.SetAddFields(tag, description)
	return mgr.SubmitAdd(ctx)
}
