package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"todo-client/internal/config"
)

// Version se fija con ldflags al compilar.
var Version = "dev"

func main() {
	_ = godotenv.Load()

	var a *app
	cmd := &cli.Command{
		Name:    "todo",
		Usage:   "Terminal client for the todo backend",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api-url", Usage: "Backend base URL (default $TODO_API_URL)"},
			&cli.StringFlag{Name: "session-store", Usage: "Token store: file, redis or memory"},
			&cli.StringFlag{Name: "log-level", Usage: "Log level: debug, info, warn, error"},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			cfg, err := config.LoadConfig()
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			if cmd.IsSet("api-url") {
				cfg.APIURL = cmd.String("api-url")
			}
			if cmd.IsSet("session-store") {
				cfg.SessionStore = cmd.String("session-store")
			}
			if cmd.IsSet("log-level") {
				cfg.LogLevel = cmd.String("log-level")
			}
			a, err = newApp(cfg, os.Stdin, os.Stdout)
			return ctx, err
		},
		After: func(context.Context, *cli.Command) error {
			if a != nil {
				a.close()
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Log in and store the session token",
				Flags: []cli.Flag{&cli.StringFlag{Name: "email", Aliases: []string{"e"}}},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return a.login(ctx, cmd.String("email"))
				},
			},
			{
				Name:  "signup",
				Usage: "Create an account",
				Flags: []cli.Flag{&cli.StringFlag{Name: "email", Aliases: []string{"e"}}},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return a.signup(ctx, cmd.String("email"))
				},
			},
			{
				Name:  "logout",
				Usage: "Forget the stored session token",
				Action: func(ctx context.Context, _ *cli.Command) error {
					return a.logout(ctx)
				},
			},
			{
				Name:  "whoami",
				Usage: "Show the identity in the stored token",
				Action: func(ctx context.Context, _ *cli.Command) error {
					return a.whoami(ctx)
				},
			},
			{
				Name:  "todos",
				Usage: "Manage todos",
				Action: func(ctx context.Context, _ *cli.Command) error {
					return a.listTodos(ctx)
				},
				Commands: []*cli.Command{
					{
						Name:  "list",
						Usage: "List todos",
						Action: func(ctx context.Context, _ *cli.Command) error {
							return a.listTodos(ctx)
						},
					},
					{
						Name:      "add",
						Usage:     "Add a todo",
						ArgsUsage: "<tag> <description>",
						Action: func(ctx context.Context, cmd *cli.Command) error {
							return a.addTodo(ctx, cmd.Args().Get(0), joinArgs(cmd.Args().Slice(), 1))
						},
					},
					{
						Name:      "edit",
						Usage:     "Edit a todo by its position in the list",
						ArgsUsage: "<n> [tag] [description]",
						Action: func(ctx context.Context, cmd *cli.Command) error {
							return a.editTodo(ctx, cmd.Args().Get(0), cmd.Args().Get(1), joinArgs(cmd.Args().Slice(), 2))
						},
					},
					{
						Name:      "rm",
						Aliases:   []string{"delete"},
						Usage:     "Delete a todo by its position in the list",
						ArgsUsage: "<n>",
						Action: func(ctx context.Context, cmd *cli.Command) error {
							return a.removeTodo(ctx, cmd.Args().Get(0))
						},
					},
				},
			},
			{
				Name:  "verify",
				Usage: "Verify the account email with a one-time code",
				Action: func(ctx context.Context, _ *cli.Command) error {
					return a.verify(ctx)
				},
			},
			{
				Name:  "shell",
				Usage: "Interactive session",
				Action: func(ctx context.Context, _ *cli.Command) error {
					return a.shell(ctx)
				},
			},
		},
		Action: func(ctx context.Context, _ *cli.Command) error {
			return a.shell(ctx)
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
