// Command userctl administers user accounts directly against the database.
//
//	userctl list
//	userctl create -name NAME -email EMAIL
//	userctl passwd -id USER_ID
//	userctl delete -id USER_ID
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/eaglebank/user-accounts/internal/app"
	"github.com/eaglebank/user-accounts/internal/config"
	"github.com/eaglebank/user-accounts/internal/service"
	"github.com/eaglebank/user-accounts/shared/cqrs"
	"github.com/eaglebank/user-accounts/shared/logging"
	"golang.org/x/term"
)

var errUsage = errors.New("usage: userctl list | create -name NAME -email EMAIL | passwd -id USER_ID | delete -id USER_ID")

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "userctl:", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) < 2 {
		return errUsage
	}
	if err := config.LoadEnvFile(".env"); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logging.Setup(cfg.Env, getLogLevel(cfg), os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	c := &cli{svc: a.Service, out: os.Stdout, readPassword: promptPassword}
	return c.run(ctx, os.Args[1:])
}

// getLogLevel keeps the CLI quiet unless LOG_LEVEL was set explicitly.
func getLogLevel(cfg *config.Config) string {
	if os.Getenv("LOG_LEVEL") == "" {
		return "warn"
	}
	return cfg.LogLevel
}

func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

type cli struct {
	svc          *service.UserAccountService
	out          io.Writer
	readPassword func(prompt string) (string, error)
}

func (c *cli) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "list":
		return c.list(ctx)
	case "create":
		return c.create(ctx, args[1:])
	case "passwd":
		return c.passwd(ctx, args[1:])
	case "delete":
		return c.delete(ctx, args[1:])
	default:
		return fmt.Errorf("unknown command %q\n%w", args[0], errUsage)
	}
}

func (c *cli) list(ctx context.Context) error {
	views, err := c.svc.ListUsers(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL")
	for _, v := range views {
		fmt.Fprintf(w, "%s\t%s\t%s\n", v.ID, v.Name, v.Email)
	}
	return w.Flush()
}

func (c *cli) create(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "email address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" || *email == "" {
		return errors.New("create: -name and -email are required")
	}

	taken, err := c.svc.IsEmailTaken(ctx, cqrs.EmailTakenQuery{Email: *email})
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("create: email %s is already taken", *email)
	}

	password, err := c.newPassword()
	if err != nil {
		return err
	}

	res := c.svc.CreateUser(ctx, cqrs.CreateUserCommand{Name: *name, Email: *email, Password: password})
	if !res.OK() {
		return resultError("create", res)
	}
	fmt.Fprintln(c.out, res.ID)
	return nil
}

func (c *cli) passwd(ctx context.Context, args []string) error {
	id, err := parseID("passwd", args)
	if err != nil {
		return err
	}

	old, err := c.readPassword("Current password: ")
	if err != nil {
		return err
	}
	password, err := c.newPassword()
	if err != nil {
		return err
	}

	res, err := c.svc.ChangePassword(ctx, cqrs.ChangePasswordCommand{UserID: id, OldPassword: old, NewPassword: password})
	if err != nil {
		return fmt.Errorf("passwd: %w", err)
	}
	if !res.OK() {
		return resultError("passwd", res)
	}
	fmt.Fprintln(c.out, "password changed")
	return nil
}

func (c *cli) delete(ctx context.Context, args []string) error {
	id, err := parseID("delete", args)
	if err != nil {
		return err
	}
	res := c.svc.DeleteUser(ctx, cqrs.DeleteUserCommand{UserID: id})
	if !res.OK() {
		return resultError("delete", res)
	}
	fmt.Fprintln(c.out, "deleted", id)
	return nil
}

const minPasswordLen = 6

// newPassword prompts twice and requires both entries to match.
func (c *cli) newPassword() (string, error) {
	password, err := c.readPassword("New password: ")
	if err != nil {
		return "", err
	}
	if len(password) < minPasswordLen {
		return "", fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}
	confirm, err := c.readPassword("Repeat password: ")
	if err != nil {
		return "", err
	}
	if confirm != password {
		return "", errors.New("passwords did not match")
	}
	return password, nil
}

func parseID(cmd string, args []string) (string, error) {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	id := fs.String("id", "", "user id")
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if *id == "" {
		return "", fmt.Errorf("%s: -id is required", cmd)
	}
	return *id, nil
}

func resultError(cmd string, res cqrs.CommandResult) error {
	if res.NotFound() {
		return fmt.Errorf("%s: user not found", cmd)
	}
	return fmt.Errorf("%s: %w", cmd, res.Err)
}
