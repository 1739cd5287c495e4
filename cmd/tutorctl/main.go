// Command tutorctl runs operator tasks against the configured store.
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

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"tutorhub/internal/app"
	"tutorhub/internal/config"
	"tutorhub/internal/service"
)

// readPassword is swapped out in tests.
var readPassword = func() ([]byte, error) {
	return term.ReadPassword(int(os.Stdin.Fd()))
}

const usage = `usage: tutorctl <command> [flags]

commands:
  migrate                apply database migrations
  seed-subjects          insert the configured default subjects
  add-user -email EMAIL  register an account, prompting for the password
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "tutorctl:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(out, usage)
		return errors.New("missing command")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := app.NewLogger(cfg)

	switch args[0] {
	case "migrate":
		return migrate(ctx, cfg, logger, out)
	case "seed-subjects":
		return seedSubjects(ctx, cfg, logger, out)
	case "add-user":
		return addUser(ctx, cfg, logger, args[1:], out)
	case "help", "-h", "--help":
		fmt.Fprint(out, usage)
		return nil
	default:
		fmt.Fprint(out, usage)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func migrate(ctx context.Context, cfg config.Config, logger logrus.FieldLogger, out io.Writer) error {
	store, err := app.OpenStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()
	fmt.Fprintln(out, "migrations applied")
	return nil
}

func seedSubjects(ctx context.Context, cfg config.Config, logger logrus.FieldLogger, out io.Writer) error {
	store, err := app.OpenStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	added, err := service.NewSubjectService(store.Subjects(), logger).Seed(ctx, cfg.Subjects.Defaults)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "added %d subject(s)\n", added)
	return nil
}

func addUser(ctx context.Context, cfg config.Config, logger logrus.FieldLogger, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("add-user", flag.ContinueOnError)
	fs.SetOutput(out)
	email := fs.String("email", "", "account email")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return errors.New("add-user: -email is required")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	fmt.Fprint(out, "Password: ")
	password, err := readPassword()
	fmt.Fprintln(out)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	fmt.Fprint(out, "Confirm password: ")
	confirm, err := readPassword()
	fmt.Fprintln(out)
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}

	store, err := app.OpenStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	res, err := app.NewServices(store, cfg, logger).Auth.Register(ctx, service.RegisterInput{
		Email:           *email,
		Password:        string(password),
		ConfirmPassword: string(confirm),
		AcceptTerms:     true,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "created user %d (%s)\n", res.User.ID, res.User.Email)
	return nil
}
