package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"portfolio-admin/internal/config"
)

var version = "dev"

type command func(a *app, args []string) error

var commands = map[string]command{
	"login":   runLogin,
	"logout":  runLogout,
	"status":  runStatus,
	"list":    runList,
	"add":     runAdd,
	"review":  runReview,
	"delete":  runDelete,
	"hero":    runHero,
	"image":   runImage,
	"cleanup": runCleanup,
	"console": runConsole,
}

func usage(w io.Writer) {
	fmt.Fprintf(w, `portfolio-admin - portfolio content admin (version %s)

Usage:
  portfolio-admin <command> [options]

Commands:
  login      Start an admin session
  logout     End the admin session
  status     Show whether an admin session is active
  list       List products, reviews, movies or fitness milestones
  add        Add a product, movie or fitness milestone (admin)
  review     Submit a customer review
  delete     Delete an entry by id (admin)
  hero       Show, replace or remove the profile image
  image      Delete a stored image by file name (admin)
  cleanup    Check for or delete orphaned uploads (admin)
  console    Interactive dashboard session (admin)
  version    Print the version

Run 'portfolio-admin <command> -h' for command-specific help.
`, version)
}

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(1)
	}

	name := os.Args[1]
	if name == "-h" || name == "--help" || name == "help" {
		usage(os.Stdout)
		os.Exit(0)
	}
	if name == "-v" || name == "--version" || name == "version" {
		fmt.Println(version)
		os.Exit(0)
	}

	fn, ok := commands[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", name)
		usage(os.Stderr)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(cfg, os.Stderr))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, os.Stdin, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	err = fn(a, os.Args[2:])
	a.Close()
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger writes to w so stdout stays free for command output.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(cfg.LogFormat, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
