package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"portfolio-admin/internal/auth"
	"portfolio-admin/internal/cache"
	"portfolio-admin/internal/config"
	"portfolio-admin/internal/dashboard"
	"portfolio-admin/internal/notify"
	"portfolio-admin/internal/resilience"
	"portfolio-admin/internal/resource"
	"portfolio-admin/internal/services"
	"portfolio-admin/internal/session"
)

const retryDelay = 500 * time.Millisecond

// app is everything one command invocation shares.
type app struct {
	ctx     context.Context
	cfg     *config.Config
	in      *bufio.Reader
	out     io.Writer
	client  *services.ServiceClient
	session *session.Store
	toaster *notify.Toaster
	prompt  *notify.Prompt
	closers []func() error
}

func newApp(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) (*app, error) {
	authenticator, err := auth.NewAuthenticator(cfg.AdminUsername, cfg.AdminPassword, cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		return nil, err
	}

	a := &app{
		ctx:    ctx,
		cfg:    cfg,
		in:     bufio.NewReader(in),
		out:    out,
		client: services.NewServiceClient(cfg),
	}
	a.prompt = notify.NewPrompt(a.in, out)
	a.toaster = notify.NewToaster(notify.NewTerminalRenderer(out), cfg.ToastDuration)

	persister, err := a.persister()
	if err != nil {
		return nil, err
	}
	a.session = session.NewStore(ctx, authenticator, persister)
	return a, nil
}

func (a *app) persister() (session.Persister, error) {
	if !a.cfg.UseRedisSession() {
		return session.NewFilePersister(a.cfg.SessionFile), nil
	}

	client, err := cache.NewClient(a.cfg.RedisAddr)
	if err != nil {
		return nil, fmt.Errorf("connecting to redis at %s: %w", a.cfg.RedisAddr, err)
	}
	a.closers = append(a.closers, client.Close)
	slog.Info("Connected to Redis", "addr", a.cfg.RedisAddr)
	return session.NewRedisPersister(client, a.cfg.SessionKey), nil
}

func (a *app) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			slog.Warn("Failed to close resource", "error", err)
		}
	}
	a.closers = nil
}

func (a *app) confirmer(yes bool) notify.Confirmer {
	if yes {
		return notify.Always(true)
	}
	return a.prompt
}

func (a *app) dashboard(yes bool) *dashboard.Dashboard {
	return dashboard.New(dashboard.Options{
		API:     a.client,
		Session: a.session,
		Toaster: a.toaster,
		Confirm: a.confirmer(yes),
		Policy:  resource.PolicyFromConfig(a.cfg.SeedPolicy),
	})
}

// openDashboard fails fast with a login hint when there is no admin session.
func (a *app) openDashboard(yes bool) (*dashboard.Dashboard, error) {
	d := a.dashboard(yes)
	if err := d.Open(a.ctx); err != nil {
		return nil, fmt.Errorf("%w (run 'portfolio-admin login' first)", err)
	}
	return d, nil
}

// retry runs fn up to attempts times on transport or 5xx failures.
func (a *app) retry(attempts int, fn func() error) error {
	return resilience.Retry(a.ctx, attempts, retryDelay, fn)
}

// readLine prints label and reads one trimmed line of input.
func (a *app) readLine(label string) (string, error) {
	fmt.Fprint(a.out, label)
	line, err := a.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
