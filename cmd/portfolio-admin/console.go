package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"portfolio-admin/internal/dashboard"
	"portfolio-admin/internal/telemetry"
)

const consoleHelp = `Commands:
  tabs                 Show tabs with item counts
  tab <name>           Switch tab (products, reviews, movies, fitness, cleanup)
  show                 List the current tab
  reload               Reload every tab from the API
  delete <id>          Delete an entry from the current tab
  check                Re-check orphaned files
  clean                Delete orphaned files
  hero                 Show the profile image URL
  hero remove          Reset the profile image
  logout               End the admin session and leave
  help                 Show this help
  quit                 Leave the console
`

func runConsole(a *app, args []string) error {
	fs := flag.NewFlagSet("console", flag.ContinueOnError)
	yes := fs.Bool("yes", false, "Skip confirmation prompts")
	metricsAddr := fs.String("metrics", a.cfg.MetricsAddr, "Serve Prometheus metrics on this address while the console runs")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: portfolio-admin console [options]\n\nInteractive dashboard session.\n\nOptions:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	d, err := a.openDashboard(*yes)
	if err != nil {
		return err
	}
	defer d.Close()

	if *metricsAddr != "" {
		stop := serveMetrics(*metricsAddr)
		defer stop()
	}

	fmt.Fprint(a.out, consoleHelp)
	return consoleLoop(a, d)
}

func consoleLoop(a *app, d *dashboard.Dashboard) error {
	for {
		if !d.IsOpen() {
			fmt.Fprintln(a.out, "Session ended.")
			return nil
		}

		fmt.Fprintf(a.out, "[%s]> ", d.TabLabel(d.Tab()))
		line, err := a.in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("reading console input: %w", err)
		}
		eof := errors.Is(err, io.EOF)

		fields := strings.Fields(line)
		if len(fields) > 0 {
			if quit := consoleCommand(a, d, fields); quit {
				return nil
			}
		}
		if eof {
			return nil
		}
	}
}

// consoleCommand runs one console line. Failures are already shown as
// toasts, so they do not end the session.
func consoleCommand(a *app, d *dashboard.Dashboard, fields []string) (quit bool) {
	ctx := a.ctx

	switch fields[0] {
	case "quit", "exit":
		return true

	case "help":
		fmt.Fprint(a.out, consoleHelp)

	case "tabs":
		for _, tab := range dashboard.Tabs {
			fmt.Fprintln(a.out, d.TabLabel(tab))
		}

	case "tab":
		if len(fields) < 2 {
			fmt.Fprintln(a.out, "usage: tab <name>")
			return false
		}
		tab, err := dashboard.ParseTab(fields[1])
		if err != nil {
			fmt.Fprintln(a.out, err)
			return false
		}
		_ = d.SelectTab(ctx, tab)
		if tab == dashboard.TabCleanup {
			showCleanup(a, d)
		}

	case "show":
		if err := showTab(a, d); err != nil {
			fmt.Fprintln(a.out, err)
		}

	case "reload":
		if err := d.Open(ctx); err != nil {
			fmt.Fprintln(a.out, err)
		}

	case "delete":
		if len(fields) < 2 {
			fmt.Fprintln(a.out, "usage: delete <id>")
			return false
		}
		id, err := strconv.Atoi(fields[1])
		if err != nil {
			fmt.Fprintf(a.out, "invalid id %q\n", fields[1])
			return false
		}
		if d.Tab() == dashboard.TabCleanup {
			fmt.Fprintln(a.out, "switch to a resource tab first")
			return false
		}
		if _, err := deleteFrom(a, d, d.Tab(), id); err != nil {
			slog.Debug("Console delete failed", "id", id, "error", err)
		}

	case "check":
		if _, err := d.RefreshCleanup(ctx); err == nil {
			showCleanup(a, d)
		}

	case "clean":
		if _, ok, err := d.RunCleanup(ctx); err == nil && ok {
			showCleanup(a, d)
		}

	case "hero":
		if len(fields) > 1 && fields[1] == "remove" {
			_, _ = d.RemoveHeroImage(ctx)
			return false
		}
		fmt.Fprintln(a.out, d.Hero.ProfileImage())

	case "logout":
		a.session.Logout(ctx)

	default:
		fmt.Fprintf(a.out, "unknown command %q, try help\n", fields[0])
	}
	return false
}

func showTab(a *app, d *dashboard.Dashboard) error {
	switch d.Tab() {
	case dashboard.TabProducts:
		return printTable(a, d.Products.Items(), printProducts)
	case dashboard.TabReviews:
		return printTable(a, d.Reviews.Items(), printReviews)
	case dashboard.TabMovies:
		return printTable(a, d.Movies.Items(), printMovies)
	case dashboard.TabFitness:
		return printTable(a, d.Fitness.Items(), printFitness)
	}
	showCleanup(a, d)
	return nil
}

func showCleanup(a *app, d *dashboard.Dashboard) {
	report, ok := d.Cleanup.Last()
	if !ok {
		fmt.Fprintln(a.out, "No cleanup report yet, run check.")
		return
	}
	printReport(a, report.TotalFiles, report.UsedFiles, report.OrphanedFiles)
}

// serveMetrics exposes /metrics until the returned func is called.
func serveMetrics(addr string) (stop func()) {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", telemetry.Handler())

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		slog.Info("Metrics listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server error", "error", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
