// Package cleanup finds and removes uploaded files no entity references.
package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"portfolio-admin/internal/fault"
	"portfolio-admin/internal/models"
	"portfolio-admin/internal/notify"
)

type API interface {
	CheckOrphaned(ctx context.Context) (models.CleanupReport, error)
	CleanupOrphaned(ctx context.Context) (models.CleanupResult, error)
}

type Workflow struct {
	api API

	mu   sync.Mutex
	last *models.CleanupReport
	busy bool
	// Bumped by Reset; a check started under an older generation is discarded.
	gen uint64
}

func NewWorkflow(api API) *Workflow {
	return &Workflow{api: api}
}

// Check fetches a fresh report and remembers it.
func (w *Workflow) Check(ctx context.Context) (models.CleanupReport, error) {
	if !w.begin() {
		return models.CleanupReport{}, fault.ErrInFlight
	}
	defer w.end()
	return w.check(ctx)
}

func (w *Workflow) check(ctx context.Context) (models.CleanupReport, error) {
	w.mu.Lock()
	gen := w.gen
	w.mu.Unlock()

	report, err := w.api.CheckOrphaned(ctx)
	if err != nil {
		return models.CleanupReport{}, fmt.Errorf("checking orphaned files: %w", err)
	}
	if report.OrphanedFiles == nil {
		report.OrphanedFiles = []string{}
	}

	w.mu.Lock()
	if w.gen != gen {
		w.mu.Unlock()
		return models.CleanupReport{}, fault.ErrUnmounted
	}
	w.last = &report
	w.mu.Unlock()

	slog.Debug("Orphaned file check", "total", report.TotalFiles, "used", report.UsedFiles, "orphaned", report.OrphanedCount)
	return report, nil
}

// Last returns the most recent report, if any check has succeeded.
func (w *Workflow) Last() (models.CleanupReport, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.last == nil {
		return models.CleanupReport{}, false
	}
	return *w.last, true
}

func (w *Workflow) CanCleanup() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last != nil && w.last.OrphanedCount > 0
}

// Reset forgets the last report. A check still in flight returns
// fault.ErrUnmounted instead of recording its result.
func (w *Workflow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.last = nil
	w.gen++
}

// Cleanup deletes every orphaned file after confirmation and then checks
// again so Last reflects what is left. A declined confirmation returns
// ok=false with no request sent. If only the follow-up check fails, the
// cleanup still succeeds and Last reports nothing until the next Check.
func (w *Workflow) Cleanup(ctx context.Context, confirm notify.Confirmer) (result models.CleanupResult, ok bool, err error) {
	if !w.begin() {
		return models.CleanupResult{}, false, fault.ErrInFlight
	}
	defer w.end()

	w.mu.Lock()
	var count int
	if w.last != nil {
		count = w.last.OrphanedCount
	}
	w.mu.Unlock()

	if count <= 0 {
		return models.CleanupResult{}, false, fault.ErrNothingToClean
	}

	message := fmt.Sprintf("Are you sure you want to delete %d orphaned files? This cannot be undone.", count)
	ok, err = notify.Ask(ctx, confirm, "Clean Up Orphaned Files", message, func() error {
		var cerr error
		result, cerr = w.api.CleanupOrphaned(ctx)
		return cerr
	})
	if !ok {
		return models.CleanupResult{}, false, err
	}
	if err != nil {
		return models.CleanupResult{}, true, fmt.Errorf("deleting orphaned files: %w", err)
	}

	slog.Info("Orphaned files deleted", "count", result.DeletedCount)

	if _, err := w.check(ctx); err != nil {
		slog.Warn("Failed to re-check orphaned files after cleanup", "error", err)
		w.mu.Lock()
		w.last = nil
		w.mu.Unlock()
	}
	return result, true, nil
}

func (w *Workflow) begin() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.busy {
		return false
	}
	w.busy = true
	return true
}

func (w *Workflow) end() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.busy = false
}
