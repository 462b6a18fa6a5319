package notify

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"portfolio-admin/internal/fault"
	"portfolio-admin/internal/telemetry"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"

	DefaultDuration = 3 * time.Second
)

type Toast struct {
	ID      uint64
	Kind    Kind
	Message string
}

type Renderer interface {
	Show(region string, t Toast)
	Hide(region string, t Toast)
}

type slot struct {
	toast Toast
	timer *time.Timer
}

// Toaster keeps at most one visible toast per region. Showing a new one
// replaces the old one and restarts the dismiss timer.
type Toaster struct {
	renderer Renderer
	duration time.Duration

	mu      sync.Mutex
	nextID  uint64
	regions map[string]*slot
}

func NewToaster(r Renderer, duration time.Duration) *Toaster {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Toaster{
		renderer: r,
		duration: duration,
		regions:  make(map[string]*slot),
	}
}

func (t *Toaster) Show(region string, kind Kind, message string) Toast {
	t.mu.Lock()
	t.nextID++
	toast := Toast{ID: t.nextID, Kind: kind, Message: message}

	if old, ok := t.regions[region]; ok {
		old.timer.Stop()
	}
	s := &slot{toast: toast}
	s.timer = time.AfterFunc(t.duration, func() { t.expire(region, toast.ID) })
	t.regions[region] = s
	t.mu.Unlock()

	telemetry.ToastShown(string(kind))
	t.renderer.Show(region, toast)
	return toast
}

func (t *Toaster) Success(region, message string) Toast {
	return t.Show(region, KindSuccess, message)
}

func (t *Toaster) Error(region, message string) Toast {
	return t.Show(region, KindError, message)
}

// Failure shows one error toast whose text depends on the failure class.
func (t *Toaster) Failure(region, action string, err error) Toast {
	return t.Error(region, FailureMessage(action, err))
}

func (t *Toaster) Current(region string) (Toast, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, ok := t.regions[region]
	if !ok {
		return Toast{}, false
	}
	return s.toast, true
}

func (t *Toaster) Dismiss(region string) {
	t.mu.Lock()
	s, ok := t.regions[region]
	if ok {
		s.timer.Stop()
		delete(t.regions, region)
	}
	t.mu.Unlock()

	if ok {
		t.renderer.Hide(region, s.toast)
	}
}

func (t *Toaster) expire(region string, id uint64) {
	t.mu.Lock()
	s, ok := t.regions[region]
	if !ok || s.toast.ID != id {
		t.mu.Unlock()
		return
	}
	delete(t.regions, region)
	t.mu.Unlock()

	t.renderer.Hide(region, s.toast)
}

func FailureMessage(action string, err error) string {
	switch fault.KindOf(err) {
	case fault.KindValidation:
		var verr *fault.ValidationError
		errors.As(err, &verr)
		return fmt.Sprintf("Cannot %s: %s", action, verr.Error())
	case fault.KindStatus:
		var serr *fault.StatusError
		errors.As(err, &serr)
		if serr.Message != "" {
			return fmt.Sprintf("Failed to %s: server responded %d (%s)", action, serr.StatusCode, serr.Message)
		}
		return fmt.Sprintf("Failed to %s: server responded %d", action, serr.StatusCode)
	case fault.KindTransport:
		return fmt.Sprintf("Failed to %s. Make sure the backend is running.", action)
	}

	switch {
	case errors.Is(err, fault.ErrNotAdmin):
		return fmt.Sprintf("Cannot %s: admin login required", action)
	case errors.Is(err, fault.ErrInFlight):
		return fmt.Sprintf("Cannot %s: still working on the previous request", action)
	case errors.Is(err, fault.ErrNothingToClean):
		return "No orphaned files to clean up"
	}
	return fmt.Sprintf("Failed to %s", action)
}

// TerminalRenderer prints toasts as single lines. A terminal cannot take a
// line back, so Hide does nothing.
type TerminalRenderer struct {
	mu  sync.Mutex
	out io.Writer
}

func NewTerminalRenderer(out io.Writer) *TerminalRenderer {
	return &TerminalRenderer{out: out}
}

func (r *TerminalRenderer) Show(_ string, t Toast) {
	icon := "✓"
	if t.Kind == KindError {
		icon = "✕"
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "%s %s\n", icon, t.Message)
}

func (r *TerminalRenderer) Hide(string, Toast) {}
