package resource

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"portfolio-admin/internal/fault"
	"portfolio-admin/internal/imaging"
	"portfolio-admin/internal/models"
	"portfolio-admin/internal/notify"
)

// ImageField tells the controller where an input keeps its image URL.
type ImageField[In any] struct {
	Get func(In) string
	Set func(In, string) In
}

type Spec[T, In any] struct {
	Name     string
	Singular string

	List   func(ctx context.Context) ([]T, error)
	Create func(ctx context.Context, in In) (T, error)
	Delete func(ctx context.Context, id int) error
	ID     func(T) int
	Label  func(T) string

	// Image is nil for resources without an image.
	Image  *ImageField[In]
	Upload func(ctx context.Context, f *imaging.File) (models.UploadResult, error)

	Seed   []T
	Policy SeedPolicy
}

// Draft is a submitted form: the fields plus an optional picked file that
// replaces whatever image URL the fields carry.
type Draft[In any] struct {
	Fields In
	Image  *imaging.File
}

type Controller[T, In any] struct {
	spec Spec[T, In]

	mu       sync.Mutex
	state    State[T]
	mounted  bool
	creating bool
	deleting map[int]bool
}

func NewController[T, In any](spec Spec[T, In]) *Controller[T, In] {
	return &Controller[T, In]{
		spec:     spec,
		mounted:  true,
		deleting: make(map[int]bool),
	}
}

func (c *Controller[T, In]) Name() string {
	return c.spec.Name
}

func (c *Controller[T, In]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State[T]{Phase: c.state.Phase, Items: clone(c.state.Items), Reason: c.state.Reason}
}

func (c *Controller[T, In]) Items() []T {
	return c.State().Items
}

func (c *Controller[T, In]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.state.Items)
}

// Unmount stops the controller from applying any result that is still in
// flight. Calls already sent are not cancelled.
func (c *Controller[T, In]) Unmount() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mounted = false
}

// Mount starts over from an empty idle state.
func (c *Controller[T, In]) Mount() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mounted = true
	c.state = State[T]{}
}

// dispatch applies e if the controller is still mounted.
func (c *Controller[T, In]) dispatch(e Event[T]) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.mounted {
		return false
	}
	c.state = Reduce(c.state, e, c.spec.ID)
	return true
}

// Load replaces the list with the remote one. On failure the controller
// goes stale with the seed list (or nothing) and the error is returned.
func (c *Controller[T, In]) Load(ctx context.Context) error {
	if !c.dispatch(LoadStarted[T]()) {
		return fault.ErrUnmounted
	}

	items, err := c.spec.List(ctx)
	if err != nil {
		slog.Warn("Failed to load resource, serving fallback", "resource", c.spec.Name,
			"fallback", len(c.spec.Seed), "error", err)
		if !c.dispatch(LoadFailed(err, c.spec.Seed)) {
			return fault.ErrUnmounted
		}
		return fmt.Errorf("loading %s: %w", c.spec.Name, err)
	}

	if c.spec.Policy == SeedMerge && len(c.spec.Seed) > 0 {
		merged := make([]T, 0, len(c.spec.Seed)+len(items))
		merged = append(merged, c.spec.Seed...)
		items = append(merged, items...)
	}

	if !c.dispatch(LoadSucceeded(items)) {
		return fault.ErrUnmounted
	}
	return nil
}

// Create uploads the attached image first when there is one, refuses to
// go on without an image URL for image-bearing resources, then appends the
// entity the server returns.
func (c *Controller[T, In]) Create(ctx context.Context, d Draft[In]) (T, error) {
	var zero T

	if !c.begin(&c.creating) {
		return zero, fault.ErrInFlight
	}
	defer c.end(&c.creating)

	fields := d.Fields
	if img := c.spec.Image; img != nil {
		url := img.Get(fields)
		if d.Image != nil {
			result, err := c.spec.Upload(ctx, d.Image)
			if err != nil {
				return zero, fmt.Errorf("uploading %s image: %w", c.spec.Singular, err)
			}
			url = result.URL
		}
		if strings.TrimSpace(url) == "" {
			return zero, fault.Invalid("image", "please select an image")
		}
		fields = img.Set(fields, url)
	}

	created, err := c.spec.Create(ctx, fields)
	if err != nil {
		return zero, fmt.Errorf("creating %s: %w", c.spec.Singular, err)
	}

	if !c.dispatch(Created(created)) {
		return created, fault.ErrUnmounted
	}
	slog.Info("Resource created", "resource", c.spec.Name, "id", c.spec.ID(created))
	return created, nil
}

// Delete asks first. A declined confirmation returns (false, nil) without
// touching the network or the list.
func (c *Controller[T, In]) Delete(ctx context.Context, id int, confirm notify.Confirmer) (bool, error) {
	c.mu.Lock()
	if c.deleting[id] {
		c.mu.Unlock()
		return false, fault.ErrInFlight
	}
	c.deleting[id] = true
	label := c.labelLocked(id)
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.deleting, id)
		c.mu.Unlock()
	}()

	title := "Delete " + titleCase(c.spec.Singular)
	message := fmt.Sprintf("Are you sure you want to delete %s?", label)

	confirmed, err := notify.Ask(ctx, confirm, title, message, func() error {
		return c.spec.Delete(ctx, id)
	})
	if !confirmed {
		return false, err
	}
	if err != nil {
		return true, fmt.Errorf("deleting %s %d: %w", c.spec.Singular, id, err)
	}

	if !c.dispatch(Deleted[T](id)) {
		return true, fault.ErrUnmounted
	}
	slog.Info("Resource deleted", "resource", c.spec.Name, "id", id)
	return true, nil
}

func (c *Controller[T, In]) labelLocked(id int) string {
	for _, item := range c.state.Items {
		if c.spec.ID(item) == id && c.spec.Label != nil {
			return c.spec.Label(item)
		}
	}
	return fmt.Sprintf("this %s", c.spec.Singular)
}

func (c *Controller[T, In]) begin(flag *bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if *flag {
		return false
	}
	*flag = true
	return true
}

func (c *Controller[T, In]) end(flag *bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	*flag = false
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
