// Package dashboard is the admin-gated surface over the resource controllers,
// the hero profile and the orphaned-file cleanup.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"portfolio-admin/internal/cleanup"
	"portfolio-admin/internal/fault"
	"portfolio-admin/internal/imaging"
	"portfolio-admin/internal/models"
	"portfolio-admin/internal/notify"
	"portfolio-admin/internal/resource"
	"portfolio-admin/internal/session"
)

type Tab string

const (
	TabProducts Tab = "products"
	TabReviews  Tab = "reviews"
	TabMovies   Tab = "movies"
	TabFitness  Tab = "fitness"
	TabCleanup  Tab = "cleanup"
)

var Tabs = []Tab{TabProducts, TabReviews, TabMovies, TabFitness, TabCleanup}

func ParseTab(s string) (Tab, error) {
	for _, t := range Tabs {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fault.Invalid("tab", fmt.Sprintf("unknown tab %q", s))
}

const (
	RegionHero       = "hero"
	RegionReviewForm = "review-form"
	RegionImages     = "images"
)

type API interface {
	resource.API
	cleanup.API
	DeleteImage(ctx context.Context, filename string) error
}

type Session interface {
	IsAdmin() bool
	Subscribe(fn session.Listener) func()
}

type Options struct {
	API     API
	Session Session
	Toaster *notify.Toaster
	Confirm notify.Confirmer
	Policy  resource.SeedPolicy
}

type Dashboard struct {
	api     API
	session Session
	toaster *notify.Toaster
	confirm notify.Confirmer

	Products *resource.Products
	Reviews  *resource.Reviews
	Movies   *resource.Movies
	Fitness  *resource.Fitness
	Hero     *resource.Hero
	Cleanup  *cleanup.Workflow

	mu             sync.Mutex
	open           bool
	tab            Tab
	cleanupChecked bool
	unsubscribe    func()
}

func New(opts Options) *Dashboard {
	return &Dashboard{
		api:      opts.API,
		session:  opts.Session,
		toaster:  opts.Toaster,
		confirm:  opts.Confirm,
		Products: resource.NewProducts(opts.API, opts.Policy),
		Reviews:  resource.NewReviews(opts.API),
		Movies:   resource.NewMovies(opts.API, opts.Policy),
		Fitness:  resource.NewFitness(opts.API, opts.Policy),
		Hero:     resource.NewHero(opts.API),
		Cleanup:  cleanup.NewWorkflow(opts.API),
		tab:      TabProducts,
	}
}

// Open loads every collection plus the hero profile concurrently. Load
// failures leave the affected controller stale and are only logged.
func (d *Dashboard) Open(ctx context.Context) error {
	if !d.session.IsAdmin() {
		return fault.ErrNotAdmin
	}

	d.mu.Lock()
	if !d.open {
		d.open = true
		d.tab = TabProducts
		d.cleanupChecked = false
		d.unsubscribe = d.session.Subscribe(func(isAdmin bool) {
			if !isAdmin {
				d.Close()
			}
		})
		d.mount()
	}
	d.mu.Unlock()

	start := time.Now()
	loaders := []struct {
		name string
		load func(context.Context) error
	}{
		{"products", d.Products.Load},
		{"reviews", d.Reviews.Load},
		{"movies", d.Movies.Load},
		{"fitness", d.Fitness.Load},
		{"hero", d.Hero.Load},
	}

	var wg sync.WaitGroup
	wg.Add(len(loaders))
	for _, l := range loaders {
		go func() {
			defer wg.Done()
			if err := l.load(ctx); err != nil && !errors.Is(err, fault.ErrUnmounted) {
				slog.Error("Dashboard load error", "resource", l.name, "error", err)
			}
		}()
	}
	wg.Wait()

	slog.Info("Dashboard opened", "duration", time.Since(start))
	return nil
}

// Close drops admin-only state. It is safe to call more than once.
func (d *Dashboard) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.open {
		return
	}
	d.open = false
	if d.unsubscribe != nil {
		// The store calls listeners without holding its lock.
		d.unsubscribe()
		d.unsubscribe = nil
	}
	d.Products.Unmount()
	d.Reviews.Unmount()
	d.Movies.Unmount()
	d.Fitness.Unmount()
	d.Hero.Unmount()
	d.Cleanup.Reset()
	d.cleanupChecked = false
	slog.Info("Dashboard closed")
}

func (d *Dashboard) IsOpen() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.open
}

func (d *Dashboard) Tab() Tab {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.tab
}

// SelectTab switches tabs. The first visit to the cleanup tab in a
// dashboard session runs a check.
func (d *Dashboard) SelectTab(ctx context.Context, tab Tab) error {
	if err := d.gate(); err != nil {
		return err
	}

	d.mu.Lock()
	d.tab = tab
	needsCheck := tab == TabCleanup && !d.cleanupChecked
	if needsCheck {
		d.cleanupChecked = true
	}
	d.mu.Unlock()

	if !needsCheck {
		return nil
	}
	_, err := d.RefreshCleanup(ctx)
	return err
}

// TabLabel renders a tab title with its item count.
func (d *Dashboard) TabLabel(tab Tab) string {
	switch tab {
	case TabProducts:
		return fmt.Sprintf("Products (%d)", d.Products.Len())
	case TabReviews:
		return fmt.Sprintf("Reviews (%d)", d.Reviews.Len())
	case TabMovies:
		return fmt.Sprintf("Movies (%d)", d.Movies.Len())
	case TabFitness:
		return fmt.Sprintf("Fitness (%d)", d.Fitness.Len())
	case TabCleanup:
		if report, ok := d.Cleanup.Last(); ok {
			return fmt.Sprintf("Cleanup (%d)", report.OrphanedCount)
		}
		return "Cleanup"
	}
	return string(tab)
}

func (d *Dashboard) gate() error {
	if !d.session.IsAdmin() || !d.IsOpen() {
		return fault.ErrNotAdmin
	}
	return nil
}

// mount must be called with d.mu held.
func (d *Dashboard) mount() {
	d.Products.Mount()
	d.Reviews.Mount()
	d.Movies.Mount()
	d.Fitness.Mount()
	d.Hero.Mount()
}

func (d *Dashboard) success(region, message string) {
	if d.toaster != nil {
		d.toaster.Success(region, message)
	}
}

func (d *Dashboard) failure(region, action string, err error) {
	slog.Error("Dashboard action failed", "action", action, "error", err)
	if d.toaster != nil {
		d.toaster.Failure(region, action, err)
	}
}

type validator interface {
	Validate() error
}

func add[T any, In validator](ctx context.Context, d *Dashboard, c *resource.Controller[T, In], draft resource.Draft[In], region, action, done string) (T, error) {
	var zero T
	if err := d.gate(); err != nil {
		d.failure(region, action, err)
		return zero, err
	}
	if err := draft.Fields.Validate(); err != nil {
		d.failure(region, action, err)
		return zero, err
	}

	// ErrUnmounted means the server stored it after the dashboard closed.
	created, err := c.Create(ctx, draft)
	if err != nil && !errors.Is(err, fault.ErrUnmounted) {
		d.failure(region, action, err)
		return zero, err
	}
	d.success(region, done)
	return created, nil
}

func remove[T, In any](ctx context.Context, d *Dashboard, c *resource.Controller[T, In], id int, region, action, done string) (bool, error) {
	if err := d.gate(); err != nil {
		d.failure(region, action, err)
		return false, err
	}

	deleted, err := c.Delete(ctx, id, d.confirm)
	if err != nil && !errors.Is(err, fault.ErrUnmounted) {
		d.failure(region, action, err)
		return deleted, err
	}
	if deleted {
		d.success(region, done)
	}
	return deleted, nil
}

func (d *Dashboard) AddProduct(ctx context.Context, draft resource.Draft[models.ProductInput]) (models.Product, error) {
	return add(ctx, d, d.Products, draft, string(TabProducts), "add product", "Product added successfully!")
}

func (d *Dashboard) AddMovie(ctx context.Context, draft resource.Draft[models.MovieInput]) (models.MovieReview, error) {
	return add(ctx, d, d.Movies, draft, string(TabMovies), "add movie", "Movie added successfully!")
}

func (d *Dashboard) AddFitness(ctx context.Context, draft resource.Draft[models.FitnessInput]) (models.FitnessMilestone, error) {
	return add(ctx, d, d.Fitness, draft, string(TabFitness), "add fitness milestone", "Fitness milestone added successfully!")
}

func (d *Dashboard) DeleteProduct(ctx context.Context, id int) (bool, error) {
	return remove(ctx, d, d.Products, id, string(TabProducts), "delete product", "Product deleted successfully!")
}

func (d *Dashboard) DeleteReview(ctx context.Context, id int) (bool, error) {
	return remove(ctx, d, d.Reviews, id, string(TabReviews), "delete review", "Review deleted successfully!")
}

func (d *Dashboard) DeleteMovie(ctx context.Context, id int) (bool, error) {
	return remove(ctx, d, d.Movies, id, string(TabMovies), "delete movie", "Movie deleted successfully!")
}

func (d *Dashboard) DeleteFitness(ctx context.Context, id int) (bool, error) {
	return remove(ctx, d, d.Fitness, id, string(TabFitness), "delete fitness milestone", "Fitness milestone deleted successfully!")
}

// SubmitReview is the public review form; it needs no admin session. The
// review is not appended locally once the dashboard has been closed.
func (d *Dashboard) SubmitReview(ctx context.Context, in models.ReviewInput) (models.Review, error) {
	const action = "submit review"

	if err := in.Validate(); err != nil {
		d.failure(RegionReviewForm, action, err)
		return models.Review{}, err
	}

	created, err := d.Reviews.Create(ctx, resource.Draft[models.ReviewInput]{Fields: in})
	if err != nil && !errors.Is(err, fault.ErrUnmounted) {
		d.failure(RegionReviewForm, action, err)
		return models.Review{}, err
	}
	d.success(RegionReviewForm, "Review submitted successfully!")
	return created, nil
}

func (d *Dashboard) ReplaceHeroImage(ctx context.Context, f *imaging.File) (models.HeroProfile, error) {
	const action = "upload image"
	if err := d.gate(); err != nil {
		d.failure(RegionHero, action, err)
		return models.HeroProfile{}, err
	}

	profile, err := d.Hero.ReplaceImage(ctx, f)
	if err != nil {
		d.failure(RegionHero, action, err)
		return models.HeroProfile{}, err
	}
	d.success(RegionHero, "Profile image updated successfully!")
	return profile, nil
}

func (d *Dashboard) RemoveHeroImage(ctx context.Context) (bool, error) {
	const action = "remove image"
	if err := d.gate(); err != nil {
		d.failure(RegionHero, action, err)
		return false, err
	}

	removed, err := d.Hero.RemoveImage(ctx, d.confirm)
	if err != nil {
		d.failure(RegionHero, action, err)
		return removed, err
	}
	if removed {
		d.success(RegionHero, "Profile image removed successfully!")
	}
	return removed, nil
}

// DeleteImage removes one stored upload by file name after confirmation.
func (d *Dashboard) DeleteImage(ctx context.Context, filename string) (bool, error) {
	const action = "delete image"
	if err := d.gate(); err != nil {
		d.failure(RegionImages, action, err)
		return false, err
	}

	deleted, err := notify.Ask(ctx, d.confirm, "Delete Image",
		fmt.Sprintf("Are you sure you want to delete %q?", filename), func() error {
			return d.api.DeleteImage(ctx, filename)
		})
	if err != nil {
		d.failure(RegionImages, action, err)
		return deleted, err
	}
	if deleted {
		d.success(RegionImages, "Image deleted successfully!")
	}
	return deleted, nil
}

func (d *Dashboard) RefreshCleanup(ctx context.Context) (models.CleanupReport, error) {
	const action = "check for orphaned files"
	if err := d.gate(); err != nil {
		d.failure(string(TabCleanup), action, err)
		return models.CleanupReport{}, err
	}

	d.mu.Lock()
	d.cleanupChecked = true
	d.mu.Unlock()

	report, err := d.Cleanup.Check(ctx)
	if err != nil {
		if !errors.Is(err, fault.ErrUnmounted) {
			d.failure(string(TabCleanup), action, err)
		}
		return models.CleanupReport{}, err
	}
	return report, nil
}

// RunCleanup deletes every orphaned file the last check reported.
func (d *Dashboard) RunCleanup(ctx context.Context) (models.CleanupResult, bool, error) {
	const action = "cleanup orphaned files"
	if err := d.gate(); err != nil {
		d.failure(string(TabCleanup), action, err)
		return models.CleanupResult{}, false, err
	}

	result, ok, err := d.Cleanup.Cleanup(ctx, d.confirm)
	if err != nil {
		d.failure(string(TabCleanup), action, err)
		return result, ok, err
	}
	if ok {
		d.success(string(TabCleanup), fmt.Sprintf("Successfully cleaned up %d orphaned files!", result.DeletedCount))
	}
	return result, ok, nil
}
