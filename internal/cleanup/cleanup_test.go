package cleanup

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-admin/internal/config"
	"portfolio-admin/internal/fault"
	"portfolio-admin/internal/imaging"
	"portfolio-admin/internal/models"
	"portfolio-admin/internal/notify"
	"portfolio-admin/internal/services"
	"portfolio-admin/internal/testutil"
)

func setup(t *testing.T) (*testutil.Backend, *Workflow) {
	t.Helper()
	backend := testutil.NewBackend(t)
	client := services.NewServiceClient(&config.Config{
		APIBaseURL:      backend.URL(),
		MaxUploadBytes:  imaging.DefaultMaxBytes,
		BreakerCooldown: time.Minute,
	})
	return backend, NewWorkflow(client)
}

func TestCanCleanupNeedsOrphans(t *testing.T) {
	backend, wf := setup(t)
	ctx := context.Background()

	assert.False(t, wf.CanCleanup(), "no report yet")

	used := backend.AddFile("used.png", []byte("x"))
	backend.SeedProducts(models.Product{ID: 1, Name: "p", Image: used})

	report, err := wf.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.TotalFiles)
	assert.Equal(t, 1, report.UsedFiles)
	assert.Zero(t, report.OrphanedCount)
	assert.NotNil(t, report.OrphanedFiles)
	assert.False(t, wf.CanCleanup())

	backend.AddFile("stray.png", []byte("y"))
	_, err = wf.Check(ctx)
	require.NoError(t, err)
	assert.True(t, wf.CanCleanup())
}

func TestCleanupConfirmsExactCountAndRechecks(t *testing.T) {
	backend, wf := setup(t)
	ctx := context.Background()

	used := backend.AddFile("used.png", []byte("x"))
	backend.SeedMovies(models.MovieReview{ID: 1, Title: "Heat", Poster: used})
	backend.AddFile("a.png", []byte("a"))
	backend.AddFile("b.png", []byte("b"))
	backend.AddFile("c.png", []byte("c"))

	_, err := wf.Check(ctx)
	require.NoError(t, err)

	var message string
	confirm := notify.ConfirmFunc(func(_ context.Context, _, m string) (bool, error) {
		message = m
		return true, nil
	})

	result, ok, err := wf.Cleanup(ctx, confirm)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, result.DeletedCount)
	assert.Equal(t, "Are you sure you want to delete 3 orphaned files? This cannot be undone.", message)

	last, found := wf.Last()
	require.True(t, found)
	assert.Zero(t, last.OrphanedCount)
	assert.False(t, wf.CanCleanup())
	assert.Equal(t, []string{"used.png"}, backend.Files())
	assert.Equal(t, 2, backend.Count(http.MethodGet, "/cleanup/check"))
}

func TestCleanupDeclined(t *testing.T) {
	backend, wf := setup(t)
	ctx := context.Background()
	backend.AddFile("a.png", []byte("a"))
	_, err := wf.Check(ctx)
	require.NoError(t, err)

	_, ok, err := wf.Cleanup(ctx, notify.Always(false))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, backend.Count(http.MethodDelete, "/cleanup/orphaned"))
	assert.True(t, wf.CanCleanup())
}

func TestCleanupWithoutOrphans(t *testing.T) {
	backend, wf := setup(t)

	_, _, err := wf.Cleanup(context.Background(), notify.Always(true))
	assert.ErrorIs(t, err, fault.ErrNothingToClean)
	assert.Empty(t, backend.Requests())
}

func TestCleanupServerFailureKeepsReport(t *testing.T) {
	backend, wf := setup(t)
	ctx := context.Background()
	backend.AddFile("a.png", []byte("a"))
	_, err := wf.Check(ctx)
	require.NoError(t, err)

	backend.Fail(http.MethodDelete, "/cleanup/orphaned", http.StatusInternalServerError)
	_, ok, err := wf.Cleanup(ctx, notify.Always(true))
	assert.True(t, ok)
	assert.Equal(t, fault.KindStatus, fault.KindOf(err))

	last, _ := wf.Last()
	assert.Equal(t, 1, last.OrphanedCount)
	assert.Equal(t, 1, backend.Count(http.MethodGet, "/cleanup/check"))
}

func TestCheckFailureKeepsPreviousReport(t *testing.T) {
	backend, wf := setup(t)
	ctx := context.Background()
	backend.AddFile("a.png", []byte("a"))
	_, err := wf.Check(ctx)
	require.NoError(t, err)

	backend.Close()
	_, err = wf.Check(ctx)
	assert.ErrorIs(t, err, fault.ErrTransport)
	assert.True(t, wf.CanCleanup())

	wf.Reset()
	_, found := wf.Last()
	assert.False(t, found)
}

func TestResetDiscardsCheckInFlight(t *testing.T) {
	backend, wf := setup(t)
	backend.AddFile("a.png", []byte("a"))
	release := backend.Hold(http.MethodGet, "/cleanup/check")
	defer release()

	done := make(chan error, 1)
	go func() {
		_, err := wf.Check(context.Background())
		done <- err
	}()

	require.Eventually(t, func() bool {
		return backend.Count(http.MethodGet, "/cleanup/check") == 1
	}, time.Second, 5*time.Millisecond)
	wf.Reset()
	release()

	assert.ErrorIs(t, <-done, fault.ErrUnmounted)
	_, found := wf.Last()
	assert.False(t, found)
	assert.False(t, wf.CanCleanup())

	_, err := wf.Check(context.Background())
	require.NoError(t, err)
	assert.True(t, wf.CanCleanup())
}

func TestCleanupSucceedsWhenRecheckFails(t *testing.T) {
	backend, wf := setup(t)
	ctx := context.Background()
	backend.AddFile("a.png", []byte("a"))
	backend.AddFile("b.png", []byte("b"))
	_, err := wf.Check(ctx)
	require.NoError(t, err)

	backend.Fail(http.MethodGet, "/cleanup/check", http.StatusInternalServerError)
	result, ok, err := wf.Cleanup(ctx, notify.Always(true))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, result.DeletedCount)
	assert.Empty(t, backend.Files())

	_, found := wf.Last()
	assert.False(t, found, "stale report dropped")
	assert.False(t, wf.CanCleanup())
	assert.Equal(t, 2, backend.Count(http.MethodGet, "/cleanup/check"))
}
