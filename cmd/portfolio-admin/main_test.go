package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-admin/internal/config"
	"portfolio-admin/internal/fault"
	"portfolio-admin/internal/imaging"
	"portfolio-admin/internal/models"
	"portfolio-admin/internal/testutil"
)

func testConfig(t *testing.T, backend *testutil.Backend) *config.Config {
	t.Helper()
	return &config.Config{
		APIBaseURL:      backend.URL(),
		AdminUsername:   "admin",
		AdminPassword:   "admin123",
		SessionSecret:   "cli-test-secret-0123",
		SessionBackend:  config.SessionBackendFile,
		SessionFile:     filepath.Join(t.TempDir(), "session.json"),
		SeedPolicy:      config.SeedPolicyFallback,
		ToastDuration:   time.Hour,
		MaxUploadBytes:  imaging.DefaultMaxBytes,
		BreakerCooldown: time.Minute,
		LogLevel:        "warn",
		LogFormat:       "json",
	}
}

// run executes one command the way main does and returns its stdout.
func run(t *testing.T, cfg *config.Config, input string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	a, err := newApp(context.Background(), cfg, strings.NewReader(input), &out)
	require.NoError(t, err)
	defer a.Close()

	fn, ok := commands[args[0]]
	require.True(t, ok, "unknown command %s", args[0])
	err = fn(a, args[1:])
	return out.String(), err
}

func login(t *testing.T, cfg *config.Config) {
	t.Helper()
	_, err := run(t, cfg, "", "login", "-username", "admin", "-password", "admin123")
	require.NoError(t, err)
}

func writePNG(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, testutil.PNG(t, name).Data, 0o644))
	return path
}

func TestLoginPersistsAcrossInvocations(t *testing.T) {
	backend := testutil.NewBackend(t)
	cfg := testConfig(t, backend)

	out, err := run(t, cfg, "", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "not logged in")

	out, err = run(t, cfg, "admin\nadmin123\n", "login")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as admin.")

	out, err = run(t, cfg, "", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "logged in as admin")

	_, err = run(t, cfg, "", "logout")
	require.NoError(t, err)
	out, err = run(t, cfg, "", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "not logged in")
}

func TestLoginRejected(t *testing.T) {
	backend := testutil.NewBackend(t)
	cfg := testConfig(t, backend)

	_, err := run(t, cfg, "", "login", "-username", "admin", "-password", "nope")
	assert.ErrorIs(t, err, errLoginFailed)

	out, err := run(t, cfg, "", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "not logged in")
}

func TestRedisSessionBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	backend := testutil.NewBackend(t)
	cfg := testConfig(t, backend)
	cfg.SessionBackend = config.SessionBackendRedis
	cfg.RedisAddr = mr.Addr()
	cfg.SessionKey = "portfolio-admin:session"

	login(t, cfg)
	assert.True(t, mr.Exists("portfolio-admin:session"))

	out, err := run(t, cfg, "", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "logged in as admin")
}

func TestListIsPublic(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.SeedMovies(models.MovieReview{ID: 4, Title: "Heat", Year: "1995", Rating: 5})
	cfg := testConfig(t, backend)

	out, err := run(t, cfg, "", "list", "movies")
	require.NoError(t, err)
	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "Heat")
}

func TestListJSON(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.SeedProducts(models.Product{ID: 1, Name: "Honey", Price: 9.5})
	cfg := testConfig(t, backend)

	out, err := run(t, cfg, "", "list", "-json", "products")
	require.NoError(t, err)

	var products []models.Product
	require.NoError(t, json.Unmarshal([]byte(out), &products))
	require.Len(t, products, 1)
	assert.Equal(t, "Honey", products[0].Name)
}

func TestListFallsBackToSampleData(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.Fail(http.MethodGet, "/reviews", http.StatusInternalServerError)
	cfg := testConfig(t, backend)

	out, err := run(t, cfg, "", "list", "-retries", "2", "reviews")
	require.NoError(t, err)
	assert.Contains(t, out, "Sarah Johnson")
	assert.Contains(t, out, "✕")
	assert.Equal(t, 2, backend.Count(http.MethodGet, "/reviews"))
}

func TestListWithoutFallbackFails(t *testing.T) {
	backend := testutil.NewBackend(t)
	cfg := testConfig(t, backend)
	backend.Close()

	_, err := run(t, cfg, "", "list", "fitness")
	assert.ErrorIs(t, err, fault.ErrTransport)
}

func TestAddRequiresLogin(t *testing.T) {
	backend := testutil.NewBackend(t)
	cfg := testConfig(t, backend)

	_, err := run(t, cfg, "", "add", "product", "-name", "Honey", "-description", "d", "-image", writePNG(t, "honey.png"))
	assert.ErrorIs(t, err, fault.ErrNotAdmin)
	assert.Empty(t, backend.Requests())
}

func TestAddProductUploadsImage(t *testing.T) {
	backend := testutil.NewBackend(t)
	cfg := testConfig(t, backend)
	login(t, cfg)

	out, err := run(t, cfg, "", "add", "product",
		"-name", "Raw Honey", "-price", "25.99", "-description", "Unfiltered",
		"-image", writePNG(t, "honey.png"))
	require.NoError(t, err)
	assert.Contains(t, out, "Product added successfully!")

	products := backend.Products()
	require.Len(t, products, 1)
	assert.True(t, strings.HasSuffix(products[0].Image, "/uploads/1-honey.png"))
	assert.Equal(t, models.CategoryBusiness, products[0].Category)
}

func TestAddFitnessWithoutImage(t *testing.T) {
	backend := testutil.NewBackend(t)
	cfg := testConfig(t, backend)
	login(t, cfg)

	_, err := run(t, cfg, "", "add", "fitness", "-year", "2024", "-milestone", "Marathon", "-description", "42k")
	assert.Equal(t, fault.KindValidation, fault.KindOf(err))
	assert.Zero(t, backend.Count(http.MethodPost, "/fitness"))
}

func TestReviewIsPublic(t *testing.T) {
	backend := testutil.NewBackend(t)
	cfg := testConfig(t, backend)

	out, err := run(t, cfg, "", "review", "-name", "Ann", "-product", "Almond Butter", "-rating", "4", "-review", "Tasty")
	require.NoError(t, err)
	assert.Contains(t, out, "Review submitted successfully!")
	assert.Len(t, backend.Reviews(), 1)
}

func TestDeletePromptsUnlessYes(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.SeedProducts(models.Product{ID: 7, Name: "Honey"}, models.Product{ID: 8, Name: "Butter"})
	cfg := testConfig(t, backend)
	login(t, cfg)

	out, err := run(t, cfg, "n\n", "delete", "products", "7")
	require.NoError(t, err)
	assert.Contains(t, out, `Are you sure you want to delete "Honey"?`)
	assert.Contains(t, out, "Cancelled.")
	assert.Zero(t, backend.Count(http.MethodDelete, "/products/*"))

	out, err = run(t, cfg, "y\n", "delete", "products", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Product deleted successfully!")

	_, err = run(t, cfg, "", "delete", "-yes", "products", "8")
	require.NoError(t, err)
	assert.Empty(t, backend.Products())
}

func TestDeleteArguments(t *testing.T) {
	backend := testutil.NewBackend(t)
	cfg := testConfig(t, backend)

	_, err := run(t, cfg, "", "delete", "orders", "1")
	assert.Error(t, err)
	_, err = run(t, cfg, "", "delete", "products", "abc")
	assert.Error(t, err)
	_, err = run(t, cfg, "", "delete", "products")
	assert.Error(t, err)
	assert.Empty(t, backend.Requests())
}

func TestHeroCommands(t *testing.T) {
	backend := testutil.NewBackend(t)
	cfg := testConfig(t, backend)

	out, err := run(t, cfg, "", "hero")
	require.NoError(t, err)
	assert.Equal(t, "https://via.placeholder.com/400\n", out)

	_, err = run(t, cfg, "", "hero", "set", writePNG(t, "me.png"))
	assert.ErrorIs(t, err, fault.ErrNotAdmin)

	login(t, cfg)
	out, err = run(t, cfg, "", "hero", "set", writePNG(t, "me.png"))
	require.NoError(t, err)
	assert.Contains(t, out, "Profile image updated successfully!")
	assert.True(t, strings.HasSuffix(backend.Hero().ProfileImage, "/uploads/1-me.png"))

	_, err = run(t, cfg, "", "hero", "-yes", "remove")
	require.NoError(t, err)
	assert.Equal(t, "https://via.placeholder.com/400", backend.Hero().ProfileImage)
}

func TestImageDeleteAcceptsURL(t *testing.T) {
	backend := testutil.NewBackend(t)
	url := backend.AddFile("old.png", []byte("x"))
	cfg := testConfig(t, backend)
	login(t, cfg)

	_, err := run(t, cfg, "", "image", "delete", "-yes", url)
	require.NoError(t, err)
	assert.Empty(t, backend.Files())
}

func TestCleanupCheckAndRun(t *testing.T) {
	backend := testutil.NewBackend(t)
	used := backend.AddFile("used.png", []byte("u"))
	backend.SeedFitness(models.FitnessMilestone{ID: 1, Milestone: "m", Image: used})
	backend.AddFile("stray-1.png", []byte("a"))
	backend.AddFile("stray-2.png", []byte("b"))
	cfg := testConfig(t, backend)
	login(t, cfg)

	out, err := run(t, cfg, "", "cleanup", "check")
	require.NoError(t, err)
	assert.Contains(t, out, "Orphaned files: 2")
	assert.Contains(t, out, "stray-1.png")
	assert.Len(t, backend.Files(), 3)

	out, err = run(t, cfg, "y\n", "cleanup", "run")
	require.NoError(t, err)
	assert.Contains(t, out, "Are you sure you want to delete 2 orphaned files? This cannot be undone.")
	assert.Contains(t, out, "Successfully cleaned up 2 orphaned files!")
	assert.Contains(t, out, "Orphaned files remaining: 0")
	assert.Equal(t, []string{"used.png"}, backend.Files())

	out, err = run(t, cfg, "", "cleanup", "run")
	require.NoError(t, err)
	assert.Contains(t, out, "Nothing to clean up.")
}

func TestConsoleSession(t *testing.T) {
	backend := testutil.NewBackend(t)
	backend.SeedMovies(models.MovieReview{ID: 3, Title: "Heat"})
	backend.AddFile("stray.png", []byte("x"))
	cfg := testConfig(t, backend)
	login(t, cfg)

	script := strings.Join([]string{
		"tabs",
		"tab movies",
		"show",
		"delete 3",
		"y",
		"tab cleanup",
		"tab products",
		"tab cleanup",
		"logout",
		"tabs",
	}, "\n") + "\n"

	out, err := run(t, cfg, script, "console")
	require.NoError(t, err)

	assert.Contains(t, out, "Movies (1)")
	assert.Contains(t, out, "Heat")
	assert.Contains(t, out, "Movie deleted successfully!")
	assert.Contains(t, out, "Orphaned files: 1")
	assert.Contains(t, out, "Session ended.")
	assert.Equal(t, 1, backend.Count(http.MethodGet, "/cleanup/check"))

	status, err := run(t, cfg, "", "status")
	require.NoError(t, err)
	assert.Contains(t, status, "not logged in")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{LogLevel: "info", LogFormat: "text"}
	newLogger(cfg, &buf).Info("hello", "k", "v")
	assert.Contains(t, buf.String(), "msg=hello")

	buf.Reset()
	cfg = &config.Config{LogLevel: "nonsense", LogFormat: "json"}
	logger := newLogger(cfg, &buf)
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}
