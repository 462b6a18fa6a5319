package resource

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-admin/internal/fault"
	"portfolio-admin/internal/notify"
	"portfolio-admin/internal/testutil"
)

func TestHeroLoad(t *testing.T) {
	backend, client := newClient(t)
	url := backend.AddFile("me.png", []byte("x"))
	_, err := client.UpdateHeroImage(context.Background(), url)
	require.NoError(t, err)

	hero := NewHero(client)
	require.NoError(t, hero.Load(context.Background()))
	assert.Equal(t, PhaseReady, hero.Phase())
	assert.Equal(t, url, hero.ProfileImage())
}

func TestHeroLoadFailureShowsPlaceholder(t *testing.T) {
	backend, client := newClient(t)
	backend.Fail(http.MethodGet, "/hero", http.StatusInternalServerError)

	hero := NewHero(client)
	assert.Error(t, hero.Load(context.Background()))
	assert.Equal(t, PhaseStale, hero.Phase())
	assert.Equal(t, PlaceholderHeroImage, hero.ProfileImage())
}

func TestHeroReplaceImage(t *testing.T) {
	backend, client := newClient(t)
	hero := NewHero(client)

	profile, err := hero.ReplaceImage(context.Background(), testutil.PNG(t, "me.png"))
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(profile.ProfileImage, "/uploads/1-me.png"))
	assert.Equal(t, profile.ProfileImage, hero.ProfileImage())
	assert.Equal(t, profile, backend.Hero())
	assert.Equal(t, []string{"POST /upload", "PUT /hero/image"}, backend.Requests())
}

func TestHeroReplaceImageUploadFails(t *testing.T) {
	backend, client := newClient(t)
	backend.Fail(http.MethodPost, "/upload", http.StatusInternalServerError)
	hero := NewHero(client)

	_, err := hero.ReplaceImage(context.Background(), testutil.PNG(t, "me.png"))
	assert.Equal(t, fault.KindStatus, fault.KindOf(err))
	assert.Zero(t, backend.Count(http.MethodPut, "/hero/image"))
	assert.Empty(t, hero.ProfileImage())
}

func TestHeroReplaceImageRequiresFile(t *testing.T) {
	backend, client := newClient(t)
	_, err := NewHero(client).ReplaceImage(context.Background(), nil)
	assert.Equal(t, fault.KindValidation, fault.KindOf(err))
	assert.Empty(t, backend.Requests())
}

func TestHeroRemoveImage(t *testing.T) {
	backend, client := newClient(t)
	hero := NewHero(client)
	ctx := context.Background()

	removed, err := hero.RemoveImage(ctx, notify.Always(false))
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Empty(t, backend.Requests())

	removed, err = hero.RemoveImage(ctx, notify.Always(true))
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, PlaceholderHeroImage, hero.ProfileImage())
	assert.Equal(t, PlaceholderHeroImage, backend.Hero().ProfileImage)
}
