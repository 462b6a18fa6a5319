package resource

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"portfolio-admin/internal/fault"
	"portfolio-admin/internal/imaging"
	"portfolio-admin/internal/models"
	"portfolio-admin/internal/notify"
)

// PlaceholderHeroImage is shown when the profile cannot be fetched and is
// what the profile is reset to on removal.
const PlaceholderHeroImage = "https://via.placeholder.com/400"

type Hero struct {
	api API

	mu      sync.Mutex
	phase   Phase
	profile models.HeroProfile
	mounted bool
	busy    bool
}

func NewHero(api API) *Hero {
	return &Hero{api: api, mounted: true}
}

func (h *Hero) Phase() Phase {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.phase
}

func (h *Hero) ProfileImage() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.profile.ProfileImage
}

func (h *Hero) Unmount() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.mounted = false
}

func (h *Hero) Mount() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.mounted = true
	h.phase = PhaseIdle
	h.profile = models.HeroProfile{}
}

func (h *Hero) Load(ctx context.Context) error {
	h.mu.Lock()
	if !h.mounted {
		h.mu.Unlock()
		return fault.ErrUnmounted
	}
	h.phase = PhaseLoading
	h.mu.Unlock()

	profile, err := h.api.GetHero(ctx)
	phase := PhaseReady
	if err != nil {
		slog.Warn("Failed to load hero profile, using placeholder", "error", err)
		profile = models.HeroProfile{ProfileImage: PlaceholderHeroImage}
		phase = PhaseStale
	}
	if profile.ProfileImage == "" {
		profile.ProfileImage = PlaceholderHeroImage
	}

	if !h.apply(phase, profile) {
		return fault.ErrUnmounted
	}
	if err != nil {
		return fmt.Errorf("loading hero profile: %w", err)
	}
	return nil
}

// ReplaceImage uploads f and points the profile at the new URL.
func (h *Hero) ReplaceImage(ctx context.Context, f *imaging.File) (models.HeroProfile, error) {
	if !h.begin() {
		return models.HeroProfile{}, fault.ErrInFlight
	}
	defer h.end()

	if f == nil {
		return models.HeroProfile{}, fault.Invalid("image", "please select an image")
	}

	uploaded, err := h.api.UploadImage(ctx, f)
	if err != nil {
		return models.HeroProfile{}, fmt.Errorf("uploading hero image: %w", err)
	}

	return h.update(ctx, uploaded.URL)
}

// RemoveImage resets the profile to the placeholder after confirmation.
func (h *Hero) RemoveImage(ctx context.Context, confirm notify.Confirmer) (bool, error) {
	if !h.begin() {
		return false, fault.ErrInFlight
	}
	defer h.end()

	return notify.Ask(ctx, confirm, "Remove Profile Image",
		"Are you sure you want to remove the profile image?", func() error {
			_, err := h.update(ctx, PlaceholderHeroImage)
			return err
		})
}

func (h *Hero) update(ctx context.Context, url string) (models.HeroProfile, error) {
	profile, err := h.api.UpdateHeroImage(ctx, url)
	if err != nil {
		return models.HeroProfile{}, fmt.Errorf("updating hero image: %w", err)
	}
	if !h.apply(PhaseReady, profile) {
		return profile, fault.ErrUnmounted
	}
	slog.Info("Hero image updated", "url", profile.ProfileImage)
	return profile, nil
}

func (h *Hero) apply(phase Phase, profile models.HeroProfile) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.mounted {
		return false
	}
	h.phase = phase
	h.profile = profile
	return true
}

func (h *Hero) begin() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.busy {
		return false
	}
	h.busy = true
	return true
}

func (h *Hero) end() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.busy = false
}
