package services

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"portfolio-admin/internal/fault"
	"portfolio-admin/internal/imaging"
	"portfolio-admin/internal/models"
)

const uploadField = "image"

// UploadImage validates f locally and only then sends it as multipart form
// field "image". A rejected file never reaches the network.
func (s *ServiceClient) UploadImage(ctx context.Context, f *imaging.File) (models.UploadResult, error) {
	mimeType, err := imaging.Validate(f, s.maxUploadBytes)
	if err != nil {
		return models.UploadResult{}, err
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, uploadField, f.Name))
	header.Set("Content-Type", mimeType)
	part, err := w.CreatePart(header)
	if err != nil {
		return models.UploadResult{}, fmt.Errorf("building upload: %w", err)
	}
	if _, err := part.Write(f.Data); err != nil {
		return models.UploadResult{}, fmt.Errorf("building upload: %w", err)
	}
	if err := w.Close(); err != nil {
		return models.UploadResult{}, fmt.Errorf("building upload: %w", err)
	}

	var result models.UploadResult
	if err := s.do(ctx, http.MethodPost, "/upload", buf.Bytes(), w.FormDataContentType(), &result); err != nil {
		return models.UploadResult{}, err
	}
	if result.URL == "" {
		return models.UploadResult{}, fmt.Errorf("POST /upload: %w: missing url", fault.ErrMalformedResponse)
	}
	return result, nil
}

func (s *ServiceClient) DeleteImage(ctx context.Context, filename string) error {
	if filename == "" || strings.ContainsAny(filename, `/\`) || filename == "." || filename == ".." {
		return fault.Invalid("filename", fmt.Sprintf("%q is not a stored file name", filename))
	}
	return s.delete(ctx, "/upload/"+url.PathEscape(filename))
}

func (s *ServiceClient) GetHero(ctx context.Context) (models.HeroProfile, error) {
	var hero models.HeroProfile
	if err := s.fetchJSON(ctx, "/hero", &hero); err != nil {
		return models.HeroProfile{}, err
	}
	return hero, nil
}

func (s *ServiceClient) UpdateHeroImage(ctx context.Context, imageURL string) (models.HeroProfile, error) {
	var hero models.HeroProfile
	if err := s.sendJSON(ctx, http.MethodPut, "/hero/image", models.HeroImageUpdate(imageURL), &hero); err != nil {
		return models.HeroProfile{}, err
	}
	if hero.ProfileImage == "" {
		hero.ProfileImage = imageURL
	}
	return hero, nil
}

func (s *ServiceClient) CheckOrphaned(ctx context.Context) (models.CleanupReport, error) {
	var report models.CleanupReport
	if err := s.fetchJSON(ctx, "/cleanup/check", &report); err != nil {
		return models.CleanupReport{}, err
	}
	return report, nil
}

func (s *ServiceClient) CleanupOrphaned(ctx context.Context) (models.CleanupResult, error) {
	var result models.CleanupResult
	if err := s.do(ctx, http.MethodDelete, "/cleanup/orphaned", nil, "", &result); err != nil {
		return models.CleanupResult{}, err
	}
	return result, nil
}
