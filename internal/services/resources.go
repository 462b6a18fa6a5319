package services

import (
	"context"
	"fmt"
	"net/http"

	"portfolio-admin/internal/models"
)

func (s *ServiceClient) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := s.fetchJSON(ctx, "/products", &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *ServiceClient) CreateProduct(ctx context.Context, in models.ProductInput) (models.Product, error) {
	var product models.Product
	if err := s.sendJSON(ctx, http.MethodPost, "/products", in, &product); err != nil {
		return models.Product{}, err
	}
	return product, nil
}

func (s *ServiceClient) DeleteProduct(ctx context.Context, id int) error {
	return s.delete(ctx, fmt.Sprintf("/products/%d", id))
}

func (s *ServiceClient) ListReviews(ctx context.Context) ([]models.Review, error) {
	var reviews []models.Review
	if err := s.fetchJSON(ctx, "/reviews", &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (s *ServiceClient) CreateReview(ctx context.Context, in models.ReviewInput) (models.Review, error) {
	var review models.Review
	if err := s.sendJSON(ctx, http.MethodPost, "/reviews", in, &review); err != nil {
		return models.Review{}, err
	}
	return review, nil
}

func (s *ServiceClient) DeleteReview(ctx context.Context, id int) error {
	return s.delete(ctx, fmt.Sprintf("/reviews/%d", id))
}

func (s *ServiceClient) ListMovies(ctx context.Context) ([]models.MovieReview, error) {
	var movies []models.MovieReview
	if err := s.fetchJSON(ctx, "/movies", &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

func (s *ServiceClient) CreateMovie(ctx context.Context, in models.MovieInput) (models.MovieReview, error) {
	var movie models.MovieReview
	if err := s.sendJSON(ctx, http.MethodPost, "/movies", in, &movie); err != nil {
		return models.MovieReview{}, err
	}
	return movie, nil
}

func (s *ServiceClient) DeleteMovie(ctx context.Context, id int) error {
	return s.delete(ctx, fmt.Sprintf("/movies/%d", id))
}

func (s *ServiceClient) ListFitness(ctx context.Context) ([]models.FitnessMilestone, error) {
	var milestones []models.FitnessMilestone
	if err := s.fetchJSON(ctx, "/fitness", &milestones); err != nil {
		return nil, err
	}
	return milestones, nil
}

func (s *ServiceClient) CreateFitness(ctx context.Context, in models.FitnessInput) (models.FitnessMilestone, error) {
	var milestone models.FitnessMilestone
	if err := s.sendJSON(ctx, http.MethodPost, "/fitness", in, &milestone); err != nil {
		return models.FitnessMilestone{}, err
	}
	return milestone, nil
}

func (s *ServiceClient) DeleteFitness(ctx context.Context, id int) error {
	return s.delete(ctx, fmt.Sprintf("/fitness/%d", id))
}
