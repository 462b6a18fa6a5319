package resource

import (
	"context"
	"strconv"

	"portfolio-admin/internal/imaging"
	"portfolio-admin/internal/models"
)

// API is the slice of the gateway client the controllers need.
type API interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, in models.ProductInput) (models.Product, error)
	DeleteProduct(ctx context.Context, id int) error

	ListReviews(ctx context.Context) ([]models.Review, error)
	CreateReview(ctx context.Context, in models.ReviewInput) (models.Review, error)
	DeleteReview(ctx context.Context, id int) error

	ListMovies(ctx context.Context) ([]models.MovieReview, error)
	CreateMovie(ctx context.Context, in models.MovieInput) (models.MovieReview, error)
	DeleteMovie(ctx context.Context, id int) error

	ListFitness(ctx context.Context) ([]models.FitnessMilestone, error)
	CreateFitness(ctx context.Context, in models.FitnessInput) (models.FitnessMilestone, error)
	DeleteFitness(ctx context.Context, id int) error

	UploadImage(ctx context.Context, f *imaging.File) (models.UploadResult, error)
	GetHero(ctx context.Context) (models.HeroProfile, error)
	UpdateHeroImage(ctx context.Context, imageURL string) (models.HeroProfile, error)
}

type (
	Products = Controller[models.Product, models.ProductInput]
	Reviews  = Controller[models.Review, models.ReviewInput]
	Movies   = Controller[models.MovieReview, models.MovieInput]
	Fitness  = Controller[models.FitnessMilestone, models.FitnessInput]
)

func NewProducts(api API, policy SeedPolicy) *Products {
	return NewController(Spec[models.Product, models.ProductInput]{
		Name:     "products",
		Singular: "product",
		List:     api.ListProducts,
		Create:   api.CreateProduct,
		Delete:   api.DeleteProduct,
		ID:       func(p models.Product) int { return p.ID },
		Label:    func(p models.Product) string { return strconv.Quote(p.Name) },
		Image: &ImageField[models.ProductInput]{
			Get: func(in models.ProductInput) string { return in.Image },
			Set: func(in models.ProductInput, url string) models.ProductInput { in.Image = url; return in },
		},
		Upload: api.UploadImage,
		Seed:   ProductSeed(),
		Policy: policy,
	})
}

// NewReviews always replaces the list on a successful load; the seed is
// only a fallback, whatever policy the other collections use.
func NewReviews(api API) *Reviews {
	return NewController(Spec[models.Review, models.ReviewInput]{
		Name:     "reviews",
		Singular: "review",
		List:     api.ListReviews,
		Create:   api.CreateReview,
		Delete:   api.DeleteReview,
		ID:       func(r models.Review) int { return r.ID },
		Label:    func(r models.Review) string { return "the review from " + strconv.Quote(r.Name) },
		Seed:     ReviewSeed(),
		Policy:   SeedFallback,
	})
}

func NewMovies(api API, policy SeedPolicy) *Movies {
	return NewController(Spec[models.MovieReview, models.MovieInput]{
		Name:     "movies",
		Singular: "movie review",
		List:     api.ListMovies,
		Create:   api.CreateMovie,
		Delete:   api.DeleteMovie,
		ID:       func(m models.MovieReview) int { return m.ID },
		Label:    func(m models.MovieReview) string { return strconv.Quote(m.Title) },
		Image: &ImageField[models.MovieInput]{
			Get: func(in models.MovieInput) string { return in.Poster },
			Set: func(in models.MovieInput, url string) models.MovieInput { in.Poster = url; return in },
		},
		Upload: api.UploadImage,
		Seed:   mergeOnly(policy, MovieSeed()),
		Policy: policy,
	})
}

func NewFitness(api API, policy SeedPolicy) *Fitness {
	return NewController(Spec[models.FitnessMilestone, models.FitnessInput]{
		Name:     "fitness",
		Singular: "milestone",
		List:     api.ListFitness,
		Create:   api.CreateFitness,
		Delete:   api.DeleteFitness,
		ID:       func(f models.FitnessMilestone) int { return f.ID },
		Label:    func(f models.FitnessMilestone) string { return strconv.Quote(f.Milestone) },
		Image: &ImageField[models.FitnessInput]{
			Get: func(in models.FitnessInput) string { return in.Image },
			Set: func(in models.FitnessInput, url string) models.FitnessInput { in.Image = url; return in },
		},
		Upload: api.UploadImage,
		Seed:   mergeOnly(policy, FitnessSeed()),
		Policy: policy,
	})
}
