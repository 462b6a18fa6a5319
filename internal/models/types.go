package models

type Category string

const (
	CategoryFitness  Category = "fitness"
	CategoryMovies   Category = "movies"
	CategoryBusiness Category = "business"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryFitness, CategoryMovies, CategoryBusiness:
		return true
	}
	return false
}

type Product struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Image       string   `json:"image"`
}

type Review struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Review  string `json:"review"`
	Rating  int    `json:"rating"`
	Date    string `json:"date"`
	Product string `json:"product"`
}

type MovieReview struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Year   string `json:"year"`
	Poster string `json:"poster"`
	Vision string `json:"vision"`
	Rating int    `json:"rating"`
}

type FitnessMilestone struct {
	ID          int    `json:"id"`
	Year        string `json:"year"`
	Milestone   string `json:"milestone"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

type HeroProfile struct {
	ProfileImage string `json:"profileImage"`
}

type UploadResult struct {
	URL      string `json:"url"`
	Filename string `json:"filename,omitempty"`
}

type CleanupReport struct {
	TotalFiles    int      `json:"totalFiles"`
	UsedFiles     int      `json:"usedFiles"`
	OrphanedCount int      `json:"orphanedCount"`
	OrphanedFiles []string `json:"orphanedFiles"`
}

type CleanupResult struct {
	DeletedCount int      `json:"deletedCount"`
	DeletedFiles []string `json:"deletedFiles,omitempty"`
}

type ProductInput struct {
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Image       string   `json:"image"`
}

// ReviewInput has no date; the server stamps it.
type ReviewInput struct {
	Name    string `json:"name"`
	Product string `json:"product"`
	Rating  int    `json:"rating"`
	Review  string `json:"review"`
}

type MovieInput struct {
	Title  string `json:"title"`
	Year   string `json:"year"`
	Rating int    `json:"rating"`
	Poster string `json:"poster"`
	Vision string `json:"vision"`
}

type FitnessInput struct {
	Year        string `json:"year"`
	Milestone   string `json:"milestone"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

type heroImageUpdate struct {
	ImageURL string `json:"imageUrl"`
}

// HeroImageUpdate is the PUT /hero/image body.
func HeroImageUpdate(url string) any {
	return heroImageUpdate{ImageURL: url}
}
