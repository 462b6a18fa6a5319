package resource

import (
	"portfolio-admin/internal/config"
	"portfolio-admin/internal/models"
)

const placeholderImage = "https://via.placeholder.com/300"

type SeedPolicy int

const (
	// SeedFallback shows the seed list only when the remote list cannot be fetched.
	SeedFallback SeedPolicy = iota
	// SeedMerge always shows seed items first, followed by remote items.
	SeedMerge
)

func PolicyFromConfig(name string) SeedPolicy {
	if name == config.SeedPolicyMerge {
		return SeedMerge
	}
	return SeedFallback
}

func ProductSeed() []models.Product {
	return []models.Product{
		{ID: 1, Name: "Pure Organic Honey", Price: 25.99, Category: models.CategoryBusiness, Image: placeholderImage,
			Description: "100% natural honey harvested from pristine locations, rich in flavor and nutrients"},
		{ID: 2, Name: "Raw Wildflower Honey", Price: 29.99, Category: models.CategoryBusiness, Image: placeholderImage,
			Description: "Unfiltered wildflower honey with natural enzymes and antioxidants"},
		{ID: 3, Name: "Natural Peanut Butter", Price: 12.99, Category: models.CategoryBusiness, Image: placeholderImage,
			Description: "Creamy peanut butter made from 100% roasted peanuts, no additives"},
		{ID: 4, Name: "Almond Butter", Price: 15.99, Category: models.CategoryBusiness, Image: placeholderImage,
			Description: "Premium almond butter packed with protein and healthy fats"},
	}
}

func ReviewSeed() []models.Review {
	return []models.Review{
		{ID: 1, Name: "Sarah Johnson", Rating: 5, Date: "Nov 2025", Product: "Pure Organic Honey",
			Review: "The pure organic honey is absolutely delicious! You can taste the quality in every spoonful. Best honey I've ever had!"},
		{ID: 2, Name: "Michael Chen", Rating: 5, Date: "Oct 2025", Product: "Raw Wildflower Honey",
			Review: "Raw wildflower honey is exceptional. The natural enzymes and flavor are unmatched. Highly recommend!"},
		{ID: 3, Name: "Emily Rodriguez", Rating: 5, Date: "Dec 2025", Product: "Natural Peanut Butter",
			Review: "The peanut butter is so fresh and creamy! No weird additives, just pure peanuts. My kids love it!"},
		{ID: 4, Name: "David Thompson", Rating: 5, Date: "Nov 2025", Product: "Almond Butter",
			Review: "Almond butter is perfect for my morning smoothies. Great quality and taste. Will definitely order again!"},
		{ID: 5, Name: "Priya Sharma", Rating: 5, Date: "Oct 2025", Product: "Pure Organic Honey",
			Review: "Amazing honey! I use it in my tea every morning. The quality and purity are evident. Five stars!"},
		{ID: 6, Name: "James Wilson", Rating: 5, Date: "Dec 2025", Product: "Almond Butter",
			Review: "Best nut butters I've found! No oil separation, perfect texture, and incredible flavor. Highly satisfied!"},
	}
}

func MovieSeed() []models.MovieReview {
	const poster = "https://via.placeholder.com/300x450"
	return []models.MovieReview{
		{ID: 1, Title: "The Shawshank Redemption", Year: "1994", Poster: poster, Rating: 5,
			Vision: "A masterpiece about hope and perseverance. This film teaches us that no matter how dark the circumstances, the human spirit can never be truly imprisoned. The friendship between Andy and Red is one of cinema's most beautiful relationships. It's a reminder that patience, intelligence, and hope can overcome any obstacle."},
		{ID: 2, Title: "Inception", Year: "2010", Poster: poster, Rating: 5,
			Vision: "Christopher Nolan's brilliant exploration of dreams and reality. The film challenges our perception and makes us question what's real. The layered storytelling and mind-bending visuals create an experience that stays with you long after. It's about the power of ideas and how they can change everything."},
		{ID: 3, Title: "Parasite", Year: "2019", Poster: poster, Rating: 5,
			Vision: "A stunning social commentary wrapped in dark comedy and thriller elements. Bong Joon-ho masterfully exposes class divide and inequality. Every frame is meticulously crafted, every metaphor deliberate. It's cinema that entertains while making you think deeply about society."},
		{ID: 4, Title: "Interstellar", Year: "2014", Poster: poster, Rating: 5,
			Vision: "An epic journey that combines science with profound human emotion. The film explores love transcending space and time, sacrifice for future generations, and humanity's will to survive. Hans Zimmer's score elevates every moment. It's both intellectually stimulating and emotionally devastating."},
	}
}

func FitnessSeed() []models.FitnessMilestone {
	const image = "https://via.placeholder.com/400x300"
	return []models.FitnessMilestone{
		{ID: 1, Year: "2020", Milestone: "The Beginning", Image: image,
			Description: "Started my fitness journey with basic bodyweight exercises and running. Committed to changing my lifestyle."},
		{ID: 2, Year: "2021", Milestone: "Building Foundation", Image: image,
			Description: "Joined a gym, learned proper form, and started following structured workout programs. Lost 15kg."},
		{ID: 3, Year: "2022", Milestone: "Strength & Discipline", Image: image,
			Description: "Achieved major strength milestones. Started helping friends with their fitness goals."},
		{ID: 4, Year: "2023-Present", Milestone: "Lifestyle & Coaching", Image: image,
			Description: "Fitness became my lifestyle. Now coaching others and continuously learning about optimization and nutrition."},
	}
}

// mergeOnly returns seed under SeedMerge and nothing otherwise, for
// collections that show no sample data unless merging.
func mergeOnly[T any](policy SeedPolicy, seed []T) []T {
	if policy == SeedMerge {
		return seed
	}
	return nil
}
