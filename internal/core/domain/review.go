package domain

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID        int64
	ListingID int64
	UserID    string
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// ReviewSummary - отзывы карточки и средняя оценка
type ReviewSummary struct {
	Reviews       []Review
	AverageRating float64
	Count         int
}

// Summarize считает среднюю оценку; для пустого списка она равна нулю
func Summarize(reviews []Review) ReviewSummary {
	summary := ReviewSummary{Reviews: reviews, Count: len(reviews)}
	if len(reviews) == 0 {
		return summary
	}
	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	summary.AverageRating = float64(total) / float64(len(reviews))
	return summary
}
