package feedback

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	MinRating = 1
	MaxRating = 5
)

type Feedback struct {
	ID           string    `json:"id"`
	CustomerName string    `json:"customer_name"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"created_at"`
}

type Summary struct {
	Count   int             `json:"count"`
	Average decimal.Decimal `json:"average"`
	Display string          `json:"display"`
}

// AverageRating is the unrounded mean rating, zero for no feedback.
func AverageRating(list []Feedback) decimal.Decimal {
	if len(list) == 0 {
		return decimal.Zero
	}
	sum := 0
	for _, f := range list {
		sum += f.Rating
	}
	return decimal.NewFromInt(int64(sum)).Div(decimal.NewFromInt(int64(len(list))))
}

// DisplayAverage renders an average with one decimal place.
func DisplayAverage(avg decimal.Decimal) string {
	return avg.StringFixed(1)
}

func Summarize(list []Feedback) Summary {
	avg := AverageRating(list)
	return Summary{Count: len(list), Average: avg, Display: DisplayAverage(avg)}
}
