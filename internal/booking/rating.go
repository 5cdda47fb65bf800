package booking

import (
	"math"

	"medbooking-server/internal/models"
)

// Recompute derives a doctor's rating aggregate from the full set of current
// rating values. The average is rounded to one decimal place.
func Recompute(values []int) models.RatingSummary {
	if len(values) == 0 {
		return models.RatingSummary{}
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	avg := float64(sum) / float64(len(values))
	return models.RatingSummary{
		Average: math.Round(avg*10) / 10,
		Count:   len(values),
	}
}
