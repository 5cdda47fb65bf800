package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"medbooking-server/internal/models"
)

func TestRecompute(t *testing.T) {
	tests := []struct {
		name   string
		values []int
		want   models.RatingSummary
	}{
		{"empty", nil, models.RatingSummary{Average: 0, Count: 0}},
		{"single", []int{5}, models.RatingSummary{Average: 5.0, Count: 1}},
		{"exact mean", []int{4, 5}, models.RatingSummary{Average: 4.5, Count: 2}},
		{"rounds down", []int{5, 4, 4}, models.RatingSummary{Average: 4.3, Count: 3}},
		{"rounds up", []int{5, 5, 4}, models.RatingSummary{Average: 4.7, Count: 3}},
		{"half rounds away from zero", []int{1, 2}, models.RatingSummary{Average: 1.5, Count: 2}},
		{"all ones", []int{1, 1, 1, 1}, models.RatingSummary{Average: 1.0, Count: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Recompute(tt.values))
		})
	}
}
