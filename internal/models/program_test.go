package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yotaki/bancheck/internal/models"
)

func TestLatestRegularEpisode(t *testing.T) {
	tests := []struct {
		name     string
		numbers  []int
		expected int
	}{
		{"empty list", nil, 0},
		{"sequential run", []int{1, 2, 3}, 3},
		{"unordered", []int{3, 1, 2}, 3},
		{"specials excluded", []int{1, 2, 100, 101}, 2},
		{"only specials", []int{100, 999}, 0},
		{"unnumbered entries ignored", []int{0, 0, 5}, 5},
		{"boundary just below special range", []int{99, 100}, 99},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			episodes := make([]models.Episode, len(tc.numbers))
			for i, n := range tc.numbers {
				episodes[i] = models.Episode{Number: n}
			}
			assert.Equal(t, tc.expected, models.LatestRegularEpisode(episodes))
		})
	}
}

func TestChangeSetEmpty(t *testing.T) {
	assert.True(t, models.ChangeSet{}.Empty())
	assert.False(t, models.ChangeSet{NewEpisodes: []models.Episode{{ID: "ep1"}}}.Empty())
	assert.False(t, models.ChangeSet{PremiumToFree: []models.Episode{{ID: "ep1"}}}.Empty())
}
