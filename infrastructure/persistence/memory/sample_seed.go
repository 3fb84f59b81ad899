// Package memory provides seed sources that need no external storage.
package memory

import (
	"context"
	"time"

	"comments-backend/domain/core/entities"
	"comments-backend/infrastructure/persistence/seed"
)

// SampleRecords is the thread a fresh development session starts with
var SampleRecords = []seed.Record{
	{
		ID:           3,
		AuthorID:     "13258165",
		AuthorName:   "Jay Zhou",
		AuthorAvatar: "https://avatars.example.com/13258165.png",
		Body:         "Nice, well done",
		CreatedAt:    "10-18 08:15",
		LikeCount:    88,
	},
	{
		ID:           2,
		AuthorID:     "36080105",
		AuthorName:   "Song Xu",
		AuthorAvatar: "https://avatars.example.com/36080105.png",
		Body:         "I search for you thousands of times, from dawn till dusk.",
		CreatedAt:    "11-13 11:29",
		LikeCount:    88,
	},
	{
		ID:           1,
		AuthorID:     "30009257",
		AuthorName:   "John",
		AuthorAvatar: "https://avatars.example.com/30009257.png",
		Body:         "I told my computer I needed a break... now it will not stop sending me vacation ads.",
		CreatedAt:    "10-19 09:00",
		LikeCount:    66,
	},
}

// SeedSource serves a fixed set of records from memory
type SeedSource struct {
	records []seed.Record
	clock   func() time.Time
}

// NewSampleSeedSource serves SampleRecords
func NewSampleSeedSource() *SeedSource {
	return NewSeedSource(SampleRecords)
}

// NewSeedSource serves records
func NewSeedSource(records []seed.Record) *SeedSource {
	return &SeedSource{
		records: records,
		clock:   time.Now,
	}
}

// WithClock sets the time short seed timestamps are resolved against
func (s *SeedSource) WithClock(clock func() time.Time) *SeedSource {
	s.clock = clock
	return s
}

// LoadSeed implements ports.SeedSource
func (s *SeedSource) LoadSeed(ctx context.Context) ([]*entities.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return seed.ToComments(s.records, s.clock())
}

// Name implements ports.SeedSource
func (s *SeedSource) Name() string {
	return "memory"
}
