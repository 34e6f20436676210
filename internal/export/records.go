package export

import (
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/yotaki/bancheck/internal/models"
)

// EntryType discriminates what kind of transition a record describes.
type EntryType string

const (
	EntryTypeNew           EntryType = "new"
	EntryTypePremiumToFree EntryType = "premium_to_free"
)

// Record is one episode-level event in machine-readable form.
type Record struct {
	EntryType    EntryType       `json:"entry_type"`
	ID           string          `json:"id"`
	URL          string          `json:"url"`
	Title        string          `json:"title"`
	SeriesTitle  string          `json:"series_title"`
	Number       int             `json:"number"`
	Duration     int             `json:"duration"`
	ThumbnailURL string          `json:"thumbnail_url,omitempty"`
	UploadDate   string          `json:"upload_date,omitempty"`
	Platform     models.Platform `json:"platform"`
}

// Batch is a full export of one update cycle's events plus metadata.
type Batch struct {
	BatchID            string    `json:"batch_id"`
	GeneratedAt        time.Time `json:"generated_at"`
	NewCount           int       `json:"new_count"`
	PremiumToFreeCount int       `json:"premium_to_free_count"`
	TotalCount         int       `json:"total_count"`
	Entries            []Record  `json:"entries"`
}

// BuildBatch flattens the per-program change sets into a record batch.
func BuildBatch(updates []ProgramChanges) *Batch {
	batch := &Batch{
		BatchID:     uuid.NewString(),
		GeneratedAt: time.Now(),
		Entries:     []Record{},
	}
	for _, u := range updates {
		for _, ep := range sortedByNumber(u.Changes.NewEpisodes) {
			batch.Entries = append(batch.Entries, record(EntryTypeNew, u.Program, ep))
			batch.NewCount++
		}
		for _, ep := range sortedByNumber(u.Changes.PremiumToFree) {
			batch.Entries = append(batch.Entries, record(EntryTypePremiumToFree, u.Program, ep))
			batch.PremiumToFreeCount++
		}
	}
	batch.TotalCount = batch.NewCount + batch.PremiumToFreeCount
	return batch
}

// WriteBatch serializes a batch as indented JSON.
func WriteBatch(batch *Batch, path string) error {
	data, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return &models.StorageError{Op: "write record batch", Cause: err}
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &models.StorageError{Op: "write record batch", Cause: err}
	}
	return nil
}

func record(entryType EntryType, program *models.Program, ep models.Episode) Record {
	return Record{
		EntryType:    entryType,
		ID:           ep.ID,
		URL:          EpisodeURL(program, ep),
		Title:        ep.Title,
		SeriesTitle:  program.Title,
		Number:       ep.Number,
		Duration:     ep.Duration,
		ThumbnailURL: ep.ThumbnailURL,
		UploadDate:   ep.UploadDate,
		Platform:     program.Platform,
	}
}
