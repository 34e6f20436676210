// Package export renders update results for consumption outside the
// tracker: a line-oriented download list for batch downloaders, a
// per-program markdown document for humans, and a structured record
// batch for machines.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yotaki/bancheck/internal/models"
	"github.com/yotaki/bancheck/internal/providers"
)

// ProgramChanges pairs a program snapshot with the change set one
// update cycle produced for it.
type ProgramChanges struct {
	Program *models.Program
	Changes models.ChangeSet
}

// DownloadList writes plain-text URL lists into the output directory.
type DownloadList struct {
	outputDir string
}

// NewDownloadList creates a generator rooted at outputDir.
func NewDownloadList(outputDir string) *DownloadList {
	return &DownloadList{outputDir: outputDir}
}

// Generate writes the download list for a single program and returns
// the path of the written file.
func (g *DownloadList) Generate(program *models.Program, changes models.ChangeSet, filename string) (string, error) {
	lines := renderProgram(program, changes)
	return g.writeLines(lines, filename)
}

// GenerateCombined writes one list covering every updated program. It
// returns an empty path when there is nothing to report.
func (g *DownloadList) GenerateCombined(updates []ProgramChanges, filename string) (string, error) {
	var lines []string
	for _, u := range updates {
		lines = append(lines, renderProgram(u.Program, u.Changes)...)
	}
	if len(lines) == 0 {
		return "", nil
	}
	return g.writeLines(lines, filename)
}

func (g *DownloadList) writeLines(lines []string, filename string) (string, error) {
	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		return "", &models.StorageError{Op: "write download list", Cause: err}
	}
	path := filepath.Join(g.outputDir, filename)
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", &models.StorageError{Op: "write download list", Cause: err}
	}
	return path, nil
}

// renderProgram groups a program's events into a "New Episodes" section
// with titled entries and a bare-URL "Premium to Free" section. Episode
// order is by number; that is presentation only, the diff itself keeps
// snapshot order.
func renderProgram(program *models.Program, changes models.ChangeSet) []string {
	var lines []string
	if len(changes.NewEpisodes) > 0 {
		lines = append(lines, fmt.Sprintf("# %s - New Episodes", program.Title))
		for _, ep := range sortedByNumber(changes.NewEpisodes) {
			lines = append(lines, fmt.Sprintf("# Episode %d: %s", ep.Number, ep.Title))
			lines = append(lines, EpisodeURL(program, ep))
			lines = append(lines, "")
		}
	}
	if len(changes.PremiumToFree) > 0 {
		lines = append(lines, fmt.Sprintf("# %s - Premium to Free", program.Title))
		for _, ep := range sortedByNumber(changes.PremiumToFree) {
			lines = append(lines, EpisodeURL(program, ep))
		}
		lines = append(lines, "")
	}
	return lines
}

// sortedByNumber returns a number-sorted copy; the change set's own
// slices are never reordered.
func sortedByNumber(episodes []models.Episode) []models.Episode {
	sorted := make([]models.Episode, len(episodes))
	copy(sorted, episodes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Number < sorted[j].Number
	})
	return sorted
}

// EpisodeURL resolves the playback page for an episode through the
// program's platform provider, falling back to whatever URL the
// snapshot itself carries.
func EpisodeURL(program *models.Program, ep models.Episode) string {
	if provider, ok := providers.Get(program.Platform); ok {
		return provider.EpisodeURL(ep)
	}
	return ep.DownloadURL
}
