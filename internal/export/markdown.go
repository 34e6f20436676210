package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yotaki/bancheck/internal/models"
)

// Markdown renders a stored program snapshot as a human-readable
// document under <outputDir>/<program id>/program.md. The view command
// prints these files.
type Markdown struct {
	outputDir string
}

// NewMarkdown creates a renderer rooted at outputDir.
func NewMarkdown(outputDir string) *Markdown {
	return &Markdown{outputDir: outputDir}
}

// ProgramPath returns where the markdown document for id lives.
func (g *Markdown) ProgramPath(id string) string {
	return filepath.Join(g.outputDir, id, "program.md")
}

// Render returns the markdown document for a program snapshot.
func (g *Markdown) Render(program *models.Program) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", program.Title)
	fmt.Fprintf(&b, "- ID: %s\n", program.ID)
	fmt.Fprintf(&b, "- Platform: %s\n", program.Platform)
	fmt.Fprintf(&b, "- URL: %s\n", program.URL)
	fmt.Fprintf(&b, "- Episodes: %d (latest regular: %d)\n", program.TotalEpisodes, program.LatestEpisodeNumber)
	fmt.Fprintf(&b, "- First fetched: %s\n", program.FetchedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "- Last updated: %s\n", program.UpdatedAt.Format(time.RFC3339))

	if program.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", program.Description)
	}

	if len(program.Episodes) > 0 {
		b.WriteString("\n## Episodes\n\n")
		b.WriteString("| # | Title | Duration | Status |\n")
		b.WriteString("|---|-------|----------|--------|\n")
		for _, ep := range program.Episodes {
			fmt.Fprintf(&b, "| %d | %s | %s | %s |\n",
				ep.Number, ep.Title, formatDuration(ep.Duration), episodeStatus(ep))
		}
	}

	return b.String()
}

// Save writes the markdown document and returns its path.
func (g *Markdown) Save(program *models.Program) (string, error) {
	dir := filepath.Join(g.outputDir, program.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &models.StorageError{Op: "write program markdown", Cause: err}
	}
	path := g.ProgramPath(program.ID)
	if err := os.WriteFile(path, []byte(g.Render(program)), 0o644); err != nil {
		return "", &models.StorageError{Op: "write program markdown", Cause: err}
	}
	return path, nil
}

func formatDuration(seconds int) string {
	if seconds <= 0 {
		return "-"
	}
	d := time.Duration(seconds) * time.Second
	if d >= time.Hour {
		return fmt.Sprintf("%d:%02d:%02d", int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60)
	}
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

func episodeStatus(ep models.Episode) string {
	switch {
	case ep.IsDownloadable:
		return "free"
	case ep.IsPremiumOnly:
		return "premium"
	default:
		return "unavailable"
	}
}
