// Package extractor wraps the external metadata extractor (yt-dlp or a
// compatible binary) behind a small runner. Adapters hand it a page URL
// and get back the extractor's JSON info document; all HTML scraping
// and format probing stays inside the external tool.
package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/yotaki/bancheck/internal/config"
	"github.com/yotaki/bancheck/internal/models"
)

// Info is the subset of the extractor's JSON output the tracker uses.
// A playlist dump carries Entries; a single-video dump carries the
// entry fields at the top level instead.
type Info struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	WebpageURL  string   `json:"webpage_url"`
	Thumbnail   string   `json:"thumbnail"`
	Entries     []*Entry `json:"entries"`
}

// Entry is one video of a playlist dump.
type Entry struct {
	ID            string   `json:"id"`
	EpisodeNumber int      `json:"episode_number"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Duration      float64  `json:"duration"`
	Thumbnail     string   `json:"thumbnail"`
	Availability  string   `json:"availability"`
	URL           string   `json:"url"`
	WebpageURL    string   `json:"webpage_url"`
	UploadDate    string   `json:"upload_date"`
	Formats       []Format `json:"formats"`
}

// Format is one playable rendition reported by the extractor.
type Format struct {
	FormatID   string  `json:"format_id"`
	Resolution string  `json:"resolution"`
	TBR        float64 `json:"tbr"`
	URL        string  `json:"url"`
}

// Runner executes the extractor binary with a bounded timeout and a
// shared rate limit toward upstream sites.
type Runner struct {
	path    string
	timeout time.Duration
	limiter *rate.Limiter
}

// NewRunner builds a Runner from the extractor section of the config.
func NewRunner(cfg *config.Config) *Runner {
	perSecond := cfg.Extractor.RatePerSecond
	if perSecond <= 0 {
		perSecond = 1
	}
	timeout := time.Duration(cfg.Extractor.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Runner{
		path:    cfg.Extractor.Path,
		timeout: timeout,
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

// Dump runs the extractor against url and parses its JSON output.
// The per-invocation timeout makes an unresponsive upstream surface as
// an ordinary extractor failure rather than a hang.
func (r *Runner) Dump(ctx context.Context, url string) (*Info, error) {
	var info Info
	if err := r.run(ctx, url, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// DumpEntry runs the extractor against the page of a single video.
// Single-video dumps carry the entry fields at the top level, so the
// output parses directly into an Entry.
func (r *Runner) DumpEntry(ctx context.Context, url string) (*Entry, error) {
	var entry Entry
	if err := r.run(ctx, url, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *Runner) run(ctx context.Context, url string, out any) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return &models.ExtractorError{URL: url, Cause: err}
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	args := []string{
		"--dump-single-json",
		"--no-warnings",
		"--skip-download",
		url,
	}
	cmd := exec.CommandContext(ctx, r.path, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		cause := err
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			cause = &stderrError{msg: msg, err: err}
		}
		return &models.ExtractorError{URL: url, Cause: cause}
	}

	if err := json.Unmarshal(stdout.Bytes(), out); err != nil {
		return &models.ExtractorError{URL: url, Cause: err}
	}
	return nil
}

// Version reports the extractor binary's own version string.
func (r *Runner) Version(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, r.path, "--version").Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

type stderrError struct {
	msg string
	err error
}

func (e *stderrError) Error() string { return e.msg }
func (e *stderrError) Unwrap() error { return e.err }
