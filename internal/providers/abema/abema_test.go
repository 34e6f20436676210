package abema_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yotaki/bancheck/internal/config"
	"github.com/yotaki/bancheck/internal/models"
	"github.com/yotaki/bancheck/internal/providers/abema"
	"github.com/yotaki/bancheck/internal/providers/extractor"
	"github.com/yotaki/bancheck/internal/testutil"
)

func newProvider(t *testing.T) (*abema.Provider, *config.Config) {
	t.Helper()
	cfg := testutil.NewConfig(t)
	cfg.Extractor.Path = "/nonexistent/yt-dlp" // any live fetch must fail loudly
	return abema.New(cfg, extractor.NewRunner(cfg)), cfg
}

func seedCache(t *testing.T, cfg *config.Config, programID string, info *extractor.Info) {
	t.Helper()
	dir := filepath.Join(cfg.Cache.Dir, "abema")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	data, err := json.Marshal(info)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, programID+".json"), data, 0o644))
}

func TestResolve(t *testing.T) {
	p, _ := newProvider(t)

	tests := []struct {
		name  string
		input string
		id    string
		ok    bool
	}{
		{"title url", "https://abema.tv/video/title/26-156", "26-156", true},
		{"title url with season query", "https://abema.tv/video/title/26-156?s=26-156_s2", "26-156", true},
		{"bare id", "194-25", "194-25", true},
		{"abema url without title", "https://abema.tv/now-on-air/abema-news", "", false},
		{"bare id of another platform", "srkq4a2e6u", "", false},
		{"channel name", "danime", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			id, ok := p.Resolve(tc.input)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.id, id)
		})
	}
}

func TestEpisodeURL(t *testing.T) {
	p, _ := newProvider(t)
	ep := models.Episode{ID: "26-156_s1_p1"}
	assert.Equal(t, "https://abema.tv/video/episode/26-156_s1_p1", p.EpisodeURL(ep))
}

func TestFetchProgramFromCache(t *testing.T) {
	p, cfg := newProvider(t)
	seedCache(t, cfg, "26-156", &extractor.Info{
		ID:         "26-156",
		Title:      "Cached Program",
		WebpageURL: "https://abema.tv/video/title/26-156",
		Entries: []*extractor.Entry{
			{
				ID:            "ep1",
				EpisodeNumber: 1,
				Title:         "Episode 1",
				Availability:  "public",
				Formats:       []extractor.Format{{FormatID: "hls-1080"}},
			},
			{ID: "ep2", EpisodeNumber: 2, Title: "Episode 2", Availability: "premium_only"},
		},
	})

	program, err := p.FetchProgram(context.Background(), "26-156")
	require.NoError(t, err)

	assert.Equal(t, "26-156", program.ID)
	assert.Equal(t, "Cached Program", program.Title)
	assert.Equal(t, models.PlatformAbema, program.Platform)
	require.Len(t, program.Episodes, 2)
	assert.True(t, program.Episodes[0].IsDownloadable)
	assert.True(t, program.Episodes[1].IsPremiumOnly)
	assert.Equal(t, 2, program.TotalEpisodes)
	assert.Equal(t, 2, program.LatestEpisodeNumber)
}

func TestFetchProgramFillsIdentityFallbacks(t *testing.T) {
	p, cfg := newProvider(t)
	// A dump without id/webpage_url still yields a usable snapshot.
	seedCache(t, cfg, "26-156", &extractor.Info{Title: "Sparse"})

	program, err := p.FetchProgram(context.Background(), "26-156")
	require.NoError(t, err)
	assert.Equal(t, "26-156", program.ID)
	assert.Equal(t, "https://abema.tv/video/title/26-156", program.URL)
}

func TestFetchProgramExtractorFailure(t *testing.T) {
	p, _ := newProvider(t)

	_, err := p.FetchProgram(context.Background(), "26-156")
	require.Error(t, err)

	var fetchErr *models.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, "26-156", fetchErr.ProgramID)
}

// stubScript fakes the extractor: it answers the base title URL with
// main.json, the season 2 URL with s2.json, and fails on anything else.
func stubScript(t *testing.T, dir string) string {
	t.Helper()
	script := `#!/bin/sh
for a in "$@"; do url=$a; done
case "$url" in
  *_s2*) cat ` + dir + `/s2.json ;;
  *_s*) exit 1 ;;
  *) cat ` + dir + `/main.json ;;
esac
`
	path := filepath.Join(dir, "fake-yt-dlp")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func writeInfo(t *testing.T, path string, info *extractor.Info) {
	t.Helper()
	data, err := json.Marshal(info)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestFetchProgramMergesSeasons(t *testing.T) {
	dir := t.TempDir()
	writeInfo(t, filepath.Join(dir, "main.json"), &extractor.Info{
		ID:    "26-156",
		Title: "Long Runner",
		Entries: []*extractor.Entry{
			{ID: "s1e1", EpisodeNumber: 1, Availability: "public", Formats: []extractor.Format{{FormatID: "f"}}},
			{ID: "s1e2", EpisodeNumber: 2, Availability: "public", Formats: []extractor.Format{{FormatID: "f"}}},
		},
	})
	writeInfo(t, filepath.Join(dir, "s2.json"), &extractor.Info{
		ID: "26-156",
		Entries: []*extractor.Entry{
			{ID: "s2e1", EpisodeNumber: 3, Availability: "public", Formats: []extractor.Format{{FormatID: "f"}}},
		},
	})

	cfg := testutil.NewConfig(t)
	cfg.Extractor.Path = stubScript(t, dir)
	cfg.SeasonDetection.Threshold = 2
	p := abema.New(cfg, extractor.NewRunner(cfg))

	program, err := p.FetchProgram(context.Background(), "26-156")
	require.NoError(t, err)

	require.Len(t, program.Episodes, 3)
	assert.Equal(t, "s2e1", program.Episodes[2].ID)
	assert.Equal(t, 3, program.LatestEpisodeNumber)
}

func TestFetchProgramBelowThresholdSkipsSeasonProbing(t *testing.T) {
	dir := t.TempDir()
	writeInfo(t, filepath.Join(dir, "main.json"), &extractor.Info{
		ID: "26-156",
		Entries: []*extractor.Entry{
			{ID: "s1e1", EpisodeNumber: 1, Availability: "public", Formats: []extractor.Format{{FormatID: "f"}}},
		},
	})
	writeInfo(t, filepath.Join(dir, "s2.json"), &extractor.Info{
		ID:      "26-156",
		Entries: []*extractor.Entry{{ID: "s2e1", EpisodeNumber: 2}},
	})

	cfg := testutil.NewConfig(t)
	cfg.Extractor.Path = stubScript(t, dir)
	cfg.SeasonDetection.Threshold = 12
	p := abema.New(cfg, extractor.NewRunner(cfg))

	program, err := p.FetchProgram(context.Background(), "26-156")
	require.NoError(t, err)
	require.Len(t, program.Episodes, 1)
}

func TestFetchProgramCachesMergedSeasons(t *testing.T) {
	dir := t.TempDir()
	writeInfo(t, filepath.Join(dir, "main.json"), &extractor.Info{
		ID: "26-156",
		Entries: []*extractor.Entry{
			{ID: "s1e1", EpisodeNumber: 1},
			{ID: "s1e2", EpisodeNumber: 2},
		},
	})
	writeInfo(t, filepath.Join(dir, "s2.json"), &extractor.Info{
		ID:      "26-156",
		Entries: []*extractor.Entry{{ID: "s2e1", EpisodeNumber: 3}},
	})

	cfg := testutil.NewConfig(t)
	cfg.Extractor.Path = stubScript(t, dir)
	cfg.SeasonDetection.Threshold = 2
	p := abema.New(cfg, extractor.NewRunner(cfg))

	first, err := p.FetchProgram(context.Background(), "26-156")
	require.NoError(t, err)
	require.Len(t, first.Episodes, 3)

	// Break the extractor; the second fetch must be served whole from
	// the cache, later seasons included.
	require.NoError(t, os.Remove(filepath.Join(dir, "main.json")))
	require.NoError(t, os.Remove(filepath.Join(dir, "s2.json")))
	second, err := p.FetchProgram(context.Background(), "26-156")
	require.NoError(t, err)
	assert.Len(t, second.Episodes, 3)
}
