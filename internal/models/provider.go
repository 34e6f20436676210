package models

import "context"

// ProviderInfo contains static information about a platform provider.
type ProviderInfo struct {
	ID   Platform `json:"id"`
	Name string   `json:"name"`
}

// Provider defines the contract that every platform adapter must implement.
// FetchProgram must return a fully-populated snapshot with FetchedAt and
// UpdatedAt both stamped to the fetch time, and must be read-only against
// the upstream.
type Provider interface {
	GetInfo() ProviderInfo
	// Resolve inspects an arbitrary URL or bare identifier and reports the
	// normalized program id when this provider recognizes it.
	Resolve(urlOrID string) (programID string, ok bool)
	FetchProgram(ctx context.Context, programID string) (*Program, error)
	// EpisodeURL returns the canonical playback page for an episode.
	EpisodeURL(ep Episode) string
}
