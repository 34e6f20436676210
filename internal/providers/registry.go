// Package providers holds the registry of platform adapters. The set
// of platforms is closed; each adapter registers itself at startup and
// is selected either by the platform tag of a stored snapshot or by
// sniffing a URL/id through Resolve.
package providers

import (
	"fmt"

	"github.com/yotaki/bancheck/internal/models"
)

var (
	registry = make(map[models.Platform]models.Provider)
	// order preserves registration order; Resolve walks providers in
	// this order so the URL-sniffing rules stay deterministic.
	order []models.Platform
)

// Register adds a new provider to the registry. It's called at startup.
func Register(p models.Provider) {
	info := p.GetInfo()
	if _, exists := registry[info.ID]; exists {
		// Panic is appropriate here as it's a developer error during setup.
		panic(fmt.Sprintf("provider with ID '%s' is already registered", info.ID))
	}
	registry[info.ID] = p
	order = append(order, info.ID)
}

// Get returns a provider by its platform tag.
func Get(platform models.Platform) (models.Provider, bool) {
	p, ok := registry[platform]
	return p, ok
}

// All returns information for all registered providers in registration order.
func All() []models.ProviderInfo {
	infos := make([]models.ProviderInfo, 0, len(order))
	for _, id := range order {
		infos = append(infos, registry[id].GetInfo())
	}
	return infos
}

// UnregisterAll clears the registry. Only used by tests.
func UnregisterAll() {
	registry = make(map[models.Platform]models.Provider)
	order = nil
}

// Resolve inspects an arbitrary URL or bare identifier, asking each
// registered provider in order, and returns the matching provider
// together with the normalized program id. Input that no provider
// recognizes fails with an InvalidProgramIDError.
func Resolve(urlOrID string) (models.Provider, string, error) {
	for _, id := range order {
		p := registry[id]
		if programID, ok := p.Resolve(urlOrID); ok {
			return p, programID, nil
		}
	}
	return nil, "", &models.InvalidProgramIDError{
		ProgramID: urlOrID,
		Reason:    "no platform adapter recognizes this URL or id",
	}
}
