// The updater coordinates one full update cycle per program: load the
// stored snapshot, fetch a fresh one through the program's platform
// provider, diff the two, and persist only when something actionable
// changed. Updates run sequentially; the snapshot store's whole-file
// rewrite is not safe under concurrent writers.
package updater

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yotaki/bancheck/internal/models"
	"github.com/yotaki/bancheck/internal/providers"
	"github.com/yotaki/bancheck/internal/store"
)

// Updater holds the dependencies for update cycles.
type Updater struct {
	store  *store.Store
	lookup func(models.Platform) (models.Provider, bool)
	now    func() time.Time
}

// New creates an Updater backed by the given store and the global
// provider registry.
func New(st *store.Store) *Updater {
	return &Updater{
		store:  st,
		lookup: providers.Get,
		now:    time.Now,
	}
}

// Report collects the outcome of an UpdateAll cycle: programs whose
// diff was non-empty, and programs whose update failed and was skipped.
type Report struct {
	Changed map[string]models.ChangeSet
	Failed  map[string]error
}

// UpdateOne runs an update cycle for a single stored program. An id
// not present in the store returns (nil, nil) so batch callers can
// tell "nothing to do" apart from a mistake. An empty change set is a
// valid, successful result: nothing is persisted and the stored
// record's UpdatedAt keeps reflecting the last real change.
func (u *Updater) UpdateOne(ctx context.Context, id string) (*models.ChangeSet, error) {
	oldProgram, err := u.store.Find(id)
	if err != nil {
		return nil, err
	}
	if oldProgram == nil {
		return nil, nil
	}

	provider, ok := u.lookup(oldProgram.Platform)
	if !ok {
		return nil, &models.FetchError{
			ProgramID: id,
			Reason:    "no provider registered for platform " + string(oldProgram.Platform),
		}
	}

	newProgram, err := provider.FetchProgram(ctx, id)
	if err != nil {
		return nil, err
	}

	// The first-fetch timestamp survives every later snapshot.
	newProgram.FetchedAt = oldProgram.FetchedAt
	newProgram.UpdatedAt = u.now()

	changes := DetectChanges(oldProgram, newProgram)
	if !changes.Empty() {
		if err := u.store.Save(newProgram); err != nil {
			return nil, err
		}
	}
	return &changes, nil
}

// UpdateAll runs UpdateOne for every stored program. A fetch failure
// for one program is logged, recorded in the report, and skipped; an
// upstream outage on one platform must not block unrelated programs.
// Storage failures have no safe fallback and abort the batch.
func (u *Updater) UpdateAll(ctx context.Context) (*Report, error) {
	programs, err := u.store.LoadAll()
	if err != nil {
		return nil, err
	}

	report := &Report{
		Changed: make(map[string]models.ChangeSet),
		Failed:  make(map[string]error),
	}
	for _, program := range programs {
		changes, err := u.UpdateOne(ctx, program.ID)
		if err != nil {
			var storageErr *models.StorageError
			if errors.As(err, &storageErr) {
				return report, err
			}
			log.Error().Str("program_id", program.ID).Err(err).Msg("Update failed, skipping program")
			report.Failed[program.ID] = err
			continue
		}
		if changes != nil && !changes.Empty() {
			report.Changed[program.ID] = *changes
		}
	}
	return report, nil
}
