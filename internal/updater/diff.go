package updater

import "github.com/yotaki/bancheck/internal/models"

// DetectChanges compares two snapshots of the same program and returns
// the actionable episode transitions. It is pure: neither snapshot is
// mutated, and identical inputs always produce an empty change set.
//
// Episode identity is the id field. An episode only in the new snapshot
// counts as new when it is downloadable; a premium-only arrival stays
// silent until it becomes downloadable itself. An episode present in
// both counts as premium-to-free when the old side was premium-only and
// the new side is downloadable. Every other transition produces no
// event. Episode numbering never gates diff inclusion, only
// downloadability does.
func DetectChanges(oldProgram, newProgram *models.Program) models.ChangeSet {
	oldByID := make(map[string]models.Episode, len(oldProgram.Episodes))
	for _, ep := range oldProgram.Episodes {
		oldByID[ep.ID] = ep
	}

	var changes models.ChangeSet
	for _, newEp := range newProgram.Episodes {
		oldEp, existed := oldByID[newEp.ID]
		if !existed {
			if newEp.IsDownloadable {
				changes.NewEpisodes = append(changes.NewEpisodes, newEp)
			}
			continue
		}
		if oldEp.IsPremiumOnly && newEp.IsDownloadable {
			changes.PremiumToFree = append(changes.PremiumToFree, newEp)
		}
	}
	return changes
}
