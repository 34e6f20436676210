package models

// ChangeSet holds the actionable episode transitions between two
// snapshots of the same program. Both lists preserve the relative
// order of the new snapshot's episode list.
type ChangeSet struct {
	NewEpisodes   []Episode `json:"newEpisodes"`
	PremiumToFree []Episode `json:"premiumToFree"`
}

// Empty reports whether the change set carries no events. An empty
// change set is a valid, successful diff result.
func (c ChangeSet) Empty() bool {
	return len(c.NewEpisodes) == 0 && len(c.PremiumToFree) == 0
}
