package updater_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yotaki/bancheck/internal/models"
	"github.com/yotaki/bancheck/internal/testutil"
	"github.com/yotaki/bancheck/internal/updater"
)

func TestDetectChangesIdenticalSnapshots(t *testing.T) {
	p := testutil.Program("p1", models.PlatformAbema,
		testutil.Episode("ep1", 1, true, false),
		testutil.Episode("ep2", 2, false, true),
	)

	changes := updater.DetectChanges(p, p)
	assert.True(t, changes.Empty())
}

func TestDetectChangesNewEpisodes(t *testing.T) {
	old := testutil.Program("p1", models.PlatformAbema,
		testutil.Episode("ep1", 1, true, false),
	)
	updated := testutil.Program("p1", models.PlatformAbema,
		testutil.Episode("ep1", 1, true, false),
		testutil.Episode("ep2", 2, true, false),  // new and downloadable
		testutil.Episode("ep3", 3, false, true),  // new but premium-only
		testutil.Episode("ep4", 4, false, false), // new but not yet available
	)

	changes := updater.DetectChanges(old, updated)
	require.Len(t, changes.NewEpisodes, 1)
	assert.Equal(t, "ep2", changes.NewEpisodes[0].ID)
	assert.Empty(t, changes.PremiumToFree)
}

func TestDetectChangesPremiumToFree(t *testing.T) {
	old := testutil.Program("p1", models.PlatformAbema,
		testutil.Episode("ep1", 1, false, true),
		testutil.Episode("ep2", 2, false, true),
	)
	freed := testutil.Episode("ep1", 1, true, false)
	freed.Title = "retitled after release" // metadata changes don't matter
	updated := testutil.Program("p1", models.PlatformAbema,
		freed,
		testutil.Episode("ep2", 2, false, true),
	)

	changes := updater.DetectChanges(old, updated)
	require.Len(t, changes.PremiumToFree, 1)
	assert.Equal(t, "ep1", changes.PremiumToFree[0].ID)
	assert.Empty(t, changes.NewEpisodes)
}

func TestDetectChangesDownloadableToPremiumIsSilent(t *testing.T) {
	old := testutil.Program("p1", models.PlatformAbema,
		testutil.Episode("ep1", 1, true, false),
	)
	updated := testutil.Program("p1", models.PlatformAbema,
		testutil.Episode("ep1", 1, false, true),
	)

	changes := updater.DetectChanges(old, updated)
	assert.True(t, changes.Empty())
}

func TestDetectChangesRemovedEpisodeIsSilent(t *testing.T) {
	old := testutil.Program("p1", models.PlatformAbema,
		testutil.Episode("ep1", 1, true, false),
		testutil.Episode("ep2", 2, true, false),
	)
	updated := testutil.Program("p1", models.PlatformAbema,
		testutil.Episode("ep1", 1, true, false),
	)

	changes := updater.DetectChanges(old, updated)
	assert.True(t, changes.Empty())
}

func TestDetectChangesEmptyOldSnapshot(t *testing.T) {
	old := testutil.Program("p1", models.PlatformAbema)
	updated := testutil.Program("p1", models.PlatformAbema,
		testutil.Episode("ep1", 1, true, false),
		testutil.Episode("ep2", 2, false, true),
	)

	changes := updater.DetectChanges(old, updated)
	require.Len(t, changes.NewEpisodes, 1)
	assert.Equal(t, "ep1", changes.NewEpisodes[0].ID)
}

func TestDetectChangesSpecialsAreDiffedLikeAnyEpisode(t *testing.T) {
	// Numbers >= 100 are excluded from the latest-episode counter but
	// still produce change events.
	old := testutil.Program("p1", models.PlatformAbema,
		testutil.Episode("ep1", 1, true, false),
	)
	updated := testutil.Program("p1", models.PlatformAbema,
		testutil.Episode("ep1", 1, true, false),
		testutil.Episode("pv", 100, true, false),
	)

	changes := updater.DetectChanges(old, updated)
	require.Len(t, changes.NewEpisodes, 1)
	assert.Equal(t, "pv", changes.NewEpisodes[0].ID)
}

func TestDetectChangesPreservesSnapshotOrder(t *testing.T) {
	old := testutil.Program("p1", models.PlatformAbema)
	updated := testutil.Program("p1", models.PlatformAbema,
		testutil.Episode("ep3", 3, true, false),
		testutil.Episode("ep1", 1, true, false),
		testutil.Episode("ep2", 2, true, false),
	)

	changes := updater.DetectChanges(old, updated)
	require.Len(t, changes.NewEpisodes, 3)
	assert.Equal(t, "ep3", changes.NewEpisodes[0].ID)
	assert.Equal(t, "ep1", changes.NewEpisodes[1].ID)
	assert.Equal(t, "ep2", changes.NewEpisodes[2].ID)
}

func TestDetectChangesDoesNotMutateInputs(t *testing.T) {
	old := testutil.Program("p1", models.PlatformAbema,
		testutil.Episode("ep1", 1, false, true),
	)
	updated := testutil.Program("p1", models.PlatformAbema,
		testutil.Episode("ep1", 1, true, false),
		testutil.Episode("ep2", 2, true, false),
	)
	oldCopy := *old
	oldCopy.Episodes = append([]models.Episode(nil), old.Episodes...)
	updatedCopy := *updated
	updatedCopy.Episodes = append([]models.Episode(nil), updated.Episodes...)

	_ = updater.DetectChanges(old, updated)

	assert.Equal(t, oldCopy.Episodes, old.Episodes)
	assert.Equal(t, updatedCopy.Episodes, updated.Episodes)
}
