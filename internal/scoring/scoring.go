// Package scoring converts completed achievements into a point total.
package scoring

import (
	"github.com/fitquest/fitquest-api/internal/catalog"
	"github.com/fitquest/fitquest-api/internal/models"
)

// Score sums the category point weight of every completed record. It is a
// pure function of the record set and the catalog: identical input always
// yields an identical score, which the leaderboard relies on for
// deterministic ordering. Records referencing definitions missing from the
// catalog are skipped rather than scored at an arbitrary weight.
func Score(records []models.UserAchievement, cat *catalog.Catalog) int {
	total := 0
	for _, r := range records {
		if !r.Completed {
			continue
		}
		def, err := cat.Achievement(r.AchievementID)
		if err != nil {
			continue
		}
		total += def.PointWeight()
	}
	return total
}

// CompletedCount counts completed records. Kept next to Score because the
// leaderboard tie-break depends on both being computed over the same set.
func CompletedCount(records []models.UserAchievement) int {
	n := 0
	for _, r := range records {
		if r.Completed {
			n++
		}
	}
	return n
}
