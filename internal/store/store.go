// Package store is the persistence layer. All reads and writes of per-user
// records go through it; services never touch gorm directly, which keeps the
// batch-fetch and compare-and-set primitives in one place.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fitquest/fitquest-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// batchSize bounds IN-clause fan-out for multi-user fetches. Cohort scans
// issue one query per chunk of this many users, never one per user.
const batchSize = 200

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// wrap maps gorm errors to the shared taxonomy.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return fmt.Errorf("%s: %w: %v", op, models.ErrStoreUnavailable, err)
}

// ─── Achievement records ────────────────────────────────────────────────────

// AchievementRecords returns all of one user's achievement records.
func (s *Store) AchievementRecords(ctx context.Context, userID string) ([]models.UserAchievement, error) {
	var records []models.UserAchievement
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&records).Error
	return records, wrap("achievement records", err)
}

// AchievementRecordsForUsers multi-gets achievement records for a cohort in
// bounded-size batches, grouped by user.
func (s *Store) AchievementRecordsForUsers(ctx context.Context, userIDs []string) (map[string][]models.UserAchievement, error) {
	out := make(map[string][]models.UserAchievement, len(userIDs))
	for start := 0; start < len(userIDs); start += batchSize {
		end := min(start+batchSize, len(userIDs))
		var chunk []models.UserAchievement
		err := s.db.WithContext(ctx).Where("user_id IN ?", userIDs[start:end]).Find(&chunk).Error
		if err != nil {
			return nil, wrap("achievement records batch", err)
		}
		for _, r := range chunk {
			out[r.UserID] = append(out[r.UserID], r)
		}
	}
	return out, nil
}

// CreateAchievementRecord inserts a fresh record (lazy creation on first
// progress in a category). The unique (user, achievement) index turns a
// racing duplicate insert into ErrConflict for the caller to retry.
func (s *Store) CreateAchievementRecord(ctx context.Context, rec *models.UserAchievement) error {
	err := s.db.WithContext(ctx).Create(rec).Error
	if err != nil && isUniqueViolation(err) {
		return fmt.Errorf("create achievement record: %w", models.ErrConflict)
	}
	return wrap("create achievement record", err)
}

// CompareAndSetAchievementRecord writes rec only if the stored version still
// equals expectedVersion, bumping the version on success. A lost race
// surfaces as ErrConflict so the tracker can re-read and re-apply.
func (s *Store) CompareAndSetAchievementRecord(ctx context.Context, rec *models.UserAchievement, expectedVersion int) error {
	res := s.db.WithContext(ctx).Model(&models.UserAchievement{}).
		Where("user_id = ? AND achievement_id = ? AND record_version = ?",
			rec.UserID, rec.AchievementID, expectedVersion).
		Updates(map[string]any{
			"current_progress": rec.CurrentProgress,
			"completed":        rec.Completed,
			"completed_at":     rec.CompletedAt,
			"record_version":   expectedVersion + 1,
		})
	if res.Error != nil {
		return wrap("cas achievement record", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cas achievement record %s/%s: %w", rec.UserID, rec.AchievementID, models.ErrConflict)
	}
	rec.RecordVersion = expectedVersion + 1
	return nil
}

// ─── Reward records ─────────────────────────────────────────────────────────

// RewardRecords returns all of one user's reward records.
func (s *Store) RewardRecords(ctx context.Context, userID string) ([]models.UserReward, error) {
	var records []models.UserReward
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&records).Error
	return records, wrap("reward records", err)
}

// RewardRecord returns one (user, reward) record, ErrNotFound if absent.
func (s *Store) RewardRecord(ctx context.Context, userID, rewardID string) (models.UserReward, error) {
	var rec models.UserReward
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND reward_id = ?", userID, rewardID).
		First(&rec).Error
	return rec, wrap("reward record", err)
}

// EnsureRewardRecord returns the (user, reward) record, creating the locked
// default if it does not exist yet.
func (s *Store) EnsureRewardRecord(ctx context.Context, userID, rewardID string) (models.UserReward, error) {
	var rec models.UserReward
	err := s.db.WithContext(ctx).
		Where(models.UserReward{UserID: userID, RewardID: rewardID}).
		FirstOrCreate(&rec).Error
	return rec, wrap("ensure reward record", err)
}

// MarkRewardUnlocked sets unlockedAt exactly once. Returns false without
// writing when the record is already unlocked, which makes repeated unlock
// checks idempotent.
func (s *Store) MarkRewardUnlocked(ctx context.Context, userID, rewardID string, at time.Time) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.UserReward{}).
		Where("user_id = ? AND reward_id = ? AND unlocked_at IS NULL", userID, rewardID).
		Update("unlocked_at", at)
	if res.Error != nil {
		return false, wrap("mark reward unlocked", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// MarkRewardClaimed sets claimed/claimedAt exactly once, conditioned on the
// unlock having happened and no prior claim.
func (s *Store) MarkRewardClaimed(ctx context.Context, userID, rewardID string, at time.Time) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.UserReward{}).
		Where("user_id = ? AND reward_id = ? AND unlocked_at IS NOT NULL AND claimed = ?", userID, rewardID, false).
		Updates(map[string]any{"claimed": true, "claimed_at": at})
	if res.Error != nil {
		return false, wrap("mark reward claimed", res.Error)
	}
	return res.RowsAffected == 1, nil
}

// ─── Activity events ────────────────────────────────────────────────────────

// AppendActivityEvent appends one completed activity session to the log.
func (s *Store) AppendActivityEvent(ctx context.Context, ev *models.ActivityEvent) error {
	return wrap("append activity event", s.db.WithContext(ctx).Create(ev).Error)
}

// ActivityEvents returns one user's events at or after since, oldest first.
func (s *Store) ActivityEvents(ctx context.Context, userID string, since time.Time) ([]models.ActivityEvent, error) {
	var events []models.ActivityEvent
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND occurred_at >= ?", userID, since).
		Order("occurred_at ASC").
		Find(&events).Error
	return events, wrap("activity events", err)
}

// ActivityTimesForUsers multi-gets event timestamps for a cohort in bounded
// batches, grouped by user. Only timestamps are materialized; streak
// computation needs nothing else.
func (s *Store) ActivityTimesForUsers(ctx context.Context, userIDs []string, since time.Time) (map[string][]time.Time, error) {
	out := make(map[string][]time.Time, len(userIDs))
	for start := 0; start < len(userIDs); start += batchSize {
		end := min(start+batchSize, len(userIDs))
		var rows []struct {
			UserID     string
			OccurredAt time.Time
		}
		err := s.db.WithContext(ctx).Model(&models.ActivityEvent{}).
			Select("user_id", "occurred_at").
			Where("user_id IN ? AND occurred_at >= ?", userIDs[start:end], since).
			Find(&rows).Error
		if err != nil {
			return nil, wrap("activity times batch", err)
		}
		for _, row := range rows {
			out[row.UserID] = append(out[row.UserID], row.OccurredAt)
		}
	}
	return out, nil
}

// ─── Users ──────────────────────────────────────────────────────────────────

// EnsureUser upserts the identity provider's display metadata on first sight
// of a subject.
func (s *Store) EnsureUser(ctx context.Context, subject, username, avatar string) (models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where(models.User{Subject: subject}).
		Attrs(models.User{Username: username, Avatar: avatar}).
		FirstOrCreate(&user).Error
	return user, wrap("ensure user", err)
}

// ListUserIDs streams every known subject id, scanning in batches.
func (s *Store) ListUserIDs(ctx context.Context) ([]string, error) {
	var ids []string
	var users []models.User
	err := s.db.WithContext(ctx).Select("subject").FindInBatches(&users, batchSize, func(tx *gorm.DB, _ int) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, u := range users {
			ids = append(ids, u.Subject)
		}
		return nil
	}).Error
	return ids, wrap("list user ids", err)
}

// UsersBySubject multi-gets display metadata for a cohort.
func (s *Store) UsersBySubject(ctx context.Context, subjects []string) (map[string]models.User, error) {
	out := make(map[string]models.User, len(subjects))
	for start := 0; start < len(subjects); start += batchSize {
		end := min(start+batchSize, len(subjects))
		var chunk []models.User
		err := s.db.WithContext(ctx).Where("subject IN ?", subjects[start:end]).Find(&chunk).Error
		if err != nil {
			return nil, wrap("users batch", err)
		}
		for _, u := range chunk {
			out[u.Subject] = u
		}
	}
	return out, nil
}

// ─── Leaderboard snapshots ──────────────────────────────────────────────────

// PreviousRanks loads the persisted rank map from the last refresh of one
// (timeframe, category) board.
func (s *Store) PreviousRanks(ctx context.Context, timeframe, category string) (map[string]int, error) {
	var rows []models.LeaderboardRank
	err := s.db.WithContext(ctx).
		Where("timeframe = ? AND category = ?", timeframe, category).
		Find(&rows).Error
	if err != nil {
		return nil, wrap("previous ranks", err)
	}
	ranks := make(map[string]int, len(rows))
	for _, r := range rows {
		ranks[r.UserID] = r.Rank
	}
	return ranks, nil
}

// SaveRanks upserts the new snapshot for one board cell per user.
func (s *Store) SaveRanks(ctx context.Context, timeframe, category string, ranks []models.LeaderboardRank) error {
	for _, r := range ranks {
		r.Timeframe = timeframe
		r.Category = category
		err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "timeframe"}, {Name: "category"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rank", "score", "updated_at"}),
		}).Create(&r).Error
		if err != nil {
			return wrap("save ranks", err)
		}
	}
	return nil
}

// isUniqueViolation sniffs the driver error text; gorm does not normalize
// constraint violations across drivers.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key")
}
