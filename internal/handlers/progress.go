package handlers

import (
	"context"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/fitquest/fitquest-api/internal/auth"
	"github.com/fitquest/fitquest-api/internal/catalog"
	"github.com/fitquest/fitquest-api/internal/models"
	"github.com/fitquest/fitquest-api/internal/progress"
	"github.com/fitquest/fitquest-api/internal/store"
	"github.com/fitquest/fitquest-api/internal/streak"
	"github.com/google/uuid"
)

type ProgressHandler struct {
	store    *store.Store
	tracker  *progress.Tracker
	location *time.Location
}

func NewProgressHandler(st *store.Store, tracker *progress.Tracker, loc *time.Location) *ProgressHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ProgressHandler{store: st, tracker: tracker, location: loc}
}

type ApplyProgressRequest struct {
	Body struct {
		Category string `json:"category" doc:"Achievement category to increment" required:"true"`
		Delta    int    `json:"delta" doc:"Positive increment, supports batched progress" required:"true"`
	}
}

type ApplyProgressResponse struct {
	Body struct {
		Completed []progress.Completion `json:"completed"`
	}
}

func (h *ProgressHandler) HandleApplyProgress(ctx context.Context, input *ApplyProgressRequest) (*ApplyProgressResponse, error) {
	userID := auth.SubjectFromContext(ctx)
	if userID == "" {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	category, err := catalog.ParseCategory(input.Body.Category)
	if err != nil {
		return nil, httpError(err)
	}

	// First write from a subject registers it; the leaderboard population is
	// every subject ever seen.
	if _, err := h.store.EnsureUser(ctx, userID, userID, ""); err != nil {
		return nil, httpError(err)
	}

	completions, err := h.tracker.ApplyProgress(ctx, userID, category, input.Body.Delta)
	if err != nil {
		return nil, httpError(err)
	}

	res := &ApplyProgressResponse{}
	res.Body.Completed = completions
	return res, nil
}

type RecordActivityRequest struct {
	Body struct {
		Kind      string `json:"kind" doc:"Activity kind, e.g. workout" required:"true"`
		Magnitude int    `json:"magnitude" doc:"Session magnitude (duration, calories)"`
	}
}

type RecordActivityResponse struct {
	Body struct {
		EventID   string                `json:"event_id"`
		Streak    int                   `json:"streak"`
		Completed []progress.Completion `json:"completed"`
	}
}

// HandleRecordActivity appends one completed session to the activity log and
// drives the progress it implies: one activity-count increment plus a streak
// re-check against the updated log.
func (h *ProgressHandler) HandleRecordActivity(ctx context.Context, input *RecordActivityRequest) (*RecordActivityResponse, error) {
	userID := auth.SubjectFromContext(ctx)
	if userID == "" {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}
	if input.Body.Kind == "" {
		return nil, huma.Error400BadRequest("kind is required")
	}

	if _, err := h.store.EnsureUser(ctx, userID, userID, ""); err != nil {
		return nil, httpError(err)
	}

	now := time.Now()
	event := models.ActivityEvent{
		EventID:    uuid.NewString(),
		UserID:     userID,
		Kind:       input.Body.Kind,
		OccurredAt: now,
		Magnitude:  input.Body.Magnitude,
	}
	if err := h.store.AppendActivityEvent(ctx, &event); err != nil {
		return nil, httpError(err)
	}

	completions, err := h.tracker.ApplyProgress(ctx, userID, catalog.CategoryActivityCount, 1)
	if err != nil {
		return nil, httpError(err)
	}

	events, err := h.store.ActivityEvents(ctx, userID, time.Time{})
	if err != nil {
		return nil, httpError(err)
	}
	times := make([]time.Time, len(events))
	for i, ev := range events {
		times[i] = ev.OccurredAt
	}
	days := streak.Current(times, now, h.location)

	streakCompletions, err := h.tracker.RecordStreak(ctx, userID, days)
	if err != nil {
		return nil, httpError(err)
	}

	res := &RecordActivityResponse{}
	res.Body.EventID = event.EventID
	res.Body.Streak = days
	res.Body.Completed = append(completions, streakCompletions...)
	return res, nil
}
