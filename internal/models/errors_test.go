package models_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/fitquest/fitquest-api/internal/models"
)

func TestPartialAggregationError_Message(t *testing.T) {
	err := &models.PartialAggregationError{
		FailedUserIDs: []string{"u1"},
		Cause:         context.Canceled,
	}
	if got := err.Error(); got != "partial aggregation: context canceled" {
		t.Errorf("unexpected message: %q", got)
	}
}

func TestPartialAggregationError_NilCause(t *testing.T) {
	err := &models.PartialAggregationError{FailedUserIDs: []string{"u1"}}
	if got := err.Error(); got != "partial aggregation" {
		t.Errorf("unexpected message without cause: %q", got)
	}
	if errors.Unwrap(err) != nil {
		t.Error("expected nil unwrap without cause")
	}
}

func TestPartialAggregationError_Unwrap(t *testing.T) {
	err := fmt.Errorf("leaderboard: %w", &models.PartialAggregationError{
		FailedUserIDs: []string{"u1"},
		Cause:         models.ErrStoreUnavailable,
	})

	var partial *models.PartialAggregationError
	if !errors.As(err, &partial) {
		t.Fatal("errors.As failed through wrapping")
	}
	if !errors.Is(err, models.ErrStoreUnavailable) {
		t.Error("cause not reachable via errors.Is")
	}
}
