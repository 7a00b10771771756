package services

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func TestSubmitRatingAndAggregate(t *testing.T) {
	db := newTestDB(t)
	svc := NewRatingService(db)
	painting := seedPainting(t, db, "mar")

	for _, v := range []int{5, 4, 4} {
		if _, err := svc.SubmitRating(painting.ID, v, "hash"); err != nil {
			t.Fatalf("SubmitRating(%d) failed: %v", v, err)
		}
	}

	agg, err := svc.GetAggregate(painting.ID)
	if err != nil {
		t.Fatalf("GetAggregate failed: %v", err)
	}
	if agg.Count != 3 {
		t.Errorf("expected count 3, got %d", agg.Count)
	}
	if agg.Average == nil || *agg.Average != 4.3 {
		t.Errorf("expected average 4.3, got %v", agg.Average)
	}
}

func TestSubmitRatingOutOfRange(t *testing.T) {
	db := newTestDB(t)
	svc := NewRatingService(db)
	painting := seedPainting(t, db, "mar")

	for _, v := range []int{0, 6, -1} {
		if _, err := svc.SubmitRating(painting.ID, v, "hash"); err == nil {
			t.Errorf("expected error for rating %d", v)
		}
	}

	agg, _ := svc.GetAggregate(painting.ID)
	if agg.Count != 0 {
		t.Errorf("rejected ratings must not be stored, got count %d", agg.Count)
	}
}

func TestSubmitRatingUnknownPainting(t *testing.T) {
	db := newTestDB(t)
	svc := NewRatingService(db)

	_, err := svc.SubmitRating(uuid.New(), 5, "hash")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestSubmitRatingRepeatVotesAccepted(t *testing.T) {
	db := newTestDB(t)
	svc := NewRatingService(db)
	painting := seedPainting(t, db, "mar")

	// Same visitor hash twice: both count.
	for i := 0; i < 2; i++ {
		if _, err := svc.SubmitRating(painting.ID, 3, "same-hash"); err != nil {
			t.Fatalf("SubmitRating failed: %v", err)
		}
	}

	agg, _ := svc.GetAggregate(painting.ID)
	if agg.Count != 2 {
		t.Errorf("expected count 2, got %d", agg.Count)
	}
}

func TestAggregateEmpty(t *testing.T) {
	db := newTestDB(t)
	svc := NewRatingService(db)
	painting := seedPainting(t, db, "mar")

	agg, err := svc.GetAggregate(painting.ID)
	if err != nil {
		t.Fatalf("GetAggregate failed: %v", err)
	}
	if agg.Count != 0 || agg.Average != nil {
		t.Errorf("expected empty aggregate, got count=%d average=%v", agg.Count, agg.Average)
	}
}

func TestAggregateRounding(t *testing.T) {
	db := newTestDB(t)
	svc := NewRatingService(db)
	painting := seedPainting(t, db, "mar")

	for _, v := range []int{5, 4} {
		if _, err := svc.SubmitRating(painting.ID, v, "hash"); err != nil {
			t.Fatalf("SubmitRating failed: %v", err)
		}
	}

	agg, _ := svc.GetAggregate(painting.ID)
	if agg.Average == nil || *agg.Average != 4.5 {
		t.Errorf("expected average 4.5, got %v", agg.Average)
	}
}
