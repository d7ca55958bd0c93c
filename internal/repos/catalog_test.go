package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/pulsefit/pulsefit-backend/internal/repos/testutil"
	"github.com/pulsefit/pulsefit-backend/internal/types"
)

func TestAvailableExerciseRepoSkipsSoftDeleted(t *testing.T) {
	db := testutil.NewTestDB(t)
	log := testutil.NewTestLogger(t)
	repo := NewAvailableExerciseRepo(db, log)

	live := testutil.SeedExercise(t, db, "Push-ups")
	retired := &types.AvailableExercise{
		ID:        uuid.New(),
		Name:      "Smith Machine Squats",
		IsDeleted: true,
	}
	if err := db.Create(retired).Error; err != nil {
		t.Fatalf("seed retired exercise: %v", err)
	}

	got, err := repo.GetByNames(context.Background(), nil, []string{"Push-ups", "Smith Machine Squats"})
	if err != nil {
		t.Fatalf("get by names: %v", err)
	}
	if len(got) != 1 || got[0].ID != live.ID {
		t.Errorf("retired exercises must not resolve, got %+v", got)
	}

	all, err := repo.GetAll(context.Background(), nil)
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	for _, ex := range all {
		if ex.ID == retired.ID {
			t.Error("retired exercise listed in catalog")
		}
	}
}
