package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/pulsefit/pulsefit-backend/internal/logger"
	"github.com/pulsefit/pulsefit-backend/internal/types"
)

// NewTestDB opens a private in-memory sqlite database with the full schema
// migrated. Each call gets its own database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A uniquely named shared-cache database: every pooled connection sees
	// the same schema, and tests stay isolated from each other.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	err = db.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.FitnessProfile{},
		&types.WorkoutEquipment{},
		&types.AvailableExercise{},
		&types.AvailableEquipment{},
		&types.WorkoutPlan{},
		&types.WorkoutWeekSummary{},
		&types.Workout{},
		&types.WorkoutExercise{},
		&types.WorkoutSet{},
		&types.AICallLog{},
	)
	if err != nil {
		t.Fatalf("migrate schema: %v", err)
	}
	return db
}

// NewTestLogger returns a development logger for tests.
func NewTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	return log
}

// SeedUser inserts a user with a bcrypt-free placeholder password hash.
func SeedUser(t *testing.T, db *gorm.DB) *types.User {
	t.Helper()
	user := &types.User{
		ID:       uuid.New(),
		Email:    uuid.NewString() + "@example.com",
		Password: "x",
		FullName: "Test User",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

// SeedProfile inserts a fitness profile with equipment for the user.
func SeedProfile(t *testing.T, db *gorm.DB, userID uuid.UUID) *types.FitnessProfile {
	t.Helper()
	profile := &types.FitnessProfile{
		ID:               uuid.New(),
		UserID:           userID,
		FitnessLevel:     types.FitnessLevelIntermediate,
		FitnessGoal:      types.GoalBuildStrength,
		DurationCategory: types.DurationStandard,
		Equipment: []types.WorkoutEquipment{
			{ID: uuid.New(), Name: "Dumbbells"},
			{ID: uuid.New(), Name: "Pull-up Bar"},
		},
	}
	if err := db.Create(profile).Error; err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	return profile
}

// SeedExercise inserts a catalog exercise with the given name.
func SeedExercise(t *testing.T, db *gorm.DB, name string) *types.AvailableExercise {
	t.Helper()
	ex := &types.AvailableExercise{
		ID:          uuid.New(),
		Name:        name,
		Description: "seeded",
	}
	if err := db.Create(ex).Error; err != nil {
		t.Fatalf("seed exercise %q: %v", name, err)
	}
	return ex
}
