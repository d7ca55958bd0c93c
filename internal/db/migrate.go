package db

import (
	"gorm.io/gorm"

	"github.com/pulsefit/pulsefit-backend/internal/types"
)

// AutoMigrateAll migrates every table the service owns. Order matters for
// foreign keys: parents before children.
func AutoMigrateAll(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
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
}
