package services

import (
	"time"

	"github.com/pulsefit/pulsefit-backend/internal/svcerr"
)

// GeneratedPlan is the model response after extraction. It is untrusted
// input: Validate must pass before any of it reaches the database.
type GeneratedPlan struct {
	WorkoutPlan   GeneratedPlanHeader    `json:"workoutPlan"`
	WeekSummaries []GeneratedWeekSummary `json:"workoutWeekSummaries"`
	Workouts      []GeneratedWorkout     `json:"workouts"`
}

type GeneratedPlanHeader struct {
	Description   string `json:"description"`
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	DurationDays  int    `json:"durationDays"`
	DurationWeeks int    `json:"durationWeeks"`
	IsActive      bool   `json:"isActive"`
	AIGenerated   bool   `json:"aiGenerated"`
	WorkoutGoal   string `json:"workoutGoal"`
	TotalWorkouts int    `json:"totalWorkouts"`
	TotalTime     string `json:"totalTime"`
}

type GeneratedWeekSummary struct {
	WeekNumber int    `json:"weekNumber"`
	Summary    string `json:"summary"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
}

type GeneratedWorkout struct {
	DurationInMinutes int                 `json:"durationInMinutes"`
	ScheduledDate     string              `json:"scheduledDate"`
	WeekNumber        int                 `json:"weekNumber"`
	Status            string              `json:"status,omitempty"`
	IsRegenerated     bool                `json:"isRegenerated,omitempty"`
	Exercises         []GeneratedExercise `json:"exercises"`
}

type GeneratedExercise struct {
	Name       string         `json:"name"`
	Equipment  string         `json:"equipment"`
	OrderIndex int            `json:"orderIndex"`
	Sets       []GeneratedSet `json:"sets"`
}

// GeneratedSet carries reps and an optional weight. WeightKg stays nil when
// the model omits the key for bodyweight movements.
type GeneratedSet struct {
	Reps     int      `json:"reps"`
	WeightKg *float64 `json:"weightKg,omitempty"`
}

const dateLayout = "2006-01-02"

func contractViolation(format string, args ...any) error {
	return svcerr.ErrContract.WithMessagef(format, args...)
}

// Validate checks the plan against the contract the prompt declared:
// exactly durationDays workouts whose scheduled dates are the consecutive
// calendar days from startDate, exactly durationWeeks week summaries
// numbered 1..W, session lengths inside the duration category's bounds,
// and at least one exercise with at least one set per workout. Violations
// are rejected, never coerced.
func (p *GeneratedPlan) Validate(startDate, durationCategory string) error {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return contractViolation("invalid start date %q", startDate)
	}
	wantEnd := start.AddDate(0, 0, PlanDurationDays-1).Format(dateLayout)
	minDuration, maxDuration := DurationRangeFor(durationCategory)

	h := p.WorkoutPlan
	if h.StartDate != startDate {
		return contractViolation("plan startDate %q, want %q", h.StartDate, startDate)
	}
	if h.EndDate != wantEnd {
		return contractViolation("plan endDate %q, want %q", h.EndDate, wantEnd)
	}
	if h.DurationDays != PlanDurationDays {
		return contractViolation("plan durationDays %d, want %d", h.DurationDays, PlanDurationDays)
	}
	if h.DurationWeeks != PlanDurationWeeks {
		return contractViolation("plan durationWeeks %d, want %d", h.DurationWeeks, PlanDurationWeeks)
	}

	if len(p.WeekSummaries) != PlanDurationWeeks {
		return contractViolation("%d week summaries, want %d", len(p.WeekSummaries), PlanDurationWeeks)
	}
	seenWeeks := make(map[int]bool, len(p.WeekSummaries))
	for _, ws := range p.WeekSummaries {
		if ws.WeekNumber < 1 || ws.WeekNumber > PlanDurationWeeks {
			return contractViolation("week summary weekNumber %d out of range 1..%d", ws.WeekNumber, PlanDurationWeeks)
		}
		if seenWeeks[ws.WeekNumber] {
			return contractViolation("duplicate week summary for week %d", ws.WeekNumber)
		}
		seenWeeks[ws.WeekNumber] = true
	}

	if len(p.Workouts) != PlanDurationDays {
		return contractViolation("%d workouts, want %d", len(p.Workouts), PlanDurationDays)
	}
	seenDates := make(map[string]bool, len(p.Workouts))
	for i, w := range p.Workouts {
		d, err := time.Parse(dateLayout, w.ScheduledDate)
		if err != nil {
			return contractViolation("workout %d has invalid scheduledDate %q", i, w.ScheduledDate)
		}
		if d.Before(start) || d.After(start.AddDate(0, 0, PlanDurationDays-1)) {
			return contractViolation("workout %d scheduledDate %q outside %s..%s", i, w.ScheduledDate, startDate, wantEnd)
		}
		if seenDates[w.ScheduledDate] {
			return contractViolation("duplicate workout scheduledDate %q", w.ScheduledDate)
		}
		seenDates[w.ScheduledDate] = true

		wantWeek := int(d.Sub(start).Hours()/24)/7 + 1
		if w.WeekNumber != wantWeek {
			return contractViolation("workout %q has weekNumber %d, want %d", w.ScheduledDate, w.WeekNumber, wantWeek)
		}

		if w.DurationInMinutes < minDuration || w.DurationInMinutes > maxDuration {
			return contractViolation("workout %q durationInMinutes %d outside %d..%d", w.ScheduledDate, w.DurationInMinutes, minDuration, maxDuration)
		}

		if len(w.Exercises) == 0 {
			return contractViolation("workout %q has no exercises", w.ScheduledDate)
		}
		for _, ex := range w.Exercises {
			if ex.Name == "" {
				return contractViolation("workout %q has an exercise without a name", w.ScheduledDate)
			}
			if len(ex.Sets) == 0 {
				return contractViolation("exercise %q in workout %q has no sets", ex.Name, w.ScheduledDate)
			}
			for _, s := range ex.Sets {
				if s.Reps <= 0 {
					return contractViolation("exercise %q in workout %q has a set with reps %d", ex.Name, w.ScheduledDate, s.Reps)
				}
			}
		}
	}

	// With count and uniqueness both checked, the dates necessarily cover
	// [startDate, endDate] with no gaps.
	return nil
}
