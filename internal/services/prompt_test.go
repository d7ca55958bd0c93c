package services

import (
	"strings"
	"testing"
)

func baselineInput() PromptInput {
	return PromptInput{
		FitnessLevel:       "beginner",
		FitnessGoal:        "weightLoss",
		DurationCategory:   "standard",
		AvailableEquipment: []string{"Dumbbells"},
		StartDate:          "2024-03-01",
	}
}

func TestBuildWorkoutPlanPromptDates(t *testing.T) {
	prompt, err := BuildWorkoutPlanPrompt(baselineInput())
	if err != nil {
		t.Fatalf("build prompt: %v", err)
	}

	for _, want := range []string{
		`startDate` + "` must be \"2024-03-01\"",
		`endDate` + "` must be \"2024-03-14\"",
		"exactly 14 workout objects",
		"exactly 2** summary objects",
		"between 30 and 45",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildWorkoutPlanPromptBadStartDate(t *testing.T) {
	in := baselineInput()
	in.StartDate = "03/01/2024"
	if _, err := BuildWorkoutPlanPrompt(in); err == nil {
		t.Fatal("expected error for malformed start date")
	}
}

func TestBuildWorkoutPlanPromptUnknownCategoryFallsBackToStandard(t *testing.T) {
	in := baselineInput()
	in.DurationCategory = "marathon"
	prompt, err := BuildWorkoutPlanPrompt(in)
	if err != nil {
		t.Fatalf("build prompt: %v", err)
	}
	if !strings.Contains(prompt, "between 30 and 45") {
		t.Error("unknown category should fall back to the standard 30-45 range")
	}
}

func TestBuildWorkoutPlanPromptCustomGoalVerbatim(t *testing.T) {
	in := baselineInput()
	in.FitnessGoal = "custom"
	in.CustomGoal = "train for a 5k obstacle race"
	prompt, err := BuildWorkoutPlanPrompt(in)
	if err != nil {
		t.Fatalf("build prompt: %v", err)
	}
	if !strings.Contains(prompt, `"train for a 5k obstacle race"`) {
		t.Error("custom goal text should appear verbatim in the guidance")
	}
	if !strings.Contains(prompt, "**Primary Goal:** train for a 5k obstacle race") {
		t.Error("custom goal should replace the goal label in the profile section")
	}
}

func TestBuildWorkoutPlanPromptNoEquipment(t *testing.T) {
	in := baselineInput()
	in.AvailableEquipment = nil
	prompt, err := BuildWorkoutPlanPrompt(in)
	if err != nil {
		t.Fatalf("build prompt: %v", err)
	}
	if !strings.Contains(prompt, "**Available Equipment:** No Equipment") {
		t.Error("empty equipment list should render as No Equipment")
	}
}

func TestBuildWorkoutPlanPromptMedicalNote(t *testing.T) {
	in := baselineInput()
	in.MedicalConsiderations = "lower back pain"
	prompt, err := BuildWorkoutPlanPrompt(in)
	if err != nil {
		t.Fatalf("build prompt: %v", err)
	}
	if !strings.Contains(prompt, "Avoid exercises that may worsen the following condition(s): lower back pain.") {
		t.Error("medical considerations should add an avoidance note")
	}
}

func TestBuildWorkoutPlanPromptRegenerationContext(t *testing.T) {
	weight := 20.0
	previous := &GeneratedPlan{
		WorkoutPlan: GeneratedPlanHeader{
			StartDate: "2024-02-01", EndDate: "2024-02-14",
			DurationDays: 14, DurationWeeks: 2,
		},
		Workouts: []GeneratedWorkout{
			{
				ScheduledDate: "2024-02-01",
				WeekNumber:    1,
				Exercises: []GeneratedExercise{
					{Name: "Goblet Squats", Equipment: "Dumbbells", OrderIndex: 1, Sets: []GeneratedSet{{Reps: 10, WeightKg: &weight}}},
				},
			},
		},
	}

	in := baselineInput()
	in.IsRegenerating = true
	in.PreviousPlan = previous

	prompt, err := BuildWorkoutPlanPrompt(in)
	if err != nil {
		t.Fatalf("build prompt: %v", err)
	}
	if !strings.Contains(prompt, "**Regeneration Context:**") {
		t.Fatal("regeneration prompt missing context section")
	}
	if !strings.Contains(prompt, "Goblet Squats") {
		t.Error("previous plan exercises should be embedded in the context")
	}
	if !strings.Contains(prompt, defaultRegenerationReason) {
		t.Error("default regeneration reason should be used when none is supplied")
	}

	// Non-regenerating prompts never carry the section.
	plain, err := BuildWorkoutPlanPrompt(baselineInput())
	if err != nil {
		t.Fatalf("build prompt: %v", err)
	}
	if strings.Contains(plain, "Regeneration Context") {
		t.Error("plain generation prompt should not mention regeneration")
	}
}

func TestDurationRangeFor(t *testing.T) {
	cases := []struct {
		category string
		min, max int
	}{
		{"quick", 15, 30},
		{"standard", 30, 45},
		{"extended", 45, 60},
		{"advanced", 60, 90},
		{"Quick", 15, 30},
		{"unknown", 30, 45},
		{"", 30, 45},
	}
	for _, tc := range cases {
		gotMin, gotMax := DurationRangeFor(tc.category)
		if gotMin != tc.min || gotMax != tc.max {
			t.Errorf("DurationRangeFor(%q) = (%d,%d), want (%d,%d)", tc.category, gotMin, gotMax, tc.min, tc.max)
		}
	}
}

func TestPlanEndDate(t *testing.T) {
	end, err := PlanEndDate("2024-03-01")
	if err != nil {
		t.Fatalf("plan end date: %v", err)
	}
	if end != "2024-03-14" {
		t.Errorf("end date = %q, want 2024-03-14", end)
	}

	// Month boundary.
	end, err = PlanEndDate("2024-02-25")
	if err != nil {
		t.Fatalf("plan end date: %v", err)
	}
	if end != "2024-03-09" {
		t.Errorf("end date = %q, want 2024-03-09", end)
	}
}
