package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pulsefit/pulsefit-backend/internal/types"
)

// PromptInput is everything the prompt builder needs. It is assembled from
// the user's fitness profile plus the requested start date; regeneration
// requests additionally carry the previous plan tree.
type PromptInput struct {
	FitnessLevel          string
	FitnessGoal           string
	CustomGoal            string
	DurationCategory      string
	MedicalConsiderations string
	AvailableEquipment    []string
	StartDate             string

	IsRegenerating     bool
	RegenerationReason string
	PreviousPlan       *GeneratedPlan
}

// PlanDurationDays is how long every generated plan runs.
const PlanDurationDays = 14

// PlanDurationWeeks is ceil(PlanDurationDays / 7).
const PlanDurationWeeks = (PlanDurationDays + 6) / 7

const defaultRegenerationReason = "User was not satisfied with the previous plan and requested a different one."

type durationRange struct {
	Min int
	Max int
}

var durationRanges = map[string]durationRange{
	types.DurationQuick:    {Min: 15, Max: 30},
	types.DurationStandard: {Min: 30, Max: 45},
	types.DurationExtended: {Min: 45, Max: 60},
	types.DurationAdvanced: {Min: 60, Max: 90},
}

var fitnessLevelDescriptions = map[string]string{
	types.FitnessLevelBeginner:     "Less than 3 months of consistent training",
	types.FitnessLevelIntermediate: "3-18 months of structured experience",
	types.FitnessLevelAdvanced:     "Over 18 months; confident with intensity & load",
}

var goalGuidance = map[string]string{
	types.GoalBuildStrength:      "Must include compound lifts like Squats, Deadlifts (if equipment allows), Bench Press, and Overhead Press.",
	types.GoalWeightLoss:         "Must include a mix of strength training and high-intensity bodyweight exercises like Burpees, High Knees, and Jumping Jacks to maximize calorie burn.",
	types.GoalBuildEndurance:     "Focus on higher repetitions (15-20 reps) and shorter rest periods. Include exercises like Running (if applicable), Jump Rope, and circuit-style training.",
	types.GoalImproveFlexibility: "Must include dynamic stretches in warm-ups and dedicated static stretching exercises like Hamstring Stretches and Quad Stretches at the end of workouts.",
	types.GoalOverallHealth:      "Provide a balanced mix of strength, cardio, and flexibility exercises throughout the week.",
	types.GoalStressBusting:      "Incorporate mindful movements and suggest focusing on breathing during exercises. Yoga-inspired movements can be included.",
}

// DurationRangeFor returns the session length bounds for a category,
// falling back to standard for anything unknown.
func DurationRangeFor(category string) (int, int) {
	if r, ok := durationRanges[strings.ToLower(category)]; ok {
		return r.Min, r.Max
	}
	r := durationRanges[types.DurationStandard]
	return r.Min, r.Max
}

// PlanEndDate returns the inclusive end date for a plan starting on
// startDate (YYYY-MM-DD).
func PlanEndDate(startDate string) (string, error) {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return "", fmt.Errorf("parse start date %q: %w", startDate, err)
	}
	return start.AddDate(0, 0, PlanDurationDays-1).Format("2006-01-02"), nil
}

// BuildWorkoutPlanPrompt renders the full generation prompt. It is a pure
// function of its input.
func BuildWorkoutPlanPrompt(in PromptInput) (string, error) {
	endDate, err := PlanEndDate(in.StartDate)
	if err != nil {
		return "", err
	}

	minDur, maxDur := DurationRangeFor(in.DurationCategory)

	equipmentList := "No Equipment"
	if len(in.AvailableEquipment) > 0 {
		equipmentList = strings.Join(in.AvailableEquipment, ", ")
	}

	actualGoal := in.FitnessGoal
	if in.FitnessGoal == types.GoalCustom {
		actualGoal = in.CustomGoal
	}

	guidance, ok := goalGuidance[in.FitnessGoal]
	if in.FitnessGoal == types.GoalCustom {
		guidance = fmt.Sprintf("The user has a custom goal: %q. Tailor the exercises specifically to support this goal.", in.CustomGoal)
	} else if !ok {
		guidance = goalGuidance[types.GoalOverallHealth]
	}

	levelDescription := fitnessLevelDescriptions[strings.ToLower(in.FitnessLevel)]

	medical := in.MedicalConsiderations
	medicalNote := ""
	if medical == "" {
		medical = "None"
	} else {
		medicalNote = fmt.Sprintf("- Important: Avoid exercises that may worsen the following condition(s): %s.\n", in.MedicalConsiderations)
	}

	var b strings.Builder

	b.WriteString("You are an expert fitness AI. Your task is to generate a comprehensive, personalized workout plan.\n")
	b.WriteString("The response must be a single, valid JSON object and nothing else. Do not include any explanations, comments, or markdown formatting like ```json.\n\n")
	b.WriteString("**ABSOLUTELY CRITICAL: Your entire response MUST be a single, syntactically correct JSON object. Do not output any text, explanation, or markdown before or after the JSON. The JSON must be complete and not truncated. Incomplete JSON will cause a system failure.**\n\n")

	if in.IsRegenerating && in.PreviousPlan != nil {
		reason := in.RegenerationReason
		if reason == "" {
			reason = defaultRegenerationReason
		}
		previousJSON, err := json.MarshalIndent(in.PreviousPlan, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal previous plan: %w", err)
		}
		b.WriteString("**Regeneration Context:**\n")
		b.WriteString("This is a request to **regenerate** a workout plan. The user was not satisfied with the previous plan provided below.\n")
		fmt.Fprintf(&b, "- **Reason for Regeneration:** %s\n", reason)
		fmt.Fprintf(&b, "- **Objective:** Create a new, improved %d-day plan. It is crucial that you **DO NOT** repeat the exercises or structure from the previous plan. Introduce significant variety and different exercises.\n", PlanDurationDays)
		b.WriteString("- **Previous (Unsatisfactory) Plan to Avoid:**\n```json\n")
		b.Write(previousJSON)
		b.WriteString("\n```\n\n")
	}

	b.WriteString("**User Profile:**\n")
	fmt.Fprintf(&b, "- **Fitness Level:** %s (%s)\n", in.FitnessLevel, levelDescription)
	fmt.Fprintf(&b, "- **Primary Goal:** %s\n", actualGoal)
	fmt.Fprintf(&b, "- **Workout Duration Category:** %s (%d-%d minutes per session)\n", in.DurationCategory, minDur, maxDur)
	fmt.Fprintf(&b, "- **Plan Duration:** %d days, starting on %s.\n", PlanDurationDays, in.StartDate)
	fmt.Fprintf(&b, "- **Available Equipment:** %s\n", equipmentList)
	fmt.Fprintf(&b, "- **Medical Considerations:** %s\n", medical)
	b.WriteString(medicalNote)
	b.WriteString("\n")

	b.WriteString("**Workout Generation Rules:**\n")
	fmt.Fprintf(&b, "1. **Goal-Specific Exercises:** The plan must be tailored to the user's goal. %s\n", guidance)
	fmt.Fprintf(&b, "2. **Progressive Overload:** Gradually increase the difficulty over the %d weeks, either by increasing weight, reps, or exercise complexity.\n", PlanDurationWeeks)
	b.WriteString("3. **Variety:** Use a variety of exercises to keep the user engaged and target different muscle groups. Avoid making every day the same.\n")
	fmt.Fprintf(&b, "4. **Daily Workouts:** Generate exactly %d workout objects, one for each day of the plan. There are no rest days in the generated array.\n\n", PlanDurationDays)

	b.WriteString("**JSON Output Requirements:**\n")
	b.WriteString("1. **Root Object:** The root must be a JSON object with three keys: \"workoutPlan\", \"workoutWeekSummaries\", and \"workouts\".\n")
	b.WriteString("2. **workoutPlan Object:**\n")
	fmt.Fprintf(&b, "   - `startDate` must be \"%s\".\n", in.StartDate)
	fmt.Fprintf(&b, "   - `endDate` must be \"%s\".\n", endDate)
	b.WriteString("   - Must contain exactly the keys: \"description\", \"startDate\", \"endDate\", \"durationDays\", \"durationWeeks\", \"isActive\", \"aiGenerated\", \"workoutGoal\", \"totalWorkouts\", \"totalTime\".\n")
	b.WriteString("   - `totalTime` must be the sum of all `durationInMinutes` values, formatted as \"HH:MM:SS\".\n")
	b.WriteString("3. **workoutWeekSummaries Array:**\n")
	fmt.Fprintf(&b, "   - Must contain **exactly %d** summary objects.\n", PlanDurationWeeks)
	fmt.Fprintf(&b, "   - Each object must have a unique `weekNumber` from 1 to %d.\n", PlanDurationWeeks)
	b.WriteString("4. **workouts Array:**\n")
	fmt.Fprintf(&b, "   - Must contain **exactly %d** workout objects.\n", PlanDurationDays)
	fmt.Fprintf(&b, "   - Each workout must have a **unique `scheduledDate`** from \"%s\" to \"%s\".\n", in.StartDate, endDate)
	fmt.Fprintf(&b, "   - `durationInMinutes` must be a number between %d and %d.\n", minDur, maxDur)
	b.WriteString("   - Each workout must contain an `exercises` array with 2 to 4 exercise objects.\n")
	b.WriteString("5. **exercises Array (within each workout):**\n")
	b.WriteString("   - Each exercise object must use equipment from the **Available Equipment** list only.\n")
	b.WriteString("6. **sets Array (within each exercise):**\n")
	b.WriteString("   - This is a critical instruction. Each object in the `sets` array must **ONLY** contain the following keys:\n")
	b.WriteString("     - `reps` (number): This is mandatory for all exercises.\n")
	b.WriteString("     - `weightKg` (number): Include this **only** for strength exercises using equipment. **Omit this key entirely** for bodyweight exercises.\n")
	b.WriteString("   - **DO NOT** include a \"duration\" or \"time\" key inside the set objects.\n\n")

	b.WriteString("**Final Check before responding:**\n")
	b.WriteString("Before you provide the final JSON, mentally verify the following:\n")
	b.WriteString("- Is the entire output a single, valid JSON object with no extra text or markdown?\n")
	fmt.Fprintf(&b, "- Does the 'workouts' array contain exactly %d items?\n", PlanDurationDays)
	fmt.Fprintf(&b, "- Does the 'workoutWeekSummaries' array contain exactly %d items?\n", PlanDurationWeeks)
	b.WriteString("- Is every 'scheduledDate' unique and in 'YYYY-MM-DD' format?\n")
	b.WriteString("- Does every object in the 'sets' array for bodyweight exercises have the 'weightKg' key completely omitted?\n")
	b.WriteString("- Is the JSON complete, with all brackets and braces properly closed?\n\n")

	b.WriteString("**Example JSON Structure:**\n")
	fmt.Fprintf(&b, `{
  "workoutPlan": {
    "description": "...",
    "startDate": "%s",
    "endDate": "%s",
    "durationDays": %d,
    "durationWeeks": %d,
    "isActive": true,
    "aiGenerated": true,
    "workoutGoal": "%s",
    "totalWorkouts": %d,
    "totalTime": "HH:MM:SS"
  },
  "workoutWeekSummaries": [
    {
      "weekNumber": 1,
      "summary": "Week 1: Focus on mastering form and building a consistent routine.",
      "startDate": "YYYY-MM-DD",
      "endDate": "YYYY-MM-DD"
    }
  ],
  "workouts": [
    {
      "durationInMinutes": %d,
      "scheduledDate": "%s",
      "weekNumber": 1,
      "status": "Scheduled",
      "exercises": [
        {
          "name": "Dumbbell Squats",
          "equipment": "Dumbbells",
          "orderIndex": 1,
          "sets": [
            { "reps": 12, "weightKg": 10 }
          ]
        },
        {
          "name": "Push-ups",
          "equipment": "Bodyweight",
          "orderIndex": 2,
          "sets": [
            { "reps": 10 }
          ]
        }
      ]
    }
  ]
}`, in.StartDate, endDate, PlanDurationDays, PlanDurationWeeks, actualGoal, PlanDurationDays, minDur, in.StartDate)

	return b.String(), nil
}
