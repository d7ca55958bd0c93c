package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pulsefit/pulsefit-backend/internal/clients/openai"
	"github.com/pulsefit/pulsefit-backend/internal/repos"
	"github.com/pulsefit/pulsefit-backend/internal/repos/testutil"
	"github.com/pulsefit/pulsefit-backend/internal/svcerr"
	"github.com/pulsefit/pulsefit-backend/internal/types"
)

type stubAI struct {
	responses []string
	err       error
	prompts   []string
}

func (s *stubAI) Complete(_ context.Context, prompt string) (*openai.Completion, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return nil, s.err
	}
	if len(s.responses) == 0 {
		return nil, errors.New("stub has no responses left")
	}
	resp := s.responses[0]
	s.responses = s.responses[1:]
	return &openai.Completion{Text: resp, Model: "stub-model"}, nil
}

func (s *stubAI) Model() string { return "stub-model" }

func planResponse(t *testing.T, plan *GeneratedPlan) string {
	t.Helper()
	data, err := json.Marshal(plan)
	if err != nil {
		t.Fatalf("marshal plan: %v", err)
	}
	return "```json\n" + string(data) + "\n```"
}

type genFixture struct {
	db  *gorm.DB
	ai  *stubAI
	svc *workoutGenerationService
}

func newGenFixture(t *testing.T, ai *stubAI) *genFixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	log := testutil.NewTestLogger(t)

	svc := NewWorkoutGenerationService(
		db,
		ai,
		repos.NewUserRepo(db, log),
		repos.NewFitnessProfileRepo(db, log),
		repos.NewAvailableExerciseRepo(db, log),
		repos.NewWorkoutPlanRepo(db, log),
		repos.NewWorkoutRepo(db, log),
		repos.NewAICallLogRepo(db, log),
		log,
	).(*workoutGenerationService)

	return &genFixture{db: db, ai: ai, svc: svc}
}

func TestGenerateMaterializesPlan(t *testing.T) {
	ai := &stubAI{responses: []string{planResponse(t, validGeneratedPlan(t, "2024-03-01"))}}
	f := newGenFixture(t, ai)
	user := testutil.SeedUser(t, f.db)
	testutil.SeedProfile(t, f.db, user.ID)
	catalogRow := testutil.SeedExercise(t, f.db, "Dumbbell Squats")

	view, err := f.svc.Generate(context.Background(), user.ID, "2024-03-01")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if view.Plan.UserID != user.ID {
		t.Errorf("plan user = %v, want %v", view.Plan.UserID, user.ID)
	}
	if view.Plan.StartDate != "2024-03-01" || view.Plan.EndDate != "2024-03-14" {
		t.Errorf("plan dates = %s..%s, want 2024-03-01..2024-03-14", view.Plan.StartDate, view.Plan.EndDate)
	}
	if !view.Plan.IsActive || !view.Plan.AIGenerated {
		t.Error("generated plan should be active and flagged ai generated")
	}

	// Date coverage: 14 consecutive days, each exactly once.
	if len(view.Workouts) != PlanDurationDays {
		t.Fatalf("workout count = %d, want %d", len(view.Workouts), PlanDurationDays)
	}
	start, _ := time.Parse("2006-01-02", "2024-03-01")
	seen := map[string]bool{}
	for _, w := range view.Workouts {
		seen[w.ScheduledDate] = true
		if w.IsRegenerated {
			t.Errorf("workout %s should not be flagged regenerated on first generation", w.ScheduledDate)
		}
	}
	for day := 0; day < PlanDurationDays; day++ {
		date := start.AddDate(0, 0, day).Format("2006-01-02")
		if !seen[date] {
			t.Errorf("missing workout for %s", date)
		}
	}

	// Week numbering.
	if len(view.WeekSummaries) != PlanDurationWeeks {
		t.Fatalf("week summary count = %d, want %d", len(view.WeekSummaries), PlanDurationWeeks)
	}
	weeks := map[int]bool{}
	for _, ws := range view.WeekSummaries {
		weeks[ws.WeekNumber] = true
	}
	for week := 1; week <= PlanDurationWeeks; week++ {
		if !weeks[week] {
			t.Errorf("missing week summary for week %d", week)
		}
	}

	// Catalog resolution and bodyweight weight omission.
	for _, w := range view.Workouts {
		for _, ex := range w.Exercises {
			switch ex.ExerciseName {
			case "Dumbbell Squats":
				if ex.ExerciseID == nil || *ex.ExerciseID != catalogRow.ID {
					t.Error("catalog exercise should resolve to the seeded catalog id")
				}
				for _, set := range ex.Sets {
					if set.WeightKg == nil {
						t.Error("equipment exercise sets should carry weightKg")
					}
				}
			default:
				if ex.ExerciseID != nil {
					t.Errorf("%q is not in the catalog, exerciseId should be nil", ex.ExerciseName)
				}
				for _, set := range ex.Sets {
					if set.WeightKg != nil {
						t.Errorf("bodyweight set on %q should have no weightKg", ex.ExerciseName)
					}
				}
			}
		}
	}

	// The attempt is audited.
	var calls []types.AICallLog
	if err := f.db.Find(&calls).Error; err != nil {
		t.Fatalf("load call log: %v", err)
	}
	if len(calls) != 1 || !calls[0].Success || calls[0].CallType != "generate" {
		t.Errorf("expected one successful generate call log, got %+v", calls)
	}
}

func TestGenerateUserNotFound(t *testing.T) {
	f := newGenFixture(t, &stubAI{})
	_, err := f.svc.Generate(context.Background(), uuid.New(), "2024-03-01")
	if !errors.Is(err, svcerr.ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestGenerateProfileNotFound(t *testing.T) {
	f := newGenFixture(t, &stubAI{})
	user := testutil.SeedUser(t, f.db)
	_, err := f.svc.Generate(context.Background(), user.ID, "2024-03-01")
	if !errors.Is(err, svcerr.ErrProfileNotFound) {
		t.Fatalf("err = %v, want ErrProfileNotFound", err)
	}
}

func TestGenerateInvalidDate(t *testing.T) {
	f := newGenFixture(t, &stubAI{})
	_, err := f.svc.Generate(context.Background(), uuid.New(), "March 1st")
	if !errors.Is(err, svcerr.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestGenerateUpstreamFailure(t *testing.T) {
	f := newGenFixture(t, &stubAI{err: errors.New("connection refused")})
	user := testutil.SeedUser(t, f.db)
	testutil.SeedProfile(t, f.db, user.ID)

	_, err := f.svc.Generate(context.Background(), user.ID, "2024-03-01")
	if !errors.Is(err, svcerr.ErrUpstream) {
		t.Fatalf("err = %v, want ErrUpstream", err)
	}

	var calls []types.AICallLog
	if err := f.db.Find(&calls).Error; err != nil {
		t.Fatalf("load call log: %v", err)
	}
	if len(calls) != 1 || calls[0].Success {
		t.Errorf("failed upstream call should be audited as unsuccessful, got %+v", calls)
	}
}

func TestGenerateRejectsContractViolation(t *testing.T) {
	bad := validGeneratedPlan(t, "2024-03-01")
	bad.Workouts = bad.Workouts[:13]
	f := newGenFixture(t, &stubAI{responses: []string{planResponse(t, bad)}})
	user := testutil.SeedUser(t, f.db)
	testutil.SeedProfile(t, f.db, user.ID)

	_, err := f.svc.Generate(context.Background(), user.ID, "2024-03-01")
	if !errors.Is(err, svcerr.ErrContract) {
		t.Fatalf("err = %v, want ErrContract", err)
	}

	var planCount int64
	f.db.Model(&types.WorkoutPlan{}).Count(&planCount)
	if planCount != 0 {
		t.Errorf("rejected response must not create plan rows, found %d", planCount)
	}
}

func TestGenerateRejectsNonJSONResponse(t *testing.T) {
	f := newGenFixture(t, &stubAI{responses: []string{"Sorry, I can't help."}})
	user := testutil.SeedUser(t, f.db)
	testutil.SeedProfile(t, f.db, user.ID)

	_, err := f.svc.Generate(context.Background(), user.ID, "2024-03-01")
	if !errors.Is(err, svcerr.ErrNoJSON) {
		t.Fatalf("err = %v, want ErrNoJSON", err)
	}
}

func TestRegenerateReplacesTree(t *testing.T) {
	first := validGeneratedPlan(t, "2024-03-01")
	second := validGeneratedPlan(t, "2024-04-01")
	for i := range second.Workouts {
		for j := range second.Workouts[i].Exercises {
			second.Workouts[i].Exercises[j].Name = "Lunges"
			second.Workouts[i].Exercises[j].Equipment = "Bodyweight"
			for k := range second.Workouts[i].Exercises[j].Sets {
				second.Workouts[i].Exercises[j].Sets[k].WeightKg = nil
			}
		}
	}

	ai := &stubAI{responses: []string{planResponse(t, first), planResponse(t, second)}}
	f := newGenFixture(t, ai)
	user := testutil.SeedUser(t, f.db)
	testutil.SeedProfile(t, f.db, user.ID)

	generated, err := f.svc.Generate(context.Background(), user.ID, "2024-03-01")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	oldIDs := collectTreeIDs(t, f.db, generated.Plan.ID)

	regenerated, err := f.svc.Regenerate(context.Background(), user.ID, generated.Plan.ID, "2024-04-01")
	if err != nil {
		t.Fatalf("regenerate: %v", err)
	}

	// Identity survives, content is replaced.
	if regenerated.Plan.ID != generated.Plan.ID {
		t.Error("regeneration must keep the plan id")
	}
	if regenerated.Plan.UserID != user.ID {
		t.Error("regeneration must keep the plan owner")
	}
	if regenerated.Plan.StartDate != "2024-04-01" || regenerated.Plan.EndDate != "2024-04-14" {
		t.Errorf("plan dates = %s..%s, want 2024-04-01..2024-04-14", regenerated.Plan.StartDate, regenerated.Plan.EndDate)
	}
	if !regenerated.Plan.AIGenerated {
		t.Error("regenerated plan must be flagged ai generated")
	}

	newIDs := collectTreeIDs(t, f.db, generated.Plan.ID)
	for id := range oldIDs {
		if newIDs[id] {
			t.Fatalf("old tree row %s survived regeneration", id)
		}
	}
	for _, w := range regenerated.Workouts {
		if !w.IsRegenerated {
			t.Errorf("workout %s should be flagged regenerated", w.ScheduledDate)
		}
	}

	// The second prompt carried the previous plan as avoidance context.
	if len(ai.prompts) != 2 {
		t.Fatalf("prompt count = %d, want 2", len(ai.prompts))
	}
	if !strings.Contains(ai.prompts[1], "Regeneration Context") {
		t.Error("regeneration prompt missing context section")
	}
	if !strings.Contains(ai.prompts[1], "Dumbbell Squats") {
		t.Error("regeneration prompt should embed the previous plan's exercises")
	}
}

func TestRegenerateFailureKeepsPreviousTree(t *testing.T) {
	first := validGeneratedPlan(t, "2024-03-01")
	ai := &stubAI{responses: []string{planResponse(t, first), "Sorry, something went wrong."}}
	f := newGenFixture(t, ai)
	user := testutil.SeedUser(t, f.db)
	testutil.SeedProfile(t, f.db, user.ID)

	generated, err := f.svc.Generate(context.Background(), user.ID, "2024-03-01")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	before := collectTreeIDs(t, f.db, generated.Plan.ID)

	_, err = f.svc.Regenerate(context.Background(), user.ID, generated.Plan.ID, "2024-04-01")
	if !errors.Is(err, svcerr.ErrNoJSON) {
		t.Fatalf("err = %v, want ErrNoJSON", err)
	}

	after := collectTreeIDs(t, f.db, generated.Plan.ID)
	if len(after) != len(before) {
		t.Fatalf("tree size changed from %d to %d after failed regeneration", len(before), len(after))
	}
	for id := range before {
		if !after[id] {
			t.Fatalf("row %s lost after failed regeneration", id)
		}
	}
}

// failingWorkoutRepo forwards everything to the real repo except Create,
// which fails. Injected to break materialization mid-transaction.
type failingWorkoutRepo struct {
	repos.WorkoutRepo
	err error
}

func (r *failingWorkoutRepo) Create(context.Context, *gorm.DB, []*types.Workout) error {
	return r.err
}

func TestRegenerateRollsBackOnMaterializeFailure(t *testing.T) {
	first := validGeneratedPlan(t, "2024-03-01")
	second := validGeneratedPlan(t, "2024-04-01")
	ai := &stubAI{responses: []string{planResponse(t, first), planResponse(t, second)}}
	f := newGenFixture(t, ai)
	user := testutil.SeedUser(t, f.db)
	testutil.SeedProfile(t, f.db, user.ID)

	generated, err := f.svc.Generate(context.Background(), user.ID, "2024-03-01")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	before := collectTreeIDs(t, f.db, generated.Plan.ID)

	// The replacement transaction deletes the old tree first; failing the
	// workout insert afterwards must roll that delete back too.
	boom := errors.New("insert failed")
	f.svc.workoutRepo = &failingWorkoutRepo{WorkoutRepo: f.svc.workoutRepo, err: boom}

	_, err = f.svc.Regenerate(context.Background(), user.ID, generated.Plan.ID, "2024-04-01")
	if !errors.Is(err, svcerr.ErrInternal) {
		t.Fatalf("err = %v, want ErrInternal", err)
	}

	after := collectTreeIDs(t, f.db, generated.Plan.ID)
	for id := range before {
		if !after[id] {
			t.Fatalf("row %s lost after failed regeneration", id)
		}
	}
	for id := range after {
		if !before[id] {
			t.Fatalf("row %s appeared despite rollback", id)
		}
	}

	var plan types.WorkoutPlan
	if err := f.db.First(&plan, "id = ?", generated.Plan.ID).Error; err != nil {
		t.Fatalf("reload plan: %v", err)
	}
	if plan.StartDate != "2024-03-01" || plan.EndDate != "2024-03-14" {
		t.Errorf("plan header changed to %s..%s after rollback", plan.StartDate, plan.EndDate)
	}
}

func TestRegeneratePlanNotFound(t *testing.T) {
	f := newGenFixture(t, &stubAI{})
	user := testutil.SeedUser(t, f.db)
	testutil.SeedProfile(t, f.db, user.ID)

	_, err := f.svc.Regenerate(context.Background(), user.ID, uuid.New(), "2024-04-01")
	if !errors.Is(err, svcerr.ErrPlanNotFound) {
		t.Fatalf("err = %v, want ErrPlanNotFound", err)
	}
}

func TestRegenerateRejectsForeignPlan(t *testing.T) {
	first := validGeneratedPlan(t, "2024-03-01")
	ai := &stubAI{responses: []string{planResponse(t, first)}}
	f := newGenFixture(t, ai)
	owner := testutil.SeedUser(t, f.db)
	testutil.SeedProfile(t, f.db, owner.ID)
	other := testutil.SeedUser(t, f.db)
	testutil.SeedProfile(t, f.db, other.ID)

	generated, err := f.svc.Generate(context.Background(), owner.ID, "2024-03-01")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	_, err = f.svc.Regenerate(context.Background(), other.ID, generated.Plan.ID, "2024-04-01")
	if !errors.Is(err, svcerr.ErrPlanNotFound) {
		t.Fatalf("err = %v, want ErrPlanNotFound", err)
	}
}

// Materialization must be all-or-nothing: force a failure after the tree is
// written and confirm nothing is visible outside the transaction.
func TestMaterializeRollsBackOnFailure(t *testing.T) {
	f := newGenFixture(t, &stubAI{})
	plan := validGeneratedPlan(t, "2024-03-01")
	planID := uuid.New()

	boom := errors.New("forced failure")
	err := f.db.Transaction(func(tx *gorm.DB) error {
		row := &types.WorkoutPlan{ID: planID, UserID: uuid.New()}
		applyPlanHeader(row, &plan.WorkoutPlan)
		if err := tx.Create(row).Error; err != nil {
			return err
		}
		if err := f.svc.materialize(context.Background(), tx, planID, plan, false); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("transaction err = %v, want forced failure", err)
	}

	var planCount, workoutCount, setCount int64
	f.db.Model(&types.WorkoutPlan{}).Count(&planCount)
	f.db.Model(&types.Workout{}).Count(&workoutCount)
	f.db.Model(&types.WorkoutSet{}).Count(&setCount)
	if planCount != 0 || workoutCount != 0 || setCount != 0 {
		t.Errorf("rollback left rows behind: plans=%d workouts=%d sets=%d", planCount, workoutCount, setCount)
	}
}

func TestGenerateDeactivatesPreviousPlans(t *testing.T) {
	first := validGeneratedPlan(t, "2024-03-01")
	second := validGeneratedPlan(t, "2024-05-01")
	ai := &stubAI{responses: []string{planResponse(t, first), planResponse(t, second)}}
	f := newGenFixture(t, ai)
	user := testutil.SeedUser(t, f.db)
	testutil.SeedProfile(t, f.db, user.ID)

	old, err := f.svc.Generate(context.Background(), user.ID, "2024-03-01")
	if err != nil {
		t.Fatalf("first generate: %v", err)
	}
	fresh, err := f.svc.Generate(context.Background(), user.ID, "2024-05-01")
	if err != nil {
		t.Fatalf("second generate: %v", err)
	}

	var oldPlan types.WorkoutPlan
	if err := f.db.First(&oldPlan, "id = ?", old.Plan.ID).Error; err != nil {
		t.Fatalf("reload old plan: %v", err)
	}
	if oldPlan.IsActive {
		t.Error("previous plan should be deactivated by a new generation")
	}
	if !fresh.Plan.IsActive {
		t.Error("new plan should be active")
	}
}

func collectTreeIDs(t *testing.T, db *gorm.DB, planID uuid.UUID) map[uuid.UUID]bool {
	t.Helper()
	ids := map[uuid.UUID]bool{}

	var workouts []types.Workout
	if err := db.Find(&workouts, "workout_plan_id = ?", planID).Error; err != nil {
		t.Fatalf("load workouts: %v", err)
	}
	var workoutIDs []uuid.UUID
	for _, w := range workouts {
		ids[w.ID] = true
		workoutIDs = append(workoutIDs, w.ID)
	}

	var exercises []types.WorkoutExercise
	if len(workoutIDs) > 0 {
		if err := db.Find(&exercises, "workout_id IN ?", workoutIDs).Error; err != nil {
			t.Fatalf("load exercises: %v", err)
		}
	}
	var exerciseIDs []uuid.UUID
	for _, ex := range exercises {
		ids[ex.ID] = true
		exerciseIDs = append(exerciseIDs, ex.ID)
	}

	if len(exerciseIDs) > 0 {
		var sets []types.WorkoutSet
		if err := db.Find(&sets, "workout_exercise_id IN ?", exerciseIDs).Error; err != nil {
			t.Fatalf("load sets: %v", err)
		}
		for _, set := range sets {
			ids[set.ID] = true
		}
	}

	var summaries []types.WorkoutWeekSummary
	if err := db.Find(&summaries, "workout_plan_id = ?", planID).Error; err != nil {
		t.Fatalf("load summaries: %v", err)
	}
	for _, ws := range summaries {
		ids[ws.ID] = true
	}
	return ids
}
