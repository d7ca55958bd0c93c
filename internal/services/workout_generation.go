package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pulsefit/pulsefit-backend/internal/clients/openai"
	"github.com/pulsefit/pulsefit-backend/internal/logger"
	"github.com/pulsefit/pulsefit-backend/internal/repos"
	"github.com/pulsefit/pulsefit-backend/internal/svcerr"
	"github.com/pulsefit/pulsefit-backend/internal/types"
)

// AIClient is the completion backend the engine talks to. The production
// implementation is clients/openai; tests substitute a stub.
type AIClient interface {
	Complete(ctx context.Context, prompt string) (*openai.Completion, error)
	Model() string
}

// PlanView is the full plan tree returned to callers after generation,
// regeneration, or a plan query.
type PlanView struct {
	Plan          types.WorkoutPlan          `json:"workout_plan"`
	WeekSummaries []types.WorkoutWeekSummary `json:"week_summaries"`
	Workouts      []types.Workout            `json:"workouts"`
}

type WorkoutGenerationService interface {
	Generate(ctx context.Context, userID uuid.UUID, scheduledDate string) (*PlanView, error)
	Regenerate(ctx context.Context, userID, planID uuid.UUID, scheduledDate string) (*PlanView, error)
}

type workoutGenerationService struct {
	db           *gorm.DB
	ai           AIClient
	userRepo     repos.UserRepo
	profileRepo  repos.FitnessProfileRepo
	exerciseRepo repos.AvailableExerciseRepo
	planRepo     repos.WorkoutPlanRepo
	workoutRepo  repos.WorkoutRepo
	aiLogRepo    repos.AICallLogRepo
	log          *logger.Logger
}

func NewWorkoutGenerationService(
	db *gorm.DB,
	ai AIClient,
	userRepo repos.UserRepo,
	profileRepo repos.FitnessProfileRepo,
	exerciseRepo repos.AvailableExerciseRepo,
	planRepo repos.WorkoutPlanRepo,
	workoutRepo repos.WorkoutRepo,
	aiLogRepo repos.AICallLogRepo,
	baseLog *logger.Logger,
) WorkoutGenerationService {
	return &workoutGenerationService{
		db:           db,
		ai:           ai,
		userRepo:     userRepo,
		profileRepo:  profileRepo,
		exerciseRepo: exerciseRepo,
		planRepo:     planRepo,
		workoutRepo:  workoutRepo,
		aiLogRepo:    aiLogRepo,
		log:          baseLog.With("service", "WorkoutGenerationService"),
	}
}

func (s *workoutGenerationService) Generate(ctx context.Context, userID uuid.UUID, scheduledDate string) (*PlanView, error) {
	log := s.log.With("op", "generate", "user_id", userID, "scheduled_date", scheduledDate)

	if _, err := time.Parse(dateLayout, scheduledDate); err != nil {
		return nil, svcerr.ErrInvalidInput.WithMessage("scheduledDate must be YYYY-MM-DD")
	}

	profile, err := s.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	in := s.promptInputFromProfile(profile, scheduledDate)
	generated, err := s.callModel(ctx, log, "generate", userID, nil, in)
	if err != nil {
		return nil, err
	}

	plan := &types.WorkoutPlan{
		ID:     uuid.New(),
		UserID: userID,
	}
	applyPlanHeader(plan, &generated.WorkoutPlan)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.planRepo.DeactivateAllForUser(ctx, tx, userID); err != nil {
			return err
		}
		if err := s.planRepo.Create(ctx, tx, []*types.WorkoutPlan{plan}); err != nil {
			return err
		}
		return s.materialize(ctx, tx, plan.ID, generated, false)
	})
	if err != nil {
		log.Error("plan materialization failed", "error", err)
		return nil, svcerr.ErrInternal.WithCause(err)
	}

	log.Info("workout plan generated", "plan_id", plan.ID)
	return s.planView(ctx, plan.ID)
}

func (s *workoutGenerationService) Regenerate(ctx context.Context, userID, planID uuid.UUID, scheduledDate string) (*PlanView, error) {
	log := s.log.With("op", "regenerate", "user_id", userID, "plan_id", planID, "scheduled_date", scheduledDate)

	if _, err := time.Parse(dateLayout, scheduledDate); err != nil {
		return nil, svcerr.ErrInvalidInput.WithMessage("scheduledDate must be YYYY-MM-DD")
	}

	plan, err := s.planRepo.GetByIDForUser(ctx, nil, planID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, svcerr.ErrPlanNotFound
		}
		return nil, svcerr.ErrInternal.WithCause(err)
	}

	previous, err := s.buildPreviousPlanContext(ctx, plan)
	if err != nil {
		return nil, svcerr.ErrInternal.WithCause(err)
	}

	profile, err := s.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	in := s.promptInputFromProfile(profile, scheduledDate)
	in.IsRegenerating = true
	in.PreviousPlan = previous

	generated, err := s.callModel(ctx, log, "regenerate", userID, &planID, in)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Re-read under a row lock so two regenerations of the same plan
		// cannot interleave their delete and insert phases.
		locked, err := s.planRepo.GetByIDForUserLocked(ctx, tx, planID, userID)
		if err != nil {
			return err
		}
		if err := s.planRepo.DeleteChildren(ctx, tx, locked.ID); err != nil {
			return err
		}
		applyPlanHeader(locked, &generated.WorkoutPlan)
		locked.AIGenerated = true
		if err := s.planRepo.Update(ctx, tx, locked); err != nil {
			return err
		}
		return s.materialize(ctx, tx, locked.ID, generated, true)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, svcerr.ErrPlanNotFound
		}
		log.Error("plan replacement failed", "error", err)
		return nil, svcerr.ErrInternal.WithCause(err)
	}

	log.Info("workout plan regenerated", "plan_id", planID)
	return s.planView(ctx, planID)
}

func (s *workoutGenerationService) loadProfile(ctx context.Context, userID uuid.UUID) (*types.FitnessProfile, error) {
	if _, err := s.userRepo.GetByID(ctx, nil, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, svcerr.ErrUserNotFound
		}
		return nil, svcerr.ErrInternal.WithCause(err)
	}
	profile, err := s.profileRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, svcerr.ErrProfileNotFound
		}
		return nil, svcerr.ErrInternal.WithCause(err)
	}
	return profile, nil
}

func (s *workoutGenerationService) promptInputFromProfile(profile *types.FitnessProfile, scheduledDate string) PromptInput {
	equipment := make([]string, 0, len(profile.Equipment))
	for _, eq := range profile.Equipment {
		equipment = append(equipment, eq.Name)
	}
	return PromptInput{
		FitnessLevel:          profile.FitnessLevel,
		FitnessGoal:           profile.FitnessGoal,
		CustomGoal:            profile.CustomGoal,
		DurationCategory:      profile.DurationCategory,
		MedicalConsiderations: profile.MedicalConsiderations,
		AvailableEquipment:    equipment,
		StartDate:             scheduledDate,
	}
}

// callModel runs prompt build, the upstream call, extraction, and contract
// validation, recording the attempt in the AI call log either way.
func (s *workoutGenerationService) callModel(ctx context.Context, log *logger.Logger, callType string, userID uuid.UUID, planID *uuid.UUID, in PromptInput) (*GeneratedPlan, error) {
	prompt, err := BuildWorkoutPlanPrompt(in)
	if err != nil {
		return nil, svcerr.ErrInvalidInput.WithCause(err)
	}

	completion, err := s.ai.Complete(ctx, prompt)
	if err != nil {
		log.Error("completion call failed", "error", err)
		s.recordCall(ctx, callType, userID, planID, prompt, "", nil, err)
		return nil, svcerr.ErrUpstream.WithCause(err)
	}

	generated, err := ExtractGeneratedPlan(completion.Text)
	if err == nil {
		err = generated.Validate(in.StartDate, in.DurationCategory)
	}
	s.recordCall(ctx, callType, userID, planID, prompt, completion.Text, completion.Usage, err)
	if err != nil {
		log.Error("model output rejected", "error", err)
		return nil, err
	}
	return generated, nil
}

func (s *workoutGenerationService) recordCall(ctx context.Context, callType string, userID uuid.UUID, planID *uuid.UUID, prompt, response string, usage []byte, callErr error) {
	entry := &types.AICallLog{
		ID:       uuid.New(),
		UserID:   &userID,
		PlanID:   planID,
		CallType: callType,
		Model:    s.ai.Model(),
		Prompt:   prompt,
		Response: response,
		Success:  callErr == nil,
		Usage:    usage,
	}
	if callErr != nil {
		entry.Error = callErr.Error()
	}
	if err := s.aiLogRepo.Create(ctx, nil, []*types.AICallLog{entry}); err != nil {
		s.log.Warn("failed to record ai call", "call_type", callType, "error", err)
	}
}

// applyPlanHeader copies the generated header onto the plan row. Identity
// fields (ID, UserID) are never touched.
func applyPlanHeader(plan *types.WorkoutPlan, h *GeneratedPlanHeader) {
	plan.Description = h.Description
	plan.StartDate = h.StartDate
	plan.EndDate = h.EndDate
	plan.DurationDays = h.DurationDays
	plan.DurationWeeks = h.DurationWeeks
	plan.IsActive = true
	plan.AIGenerated = true
	plan.WorkoutGoal = h.WorkoutGoal
	plan.TotalWorkouts = h.TotalWorkouts
	plan.TotalTime = h.TotalTime
}

// materialize writes the validated plan tree inside the caller's
// transaction. Every row gets a client-assigned id before insert, so
// parent/child correspondence never depends on insertion order.
func (s *workoutGenerationService) materialize(ctx context.Context, tx *gorm.DB, planID uuid.UUID, generated *GeneratedPlan, regenerated bool) error {
	summaries := make([]*types.WorkoutWeekSummary, 0, len(generated.WeekSummaries))
	for _, ws := range generated.WeekSummaries {
		summaries = append(summaries, &types.WorkoutWeekSummary{
			ID:            uuid.New(),
			WorkoutPlanID: planID,
			WeekNumber:    ws.WeekNumber,
			Summary:       ws.Summary,
			StartDate:     ws.StartDate,
			EndDate:       ws.EndDate,
		})
	}
	if err := s.planRepo.CreateWeekSummaries(ctx, tx, summaries); err != nil {
		return err
	}

	catalog, err := s.catalogByName(ctx, tx, generated)
	if err != nil {
		return err
	}

	var (
		workouts  []*types.Workout
		exercises []*types.WorkoutExercise
		sets      []*types.WorkoutSet
	)
	for _, gw := range generated.Workouts {
		workout := &types.Workout{
			ID:                uuid.New(),
			WorkoutPlanID:     planID,
			DurationInMinutes: gw.DurationInMinutes,
			ScheduledDate:     gw.ScheduledDate,
			WeekNumber:        gw.WeekNumber,
			Status:            types.WorkoutStatusScheduled,
			IsRegenerated:     regenerated,
		}
		workouts = append(workouts, workout)

		for _, ge := range gw.Exercises {
			exercise := &types.WorkoutExercise{
				ID:           uuid.New(),
				WorkoutID:    workout.ID,
				ExerciseName: ge.Name,
				Equipment:    ge.Equipment,
				OrderIndex:   ge.OrderIndex,
			}
			if catalogID, ok := catalog[ge.Name]; ok {
				id := catalogID
				exercise.ExerciseID = &id
			}
			exercises = append(exercises, exercise)

			for _, gs := range ge.Sets {
				sets = append(sets, &types.WorkoutSet{
					ID:                uuid.New(),
					WorkoutExerciseID: exercise.ID,
					Reps:              gs.Reps,
					WeightKg:          gs.WeightKg,
					Status:            types.SetStatusScheduled,
				})
			}
		}
	}

	if err := s.workoutRepo.Create(ctx, tx, workouts); err != nil {
		return err
	}
	if err := s.workoutRepo.CreateExercises(ctx, tx, exercises); err != nil {
		return err
	}
	return s.workoutRepo.CreateSets(ctx, tx, sets)
}

// catalogByName resolves every distinct exercise name in the response with
// one query. Names the catalog does not know are simply absent from the map.
func (s *workoutGenerationService) catalogByName(ctx context.Context, tx *gorm.DB, generated *GeneratedPlan) (map[string]uuid.UUID, error) {
	distinct := map[string]bool{}
	var names []string
	for _, gw := range generated.Workouts {
		for _, ge := range gw.Exercises {
			if !distinct[ge.Name] {
				distinct[ge.Name] = true
				names = append(names, ge.Name)
			}
		}
	}

	rows, err := s.exerciseRepo.GetByNames(ctx, tx, names)
	if err != nil {
		return nil, err
	}
	catalog := make(map[string]uuid.UUID, len(rows))
	for _, row := range rows {
		catalog[row.Name] = row.ID
	}
	return catalog, nil
}

// buildPreviousPlanContext reconstructs the plan tree in the response
// schema so the prompt can tell the model what to avoid repeating.
func (s *workoutGenerationService) buildPreviousPlanContext(ctx context.Context, plan *types.WorkoutPlan) (*GeneratedPlan, error) {
	summaries, err := s.planRepo.GetWeekSummaries(ctx, nil, plan.ID)
	if err != nil {
		return nil, err
	}
	workouts, err := s.workoutRepo.GetByPlanID(ctx, nil, plan.ID)
	if err != nil {
		return nil, err
	}

	previous := &GeneratedPlan{
		WorkoutPlan: GeneratedPlanHeader{
			Description:   plan.Description,
			StartDate:     plan.StartDate,
			EndDate:       plan.EndDate,
			DurationDays:  plan.DurationDays,
			DurationWeeks: plan.DurationWeeks,
			IsActive:      plan.IsActive,
			AIGenerated:   plan.AIGenerated,
			WorkoutGoal:   plan.WorkoutGoal,
			TotalWorkouts: plan.TotalWorkouts,
			TotalTime:     plan.TotalTime,
		},
	}
	for _, ws := range summaries {
		previous.WeekSummaries = append(previous.WeekSummaries, GeneratedWeekSummary{
			WeekNumber: ws.WeekNumber,
			Summary:    ws.Summary,
			StartDate:  ws.StartDate,
			EndDate:    ws.EndDate,
		})
	}
	for _, w := range workouts {
		gw := GeneratedWorkout{
			DurationInMinutes: w.DurationInMinutes,
			ScheduledDate:     w.ScheduledDate,
			WeekNumber:        w.WeekNumber,
			Status:            w.Status,
			IsRegenerated:     w.IsRegenerated,
		}
		for _, ex := range w.Exercises {
			ge := GeneratedExercise{
				Name:       ex.ExerciseName,
				Equipment:  ex.Equipment,
				OrderIndex: ex.OrderIndex,
			}
			for _, set := range ex.Sets {
				ge.Sets = append(ge.Sets, GeneratedSet{Reps: set.Reps, WeightKg: set.WeightKg})
			}
			gw.Exercises = append(gw.Exercises, ge)
		}
		previous.Workouts = append(previous.Workouts, gw)
	}
	return previous, nil
}

func (s *workoutGenerationService) planView(ctx context.Context, planID uuid.UUID) (*PlanView, error) {
	plan, err := s.planRepo.GetByID(ctx, nil, planID)
	if err != nil {
		return nil, svcerr.ErrInternal.WithCause(err)
	}
	summaries, err := s.planRepo.GetWeekSummaries(ctx, nil, planID)
	if err != nil {
		return nil, svcerr.ErrInternal.WithCause(err)
	}
	workouts, err := s.workoutRepo.GetByPlanID(ctx, nil, planID)
	if err != nil {
		return nil, svcerr.ErrInternal.WithCause(err)
	}
	return &PlanView{Plan: *plan, WeekSummaries: summaries, Workouts: workouts}, nil
}
