package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pulsefit/pulsefit-backend/internal/logger"
	"github.com/pulsefit/pulsefit-backend/internal/repos"
	"github.com/pulsefit/pulsefit-backend/internal/svcerr"
	"github.com/pulsefit/pulsefit-backend/internal/types"
	"github.com/pulsefit/pulsefit-backend/internal/utils"
)

// OnboardInput is the onboarding payload: fitness profile fields plus the
// equipment the user has access to.
type OnboardInput struct {
	FitnessLevel          string           `json:"fitness_level"`
	FitnessGoal           string           `json:"fitness_goal"`
	CustomGoal            string           `json:"custom_goal"`
	DurationCategory      string           `json:"duration_category"`
	MedicalConsiderations string           `json:"medical_considerations"`
	Height                float64          `json:"height"`
	HeightUnit            string           `json:"height_unit"`
	Weight                float64          `json:"weight"`
	WeightUnit            string           `json:"weight_unit"`
	Equipment             []EquipmentInput `json:"equipment"`
}

type EquipmentInput struct {
	Name     string `json:"name"`
	IsCustom bool   `json:"is_custom"`
}

type ProfileView struct {
	User    *types.User           `json:"user"`
	Profile *types.FitnessProfile `json:"fitness_profile,omitempty"`
}

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileView, error)
	Onboard(ctx context.Context, userID uuid.UUID, in OnboardInput) (*types.FitnessProfile, error)
	UpdateOnboarding(ctx context.Context, userID uuid.UUID, in OnboardInput) (*types.FitnessProfile, error)
	GetAllEquipment(ctx context.Context) ([]types.AvailableEquipment, error)
	GetAllExercises(ctx context.Context) ([]types.AvailableExercise, error)
}

type userService struct {
	db            *gorm.DB
	userRepo      repos.UserRepo
	profileRepo   repos.FitnessProfileRepo
	exerciseRepo  repos.AvailableExerciseRepo
	equipmentRepo repos.AvailableEquipmentRepo
	log           *logger.Logger
}

func NewUserService(
	db *gorm.DB,
	userRepo repos.UserRepo,
	profileRepo repos.FitnessProfileRepo,
	exerciseRepo repos.AvailableExerciseRepo,
	equipmentRepo repos.AvailableEquipmentRepo,
	baseLog *logger.Logger,
) UserService {
	return &userService{
		db:            db,
		userRepo:      userRepo,
		profileRepo:   profileRepo,
		exerciseRepo:  exerciseRepo,
		equipmentRepo: equipmentRepo,
		log:           baseLog.With("service", "UserService"),
	}
}

var validLevels = map[string]bool{
	types.FitnessLevelBeginner:     true,
	types.FitnessLevelIntermediate: true,
	types.FitnessLevelAdvanced:     true,
}

var validGoals = map[string]bool{
	types.GoalBuildStrength:      true,
	types.GoalWeightLoss:         true,
	types.GoalBuildEndurance:     true,
	types.GoalImproveFlexibility: true,
	types.GoalOverallHealth:      true,
	types.GoalStressBusting:      true,
	types.GoalCustom:             true,
}

var validCategories = map[string]bool{
	types.DurationQuick:    true,
	types.DurationStandard: true,
	types.DurationExtended: true,
	types.DurationAdvanced: true,
}

func (in *OnboardInput) validate() error {
	if !validLevels[in.FitnessLevel] {
		return svcerr.ErrInvalidInput.WithMessagef("unknown fitness level %q", in.FitnessLevel)
	}
	if !validGoals[in.FitnessGoal] {
		return svcerr.ErrInvalidInput.WithMessagef("unknown fitness goal %q", in.FitnessGoal)
	}
	if in.FitnessGoal == types.GoalCustom && utils.NormalizeInput(in.CustomGoal) == "" {
		return svcerr.ErrInvalidInput.WithMessage("custom goal text is required for a custom goal")
	}
	if !validCategories[in.DurationCategory] {
		return svcerr.ErrInvalidInput.WithMessagef("unknown duration category %q", in.DurationCategory)
	}
	return nil
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileView, error) {
	user, err := s.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, svcerr.ErrUserNotFound
		}
		return nil, svcerr.ErrInternal.WithCause(err)
	}

	view := &ProfileView{User: user}
	profile, err := s.profileRepo.GetByUserID(ctx, nil, userID)
	if err == nil {
		view.Profile = profile
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcerr.ErrInternal.WithCause(err)
	}
	return view, nil
}

func (s *userService) Onboard(ctx context.Context, userID uuid.UUID, in OnboardInput) (*types.FitnessProfile, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, nil, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, svcerr.ErrUserNotFound
		}
		return nil, svcerr.ErrInternal.WithCause(err)
	}
	if _, err := s.profileRepo.GetByUserID(ctx, nil, userID); err == nil {
		return nil, svcerr.ErrInvalidInput.WithMessage("user is already onboarded")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcerr.ErrInternal.WithCause(err)
	}

	profile := profileFromInput(uuid.New(), userID, in)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.profileRepo.Create(ctx, tx, []*types.FitnessProfile{profile})
	})
	if err != nil {
		return nil, svcerr.ErrInternal.WithCause(err)
	}

	s.log.Info("user onboarded", "user_id", userID, "profile_id", profile.ID)
	return s.reloadProfile(ctx, userID)
}

func (s *userService) UpdateOnboarding(ctx context.Context, userID uuid.UUID, in OnboardInput) (*types.FitnessProfile, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	existing, err := s.profileRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, svcerr.ErrProfileNotFound
		}
		return nil, svcerr.ErrInternal.WithCause(err)
	}

	updated := profileFromInput(existing.ID, userID, in)
	updated.CreatedAt = existing.CreatedAt
	equipment := make([]*types.WorkoutEquipment, len(updated.Equipment))
	for i := range updated.Equipment {
		equipment[i] = &updated.Equipment[i]
	}
	updated.Equipment = nil

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.profileRepo.Update(ctx, tx, updated); err != nil {
			return err
		}
		return s.profileRepo.ReplaceEquipment(ctx, tx, updated.ID, equipment)
	})
	if err != nil {
		return nil, svcerr.ErrInternal.WithCause(err)
	}

	s.log.Info("onboarding updated", "user_id", userID, "profile_id", updated.ID)
	return s.reloadProfile(ctx, userID)
}

func (s *userService) reloadProfile(ctx context.Context, userID uuid.UUID) (*types.FitnessProfile, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, svcerr.ErrInternal.WithCause(err)
	}
	return profile, nil
}

func profileFromInput(profileID, userID uuid.UUID, in OnboardInput) *types.FitnessProfile {
	profile := &types.FitnessProfile{
		ID:                    profileID,
		UserID:                userID,
		FitnessLevel:          in.FitnessLevel,
		FitnessGoal:           in.FitnessGoal,
		CustomGoal:            utils.NormalizeInput(in.CustomGoal),
		DurationCategory:      in.DurationCategory,
		MedicalConsiderations: utils.NormalizeInput(in.MedicalConsiderations),
		Height:                in.Height,
		HeightUnit:            in.HeightUnit,
		Weight:                in.Weight,
		WeightUnit:            in.WeightUnit,
	}
	for _, eq := range in.Equipment {
		name := utils.NormalizeInput(eq.Name)
		if name == "" {
			continue
		}
		profile.Equipment = append(profile.Equipment, types.WorkoutEquipment{
			ID:               uuid.New(),
			FitnessProfileID: profile.ID,
			Name:             name,
			IsCustom:         eq.IsCustom,
		})
	}
	return profile
}

func (s *userService) GetAllEquipment(ctx context.Context) ([]types.AvailableEquipment, error) {
	equipment, err := s.equipmentRepo.GetAll(ctx, nil)
	if err != nil {
		return nil, svcerr.ErrInternal.WithCause(err)
	}
	return equipment, nil
}

func (s *userService) GetAllExercises(ctx context.Context) ([]types.AvailableExercise, error) {
	exercises, err := s.exerciseRepo.GetAll(ctx, nil)
	if err != nil {
		return nil, svcerr.ErrInternal.WithCause(err)
	}
	return exercises, nil
}
