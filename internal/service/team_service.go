package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/akademiklabs/inspection-api/internal/models"
	"github.com/akademiklabs/inspection-api/internal/repository"
	appErrors "github.com/akademiklabs/inspection-api/pkg/errors"
)

type teamRepository interface {
	List(ctx context.Context) ([]models.InspectionTeam, error)
	FindByID(ctx context.Context, id string) (*models.InspectionTeam, error)
	Create(ctx context.Context, team *models.InspectionTeam) error
	ListMembers(ctx context.Context, teamID string) ([]models.TeamMember, error)
	HasMember(ctx context.Context, teamID, teacherID string) (bool, error)
	AddMember(ctx context.Context, teamID, teacherID string) error
	RemoveMember(ctx context.Context, teamID, teacherID string) (bool, error)
}

type teamTeacherRepository interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
}

// CreateTeamRequest is the payload for creating an inspection team.
type CreateTeamRequest struct {
	Name string `json:"name" validate:"required,min=1,max=120"`
}

// TeamWithMembers pairs a team with its full roster.
type TeamWithMembers struct {
	models.InspectionTeam
	Members []models.TeamMember `json:"members"`
}

// TeamService manages inspection teams and their rosters.
type TeamService struct {
	teams       teamRepository
	teachers    teamTeacherRepository
	invalidator cacheInvalidator
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewTeamService constructs a TeamService.
func NewTeamService(teams teamRepository, teachers teamTeacherRepository, invalidator cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *TeamService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeamService{
		teams:       teams,
		teachers:    teachers,
		invalidator: invalidator,
		validator:   validate,
		logger:      logger,
	}
}

// List returns every team with its roster.
func (s *TeamService) List(ctx context.Context) ([]TeamWithMembers, error) {
	teams, err := s.teams.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to list teams")
	}

	out := make([]TeamWithMembers, 0, len(teams))
	for _, team := range teams {
		members, err := s.teams.ListMembers(ctx, team.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to list team members")
		}
		out = append(out, TeamWithMembers{InspectionTeam: team, Members: members})
	}
	return out, nil
}

// Get returns one team with its roster.
func (s *TeamService) Get(ctx context.Context, id string) (*TeamWithMembers, error) {
	team, err := s.getTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	members, err := s.teams.ListMembers(ctx, team.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to list team members")
	}
	return &TeamWithMembers{InspectionTeam: *team, Members: members}, nil
}

// Create registers a new team. Team names are unique.
func (s *TeamService) Create(ctx context.Context, req CreateTeamRequest) (*models.InspectionTeam, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid team payload")
	}

	team := &models.InspectionTeam{Name: req.Name}
	if err := s.teams.Create(ctx, team); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "team name already in use")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to create team")
	}

	s.invalidate(ctx)
	s.logger.Info("team created", zap.String("team_id", team.ID), zap.String("name", team.Name))
	return team, nil
}

// AddMember appends the teacher to the team roster. Adding an existing
// member is a conflict.
func (s *TeamService) AddMember(ctx context.Context, teamID, teacherID string) error {
	if _, err := s.getTeam(ctx, teamID); err != nil {
		return err
	}
	if _, err := s.teachers.FindByID(ctx, teacherID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load teacher")
	}

	exists, err := s.teams.HasMember(ctx, teamID, teacherID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to check membership")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "teacher already belongs to the team")
	}

	if err := s.teams.AddMember(ctx, teamID, teacherID); err != nil {
		if repository.IsUniqueViolation(err) {
			return appErrors.Clone(appErrors.ErrConflict, "teacher already belongs to the team")
		}
		return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to add team member")
	}

	s.invalidate(ctx)
	return nil
}

// RemoveMember drops the teacher from the team roster.
func (s *TeamService) RemoveMember(ctx context.Context, teamID, teacherID string) error {
	if _, err := s.getTeam(ctx, teamID); err != nil {
		return err
	}

	removed, err := s.teams.RemoveMember(ctx, teamID, teacherID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to remove team member")
	}
	if !removed {
		return appErrors.Clone(appErrors.ErrNotFound, "teacher is not a member of the team")
	}

	s.invalidate(ctx)
	return nil
}

func (s *TeamService) getTeam(ctx context.Context, id string) (*models.InspectionTeam, error) {
	team, err := s.teams.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "team not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load team")
	}
	return team, nil
}

func (s *TeamService) invalidate(ctx context.Context) {
	if s.invalidator != nil {
		s.invalidator.InvalidateCache(ctx)
	}
}
