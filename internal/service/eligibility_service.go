package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/akademiklabs/inspection-api/internal/dto"
	"github.com/akademiklabs/inspection-api/internal/models"
	appErrors "github.com/akademiklabs/inspection-api/pkg/errors"
)

type eligibilityTeacherRepository interface {
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
}

type eligibilityLessonRepository interface {
	FindByID(ctx context.Context, id string) (*models.Lesson, error)
	SlotsByTeacher(ctx context.Context, teacherID string) ([]models.TimeSlot, error)
	CommittedSlotsByTeacher(ctx context.Context, teacherID string) ([]models.TimeSlot, error)
}

type eligibilityTeamRepository interface {
	ListCandidates(ctx context.Context, excludeTeacherID string) ([]models.InspectionTeam, error)
	ListMembers(ctx context.Context, teamID string) ([]models.TeamMember, error)
}

type eligibilityCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// EligibilityService computes which teams may be offered for inspecting
// a given lesson and teacher.
type EligibilityService struct {
	teachers eligibilityTeacherRepository
	lessons  eligibilityLessonRepository
	teams    eligibilityTeamRepository
	cache    eligibilityCache
	cacheTTL time.Duration
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewEligibilityService constructs an EligibilityService. Cache is
// optional; pass nil to disable caching.
func NewEligibilityService(teachers eligibilityTeacherRepository, lessons eligibilityLessonRepository, teams eligibilityTeamRepository, cache eligibilityCache, cacheTTL time.Duration, metrics *MetricsService, logger *zap.Logger) *EligibilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EligibilityService{
		teachers: teachers,
		lessons:  lessons,
		teams:    teams,
		cache:    cache,
		cacheTTL: cacheTTL,
		metrics:  metrics,
		logger:   logger,
	}
}

const eligibilityCachePrefix = "eligibility:"

func eligibilityCacheKey(teacherID, lessonID string) string {
	return fmt.Sprintf("%s%s:%s", eligibilityCachePrefix, teacherID, lessonID)
}

// GetEligibleTeams returns the candidate teams with their eligible
// members for inspecting the lesson taught by the given teacher. An
// empty result is a successful outcome, not an error.
func (s *EligibilityService) GetEligibleTeams(ctx context.Context, teacherID, lessonID string) ([]dto.EligibleTeam, error) {
	if cached, ok := s.cacheLookup(ctx, teacherID, lessonID); ok {
		return cached, nil
	}

	lesson, err := s.lessons.FindByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load lesson")
	}
	if err := ValidateSlot(lesson.TimeSlot); err != nil {
		return nil, err
	}

	inspected, err := s.teachers.FindByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "inspected teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load teacher")
	}

	// A teacher must never inspect their own lesson through one of
	// their own teams, so those teams are excluded at the source.
	candidates, err := s.teams.ListCandidates(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load candidate teams")
	}

	available := make([]dto.EligibleTeam, 0, len(candidates))
	for _, team := range candidates {
		eligible, err := s.evaluateTeam(ctx, team, lesson.TimeSlot, inspected.Department)
		if err != nil {
			return nil, err
		}
		if eligible != nil {
			available = append(available, *eligible)
		}
	}

	s.cacheStore(ctx, teacherID, lessonID, available)
	return available, nil
}

// evaluateTeam walks the team roster in membership order, skipping
// members with slot collisions and capping same-department members at
// one. Returns nil when the team must be excluded.
func (s *EligibilityService) evaluateTeam(ctx context.Context, team models.InspectionTeam, slot models.TimeSlot, inspectedDepartment string) (*dto.EligibleTeam, error) {
	members, err := s.teams.ListMembers(ctx, team.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load team members")
	}

	departmentCount := 0
	eligible := make([]dto.EligibleMember, 0, len(members))

	for _, member := range members {
		commitments, err := s.memberCommitments(ctx, member.TeacherID)
		if err != nil {
			return nil, err
		}
		if HasConflict(slot, commitments) {
			continue
		}

		if member.Department == inspectedDepartment {
			departmentCount++
			if departmentCount > 1 {
				// Two same-department members disqualify the
				// whole team; no point scoring the rest.
				break
			}
		}

		eligible = append(eligible, dto.EligibleMember{
			TeacherID:  member.TeacherID,
			FirstName:  member.FirstName,
			Surname:    member.Surname,
			Title:      member.Title,
			Department: member.Department,
		})
	}

	if len(eligible) == 0 || departmentCount > 1 {
		return nil, nil
	}
	return &dto.EligibleTeam{TeamID: team.ID, TeamName: team.Name, Members: eligible}, nil
}

// memberCommitments gathers the member's own lesson slots plus the
// slots of lessons their teams are already committed to inspect.
func (s *EligibilityService) memberCommitments(ctx context.Context, teacherID string) ([]models.TimeSlot, error) {
	own, err := s.lessons.SlotsByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load member lessons")
	}
	committed, err := s.lessons.CommittedSlotsByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrStoreUnavailable.Code, appErrors.ErrStoreUnavailable.Status, "failed to load member inspection commitments")
	}
	return append(own, committed...), nil
}

func (s *EligibilityService) cacheLookup(ctx context.Context, teacherID, lessonID string) ([]dto.EligibleTeam, bool) {
	if s.cache == nil {
		return nil, false
	}
	start := time.Now()
	var cached []dto.EligibleTeam
	err := s.cache.Get(ctx, eligibilityCacheKey(teacherID, lessonID), &cached)
	if s.metrics != nil {
		s.metrics.RecordCacheOperation(err == nil, time.Since(start))
	}
	if err != nil {
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("eligibility cache lookup failed", zap.Error(err))
		}
		return nil, false
	}
	return cached, true
}

func (s *EligibilityService) cacheStore(ctx context.Context, teacherID, lessonID string, teams []dto.EligibleTeam) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, eligibilityCacheKey(teacherID, lessonID), teams, s.cacheTTL); err != nil {
		s.logger.Warn("eligibility cache store failed", zap.Error(err))
	}
}

// InvalidateCache drops every cached eligibility result. Called after
// any write that can change team rosters or assignments.
func (s *EligibilityService) InvalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, eligibilityCachePrefix+"*"); err != nil {
		s.logger.Warn("eligibility cache invalidation failed", zap.Error(err))
	}
}
