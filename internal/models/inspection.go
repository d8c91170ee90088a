package models

import "time"

// InspectionStatus is the explicit lifecycle state of an inspection
// assignment. The previous generation of this system encoded state in
// nullable foreign keys; the enum replaces those ad hoc null checks.
type InspectionStatus string

const (
	StatusUnassigned   InspectionStatus = "UNASSIGNED"
	StatusLessonFixed  InspectionStatus = "LESSON_FIXED"
	StatusTeamAssigned InspectionStatus = "TEAM_ASSIGNED"
	StatusReported     InspectionStatus = "REPORTED"
	StatusObjected     InspectionStatus = "OBJECTED"
)

// Inspection links a schedule with an optional team, lesson and report.
type Inspection struct {
	ID         string    `db:"id" json:"id"`
	ScheduleID string    `db:"schedule_id" json:"schedule_id"`
	TeamID     *string   `db:"team_id" json:"team_id,omitempty"`
	LessonID   *string   `db:"lesson_id" json:"lesson_id,omitempty"`
	ReportID   *string   `db:"report_id" json:"report_id,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Status derives the lifecycle state from the record and its report.
// The report is nil while none is attached.
func (i *Inspection) Status(report *InspectionReport) InspectionStatus {
	switch {
	case report != nil && report.Objection:
		return StatusObjected
	case report != nil:
		return StatusReported
	case i.TeamID != nil && i.LessonID != nil:
		return StatusTeamAssigned
	case i.LessonID != nil:
		return StatusLessonFixed
	default:
		return StatusUnassigned
	}
}

// legalTransitions lists the moves the lifecycle manager accepts. Team
// and lesson references may be set or cleared independently, so the
// pre-report states form a small clique; a report only moves forward.
var legalTransitions = map[InspectionStatus][]InspectionStatus{
	StatusUnassigned:   {StatusUnassigned, StatusLessonFixed, StatusTeamAssigned},
	StatusLessonFixed:  {StatusUnassigned, StatusLessonFixed, StatusTeamAssigned, StatusReported},
	StatusTeamAssigned: {StatusUnassigned, StatusLessonFixed, StatusTeamAssigned, StatusReported},
	StatusReported:     {StatusReported, StatusObjected},
	StatusObjected:     {StatusReported, StatusObjected},
}

// CanTransition reports whether moving from one status to another is a
// legal lifecycle step.
func CanTransition(from, to InspectionStatus) bool {
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
