package dto

import "github.com/akademiklabs/inspection-api/internal/models"

// InspectionListItem is the flattened row returned by the inspection
// term listing (assignment joined with lesson, subject and teacher).
type InspectionListItem struct {
	ID             string  `db:"id" json:"id"`
	TimeSlot       string  `db:"time_slot" json:"time_slot"`
	SubjectName    string  `db:"subject_name" json:"subject"`
	SubjectType    string  `db:"subject_type" json:"subject_type"`
	TeacherID      string  `db:"teacher_id" json:"teacher_id"`
	TeacherTitle   string  `db:"teacher_title" json:"-"`
	TeacherName    string  `db:"teacher_name" json:"-"`
	TeacherSurname string  `db:"teacher_surname" json:"-"`
	Teacher        string  `db:"-" json:"teacher"`
	LessonID       string  `db:"lesson_id" json:"lesson_id"`
	TeamID         *string `db:"team_id" json:"team_id,omitempty"`
}

// InspectionDetail is the single-document projection: inspected lesson
// context, the inspecting roster and the report payload when present.
type InspectionDetail struct {
	InspectionID     string                   `json:"inspection_id"`
	Status           models.InspectionStatus  `json:"status"`
	InspectedName    string                   `json:"inspected_name"`
	DepartmentName   string                   `json:"department_name"`
	DateOfInspection string                   `json:"date_of_inspection"`
	SubjectName      string                   `json:"subject_name"`
	SubjectCode      string                   `json:"subject_code"`
	Inspectors       []EligibleMember         `json:"inspectors"`
	Report           *models.InspectionReport `json:"report,omitempty"`
}
