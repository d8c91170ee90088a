package models

// InspectionSchedule is the term context inspections are issued under.
// Each schedule belongs to exactly one administrator.
type InspectionSchedule struct {
	ID              string `db:"id" json:"id"`
	YearSemester    string `db:"year_semester" json:"year_semester"`
	AdministratorID string `db:"administrator_id" json:"administrator_id"`
}
