package models

// Teacher represents an academic staff record. Department is the
// dimension used by the eligibility diversity cap.
type Teacher struct {
	ID         string `db:"id" json:"id"`
	Title      string `db:"title" json:"title"`
	FirstName  string `db:"first_name" json:"first_name"`
	Surname    string `db:"surname" json:"surname"`
	Department string `db:"department" json:"department"`
}

// TeacherFilter captures filtering options for listing teachers.
type TeacherFilter struct {
	Department string
	Search     string
	Page       int
	PageSize   int
}
