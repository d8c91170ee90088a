package models

// InspectionTeam is a named group of teachers eligible to jointly
// inspect lessons. Team names are unique.
type InspectionTeam struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// TeamMember is one teacher's membership in a team, joined with the
// teacher fields the eligibility filter needs. Rows are ordered by the
// membership position column, which records the order members were
// added. The eligibility filter depends on that order.
type TeamMember struct {
	MembershipID string `db:"membership_id" json:"-"`
	TeamID       string `db:"team_id" json:"-"`
	TeacherID    string `db:"teacher_id" json:"teacher_id"`
	Title        string `db:"title" json:"title"`
	FirstName    string `db:"first_name" json:"first_name"`
	Surname      string `db:"surname" json:"surname"`
	Department   string `db:"department" json:"department"`
}
