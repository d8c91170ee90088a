package dto

// EligibleMember is one team member cleared to inspect the target
// lesson: no slot collision and within the department diversity cap.
type EligibleMember struct {
	TeacherID  string `json:"teacher_id"`
	FirstName  string `json:"first_name"`
	Surname    string `json:"surname"`
	Title      string `json:"title"`
	Department string `json:"department"`
}

// EligibleTeam pairs a candidate team with its eligible members.
type EligibleTeam struct {
	TeamID   string           `json:"team_id"`
	TeamName string           `json:"team_name"`
	Members  []EligibleMember `json:"members"`
}
