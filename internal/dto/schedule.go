package dto

// ScheduleEntry is one line of the semester inspection schedule.
type ScheduleEntry struct {
	LessonID       string  `db:"lesson_id" json:"lesson_id"`
	TimeSlot       string  `db:"time_slot" json:"time_slot"`
	Room           string  `db:"room" json:"room"`
	Building       string  `db:"building" json:"building"`
	SubjectName    string  `db:"subject_name" json:"subject_name"`
	SubjectType    string  `db:"subject_type" json:"subject_type"`
	TeacherTitle   string  `db:"teacher_title" json:"teacher_title"`
	TeacherName    string  `db:"teacher_name" json:"teacher_name"`
	TeacherSurname string  `db:"teacher_surname" json:"teacher_surname"`
	TeamID         *string `db:"team_id" json:"-"`

	InspectionTeam []ScheduleInspector `db:"-" json:"inspection_team"`
}

// ScheduleInspector names one inspecting teacher on a schedule line.
type ScheduleInspector struct {
	Title     string `json:"title"`
	FirstName string `json:"first_name"`
	Surname   string `json:"surname"`
}
