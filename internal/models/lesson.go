package models

// TimeSlot is the opaque scheduling unit. Two commitments collide iff
// their slots are exactly equal; there is no interval arithmetic.
type TimeSlot string

// Lesson is a single scheduled class occurrence owned by one teacher.
type Lesson struct {
	ID        string   `db:"id" json:"id"`
	TimeSlot  TimeSlot `db:"time_slot" json:"time_slot"`
	Room      string   `db:"room" json:"room"`
	Building  string   `db:"building" json:"building"`
	SubjectID string   `db:"subject_id" json:"subject_id"`
	TeacherID string   `db:"teacher_id" json:"teacher_id"`
	Semester  string   `db:"semester" json:"semester"`
}
