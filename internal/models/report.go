package models

// InspectionReport is the rating payload produced by one inspection.
// A report belongs to exactly one inspection and is never shared.
type InspectionReport struct {
	ID                   string  `db:"id" json:"id"`
	LatenessMinutes      *int    `db:"lateness_minutes" json:"lateness_minutes,omitempty"`
	StudentsAttendance   int     `db:"students_attendance" json:"students_attendance"`
	RoomAdaptation       string  `db:"room_adaptation" json:"room_adaptation"`
	ContentCompatibility int     `db:"content_compatibility" json:"content_compatibility"`
	SubstantiveRating    string  `db:"substantive_rating" json:"substantive_rating"`
	FinalRating          int     `db:"final_rating" json:"final_rating"`
	Objection            bool    `db:"objection" json:"objection"`
	ObjectionNote        *string `db:"objection_note" json:"objection_note,omitempty"`
}

// ReportPatch carries a partial report update. Nil fields are left
// untouched; an all-nil patch is a valid no-op.
type ReportPatch struct {
	LatenessMinutes      *int    `json:"lateness_minutes"`
	StudentsAttendance   *int    `json:"students_attendance"`
	RoomAdaptation       *string `json:"room_adaptation"`
	ContentCompatibility *int    `json:"content_compatibility"`
	SubstantiveRating    *string `json:"substantive_rating"`
	FinalRating          *int    `json:"final_rating"`
	Objection            *bool   `json:"objection"`
	ObjectionNote        *string `json:"objection_note"`
}

// Empty reports whether the patch carries no field at all.
func (p ReportPatch) Empty() bool {
	return p.LatenessMinutes == nil && p.StudentsAttendance == nil &&
		p.RoomAdaptation == nil && p.ContentCompatibility == nil &&
		p.SubstantiveRating == nil && p.FinalRating == nil &&
		p.Objection == nil && p.ObjectionNote == nil
}

// Apply copies the set fields of the patch onto the report.
func (p ReportPatch) Apply(r *InspectionReport) {
	if p.LatenessMinutes != nil {
		r.LatenessMinutes = p.LatenessMinutes
	}
	if p.StudentsAttendance != nil {
		r.StudentsAttendance = *p.StudentsAttendance
	}
	if p.RoomAdaptation != nil {
		r.RoomAdaptation = *p.RoomAdaptation
	}
	if p.ContentCompatibility != nil {
		r.ContentCompatibility = *p.ContentCompatibility
	}
	if p.SubstantiveRating != nil {
		r.SubstantiveRating = *p.SubstantiveRating
	}
	if p.FinalRating != nil {
		r.FinalRating = *p.FinalRating
	}
	if p.Objection != nil {
		r.Objection = *p.Objection
	}
	if p.ObjectionNote != nil {
		r.ObjectionNote = p.ObjectionNote
	}
}
