package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReportPatchEmpty(t *testing.T) {
	assert.True(t, ReportPatch{}.Empty())

	rating := 5
	assert.False(t, ReportPatch{FinalRating: &rating}.Empty())
}

func TestReportPatchApply(t *testing.T) {
	report := InspectionReport{
		ID:                 "rep-1",
		StudentsAttendance: 20,
		RoomAdaptation:     "adequate",
		SubstantiveRating:  "good",
		FinalRating:        4,
	}

	rating := 5
	objection := true
	ReportPatch{FinalRating: &rating, Objection: &objection}.Apply(&report)

	assert.Equal(t, 5, report.FinalRating)
	assert.True(t, report.Objection)
	assert.Equal(t, 20, report.StudentsAttendance)
	assert.Equal(t, "adequate", report.RoomAdaptation)
}
