package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ref(s string) *string { return &s }

func TestInspectionStatusDerivation(t *testing.T) {
	cases := []struct {
		name       string
		inspection Inspection
		report     *InspectionReport
		want       InspectionStatus
	}{
		{"no references", Inspection{}, nil, StatusUnassigned},
		{"team only", Inspection{TeamID: ref("t")}, nil, StatusUnassigned},
		{"lesson only", Inspection{LessonID: ref("l")}, nil, StatusLessonFixed},
		{"team and lesson", Inspection{TeamID: ref("t"), LessonID: ref("l")}, nil, StatusTeamAssigned},
		{"reported", Inspection{TeamID: ref("t"), LessonID: ref("l")}, &InspectionReport{}, StatusReported},
		{"objected", Inspection{TeamID: ref("t"), LessonID: ref("l")}, &InspectionReport{Objection: true}, StatusObjected},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.inspection.Status(tc.report))
		})
	}
}

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusUnassigned, StatusLessonFixed))
	assert.True(t, CanTransition(StatusLessonFixed, StatusTeamAssigned))
	assert.True(t, CanTransition(StatusTeamAssigned, StatusUnassigned))
	assert.True(t, CanTransition(StatusTeamAssigned, StatusReported))
	assert.True(t, CanTransition(StatusLessonFixed, StatusReported))
	assert.True(t, CanTransition(StatusReported, StatusObjected))
	assert.True(t, CanTransition(StatusObjected, StatusReported))

	// A report cannot appear before a lesson is fixed, and reported
	// inspections never lose their report.
	assert.False(t, CanTransition(StatusUnassigned, StatusReported))
	assert.False(t, CanTransition(StatusReported, StatusTeamAssigned))
	assert.False(t, CanTransition(StatusObjected, StatusUnassigned))
}
