package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const schedulePage = `
<html><body>
<table class="datadisplaytable" summary="header">
<caption class="captiontext"><a href="/bprod/bwckschd.p_disp_detail_sched?term_in=202601&crn_in=12345">Principles of Computer Science I - 12345 - CSC 1301 - 01</a></caption>
<tr><td>Associated Term: Spring 2026</td></tr>
<tr><td>3.000 Credits</td></tr>
<tr><td>Seats Avail: 12</td></tr>
</table>
<table class="datadisplaytable" summary="meetings">
<tr><th>Type</th><th>Time</th><th>Days</th><th>Where</th><th>Date Range</th><th>Schedule Type</th><th>Instructors</th></tr>
<tr><td>Class</td><td>10:00 am - 10:50 am</td><td>MWF</td><td>Classroom South 300</td><td>Jan 12 - May 04</td><td>Lecture</td><td>Dr. Jane Doe (P) (jdoe@example.edu)</td></tr>
</table>
<table class="datadisplaytable" summary="header">
<caption class="captiontext">Data Structures - 23456 - CSC 2720 - 02</caption>
<tr><td>4.000 Credits</td></tr>
<tr><td>Seats: 5/30</td></tr>
</table>
<table class="datadisplaytable" summary="meetings">
<tr><th>Type</th><th>Time</th><th>Days</th><th>Where</th><th>Date Range</th><th>Schedule Type</th><th>Instructors</th></tr>
<tr><td>Class</td><td>TBA</td><td>TBA</td><td>ONLINE</td><td>Jan 12 - May 04</td><td>Fully Online</td><td>TBA</td></tr>
</table>
<table class="datadisplaytable" summary="header">
<caption class="captiontext">Broken Row Without Enough Parts</caption>
<tr><td>malformed</td></tr>
</table>
<table class="datadisplaytable" summary="meetings">
<tr><th>Type</th></tr>
</table>
</body></html>`

func TestParseSchedule(t *testing.T) {
	result, err := ParseSchedule(schedulePage, "202601")
	require.NoError(t, err)

	require.Len(t, result.Courses, 2)
	assert.Equal(t, 1, result.Skipped)

	first := result.Courses[0]
	assert.Equal(t, "202601", first.Term)
	assert.Equal(t, "12345", first.CRN)
	assert.Equal(t, "CSC", first.Subject)
	assert.Equal(t, "1301", first.Number)
	assert.Equal(t, "01", first.Section)
	assert.Equal(t, "Principles of Computer Science I", first.Title)
	assert.Equal(t, 3, first.Credits)
	assert.Equal(t, []string{"M", "W", "F"}, first.Days)
	assert.Equal(t, 10*60, first.StartMinute)
	assert.Equal(t, 10*60+50, first.EndMinute)
	assert.Equal(t, "Classroom South 300", first.Location)
	assert.Equal(t, ModalityInPerson, first.Modality)
	assert.Equal(t, "Jane Doe", first.Instructor)
	assert.Equal(t, 12, first.SeatsAvailable)
	assert.True(t, first.Scheduled())
	assert.True(t, first.HasInstructor())

	second := result.Courses[1]
	assert.Equal(t, "23456", second.CRN)
	assert.Equal(t, "CSC2720", second.Code())
	assert.Equal(t, 4, second.Credits)
	assert.Equal(t, 5, second.SeatsAvailable)
	assert.Equal(t, 30, second.SeatsTotal)
	assert.Equal(t, ModalityOnline, second.Modality)
	assert.Empty(t, second.Days)
	assert.Equal(t, NoMeetingTime, second.StartMinute)
	assert.False(t, second.Scheduled())
	assert.False(t, second.HasInstructor())
}

func TestParseSchedule_EmptyPage(t *testing.T) {
	result, err := ParseSchedule("<html><body><p>No classes were found.</p></body></html>", "202601")
	require.NoError(t, err)
	assert.Empty(t, result.Courses)
	assert.Zero(t, result.Skipped)
}

func TestParseTimeRange(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		wantStart int
		wantEnd   int
		wantOK    bool
	}{
		{name: "morning range", value: "10:00 am - 10:50 am", wantStart: 600, wantEnd: 650, wantOK: true},
		{name: "crosses noon", value: "11:00 am - 12:15 pm", wantStart: 660, wantEnd: 735, wantOK: true},
		{name: "evening range", value: "5:30 pm - 6:45 pm", wantStart: 1050, wantEnd: 1125, wantOK: true},
		{name: "midnight start", value: "12:00 am - 1:00 am", wantStart: 0, wantEnd: 60, wantOK: true},
		{name: "placeholder", value: "TBA", wantOK: false},
		{name: "end before start", value: "2:00 pm - 1:00 pm", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, ok := parseTimeRange(tt.value)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantStart, start)
				assert.Equal(t, tt.wantEnd, end)
			}
		})
	}
}

func TestParseDays(t *testing.T) {
	assert.Equal(t, []string{"M", "W", "F"}, parseDays("MWF"))
	assert.Equal(t, []string{"T", "R"}, parseDays("TR"))
	assert.Equal(t, []string{"S", "U"}, parseDays("SU"))
	assert.Nil(t, parseDays(""))
}

func TestCleanInstructorName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "honorific and marker", in: "Dr. Jane Doe (P)", want: "Jane Doe"},
		{name: "embedded email", in: "John Smith (jsmith@example.edu)", want: "John Smith"},
		{name: "extra whitespace", in: "  Mary   Ann   Jones ", want: "Mary Ann Jones"},
		{name: "plain name", in: "Alan Turing", want: "Alan Turing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanInstructorName(tt.in))
		})
	}
}

func TestCourseRecord_ConflictsWith(t *testing.T) {
	mwfMorning := CourseRecord{Days: []string{"M", "W", "F"}, StartMinute: 600, EndMinute: 650}
	mwfOverlap := CourseRecord{Days: []string{"M", "W", "F"}, StartMinute: 630, EndMinute: 680}
	trMorning := CourseRecord{Days: []string{"T", "R"}, StartMinute: 600, EndMinute: 650}
	mwfLater := CourseRecord{Days: []string{"M", "W", "F"}, StartMinute: 650, EndMinute: 700}
	unscheduled := CourseRecord{StartMinute: NoMeetingTime, EndMinute: NoMeetingTime}

	assert.True(t, mwfMorning.ConflictsWith(mwfOverlap))
	assert.True(t, mwfOverlap.ConflictsWith(mwfMorning))
	assert.False(t, mwfMorning.ConflictsWith(trMorning))
	// back-to-back meetings do not overlap
	assert.False(t, mwfMorning.ConflictsWith(mwfLater))
	assert.False(t, mwfMorning.ConflictsWith(unscheduled))
	assert.False(t, unscheduled.ConflictsWith(unscheduled))
}
