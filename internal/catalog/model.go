// Package catalog scrapes the university's Banner self-service schedule and
// turns it into validated course records.
package catalog

// Modality describes how a section is delivered.
type Modality string

const (
	ModalityInPerson Modality = "in-person"
	ModalityHybrid   Modality = "hybrid"
	ModalityOnline   Modality = "online"
)

// NoMeetingTime marks an unscheduled start or end minute.
const NoMeetingTime = -1

// CourseRecord is one section scraped from the catalog, immutable once
// returned. A record is identified by (Term, CRN).
type CourseRecord struct {
	Term           string   `json:"term"`
	CRN            string   `json:"crn"`
	Subject        string   `json:"subject"`
	Number         string   `json:"number"`
	Section        string   `json:"section"`
	Title          string   `json:"title"`
	Credits        int      `json:"credits"`
	Days           []string `json:"days,omitempty"`
	StartMinute    int      `json:"start_minute"`
	EndMinute      int      `json:"end_minute"`
	Location       string   `json:"location,omitempty"`
	Modality       Modality `json:"modality"`
	Instructor     string   `json:"instructor,omitempty"`
	SeatsAvailable int      `json:"seats_available"`
	SeatsTotal     int      `json:"seats_total"`
}

// Code returns the subject+number course code, e.g. "CSC1301".
func (c CourseRecord) Code() string {
	return c.Subject + c.Number
}

// Scheduled reports whether the section has a concrete meeting time.
func (c CourseRecord) Scheduled() bool {
	return len(c.Days) > 0 && c.StartMinute != NoMeetingTime && c.EndMinute != NoMeetingTime
}

// HasInstructor reports whether an instructor has been assigned.
func (c CourseRecord) HasInstructor() bool {
	return c.Instructor != ""
}

// ConflictsWith reports whether two sections share a day with overlapping
// meeting intervals. Unscheduled sections never conflict.
func (c CourseRecord) ConflictsWith(other CourseRecord) bool {
	if !c.Scheduled() || !other.Scheduled() {
		return false
	}
	shared := false
	for _, day := range c.Days {
		for _, otherDay := range other.Days {
			if day == otherDay {
				shared = true
			}
		}
	}
	if !shared {
		return false
	}
	return c.StartMinute < other.EndMinute && other.StartMinute < c.EndMinute
}

// FetchResult is a scraped batch with the count of records skipped because
// their markup could not be parsed.
type FetchResult struct {
	Courses []CourseRecord `json:"courses"`
	Skipped int            `json:"skipped"`
}
