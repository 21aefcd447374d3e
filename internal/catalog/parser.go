package catalog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

var (
	titlePattern      = regexp.MustCompile(`\b(Dr\.|Prof\.|Mr\.|Ms\.|Mrs\.)\s*`)
	emailPattern      = regexp.MustCompile(`\s*\([^)]*@[^)]*\)`)
	markerPattern     = regexp.MustCompile(`\s*\([A-Z]\)`)
	seatsPairPattern  = regexp.MustCompile(`(\d+)\s*(?:/|of)\s*(\d+)`)
	seatsAvailPattern = regexp.MustCompile(`(?i)Seats\s+Avail[^:]*:\s*(\d+)`)
	creditsPattern    = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s+Credits?`)
	timePattern       = regexp.MustCompile(`(?i)(\d{1,2}):(\d{2})\s*(am|pm)\s*-\s*(\d{1,2}):(\d{2})\s*(am|pm)`)
)

// Banner day letters: Monday through Sunday with R for Thursday.
var dayLetters = map[byte]struct{}{
	'M': {}, 'T': {}, 'W': {}, 'R': {}, 'F': {}, 'S': {}, 'U': {},
}

var onlineKeywords = []string{"ONLINE", "WEB", "INTERNET", "VIRTUAL"}

const placeholder = "TBA"

// ParseSchedule parses a Banner dynamic schedule page. Courses appear as
// consecutive table pairs with class "datadisplaytable": a captioned header
// table followed by a meeting-detail table. A malformed pair is skipped and
// counted without aborting the rest of the page.
func ParseSchedule(page, term string) (FetchResult, error) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return FetchResult{}, fmt.Errorf("parse schedule HTML: %w", err)
	}

	tables := findAll(doc, "table", "datadisplaytable")

	var result FetchResult
	for i := 0; i < len(tables)-1; {
		caption := captionText(tables[i])
		if caption == "" {
			i++
			continue
		}

		course, err := parseCourse(caption, tables[i], tables[i+1], term)
		if err != nil {
			result.Skipped++
			i++
			continue
		}
		result.Courses = append(result.Courses, course)
		i += 2
	}
	return result, nil
}

func parseCourse(caption string, header, detail *html.Node, term string) (CourseRecord, error) {
	// Caption format: "Course Title - CRN - SUBJ NUM - Section"
	parts := strings.Split(caption, " - ")
	if len(parts) < 4 {
		return CourseRecord{}, fmt.Errorf("unexpected caption %q", caption)
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	codeParts := strings.Fields(parts[len(parts)-2])
	if len(codeParts) < 2 {
		return CourseRecord{}, fmt.Errorf("unexpected course code %q", parts[len(parts)-2])
	}

	course := CourseRecord{
		Term:        term,
		Title:       strings.Join(parts[:len(parts)-3], " - "),
		CRN:         parts[len(parts)-3],
		Subject:     codeParts[0],
		Number:      codeParts[1],
		Section:     parts[len(parts)-1],
		StartMinute: NoMeetingTime,
		EndMinute:   NoMeetingTime,
		Modality:    ModalityInPerson,
	}
	if course.CRN == "" || !isNumeric(course.CRN) {
		return CourseRecord{}, fmt.Errorf("unexpected CRN %q", course.CRN)
	}

	parseMeetingRows(&course, detail)

	combined := textContent(header) + " " + textContent(detail)
	course.SeatsAvailable, course.SeatsTotal = extractSeats(combined)
	course.Credits = extractCredits(combined)

	return course, nil
}

// parseMeetingRows fills meeting fields from the detail table, keeping the
// first concrete value for each and mapping TBA placeholders to sentinels.
func parseMeetingRows(course *CourseRecord, detail *html.Node) {
	rows := findAll(detail, "tr", "")
	for i, row := range rows {
		if i == 0 {
			// header row
			continue
		}
		cells := findAll(row, "td", "")
		if len(cells) < 7 {
			continue
		}

		// Column order: Type, Time, Days, Where, Date Range, Schedule Type, Instructors
		meetingTime := collapse(textContent(cells[1]))
		meetingDays := collapse(textContent(cells[2]))
		location := collapse(textContent(cells[3]))
		scheduleType := collapse(textContent(cells[5]))
		instructors := collapse(textContent(cells[6]))

		if course.StartMinute == NoMeetingTime && meetingTime != "" && meetingTime != placeholder {
			if start, end, ok := parseTimeRange(meetingTime); ok {
				course.StartMinute = start
				course.EndMinute = end
			}
		}
		if len(course.Days) == 0 && meetingDays != "" && meetingDays != placeholder {
			course.Days = parseDays(meetingDays)
		}
		if course.Location == "" && location != "" && location != placeholder {
			course.Location = location
		}
		if course.Instructor == "" && instructors != "" && instructors != placeholder {
			course.Instructor = CleanInstructorName(instructors)
		}
		course.Modality = classifyModality(course.Modality, location, scheduleType)
	}
}

func classifyModality(current Modality, location, scheduleType string) Modality {
	combined := strings.ToUpper(location + " " + scheduleType)
	if strings.Contains(combined, "HYBRID") {
		return ModalityHybrid
	}
	for _, keyword := range onlineKeywords {
		if strings.Contains(combined, keyword) {
			if current == ModalityInPerson {
				return ModalityOnline
			}
			return current
		}
	}
	return current
}

// parseDays splits a Banner day string such as "MWF" or "TR" into letters.
func parseDays(days string) []string {
	var parsed []string
	for i := 0; i < len(days); i++ {
		if _, ok := dayLetters[days[i]]; ok {
			parsed = append(parsed, string(days[i]))
		}
	}
	return parsed
}

// parseTimeRange converts "10:00 am - 10:50 am" into minutes since midnight.
func parseTimeRange(value string) (start, end int, ok bool) {
	match := timePattern.FindStringSubmatch(value)
	if match == nil {
		return 0, 0, false
	}
	start = toMinutes(match[1], match[2], match[3])
	end = toMinutes(match[4], match[5], match[6])
	if start < 0 || end < 0 || end <= start {
		return 0, 0, false
	}
	return start, end, true
}

func toMinutes(hourStr, minuteStr, meridiem string) int {
	hour, err := strconv.Atoi(hourStr)
	if err != nil || hour < 1 || hour > 12 {
		return -1
	}
	minute, err := strconv.Atoi(minuteStr)
	if err != nil || minute > 59 {
		return -1
	}
	if hour == 12 {
		hour = 0
	}
	if strings.EqualFold(meridiem, "pm") {
		hour += 12
	}
	return hour*60 + minute
}

// CleanInstructorName strips honorifics, embedded email addresses, primary
// instructor markers, and redundant whitespace from a scraped name.
func CleanInstructorName(name string) string {
	name = titlePattern.ReplaceAllString(name, "")
	name = emailPattern.ReplaceAllString(name, "")
	name = markerPattern.ReplaceAllString(name, "")
	return collapse(name)
}

func extractSeats(text string) (available, total int) {
	if match := seatsPairPattern.FindStringSubmatch(text); match != nil {
		available, _ = strconv.Atoi(match[1])
		total, _ = strconv.Atoi(match[2])
		return available, total
	}
	if match := seatsAvailPattern.FindStringSubmatch(text); match != nil {
		available, _ = strconv.Atoi(match[1])
		return available, 0
	}
	return 0, 0
}

func extractCredits(text string) int {
	match := creditsPattern.FindStringSubmatch(text)
	if match == nil {
		return 0
	}
	credits, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0
	}
	return int(credits)
}

func isNumeric(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}

// findAll returns descendant elements matching the tag and, when class is
// non-empty, carrying that CSS class.
func findAll(node *html.Node, tag, class string) []*html.Node {
	var matches []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag && (class == "" || hasClass(n, class)) {
			matches = append(matches, n)
			if tag == "table" {
				// nested tables are handled by their own pair scan
				return
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(node)
	return matches
}

func hasClass(node *html.Node, class string) bool {
	for _, attr := range node.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

func captionText(table *html.Node) string {
	for _, caption := range findAll(table, "caption", "captiontext") {
		return collapse(textContent(caption))
	}
	return ""
}

func textContent(node *html.Node) string {
	var builder strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			builder.WriteString(n.Data)
			builder.WriteByte(' ')
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(node)
	return builder.String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
