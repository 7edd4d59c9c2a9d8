package task

import (
	"strings"
	"time"
	"unicode/utf8"
)

const icsDateLayout = "20060102"

// BuildICS renders tasks as an iCalendar document with one all-day event per task.
func BuildICS(tasks []Task, now time.Time) string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//cal-tasks//Task Export//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
	}

	stamp := now.UTC().Format("20060102T150405Z")

	for _, t := range tasks {
		start := t.Date
		end := t.Date.AddDays(1)

		lines = append(lines,
			"BEGIN:VEVENT",
			"UID:"+escapeICSText("task-"+t.ID+"@cal-tasks"),
			"DTSTAMP:"+stamp,
			"SUMMARY:"+escapeICSText(t.Title),
			"DTSTART;VALUE=DATE:"+start.In(time.UTC).Format(icsDateLayout),
			"DTEND;VALUE=DATE:"+end.In(time.UTC).Format(icsDateLayout),
			"PRIORITY:"+icsPriority(t.Priority),
		)

		if desc := strings.TrimSpace(t.Description); desc != "" {
			lines = append(lines, "DESCRIPTION:"+escapeICSText(desc))
		}

		if t.Completed {
			lines = append(lines, "X-CAL-TASKS-COMPLETED:TRUE")
		}

		lines = append(lines, "END:VEVENT")
	}

	lines = append(lines, "END:VCALENDAR")

	var b strings.Builder

	for _, line := range lines {
		b.WriteString(foldICSLine(line))
		b.WriteString("\r\n")
	}

	return b.String()
}

// icsLineOctets is the longest content line RFC 5545 allows, excluding the line break.
const icsLineOctets = 75

// foldICSLine splits line into content lines of at most icsLineOctets octets, each
// continuation starting with a space. Multi-byte runes are never split.
func foldICSLine(line string) string {
	if len(line) <= icsLineOctets {
		return line
	}

	var b strings.Builder

	width := 0

	for _, r := range line {
		size := utf8.RuneLen(r)

		if width+size > icsLineOctets {
			b.WriteString("\r\n ")
			// the leading space counts toward the continuation line
			width = 1
		}

		b.WriteRune(r)
		width += size
	}

	return b.String()
}

// icsPriority maps to RFC 5545 priorities: 1 is highest, 9 lowest.
func icsPriority(p Priority) string {
	switch ParsePriority(string(p)) {
	case PriorityHigh:
		return "1"
	case PriorityLow:
		return "9"
	default:
		return "5"
	}
}

func escapeICSText(s string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		";", `\;`,
		",", `\,`,
		"\r\n", `\n`,
		"\n", `\n`,
	)

	return replacer.Replace(s)
}
