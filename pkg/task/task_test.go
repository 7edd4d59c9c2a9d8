package task_test

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"cloud.google.com/go/civil"
	"github.com/matt-steen/cal-tasks/pkg/task"
	"github.com/stretchr/testify/assert"
)

func TestParsePriority(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	assert.Equal(task.PriorityLow, task.ParsePriority("low"))
	assert.Equal(task.PriorityHigh, task.ParsePriority(" High "))
	assert.Equal(task.PriorityMedium, task.ParsePriority("medium"))
	assert.Equal(task.PriorityMedium, task.ParsePriority(""))
	assert.Equal(task.PriorityMedium, task.ParsePriority("critical"))
}

func TestPriorityLabel(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	assert.Equal("Low", task.PriorityLow.Label())
	assert.Equal("Medium", task.PriorityMedium.Label())
	assert.Equal("High", task.PriorityHigh.Label())
	assert.Equal(task.PriorityMedium.Label(), task.Priority("someday").Label())
}

func TestBuildICS(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	now := time.Date(2024, time.February, 1, 12, 30, 0, 0, time.UTC)
	tasks := []task.Task{
		{
			ID:          "abc",
			Title:       "Pay rent; call landlord, too",
			Date:        civil.Date{Year: 2024, Month: time.February, Day: 29},
			Description: "line one\nline two",
			Priority:    task.PriorityHigh,
			Completed:   true,
		},
		{
			ID:       "def",
			Title:    "New year",
			Date:     civil.Date{Year: 2024, Month: time.December, Day: 31},
			Priority: task.Priority("weird"),
		},
	}

	ics := task.BuildICS(tasks, now)

	assert.True(strings.HasPrefix(ics, "BEGIN:VCALENDAR\r\n"))
	assert.True(strings.HasSuffix(ics, "END:VCALENDAR\r\n"))
	assert.Equal(2, strings.Count(ics, "BEGIN:VEVENT"))
	assert.Contains(ics, "UID:task-abc@cal-tasks\r\n")
	assert.Contains(ics, "DTSTAMP:20240201T123000Z\r\n")
	assert.Contains(ics, `SUMMARY:Pay rent\; call landlord\, too`)
	assert.Contains(ics, `DESCRIPTION:line one\nline two`)
	assert.Contains(ics, "DTSTART;VALUE=DATE:20240229\r\nDTEND;VALUE=DATE:20240301\r\n")
	assert.Contains(ics, "DTSTART;VALUE=DATE:20241231\r\nDTEND;VALUE=DATE:20250101\r\n")
	assert.Contains(ics, "PRIORITY:1\r\n")
	assert.Contains(ics, "PRIORITY:5\r\n")
	assert.Equal(1, strings.Count(ics, "X-CAL-TASKS-COMPLETED:TRUE"))
}

func TestBuildICSFoldsLongLines(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	title := strings.Repeat("é", 60) + strings.Repeat("x", 100)
	tasks := []task.Task{{
		ID:    "long",
		Title: title,
		Date:  civil.Date{Year: 2024, Month: time.March, Day: 3},
	}}

	ics := task.BuildICS(tasks, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC))

	assert.True(strings.HasSuffix(ics, "\r\n"))

	lines := strings.Split(strings.TrimSuffix(ics, "\r\n"), "\r\n")
	folded := 0

	for _, line := range lines {
		assert.LessOrEqual(len(line), 75)
		assert.True(utf8.ValidString(line))

		if strings.HasPrefix(line, " ") {
			folded++
		}
	}

	assert.Positive(folded)

	unfolded := strings.ReplaceAll(ics, "\r\n ", "")
	assert.Contains(unfolded, "SUMMARY:"+title+"\r\n")
}
