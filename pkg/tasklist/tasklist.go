// Package tasklist prepares the task list shown for the selected day.
package tasklist

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/matt-steen/cal-tasks/pkg/task"
	"github.com/rivo/tview"
)

// EmptyMessage is shown in place of the list when the day has no tasks.
const EmptyMessage = "No tasks for this day"

// Source provides the tasks for a date in collection order.
type Source interface {
	TasksOnDate(date civil.Date) []task.Task
}

// Item is a task ready for display. Title and Description are escaped for tview markup.
type Item struct {
	ID            string
	Title         string
	Description   string
	Priority      task.Priority
	PriorityLabel string
	Completed     bool
}

// DayList is the content of the task pane for one day.
type DayList struct {
	Date    civil.Date
	Heading string
	Items   []Item
	// Empty is set instead of leaving Items empty so the view can show EmptyMessage.
	Empty bool
}

// Build returns the task list for day.
func Build(day civil.Date, source Source) DayList {
	list := DayList{
		Date:    day,
		Heading: Heading(day),
	}

	for _, t := range source.TasksOnDate(day) {
		list.Items = append(list.Items, NewItem(t))
	}

	list.Empty = len(list.Items) == 0

	return list
}

// NewItem converts a task for display.
func NewItem(t task.Task) Item {
	return Item{
		ID:            t.ID,
		Title:         tview.Escape(t.Title),
		Description:   tview.Escape(t.Description),
		Priority:      task.ParsePriority(string(t.Priority)),
		PriorityLabel: t.Priority.Label(),
		Completed:     t.Completed,
	}
}

// Heading is the title of the task pane, e.g. "Tasks for Thursday, February 1, 2024".
func Heading(day civil.Date) string {
	t := day.In(time.UTC)

	return fmt.Sprintf("Tasks for %s, %s %d, %d", t.Weekday(), t.Month(), t.Day(), t.Year())
}
