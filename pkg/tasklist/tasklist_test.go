package tasklist_test

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/matt-steen/cal-tasks/pkg/task"
	"github.com/matt-steen/cal-tasks/pkg/tasklist"
	"github.com/rivo/tview"
	"github.com/stretchr/testify/assert"
)

type fakeSource map[civil.Date][]task.Task

func (f fakeSource) TasksOnDate(d civil.Date) []task.Task {
	return f[d]
}

var feb1 = civil.Date{Year: 2024, Month: time.February, Day: 1}

func TestBuildEmptyDay(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	list := tasklist.Build(feb1, fakeSource{})

	assert.True(list.Empty)
	assert.Empty(list.Items)
	assert.Equal(feb1, list.Date)
	assert.Equal("Tasks for Thursday, February 1, 2024", list.Heading)
}

func TestBuildKeepsOrderAndLabels(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	source := fakeSource{feb1: {
		{ID: "b", Title: "second", Priority: task.PriorityHigh, Completed: true},
		{ID: "a", Title: "first", Priority: task.PriorityLow, Description: "details"},
		{ID: "c", Title: "third", Priority: task.Priority("bogus")},
	}}

	list := tasklist.Build(feb1, source)

	assert.False(list.Empty)
	assert.Len(list.Items, 3)
	assert.Equal("b", list.Items[0].ID)
	assert.Equal("High", list.Items[0].PriorityLabel)
	assert.True(list.Items[0].Completed)
	assert.Equal("a", list.Items[1].ID)
	assert.Equal("Low", list.Items[1].PriorityLabel)
	assert.Equal("details", list.Items[1].Description)
	assert.Equal("Medium", list.Items[2].PriorityLabel)
	assert.Equal(task.PriorityMedium, list.Items[2].Priority)
}

func TestNewItemEscapesMarkup(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	raw := task.Task{ID: "x", Title: "[red]alert[-]", Description: `["region"]click me[""]`}

	item := tasklist.NewItem(raw)

	assert.Equal(tview.Escape(raw.Title), item.Title)
	assert.Equal(tview.Escape(raw.Description), item.Description)
	assert.NotContains(item.Title, "[red]")
	assert.Equal("x", item.ID)
}
