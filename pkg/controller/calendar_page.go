package controller

import (
	"fmt"
	"sort"

	"cloud.google.com/go/civil"
	"github.com/gdamore/tcell/v2"
	"github.com/matt-steen/cal-tasks/pkg/app"
	"github.com/matt-steen/cal-tasks/pkg/calendar"
	"github.com/rivo/tview"
)

const (
	headerRows   = 4
	calendarRows = 7
	taskMarker   = "•"
)

func (c *Controller) getCalendarGrid() *tview.Grid {
	c.header = tview.NewTable().SetBorders(false).SetSelectable(false, false)

	c.calendarTable = tview.NewTable().SetBorders(false).SetSelectable(true, true)
	c.calendarTable.SetSelectedFunc(c.selectCell)

	c.dayHeading = tview.NewTextView().SetDynamicColors(true)
	c.dayHeading.SetScrollable(false)

	c.dayTable = tview.NewTable().SetBorders(false).SetSelectable(true, false)

	c.statusLine = tview.NewTextView().SetDynamicColors(true)
	c.statusLine.SetScrollable(false)

	grid := tview.NewGrid().SetRows(headerRows, calendarRows, 1, 0, 1).SetBorders(true)

	grid.AddItem(c.header, 0, 0, 1, 1, 0, 0, false)
	grid.AddItem(c.calendarTable, 1, 0, 1, 1, 0, 0, true)
	grid.AddItem(c.dayHeading, 2, 0, 1, 1, 0, 0, false)
	grid.AddItem(c.dayTable, 3, 0, 1, 1, 0, 0, false)
	grid.AddItem(c.statusLine, 4, 0, 1, 1, 0, 0, false)

	return grid
}

// renderHeader shows the month at the top, followed by the keyboard shortcuts in two columns:
// navigation on the left, task actions on the right. Both are sorted alphabetically.
func (c *Controller) renderHeader(view app.View) {
	c.header.Clear()

	c.header.SetCell(0, 0, tview.NewTableCell(fmt.Sprintf("[yellow]%s", view.Month)))

	shortcuts := map[int][]string{
		0: {"[orange]<Enter>[white] Select day"},
		1: {},
	}

	for key, event := range c.events {
		text := fmt.Sprintf("[orange]<%s>[white] %s", tcell.KeyNames[key], event.Description)

		if len(event.Description) >= 4 && event.Description[:4] == "Task" {
			shortcuts[1] = append(shortcuts[1], text)
		} else {
			shortcuts[0] = append(shortcuts[0], text)
		}
	}

	for col := 0; col < 2; col++ {
		sort.Strings(shortcuts[col])
	}

	// three columns of shortcuts per line fit the header
	for col := 0; col < 2; col++ {
		for i, text := range shortcuts[col] {
			c.header.SetCell(1+i/3, col*3+i%3, tview.NewTableCell(text).SetExpansion(1))
		}
	}
}

func (c *Controller) renderCalendar(view app.View) {
	c.calendarTable.Clear()

	for col, name := range calendar.WeekdayHeaders {
		c.calendarTable.SetCell(0, col, tview.NewTableCell(name).
			SetTextColor(tcell.ColorYellow).SetAlign(tview.AlignCenter).SetExpansion(1).SetSelectable(false))
	}

	for i, cell := range view.Grid.Cells {
		c.calendarTable.SetCell(1+i/7, i%7, newDayCell(cell))
	}

	if idx := view.Grid.Index(view.Selected); idx >= 0 {
		c.calendarTable.Select(1+idx/7, idx%7)
	}
}

func newDayCell(cell calendar.Cell) *tview.TableCell {
	text := fmt.Sprintf("%2d", cell.Day)
	if cell.HasTask {
		text += taskMarker
	} else {
		text += " "
	}

	tc := tview.NewTableCell(text).SetAlign(tview.AlignCenter).SetExpansion(1).SetReference(cell.Date)

	switch {
	case cell.Today:
		tc.SetTextColor(tcell.ColorYellow)
	case cell.OtherMonth:
		tc.SetTextColor(tcell.ColorGray)
	}

	if cell.Selected {
		tc.SetBackgroundColor(tcell.ColorDarkBlue)
	}

	return tc
}

// selectCell is called when Enter is pressed on a day of the calendar.
func (c *Controller) selectCell(row, col int) {
	cell := c.calendarTable.GetCell(row, col)
	if cell == nil {
		return
	}

	if date, ok := cell.GetReference().(civil.Date); ok {
		c.dispatch(app.SelectDay{Date: date})
	}
}

func (c *Controller) renderDay(view app.View) {
	c.dayHeading.SetText(fmt.Sprintf("[yellow]%s", view.Day.Heading))

	row, _ := c.dayTable.GetSelection()

	c.dayTable.SetContent(&DayContent{list: view.Day})

	switch {
	case view.Day.Empty:
		c.dayTable.Select(0, 0)
	case row < 1:
		c.dayTable.Select(1, 0)
	case row > len(view.Day.Items):
		c.dayTable.Select(len(view.Day.Items), 0)
	default:
		c.dayTable.Select(row, 0)
	}

	c.dayTable.SetFixed(1, 0)
}

// selectedTaskID returns the id of the highlighted task in the day list, if any.
func (c *Controller) selectedTaskID() (string, bool) {
	row, _ := c.dayTable.GetSelection()

	if idx := row - 1; idx >= 0 && idx < len(c.view.Day.Items) {
		return c.view.Day.Items[idx].ID, true
	}

	return "", false
}
