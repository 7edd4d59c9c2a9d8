// Package calendar lays out a month as the fixed six-week grid shown by the app.
package calendar

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

// GridSize is the number of cells in a grid: six weeks of seven days, whatever the month.
const GridSize = 42

// WeekdayHeaders are the column headers; weeks start on Sunday.
var WeekdayHeaders = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Month identifies a calendar month. Month is 1-based, as in time.Month.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing d.
func MonthOf(d civil.Date) Month {
	return Month{Year: d.Year, Month: d.Month}
}

func (m Month) at(day int) time.Time {
	return time.Date(m.Year, m.Month, day, 0, 0, 0, 0, time.UTC)
}

// First returns the first day of the month.
func (m Month) First() civil.Date {
	return civil.DateOf(m.at(1))
}

// Days returns the number of days in the month.
func (m Month) Days() int {
	// day 0 of the following month normalizes to the last day of this one
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Prev returns the month before m, crossing into the previous year from January.
func (m Month) Prev() Month {
	t := m.at(1).AddDate(0, -1, 0)

	return Month{Year: t.Year(), Month: t.Month()}
}

// Next returns the month after m, crossing into the next year from December.
func (m Month) Next() Month {
	t := m.at(1).AddDate(0, 1, 0)

	return Month{Year: t.Year(), Month: t.Month()}
}

// Contains reports whether d falls within the month.
func (m Month) Contains(d civil.Date) bool {
	return d.Year == m.Year && d.Month == m.Month
}

func (m Month) String() string {
	return fmt.Sprintf("%s %d", m.Month, m.Year)
}

// Cell describes one day of the grid.
type Cell struct {
	Date civil.Date
	// Day is the day-of-month number shown in the cell.
	Day int
	// OtherMonth marks padding days from the previous or next month.
	OtherMonth bool
	Today      bool
	Selected   bool
	HasTask    bool
}

// Grid is the full layout of a month, row by row from the top-left cell.
type Grid struct {
	Month Month
	Cells [GridSize]Cell
}

// Row returns the seven cells of week w (0-5).
func (g Grid) Row(w int) []Cell {
	return g.Cells[w*7 : w*7+7]
}

// Index returns the position of d in the grid, or -1 if d is not shown.
func (g Grid) Index(d civil.Date) int {
	for i, c := range g.Cells {
		if c.Date == d {
			return i
		}
	}

	return -1
}

// Build lays out month m: the tail of the previous month up to the weekday of the 1st, every
// day of m, then days of the next month until the grid is full.
func Build(m Month, today, selected civil.Date, hasTask func(civil.Date) bool) Grid {
	grid := Grid{Month: m}

	first := m.First()
	lead := int(m.at(1).Weekday())

	// the first cell is lead days before the 1st; every later cell is the next calendar day
	start := first.AddDays(-lead)

	for i := range grid.Cells {
		d := start.AddDays(i)

		grid.Cells[i] = Cell{
			Date:       d,
			Day:        d.Day,
			OtherMonth: !m.Contains(d),
			Today:      d == today,
			Selected:   d == selected,
			HasTask:    hasTask != nil && hasTask(d),
		}
	}

	return grid
}
