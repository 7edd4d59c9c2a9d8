package controller

import (
	"github.com/gdamore/tcell/v2"
	"github.com/matt-steen/cal-tasks/pkg/task"
	"github.com/matt-steen/cal-tasks/pkg/tasklist"
	"github.com/rivo/tview"
)

const descTitleRatio = 2

// priorityColors keeps the priority column readable at a glance.
func priorityColors() map[task.Priority]tcell.Color {
	return map[task.Priority]tcell.Color{
		task.PriorityLow:    tcell.ColorGreen,
		task.PriorityMedium: tcell.ColorOrange,
		task.PriorityHigh:   tcell.ColorRed,
	}
}

// DayContent implements tview.TableContent, which tview.Table uses to update data.
type DayContent struct {
	tview.TableContentReadOnly
	list tasklist.DayList
}

// GetCell returns the cell at the given position or nil if no cell.
func (d *DayContent) GetCell(row, col int) *tview.TableCell {
	if row == 0 {
		switch col {
		case 0:
			return tview.NewTableCell("done").SetTextColor(tcell.ColorYellow).SetSelectable(false)
		case 1:
			return tview.NewTableCell("title").SetExpansion(1).
				SetTextColor(tcell.ColorYellow).SetSelectable(false)
		case 2:
			return tview.NewTableCell("priority").
				SetTextColor(tcell.ColorYellow).SetSelectable(false)
		case 3:
			return tview.NewTableCell("description").SetExpansion(descTitleRatio).
				SetTextColor(tcell.ColorYellow).SetSelectable(false)
		}

		return nil
	}

	if d.list.Empty {
		if row == 1 && col == 1 {
			return tview.NewTableCell(tasklist.EmptyMessage).SetTextColor(tcell.ColorGray).SetSelectable(false)
		}

		return nil
	}

	if row-1 >= len(d.list.Items) {
		return nil
	}

	item := d.list.Items[row-1]

	// item text is already escaped for tview markup
	switch col {
	case 0:
		mark := "[ ]"
		if item.Completed {
			mark = "[x]"
		}

		return tview.NewTableCell(tview.Escape(mark)).SetReference(item.ID)
	case 1:
		cell := tview.NewTableCell(item.Title).SetExpansion(1)
		if item.Completed {
			cell.SetTextColor(tcell.ColorGray)
		}

		return cell
	case 2:
		return tview.NewTableCell(item.PriorityLabel).SetTextColor(priorityColors()[item.Priority])
	case 3:
		return tview.NewTableCell(item.Description).SetExpansion(descTitleRatio)
	}

	return nil
}

// GetRowCount returns the number of rows in the table.
func (d *DayContent) GetRowCount() int {
	if d.list.Empty {
		return 2
	}

	return len(d.list.Items) + 1
}

// GetColumnCount returns the number of columns in the table.
func (d *DayContent) GetColumnCount() int {
	return 4
}
