package controller

import (
	"fmt"

	"github.com/matt-steen/cal-tasks/pkg/app"
	"github.com/matt-steen/cal-tasks/pkg/task"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
)

func (c *Controller) getFormGrid() *tview.Grid {
	grid := tview.NewGrid().SetRows(3, 0).SetBorders(true)

	c.formHeader = tview.NewTextView().SetDynamicColors(true)
	c.formHeader.SetScrollable(false)

	c.initForm()

	grid.AddItem(c.formHeader, 0, 0, 1, 1, 0, 0, false)
	grid.AddItem(c.todoForm, 1, 0, 1, 1, 0, 0, true)

	return grid
}

func priorityLabels() []string {
	labels := []string{}
	for _, p := range task.Priorities() {
		labels = append(labels, p.Label())
	}

	return labels
}

func priorityIndex(p string) int {
	parsed := task.ParsePriority(p)

	for i, known := range task.Priorities() {
		if known == parsed {
			return i
		}
	}

	return 1
}

func (c *Controller) initForm() {
	titleMax := 50
	dateMax := len(task.DateLayout)
	descriptionMax := 500

	c.todoForm = tview.NewForm().
		AddInputField("Title", "", titleMax, nil, nil).
		AddInputField("Date", "", dateMax, nil, nil).
		AddInputField("Description", "", descriptionMax, nil, nil).
		AddDropDown("Priority", priorityLabels(), priorityIndex(""), nil)

	c.titleField, _ = c.todoForm.GetFormItemByLabel("Title").(*tview.InputField)
	c.dateField, _ = c.todoForm.GetFormItemByLabel("Date").(*tview.InputField)
	c.descField, _ = c.todoForm.GetFormItemByLabel("Description").(*tview.InputField)
	c.priorities, _ = c.todoForm.GetFormItemByLabel("Priority").(*tview.DropDown)

	c.todoForm.AddButton("Save", c.saveForm)
	c.todoForm.AddButton(cancelLabel, func() {
		c.dispatch(app.CancelForm{})
	})
}

func (c *Controller) saveForm() {
	idx, _ := c.priorities.GetCurrentOption()

	priority := task.PriorityMedium
	if idx >= 0 && idx < len(task.Priorities()) {
		priority = task.Priorities()[idx]
	}

	form := app.Form{
		ID:          c.formID,
		Heading:     c.formTitle,
		Title:       c.titleField.GetText(),
		Date:        c.dateField.GetText(),
		Description: c.descField.GetText(),
		Priority:    string(priority),
	}

	log.Debug().Msgf("saving task with title '%s'. id: '%s'", form.Title, form.ID)

	c.dispatch(app.SubmitTask{Form: form})
}

// showForm fills the form from the view and switches to it. The first field gets focus only
// when the form is opened, not when it is redrawn after a rejected save.
func (c *Controller) showForm(view app.View) {
	form := view.Form

	opening := !c.formVisible()

	c.formID = form.ID
	c.formTitle = form.Heading

	header := fmt.Sprintf("[yellow]%s\n[orange]<Esc>[white] Cancel", tview.Escape(form.Heading))
	if view.Status != "" {
		header += "\n" + statusText(view.Status)
	}

	c.formHeader.SetText(header)

	c.titleField.SetText(form.Title)
	c.dateField.SetText(form.Date)
	c.descField.SetText(form.Description)
	c.priorities.SetCurrentOption(priorityIndex(form.Priority))

	c.pages.SwitchToPage(pageForm)
	c.app.SetInputCapture(c.handleFormKeys)

	if opening {
		c.todoForm.SetFocus(0)
		c.app.SetFocus(c.todoForm)
	}
}

func (c *Controller) formVisible() bool {
	name, _ := c.pages.GetFrontPage()

	return name == pageForm
}

func (c *Controller) getConfirmModal() *tview.Modal {
	c.confirm = tview.NewModal().
		AddButtons([]string{deleteLabel, cancelLabel}).
		SetDoneFunc(c.confirmDone)

	return c.confirm
}

// confirmDone is called with the chosen button, or an empty label on Escape.
func (c *Controller) confirmDone(_ int, label string) {
	c.dispatch(app.ConfirmDelete{Confirmed: label == deleteLabel})
}

// showConfirm asks before deleting; nothing is removed unless Delete is chosen.
func (c *Controller) showConfirm(view app.View) {
	c.confirm.SetText(fmt.Sprintf("Delete task '%s'?", view.ConfirmDelete.Title))

	c.pages.SwitchToPage(pageCalendar)
	c.pages.ShowPage(pageConfirm)
	c.app.SetInputCapture(nil)
	c.app.SetFocus(c.confirm)
}
