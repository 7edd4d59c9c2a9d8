// Package app holds the application state and applies user events to it. Every event ends
// with a full re-render request; there is no incremental update of the view.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/matt-steen/cal-tasks/pkg/calendar"
	"github.com/matt-steen/cal-tasks/pkg/task"
	"github.com/matt-steen/cal-tasks/pkg/tasklist"
	"github.com/rs/zerolog/log"
)

// TaskStore is the part of task.Store the app needs.
type TaskStore interface {
	Add(ctx context.Context, fields task.Fields) (task.Task, error)
	Update(ctx context.Context, id string, fields task.Fields) error
	ToggleComplete(ctx context.Context, id string) error
	Remove(ctx context.Context, id string) error
	Get(id string) (task.Task, bool)
	TasksOnDate(date civil.Date) []task.Task
	HasTaskOnDate(date civil.Date) bool
}

// Renderer draws a complete View.
type Renderer interface {
	Render(view View)
}

// View is everything needed to draw the screen.
type View struct {
	Month    calendar.Month
	Grid     calendar.Grid
	Today    civil.Date
	Selected civil.Date
	Day      tasklist.DayList
	// Form is set while a task is being created or edited.
	Form *Form
	// ConfirmDelete is set while waiting for the user to confirm a deletion.
	ConfirmDelete *tasklist.Item
	// Status is a message about the last action, usually an error.
	Status string
}

// Form holds the task form contents. ID is empty for a new task.
type Form struct {
	ID          string
	Heading     string
	Title       string
	Date        string
	Description string
	Priority    string
}

func (f Form) fields() task.Fields {
	return task.Fields{
		Title:       f.Title,
		Date:        f.Date,
		Description: f.Description,
		Priority:    f.Priority,
	}
}

// App is the single owner of the displayed month, the selected day, and the task store.
type App struct {
	store    TaskStore
	renderer Renderer
	now      func() time.Time

	month         calendar.Month
	selected      civil.Date
	form          *Form
	pendingDelete string
	status        string
}

// New creates an App showing the current month with today selected.
func New(store TaskStore, renderer Renderer, now func() time.Time) *App {
	if now == nil {
		now = time.Now
	}

	today := civil.DateOf(now())

	return &App{
		store:    store,
		renderer: renderer,
		now:      now,
		month:    calendar.MonthOf(today),
		selected: today,
	}
}

// Month is the month currently displayed.
func (a *App) Month() calendar.Month {
	return a.month
}

// Selected is the day whose tasks are listed.
func (a *App) Selected() civil.Date {
	return a.selected
}

// Dispatch applies ev and re-renders. Only a rejected task submission returns an error;
// storage failures are logged and reported through View.Status.
func (a *App) Dispatch(ctx context.Context, ev Event) error {
	a.status = ""

	err := a.apply(ctx, ev)

	a.Render()

	return err
}

func (a *App) apply(ctx context.Context, ev Event) error {
	switch e := ev.(type) {
	case PrevMonth:
		a.month = a.month.Prev()
	case NextMonth:
		a.month = a.month.Next()
	case GoToToday:
		a.selected = civil.DateOf(a.now())
		a.month = calendar.MonthOf(a.selected)
	case SelectDay:
		a.selected = e.Date
	case OpenNewTask:
		a.form = &Form{
			Heading:  "New Task",
			Date:     a.selected.String(),
			Priority: string(task.PriorityMedium),
		}
	case OpenEditTask:
		a.openEdit(e.ID)
	case SubmitTask:
		return a.submit(ctx, e.Form)
	case CancelForm:
		a.form = nil
	case ToggleTask:
		a.report(a.store.ToggleComplete(ctx, e.ID))
	case DeleteTask:
		if _, ok := a.store.Get(e.ID); ok {
			a.pendingDelete = e.ID
		}
	case ConfirmDelete:
		a.confirmDelete(ctx, e.Confirmed)
	default:
		log.Warn().Msgf("unhandled event %T", ev)
	}

	return nil
}

func (a *App) openEdit(id string) {
	t, ok := a.store.Get(id)
	if !ok {
		log.Debug().Str("id", id).Msg("edit of unknown task ignored")

		return
	}

	a.form = &Form{
		ID:          t.ID,
		Heading:     "Edit Task",
		Title:       t.Title,
		Date:        t.Date.String(),
		Description: t.Description,
		Priority:    string(task.ParsePriority(string(t.Priority))),
	}
}

func (a *App) submit(ctx context.Context, form Form) error {
	var err error

	if form.ID == "" {
		_, err = a.store.Add(ctx, form.fields())
	} else {
		err = a.store.Update(ctx, form.ID, form.fields())
	}

	if errors.Is(err, task.ErrInvalidTask) {
		// keep the user's input so it can be corrected
		a.form = &form
		a.status = err.Error()

		return err
	}

	a.form = nil
	a.report(err)

	return nil
}

func (a *App) confirmDelete(ctx context.Context, confirmed bool) {
	id := a.pendingDelete
	a.pendingDelete = ""

	if id == "" || !confirmed {
		return
	}

	a.report(a.store.Remove(ctx, id))
}

// report records a non-fatal storage error for display.
func (a *App) report(err error) {
	if err == nil {
		return
	}

	log.Error().Err(err).Msg("storage error")

	a.status = fmt.Sprintf("changes could not be saved: %s", err)
}

// View builds the current view from scratch.
func (a *App) View() View {
	today := civil.DateOf(a.now())

	view := View{
		Month:    a.month,
		Grid:     calendar.Build(a.month, today, a.selected, a.store.HasTaskOnDate),
		Today:    today,
		Selected: a.selected,
		Day:      tasklist.Build(a.selected, a.store),
		Status:   a.status,
	}

	if a.form != nil {
		form := *a.form
		view.Form = &form
	}

	if a.pendingDelete != "" {
		if t, ok := a.store.Get(a.pendingDelete); ok {
			item := tasklist.NewItem(t)
			view.ConfirmDelete = &item
		}
	}

	return view
}

// Render asks the renderer to draw the current view.
func (a *App) Render() {
	if a.renderer != nil {
		a.renderer.Render(a.View())
	}
}
