package controller

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matt-steen/cal-tasks/pkg/app"
	"github.com/rivo/tview"
	"github.com/rs/zerolog/log"
)

const (
	pageCalendar = "calendar"
	pageForm     = "form"
	pageConfirm  = "confirm"

	deleteLabel = "Delete"
	cancelLabel = "Cancel"
)

// Controller mediates between the app state and the terminal view. It implements
// app.Renderer: every dispatched event redraws the whole screen from the new View.
type Controller struct {
	ctx   context.Context
	app   *tview.Application
	state *app.App
	pages *tview.Pages

	header        *tview.Table
	calendarTable *tview.Table
	dayHeading    *tview.TextView
	dayTable      *tview.Table
	statusLine    *tview.TextView

	formHeader *tview.TextView
	todoForm   *tview.Form
	titleField *tview.InputField
	dateField  *tview.InputField
	descField  *tview.InputField
	priorities *tview.DropDown
	formID     string
	formTitle  string

	confirm *tview.Modal

	view   app.View
	events map[tcell.Key]KeyEvent
}

// KeyEvent defines an event associated with a keypress.
type KeyEvent struct {
	Description string
	Action      func(*tcell.EventKey) *tcell.EventKey
}

// NewController creates a new Controller to run the app on store.
func NewController(ctx context.Context, store app.TaskStore) (*Controller, error) {
	c := Controller{
		ctx: ctx,
		app: tview.NewApplication(),
	}

	c.state = app.New(store, &c, time.Now)

	initKeys()
	c.initEvents()

	c.pages = tview.NewPages()
	c.pages.AddPage(pageCalendar, c.getCalendarGrid(), true, true)
	c.pages.AddPage(pageForm, c.getFormGrid(), true, false)
	c.pages.AddPage(pageConfirm, c.getConfirmModal(), false, false)

	c.app.SetRoot(c.pages, true)

	return &c, nil
}

// Go renders the initial view and runs the app until the user quits.
func (c *Controller) Go() error {
	c.state.Render()

	return c.app.Run()
}

// Render redraws every widget from view.
func (c *Controller) Render(view app.View) {
	c.view = view

	c.renderHeader(view)
	c.renderCalendar(view)
	c.renderDay(view)
	c.statusLine.SetText(statusText(view.Status))

	switch {
	case view.Form != nil:
		c.showForm(view)
	case view.ConfirmDelete != nil:
		c.showConfirm(view)
	default:
		c.showCalendar()
	}
}

// dispatch hands an event to the app state; errors are already part of the rendered view.
func (c *Controller) dispatch(ev app.Event) {
	if err := c.state.Dispatch(c.ctx, ev); err != nil {
		log.Debug().Err(err).Msgf("event %T rejected", ev)
	}
}

func (c *Controller) keyboard(evt *tcell.EventKey) *tcell.EventKey {
	key := AsKey(evt)
	if k, ok := c.events[key]; ok {
		return k.Action(evt)
	}

	return evt
}

func (c *Controller) handleFormKeys(evt *tcell.EventKey) *tcell.EventKey {
	if evt.Key() == tcell.KeyEscape {
		c.dispatch(app.CancelForm{})

		return nil
	}

	return evt
}

func (c *Controller) showCalendar() {
	c.pages.SwitchToPage(pageCalendar)
	c.app.SetInputCapture(c.keyboard)

	if focus := c.app.GetFocus(); focus != c.calendarTable && focus != c.dayTable {
		c.app.SetFocus(c.calendarTable)
	}
}

func statusText(text string) string {
	if text == "" {
		return "[gray]ready"
	}

	return "[red]" + tview.Escape(text)
}
