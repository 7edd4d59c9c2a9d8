package controller

import (
	"github.com/gdamore/tcell/v2"
	"github.com/matt-steen/cal-tasks/pkg/app"
	"github.com/rs/zerolog/log"
)

func (c *Controller) initEvents() {
	c.events = map[tcell.Key]KeyEvent{}

	c.initNavigationEvents(c.events)
	c.initTaskEvents(c.events)
	c.initExitEvent(c.events)
}

func (c *Controller) getExitAction() func(key *tcell.EventKey) *tcell.EventKey {
	return func(key *tcell.EventKey) *tcell.EventKey {
		log.Info().Msg("terminating application")

		c.app.Stop()

		return nil
	}
}

func (c *Controller) initExitEvent(events map[tcell.Key]KeyEvent) {
	events[KeyQ] = KeyEvent{
		Description: "Exit",
		Action:      c.getExitAction(),
	}
}

// getDispatchAction returns an action that dispatches the event built by newEvent.
func (c *Controller) getDispatchAction(newEvent func() app.Event) func(key *tcell.EventKey) *tcell.EventKey {
	return func(key *tcell.EventKey) *tcell.EventKey {
		c.dispatch(newEvent())

		return nil
	}
}

// getTaskAction is like getDispatchAction for events about the highlighted task; it does
// nothing when the day has no tasks.
func (c *Controller) getTaskAction(newEvent func(id string) app.Event) func(key *tcell.EventKey) *tcell.EventKey {
	return func(key *tcell.EventKey) *tcell.EventKey {
		id, ok := c.selectedTaskID()
		if !ok {
			log.Debug().Msg("no task selected")

			return nil
		}

		c.dispatch(newEvent(id))

		return nil
	}
}

func (c *Controller) getFocusAction() func(key *tcell.EventKey) *tcell.EventKey {
	return func(key *tcell.EventKey) *tcell.EventKey {
		if c.app.GetFocus() == c.calendarTable {
			c.app.SetFocus(c.dayTable)
		} else {
			c.app.SetFocus(c.calendarTable)
		}

		return nil
	}
}

func (c *Controller) initNavigationEvents(events map[tcell.Key]KeyEvent) {
	events[KeyLeftBracket] = KeyEvent{
		Description: "Previous month",
		Action:      c.getDispatchAction(func() app.Event { return app.PrevMonth{} }),
	}

	events[KeyRightBracket] = KeyEvent{
		Description: "Next month",
		Action:      c.getDispatchAction(func() app.Event { return app.NextMonth{} }),
	}

	events[KeyT] = KeyEvent{
		Description: "Today",
		Action:      c.getDispatchAction(func() app.Event { return app.GoToToday{} }),
	}

	events[tcell.KeyTab] = KeyEvent{
		Description: "Switch calendar/tasks",
		Action:      c.getFocusAction(),
	}
}

func (c *Controller) initTaskEvents(events map[tcell.Key]KeyEvent) {
	events[KeyA] = KeyEvent{
		Description: "Task: add",
		Action:      c.getDispatchAction(func() app.Event { return app.OpenNewTask{} }),
	}

	events[KeyE] = KeyEvent{
		Description: "Task: edit",
		Action:      c.getTaskAction(func(id string) app.Event { return app.OpenEditTask{ID: id} }),
	}

	events[KeyC] = KeyEvent{
		Description: "Task: toggle done",
		Action:      c.getTaskAction(func(id string) app.Event { return app.ToggleTask{ID: id} }),
	}

	events[KeyD] = KeyEvent{
		Description: "Task: delete",
		Action:      c.getTaskAction(func(id string) app.Event { return app.DeleteTask{ID: id} }),
	}
}
