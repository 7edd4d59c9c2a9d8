package app

import "cloud.google.com/go/civil"

// Event is a user action handed to App.Dispatch. Events carry typed identifiers only.
type Event interface {
	event()
}

// PrevMonth shows the previous month.
type PrevMonth struct{}

// NextMonth shows the next month.
type NextMonth struct{}

// GoToToday shows the current month and selects today.
type GoToToday struct{}

// SelectDay selects a day. The displayed month does not change.
type SelectDay struct {
	Date civil.Date
}

// OpenNewTask opens an empty task form dated on the selected day.
type OpenNewTask struct{}

// OpenEditTask opens the form for an existing task.
type OpenEditTask struct {
	ID string
}

// SubmitTask saves the form, adding a task when Form.ID is empty.
type SubmitTask struct {
	Form Form
}

// CancelForm closes the form without saving.
type CancelForm struct{}

// ToggleTask flips a task between done and not done.
type ToggleTask struct {
	ID string
}

// DeleteTask asks for confirmation before removing a task.
type DeleteTask struct {
	ID string
}

// ConfirmDelete answers the pending DeleteTask.
type ConfirmDelete struct {
	Confirmed bool
}

func (PrevMonth) event()     {}
func (NextMonth) event()     {}
func (GoToToday) event()     {}
func (SelectDay) event()     {}
func (OpenNewTask) event()   {}
func (OpenEditTask) event()  {}
func (SubmitTask) event()    {}
func (CancelForm) event()    {}
func (ToggleTask) event()    {}
func (DeleteTask) event()    {}
func (ConfirmDelete) event() {}
