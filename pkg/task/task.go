package task

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/go-playground/validator/v10"
)

// DateLayout is the layout used for task dates everywhere they appear as text.
const DateLayout = "2006-01-02"

// ErrInvalidTask is returned when submitted fields are missing a title or a valid date.
var ErrInvalidTask = errors.New("invalid task")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Priority ranks a task. Values outside the known set are treated as PriorityMedium.
type Priority string

// These constants refer to the priorities supported by the app.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists the known priorities in display order.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// ParsePriority maps s to a known priority, defaulting to PriorityMedium.
func ParsePriority(s string) Priority {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p
	default:
		return PriorityMedium
	}
}

// Label is the display string for the priority.
func (p Priority) Label() string {
	switch ParsePriority(string(p)) {
	case PriorityLow:
		return "Low"
	case PriorityHigh:
		return "High"
	default:
		return "Medium"
	}
}

// Task is a piece of work attached to one calendar date.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Date        civil.Date `json:"date"`
	Description string     `json:"description"`
	Priority    Priority   `json:"priority"`
	Completed   bool       `json:"completed"`
	// CreatedAt is set once when the task is added and never changes afterwards.
	CreatedAt time.Time `json:"createdAt"`
}

// Fields holds the user-editable part of a task as submitted by the task form.
type Fields struct {
	Title       string `validate:"required"`
	Date        string `validate:"required,datetime=2006-01-02"`
	Description string
	Priority    string
}

// parse validates the fields and converts them into typed values.
func (f Fields) parse() (Fields, civil.Date, error) {
	f.Title = strings.TrimSpace(f.Title)
	f.Date = strings.TrimSpace(f.Date)

	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return f, civil.Date{}, fmt.Errorf("%w: %s", ErrInvalidTask, err)
		}

		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fieldMessage(fe))
		}

		return f, civil.Date{}, fmt.Errorf("%w: %s", ErrInvalidTask, strings.Join(msgs, ", "))
	}

	date, err := civil.ParseDate(f.Date)
	if err != nil {
		return f, civil.Date{}, fmt.Errorf("%w: date must be a date in YYYY-MM-DD format", ErrInvalidTask)
	}

	return f, date, nil
}

func fieldMessage(fe validator.FieldError) string {
	name := strings.ToLower(fe.Field())

	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "datetime":
		return name + " must be a date in YYYY-MM-DD format"
	default:
		return name + " is invalid"
	}
}
