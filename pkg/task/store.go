package task

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Storage is the durable key-value backend the Store mirrors itself to.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Store owns the ordered task collection for the lifetime of the app. Every mutation is
// followed by a full overwrite of the collection under a single storage key; that write is
// the store's only durability mechanism.
type Store struct {
	storage Storage
	key     string
	tasks   []*Task
	now     func() time.Time
	newID   func() string
}

// NewStore creates an empty Store backed by storage under key. Call Load to rehydrate it.
func NewStore(storage Storage, key string) *Store {
	return &Store{
		storage: storage,
		key:     key,
		tasks:   []*Task{},
		now:     time.Now,
		newID:   newID,
	}
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return id.String()
}

// Load replaces the in-memory collection with the persisted one. Missing, unreadable or
// corrupt data leaves the store empty; the problem is only logged.
func (s *Store) Load(ctx context.Context) {
	s.tasks = []*Task{}

	value, found, err := s.storage.Get(ctx, s.key)
	if err != nil {
		log.Warn().Err(err).Str("key", s.key).Msg("could not read tasks; starting empty")

		return
	}

	if !found {
		log.Info().Str("key", s.key).Msg("no saved tasks")

		return
	}

	var loaded []*Task
	if err := json.Unmarshal(value, &loaded); err != nil {
		log.Warn().Err(err).Str("key", s.key).Msg("saved tasks are corrupt; starting empty")

		return
	}

	seen := make(map[string]bool, len(loaded))

	for i, t := range loaded {
		switch {
		case t == nil:
			continue
		case t.ID == "":
			log.Warn().Int("index", i).Msg("skipping saved task without an id")

			continue
		case seen[t.ID]:
			log.Warn().Int("index", i).Str("id", t.ID).Msg("skipping saved task with a duplicate id")

			continue
		case !t.Date.IsValid():
			log.Warn().Int("index", i).Str("id", t.ID).Msg("skipping saved task without a valid date")

			continue
		}

		seen[t.ID] = true
		s.tasks = append(s.tasks, t)
	}

	log.Info().Int("count", len(s.tasks)).Msg("loaded tasks")
}

// Save writes the whole collection to storage.
func (s *Store) Save(ctx context.Context) error {
	value, err := json.Marshal(s.tasks)
	if err != nil {
		return fmt.Errorf("error encoding tasks: %w", err)
	}

	if err := s.storage.Put(ctx, s.key, value); err != nil {
		return fmt.Errorf("error saving tasks: %w", err)
	}

	return nil
}

// Add validates fields and appends a new task. If only the save fails, the task is still
// added in memory and returned together with the error.
func (s *Store) Add(ctx context.Context, fields Fields) (Task, error) {
	fields, date, err := fields.parse()
	if err != nil {
		return Task{}, err
	}

	t := &Task{
		ID:          s.newID(),
		Title:       fields.Title,
		Date:        date,
		Description: fields.Description,
		Priority:    ParsePriority(fields.Priority),
		Completed:   false,
		CreatedAt:   s.now().UTC(),
	}

	s.tasks = append(s.tasks, t)

	log.Debug().Str("id", t.ID).Str("date", t.Date.String()).Msgf("added task '%s'", t.Title)

	return *t, s.Save(ctx)
}

// Update replaces the editable fields of the task with the given id, keeping its position,
// id, creation time and completion state. Unknown ids are ignored.
func (s *Store) Update(ctx context.Context, id string, fields Fields) error {
	fields, date, err := fields.parse()
	if err != nil {
		return err
	}

	t := s.find(id)
	if t == nil {
		log.Debug().Str("id", id).Msg("update of unknown task ignored")

		return nil
	}

	t.Title = fields.Title
	t.Date = date
	t.Description = fields.Description
	t.Priority = ParsePriority(fields.Priority)

	return s.Save(ctx)
}

// ToggleComplete flips the completed flag of the task with the given id, if any.
func (s *Store) ToggleComplete(ctx context.Context, id string) error {
	t := s.find(id)
	if t == nil {
		log.Debug().Str("id", id).Msg("toggle of unknown task ignored")

		return nil
	}

	t.Completed = !t.Completed

	return s.Save(ctx)
}

// Remove deletes the task with the given id, if any. Callers must confirm with the user first.
func (s *Store) Remove(ctx context.Context, id string) error {
	for i, t := range s.tasks {
		if t.ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)

			return s.Save(ctx)
		}
	}

	log.Debug().Str("id", id).Msg("removal of unknown task ignored")

	return nil
}

// Get returns a copy of the task with the given id.
func (s *Store) Get(id string) (Task, bool) {
	if t := s.find(id); t != nil {
		return *t, true
	}

	return Task{}, false
}

// All returns copies of every task in collection order.
func (s *Store) All() []Task {
	all := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		all = append(all, *t)
	}

	return all
}

// TasksOnDate returns copies of the tasks on date in collection order.
func (s *Store) TasksOnDate(date civil.Date) []Task {
	var found []Task

	for _, t := range s.tasks {
		if t.Date == date {
			found = append(found, *t)
		}
	}

	return found
}

// HasTaskOnDate reports whether at least one task is on date.
func (s *Store) HasTaskOnDate(date civil.Date) bool {
	for _, t := range s.tasks {
		if t.Date == date {
			return true
		}
	}

	return false
}

func (s *Store) find(id string) *Task {
	for _, t := range s.tasks {
		if t.ID == id {
			return t
		}
	}

	return nil
}
