package task

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/matt-steen/cal-tasks/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "calendarTasks"

type memStorage struct {
	values map[string][]byte
	getErr error
	putErr error
	puts   int
}

func newMemStorage() *memStorage {
	return &memStorage{values: map[string][]byte{}}
}

func (m *memStorage) Get(_ context.Context, key string) ([]byte, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}

	v, ok := m.values[key]

	return v, ok, nil
}

func (m *memStorage) Put(_ context.Context, key string, value []byte) error {
	if m.putErr != nil {
		return m.putErr
	}

	m.puts++
	m.values[key] = value

	return nil
}

func newTestStore(storage Storage) *Store {
	s := NewStore(storage, testKey)

	clock := time.Date(2024, time.February, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Minute)

		return clock
	}

	n := 0
	s.newID = func() string {
		n++

		return fmt.Sprintf("id-%d", n)
	}

	return s
}

func add(t *testing.T, s *Store, title, date string) Task {
	t.Helper()

	task, err := s.Add(context.Background(), Fields{Title: title, Date: date})
	require.NoError(t, err)

	return task
}

func TestAddAssignsIDAndCreatedAt(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	storage := newMemStorage()
	s := newTestStore(storage)

	task, err := s.Add(context.Background(), Fields{
		Title:       "  write report  ",
		Date:        "2024-02-29",
		Description: "quarterly",
		Priority:    "high",
	})
	assert.Nil(err)

	assert.Equal("id-1", task.ID)
	assert.Equal("write report", task.Title)
	assert.Equal(civil.Date{Year: 2024, Month: time.February, Day: 29}, task.Date)
	assert.Equal(PriorityHigh, task.Priority)
	assert.False(task.Completed)
	assert.False(task.CreatedAt.IsZero())
	assert.Equal(1, storage.puts)
	assert.Len(s.All(), 1)
}

func TestAddDefaultsPriority(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	s := newTestStore(newMemStorage())

	for _, p := range []string{"", "urgent", "MEDIUM"} {
		task, err := s.Add(context.Background(), Fields{Title: "x", Date: "2024-01-01", Priority: p})
		assert.Nil(err)
		assert.Equal(PriorityMedium, task.Priority)
	}
}

func TestAddRejectsMissingFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		fields Fields
		msg    string
	}{
		{"no title", Fields{Date: "2024-02-01"}, "title is required"},
		{"blank title", Fields{Title: "   ", Date: "2024-02-01"}, "title is required"},
		{"no date", Fields{Title: "x"}, "date is required"},
		{"bad date", Fields{Title: "x", Date: "2023-02-29"}, "date must be a date in YYYY-MM-DD format"},
		{"wrong layout", Fields{Title: "x", Date: "01/02/2024"}, "date must be a date in YYYY-MM-DD format"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert := assert.New(t)
			storage := newMemStorage()
			s := newTestStore(storage)

			_, err := s.Add(context.Background(), tt.fields)
			assert.ErrorIs(err, ErrInvalidTask)
			assert.Contains(err.Error(), tt.msg)
			assert.Empty(s.All())
			assert.Equal(0, storage.puts)
		})
	}
}

func TestUpdatePreservesIdentity(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	s := newTestStore(newMemStorage())

	add(t, s, "first", "2024-02-01")
	original := add(t, s, "second", "2024-02-01")
	add(t, s, "third", "2024-02-02")

	require.NoError(t, s.ToggleComplete(context.Background(), original.ID))

	err := s.Update(context.Background(), original.ID, Fields{
		Title:       "second, revised",
		Date:        "2024-03-05",
		Description: "moved",
		Priority:    "low",
	})
	assert.Nil(err)

	updated, ok := s.Get(original.ID)
	assert.True(ok)
	assert.Equal(original.ID, updated.ID)
	assert.Equal(original.CreatedAt, updated.CreatedAt)
	assert.True(updated.Completed)
	assert.Equal("second, revised", updated.Title)
	assert.Equal(civil.Date{Year: 2024, Month: time.March, Day: 5}, updated.Date)
	assert.Equal("moved", updated.Description)
	assert.Equal(PriorityLow, updated.Priority)

	// position in the collection is unchanged
	assert.Equal(original.ID, s.All()[1].ID)
}

func TestUpdateUnknownIDIsNoop(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	storage := newMemStorage()
	s := newTestStore(storage)

	task := add(t, s, "first", "2024-02-01")
	puts := storage.puts

	err := s.Update(context.Background(), "missing", Fields{Title: "x", Date: "2024-02-01"})
	assert.Nil(err)
	assert.Equal(puts, storage.puts)
	assert.Equal([]Task{task}, s.All())
}

func TestUpdateRejectsInvalidFields(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	s := newTestStore(newMemStorage())

	task := add(t, s, "first", "2024-02-01")

	err := s.Update(context.Background(), task.ID, Fields{Title: "", Date: "2024-02-01"})
	assert.ErrorIs(err, ErrInvalidTask)

	unchanged, _ := s.Get(task.ID)
	assert.Equal(task, unchanged)
}

func TestToggleComplete(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	s := newTestStore(newMemStorage())

	task := add(t, s, "first", "2024-02-01")

	assert.Nil(s.ToggleComplete(context.Background(), task.ID))
	got, _ := s.Get(task.ID)
	assert.True(got.Completed)

	assert.Nil(s.ToggleComplete(context.Background(), task.ID))
	got, _ = s.Get(task.ID)
	assert.False(got.Completed)

	assert.Nil(s.ToggleComplete(context.Background(), "missing"))
}

func TestRemove(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	s := newTestStore(newMemStorage())

	a := add(t, s, "a", "2024-02-01")
	b := add(t, s, "b", "2024-02-01")
	c := add(t, s, "c", "2024-02-01")

	assert.Nil(s.Remove(context.Background(), b.ID))
	assert.Equal([]Task{a, c}, s.All())
}

func TestRemoveUnknownIDLeavesCollectionUnchanged(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	storage := newMemStorage()
	s := newTestStore(storage)

	a := add(t, s, "a", "2024-02-01")
	puts := storage.puts

	assert.NotPanics(func() {
		assert.Nil(s.Remove(context.Background(), "missing"))
	})
	assert.Equal([]Task{a}, s.All())
	assert.Equal(puts, storage.puts)
}

func TestTasksOnDate(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	s := newTestStore(newMemStorage())

	a := add(t, s, "a", "2024-02-01")
	add(t, s, "b", "2024-02-02")
	c := add(t, s, "c", "2024-02-01")

	feb1 := civil.Date{Year: 2024, Month: time.February, Day: 1}
	feb2 := civil.Date{Year: 2024, Month: time.February, Day: 2}
	feb3 := civil.Date{Year: 2024, Month: time.February, Day: 3}

	assert.Equal([]Task{a, c}, s.TasksOnDate(feb1))
	assert.Len(s.TasksOnDate(feb2), 1)
	assert.Empty(s.TasksOnDate(feb3))

	for _, d := range []civil.Date{feb1, feb2, feb3} {
		assert.Equal(len(s.TasksOnDate(d)) > 0, s.HasTaskOnDate(d), d.String())
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	storage := newMemStorage()
	s := newTestStore(storage)

	add(t, s, "a", "2024-02-01")
	b := add(t, s, "b", "2024-12-31")
	add(t, s, "c", "2023-01-01")
	require.NoError(t, s.ToggleComplete(context.Background(), b.ID))
	require.NoError(t, s.Save(context.Background()))

	reloaded := NewStore(storage, testKey)
	reloaded.Load(context.Background())

	assert.Equal(s.All(), reloaded.All())
}

func TestSaveLoadRoundTripSqlite(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)

	database, err := db.NewDatabase(context.Background(), filepath.Join(t.TempDir(), "tasks.sqlite"))
	require.NoError(t, err)

	defer database.Close()

	s := NewStore(database, testKey)
	s.Load(context.Background())
	assert.Empty(s.All())

	add(t, s, "a", "2024-02-01")
	add(t, s, "b", "2024-02-29")

	reloaded := NewStore(database, testKey)
	reloaded.Load(context.Background())

	assert.Equal(s.All(), reloaded.All())
}

func TestLoadFailsSoft(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		storage *memStorage
	}{
		{"missing", newMemStorage()},
		{"corrupt", &memStorage{values: map[string][]byte{testKey: []byte(`{not json`)}}},
		{"wrong shape", &memStorage{values: map[string][]byte{testKey: []byte(`{"id":"a"}`)}}},
		{"bad date", &memStorage{values: map[string][]byte{testKey: []byte(`[{"id":"a","date":"2024-02-30"}]`)}}},
		{"null", &memStorage{values: map[string][]byte{testKey: []byte(`null`)}}},
		{"read error", &memStorage{values: map[string][]byte{}, getErr: errors.New("disk on fire")}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert := assert.New(t)
			s := NewStore(tt.storage, testKey)

			assert.NotPanics(func() { s.Load(context.Background()) })
			assert.NotNil(s.All())
			assert.Empty(s.All())
		})
	}
}

func TestLoadSkipsInvalidRecords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{"zero date", `[{"id":"a","title":"t"},{"id":"b","title":"t","date":"2024-02-01"}]`, []string{"b"}},
		{"empty id", `[{"title":"t","date":"2024-02-02"},{"id":"b","title":"t","date":"2024-02-01"}]`, []string{"b"}},
		{
			"duplicate id",
			`[{"id":"dup","title":"first","date":"2024-02-01"},{"id":"b","title":"t","date":"2024-02-03"},` +
				`{"id":"dup","title":"second","date":"2024-02-01"}]`,
			[]string{"dup", "b"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert := assert.New(t)
			s := NewStore(&memStorage{values: map[string][]byte{testKey: []byte(tt.value)}}, testKey)
			s.Load(context.Background())

			var ids []string
			for _, task := range s.All() {
				assert.True(task.Date.IsValid())
				ids = append(ids, task.ID)
			}

			assert.Equal(tt.want, ids)
		})
	}
}

func TestRemoveAfterLoadingDuplicates(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	storage := &memStorage{values: map[string][]byte{
		testKey: []byte(`[{"id":"dup","title":"first","date":"2024-02-01"},` +
			`{"id":"dup","title":"second","date":"2024-02-01"}]`),
	}}

	s := NewStore(storage, testKey)
	s.Load(context.Background())

	got, ok := s.Get("dup")
	assert.True(ok)
	assert.Equal("first", got.Title)

	assert.Nil(s.Remove(context.Background(), "dup"))
	assert.Empty(s.All())
	assert.False(s.HasTaskOnDate(civil.Date{Year: 2024, Month: time.February, Day: 1}))
}

func TestLoadKeepsUnknownPriority(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	storage := &memStorage{values: map[string][]byte{
		testKey: []byte(`[{"id":"a","title":"t","date":"2024-02-01","priority":"urgent","completed":false,` +
			`"createdAt":"2024-02-01T09:00:00Z"}]`),
	}}

	s := NewStore(storage, testKey)
	s.Load(context.Background())

	got, ok := s.Get("a")
	assert.True(ok)
	assert.Equal(Priority("urgent"), got.Priority)
	assert.Equal("Medium", got.Priority.Label())
}

func TestSaveFailureKeepsMutation(t *testing.T) {
	t.Parallel()

	assert := assert.New(t)
	storage := newMemStorage()
	storage.putErr = errors.New("quota exceeded")
	s := newTestStore(storage)

	task, err := s.Add(context.Background(), Fields{Title: "a", Date: "2024-02-01"})
	assert.NotNil(err)
	assert.Contains(err.Error(), "quota exceeded")
	assert.Equal("id-1", task.ID)
	assert.Len(s.All(), 1)
}

func TestNewIDIsUnique(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}

	for i := 0; i < 1000; i++ {
		id := newID()
		assert.False(t, seen[id], id)
		seen[id] = true
	}
}
