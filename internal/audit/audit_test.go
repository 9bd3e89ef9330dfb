package audit

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySink struct {
	mu      sync.Mutex
	entries []Entry
	err     error
}

func (s *memorySink) Record(_ context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	return s.err
}

func TestRecorderStampsAndForwards(t *testing.T) {
	sink := &memorySink{}
	r := NewRecorder(sink, zerolog.New(io.Discard))

	r.Log(Entry{Action: ActionRoleAssign, Resource: ResourceUser, ResourceID: "42", Success: true})
	r.Wait()

	require.Len(t, sink.entries, 1)
	assert.Equal(t, ActionRoleAssign, sink.entries[0].Action)
	assert.False(t, sink.entries[0].Timestamp.IsZero())
}

func TestRecorderLogsSinkErrors(t *testing.T) {
	var buf bytes.Buffer
	sink := &memorySink{err: errors.New("scylla down")}
	r := NewRecorder(sink, zerolog.New(&buf))

	r.Log(Entry{Action: ActionMenuDelete})
	r.Wait()

	assert.Contains(t, buf.String(), "scylla down")
}

func TestLogSinkWritesStructuredEntry(t *testing.T) {
	var buf bytes.Buffer
	sink := NewLogSink(zerolog.New(&buf))

	require.NoError(t, sink.Record(context.Background(), Entry{
		UserEmail: "admin@x.com", Action: ActionMenuCreate, Resource: ResourceMenu, Status: 200, Success: true,
	}))

	out := buf.String()
	assert.Contains(t, out, `"action":"menu.create"`)
	assert.Contains(t, out, `"user_email":"admin@x.com"`)
	assert.Contains(t, out, `"component":"audit"`)
}
