package vmpool

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/go-logr/logr/funcr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureObserver returns a LogObserver whose lines are decoded into maps.
func captureObserver(t *testing.T) (*LogObserver, *[]map[string]any) {
	t.Helper()
	var lines []map[string]any
	logger := funcr.NewJSON(func(obj string) {
		var line map[string]any
		require.NoError(t, json.Unmarshal([]byte(obj), &line))
		lines = append(lines, line)
	}, funcr.Options{})
	return NewLogObserver(logger), &lines
}

func TestLogObserver_Event(t *testing.T) {
	t.Parallel()

	obs, lines := captureObserver(t)
	LogResourceCreated(obs, "pool1", "abc")

	require.Len(t, *lines, 1)
	line := (*lines)[0]
	assert.Equal(t, "vm pool created", line["msg"])
	assert.Equal(t, "resource.created", line["event"])
	assert.Equal(t, "pool1", line["resource"])
	assert.Equal(t, "abc", line["id"])
}

func TestLogObserver_WithFields(t *testing.T) {
	t.Parallel()

	obs, lines := captureObserver(t)
	scoped := obs.WithFields(map[string]string{"state": "present"})
	LogCheckModeSkipped(scoped, "pool1", "create")
	LogResourceCreating(obs, "pool1")

	require.Len(t, *lines, 2)
	assert.Equal(t, "present", (*lines)[0]["state"])
	assert.Equal(t, "create", (*lines)[0]["action"])
	assert.Equal(t, "check mode: would create vm pool", (*lines)[0]["msg"])
	assert.NotContains(t, (*lines)[1], "state", "parent observer is not modified")
}

func TestLogObserver_EventFieldsOverrideContext(t *testing.T) {
	t.Parallel()

	obs, lines := captureObserver(t)
	obs.WithFields(map[string]string{"id": "old"}).Event(Event{
		Type:   EventResourceUpdated,
		Fields: map[string]string{"id": "new"},
	})

	require.Len(t, *lines, 1)
	assert.Equal(t, "new", (*lines)[0]["id"])
	assert.NotContains(t, (*lines)[0], "resource")
}

func TestEventHelpers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		emit func(o Observer)
		want Event
	}{
		{
			name: "wait started",
			emit: func(o Observer) { LogWaitStarted(o, 3, 2*time.Minute) },
			want: Event{Type: EventWaitStarted, Message: "waiting for 3 vm(s)", Fields: map[string]string{"timeout": "2m0s"}},
		},
		{
			name: "wait timed out",
			emit: func(o Observer) { LogWaitTimedOut(o, []string{"a", "b"}) },
			want: Event{Type: EventWaitTimedOut, Message: "2 vm(s) did not settle"},
		},
		{
			name: "nic attached",
			emit: func(o Observer) { LogNicAttached(o, "pool1-1", "nic1") },
			want: Event{Type: EventNicAttached, Resource: "pool1-1", Message: "nic attached", Fields: map[string]string{"nic": "nic1"}},
		},
		{
			name: "resource deleted",
			emit: func(o Observer) { LogResourceDeleted(o, "pool1", "abc") },
			want: Event{Type: EventResourceDeleted, Resource: "pool1", Message: "vm pool removed", Fields: map[string]string{"id": "abc"}},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var got []Event
			tt.emit(eventSink(func(e Event) { got = append(got, e) }))
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0])
		})
	}
}

type eventSink func(Event)

func (s eventSink) Event(e Event) { s(e) }
func (s eventSink) WithFields(map[string]string) Observer { return s }

func TestNopObserver(t *testing.T) {
	t.Parallel()

	var o Observer = NopObserver{}
	assert.NotPanics(t, func() {
		LogResourceCreating(o.WithFields(map[string]string{"k": "v"}), "pool1")
	})
}
