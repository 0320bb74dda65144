package vmpool

import (
	"fmt"
	"sort"
	"time"

	"github.com/go-logr/logr"
)

// Observer receives structured reconciliation events.
type Observer interface {
	// Event emits a structured event
	Event(event Event)

	// WithFields returns a new Observer with additional context fields
	WithFields(fields map[string]string) Observer
}

// Event represents a structured reconciliation event.
type Event struct {
	Type      EventType         // Type of event
	Resource  string            // Resource name/ID if applicable
	Message   string            // Human-readable message
	Timestamp time.Time         // When the event occurred
	Fields    map[string]string // Additional contextual fields
}

// EventType represents the type of reconciliation event.
type EventType string

const (
	EventResourceCreating EventType = "resource.creating"
	EventResourceCreated  EventType = "resource.created"
	EventResourceExists   EventType = "resource.exists"
	EventResourceUpdating EventType = "resource.updating"
	EventResourceUpdated  EventType = "resource.updated"
	EventResourceDeleting EventType = "resource.deleting"
	EventResourceDeleted  EventType = "resource.deleted"
	EventNicAttached      EventType = "nic.attached"
	EventWaitStarted      EventType = "wait.started"
	EventWaitCompleted    EventType = "wait.completed"
	EventWaitTimedOut     EventType = "wait.timeout"
	EventCheckModeSkipped EventType = "check.skipped"
)

// LogObserver writes events to a logr.Logger.
type LogObserver struct {
	logger        logr.Logger
	contextFields map[string]string
}

// NewLogObserver creates an observer that logs through logger.
func NewLogObserver(logger logr.Logger) *LogObserver {
	return &LogObserver{
		logger:        logger,
		contextFields: make(map[string]string),
	}
}

// Event implements Observer interface.
func (o *LogObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	fields := make(map[string]string, len(o.contextFields)+len(event.Fields))
	for k, v := range o.contextFields {
		fields[k] = v
	}
	for k, v := range event.Fields {
		fields[k] = v
	}

	kv := []any{"event", string(event.Type)}
	if event.Resource != "" {
		kv = append(kv, "resource", event.Resource)
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		kv = append(kv, k, fields[k])
	}
	o.logger.Info(event.Message, kv...)
}

// WithFields implements Observer interface.
func (o *LogObserver) WithFields(fields map[string]string) Observer {
	newFields := make(map[string]string, len(o.contextFields)+len(fields))
	for k, v := range o.contextFields {
		newFields[k] = v
	}
	for k, v := range fields {
		newFields[k] = v
	}
	return &LogObserver{logger: o.logger, contextFields: newFields}
}

// NopObserver discards all events.
type NopObserver struct{}

// Event implements Observer interface.
func (NopObserver) Event(Event) {}

// WithFields implements Observer interface.
func (n NopObserver) WithFields(map[string]string) Observer { return n }

// LogResourceCreating logs a pool creation start event.
func LogResourceCreating(observer Observer, name string) {
	observer.Event(Event{Type: EventResourceCreating, Resource: name, Message: "creating vm pool"})
}

// LogResourceCreated logs a successful pool creation event.
func LogResourceCreated(observer Observer, name, id string) {
	observer.Event(Event{
		Type:     EventResourceCreated,
		Resource: name,
		Message:  "vm pool created",
		Fields:   map[string]string{"id": id},
	})
}

// LogResourceExists logs when the pool already matches the declared state.
func LogResourceExists(observer Observer, name, id string) {
	observer.Event(Event{
		Type:     EventResourceExists,
		Resource: name,
		Message:  "vm pool already up to date",
		Fields:   map[string]string{"id": id},
	})
}

// LogResourceUpdating logs a pool update start event.
func LogResourceUpdating(observer Observer, name, id string) {
	observer.Event(Event{
		Type:     EventResourceUpdating,
		Resource: name,
		Message:  "updating vm pool",
		Fields:   map[string]string{"id": id},
	})
}

// LogResourceUpdated logs a successful pool update event.
func LogResourceUpdated(observer Observer, name, id string) {
	observer.Event(Event{
		Type:     EventResourceUpdated,
		Resource: name,
		Message:  "vm pool updated",
		Fields:   map[string]string{"id": id},
	})
}

// LogResourceDeleting logs a pool removal start event.
func LogResourceDeleting(observer Observer, name, id string) {
	observer.Event(Event{
		Type:     EventResourceDeleting,
		Resource: name,
		Message:  "removing vm pool",
		Fields:   map[string]string{"id": id},
	})
}

// LogResourceDeleted logs a successful pool removal event.
func LogResourceDeleted(observer Observer, name, id string) {
	observer.Event(Event{
		Type:     EventResourceDeleted,
		Resource: name,
		Message:  "vm pool removed",
		Fields:   map[string]string{"id": id},
	})
}

// LogCheckModeSkipped logs a mutation that check mode suppressed.
func LogCheckModeSkipped(observer Observer, name, action string) {
	observer.Event(Event{
		Type:     EventCheckModeSkipped,
		Resource: name,
		Message:  fmt.Sprintf("check mode: would %s vm pool", action),
		Fields:   map[string]string{"action": action},
	})
}

// LogNicAttached logs a NIC attached to a pool VM.
func LogNicAttached(observer Observer, vm, nic string) {
	observer.Event(Event{
		Type:     EventNicAttached,
		Resource: vm,
		Message:  "nic attached",
		Fields:   map[string]string{"nic": nic},
	})
}

// LogWaitStarted logs the start of a convergence wait.
func LogWaitStarted(observer Observer, vms int, timeout time.Duration) {
	observer.Event(Event{
		Type:    EventWaitStarted,
		Message: fmt.Sprintf("waiting for %d vm(s)", vms),
		Fields:  map[string]string{"timeout": timeout.String()},
	})
}

// LogWaitCompleted logs a finished convergence wait.
func LogWaitCompleted(observer Observer, duration time.Duration) {
	observer.Event(Event{
		Type:    EventWaitCompleted,
		Message: fmt.Sprintf("vms settled in %v", duration.Round(time.Millisecond)),
	})
}

// LogWaitTimedOut logs a convergence wait that ran out of time.
func LogWaitTimedOut(observer Observer, pending []string) {
	observer.Event(Event{
		Type:    EventWaitTimedOut,
		Message: fmt.Sprintf("%d vm(s) did not settle", len(pending)),
	})
}
