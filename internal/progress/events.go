// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package progress

import (
	"time"
)

// Event is a single update emitted while a batch runs.
type Event struct {
	Path      string    // Source path the event refers to, empty for batch level events
	Type      EventType // What happened
	Message   string    // Human readable detail
	Timestamp time.Time // When it happened
	Data      EventData // Type specific payload
}

// EventType identifies the kind of Event.
type EventType int

const (
	// EventBatchStarted is sent once, before the first item.
	EventBatchStarted EventType = iota
	// EventItemStarted is sent before a file is handed to the transform.
	EventItemStarted
	// EventItemConverted is sent when a file produced its artifacts.
	EventItemConverted
	// EventItemFailed is sent when a file could not be converted.
	EventItemFailed
	// EventDirectory is sent when a subdirectory is entered.
	EventDirectory
	// EventMessage carries free text, e.g. a warning.
	EventMessage
	// EventBatchCompleted is sent once, after the last item.
	EventBatchCompleted
)

// String implements fmt.Stringer.
func (et EventType) String() string {
	switch et {
	case EventBatchStarted:
		return "batch-started"
	case EventItemStarted:
		return "item-started"
	case EventItemConverted:
		return "item-converted"
	case EventItemFailed:
		return "item-failed"
	case EventDirectory:
		return "directory"
	case EventMessage:
		return "message"
	case EventBatchCompleted:
		return "batch-completed"
	default:
		return "unknown"
	}
}

// EventData holds the optional payload of an Event.
type EventData struct {
	Artifacts []string // EventItemConverted
	Degraded  bool     // EventItemConverted
	Error     error    // EventItemFailed
	Total     int      // EventBatchStarted, when known up front
}

// New returns an Event stamped with the current time.
func New(t EventType, path, msg string) Event {
	return Event{
		Path:      path,
		Type:      t,
		Message:   msg,
		Timestamp: time.Now(),
	}
}

// Reporter receives events from a batch.
type Reporter interface {
	// Report must not block.
	Report(event Event)
	// Close flushes pending events. Report after Close is a no-op.
	Close()
}

// Listener is notified of events by ChannelReporter.Listen.
type Listener interface {
	OnEvent(event Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

// OnEvent implements Listener.
func (f ListenerFunc) OnEvent(e Event) { f(e) }

// NullReporter discards everything.
type NullReporter struct{}

// Report implements Reporter.
func (NullReporter) Report(Event) {}

// Close implements Reporter.
func (NullReporter) Close() {}

// NewNullReporter returns a Reporter that discards events.
func NewNullReporter() Reporter {
	return NullReporter{}
}
