package domain

import (
	"context"
	"time"
)

// Trigger names what started a round trip.
type Trigger string

const (
	TriggerInit          Trigger = "init"
	TriggerSubmit        Trigger = "submit"
	TriggerAction        Trigger = "action"
	TriggerArchiveList   Trigger = "archive-list"
	TriggerArchiveSelect Trigger = "archive-select"
)

// EventType defines the category of the event.
type EventType string

const (
	EventDataReady EventType = "data_ready"
	EventRoundTrip EventType = "round_trip"
	EventRedirect  EventType = "redirect"
	EventDropped   EventType = "dropped"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Page      string    `json:"page"`
}

// PageEvent is fired when a page becomes ready or a trigger is dropped.
type PageEvent struct {
	EventBase
	Trigger Trigger `json:"trigger,omitempty"`
}

// RoundTripEvent is fired after every webhook call, successful or not.
type RoundTripEvent struct {
	EventBase
	Trigger  Trigger       `json:"trigger"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// NavigationEvent is fired when the driver redirects the host.
type NavigationEvent struct {
	EventBase
	Destination string `json:"destination"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnDataReady func(context.Context, *PageEvent)
	OnRoundTrip func(context.Context, *RoundTripEvent)
	OnRedirect  func(context.Context, *NavigationEvent)
	OnDropped   func(context.Context, *PageEvent)
}

// NewEventBase stamps an event with the current time.
func NewEventBase(t EventType, page string) EventBase {
	return EventBase{Timestamp: time.Now(), Type: t, Page: page}
}
