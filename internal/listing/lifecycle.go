// AngelaMos | 2026
// lifecycle.go

package listing

import (
	"fmt"
	"slices"

	"github.com/ewastex/marketplace-api/internal/core"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusSold     Status = "sold"
)

var Statuses = []Status{StatusPending, StatusApproved, StatusRejected, StatusSold}

func (s Status) Valid() bool {
	return slices.Contains(Statuses, s)
}

type Event int

const (
	EventApprove Event = iota
	EventReject
	EventResubmit
	EventSell
	eventCount
)

var eventNames = [...]string{
	EventApprove:  "approve",
	EventReject:   "reject",
	EventResubmit: "resubmit",
	EventSell:     "sell",
}

func (e Event) String() string {
	if e < 0 || e >= eventCount {
		return fmt.Sprintf("event(%d)", int(e))
	}
	return eventNames[e]
}

// rule describes one event. An empty from list accepts every state.
type rule struct {
	from []Status
	to   Status
}

var lifecycle = [...]rule{
	EventApprove:  {from: []Status{StatusPending}, to: StatusApproved},
	EventReject:   {from: []Status{StatusPending}, to: StatusRejected},
	EventResubmit: {to: StatusPending},
	EventSell:     {to: StatusSold},
}

// Both tables must have exactly one entry per event.
var (
	_ [int(eventCount) - len(lifecycle)]struct{}
	_ [len(lifecycle) - int(eventCount)]struct{}
	_ [int(eventCount) - len(eventNames)]struct{}
	_ [len(eventNames) - int(eventCount)]struct{}
)

// Next returns the state reached by applying ev in state from.
func Next(from Status, ev Event) (Status, error) {
	if ev < 0 || ev >= eventCount {
		return from, fmt.Errorf("listing: unknown event %s: %w", ev, core.ErrInvalidTransition)
	}

	r := lifecycle[ev]
	if len(r.from) > 0 && !slices.Contains(r.from, from) {
		return from, fmt.Errorf(
			"listing: cannot %s from %s: %w",
			ev,
			from,
			core.ErrInvalidTransition,
		)
	}

	return r.to, nil
}

// moderationEvents maps the statuses an admin may request to events.
var moderationEvents = map[Status]Event{
	StatusApproved: EventApprove,
	StatusRejected: EventReject,
}

func ModerationEvent(target Status) (Event, bool) {
	ev, ok := moderationEvents[target]
	return ev, ok
}
