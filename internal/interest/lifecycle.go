// AngelaMos | 2026
// lifecycle.go

package interest

import (
	"fmt"
	"slices"

	"github.com/ewastex/marketplace-api/internal/core"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusCompleted Status = "completed"
)

type state int

const (
	statePending state = iota
	stateAccepted
	stateRejected
	stateCompleted
	stateCount
)

var stateStatus = [...]Status{
	statePending:   StatusPending,
	stateAccepted:  StatusAccepted,
	stateRejected:  StatusRejected,
	stateCompleted: StatusCompleted,
}

// transitions lists the reachable states from each state. Rejected and
// completed are terminal.
var transitions = [...][]state{
	statePending:   {stateAccepted, stateRejected},
	stateAccepted:  {stateCompleted},
	stateRejected:  nil,
	stateCompleted: nil,
}

var (
	_ [int(stateCount) - len(stateStatus)]struct{}
	_ [len(stateStatus) - int(stateCount)]struct{}
	_ [int(stateCount) - len(transitions)]struct{}
	_ [len(transitions) - int(stateCount)]struct{}
)

func Statuses() []Status {
	return slices.Clone(stateStatus[:])
}

func parseState(s Status) (state, bool) {
	i := slices.Index(stateStatus[:], s)
	if i < 0 {
		return 0, false
	}
	return state(i), true
}

func (s Status) Valid() bool {
	_, ok := parseState(s)
	return ok
}

func (s Status) Terminal() bool {
	st, ok := parseState(s)
	return ok && len(transitions[st]) == 0
}

// SellerTargets are the statuses a seller may request.
var SellerTargets = []Status{StatusAccepted, StatusRejected, StatusCompleted}

// CheckTransition returns ErrInvalidTransition unless to is reachable from
// from in one step.
func CheckTransition(from, to Status) error {
	f, ok := parseState(from)
	if !ok {
		return fmt.Errorf("interest: unknown status %q: %w", from, core.ErrInvalidTransition)
	}
	t, ok := parseState(to)
	if !ok {
		return fmt.Errorf("interest: unknown status %q: %w", to, core.ErrInvalidTransition)
	}

	if !slices.Contains(transitions[f], t) {
		return fmt.Errorf(
			"interest: cannot move from %s to %s: %w",
			from,
			to,
			core.ErrInvalidTransition,
		)
	}

	return nil
}
