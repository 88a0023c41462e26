// AngelaMos | 2026
// policy.go

package access

import (
	"fmt"
	"slices"
)

// Policy maps a role to the set of values (fields, target states) that role
// may touch for one operation. A role absent from the table may do nothing.
type Policy[T comparable] struct {
	name  string
	rules map[Role][]T
}

func NewPolicy[T comparable](name string, rules map[Role][]T) Policy[T] {
	return Policy[T]{name: name, rules: rules}
}

func (p Policy[T]) Name() string {
	return p.name
}

// Allows reports whether any permission is granted to role.
func (p Policy[T]) Allows(role Role) bool {
	return len(p.rules[role]) > 0
}

func (p Policy[T]) Permits(role Role, v T) bool {
	return slices.Contains(p.rules[role], v)
}

func (p Policy[T]) Permitted(role Role) []T {
	return slices.Clone(p.rules[role])
}

// Check returns a descriptive error when role may not use v.
func (p Policy[T]) Check(role Role, v T) error {
	if !p.Permits(role, v) {
		return fmt.Errorf("%s: role %q may not use %v", p.name, role, v)
	}
	return nil
}
