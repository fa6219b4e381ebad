// Package errs classifies agent errors into the three categories the
// scheduler, task runner, and handlers all reason about: transient
// (logged, recorded, task continues), task-scoped (logged, journal
// closed, no retry this tick), and fatal (the agent aborts startup).
package errs

import "errors"

// Category is the error classification used for propagation decisions.
type Category int

const (
	// Transient covers SNMP timeouts and single-row DB conflicts. The
	// caller logs at WARN and keeps going.
	Transient Category = iota
	// TaskScoped covers handler failures and empty node/request
	// resolution. The caller logs at ERROR, closes the journal, and
	// does not retry until the next tick.
	TaskScoped
	// Fatal covers startup conditions the agent cannot run without,
	// such as an unreachable database.
	Fatal
)

func (c Category) String() string {
	switch c {
	case Transient:
		return "transient"
	case TaskScoped:
		return "task_scoped"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// categorized wraps an error with a Category so callers can branch with
// errors.As without string-matching messages.
type categorized struct {
	cat Category
	err error
}

func (c *categorized) Error() string { return c.err.Error() }
func (c *categorized) Unwrap() error { return c.err }

// Wrap attaches a category to err. A nil err returns nil.
func Wrap(cat Category, err error) error {
	if err == nil {
		return nil
	}
	return &categorized{cat: cat, err: err}
}

// CategoryOf returns the category attached to err via Wrap, or
// TaskScoped if err was never categorized (the safe default: log and
// move on rather than crash the agent).
func CategoryOf(err error) Category {
	var c *categorized
	if errors.As(err, &c) {
		return c.cat
	}
	return TaskScoped
}

// IsFatal reports whether err (or anything it wraps) was categorized Fatal.
func IsFatal(err error) bool {
	return err != nil && CategoryOf(err) == Fatal
}
