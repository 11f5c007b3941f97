package logging

import (
	"time"

	"github.com/felixgeelhaar/bolt/v3"
)

// Field is a function that applies structured data to a log event.
type Field func(*bolt.Event) *bolt.Event

// EpisodeID adds an episode ID field.
func EpisodeID(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("episode_id", id)
	}
}

// Mode adds a scoring mode field.
func Mode(mode string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("mode", mode)
	}
}

// Gamma adds the mean recall of a scoring call.
func Gamma(v float64) Field {
	return Float64("gamma", v)
}

// Soundness adds the mean precision of a scoring call.
func Soundness(v float64) Field {
	return Float64("soundness", v)
}

// Float64 adds a numeric field.
func Float64(key string, v float64) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Float64(key, v)
	}
}

// Points adds the number of comparison points.
func Points(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("points", n)
	}
}

// Steps adds the plan-so-far length.
func Steps(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("steps", n)
	}
}

// Action adds an action text field.
func Action(text string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("action", text)
	}
}

// Phase adds an episode lifecycle phase field.
func Phase(phase string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("phase", phase)
	}
}

// Interrupted adds whether an episode was interrupted.
func Interrupted(v bool) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Bool("interrupted", v)
	}
}

// Duration adds a duration field in milliseconds.
func Duration(d time.Duration) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("duration_ms", d.Milliseconds())
	}
}

// ErrorField adds an error field.
func ErrorField(err error) Field {
	return func(e *bolt.Event) *bolt.Event {
		if err == nil {
			return e
		}
		return e.Err(err)
	}
}

// Component adds a component field for categorization.
func Component(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("component", name)
	}
}

// Operation adds an operation field.
func Operation(op string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("operation", op)
	}
}

// Str adds a string field with custom key.
func Str(key, value string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str(key, value)
	}
}

// Int adds an integer field with custom key.
func Int(key string, value int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int(key, value)
	}
}
