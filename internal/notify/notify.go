package notify

import "fmt"

// Level classifies an event for display.
type Level int

const (
	LevelInfo Level = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// Event is one notification from the conversion pipeline. Key identifies
// what happened, Message is the rendered human readable text.
type Event struct {
	Key     string
	Message string
	Level   Level
}

// Func receives events. Implementations must be safe for concurrent use,
// the pipeline calls them from multiple goroutines.
type Func func(Event)

// Emit invokes the callback if one is set.
func (f Func) Emit(e Event) {
	if f != nil {
		f(e)
	}
}

// Info builds an informational event for key.
func Info(key string, args ...any) Event {
	return newEvent(LevelInfo, key, args...)
}

// Verbose builds a verbose event for key.
func Verbose(key string, args ...any) Event {
	return newEvent(LevelVerbose, key, args...)
}

// Warning builds a warning event for key.
func Warning(key string, args ...any) Event {
	return newEvent(LevelWarning, key, args...)
}

// Error builds an error event for key.
func Error(key string, args ...any) Event {
	return newEvent(LevelError, key, args...)
}

// Success builds a success event for key.
func Success(key string, args ...any) Event {
	return newEvent(LevelSuccess, key, args...)
}

// newEvent renders the catalog template for key with args. Keys without a
// catalog entry use the key itself as template so nothing is lost.
func newEvent(level Level, key string, args ...any) Event {
	format, ok := catalog[key]
	if !ok {
		format = key
	}
	message := format
	if len(args) > 0 {
		message = fmt.Sprintf(format, args...)
	}
	return Event{Key: key, Message: message, Level: level}
}
