package alerts

import "fmt"

// Level represents the severity of an alert.
type Level int

const (
	// LevelWarning marks data that was skipped or could not be linked.
	LevelWarning Level = iota
	// LevelSuccess marks a completed step.
	LevelSuccess
)

// String returns the string representation of the alert level.
func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "warning"
	case LevelSuccess:
		return "success"
	default:
		return fmt.Sprintf("unknown(%d)", int(l))
	}
}

// MarshalText encodes the level by name.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Icon returns the symbol shown before the alert.
func (l Level) Icon() string {
	switch l {
	case LevelWarning:
		return "!"
	case LevelSuccess:
		return "✓"
	default:
		return "?"
	}
}

// Color returns ANSI color codes for terminal output.
func (l Level) Color() string {
	switch l {
	case LevelWarning:
		return "\033[33m" // Yellow
	case LevelSuccess:
		return "\033[32m" // Green
	default:
		return resetColor
	}
}

const resetColor = "\033[0m"
