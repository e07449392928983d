// Package alerts reports noteworthy conditions of a sync run, such as records
// the store could not link, separately from the run's result output.
package alerts

import (
	"fmt"
	"strings"
)

// Alert represents a status notification.
type Alert struct {
	Level   Level    `json:"level"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// New creates a new alert with the given level and message.
func New(level Level, message string) *Alert {
	return &Alert{Level: level, Message: message}
}

// NewWarning creates a new warning alert.
func NewWarning(format string, args ...any) *Alert {
	return New(LevelWarning, fmt.Sprintf(format, args...))
}

// NewSuccess creates a new success alert.
func NewSuccess(format string, args ...any) *Alert {
	return New(LevelSuccess, fmt.Sprintf(format, args...))
}

// WithDetails adds additional context details to the alert.
func (a *Alert) WithDetails(details ...string) *Alert {
	a.Details = append(a.Details, details...)
	return a
}

// String returns a string representation of the alert.
func (a *Alert) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", a.Level.Icon(), a.Message)
	for _, d := range a.Details {
		fmt.Fprintf(&b, "\n   %s", d)
	}
	return b.String()
}
