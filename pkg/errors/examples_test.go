package errors_test

import (
	"fmt"

	"github.com/openstatehouse/legisync/pkg/errors"
)

// Example demonstrates basic error creation and checking.
func Example() {
	err := &errors.NotFoundError{
		Resource: "session",
		ID:       "2025-regular",
	}

	if errors.IsNotFound(err) {
		fmt.Println("Session not found")
	}

	// Output: Session not found
}

// Example_conflict demonstrates the one tolerated remote failure.
func Example_conflict() {
	err := errors.WrapResource("link", "session", "2025",
		errors.NewAPIError("remote-store", 409, "already linked"))

	if errors.IsConflict(err) {
		fmt.Println("Already linked")
	}

	// Output: Already linked
}
