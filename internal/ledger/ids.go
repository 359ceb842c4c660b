package ledger

import (
	"fmt"

	"github.com/google/uuid"
)

// ValidateID checks that id is a well-formed UUID. kind names the id in the
// error message (e.g. "transaction").
func ValidateID(kind, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: invalid %s id format %q", ErrValidation, kind, id)
	}
	return nil
}
