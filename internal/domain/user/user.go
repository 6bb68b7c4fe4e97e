package user

import (
	"fmt"
	"strconv"
)

// Record is a user row read from the external user store.
type Record struct {
	ID    int64
	Name  string
	Email string
	Age   int
}

// DocumentID returns the identifier used for the user's search document.
func (r Record) DocumentID() string { return strconv.FormatInt(r.ID, 10) }

// Validate checks the fields the search documents depend on.
func (r Record) Validate() error {
	if r.ID <= 0 {
		return fmt.Errorf("user id must be positive, got %d", r.ID)
	}
	if r.Email == "" {
		return fmt.Errorf("user %d has no email", r.ID)
	}
	return nil
}

// DocumentFields returns the source indexed for the user.
func (r Record) DocumentFields() map[string]any {
	return map[string]any{"email": r.Email}
}
