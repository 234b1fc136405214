package database

import "github.com/google/uuid"

// isUUID guards UUID-typed columns from malformed IDs, which would otherwise
// surface as a cast error rather than ErrNotFound.
func isUUID(id string) bool {
	return uuid.Validate(id) == nil
}
