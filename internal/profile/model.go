// File: internal/profile/model.go
package profile

import "time"

// Profile is the document written to the document store for a newly
// registered account. It is write-only in the core flow.
type Profile struct {
	FirstName string    `firestore:"firstName"`
	LastName  string    `firestore:"lastName"`
	Email     string    `firestore:"email"`
	CreatedAt time.Time `firestore:"createdAt"`
}
