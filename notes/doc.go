// Package notes resolves a signed-in user's working note.
//
// The Resolver asks a Store for the user's most recently updated note and creates
// one only when the user has none:
//
//	r := notes.NewResolver(store, notes.WithTimeout(3*time.Second))
//	id, err := r.Resolve(ctx, userID)
//	if errors.Is(err, notes.ErrResolutionUnavailable) {
//		// render without a selected note
//	}
//
// Stores order notes by updated_at descending, then created_at ascending, then id.
// Create is idempotent per user for the initial note, so concurrent first visits
// converge on one note. Bundled stores: MemoryStore, HTTPStore, and the pgstore and
// sqlitestore subpackages.
package notes
