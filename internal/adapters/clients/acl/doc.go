// Package acl is the anti-corruption layer between the remote placeholder
// API and the domain.
//
// Remote DTOs stay unexported in this package. Everything that leaves it is a
// domain type or a domain error:
//
//   - 404 → [domain.ErrNotFound]
//   - 409 → [domain.ErrConflict]
//   - 400/422 and other 4xx → [domain.ErrValidation]
//   - 401/403, 429, 5xx and transport failures → [domain.ErrUnavailable]
//
// Client-level errors ([clients.ErrCircuitOpen], [clients.ErrMaxRetriesExceeded])
// also become [domain.ErrUnavailable].
//
// The mapping from remote posts to quotes is one-way and lossy: the post
// title becomes the quote text and the body is run through the keyword
// classifier to pick a category.
package acl
