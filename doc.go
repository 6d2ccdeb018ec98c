// Package authcore implements an authentication session lifecycle: signup,
// login with optional email-delivered 2FA codes, challenge redemption,
// logout, and bearer token verification, over pluggable in-memory, Redis, and
// PostgreSQL store backends.
//
// Engine methods are safe to call from multiple goroutines after
// initialization through [Builder.Build].
//
// # Architecture boundaries
//
// authcore is the orchestration surface. It exposes [Engine], [Builder],
// [Config], the sentinel errors, and the audit sink types. Value types live
// in domain/, hashing in password/, token signing in jwt/, the store
// contracts and backends in stores/, and out-of-band code delivery in
// email/.
//
// # Error contract
//
// Rejections collapse at this boundary: unknown users, wrong passwords, and
// bad challenge pairs all surface as [ErrIncorrectCredentials]; malformed,
// expired, and revoked tokens as [ErrInvalidToken]. Backend faults surface as
// [ErrUnexpected] with the cause recorded only in audit events. No store or
// driver error text ever reaches a caller.
//
// # What this package must NOT do
//
//   - Log or format plaintext passwords or 2FA codes anywhere, including
//     audit events.
//   - Return a 2FA code to the login caller; codes travel only through the
//     email collaborator.
//   - Retry failed store operations; a failed operation fails the request.
package authcore
