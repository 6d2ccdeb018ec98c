// Package stores defines the persistence contracts behind the authcore
// engine — credential records, banned bearer tokens, and pending 2FA
// challenges — together with their concrete backends.
//
// The engine depends only on the three interfaces in contracts.go; which
// backend sits behind each one is an injection decision made at build time.
// Provided backends:
//
//   - MemoryUserStore / PostgresUserStore
//   - MemoryBannedTokenStore / RedisBannedTokenStore
//   - MemoryTwoFACodeStore / RedisTwoFACodeStore
//
// TTL expiry is a backend responsibility: Redis backends use native key
// expiry, memory backends stamp an expiry time and treat stale entries as
// absent. Backend faults are wrapped in ErrStoreUnavailable with the cause
// preserved in the message only, never in the error chain, so callers cannot
// accidentally match on driver internals.
package stores
