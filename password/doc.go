// Package password implements password hashing and verification with Argon2id defaults.
//
// # Output format
//
// Hashes are encoded in PHC string format:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// Cost parameters travel inside the hash string, so verification of old
// hashes keeps working after a [Config] change; [Argon2.NeedsUpgrade] reports
// hashes minted under weaker parameters so the caller can re-hash on the next
// successful login.
//
// # Scheduling
//
// Argon2id is deliberately CPU- and memory-hard. [Pool] bounds how many
// hash/verify computations run at once so a burst of logins cannot starve the
// goroutines serving other requests; all Pool entry points take a
// context.Context and abandon the wait when it is cancelled.
//
// # Architecture boundaries
//
// This package owns hashing and verification only. Password policy (minimum
// length) lives in the domain package; persistence lives in the stores
// package. Plaintext passwords are never stored or logged here.
package password
