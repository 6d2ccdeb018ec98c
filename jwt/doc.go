// Package jwt wraps github.com/golang-jwt/jwt/v5 behind a small Manager that
// issues and verifies the bearer tokens used by authcore.
//
// Tokens carry three claims: subject (the account email), issued-at, and a
// fixed-horizon expiry. Verification enforces a signing-method allow-list and
// a required expiry claim. Revocation is out of scope here; the Engine
// consults the banned-token store only after a token passes Parse, so store
// round-trips are never spent on tokens that are already invalid.
package jwt
