package domain

// User is the credential record owned by the user store: a normalized email,
// the Argon2id hash of the password, and the second-factor flag. The
// plaintext password is discarded as soon as the hash is computed and never
// travels inside a User.
type User struct {
	Email        Email
	PasswordHash string
	Requires2FA  bool
}

// NewUser assembles a User from an already-hashed password.
func NewUser(email Email, passwordHash string, requires2FA bool) User {
	return User{
		Email:        email,
		PasswordHash: passwordHash,
		Requires2FA:  requires2FA,
	}
}
