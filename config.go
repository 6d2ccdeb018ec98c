package authcore

import (
	"errors"
	"time"
)

// Config holds every tunable of the engine. Zero values are not usable; start
// from DefaultConfig and override.
type Config struct {
	JWT        JWTConfig
	Password   PasswordConfig
	Challenge  ChallengeConfig
	Revocation RevocationConfig
	Audit      AuditConfig
}

// JWTConfig controls token issuance and verification.
type JWTConfig struct {
	TokenTTL      time.Duration
	SigningMethod string // "hs256" (default) or "ed25519"
	PrivateKey    []byte
	PublicKey     []byte // required for ed25519, ignored for hs256
	Leeway        time.Duration
}

// PasswordConfig controls Argon2id parameters and hashing concurrency.
type PasswordConfig struct {
	Memory         uint32 // in KB
	Time           uint32
	Parallelism    uint8
	SaltLength     uint32
	KeyLength      uint32
	PoolWidth      int // concurrent hashing slots, 0 means GOMAXPROCS
	UpgradeOnLogin bool
}

// ChallengeConfig controls pending 2FA challenges.
type ChallengeConfig struct {
	TTL          time.Duration
	EmailSubject string
}

// RevocationConfig controls banned-token retention.
type RevocationConfig struct {
	// BanTTL is how long a banned token stays recorded. Zero derives it from
	// the token TTL plus leeway, which is the minimum safe retention.
	BanTTL time.Duration
}

// AuditConfig controls dispatcher buffering behavior.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// DefaultConfig returns the baseline configuration. Signing keys must still be
// supplied before Build.
func DefaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			TokenTTL:      10 * time.Minute,
			SigningMethod: "hs256",
		},
		Password: PasswordConfig{
			Memory:         65536,
			Time:           3,
			Parallelism:    2,
			SaltLength:     16,
			KeyLength:      32,
			PoolWidth:      0,
			UpgradeOnLogin: true,
		},
		Challenge: ChallengeConfig{
			TTL:          10 * time.Minute,
			EmailSubject: "2FA code has been sent!",
		},
		Revocation: RevocationConfig{
			BanTTL: 0,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.JWT.PrivateKey = cloneBytes(cfg.JWT.PrivateKey)
	out.JWT.PublicKey = cloneBytes(cfg.JWT.PublicKey)
	return out
}

func cloneBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

// Validate checks internal consistency. Build calls it; callers constructing a
// Config by hand can call it early.
func (c *Config) Validate() error {
	// JWT
	if c.JWT.TokenTTL <= 0 {
		return errors.New("JWT TokenTTL must be > 0")
	}
	if c.JWT.Leeway < 0 {
		return errors.New("JWT Leeway must be >= 0")
	}
	if c.JWT.SigningMethod != "hs256" && c.JWT.SigningMethod != "ed25519" {
		return errors.New("unsupported JWT signing method")
	}
	if len(c.JWT.PrivateKey) == 0 {
		return errors.New("JWT PrivateKey required")
	}
	if c.JWT.SigningMethod == "ed25519" && len(c.JWT.PublicKey) == 0 {
		return errors.New("ed25519 requires PublicKey")
	}

	// Password
	if c.Password.Memory < 8*1024 {
		return errors.New("Password Memory must be >= 8192 KB")
	}
	if c.Password.Time < 1 {
		return errors.New("Password Time must be >= 1")
	}
	if c.Password.Parallelism < 1 {
		return errors.New("Password Parallelism must be >= 1")
	}
	if c.Password.SaltLength < 16 {
		return errors.New("Password SaltLength must be >= 16")
	}
	if c.Password.KeyLength < 16 {
		return errors.New("Password KeyLength must be >= 16")
	}
	if c.Password.PoolWidth < 0 {
		return errors.New("Password PoolWidth must be >= 0")
	}

	// Challenge
	if c.Challenge.TTL <= 0 {
		return errors.New("Challenge TTL must be > 0")
	}
	if c.Challenge.EmailSubject == "" {
		return errors.New("Challenge EmailSubject must not be empty")
	}

	// Revocation
	if c.Revocation.BanTTL < 0 {
		return errors.New("Revocation BanTTL must be >= 0")
	}
	if c.Revocation.BanTTL > 0 && c.Revocation.BanTTL < c.JWT.TokenTTL {
		return errors.New("Revocation BanTTL must cover the token TTL")
	}

	return nil
}

// banTTL is the effective banned-token retention window.
func (c *Config) banTTL() time.Duration {
	if c.Revocation.BanTTL > 0 {
		return c.Revocation.BanTTL
	}
	return c.JWT.TokenTTL + c.JWT.Leeway
}
