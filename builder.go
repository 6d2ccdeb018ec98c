package authcore

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/authcore/email"
	"github.com/MrEthical07/authcore/jwt"
	"github.com/MrEthical07/authcore/password"
	"github.com/MrEthical07/authcore/stores"
)

// Builder assembles an Engine. Collaborators not supplied explicitly are
// derived from the Redis client, the database handle, or in-memory defaults.
// A Builder is single-use.
type Builder struct {
	config Config
	redis  *redis.Client
	db     *sql.DB

	userStore   stores.UserStore
	bannedStore stores.BannedTokenStore
	twoFAStore  stores.TwoFACodeStore
	emailClient email.Client
	auditSink   AuditSink

	built bool
}

// New returns a Builder primed with DefaultConfig.
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis supplies the Redis client backing the banned-token and 2FA-code
// stores unless those are overridden.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithDB supplies the database handle backing the credential store unless it
// is overridden.
func (b *Builder) WithDB(db *sql.DB) *Builder {
	b.db = db
	return b
}

// WithUserStore overrides the credential store.
func (b *Builder) WithUserStore(s stores.UserStore) *Builder {
	b.userStore = s
	return b
}

// WithBannedTokenStore overrides the revocation store.
func (b *Builder) WithBannedTokenStore(s stores.BannedTokenStore) *Builder {
	b.bannedStore = s
	return b
}

// WithTwoFACodeStore overrides the challenge store.
func (b *Builder) WithTwoFACodeStore(s stores.TwoFACodeStore) *Builder {
	b.twoFAStore = s
	return b
}

// WithEmailClient supplies the out-of-band delivery channel for 2FA codes.
// Required.
func (b *Builder) WithEmailClient(c email.Client) *Builder {
	b.emailClient = c
	return b
}

// WithAuditSink supplies the audit event consumer. Events are only emitted
// when Config.Audit.Enabled is set.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// Build validates the configuration, wires the stores, and returns the Engine.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.emailClient == nil {
		return nil, errors.New("email client required")
	}

	hasher, err := password.NewArgon2(password.Config{
		Memory:      cfg.Password.Memory,
		Time:        cfg.Password.Time,
		Parallelism: cfg.Password.Parallelism,
		SaltLength:  cfg.Password.SaltLength,
		KeyLength:   cfg.Password.KeyLength,
	})
	if err != nil {
		return nil, err
	}

	pool, err := password.NewPool(hasher, cfg.Password.PoolWidth)
	if err != nil {
		return nil, err
	}

	// Hashed once at build; user stores verify against it when the email is
	// unknown so that lookup misses cost the same as password mismatches.
	decoyHash, err := hasher.Hash(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("decoy hash: %w", err)
	}

	userStore := b.userStore
	if userStore == nil {
		if b.db != nil {
			userStore = stores.NewPostgresUserStore(b.db, pool, decoyHash)
		} else {
			userStore = stores.NewMemoryUserStore(pool, decoyHash)
		}
	}

	banTTL := cfg.banTTL()
	bannedStore := b.bannedStore
	if bannedStore == nil {
		if b.redis != nil {
			bannedStore = stores.NewRedisBannedTokenStore(b.redis, banTTL)
		} else {
			bannedStore = stores.NewMemoryBannedTokenStore(banTTL)
		}
	}

	twoFAStore := b.twoFAStore
	if twoFAStore == nil {
		if b.redis != nil {
			twoFAStore = stores.NewRedisTwoFACodeStore(b.redis, cfg.Challenge.TTL)
		} else {
			twoFAStore = stores.NewMemoryTwoFACodeStore(cfg.Challenge.TTL)
		}
	}

	tokens, err := jwt.NewManager(jwt.Config{
		TTL:           cfg.JWT.TokenTTL,
		SigningMethod: jwt.SigningMethod(cfg.JWT.SigningMethod),
		PrivateKey:    cloneBytes(cfg.JWT.PrivateKey),
		PublicKey:     cloneBytes(cfg.JWT.PublicKey),
		Leeway:        cfg.JWT.Leeway,
	})
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		config:     cfg,
		users:      userStore,
		banned:     bannedStore,
		challenges: twoFAStore,
		passwords:  pool,
		tokens:     tokens,
		mailer:     b.emailClient,
		audit:      newAuditDispatcher(cfg.Audit, b.auditSink),
	}

	b.built = true

	return engine, nil
}
