package authcore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/authcore/email"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.JWT.PrivateKey = []byte("0123456789abcdef0123456789abcdef")
	// Floor parameters keep the Argon2 work per test call small.
	cfg.Password.Memory = 8 * 1024
	cfg.Password.Time = 1
	cfg.Password.Parallelism = 1
	return cfg
}

func newTestEngine(t *testing.T, cfg Config) (*Engine, *miniredis.Miniredis, *email.MockClient) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	mailer := email.NewMockClient()

	engine, err := New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithEmailClient(mailer).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine, mr, mailer
}

func signupUser(t *testing.T, engine *Engine, emailAddr, pw string, requires2FA bool) {
	t.Helper()
	if err := engine.Signup(context.Background(), emailAddr, pw, requires2FA); err != nil {
		t.Fatalf("Signup failed: %v", err)
	}
}

func TestSignupLoginLogoutLifecycle(t *testing.T) {
	engine, _, _ := newTestEngine(t, testConfig())
	ctx := context.Background()

	signupUser(t, engine, "alice@example.com", "correct-horse-battery", false)

	result, err := engine.Login(ctx, "alice@example.com", "correct-horse-battery")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if result.TwoFARequired || result.Token == "" {
		t.Fatalf("expected direct token, got %+v", result)
	}

	claims, err := engine.VerifyToken(ctx, result.Token)
	if err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}
	if claims.Email() != "alice@example.com" {
		t.Fatalf("unexpected token subject: %q", claims.Email())
	}

	if err := engine.Logout(ctx, result.Token); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if _, err := engine.VerifyToken(ctx, result.Token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after logout, got %v", err)
	}
	if err := engine.Logout(ctx, result.Token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected second logout to fail with ErrInvalidToken, got %v", err)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	engine, _, _ := newTestEngine(t, testConfig())
	ctx := context.Background()

	signupUser(t, engine, "alice@example.com", "correct-horse-battery", false)

	err := engine.Signup(ctx, "alice@example.com", "another-password-9", true)
	if !errors.Is(err, ErrUserAlreadyExists) {
		t.Fatalf("expected ErrUserAlreadyExists, got %v", err)
	}
}

func TestSignupRejectsMalformedInput(t *testing.T) {
	engine, _, _ := newTestEngine(t, testConfig())
	ctx := context.Background()

	if err := engine.Signup(ctx, "not-an-email", "correct-horse-battery", false); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad email, got %v", err)
	}
	if err := engine.Signup(ctx, "alice@example.com", "short", false); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for short password, got %v", err)
	}
}

func TestLoginCollapsesUnknownUserAndWrongPassword(t *testing.T) {
	engine, _, _ := newTestEngine(t, testConfig())
	ctx := context.Background()

	signupUser(t, engine, "alice@example.com", "correct-horse-battery", false)

	_, wrongPW := engine.Login(ctx, "alice@example.com", "wrong-password-123")
	_, unknown := engine.Login(ctx, "nobody@example.com", "wrong-password-123")

	if !errors.Is(wrongPW, ErrIncorrectCredentials) {
		t.Fatalf("expected ErrIncorrectCredentials for wrong password, got %v", wrongPW)
	}
	if !errors.Is(unknown, ErrIncorrectCredentials) {
		t.Fatalf("expected ErrIncorrectCredentials for unknown user, got %v", unknown)
	}
}

func TestTwoFALoginFlow(t *testing.T) {
	engine, _, mailer := newTestEngine(t, testConfig())
	ctx := context.Background()

	signupUser(t, engine, "bob@example.com", "correct-horse-battery", true)

	result, err := engine.Login(ctx, "bob@example.com", "correct-horse-battery")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if !result.TwoFARequired || result.LoginAttemptID == "" {
		t.Fatalf("expected 2FA challenge, got %+v", result)
	}
	if result.Token != "" {
		t.Fatal("expected no token before 2FA verification")
	}

	messages := mailer.Messages()
	if len(messages) != 1 {
		t.Fatalf("expected one email, got %d", len(messages))
	}
	if messages[0].Subject != "2FA code has been sent!" {
		t.Fatalf("unexpected subject: %q", messages[0].Subject)
	}
	code := messages[0].Body
	if len(code) != 6 {
		t.Fatalf("expected 6-digit code in email body, got %q", code)
	}

	token, err := engine.VerifyTwoFA(ctx, "bob@example.com", result.LoginAttemptID, code)
	if err != nil {
		t.Fatalf("VerifyTwoFA failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected a token after 2FA verification")
	}
	if _, err := engine.VerifyToken(ctx, token); err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}

	// The challenge was consumed. Same pair again must fail.
	if _, err := engine.VerifyTwoFA(ctx, "bob@example.com", result.LoginAttemptID, code); !errors.Is(err, ErrIncorrectCredentials) {
		t.Fatalf("expected ErrIncorrectCredentials on reuse, got %v", err)
	}
}

func TestTwoFAWrongGuessLeavesChallengeAlive(t *testing.T) {
	engine, _, mailer := newTestEngine(t, testConfig())
	ctx := context.Background()

	signupUser(t, engine, "bob@example.com", "correct-horse-battery", true)

	result, err := engine.Login(ctx, "bob@example.com", "correct-horse-battery")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	code := mailer.Messages()[0].Body

	wrongCode := "100000"
	if wrongCode == code {
		wrongCode = "100001"
	}
	if _, err := engine.VerifyTwoFA(ctx, "bob@example.com", result.LoginAttemptID, wrongCode); !errors.Is(err, ErrIncorrectCredentials) {
		t.Fatalf("expected ErrIncorrectCredentials for wrong code, got %v", err)
	}

	// The real pair still redeems.
	if _, err := engine.VerifyTwoFA(ctx, "bob@example.com", result.LoginAttemptID, code); err != nil {
		t.Fatalf("VerifyTwoFA after wrong guess failed: %v", err)
	}
}

func TestSecondLoginDuringLiveChallenge(t *testing.T) {
	engine, _, mailer := newTestEngine(t, testConfig())
	ctx := context.Background()

	signupUser(t, engine, "bob@example.com", "correct-horse-battery", true)

	first, err := engine.Login(ctx, "bob@example.com", "correct-horse-battery")
	if err != nil {
		t.Fatalf("first Login failed: %v", err)
	}

	if _, err := engine.Login(ctx, "bob@example.com", "correct-horse-battery"); !errors.Is(err, ErrChallengePending) {
		t.Fatalf("expected ErrChallengePending, got %v", err)
	}
	if len(mailer.Messages()) != 1 {
		t.Fatalf("expected no second email, got %d messages", len(mailer.Messages()))
	}

	// The original challenge survived the rejected login.
	code := mailer.Messages()[0].Body
	if _, err := engine.VerifyTwoFA(ctx, "bob@example.com", first.LoginAttemptID, code); err != nil {
		t.Fatalf("VerifyTwoFA failed: %v", err)
	}
}

func TestChallengeExpiresByTTL(t *testing.T) {
	cfg := testConfig()
	engine, mr, mailer := newTestEngine(t, cfg)
	ctx := context.Background()

	signupUser(t, engine, "bob@example.com", "correct-horse-battery", true)

	result, err := engine.Login(ctx, "bob@example.com", "correct-horse-battery")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	code := mailer.Messages()[0].Body

	mr.FastForward(cfg.Challenge.TTL + time.Second)

	if _, err := engine.VerifyTwoFA(ctx, "bob@example.com", result.LoginAttemptID, code); !errors.Is(err, ErrIncorrectCredentials) {
		t.Fatalf("expected ErrIncorrectCredentials after TTL, got %v", err)
	}

	// The slot is free again: a fresh login issues a new challenge.
	second, err := engine.Login(ctx, "bob@example.com", "correct-horse-battery")
	if err != nil {
		t.Fatalf("Login after expiry failed: %v", err)
	}
	newCode := mailer.Messages()[1].Body
	if _, err := engine.VerifyTwoFA(ctx, "bob@example.com", second.LoginAttemptID, newCode); err != nil {
		t.Fatalf("VerifyTwoFA with fresh challenge failed: %v", err)
	}
}

func TestVerifyTwoFARejectsMalformedShapes(t *testing.T) {
	engine, _, _ := newTestEngine(t, testConfig())
	ctx := context.Background()

	cases := []struct {
		name      string
		email     string
		attemptID string
		code      string
	}{
		{"bad email", "nope", "6e9f6c25-45f7-47b5-9e34-e19e1ad1e0a3", "123456"},
		{"bad attempt id", "bob@example.com", "not-a-uuid", "123456"},
		{"short code", "bob@example.com", "6e9f6c25-45f7-47b5-9e34-e19e1ad1e0a3", "12345"},
		{"out of range code", "bob@example.com", "6e9f6c25-45f7-47b5-9e34-e19e1ad1e0a3", "099999"},
	}
	for _, tc := range cases {
		if _, err := engine.VerifyTwoFA(ctx, tc.email, tc.attemptID, tc.code); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("%s: expected ErrInvalidCredentials, got %v", tc.name, err)
		}
	}
}

func TestLogoutBanOutlivesTokenWindow(t *testing.T) {
	cfg := testConfig()
	cfg.JWT.TokenTTL = time.Hour
	engine, mr, _ := newTestEngine(t, cfg)
	ctx := context.Background()

	signupUser(t, engine, "alice@example.com", "correct-horse-battery", false)
	result, err := engine.Login(ctx, "alice@example.com", "correct-horse-battery")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if err := engine.Logout(ctx, result.Token); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	key := "banned_token:" + result.Token
	if !mr.Exists(key) {
		t.Fatal("expected ban entry in redis after logout")
	}
	// The ban entry must stay recorded at least as long as the token itself
	// could still validate.
	if ttl := mr.TTL(key); ttl < cfg.JWT.TokenTTL {
		t.Fatalf("ban TTL %v shorter than token TTL %v", ttl, cfg.JWT.TokenTTL)
	}
}

func TestVerifyTokenRejectsGarbageAndMissing(t *testing.T) {
	engine, _, _ := newTestEngine(t, testConfig())
	ctx := context.Background()

	if _, err := engine.VerifyToken(ctx, ""); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
	if _, err := engine.VerifyToken(ctx, "not.a.jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
	if err := engine.Logout(ctx, ""); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken from Logout, got %v", err)
	}
}

func TestEmailFailureFailsLogin(t *testing.T) {
	engine, _, mailer := newTestEngine(t, testConfig())
	ctx := context.Background()

	signupUser(t, engine, "bob@example.com", "correct-horse-battery", true)
	mailer.FailWith(errors.New("postmark down"))

	if _, err := engine.Login(ctx, "bob@example.com", "correct-horse-battery"); !errors.Is(err, ErrUnexpected) {
		t.Fatalf("expected ErrUnexpected when delivery fails, got %v", err)
	}
}

func TestAuditEventsFlowToSink(t *testing.T) {
	cfg := testConfig()
	cfg.Audit.Enabled = true

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	sink := NewChannelSink(16)
	engine, err := New().
		WithConfig(cfg).
		WithRedis(rdb).
		WithEmailClient(email.NewMockClient()).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	ctx := context.Background()
	signupUser(t, engine, "alice@example.com", "correct-horse-battery", false)
	if _, err := engine.Login(ctx, "alice@example.com", "wrong-password-123"); !errors.Is(err, ErrIncorrectCredentials) {
		t.Fatalf("expected ErrIncorrectCredentials, got %v", err)
	}

	waitEvent := func(want string) AuditEvent {
		t.Helper()
		select {
		case event := <-sink.Events():
			if event.EventType != want {
				t.Fatalf("expected %s event, got %s", want, event.EventType)
			}
			return event
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %s event", want)
			return AuditEvent{}
		}
	}

	signup := waitEvent(auditEventSignupSuccess)
	if !signup.Success || signup.Email != "alice@example.com" {
		t.Fatalf("unexpected signup event: %+v", signup)
	}

	failure := waitEvent(auditEventLoginFailure)
	if failure.Success || failure.Error != string(auditErrIncorrectCredentials) {
		t.Fatalf("unexpected login failure event: %+v", failure)
	}
}

func TestBuilderIsSingleUseAndValidates(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	builder := New().
		WithConfig(testConfig()).
		WithRedis(rdb).
		WithEmailClient(email.NewMockClient())

	engine, err := builder.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	if _, err := builder.Build(); err == nil {
		t.Fatal("expected second Build to fail")
	}

	if _, err := New().WithConfig(testConfig()).Build(); err == nil {
		t.Fatal("expected Build without email client to fail")
	}

	noKey := testConfig()
	noKey.JWT.PrivateKey = nil
	if _, err := New().WithConfig(noKey).WithEmailClient(email.NewMockClient()).Build(); err == nil {
		t.Fatal("expected Build without signing key to fail")
	}
}

func TestConfigValidate(t *testing.T) {
	bad := func(mutate func(*Config)) error {
		cfg := testConfig()
		mutate(&cfg)
		return cfg.Validate()
	}

	if err := bad(func(c *Config) {}); err != nil {
		t.Fatalf("baseline config should validate, got %v", err)
	}
	if err := bad(func(c *Config) { c.JWT.TokenTTL = 0 }); err == nil {
		t.Fatal("expected zero TokenTTL to be rejected")
	}
	if err := bad(func(c *Config) { c.JWT.SigningMethod = "rs256" }); err == nil {
		t.Fatal("expected unsupported signing method to be rejected")
	}
	if err := bad(func(c *Config) { c.Challenge.TTL = 0 }); err == nil {
		t.Fatal("expected zero challenge TTL to be rejected")
	}
	if err := bad(func(c *Config) { c.Revocation.BanTTL = time.Second }); err == nil {
		t.Fatal("expected BanTTL shorter than TokenTTL to be rejected")
	}
	if err := bad(func(c *Config) { c.Password.Memory = 1024 }); err == nil {
		t.Fatal("expected sub-minimum Argon2 memory to be rejected")
	}
}

func TestInMemoryBackendsWithoutRedis(t *testing.T) {
	mailer := email.NewMockClient()
	engine, err := New().
		WithConfig(testConfig()).
		WithEmailClient(mailer).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	ctx := context.Background()
	signupUser(t, engine, "bob@example.com", "correct-horse-battery", true)

	result, err := engine.Login(ctx, "bob@example.com", "correct-horse-battery")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	code := mailer.Messages()[0].Body
	token, err := engine.VerifyTwoFA(ctx, "bob@example.com", result.LoginAttemptID, code)
	if err != nil {
		t.Fatalf("VerifyTwoFA failed: %v", err)
	}
	if err := engine.Logout(ctx, token); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if _, err := engine.VerifyToken(ctx, token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken after logout, got %v", err)
	}
}
