package password

import (
	"context"
	"errors"
	"runtime"
)

// Pool gates Argon2 work behind a bounded set of worker slots so that hash
// computation for one request cannot monopolize the scheduler and starve
// concurrent I/O-bound requests. Callers block until a slot frees up or their
// context is cancelled; the hash itself runs on the calling goroutine once a
// slot is held.
type Pool struct {
	hasher *Argon2
	slots  chan struct{}
}

// NewPool wraps hasher with a gate of the given width. A non-positive width
// defaults to GOMAXPROCS.
func NewPool(hasher *Argon2, width int) (*Pool, error) {
	if hasher == nil {
		return nil, errors.New("pool requires a hasher")
	}
	if width <= 0 {
		width = runtime.GOMAXPROCS(0)
	}
	return &Pool{
		hasher: hasher,
		slots:  make(chan struct{}, width),
	}, nil
}

// Hash dispatches Argon2.Hash through the gate.
func (p *Pool) Hash(ctx context.Context, password string) (string, error) {
	if err := p.acquire(ctx); err != nil {
		return "", err
	}
	defer p.release()

	return p.hasher.Hash(password)
}

// Verify dispatches Argon2.Verify through the gate.
func (p *Pool) Verify(ctx context.Context, password, encodedHash string) (bool, error) {
	if err := p.acquire(ctx); err != nil {
		return false, err
	}
	defer p.release()

	return p.hasher.Verify(password, encodedHash)
}

// NeedsUpgrade delegates to the wrapped hasher; parsing a PHC string is cheap
// and not gated.
func (p *Pool) NeedsUpgrade(encodedHash string) (bool, error) {
	return p.hasher.NeedsUpgrade(encodedHash)
}

func (p *Pool) acquire(ctx context.Context) error {
	select {
	case p.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) release() {
	<-p.slots
}
