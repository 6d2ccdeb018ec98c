// Package email is the out-of-band notification collaborator used by the
// engine to deliver 2FA codes. The engine depends only on the Client
// interface; delivery mechanics live behind it.
package email

import (
	"context"

	"github.com/MrEthical07/authcore/domain"
)

// Client delivers a message to a recipient address. Implementations must
// treat ctx as the request lifetime and must not log the body, which may
// carry a one-time code.
type Client interface {
	Send(ctx context.Context, recipient domain.Email, subject, body string) error
}
