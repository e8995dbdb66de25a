package service

import (
	"context"

	"github.com/aussiebroadwan/doorcode/internal/doorcode/domain"
)

// AttributeUpdater is the administrative directory operation the
// post-authentication hook needs.
type AttributeUpdater interface {
	MarkVerified(ctx context.Context, username string, attrs ...string) error
}

// PostAuthService runs after every successful full authentication. A
// completed challenge proves the user controls the contact method it was
// delivered to, so the matching verified flag is flipped on the durable
// record. Idempotent: already-verified attributes are skipped, repeated
// logins converge on the same state.
type PostAuthService struct {
	Directory AttributeUpdater
}

// Confirm flips the pending verification flags for the signed-in user.
func (s *PostAuthService) Confirm(ctx context.Context, user domain.Identity) error {
	var pending []string

	if user.Email != "" && !user.EmailVerified {
		pending = append(pending, domain.AttrEmailVerified)
	}
	if user.Phone != "" && !user.PhoneVerified {
		pending = append(pending, domain.AttrPhoneVerified)
	}

	if len(pending) == 0 {
		return nil
	}

	return s.Directory.MarkVerified(ctx, user.Username, pending...)
}
