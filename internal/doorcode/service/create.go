package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/doorcode/internal/doorcode/domain"
	"github.com/aussiebroadwan/doorcode/internal/doorcode/magiclink"
	"github.com/aussiebroadwan/doorcode/internal/doorcode/notify"
	"github.com/aussiebroadwan/doorcode/internal/doorcode/throttle"
	"github.com/aussiebroadwan/doorcode/pkg/idx"
	"github.com/aussiebroadwan/doorcode/pkg/otpx"
)

// DefaultCodeTTL bounds how long a dispatched code stays answerable.
// The orchestrator's own session timeout is shorter in practice.
const DefaultCodeTTL = 3 * time.Minute

var (
	// ErrNoContactMethod means the user has no verified destination a
	// challenge could be delivered to.
	ErrNoContactMethod = errors.New("doorcode: no verified contact method")

	// ErrMethodUnavailable means the requested sign-in method is not
	// usable for this user or deployment (no enrolled authenticator,
	// magic links not configured, link requested without email).
	ErrMethodUnavailable = errors.New("doorcode: sign-in method unavailable")

	// ErrSecretGeneration wraps randomness failures while minting the
	// one-time secret.
	ErrSecretGeneration = errors.New("doorcode: failed to generate secret")
)

// CreateService mints a fresh one-time secret, stores its fingerprint in
// session-private state, and dispatches it over exactly one channel.
// Verified email wins over verified phone; there is no fallback between
// channels, a failed send fails the attempt.
type CreateService struct {
	Email notify.EmailSender
	SMS   notify.SMSSender

	// Links enables the magic-link method when non-nil.
	Links *magiclink.Issuer

	// Limiter enforces the per-destination send budget when non-nil.
	Limiter *throttle.Limiter

	CodeDigits int           // zero means otpx.DefaultDigits
	CodeTTL    time.Duration // zero means DefaultCodeTTL

	Now func() time.Time // test hook, nil means time.Now
}

func (s *CreateService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *CreateService) codeDigits() int {
	if s.CodeDigits > 0 {
		return s.CodeDigits
	}
	return otpx.DefaultDigits
}

func (s *CreateService) codeTTL() time.Duration {
	if s.CodeTTL > 0 {
		return s.CodeTTL
	}
	return DefaultCodeTTL
}

// Create produces the challenge for one round. Every invocation mints an
// independent fresh secret; on a retry round the new private state
// replaces the old, so at most one secret is ever answerable.
func (s *CreateService) Create(ctx context.Context, user domain.Identity, method domain.Method) (domain.Challenge, error) {
	switch method {
	case domain.MethodTOTP:
		return s.createTOTP(user)
	case domain.MethodCode, domain.MethodLink:
		return s.createDelivered(ctx, user, method)
	default:
		return domain.Challenge{}, domain.ErrUnknownMethod
	}
}

// createTOTP marks the round as an authenticator-app challenge. Nothing
// is sent and no secret is minted; the answer is checked against the
// user's enrolled secret at verify time.
func (s *CreateService) createTOTP(user domain.Identity) (domain.Challenge, error) {
	if user.TOTPSecret == "" {
		return domain.Challenge{}, fmt.Errorf("%w: no enrolled authenticator", ErrMethodUnavailable)
	}

	return domain.Challenge{
		Public: map[string]string{
			domain.ParamMethod:  string(domain.MethodTOTP),
			domain.ParamChannel: string(domain.ChannelNone),
		},
		Private: map[string]string{
			domain.ParamMethod: string(domain.MethodTOTP),
		},
		Metadata: string(domain.MethodTOTP),
	}, nil
}

func (s *CreateService) createDelivered(ctx context.Context, user domain.Identity, method domain.Method) (domain.Challenge, error) {
	channel, destination, err := s.chooseChannel(user, method)
	if err != nil {
		return domain.Challenge{}, err
	}

	code, err := otpx.GenerateCode(s.codeDigits())
	if err != nil {
		return domain.Challenge{}, fmt.Errorf("%w: %v", ErrSecretGeneration, err)
	}
	fingerprint := otpx.Fingerprint(code)
	expiresAt := s.now().Add(s.codeTTL())

	if s.Limiter != nil {
		if err := s.Limiter.Allow(ctx, destination); err != nil {
			return domain.Challenge{}, err
		}
	}

	deliveryID := idx.New()

	switch {
	case method == domain.MethodLink:
		_, link, err := s.Links.Issue(user.Username, fingerprint)
		if err != nil {
			return domain.Challenge{}, err
		}
		if err := s.Email.Send(ctx, linkEmail(destination, link)); err != nil {
			return domain.Challenge{}, err
		}

	case channel == domain.ChannelEmail:
		if err := s.Email.Send(ctx, codeEmail(destination, code, s.codeTTL())); err != nil {
			return domain.Challenge{}, err
		}

	default:
		if err := s.SMS.Send(ctx, codeSMS(destination, code)); err != nil {
			return domain.Challenge{}, err
		}
	}

	return domain.Challenge{
		Public: map[string]string{
			domain.ParamMethod:      string(method),
			domain.ParamChannel:     string(channel),
			domain.ParamDestination: maskDestination(destination),
			domain.ParamDeliveryID:  deliveryID.String(),
		},
		Private: map[string]string{
			domain.ParamMethod:      string(method),
			domain.ParamFingerprint: fingerprint,
			domain.ParamExpiresAt:   expiresAt.UTC().Format(time.RFC3339),
		},
		Metadata: string(method),
	}, nil
}

// chooseChannel applies the fixed delivery rule: verified email first,
// then verified phone. Magic links only travel by email.
func (s *CreateService) chooseChannel(user domain.Identity, method domain.Method) (domain.Channel, string, error) {
	if method == domain.MethodLink {
		if s.Links == nil {
			return "", "", fmt.Errorf("%w: magic links not configured", ErrMethodUnavailable)
		}
		if user.Email == "" || !user.EmailVerified {
			return "", "", fmt.Errorf("%w: magic links require a verified email", ErrMethodUnavailable)
		}
		return domain.ChannelEmail, user.Email, nil
	}

	switch {
	case user.Email != "" && user.EmailVerified && s.Email != nil:
		return domain.ChannelEmail, user.Email, nil
	case user.Phone != "" && user.PhoneVerified && s.SMS != nil:
		return domain.ChannelSMS, user.Phone, nil
	default:
		return "", "", ErrNoContactMethod
	}
}

func codeEmail(to, code string, ttl time.Duration) notify.Email {
	minutes := int(ttl.Minutes())
	return notify.Email{
		To:      to,
		Subject: "Your sign-in code",
		Text:    fmt.Sprintf("Your sign-in code is %s. It expires in %d minutes.", code, minutes),
		HTML:    fmt.Sprintf("<p>Your sign-in code is <strong>%s</strong>.</p><p>It expires in %d minutes.</p>", code, minutes),
	}
}

func linkEmail(to, link string) notify.Email {
	return notify.Email{
		To:      to,
		Subject: "Your sign-in link",
		Text:    fmt.Sprintf("Open this link to sign in: %s", link),
		HTML:    fmt.Sprintf(`<p><a href=%q>Click here to sign in</a>.</p>`, link),
	}
}

func codeSMS(to, code string) notify.SMS {
	return notify.SMS{
		To:   to,
		Body: fmt.Sprintf("Your sign-in code is %s", code),
	}
}

// maskDestination hides most of an address so it can be echoed back to
// the client as a delivery hint.
func maskDestination(dest string) string {
	if at := strings.IndexByte(dest, '@'); at > 0 {
		return dest[:1] + "***@" + dest[at+1:]
	}
	if len(dest) > 3 {
		return "***" + dest[len(dest)-3:]
	}
	return "***"
}
