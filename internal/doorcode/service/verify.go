package service

import (
	"time"

	"github.com/pquerna/otp/totp"

	"github.com/aussiebroadwan/doorcode/internal/doorcode/domain"
	"github.com/aussiebroadwan/doorcode/internal/doorcode/magiclink"
	"github.com/aussiebroadwan/doorcode/pkg/otpx"
)

// VerifyService checks a submitted answer against the session-private
// expected secret. Purely a comparison: an incorrect answer is a normal
// false outcome for the orchestrator to record, never an error.
type VerifyService struct {
	// Links verifies magic-link answers when non-nil.
	Links *magiclink.Issuer

	Now func() time.Time // test hook, nil means time.Now
}

func (s *VerifyService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Verify reports whether answer matches the secret described by the
// private challenge parameters. Expired secrets never verify, regardless
// of the answer. Anything malformed — unknown method, missing
// parameters, unparseable expiry — verifies false rather than erroring,
// since a tampered session must read as an incorrect answer.
func (s *VerifyService) Verify(answer string, private map[string]string, user domain.Identity) bool {
	if answer == "" {
		return false
	}

	switch domain.Method(private[domain.ParamMethod]) {
	case domain.MethodTOTP:
		return user.TOTPSecret != "" && totp.Validate(answer, user.TOTPSecret)

	case domain.MethodLink:
		if s.Links == nil || s.expired(private) {
			return false
		}
		fingerprint, err := s.Links.Verify(answer, user.Username)
		if err != nil {
			return false
		}
		return otpx.FingerprintEqual(fingerprint, private[domain.ParamFingerprint])

	case domain.MethodCode:
		if s.expired(private) {
			return false
		}
		return otpx.Match(answer, private[domain.ParamFingerprint])

	default:
		return false
	}
}

// expired reports whether the private expiry has passed. A missing or
// unparseable expiry counts as expired.
func (s *VerifyService) expired(private map[string]string) bool {
	raw, ok := private[domain.ParamExpiresAt]
	if !ok {
		return true
	}

	expiresAt, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return true
	}

	return !s.now().Before(expiresAt)
}
