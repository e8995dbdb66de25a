package service

import (
	"github.com/aussiebroadwan/doorcode/internal/doorcode/domain"
)

// SignupDecision is the pre-signup outcome: whether to confirm the
// account immediately and which contact attributes to mark verified
// without a separate verification mail.
type SignupDecision struct {
	AutoConfirm bool
	VerifyEmail bool
	VerifyPhone bool
}

// PreSignupService reviews candidate identities at sign-up time. The
// custom challenge exchange substitutes for the platform's own
// verification step, so confirmed accounts get their contact attributes
// verified up front.
type PreSignupService struct {
	// AutoConfirm skips the platform's confirmation step for every
	// sign-up when enabled.
	AutoConfirm bool
}

// Review approves or denies a candidate. Candidates without any contact
// method are denied: they could never answer a challenge, so the account
// would be unusable from birth.
func (s *PreSignupService) Review(user domain.Identity) (SignupDecision, error) {
	if !user.HasContact() {
		return SignupDecision{}, ErrNoContactMethod
	}

	if !s.AutoConfirm {
		return SignupDecision{}, nil
	}

	return SignupDecision{
		AutoConfirm: true,
		VerifyEmail: user.Email != "",
		VerifyPhone: user.Phone != "",
	}, nil
}
