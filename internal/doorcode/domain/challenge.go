package domain

import "errors"

// ChallengeName is the only challenge this suite ever issues. Cognito
// session entries carrying anything else did not come from us.
const ChallengeName = "CUSTOM_CHALLENGE"

// Decision is the outcome of the define step for one round of the
// challenge loop.
type Decision int

const (
	// DecisionIssueChallenge asks the orchestrator to run another
	// create/verify round.
	DecisionIssueChallenge Decision = iota
	// DecisionSucceed completes the attempt and lets the platform mint
	// tokens.
	DecisionSucceed
	// DecisionFail terminates the attempt with an authentication failure.
	DecisionFail
)

func (d Decision) String() string {
	switch d {
	case DecisionIssueChallenge:
		return "issue_challenge"
	case DecisionSucceed:
		return "succeed"
	case DecisionFail:
		return "fail"
	default:
		return "unknown"
	}
}

// ChallengeAttempt is one entry in the session history: the challenge
// that was presented and whether the answer was correct. Immutable once
// recorded by the orchestrator.
type ChallengeAttempt struct {
	ChallengeName string
	Correct       bool
	Metadata      string
}

// ErrMalformedHistory reports a session history this suite could not
// have produced (empty or foreign challenge names). The define step
// treats it as fatal for the attempt.
var ErrMalformedHistory = errors.New("doorcode: malformed challenge history")

// Method selects how the one-time secret reaches the user. Clients pick
// a method per attempt via the ClientMetadataMethodKey entry; absent or
// empty means MethodCode.
type Method string

const (
	// MethodCode delivers a numeric one-time code by email or SMS.
	MethodCode Method = "code"
	// MethodLink delivers a signed magic link by email.
	MethodLink Method = "link"
	// MethodTOTP expects a code from the user's enrolled authenticator
	// app; nothing is sent.
	MethodTOTP Method = "totp"
)

// ClientMetadataMethodKey is the clientMetadata entry that carries the
// requested sign-in method.
const ClientMetadataMethodKey = "doorcode:method"

// ErrUnknownMethod reports a sign-in method this suite does not support.
var ErrUnknownMethod = errors.New("doorcode: unknown sign-in method")

// ParseMethod maps a clientMetadata value to a Method. The empty string
// selects the default code method.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case "":
		return MethodCode, nil
	case MethodCode, MethodLink, MethodTOTP:
		return Method(s), nil
	default:
		return "", ErrUnknownMethod
	}
}

// Channel is the notification channel a code was dispatched over.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	// ChannelNone marks methods that send nothing (authenticator app).
	ChannelNone Channel = "none"
)

// Private challenge parameter keys. These round-trip through the
// orchestrator's session between the create and verify steps and are
// never shown to the client.
const (
	ParamFingerprint = "fingerprint"
	ParamExpiresAt   = "expires_at"
	ParamMethod      = "method"
)

// Public challenge parameter keys, surfaced to the client alongside the
// challenge prompt. Nothing secret may ever land here.
const (
	ParamChannel     = "channel"
	ParamDestination = "destination"
	ParamDeliveryID  = "delivery_id"
)

// Challenge is the output of the create step: parameters for the client,
// session-private verification state, and a metadata tag recorded in the
// session history.
type Challenge struct {
	Public   map[string]string
	Private  map[string]string
	Metadata string
}
