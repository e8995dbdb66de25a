package service

import (
	"github.com/aussiebroadwan/doorcode/internal/doorcode/domain"
)

// DefaultMaxAttempts is how many rounds a user gets before the attempt
// is failed outright.
const DefaultMaxAttempts = 3

// DefineService decides, per round of the challenge loop, whether to
// issue another challenge, complete the sign-in, or fail the attempt.
// It is pure: the same history always yields the same decision.
type DefineService struct {
	MaxAttempts int // zero means DefaultMaxAttempts
}

func (s *DefineService) maxAttempts() int {
	if s.MaxAttempts > 0 {
		return s.MaxAttempts
	}
	return DefaultMaxAttempts
}

// Decide maps the session history (ordered, oldest first) to a decision:
//
//   - empty history: issue the first challenge
//   - most recent answer correct: succeed
//   - max attempts reached without a correct answer: fail
//   - otherwise: issue another challenge
//
// A history containing anything other than our own challenge entries is
// malformed and fails the attempt.
func (s *DefineService) Decide(history []domain.ChallengeAttempt) (domain.Decision, error) {
	for _, attempt := range history {
		if attempt.ChallengeName != domain.ChallengeName {
			return domain.DecisionFail, domain.ErrMalformedHistory
		}
	}

	if len(history) == 0 {
		return domain.DecisionIssueChallenge, nil
	}

	if history[len(history)-1].Correct {
		return domain.DecisionSucceed, nil
	}

	if len(history) >= s.maxAttempts() {
		return domain.DecisionFail, nil
	}

	return domain.DecisionIssueChallenge, nil
}
