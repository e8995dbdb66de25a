package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/doorcode/internal/doorcode/domain"
)

func wrong() domain.ChallengeAttempt {
	return domain.ChallengeAttempt{ChallengeName: domain.ChallengeName, Correct: false}
}

func right() domain.ChallengeAttempt {
	return domain.ChallengeAttempt{ChallengeName: domain.ChallengeName, Correct: true}
}

func TestDefineDecide(t *testing.T) {
	t.Parallel()

	svc := &DefineService{MaxAttempts: 3}

	t.Run("empty history issues a challenge", func(t *testing.T) {
		decision, err := svc.Decide(nil)
		require.NoError(t, err)
		require.Equal(t, domain.DecisionIssueChallenge, decision)

		decision, err = svc.Decide([]domain.ChallengeAttempt{})
		require.NoError(t, err)
		require.Equal(t, domain.DecisionIssueChallenge, decision)
	})

	t.Run("most recent correct answer succeeds", func(t *testing.T) {
		for _, history := range [][]domain.ChallengeAttempt{
			{right()},
			{wrong(), right()},
			{wrong(), wrong(), right()},
		} {
			decision, err := svc.Decide(history)
			require.NoError(t, err)
			require.Equal(t, domain.DecisionSucceed, decision)
		}
	})

	t.Run("wrong answers below the limit issue again", func(t *testing.T) {
		for _, history := range [][]domain.ChallengeAttempt{
			{wrong()},
			{wrong(), wrong()},
		} {
			decision, err := svc.Decide(history)
			require.NoError(t, err)
			require.Equal(t, domain.DecisionIssueChallenge, decision)
		}
	})

	t.Run("exhausted attempts fail", func(t *testing.T) {
		decision, err := svc.Decide([]domain.ChallengeAttempt{wrong(), wrong(), wrong()})
		require.NoError(t, err)
		require.Equal(t, domain.DecisionFail, decision)

		decision, err = svc.Decide([]domain.ChallengeAttempt{wrong(), wrong(), wrong(), wrong()})
		require.NoError(t, err)
		require.Equal(t, domain.DecisionFail, decision)
	})

	t.Run("a stale correct answer does not succeed", func(t *testing.T) {
		decision, err := svc.Decide([]domain.ChallengeAttempt{right(), wrong()})
		require.NoError(t, err)
		require.Equal(t, domain.DecisionIssueChallenge, decision)
	})

	t.Run("deterministic for the same history", func(t *testing.T) {
		history := []domain.ChallengeAttempt{wrong(), wrong()}
		first, err := svc.Decide(history)
		require.NoError(t, err)
		for range 5 {
			again, err := svc.Decide(history)
			require.NoError(t, err)
			require.Equal(t, first, again)
		}
	})

	t.Run("foreign challenge entries are malformed", func(t *testing.T) {
		decision, err := svc.Decide([]domain.ChallengeAttempt{
			{ChallengeName: "PASSWORD_VERIFIER", Correct: true},
		})
		require.ErrorIs(t, err, domain.ErrMalformedHistory)
		require.Equal(t, domain.DecisionFail, decision)

		decision, err = svc.Decide([]domain.ChallengeAttempt{wrong(), {ChallengeName: ""}})
		require.ErrorIs(t, err, domain.ErrMalformedHistory)
		require.Equal(t, domain.DecisionFail, decision)
	})

	t.Run("default max attempts applies", func(t *testing.T) {
		def := &DefineService{}
		decision, err := def.Decide([]domain.ChallengeAttempt{wrong(), wrong(), wrong()})
		require.NoError(t, err)
		require.Equal(t, domain.DecisionFail, decision)
	})
}
