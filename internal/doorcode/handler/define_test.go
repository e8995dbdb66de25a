package handler

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/doorcode/internal/doorcode/domain"
	"github.com/aussiebroadwan/doorcode/internal/doorcode/service"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func defineEvent(session ...*events.CognitoEventUserPoolsChallengeResult) events.CognitoEventUserPoolsDefineAuthChallenge {
	return events.CognitoEventUserPoolsDefineAuthChallenge{
		CognitoEventUserPoolsHeader: events.CognitoEventUserPoolsHeader{
			TriggerSource: "DefineAuthChallenge_Authentication",
			UserPoolID:    "ap-southeast-2_test",
			UserName:      "alice",
		},
		Request: events.CognitoEventUserPoolsDefineAuthChallengeRequest{
			Session: session,
		},
	}
}

func round(correct bool) *events.CognitoEventUserPoolsChallengeResult {
	return &events.CognitoEventUserPoolsChallengeResult{
		ChallengeName:   domain.ChallengeName,
		ChallengeResult: correct,
	}
}

func TestDefineHandler(t *testing.T) {
	t.Parallel()

	h := &DefineHandler{
		Service: &service.DefineService{MaxAttempts: 3},
		Logger:  testLogger(),
	}

	t.Run("first round issues a custom challenge", func(t *testing.T) {
		out, err := h.Handle(context.Background(), defineEvent())
		require.NoError(t, err)
		require.Equal(t, domain.ChallengeName, out.Response.ChallengeName)
		require.False(t, out.Response.IssueTokens)
		require.False(t, out.Response.FailAuthentication)
	})

	t.Run("correct answer issues tokens", func(t *testing.T) {
		out, err := h.Handle(context.Background(), defineEvent(round(false), round(true)))
		require.NoError(t, err)
		require.True(t, out.Response.IssueTokens)
		require.False(t, out.Response.FailAuthentication)
	})

	t.Run("exhausted attempts fail authentication", func(t *testing.T) {
		out, err := h.Handle(context.Background(), defineEvent(round(false), round(false), round(false)))
		require.NoError(t, err)
		require.False(t, out.Response.IssueTokens)
		require.True(t, out.Response.FailAuthentication)
	})

	t.Run("unknown user fails without a handler error", func(t *testing.T) {
		event := defineEvent()
		event.Request.UserNotFound = true

		out, err := h.Handle(context.Background(), event)
		require.NoError(t, err)
		require.True(t, out.Response.FailAuthentication)
	})

	t.Run("foreign session entries fail the attempt", func(t *testing.T) {
		event := defineEvent(&events.CognitoEventUserPoolsChallengeResult{
			ChallengeName:   "SRP_A",
			ChallengeResult: true,
		})

		out, err := h.Handle(context.Background(), event)
		require.NoError(t, err)
		require.True(t, out.Response.FailAuthentication)
		require.False(t, out.Response.IssueTokens)
	})

	t.Run("nil session padding is ignored", func(t *testing.T) {
		out, err := h.Handle(context.Background(), defineEvent(nil, round(true)))
		require.NoError(t, err)
		require.True(t, out.Response.IssueTokens)
	})
}
