package handler

import (
	"context"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"

	"github.com/aussiebroadwan/doorcode/internal/doorcode/domain"
	"github.com/aussiebroadwan/doorcode/internal/doorcode/service"
	"github.com/aussiebroadwan/doorcode/pkg/slogx"
)

// VerifyHandler answers the orchestrator's verify-auth-challenge calls.
type VerifyHandler struct {
	Service *service.VerifyService
	Logger  *slog.Logger
}

// Handle compares the submitted answer with the session's expected
// secret. The only output is the correctness flag; an incorrect answer
// is a normal outcome, never a handler error.
func (h *VerifyHandler) Handle(ctx context.Context, event events.CognitoEventUserPoolsVerifyAuthChallenge) (events.CognitoEventUserPoolsVerifyAuthChallenge, error) {
	ctx = invocationContext(ctx, h.Logger, event.CognitoEventUserPoolsHeader)
	log := slogx.FromContext(ctx)

	user := domain.IdentityFromAttributes(event.UserName, event.Request.UserAttributes)

	answer, _ := event.Request.ChallengeAnswer.(string)
	correct := h.Service.Verify(answer, event.Request.PrivateChallengeParameters, user)

	event.Response.AnswerCorrect = correct

	log.Info("challenge answer checked", "correct", correct)
	return event, nil
}
