package handler

import (
	"context"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"

	"github.com/aussiebroadwan/doorcode/internal/doorcode/domain"
	"github.com/aussiebroadwan/doorcode/internal/doorcode/service"
	"github.com/aussiebroadwan/doorcode/pkg/slogx"
)

// DefineHandler answers the orchestrator's define-auth-challenge calls.
type DefineHandler struct {
	Service *service.DefineService
	Logger  *slog.Logger
}

// Handle maps the session history to the next step of the exchange. All
// failures are expressed on the response — returning an error here would
// give the platform nothing to report to the caller.
func (h *DefineHandler) Handle(ctx context.Context, event events.CognitoEventUserPoolsDefineAuthChallenge) (events.CognitoEventUserPoolsDefineAuthChallenge, error) {
	ctx = invocationContext(ctx, h.Logger, event.CognitoEventUserPoolsHeader)
	log := slogx.FromContext(ctx)

	if event.Request.UserNotFound {
		log.Info("unknown user, failing attempt")
		event.Response.FailAuthentication = true
		return event, nil
	}

	history := historyFromSession(event.Request.Session)

	decision, err := h.Service.Decide(history)
	if err != nil {
		log.Error("history rejected, failing attempt", "err", err, "rounds", len(history))
		event.Response.FailAuthentication = true
		return event, nil
	}

	switch decision {
	case domain.DecisionSucceed:
		event.Response.IssueTokens = true
	case domain.DecisionFail:
		event.Response.FailAuthentication = true
	default:
		event.Response.ChallengeName = domain.ChallengeName
	}

	log.Info("challenge decision", "decision", decision.String(), "rounds", len(history))
	return event, nil
}
