package handler

import (
	"context"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"

	"github.com/aussiebroadwan/doorcode/internal/doorcode/domain"
	"github.com/aussiebroadwan/doorcode/internal/doorcode/service"
	"github.com/aussiebroadwan/doorcode/pkg/slogx"
)

// PreSignupHandler reviews sign-ups before the account is created.
type PreSignupHandler struct {
	Service *service.PreSignupService
	Logger  *slog.Logger
}

// Handle approves or denies the candidate. A returned error makes the
// platform reject the sign-up and surface the reason to the client.
func (h *PreSignupHandler) Handle(ctx context.Context, event events.CognitoEventUserPoolsPreSignup) (events.CognitoEventUserPoolsPreSignup, error) {
	ctx = invocationContext(ctx, h.Logger, event.CognitoEventUserPoolsHeader)
	log := slogx.FromContext(ctx)

	user := domain.IdentityFromAttributes(event.UserName, event.Request.UserAttributes)

	decision, err := h.Service.Review(user)
	if err != nil {
		log.Warn("sign-up denied", "err", err)
		return event, err
	}

	event.Response.AutoConfirmUser = decision.AutoConfirm
	event.Response.AutoVerifyEmail = decision.VerifyEmail
	event.Response.AutoVerifyPhone = decision.VerifyPhone

	log.Info("sign-up reviewed",
		"auto_confirm", decision.AutoConfirm,
		"verify_email", decision.VerifyEmail,
		"verify_phone", decision.VerifyPhone,
	)
	return event, nil
}
