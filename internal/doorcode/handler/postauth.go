package handler

import (
	"context"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"

	"github.com/aussiebroadwan/doorcode/internal/doorcode/domain"
	"github.com/aussiebroadwan/doorcode/internal/doorcode/service"
	"github.com/aussiebroadwan/doorcode/pkg/slogx"
)

// PostAuthenticationHandler runs after each successful authentication.
type PostAuthenticationHandler struct {
	Service *service.PostAuthService
	Logger  *slog.Logger
}

// Handle flips pending verification flags on the user's record. The
// user is already signed in at this point, so a directory failure is
// logged and swallowed rather than failing a login that already
// happened; the next login retries the same idempotent update.
func (h *PostAuthenticationHandler) Handle(ctx context.Context, event events.CognitoEventUserPoolsPostAuthentication) (events.CognitoEventUserPoolsPostAuthentication, error) {
	ctx = invocationContext(ctx, h.Logger, event.CognitoEventUserPoolsHeader)
	log := slogx.FromContext(ctx)

	user := domain.IdentityFromAttributes(event.UserName, event.Request.UserAttributes)

	if err := h.Service.Confirm(ctx, user); err != nil {
		log.Error("failed to confirm contact attributes", "err", err)
		return event, nil
	}

	log.Info("post-authentication bookkeeping done")
	return event, nil
}
