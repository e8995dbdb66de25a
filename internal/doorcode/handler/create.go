package handler

import (
	"context"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"

	"github.com/aussiebroadwan/doorcode/internal/doorcode/domain"
	"github.com/aussiebroadwan/doorcode/internal/doorcode/service"
	"github.com/aussiebroadwan/doorcode/pkg/slogx"
)

// CreateHandler answers the orchestrator's create-auth-challenge calls.
type CreateHandler struct {
	Service *service.CreateService
	Logger  *slog.Logger
}

// Handle mints and dispatches a fresh secret for this round. Errors are
// returned to the platform so the attempt aborts: a challenge that was
// never delivered must not be answerable.
func (h *CreateHandler) Handle(ctx context.Context, event events.CognitoEventUserPoolsCreateAuthChallenge) (events.CognitoEventUserPoolsCreateAuthChallenge, error) {
	ctx = invocationContext(ctx, h.Logger, event.CognitoEventUserPoolsHeader)
	log := slogx.FromContext(ctx)

	user := domain.IdentityFromAttributes(event.UserName, event.Request.UserAttributes)

	method, err := domain.ParseMethod(event.Request.ClientMetadata[domain.ClientMetadataMethodKey])
	if err != nil {
		log.Warn("rejected sign-in method", "requested", event.Request.ClientMetadata[domain.ClientMetadataMethodKey])
		return event, err
	}

	challenge, err := h.Service.Create(ctx, user, method)
	if err != nil {
		log.Error("challenge creation failed", "method", string(method), "err", err)
		return event, err
	}

	event.Response.PublicChallengeParameters = challenge.Public
	event.Response.PrivateChallengeParameters = challenge.Private
	event.Response.ChallengeMetadata = challenge.Metadata

	log.Info("challenge created",
		"method", string(method),
		"channel", challenge.Public[domain.ParamChannel],
		"delivery_id", challenge.Public[domain.ParamDeliveryID],
	)
	return event, nil
}
