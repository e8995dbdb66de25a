// Package handler adapts Cognito user pool trigger events to the
// doorcode services. Each handler is a stateless Lambda entry point: the
// orchestrator owns the session, the handlers only read the event and
// fill in their response slot.
package handler

import (
	"context"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"

	"github.com/aussiebroadwan/doorcode/internal/doorcode/domain"
	"github.com/aussiebroadwan/doorcode/pkg/slogx"
)

// invocationContext attaches per-invocation fields to the context logger.
func invocationContext(ctx context.Context, logger *slog.Logger, header events.CognitoEventUserPoolsHeader) context.Context {
	requestID := ""
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		requestID = lc.AwsRequestID
	}

	return slogx.WithInvocation(ctx, logger.With(
		"user_pool", header.UserPoolID,
	), requestID, header.TriggerSource)
}

// historyFromSession maps the orchestrator's session entries to domain
// attempts, dropping nil entries the platform occasionally pads with.
func historyFromSession(session []*events.CognitoEventUserPoolsChallengeResult) []domain.ChallengeAttempt {
	history := make([]domain.ChallengeAttempt, 0, len(session))
	for _, entry := range session {
		if entry == nil {
			continue
		}
		history = append(history, domain.ChallengeAttempt{
			ChallengeName: entry.ChallengeName,
			Correct:       entry.ChallengeResult,
			Metadata:      entry.ChallengeMetadata,
		})
	}
	return history
}
