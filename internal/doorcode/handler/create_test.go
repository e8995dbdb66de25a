package handler

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/doorcode/internal/doorcode/domain"
	"github.com/aussiebroadwan/doorcode/internal/doorcode/notify"
	"github.com/aussiebroadwan/doorcode/internal/doorcode/service"
)

type captureEmail struct {
	sent []notify.Email
	err  error
}

func (c *captureEmail) Send(_ context.Context, msg notify.Email) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, msg)
	return nil
}

type captureSMS struct {
	sent []notify.SMS
	err  error
}

func (c *captureSMS) Send(_ context.Context, msg notify.SMS) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, msg)
	return nil
}

func createEvent(attrs, metadata map[string]string) events.CognitoEventUserPoolsCreateAuthChallenge {
	return events.CognitoEventUserPoolsCreateAuthChallenge{
		CognitoEventUserPoolsHeader: events.CognitoEventUserPoolsHeader{
			TriggerSource: "CreateAuthChallenge_Authentication",
			UserPoolID:    "ap-southeast-2_test",
			UserName:      "alice",
		},
		Request: events.CognitoEventUserPoolsCreateAuthChallengeRequest{
			ChallengeName:  domain.ChallengeName,
			UserAttributes: attrs,
			ClientMetadata: metadata,
		},
	}
}

func verifiedEmailAttrs() map[string]string {
	return map[string]string{
		domain.AttrEmail:         "alice@example.com",
		domain.AttrEmailVerified: "true",
	}
}

func TestCreateHandler(t *testing.T) {
	t.Parallel()

	t.Run("fills challenge parameters and sends", func(t *testing.T) {
		email := &captureEmail{}
		h := &CreateHandler{
			Service: &service.CreateService{Email: email, SMS: &captureSMS{}},
			Logger:  testLogger(),
		}

		out, err := h.Handle(context.Background(), createEvent(verifiedEmailAttrs(), nil))
		require.NoError(t, err)
		require.Len(t, email.sent, 1)

		require.Equal(t, string(domain.ChannelEmail), out.Response.PublicChallengeParameters[domain.ParamChannel])
		require.NotEmpty(t, out.Response.PublicChallengeParameters[domain.ParamDeliveryID])
		require.NotEmpty(t, out.Response.PrivateChallengeParameters[domain.ParamFingerprint])
		require.Equal(t, string(domain.MethodCode), out.Response.ChallengeMetadata)
	})

	t.Run("dispatch failure aborts the attempt", func(t *testing.T) {
		h := &CreateHandler{
			Service: &service.CreateService{
				Email: &captureEmail{err: errors.New("smtp down")},
				SMS:   &captureSMS{},
			},
			Logger: testLogger(),
		}

		_, err := h.Handle(context.Background(), createEvent(verifiedEmailAttrs(), nil))
		require.Error(t, err)
	})

	t.Run("unknown method aborts the attempt", func(t *testing.T) {
		h := &CreateHandler{
			Service: &service.CreateService{Email: &captureEmail{}, SMS: &captureSMS{}},
			Logger:  testLogger(),
		}

		_, err := h.Handle(context.Background(), createEvent(verifiedEmailAttrs(), map[string]string{
			domain.ClientMetadataMethodKey: "carrier-pigeon",
		}))
		require.ErrorIs(t, err, domain.ErrUnknownMethod)
	})

	t.Run("no verified contact aborts the attempt", func(t *testing.T) {
		h := &CreateHandler{
			Service: &service.CreateService{Email: &captureEmail{}, SMS: &captureSMS{}},
			Logger:  testLogger(),
		}

		_, err := h.Handle(context.Background(), createEvent(map[string]string{}, nil))
		require.ErrorIs(t, err, service.ErrNoContactMethod)
	})
}
