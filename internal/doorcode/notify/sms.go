package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/pinpoint"
	pinpointtypes "github.com/aws/aws-sdk-go-v2/service/pinpoint/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"

	"github.com/aussiebroadwan/doorcode/internal/doorcode/conf"
)

// SNSAPI is the slice of the SNS client used here.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSSender publishes transactional SMS directly to a phone number.
type SNSSender struct {
	Client SNSAPI
	// OriginationNumber is attached as the sending number when one is
	// configured for the account.
	OriginationNumber conf.Setting[string]
}

func (s *SNSSender) Send(ctx context.Context, msg SMS) error {
	attrs := map[string]snstypes.MessageAttributeValue{
		"AWS.SNS.SMS.SMSType": {
			DataType:    aws.String("String"),
			StringValue: aws.String("Transactional"),
		},
	}
	if origin, ok := s.OriginationNumber.Value(); ok {
		attrs["AWS.MM.SMS.OriginationNumber"] = snstypes.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(origin),
		}
	}

	_, err := s.Client.Publish(ctx, &sns.PublishInput{
		PhoneNumber:       aws.String(msg.To),
		Message:           aws.String(msg.Body),
		MessageAttributes: attrs,
	})
	if err != nil {
		return fmt.Errorf("%w: sns publish: %v", ErrDispatch, err)
	}

	return nil
}

// PinpointAPI is the slice of the Pinpoint client used here.
type PinpointAPI interface {
	SendMessages(ctx context.Context, params *pinpoint.SendMessagesInput, optFns ...func(*pinpoint.Options)) (*pinpoint.SendMessagesOutput, error)
}

// PinpointSender sends SMS through a Pinpoint messaging application.
// Preferred over SNSSender when an application ID is configured, since
// it reports per-destination delivery status.
type PinpointSender struct {
	Client            PinpointAPI
	ApplicationID     string
	OriginationNumber conf.Setting[string]
}

func (s *PinpointSender) Send(ctx context.Context, msg SMS) error {
	sms := &pinpointtypes.SMSMessage{
		Body:        aws.String(msg.Body),
		MessageType: pinpointtypes.MessageTypeTransactional,
	}
	if origin, ok := s.OriginationNumber.Value(); ok {
		sms.OriginationNumber = aws.String(origin)
	}

	out, err := s.Client.SendMessages(ctx, &pinpoint.SendMessagesInput{
		ApplicationId: aws.String(s.ApplicationID),
		MessageRequest: &pinpointtypes.MessageRequest{
			Addresses: map[string]pinpointtypes.AddressConfiguration{
				msg.To: {ChannelType: pinpointtypes.ChannelTypeSms},
			},
			MessageConfiguration: &pinpointtypes.DirectMessageConfiguration{
				SMSMessage: sms,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("%w: pinpoint send: %v", ErrDispatch, err)
	}

	// SendMessages succeeds at the API level even when the message was
	// rejected per destination, so check the per-address result too.
	if out.MessageResponse != nil {
		if result, ok := out.MessageResponse.Result[msg.To]; ok {
			if result.DeliveryStatus != pinpointtypes.DeliveryStatusSuccessful {
				return fmt.Errorf("%w: pinpoint delivery %s: %s",
					ErrDispatch, result.DeliveryStatus, aws.ToString(result.StatusMessage))
			}
		}
	}

	return nil
}
