// Package throttle enforces a per-destination send budget backed by a
// DynamoDB table with a TTL attribute, so repeated sign-in attempts
// cannot be used to flood someone's inbox or burn SMS spend.
package throttle

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/aussiebroadwan/doorcode/pkg/otpx"
)

const (
	DefaultLimit  = 5
	DefaultWindow = 15 * time.Minute
)

// ErrLimited reports that the destination has exhausted its send budget
// for the current window.
var ErrLimited = errors.New("throttle: send limit reached")

// DynamoAPI is the slice of the DynamoDB client used here.
type DynamoAPI interface {
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// Limiter counts sends per destination in a DynamoDB table. Records are
// keyed by a fingerprint of the destination, so raw addresses and phone
// numbers never land in the table, and carry an expires_at attribute the
// table's TTL policy purges.
type Limiter struct {
	Client DynamoAPI
	Table  string
	Limit  int           // zero means DefaultLimit
	Window time.Duration // zero means DefaultWindow

	Now func() time.Time // test hook, nil means time.Now
}

type record struct {
	Sends     int   `dynamodbav:"sends"`
	ExpiresAt int64 `dynamodbav:"expires_at"`
}

func (l *Limiter) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}

func (l *Limiter) limit() int {
	if l.Limit > 0 {
		return l.Limit
	}
	return DefaultLimit
}

func (l *Limiter) window() time.Duration {
	if l.Window > 0 {
		return l.Window
	}
	return DefaultWindow
}

// Allow records one send for destination and returns ErrLimited when the
// budget for the current window is already spent. Any storage failure is
// returned as-is; callers treat it as fatal for the attempt rather than
// failing open.
func (l *Limiter) Allow(ctx context.Context, destination string) error {
	now := l.now()
	expiry := strconv.FormatInt(now.Add(l.window()).Unix(), 10)

	key := map[string]types.AttributeValue{
		"destination": &types.AttributeValueMemberS{Value: otpx.Fingerprint(destination)},
	}

	out, err := l.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(l.Table),
		Key:              key,
		UpdateExpression: aws.String("SET expires_at = if_not_exists(expires_at, :exp) ADD sends :one"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": &types.AttributeValueMemberN{Value: "1"},
			":exp": &types.AttributeValueMemberN{Value: expiry},
		},
		ReturnValues: types.ReturnValueAllNew,
	})
	if err != nil {
		return fmt.Errorf("throttle: failed to record send: %w", err)
	}

	var rec record
	if err := attributevalue.UnmarshalMap(out.Attributes, &rec); err != nil {
		return fmt.Errorf("throttle: failed to decode send record: %w", err)
	}

	// DynamoDB TTL purges lazily, so an expired record can survive past
	// its window. Start a fresh window instead of counting against it.
	if rec.ExpiresAt <= now.Unix() {
		_, err := l.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
			TableName:        aws.String(l.Table),
			Key:              key,
			UpdateExpression: aws.String("SET sends = :one, expires_at = :exp"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":one": &types.AttributeValueMemberN{Value: "1"},
				":exp": &types.AttributeValueMemberN{Value: expiry},
			},
		})
		if err != nil {
			return fmt.Errorf("throttle: failed to reset send window: %w", err)
		}
		return nil
	}

	if rec.Sends > l.limit() {
		return ErrLimited
	}

	return nil
}
