package throttle_test

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/doorcode/internal/doorcode/throttle"
)

// fakeDynamo applies update expressions to an in-memory counter the way
// the real table would, close enough for the limiter's two expressions.
type fakeDynamo struct {
	sends     map[string]int
	expiresAt map[string]int64
	err       error
	calls     int
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{sends: map[string]int{}, expiresAt: map[string]int64{}}
}

func (f *fakeDynamo) UpdateItem(_ context.Context, params *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}

	key := params.Key["destination"].(*types.AttributeValueMemberS).Value
	exp, _ := strconv.ParseInt(params.ExpressionAttributeValues[":exp"].(*types.AttributeValueMemberN).Value, 10, 64)

	switch aws.ToString(params.UpdateExpression) {
	case "SET expires_at = if_not_exists(expires_at, :exp) ADD sends :one":
		f.sends[key]++
		if _, ok := f.expiresAt[key]; !ok {
			f.expiresAt[key] = exp
		}
	case "SET sends = :one, expires_at = :exp":
		f.sends[key] = 1
		f.expiresAt[key] = exp
	default:
		return nil, errors.New("unexpected update expression")
	}

	return &dynamodb.UpdateItemOutput{
		Attributes: map[string]types.AttributeValue{
			"sends":      &types.AttributeValueMemberN{Value: strconv.Itoa(f.sends[key])},
			"expires_at": &types.AttributeValueMemberN{Value: strconv.FormatInt(f.expiresAt[key], 10)},
		},
	}, nil
}

func TestLimiterAllow(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	t.Run("allows up to the limit and denies the next send", func(t *testing.T) {
		fake := newFakeDynamo()
		limiter := &throttle.Limiter{
			Client: fake,
			Table:  "doorcode-sends",
			Limit:  3,
			Window: 15 * time.Minute,
			Now:    func() time.Time { return start },
		}

		for range 3 {
			require.NoError(t, limiter.Allow(context.Background(), "user@example.com"))
		}
		require.ErrorIs(t, limiter.Allow(context.Background(), "user@example.com"), throttle.ErrLimited)
	})

	t.Run("destinations are counted independently", func(t *testing.T) {
		fake := newFakeDynamo()
		limiter := &throttle.Limiter{Client: fake, Table: "t", Limit: 1, Now: func() time.Time { return start }}

		require.NoError(t, limiter.Allow(context.Background(), "a@example.com"))
		require.ErrorIs(t, limiter.Allow(context.Background(), "a@example.com"), throttle.ErrLimited)
		require.NoError(t, limiter.Allow(context.Background(), "b@example.com"))
	})

	t.Run("stale window resets instead of denying", func(t *testing.T) {
		fake := newFakeDynamo()
		now := start
		limiter := &throttle.Limiter{
			Client: fake,
			Table:  "t",
			Limit:  1,
			Window: 15 * time.Minute,
			Now:    func() time.Time { return now },
		}

		require.NoError(t, limiter.Allow(context.Background(), "user@example.com"))
		require.ErrorIs(t, limiter.Allow(context.Background(), "user@example.com"), throttle.ErrLimited)

		// TTL purge has not run yet, but the window has passed.
		now = start.Add(16 * time.Minute)
		require.NoError(t, limiter.Allow(context.Background(), "user@example.com"))
		require.ErrorIs(t, limiter.Allow(context.Background(), "user@example.com"), throttle.ErrLimited)
	})

	t.Run("raw destinations never reach the table key", func(t *testing.T) {
		fake := newFakeDynamo()
		limiter := &throttle.Limiter{Client: fake, Table: "t", Now: func() time.Time { return start }}

		require.NoError(t, limiter.Allow(context.Background(), "user@example.com"))
		for key := range fake.sends {
			require.NotContains(t, key, "example.com")
		}
	})

	t.Run("storage failure propagates", func(t *testing.T) {
		fake := newFakeDynamo()
		fake.err = errors.New("provisioned throughput exceeded")
		limiter := &throttle.Limiter{Client: fake, Table: "t", Now: func() time.Time { return start }}

		err := limiter.Allow(context.Background(), "user@example.com")
		require.Error(t, err)
		require.NotErrorIs(t, err, throttle.ErrLimited)
	})
}
