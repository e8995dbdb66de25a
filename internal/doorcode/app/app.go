package app

import (
	"context"
	"fmt"
	"log/slog"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	cognito "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/pinpoint"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/aussiebroadwan/doorcode/internal/doorcode/directory"
	"github.com/aussiebroadwan/doorcode/internal/doorcode/handler"
	"github.com/aussiebroadwan/doorcode/internal/doorcode/magiclink"
	"github.com/aussiebroadwan/doorcode/internal/doorcode/notify"
	"github.com/aussiebroadwan/doorcode/internal/doorcode/service"
	"github.com/aussiebroadwan/doorcode/internal/doorcode/throttle"
	"github.com/aussiebroadwan/doorcode/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application wires shared AWS clients and services into the trigger
// handlers. Every Lambda in the suite builds the same Application and
// registers only the handler it serves; construction is cheap enough
// that the unused handlers don't matter.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Handlers, one per trigger.
	Define    *handler.DefineHandler
	Create    *handler.CreateHandler
	Verify    *handler.VerifyHandler
	PreSignup *handler.PreSignupHandler
	PostAuth  *handler.PostAuthenticationHandler
}

// New validates the configuration and initializes all dependencies.
func New(ctx context.Context, cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "doorcode",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	email := &notify.SESSender{
		Client: sesv2.NewFromConfig(awsCfg),
		Sender: cfg.SenderEmail,
	}

	// SMS goes through the messaging application when one is configured,
	// directly through SNS otherwise.
	var sms notify.SMSSender
	if appID, ok := cfg.PinpointAppID.Value(); ok {
		sms = &notify.PinpointSender{
			Client:            pinpoint.NewFromConfig(awsCfg),
			ApplicationID:     appID,
			OriginationNumber: cfg.OriginationNumber,
		}
	} else {
		sms = &notify.SNSSender{
			Client:            sns.NewFromConfig(awsCfg),
			OriginationNumber: cfg.OriginationNumber,
		}
	}

	var links *magiclink.Issuer
	if secret, ok := cfg.MagicLinkSecret.Value(); ok {
		baseURL, _ := cfg.MagicLinkBaseURL.Value() // Validate guarantees the pair
		links = &magiclink.Issuer{
			Secret:  []byte(secret),
			BaseURL: baseURL,
		}
	}

	var limiter *throttle.Limiter
	if table, ok := cfg.ThrottleTable.Value(); ok {
		limiter = &throttle.Limiter{
			Client: dynamodb.NewFromConfig(awsCfg),
			Table:  table,
			Limit:  cfg.ThrottleLimit,
			Window: cfg.ThrottleWindow,
		}
	}

	app.Define = &handler.DefineHandler{
		Service: &service.DefineService{MaxAttempts: cfg.MaxAttempts},
		Logger:  app.logger,
	}
	app.Create = &handler.CreateHandler{
		Service: &service.CreateService{
			Email:      email,
			SMS:        sms,
			Links:      links,
			Limiter:    limiter,
			CodeDigits: cfg.CodeDigits,
			CodeTTL:    cfg.CodeTTL,
		},
		Logger: app.logger,
	}
	app.Verify = &handler.VerifyHandler{
		Service: &service.VerifyService{Links: links},
		Logger:  app.logger,
	}
	app.PreSignup = &handler.PreSignupHandler{
		Service: &service.PreSignupService{AutoConfirm: cfg.AutoConfirmSignup},
		Logger:  app.logger,
	}
	app.PostAuth = &handler.PostAuthenticationHandler{
		Service: &service.PostAuthService{
			Directory: &directory.Directory{
				Client:     cognito.NewFromConfig(awsCfg),
				UserPoolID: cfg.UserPoolID,
			},
		},
		Logger: app.logger,
	}

	return app, nil
}
