// Package directory performs the administrative user pool updates this
// suite is allowed to make. The pool itself owns the records; this only
// flips verification flags on the signed-in user.
package directory

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	cognito "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
)

// CognitoAPI is the slice of the Cognito IDP client used here.
type CognitoAPI interface {
	AdminUpdateUserAttributes(ctx context.Context, params *cognito.AdminUpdateUserAttributesInput, optFns ...func(*cognito.Options)) (*cognito.AdminUpdateUserAttributesOutput, error)
}

// Directory updates user attributes in one Cognito user pool.
type Directory struct {
	Client     CognitoAPI
	UserPoolID string
}

// MarkVerified sets each named attribute to "true" on the user's record.
// Setting an already-true attribute is a no-op on the pool side, so the
// call is safe to repeat. No attributes means nothing to do.
func (d *Directory) MarkVerified(ctx context.Context, username string, attrs ...string) error {
	if len(attrs) == 0 {
		return nil
	}

	updates := make([]types.AttributeType, 0, len(attrs))
	for _, name := range attrs {
		updates = append(updates, types.AttributeType{
			Name:  aws.String(name),
			Value: aws.String("true"),
		})
	}

	_, err := d.Client.AdminUpdateUserAttributes(ctx, &cognito.AdminUpdateUserAttributesInput{
		UserPoolId:     aws.String(d.UserPoolID),
		Username:       aws.String(username),
		UserAttributes: updates,
	})
	if err != nil {
		return fmt.Errorf("directory: failed to update attributes for %q: %w", username, err)
	}

	return nil
}
