package domain

// Cognito user attribute names this suite reads and writes.
const (
	AttrEmail         = "email"
	AttrEmailVerified = "email_verified"
	AttrPhone         = "phone_number"
	AttrPhoneVerified = "phone_number_verified"
	AttrTOTPSecret    = "custom:totp_secret"
)

// Identity is the slice of the directory record the handlers care
// about. The directory itself is owned by the user pool; this is a
// read-only view assembled from trigger event attributes.
type Identity struct {
	Username      string
	Email         string
	EmailVerified bool
	Phone         string
	PhoneVerified bool
	TOTPSecret    string
}

// IdentityFromAttributes builds an Identity view from a trigger event's
// userAttributes map.
func IdentityFromAttributes(username string, attrs map[string]string) Identity {
	return Identity{
		Username:      username,
		Email:         attrs[AttrEmail],
		EmailVerified: attrs[AttrEmailVerified] == "true",
		Phone:         attrs[AttrPhone],
		PhoneVerified: attrs[AttrPhoneVerified] == "true",
		TOTPSecret:    attrs[AttrTOTPSecret],
	}
}

// HasContact reports whether the identity has any contact method a
// challenge could be delivered to.
func (id Identity) HasContact() bool {
	return id.Email != "" || id.Phone != ""
}
