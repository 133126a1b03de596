package comppare

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry returns the "exp" claim of the current token. The signature is
// not verified; the server stays the authority on validity. Returns false
// when there is no token, it is not a JWT, or it carries no expiry.
func (c *Client) TokenExpiry() (time.Time, bool) {
	token := c.Token()
	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}

	return exp.Time, true
}
