package middleware

import (
	"strings"

	"github.com/iliyamo/hotel-reservation/internal/utils"
)

// bearerUsername extracts the username from an Authorization header.
// present is false when the header carries no bearer token at all.
func bearerUsername(header, secret string) (name string, present bool, err error) {
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false, nil
	}
	raw := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	name, err = utils.ParseUsername(secret, raw)
	return name, true, err
}
