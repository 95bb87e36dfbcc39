package session

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"outy-workers/internal/common/errors"
)

// userIDClaims are tried in order; the API has issued each of them.
var userIDClaims = []string{"user_id", "userId", "uid", "id", "sub"}

// UserIDFromToken reads the acting user's id from a bearer token. The
// signature is not verified here: the token is only forwarded to the API,
// which verifies it on every call.
func UserIDFromToken(token string) (int64, error) {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" {
		return 0, errors.NewValidationError("Sesión inválida", "missing bearer token")
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return 0, errors.NewValidationError("Sesión inválida", fmt.Sprintf("malformed token: %v", err))
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil && exp.Before(time.Now()) {
		return 0, errors.NewValidationError("Tu sesión expiró, inicia sesión de nuevo", "token expired")
	}

	for _, name := range userIDClaims {
		raw, ok := claims[name]
		if !ok {
			continue
		}
		if id, ok := claimInt(raw); ok && id > 0 {
			return id, nil
		}
	}
	return 0, errors.NewValidationError("Sesión inválida", "token carries no user id claim")
}

func claimInt(v interface{}) (int64, bool) {
	switch t := v.(type) {
	case float64:
		if t != float64(int64(t)) {
			return 0, false
		}
		return int64(t), true
	case json.Number:
		id, err := t.Int64()
		return id, err == nil
	case string:
		id, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		return id, err == nil
	default:
		return 0, false
	}
}
