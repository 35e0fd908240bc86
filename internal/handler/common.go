package handler // handler defines http handlers

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"
)

// getAccountID extracts the account_id set by the JWT middleware and
// converts it to uint64. JWT number claims decode as float64, so the
// switch covers every representation the middleware may have stored.
func getAccountID(c echo.Context) (uint64, error) {
	v := c.Get("account_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid account_id in context")
}

// sessionKey derives the staging-store key for the authenticated
// account. One key per account means at most one in-flight draft per
// session.
func sessionKey(accountID uint64) string {
	return strconv.FormatUint(accountID, 10)
}
