package utils

import (
	"context"
	"strconv"

	"savora/apperr"
	"savora/globals"
)

// ParsePage validates start/limit query values. Empty values take the
// defaults; anything that is not a non-negative integer is rejected before
// it reaches the coordinator.
func ParsePage(startStr, limitStr string, defaultLimit int) (int, int, error) {
	start := 0
	limit := defaultLimit

	if startStr != "" {
		n, err := strconv.Atoi(startStr)
		if err != nil || n < 0 {
			return 0, 0, apperr.Validationf("start must be a non-negative integer")
		}
		start = n
	}
	if limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 0 {
			return 0, 0, apperr.Validationf("limit must be a non-negative integer")
		}
		if n > 0 {
			limit = n
		}
	}
	return start, limit, nil
}

func GetUserIDFromContext(ctx context.Context) string {
	userID, ok := ctx.Value(globals.UserIDKey).(string)
	if !ok {
		return ""
	}
	return userID
}

func GetUserNameFromContext(ctx context.Context) string {
	userName, ok := ctx.Value(globals.UserNameKey).(string)
	if !ok {
		return ""
	}
	return userName
}
