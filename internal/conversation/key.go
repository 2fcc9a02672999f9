package conversation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rajivgeraev/skillswap-api/internal/apperrors"
)

// Key возвращает канонический ключ переписки для пары пользователей.
// Ключ симметричен: Key(a, b) == Key(b, a).
func Key(a, b int64) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d_%d", a, b)
}

// ParseKey извлекает идентификаторы участников из ключа переписки
func ParseKey(key string) (int64, int64, error) {
	parts := strings.SplitN(key, "_", 2)
	if len(parts) != 2 {
		return 0, 0, apperrors.InvalidArg("malformed conversation key")
	}
	a, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, 0, apperrors.InvalidArg("malformed conversation key")
	}
	b, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, 0, apperrors.InvalidArg("malformed conversation key")
	}
	return a, b, nil
}
