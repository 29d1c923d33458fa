package postgres

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/yourusername/question-bank-api/internal/pkg/errors"
)

// Курсор keyset-пагинации: кодирует позицию (updated_at, id) последней
// выданной записи. Непрозрачен для клиента и безопасен для URL.

// encodePageCursor формирует urlsafe-курсор из позиции последней записи страницы
func encodePageCursor(updatedAt time.Time, id string) string {
	raw := fmt.Sprintf("%d|%s", updatedAt.UnixNano(), id)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// decodePageCursor разбирает курсор обратно в позицию.
// Некорректный курсор — ошибка валидации, а не ошибка хранилища.
func decodePageCursor(cursor string) (time.Time, string, error) {
	decoded, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: malformed page cursor", apperrors.ErrValidation)
	}

	parts := strings.SplitN(string(decoded), "|", 2)
	if len(parts) != 2 || parts[1] == "" {
		return time.Time{}, "", fmt.Errorf("%w: malformed page cursor", apperrors.ErrValidation)
	}

	nanos, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: malformed page cursor", apperrors.ErrValidation)
	}

	return time.Unix(0, nanos), parts[1], nil
}
