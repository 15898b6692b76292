package validate

import (
	"strconv"
	"strings"

	"github.com/quillhub/quillhub-backend/internal/domain"
)

// ParseID parses a numeric path or query parameter. IDs must be positive
// integers; "0", negative values and non-numeric input are validation
// failures, never a silent default.
func ParseID(name, raw string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, domain.NewValidationError(name, "must be an integer")
	}
	if n <= 0 {
		return 0, domain.NewValidationError(name, "must be a positive integer")
	}
	return n, nil
}
