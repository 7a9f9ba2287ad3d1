package validators

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/retailops/arledger/pkg/errors"
	"github.com/retailops/arledger/pkg/period"
)

func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

// ParseQueryDate parses an optional YYYY-MM-DD query parameter.
func ParseQueryDate(r *http.Request, key string) (*time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a YYYY-MM-DD date").WithDetails(map[string]any{"field": key})
	}
	return &parsed, nil
}

// ParseQueryUUID parses an optional UUID query parameter.
func ParseQueryUUID(r *http.Request, key string) (*uuid.UUID, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a UUID").WithDetails(map[string]any{"field": key})
	}
	return &parsed, nil
}

// ParsePathUUID parses a required UUID path segment value.
func ParsePathUUID(value, field string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "path parameter must be a UUID").WithDetails(map[string]any{"field": field})
	}
	return parsed, nil
}

// ParsePeriodWindow resolves the reporting window from query parameters.
// Supported shapes, most specific first:
//
//	?from=YYYY-MM-DD&to=YYYY-MM-DD  custom range
//	?day=YYYY-MM-DD                 one day
//	?month=YYYY-MM                  calendar month
//	?year=YYYY                      calendar year
//
// With no parameters the fallback window is the month containing today.
func ParsePeriodWindow(r *http.Request, today time.Time) (period.Window, error) {
	query := r.URL.Query()

	fromRaw := strings.TrimSpace(query.Get("from"))
	toRaw := strings.TrimSpace(query.Get("to"))
	if fromRaw != "" || toRaw != "" {
		if fromRaw == "" || toRaw == "" {
			return period.Window{}, pkgerrors.New(pkgerrors.CodeValidation, "from and to must be provided together")
		}
		from, err := period.ParseDay(fromRaw)
		if err != nil {
			return period.Window{}, pkgerrors.New(pkgerrors.CodeValidation, "from must be a YYYY-MM-DD date")
		}
		to, err := period.ParseDay(toRaw)
		if err != nil {
			return period.Window{}, pkgerrors.New(pkgerrors.CodeValidation, "to must be a YYYY-MM-DD date")
		}
		return period.Custom(from.From, to.From), nil
	}

	if raw := strings.TrimSpace(query.Get("day")); raw != "" {
		window, err := period.ParseDay(raw)
		if err != nil {
			return period.Window{}, pkgerrors.New(pkgerrors.CodeValidation, "day must be a YYYY-MM-DD date")
		}
		return window, nil
	}

	if raw := strings.TrimSpace(query.Get("month")); raw != "" {
		window, err := period.ParseMonth(raw)
		if err != nil {
			return period.Window{}, pkgerrors.New(pkgerrors.CodeValidation, "month must be a YYYY-MM month")
		}
		return window, nil
	}

	if raw := strings.TrimSpace(query.Get("year")); raw != "" {
		window, err := period.ParseYear(raw)
		if err != nil {
			return period.Window{}, pkgerrors.New(pkgerrors.CodeValidation, "year must be a YYYY year")
		}
		return window, nil
	}

	return period.Month(today.Year(), today.Month()), nil
}

func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen > 0 && len(trimmed) > maxLen {
		return trimmed[:maxLen]
	}
	return trimmed
}
