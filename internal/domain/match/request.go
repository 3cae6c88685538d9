package match

import (
	"fmt"
	"strings"

	"github.com/lifeswitch-cloud/catalogd/internal/domain"
)

// Resolve parameter limits.
const (
	// DefaultLimit is the result count when the caller does not ask for one.
	DefaultLimit = 25
	// MaxLimit caps the result count.
	MaxLimit = 100
	// DefaultLocale is used when the caller omits a locale.
	DefaultLocale = "en"
	// MaxQueryLength caps the raw query length.
	MaxQueryLength = 512
)

// Request is a validated resolve call.
type Request struct {
	rawQuery   string
	locale     string
	maxResults int
	minScore   float64
}

// NewRequest validates resolve parameters. The raw query must be non-empty
// after trimming (ErrInvalidQuery); maxResults must be in [1, MaxLimit] and
// minScore in [0,1] (ErrInvalidArgument). An empty locale means DefaultLocale.
// Callers that want a default result count pass DefaultLimit themselves; a
// zero maxResults is rejected like any other non-positive value.
func NewRequest(rawQuery, locale string, maxResults int, minScore float64) (Request, error) {
	if strings.TrimSpace(rawQuery) == "" {
		return Request{}, fmt.Errorf("%w: query is empty", domain.ErrInvalidQuery)
	}
	if len(rawQuery) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidQuery, MaxQueryLength)
	}
	if locale == "" {
		locale = DefaultLocale
	}
	if len(locale) < 2 || len(locale) > 10 {
		return Request{}, fmt.Errorf("%w: locale must be 2-10 chars", domain.ErrInvalidArgument)
	}
	if maxResults < 1 || maxResults > MaxLimit {
		return Request{}, fmt.Errorf("%w: max_results must be between 1 and %d", domain.ErrInvalidArgument, MaxLimit)
	}
	if minScore < 0 || minScore > 1 {
		return Request{}, fmt.Errorf("%w: min_score must be between 0 and 1", domain.ErrInvalidArgument)
	}
	return Request{
		rawQuery:   rawQuery,
		locale:     locale,
		maxResults: maxResults,
		minScore:   minScore,
	}, nil
}

// RawQuery returns the untouched query text.
func (r *Request) RawQuery() string { return r.rawQuery }

// Locale returns the alias locale filter.
func (r *Request) Locale() string { return r.locale }

// MaxResults returns the result count cap.
func (r *Request) MaxResults() int { return r.maxResults }

// MinScore returns the similarity floor.
func (r *Request) MinScore() float64 { return r.minScore }
