package selection

import (
	"strconv"
	"strings"

	"github.com/ahmadhassan91/uae-financial-backend-sub001/internal/rules"
	"github.com/ahmadhassan91/uae-financial-backend-sub001/internal/types"
)

// cacheKeyPrefix namespaces every selection result in the shared cache, so
// ClearCache can target this subsystem without touching other tenants.
const cacheKeyPrefix = "dynamic_questions"

// cacheKey derives the result-cache key from everything the selection is a
// function of: the allow-listed profile fields, company, language, and
// strategy. The profile digest is truncated; the cache tolerates the
// (astronomically unlikely) collision because entries expire within an hour.
func cacheKey(profile types.Profile, companyID int64, language string, strategy Strategy) string {
	company := "no_company"
	if companyID != 0 {
		company = strconv.FormatInt(companyID, 10)
	}

	return strings.Join([]string{
		cacheKeyPrefix,
		rules.HashProfile(profile)[:16],
		company,
		language,
		string(strategy),
	}, ":")
}
