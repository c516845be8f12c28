package types

import "errors"

// Sentinel errors for question selection operations.
var (
	// ErrConditionTooDeep indicates a condition tree exceeds MaxConditionDepth.
	ErrConditionTooDeep = errors.New("condition tree exceeds maximum nesting depth")

	// ErrUnknownOperator indicates a condition uses an unrecognized operator.
	ErrUnknownOperator = errors.New("unknown condition operator")

	// ErrMalformedCondition indicates a condition tree could not be parsed.
	ErrMalformedCondition = errors.New("malformed condition tree")

	// ErrQuestionNotFound indicates a question id is absent from the catalog.
	ErrQuestionNotFound = errors.New("question not found in catalog")

	// ErrRuleExists indicates a duplicate rule name.
	ErrRuleExists = errors.New("rule with this name already exists")

	// ErrVariationNotFound indicates a variation id is absent from the store.
	ErrVariationNotFound = errors.New("question variation not found")

	// ErrVariationExists indicates a duplicate variation name for a base question.
	ErrVariationExists = errors.New("variation already exists for this question")

	// ErrVariationInvalid indicates variation validation produced hard errors.
	ErrVariationInvalid = errors.New("variation failed validation")

	// ErrStoreUnavailable indicates a rule or variation store read failed.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrCacheUnavailable indicates the external cache could not be reached.
	ErrCacheUnavailable = errors.New("cache unavailable")

	// ErrCacheMiss indicates no live entry exists for a cache key.
	ErrCacheMiss = errors.New("cache miss")
)

// MaxConditionDepth bounds condition tree nesting against adversarial or
// malformed admin-authored rule payloads. 20 levels is far beyond any
// legitimate demographic rule while keeping recursive evaluation cheap.
const MaxConditionDepth = 20
