package variations

import (
	"fmt"
	"strings"

	"github.com/ahmadhassan91/uae-financial-backend-sub001/internal/catalog"
	"github.com/ahmadhassan91/uae-financial-backend-sub001/internal/types"
)

// Structural penalties subtracted from the consistency score. A concern
// penalizes the score even when it is also a hard error, so admin tooling
// can show how far off an invalid submission is.
const (
	optionCountPenalty = 0.3
	valueSetPenalty    = 0.4
	arabicTextPenalty  = 0.1
	arabicLabelPenalty = 0.05
	lowSimilarityFloor = 0.7
)

// Validate checks a variation's text and options against its base question.
//
// Hard errors (empty text, missing or malformed options, option value set
// differing from the base's) make the variation invalid. Warnings (missing
// Arabic script for language "ar", low lexical overlap with the base text)
// reduce the consistency score but never invalidate.
//
// The consistency score starts at 1.0, loses a fixed penalty per structural
// concern, is multiplied by a semantic-similarity factor, and is clamped to
// [0,1]. Downstream response normalization depends on this scale.
func Validate(base *catalog.QuestionDefinition, text string, options []types.Option, language string) types.VariationValidationResult {
	result := types.VariationValidationResult{
		Errors:   []string{},
		Warnings: []string{},
	}
	score := 1.0

	if strings.TrimSpace(text) == "" {
		result.Errors = append(result.Errors, "question text cannot be empty")
	}

	if len(options) == 0 {
		result.Errors = append(result.Errors, "options must be a non-empty list")
	} else {
		if len(options) != len(base.Options) {
			result.Errors = append(result.Errors, fmt.Sprintf(
				"number of options (%d) must match base question (%d)",
				len(options), len(base.Options)))
			score -= optionCountPenalty
		}

		values := make(map[int]struct{}, len(options))
		for i, option := range options {
			values[option.Value] = struct{}{}
			if option.Label == "" {
				result.Errors = append(result.Errors, fmt.Sprintf("option %d label must be a non-empty string", i))
			}
		}

		if !sameValueSet(values, base.OptionValues()) {
			result.Errors = append(result.Errors, fmt.Sprintf(
				"option values %v must match base question values %v",
				sortedValues(values), sortedValues(base.OptionValues())))
			score -= valueSetPenalty
		}
	}

	if language == "ar" {
		if !containsArabic(text) {
			result.Warnings = append(result.Warnings, "Arabic variation should contain Arabic text")
			score -= arabicTextPenalty
		}
		for _, option := range options {
			if !containsArabic(option.Label) {
				result.Warnings = append(result.Warnings, "Arabic option labels should contain Arabic text")
				score -= arabicLabelPenalty
			}
		}
	}

	semantic := semanticSimilarity(base.Text, text, language)
	score *= semantic
	if semantic < lowSimilarityFloor {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"low semantic consistency (%.2f) with base question", semantic))
	}

	result.Valid = len(result.Errors) == 0
	result.ConsistencyScore = clamp01(score)
	return result
}

func sameValueSet(a, b map[int]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for v := range a {
		if _, ok := b[v]; !ok {
			return false
		}
	}
	return true
}

func sortedValues(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] < out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// arabicRanges are the Unicode blocks that count as Arabic script.
var arabicRanges = [][2]rune{
	{0x0600, 0x06FF}, // Arabic
	{0x0750, 0x077F}, // Arabic Supplement
	{0x08A0, 0x08FF}, // Arabic Extended-A
	{0xFB50, 0xFDFF}, // Arabic Presentation Forms-A
	{0xFE70, 0xFEFF}, // Arabic Presentation Forms-B
}

func containsArabic(text string) bool {
	for _, r := range text {
		for _, rng := range arabicRanges {
			if r >= rng[0] && r <= rng[1] {
				return true
			}
		}
	}
	return false
}

// stopwords are excluded from lexical comparison.
var stopwords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {},
	"on": {}, "at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {},
	"have": {}, "has": {}, "had": {}, "do": {}, "does": {}, "did": {},
	"will": {}, "would": {}, "could": {}, "should": {}, "my": {}, "i": {},
	"me": {}, "you": {}, "your": {}, "it": {}, "its": {}, "we": {},
	"our": {}, "they": {}, "their": {},
}

// financialTerms boost similarity when preserved across base and variation.
var financialTerms = map[string]struct{}{
	"income": {}, "salary": {}, "money": {}, "budget": {}, "savings": {},
	"debt": {}, "loan": {}, "expenses": {}, "financial": {}, "planning": {},
	"investment": {}, "retirement": {}, "insurance": {}, "emergency": {},
	"fund": {}, "credit": {}, "score": {},
}

// semanticSimilarity is a deliberately simple lexical heuristic: stopword-
// filtered Jaccard overlap with a boost for preserved financial vocabulary.
// Arabic gets a fixed high baseline since word-level comparison against an
// English base text is meaningless.
func semanticSimilarity(baseText, variationText, language string) float64 {
	baseWords := contentWords(baseText)
	variationWords := contentWords(variationText)

	if len(baseWords) == 0 || len(variationWords) == 0 {
		return 0.5
	}

	if language == "ar" {
		return 0.8
	}

	intersection := 0
	union := len(variationWords)
	for w := range baseWords {
		if _, ok := variationWords[w]; ok {
			intersection++
		} else {
			union++
		}
	}
	jaccard := float64(intersection) / float64(union)

	baseFinancial := intersect(baseWords, financialTerms)
	variationFinancial := intersect(variationWords, financialTerms)
	if len(baseFinancial) > 0 && len(variationFinancial) > 0 {
		overlap := float64(len(intersect(baseFinancial, variationFinancial))) / float64(len(baseFinancial))
		jaccard = (jaccard + overlap) / 2
	}

	if sim := jaccard + 0.2; sim < 1.0 {
		return sim
	}
	return 1.0
}

func contentWords(text string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(text)) {
		if _, ok := stopwords[w]; ok {
			continue
		}
		words[w] = struct{}{}
	}
	return words
}

func intersect(a, b map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{})
	for w := range a {
		if _, ok := b[w]; ok {
			out[w] = struct{}{}
		}
	}
	return out
}
