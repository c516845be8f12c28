package catalog

/*
 * Indexed question lookup.
 *
 * Lookup indexes the static catalog (core + extended questions) by id,
 * number, and factor at construction time. The default instance is built
 * once at package init; tests may build their own from a subset.
 *
 * Core vs extended: AllQuestionIDs and DefaultQuestionIDs return the core
 * set only - extended questions enter a selection exclusively through rule
 * add_questions actions, but they are resolvable by id so rules referencing
 * them validate.
 */

// Lookup provides indexed access to question definitions.
type Lookup struct {
	byID     map[string]*QuestionDefinition
	byNumber map[int]*QuestionDefinition
	byFactor map[Factor][]*QuestionDefinition
	coreIDs  []string
}

// NewLookup indexes the given core and extended question sets.
func NewLookup(core, extended []QuestionDefinition) *Lookup {
	l := &Lookup{
		byID:     make(map[string]*QuestionDefinition),
		byNumber: make(map[int]*QuestionDefinition),
		byFactor: make(map[Factor][]*QuestionDefinition),
	}
	for i := range core {
		q := &core[i]
		l.byID[q.ID] = q
		l.byNumber[q.Number] = q
		l.byFactor[q.Factor] = append(l.byFactor[q.Factor], q)
		l.coreIDs = append(l.coreIDs, q.ID)
	}
	for i := range extended {
		q := &extended[i]
		l.byID[q.ID] = q
		l.byNumber[q.Number] = q
		l.byFactor[q.Factor] = append(l.byFactor[q.Factor], q)
	}
	return l
}

// Default is the process-wide lookup over the full static catalog.
var Default = NewLookup(Questions, ExtendedQuestions)

// QuestionByID returns the question definition for id, or nil.
func (l *Lookup) QuestionByID(id string) *QuestionDefinition {
	return l.byID[id]
}

// QuestionByNumber returns the question definition for a question number, or nil.
func (l *Lookup) QuestionByNumber(n int) *QuestionDefinition {
	return l.byNumber[n]
}

// QuestionsByFactor returns all questions contributing to a factor.
func (l *Lookup) QuestionsByFactor(f Factor) []*QuestionDefinition {
	return l.byFactor[f]
}

// AllQuestionIDs returns the core question ids in presentation order.
// The returned slice is a copy; callers may mutate it.
func (l *Lookup) AllQuestionIDs() []string {
	out := make([]string, len(l.coreIDs))
	copy(out, l.coreIDs)
	return out
}

// HasQuestion reports whether id resolves to any catalog question,
// core or extended.
func (l *Lookup) HasQuestion(id string) bool {
	_, ok := l.byID[id]
	return ok
}

// QuestionWeight returns the weight percentage for a question, 0 if unknown.
func (l *Lookup) QuestionWeight(id string) int {
	if q := l.byID[id]; q != nil {
		return q.Weight
	}
	return 0
}

// IsConditional reports whether a question is conditional (like q16).
func (l *Lookup) IsConditional(id string) bool {
	if q := l.byID[id]; q != nil {
		return q.Conditional
	}
	return false
}

// ValidateResponse reports whether a raw response value is valid for the
// question. Likert questions accept integers 1..5.
func (l *Lookup) ValidateResponse(id string, value int) bool {
	q := l.byID[id]
	if q == nil {
		return false
	}
	if q.Type == "likert" {
		return value >= 1 && value <= 5
	}
	return true
}

// OptionValues returns the set of option values for a question.
func (q *QuestionDefinition) OptionValues() map[int]struct{} {
	values := make(map[int]struct{}, len(q.Options))
	for _, opt := range q.Options {
		values[opt.Value] = struct{}{}
	}
	return values
}
