// Package catalog holds the static survey question catalog, the authoritative
// source of truth for question metadata, option value sets, weights, and
// conditional logic. The catalog is immutable reference data compiled into
// the binary.
package catalog

import "github.com/ahmadhassan91/uae-financial-backend-sub001/internal/types"

// Factor categorizes questions into financial health pillars.
type Factor string

const (
	FactorIncomeStream       Factor = "income_stream"
	FactorMonthlyExpenses    Factor = "monthly_expenses"
	FactorSavingsHabit       Factor = "savings_habit"
	FactorDebtManagement     Factor = "debt_management"
	FactorRetirementPlanning Factor = "retirement_planning"
	FactorProtection         Factor = "protection"
	FactorFuturePlanning     Factor = "future_planning"
)

// QuestionDefinition is a single catalog question. Options are ordered
// high-to-low; the value set is the contract every variation must preserve.
type QuestionDefinition struct {
	ID          string         `json:"id"`
	Number      int            `json:"question_number"`
	Text        string         `json:"text"`
	Type        string         `json:"type"`
	Options     []types.Option `json:"options"`
	Required    bool           `json:"required"`
	Factor      Factor         `json:"factor"`
	Weight      int            `json:"weight"` // percentage
	Conditional bool           `json:"conditional,omitempty"`
}

// likert5 builds the standard five-point option list from labels ordered
// strongest to weakest.
func likert5(labels ...string) []types.Option {
	opts := make([]types.Option, 0, len(labels))
	for i, label := range labels {
		opts = append(opts, types.Option{Value: 5 - i, Label: label})
	}
	return opts
}

// agreement is the default strongly-agree..strongly-disagree scale.
var agreement = likert5("Strongly Agree", "Agree", "Neutral", "Disagree", "Strongly Disagree")

// Questions is the core survey question set, in presentation order.
var Questions = []QuestionDefinition{
	{
		ID: "q1_income_stability", Number: 1,
		Text: "My income is stable and predictable each month.",
		Type: "likert", Options: agreement,
		Required: true, Factor: FactorIncomeStream, Weight: 10,
	},
	{
		ID: "q2_income_sources", Number: 2,
		Text: "I have more than one source of income (e.g., side business, investments).",
		Type: "likert",
		Options: likert5(
			"Multiple consistent income streams",
			"Multiple inconsistent income streams",
			"I have a consistent side income",
			"A non consistent side income",
			"My Salary"),
		Required: true, Factor: FactorIncomeStream, Weight: 10,
	},
	{
		ID: "q3_living_expenses", Number: 3,
		Text: "I can cover my essential living expenses without financial strain.",
		Type: "likert", Options: agreement,
		Required: true, Factor: FactorMonthlyExpenses, Weight: 10,
	},
	{
		ID: "q4_budget_tracking", Number: 4,
		Text: "I follow a monthly budget and track my expenses.",
		Type: "likert",
		Options: likert5(
			"Consistently every month",
			"Frequently but not consistently",
			"Occasionally",
			"Adhoc",
			"No Tracking"),
		Required: true, Factor: FactorMonthlyExpenses, Weight: 5,
	},
	{
		ID: "q5_spending_control", Number: 5,
		Text: "I spend less than I earn every month.",
		Type: "likert",
		Options: likert5(
			"Consistently every month",
			"Frequently but not consistently",
			"Occasionally",
			"Adhoc",
			"Greater or all of my earnings"),
		Required: true, Factor: FactorMonthlyExpenses, Weight: 5,
	},
	{
		ID: "q6_expense_review", Number: 6,
		Text: "I regularly review and reduce unnecessary expenses.",
		Type: "likert",
		Options: likert5(
			"Consistently every month",
			"Frequently but not consistently",
			"Occasionally",
			"Adhoc",
			"No Tracking"),
		Required: true, Factor: FactorMonthlyExpenses, Weight: 5,
	},
	{
		ID: "q7_savings_rate", Number: 7,
		Text: "I save from my income every month.",
		Type: "likert",
		Options: likert5(
			"20% or more",
			"Less than 20%",
			"Less than 10%",
			"5% or less",
			"0%"),
		Required: true, Factor: FactorSavingsHabit, Weight: 5,
	},
	{
		ID: "q8_emergency_fund", Number: 8,
		Text: "I have an emergency fund to cater for my expenses.",
		Type: "likert",
		Options: likert5(
			"6+ months",
			"3 - 6 months",
			"2 months",
			"1 month",
			"Nil"),
		Required: true, Factor: FactorSavingsHabit, Weight: 5,
	},
	{
		ID: "q9_savings_optimization", Number: 9,
		Text: "I keep my savings in safe, return generating accounts or investments.",
		Type: "likert",
		Options: likert5(
			"Safe | Seek for return optimization consistently",
			"Safe | Seek for return optimization most of the times",
			"Savings Account with minimal returns",
			"Current Account",
			"Cash"),
		Required: true, Factor: FactorSavingsHabit, Weight: 5,
	},
	{
		ID: "q10_payment_history", Number: 10,
		Text: "I pay all my bills and loan installments on time.",
		Type: "likert",
		Options: likert5(
			"Consistently every month",
			"Frequently but not consistently",
			"Occasionally",
			"Adhoc",
			"Missed Payments most of the times"),
		Required: true, Factor: FactorDebtManagement, Weight: 5,
	},
	{
		ID: "q11_debt_ratio", Number: 11,
		Text: "My debt repayments are less than 30% of my monthly income.",
		Type: "likert",
		Options: likert5(
			"No Debt",
			"20% or less of monthly income",
			"Less than 30% of monthly income",
			"30% or more of monthly income",
			"50% or more of monthly income"),
		Required: true, Factor: FactorDebtManagement, Weight: 5,
	},
	{
		ID: "q12_credit_score", Number: 12,
		Text: "I understand my credit score and actively maintain or improve it.",
		Type: "likert",
		Options: likert5(
			"100% and monitor it consistently",
			"100% and monitor it frequently",
			"somewhat understand and frequent monitoring",
			"somewhat understand and maintain on an adhoc basis",
			"No Understanding and not maintained"),
		Required: true, Factor: FactorDebtManagement, Weight: 5,
	},
	{
		ID: "q13_retirement_planning", Number: 13,
		Text: "I have a retirement savings plan or pension fund in place to secure a stable income at retirement.",
		Type: "likert",
		Options: likert5(
			"Yes - I have already secured a stable income",
			"Yes - I am highly confident of having a stable income",
			"Yes - I am somewhat confident of having a stable income",
			"No: Planning to have one shortly | adhoc Savings",
			"No: not for the time being"),
		Required: true, Factor: FactorRetirementPlanning, Weight: 10,
	},
	{
		ID: "q14_insurance_coverage", Number: 14,
		Text: "I have adequate takaful cover (insurance) - (health, life, motor, property).",
		Type: "likert",
		Options: likert5(
			"100% adequate cover in place for the required protection",
			"80% cover in place for the required protection",
			"50% cover in place for the required protection",
			"25% cover in place for the required protection",
			"No Coverage"),
		Required: true, Factor: FactorProtection, Weight: 5,
	},
	{
		ID: "q15_financial_planning", Number: 15,
		Text: "I have a written financial plan with goals for the next 3–5 years catering.",
		Type: "likert",
		Options: likert5(
			"Concise Financial plan in place and consistently reviewed",
			"Broad Financial plan in place and frequently reviewed",
			"High level objectives set and occasionally reviewed",
			"Adhoc Plan | reviews",
			"No Financial Plan in place"),
		Required: true, Factor: FactorFuturePlanning, Weight: 5,
	},
	{
		ID: "q16_children_planning", Number: 16,
		Text: "I have adequately planned my children future for his school | University | Career Start Up.",
		Type: "likert",
		Options: likert5(
			"100% adequate savings in place for all 3 Aspects",
			"80% savings in place for all 3 Aspects",
			"50% savings in place for all 3 Aspects",
			"Adhoc plan in place for all 3 Aspects",
			"No Plan in place"),
		Required: false, Factor: FactorFuturePlanning, Weight: 5, Conditional: true,
	},
}

// ExtendedQuestions are conditional questions that demographic rules can add
// to a selection. They never appear in the default set.
var ExtendedQuestions = []QuestionDefinition{
	{
		ID: "q17_zakat_planning", Number: 17,
		Text: "I calculate and pay my Zakat obligations regularly.",
		Type: "likert",
		Options: likert5(
			"Always calculate and pay on time",
			"Usually calculate and pay",
			"Sometimes calculate and pay",
			"Rarely calculate or pay",
			"Do not calculate or pay Zakat"),
		Required: false, Factor: FactorFuturePlanning, Weight: 3, Conditional: true,
	},
	{
		ID: "q18_islamic_investment", Number: 18,
		Text: "I actively seek Sharia-compliant investment opportunities.",
		Type: "likert",
		Options: likert5(
			"Exclusively invest in Islamic products",
			"Prefer Islamic investments when available",
			"Consider Islamic investments occasionally",
			"Limited knowledge of Islamic investments",
			"Do not consider Islamic investments"),
		Required: false, Factor: FactorSavingsHabit, Weight: 3, Conditional: true,
	},
	{
		ID: "q19_remittance_planning", Number: 19,
		Text: "I have a structured plan for sending money to my home country.",
		Type: "likert",
		Options: likert5(
			"Regular planned remittances with optimal rates",
			"Regular remittances with rate monitoring",
			"Occasional remittances as needed",
			"Irregular remittances without planning",
			"No structured remittance plan"),
		Required: false, Factor: FactorMonthlyExpenses, Weight: 3, Conditional: true,
	},
	{
		ID: "q20_visa_financial_planning", Number: 20,
		Text: "I maintain adequate funds for visa renewals and potential relocation.",
		Type: "likert",
		Options: likert5(
			"Always maintain required funds plus buffer",
			"Usually have required funds available",
			"Sometimes have funds ready",
			"Struggle to maintain required funds",
			"No specific planning for visa costs"),
		Required: false, Factor: FactorFuturePlanning, Weight: 3, Conditional: true,
	},
}

// Pillar describes one financial health pillar and the questions feeding it.
type Pillar struct {
	Name        string
	Description string
	QuestionIDs []string
	BaseWeight  int
}

// Pillars maps each factor to its pillar metadata.
var Pillars = map[Factor]Pillar{
	FactorIncomeStream: {
		Name:        "Income Stream",
		Description: "Stability and diversity of income sources",
		QuestionIDs: []string{"q1_income_stability", "q2_income_sources"},
		BaseWeight:  20,
	},
	FactorMonthlyExpenses: {
		Name:        "Monthly Expenses Management",
		Description: "Budgeting and expense control",
		QuestionIDs: []string{"q3_living_expenses", "q4_budget_tracking", "q5_spending_control", "q6_expense_review"},
		BaseWeight:  25,
	},
	FactorSavingsHabit: {
		Name:        "Savings Habit",
		Description: "Saving behavior and emergency preparedness",
		QuestionIDs: []string{"q7_savings_rate", "q8_emergency_fund", "q9_savings_optimization"},
		BaseWeight:  15,
	},
	FactorDebtManagement: {
		Name:        "Debt Management",
		Description: "Debt control and credit health",
		QuestionIDs: []string{"q10_payment_history", "q11_debt_ratio", "q12_credit_score"},
		BaseWeight:  15,
	},
	FactorRetirementPlanning: {
		Name:        "Retirement Planning",
		Description: "Long-term financial security",
		QuestionIDs: []string{"q13_retirement_planning"},
		BaseWeight:  10,
	},
	FactorProtection: {
		Name:        "Protecting Your Assets | Loved Ones",
		Description: "Insurance and risk management",
		QuestionIDs: []string{"q14_insurance_coverage"},
		BaseWeight:  5,
	},
	FactorFuturePlanning: {
		Name:        "Planning for Your Future | Siblings",
		Description: "Financial planning and family preparation",
		QuestionIDs: []string{"q15_financial_planning", "q16_children_planning"},
		BaseWeight:  10,
	},
}
