package domain

// Estrategias comparadas por el simulador.
const (
	StrategyInvest = "invest" // cuota contractual + inversión del excedente
	StrategyPrepay = "prepay" // prepago total hasta cerrar el préstamo
)

type SimulationInput struct {
	Principal        float64 `json:"principal"`
	InterestRate     float64 `json:"interest_rate"`      // % anual nominal
	TenureYears      int     `json:"tenure_years"`
	SipReturnRate    float64 `json:"sip_return_rate"`    // % anual nominal
	ExtraEmiPerYear  float64 `json:"extra_emi_per_year"` // cuotas extra por año
	StepUpPercentage float64 `json:"step_up_percentage"` // % de incremento anual de capacidad
}

type MonthlySnapshot struct {
	Month                        int     `json:"month"`
	Year                         int     `json:"year"`
	LoanBalanceRegular           float64 `json:"loan_balance_regular"`
	LoanBalanceAggressive        float64 `json:"loan_balance_aggressive"`
	InvestmentValueRegular       float64 `json:"investment_value_regular"`
	InvestmentValueAggressive    float64 `json:"investment_value_aggressive"`
	CumulativeInterestRegular    float64 `json:"cumulative_interest_regular"`
	CumulativeInterestAggressive float64 `json:"cumulative_interest_aggressive"`
	TotalContributedRegular      float64 `json:"total_contributed_regular"`
	TotalContributedAggressive   float64 `json:"total_contributed_aggressive"`
}

type SimulationSummary struct {
	MonthlyInstallment       float64 `json:"monthly_installment"`
	TotalInterestRegular     float64 `json:"total_interest_regular"`
	TotalInterestAggressive  float64 `json:"total_interest_aggressive"`
	InterestSaved            float64 `json:"interest_saved"`
	LoanCloseMonthRegular    int     `json:"loan_close_month_regular"`    // 0 si nunca cerró
	LoanCloseMonthAggressive int     `json:"loan_close_month_aggressive"` // 0 si nunca cerró
	FinalWealthRegular       float64 `json:"final_wealth_regular"`
	FinalWealthAggressive    float64 `json:"final_wealth_aggressive"`
	WealthDifference         float64 `json:"wealth_difference"`
	WinningStrategy          string  `json:"winning_strategy"`
}

type SimulationResult struct {
	Schedule []MonthlySnapshot `json:"schedule"`
	Summary  SimulationSummary `json:"summary"`
}

type AdviceResult struct {
	Result      SimulationResult `json:"result"`
	Explanation string           `json:"explanation,omitempty"` // Explicación generada por IA
}
