package service

const (
	MaxPrincipal        = 1_000_000_000.0 // 1 billón
	MaxInterestRate     = 1000.0          // 1000% anual
	MaxSipReturnRate    = 1000.0          // 1000% anual
	MaxTenureYears      = 50
	MaxExtraEmiPerYear  = 12.0  // una cuota extra por mes como máximo
	MaxStepUpPercentage = 100.0

	// tolerancia para considerar el préstamo cerrado
	BalanceCloseTolerance = 0.01
)

// GetUSDToNIORate returns the approximate USD to NIO exchange rate used
// in the narrative explanations.
func GetUSDToNIORate() float64 {
	return 36.62
}
