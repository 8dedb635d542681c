package service

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"prepay-advisor/domain"
)

// roundTo2Decimals redondea un float64 a 2 decimales
func roundTo2Decimals(value float64) float64 {
	return math.Round(value*100) / 100
}

type SimulationService struct {
	logger *zap.Logger
}

// NewSimulationService creates a new SimulationService.
func NewSimulationService(logger *zap.Logger) *SimulationService {
	return &SimulationService{logger: logger}
}

// monthlyInstallment calcula la cuota fija que amortiza el préstamo en
// los meses indicados. La tasa cero se trata aparte porque la fórmula
// cerrada divide por cero.
func monthlyInstallment(principal, annualRate float64, months int) float64 {
	if annualRate == 0 {
		return principal / float64(months)
	}
	monthlyRate := (annualRate / 100) / 12
	n := float64(months)
	return principal * (monthlyRate / (1 - math.Pow(1+monthlyRate, -n)))
}

// budgetSchedule deriva la capacidad de pago total de cada mes: la cuota
// base con incremento anual más las cuotas extra de fin de año. Ambas
// estrategias reciben exactamente el mismo presupuesto mensual.
type budgetSchedule struct {
	installment      float64
	stepUpPercentage float64
	extraEmiPerYear  float64
}

func (b budgetSchedule) amountFor(month int) float64 {
	year := (month + 11) / 12
	// sin incremento en el primer año
	budget := b.installment * math.Pow(1+b.stepUpPercentage/100, float64(year-1))
	if b.extraEmiPerYear > 0 && month%12 == 0 {
		budget += b.installment * b.extraEmiPerYear
	}
	return budget
}

// amortizationTrack lleva el saldo de un préstamo mes a mes. Una vez
// cerrado no vuelve a abrirse ni acumula más intereses.
type amortizationTrack struct {
	balance      float64
	monthlyRate  float64
	paidInterest float64
	closedMonth  int // 0 mientras el préstamo siga abierto
}

func newAmortizationTrack(principal, annualRate float64) *amortizationTrack {
	return &amortizationTrack{
		balance:     principal,
		monthlyRate: (annualRate / 100) / 12,
	}
}

func (t *amortizationTrack) active() bool {
	return t.closedMonth == 0
}

// advance aplica el pago de un mes mientras el préstamo está abierto.
// Devuelve el monto realmente cobrado y el remanente no usado del pago
// propuesto; el remanente solo es distinto de cero en el mes de cierre.
func (t *amortizationTrack) advance(month int, payment float64) (charged, remainder float64) {
	if !t.active() {
		return 0, payment
	}

	interest := t.balance * t.monthlyRate
	t.paidInterest += interest

	principal := payment - interest
	if t.balance-principal < BalanceCloseTolerance {
		// el pago liquida el saldo: cobrar solo lo pendiente y
		// devolver el resto al llamador
		charged = t.balance + interest
		remainder = payment - charged
		if remainder < 0 {
			remainder = 0
		}
		t.balance = 0
		t.closedMonth = month
		return charged, remainder
	}

	t.balance -= principal
	return payment, 0
}

// accumulationTrack lleva el valor de la inversión mensual. El aporte se
// suma antes de aplicar el rendimiento del mes, así que gana un mes
// completo de retorno desde que se hace.
type accumulationTrack struct {
	value       float64
	contributed float64
	monthlyRate float64
}

func newAccumulationTrack(annualRate float64) *accumulationTrack {
	return &accumulationTrack{monthlyRate: (annualRate / 100) / 12}
}

func (t *accumulationTrack) advance(contribution float64) {
	t.value = (t.value + contribution) * (1 + t.monthlyRate)
	t.contributed += contribution
}

func validateInput(input domain.SimulationInput) error {
	if input.Principal <= 0 {
		return errors.New("monto inválido")
	}
	if input.Principal > MaxPrincipal {
		return fmt.Errorf("monto excede el máximo permitido de $%.2f", MaxPrincipal)
	}
	if input.InterestRate < 0 {
		return errors.New("tasa inválida")
	}
	if input.InterestRate > MaxInterestRate {
		return fmt.Errorf("tasa de interés excede el máximo permitido de %.2f%%", MaxInterestRate)
	}
	if input.TenureYears <= 0 {
		return errors.New("plazo inválido")
	}
	if input.TenureYears > MaxTenureYears {
		return fmt.Errorf("plazo excede el máximo permitido de %d años", MaxTenureYears)
	}
	if input.SipReturnRate < 0 {
		return errors.New("tasa de inversión inválida")
	}
	if input.SipReturnRate > MaxSipReturnRate {
		return fmt.Errorf("tasa de inversión excede el máximo permitido de %.2f%%", MaxSipReturnRate)
	}
	if input.ExtraEmiPerYear < 0 {
		return errors.New("cuotas extra inválidas")
	}
	if input.ExtraEmiPerYear > MaxExtraEmiPerYear {
		return fmt.Errorf("cuotas extra exceden el máximo permitido de %.0f por año", MaxExtraEmiPerYear)
	}
	if input.StepUpPercentage < 0 {
		return errors.New("incremento anual inválido")
	}
	if input.StepUpPercentage > MaxStepUpPercentage {
		return fmt.Errorf("incremento anual excede el máximo permitido de %.2f%%", MaxStepUpPercentage)
	}
	return nil
}

// Simulate computes the month-by-month trajectory of both strategies and
// the final wealth comparison. Strategy A pays the contractual
// installment and invests the rest of the monthly budget; Strategy B
// sends the entire budget to the loan until it closes and invests
// everything thereafter. The result is a pure function of the input.
func (s *SimulationService) Simulate(input domain.SimulationInput) (domain.SimulationResult, error) {
	if err := validateInput(input); err != nil {
		return domain.SimulationResult{}, err
	}

	months := input.TenureYears * 12
	installment := monthlyInstallment(input.Principal, input.InterestRate, months)

	schedule := budgetSchedule{
		installment:      installment,
		stepUpPercentage: input.StepUpPercentage,
		extraEmiPerYear:  input.ExtraEmiPerYear,
	}

	regularLoan := newAmortizationTrack(input.Principal, input.InterestRate)
	aggressiveLoan := newAmortizationTrack(input.Principal, input.InterestRate)
	regularSip := newAccumulationTrack(input.SipReturnRate)
	aggressiveSip := newAccumulationTrack(input.SipReturnRate)

	snapshots := make([]domain.MonthlySnapshot, 0, months)

	for month := 1; month <= months; month++ {
		budget := schedule.amountFor(month)

		// Estrategia A: paga la cuota contractual e invierte el
		// excedente. En el mes de cierre se invierte también el
		// remanente de la cuota que el préstamo ya no necesita.
		contributionRegular := budget
		if regularLoan.active() {
			charged, _ := regularLoan.advance(month, installment)
			contributionRegular = budget - charged
			if contributionRegular < 0 {
				contributionRegular = 0
			}
		}
		regularSip.advance(contributionRegular)

		// Estrategia B: todo el presupuesto va al préstamo hasta
		// cerrarlo; desde entonces todo se invierte.
		contributionAggressive := budget
		if aggressiveLoan.active() {
			_, remainder := aggressiveLoan.advance(month, budget)
			contributionAggressive = remainder
		}
		aggressiveSip.advance(contributionAggressive)

		snapshots = append(snapshots, domain.MonthlySnapshot{
			Month:                        month,
			Year:                         (month + 11) / 12,
			LoanBalanceRegular:           roundTo2Decimals(regularLoan.balance),
			LoanBalanceAggressive:        roundTo2Decimals(aggressiveLoan.balance),
			InvestmentValueRegular:       roundTo2Decimals(regularSip.value),
			InvestmentValueAggressive:    roundTo2Decimals(aggressiveSip.value),
			CumulativeInterestRegular:    roundTo2Decimals(regularLoan.paidInterest),
			CumulativeInterestAggressive: roundTo2Decimals(aggressiveLoan.paidInterest),
			TotalContributedRegular:      roundTo2Decimals(regularSip.contributed),
			TotalContributedAggressive:   roundTo2Decimals(aggressiveSip.contributed),
		})
	}

	// Riqueza final: valor de la inversión menos cualquier saldo que
	// haya quedado abierto al terminar el plazo.
	finalWealthRegular := regularSip.value - regularLoan.balance
	finalWealthAggressive := aggressiveSip.value - aggressiveLoan.balance

	// Los empates se resuelven a favor de invertir.
	winner := domain.StrategyInvest
	if finalWealthAggressive > finalWealthRegular {
		winner = domain.StrategyPrepay
	}

	summary := domain.SimulationSummary{
		MonthlyInstallment:       roundTo2Decimals(installment),
		TotalInterestRegular:     roundTo2Decimals(regularLoan.paidInterest),
		TotalInterestAggressive:  roundTo2Decimals(aggressiveLoan.paidInterest),
		InterestSaved:            roundTo2Decimals(regularLoan.paidInterest - aggressiveLoan.paidInterest),
		LoanCloseMonthRegular:    regularLoan.closedMonth,
		LoanCloseMonthAggressive: aggressiveLoan.closedMonth,
		FinalWealthRegular:       roundTo2Decimals(finalWealthRegular),
		FinalWealthAggressive:    roundTo2Decimals(finalWealthAggressive),
		WealthDifference:         roundTo2Decimals(math.Abs(finalWealthAggressive - finalWealthRegular)),
		WinningStrategy:          winner,
	}

	if s.logger != nil {
		s.logger.Debug("simulación completada",
			zap.Int("meses", months),
			zap.Int("cierre_agresivo", summary.LoanCloseMonthAggressive),
			zap.String("estrategia_ganadora", summary.WinningStrategy),
		)
	}

	return domain.SimulationResult{Schedule: snapshots, Summary: summary}, nil
}
