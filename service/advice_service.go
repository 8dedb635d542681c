package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"go.uber.org/zap"

	"prepay-advisor/domain"
	"prepay-advisor/repository"
)

const adviceSystemPrompt = "Eres un asesor financiero experto especializado en el mercado crediticio de Nicaragua. " +
	"Proporcionas explicaciones claras, precisas y motivacionales en español sobre la decisión entre prepagar un préstamo " +
	"o invertir el excedente mensual. Siempre presentas los montos tanto en dólares estadounidenses (USD) como en córdobas " +
	"nicaragüenses (NIO), usando una tasa de cambio aproximada cuando sea necesario. Tus explicaciones son educativas, " +
	"fáciles de entender y ayudan a los usuarios a tomar decisiones financieras informadas."

// AdviceGenerator is the narrative-text collaborator. It is optional: a
// disabled or failing generator degrades to a canned explanation and
// never alters the simulation result.
type AdviceGenerator interface {
	Enabled() bool
	Generate(ctx context.Context, systemPrompt, prompt string) (string, error)
}

type AdviceService struct {
	simulation *SimulationService
	generator  AdviceGenerator
	cache      repository.CacheRepository
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// NewAdviceService creates an AdviceService on top of the simulation
// engine. The cache avoids repeated model calls for identical inputs.
func NewAdviceService(
	simulation *SimulationService,
	generator AdviceGenerator,
	cache repository.CacheRepository,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *AdviceService {
	return &AdviceService{
		simulation: simulation,
		generator:  generator,
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

// Advise runs the simulation and attaches a narrative explanation of the
// outcome. Simulation errors are returned as-is; explanation problems
// never fail the call.
func (s *AdviceService) Advise(ctx context.Context, input domain.SimulationInput) (domain.AdviceResult, error) {
	result, err := s.simulation.Simulate(input)
	if err != nil {
		return domain.AdviceResult{}, err
	}

	return domain.AdviceResult{
		Result:      result,
		Explanation: s.explain(ctx, input, result.Summary),
	}, nil
}

func (s *AdviceService) explain(ctx context.Context, input domain.SimulationInput, summary domain.SimulationSummary) string {
	key := adviceCacheKey(input)
	if cached, ok := s.cache.Get(key); ok {
		return cached
	}

	if !s.generator.Enabled() {
		return s.fallbackExplanation(summary)
	}

	explanation, err := s.generator.Generate(ctx, adviceSystemPrompt, s.buildPrompt(input, summary))
	if err != nil {
		s.logger.Warn("no se pudo generar la explicación con IA", zap.Error(err))
		return s.fallbackExplanation(summary)
	}

	if err := s.cache.Set(key, explanation, s.cacheTTL); err != nil {
		s.logger.Warn("no se pudo guardar la explicación en cache", zap.Error(err))
	}

	return explanation
}

// adviceCacheKey es una huella estable de los parámetros de entrada.
func adviceCacheKey(input domain.SimulationInput) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%v:%v:%d:%v:%v:%v",
		input.Principal, input.InterestRate, input.TenureYears,
		input.SipReturnRate, input.ExtraEmiPerYear, input.StepUpPercentage))
	return "advice:" + hex.EncodeToString(sum[:])
}

func (s *AdviceService) buildPrompt(input domain.SimulationInput, summary domain.SimulationSummary) string {
	usdToNIO := GetUSDToNIORate()

	strategyName := "Invertir el Excedente"
	strategyDesc := "Pagar solo la cuota contractual del préstamo e invertir toda la capacidad de pago restante cada mes."
	if summary.WinningStrategy == domain.StrategyPrepay {
		strategyName = "Prepagar Primero"
		strategyDesc = "Destinar toda la capacidad de pago al préstamo hasta liquidarlo y recién entonces invertir todo el presupuesto mensual."
	}

	return fmt.Sprintf(`Analiza esta comparación entre prepagar un préstamo e invertir el excedente, y genera una explicación clara y educativa.

CONTEXTO DEL PRÉSTAMO:
- Monto del préstamo: $%.2f USD (C$%.2f NIO)
- Tasa de interés anual: %.2f%%
- Plazo: %d años
- Cuota mensual: $%.2f USD (C$%.2f NIO)
- Rendimiento anual esperado de la inversión: %.2f%%
- Cuotas extra por año: %.1f
- Incremento anual de capacidad de pago: %.2f%%

RESULTADO DE LA SIMULACIÓN:
- Estrategia ganadora: %s
- %s
- Riqueza final invirtiendo el excedente: $%.2f USD (C$%.2f NIO)
- Riqueza final prepagando primero: $%.2f USD (C$%.2f NIO)
- Diferencia: $%.2f USD (C$%.2f NIO)
- Intereses pagados con la cuota contractual: $%.2f USD
- Intereses pagados prepagando: $%.2f USD (ahorro de $%.2f USD)
- Mes en que cierra el préstamo prepagando: %d de %d

INSTRUCCIONES:
1. Explica de manera clara por qué la estrategia %s termina con más riqueza en este escenario.
2. Menciona específicamente los montos en ambas monedas (USD y NIO).
3. Explica el balance entre el ahorro de intereses y el rendimiento de la inversión.
4. Proporciona contexto sobre cómo esto se relaciona con el mercado crediticio nicaragüense (préstamos personales, hipotecas).
5. Sé motivacional pero realista.

Genera una explicación de 3-4 oraciones que sea fácil de entender para cualquier persona.`,
		input.Principal, input.Principal*usdToNIO,
		input.InterestRate, input.TenureYears,
		summary.MonthlyInstallment, summary.MonthlyInstallment*usdToNIO,
		input.SipReturnRate, input.ExtraEmiPerYear, input.StepUpPercentage,
		strategyName, strategyDesc,
		summary.FinalWealthRegular, summary.FinalWealthRegular*usdToNIO,
		summary.FinalWealthAggressive, summary.FinalWealthAggressive*usdToNIO,
		summary.WealthDifference, summary.WealthDifference*usdToNIO,
		summary.TotalInterestRegular, summary.TotalInterestAggressive, summary.InterestSaved,
		summary.LoanCloseMonthAggressive, input.TenureYears*12,
		strategyName)
}

func (s *AdviceService) fallbackExplanation(summary domain.SimulationSummary) string {
	usdToNIO := GetUSDToNIORate()

	if summary.WinningStrategy == domain.StrategyPrepay {
		return fmt.Sprintf("Prepagar primero es la mejor opción en este escenario: el préstamo se liquida en el mes %d, "+
			"ahorras $%.2f USD (C$%.2f NIO) en intereses y terminas con $%.2f USD (C$%.2f NIO) más de riqueza final. "+
			"Liquidar deuda cara antes de invertir es especialmente efectivo cuando la tasa del préstamo supera el rendimiento esperado de la inversión.",
			summary.LoanCloseMonthAggressive,
			summary.InterestSaved, summary.InterestSaved*usdToNIO,
			summary.WealthDifference, summary.WealthDifference*usdToNIO)
	}

	return fmt.Sprintf("Pagar la cuota contractual e invertir el excedente es la mejor opción en este escenario: "+
		"aunque prepagar ahorraría $%.2f USD (C$%.2f NIO) en intereses, invertir cada mes termina con $%.2f USD (C$%.2f NIO) más de riqueza final. "+
		"Cuando el rendimiento esperado de la inversión supera la tasa del préstamo, cada córdoba invertido temprano rinde más que el interés que evita.",
		summary.InterestSaved, summary.InterestSaved*usdToNIO,
		summary.WealthDifference, summary.WealthDifference*usdToNIO)
}
