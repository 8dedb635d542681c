package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"prepay-advisor/domain"
	"prepay-advisor/repository"
)

type stubGenerator struct {
	enabled bool
	text    string
	err     error
	calls   int
}

func (g *stubGenerator) Enabled() bool {
	return g.enabled
}

func (g *stubGenerator) Generate(_ context.Context, _, _ string) (string, error) {
	g.calls++
	if g.err != nil {
		return "", g.err
	}
	return g.text, nil
}

var adviceInput = domain.SimulationInput{
	Principal:        1_000_000,
	InterestRate:     12,
	TenureYears:      10,
	SipReturnRate:    6,
	ExtraEmiPerYear:  1,
	StepUpPercentage: 5,
}

func newAdviceService(generator *stubGenerator, cache repository.CacheRepository) *AdviceService {
	return NewAdviceService(
		NewSimulationService(zap.NewNop()),
		generator,
		cache,
		time.Hour,
		zap.NewNop(),
	)
}

func TestAdvise_FallbackWhenDisabled(t *testing.T) {
	generator := &stubGenerator{enabled: false}
	service := newAdviceService(generator, repository.NewMockCache())

	result, err := service.Advise(context.Background(), adviceInput)

	require.NoError(t, err)
	assert.NotEmpty(t, result.Explanation)
	assert.Contains(t, result.Explanation, "Prepagar primero")
	assert.Equal(t, 0, generator.calls)
	// la simulación no se ve afectada por el generador
	assert.Equal(t, domain.StrategyPrepay, result.Result.Summary.WinningStrategy)
}

func TestAdvise_GeneratedExplanationIsCached(t *testing.T) {
	generator := &stubGenerator{enabled: true, text: "explicación generada"}
	cache := repository.NewMockCache()
	service := newAdviceService(generator, cache)

	result, err := service.Advise(context.Background(), adviceInput)

	require.NoError(t, err)
	assert.Equal(t, "explicación generada", result.Explanation)
	assert.Equal(t, 1, generator.calls)

	cached, ok := cache.Get(adviceCacheKey(adviceInput))
	require.True(t, ok)
	assert.Equal(t, "explicación generada", cached)

	// la segunda llamada sale del cache sin tocar el modelo
	result, err = service.Advise(context.Background(), adviceInput)
	require.NoError(t, err)
	assert.Equal(t, "explicación generada", result.Explanation)
	assert.Equal(t, 1, generator.calls)
}

func TestAdvise_GeneratorErrorDegradesToFallback(t *testing.T) {
	generator := &stubGenerator{enabled: true, err: errors.New("model unavailable")}
	cache := repository.NewMockCache()
	service := newAdviceService(generator, cache)

	result, err := service.Advise(context.Background(), adviceInput)

	require.NoError(t, err)
	assert.NotEmpty(t, result.Explanation)
	assert.Contains(t, result.Explanation, "Prepagar primero")

	// los fallbacks no se cachean
	_, ok := cache.Get(adviceCacheKey(adviceInput))
	assert.False(t, ok)
}

func TestAdvise_InvalidInputRejected(t *testing.T) {
	generator := &stubGenerator{enabled: true, text: "nunca usado"}
	service := newAdviceService(generator, repository.NewMockCache())

	_, err := service.Advise(context.Background(), domain.SimulationInput{
		Principal:   -1,
		TenureYears: 5,
	})

	require.Error(t, err)
	assert.Equal(t, 0, generator.calls)
}
