package detecting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/revenue-monitor-api/internal/domain"
)

func TestRollingAverage(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		window   int
		expected float64
	}{
		{
			name:     "Sequência vazia retorna zero",
			values:   nil,
			window:   7,
			expected: 0,
		},
		{
			name:     "Histórico menor que a janela usa a média de todos os valores",
			values:   []float64{100, 200, 300},
			window:   7,
			expected: 200,
		},
		{
			name:     "Janela igual ao tamanho do histórico usa todos os valores",
			values:   []float64{100, 200, 300, 400},
			window:   4,
			expected: 250,
		},
		{
			name:     "Somente os valores da cauda entram na janela",
			values:   []float64{50, 50, 50, 50, 50, 50, 50, 50, 50, 50, 100, 100, 100, 100, 100, 100, 100},
			window:   7,
			expected: 100,
		},
		{
			name:     "Janela unitária retorna o último valor",
			values:   []float64{10, 20, 30},
			window:   1,
			expected: 30,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RollingAverage(tt.values, tt.window))
		})
	}
}

func TestSampleStdDev(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{
			name:     "Sequência vazia degrada para zero",
			values:   nil,
			expected: 0,
		},
		{
			name:     "Valor único degrada para zero",
			values:   []float64{100},
			expected: 0,
		},
		{
			name:     "Valores idênticos têm desvio zero",
			values:   []float64{100, 100, 100, 100},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SampleStdDev(tt.values))
		})
	}

	t.Run("Desvio amostral usa denominador n-1", func(t *testing.T) {
		// Média 5, soma dos quadrados das diferenças 32, variância amostral 32/7
		values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
		assert.InDelta(t, 2.1381, SampleStdDev(values), 0.0001)
	})
}

func TestZScore(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		mean     float64
		stdDev   float64
		expected float64
	}{
		{
			name:     "Valor abaixo da média tem z negativo",
			value:    80,
			mean:     100,
			stdDev:   10,
			expected: -2.0,
		},
		{
			name:     "Valor acima da média tem z positivo",
			value:    120,
			mean:     100,
			stdDev:   10,
			expected: 2.0,
		},
		{
			name:     "Valor igual à média tem z zero",
			value:    100,
			mean:     100,
			stdDev:   10,
			expected: 0,
		},
		{
			name:     "Desvio zero degrada para z zero",
			value:    80,
			mean:     100,
			stdDev:   0,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ZScore(tt.value, tt.mean, tt.stdDev))
		})
	}
}

func TestClassifySeverity(t *testing.T) {
	tests := []struct {
		name        string
		zScore      float64
		dropPercent float64
		expected    domain.Severity
	}{
		{
			name:        "Z-score extremo sozinho eleva para alta",
			zScore:      -3.5,
			dropPercent: 30,
			expected:    domain.SeverityHigh,
		},
		{
			name:        "Queda acima de 40% sozinha eleva para alta",
			zScore:      -2.5,
			dropPercent: 45,
			expected:    domain.SeverityHigh,
		},
		{
			name:        "Sinais intermediários classificam como média",
			zScore:      -2.5,
			dropPercent: 30,
			expected:    domain.SeverityMedium,
		},
		{
			name:        "Sinais brandos caem na severidade baixa",
			zScore:      -1.8,
			dropPercent: 20,
			expected:    domain.SeverityLow,
		},
		{
			name:        "Limites exatos não escalam para alta",
			zScore:      -3.0,
			dropPercent: 40,
			expected:    domain.SeverityMedium,
		},
		{
			name:        "Limites exatos da faixa média caem para baixa",
			zScore:      -2.0,
			dropPercent: 25,
			expected:    domain.SeverityLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifySeverity(tt.zScore, tt.dropPercent))
		})
	}
}
