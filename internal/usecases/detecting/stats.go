package detecting

import (
	"math"

	"github.com/vfg2006/revenue-monitor-api/internal/domain"
)

// RollingAverage retorna a média dos últimos window valores da sequência.
// Com histórico menor que a janela, degrada para a média de todos os valores
// em vez de falhar.
func RollingAverage(values []float64, window int) float64 {
	if len(values) == 0 {
		return 0
	}

	if len(values) < window {
		return mean(values)
	}

	return mean(values[len(values)-window:])
}

// SampleStdDev retorna o desvio padrão amostral (denominador n-1).
// Com menos de dois valores o desvio é indefinido e degrada para 0.
func SampleStdDev(values []float64) float64 {
	if len(values) <= 1 {
		return 0
	}

	avg := mean(values)

	var sum float64
	for _, v := range values {
		diff := v - avg
		sum += diff * diff
	}

	return math.Sqrt(sum / float64(len(values)-1))
}

// ZScore mede quantos desvios padrão value está distante de mean.
// Com desvio zero retorna 0 em vez de dividir por zero: um valor igual a uma
// linha de base sem variância não é anômalo por convenção.
func ZScore(value, mean, stdDev float64) float64 {
	if stdDev == 0 {
		return 0
	}

	return (value - mean) / stdDev
}

// classifySeverity gradua a força da anomalia a partir dos dois sinais.
// Cada sinal é avaliado de forma independente: qualquer um sozinho basta
// para elevar a severidade.
func classifySeverity(zScore, dropPercent float64) domain.Severity {
	switch {
	case zScore < -3 || dropPercent > 40:
		return domain.SeverityHigh
	case zScore < -2 || dropPercent > 25:
		return domain.SeverityMedium
	default:
		return domain.SeverityLow
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values))
}
