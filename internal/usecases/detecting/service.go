package detecting

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/revenue-monitor-api/infrastructure/repository"
	"github.com/vfg2006/revenue-monitor-api/internal/config"
	"github.com/vfg2006/revenue-monitor-api/internal/domain"
	"github.com/vfg2006/revenue-monitor-api/pkg/utils"
)

// Service aplica o modelo estatístico sobre a série diária de faturamento.
// Cada chamada é uma computação independente, sem estado compartilhado entre
// negócios: repetir a mesma chamada com a mesma série produz o mesmo veredito.
type Service struct {
	cfg             config.Detection
	transactionRepo repository.TransactionRepository
}

func NewService(cfg config.Detection, transactionRepo repository.TransactionRepository) Detector {
	return &Service{
		cfg:             cfg,
		transactionRepo: transactionRepo,
	}
}

// DetectAnomaly compara o faturamento do último dia da série com o padrão
// recente do negócio. O veredito negativo carrega apenas a marcação Detected,
// sem valores parciais. Parâmetros zerados assumem os valores da configuração,
// o que permite à verificação sob demanda ajustar a janela e a sensibilidade.
func (s *Service) DetectAnomaly(businessID string, date time.Time, lookbackDays int, thresholdStd float64) (*domain.AnomalyVerdict, error) {
	if date.IsZero() {
		date = time.Now().UTC()
	}

	if lookbackDays <= 0 {
		lookbackDays = s.cfg.LookbackDays
	}

	if thresholdStd <= 0 {
		thresholdStd = s.cfg.ThresholdStd
	}

	points, err := s.fetchDailyTotals(businessID, date, lookbackDays)
	if err != nil {
		return nil, err
	}

	// Menos de 7 pontos não sustentam um veredito
	if len(points) < 7 {
		return &domain.AnomalyVerdict{Detected: false}, nil
	}

	revenues := make([]float64, len(points))
	for i, point := range points {
		revenues[i] = point.Revenue
	}

	last := points[len(points)-1]
	today := last.Revenue

	historical := revenues[:len(revenues)-1]
	if len(historical) == 0 {
		// Inalcançável com a guarda de 7 pontos acima; mantido para a série
		// degenerada de um único ponto, comparando o dia com ele mesmo
		historical = revenues
	}

	avg7 := RollingAverage(historical, 7)
	avg30 := RollingAverage(historical, 30)
	stdDev := SampleStdDev(historical)
	z := ZScore(today, avg7, stdDev)

	dayDate := last.Date
	if dayDate.IsZero() {
		// Ponto sem data válida cai no dia da semana atual em UTC
		dayDate = time.Now().UTC()
	}

	dowBaseline, err := s.DayOfWeekBaseline(businessID, mondayIndexedWeekday(dayDate))
	if err != nil {
		return nil, err
	}

	var dropPercent float64
	if avg7 > 0 {
		dropPercent = (avg7 - today) / avg7 * 100
	}

	// As duas condições precisam valer ao mesmo tempo: um z-score extremo com
	// queda percentual pequena não conta, e vice-versa
	if !(z < -thresholdStd && dropPercent > s.cfg.MinDropPercent) {
		return &domain.AnomalyVerdict{Detected: false}, nil
	}

	verdict := &domain.AnomalyVerdict{
		Detected:     true,
		TodayRevenue: utils.RoundWithTwoDecimalPlace(today),
		RollingAvg7:  utils.RoundWithTwoDecimalPlace(avg7),
		RollingAvg30: utils.RoundWithTwoDecimalPlace(avg30),
		ZScore:       utils.RoundWithTwoDecimalPlace(z),
		DropPercent:  utils.RoundWithOneDecimalPlace(dropPercent),
		Severity:     classifySeverity(z, dropPercent),
		DowBaseline:  utils.RoundWithTwoDecimalPlace(dowBaseline),
		DowAdjusted:  dowBaseline > 0,
		StdDev:       utils.RoundWithTwoDecimalPlace(stdDev),
		DataPoints:   len(points),
	}

	logrus.Debugf("Anomalia detectada para o negócio %s: queda de %.1f%% (z=%.2f, severidade=%s)",
		businessID, verdict.DropPercent, verdict.ZScore, verdict.Severity)

	return verdict, nil
}

// AnalyzeTrend resume a direção do faturamento dos últimos days dias.
// A zona morta de ±5% evita que ruído normal vire tendência.
func (s *Service) AnalyzeTrend(businessID string, days int) (*domain.TrendResult, error) {
	if days <= 0 {
		days = s.cfg.TrendDays
	}

	points, err := s.fetchDailyTotals(businessID, time.Now().UTC(), days)
	if err != nil {
		return nil, err
	}

	if len(points) < 7 {
		return &domain.TrendResult{
			Direction:  domain.TrendUnknown,
			DataPoints: len(points),
		}, nil
	}

	revenues := make([]float64, len(points))
	for i, point := range points {
		revenues[i] = point.Revenue
	}

	firstWeekAvg := RollingAverage(revenues[:7], 7)
	lastWeekAvg := RollingAverage(revenues[len(revenues)-7:], 7)

	var changePercent float64
	if firstWeekAvg > 0 {
		changePercent = (lastWeekAvg - firstWeekAvg) / firstWeekAvg * 100
	}

	direction := domain.TrendStable
	if changePercent > 5 {
		direction = domain.TrendUp
	} else if changePercent < -5 {
		direction = domain.TrendDown
	}

	// Coeficiente de variação como percentual da média
	var volatility float64
	if avg := mean(revenues); avg > 0 {
		volatility = SampleStdDev(revenues) / avg * 100
	}

	return &domain.TrendResult{
		Direction:     direction,
		ChangePercent: utils.RoundWithOneDecimalPlace(changePercent),
		Volatility:    utils.RoundWithOneDecimalPlace(volatility),
		FirstWeekAvg:  utils.RoundWithTwoDecimalPlace(firstWeekAvg),
		LastWeekAvg:   utils.RoundWithTwoDecimalPlace(lastWeekAvg),
		DataPoints:    len(points),
	}, nil
}

// DayOfWeekBaseline calcula a média histórica de faturamento para um dia da
// semana (segunda=0 ... domingo=6). A janela é buscada de forma independente
// da varredura principal, de propósito: as duas janelas não são compartilhadas
// e podem divergir quando configuradas com tamanhos diferentes.
func (s *Service) DayOfWeekBaseline(businessID string, weekday int) (float64, error) {
	points, err := s.fetchDailyTotals(businessID, time.Now().UTC(), s.cfg.DowLookbackDays)
	if err != nil {
		return 0, err
	}

	matching := make([]float64, 0)
	for _, point := range points {
		if mondayIndexedWeekday(point.Date) == weekday {
			matching = append(matching, point.Revenue)
		}
	}

	if len(matching) == 0 {
		return 0, nil
	}

	return mean(matching), nil
}

func (s *Service) fetchDailyTotals(businessID string, endDate time.Time, days int) ([]*domain.DailyRevenuePoint, error) {
	startDate := endDate.AddDate(0, 0, -days)
	return s.transactionRepo.GetDailyTotals(businessID, startDate, endDate)
}

// mondayIndexedWeekday converte time.Weekday (domingo=0) para a convenção
// segunda=0 ... domingo=6 usada pelas linhas de base semanais
func mondayIndexedWeekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
