package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/revenue-monitor-api/infrastructure/repository"
	"github.com/vfg2006/revenue-monitor-api/internal/config"
	"github.com/vfg2006/revenue-monitor-api/internal/domain"
	"github.com/vfg2006/revenue-monitor-api/internal/usecases/alerting"
	"github.com/vfg2006/revenue-monitor-api/internal/usecases/detecting"
	"github.com/vfg2006/revenue-monitor-api/pkg/utils"
)

const (
	// Janela de histórico usada para as médias diárias da previsão
	forecastLookbackDays = 90

	// Mínimo de pontos para gerar qualquer previsão
	forecastMinDataPoints = 7
)

// Chaves da linha de base por dia da semana, com segunda na posição zero
var dowNames = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// ForecastRefreshConfig representa a configuração do agendador de previsões
type ForecastRefreshConfig struct {
	CronSchedule          string
	SeasonalLookbackDays  int
	SeasonalMinDataPoints int
	AlertRetentionDays    int
	RefreshEnabled        bool
}

// ForecastRefreshService gerencia o recálculo diário das métricas de previsão
// de faturamento e a limpeza de alertas antigos
type ForecastRefreshService struct {
	scheduler              *gocron.Scheduler
	config                 ForecastRefreshConfig
	businessRepo           repository.BusinessRepository
	transactionRepo        repository.TransactionRepository
	forecastRepo           repository.ForecastRepository
	detectorService        detecting.Detector
	alertService           alerting.Alerter
	refreshRunning         bool
	refreshMutex           sync.Mutex
	lastRefreshStartedAt   time.Time
	lastRefreshCompletedAt time.Time
}

// NewForecastRefreshService cria uma nova instância do serviço de previsões
func NewForecastRefreshService(
	businessRepo repository.BusinessRepository,
	transactionRepo repository.TransactionRepository,
	forecastRepo repository.ForecastRepository,
	detectorService detecting.Detector,
	alertService alerting.Alerter,
	appConfig *config.Config,
) *ForecastRefreshService {
	// Criar a configuração com base na config global
	refreshConfig := ForecastRefreshConfig{
		CronSchedule:          appConfig.ForecastRefresh.CronSchedule,
		SeasonalLookbackDays:  appConfig.ForecastRefresh.SeasonalLookbackDays,
		SeasonalMinDataPoints: appConfig.ForecastRefresh.SeasonalMinDataPoints,
		AlertRetentionDays:    appConfig.ForecastRefresh.AlertRetentionDays,
		RefreshEnabled:        appConfig.ForecastRefresh.Enabled,
	}

	// Criar o agendador
	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule":            refreshConfig.CronSchedule,
		"seasonal_lookback_days":   refreshConfig.SeasonalLookbackDays,
		"seasonal_min_data_points": refreshConfig.SeasonalMinDataPoints,
		"alert_retention_days":     refreshConfig.AlertRetentionDays,
		"forecast_refresh_enabled": refreshConfig.RefreshEnabled,
	}).Info("Configuração do agendador de previsões carregada")

	return &ForecastRefreshService{
		scheduler:       scheduler,
		config:          refreshConfig,
		businessRepo:    businessRepo,
		transactionRepo: transactionRepo,
		forecastRepo:    forecastRepo,
		detectorService: detectorService,
		alertService:    alertService,
		refreshRunning:  false,
	}
}

// Start inicia o agendador
func (s *ForecastRefreshService) Start(ctx context.Context) error {
	if !s.config.RefreshEnabled {
		logrus.Info("Recálculo de previsões desabilitado por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de recálculo de previsões")

	// Agendar o recálculo diário
	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.refreshAllForecasts()
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar recálculo de previsões: %w", err)
	}

	// Executar o agendador em uma goroutine separada
	s.scheduler.StartAsync()

	// Configurar o cancelamento do agendador quando o contexto for cancelado
	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de recálculo de previsões")
		s.scheduler.Stop()
	}()

	return nil
}

// refreshAllForecasts recalcula as previsões de todos os negócios ativos e
// remove alertas fechados além da retenção
func (s *ForecastRefreshService) refreshAllForecasts() {
	s.refreshMutex.Lock()
	if s.refreshRunning {
		s.refreshMutex.Unlock()
		logrus.Info("Recálculo de previsões já em andamento, ignorando")
		return
	}
	s.refreshRunning = true
	s.refreshMutex.Unlock()

	startTime := time.Now()
	s.lastRefreshStartedAt = startTime

	defer func() {
		s.refreshMutex.Lock()
		s.refreshRunning = false
		s.refreshMutex.Unlock()
	}()

	logrus.Info("Iniciando recálculo de previsões para todos os negócios ativos")

	// Buscar todos os negócios ativos
	activeBusinesses, err := s.businessRepo.ListActive()
	if err != nil {
		logrus.WithError(err).Error("Erro ao buscar lista de negócios para recálculo de previsões")
		return
	}

	day := time.Now().UTC()
	refreshed := 0
	for _, business := range activeBusinesses {
		if s.refreshBusinessForecast(business, day) {
			refreshed++
		}
	}

	// Manutenção diária: remover alertas fechados além da retenção configurada
	if _, err := s.alertService.PurgeClosedAlerts(s.config.AlertRetentionDays); err != nil {
		logrus.WithError(err).Error("Erro ao remover alertas antigos na rotina de previsões")
	}

	duration := time.Since(startTime)
	logrus.WithFields(logrus.Fields{
		"duration":   duration.String(),
		"businesses": len(activeBusinesses),
		"refreshed":  refreshed,
	}).Info("Recálculo de previsões concluído")

	s.lastRefreshCompletedAt = time.Now()
}

// refreshBusinessForecast recalcula e persiste as métricas de previsão de um
// negócio, retornando se a previsão foi gerada
func (s *ForecastRefreshService) refreshBusinessForecast(business *domain.Business, day time.Time) bool {
	startDate := day.AddDate(0, 0, -forecastLookbackDays)

	points, err := s.transactionRepo.GetDailyTotals(business.ID, startDate, day)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"business_id":   business.ID,
			"business_name": business.Name,
			"error":         err.Error(),
		}).Error("Erro ao buscar histórico de faturamento para previsão")
		return false
	}

	if len(points) < forecastMinDataPoints {
		logrus.WithFields(logrus.Fields{
			"business_id": business.ID,
			"data_points": len(points),
		}).Info("Histórico insuficiente para gerar previsão do negócio")
		return false
	}

	revenues := make([]float64, len(points))
	for i, point := range points {
		revenues[i] = point.Revenue
	}

	forecastMetrics := &domain.ForecastMetrics{
		AvgDaily30:   utils.RoundWithTwoDecimalPlace(detecting.RollingAverage(revenues, 30)),
		AvgDaily90:   utils.RoundWithTwoDecimalPlace(detecting.RollingAverage(revenues, 90)),
		DowBaselines: s.buildDowBaselines(business.ID),
		DataPoints:   len(points),
		GeneratedAt:  time.Now().UTC(),
	}

	if seasonal := s.buildSeasonalPatterns(business.ID, day); len(seasonal) > 0 {
		forecastMetrics.SeasonalPatterns = seasonal
	}

	forecast := &domain.RevenueForecast{
		BusinessID: business.ID,
		Metrics:    forecastMetrics,
	}

	if err := s.forecastRepo.SaveOrUpdate(forecast); err != nil {
		logrus.WithFields(logrus.Fields{
			"business_id": business.ID,
			"error":       err.Error(),
		}).Error("Erro ao salvar previsão no banco de dados")
		return false
	}

	logrus.WithFields(logrus.Fields{
		"business_id": business.ID,
		"data_points": forecastMetrics.DataPoints,
	}).Info("Previsão recalculada para o negócio")

	return true
}

// buildDowBaselines monta a linha de base média por dia da semana do negócio
func (s *ForecastRefreshService) buildDowBaselines(businessID string) map[string]float64 {
	baselines := make(map[string]float64, len(dowNames))

	for i, name := range dowNames {
		baseline, err := s.detectorService.DayOfWeekBaseline(businessID, i)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"business_id": businessID,
				"weekday":     name,
				"error":       err.Error(),
			}).Error("Erro ao calcular linha de base do dia da semana")
			baseline = 0
		}

		baselines[name] = utils.RoundWithTwoDecimalPlace(baseline)
	}

	return baselines
}

// buildSeasonalPatterns calcula a média diária de faturamento por mês sobre o
// histórico longo. Sem o mínimo configurado de pontos o padrão sazonal é omitido
func (s *ForecastRefreshService) buildSeasonalPatterns(businessID string, day time.Time) map[string]float64 {
	startDate := day.AddDate(0, 0, -s.config.SeasonalLookbackDays)

	points, err := s.transactionRepo.GetDailyTotals(businessID, startDate, day)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"business_id": businessID,
			"error":       err.Error(),
		}).Error("Erro ao buscar histórico longo para padrões sazonais")
		return nil
	}

	if len(points) < s.config.SeasonalMinDataPoints {
		return nil
	}

	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, point := range points {
		month := point.Date.Format("2006-01")
		sums[month] += point.Revenue
		counts[month]++
	}

	patterns := make(map[string]float64, len(sums))
	for month, sum := range sums {
		patterns[month] = utils.RoundWithTwoDecimalPlace(sum / float64(counts[month]))
	}

	return patterns
}

// TriggerManualRefresh inicia manualmente um recálculo de previsões
func (s *ForecastRefreshService) TriggerManualRefresh() {
	s.refreshMutex.Lock()
	if s.refreshRunning {
		s.refreshMutex.Unlock()
		logrus.Info("Recálculo de previsões já em andamento, ignorando solicitação manual")
		return
	}
	s.refreshMutex.Unlock()

	logrus.Info("Iniciando recálculo manual de previsões")
	go s.refreshAllForecasts()
}

// GetStatus retorna o status atual do agendador
func (s *ForecastRefreshService) GetStatus() map[string]any {
	return map[string]any{
		"refresh_enabled":           s.config.RefreshEnabled,
		"refresh_cron":              s.config.CronSchedule,
		"seasonal_lookback_days":    s.config.SeasonalLookbackDays,
		"seasonal_min_data_points":  s.config.SeasonalMinDataPoints,
		"alert_retention_days":      s.config.AlertRetentionDays,
		"last_refresh_started_at":   s.lastRefreshStartedAt,
		"last_refresh_completed_at": s.lastRefreshCompletedAt,
	}
}
