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
	"github.com/vfg2006/revenue-monitor-api/internal/metrics"
	"github.com/vfg2006/revenue-monitor-api/internal/usecases/alerting"
	"github.com/vfg2006/revenue-monitor-api/internal/usecases/detecting"
)

// AnomalyScanConfig representa a configuração do agendador de varredura de anomalias
type AnomalyScanConfig struct {
	CronSchedule      string
	MaxConcurrentJobs int
	ScanEnabled       bool
}

// AnomalyScanService gerencia o agendamento e execução da varredura de anomalias
// de faturamento sobre todos os negócios ativos
type AnomalyScanService struct {
	scheduler           *gocron.Scheduler
	config              AnomalyScanConfig
	businessRepo        repository.BusinessRepository
	detectorService     detecting.Detector
	alertService        alerting.Alerter
	scanRunning         bool
	scanMutex           sync.Mutex
	lastScanStartedAt   time.Time
	lastScanCompletedAt time.Time
}

// NewAnomalyScanService cria uma nova instância do serviço de varredura de anomalias
func NewAnomalyScanService(
	businessRepo repository.BusinessRepository,
	detectorService detecting.Detector,
	alertService alerting.Alerter,
	appConfig *config.Config,
) *AnomalyScanService {
	// Criar a configuração com base na config global
	scanConfig := AnomalyScanConfig{
		CronSchedule:      appConfig.AnomalyScan.CronSchedule,
		MaxConcurrentJobs: appConfig.AnomalyScan.MaxConcurrentJobs,
		ScanEnabled:       appConfig.AnomalyScan.Enabled,
	}

	// Criar o agendador
	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule":       scanConfig.CronSchedule,
		"max_concurrent_jobs": scanConfig.MaxConcurrentJobs,
		"scan_enabled":        scanConfig.ScanEnabled,
	}).Info("Configuração do agendador de varredura de anomalias carregada")

	return &AnomalyScanService{
		scheduler:       scheduler,
		config:          scanConfig,
		businessRepo:    businessRepo,
		detectorService: detectorService,
		alertService:    alertService,
		scanRunning:     false,
	}
}

// Start inicia o agendador
func (s *AnomalyScanService) Start(ctx context.Context) error {
	if !s.config.ScanEnabled {
		logrus.Info("Varredura de anomalias desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de varredura de anomalias")

	// Agendar a varredura periódica
	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.scanAllBusinesses()
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar varredura de anomalias: %w", err)
	}

	// Executar o agendador em uma goroutine separada
	s.scheduler.StartAsync()

	// Configurar o cancelamento do agendador quando o contexto for cancelado
	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de varredura de anomalias")
		s.scheduler.Stop()
	}()

	return nil
}

// scanAllBusinesses varre todos os negócios ativos em busca de anomalias de faturamento
func (s *AnomalyScanService) scanAllBusinesses() {
	s.scanMutex.Lock()
	if s.scanRunning {
		s.scanMutex.Unlock()
		logrus.Info("Varredura de anomalias já em andamento, ignorando")
		return
	}
	s.scanRunning = true
	s.scanMutex.Unlock()

	startTime := time.Now()
	s.lastScanStartedAt = startTime

	defer func() {
		s.scanMutex.Lock()
		s.scanRunning = false
		s.scanMutex.Unlock()
	}()

	logrus.Info("Iniciando varredura de anomalias para todos os negócios ativos")

	// Buscar todos os negócios ativos
	activeBusinesses, err := s.businessRepo.ListActive()
	if err != nil {
		logrus.WithError(err).Error("Erro ao buscar lista de negócios para varredura de anomalias")
		return
	}

	if len(activeBusinesses) == 0 {
		logrus.Info("Nenhum negócio ativo encontrado para varredura de anomalias")
		return
	}

	// Varrer os negócios em paralelo usando o dia corrente como referência
	s.scanBusinesses(activeBusinesses, time.Now().UTC())

	metrics.ScansTotal.Inc()

	duration := time.Since(startTime)
	metrics.ScanDuration.Observe(duration.Seconds())

	logrus.WithFields(logrus.Fields{
		"duration":   duration.String(),
		"businesses": len(activeBusinesses),
	}).Info("Varredura de anomalias concluída")

	s.lastScanCompletedAt = time.Now()
}

// scanBusinesses processa os negócios em paralelo respeitando o limite de workers
func (s *AnomalyScanService) scanBusinesses(businesses []*domain.Business, day time.Time) {
	// Criar um canal para controlar o número de workers concorrentes
	semaphore := make(chan struct{}, s.config.MaxConcurrentJobs)
	var wg sync.WaitGroup

	for _, business := range businesses {
		// Adicionar uma tarefa ao grupo de espera
		wg.Add(1)
		semaphore <- struct{}{} // Adquirir semáforo

		go func(b *domain.Business) {
			defer func() {
				<-semaphore // Liberar semáforo
				wg.Done()
			}()

			s.scanBusiness(b, day)
		}(business)
	}

	// Aguardar todos os workers terminarem
	wg.Wait()
}

// scanBusiness roda a detecção para um negócio e registra o alerta quando o
// veredito é positivo
func (s *AnomalyScanService) scanBusiness(business *domain.Business, day time.Time) {
	logrus.WithFields(logrus.Fields{
		"business_id":   business.ID,
		"business_name": business.Name,
		"date":          day.Format(time.DateOnly),
	}).Debug("Varrendo negócio em busca de anomalias")

	verdict, err := s.detectorService.DetectAnomaly(business.ID, day, 0, 0)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"business_id":   business.ID,
			"business_name": business.Name,
			"error":         err.Error(),
		}).Error("Erro ao detectar anomalia para o negócio")
		return
	}

	metrics.BusinessesScanned.Inc()

	if verdict == nil || !verdict.Detected {
		return
	}

	metrics.AnomaliesDetected.WithLabelValues(string(verdict.Severity)).Inc()

	logrus.WithFields(logrus.Fields{
		"business_id":  business.ID,
		"severity":     verdict.Severity,
		"drop_percent": verdict.DropPercent,
		"z_score":      verdict.ZScore,
	}).Info("Anomalia de faturamento detectada para o negócio")

	// Severidade baixa é filtrada pelo serviço de alertas, aqui só registramos
	if _, err := s.alertService.CreateFromVerdict(business, verdict, day); err != nil {
		logrus.WithFields(logrus.Fields{
			"business_id": business.ID,
			"error":       err.Error(),
		}).Error("Erro ao registrar alerta para anomalia detectada")
	}
}

// TriggerManualScan inicia manualmente uma varredura de anomalias
func (s *AnomalyScanService) TriggerManualScan() {
	s.scanMutex.Lock()
	if s.scanRunning {
		s.scanMutex.Unlock()
		logrus.Info("Varredura de anomalias já em andamento, ignorando solicitação manual")
		return
	}
	s.scanMutex.Unlock()

	logrus.Info("Iniciando varredura manual de anomalias")
	go s.scanAllBusinesses()
}

// GetStatus retorna o status atual do agendador
func (s *AnomalyScanService) GetStatus() map[string]any {
	return map[string]any{
		"scan_enabled":           s.config.ScanEnabled,
		"scan_cron":              s.config.CronSchedule,
		"scan_max_concurrent":    s.config.MaxConcurrentJobs,
		"last_scan_started_at":   s.lastScanStartedAt,
		"last_scan_completed_at": s.lastScanCompletedAt,
	}
}
