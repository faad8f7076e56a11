package main

import (
	"context"
	"os"
	"path"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/revenue-monitor-api/infrastructure/database/postgres"
	"github.com/vfg2006/revenue-monitor-api/infrastructure/integrator/mailer"
	"github.com/vfg2006/revenue-monitor-api/infrastructure/integrator/smsgateway"
	"github.com/vfg2006/revenue-monitor-api/infrastructure/integrator/telegram"
	"github.com/vfg2006/revenue-monitor-api/infrastructure/repository"
	"github.com/vfg2006/revenue-monitor-api/internal/api"
	"github.com/vfg2006/revenue-monitor-api/internal/config"
	"github.com/vfg2006/revenue-monitor-api/internal/scheduler"
	"github.com/vfg2006/revenue-monitor-api/internal/usecases/alerting"
	"github.com/vfg2006/revenue-monitor-api/internal/usecases/authenticating"
	"github.com/vfg2006/revenue-monitor-api/internal/usecases/business"
	"github.com/vfg2006/revenue-monitor-api/internal/usecases/detecting"
	"github.com/vfg2006/revenue-monitor-api/internal/usecases/ingesting"
	"github.com/vfg2006/revenue-monitor-api/internal/usecases/notifying"
	"github.com/vfg2006/revenue-monitor-api/internal/usecases/reporting"
	"github.com/vfg2006/revenue-monitor-api/pkg/log"
)

func main() {
	// Ajusta o diretório de trabalho para localizar o arquivo .env
	chdirToSourceDir()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Inicializa configuração de logs
	log.Setup(log.Options{
		Level:      cfg.App.LogLevel,
		FilePath:   cfg.App.LogFile,
		MaxSizeMB:  cfg.App.LogFileMaxSizeMB,
		MaxBackups: cfg.App.LogFileMaxBackups,
		MaxAgeDays: cfg.App.LogFileMaxAgeDays,
		Compress:   cfg.App.LogFileCompress,
	})
	logrus.Infof("Nível de log configurado para: %s", cfg.App.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	userRepo := repository.NewUserRepository(pgConn)
	businessRepo := repository.NewBusinessRepository(pgConn)
	transactionRepo := repository.NewTransactionRepository(pgConn)
	alertRepo := repository.NewAlertRepository(pgConn)
	forecastRepo := repository.NewForecastRepository(pgConn)
	preferenceRepo := repository.NewNotificationPreferenceRepository(pgConn)

	authenticator := authenticating.NewService(userRepo, cfg)
	businessService := business.NewService(businessRepo)
	ingesterService := ingesting.NewService(transactionRepo)
	reporterService := reporting.NewService(transactionRepo, forecastRepo)
	detectorService := detecting.NewService(cfg.Detection, transactionRepo)

	// Canais de notificação: integradores desabilitados ignoram os envios
	mailerClient := mailer.New(cfg.SMTP)
	smsClient := smsgateway.New(cfg.SMS)

	telegramClient, err := telegram.New(cfg.Telegram)
	if err != nil {
		logrus.WithError(err).Warn("Notificações via Telegram indisponíveis, canal desabilitado")
		telegramClient, _ = telegram.New(config.Telegram{})
	}

	notifierService := notifying.NewService(
		preferenceRepo,
		userRepo,
		mailerClient,
		smsClient,
		telegramClient,
	)

	alerterService := alerting.NewService(alertRepo, notifierService)

	// Inicializa os agendadores de varredura e de previsões
	anomalyScanService := scheduler.NewAnomalyScanService(
		businessRepo,
		detectorService,
		alerterService,
		cfg,
	)

	forecastRefreshService := scheduler.NewForecastRefreshService(
		businessRepo,
		transactionRepo,
		forecastRepo,
		detectorService,
		alerterService,
		cfg,
	)

	// Inicia os agendadores em background
	if err := anomalyScanService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de varredura de anomalias")
	} else {
		logrus.Info("Agendador de varredura de anomalias iniciado com sucesso")
	}

	if err := forecastRefreshService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de atualização de previsões")
	} else {
		logrus.Info("Agendador de atualização de previsões iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		pgConn,
		authenticator,
		businessService,
		ingesterService,
		reporterService,
		detectorService,
		alerterService,
		notifierService,
		anomalyScanService,
		forecastRefreshService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// chdirToSourceDir posiciona o processo no diretório do fonte para que o
// .env da raiz do projeto seja encontrado em execuções locais
func chdirToSourceDir() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
