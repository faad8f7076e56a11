package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/revenue-monitor-api/infrastructure/database/postgres"
	"github.com/vfg2006/revenue-monitor-api/internal/api/handler"
	"github.com/vfg2006/revenue-monitor-api/internal/api/handler/router"
	"github.com/vfg2006/revenue-monitor-api/internal/config"
	"github.com/vfg2006/revenue-monitor-api/internal/scheduler"
	"github.com/vfg2006/revenue-monitor-api/internal/usecases/alerting"
	"github.com/vfg2006/revenue-monitor-api/internal/usecases/authenticating"
	"github.com/vfg2006/revenue-monitor-api/internal/usecases/business"
	"github.com/vfg2006/revenue-monitor-api/internal/usecases/detecting"
	"github.com/vfg2006/revenue-monitor-api/internal/usecases/ingesting"
	"github.com/vfg2006/revenue-monitor-api/internal/usecases/notifying"
	"github.com/vfg2006/revenue-monitor-api/internal/usecases/reporting"
	"github.com/vfg2006/revenue-monitor-api/pkg/middleware"
)

type Server struct {
	httpServer *http.Server
}

func New(
	config *config.Config,
	conn *postgres.Connection,
	authenticator authenticating.Authenticator,
	businessService business.Manager,
	ingesterService ingesting.Ingester,
	reporterService reporting.Reporter,
	detectorService detecting.Detector,
	alerterService alerting.Alerter,
	notifierService notifying.Notifier,
	anomalyScanService *scheduler.AnomalyScanService,
	forecastRefreshService *scheduler.ForecastRefreshService,
) (*Server, error) {
	// Inicializar o struct com os serviços de cron jobs
	cronServices := handler.CronJobServices{
		AnomalyScanService:     anomalyScanService,
		ForecastRefreshService: forecastRefreshService,
	}

	rt := router.New(
		router.WithRoutes(handler.Healthcheck(conn)...),
		router.WithRoutes(handler.Metrics()...),
		router.WithRoutes(handler.Authentication(authenticator)...),
		router.WithRoutes(handler.User(authenticator)...),
		router.WithRoutes(handler.Businesses(businessService)...),
		router.WithRoutes(handler.Transactions(ingesterService, businessService)...),
		router.WithRoutes(handler.Analytics(reporterService, detectorService, businessService)...),
		router.WithRoutes(handler.Alerts(alerterService, businessService)...),
		router.WithRoutes(handler.Notifications(notifierService)...),
		router.WithRoutes(handler.CronJobs(cronServices)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(),
		middleware.AuthMiddleware(authenticator),
	}

	handler := alice.New(middlewares...).Then(rt)

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           handler,
			ReadHeaderTimeout: 2 * time.Second,
		},
	}

	return srv, nil
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Erro durante a execução do servidor")
		}
	}()

	// Canal para aguardar sinais de término
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	// Aguardar pelo sinal ou pelo cancelamento do contexto
	select {
	case <-done:
		logrus.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		logrus.Info("Contexto de aplicação cancelado")
	}

	// Define timeout para desligamento
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// Log de início do desligamento
	logrus.WithFields(logrus.Fields{
		"timeout": "15s",
	}).Info("Iniciando desligamento gracioso do servidor")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	logrus.Info("Servidor desligado com sucesso")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	logrus.Info("Executando operações de limpeza antes do desligamento")

	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		return err
	}

	logrus.Info("Servidor HTTP desligado com sucesso")
	return nil
}
