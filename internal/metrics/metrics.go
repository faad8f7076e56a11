package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Contadores e histogramas expostos em /metrics
var (
	ScansTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "revenue_monitor_scans_total",
		Help: "Total de varreduras de anomalia executadas",
	})

	BusinessesScanned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "revenue_monitor_businesses_scanned_total",
		Help: "Total de negócios analisados pelas varreduras",
	})

	AnomaliesDetected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "revenue_monitor_anomalies_detected_total",
		Help: "Total de anomalias detectadas, por severidade",
	}, []string{"severity"})

	AlertsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "revenue_monitor_alerts_created_total",
		Help: "Total de alertas criados",
	})

	NotificationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "revenue_monitor_notifications_sent_total",
		Help: "Total de notificações enviadas, por canal e resultado",
	}, []string{"channel", "status"})

	ScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "revenue_monitor_scan_duration_seconds",
		Help:    "Duração das varreduras completas de anomalia",
		Buckets: prometheus.DefBuckets,
	})

	TransactionsIngested = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "revenue_monitor_transactions_ingested_total",
		Help: "Total de transações ingeridas, por origem",
	}, []string{"source"})
)
