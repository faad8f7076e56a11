package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vfg2006/revenue-monitor-api/infrastructure/database/postgres"
	"github.com/vfg2006/revenue-monitor-api/internal/api/handler/router"
	"github.com/vfg2006/revenue-monitor-api/internal/domain"
	"github.com/vfg2006/revenue-monitor-api/internal/usecases/alerting"
	"github.com/vfg2006/revenue-monitor-api/internal/usecases/authenticating"
	"github.com/vfg2006/revenue-monitor-api/internal/usecases/business"
	"github.com/vfg2006/revenue-monitor-api/internal/usecases/detecting"
	"github.com/vfg2006/revenue-monitor-api/internal/usecases/ingesting"
	"github.com/vfg2006/revenue-monitor-api/internal/usecases/notifying"
	"github.com/vfg2006/revenue-monitor-api/internal/usecases/reporting"
	"github.com/vfg2006/revenue-monitor-api/pkg/middleware"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// validate é compartilhado pelos handlers que recebem corpo de requisição
var validate = validator.New()

// validationDetails resume os campos rejeitados pela validação estrutural
func validationDetails(err error) map[string]any {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	fields := make(map[string]any, len(validationErrors))
	for _, fieldError := range validationErrors {
		fields[fieldError.Field()] = fieldError.Tag()
	}

	return map[string]any{"fields": fields}
}

func Healthcheck(conn *postgres.Connection) []router.Route {
	return []router.Route{
		{
			Path:    "/health",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(conn),
		},
	}
}

func Metrics() []router.Route {
	return []router.Route{
		{
			Path:    "/metrics",
			Method:  http.MethodGet,
			Handler: promhttp.Handler(),
		},
	}
}

func Authentication(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:    "/v1/login",
			Method:  http.MethodPost,
			Handler: Login(service),
		},
		{
			Path:    "/v1/register",
			Method:  http.MethodPost,
			Handler: Register(service),
		},
		{
			Path:        "/v1/users/:id/generate-password",
			Method:      http.MethodPost,
			Handler:     GeneratePassword(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/users/:id/password",
			Method:      http.MethodPut,
			Handler:     ChangePassword(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/me",
			Method:      http.MethodGet,
			Handler:     GetMe(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func User(service authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/users",
			Method:      http.MethodGet,
			Handler:     ListUsers(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/users",
			Method:      http.MethodPost,
			Handler:     CreateUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/users/:id",
			Method:      http.MethodPatch,
			Handler:     UpdateUser(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}

func Businesses(service business.Manager) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/businesses",
			Method:      http.MethodGet,
			Handler:     ListBusinesses(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/businesses",
			Method:      http.MethodPost,
			Handler:     CreateBusiness(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/businesses/:id",
			Method:      http.MethodGet,
			Handler:     GetBusiness(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/businesses/:id",
			Method:      http.MethodPatch,
			Handler:     UpdateBusiness(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/businesses/:id",
			Method:      http.MethodDelete,
			Handler:     DeactivateBusiness(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Transactions(ingesterService ingesting.Ingester, businessService business.Manager) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/businesses/:id/transactions",
			Method:      http.MethodPost,
			Handler:     CreateTransaction(ingesterService, businessService),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/businesses/:id/transactions/upload",
			Method:      http.MethodPost,
			Handler:     UploadTransactionsCSV(ingesterService, businessService),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Analytics(reporterService reporting.Reporter, detectorService detecting.Detector, businessService business.Manager) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/businesses/:id/revenue/daily",
			Method:      http.MethodGet,
			Handler:     GetDailyRevenue(reporterService, businessService),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/businesses/:id/revenue/summary",
			Method:      http.MethodGet,
			Handler:     GetRevenueSummary(reporterService, businessService),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/businesses/:id/forecast",
			Method:      http.MethodGet,
			Handler:     GetForecast(reporterService, businessService),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/businesses/:id/anomaly/check",
			Method:      http.MethodGet,
			Handler:     CheckAnomaly(detectorService, businessService),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/businesses/:id/trend",
			Method:      http.MethodGet,
			Handler:     GetTrend(detectorService, businessService),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Alerts(service alerting.Alerter, businessService business.Manager) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/alerts",
			Method:      http.MethodGet,
			Handler:     ListAlerts(service, businessService),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/alerts/:id/acknowledge",
			Method:      http.MethodPost,
			Handler:     ChangeAlertStatus(service, businessService, domain.AlertStatusAcknowledged),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/alerts/:id/resolve",
			Method:      http.MethodPost,
			Handler:     ChangeAlertStatus(service, businessService, domain.AlertStatusResolved),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/alerts/:id/dismiss",
			Method:      http.MethodPost,
			Handler:     ChangeAlertStatus(service, businessService, domain.AlertStatusDismissed),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Notifications(service notifying.Notifier) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/notifications/preferences",
			Method:      http.MethodGet,
			Handler:     GetNotificationPreferences(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/notifications/preferences",
			Method:      http.MethodPut,
			Handler:     UpdateNotificationPreferences(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/notifications/test",
			Method:      http.MethodPost,
			Handler:     SendTestNotification(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/:type/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}
