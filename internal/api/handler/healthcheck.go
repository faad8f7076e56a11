package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/revenue-monitor-api/infrastructure/database/postgres"
)

// startedAt marca o início do processo para o cálculo de uptime
var startedAt = time.Now()

type HealthcheckResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Uptime   string `json:"uptime"`
}

// HealthcheckHandler responde o estado do serviço e da conexão com o banco.
// Banco indisponível rebaixa o status e responde 503.
func HealthcheckHandler(conn *postgres.Connection) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response := HealthcheckResponse{
			Status:   "ok",
			Database: "ok",
			Uptime:   time.Since(startedAt).Round(time.Second).String(),
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")

		if err := conn.Ping(ctx); err != nil {
			logrus.WithError(err).Warn("Healthcheck falhou ao consultar o banco de dados")

			response.Status = "degraded"
			response.Database = "unavailable"

			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(response)
			return
		}

		json.NewEncoder(w).Encode(response)
	})
}
