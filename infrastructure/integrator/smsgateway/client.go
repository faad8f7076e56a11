package smsgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/revenue-monitor-api/internal/config"
	"golang.org/x/time/rate"
)

type Sender interface {
	SendSMS(to, message string) error
}

type GatewayClient struct {
	cfg        config.SMS
	httpClient *http.Client
	limiter    *rate.Limiter
}

type smsRequest struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Message string `json:"message"`
}

// New cria o cliente do gateway de SMS. As requisições passam por um
// limitador de taxa e são repetidas com backoff exponencial em caso de
// falha transitória.
func New(cfg config.SMS) Sender {
	requestsPerSec := cfg.RequestsPerSec
	if requestsPerSec <= 0 {
		requestsPerSec = 2
	}

	return &GatewayClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(time.Second), requestsPerSec),
	}
}

func (c *GatewayClient) SendSMS(to, message string) error {
	if !c.cfg.Enabled {
		logrus.Warn("Envio de SMS desabilitado na configuração, ignorando mensagem")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("erro ao aguardar o limitador de requisições: %w", err)
	}

	payload, err := json.Marshal(smsRequest{
		To:      to,
		From:    c.cfg.From,
		Message: message,
	})
	if err != nil {
		return fmt.Errorf("erro ao serializar a mensagem: %w", err)
	}

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.GatewayURL, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("erro ao criar a requisição: %w", err))
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
			return &HTTPStatusError{StatusCode: resp.StatusCode}
		}

		return nil
	}

	backoffStrategy := backoff.NewExponentialBackOff()
	backoffStrategy.MaxElapsedTime = 30 * time.Second

	if err := backoff.Retry(operation, backoff.WithContext(backoffStrategy, ctx)); err != nil {
		return fmt.Errorf("erro ao enviar SMS para %s: %w", to, err)
	}

	logrus.Debugf("SMS enviado para %s", to)

	return nil
}

// HTTPStatusError indica resposta do gateway fora da faixa 2xx.
type HTTPStatusError struct {
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return "non-2xx status code: " + http.StatusText(e.StatusCode)
}
