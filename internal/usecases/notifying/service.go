package notifying

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/revenue-monitor-api/infrastructure/integrator/mailer"
	"github.com/vfg2006/revenue-monitor-api/infrastructure/integrator/smsgateway"
	"github.com/vfg2006/revenue-monitor-api/infrastructure/integrator/telegram"
	"github.com/vfg2006/revenue-monitor-api/infrastructure/repository"
	"github.com/vfg2006/revenue-monitor-api/internal/domain"
	"github.com/vfg2006/revenue-monitor-api/internal/metrics"
	"github.com/vfg2006/revenue-monitor-api/pkg/apiErrors"
)

// Canais de notificação suportados
const (
	ChannelEmail    = "email"
	ChannelSMS      = "sms"
	ChannelTelegram = "telegram"
)

// Limite de um SMS simples
const maxSMSLength = 160

type Service struct {
	preferenceRepository repository.NotificationPreferenceRepository
	userRepository       repository.UserRepository
	mailer               mailer.Mailer
	smsSender            smsgateway.Sender
	telegramNotifier     telegram.Notifier
}

func NewService(
	preferenceRepository repository.NotificationPreferenceRepository,
	userRepository repository.UserRepository,
	mailer mailer.Mailer,
	smsSender smsgateway.Sender,
	telegramNotifier telegram.Notifier,
) Notifier {
	return &Service{
		preferenceRepository: preferenceRepository,
		userRepository:       userRepository,
		mailer:               mailer,
		smsSender:            smsSender,
		telegramNotifier:     telegramNotifier,
	}
}

func (s *Service) Dispatch(alert *domain.Alert, business *domain.Business) error {
	if alert == nil || business == nil {
		return nil
	}

	owner, err := s.userRepository.GetUserByID(business.OwnerID)
	if err != nil {
		logrus.Error("Error getting business owner on the repository:", err)
		return NewNotificationErrorWithUser(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, business.OwnerID,
			"Falha ao buscar o dono do negócio")
	}

	if owner == nil {
		return NewNotificationErrorWithUser(ErrOwnerNotFound, apiErrors.ErrUserNotFound, business.OwnerID,
			"Dono do negócio não encontrado para notificação")
	}

	preference, err := s.preferenceRepository.GetByUserID(owner.ID)
	if err != nil {
		logrus.Error("Error getting notification preferences on the repository:", err)
		return NewNotificationErrorWithUser(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, owner.ID,
			"Falha ao buscar preferências de notificação")
	}

	if preference == nil {
		preference = domain.DefaultNotificationPreference(owner.ID)
	}

	if alert.Severity.Rank() < preference.MinSeverity.Rank() {
		logrus.Debugf("Alerta %d abaixo da severidade mínima do usuário %d, envio ignorado", alert.ID, owner.ID)
		return nil
	}

	if withinQuietHours(preference.QuietHoursStart, preference.QuietHoursEnd, time.Now().UTC().Hour()) {
		logrus.Infof("Horário de silêncio ativo para o usuário %d, envio do alerta %d suprimido", owner.ID, alert.ID)
		return nil
	}

	s.dispatchChannels(owner, preference, alert, business)

	return nil
}

// dispatchChannels envia por todos os canais habilitados. A falha de um
// canal é registrada e contada sem interromper os demais.
func (s *Service) dispatchChannels(
	owner *domain.User,
	preference *domain.NotificationPreference,
	alert *domain.Alert,
	business *domain.Business,
) {
	if preference.EmailEnabled {
		subject := buildEmailSubject(alert)
		body := buildEmailBody(alert, business)

		if err := s.mailer.Send(owner.Email, subject, body); err != nil {
			logrus.Error("Error sending alert email:", err)
			metrics.NotificationsSent.WithLabelValues(ChannelEmail, "error").Inc()
		} else {
			metrics.NotificationsSent.WithLabelValues(ChannelEmail, "success").Inc()
		}
	}

	if preference.SMSEnabled {
		switch {
		case preference.PhoneNumber == nil || *preference.PhoneNumber == "":
			logrus.Warnf("SMS habilitado sem telefone cadastrado para o usuário %d", owner.ID)
			metrics.NotificationsSent.WithLabelValues(ChannelSMS, "skipped").Inc()
		default:
			if err := s.smsSender.SendSMS(*preference.PhoneNumber, buildSMSMessage(alert)); err != nil {
				logrus.Error("Error sending alert SMS:", err)
				metrics.NotificationsSent.WithLabelValues(ChannelSMS, "error").Inc()
			} else {
				metrics.NotificationsSent.WithLabelValues(ChannelSMS, "success").Inc()
			}
		}
	}

	if preference.TelegramEnabled {
		switch {
		case preference.TelegramChatID == nil:
			logrus.Warnf("Telegram habilitado sem chat cadastrado para o usuário %d", owner.ID)
			metrics.NotificationsSent.WithLabelValues(ChannelTelegram, "skipped").Inc()
		default:
			if err := s.telegramNotifier.SendMessage(*preference.TelegramChatID, buildTelegramMessage(alert, business)); err != nil {
				logrus.Error("Error sending alert on Telegram:", err)
				metrics.NotificationsSent.WithLabelValues(ChannelTelegram, "error").Inc()
			} else {
				metrics.NotificationsSent.WithLabelValues(ChannelTelegram, "success").Inc()
			}
		}
	}
}

func (s *Service) GetPreferences(userID int) (*domain.NotificationPreference, error) {
	preference, err := s.preferenceRepository.GetByUserID(userID)
	if err != nil {
		logrus.Error("Error getting notification preferences on the repository:", err)
		return nil, NewNotificationErrorWithUser(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, userID,
			"Falha ao buscar preferências de notificação")
	}

	if preference == nil {
		preference = domain.DefaultNotificationPreference(userID)
	}

	return preference, nil
}

func (s *Service) UpdatePreferences(userID int, request *domain.UpdateNotificationPreferenceRequest) (*domain.NotificationPreference, error) {
	preference, err := s.GetPreferences(userID)
	if err != nil {
		return nil, err
	}

	applyPreferenceUpdate(preference, request)

	if err := s.preferenceRepository.Upsert(preference); err != nil {
		logrus.Error("Error saving notification preferences on the repository:", err)
		return nil, NewNotificationErrorWithUser(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, userID,
			"Falha ao salvar preferências de notificação")
	}

	return preference, nil
}

func (s *Service) SendTest(userID int, email, channel string) error {
	preference, err := s.GetPreferences(userID)
	if err != nil {
		return err
	}

	alert := testAlert()

	switch channel {
	case ChannelEmail:
		err = s.mailer.Send(email, buildEmailSubject(alert), buildEmailBody(alert, nil))
	case ChannelSMS:
		if preference.PhoneNumber == nil || *preference.PhoneNumber == "" {
			return NewNotificationErrorWithUser(ErrChannelNotConfigured, apiErrors.ErrMissingRequiredData, userID,
				"Nenhum telefone cadastrado nas preferências")
		}
		err = s.smsSender.SendSMS(*preference.PhoneNumber, buildSMSMessage(alert))
	case ChannelTelegram:
		if preference.TelegramChatID == nil {
			return NewNotificationErrorWithUser(ErrChannelNotConfigured, apiErrors.ErrMissingRequiredData, userID,
				"Nenhum chat do Telegram cadastrado nas preferências")
		}
		err = s.telegramNotifier.SendMessage(*preference.TelegramChatID, buildTelegramMessage(alert, nil))
	default:
		return NewNotificationError(ErrUnknownChannel, apiErrors.ErrInvalidRequest,
			fmt.Sprintf("Canal %q não é suportado", channel))
	}

	if err != nil {
		logrus.Error("Error sending test notification:", err)
		return NewNotificationErrorWithUser(ErrSendFailed, apiErrors.ErrExternalService, userID,
			"Falha no envio da notificação de teste")
	}

	return nil
}

// applyPreferenceUpdate copia para preference somente os campos
// presentes na requisição.
func applyPreferenceUpdate(preference *domain.NotificationPreference, request *domain.UpdateNotificationPreferenceRequest) {
	if request.EmailEnabled != nil {
		preference.EmailEnabled = *request.EmailEnabled
	}

	if request.SMSEnabled != nil {
		preference.SMSEnabled = *request.SMSEnabled
	}

	if request.TelegramEnabled != nil {
		preference.TelegramEnabled = *request.TelegramEnabled
	}

	if request.MinSeverity != nil {
		preference.MinSeverity = domain.Severity(*request.MinSeverity)
	}

	if request.QuietHoursStart != nil {
		preference.QuietHoursStart = request.QuietHoursStart
	}

	if request.QuietHoursEnd != nil {
		preference.QuietHoursEnd = request.QuietHoursEnd
	}

	if request.PhoneNumber != nil {
		preference.PhoneNumber = request.PhoneNumber
	}

	if request.TelegramChatID != nil {
		preference.TelegramChatID = request.TelegramChatID
	}
}

// withinQuietHours informa se hour cai na janela de silêncio. O início é
// inclusivo, o fim é exclusivo e a janela pode atravessar a meia-noite
// (22 até 7 cobre 22h e 23h e depois 0h até 6h). Sem início ou fim
// configurados, ou com os dois iguais, não há supressão.
func withinQuietHours(start, end *int, hour int) bool {
	if start == nil || end == nil {
		return false
	}

	if *start == *end {
		return false
	}

	if *start < *end {
		return hour >= *start && hour < *end
	}

	return hour >= *start || hour < *end
}

func severityEmoji(severity domain.Severity) string {
	switch severity {
	case domain.SeverityHigh:
		return "🚨"
	case domain.SeverityLow:
		return "📉"
	default:
		return "⚠️"
	}
}

func buildEmailSubject(alert *domain.Alert) string {
	return fmt.Sprintf("%s Revenue Alert: %s", severityEmoji(alert.Severity), alert.Title)
}

func buildEmailBody(alert *domain.Alert, business *domain.Business) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s Revenue Alert\n", severityEmoji(alert.Severity))
	fmt.Fprintf(&b, "%s SEVERITY\n\n", strings.ToUpper(string(alert.Severity)))

	if business != nil {
		fmt.Fprintf(&b, "Business: %s\n\n", business.Name)
	}

	b.WriteString(alert.Description)
	b.WriteString("\n")

	if alert.Data != nil {
		fmt.Fprintf(&b, "\nToday's revenue: $%.2f\n", alert.Data.TodayRevenue)
		fmt.Fprintf(&b, "7-day average: $%.2f\n", alert.Data.RollingAvg7)
		fmt.Fprintf(&b, "30-day average: $%.2f\n", alert.Data.RollingAvg30)
		fmt.Fprintf(&b, "Drop: %.1f%%\n", alert.Data.DropPercent)
		fmt.Fprintf(&b, "Z-score: %.2f\n", alert.Data.ZScore)
	}

	b.WriteString("\nThis alert was generated by Revenue Monitor.\n")
	b.WriteString("You're receiving this because you enabled revenue alerts.\n")

	return b.String()
}

func buildSMSMessage(alert *domain.Alert) string {
	var todayRevenue, dropPercent float64
	if alert.Data != nil {
		todayRevenue = alert.Data.TodayRevenue
		dropPercent = alert.Data.DropPercent
	}

	message := fmt.Sprintf("%s Revenue Alert: Down %.0f%% today ($%.0f). Check your dashboard.",
		severityEmoji(alert.Severity), dropPercent, todayRevenue)

	return truncateRunes(message, maxSMSLength)
}

func buildTelegramMessage(alert *domain.Alert, business *domain.Business) string {
	var b strings.Builder

	if business != nil {
		fmt.Fprintf(&b, "%s Revenue Alert: %s\n", severityEmoji(alert.Severity), business.Name)
	} else {
		fmt.Fprintf(&b, "%s Revenue Alert\n", severityEmoji(alert.Severity))
	}

	b.WriteString(alert.Description)

	if alert.Data != nil {
		fmt.Fprintf(&b, "\nDrop: %.1f%% | Today: $%.2f | 7-day avg: $%.2f",
			alert.Data.DropPercent, alert.Data.TodayRevenue, alert.Data.RollingAvg7)
	}

	return b.String()
}

// truncateRunes corta a mensagem por quantidade de caracteres, não de
// bytes, para não partir um emoji ao meio.
func truncateRunes(message string, limit int) string {
	runes := []rune(message)
	if len(runes) <= limit {
		return message
	}

	return string(runes[:limit])
}

// testAlert monta o alerta fictício usado nos envios de teste.
func testAlert() *domain.Alert {
	return &domain.Alert{
		AlertType:   domain.AlertTypeRevenueDrop,
		Severity:    domain.SeverityMedium,
		Title:       "Test Alert - Revenue Drop",
		Description: "This is a test notification from Revenue Monitor.",
		Data: &domain.AnomalyVerdict{
			Detected:     true,
			TodayRevenue: 750.00,
			RollingAvg7:  1000.00,
			DropPercent:  25.0,
			Severity:     domain.SeverityMedium,
		},
	}
}
