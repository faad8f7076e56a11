package notifying

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	mailermocks "github.com/vfg2006/revenue-monitor-api/infrastructure/integrator/mailer/mocks"
	smsmocks "github.com/vfg2006/revenue-monitor-api/infrastructure/integrator/smsgateway/mocks"
	telegrammocks "github.com/vfg2006/revenue-monitor-api/infrastructure/integrator/telegram/mocks"
	"github.com/vfg2006/revenue-monitor-api/infrastructure/repository/mocks"
	"github.com/vfg2006/revenue-monitor-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func intPtr(v int) *int {
	return &v
}

func strPtr(v string) *string {
	return &v
}

func int64Ptr(v int64) *int64 {
	return &v
}

func boolPtr(v bool) *bool {
	return &v
}

func highAlert() *domain.Alert {
	return &domain.Alert{
		ID:         42,
		BusinessID: "abc123",
		AlertType:  domain.AlertTypeRevenueDrop,
		Severity:   domain.SeverityHigh,
		Title:      "Revenue Drop Detected: 55.0% below average",
		Description: "Today's revenue (450.00) is 55.0% below the 7-day average (1000.00). " +
			"Z-score: -3.12",
		Data: &domain.AnomalyVerdict{
			Detected:     true,
			TodayRevenue: 450.00,
			RollingAvg7:  1000.00,
			RollingAvg30: 980.00,
			ZScore:       -3.12,
			DropPercent:  55.0,
			Severity:     domain.SeverityHigh,
		},
		Status: domain.AlertStatusPending,
	}
}

func TestWithinQuietHours(t *testing.T) {
	tests := []struct {
		name     string
		start    *int
		end      *int
		hour     int
		expected bool
	}{
		{
			name:     "Sem janela configurada não há supressão",
			start:    nil,
			end:      nil,
			hour:     3,
			expected: false,
		},
		{
			name:     "Somente início configurado não suprime",
			start:    intPtr(22),
			end:      nil,
			hour:     23,
			expected: false,
		},
		{
			name:     "Início igual ao fim é janela vazia",
			start:    intPtr(8),
			end:      intPtr(8),
			hour:     8,
			expected: false,
		},
		{
			name:     "Hora dentro da janela simples",
			start:    intPtr(1),
			end:      intPtr(5),
			hour:     3,
			expected: true,
		},
		{
			name:     "Início é inclusivo",
			start:    intPtr(1),
			end:      intPtr(5),
			hour:     1,
			expected: true,
		},
		{
			name:     "Fim é exclusivo",
			start:    intPtr(1),
			end:      intPtr(5),
			hour:     5,
			expected: false,
		},
		{
			name:     "Janela que vira a noite cobre o fim do dia",
			start:    intPtr(22),
			end:      intPtr(7),
			hour:     23,
			expected: true,
		},
		{
			name:     "Janela que vira a noite cobre a madrugada",
			start:    intPtr(22),
			end:      intPtr(7),
			hour:     6,
			expected: true,
		},
		{
			name:     "Janela que vira a noite libera após o fim",
			start:    intPtr(22),
			end:      intPtr(7),
			hour:     7,
			expected: false,
		},
		{
			name:     "Janela que vira a noite libera durante o dia",
			start:    intPtr(22),
			end:      intPtr(7),
			hour:     12,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, withinQuietHours(tt.start, tt.end, tt.hour))
		})
	}
}

func TestBuildEmailSubject(t *testing.T) {
	tests := []struct {
		name     string
		severity domain.Severity
		emoji    string
	}{
		{
			name:     "Severidade alta usa sirene",
			severity: domain.SeverityHigh,
			emoji:    "🚨",
		},
		{
			name:     "Severidade média usa aviso",
			severity: domain.SeverityMedium,
			emoji:    "⚠️",
		},
		{
			name:     "Severidade baixa usa gráfico em queda",
			severity: domain.SeverityLow,
			emoji:    "📉",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alert := highAlert()
			alert.Severity = tt.severity

			subject := buildEmailSubject(alert)

			assert.True(t, strings.HasPrefix(subject, tt.emoji))
			assert.Contains(t, subject, "Revenue Alert: Revenue Drop Detected: 55.0% below average")
		})
	}
}

func TestBuildEmailBody(t *testing.T) {
	business := &domain.Business{ID: "abc123", Name: "Padaria Central"}

	body := buildEmailBody(highAlert(), business)

	assert.Contains(t, body, "HIGH SEVERITY")
	assert.Contains(t, body, "Business: Padaria Central")
	assert.Contains(t, body, "Today's revenue: $450.00")
	assert.Contains(t, body, "7-day average: $1000.00")
	assert.Contains(t, body, "Drop: 55.0%")
	assert.Contains(t, body, "Z-score: -3.12")
}

func TestBuildSMSMessage(t *testing.T) {
	t.Run("Mensagem cabe em um único SMS", func(t *testing.T) {
		message := buildSMSMessage(highAlert())

		assert.LessOrEqual(t, len([]rune(message)), maxSMSLength)
		assert.Contains(t, message, "Down 55% today ($450)")
		assert.Contains(t, message, "🚨")
	})

	t.Run("Mensagem sem dados usa zeros", func(t *testing.T) {
		alert := highAlert()
		alert.Data = nil

		message := buildSMSMessage(alert)

		assert.Contains(t, message, "Down 0% today ($0)")
	})
}

func TestTruncateRunes(t *testing.T) {
	long := strings.Repeat("📉", 200)

	truncated := truncateRunes(long, maxSMSLength)

	assert.Equal(t, maxSMSLength, len([]rune(truncated)))
	assert.Equal(t, "📉", string([]rune(truncated)[:1]))
}

func TestService_Dispatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// Mocks
	mockPreferenceRepo := mocks.NewMockNotificationPreferenceRepository(ctrl)
	mockUserRepo := mocks.NewMockUserRepository(ctrl)
	mockMailer := mailermocks.NewMockMailer(ctrl)
	mockSMS := smsmocks.NewMockSender(ctrl)
	mockTelegram := telegrammocks.NewMockNotifier(ctrl)

	// Service
	service := &Service{
		preferenceRepository: mockPreferenceRepo,
		userRepository:       mockUserRepo,
		mailer:               mockMailer,
		smsSender:            mockSMS,
		telegramNotifier:     mockTelegram,
	}

	business := &domain.Business{
		ID:      "abc123",
		Name:    "Padaria Central",
		Segment: domain.BusinessSegmentCafe,
		OwnerID: 10,
		Active:  true,
	}

	owner := &domain.User{
		ID:    10,
		Name:  "Carlos",
		Email: "carlos@padariacentral.com.br",
	}

	tests := []struct {
		name     string
		alert    *domain.Alert
		setup    func()
		validate func(t *testing.T, err error)
	}{
		{
			name:  "Envia por e-mail com as preferências padrão",
			alert: highAlert(),
			setup: func() {
				mockUserRepo.EXPECT().GetUserByID(10).Return(owner, nil).Times(1)
				mockPreferenceRepo.EXPECT().GetByUserID(10).Return(nil, nil).Times(1)
				mockMailer.EXPECT().
					Send(owner.Email, gomock.Any(), gomock.Any()).
					DoAndReturn(func(_, subject, body string) error {
						assert.True(t, strings.HasPrefix(subject, "🚨"))
						assert.Contains(t, body, "Padaria Central")
						return nil
					}).
					Times(1)
			},
			validate: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name: "Severidade abaixo da mínima não envia nada",
			alert: func() *domain.Alert {
				alert := highAlert()
				alert.Severity = domain.SeverityMedium
				return alert
			}(),
			setup: func() {
				preference := &domain.NotificationPreference{
					UserID:       10,
					EmailEnabled: true,
					MinSeverity:  domain.SeverityHigh,
				}
				mockUserRepo.EXPECT().GetUserByID(10).Return(owner, nil).Times(1)
				mockPreferenceRepo.EXPECT().GetByUserID(10).Return(preference, nil).Times(1)
			},
			validate: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:  "Horário de silêncio suprime o envio",
			alert: highAlert(),
			setup: func() {
				hour := time.Now().UTC().Hour()
				preference := &domain.NotificationPreference{
					UserID:          10,
					EmailEnabled:    true,
					MinSeverity:     domain.SeverityLow,
					QuietHoursStart: intPtr(hour),
					QuietHoursEnd:   intPtr((hour + 1) % 24),
				}
				mockUserRepo.EXPECT().GetUserByID(10).Return(owner, nil).Times(1)
				mockPreferenceRepo.EXPECT().GetByUserID(10).Return(preference, nil).Times(1)
			},
			validate: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:  "Falha no e-mail não interrompe SMS e Telegram",
			alert: highAlert(),
			setup: func() {
				preference := &domain.NotificationPreference{
					UserID:          10,
					EmailEnabled:    true,
					SMSEnabled:      true,
					TelegramEnabled: true,
					MinSeverity:     domain.SeverityLow,
					PhoneNumber:     strPtr("+5511999990000"),
					TelegramChatID:  int64Ptr(987654),
				}
				mockUserRepo.EXPECT().GetUserByID(10).Return(owner, nil).Times(1)
				mockPreferenceRepo.EXPECT().GetByUserID(10).Return(preference, nil).Times(1)
				mockMailer.EXPECT().
					Send(owner.Email, gomock.Any(), gomock.Any()).
					Return(assert.AnError).
					Times(1)
				mockSMS.EXPECT().
					SendSMS("+5511999990000", gomock.Any()).
					Return(nil).
					Times(1)
				mockTelegram.EXPECT().
					SendMessage(int64(987654), gomock.Any()).
					Return(nil).
					Times(1)
			},
			validate: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:  "SMS habilitado sem telefone é ignorado",
			alert: highAlert(),
			setup: func() {
				preference := &domain.NotificationPreference{
					UserID:      10,
					SMSEnabled:  true,
					MinSeverity: domain.SeverityLow,
				}
				mockUserRepo.EXPECT().GetUserByID(10).Return(owner, nil).Times(1)
				mockPreferenceRepo.EXPECT().GetByUserID(10).Return(preference, nil).Times(1)
			},
			validate: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
		{
			name:  "Dono do negócio inexistente retorna erro",
			alert: highAlert(),
			setup: func() {
				mockUserRepo.EXPECT().GetUserByID(10).Return(nil, nil).Times(1)
			},
			validate: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrOwnerNotFound)
			},
		},
		{
			name:  "Erro ao buscar o dono retorna erro de banco",
			alert: highAlert(),
			setup: func() {
				mockUserRepo.EXPECT().GetUserByID(10).Return(nil, assert.AnError).Times(1)
			},
			validate: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrDatabaseOperation)
			},
		},
		{
			name:  "Alerta nulo é ignorado",
			alert: nil,
			setup: func() {},
			validate: func(t *testing.T, err error) {
				assert.NoError(t, err)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()

			err := service.Dispatch(tt.alert, business)

			tt.validate(t, err)
		})
	}
}

func TestService_GetPreferences(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPreferenceRepo := mocks.NewMockNotificationPreferenceRepository(ctrl)

	service := &Service{
		preferenceRepository: mockPreferenceRepo,
	}

	t.Run("Devolve as preferências salvas", func(t *testing.T) {
		saved := &domain.NotificationPreference{
			ID:           3,
			UserID:       10,
			EmailEnabled: false,
			SMSEnabled:   true,
			MinSeverity:  domain.SeverityHigh,
			PhoneNumber:  strPtr("+5511999990000"),
		}
		mockPreferenceRepo.EXPECT().GetByUserID(10).Return(saved, nil).Times(1)

		preference, err := service.GetPreferences(10)

		assert.NoError(t, err)
		assert.Equal(t, saved, preference)
	})

	t.Run("Sem linha salva devolve o padrão", func(t *testing.T) {
		mockPreferenceRepo.EXPECT().GetByUserID(10).Return(nil, nil).Times(1)

		preference, err := service.GetPreferences(10)

		assert.NoError(t, err)
		assert.True(t, preference.EmailEnabled)
		assert.False(t, preference.SMSEnabled)
		assert.False(t, preference.TelegramEnabled)
		assert.Equal(t, domain.SeverityMedium, preference.MinSeverity)
		assert.Nil(t, preference.QuietHoursStart)
	})

	t.Run("Erro do repositório é propagado", func(t *testing.T) {
		mockPreferenceRepo.EXPECT().GetByUserID(10).Return(nil, assert.AnError).Times(1)

		preference, err := service.GetPreferences(10)

		assert.ErrorIs(t, err, ErrDatabaseOperation)
		assert.Nil(t, preference)
	})
}

func TestService_UpdatePreferences(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPreferenceRepo := mocks.NewMockNotificationPreferenceRepository(ctrl)

	service := &Service{
		preferenceRepository: mockPreferenceRepo,
	}

	t.Run("Atualização parcial preserva os demais campos", func(t *testing.T) {
		saved := &domain.NotificationPreference{
			ID:           3,
			UserID:       10,
			EmailEnabled: true,
			MinSeverity:  domain.SeverityMedium,
		}
		mockPreferenceRepo.EXPECT().GetByUserID(10).Return(saved, nil).Times(1)

		var persisted *domain.NotificationPreference
		mockPreferenceRepo.EXPECT().
			Upsert(gomock.Any()).
			DoAndReturn(func(preference *domain.NotificationPreference) error {
				persisted = preference
				return nil
			}).
			Times(1)

		request := &domain.UpdateNotificationPreferenceRequest{
			SMSEnabled:  boolPtr(true),
			PhoneNumber: strPtr("+5511999990000"),
			MinSeverity: strPtr("high"),
		}

		preference, err := service.UpdatePreferences(10, request)

		assert.NoError(t, err)
		assert.True(t, preference.EmailEnabled)
		assert.True(t, preference.SMSEnabled)
		assert.Equal(t, domain.SeverityHigh, preference.MinSeverity)
		assert.Equal(t, "+5511999990000", *preference.PhoneNumber)
		assert.Equal(t, persisted, preference)
	})

	t.Run("Sem linha salva parte do padrão", func(t *testing.T) {
		mockPreferenceRepo.EXPECT().GetByUserID(10).Return(nil, nil).Times(1)
		mockPreferenceRepo.EXPECT().Upsert(gomock.Any()).Return(nil).Times(1)

		request := &domain.UpdateNotificationPreferenceRequest{
			QuietHoursStart: intPtr(22),
			QuietHoursEnd:   intPtr(7),
		}

		preference, err := service.UpdatePreferences(10, request)

		assert.NoError(t, err)
		assert.True(t, preference.EmailEnabled)
		assert.Equal(t, 22, *preference.QuietHoursStart)
		assert.Equal(t, 7, *preference.QuietHoursEnd)
	})

	t.Run("Erro ao persistir retorna erro de banco", func(t *testing.T) {
		mockPreferenceRepo.EXPECT().GetByUserID(10).Return(nil, nil).Times(1)
		mockPreferenceRepo.EXPECT().Upsert(gomock.Any()).Return(assert.AnError).Times(1)

		preference, err := service.UpdatePreferences(10, &domain.UpdateNotificationPreferenceRequest{})

		assert.ErrorIs(t, err, ErrDatabaseOperation)
		assert.Nil(t, preference)
	})
}

func TestService_SendTest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPreferenceRepo := mocks.NewMockNotificationPreferenceRepository(ctrl)
	mockMailer := mailermocks.NewMockMailer(ctrl)
	mockSMS := smsmocks.NewMockSender(ctrl)
	mockTelegram := telegrammocks.NewMockNotifier(ctrl)

	service := &Service{
		preferenceRepository: mockPreferenceRepo,
		mailer:               mockMailer,
		smsSender:            mockSMS,
		telegramNotifier:     mockTelegram,
	}

	t.Run("Teste por e-mail usa o endereço informado", func(t *testing.T) {
		mockPreferenceRepo.EXPECT().GetByUserID(10).Return(nil, nil).Times(1)
		mockMailer.EXPECT().
			Send("carlos@padariacentral.com.br", gomock.Any(), gomock.Any()).
			DoAndReturn(func(_, subject, _ string) error {
				assert.Contains(t, subject, "Test Alert - Revenue Drop")
				return nil
			}).
			Times(1)

		err := service.SendTest(10, "carlos@padariacentral.com.br", ChannelEmail)

		assert.NoError(t, err)
	})

	t.Run("Teste por SMS exige telefone cadastrado", func(t *testing.T) {
		mockPreferenceRepo.EXPECT().GetByUserID(10).Return(nil, nil).Times(1)

		err := service.SendTest(10, "carlos@padariacentral.com.br", ChannelSMS)

		assert.ErrorIs(t, err, ErrChannelNotConfigured)
	})

	t.Run("Teste por SMS envia para o telefone das preferências", func(t *testing.T) {
		preference := &domain.NotificationPreference{
			UserID:      10,
			SMSEnabled:  true,
			PhoneNumber: strPtr("+5511999990000"),
			MinSeverity: domain.SeverityMedium,
		}
		mockPreferenceRepo.EXPECT().GetByUserID(10).Return(preference, nil).Times(1)
		mockSMS.EXPECT().
			SendSMS("+5511999990000", gomock.Any()).
			DoAndReturn(func(_, message string) error {
				assert.LessOrEqual(t, len([]rune(message)), maxSMSLength)
				return nil
			}).
			Times(1)

		err := service.SendTest(10, "carlos@padariacentral.com.br", ChannelSMS)

		assert.NoError(t, err)
	})

	t.Run("Canal desconhecido é rejeitado", func(t *testing.T) {
		mockPreferenceRepo.EXPECT().GetByUserID(10).Return(nil, nil).Times(1)

		err := service.SendTest(10, "carlos@padariacentral.com.br", "pombo-correio")

		assert.ErrorIs(t, err, ErrUnknownChannel)
	})

	t.Run("Falha no canal vira erro de envio", func(t *testing.T) {
		mockPreferenceRepo.EXPECT().GetByUserID(10).Return(nil, nil).Times(1)
		mockMailer.EXPECT().
			Send(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(assert.AnError).
			Times(1)

		err := service.SendTest(10, "carlos@padariacentral.com.br", ChannelEmail)

		assert.ErrorIs(t, err, ErrSendFailed)
	})
}
