package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/revenue-monitor-api/internal/config"
)

type Notifier interface {
	SendMessage(chatID int64, text string) error
}

type BotNotifier struct {
	cfg config.Telegram
	bot *tgbotapi.BotAPI
}

// New autentica o bot na API do Telegram. Quando o canal está
// desabilitado o notificador é criado sem bot e ignora os envios.
func New(cfg config.Telegram) (Notifier, error) {
	if !cfg.Enabled || cfg.BotToken == "" {
		return &BotNotifier{cfg: cfg}, nil
	}

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("erro ao autenticar o bot do Telegram: %w", err)
	}

	logrus.Infof("Bot do Telegram autenticado como %s", bot.Self.UserName)

	return &BotNotifier{
		cfg: cfg,
		bot: bot,
	}, nil
}

func (n *BotNotifier) SendMessage(chatID int64, text string) error {
	if n.bot == nil {
		logrus.Warn("Bot do Telegram desabilitado na configuração, ignorando mensagem")
		return nil
	}

	msg := tgbotapi.NewMessage(chatID, text)

	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("erro ao enviar mensagem no Telegram: %w", err)
	}

	logrus.Debugf("Mensagem enviada no Telegram para o chat %d", chatID)

	return nil
}
