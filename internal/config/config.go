package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App             App             `mapstructure:",squash"`
	Server          Server          `mapstructure:",squash"`
	Database        Database        `mapstructure:",squash"`
	Auth            Auth            `mapstructure:",squash"`
	Detection       Detection       `mapstructure:",squash"`
	AnomalyScan     AnomalyScan     `mapstructure:",squash"`
	ForecastRefresh ForecastRefresh `mapstructure:",squash"`
	SMTP            SMTP            `mapstructure:",squash"`
	SMS             SMS             `mapstructure:",squash"`
	Telegram        Telegram        `mapstructure:",squash"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

type App struct {
	LogLevel          string `mapstructure:"log_level"`
	LogFile           string `mapstructure:"log_file"`
	LogFileMaxSizeMB  int    `mapstructure:"log_file_max_size_mb"`
	LogFileMaxBackups int    `mapstructure:"log_file_max_backups"`
	LogFileMaxAgeDays int    `mapstructure:"log_file_max_age_days"`
	LogFileCompress   bool   `mapstructure:"log_file_compress"`
}

type Auth struct {
	Secret string `mapstructure:"auth_secret"`
}

// Detection reúne os parâmetros estatísticos do motor de detecção
type Detection struct {
	LookbackDays    int     `mapstructure:"detection_lookback_days"`
	ThresholdStd    float64 `mapstructure:"detection_threshold_std"`
	MinDropPercent  float64 `mapstructure:"detection_min_drop_percent"`
	TrendDays       int     `mapstructure:"detection_trend_days"`
	DowLookbackDays int     `mapstructure:"detection_dow_lookback_days"`
}

type AnomalyScan struct {
	CronSchedule      string `mapstructure:"anomaly_scan_cron"`
	MaxConcurrentJobs int    `mapstructure:"anomaly_scan_max_concurrent_jobs"`
	Enabled           bool   `mapstructure:"anomaly_scan_enabled"`
}

type ForecastRefresh struct {
	CronSchedule          string `mapstructure:"forecast_refresh_cron"`
	SeasonalLookbackDays  int    `mapstructure:"forecast_seasonal_lookback_days"`
	SeasonalMinDataPoints int    `mapstructure:"forecast_seasonal_min_data_points"`
	AlertRetentionDays    int    `mapstructure:"forecast_alert_retention_days"`
	Enabled               bool   `mapstructure:"forecast_refresh_enabled"`
}

type SMTP struct {
	Host     string `mapstructure:"smtp_host"`
	Port     int    `mapstructure:"smtp_port"`
	Username string `mapstructure:"smtp_username"`
	Password string `mapstructure:"smtp_password"`
	From     string `mapstructure:"smtp_from"`
	Enabled  bool   `mapstructure:"smtp_enabled"`
}

type SMS struct {
	GatewayURL     string `mapstructure:"sms_gateway_url"`
	APIKey         string `mapstructure:"sms_api_key"`
	From           string `mapstructure:"sms_from"`
	RequestsPerSec int    `mapstructure:"sms_requests_per_sec"`
	Enabled        bool   `mapstructure:"sms_enabled"`
}

type Telegram struct {
	BotToken string `mapstructure:"telegram_bot_token"`
	Enabled  bool   `mapstructure:"telegram_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/revenue")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("AUTH_SECRET", "your_secret_key")

	// Defaults do motor de detecção (mesmos valores do produto original)
	viper.SetDefault("DETECTION_LOOKBACK_DAYS", 60)
	viper.SetDefault("DETECTION_THRESHOLD_STD", 2.0)
	viper.SetDefault("DETECTION_MIN_DROP_PERCENT", 15.0)
	viper.SetDefault("DETECTION_TREND_DAYS", 30)
	viper.SetDefault("DETECTION_DOW_LOOKBACK_DAYS", 60)

	// Defaults para a varredura de anomalias
	viper.SetDefault("ANOMALY_SCAN_CRON", "0 * * * *")      // A cada hora cheia
	viper.SetDefault("ANOMALY_SCAN_MAX_CONCURRENT_JOBS", 5) // 5 negócios em paralelo
	viper.SetDefault("ANOMALY_SCAN_ENABLED", true)          // Varredura é o coração do produto

	// Defaults para a atualização diária de previsões
	viper.SetDefault("FORECAST_REFRESH_CRON", "0 3 * * *") // Todos os dias às 3h da manhã
	viper.SetDefault("FORECAST_SEASONAL_LOOKBACK_DAYS", 365)
	viper.SetDefault("FORECAST_SEASONAL_MIN_DATA_POINTS", 90)
	viper.SetDefault("FORECAST_ALERT_RETENTION_DAYS", 90) // Remove alertas fechados após 90 dias
	viper.SetDefault("FORECAST_REFRESH_ENABLED", true)

	// Defaults de notificação (canais desabilitados até serem configurados)
	viper.SetDefault("SMTP_HOST", "localhost")
	viper.SetDefault("SMTP_PORT", 587)
	viper.SetDefault("SMTP_FROM", "alerts@revenue-monitor.local")
	viper.SetDefault("SMTP_ENABLED", false)

	viper.SetDefault("SMS_GATEWAY_URL", "")
	viper.SetDefault("SMS_REQUESTS_PER_SEC", 2)
	viper.SetDefault("SMS_ENABLED", false)

	viper.SetDefault("TELEGRAM_BOT_TOKEN", "")
	viper.SetDefault("TELEGRAM_ENABLED", false)

	viper.SetDefault("LOG_LEVEL", "debug")
	viper.SetDefault("LOG_FILE", "")
	viper.SetDefault("LOG_FILE_MAX_SIZE_MB", 50)
	viper.SetDefault("LOG_FILE_MAX_BACKUPS", 3)
	viper.SetDefault("LOG_FILE_MAX_AGE_DAYS", 28)
	viper.SetDefault("LOG_FILE_COMPRESS", true)
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	// Configurar valores padrão
	SetDefaults()

	// Configurar o Viper
	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv() // Isso permite que o Viper leia variáveis de ambiente

	// Tentar ler o arquivo .env com o Viper (opcional, já que usamos godotenv)
	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	// Obter diretório atual
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),               // Diretório atual
		filepath.Join(filepath.Dir(cwd), ".env"), // Diretório pai
		filepath.Join(cwd, "../.env"),            // Diretório acima
		filepath.Join(cwd, "../../.env"),         // Dois diretórios acima
	}

	for _, location := range locations {
		logrus.Info("Tentando carregar .env de:", location)
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
