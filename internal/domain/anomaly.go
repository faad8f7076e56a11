package domain

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Rank devolve a posição da severidade na ordem low < medium < high.
// Severidades desconhecidas ficam abaixo de low.
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	}
	return 0
}

// AnomalyVerdict é o resultado de uma verificação de anomalia. Quando
// Detected é falso os demais campos ficam zerados e não devem ser lidos.
type AnomalyVerdict struct {
	Detected     bool     `json:"detected"`
	TodayRevenue float64  `json:"today_revenue,omitempty"`
	RollingAvg7  float64  `json:"rolling_avg_7,omitempty"`
	RollingAvg30 float64  `json:"rolling_avg_30,omitempty"`
	ZScore       float64  `json:"z_score,omitempty"`
	DropPercent  float64  `json:"drop_percent,omitempty"`
	Severity     Severity `json:"severity,omitempty"`
	DowBaseline  float64  `json:"dow_baseline,omitempty"`
	DowAdjusted  bool     `json:"dow_adjusted,omitempty"`
	StdDev       float64  `json:"std_dev,omitempty"`
	DataPoints   int      `json:"data_points,omitempty"`
}

type TrendDirection string

const (
	TrendUp      TrendDirection = "up"
	TrendDown    TrendDirection = "down"
	TrendStable  TrendDirection = "stable"
	TrendUnknown TrendDirection = "unknown"
)

type TrendResult struct {
	Direction     TrendDirection `json:"direction"`
	ChangePercent float64        `json:"change_percent"`
	Volatility    float64        `json:"volatility"`
	FirstWeekAvg  float64        `json:"first_week_avg"`
	LastWeekAvg   float64        `json:"last_week_avg"`
	DataPoints    int            `json:"data_points"`
}
