package metrics

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const (
	// これ未満の件数では失敗率を見ない
	MinOrdersForErrorRate = 10
	ErrorRateThreshold    = 0.05
	SlowOrderThreshold    = 1000 * time.Millisecond
)

type Alert struct {
	Kind    string
	Message string
}

// Registry を定期的に見て、閾値を超えたら警告ログを出す。
type AlertWorker struct {
	registry *Registry
	interval time.Duration
	logger   zerolog.Logger
}

func NewAlertWorker(registry *Registry, interval time.Duration, logger zerolog.Logger) *AlertWorker {
	return &AlertWorker{registry: registry, interval: interval, logger: logger}
}

// ctx がキャンセルされるまで回り続ける
func (w *AlertWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info().Dur("interval", w.interval).Msg("alert worker started")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("alert worker stopped")
			return
		case <-ticker.C:
			w.Sweep()
		}
	}
}

// 1回分のチェック。出したアラートを返す
func (w *AlertWorker) Sweep() []Alert {
	return Evaluate(w.registry.Snapshot(), func(a Alert, s Snapshot) {
		w.logger.Warn().
			Str("alert", a.Kind).
			Int64("orders_created", s.Created).
			Int64("orders_failed", s.Failed).
			Float64("error_rate", s.ErrorRate()).
			Dur("avg_processing_time", s.AverageTime()).
			Msg(a.Message)
	})
}

func Evaluate(s Snapshot, emit func(Alert, Snapshot)) []Alert {
	var alerts []Alert

	if s.Total() >= MinOrdersForErrorRate && s.ErrorRate() > ErrorRateThreshold {
		alerts = append(alerts, Alert{Kind: "HIGH_ERROR_RATE", Message: "order error rate above 5%"})
	}
	if s.Total() > 0 && s.AverageTime() > SlowOrderThreshold {
		alerts = append(alerts, Alert{Kind: "SLOW_ORDERS", Message: "average order processing time above 1000ms"})
	}

	for _, a := range alerts {
		emit(a, s)
	}
	return alerts
}
