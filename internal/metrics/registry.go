package metrics

import (
	"time"

	"go.uber.org/atomic"
)

// 注文処理のカウンタとタイマー。
// 複数の goroutine から同時に呼ばれる。
type Registry struct {
	created   atomic.Int64
	failed    atomic.Int64
	totalTime atomic.Duration
}

func NewRegistry() *Registry {
	return &Registry{}
}

// 注文作成1件分を記録する
func (r *Registry) OrderProcessed(success bool, elapsed time.Duration) {
	if success {
		r.created.Inc()
	} else {
		r.failed.Inc()
	}
	r.totalTime.Add(elapsed)
}

// ある時点の値
type Snapshot struct {
	Created   int64
	Failed    int64
	TotalTime time.Duration
}

func (r *Registry) Snapshot() Snapshot {
	return Snapshot{
		Created:   r.created.Load(),
		Failed:    r.failed.Load(),
		TotalTime: r.totalTime.Load(),
	}
}

func (s Snapshot) Total() int64 {
	return s.Created + s.Failed
}

// 失敗率（0〜1）。件数 0 なら 0
func (s Snapshot) ErrorRate() float64 {
	if s.Total() == 0 {
		return 0
	}
	return float64(s.Failed) / float64(s.Total())
}

func (s Snapshot) AverageTime() time.Duration {
	if s.Total() == 0 {
		return 0
	}
	return s.TotalTime / time.Duration(s.Total())
}
