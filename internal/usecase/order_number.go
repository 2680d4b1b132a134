package usecase

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// 現在の時間
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// 注文番号（PED-XXXXXXXX）を作る約束
type OrderNumberGenerator interface {
	Next() string
}

const orderNumberPrefix = "PED-"

// UUID の先頭8桁（16進・大文字）を使う
type UUIDOrderNumberGenerator struct{}

func (UUIDOrderNumberGenerator) Next() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return orderNumberPrefix + strings.ToUpper(hex[:8])
}
