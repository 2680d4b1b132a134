package validator

import (
	"net/mail"
	"strings"

	"github.com/shopspring/decimal"
)

// 項目名 → メッセージ。空なら問題なし
type Fields map[string]string

func (f Fields) Empty() bool {
	return len(f) == 0
}

func (f Fields) required(name, value string) {
	if strings.TrimSpace(value) == "" {
		f[name] = "is required"
	}
}

func (f Fields) positiveID(name string, id int64) {
	if id <= 0 {
		f[name] = "is required"
	}
}

func (f Fields) maxLen(name, value string, n int) {
	if len([]rune(value)) > n {
		f[name] = "is too long"
	}
}

// 簡易メール形式をチェック
func isEmailLike(s string) bool {
	s = strings.TrimSpace(s)
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	domain := s[strings.LastIndex(s, "@")+1:]
	return strings.Contains(domain, ".")
}

func (f Fields) email(name, value string) {
	if strings.TrimSpace(value) == "" {
		f[name] = "is required"
		return
	}
	if !isEmailLike(value) {
		f[name] = "must be a valid email"
	}
}

func (f Fields) money(name string, value decimal.Decimal, allowZero bool) {
	if value.IsNegative() || (!allowZero && value.IsZero()) {
		if allowZero {
			f[name] = "must not be negative"
		} else {
			f[name] = "must be greater than zero"
		}
		return
	}
	if !value.Equal(value.Round(2)) {
		f[name] = "must have at most 2 decimal places"
	}
}
