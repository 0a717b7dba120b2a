package formatting

import (
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short string untouched", "ETHUSDT", 10, "ETHUSDT"},
		{"exact length untouched", "ETHUSDT", 7, "ETHUSDT"},
		{"long string gets ellipsis", "Margin is insufficient.", 10, "Margin ..."},
		{"tiny max cuts hard", "ETHUSDT", 3, "ETH"},
		{"multi-byte counts runes not bytes", "价格精度超出该资产允许的最大值", 8, "价格精度超..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.in, tt.max)
			if got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("Truncate(%q, %d) produced invalid UTF-8", tt.in, tt.max)
			}
		})
	}
}
