package format

import (
	"testing"
	"time"
)

func TestBytes(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{500, "500 B"},
		{1536, "1.50 KB"},
		{5 * 1024 * 1024, "5.00 MB"},
	}
	for _, tt := range tests {
		if got := Bytes(tt.in); got != tt.want {
			t.Errorf("Bytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPercentage(t *testing.T) {
	if got := Percentage(0); got != "0%" {
		t.Errorf("Percentage(0) = %q, want 0%%", got)
	}
	if got := Percentage(100); got != "100%" {
		t.Errorf("Percentage(100) = %q, want 100%%", got)
	}
	if got := Percentage(42.567); got != "42.6%" {
		t.Errorf("Percentage(42.567) = %q, want 42.6%%", got)
	}
}

func TestTimeAgo(t *testing.T) {
	if got := TimeAgo(time.Time{}); got != "never" {
		t.Errorf("TimeAgo(zero) = %q, want never", got)
	}
	if got := TimeAgo(time.Now().Add(-90 * time.Second)); got != "1m ago" {
		t.Errorf("TimeAgo(-90s) = %q, want 1m ago", got)
	}
}
