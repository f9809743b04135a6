package timeparsing

import (
	"testing"
	"time"
)

func TestParseCompactOffset(t *testing.T) {
	// Fixed reference time for deterministic tests
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{name: "+6h adds hours", input: "+6h", want: time.Date(2026, 6, 15, 18, 0, 0, 0, time.UTC)},
		{name: "+1d adds a day", input: "+1d", want: time.Date(2026, 6, 16, 12, 0, 0, 0, time.UTC)},
		{name: "+2w adds weeks", input: "+2w", want: time.Date(2026, 6, 29, 12, 0, 0, 0, time.UTC)},
		{name: "+3m adds months", input: "+3m", want: time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)},
		{name: "+1y adds a year", input: "+1y", want: time.Date(2027, 6, 15, 12, 0, 0, 0, time.UTC)},
		{name: "-1d goes back", input: "-1d", want: time.Date(2026, 6, 14, 12, 0, 0, 0, time.UTC)},
		{name: "-2w goes back weeks", input: "-2w", want: time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)},
		{name: "no sign means forward", input: "3m", want: time.Date(2026, 9, 15, 12, 0, 0, 0, time.UTC)},
		{name: "multi-digit amount", input: "+10d", want: time.Date(2026, 6, 25, 12, 0, 0, 0, time.UTC)},
		{name: "month-end clamping via AddDate", input: "+1m", want: time.Date(2026, 7, 15, 12, 0, 0, 0, time.UTC)},

		{name: "missing unit", input: "+6", wantErr: true},
		{name: "unknown unit", input: "+6s", wantErr: true},
		{name: "bare sign", input: "+", wantErr: true},
		{name: "spaces", input: "+6 h", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "absolute date is not an offset", input: "2026-06-15", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCompactOffset(tt.input, now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCompactOffset(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("ParseCompactOffset(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsCompactOffset(t *testing.T) {
	for _, yes := range []string{"+6h", "-1d", "2w", "10m", "+99y"} {
		if !IsCompactOffset(yes) {
			t.Errorf("IsCompactOffset(%q) = false, want true", yes)
		}
	}
	for _, no := range []string{"", "6", "h", "+h", "2026-01-02", "next week"} {
		if IsCompactOffset(no) {
			t.Errorf("IsCompactOffset(%q) = true, want false", no)
		}
	}
}

func TestParseDate(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{name: "offset layer wins", input: "+1w", want: time.Date(2026, 6, 22, 12, 0, 0, 0, time.UTC)},
		{name: "date only", input: "2026-03-01", want: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{name: "rfc3339", input: "2026-03-01T09:30:00Z", want: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)},
		{name: "us format rejected", input: "03/01/2026", wantErr: true},
		{name: "unpadded rejected", input: "2026-3-1", wantErr: true},
		{name: "natural language rejected", input: "tomorrow", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input, now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("ParseDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
