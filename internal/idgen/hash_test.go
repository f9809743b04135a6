package idgen

import (
	"strings"
	"testing"
)

func TestEncodeBase36(t *testing.T) {
	tests := []struct {
		data   []byte
		length int
		want   string
	}{
		{[]byte{0}, 3, "000"},
		{[]byte{35}, 1, "z"},
		{[]byte{36}, 2, "10"},
		{[]byte{1, 0}, 3, "074"},
	}

	for _, tt := range tests {
		got := EncodeBase36(tt.data, tt.length)
		if got != tt.want {
			t.Errorf("EncodeBase36(%v, %d) = %q, want %q", tt.data, tt.length, got, tt.want)
		}
	}
}

func TestNewTempIDUniqueAndPrefixed(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		id := NewTempID("issue")
		if !strings.HasPrefix(id, TempPrefix) {
			t.Fatalf("temp id %q missing prefix %q", id, TempPrefix)
		}
		if len(id) != len(TempPrefix)+tempLen {
			t.Fatalf("temp id %q has length %d, want %d", id, len(id), len(TempPrefix)+tempLen)
		}
		if seen[id] {
			t.Fatalf("duplicate temp id %q", id)
		}
		seen[id] = true
	}
}

func TestIsTemp(t *testing.T) {
	if !IsTemp(NewTempID("page")) {
		t.Error("freshly minted id not recognized as temp")
	}
	if IsTemp("iss_8f3k2m") {
		t.Error("server id misclassified as temp")
	}
	if IsTemp("") {
		t.Error("empty id misclassified as temp")
	}
}
