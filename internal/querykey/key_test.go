package querykey

import "testing"

func TestKeyDerivationIsIdempotent(t *testing.T) {
	tests := []struct {
		name string
		a, b Key
	}{
		{"issues", Issues("ws1", "p1"), Issues("ws1", "p1")},
		{"issue detail", IssueDetail("ws1", "p1", "i9"), IssueDetail("ws1", "p1", "i9")},
		{"sprints archived", SprintsArchived("ws1", "p1"), SprintsArchived("ws1", "p1")},
		{
			"filters are order independent",
			IssuesFiltered("ws1", "p1", Filter{"state": "done", "priority": "high"}),
			IssuesFiltered("ws1", "p1", Filter{"priority": "high", "state": "done"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.a.Equal(tt.b) {
				t.Errorf("keys differ: %v vs %v", tt.a, tt.b)
			}
			if tt.a.String() != tt.b.String() {
				t.Errorf("string forms differ: %q vs %q", tt.a, tt.b)
			}
		})
	}
}

func TestDifferingInputsDiffer(t *testing.T) {
	tests := []struct {
		name string
		a, b Key
	}{
		{"different project", Issues("ws1", "p1"), Issues("ws1", "p2")},
		{"different workspace", Issues("ws1", "p1"), Issues("ws2", "p1")},
		{"list vs detail", Sprints("ws1", "p1"), SprintDetail("ws1", "p1", "s1")},
		{"active vs archived", Sprints("ws1", "p1"), SprintsArchived("ws1", "p1")},
		{"different entity", Labels("ws1", "p1"), States("ws1", "p1")},
		{
			"different filter",
			IssuesFiltered("ws1", "p1", Filter{"state": "done"}),
			IssuesFiltered("ws1", "p1", Filter{"state": "open"}),
		},
		{
			"filtered vs unfiltered",
			Issues("ws1", "p1"),
			IssuesFiltered("ws1", "p1", nil),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.a.Equal(tt.b) {
				t.Errorf("keys should differ: %v vs %v", tt.a, tt.b)
			}
		})
	}
}

func TestPrefixMatchingIsSegmentWise(t *testing.T) {
	detail := IssueDetail("ws1", "p1", "i9")
	if !detail.HasPrefix(Issues("ws1", "p1")) {
		t.Error("detail key should match its collection prefix")
	}
	if detail.HasPrefix(Issues("ws1", "p2")) {
		t.Error("detail key matched foreign project prefix")
	}

	// "p12" must not match a "p1" prefix even though the joined strings
	// share a prefix.
	other := Issues("ws1", "p12")
	if other.HasPrefix(Issues("ws1", "p1")) {
		t.Error("segment-boundary violation: p12 matched p1")
	}

	if !detail.HasPrefix(Key{}) {
		t.Error("empty prefix should match everything")
	}
}

func TestSeparatorEscaping(t *testing.T) {
	a := New("issues", "ws:odd", "p1")
	b := New("issues", "ws", "odd:p1")
	if a.Equal(b) {
		t.Error("escaping failed to keep segment boundaries distinct")
	}
	if a.String() == b.String() {
		t.Error("string forms collide for distinct keys")
	}
}

func TestAppendCopies(t *testing.T) {
	base := Issues("ws1", "p1")
	before := base.String()
	_ = base.Append("detail", "i1")
	if base.String() != before {
		t.Error("Append mutated its receiver")
	}
}

func TestFilterEncodeEmpty(t *testing.T) {
	if (Filter{}).Encode() != "-" {
		t.Errorf("empty filter should encode to \"-\", got %q", (Filter{}).Encode())
	}
	if Filter(nil).Encode() != "-" {
		t.Errorf("nil filter should encode to \"-\"")
	}
}
