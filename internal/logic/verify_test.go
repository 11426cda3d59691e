package logic

import "testing"

func TestVerify(t *testing.T) {
	stored := Code{'1', '2', '3', '4'}
	tests := []struct {
		entered string
		want    int
	}{
		{"1234", 4},
		{"1235", 3},
		{"12__", 2},
		{"1___", 1},
		{"____", 0},
		{"9234", 0},
		{"1934", 1},
		{"4321", 0},
	}

	for _, tt := range tests {
		t.Run(tt.entered, func(t *testing.T) {
			var entered Code
			copy(entered[:], tt.entered)
			if got := Verify(entered, stored); got != tt.want {
				t.Errorf("Verify(%s): got %d, want %d", tt.entered, got, tt.want)
			}
		})
	}
}

func TestParseCode(t *testing.T) {
	c, err := ParseCode("0042")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.String() != "0042" {
		t.Errorf("got %q, want 0042", c.String())
	}

	for _, bad := range []string{"", "123", "12345", "12a4", "____", "12 4"} {
		if _, err := ParseCode(bad); err == nil {
			t.Errorf("ParseCode(%q): expected error", bad)
		}
	}
}

func TestCodeEntry(t *testing.T) {
	e := NewCodeEntry()
	if e.Code() != EmptyCode || e.Len() != 0 {
		t.Fatalf("new entry not empty: %s", e.Code())
	}

	if e.Delete() {
		t.Error("Delete on empty entry should report false")
	}

	for _, d := range []byte("5678") {
		if !e.Append(d) {
			t.Fatalf("Append(%c) should succeed", d)
		}
	}
	if e.Append('9') {
		t.Error("Append on full entry should report false")
	}
	if e.Code().String() != "5678" {
		t.Errorf("got %s, want 5678", e.Code())
	}

	e.Delete()
	if e.Code().String() != "567_" || e.Len() != 3 {
		t.Errorf("after delete: got %s len %d", e.Code(), e.Len())
	}

	e.Reset()
	if e.Code() != EmptyCode || e.Len() != 0 {
		t.Errorf("after reset: got %s len %d", e.Code(), e.Len())
	}
}
