package date

import (
	"encoding/json"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "2025-07-31", want: New(2025, 7, 31)},
		{in: "2025-7-1", want: New(2025, 7, 1)},
		{in: "31/07/2025", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAddNormalizes(t *testing.T) {
	if got := New(2024, 2, 28).Add(2); got != New(2024, 3, 1) {
		t.Errorf("Add(2) = %v, want 2024-03-01", got)
	}
	if got := New(2025, 1, 1).Add(-1); got != New(2024, 12, 31) {
		t.Errorf("Add(-1) = %v, want 2024-12-31", got)
	}
}

func TestDateJSON(t *testing.T) {
	d := New(2025, 3, 9)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"2025-03-09"` {
		t.Errorf("Marshal = %s, want \"2025-03-09\"", b)
	}
	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatal(err)
	}
	if back != d {
		t.Errorf("Unmarshal = %v, want %v", back, d)
	}
}
