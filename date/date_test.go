package date

import (
	"encoding/json"
	"testing"
	"time"
)

// TestTime assert that the time() is cannonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestNew_Normalizes(t *testing.T) {
	got := New(2025, time.February, 30)
	if want := New(2025, time.March, 2); got != want {
		t.Errorf("New(2025, 2, 30) = %v, want %v", got, want)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "2025-08-01", want: New(2025, time.August, 1)},
		{in: "2025-8-1", want: New(2025, time.August, 1)},
		{in: "2025/08/01", wantErr: true},
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

func TestOn_UsesCalendarFieldsOfLocation(t *testing.T) {
	// 23:30 in UTC-5 is already the next day in UTC; the calendar day must
	// follow the location of the time value.
	loc := time.FixedZone("EST", -5*3600)
	ts := time.Date(2025, time.January, 31, 23, 30, 0, 0, loc)
	if got, want := On(ts), New(2025, time.January, 31); got != want {
		t.Errorf("On(%v) = %v, want %v", ts, got, want)
	}
}

func TestDate_JSON(t *testing.T) {
	d := New(2024, time.December, 5)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(b) != `"2024-12-05"` {
		t.Errorf("Marshal() = %s, want %q", b, `"2024-12-05"`)
	}
	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if back != d {
		t.Errorf("Unmarshal() = %v, want %v", back, d)
	}
	if err := json.Unmarshal([]byte(`"not a date"`), &back); err == nil {
		t.Errorf("Unmarshal(invalid) expected error")
	}
}

func TestYearMonth(t *testing.T) {
	m, err := ParseYearMonth("2025-3")
	if err != nil {
		t.Fatalf("ParseYearMonth() error = %v", err)
	}
	if got := m.String(); got != "2025-03" {
		t.Errorf("String() = %q, want %q", got, "2025-03")
	}
	if !m.Contains(New(2025, time.March, 31)) {
		t.Errorf("Contains(2025-03-31) = false, want true")
	}
	if m.Contains(New(2024, time.March, 31)) {
		t.Errorf("Contains(2024-03-31) = true, want false")
	}
	if got, want := m.Last(), New(2025, time.March, 31); got != want {
		t.Errorf("Last() = %v, want %v", got, want)
	}
	if got, want := (YearMonth{2025, time.December}).Next(), (YearMonth{2026, time.January}); got != want {
		t.Errorf("Next() = %v, want %v", got, want)
	}
	if !(YearMonth{2024, time.December}).Before(m) {
		t.Errorf("2024-12 should be before 2025-03")
	}
}
