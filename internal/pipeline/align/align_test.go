package align

import (
	"math/rand"
	"reflect"
	"testing"
	"time"
)

func TestAlign(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		n        int
		fallback float64
		want     []float64
	}{
		{"Truncate", []float64{1, 2, 3, 4, 5}, 3, 0, []float64{1, 2, 3}},
		{"ExactLength", []float64{1, 2, 3}, 3, 0, []float64{1, 2, 3}},
		{"SingleValueRepeats", []float64{10}, 4, 0, []float64{10, 10, 10, 10}},
		{"TrendExtension", []float64{10, 20}, 4, 0, []float64{10, 20, 25, 30}},
		{"FallingTrend", []float64{30, 24, 18}, 5, 0, []float64{30, 24, 18, 14, 10}},
		{"EmptyUsesFallback", nil, 7, 42, []float64{42, 42, 42, 42, 42, 42, 42}},
		{"EmptyZeroFallback", []float64{}, 3, 0, []float64{0, 0, 0}},
		{"FractionalKept", []float64{1, 2, 4}, 4, 0, []float64{1, 2, 4, 5}},
		{"NoSlots", []float64{1, 2}, 0, 9, []float64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Align(tt.values, Sequence("s", tt.n), tt.fallback)
			if got := s.Values(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Align() = %v, want %v", got, tt.want)
			}
			if s.Len() != tt.n || len(s.Labels()) != tt.n {
				t.Errorf("Align() lengths = %d/%d, want %d", s.Len(), len(s.Labels()), tt.n)
			}
		})
	}
}

func TestAlign_PreservesPrecision(t *testing.T) {
	s := Align([]float64{1, 1.5}, Sequence("s", 3), 0)
	if got := s.Values()[2]; got != 1.75 {
		t.Errorf("Align() third slot = %v, want 1.75", got)
	}
	if got := s.Rounded(); !reflect.DeepEqual(got, []int64{1, 2, 2}) {
		t.Errorf("Rounded() = %v, want [1 2 2]", got)
	}
}

func TestAlign_TruncationProperty(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		values := make([]float64, 1+r.Intn(40))
		for j := range values {
			values[j] = r.Float64() * 1000
		}
		n := r.Intn(len(values) + 1)

		got := Align(values, Sequence("s", n), -1).Values()
		if !reflect.DeepEqual(got, values[:n]) {
			t.Fatalf("Align(%v, %d) = %v, want first %d values", values, n, got, n)
		}
	}
}

func TestAlign_DoesNotAliasInput(t *testing.T) {
	values := []float64{1, 2, 3}
	labels := Weekdays()
	s := Align(values, labels, 0)

	values[0] = 100
	labels[0] = "changed"
	if v, l := s.At(0); v != 1 || l != "Mon" {
		t.Errorf("At(0) = %v, %q after mutating inputs", v, l)
	}
}

func TestLabels(t *testing.T) {
	if got := Weekdays(); len(got) != 7 || got[0] != "Mon" || got[6] != "Sun" {
		t.Errorf("Weekdays() = %v", got)
	}
	if got := Horizon(4); !reflect.DeepEqual(got, []string{"T+1", "T+2", "T+3", "T+4"}) {
		t.Errorf("Horizon(4) = %v", got)
	}
	if got := Days(2); !reflect.DeepEqual(got, []string{"Day 1", "Day 2"}) {
		t.Errorf("Days(2) = %v", got)
	}

	start := time.Date(2025, time.November, 30, 0, 0, 0, 0, time.UTC)
	if got := Months(start, 3); !reflect.DeepEqual(got, []string{"Nov", "Dec", "Jan"}) {
		t.Errorf("Months() = %v", got)
	}
	// 2025-11-30 is a Sunday
	if got := WeekdaysFrom(start, 2); !reflect.DeepEqual(got, []string{"Mon", "Tue"}) {
		t.Errorf("WeekdaysFrom() = %v", got)
	}
}
