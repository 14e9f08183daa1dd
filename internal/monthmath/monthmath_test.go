package monthmath

import (
	"fmt"
	"testing"
	"time"
)

func TestAddMonths(t *testing.T) {
	start := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		n    int
		want time.Time
	}{
		{0, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{1, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)},
		{36, time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{54, time.Date(2028, time.July, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, c := range cases {
		got := AddMonths(start, c.n)
		if !got.Equal(c.want) {
			t.Fatalf("AddMonths(%v, %d) = %v, want %v", start, c.n, got, c.want)
		}
	}
}

func TestMonthIndexRoundTrip(t *testing.T) {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	for n := 0; n < 80; n++ {
		at := AddMonths(start, n)
		if got := MonthIndex(start, at); got != n {
			t.Fatalf("MonthIndex(start, AddMonths(start, %d)) = %d, want %d", n, got, n)
		}
	}
}

func ExampleAddMonths() {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	june := AddMonths(start, 41) // month index landing in June, within [36,54]
	fmt.Println(june.Month())
	// Output: June
}
