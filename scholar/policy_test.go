package scholar

import "testing"

func TestDecide(t *testing.T) {
	tests := []struct {
		name        string
		year        string
		yearLimit   int
		accumulated int
		maxPapers   int
		want        Decision
	}{
		{
			name: "row under year limit stops before inclusion",
			year: "2019", yearLimit: 2020, accumulated: 0, maxPapers: 10,
			want: StopBefore,
		},
		{
			name: "row at year limit continues",
			year: "2020", yearLimit: 2020, accumulated: 0, maxPapers: 10,
			want: Continue,
		},
		{
			name: "unparsable year skips the year check",
			year: "n/a", yearLimit: 2020, accumulated: 0, maxPapers: 10,
			want: Continue,
		},
		{
			name: "zero year limit disables the year check",
			year: "1900", yearLimit: 0, accumulated: 0, maxPapers: 10,
			want: Continue,
		},
		{
			name: "row filling max papers stops after inclusion",
			year: "2023", yearLimit: 0, accumulated: 9, maxPapers: 10,
			want: StopAfter,
		},
		{
			name: "year limit is checked before max papers",
			year: "2019", yearLimit: 2020, accumulated: 9, maxPapers: 10,
			want: StopBefore,
		},
		{
			name: "room left continues",
			year: "2023", yearLimit: 2020, accumulated: 3, maxPapers: 10,
			want: Continue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.year, tt.yearLimit, tt.accumulated, tt.maxPapers)
			if got != tt.want {
				t.Fatalf("Decide(%q, %d, %d, %d) = %v, want %v",
					tt.year, tt.yearLimit, tt.accumulated, tt.maxPapers, got, tt.want)
			}
		})
	}
}

// The scan is sequential and relies on the site emitting rows in
// non-increasing year order (sortby=pubdate): once one row falls under the
// cutoff, later rows are never examined. A 2021 row after a 2019 row would be
// dropped with it.
func TestDecideSequence(t *testing.T) {
	years := []string{"2023", "2022", "2019", "2021"}
	var kept []string

	for _, year := range years {
		decision := Decide(year, 2020, len(kept), 10)
		if decision == StopBefore {
			break
		}
		kept = append(kept, year)
		if decision == StopAfter {
			break
		}
	}

	if len(kept) != 2 || kept[0] != "2023" || kept[1] != "2022" {
		t.Fatalf("kept = %v, want [2023 2022]", kept)
	}
}
