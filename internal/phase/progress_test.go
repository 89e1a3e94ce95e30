package phase

import "testing"

func TestProgress(t *testing.T) {
	tests := []struct {
		phase Phase
		index int
		total int
		want  int
	}{
		{Intro, 0, 5, 0},
		{Teach, 0, 5, 10},
		{Ask, 0, 5, 10},
		{Ask, 1, 5, 28},
		{Evaluate, 2, 5, 46},
		{Evaluate, 4, 5, 82},
		{Ask, 1, 3, 40},
		{Ask, 2, 3, 70},
		{Report, 4, 5, 100},
		{Completed, 0, 5, 100},
		{Paused, 3, 5, 64},
		{Ask, 0, 0, 10},
	}

	for _, tt := range tests {
		got := Progress(tt.phase, tt.index, tt.total)
		if got != tt.want {
			t.Errorf("Progress(%s, %d, %d) = %d, want %d", tt.phase, tt.index, tt.total, got, tt.want)
		}
	}
}

func TestProgress_Deterministic(t *testing.T) {
	for _, p := range All {
		for q := 0; q <= 7; q++ {
			a := Progress(p, q, 7)
			b := Progress(p, q, 7)
			if a != b {
				t.Errorf("Progress(%s, %d, 7) not deterministic: %d vs %d", p, q, a, b)
			}
			if a < 0 || a > 100 {
				t.Errorf("Progress(%s, %d, 7) = %d out of range", p, q, a)
			}
		}
	}
}
