package game

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestBuiltInProfilesAreValid(t *testing.T) {
	for _, p := range []Profile{Lotofacil(), Timemania(), Lotomania()} {
		t.Run(p.Name, func(t *testing.T) {
			if err := p.Validate(); err != nil {
				t.Errorf("Expected valid profile, got %v", err)
			}
			for n := p.NumberMin; n <= p.NumberMax; n++ {
				if p.BucketOf(n) < 0 {
					t.Errorf("Number %d not covered by any bucket", n)
				}
			}
		})
	}
}

func TestRegistryGet(t *testing.T) {
	r := NewRegistry()

	p, err := r.Get(" LotoFacil ")
	if err != nil {
		t.Fatalf("Expected lotofacil profile, got error %v", err)
	}
	if p.NumberMax != 25 {
		t.Errorf("Expected NumberMax 25, got %d", p.NumberMax)
	}

	if _, err := r.Get("megasena"); err == nil {
		t.Error("Expected error for unknown game")
	}

	want := []string{"lotofacil", "lotomania", "timemania"}
	if got := r.Names(); !slices.Equal(got, want) {
		t.Errorf("Expected names %v, got %v", want, got)
	}
}

func TestNormalize(t *testing.T) {
	draws := []Draw{
		{Sequence: 3, Numbers: []int{5, 1, 3}},
		{Sequence: 1, Numbers: []int{9, 8, 7}},
		{Sequence: 3, Numbers: []int{6, 4, 2}},
	}

	h := Normalize(draws)

	if len(h) != 2 {
		t.Fatalf("Expected 2 draws after dedupe, got %d", len(h))
	}
	if h[0].Sequence != 1 || h[1].Sequence != 3 {
		t.Errorf("Expected ascending sequences [1 3], got [%d %d]", h[0].Sequence, h[1].Sequence)
	}
	if !slices.Equal(h[1].Numbers, []int{2, 4, 6}) {
		t.Errorf("Expected last occurrence sorted [2 4 6], got %v", h[1].Numbers)
	}
	if !h[0].Contains(8) || h[0].Contains(5) {
		t.Errorf("Contains mismatch on %v", h[0].Numbers)
	}
}

func TestDrawContains_Unsorted(t *testing.T) {
	d := Draw{Sequence: 1, Numbers: []int{15, 9, 3, 22}}
	for _, n := range []int{3, 9, 15, 22} {
		if !d.Contains(n) {
			t.Errorf("Expected %d to be drawn in %v", n, d.Numbers)
		}
	}
	if d.Contains(4) {
		t.Errorf("Expected 4 not to be drawn in %v", d.Numbers)
	}
}

func TestHistoryWindow(t *testing.T) {
	h := History{{Sequence: 1}, {Sequence: 2}, {Sequence: 3}}

	if w := h.Window(2); len(w) != 2 || w[0].Sequence != 2 {
		t.Errorf("Expected last two draws, got %+v", w)
	}
	if w := h.Window(10); len(w) != 3 {
		t.Errorf("Expected window clipped to 3, got %d", len(w))
	}
	if w := h.Window(0); len(w) != 0 {
		t.Errorf("Expected empty window, got %d", len(w))
	}
	if _, ok := (History{}).Latest(); ok {
		t.Error("Expected no latest draw for empty history")
	}
}

func TestValidateCombination(t *testing.T) {
	p := Lotofacil()
	tests := []struct {
		name    string
		combo   []int
		wantErr bool
	}{
		{"Valid15", []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}, false},
		{"TooShort", []int{1, 2, 3}, true},
		{"OutOfRange", []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 26}, true},
		{"Repeated", []int{1, 1, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCombination(p, tt.combo)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCombination() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadProfilesOverride(t *testing.T) {
	content := `profiles:
  - name: lotofacil
    max_combo_size: 18
  - name: quina
    number_min: 1
    number_max: 80
    draw_size: 5
    combo_size: 5
    min_combo_size: 5
    max_combo_size: 15
    bucket_scheme: octave
    buckets:
      - {name: A, low: 1, high: 40}
      - {name: B, low: 41, high: 80}
    frequency_pool: 40
    frequent_top: 20
    bucket_floor: 1
    default_even_share: 0.5
    blend: {hot: 0.35, delayed: 0.25, frequent: 0.2, bucket: 0.15}
`
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	r := NewRegistry()
	if err := r.LoadProfiles(path); err != nil {
		t.Fatalf("LoadProfiles failed: %v", err)
	}

	lf, _ := r.Get("lotofacil")
	if lf.MaxComboSize != 18 {
		t.Errorf("Expected overridden MaxComboSize 18, got %d", lf.MaxComboSize)
	}
	if lf.NumberMax != 25 || len(lf.Buckets) != 4 {
		t.Errorf("Expected untouched fields to survive override, got %+v", lf)
	}

	q, err := r.Get("quina")
	if err != nil {
		t.Fatalf("Expected new profile registered, got %v", err)
	}
	if q.DrawSize != 5 || len(q.Buckets) != 2 {
		t.Errorf("Unexpected quina profile: %+v", q)
	}
}
