package game

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrUnknownProfile is returned when a game name does not match any registered profile.
	ErrUnknownProfile = errors.New("unknown game profile")
	// ErrInvalidArgument marks caller input rejected before any work starts.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Bucket is a fixed slice of the number range (quadrant, octave or decade).
type Bucket struct {
	Name string `json:"name" yaml:"name"`
	Low  int    `json:"low" yaml:"low"`
	High int    `json:"high" yaml:"high"`
}

// Contains reports whether n lies inside the bucket bounds (inclusive).
func (b Bucket) Contains(n int) bool {
	return n >= b.Low && n <= b.High
}

// Size returns the number of values the bucket covers.
func (b Bucket) Size() int {
	return b.High - b.Low + 1
}

// Numbers returns the bucket members in ascending order.
func (b Bucket) Numbers() []int {
	out := make([]int, 0, b.Size())
	for n := b.Low; n <= b.High; n++ {
		out = append(out, n)
	}
	return out
}

// BlendWeights are the sub-pool shares used by the blended strategy.
// Whatever is left after the four shares is filled uniformly at random.
type BlendWeights struct {
	Hot      float64 `json:"hot" yaml:"hot"`
	Delayed  float64 `json:"delayed" yaml:"delayed"`
	Frequent float64 `json:"frequent" yaml:"frequent"`
	Bucket   float64 `json:"bucket" yaml:"bucket"`
}

// Profile describes one lottery game: its number range, draw size and the
// heuristic knobs the closure strategies read.
type Profile struct {
	Name         string   `json:"name" yaml:"name"`
	NumberMin    int      `json:"number_min" yaml:"number_min"`
	NumberMax    int      `json:"number_max" yaml:"number_max"`
	DrawSize     int      `json:"draw_size" yaml:"draw_size"`
	ComboSize    int      `json:"combo_size" yaml:"combo_size"`
	MinComboSize int      `json:"min_combo_size" yaml:"min_combo_size"`
	MaxComboSize int      `json:"max_combo_size" yaml:"max_combo_size"`
	BucketScheme string   `json:"bucket_scheme" yaml:"bucket_scheme"`
	Buckets      []Bucket `json:"buckets" yaml:"buckets"`

	// FrequencyPool is the top-N most frequent numbers the frequency strategy samples from.
	FrequencyPool int `json:"frequency_pool" yaml:"frequency_pool"`
	// DelayPoolPadding is added to the combo size to get the delay strategy's top-N.
	DelayPoolPadding int `json:"delay_pool_padding" yaml:"delay_pool_padding"`
	// FrequentTop is the size of the "most drawn" pool the blended strategy uses.
	FrequentTop int `json:"frequent_top" yaml:"frequent_top"`
	// BucketFloor is the minimum slot count per bucket in the balanced strategy.
	BucketFloor int `json:"bucket_floor" yaml:"bucket_floor"`
	// DefaultEvenShare is the even proportion used when history is empty.
	DefaultEvenShare float64      `json:"default_even_share" yaml:"default_even_share"`
	Blend            BlendWeights `json:"blend" yaml:"blend"`
}

// RangeSize returns how many distinct numbers the game can draw from.
func (p Profile) RangeSize() int {
	return p.NumberMax - p.NumberMin + 1
}

// Numbers returns every number in the game's range in ascending order.
func (p Profile) Numbers() []int {
	out := make([]int, 0, p.RangeSize())
	for n := p.NumberMin; n <= p.NumberMax; n++ {
		out = append(out, n)
	}
	return out
}

// InRange reports whether n is a valid number for this game.
func (p Profile) InRange(n int) bool {
	return n >= p.NumberMin && n <= p.NumberMax
}

// BucketOf returns the index of the bucket containing n, or -1.
func (p Profile) BucketOf(n int) int {
	for i, b := range p.Buckets {
		if b.Contains(n) {
			return i
		}
	}
	return -1
}

// Validate checks the internal consistency of a profile.
func (p Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile name is empty")
	}
	if p.NumberMax < p.NumberMin {
		return fmt.Errorf("profile %s: number_max %d below number_min %d", p.Name, p.NumberMax, p.NumberMin)
	}
	if p.DrawSize <= 0 || p.DrawSize > p.RangeSize() {
		return fmt.Errorf("profile %s: draw_size %d outside [1, %d]", p.Name, p.DrawSize, p.RangeSize())
	}
	if p.MinComboSize < p.DrawSize || p.MaxComboSize > p.RangeSize() || p.MinComboSize > p.MaxComboSize {
		return fmt.Errorf("profile %s: combo size bounds [%d, %d] must sit inside [%d, %d]",
			p.Name, p.MinComboSize, p.MaxComboSize, p.DrawSize, p.RangeSize())
	}
	if p.ComboSize < p.MinComboSize || p.ComboSize > p.MaxComboSize {
		return fmt.Errorf("profile %s: default combo_size %d outside [%d, %d]", p.Name, p.ComboSize, p.MinComboSize, p.MaxComboSize)
	}
	covered := 0
	for _, b := range p.Buckets {
		if b.Low > b.High || !p.InRange(b.Low) || !p.InRange(b.High) {
			return fmt.Errorf("profile %s: bucket %s [%d, %d] outside number range", p.Name, b.Name, b.Low, b.High)
		}
		covered += b.Size()
	}
	if len(p.Buckets) > 0 && covered != p.RangeSize() {
		return fmt.Errorf("profile %s: buckets cover %d numbers, range has %d", p.Name, covered, p.RangeSize())
	}
	return nil
}

func evenBuckets(prefix string, start, width, count int) []Bucket {
	out := make([]Bucket, 0, count)
	for i := 0; i < count; i++ {
		low := start + i*width
		out = append(out, Bucket{
			Name: fmt.Sprintf("%s%d", prefix, i+1),
			Low:  low,
			High: low + width - 1,
		})
	}
	return out
}

// Lotofacil is the 25-number game with 15 numbers drawn.
func Lotofacil() Profile {
	return Profile{
		Name:         "lotofacil",
		NumberMin:    1,
		NumberMax:    25,
		DrawSize:     15,
		ComboSize:    15,
		MinComboSize: 15,
		MaxComboSize: 20,
		BucketScheme: "quadrant",
		Buckets: []Bucket{
			{Name: "Q1", Low: 1, High: 6},
			{Name: "Q2", Low: 7, High: 12},
			{Name: "Q3", Low: 13, High: 18},
			{Name: "Q4", Low: 19, High: 25},
		},
		FrequencyPool:    25,
		DelayPoolPadding: 10,
		FrequentTop:      20,
		BucketFloor:      2,
		DefaultEvenShare: 7.0 / 15.0,
		Blend:            BlendWeights{Hot: 0.35, Delayed: 0.25, Frequent: 0.20, Bucket: 0.15},
	}
}

// Timemania is the 80-number game, bucketed in octaves of ten.
func Timemania() Profile {
	return Profile{
		Name:             "timemania",
		NumberMin:        1,
		NumberMax:        80,
		DrawSize:         10,
		ComboSize:        10,
		MinComboSize:     10,
		MaxComboSize:     10,
		BucketScheme:     "octave",
		Buckets:          evenBuckets("O", 1, 10, 8),
		FrequencyPool:    40,
		DelayPoolPadding: 20,
		FrequentTop:      30,
		BucketFloor:      1,
		DefaultEvenShare: 0.5,
		Blend:            BlendWeights{Hot: 0.35, Delayed: 0.30, Frequent: 0.20, Bucket: 0.10},
	}
}

// Lotomania is the 0-indexed 100-number game where a bet covers 50 numbers.
func Lotomania() Profile {
	buckets := evenBuckets("D", 0, 10, 10)
	for i := range buckets {
		buckets[i].Name = fmt.Sprintf("D%d", i)
	}
	return Profile{
		Name:             "lotomania",
		NumberMin:        0,
		NumberMax:        99,
		DrawSize:         20,
		ComboSize:        50,
		MinComboSize:     50,
		MaxComboSize:     50,
		BucketScheme:     "decade",
		Buckets:          buckets,
		FrequencyPool:    70,
		DelayPoolPadding: 20,
		FrequentTop:      50,
		BucketFloor:      1,
		DefaultEvenShare: 0.5,
		Blend:            BlendWeights{Hot: 0.30, Delayed: 0.25, Frequent: 0.20, Bucket: 0.20},
	}
}

// Registry maps game names to profiles.
type Registry struct {
	profiles map[string]Profile
}

// NewRegistry returns a registry preloaded with the built-in games.
func NewRegistry() *Registry {
	r := &Registry{profiles: make(map[string]Profile)}
	for _, p := range []Profile{Lotofacil(), Timemania(), Lotomania()} {
		r.profiles[p.Name] = p
	}
	return r
}

// Register adds or replaces a profile after validating it.
func (r *Registry) Register(p Profile) error {
	p.Name = strings.ToLower(strings.TrimSpace(p.Name))
	if err := p.Validate(); err != nil {
		return err
	}
	r.profiles[p.Name] = p
	return nil
}

// Get looks up a profile by case-insensitive name.
func (r *Registry) Get(name string) (Profile, error) {
	p, ok := r.profiles[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q (available: %s)", ErrUnknownProfile, name, strings.Join(r.Names(), ", "))
	}
	return p, nil
}

// Names returns the registered game names sorted alphabetically.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.profiles))
	for n := range r.profiles {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
