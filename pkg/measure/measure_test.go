package measure

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/matzehuels/sdfglayout/pkg/cache"
	serrors "github.com/matzehuels/sdfglayout/pkg/errors"
	"github.com/matzehuels/sdfglayout/pkg/observability"
)

func TestHeuristic(t *testing.T) {
	tests := []struct {
		name string
		font Font
		text string
		want float64
	}{
		{"empty", DefaultFont(), "", 0},
		{"ascii", DefaultFont(), "abcd", 4 * 10 * sansCharWidth},
		{"wide runes", DefaultFont(), "数据", 4 * 10 * sansCharWidth},
		{"mono", MonoFont(10), "i < N", 5 * 10 * monoCharWidth},
		{"bold", Font{Family: "sans-serif", Size: 20, Bold: true}, "ab", 2 * 20 * sansCharWidth * boldWidening},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewHeuristic(tt.font).MeasureText(tt.text)
			if err != nil {
				t.Fatal(err)
			}
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("MeasureText(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestWithFontRestores(t *testing.T) {
	m := NewHeuristic(DefaultFont())
	boom := errors.New("boom")

	var inside Font
	err := WithFont(m, MonoFont(12), func() error {
		inside = m.Font()
		return boom
	})
	if err != boom {
		t.Errorf("WithFont should return fn's error, got %v", err)
	}
	if inside != MonoFont(12) {
		t.Errorf("font inside = %v", inside)
	}
	if m.Font() != DefaultFont() {
		t.Errorf("font not restored: %v", m.Font())
	}
}

func TestMaxWidth(t *testing.T) {
	m := NewHeuristic(DefaultFont())
	w, err := MaxWidth(m, "a", "abc", "ab")
	if err != nil {
		t.Fatal(err)
	}
	want, _ := m.MeasureText("abc")
	if w != want {
		t.Errorf("MaxWidth = %v, want %v", w, want)
	}
}

func TestFontString(t *testing.T) {
	if got := (Font{Family: "monospace", Size: 10, Bold: true}).String(); got != "bold 10px monospace" {
		t.Errorf("String() = %q", got)
	}
}

func TestOpenType(t *testing.T) {
	m, err := NewOpenType(DefaultFont())
	if err != nil {
		t.Fatalf("NewOpenType: %v", err)
	}
	defer m.Close()

	short, _ := m.MeasureText("i")
	long, _ := m.MeasureText("iiiiiiiiii")
	if short <= 0 || long <= short {
		t.Errorf("advances not increasing: %v, %v", short, long)
	}

	var mono float64
	_ = WithFont(m, MonoFont(10), func() error {
		a, _ := m.MeasureText("i")
		b, _ := m.MeasureText("W")
		if a != b {
			t.Errorf("monospace advances differ: %v vs %v", a, b)
		}
		mono = a
		return nil
	})
	if mono <= 0 {
		t.Error("monospace width should be positive")
	}
}

type countingMeasurer struct {
	Heuristic
	calls int
}

func (c *countingMeasurer) MeasureText(text string) (float64, error) {
	c.calls++
	return c.Heuristic.MeasureText(text)
}

type recordingCacheHooks struct {
	observability.NoopCacheHooks
	hits, misses int
}

func (r *recordingCacheHooks) OnCacheHit(context.Context, string)  { r.hits++ }
func (r *recordingCacheHooks) OnCacheMiss(context.Context, string) { r.misses++ }

func TestCached(t *testing.T) {
	hooks := &recordingCacheHooks{}
	observability.SetCacheHooks(hooks)
	defer observability.Reset()

	inner := &countingMeasurer{Heuristic: Heuristic{font: DefaultFont()}}
	m := NewCached(inner, cache.NewMemoryCache(16), nil)

	a, _ := m.MeasureText("tasklet")
	b, _ := m.MeasureText("tasklet")
	if a != b || inner.calls != 1 {
		t.Errorf("second call should hit: %v %v calls=%d", a, b, inner.calls)
	}
	if hooks.hits != 1 || hooks.misses != 1 {
		t.Errorf("hooks hits=%d misses=%d", hooks.hits, hooks.misses)
	}

	// A different font is a different key
	_ = WithFont(m, MonoFont(10), func() error {
		_, err := m.MeasureText("tasklet")
		return err
	})
	if inner.calls != 2 {
		t.Errorf("font switch should miss, calls=%d", inner.calls)
	}
	if m.Font() != DefaultFont() {
		t.Errorf("font not restored through decorator: %v", m.Font())
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		opts    Options
		wantErr bool
		cached  bool
	}{
		{Options{}, false, false},
		{Options{Kind: KindHeuristic, CacheSize: 8}, false, true},
		{Options{Kind: KindOpenType, FontSize: 12}, false, false},
		{Options{Kind: "canvas"}, true, false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%d", tt.opts.Kind, tt.opts.CacheSize), func(t *testing.T) {
			m, err := New(tt.opts)
			if tt.wantErr {
				if !serrors.Is(err, serrors.ErrCodeInvalidConfig) {
					t.Errorf("want INVALID_CONFIG, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if _, ok := m.(*Cached); ok != tt.cached {
				t.Errorf("cached = %v, want %v", ok, tt.cached)
			}
			if tt.opts.FontSize > 0 && m.Font().Size != tt.opts.FontSize {
				t.Errorf("font size = %v", m.Font().Size)
			}
		})
	}
}
