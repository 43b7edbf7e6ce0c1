package colors

import "testing"

func TestResolvePrefersOverride(t *testing.T) {
	overrides := map[string]string{"Fitness": "#123456"}
	if got := Resolve("Fitness", overrides, Palette); got != "#123456" {
		t.Errorf("Resolve = %q, want override", got)
	}
	if got := Resolve("Learning", overrides, Palette); got != DefaultColor("Learning", Palette) {
		t.Errorf("Resolve without override = %q, want default", got)
	}
}

func TestDefaultColorDeterministic(t *testing.T) {
	first := DefaultColor("Fitness", Palette)
	for i := 0; i < 100; i++ {
		if got := DefaultColor("Fitness", Palette); got != first {
			t.Fatalf("call %d: DefaultColor = %q, want %q", i, got, first)
		}
	}
}

func TestDefaultColorKnownValues(t *testing.T) {
	// Hand-folded through h = code + ((int32(h)<<5) - h): "Fitness" ends at
	// 817315272 (index 8), "Learning" at -2656118978 (index 2), "Reading"
	// at 2745067116 (index 12). The latter two land outside int32 range, so
	// they catch any stray truncation of the running value.
	cases := []struct {
		category string
		want     string
	}{
		{"Fitness", Palette[8]},
		{"Learning", Palette[2]},
		{"Reading", Palette[12]},
	}
	for _, tc := range cases {
		if got := DefaultColor(tc.category, Palette); got != tc.want {
			t.Errorf("DefaultColor(%q) = %q, want %q", tc.category, got, tc.want)
		}
	}
}

func TestDefaultColorStaysInPalette(t *testing.T) {
	categories := []string{"", "a", "Health", "Wellness", "Exercise", "Reading", "日本語", "a very long category name with spaces"}
	inPalette := func(c string) bool {
		for _, p := range Palette {
			if p == c {
				return true
			}
		}
		return false
	}
	for _, cat := range categories {
		if got := DefaultColor(cat, Palette); !inPalette(got) {
			t.Errorf("DefaultColor(%q) = %q, not in palette", cat, got)
		}
	}
}

func TestTextColor(t *testing.T) {
	cases := []struct {
		bg   string
		want string
	}{
		{"#ffffff", "#2d2d2d"},
		{"#000000", "#ffffff"},
		{"#feca57", "#2d2d2d"}, // bright yellow
		{"#c44569", "#ffffff"}, // dark raspberry
		{"#f8b500", "#2d2d2d"},
		{"c44569", "#ffffff"}, // bare hex accepted
		{"#nothex", "#ffffff"},
		{"#fff", "#ffffff"},
	}
	for _, tc := range cases {
		if got := TextColor(tc.bg); got != tc.want {
			t.Errorf("TextColor(%q) = %q, want %q", tc.bg, got, tc.want)
		}
	}
}
