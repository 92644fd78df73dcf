package multilang

import "testing"

func TestSampleWindowsShortClip(t *testing.T) {
	windows := SampleWindows(5.0)
	if len(windows) != 1 {
		t.Fatalf("expected 1 window for short clip, got %d", len(windows))
	}
	if windows[0].StartS != 0 {
		t.Fatalf("expected single window to start at 0, got %.2f", windows[0].StartS)
	}
}

func TestSampleWindowsLongClip(t *testing.T) {
	windows := SampleWindows(120.0)
	if len(windows) != 3 {
		t.Fatalf("expected 3 windows, got %d", len(windows))
	}
	for i, w := range windows {
		if w.Duration() <= 0 {
			t.Fatalf("window %d has non-positive duration", i)
		}
		if w.EndS > 120.0 {
			t.Fatalf("window %d exceeds duration bound: %.2f", i, w.EndS)
		}
	}
}

func TestClassifyFromSamplesSingle(t *testing.T) {
	samples := []sampleRecord{
		{TimeS: 0, Language: "en"},
		{TimeS: 10, Language: "en"},
		{TimeS: 20, Language: "en"},
	}
	c := classifyFromSamples(samples, 30)
	if c.Mode != ModeSingle {
		t.Fatalf("expected single, got %s", c.Mode)
	}
	if c.PrimaryLanguage != "en" {
		t.Fatalf("expected en, got %s", c.PrimaryLanguage)
	}
}

func TestClassifyFromSamplesMixed(t *testing.T) {
	samples := []sampleRecord{
		{TimeS: 0, Language: "en"},
		{TimeS: 10, Language: "es"},
		{TimeS: 20, Language: "en"},
	}
	c := classifyFromSamples(samples, 30)
	if c.Mode != ModeMixed {
		t.Fatalf("expected mixed, got %s", c.Mode)
	}
}

func TestClassifyFromSamplesHybrid(t *testing.T) {
	// Secondary language only appears at t=95 of a 100s clip, well past
	// late_ratio*duration = 85.
	samples := []sampleRecord{
		{TimeS: 0, Language: "en"},
		{TimeS: 50, Language: "en"},
		{TimeS: 95, Language: "es"},
	}
	c := classifyFromSamples(samples, 100)
	if c.Mode != ModeHybrid {
		t.Fatalf("expected hybrid, got %s", c.Mode)
	}
	if c.TransitionS == nil || *c.TransitionS != 95 {
		t.Fatalf("expected transition at 95, got %v", c.TransitionS)
	}
}
