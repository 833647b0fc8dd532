package theme

import "testing"

func TestLoad(t *testing.T) {
	for _, name := range Available() {
		t.Run(name, func(t *testing.T) {
			th, err := Load(name)
			if err != nil {
				t.Fatalf("Load(%q) = %v", name, err)
			}
			if th.Name != name {
				t.Errorf("theme name = %q, want %q", th.Name, name)
			}
			if th.Bg == "" || th.Fg == "" || th.Accent == "" {
				t.Errorf("theme %q has empty core colors: %+v", name, th)
			}
		})
	}
}

func TestLoadFallsBackToMocha(t *testing.T) {
	th, err := Load("no-such-theme")
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if th.Name != "mocha" {
		t.Errorf("expected mocha fallback, got %q", th.Name)
	}
}

func TestLoadEmptyDefaultsToMocha(t *testing.T) {
	th, err := Load("")
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if th.Name != "mocha" {
		t.Errorf("expected mocha, got %q", th.Name)
	}
}

func TestModalDefaults(t *testing.T) {
	th := &Theme{
		Bg:          "#101010",
		BgHighlight: "#202020",
		Fg:          "#e0e0e0",
		FgMuted:     "#808080",
		Accent:      "#3366ff",
	}
	th.applyDefaults()

	m := th.Modal()
	if m.BaseBg != "#202020" {
		t.Errorf("BaseBg = %q, want bg_highlight fallback", m.BaseBg)
	}
	if m.ModalBorder != "#3366ff" {
		t.Errorf("ModalBorder = %q, want accent fallback", m.ModalBorder)
	}
	if m.TextPrimary != "#e0e0e0" || m.TextMuted != "#808080" {
		t.Errorf("text fallbacks wrong: %+v", m)
	}
}

func TestIsAvailable(t *testing.T) {
	if !IsAvailable("MOCHA") {
		t.Error("IsAvailable should be case-insensitive")
	}
	if IsAvailable("dracula") {
		t.Error("dracula is not bundled")
	}
}
