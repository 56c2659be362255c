package persona

import "testing"

func TestParseLevel(t *testing.T) {
	if ParseLevel(" Beginner ") != LevelBeginner {
		t.Fatal("beginner not parsed")
	}
	if ParseLevel("ADVANCED") != LevelAdvanced {
		t.Fatal("advanced not parsed")
	}
	if ParseLevel("") != LevelIntermediate {
		t.Fatal("empty should default to intermediate")
	}
	if ParseLevel("guru") != LevelIntermediate {
		t.Fatal("unknown should default to intermediate")
	}
}

func TestForLevel(t *testing.T) {
	b := ForLevel(LevelBeginner)
	if b.Tone != "encouraging and patient" {
		t.Fatalf("unexpected beginner tone: %q", b.Tone)
	}

	a := ForLevel(LevelAdvanced)
	if a.Tone == b.Tone {
		t.Fatal("levels should have distinct tones")
	}

	// Unknown levels fall back to intermediate.
	if ForLevel(Level("guru")) != ForLevel(LevelIntermediate) {
		t.Fatal("unknown level should map to intermediate")
	}
}
