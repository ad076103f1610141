package parser

import "testing"

func TestNormalize_SubstitutionTable(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"it’s ‘quoted’", "it's 'quoted'"},
		{"“double”", "\"double\""},
		{"well&mdash;then", "well-then"},
		{"snake_case_words", "snake case words"},
		{"è á ü ē é æ", "e a u e e a"},
		{"no change here", "no change here"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestNormalize_DoubleSpaceSinglePass(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"a  b", "a b"},
		{"a   b", "a  b"},
		{"a    b", "a  b"},
		{"a     b", "a   b"},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}

	// A run of three spaces does not settle after one application.
	once := Normalize("a   b")
	if twice := Normalize(once); twice == once {
		t.Errorf("expected second pass to change %q, got %q", once, twice)
	}
}

func TestNormalize_CollapseRunsBeforeUnderscore(t *testing.T) {
	// The space produced by "_" is not merged with its neighbours.
	if got := Normalize("a _ b"); got != "a   b" {
		t.Errorf("expected %q, got %q", "a   b", got)
	}
}

func TestStripLineNumber(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"15 [1]That", "[1]That"},
		{"100", ""},
		{"no digits", "no digits"},
		{"3rd line", "rd line"},
		{"word 12", "word 12"},
	}
	for _, tt := range tests {
		if got := stripLineNumber(tt.in); got != tt.want {
			t.Errorf("stripLineNumber(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestAllowedRune(t *testing.T) {
	for _, r := range "azAZ09 -,:;\"'.!?()" {
		if !allowedRune(r) {
			t.Errorf("expected %q to be allowed", r)
		}
	}
	for _, r := range "{|}~\té—ñ" {
		if allowedRune(r) {
			t.Errorf("expected %q to be rejected", r)
		}
	}
}

func TestFirstInvalid(t *testing.T) {
	if _, bad := firstInvalid("All good, friend: yes; \"quoted\" - fine."); bad {
		t.Error("expected clean line to pass")
	}
	r, bad := firstInvalid("tilde ~ then pipe |")
	if !bad || r != '~' {
		t.Errorf("expected first invalid rune '~', got %q (bad=%v)", r, bad)
	}
}
