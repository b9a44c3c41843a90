package textutil

import "testing"

func TestNormalizeKey(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Punch_Drunk", "punch drunk"},
		{"  Punch   Drunk  ", "punch drunk"},
		{"Rock & Roll", "rock and roll"},
		{"MX-001_Final.wav", "mx 001 final wav"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeKey(tc.in); got != tc.want {
			t.Errorf("NormalizeKey(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTrigramJaccardIdentical(t *testing.T) {
	if got := TrigramJaccard("Punch Drunk", "punch_drunk"); got != 1.0 {
		t.Fatalf("expected 1.0 for equivalent names, got %v", got)
	}
}

func TestTrigramJaccardDisjoint(t *testing.T) {
	if got := TrigramJaccard("abcdef", "xyzuvw"); got != 0 {
		t.Fatalf("expected 0 for disjoint names, got %v", got)
	}
}

func TestTrigramJaccardPartial(t *testing.T) {
	got := TrigramJaccard("punch drunk love", "punch drunk")
	if got <= 0 || got >= 1 {
		t.Fatalf("expected partial similarity in (0,1), got %v", got)
	}
}

func TestTrigramJaccardEmpty(t *testing.T) {
	if got := TrigramJaccard("", "punch"); got != 0 {
		t.Fatalf("expected 0 for empty input, got %v", got)
	}
}

func TestSignificantWords(t *testing.T) {
	words := SignificantWords("The Punch Drunk Mix Edit", 0)
	want := []string{"punch", "drunk"}
	if len(words) != len(want) {
		t.Fatalf("unexpected words: %v", words)
	}
	for i := range want {
		if words[i] != want[i] {
			t.Fatalf("unexpected words: %v", words)
		}
	}
}

func TestSignificantWordsLimit(t *testing.T) {
	words := SignificantWords("alpha bravo charlie delta", 2)
	if len(words) != 2 {
		t.Fatalf("expected 2 words, got %v", words)
	}
}
