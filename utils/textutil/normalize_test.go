package textutil

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"José", "jose"},
		{"MATEMÁTICA BÁSICA", "matematica basica"},
		{"Higüey", "higuey"},
		{"San Fco de Macorís", "san fco de macoris"},
		{"100% Online", "100% online"},
		{"already plain", "already plain"},
	}

	for _, c := range cases {
		if got := Normalize(c.in); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	in := "Señora Peña Gómez"
	once := Normalize(in)
	if twice := Normalize(once); twice != once {
		t.Errorf("Normalize not idempotent: %q -> %q", once, twice)
	}
}

func TestContains(t *testing.T) {
	if !Contains("José Pérez", "jose") {
		t.Error("expected accent-insensitive match for jose in José Pérez")
	}
	if Contains("José Pérez", "maria") {
		t.Error("unexpected match for maria")
	}
	if !Contains("anything", "") {
		t.Error("empty needle should always match")
	}
}
