package model

import "testing"

func TestModalityValid(t *testing.T) {
	for _, m := range []Modality{ModalityNone, ModalityVirtual, ModalitySemipresencial} {
		if !m.Valid() {
			t.Errorf("Modality(%q) should be valid", m)
		}
	}
	for _, m := range []Modality{"online", "presencial", "VIRTUAL"} {
		if m.Valid() {
			t.Errorf("Modality(%q) should be invalid", m)
		}
	}
}

func TestModalityToggle(t *testing.T) {
	tests := []struct {
		pick, cur, want Modality
	}{
		{ModalityVirtual, ModalityNone, ModalityVirtual},
		{ModalityVirtual, ModalityVirtual, ModalityNone},
		{ModalitySemipresencial, ModalityVirtual, ModalitySemipresencial},
		{ModalitySemipresencial, ModalitySemipresencial, ModalityNone},
	}
	for _, tt := range tests {
		if got := tt.pick.Toggle(tt.cur); got != tt.want {
			t.Errorf("Toggle(%q on %q) = %q, want %q", tt.pick, tt.cur, got, tt.want)
		}
	}
}

func TestAllCampusesFixedList(t *testing.T) {
	if len(AllCampuses) != 17 {
		t.Fatalf("campus list has %d entries, want 17", len(AllCampuses))
	}
	if AllCampuses[0] != "Santo Domingo" || AllCampuses[16] != "Dajabón" {
		t.Errorf("campus list order changed: first %q, last %q", AllCampuses[0], AllCampuses[16])
	}
}
