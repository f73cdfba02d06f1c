package hashspec

import "testing"

func TestParseAlgorithmAliases(t *testing.T) {
	cases := map[string]Algorithm{
		"rainbow":   Rainbow,
		"bow":       Rainbow,
		"rainstorm": Rainstorm,
		"storm":     Rainstorm,
	}
	for name, want := range cases {
		got, err := ParseAlgorithm(name)
		if err != nil {
			t.Fatalf("ParseAlgorithm(%q): %v", name, err)
		}
		if got != want {
			t.Errorf("ParseAlgorithm(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestParseAlgorithmRejectsUnknown(t *testing.T) {
	if _, err := ParseAlgorithm("sha256"); err == nil {
		t.Error("ParseAlgorithm(\"sha256\") succeeded, want error")
	}
}

func TestSpecValid(t *testing.T) {
	valid := []Spec{
		{Rainbow, 64}, {Rainbow, 128}, {Rainbow, 256},
		{Rainstorm, 64}, {Rainstorm, 128}, {Rainstorm, 256}, {Rainstorm, 512},
	}
	for _, s := range valid {
		if !s.Valid() {
			t.Errorf("Spec%+v.Valid() = false, want true", s)
		}
	}
	invalid := []Spec{{Rainbow, 512}, {Rainstorm, 1024}, {Rainbow, 100}}
	for _, s := range invalid {
		if s.Valid() {
			t.Errorf("Spec%+v.Valid() = true, want false", s)
		}
	}
}

func TestInvokeDispatch(t *testing.T) {
	out, err := Invoke(Spec{Rainstorm, 256}, 5, []byte("dispatch me"))
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if len(out) != 32 {
		t.Errorf("len(out) = %d, want 32", len(out))
	}
}

func TestInvokeRejectsInvalidSpec(t *testing.T) {
	if _, err := Invoke(Spec{Rainbow, 512}, 0, nil); err == nil {
		t.Error("Invoke with invalid spec succeeded, want error")
	}
}
