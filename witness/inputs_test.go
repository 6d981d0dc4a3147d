package witness

import (
	"math/big"
	"testing"
)

func TestParseInputs(t *testing.T) {
	data := []byte(`{
		"a": 3,
		"b": "5",
		"c": "0x10",
		"arr": [1, 2, 3],
		"nested": [[1, 2], [3, 4]],
		"big": "21888242871839275222246405745257275088548364400416034343698204186575808495616",
		"flag": true
	}`)

	a, err := ParseInputs(data)
	if err != nil {
		t.Fatal(err)
	}

	// Names come out sorted.
	wantOrder := []string{"a", "arr", "b", "big", "c", "flag", "nested"}
	if len(a) != len(wantOrder) {
		t.Fatalf("inputs = %d, want %d", len(a), len(wantOrder))
	}
	byName := map[string][]*big.Int{}
	for i, in := range a {
		if in.Name != wantOrder[i] {
			t.Errorf("input[%d] = %q, want %q", i, in.Name, wantOrder[i])
		}
		byName[in.Name] = in.Values
	}

	checks := map[string][]string{
		"a":      {"3"},
		"b":      {"5"},
		"c":      {"16"},
		"arr":    {"1", "2", "3"},
		"nested": {"1", "2", "3", "4"},
		"big":    {"21888242871839275222246405745257275088548364400416034343698204186575808495616"},
		"flag":   {"1"},
	}
	for name, want := range checks {
		got := byName[name]
		if len(got) != len(want) {
			t.Errorf("%s: %d values, want %d", name, len(got), len(want))
			continue
		}
		for i := range want {
			if got[i].String() != want[i] {
				t.Errorf("%s[%d] = %s, want %s", name, i, got[i], want[i])
			}
		}
	}
}

func TestParseInputsErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not an object", `[1,2,3]`},
		{"float value", `{"a": 1.5}`},
		{"bad string", `{"a": "xyz"}`},
		{"null value", `{"a": null}`},
		{"object value", `{"a": {"b": 1}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseInputs([]byte(tt.data)); err == nil {
				t.Errorf("expected error for %s", tt.data)
			}
		})
	}
}

func TestAssignmentFromMapDeterministic(t *testing.T) {
	m := map[string][]*big.Int{
		"z": {big.NewInt(1)},
		"a": {big.NewInt(2)},
		"m": {big.NewInt(3)},
	}
	for i := 0; i < 10; i++ {
		a := AssignmentFromMap(m)
		if a[0].Name != "a" || a[1].Name != "m" || a[2].Name != "z" {
			t.Fatalf("unexpected order: %v, %v, %v", a[0].Name, a[1].Name, a[2].Name)
		}
	}
}
