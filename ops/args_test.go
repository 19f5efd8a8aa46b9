package ops

import (
	"encoding/json"
	"testing"
)

func TestArgsFloatDistinguishesMissingFromZero(t *testing.T) {
	args := Args{"start": 0.0}

	v, ok := args.Float("start")
	if !ok {
		t.Fatal("present zero reported as missing")
	}
	if v != 0 {
		t.Errorf("expected 0, got %g", v)
	}

	if _, ok := args.Float("end"); ok {
		t.Error("missing key reported as present")
	}
}

func TestArgsFloatCoercions(t *testing.T) {
	args := Args{
		"a": 1.5,
		"b": 2,
		"c": int64(3),
		"d": json.Number("4.5"),
		"e": "5.5",
		"f": "not a number",
	}

	tests := []struct {
		key  string
		want float64
		ok   bool
	}{
		{"a", 1.5, true},
		{"b", 2, true},
		{"c", 3, true},
		{"d", 4.5, true},
		{"e", 5.5, true},
		{"f", 0, false},
	}
	for _, tt := range tests {
		got, ok := args.Float(tt.key)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Float(%s) = %g, %v; want %g, %v", tt.key, got, ok, tt.want, tt.ok)
		}
	}
}

func TestArgsDecodedFromJSON(t *testing.T) {
	var args Args
	if err := json.Unmarshal([]byte(`{"width":1280,"height":720,"label":"x"}`), &args); err != nil {
		t.Fatal(err)
	}
	if w, ok := args.Int("width"); !ok || w != 1280 {
		t.Errorf("width = %d, %v", w, ok)
	}
	if s, ok := args.String("label"); !ok || s != "x" {
		t.Errorf("label = %q, %v", s, ok)
	}
}

func TestArgsClone(t *testing.T) {
	orig := Args{"k": 1.0}
	clone := orig.Clone()
	clone["k"] = 2.0
	clone["new"] = true

	if v, _ := orig.Float("k"); v != 1.0 {
		t.Error("clone mutation leaked into original")
	}
	if _, present := orig["new"]; present {
		t.Error("clone addition leaked into original")
	}
}
