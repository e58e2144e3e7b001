package schema

import (
	"testing"
	"testing/fstest"
)

func TestLoadYAML(t *testing.T) {
	src := []byte(`
sections: [PROPS]
keywords:
  - name: SWOF
    size: {keyword: TABDIMS, item: NTSFUN, shift: 1}
    items:
      - {name: DATA, type: DOUBLE, size: ALL, dimension: ["1", "1", "1", Pressure]}
  - name: TITLE
    sections: [RUNSPEC]
    size: 1
    items:
      - {name: TEXT, type: RAW_STRING}
  - name: EQUALS
    items:
      - {name: FIELD, type: STRING}
      - {name: VALUE, type: DOUBLE}
      - {name: I1, type: INT, default: 1}
  - name: VFPPROD
    size: unknown
    records:
      - - {name: TABLE, type: INT}
      - - {name: VALUES, type: DOUBLE, size: ALL}
  - name: GRID
`)
	ks, err := LoadYAML(src)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(ks) != 5 {
		t.Fatalf("expected 5 keywords, got %d", len(ks))
	}

	swof := ks[0]
	if swof.Size != OtherKeyword || swof.SizeKeyword != "TABDIMS" || swof.SizeItem != "NTSFUN" || swof.SizeShift != 1 {
		t.Errorf("unexpected SWOF size definition: %+v", swof)
	}
	data := swof.Record(0).Items[0]
	if data.Cardinality != All || len(data.Dimensions) != 4 || data.Dimensions[3] != "Pressure" {
		t.Errorf("unexpected SWOF item: %+v", data)
	}
	if swof.Sections[0] != "PROPS" {
		t.Errorf("file sections should apply, got %v", swof.Sections)
	}

	title := ks[1]
	if !title.IsRawString() || title.Size != Fixed || title.FixedSize != 1 || title.Sections[0] != "RUNSPEC" {
		t.Errorf("unexpected TITLE: %+v", title)
	}

	eq := ks[2]
	if eq.Size != SlashTerminated {
		t.Errorf("keywords with items default to slash terminated, got %s", eq.Size)
	}
	i1, _ := eq.Record(0).Item("I1")
	if !i1.HasDefault || i1.IntDefault != 1 {
		t.Errorf("unexpected I1 default: %+v", i1)
	}

	if ks[3].Size != Unknown || len(ks[3].Records) != 2 {
		t.Errorf("unexpected VFPPROD: %+v", ks[3])
	}
	if ks[4].Size != Fixed || ks[4].FixedSize != 0 {
		t.Errorf("keywords without records have no data, got %+v", ks[4])
	}
}

func TestLoadYAMLErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"bad type", "keywords:\n  - name: X\n    items:\n      - {name: A, type: FLOAT}\n"},
		{"bad default", "keywords:\n  - name: X\n    items:\n      - {name: A, type: INT, default: abc}\n"},
		{"dimension on int", "keywords:\n  - name: X\n    items:\n      - {name: A, type: INT, dimension: Length}\n"},
		{"bad size", "keywords:\n  - name: X\n    size: lots\n"},
		{"items and records", "keywords:\n  - name: X\n    items:\n      - {name: A, type: INT}\n    records:\n      - - {name: B, type: INT}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadYAML([]byte(tt.src)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"defs/b.yaml": {Data: []byte("keywords:\n  - name: BBB\n")},
		"defs/a.yaml": {Data: []byte("keywords:\n  - name: AAA\n")},
		"defs/readme": {Data: []byte("not yaml")},
	}
	ks, err := LoadFS(fsys, "defs")
	if err != nil {
		t.Fatalf("load fs: %v", err)
	}
	if len(ks) != 2 || ks[0].Name != "AAA" || ks[1].Name != "BBB" {
		t.Errorf("expected AAA, BBB in name order, got %v", ks)
	}
}

func TestBuiltin(t *testing.T) {
	reg, err := Builtin()
	if err != nil {
		t.Fatalf("builtin: %v", err)
	}
	for _, name := range []string{
		"RUNSPEC", "SCHEDULE", "INCLUDE", "PATHS", "START", "DIMENS", "TABDIMS",
		"SWOF", "WELSPECS", "COMPDAT", "WELOPEN", "DATES", "TSTEP", "TUNING",
		"WELSEGS", "COMPSEGS", "VFPPROD", "FOPR", "WBHP", "GOPR",
	} {
		if !reg.IsKeyword(name) {
			t.Errorf("expected built-in keyword %s", name)
		}
	}

	tuning, _ := reg.Lookup("TUNING")
	if tuning.Size != Fixed || tuning.FixedSize != 3 || len(tuning.Records) != 3 {
		t.Errorf("unexpected TUNING schema: %+v", tuning)
	}
	tsmin, _ := tuning.Record(0).Item("TSMINZ")
	if !tsmin.HasDefault || tsmin.DblDefault != 0.1 {
		t.Errorf("unexpected TSMINZ default: %+v", tsmin)
	}
	minpv, _ := reg.Lookup("MINPV")
	if v, _ := minpv.Record(0).Item("VALUE"); !v.HasDefault || v.DblDefault != 1e-6 {
		t.Errorf("unexpected MINPV default: %+v", v)
	}
	welspecs, _ := reg.Lookup("WELSPECS")
	if cf, _ := welspecs.Record(0).Item("CROSSFLOW"); !cf.HasDefault || cf.StrDefault != "YES" {
		t.Errorf("unexpected CROSSFLOW default: %+v", cf)
	}
	swof, _ := reg.Lookup("SWOF")
	if swof.Size != OtherKeyword || swof.SizeKeyword != "TABDIMS" {
		t.Errorf("unexpected SWOF schema: %+v", swof)
	}
	compdat, _ := reg.Lookup("COMPDAT")
	if !compdat.ValidIn("SCHEDULE") || compdat.ValidIn("GRID") {
		t.Error("COMPDAT should be a SCHEDULE keyword")
	}
	include, _ := reg.Lookup("INCLUDE")
	if !include.ValidIn("GRID") {
		t.Error("INCLUDE should be valid in every section")
	}
}
