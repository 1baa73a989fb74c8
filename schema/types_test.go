package schema

import (
	"errors"
	"testing"
)

func TestParseValueType(t *testing.T) {
	cases := []struct {
		input string
		want  ValueType
	}{
		{"string", ValueType{Kind: KindString}},
		{"integer", ValueType{Kind: KindInteger}},
		{"int", ValueType{Kind: KindInteger}},
		{"float", ValueType{Kind: KindFloat}},
		{"boolean", ValueType{Kind: KindBoolean}},
		{"bool", ValueType{Kind: KindBoolean}},
		{"Float", ValueType{Kind: KindFloat}},
		{"list<string>", ValueType{Kind: KindList, Elem: KindString}},
		{"list<float>", ValueType{Kind: KindList, Elem: KindFloat}},
		{"list< integer >", ValueType{Kind: KindList, Elem: KindInteger}},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := ParseValueType(tc.input)
			if err != nil {
				t.Fatalf("ParseValueType(%q) failed: %v", tc.input, err)
			}
			if got != tc.want {
				t.Errorf("ParseValueType(%q) = %v, want %v", tc.input, got, tc.want)
			}
		})
	}

	for _, input := range []string{"", "decimal", "list<entity>", "list<>", "list"} {
		t.Run("invalid "+input, func(t *testing.T) {
			if _, err := ParseValueType(input); err == nil {
				t.Errorf("ParseValueType(%q) should fail", input)
			}
		})
	}
}

func TestValueTypeString(t *testing.T) {
	vt := ValueType{Kind: KindList, Elem: KindFloat}
	if vt.String() != "list<float>" {
		t.Errorf("got %q", vt.String())
	}
	if (ValueType{Kind: KindInteger}).String() != "integer" {
		t.Errorf("got %q", ValueType{Kind: KindInteger}.String())
	}
}

func TestAddFieldRejectsDuplicates(t *testing.T) {
	s := NewEntitySchema("station")
	if err := s.AddField(&FieldDescriptor{Name: "id", Type: ValueType{Kind: KindString}}); err != nil {
		t.Fatalf("AddField failed: %v", err)
	}
	err := s.AddField(&FieldDescriptor{Name: "id", Type: ValueType{Kind: KindString}})
	if err == nil {
		t.Fatal("expected duplicate field name to fail")
	}
	var specErr *SpecError
	if !errors.As(err, &specErr) {
		t.Fatalf("expected *SpecError, got %T", err)
	}
	if specErr.Field != "id" {
		t.Errorf("unexpected field in error: %q", specErr.Field)
	}
}

func TestAddFieldRejectsAliasCollisions(t *testing.T) {
	s := NewEntitySchema("location")
	if err := s.AddField(&FieldDescriptor{
		Name:    "latitude",
		Type:    ValueType{Kind: KindFloat},
		Aliases: []string{"lat"},
	}); err != nil {
		t.Fatalf("AddField failed: %v", err)
	}

	t.Run("alias claimed by another field", func(t *testing.T) {
		err := s.AddField(&FieldDescriptor{
			Name:    "ground_latitude",
			Type:    ValueType{Kind: KindFloat},
			Aliases: []string{"LAT"},
		})
		if err == nil {
			t.Error("expected case-insensitive alias collision to fail")
		}
	})

	t.Run("name collides with alias", func(t *testing.T) {
		err := s.AddField(&FieldDescriptor{Name: "lat", Type: ValueType{Kind: KindFloat}})
		if err == nil {
			t.Error("expected field name colliding with an alias to fail")
		}
	})

	t.Run("alias collides with name", func(t *testing.T) {
		err := s.AddField(&FieldDescriptor{
			Name:    "other",
			Type:    ValueType{Kind: KindFloat},
			Aliases: []string{"latitude"},
		})
		if err == nil {
			t.Error("expected alias colliding with a field name to fail")
		}
	})
}

func TestCanonical(t *testing.T) {
	s := NewEntitySchema("location")
	if err := s.AddField(&FieldDescriptor{
		Name:    "longitude",
		Type:    ValueType{Kind: KindFloat},
		Aliases: []string{"lon", "long"},
	}); err != nil {
		t.Fatalf("AddField failed: %v", err)
	}

	for _, key := range []string{"longitude", "lon", "long", "LON", "Long"} {
		name, ok := s.Canonical(key)
		if !ok || name != "longitude" {
			t.Errorf("Canonical(%q) = %q, %v", key, name, ok)
		}
	}
	if _, ok := s.Canonical("azimuth"); ok {
		t.Error("Canonical should fail for unknown keys")
	}
}

func TestFieldOrderPreserved(t *testing.T) {
	s := NewEntitySchema("ordered")
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := s.AddField(&FieldDescriptor{Name: name, Type: ValueType{Kind: KindString}}); err != nil {
			t.Fatalf("AddField failed: %v", err)
		}
	}
	names := s.FieldNames()
	want := []string{"zeta", "alpha", "mid"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("declaration order not preserved: %v", names)
		}
	}
}

func TestNestedEntityFields(t *testing.T) {
	location := NewEntitySchema("location")
	if err := location.AddField(&FieldDescriptor{Name: "latitude", Type: ValueType{Kind: KindFloat}}); err != nil {
		t.Fatalf("AddField failed: %v", err)
	}

	station := NewEntitySchema("station")
	if err := station.AddEntityField("location", location, true); err != nil {
		t.Fatalf("AddEntityField failed: %v", err)
	}
	if err := station.AddEntityListField("runs", NewEntitySchema("run"), false); err != nil {
		t.Fatalf("AddEntityListField failed: %v", err)
	}

	d, ok := station.Field("location")
	if !ok || !d.Type.IsEntity() || d.Schema != location {
		t.Error("nested entity field not wired correctly")
	}
	d, _ = station.Field("runs")
	if d.Type.Kind != KindEntityList {
		t.Errorf("runs should be an entity list, got %v", d.Type)
	}
}
