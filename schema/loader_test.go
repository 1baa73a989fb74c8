package schema

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/mtstandards/mtmeta/vocab"
)

const locationDoc = `{
	"latitude": {
		"type": "float",
		"required": true,
		"style": "number",
		"units": "degrees",
		"description": "Latitude in decimal degrees",
		"options": [],
		"alias": ["lat"],
		"example": 23.134,
		"default": 0.0
	},
	"longitude": {
		"type": "float",
		"required": true,
		"style": "number",
		"units": "degrees",
		"description": "Longitude in decimal degrees",
		"options": [],
		"alias": ["lon", "long"],
		"example": 14.23,
		"default": 0.0
	},
	"datum": {
		"type": "string",
		"required": false,
		"style": "controlled vocabulary",
		"units": "",
		"description": "Datum of the coordinates",
		"options": "datum",
		"alias": [],
		"example": "WGS84",
		"default": "wgs84"
	}
}`

func testCatalog(t *testing.T) *vocab.Catalog {
	t.Helper()
	cat := vocab.NewCatalog()
	if err := cat.Register("datum", []string{"WGS84", "NAD83"}); err != nil {
		t.Fatalf("failed to register vocabulary: %v", err)
	}
	return cat
}

func TestLoadPreservesDeclarationOrder(t *testing.T) {
	s, err := Load("location", []byte(locationDoc), testCatalog(t))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := []string{"latitude", "longitude", "datum"}
	if !reflect.DeepEqual(s.FieldNames(), want) {
		t.Errorf("field order %v, want %v", s.FieldNames(), want)
	}
}

func TestLoadDescriptors(t *testing.T) {
	s, err := Load("location", []byte(locationDoc), testCatalog(t))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	lat, _ := s.Field("latitude")
	if lat.Type != (ValueType{Kind: KindFloat}) {
		t.Errorf("latitude type = %v", lat.Type)
	}
	if !lat.Required {
		t.Error("latitude should be required")
	}
	if lat.Units != "degrees" {
		t.Errorf("latitude units = %q", lat.Units)
	}
	if !reflect.DeepEqual(lat.Aliases, []string{"lat"}) {
		t.Errorf("latitude aliases = %v", lat.Aliases)
	}
	if lat.Default != 0.0 {
		t.Errorf("latitude default = %v (%T)", lat.Default, lat.Default)
	}

	lon, _ := s.Field("longitude")
	if !reflect.DeepEqual(lon.Aliases, []string{"lon", "long"}) {
		t.Errorf("longitude aliases = %v", lon.Aliases)
	}
}

func TestLoadResolvesVocabularyReference(t *testing.T) {
	s, err := Load("location", []byte(locationDoc), testCatalog(t))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	datum, _ := s.Field("datum")
	if !reflect.DeepEqual(datum.Vocabulary, []string{"WGS84", "NAD83"}) {
		t.Errorf("datum vocabulary = %v", datum.Vocabulary)
	}
	if datum.VocabularyRef != "datum" {
		t.Errorf("datum vocabulary ref = %q", datum.VocabularyRef)
	}
	// Defaults are canonicalized to the vocabulary's declared case.
	if datum.Default != "WGS84" {
		t.Errorf("datum default = %v", datum.Default)
	}
}

func TestLoadUnknownVocabulary(t *testing.T) {
	doc := `{"datum": {"type": "string", "options": "no_such_vocab"}}`
	_, err := Load("location", []byte(doc), testCatalog(t))
	if err == nil {
		t.Fatal("expected unknown vocabulary reference to fail")
	}
	var unknownErr *UnknownVocabularyError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("expected *UnknownVocabularyError, got %T: %v", err, err)
	}
	if unknownErr.Vocabulary != "no_such_vocab" {
		t.Errorf("error names vocabulary %q", unknownErr.Vocabulary)
	}
}

func TestLoadInlineOptions(t *testing.T) {
	doc := `{"type": {"type": "string", "options": ["electric", "magnetic"]}}`
	s, err := Load("channel", []byte(doc), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	d, _ := s.Field("type")
	if !reflect.DeepEqual(d.Vocabulary, []string{"electric", "magnetic"}) {
		t.Errorf("vocabulary = %v", d.Vocabulary)
	}
	if d.VocabularyRef != "" {
		t.Errorf("inline options should leave ref empty, got %q", d.VocabularyRef)
	}
}

func TestLoadSingleStringAlias(t *testing.T) {
	doc := `{"id": {"type": "string", "alias": "station_id"}}`
	s, err := Load("station", []byte(doc), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	d, _ := s.Field("id")
	if !reflect.DeepEqual(d.Aliases, []string{"station_id"}) {
		t.Errorf("aliases = %v", d.Aliases)
	}
}

func TestLoadRejectsMissingType(t *testing.T) {
	doc := `{"id": {"required": true}}`
	_, err := Load("station", []byte(doc), nil)
	var specErr *SpecError
	if !errors.As(err, &specErr) {
		t.Fatalf("expected *SpecError, got %T: %v", err, err)
	}
	if specErr.Field != "id" {
		t.Errorf("error names field %q", specErr.Field)
	}
}

func TestLoadRejectsUnknownType(t *testing.T) {
	doc := `{"id": {"type": "decimal"}}`
	if _, err := Load("station", []byte(doc), nil); err == nil {
		t.Error("expected unknown type to fail")
	}
}

func TestLoadRejectsDuplicateFields(t *testing.T) {
	doc := `{"id": {"type": "string"}, "id": {"type": "string"}}`
	_, err := Load("station", []byte(doc), nil)
	var specErr *SpecError
	if !errors.As(err, &specErr) {
		t.Fatalf("expected *SpecError, got %T: %v", err, err)
	}
}

func TestLoadRejectsDefaultViolatingType(t *testing.T) {
	doc := `{"count": {"type": "integer", "default": "many"}}`
	if _, err := Load("station", []byte(doc), nil); err == nil {
		t.Error("expected default violating the declared type to fail")
	}
}

func TestLoadRejectsDefaultOutsideVocabulary(t *testing.T) {
	doc := `{"type": {"type": "string", "options": ["electric", "magnetic"], "default": "thermal"}}`
	if _, err := Load("channel", []byte(doc), nil); err == nil {
		t.Error("expected default outside the vocabulary to fail")
	}
}

func TestLoadIntegerDefaultNarrows(t *testing.T) {
	doc := `{"channel_number": {"type": "integer", "default": 0}}`
	s, err := Load("channel", []byte(doc), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	d, _ := s.Field("channel_number")
	if v, ok := d.Default.(int64); !ok || v != 0 {
		t.Errorf("default = %v (%T), want int64(0)", d.Default, d.Default)
	}
}

func TestLoadListDefault(t *testing.T) {
	doc := `{"filter_names": {"type": "list<string>", "default": []}}`
	s, err := Load("channel", []byte(doc), nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	d, _ := s.Field("filter_names")
	if v, ok := d.Default.([]string); !ok || len(v) != 0 {
		t.Errorf("default = %v (%T), want empty []string", d.Default, d.Default)
	}
}

func TestLoadRejectsNonObjectDocument(t *testing.T) {
	if _, err := Load("station", []byte(`["id"]`), nil); err == nil {
		t.Error("expected non-object document to fail")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "auxiliary_sensor.json")
	if err := os.WriteFile(path, []byte(`{"id": {"type": "string"}}`), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	s, err := LoadFile(path, nil)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if s.Name != "auxiliary_sensor" {
		t.Errorf("schema name = %q, want base file name", s.Name)
	}
}
