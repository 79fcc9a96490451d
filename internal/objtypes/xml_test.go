package objtypes

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

func TestDecode(t *testing.T) {
	input := `<?xml version="1.0" encoding="UTF-8"?>
<objecttypes>
 <objecttype name="Enemy" color="#ff0000"></objecttype>
 <objecttype name="Item" color="#00ff00"></objecttype>
</objecttypes>
`
	types, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}

	expected := Types{
		{Name: "Enemy", Color: "#ff0000"},
		{Name: "Item", Color: "#00ff00"},
	}
	if !reflect.DeepEqual(types, expected) {
		t.Errorf("Decode() = %v, want %v", types, expected)
	}
}

func TestDecodeSelfClosingTags(t *testing.T) {
	input := `<objecttypes><objecttype name="Door" color="#0000ff"/></objecttypes>`

	types, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(types) != 1 || types[0].Name != "Door" {
		t.Errorf("Decode() = %v", types)
	}
}

func TestDecodeBadXML(t *testing.T) {
	if _, err := Decode(strings.NewReader("<objecttypes><objecttype")); err == nil {
		t.Error("truncated XML accepted")
	}
}

func TestDecodeBadColorDefaultsToBlack(t *testing.T) {
	input := `<objecttypes><objecttype name="X" color="banana"/></objecttypes>`

	types, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if types[0].Color != "#000000" {
		t.Errorf("Color = %s, want #000000", types[0].Color)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	types := Types{
		{Name: "Enemy", Color: "#ff0000"},
		{Name: "Spawn <Point>", Color: "#123456"},
	}

	var buf bytes.Buffer
	if err := Encode(&buf, types); err != nil {
		t.Fatalf("Encode() error: %v", err)
	}

	if !strings.HasPrefix(buf.String(), "<?xml") {
		t.Error("output missing XML header")
	}

	decoded, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode() after Encode(): %v", err)
	}
	if !reflect.DeepEqual(decoded, types) {
		t.Errorf("round trip = %v, want %v", decoded, types)
	}
}
