package objtypes

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
)

// xmlDocument mirrors the on-disk object types format:
//
//	<objecttypes>
//	  <objecttype name="Enemy" color="#ff0000"/>
//	</objecttypes>
type xmlDocument struct {
	XMLName xml.Name  `xml:"objecttypes"`
	Types   []xmlType `xml:"objecttype"`
}

type xmlType struct {
	Name  string `xml:"name,attr"`
	Color string `xml:"color,attr"`
}

// Decode reads object types from XML.
func Decode(r io.Reader) (Types, error) {
	var doc xmlDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("objtypes: decode: %w", err)
	}

	types := make(Types, 0, len(doc.Types))
	for _, entry := range doc.Types {
		color, err := normalizeColor(entry.Color)
		if err != nil {
			color = "#000000"
		}
		types = append(types, Type{Name: entry.Name, Color: color})
	}
	return types, nil
}

// Encode writes object types as XML.
func Encode(w io.Writer, types Types) error {
	doc := xmlDocument{Types: make([]xmlType, len(types))}
	for i, t := range types {
		doc.Types[i] = xmlType{Name: t.Name, Color: t.Color}
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", " ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("objtypes: encode: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// ReadFile loads object types from a file.
func ReadFile(path string) (Types, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}
