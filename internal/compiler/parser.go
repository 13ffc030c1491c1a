package compiler

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/zojize/exusiai-bot/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a catalog document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFor picks the format from a file extension. The second result is
// false for files that are not catalog documents.
func FormatFor(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".json":
		return FormatJSON, true
	}
	return "", false
}

// Parser is responsible for converting raw bytes into a Catalog.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse decodes data into a generic document and maps it onto a Catalog.
// Decoding is weakly typed so that hand written files may quote numbers or
// use string keys for rarities. The result is not validated.
func (p *Parser) Parse(data []byte, format Format) (*domain.Catalog, error) {
	var raw any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}
	}

	var cat domain.Catalog
	if raw == nil {
		return &cat, nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cat,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return &cat, nil
}
