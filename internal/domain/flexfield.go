package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// FieldFormat tags how a flexible field's text is to be interpreted.
// The format is decided once, when the field is written; readers never
// have to guess by re-parsing.
type FieldFormat string

const (
	// FieldFormatJSON marks a JSON-encoded ordered list of records.
	FieldFormatJSON FieldFormat = "json"

	// FieldFormatMarkup marks legacy free-text or HTML content.
	FieldFormatMarkup FieldFormat = "markup"
)

// FlexField is one of the semi-structured post fields
// (technical_specs, quick_info, event_program): either a JSON array of
// small records or raw markup, tagged with its format.
//
// The record shapes clients conventionally use are not enforced here:
//
//	technical_specs item: {label, value, icon?, category?}
//	quick_info item:      {key, value}
//	event_program item:   {time, activity, description?}
type FlexField struct {
	Format FieldFormat `json:"format"`
	Value  string      `json:"value"`
}

// NormalizeFlexField converts raw client input into a FlexField.
// Whitespace-only input normalizes to nil (absent), never to an empty
// string. Input that parses as a JSON array is stored compacted with
// format "json"; anything else is kept verbatim as markup.
func NormalizeFlexField(raw string) *FlexField {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}

	if strings.HasPrefix(trimmed, "[") && json.Valid([]byte(trimmed)) {
		var buf bytes.Buffer
		if err := json.Compact(&buf, []byte(trimmed)); err == nil {
			return &FlexField{Format: FieldFormatJSON, Value: buf.String()}
		}
	}

	return &FlexField{Format: FieldFormatMarkup, Value: trimmed}
}
