package domain

import "testing"

func TestNormalizeFlexField(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		want       *FlexField
		wantFormat FieldFormat
		wantValue  string
	}{
		{
			name: "empty string is absent",
			raw:  "",
			want: nil,
		},
		{
			name: "whitespace only is absent",
			raw:  "   \n\t  ",
			want: nil,
		},
		{
			name:       "json array",
			raw:        `[{"key":"Venue","value":"Main Hall"}]`,
			wantFormat: FieldFormatJSON,
			wantValue:  `[{"key":"Venue","value":"Main Hall"}]`,
		},
		{
			name:       "json array is compacted",
			raw:        "[\n  {\"key\": \"Venue\", \"value\": \"Main Hall\"}\n]",
			wantFormat: FieldFormatJSON,
			wantValue:  `[{"key":"Venue","value":"Main Hall"}]`,
		},
		{
			name:       "empty json array",
			raw:        "[]",
			wantFormat: FieldFormatJSON,
			wantValue:  "[]",
		},
		{
			name:       "invalid json starting with bracket falls back to markup",
			raw:        "[not json",
			wantFormat: FieldFormatMarkup,
			wantValue:  "[not json",
		},
		{
			name:       "json object is markup, only arrays are structured",
			raw:        `{"key":"value"}`,
			wantFormat: FieldFormatMarkup,
			wantValue:  `{"key":"value"}`,
		},
		{
			name:       "html markup",
			raw:        "<p>Doors open at 7</p>",
			wantFormat: FieldFormatMarkup,
			wantValue:  "<p>Doors open at 7</p>",
		},
		{
			name:       "plain text trimmed",
			raw:        "  free entry  ",
			wantFormat: FieldFormatMarkup,
			wantValue:  "free entry",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeFlexField(tt.raw)

			if tt.want == nil && tt.wantValue == "" && tt.wantFormat == "" {
				if got != nil {
					t.Errorf("NormalizeFlexField(%q) = %+v, want nil", tt.raw, got)
				}
				return
			}

			if got == nil {
				t.Fatalf("NormalizeFlexField(%q) = nil, want a field", tt.raw)
			}
			if got.Format != tt.wantFormat {
				t.Errorf("format = %q, want %q", got.Format, tt.wantFormat)
			}
			if got.Value != tt.wantValue {
				t.Errorf("value = %q, want %q", got.Value, tt.wantValue)
			}
		})
	}
}
