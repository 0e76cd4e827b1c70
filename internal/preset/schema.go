package preset

// FileSchema returns the JSON schema a preset file must satisfy. Keeping the
// schema as a plain Go map lets gojsonschema load it without an embedded
// asset.
func FileSchema() map[string]any {
	return map[string]any{
		"$schema":              "http://json-schema.org/draft-07/schema#",
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"path": map[string]any{
				"type":        "string",
				"description": "regular expression applied to normalized file paths",
			},
			"invertPath": map[string]any{
				"type": "boolean",
			},
			"match": map[string]any{
				"type":        "string",
				"description": "primary content pattern tested against added and removed lines",
			},
			"match2": map[string]any{
				"type":        "string",
				"description": "secondary content pattern combined with match",
			},
			"combine": map[string]any{
				"type": "string",
				"enum": []any{"and", "or"},
			},
			"invertMatch": map[string]any{
				"type": "boolean",
			},
		},
	}
}
