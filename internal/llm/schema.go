package llm

import "strings"

// SchemaName names the structured response for providers that require one.
const SchemaName = "attendance_extraction"

var recordFields = []struct {
	name        string
	kind        string
	description string
}{
	{"date", "string", "Date of attendance (YYYY-MM-DD)"},
	{"labourName", "string", "Full name of the labour"},
	{"siteName", "string", "Name of the construction/work site"},
	{"baseSalary", "number", "Daily base salary amount for a full day"},
	{"day", "number", "Attendance units: 1.0 for full day, 0.5 for half day (4 hours)"},
	{"otHours", "number", "Number of Overtime hours worked beyond the day's base"},
}

// responseSchema describes the extraction response. upper selects the
// OpenAPI-style upper-case type names Gemini expects; strict adds the
// additionalProperties constraints OpenAI's strict mode requires.
func responseSchema(upper, strict bool) map[string]any {
	typ := func(t string) string {
		if upper {
			return strings.ToUpper(t)
		}
		return t
	}

	properties := make(map[string]any, len(recordFields))
	required := make([]string, 0, len(recordFields))
	for _, f := range recordFields {
		properties[f.name] = map[string]any{
			"type":        typ(f.kind),
			"description": f.description,
		}
		required = append(required, f.name)
	}

	record := map[string]any{
		"type":       typ("object"),
		"properties": properties,
		"required":   required,
	}

	schema := map[string]any{
		"type": typ("object"),
		"properties": map[string]any{
			"records": map[string]any{
				"type":  typ("array"),
				"items": record,
			},
			"uncertainties": map[string]any{
				"type":        typ("array"),
				"items":       map[string]any{"type": typ("string")},
				"description": "Any questions or ambiguities found in the data that need human clarification",
			},
		},
		"required": []string{"records", "uncertainties"},
	}

	if strict {
		record["additionalProperties"] = false
		schema["additionalProperties"] = false
	}

	return schema
}
