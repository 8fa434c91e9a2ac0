// internal/api/validation.go
package api

import (
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"roi-navigator/internal/common/errors"
)

const projectSchemaBase = `{
	"type": "object",
	"properties": {
		"projectName": {"type": "string", "minLength": 1, "maxLength": 200},
		"ownerUid": {"type": "string"},
		"inputs": {
			"type": "object",
			"properties": {
				"volume": {"type": "number", "minimum": 0},
				"aht": {"type": "number", "minimum": 0},
				"fteCost": {"type": "number", "minimum": 0},
				"errorRate": {"type": "number", "minimum": 0, "maximum": 100}
			},
			"required": ["volume", "aht", "fteCost"]
		},
		"complexity": {
			"type": "object",
			"properties": {
				"numApplications": {"type": "integer", "minimum": 0},
				"dataType": {"type": "string"},
				"environment": {"type": "string"},
				"numSteps": {"type": "integer", "minimum": 0}
			}
		},
		"strategic": {
			"type": "object",
			"properties": {
				"needs24h": {"type": "boolean"},
				"errorCost": {"type": "number", "minimum": 0},
				"turnoverRate": {"type": "number", "minimum": 0, "maximum": 100},
				"cognitiveLevel": {"type": "string", "enum": ["", "rule", "interpretation", "creation"]},
				"inputVariability": {"type": "string", "enum": ["", "never", "occasionally", "always"]}
			}
		},
		"maintenance": {
			"type": "object",
			"properties": {
				"fteMonthlyCost": {"type": "number", "minimum": 0},
				"capacityDivisor": {"type": "number", "minimum": 0}
			}
		}
	},
	"required": [%s]
}`

var (
	createProjectSchema  = mustCompileSchema(`"projectName", "inputs", "complexity"`)
	previewProjectSchema = mustCompileSchema(`"inputs", "complexity"`)
)

func mustCompileSchema(required string) *gojsonschema.Schema {
	raw := strings.Replace(projectSchemaBase, "%s", required, 1)
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
	if err != nil {
		panic("invalid project schema: " + err.Error())
	}
	return schema
}

// validateProjectBody checks the raw request body against the schema
// and folds all violations into one validation error.
func validateProjectBody(schema *gojsonschema.Schema, body []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return errors.NewValidationError("request body is not valid JSON")
	}

	if result.Valid() {
		return nil
	}

	violations := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, desc.String())
	}

	return errors.NewValidationError(strings.Join(violations, "; "))
}
