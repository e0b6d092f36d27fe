package alertcfg

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// GenerateSchema builds the JSON schema describing the alert
// configuration document, for editor tooling and front ends.
func GenerateSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		ExpandedStruct:            true,
		AllowAdditionalProperties: true,
	}

	schema := reflector.Reflect(&Config{})
	schema.Title = "alert-config"
	schema.Description = "Alert condition configuration"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema
}

// GenerateSchemaJSON renders the schema as indented JSON.
func GenerateSchemaJSON() (string, error) {
	schemaBytes, err := json.MarshalIndent(GenerateSchema(), "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}
