// CUE schema validation code
package config

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/encoding/yaml"
)

// SchemaDefinition is the definition in the schema file experiments are
// checked against.
const SchemaDefinition = "#Experiment"

// ValidateWithCue validates a YAML configuration file using a CUE schema file.
func ValidateWithCue(configFile, cueFile string) error {
	yamlBytes, err := os.ReadFile(configFile)
	if err != nil {
		return fmt.Errorf("cannot read YAML config: %w", err)
	}
	schemaBytes, err := os.ReadFile(cueFile)
	if err != nil {
		return fmt.Errorf("cannot read CUE schema: %w", err)
	}
	return validateBytes(yamlBytes, schemaBytes, cueFile)
}

func validateBytes(yamlBytes, schemaBytes []byte, schemaName string) error {
	ctx := cuecontext.New()
	schemaVal := ctx.CompileBytes(schemaBytes, cue.Filename(schemaName))
	if err := schemaVal.Err(); err != nil {
		return fmt.Errorf("cannot compile CUE schema: %w", err)
	}
	def := schemaVal.LookupPath(cue.ParsePath(SchemaDefinition))
	if !def.Exists() {
		return fmt.Errorf("CUE schema %s has no %s definition", schemaName, SchemaDefinition)
	}
	if err := yaml.Validate(yamlBytes, def); err != nil {
		return fmt.Errorf("%w: schema validation failed: %v", ErrInvalidConfig, err)
	}
	return nil
}
