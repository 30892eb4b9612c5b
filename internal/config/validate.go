package config

import (
	"fmt"

	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
)

// schema is the CUE contract a config file must satisfy before it is
// unmarshalled. It keeps obviously unusable values (negative doses, a
// non-positive suspension threshold) out of the loop entirely.
const schema = `
subject?: string
steps?:   int & >=0
seed?:    int
output?:  string
controller?: "safety" | "none" | "pid"
policy?: {
	basal_rate?:    number & >=0
	meal_bolus?:    number & >=0
	low_threshold?: number & >0
	kp?:     number
	ki?:     number
	kd?:     number
	target?: number & >0
}
scenario?: {
	samples?: [...{
		cgm:   number
		meal?: number & >=0
		time?: string
	}]
	hold_last?: bool
	jitter?:    number & >=0
}
`

// ValidateYAML checks raw YAML config bytes against the embedded CUE
// schema. name is used in error messages only.
func ValidateYAML(name string, data []byte) error {
	ctx := cuecontext.New()

	file, err := cueyaml.Extract(name, data)
	if err != nil {
		return fmt.Errorf("config: cannot parse %s: %w", name, err)
	}
	cfgVal := ctx.BuildFile(file)
	if cfgVal.Err() != nil {
		return fmt.Errorf("config: cannot build %s: %w", name, cfgVal.Err())
	}

	schemaVal := ctx.CompileString(schema)
	if schemaVal.Err() != nil {
		return fmt.Errorf("config: bad schema: %w", schemaVal.Err())
	}

	final := schemaVal.Unify(cfgVal)
	if final.Err() != nil {
		return fmt.Errorf("config: %s does not match schema: %w", name, final.Err())
	}
	if err := final.Validate(); err != nil {
		return fmt.Errorf("config: %s invalid: %w", name, err)
	}
	return nil
}
