package config

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// schema expresses the constraints struct tags can't: non-empty device
// pool entries, positive screen dimensions, a non-empty collaborator
// address, and a recognized log level.
const schema = `
device_pool: [...{
	name:            string & !=""
	serial:          string & !=""
	model:           string
	screen_width:    int & >0
	screen_height:   int & >0
	android_version: string
}]
collaborator: {
	address: string & !=""
	use_tls: bool
}
script_paths: [...string]
log_level: "debug" | "info" | "warn" | "error"
`

// validate checks cfg against the CUE schema above. A violation names
// the offending field in the returned error.
func validate(cfg *Config) error {
	ctx := cuecontext.New()
	schemaVal := ctx.CompileString(schema)
	if schemaVal.Err() != nil {
		return fmt.Errorf("internal config schema is invalid: %w", schemaVal.Err())
	}

	dataVal := ctx.Encode(cfg)
	if dataVal.Err() != nil {
		return fmt.Errorf("cannot encode config for validation: %w", dataVal.Err())
	}

	unified := schemaVal.Unify(dataVal)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return err
	}
	return nil
}
