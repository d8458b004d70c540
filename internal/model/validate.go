package model

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed profile.schema.json
var profileSchema string

// ErrInvalidProfile wraps every shape violation reported by ValidateJSON.
var ErrInvalidProfile = errors.New("invalid profile")

var schemaLoader = gojsonschema.NewStringLoader(profileSchema)

// ValidateJSON checks the shape of a profile payload against
// profile.schema.json. No field is required; only types and enums are enforced.
func ValidateJSON(b []byte) error {
	res, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(b))
	if err != nil {
		return fmt.Errorf("%w: not valid JSON: %v", ErrInvalidProfile, err)
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidProfile, strings.Join(msgs, "; "))
}
