package config

import (
	gotoml "github.com/pelletier/go-toml/v2"

	"github.com/wgen/isoenv/pkg/errors"
)

// Generate renders the given rules as a TOML document in the same shape
// the loader accepts, suitable for seeding a user config file.
func Generate(rules Rules) (string, error) {
	doc := map[string]Rules{"layout": rules}
	out, err := gotoml.Marshal(doc)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to marshal rules")
	}
	return string(out), nil
}
