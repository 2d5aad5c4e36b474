package linker

import (
	"github.com/charlie0129/linkman/pkg/validation"
)

type Config struct {
	SourceRoot          string
	TargetRoot          string
	CreateMissingSource bool
	Overwrite           bool
}

// Validate expands both roots in place and checks them. Call it before
// passing the config to New.
func (c *Config) Validate() error {
	var err error

	c.SourceRoot, err = validation.ExpandPath(c.SourceRoot)
	if err != nil {
		return err
	}

	c.TargetRoot, err = validation.ExpandPath(c.TargetRoot)
	if err != nil {
		return err
	}

	return validation.ValidateRoots(c.SourceRoot, c.TargetRoot)
}
