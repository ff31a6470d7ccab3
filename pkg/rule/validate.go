package rule

import (
	"fmt"

	"github.com/praetorian-inc/uaparser/pkg/types"
)

// Validate checks descriptor consistency and required fields.
// Pattern syntax is checked later, when the matcher compiles the catalog.
func Validate(defs *types.Definitions) error {
	if defs == nil {
		return fmt.Errorf("%w: definitions are nil", ErrMalformedDescriptor)
	}

	for i, d := range defs.UserAgents {
		if d.Regex == "" {
			return fmt.Errorf("%w: %s parser %d has no regex", ErrMalformedDescriptor, types.KindUserAgent, i)
		}
	}
	for i, d := range defs.OS {
		if d.Regex == "" {
			return fmt.Errorf("%w: %s parser %d has no regex", ErrMalformedDescriptor, types.KindOS, i)
		}
	}
	for i, d := range defs.Devices {
		if d.Regex == "" {
			return fmt.Errorf("%w: %s parser %d has no regex", ErrMalformedDescriptor, types.KindDevice, i)
		}
		// "i" is the only flag the catalog format defines.
		if d.RegexFlag != "" && d.RegexFlag != "i" {
			return fmt.Errorf("%w: %s parser %d has unknown regex_flag %q", ErrMalformedDescriptor, types.KindDevice, i, d.RegexFlag)
		}
	}

	return nil
}
