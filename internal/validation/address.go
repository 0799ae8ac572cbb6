package validation

import (
	"errors"
)

// ValidateAddress validates a participant or record address. Addresses are
// opaque identifiers (wallet keys, derived record addresses); only shape is
// checked here, ownership is checked by the services.
func ValidateAddress(address string) error {
	if address == "" {
		return errors.New("address is required")
	}

	if len(address) < 8 || len(address) > 128 {
		return errors.New("address must be between 8 and 128 characters")
	}

	for _, c := range address {
		isAlnum := (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		if !isAlnum {
			return errors.New("address must be alphanumeric")
		}
	}

	return nil
}
