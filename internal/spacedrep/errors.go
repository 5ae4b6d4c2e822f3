package spacedrep

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQuality is returned for ratings outside [MinQuality, MaxQuality].
	ErrInvalidQuality = errors.New("invalid quality rating")

	// ErrInvalidState is returned when stored scheduling fields are unusable
	// (non-finite ease factor, negative interval or repetitions).
	ErrInvalidState = errors.New("invalid review state")
)

// ValidateQuality returns ErrInvalidQuality (wrapped) if quality is out of range.
func ValidateQuality(quality int) error {
	if quality < MinQuality || quality > MaxQuality {
		return fmt.Errorf("%w: %d is outside [%d, %d]", ErrInvalidQuality, quality, MinQuality, MaxQuality)
	}
	return nil
}
