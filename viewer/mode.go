package viewer

import (
	"errors"
	"fmt"
	"strings"
)

//go:generate go tool stringer -type=Mode -trimprefix=Mode

// Mode selects how the view reacts to input. It is fixed at startup.
type Mode uint8

const (
	// ModeFree rotates the model following the raw cursor position.
	ModeFree Mode = iota

	// ModeOrbit leaves the model alone and lets the orbit controls
	// move the camera around it.
	ModeOrbit
)

var ErrInvalidMode = errors.New("invalid mode")

func ParseMode(value string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "free":
		return ModeFree, nil
	case "orbit":
		return ModeOrbit, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidMode, value)
	}
}

func (m Mode) MarshalText() ([]byte, error) {
	switch m {
	case ModeFree, ModeOrbit:
		return []byte(strings.ToLower(m.String())), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidMode, m)
	}
}

func (m *Mode) UnmarshalText(text []byte) error {
	mode, err := ParseMode(string(text))
	if err != nil {
		return err
	}

	*m = mode
	return nil
}
