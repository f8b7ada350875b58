package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Color is a 0xRRGGBB value. In yaml it is written as a number or as
// a "#rrggbb" string.
type Color uint32

func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	var number uint32
	if err := value.Decode(&number); err == nil {
		*c = Color(number)
		return nil
	}

	var text string
	if err := value.Decode(&text); err != nil {
		return err
	}

	text = strings.TrimPrefix(strings.TrimPrefix(text, "#"), "0x")

	parsed, err := strconv.ParseUint(text, 16, 32)
	if err != nil || parsed > 0xffffff {
		return fmt.Errorf("invalid color %q", value.Value)
	}

	*c = Color(parsed)
	return nil
}

func (c Color) MarshalYAML() (any, error) {
	return fmt.Sprintf("#%06x", uint32(c)), nil
}
