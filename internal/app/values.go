package app

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// ParseValue decodes a JSON literal (e.g. `2`, `true`, `[1, 2, 3]`) into a
// cty value of its implied type.
func ParseValue(s string) (cty.Value, error) {
	raw := []byte(s)
	ty, err := ctyjson.ImpliedType(raw)
	if err != nil {
		return cty.NilVal, fmt.Errorf("invalid value '%s': %w", s, err)
	}
	v, err := ctyjson.Unmarshal(raw, ty)
	if err != nil {
		return cty.NilVal, fmt.Errorf("invalid value '%s': %w", s, err)
	}
	return v, nil
}

// FormatValue renders v as JSON.
func FormatValue(v cty.Value) (string, error) {
	if !v.IsWhollyKnown() {
		return "", fmt.Errorf("value of type %s is not fully known", v.Type().FriendlyName())
	}
	b, err := ctyjson.Marshal(v, v.Type())
	if err != nil {
		return "", err
	}
	return string(b), nil
}
