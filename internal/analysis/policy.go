package analysis

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPolicyToken is the reserved --policy value that requests the
// built-in default policy instead of reading a file.
const DefaultPolicyToken = "default"

// PropertyBag is the opaque key/value policy bag some rules require to be
// enabled. Keys are flat "ruleID.option" style strings.
type PropertyBag map[string]any

func (p PropertyBag) GetString(key string) (string, bool) {
	v, ok := p[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func (p PropertyBag) GetInt(key string) (int64, bool) {
	switch v := p[key].(type) {
	case int:
		return int64(v), true
	case int64:
		return v, true
	case uint64:
		return int64(v), true
	case float64:
		return int64(v), true
	}
	return 0, false
}

func (p PropertyBag) GetBool(key string) (bool, bool) {
	v, ok := p[key]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

// DefaultPolicy returns the built-in policy used when the caller passes
// DefaultPolicyToken. It enables the bundled policy-gated checks with
// conservative limits.
func DefaultPolicy() PropertyBag {
	return PropertyBag{
		"file-size-limit.maxBytes": int64(64 << 20),
	}
}

// LoadPolicy reads an opaque key/value bag from a YAML file.
func LoadPolicy(path string) (PropertyBag, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}
	bag := make(PropertyBag)
	if err := yaml.Unmarshal(raw, &bag); err != nil {
		return nil, fmt.Errorf("failed to parse policy file %s: %w", path, err)
	}
	return bag, nil
}
