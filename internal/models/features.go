package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FeatureVector is an ordered set of named numeric fields. Field order is the
// wire contract with the classifier, so insertion order is preserved and JSON
// output is always a named object, never a positional array.
type FeatureVector struct {
	names  []string
	values map[string]float64
}

func NewFeatureVector() *FeatureVector {
	return &FeatureVector{
		values: make(map[string]float64),
	}
}

// Set appends the field on first write and overwrites the value on repeat
// writes without disturbing the order.
func (v *FeatureVector) Set(name string, value float64) {
	if _, ok := v.values[name]; !ok {
		v.names = append(v.names, name)
	}
	v.values[name] = value
}

func (v *FeatureVector) Get(name string) float64 {
	return v.values[name]
}

func (v *FeatureVector) Has(name string) bool {
	_, ok := v.values[name]
	return ok
}

func (v *FeatureVector) Len() int {
	return len(v.names)
}

// Names returns the field names in insertion order.
func (v *FeatureVector) Names() []string {
	out := make([]string, len(v.names))
	copy(out, v.names)
	return out
}

// Values returns the field values in insertion order.
func (v *FeatureVector) Values() []float64 {
	out := make([]float64, len(v.names))
	for i, name := range v.names {
		out[i] = v.values[name]
	}
	return out
}

func (v *FeatureVector) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range v.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(v.values[name])
		if err != nil {
			return nil, fmt.Errorf("marshal feature %q: %w", name, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (v *FeatureVector) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("feature vector must be a JSON object")
	}

	v.names = nil
	v.values = make(map[string]float64)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name := keyTok.(string)
		var value float64
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("feature %q is not numeric: %w", name, err)
		}
		v.Set(name, value)
	}
	return nil
}
