package docx

// Value is either Text or Image.
type Value interface {
	isValue()
}

// Text replaces a placeholder with a plain string.
type Text string

func (Text) isValue() {}

func (Image) isValue() {}

// Token returns the canonical placeholder spelling for key.
func Token(key string) string {
	return "{{" + key + "}}"
}

// Mapping is an insertion-ordered set of placeholder values.
type Mapping struct {
	keys   []string
	values map[string]Value
}

// NewMapping returns an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{values: make(map[string]Value)}
}

// Set stores v under key. Overwriting keeps the key's original position.
func (m *Mapping) Set(key string, v Value) *Mapping {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
	return m
}

// SetText is shorthand for Set(key, Text(value)).
func (m *Mapping) SetText(key, value string) *Mapping {
	return m.Set(key, Text(value))
}

// Get returns the value stored under key.
func (m *Mapping) Get(key string) (Value, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (m *Mapping) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of entries.
func (m *Mapping) Len() int {
	return len(m.keys)
}
