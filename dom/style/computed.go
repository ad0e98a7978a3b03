package style

import (
	"sort"
	"strings"
)

// Value is a computed value of a style property, together with its
// importance.
type Value struct {
	Value     Property
	Important bool
}

// ComputedMap maps property names to computed values. It remembers the
// order in which properties have been set. nil is a legal (empty) map for
// all read operations.
type ComputedMap struct {
	keys []string
	m    map[string]Value
}

// NewComputedMap returns a new empty property map.
func NewComputedMap() *ComputedMap {
	return &ComputedMap{m: make(map[string]Value)}
}

// Len returns the number of properties set.
func (cm *ComputedMap) Len() int {
	if cm == nil {
		return 0
	}
	return len(cm.keys)
}

// Get returns a property value, together with an indicator
// wether it has been found in the map.
func (cm *ComputedMap) Get(key string) (Value, bool) {
	if cm == nil {
		return Value{}, false
	}
	v, ok := cm.m[key]
	return v, ok
}

// GetPropertyValue returns the value of a property, or NullStyle.
func (cm *ComputedMap) GetPropertyValue(key string) Property {
	v, _ := cm.Get(key)
	return v.Value
}

// Set a property's value. Overwrites an existing value, if present.
func (cm *ComputedMap) Set(key string, v Value) {
	if cm.m == nil {
		cm.m = make(map[string]Value)
	}
	if _, exists := cm.m[key]; !exists {
		cm.keys = append(cm.keys, key)
	}
	cm.m[key] = v
}

// Merge sets a property's value unless an existing value is important and
// v is not. It returns true if the value has been set.
func (cm *ComputedMap) Merge(key string, v Value) bool {
	if old, exists := cm.Get(key); exists && old.Important && !v.Important {
		return false
	}
	cm.Set(key, v)
	return true
}

// Delete removes a property.
func (cm *ComputedMap) Delete(key string) {
	if cm == nil {
		return
	}
	if _, exists := cm.m[key]; !exists {
		return
	}
	delete(cm.m, key)
	for i, k := range cm.keys {
		if k == key {
			cm.keys = append(cm.keys[:i], cm.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the property names in the order they have first been set.
func (cm *ComputedMap) Keys() []string {
	if cm == nil {
		return nil
	}
	keys := make([]string, len(cm.keys))
	copy(keys, cm.keys)
	return keys
}

// Properties returns all properties, sorted by name.
func (cm *ComputedMap) Properties() []KeyValue {
	r := make([]KeyValue, 0, cm.Len())
	for _, k := range cm.Keys() {
		r = append(r, KeyValue{k, cm.m[k].Value})
	}
	sort.Slice(r, func(i, j int) bool { return r[i].Key < r[j].Key })
	return r
}

// Clone returns a shallow copy of cm.
func (cm *ComputedMap) Clone() *ComputedMap {
	c := NewComputedMap()
	for _, k := range cm.Keys() {
		c.Set(k, cm.m[k])
	}
	return c
}

// CSSText serializes the map as a declaration block.
func (cm *ComputedMap) CSSText() string {
	var sb strings.Builder
	for i, k := range cm.Keys() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		v := cm.m[k]
		sb.WriteString(k)
		sb.WriteString(": ")
		sb.WriteString(v.Value.String())
		if v.Important {
			sb.WriteString(" !important")
		}
		sb.WriteByte(';')
	}
	return sb.String()
}

func (cm *ComputedMap) String() string {
	s := "Computed Map = {\n"
	for _, kv := range cm.Properties() {
		s += "  " + kv.Key + " = " + kv.Value.String() + "\n"
	}
	s += "}"
	return s
}
