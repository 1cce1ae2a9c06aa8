package types

// Array is an AWK associative array: an unordered mapping from string
// subscripts to scalars. Reading a subscript that is not present creates
// it with an uninitialized value, mirroring AWK's auto-create-on-reference
// semantics. Both the read and write paths go through Ensure so that the
// auto-vivification is a visible contract rather than a side effect.
type Array struct {
	elems map[string]Value
}

// NewArray creates an empty array.
func NewArray() *Array {
	return &Array{elems: make(map[string]Value)}
}

// Ensure returns the value at key, creating an uninitialized entry if the
// key is not present. After Ensure, Contains(key) is true.
func (a *Array) Ensure(key string) Value {
	v, ok := a.elems[key]
	if !ok {
		v = Uninit()
		a.elems[key] = v
	}
	return v
}

// Set assigns the value at key.
func (a *Array) Set(key string, v Value) {
	a.elems[key] = v
}

// Contains reports whether key is present without creating it.
func (a *Array) Contains(key string) bool {
	_, ok := a.elems[key]
	return ok
}

// Delete removes key from the array.
func (a *Array) Delete(key string) {
	delete(a.elems, key)
}

// Clear removes all entries.
func (a *Array) Clear() {
	a.elems = make(map[string]Value)
}

// Len returns the number of entries.
func (a *Array) Len() int {
	return len(a.elems)
}

// Keys returns the subscripts in unspecified order.
func (a *Array) Keys() []string {
	keys := make([]string, 0, len(a.elems))
	for k := range a.elems {
		keys = append(keys, k)
	}
	return keys
}
