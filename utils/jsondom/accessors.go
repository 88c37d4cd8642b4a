package jsondom

import "time"

// Set helpers always attach a fresh element, replacing any existing one. Get helpers
// return false when the name is missing or holds the wrong kind of element.

func (n *Node) setValue(name string, set func(*Value)) {
	v := NewValue()
	set(v)
	n.SetElement(name, v)
}

func (n *Node) value(name string) (*Value, bool) {
	v, ok := n.GetElementByName(name).(*Value)
	return v, ok
}

func (n *Node) SetBool(name string, b bool) {
	n.setValue(name, func(v *Value) { v.SetValueAsBool(b) })
}

func (n *Node) GetBool(name string) (bool, bool) {
	v, ok := n.value(name)
	if !ok {
		return false, false
	}
	return v.GetValueAsBool(), true
}

func (n *Node) SetInt32(name string, i int32) {
	n.setValue(name, func(v *Value) { v.SetValueAsInt32(i) })
}

func (n *Node) GetInt32(name string) (int32, bool) {
	v, ok := n.value(name)
	if !ok {
		return 0, false
	}
	return v.GetValueAsInt32(), true
}

func (n *Node) SetUInt32(name string, i uint32) {
	n.setValue(name, func(v *Value) { v.SetValueAsUInt32(i) })
}

func (n *Node) GetUInt32(name string) (uint32, bool) {
	v, ok := n.value(name)
	if !ok {
		return 0, false
	}
	return v.GetValueAsUInt32(), true
}

func (n *Node) SetInt64(name string, i int64) {
	n.setValue(name, func(v *Value) { v.SetValueAsInt64(i) })
}

func (n *Node) GetInt64(name string) (int64, bool) {
	v, ok := n.value(name)
	if !ok {
		return 0, false
	}
	return v.GetValueAsInt64(), true
}

func (n *Node) SetUInt64(name string, i uint64) {
	n.setValue(name, func(v *Value) { v.SetValueAsUInt64(i) })
}

func (n *Node) GetUInt64(name string) (uint64, bool) {
	v, ok := n.value(name)
	if !ok {
		return 0, false
	}
	return v.GetValueAsUInt64(), true
}

func (n *Node) SetFloat(name string, f float32) {
	n.setValue(name, func(v *Value) { v.SetValueAsFloat(f) })
}

func (n *Node) GetFloat(name string) (float32, bool) {
	v, ok := n.value(name)
	if !ok {
		return 0, false
	}
	return v.GetValueAsFloat(), true
}

func (n *Node) SetDouble(name string, f float64) {
	n.setValue(name, func(v *Value) { v.SetValueAsDouble(f) })
}

func (n *Node) GetDouble(name string) (float64, bool) {
	v, ok := n.value(name)
	if !ok {
		return 0, false
	}
	return v.GetValueAsDouble(), true
}

func (n *Node) SetString(name string, s string) {
	n.setValue(name, func(v *Value) { v.SetValue(s) })
}

func (n *Node) GetString(name string) (string, bool) {
	v, ok := n.value(name)
	if !ok {
		return "", false
	}
	return v.GetValue(), true
}

func (n *Node) SetTime(name string, d time.Duration) {
	n.setValue(name, func(v *Value) { v.SetValueAsTime(d) })
}

// GetTime inherits the GetValueAsTime rule: only string-tagged values convert.
func (n *Node) GetTime(name string) (time.Duration, bool) {
	v, ok := n.value(name)
	if !ok {
		return 0, false
	}
	return v.GetValueAsTime(), true
}

func (n *Node) SetNull(name string) {
	n.setValue(name, (*Value).SetToNull)
}

func (n *Node) SetNode(name string, child *Node) {
	n.SetElement(name, child)
}

func (n *Node) GetNode(name string) (*Node, bool) {
	child, ok := n.GetElementByName(name).(*Node)
	return child, ok
}

func (n *Node) GetArray(name string) (*Array, bool) {
	arr, ok := n.GetElementByName(name).(*Array)
	return arr, ok
}

// Number is the set of scalar types stored by the array helpers.
type Number interface {
	int8 | int16 | int32 | int64 | uint8 | uint16 | uint32 | uint64 | float32 | float64
}

func numberValue[T Number](x T) *Value {
	v := NewValue()
	switch any(x).(type) {
	case float32:
		v.SetValueAsFloat(float32(x))
	case float64:
		v.SetValueAsDouble(float64(x))
	case uint8, uint16, uint32, uint64:
		v.SetValueAsUInt64(uint64(x))
	default:
		v.SetValueAsInt64(int64(x))
	}
	return v
}

func valueNumber[T Number](v *Value) T {
	var zero T
	switch any(zero).(type) {
	case float32:
		return T(v.GetValueAsFloat())
	case float64:
		return T(v.GetValueAsDouble())
	case uint8, uint16, uint32, uint64:
		return T(v.GetValueAsUInt64())
	}
	return T(v.GetValueAsInt64())
}

// SetArray stores values as an array of numbers under name.
func SetArray[T Number](n *Node, name string, values []T) {
	arr := NewArray()
	for _, x := range values {
		arr.elems = append(arr.elems, numberValue(x))
	}
	n.SetElement(name, arr)
}

// GetArray reads an array of numbers. It fails if any element is not a value.
func GetArray[T Number](n *Node, name string) ([]T, bool) {
	arr, ok := n.GetArray(name)
	if !ok {
		return nil, false
	}
	out := make([]T, 0, len(arr.elems))
	for _, el := range arr.elems {
		v, isValue := el.(*Value)
		if !isValue {
			return nil, false
		}
		out = append(out, valueNumber[T](v))
	}
	return out, true
}

// getFixed reads the first count numbers of an array. Extra elements are ignored.
func getFixed[T Number](n *Node, name string, count int) ([]T, bool) {
	values, ok := GetArray[T](n, name)
	if !ok || len(values) < count {
		return nil, false
	}
	return values[:count], true
}
