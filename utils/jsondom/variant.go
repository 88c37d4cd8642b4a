package jsondom

const (
	variantTypeTag  = "Type"
	variantValueTag = "Val"
)

// VariantKind enumerates the payloads a Variant can carry.
type VariantKind int

const (
	VariantEmpty VariantKind = iota
	VariantBool
	VariantInt64
	VariantDouble
	VariantRect
	VariantSize
	VariantPoint
	VariantRate
	VariantRatio
	VariantColor
	VariantString
	VariantWString
	VariantInterface
	VariantFloat
	VariantFloatSize
	VariantFloatPoint2D
	VariantFloatPoint3D
	VariantFloatVector4D
	variantKindCount
)

var variantKindNames = [variantKindCount]string{
	VariantEmpty:         "Empty",
	VariantBool:          "Bool",
	VariantInt64:         "Int64",
	VariantDouble:        "Double",
	VariantRect:          "Rect",
	VariantSize:          "Size",
	VariantPoint:         "Point",
	VariantRate:          "Rate",
	VariantRatio:         "Ratio",
	VariantColor:         "Color",
	VariantString:        "String",
	VariantWString:       "WString",
	VariantInterface:     "Interface",
	VariantFloat:         "Float",
	VariantFloatSize:     "FloatSize",
	VariantFloatPoint2D:  "FloatPoint2D",
	VariantFloatPoint3D:  "FloatPoint3D",
	VariantFloatVector4D: "FloatVector4D",
}

func (k VariantKind) String() string {
	if k < 0 || k >= variantKindCount {
		return "Unknown"
	}
	return variantKindNames[k]
}

// ParseVariantKind maps a type name back to its kind.
func ParseVariantKind(name string) (VariantKind, bool) {
	for k, n := range variantKindNames {
		if n == name {
			return VariantKind(k), true
		}
	}
	return VariantEmpty, false
}

// Serializable lets an external type be stored as an Interface variant.
type Serializable interface {
	ToJSON(node *Node) error
	FromJSON(node *Node) error
}

// Variant is a tagged union. Only the field matching Kind is meaningful; String also
// carries WString payloads.
type Variant struct {
	Kind          VariantKind
	Bool          bool
	Int64         int64
	Double        float64
	Float         float32
	String        string
	Rect          Rect
	Size          Size
	Point         Point
	Rate          Rate
	Ratio         Ratio
	Color         Color
	FloatSize     FloatSize
	FloatPoint2D  FloatPoint2D
	FloatPoint3D  FloatPoint3D
	FloatVector4D FloatVector4D
	Interface     Serializable
}

// SetVariant stores v as {"Type": <kind>, "Val": <payload>}. It only fails for an
// unknown kind or when the Interface payload fails to serialize itself.
func (n *Node) SetVariant(name string, v Variant) error {
	vn := NewNode()
	vn.SetString(variantTypeTag, v.Kind.String())
	switch v.Kind {
	case VariantEmpty:
		vn.SetNull(variantValueTag)
	case VariantBool:
		vn.SetBool(variantValueTag, v.Bool)
	case VariantInt64:
		vn.SetInt64(variantValueTag, v.Int64)
	case VariantDouble:
		vn.SetDouble(variantValueTag, v.Double)
	case VariantFloat:
		vn.SetFloat(variantValueTag, v.Float)
	case VariantString, VariantWString:
		vn.SetString(variantValueTag, v.String)
	case VariantRect:
		vn.SetRect(variantValueTag, v.Rect)
	case VariantSize:
		vn.SetSize(variantValueTag, v.Size)
	case VariantPoint:
		vn.SetPoint(variantValueTag, v.Point)
	case VariantRate:
		vn.SetRate(variantValueTag, v.Rate)
	case VariantRatio:
		vn.SetRatio(variantValueTag, v.Ratio)
	case VariantColor:
		vn.SetColor(variantValueTag, v.Color)
	case VariantFloatSize:
		vn.SetFloatSize(variantValueTag, v.FloatSize)
	case VariantFloatPoint2D:
		vn.SetFloatPoint2D(variantValueTag, v.FloatPoint2D)
	case VariantFloatPoint3D:
		vn.SetFloatPoint3D(variantValueTag, v.FloatPoint3D)
	case VariantFloatVector4D:
		vn.SetFloatVector4D(variantValueTag, v.FloatVector4D)
	case VariantInterface:
		if v.Interface == nil {
			vn.SetNull(variantValueTag)
			break
		}
		payload := NewNode()
		if err := v.Interface.ToJSON(payload); err != nil {
			return err
		}
		vn.SetNode(variantValueTag, payload)
	default:
		return InvalidArg
	}
	n.SetElement(name, vn)
	return nil
}

// GetVariant decodes a variant stored by SetVariant. newObject creates the receiver of
// an Interface payload; without it Interface variants cannot be read.
//
//nolint:gocyclo,cyclop // One branch per kind
func (n *Node) GetVariant(name string, newObject func() Serializable) (Variant, bool) {
	var v Variant
	vn, ok := n.GetNode(name)
	if !ok {
		return v, false
	}
	typeName, ok := vn.GetString(variantTypeTag)
	if !ok {
		return v, false
	}
	if v.Kind, ok = ParseVariantKind(typeName); !ok {
		return Variant{}, false
	}

	switch v.Kind {
	case VariantEmpty:
		ok = true
	case VariantBool:
		v.Bool, ok = vn.GetBool(variantValueTag)
	case VariantInt64:
		v.Int64, ok = vn.GetInt64(variantValueTag)
	case VariantDouble:
		v.Double, ok = vn.GetDouble(variantValueTag)
	case VariantFloat:
		v.Float, ok = vn.GetFloat(variantValueTag)
	case VariantString, VariantWString:
		v.String, ok = vn.GetString(variantValueTag)
	case VariantRect:
		v.Rect, ok = vn.GetRect(variantValueTag)
	case VariantSize:
		v.Size, ok = vn.GetSize(variantValueTag)
	case VariantPoint:
		v.Point, ok = vn.GetPoint(variantValueTag)
	case VariantRate:
		v.Rate, ok = vn.GetRate(variantValueTag)
	case VariantRatio:
		v.Ratio, ok = vn.GetRatio(variantValueTag)
	case VariantColor:
		v.Color, ok = vn.GetColor(variantValueTag)
	case VariantFloatSize:
		v.FloatSize, ok = vn.GetFloatSize(variantValueTag)
	case VariantFloatPoint2D:
		v.FloatPoint2D, ok = vn.GetFloatPoint2D(variantValueTag)
	case VariantFloatPoint3D:
		v.FloatPoint3D, ok = vn.GetFloatPoint3D(variantValueTag)
	case VariantFloatVector4D:
		v.FloatVector4D, ok = vn.GetFloatVector4D(variantValueTag)
	case VariantInterface:
		ok = v.decodeInterface(vn, newObject)
	}
	if !ok {
		return Variant{}, false
	}
	return v, true
}

func (v *Variant) decodeInterface(vn *Node, newObject func() Serializable) bool {
	if val, isValue := vn.GetElementByName(variantValueTag).(*Value); isValue && val.IsNull() {
		return true
	}
	payload, ok := vn.GetNode(variantValueTag)
	if !ok || newObject == nil {
		return false
	}
	obj := newObject()
	if obj == nil || obj.FromJSON(payload) != nil {
		return false
	}
	v.Interface = obj
	return true
}
