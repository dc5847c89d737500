package trait

import (
	"slices"
	"strings"
)

// Kind is the base data type of a trait.
type Kind uint8

const (
	// KindInvalid is the zero Kind and is rejected by New.
	KindInvalid Kind = iota
	// KindBool holds a bool.
	KindBool
	// KindInt holds an int64.
	KindInt
	// KindFloat holds a float64.
	KindFloat
	// KindString holds a string.
	KindString
	// KindEnum holds a string restricted to a fixed set of choices.
	KindEnum
	// KindList holds a []any whose elements share one element type.
	KindList
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindEnum:
		return "enum"
	case KindList:
		return "list"
	default:
		return "invalid"
	}
}

// Type is a declared trait type. Enum types carry their choices and list
// types carry their element type.
type Type struct {
	kind    Kind
	choices []string
	elem    *Type
}

// Bool returns the boolean type.
func Bool() Type { return Type{kind: KindBool} }

// Int returns the integer type.
func Int() Type { return Type{kind: KindInt} }

// Float returns the floating point type.
func Float() Type { return Type{kind: KindFloat} }

// String returns the string type.
func String() Type { return Type{kind: KindString} }

// Enum returns a string type restricted to choices.
func Enum(choices ...string) Type {
	return Type{kind: KindEnum, choices: slices.Clone(choices)}
}

// List returns a list type of elem.
func List(elem Type) Type {
	e := elem
	return Type{kind: KindList, elem: &e}
}

// Kind returns the base kind.
func (t Type) Kind() Kind { return t.kind }

// Choices returns a copy of the allowed enum values.
func (t Type) Choices() []string { return slices.Clone(t.choices) }

// Elem returns the element type of a list and false for other kinds.
func (t Type) Elem() (Type, bool) {
	if t.elem == nil {
		return Type{}, false
	}
	return *t.elem, true
}

// String renders the type, e.g. "list[int]" or "enum[debug|info]".
func (t Type) String() string {
	switch t.kind {
	case KindEnum:
		return "enum[" + strings.Join(t.choices, "|") + "]"
	case KindList:
		if t.elem == nil {
			return "list[invalid]"
		}
		return "list[" + t.elem.String() + "]"
	default:
		return t.kind.String()
	}
}

// Accepts reports whether every value valid for parent is also valid for t.
// A redeclared trait must accept its inherited type: int widens to float,
// enums widen to strings or to enums with more choices, and lists follow the
// rule for their element types.
func (t Type) Accepts(parent Type) bool {
	switch t.kind {
	case KindBool, KindInt:
		return parent.kind == t.kind
	case KindFloat:
		return parent.kind == KindFloat || parent.kind == KindInt
	case KindString:
		return parent.kind == KindString || parent.kind == KindEnum
	case KindEnum:
		if parent.kind != KindEnum {
			return false
		}
		for _, c := range parent.choices {
			if !slices.Contains(t.choices, c) {
				return false
			}
		}
		return true
	case KindList:
		if parent.kind != KindList || t.elem == nil || parent.elem == nil {
			return false
		}
		return t.elem.Accepts(*parent.elem)
	default:
		return false
	}
}

// Zero returns the value a trait of this type holds when it declares no
// default. Enums without a default hold their first choice.
func (t Type) Zero() any {
	switch t.kind {
	case KindEnum:
		if len(t.choices) == 0 {
			return ""
		}
		return t.choices[0]
	case KindBool:
		return false
	case KindInt:
		return int64(0)
	case KindFloat:
		return float64(0)
	case KindList:
		return []any{}
	default:
		return ""
	}
}

func (t Type) valid() bool {
	switch t.kind {
	case KindBool, KindInt, KindFloat, KindString:
		return true
	case KindEnum:
		return len(t.choices) > 0
	case KindList:
		return t.elem != nil && t.elem.kind != KindList && t.elem.valid()
	default:
		return false
	}
}
