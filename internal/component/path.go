package component

import (
	"fmt"
	"strings"
)

// Path addresses a trait as Component.trait.
type Path struct {
	Component string
	Trait     string
}

// ParsePath splits "Component.trait".
func ParsePath(s string) (Path, error) {
	component, name, ok := strings.Cut(s, ".")
	if !ok || component == "" || name == "" || strings.Contains(name, ".") {
		return Path{}, fmt.Errorf("%w: %q", ErrInvalidPath, s)
	}
	return Path{Component: component, Trait: name}, nil
}

// String returns the dotted form.
func (p Path) String() string {
	return p.Component + "." + p.Trait
}
