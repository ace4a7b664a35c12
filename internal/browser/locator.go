package browser

import (
	"fmt"
	"regexp"
)

// Strategy names how a Locator finds an element.
type Strategy string

// Locator strategies
const (
	ByID        Strategy = "id"
	ByCSS       Strategy = "css selector"
	ByClassName Strategy = "class name"
)

var plainIdent = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// Locator identifies one logical UI element.
type Locator struct {
	Strategy Strategy
	Value    string
}

// ID locates an element by its id attribute.
func ID(id string) Locator {
	return Locator{Strategy: ByID, Value: id}
}

// CSS locates an element by CSS selector.
func CSS(selector string) Locator {
	return Locator{Strategy: ByCSS, Value: selector}
}

// ClassName locates an element by a single class name.
func ClassName(name string) Locator {
	return Locator{Strategy: ByClassName, Value: name}
}

// Selector renders the locator as a CSS selector understood by every backend.
func (l Locator) Selector() string {
	switch l.Strategy {
	case ByID:
		if plainIdent.MatchString(l.Value) {
			return "#" + l.Value
		}
		return fmt.Sprintf("[id=%q]", l.Value)
	case ByClassName:
		if plainIdent.MatchString(l.Value) {
			return "." + l.Value
		}
		return fmt.Sprintf("[class~=%q]", l.Value)
	default:
		return l.Value
	}
}

func (l Locator) String() string {
	return fmt.Sprintf("%s=%s", l.Strategy, l.Value)
}
