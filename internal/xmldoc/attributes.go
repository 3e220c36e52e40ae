package xmldoc

import "github.com/ralt/apkstats/internal/models"

// Attribute returns the raw value of the attribute with the qualified name,
// or an empty string when it is absent
func Attribute(el *Element, name string) string {
	v, _ := lookup(el, name)
	return v
}

// NonEmptyStringAttribute returns the attribute value; empty values count as absent
func NonEmptyStringAttribute(el *Element, name string) (string, bool) {
	v, ok := lookup(el, name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// BooleanAttribute reads the attribute as a tri-state boolean
func BooleanAttribute(el *Element, name string) models.TriState {
	v, ok := lookup(el, name)
	if !ok {
		return models.Unknown
	}
	return models.TriStateFromString(v)
}

func lookup(el *Element, name string) (string, bool) {
	if el == nil {
		return "", false
	}
	for _, a := range el.Attr {
		if a.FullKey() == name {
			return a.Value, true
		}
	}
	return "", false
}
