package css

import (
	"fmt"

	"github.com/npillmayer/styledom/dom"
	"github.com/npillmayer/styledom/dom/style"
)

// GetCascadedProperty gets the value of a property. The search cascades to
// the computed styles of ancestors, if the property is not set for the
// element itself.
//
// Clients will usually call GetProperty(…) instead as this will respect
// CSS semantics for inherited properties.
//
// The call to GetCascadedProperty will flag an error if the style property
// isn't found on the element or any ancestor and has no initial value.
func GetCascadedProperty(el *dom.Node, key string) (style.Property, error) {
	for n := el; n != nil; n = shadowIncludingParentElement(n) {
		if p := GetLocalProperty(ComputeStyle(n), key); p != style.NullStyle {
			return p, nil
		}
	}
	if p, ok := style.InitialValue(key); ok {
		return p, nil
	}
	return style.NullStyle, fmt.Errorf("cannot find property %s for %s", key, el)
}

// GetProperty gets the value of a property. If the property is not set
// for the element and the property is inheritable, the search cascades to
// ancestors. Otherwise the initial value of the property is returned.
func GetProperty(el *dom.Node, key string) (style.Property, error) {
	if style.IsCascading(key) {
		return GetCascadedProperty(el, key)
	}
	p := GetLocalProperty(ComputeStyle(el), key)
	if p == style.NullStyle {
		if key == "display" {
			return style.DisplayPropertyForTag(el.LocalName()), nil
		}
		if initial, ok := style.InitialValue(key); ok {
			return initial, nil
		}
		return style.NullStyle, fmt.Errorf("cannot find property %s for %s", key, el)
	}
	return p, nil
}

// GetLocalProperty returns a style property value, if it is set in a
// computed style map. No cascading is performed.
func GetLocalProperty(cm *style.ComputedMap, key string) style.Property {
	return cm.GetPropertyValue(key)
}

func shadowIncludingParentElement(n *dom.Node) *dom.Node {
	if p := n.ParentElement(); p != nil {
		return p
	}
	if p := n.Parent(); p != nil {
		return p.HostElement()
	}
	return nil
}
