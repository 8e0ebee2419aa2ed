package iso

import "github.com/beevik/etree"

// LookupPrefix finds the prefix bound to uri in scope at e. The empty prefix
// with found=true means uri is the default namespace.
func LookupPrefix(e *etree.Element, uri string) (prefix string, found bool) {
	for el := e; el != nil; el = el.Parent() {
		for _, a := range el.Attr {
			switch {
			case a.Space == "xmlns" && a.Value == uri:
				return a.Key, true
			case a.Space == "" && a.Key == "xmlns" && a.Value == uri:
				return "", true
			}
		}
	}
	return "", false
}

// NewElement builds an unparented element in namespace uri, named so that it
// resolves correctly once inserted under scope. It reuses the prefix already
// bound to uri at scope; otherwise it declares the standard prefix on itself.
func NewElement(scope *etree.Element, uri, local string) *etree.Element {
	if prefix, ok := LookupPrefix(scope, uri); ok {
		return etree.NewElement(qualify(prefix, local))
	}

	prefix, ok := PrefixFor(uri)
	if !ok {
		prefix = "ns"
	}
	el := etree.NewElement(qualify(prefix, local))
	el.CreateAttr("xmlns:"+prefix, uri)
	return el
}

// CreateElement appends a new child element in namespace uri to parent.
func CreateElement(parent *etree.Element, uri, local string) *etree.Element {
	el := NewElement(parent, uri, local)
	parent.AddChild(el)
	return el
}

func qualify(prefix, local string) string {
	if prefix == "" {
		return local
	}
	return prefix + ":" + local
}
