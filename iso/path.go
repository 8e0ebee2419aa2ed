package iso

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

// Path is a compiled child-axis path such as
// "gmd:fileIdentifier/gco:CharacterString". Prefixes are resolved through
// Namespaces, so a document binding gmd to "ns0" still matches.
//
// A leading slash makes the path absolute: its first step is matched against
// the element the query starts from (normally the document root).
type Path struct {
	expr     string
	absolute bool
	steps    []step
}

type step struct {
	uri   string
	local string
}

// Compile parses a path expression.
func Compile(expr string) (Path, error) {
	p := Path{expr: expr}
	rest := expr
	if strings.HasPrefix(rest, "/") {
		p.absolute = true
		rest = rest[1:]
	}
	if rest == "" {
		return Path{}, fmt.Errorf("empty path %q", expr)
	}

	for _, part := range strings.Split(rest, "/") {
		prefix, local, ok := strings.Cut(part, ":")
		if !ok {
			return Path{}, fmt.Errorf("path %q: step %q has no namespace prefix", expr, part)
		}
		uri, known := Namespaces[prefix]
		if !known {
			return Path{}, fmt.Errorf("path %q: unknown prefix %q", expr, prefix)
		}
		if local == "" {
			return Path{}, fmt.Errorf("path %q: empty step", expr)
		}
		p.steps = append(p.steps, step{uri: uri, local: local})
	}

	return p, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(expr string) Path {
	p, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Path) String() string {
	return p.expr
}

// FindAll returns every element matching the path from e, in document order.
func (p Path) FindAll(e *etree.Element) []*etree.Element {
	if e == nil || len(p.steps) == 0 {
		return nil
	}

	steps := p.steps
	current := []*etree.Element{e}
	if p.absolute {
		if !steps[0].matches(e) {
			return nil
		}
		steps = steps[1:]
	}

	for _, s := range steps {
		var next []*etree.Element
		for _, el := range current {
			for _, child := range el.ChildElements() {
				if s.matches(child) {
					next = append(next, child)
				}
			}
		}
		if len(next) == 0 {
			return nil
		}
		current = next
	}

	return current
}

// First returns the first match or nil.
func (p Path) First(e *etree.Element) *etree.Element {
	matches := p.FindAll(e)
	if len(matches) == 0 {
		return nil
	}
	return matches[0]
}

// One returns the first match, or a *LookupError when nothing matches.
func (p Path) One(e *etree.Element) (*etree.Element, error) {
	found := p.First(e)
	if found == nil {
		return nil, &LookupError{Path: p.expr}
	}
	return found, nil
}

// Ensure walks a relative path from e, creating every missing step as the
// last child of its parent. Existing elements are reused, never replaced.
func (p Path) Ensure(e *etree.Element) *etree.Element {
	current := e
	for _, s := range p.steps {
		var found *etree.Element
		for _, child := range current.ChildElements() {
			if s.matches(child) {
				found = child
				break
			}
		}
		if found == nil {
			found = CreateElement(current, s.uri, s.local)
		}
		current = found
	}
	return current
}

func (s step) matches(e *etree.Element) bool {
	return e.Tag == s.local && e.NamespaceURI() == s.uri
}
