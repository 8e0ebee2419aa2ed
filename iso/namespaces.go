// Package iso holds the ISO/TC211 namespace bindings and the namespace-aware
// tree helpers used to rewrite ISO19139 records.
package iso

// Namespace URIs used by ISO19139 and ISO19115-2 records.
const (
	GCO   = "http://www.isotc211.org/2005/gco"
	GMD   = "http://www.isotc211.org/2005/gmd"
	GMI   = "http://www.isotc211.org/2005/gmi"
	GML   = "http://www.opengis.net/gml/3.2"
	GMX   = "http://www.isotc211.org/2005/gmx"
	GSR   = "http://www.isotc211.org/2005/gsr"
	GSS   = "http://www.isotc211.org/2005/gss"
	GTS   = "http://www.isotc211.org/2005/gts"
	SRV   = "http://www.isotc211.org/2005/srv"
	XLink = "http://www.w3.org/1999/xlink"
	XSI   = "http://www.w3.org/2001/XMLSchema-instance"
	XS    = "http://www.w3.org/2001/XMLSchema"
)

// Namespaces maps the fixed query prefixes to their URIs. Every Path is
// resolved against this table, never against the prefixes a document happens
// to declare.
var Namespaces = map[string]string{
	"gco":   GCO,
	"gmd":   GMD,
	"gmi":   GMI,
	"gml":   GML,
	"gmx":   GMX,
	"gsr":   GSR,
	"gss":   GSS,
	"gts":   GTS,
	"srv":   SRV,
	"xlink": XLink,
	"xsi":   XSI,
	"xs":    XS,
}

// PrefixFor returns the standard prefix for a namespace URI.
func PrefixFor(uri string) (string, bool) {
	for prefix, u := range Namespaces {
		if u == uri {
			return prefix, true
		}
	}
	return "", false
}
