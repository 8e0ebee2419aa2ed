// Package catalog models GeoNetwork category relations: which records carry
// which categories, and the English label of every category code.
package catalog

import "fmt"

// ConsistencyError reports a category code that is assigned to a record but
// has no label in the catalog's category list.
type ConsistencyError struct {
	Code string
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("category %q has no English label in the catalog", e.Code)
}

// Index joins the record->category and category->label relations of one
// catalog. It is read-only once built and safe for concurrent readers.
type Index struct {
	assignments map[string][]string
	labels      map[string]string
}

// NewIndex builds an Index. assignments maps file identifiers to their
// non-internal category codes in catalog order; labels maps codes to English
// labels.
func NewIndex(assignments map[string][]string, labels map[string]string) *Index {
	if assignments == nil {
		assignments = make(map[string][]string)
	}
	if labels == nil {
		labels = make(map[string]string)
	}
	return &Index{assignments: assignments, labels: labels}
}

// Categories returns the category codes assigned to a record, in the order
// the catalog lists them. Duplicates are kept.
func (x *Index) Categories(fileID string) []string {
	if x == nil {
		return nil
	}
	codes := x.assignments[fileID]
	out := make([]string, len(codes))
	copy(out, codes)
	return out
}

// Label resolves a category code.
func (x *Index) Label(code string) (string, error) {
	if x != nil {
		if label, ok := x.labels[code]; ok {
			return label, nil
		}
	}
	return "", &ConsistencyError{Code: code}
}

// Labels resolves every code, failing on the first one without a label.
func (x *Index) Labels(codes []string) ([]string, error) {
	labels := make([]string, 0, len(codes))
	for _, code := range codes {
		label, err := x.Label(code)
		if err != nil {
			return nil, err
		}
		labels = append(labels, label)
	}
	return labels, nil
}

// RecordCount returns the number of records with at least one category.
func (x *Index) RecordCount() int {
	if x == nil {
		return 0
	}
	return len(x.assignments)
}

// LabelCount returns the number of labelled category codes.
func (x *Index) LabelCount() int {
	if x == nil {
		return 0
	}
	return len(x.labels)
}
