package domain

import (
	"sort"
	"strconv"
	"time"
)

// QueryFilters is the input to the query engine.
type QueryFilters struct {
	// Query is the user query text.
	Query string

	// Vector, when set, is used instead of embedding Query.
	Vector []float32

	// Similarity selects embedding-based search; when false the query
	// runs through the lexical path.
	Similarity bool

	// AreaIDs restricts results to these search areas.
	AreaIDs []string

	// ExcludeAreaIDs removes these search areas from results.
	ExcludeAreaIDs []string

	// CourseIDs restricts results to these courses.
	CourseIDs []string

	// ContextIDs restricts results to these contexts, on top of the
	// access-control restriction.
	ContextIDs []string

	// ReturnEmptyDocs keeps result records that carry no content.
	ReturnEmptyDocs bool
}

// AccessInfo is the externally computed access-control snapshot for
// the querying user. The query engine treats it as read-only.
type AccessInfo struct {
	// Everything grants visibility of all records; no context
	// restriction is applied.
	Everything bool

	// AreaContexts maps each search area to the contexts the user may
	// see in it.
	AreaContexts map[string][]string

	// SeparateGroupsContexts lists contexts whose records are split by
	// group: records there are hidden unless the user is in the
	// record's group.
	SeparateGroupsContexts []string

	// UserGroups are the user's group memberships.
	UserGroups []string

	// VisibleGroupsContextAreas lists, per context, areas that use
	// visible groups even though the context is otherwise
	// group-separated. These are always admitted.
	VisibleGroupsContextAreas map[string][]string
}

// PermittedContexts computes the union of contexts the user may see,
// intersected with the requested areas when any were specified. The
// result is sorted for deterministic filter construction.
func (a AccessInfo) PermittedContexts(areaIDs []string) []string {
	requested := make(map[string]bool, len(areaIDs))
	for _, id := range areaIDs {
		requested[id] = true
	}
	set := map[string]bool{}
	for areaID, contexts := range a.AreaContexts {
		if len(requested) > 0 && !requested[areaID] {
			continue
		}
		for _, ctxID := range contexts {
			set[ctxID] = true
		}
	}
	out := make([]string, 0, len(set))
	for ctxID := range set {
		out = append(out, ctxID)
	}
	sort.Strings(out)
	return out
}

// IndexedFile is one file record as currently present in the index,
// read back during reconciliation.
type IndexedFile struct {
	// ID is the index record id (parent id + file suffix).
	ID string

	// FileID is the attached file's identifier.
	FileID string

	// Title is the indexed filename.
	Title string

	// ContentHash is the indexed content hash.
	ContentHash string

	// Modified is the indexed modification time.
	Modified time.Time

	// Status is the FileIndexed* value of the record.
	Status int
}

// BatchResult aggregates the outcome of a batch indexing call.
type BatchResult struct {
	Success int
	Failure int
	Batches int
}

// ResultDocument is one structured query result.
type ResultDocument struct {
	ID        string
	AreaID    string
	Title     string
	Content   string
	ContextID string
	CourseID  string
	Type      int
	Score     float64

	// Fields carries the remaining scalar fields of the record.
	Fields map[string]string
}

// ResultFromFields parses a raw backend record into a ResultDocument.
// Vector fields are skipped; a multi-valued scalar field yields an
// InvalidFieldError rather than a partial document.
func ResultFromFields(raw map[string]any) (*ResultDocument, error) {
	doc := &ResultDocument{Fields: map[string]string{}}
	for name, value := range raw {
		if IsVectorField(name) {
			continue
		}
		switch v := value.(type) {
		case []any:
			// Stored single-valued fields may still arrive as a
			// one-element list depending on backend config.
			if len(v) != 1 {
				return nil, &InvalidFieldError{Field: name, Reason: "multi-valued scalar"}
			}
			if err := doc.setField(name, v[0]); err != nil {
				return nil, err
			}
		default:
			if err := doc.setField(name, v); err != nil {
				return nil, err
			}
		}
	}
	return doc, nil
}

func (d *ResultDocument) setField(name string, value any) error {
	str, err := scalarString(name, value)
	if err != nil {
		return err
	}
	switch name {
	case "id":
		d.ID = str
	case "areaid":
		d.AreaID = str
	case "title":
		d.Title = str
	case "content":
		d.Content = str
	case "contextid":
		d.ContextID = str
	case "courseid":
		d.CourseID = str
	case "type":
		n, convErr := strconv.Atoi(str)
		if convErr != nil {
			return &InvalidFieldError{Field: name, Reason: "not an integer"}
		}
		d.Type = n
	case "score":
		f, convErr := strconv.ParseFloat(str, 64)
		if convErr != nil {
			return &InvalidFieldError{Field: name, Reason: "not a number"}
		}
		d.Score = f
	default:
		d.Fields[name] = str
	}
	return nil
}

func scalarString(name string, value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	case nil:
		return "", nil
	default:
		return "", &InvalidFieldError{Field: name, Reason: "unsupported value"}
	}
}
