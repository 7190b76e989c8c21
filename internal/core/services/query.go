package services

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/campuskit/solrag/internal/core/domain"
	"github.com/campuskit/solrag/internal/core/ports/driven"
	"github.com/campuskit/solrag/internal/core/ports/driving"
	"github.com/campuskit/solrag/internal/logger"
)

const (
	// MaxResults caps how many records a single query returns.
	MaxResults = 100

	// fileGroupLimit is how many records of one document lineage a
	// grouped result may carry (the document plus its best files).
	fileGroupLimit = 3
)

var _ driving.QueryService = (*QueryEngine)(nil)

// QueryEngineOptions tunes the query engine.
type QueryEngineOptions struct {
	// MaxContext drops result content longer than this many bytes.
	// Zero disables the limit.
	MaxContext int

	// FileIndexing enables grouped results over file records. When
	// off, file records are filtered out entirely.
	FileIndexing bool
}

// QueryEngine runs similarity and lexical queries against the index,
// applying access-control restrictions before the backend is touched.
type QueryEngine struct {
	backend  driven.IndexBackend
	embedder driven.EmbeddingService
	resolver domain.VectorFieldResolver
	opts     QueryEngineOptions
}

func NewQueryEngine(
	backend driven.IndexBackend,
	embedder driven.EmbeddingService,
	resolver domain.VectorFieldResolver,
	opts QueryEngineOptions,
) *QueryEngine {
	return &QueryEngine{
		backend:  backend,
		embedder: embedder,
		resolver: resolver,
		opts:     opts,
	}
}

// Execute runs the query described by filters for a user with the
// given access snapshot. Backend and embedding transport failures, and
// a user with no accessible contexts, degrade to an empty result set;
// only misconfiguration surfaces as an error.
func (q *QueryEngine) Execute(ctx context.Context, filters domain.QueryFilters, access domain.AccessInfo, limit int) ([]domain.ResultDocument, error) {
	if limit <= 0 || limit > MaxResults {
		limit = MaxResults
	}

	fq, err := q.filterQueries(filters, access)
	if errors.Is(err, domain.ErrNoAccessibleContext) {
		// A user with nothing visible gets an empty answer, not a
		// failure. The backend is never asked.
		logger.Warn("User can not access any context")
		return []domain.ResultDocument{}, nil
	}
	if err != nil {
		return nil, err
	}

	main, err := q.mainClause(ctx, filters, limit)
	if err != nil {
		return nil, err
	}
	if main == "" {
		return []domain.ResultDocument{}, nil
	}

	req := driven.QueryRequest{
		Main:          main,
		FilterQueries: fq,
		Fields:        "*,score",
		Rows:          limit,
	}
	if q.opts.FileIndexing {
		req.GroupField = "solr_filegroupingid"
		req.GroupLimit = fileGroupLimit
	} else {
		req.FilterQueries = append(req.FilterQueries, "type:"+strconv.Itoa(domain.TypeText))
	}

	resp, err := q.backend.Query(ctx, req)
	if err != nil {
		logger.Error("Query failed: %v", err)
		return []domain.ResultDocument{}, nil
	}
	return q.parseRecords(resp.Records, filters, limit), nil
}

// mainClause builds the main query clause. An empty return with nil
// error means the query cannot produce results right now and the
// engine should answer with an empty set.
func (q *QueryEngine) mainClause(ctx context.Context, filters domain.QueryFilters, limit int) (string, error) {
	if !filters.Similarity {
		return filters.Query, nil
	}

	vector := filters.Vector
	if vector == nil {
		if q.embedder == nil {
			return "", domain.ErrEmbeddingUnavailable
		}
		var err error
		vector, err = q.embedder.Embed(ctx, filters.Query)
		if err != nil {
			logger.Error("Embedding query failed: %v", err)
			return "", nil
		}
	}

	field, err := q.resolver.FieldFor(vector)
	if err != nil {
		return "", err
	}
	return knnClause(field, limit, vector), nil
}

// knnClause renders a k-nearest-neighbour main query over one vector
// field.
func knnClause(field string, topK int, vector []float32) string {
	var b strings.Builder
	b.WriteString("{!knn f=")
	b.WriteString(field)
	b.WriteString(" topK=")
	b.WriteString(strconv.Itoa(topK))
	b.WriteString("}[")
	for i, v := range vector {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 32))
	}
	b.WriteString("]")
	return b.String()
}

// filterQueries assembles the restriction clauses. Area filters are
// marked uncacheable; they vary per request and would churn the
// backend's filter cache.
func (q *QueryEngine) filterQueries(filters domain.QueryFilters, access domain.AccessInfo) ([]string, error) {
	var fq []string
	if len(filters.AreaIDs) > 0 {
		fq = append(fq, "{!cache=false}areaid:("+strings.Join(filters.AreaIDs, " OR ")+")")
	}
	if len(filters.ExcludeAreaIDs) > 0 {
		fq = append(fq, "{!cache=false}-areaid:("+strings.Join(filters.ExcludeAreaIDs, " OR ")+")")
	}
	if len(filters.CourseIDs) > 0 {
		fq = append(fq, "courseid:("+strings.Join(filters.CourseIDs, " OR ")+")")
	}
	if len(filters.ContextIDs) > 0 {
		fq = append(fq, "contextid:("+strings.Join(filters.ContextIDs, " OR ")+")")
	}

	if !access.Everything {
		permitted := access.PermittedContexts(filters.AreaIDs)
		if len(permitted) == 0 {
			return nil, domain.ErrNoAccessibleContext
		}
		fq = append(fq, "contextid:("+strings.Join(permitted, " OR ")+")")
		if clause := groupClause(access); clause != "" {
			fq = append(fq, clause)
		}
	}
	return fq, nil
}

// groupClause restricts group-separated contexts to the user's own
// groups. A record passes when it has no group, when its group is one
// of the user's, when its context is not group-separated, or when its
// context and area pair uses visible groups.
func groupClause(access domain.AccessInfo) string {
	if len(access.SeparateGroupsContexts) == 0 {
		return ""
	}
	clause := "(*:* -groupid:[* TO *])"
	if len(access.UserGroups) > 0 {
		clause += " OR groupid:(" + strings.Join(access.UserGroups, " OR ") + ")"
	}
	clause += " OR (*:* -contextid:(" + strings.Join(access.SeparateGroupsContexts, " OR ") + "))"

	contexts := make([]string, 0, len(access.VisibleGroupsContextAreas))
	for ctxID := range access.VisibleGroupsContextAreas {
		contexts = append(contexts, ctxID)
	}
	sort.Strings(contexts)
	for _, ctxID := range contexts {
		areas := access.VisibleGroupsContextAreas[ctxID]
		if len(areas) == 0 {
			continue
		}
		clause += " OR (contextid:" + ctxID + " AND areaid:(" + strings.Join(areas, " OR ") + "))"
	}
	return clause
}

// parseRecords turns raw backend records into structured results.
// Malformed records are skipped rather than failing the whole result
// set.
func (q *QueryEngine) parseRecords(records []map[string]any, filters domain.QueryFilters, limit int) []domain.ResultDocument {
	out := make([]domain.ResultDocument, 0, len(records))
	for _, raw := range records {
		doc, err := domain.ResultFromFields(raw)
		if err != nil {
			logger.Warn("Skipping malformed result record: %v", err)
			continue
		}
		if doc.Content == "" && !filters.ReturnEmptyDocs {
			continue
		}
		if q.opts.MaxContext > 0 && len(doc.Content) > q.opts.MaxContext {
			logger.Warn("Dropping result %s: content exceeds the context limit", doc.ID)
			continue
		}
		out = append(out, *doc)
		if len(out) == limit {
			break
		}
	}
	return out
}
