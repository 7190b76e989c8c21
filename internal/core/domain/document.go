package domain

import (
	"strconv"
	"strings"
	"time"
)

// Record types stored in the "type" field.
const (
	// TypeText marks a whole-document (or chunk) record.
	TypeText = 1

	// TypeFile marks a record derived from an attached file.
	TypeFile = 2
)

// File index status values stored in solr_fileindexstatus.
const (
	// FileIndexedFalse marks a file indexed as reference only because
	// it was not eligible for content indexing.
	FileIndexedFalse = 0

	// FileIndexedTrue marks a file whose content was indexed.
	FileIndexedTrue = 1

	// FileIndexedError marks a file whose extraction or parsing failed.
	FileIndexedError = -1
)

// SolrTimeFormat is the wire format for tdate fields.
const SolrTimeFormat = "2006-01-02T15:04:05Z"

// Document is one indexable unit supplied by the content source.
type Document struct {
	// ID is the stable, globally unique record identifier.
	ID string

	// AreaID identifies the search area the document belongs to.
	AreaID string

	// Title is the human-readable title.
	Title string

	// Content is the full text body. May be empty; metadata is still
	// indexed.
	Content string

	// ContextID is the access-control context scoping visibility.
	ContextID string

	// CourseID is the owning course.
	CourseID string

	// OwnerID is the owning user, when the document is user-private.
	OwnerID string

	// GroupID restricts the document to a group, when set.
	GroupID string

	// Description1 and Description2 carry secondary searchable text.
	Description1 string
	Description2 string

	// Modified is the document's last modification time.
	Modified time.Time

	// New reports whether the document was never indexed before.
	// Reconciliation skips the index diff for new documents.
	New bool

	// Files are the attached files, in source order.
	Files []FileRef
}

// FileRef references one file attached to a Document. ContentHash and
// Modified together form the change-detection key.
type FileRef struct {
	// ID is the file identifier, unique within the content source.
	ID string

	// Filename is the original file name. Extractors use it for
	// content-type detection; no MIME type is sent.
	Filename string

	// ContentHash is the hash of the file content.
	ContentHash string

	// Modified is the file's last modification time.
	Modified time.Time

	// Size is the file size in bytes.
	Size int64

	// Reader returns the raw file bytes. It is called at most once per
	// indexing pass, only for files that pass eligibility checks, and
	// loads the whole file into memory.
	Reader func() ([]byte, error)
}

// Fields flattens the document into its index representation. The
// lineage key solr_filegroupingid is set to the document id so the
// document and all of its chunk and file records cluster at query
// time.
func (d *Document) Fields() FieldMap {
	m := FieldMap{
		"id":                  String(d.ID),
		"type":                Int(TypeText),
		"areaid":              String(d.AreaID),
		"title":               String(d.Title),
		"contextid":           String(d.ContextID),
		"courseid":            String(d.CourseID),
		"modified":            String(d.Modified.UTC().Format(SolrTimeFormat)),
		"solr_filegroupingid": String(d.ID),
	}
	if d.Content != "" {
		m["content"] = String(ReplaceUnderlines(d.Content))
	}
	if d.OwnerID != "" {
		m["owneruserid"] = String(d.OwnerID)
	}
	if d.GroupID != "" {
		m["groupid"] = String(d.GroupID)
	}
	if d.Description1 != "" {
		m["description1"] = String(ReplaceUnderlines(d.Description1))
	}
	if d.Description2 != "" {
		m["description2"] = String(ReplaceUnderlines(d.Description2))
	}
	return m
}

// FileFields flattens one attached file into its index representation.
// Body content and description fields are excluded: the file record is
// a separate entity whose content comes from extraction. The id is
// derived from the parent id and file id, keeping all records of the
// lineage under the parent's grouping key.
func (d *Document) FileFields(f FileRef) FieldMap {
	m := d.Fields()
	delete(m, "content")
	delete(m, "description1")
	delete(m, "description2")

	m["id"] = String(FileRecordID(d.ID, f.ID))
	m["type"] = Int(TypeFile)
	m["title"] = String(f.Filename)
	m["modified"] = String(f.Modified.UTC().Format(SolrTimeFormat))
	m["solr_fileid"] = String(f.ID)
	m["solr_filecontenthash"] = String(f.ContentHash)
	m["solr_fileindexstatus"] = Int(FileIndexedTrue)
	return m
}

// MergeMetadata copies extractor metadata into the field map. The
// extractors normalize every value to a string before it gets here.
// Fields already set by the assembler are never overwritten, and
// fields the schema marks as ignored are skipped.
func (m FieldMap) MergeMetadata(meta map[string]string) {
	for name, value := range meta {
		if _, exists := m[name]; exists {
			continue
		}
		if strings.HasPrefix(name, "ignored_") {
			continue
		}
		m[name] = String(value)
	}
}

// FileRecordID derives the index id of a file record.
func FileRecordID(parentID, fileID string) string {
	return parentID + "-solrfile" + fileID
}

// ChunkRecordID derives the index id of the i-th (1-indexed) chunk
// record.
func ChunkRecordID(parentID string, i int) string {
	return parentID + "-chunk-" + strconv.Itoa(i)
}
