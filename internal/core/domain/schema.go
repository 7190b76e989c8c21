package domain

import "strconv"

// Field types used by the schema contract. The adapter maps these to
// the backend's concrete type names.
const (
	FieldTypeString = "string"
	FieldTypeInt    = "int"
	FieldTypeText   = "text"
	FieldTypeDate   = "tdate"
)

// FieldDef is one entry of the static schema contract: what the index
// must expose for a field.
type FieldDef struct {
	Type    string
	Stored  bool
	Indexed bool
}

// LiveField is a field definition as reported by the index.
type LiveField struct {
	Name        string
	Type        string
	Stored      bool
	Indexed     bool
	MultiValued bool
}

// RequiredFields returns the schema contract: every field the index
// must expose before the write and query paths are trusted. The id
// field is part of every index by construction and is not listed.
func RequiredFields() map[string]FieldDef {
	fields := map[string]FieldDef{
		"type":         {Type: FieldTypeInt, Stored: true, Indexed: true},
		"areaid":       {Type: FieldTypeString, Stored: true, Indexed: true},
		"title":        {Type: FieldTypeText, Stored: true, Indexed: true},
		"content":      {Type: FieldTypeText, Stored: true, Indexed: true},
		"contextid":    {Type: FieldTypeString, Stored: true, Indexed: true},
		"courseid":     {Type: FieldTypeString, Stored: true, Indexed: true},
		"owneruserid":  {Type: FieldTypeString, Stored: true, Indexed: true},
		"groupid":      {Type: FieldTypeString, Stored: true, Indexed: true},
		"description1": {Type: FieldTypeText, Stored: true, Indexed: true},
		"description2": {Type: FieldTypeText, Stored: true, Indexed: true},
		"modified":     {Type: FieldTypeDate, Stored: true, Indexed: true},

		"solr_filegroupingid":  {Type: FieldTypeString, Stored: true, Indexed: true},
		"solr_fileid":          {Type: FieldTypeString, Stored: true, Indexed: true},
		"solr_filecontenthash": {Type: FieldTypeString, Stored: true, Indexed: true},
		"solr_fileindexstatus": {Type: FieldTypeInt, Stored: true, Indexed: true},
		// Indexes, but does not store, extracted file contents.
		"solr_filecontent": {Type: FieldTypeText, Stored: false, Indexed: true},

		// Tika metadata field that would otherwise be auto-created
		// with a guessed type.
		"dc_title": {Type: FieldTypeString, Stored: true, Indexed: true},
	}
	for _, dim := range DefaultVectorDims {
		fields[VectorFieldName(dim)] = FieldDef{
			Type:    "knn_vector_" + strconv.Itoa(dim),
			Stored:  true,
			Indexed: true,
		}
	}
	return fields
}
