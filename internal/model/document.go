package model

import "time"

// DocumentType is the kind of published material a document describes.
type DocumentType string

const (
	TypeReport       DocumentType = "report"
	TypeStudy        DocumentType = "study"
	TypeArticle      DocumentType = "article"
	TypeInterview    DocumentType = "interview"
	TypePressRelease DocumentType = "press release"
	TypeCaseStudy    DocumentType = "case study"
	TypeAnalysis     DocumentType = "analysis"
	TypeResearch     DocumentType = "research"
)

// Valid reports whether t belongs to the fixed vocabulary.
func (t DocumentType) Valid() bool {
	switch t {
	case TypeReport, TypeStudy, TypeArticle, TypeInterview,
		TypePressRelease, TypeCaseStudy, TypeAnalysis, TypeResearch:
		return true
	}
	return false
}

// Format is the shape of the underlying asset.
type Format string

const (
	FormatPDF          Format = "pdf"
	FormatVideo        Format = "video"
	FormatArticle      Format = "article"
	FormatInfographic  Format = "infographic"
	FormatExternalLink Format = "external_link"
)

// Valid reports whether f belongs to the fixed vocabulary.
func (f Format) Valid() bool {
	switch f {
	case FormatPDF, FormatVideo, FormatArticle, FormatInfographic, FormatExternalLink:
		return true
	}
	return false
}

// Placeholders used when the source omits free-text fields.
const (
	UntitledPlaceholder = "Untitled"
	UnknownPlaceholder  = "Unknown"
)

// Document is one report, article, study or media item of the library.
// A document with an empty FacilityID belongs to the general collection.
// StoragePath is only used to delete the stored blob and must not be shown to users.
type Document struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Author      string       `json:"author"`
	Type        DocumentType `json:"type"`
	Format      Format       `json:"format"`
	Description string       `json:"description"`
	FacilityID  string       `json:"facility_id,omitempty"`
	URL         string       `json:"url"`
	StoragePath string       `json:"storage_path,omitempty"`
	Thumbnail   string       `json:"thumbnail,omitempty"`
	UploadDate  time.Time    `json:"upload_date"`
	Date        time.Time    `json:"date"`
}

// DocumentRow is a raw record of the remote document table.
// Empty strings and the zero time mean the column was absent.
type DocumentRow struct {
	ID          string
	Title       string
	Author      string
	Type        string
	Format      string
	Description string
	FacilityID  string
	URL         string
	StoragePath string
	Thumbnail   string
	UploadDate  time.Time
}
