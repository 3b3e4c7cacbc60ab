package service

import (
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"

	"facilitydocs/internal/model"
)

var (
	videoExt       = map[string]bool{"mp4": true, "webm": true, "mov": true, "avi": true, "mkv": true}
	infographicExt = map[string]bool{"png": true, "jpg": true, "jpeg": true, "gif": true, "svg": true, "webp": true}
	articleExt     = map[string]bool{"html": true, "htm": true}

	unsafeTitle = regexp.MustCompile(`[^a-z0-9]`)
)

// normalizeRow turns a raw backend row into a Document, filling defaults.
// A missing upload date is replaced by now.
func normalizeRow(r model.DocumentRow, now time.Time) model.Document {
	uploaded := r.UploadDate
	if uploaded.IsZero() {
		uploaded = now
	}
	return model.Document{
		ID:          r.ID,
		Title:       orDefault(r.Title, model.UntitledPlaceholder),
		Author:      orDefault(r.Author, model.UnknownPlaceholder),
		Type:        normalizeType(r.Type),
		Format:      inferFormat(model.Format(r.Format), "", r.URL, r.StoragePath),
		Description: r.Description,
		FacilityID:  r.FacilityID,
		URL:         r.URL,
		StoragePath: r.StoragePath,
		Thumbnail:   r.Thumbnail,
		UploadDate:  uploaded,
		Date:        uploaded,
	}
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func normalizeType(v string) model.DocumentType {
	t := model.DocumentType(strings.ToLower(strings.TrimSpace(v)))
	if t.Valid() {
		return t
	}
	return model.TypeReport
}

// inferFormat picks a document format. A PDF file name, a URL ending in .pdf or
// a storage path mentioning pdf always yield pdf. Otherwise a valid explicit
// format wins, then the file or URL extension, then external_link.
func inferFormat(explicit model.Format, fileName, url, storagePath string) model.Format {
	if extension(fileName) == "pdf" || extension(url) == "pdf" ||
		strings.Contains(strings.ToLower(storagePath), "pdf") {
		return model.FormatPDF
	}
	if explicit.Valid() {
		return explicit
	}
	for _, name := range []string{fileName, url} {
		ext := extension(name)
		switch {
		case ext == "":
		case videoExt[ext]:
			return model.FormatVideo
		case infographicExt[ext]:
			return model.FormatInfographic
		case articleExt[ext]:
			return model.FormatArticle
		}
	}
	return model.FormatExternalLink
}

// extension returns the lower-cased extension of a file name or URL path, without the dot.
func extension(name string) string {
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	return strings.TrimPrefix(strings.ToLower(path.Ext(name)), ".")
}

// objectKey builds the storage key of an uploaded file:
// documents/{unix ms}_{title with non-alphanumerics replaced}.{ext}
func objectKey(title, fileName string, now time.Time) string {
	safe := unsafeTitle.ReplaceAllString(strings.ToLower(title), "_")
	ext := extension(fileName)
	if ext == "" {
		ext = "bin"
	}
	return "documents/" + strconv.FormatInt(now.UnixMilli(), 10) + "_" + safe + "." + ext
}
