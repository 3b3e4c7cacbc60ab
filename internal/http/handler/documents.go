package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"facilitydocs/internal/model"
	"facilitydocs/internal/service"
)

// documentResponse is the public shape of a document. The storage path is
// internal and never leaves the server.
type documentResponse struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Author      string             `json:"author"`
	Type        model.DocumentType `json:"type"`
	Format      model.Format       `json:"format"`
	Description string             `json:"description"`
	FacilityID  string             `json:"facility_id,omitempty"`
	URL         string             `json:"url"`
	Thumbnail   string             `json:"thumbnail,omitempty"`
	UploadDate  time.Time          `json:"upload_date"`
	Date        time.Time          `json:"date"`
}

type collectionResponse struct {
	General    []documentResponse            `json:"general"`
	Facilities map[string][]documentResponse `json:"facilities"`
}

type libraryResponse struct {
	Documents collectionResponse `json:"documents"`
	Status    service.LoadStatus `json:"status"`
	IsLoading bool               `json:"is_loading"`
	LoadError string             `json:"load_error,omitempty"`
}

func toDocumentResponse(d model.Document) documentResponse {
	return documentResponse{
		ID:          d.ID,
		Title:       d.Title,
		Author:      d.Author,
		Type:        d.Type,
		Format:      d.Format,
		Description: d.Description,
		FacilityID:  d.FacilityID,
		URL:         d.URL,
		Thumbnail:   d.Thumbnail,
		UploadDate:  d.UploadDate,
		Date:        d.Date,
	}
}

func toDocumentList(docs []model.Document) []documentResponse {
	out := make([]documentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, toDocumentResponse(d))
	}
	return out
}

func toLibraryResponse(st service.State) libraryResponse {
	coll := collectionResponse{
		General:    toDocumentList(st.Documents.General),
		Facilities: make(map[string][]documentResponse, len(st.Documents.Facilities)),
	}
	for id, docs := range st.Documents.Facilities {
		coll.Facilities[id] = toDocumentList(docs)
	}
	return libraryResponse{
		Documents: coll,
		Status:    st.Status,
		IsLoading: st.IsLoading,
		LoadError: st.LoadError,
	}
}

// loadContext detaches a load from the request so a client hanging up does not
// abort a fetch other readers are waiting on.
func loadContext(c *fiber.Ctx) context.Context {
	return context.WithoutCancel(c.UserContext())
}

// ListDocuments godoc
// @Summary      Document library
// @Description  Loads the library on first use and returns every bucket. A failed load still answers 200 with load_error set and the last known documents.
// @Tags         documents
// @Produce      json
// @Success      200  {object}  libraryResponse
// @Router       /documents [get]
func ListDocuments(lib service.DocumentLibrary) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_ = lib.Load(loadContext(c), false)
		return c.JSON(toLibraryResponse(lib.Snapshot()))
	}
}

// ReloadDocuments godoc
// @Summary      Force a reload
// @Description  Skips the cache and fetches the library again.
// @Tags         documents
// @Produce      json
// @Success      200  {object}  libraryResponse
// @Router       /documents/reload [post]
func ReloadDocuments(lib service.DocumentLibrary) fiber.Handler {
	return func(c *fiber.Ctx) error {
		_ = lib.Load(loadContext(c), true)
		return c.JSON(toLibraryResponse(lib.Snapshot()))
	}
}

// FacilityDocuments returns one facility's bucket.
func FacilityDocuments(lib service.DocumentLibrary) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id")
		}
		_ = lib.Load(loadContext(c), false)
		return c.JSON(fiber.Map{"items": toDocumentList(lib.FacilityDocuments(id))})
	}
}

// AddDocument godoc
// @Summary      Add a document
// @Description  multipart/form-data with metadata fields and an optional file.
// @Tags         documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        title        formData  string  true   "Title"
// @Param        type         formData  string  true   "Document type"
// @Param        facility_id  formData  string  false  "Owning facility"
// @Param        file         formData  file    false  "Attachment"
// @Success      201  {object}  documentResponse
// @Failure      400  {object}  errorPayload
// @Failure      401  {object}  errorPayload
// @Failure      502  {object}  errorPayload
// @Security     BearerAuth
// @Router       /documents [post]
func AddDocument(lib service.DocumentLibrary) fiber.Handler {
	return func(c *fiber.Ctx) error {
		draft := service.DocumentDraft{
			Title:       c.FormValue("title"),
			Author:      c.FormValue("author"),
			Type:        c.FormValue("type"),
			Format:      c.FormValue("format"),
			Description: c.FormValue("description"),
			FacilityID:  c.FormValue("facility_id"),
			URL:         c.FormValue("url"),
			Thumbnail:   c.FormValue("thumbnail"),
		}

		var upload *service.Upload
		if fh, err := c.FormFile("file"); err == nil {
			f, err := fh.Open()
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}
			defer f.Close()

			ct := fh.Header.Get("Content-Type")
			if ct == "" {
				ct = "application/octet-stream"
			}
			upload = &service.Upload{Name: fh.Filename, ContentType: ct, Size: fh.Size, Body: f}
		}

		doc, err := lib.Add(c.UserContext(), draft, upload)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(toDocumentResponse(doc))
	}
}

// RemoveDocument godoc
// @Summary      Delete a document
// @Tags         documents
// @Param        id           path   string  true   "Document ID"
// @Param        facility_id  query  string  false  "Bucket hint"
// @Success      204
// @Failure      401  {object}  errorPayload
// @Failure      502  {object}  errorPayload
// @Security     BearerAuth
// @Router       /documents/{id} [delete]
func RemoveDocument(lib service.DocumentLibrary) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// The storage path is resolved server side; clients never see it.
		err := lib.Remove(c.UserContext(), c.Params("id"), c.Query("facility_id"), "")
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
