package model

// DocumentCollection is the aggregate of every document the library knows:
// a general list plus one list per facility.
//
// Methods never mutate the receiver; WithDocument and WithoutDocument return a
// structurally new collection so cached and live copies never share slices.
type DocumentCollection struct {
	General    []Document            `json:"general"`
	Facilities map[string][]Document `json:"facilities"`
}

// NewDocumentCollection returns an empty collection with a bucket per facility ID.
func NewDocumentCollection(facilityIDs ...string) DocumentCollection {
	c := DocumentCollection{
		General:    []Document{},
		Facilities: make(map[string][]Document, len(facilityIDs)),
	}
	for _, id := range facilityIDs {
		c.Facilities[id] = []Document{}
	}
	return c
}

// Clone deep-copies the collection.
func (c DocumentCollection) Clone() DocumentCollection {
	out := DocumentCollection{
		General:    append([]Document{}, c.General...),
		Facilities: make(map[string][]Document, len(c.Facilities)),
	}
	for id, docs := range c.Facilities {
		out.Facilities[id] = append([]Document{}, docs...)
	}
	return out
}

// Len returns the number of documents across all buckets.
func (c DocumentCollection) Len() int {
	n := len(c.General)
	for _, docs := range c.Facilities {
		n += len(docs)
	}
	return n
}

// WithDocument returns a copy with doc appended to its bucket. A facility bucket
// is created when it does not exist yet.
func (c DocumentCollection) WithDocument(doc Document) DocumentCollection {
	return c.WithDocumentIn(doc.FacilityID, doc)
}

// WithDocumentIn returns a copy with doc appended to the named bucket. An empty
// facilityID names the general bucket.
func (c DocumentCollection) WithDocumentIn(facilityID string, doc Document) DocumentCollection {
	out := c.Clone()
	if facilityID == "" {
		out.General = append(out.General, doc)
		return out
	}
	out.Facilities[facilityID] = append(out.Facilities[facilityID], doc)
	return out
}

// WithoutDocument returns a copy in which no bucket holds a document with the given ID.
func (c DocumentCollection) WithoutDocument(id string) DocumentCollection {
	out := DocumentCollection{
		General:    without(c.General, id),
		Facilities: make(map[string][]Document, len(c.Facilities)),
	}
	for fid, docs := range c.Facilities {
		out.Facilities[fid] = without(docs, id)
	}
	return out
}

// Find looks a document up by ID. The facility bucket named by hint is searched
// first, then the general bucket, then every facility bucket. The returned
// facility ID is empty for general documents.
func (c DocumentCollection) Find(id, hint string) (Document, string, bool) {
	if hint != "" {
		if doc, ok := find(c.Facilities[hint], id); ok {
			return doc, hint, true
		}
	}
	if doc, ok := find(c.General, id); ok {
		return doc, "", true
	}
	for fid, docs := range c.Facilities {
		if doc, ok := find(docs, id); ok {
			return doc, fid, true
		}
	}
	return Document{}, "", false
}

// Bucket returns a copy of one facility's documents.
func (c DocumentCollection) Bucket(facilityID string) []Document {
	return append([]Document{}, c.Facilities[facilityID]...)
}

func find(docs []Document, id string) (Document, bool) {
	for _, d := range docs {
		if d.ID == id {
			return d, true
		}
	}
	return Document{}, false
}

func without(docs []Document, id string) []Document {
	out := make([]Document, 0, len(docs))
	for _, d := range docs {
		if d.ID != id {
			out = append(out, d)
		}
	}
	return out
}

// CacheEntry is the persisted snapshot of a collection. Timestamp is in Unix milliseconds.
type CacheEntry struct {
	Data      DocumentCollection `json:"data"`
	Timestamp int64              `json:"timestamp"`
}
