package models

// ContentType classifies a catalog item.
type ContentType string

const (
	ContentTypeDocument ContentType = "document"
	ContentTypeVideo    ContentType = "video"
	ContentTypeAudio    ContentType = "audio"
	ContentTypePhysical ContentType = "physical"
)

// Valid reports whether the content type is one of the known kinds.
func (t ContentType) Valid() bool {
	switch t {
	case ContentTypeDocument, ContentTypeVideo, ContentTypeAudio, ContentTypePhysical:
		return true
	}
	return false
}

// ContentItem is a full catalog record as returned by the content API.
type ContentItem struct {
	ID           int         `json:"id"`
	Title        string      `json:"title"`
	Type         ContentType `json:"type"`
	Price        int64       `json:"price"` // in kobo
	ThumbnailURL *string     `json:"thumbnail_url"`
	Instructor   string      `json:"instructor"`
	Duration     string      `json:"duration"`
	IsPremium    bool        `json:"isPremium"`
	IsRestricted bool        `json:"isRestricted"`
}

// PurchasedContentEntry is the reduced projection of a ContentItem kept
// client-side so "already purchased" checks don't re-fetch the catalog.
// The backend purchase record stays authoritative; this cache may be
// stale or cleared at any time without data loss.
type PurchasedContentEntry struct {
	ID           int         `json:"id"`
	Title        string      `json:"title"`
	Type         ContentType `json:"type"`
	Price        int64       `json:"price"`
	ThumbnailURL *string     `json:"thumbnail_url"`
	IsPremium    bool        `json:"isPremium"`
}

// ReduceContent projects a full content record to its cached shape,
// filling defaults for missing fields.
func ReduceContent(item ContentItem) PurchasedContentEntry {
	entry := PurchasedContentEntry{
		ID:           item.ID,
		Title:        item.Title,
		Type:         item.Type,
		Price:        item.Price,
		ThumbnailURL: item.ThumbnailURL,
		IsPremium:    item.IsPremium,
	}
	if !entry.Type.Valid() {
		entry.Type = ContentTypeDocument
	}
	if entry.Price < 0 {
		entry.Price = 0
	}
	return entry
}
