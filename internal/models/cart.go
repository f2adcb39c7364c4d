package models

import (
	"errors"
	"strings"
)

// CartItem represents an item in the shopping cart. Identity is ID;
// the cart merges on duplicate inserts rather than holding two entries.
type CartItem struct {
	ID           int         `json:"id"`
	Title        string      `json:"title"`
	Type         ContentType `json:"type"`
	Price        int64       `json:"price"` // in kobo
	Quantity     int         `json:"quantity"`
	Instructor   string      `json:"instructor"`
	Duration     string      `json:"duration"`
	Image        string      `json:"image"`
	IsPremium    bool        `json:"isPremium"`
	IsRestricted bool        `json:"isRestricted"`
}

// Validate checks a cart item at the storage boundary. Caller-supplied
// shapes are not trusted.
func (i *CartItem) Validate() error {
	if i.ID <= 0 {
		return errors.New("cart item id must be positive")
	}
	if strings.TrimSpace(i.Title) == "" {
		return errors.New("cart item title is required")
	}
	if !i.Type.Valid() {
		return errors.New("cart item type must be document, video, audio or physical")
	}
	if i.Price < 0 {
		return errors.New("cart item price cannot be negative")
	}
	if i.Quantity < 0 {
		return errors.New("cart item quantity cannot be negative")
	}
	return nil
}

// CartSnapshot is the persisted wire shape of a cart item, written under
// the cart_items key. Kept separate from CartItem so the stored form can
// stay compact ("qty") without leaking into the API surface.
type CartSnapshot struct {
	ID           int         `json:"id"`
	Title        string      `json:"title"`
	Type         ContentType `json:"type"`
	Price        int64       `json:"price"`
	Qty          int         `json:"qty"`
	Instructor   string      `json:"instructor,omitempty"`
	Duration     string      `json:"duration,omitempty"`
	Image        string      `json:"image,omitempty"`
	IsPremium    bool        `json:"isPremium,omitempty"`
	IsRestricted bool        `json:"isRestricted,omitempty"`
}

// Snapshot converts a live cart item to its persisted form.
func (i CartItem) Snapshot() CartSnapshot {
	return CartSnapshot{
		ID:           i.ID,
		Title:        i.Title,
		Type:         i.Type,
		Price:        i.Price,
		Qty:          i.Quantity,
		Instructor:   i.Instructor,
		Duration:     i.Duration,
		Image:        i.Image,
		IsPremium:    i.IsPremium,
		IsRestricted: i.IsRestricted,
	}
}

// Restore converts a persisted snapshot back to a live cart item,
// filling defaults for fields older snapshots may lack.
func (s CartSnapshot) Restore() CartItem {
	item := CartItem{
		ID:           s.ID,
		Title:        s.Title,
		Type:         s.Type,
		Price:        s.Price,
		Quantity:     s.Qty,
		Instructor:   s.Instructor,
		Duration:     s.Duration,
		Image:        s.Image,
		IsPremium:    s.IsPremium,
		IsRestricted: s.IsRestricted,
	}
	if !item.Type.Valid() {
		item.Type = ContentTypeDocument
	}
	if item.Price < 0 {
		item.Price = 0
	}
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	return item
}

// CartTotals holds the derived cart values. All amounts are in kobo.
type CartTotals struct {
	TotalItems int   `json:"total_items"`
	TotalPrice int64 `json:"total_price"`
	VAT        int64 `json:"vat"`
	GrandTotal int64 `json:"grand_total"`
}
