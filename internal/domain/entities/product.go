package entities

import "strings"

// Product represents a single gear catalog entry. Catalog entries are
// immutable after load; the ranking pass sets Insight and SafetyScore on
// per-request copies only, never on the shared entry.
type Product struct {
	ID             int      `json:"id"`
	Name           string   `json:"name"`
	Price          float64  `json:"price"`
	Brand          string   `json:"brand"`
	Category       string   `json:"category"` // helmet, jacket, glove, boots
	Certifications []string `json:"certifications,omitempty"`
	Styles         []string `json:"styles,omitempty"` // riding styles: sport, touring, urban, offroad
	Tags           []string `json:"tags,omitempty"`   // feature tags: mesh, waterproof, bluetooth, ...
	Stock          int      `json:"stock"`
	Link           string   `json:"link,omitempty"`
	Image          string   `json:"image,omitempty"`

	// Computed by the ranker on copies.
	Insight     string `json:"insight,omitempty"`
	SafetyScore int    `json:"safety_score,omitempty"`
}

// Clone returns a copy safe to annotate without touching the catalog entry.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Certifications = append([]string(nil), p.Certifications...)
	cp.Styles = append([]string(nil), p.Styles...)
	cp.Tags = append([]string(nil), p.Tags...)
	return &cp
}

// HasStyle reports whether the product carries the given riding style.
func (p *Product) HasStyle(style string) bool {
	for _, s := range p.Styles {
		if strings.EqualFold(s, style) {
			return true
		}
	}
	return false
}
