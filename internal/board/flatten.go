// Package board is the per-skin view-model over an immutable catalog: the
// flattened checklist plus one status slot per service.
package board

import (
	"time"

	"github.com/hazz-dev/svcdeck/internal/catalog"
	"github.com/hazz-dev/svcdeck/internal/probe"
)

// FlatService is one render-ready row: a service, the title of the category
// it belongs to, and its current status.
type FlatService struct {
	Index      int          `json:"index"`
	Category   string       `json:"category"`
	Name       string       `json:"name"`
	URL        string       `json:"url"`
	Desc       string       `json:"desc"`
	Status     probe.Status `json:"status"`
	ResponseMs int64        `json:"response_ms"`
	Error      string       `json:"error,omitempty"`
	CheckedAt  *time.Time   `json:"checked_at"`
}

// Descriptor returns the catalog descriptor the row was built from.
func (f FlatService) Descriptor() catalog.Descriptor {
	return catalog.Descriptor{Name: f.Name, URL: f.URL, Desc: f.Desc}
}

// Flatten projects c into rows ordered by category, then by position within
// the category. Every row starts as StatusUnknown. The output depends only on
// c, so indices stay valid for as long as the catalog is unchanged.
func Flatten(c *catalog.Catalog) []FlatService {
	out := make([]FlatService, 0, c.ServiceCount())
	for _, cat := range c.Categories() {
		for _, svc := range cat.Services {
			out = append(out, FlatService{
				Index:    len(out),
				Category: cat.Title,
				Name:     svc.Name,
				URL:      svc.URL,
				Desc:     svc.Desc,
				Status:   probe.StatusUnknown,
			})
		}
	}
	return out
}
