// Package recall cross-references product names against known recall
// notices. The registry is an in-process placeholder for an official recall
// feed; an empty registry means no product is flagged.
package recall

import (
	"context"
	"strings"
	"sync"

	"github.com/scansafe/scansafe/internal/core/domain"
)

type Registry struct {
	mu      sync.RWMutex
	notices []domain.RecallNotice
}

func NewRegistry(notices []domain.RecallNotice) *Registry {
	return &Registry{notices: notices}
}

// Replace swaps the full notice set, e.g. after a feed refresh.
func (r *Registry) Replace(notices []domain.RecallNotice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = notices
}

// Check matches the product name against the registry, case-insensitively
// and in both containment directions, so "Crunchy Oat Bar 40g" still hits a
// notice for "crunchy oat bar".
func (r *Registry) Check(_ context.Context, productName string) (domain.RecallInfo, error) {
	name := strings.ToLower(strings.TrimSpace(productName))
	info := domain.RecallInfo{ProductName: productName}
	if name == "" {
		return info, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, notice := range r.notices {
		recalled := strings.ToLower(strings.TrimSpace(notice.ProductName))
		if recalled == "" {
			continue
		}
		if strings.Contains(name, recalled) || strings.Contains(recalled, name) {
			return domain.RecallInfo{
				IsRecalled:   true,
				ProductName:  productName,
				Manufacturer: notice.Manufacturer,
				LotNumber:    notice.LotNumber,
				RecallDate:   notice.RecallDate,
				RecallReason: notice.Reason,
			}, nil
		}
	}
	return info, nil
}
