package domain

import (
	"slices"
	"strings"
)

// CoalesceStr returns the first non-blank string from vals.
func CoalesceStr(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// Float64FromPtrWithDefault dereferences the first set pointer in ptrs.
// Estimates that were never given yield fallback.
func Float64FromPtrWithDefault(fallback float64, ptrs ...*float64) float64 {
	i := slices.IndexFunc(ptrs, func(p *float64) bool { return p != nil })
	if i < 0 {
		return fallback
	}
	return *ptrs[i]
}

// ItemIDFromPtrs returns the first non-nil, non-empty id pointer, or nil.
func ItemIDFromPtrs(ptrs ...*ItemID) *ItemID {
	for _, p := range ptrs {
		if p != nil && !p.IsZero() {
			return p
		}
	}
	return nil
}
