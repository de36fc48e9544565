// Package format renders casualty counts for display. Purely
// presentational.
package format

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Count abbreviates large counts: millions as "1.5M", thousands as "2.5K",
// smaller values with thousands separators.
func Count(n int64) string {
	switch {
	case n >= 1000000:
		return fmt.Sprintf("%.1fM", float64(n)/1000000)
	case n >= 1000:
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	default:
		return humanize.Comma(n)
	}
}
