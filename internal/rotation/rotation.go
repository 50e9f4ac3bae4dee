// Package rotation computes how long a product sat in stock before selling.
package rotation

import "time"

// Days returns the whole days between listing creation and sale, clamped to
// zero. Data-entry lag can put creation after the sale; a negative age would
// poison averages downstream. An unknown (zero) creation time yields 0.
func Days(createdAt, soldAt time.Time) int {
	if createdAt.IsZero() || soldAt.IsZero() {
		return 0
	}
	days := int(soldAt.Sub(createdAt).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
