package booking

import (
	"fmt"
	"math/rand"
	"time"
)

// NumberGenerator produces a candidate booking number for the given
// instant. Candidates may collide; storage rejects duplicates.
type NumberGenerator func(now time.Time) string

// GenerateNumber returns BK + YYYYMMDD + a zero-padded suffix in [1, 9999].
func GenerateNumber(now time.Time) string {
	return fmt.Sprintf("BK%s%04d", now.Format("20060102"), rand.Intn(9999)+1)
}
