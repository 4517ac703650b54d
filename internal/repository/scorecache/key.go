// Package scorecache memoizes compatibility results keyed by profile and property content.
package scorecache

import (
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/goccy/go-json"

	"github.com/kailas-cloud/propmatch/internal/domain/profile"
	"github.com/kailas-cloud/propmatch/internal/domain/property"
)

const dayLayout = "2006-01-02"

// Key derives a deterministic cache key from the profile and property content
// and the as-of day. Structurally equal inputs produce the same key.
func Key(pr *profile.Profile, p *property.Property, asOf time.Time) string {
	d := xxhash.New()
	writePart(d, pr)
	_, _ = d.WriteString("|")
	writePart(d, p)
	_, _ = d.WriteString("|")
	_, _ = d.WriteString(asOf.UTC().Format(dayLayout))
	return strconv.FormatUint(d.Sum64(), 16)
}

func writePart(d *xxhash.Digest, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		// Unreachable for the plain data structs hashed here.
		_, _ = d.WriteString("!")
		return
	}
	_, _ = d.Write(data)
}
