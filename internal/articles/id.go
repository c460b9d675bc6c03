package articles

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewID returns "art_<unix millis>_<9 random chars>". Unique enough for a
// handful of publishers; not meant to be unguessable.
func NewID(now time.Time) string {
	r := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "art_" + strconv.FormatInt(now.UnixMilli(), 10) + "_" + r[:9]
}
