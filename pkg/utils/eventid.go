package utils

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"
)

// eventIDRandomBound caps the random suffix at five base36 digits.
const eventIDRandomBound int64 = 36 * 36 * 36 * 36 * 36

// GenerateEventID builds a public event identifier of the form
// evt_<base36 millis>_<base36 random>, left-padded to five digits. It does no
// I/O; the caller checks the store for collisions and retries. The top-level
// rand source is used because it is safe for concurrent callers.
func GenerateEventID() string {
	timestamp := strconv.FormatInt(time.Now().UnixMilli(), 36)
	random := strconv.FormatInt(rand.Int63n(eventIDRandomBound), 36)
	for len(random) < 5 {
		random = "0" + random
	}
	return fmt.Sprintf("evt_%s_%s", timestamp, random)
}

// UploadURL and GalleryURL derive the public links from the configured base
// URL; they are never stored or user-settable.
func UploadURL(baseURL, publicEventID string) string {
	return fmt.Sprintf("%s/upload/%s", baseURL, publicEventID)
}

func GalleryURL(baseURL, publicEventID string) string {
	return fmt.Sprintf("%s/gallery/%s", baseURL, publicEventID)
}
