package utils

import (
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var eventIDPattern = regexp.MustCompile(`^evt_[0-9a-z]+_[0-9a-z]{5}$`)

func TestGenerateEventID(t *testing.T) {
	for i := 0; i < 100; i++ {
		id := GenerateEventID()
		assert.Regexp(t, eventIDPattern, id)
	}
}

func TestGenerateEventIDTimestampPart(t *testing.T) {
	before := time.Now().UnixMilli()
	id := GenerateEventID()
	after := time.Now().UnixMilli()

	parts := strings.Split(id, "_")
	require.Len(t, parts, 3)

	millis, err := strconv.ParseInt(parts[1], 36, 64)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, millis, before)
	assert.LessOrEqual(t, millis, after)
}

func TestGenerateEventIDUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		id := GenerateEventID()
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

// Exercises the generator from many goroutines at once; run with -race this
// guards the shared source against regressing to an unsynchronized one.
func TestGenerateEventIDConcurrent(t *testing.T) {
	const goroutines = 8
	const perGoroutine = 200

	ids := make(chan string, goroutines*perGoroutine)
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				ids <- GenerateEventID()
			}
		}()
	}
	wg.Wait()
	close(ids)

	for id := range ids {
		assert.Regexp(t, eventIDPattern, id)
	}
}

func TestGenerateRandomStringConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	out := make(chan string, 400)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				out <- GenerateRandomString(10)
			}
		}()
	}
	wg.Wait()
	close(out)

	for s := range out {
		assert.Len(t, s, 10)
	}
}

func TestDerivedURLs(t *testing.T) {
	assert.Equal(t, "https://eventsnap.test/upload/evt_a_00001",
		UploadURL("https://eventsnap.test", "evt_a_00001"))
	assert.Equal(t, "https://eventsnap.test/gallery/evt_a_00001",
		GalleryURL("https://eventsnap.test", "evt_a_00001"))
}
