package backend

import (
	"crypto/rand"
	"iter"

	"github.com/concave-dev/floodgate/internal/submit"
)

// RandomRecords yields count requests with consecutive IDs from startID, each
// carrying size bytes of random payload. Payloads are generated lazily so a
// large batch never sits in memory ahead of admission.
func RandomRecords(startID uint64, count, size int) iter.Seq[submit.Request] {
	return func(yield func(submit.Request) bool) {
		for i := range count {
			payload := make([]byte, size)
			_, _ = rand.Read(payload)

			if !yield(submit.Request{ID: startID + uint64(i), Payload: payload}) {
				return
			}
		}
	}
}
