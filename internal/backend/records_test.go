package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandomRecords(t *testing.T) {
	var ids []uint64
	for req := range RandomRecords(100, 5, 16) {
		assert.Len(t, req.Payload, 16)
		ids = append(ids, req.ID)
	}
	assert.Equal(t, []uint64{100, 101, 102, 103, 104}, ids)
}

func TestRandomRecordsStopsEarly(t *testing.T) {
	n := 0
	for range RandomRecords(0, 1000, 0) {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}
