package state

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProcessedSetAdd(t *testing.T) {
	s := NewProcessedSet()

	s.Add("a")
	s.Add("b")
	s.Add("a") // duplicate, no-op
	s.Add("")  // empty, no-op

	assert.True(t, s.Contains("a"))
	assert.True(t, s.Contains("b"))
	assert.False(t, s.Contains("c"))
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"a", "b"}, s.IDs())
}

func TestProcessedSetEviction(t *testing.T) {
	s := newProcessedSet(3)

	s.Merge([]string{"m1", "m2", "m3", "m4", "m5"})

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []string{"m3", "m4", "m5"}, s.IDs())
	assert.False(t, s.Contains("m1"))
	assert.False(t, s.Contains("m2"))
	assert.True(t, s.Contains("m5"))
}

func TestProcessedSetDuplicateKeepsPosition(t *testing.T) {
	s := newProcessedSet(2)

	s.Add("a")
	s.Add("b")
	s.Add("a") // must not refresh "a" to the newest slot
	s.Add("c")

	assert.Equal(t, []string{"b", "c"}, s.IDs())
}

func TestFromIDsRespectsBound(t *testing.T) {
	ids := make([]string, MaxProcessedIDs+10)
	for i := range ids {
		ids[i] = "msg-" + strconv.Itoa(i)
	}

	s := FromIDs(ids)

	assert.Equal(t, MaxProcessedIDs, s.Len())
	assert.False(t, s.Contains(ids[0]))
	assert.True(t, s.Contains(ids[len(ids)-1]))
}
