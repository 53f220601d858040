package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeqClock_Monotonic(t *testing.T) {
	clock := NewSeqClock()

	assert.Equal(t, int64(0), clock.Current())
	assert.Equal(t, int64(1), clock.Next())
	assert.Equal(t, int64(2), clock.Next())
	assert.Equal(t, int64(2), clock.Current())
}

func TestSeqClock_Reset(t *testing.T) {
	clock := NewSeqClock()
	clock.Next()
	clock.Next()

	clock.Reset()
	assert.Equal(t, int64(0), clock.Current())
	assert.Equal(t, int64(1), clock.Next())
}

func TestRecorder(t *testing.T) {
	rec := &Recorder{}
	assert.Equal(t, 0, rec.Count())

	rec.Listen()
	rec.Listen()
	assert.Equal(t, 2, rec.Count())

	rec.Reset()
	assert.Equal(t, 0, rec.Count())
}
