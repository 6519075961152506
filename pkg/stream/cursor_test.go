package stream_test

import (
	"testing"

	"intvm/pkg/stream"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorReads(t *testing.T) {
	c := stream.NewCursor([]byte{0x80, 0x39, 0xC0, 0x01, 0x00, 0x00, 0x00, 0x07, 0xFF})

	op, err := c.Read16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x8039), op)
	assert.Equal(t, 2, c.Offset())

	peeked, err := c.Peek16()
	require.NoError(t, err)
	assert.Equal(t, uint16(0xC001), peeked)
	assert.Equal(t, 2, c.Offset(), "peek must not advance")

	_, err = c.Read16()
	require.NoError(t, err)

	v, err := c.Read32()
	require.NoError(t, err)
	assert.Equal(t, uint32(7), v)

	b, err := c.Peek8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0xFF), b)

	b, err = c.Read8()
	require.NoError(t, err)
	assert.Equal(t, uint8(0xFF), b)
	assert.Equal(t, c.Len(), c.Offset())
}

func TestCursorOutOfBounds(t *testing.T) {
	tests := []struct {
		name  string
		data  []byte
		start int
		read  func(c *stream.Cursor) error
	}{
		{"read8 at end", []byte{1}, 1, func(c *stream.Cursor) error { _, err := c.Read8(); return err }},
		{"read16 short", []byte{1, 2, 3}, 2, func(c *stream.Cursor) error { _, err := c.Read16(); return err }},
		{"read32 short", []byte{1, 2, 3}, 0, func(c *stream.Cursor) error { _, err := c.Read32(); return err }},
		{"peek32 short", []byte{1, 2, 3, 4}, 1, func(c *stream.Cursor) error { _, err := c.Peek32(); return err }},
		{"seek past end", []byte{1, 2}, 0, func(c *stream.Cursor) error { return c.Seek(3) }},
		{"seek negative", []byte{1, 2}, 0, func(c *stream.Cursor) error { return c.Seek(-1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := stream.NewCursor(tt.data)
			require.NoError(t, c.Seek(tt.start))
			err := tt.read(c)
			assert.ErrorIs(t, err, stream.ErrOutOfBounds)
			assert.Equal(t, tt.start, c.Offset(), "failed access must not move the cursor")
		})
	}
}
