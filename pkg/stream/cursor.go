package stream

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var ErrOutOfBounds = errors.New("read past end of buffer")

// Cursor is a sequential big-endian reader over a fixed byte buffer.
type Cursor struct {
	data   []byte
	offset int
}

// NewCursor creates a cursor positioned at the start of data
func NewCursor(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Offset returns the current read position
func (c *Cursor) Offset() int {
	return c.offset
}

// Len returns the size of the underlying buffer
func (c *Cursor) Len() int {
	return len(c.data)
}

// Seek repositions the cursor. Seeking to Len() is allowed; reading there is not.
func (c *Cursor) Seek(offset int) error {
	if offset < 0 || offset > len(c.data) {
		return fmt.Errorf("seek to %d (len %d): %w", offset, len(c.data), ErrOutOfBounds)
	}

	c.offset = offset
	return nil
}

func (c *Cursor) span(n int) ([]byte, error) {
	if c.offset < 0 || c.offset+n > len(c.data) {
		return nil, fmt.Errorf("%d-byte read at %d (len %d): %w", n, c.offset, len(c.data), ErrOutOfBounds)
	}

	return c.data[c.offset : c.offset+n], nil
}

// Read8 reads one byte and advances
func (c *Cursor) Read8() (uint8, error) {
	v, err := c.Peek8()
	if err != nil {
		return 0, err
	}
	c.offset++
	return v, nil
}

// Read16 reads a big-endian uint16 and advances
func (c *Cursor) Read16() (uint16, error) {
	v, err := c.Peek16()
	if err != nil {
		return 0, err
	}
	c.offset += 2
	return v, nil
}

// Read32 reads a big-endian uint32 and advances
func (c *Cursor) Read32() (uint32, error) {
	v, err := c.Peek32()
	if err != nil {
		return 0, err
	}
	c.offset += 4
	return v, nil
}

func (c *Cursor) Peek8() (uint8, error) {
	b, err := c.span(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *Cursor) Peek16() (uint16, error) {
	b, err := c.span(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (c *Cursor) Peek32() (uint32, error) {
	b, err := c.span(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}
