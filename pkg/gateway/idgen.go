package gateway

import "strconv"

// IDGenerator issues strictly increasing base-10 ASCII identifiers, starting
// at "1". One instance per sequence per session; the append buffer is reused
// so Next only allocates the returned string.
type IDGenerator struct {
	last int64
	buf  []byte
}

func NewIDGenerator() *IDGenerator {
	return &IDGenerator{
		buf: make([]byte, 0, 20),
	}
}

func (g *IDGenerator) Next() string {
	g.last++
	g.buf = strconv.AppendInt(g.buf[:0], g.last, 10)
	return string(g.buf)
}
