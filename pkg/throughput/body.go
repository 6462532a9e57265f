package throughput

import (
	"io"

	"speedtest-tester/pkg/meter"
)

// ChunkSize is the largest slice of bytes the upload body hands to the
// transport layer per read.
const ChunkSize = 16 * 1024

// zeroChunk backs every upload body; bodies of any size reuse it instead of
// allocating their full length.
var zeroChunk [ChunkSize]byte

// ZeroBody is a lazy zero-content request body of a fixed total size. Each
// read produces at most ChunkSize bytes and records them in the counter as
// they are handed to the transport, not when the server acknowledges them.
type ZeroBody struct {
	remaining int
	counter   *meter.Counter
}

func NewZeroBody(size int, counter *meter.Counter) *ZeroBody {
	return &ZeroBody{remaining: size, counter: counter}
}

func (b *ZeroBody) Read(p []byte) (int, error) {
	if b.remaining <= 0 {
		return 0, io.EOF
	}

	n := len(p)
	if n > ChunkSize {
		n = ChunkSize
	}
	if n > b.remaining {
		n = b.remaining
	}

	copy(p[:n], zeroChunk[:n])
	b.remaining -= n
	b.counter.Add(uint64(n))
	return n, nil
}
