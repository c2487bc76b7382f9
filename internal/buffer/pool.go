package buffer

import (
	"sync"

	"github.com/Geun-Oh/alog/internal/entry"
)

// maxPooledLine caps the buffers kept for reuse; bigger ones go to the GC.
const maxPooledLine = 64 * 1024

// linePool manages reusable byte buffers used to assemble output lines.
var linePool = &sync.Pool{
	New: func() interface{} {
		b := make([]byte, 0, 2*entry.DefaultMsgSize)
		return &b
	},
}

// GetLine retrieves an empty line buffer from the pool.
func GetLine() *[]byte {
	b := linePool.Get().(*[]byte)
	*b = (*b)[:0]
	return b
}

// PutLine returns a line buffer to the pool for reuse.
func PutLine(b *[]byte) {
	if cap(*b) > maxPooledLine {
		return
	}
	linePool.Put(b)
}
