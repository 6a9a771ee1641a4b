package renderer

import (
	"bytes"
	"io"
)

// ConditionalBlock let you fully write a block and decide at the end to print it or not.
// If the block function returns true, the content is printed to w, otherwise it is discarded.
func ConditionalBlock(w io.Writer, block func(io.Writer) bool) {
	bw := &bytes.Buffer{}
	if block(bw) {
		io.Copy(w, bw)
	}
}

// filter keeps the assets to display, an empty filter keeps them all.
type filter map[string]bool

func newFilter(assets []string) filter {
	f := make(filter, len(assets))
	for _, a := range assets {
		f[a] = true
	}
	return f
}

func (f filter) keep(asset string) bool { return len(f) == 0 || f[asset] }
