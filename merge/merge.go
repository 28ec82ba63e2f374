// Package merge implements the k-way streaming merge of a bounded set
// of individually sorted record streams.
//
// The merge holds at most one pending record per source in a min-heap
// keyed by the extracted sort key, so memory stays proportional to the
// fan-in regardless of how many records the sources hold.
package merge

import (
	"bufio"
	"container/heap"
	"context"
	"io"

	"github.com/wisepulse/sortmerge/chunkio"
	"github.com/wisepulse/sortmerge/sortkey"
)

type entry struct {
	key int64
	rec []byte
	src int
}

// mergeHeap is a min-heap over (key, source index) so equal keys pop in
// ascending source order, making the merge deterministic.
type mergeHeap []entry

func (h mergeHeap) Len() int { return len(h) }

func (h mergeHeap) Less(i, j int) bool {
	if h[i].key != h[j].key {
		return h[i].key < h[j].key
	}
	return h[i].src < h[j].src
}

func (h mergeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *mergeHeap) Push(x any) { *h = append(*h, x.(entry)) }

func (h *mergeHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

// Merge reads the sorted sources and writes their records to sink in
// non-decreasing sort-key order, one newline-terminated record per
// line.  Records pass through byte-for-byte.  It trusts each source to
// be sorted already; a violation silently degrades the output order.
// Any read or key-extraction error aborts the merge immediately,
// leaving whatever was already written in the sink.
func Merge(ctx context.Context, sources []chunkio.Reader, sink io.Writer, x *sortkey.Extractor) error {
	h := make(mergeHeap, 0, len(sources))
	for i, src := range sources {
		e, ok, err := next(src, i, x)
		if err != nil {
			return err
		}
		if ok {
			h = append(h, e)
		}
	}
	heap.Init(&h)
	w := bufio.NewWriterSize(sink, 64*1024)
	for h.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		top := h[0]
		if _, err := w.Write(top.rec); err != nil {
			return err
		}
		if err := w.WriteByte('\n'); err != nil {
			return err
		}
		e, ok, err := next(sources[top.src], top.src, x)
		if err != nil {
			return err
		}
		if ok {
			// Replace the root in place rather than pop-then-push.
			h[0] = e
			heap.Fix(&h, 0)
		} else {
			heap.Pop(&h)
		}
	}
	return w.Flush()
}

func next(src chunkio.Reader, i int, x *sortkey.Extractor) (entry, bool, error) {
	rec, err := src.Read()
	if err != nil || rec == nil {
		return entry{}, false, err
	}
	key, err := x.Extract(rec)
	if err != nil {
		return entry{}, false, err
	}
	return entry{key: key, rec: rec, src: i}, true, nil
}
