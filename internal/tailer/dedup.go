package tailer

import "hash/fnv"

// dedupWindow is how many recent line hashes are remembered for duplicate
// suppression.
const dedupWindow = 100

// dedup suppresses re-emission of recently seen lines. It keeps the FNV-1a
// hashes of the last dedupWindow lines in FIFO order; a hash evicted from
// the window may be emitted again.
type dedup struct {
	seen map[uint64]int
	ring []uint64
	next int
	full bool
}

func newDedup() *dedup {
	return &dedup{
		seen: make(map[uint64]int, dedupWindow),
		ring: make([]uint64, dedupWindow),
	}
}

// observe records the line in the window and reports whether it was already
// present.
func (d *dedup) observe(line string) bool {
	h := fnv.New64a()
	h.Write([]byte(line))
	sum := h.Sum64()

	dup := d.seen[sum] > 0

	if d.full {
		old := d.ring[d.next]
		if n := d.seen[old]; n <= 1 {
			delete(d.seen, old)
		} else {
			d.seen[old] = n - 1
		}
	}
	d.ring[d.next] = sum
	d.seen[sum]++
	d.next++
	if d.next == len(d.ring) {
		d.next = 0
		d.full = true
	}
	return dup
}
