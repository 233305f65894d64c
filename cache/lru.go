package cache

import "github.com/npillmayer/tcache/shaping"

// entry is one node in the intrusive doubly-linked LRU list, grounded on
// the sentinel head/tail idiom in the retrieval pack's gio shaper cache
// (other_examples/gioui-gio__lru.go: map + sentinel head/tail nodes,
// remove/insert splice operations), generalised here from gio's
// fixed-entry-count discipline to spec §4.E's byte-budget accounting.
type entry struct {
	next, prev *entry
	key        shaping.RunCacheKey
	value      *shaping.RunValue
	keySize    int64
	valueSize  int64
}

// list is the sentinel-terminated doubly-linked list backing LRU order;
// head.prev is the most-recently-used entry, tail.next is the least.
type list struct {
	head, tail *entry
}

func newList() *list {
	l := &list{head: new(entry), tail: new(entry)}
	l.head.prev = l.tail
	l.tail.next = l.head
	return l
}

// remove splices e out of the list; e's own next/prev are left stale and
// must not be read afterwards.
func (l *list) remove(e *entry) {
	e.next.prev = e.prev
	e.prev.next = e.next
}

// insert splices e in as the most-recently-used entry.
func (l *list) insert(e *entry) {
	e.next = l.head
	e.prev = l.head.prev
	e.prev.next = e
	e.next.prev = e
}

// oldest returns the least-recently-used entry, or nil if the list is
// empty (both sentinels point at each other).
func (l *list) oldest() *entry {
	if l.tail.next == l.head {
		return nil
	}
	return l.tail.next
}
