package container

import (
	"fmt"
	"strings"

	"go.starlark.net/starlark"
)

// KeysView is a lazy, restartable view over a container's keyword keys in
// mapping order. It is produced by the container's keys() method and is
// empty when the container has no keywords.
type KeysView struct {
	container *Container
}

var (
	_ starlark.Value    = (*KeysView)(nil)
	_ starlark.Sequence = (*KeysView)(nil)
)

// Type implements starlark.Value.
func (kv *KeysView) Type() string { return "container.keys" }

// Freeze implements starlark.Value.
func (kv *KeysView) Freeze() { kv.container.Freeze() }

// Truth reports whether the view contains any keys.
func (kv *KeysView) Truth() starlark.Bool {
	return starlark.Bool(kv.Len() > 0)
}

// Hash implements starlark.Value; views are unhashable.
func (kv *KeysView) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable type: %s", kv.Type())
}

// String renders the view, each key in repr form.
func (kv *KeysView) String() string {
	var buf strings.Builder
	buf.WriteString("container.keys([")
	sep := ""
	if kw := kv.container.keywords; kw != nil {
		for _, k := range kw.Keys() {
			buf.WriteString(sep)
			buf.WriteString(k.String())
			sep = ", "
		}
	}
	buf.WriteString("])")
	return buf.String()
}

// Len implements starlark.Sequence.
func (kv *KeysView) Len() int {
	return kv.container.NumKeywords()
}

// Iterate implements starlark.Iterable. Each call starts a fresh pass over
// the keys in mapping order.
func (kv *KeysView) Iterate() starlark.Iterator {
	it := &keysIterator{}
	if kw := kv.container.keywords; kw != nil {
		it.keys = kw.Keys()
	}
	return it
}

type keysIterator struct {
	keys []starlark.Value
	next int
}

func (it *keysIterator) Next(p *starlark.Value) bool {
	if it.next >= len(it.keys) {
		return false
	}
	*p = it.keys[it.next]
	it.next++
	return true
}

func (it *keysIterator) Done() {}
