package container

import (
	"math"
	"strings"
	"sync/atomic"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Keyword hash mixing constants, from the same family as the tuple hash.
// They apply only when keyword entries are present, so a container without
// keywords hashes exactly like its bare positional tuple.
const (
	hashMult uint32 = 1000003
	hashIncr uint32 = 97531
)

// Container is an immutable hybrid positional/keyword argument value.
//
// The positional tuple and keyword mapping are fixed at construction. The
// memoized hash is the single field written afterwards; it is stored
// atomically, and concurrent first computations are tolerated because the
// computation is pure.
type Container struct {
	positional starlark.Tuple
	keywords   *starlark.Dict // nil when constructed without keywords
	hashed     atomic.Uint32  // 0 means not yet computed
}

var (
	_ starlark.Value      = (*Container)(nil)
	_ starlark.Iterable   = (*Container)(nil)
	_ starlark.Mapping    = (*Container)(nil)
	_ starlark.Callable   = (*Container)(nil)
	_ starlark.Comparable = (*Container)(nil)
	_ starlark.HasBinary  = (*Container)(nil)
	_ starlark.HasAttrs   = (*Container)(nil)
)

// New creates a Container from a positional tuple and an optional keyword
// dict. The positional tuple is required: a nil tuple is an ArgumentError
// (an empty tuple is fine). A non-nil keywords dict is copied, so later
// mutation of the caller's dict does not affect the container; a nil dict
// is kept absent.
func New(positional starlark.Tuple, keywords *starlark.Dict) (*Container, error) {
	if positional == nil {
		return nil, &ArgumentError{Msg: "container requires positional arguments"}
	}

	var kw *starlark.Dict
	if keywords != nil {
		kw = starlark.NewDict(keywords.Len())
		for _, item := range keywords.Items() {
			if err := kw.SetKey(item[0], item[1]); err != nil {
				return nil, err
			}
		}
	}

	return newOwned(append(starlark.Tuple{}, positional...), kw), nil
}

// newOwned wraps a tuple and dict that the caller already owns exclusively,
// avoiding a second defensive copy.
func newOwned(positional starlark.Tuple, keywords *starlark.Dict) *Container {
	return &Container{positional: positional, keywords: keywords}
}

// Builtin returns the container(*args, **kwargs) constructor for use in a
// Starlark predeclared environment.
func Builtin() *starlark.Builtin {
	return starlark.NewBuiltin("container", func(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		if args == nil {
			args = starlark.Tuple{}
		}
		var kw *starlark.Dict
		if len(kwargs) > 0 {
			kw = starlark.NewDict(len(kwargs))
			for _, pair := range kwargs {
				if err := kw.SetKey(pair[0], pair[1]); err != nil {
					return nil, err
				}
			}
		}
		return newOwned(args, kw), nil
	})
}

// NumPositional returns the number of positional values.
func (c *Container) NumPositional() int {
	return len(c.positional)
}

// Positional returns a copy of the positional tuple.
func (c *Container) Positional() starlark.Tuple {
	return append(starlark.Tuple{}, c.positional...)
}

// NumKeywords returns the number of keyword entries. An absent mapping
// counts as zero, so absent and empty keywords are indistinguishable here,
// as everywhere else.
func (c *Container) NumKeywords() int {
	if c.keywords == nil {
		return 0
	}
	return c.keywords.Len()
}

// Keywords returns the keyword entries as (key, value) pairs in insertion
// order, or nil if there are none.
func (c *Container) Keywords() []starlark.Tuple {
	if c.NumKeywords() == 0 {
		return nil
	}
	return c.keywords.Items()
}

// Type implements starlark.Value.
func (c *Container) Type() string { return "container" }

// Freeze implements starlark.Value, propagating to the contained values.
func (c *Container) Freeze() {
	c.positional.Freeze()
	if c.keywords != nil {
		c.keywords.Freeze()
	}
}

// Truth reports whether the container holds any positional or keyword
// values.
func (c *Container) Truth() starlark.Bool {
	return starlark.Bool(len(c.positional) > 0 || c.NumKeywords() > 0)
}

// String renders the container as "container(...)": positional values
// first, each in repr form, then keyword entries as key=value with the key
// in its raw textual form and the value in repr form, all comma separated.
func (c *Container) String() string {
	var buf strings.Builder
	buf.WriteString("container(")
	sep := ""
	for _, v := range c.positional {
		buf.WriteString(sep)
		buf.WriteString(v.String())
		sep = ", "
	}
	if c.keywords != nil {
		for _, item := range c.keywords.Items() {
			buf.WriteString(sep)
			buf.WriteString(keyText(item[0]))
			buf.WriteByte('=')
			buf.WriteString(item[1].String())
			sep = ", "
		}
	}
	buf.WriteByte(')')
	return buf.String()
}

// keyText renders a keyword key for display. String keys render raw, not
// quoted; other key types render as their repr. Downstream consumers depend
// on this exact format, so it stays as-is even though values are quoted and
// keys are not.
func keyText(k starlark.Value) string {
	if s, ok := k.(starlark.String); ok {
		return string(s)
	}
	return k.String()
}

// Hash implements starlark.Value. The combined hash is memoized after the
// first computation; zero is the not-yet-computed sentinel, so a genuine
// zero result is remapped. A container without keywords hashes identically
// to its bare positional tuple. Hash failures (an unhashable contained
// value) propagate and are never cached.
func (c *Container) Hash() (uint32, error) {
	if h := c.hashed.Load(); h != 0 {
		return h, nil
	}

	h, err := c.positional.Hash()
	if err != nil {
		return 0, err
	}

	if c.NumKeywords() > 0 {
		// Order-independent combination of the entry hashes, since
		// mapping equality ignores insertion order.
		var kh uint32
		for _, item := range c.keywords.Items() {
			ih, err := item.Hash()
			if err != nil {
				return 0, err
			}
			kh ^= ih
		}
		h = (h ^ kh) * hashMult
		h += hashIncr
	}

	if h == 0 {
		h = hashIncr
	}

	c.hashed.Store(h)
	return h, nil
}

// Iterate implements starlark.Iterable, yielding positional values only.
func (c *Container) Iterate() starlark.Iterator {
	return c.positional.Iterate()
}

// Get implements starlark.Mapping. An int key indexes the positional tuple,
// with negative indices counting from the end; out-of-range indices yield
// an IndexError. Any other key looks up the keyword mapping, and a missing
// key yields a KeyError carrying the quoted key text, whether the mapping
// is absent or merely lacks the key.
func (c *Container) Get(k starlark.Value) (starlark.Value, bool, error) {
	if ik, ok := k.(starlark.Int); ok {
		n := len(c.positional)
		i, exact := ik.Int64()
		if !exact {
			// An index beyond int64 cannot be in range; saturate it so
			// the range check below reports it like any other.
			i = math.MaxInt64
			if ik.Sign() < 0 {
				i = math.MinInt64
			}
		}
		idx := i
		if idx < 0 {
			idx += int64(n)
		}
		if idx < 0 || idx >= int64(n) {
			return nil, false, &IndexError{Index: i, Len: n}
		}
		return c.positional[idx], true, nil
	}

	if c.keywords != nil {
		v, found, err := c.keywords.Get(k)
		if err != nil || found {
			return v, found, err
		}
	}
	return nil, false, &KeyError{Key: quoteKey(k)}
}

// Attr implements starlark.HasAttrs.
func (c *Container) Attr(name string) (starlark.Value, error) {
	if name == "keys" {
		return starlark.NewBuiltin("keys", keysMethod).BindReceiver(c), nil
	}
	return nil, nil
}

// AttrNames implements starlark.HasAttrs.
func (c *Container) AttrNames() []string {
	return []string{"keys"}
}

func keysMethod(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(b.Name(), args, kwargs); err != nil {
		return nil, err
	}
	return &KeysView{container: b.Receiver().(*Container)}, nil
}

// Name implements starlark.Callable.
func (c *Container) Name() string { return "container" }

// CallInternal implements starlark.Callable: call-forwarding. The first
// argument is the callable to invoke. Remaining positional arguments are
// appended after the stored positionals, and call keywords are overlaid on
// the stored keywords, call-time entries winning on conflict. The callee's
// result and failures pass through unchanged.
func (c *Container) CallInternal(thread *starlark.Thread, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(args) == 0 {
		return nil, &ArgumentError{Msg: "container must be called with at least one argument, the function to apply"}
	}
	fn, extra := args[0], args[1:]

	callArgs := c.positional
	if len(extra) > 0 {
		callArgs = concatTuples(c.positional, extra)
	}

	callKwargs := kwargs
	if n := c.NumKeywords(); n > 0 {
		merged := starlark.NewDict(n + len(kwargs))
		for _, item := range c.keywords.Items() {
			if err := merged.SetKey(item[0], item[1]); err != nil {
				return nil, err
			}
		}
		for _, pair := range kwargs {
			if err := merged.SetKey(pair[0], pair[1]); err != nil {
				return nil, err
			}
		}
		callKwargs = merged.Items()
	}

	return starlark.Call(thread, fn, callArgs, callKwargs)
}

// Equals reports structural equality against another value. Containers
// compare equal to other containers with equal positionals and keywords
// (absent and empty keyword mappings are equivalent), to bare tuples when
// they carry no keywords, and to bare dicts when they carry no positionals.
// Every other comparison is simply unequal, never an error.
func (c *Container) Equals(other starlark.Value) (bool, error) {
	return c.equals(other, starlark.CompareLimit)
}

func (c *Container) equals(other starlark.Value, depth int) (bool, error) {
	switch o := other.(type) {
	case *Container:
		if c == o {
			return true, nil
		}
		cn, on := c.NumKeywords(), o.NumKeywords()
		if cn != on {
			return false, nil
		}
		if cn > 0 {
			eq, err := starlark.CompareDepth(syntax.EQL, c.keywords, o.keywords, depth-1)
			if err != nil || !eq {
				return false, err
			}
		}
		return starlark.CompareDepth(syntax.EQL, c.positional, o.positional, depth-1)

	case starlark.Tuple:
		if c.NumKeywords() > 0 {
			return false, nil
		}
		return starlark.CompareDepth(syntax.EQL, c.positional, o, depth-1)

	case *starlark.Dict:
		if len(c.positional) > 0 {
			return false, nil
		}
		if c.keywords == nil {
			return o.Len() == 0, nil
		}
		return starlark.CompareDepth(syntax.EQL, c.keywords, o, depth-1)
	}

	return false, nil
}

// CompareSameType implements starlark.Comparable. Only == and != are
// supported; ordering operators yield a ComparisonError.
func (c *Container) CompareSameType(op syntax.Token, y starlark.Value, depth int) (bool, error) {
	switch op {
	case syntax.EQL:
		return c.equals(y, depth)
	case syntax.NEQ:
		eq, err := c.equals(y, depth)
		return !eq, err
	}
	return false, &ComparisonError{Op: op}
}

// Binary implements starlark.HasBinary, handling the merge operator + with
// the container on either side. Other operators are not handled.
func (c *Container) Binary(op syntax.Token, y starlark.Value, side starlark.Side) (starlark.Value, error) {
	if op != syntax.PLUS {
		return nil, nil
	}
	var merged *Container
	var err error
	if side == starlark.Left {
		merged, err = Merge(c, y)
	} else {
		merged, err = Merge(y, c)
	}
	if err != nil {
		return nil, err
	}
	return merged, nil
}
