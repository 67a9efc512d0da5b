package container

import (
	"go.starlark.net/starlark"
)

// operandKind is the closed set of operand categories the merge operator
// dispatches on.
type operandKind int

const (
	kindContainer operandKind = iota
	kindMapping
	kindSequence
	kindInvalid
)

func kindOf(v starlark.Value) operandKind {
	switch v.(type) {
	case *Container:
		return kindContainer
	case starlark.IterableMapping:
		return kindMapping
	case starlark.Iterable:
		return kindSequence
	}
	return kindInvalid
}

type mergeFunc func(left, right starlark.Value) (*Container, error)

var mergeTable = map[[2]operandKind]mergeFunc{
	{kindContainer, kindContainer}: mergeContainers,
	{kindContainer, kindMapping}:   mergeContainerMapping,
	{kindContainer, kindSequence}:  mergeContainerSequence,
	{kindMapping, kindContainer}:   mergeMappingContainer,
	{kindSequence, kindContainer}:  mergeSequenceContainer,
}

// Merge combines two operands into a fresh Container. At least one operand
// must be a Container; the other may be a Container, a mapping (keyword
// entries, right-hand values winning on conflict), or any other iterable
// (positional values). Unsupported operand pairs yield a TypeMismatchError.
func Merge(left, right starlark.Value) (*Container, error) {
	f, ok := mergeTable[[2]operandKind{kindOf(left), kindOf(right)}]
	if !ok {
		return nil, &TypeMismatchError{Left: left.Type(), Right: right.Type()}
	}
	return f(left, right)
}

// mergeContainers concatenates the positional tuples. The result's keywords
// are the right's when the left has none, the left's unchanged when the
// right has none, and otherwise a copy of the left's updated with the
// right's. Keyword dicts are immutable once inside a container, so the
// no-update branches reuse them by reference.
func mergeContainers(left, right starlark.Value) (*Container, error) {
	l, r := left.(*Container), right.(*Container)

	pos := concatTuples(l.positional, r.positional)

	var kw *starlark.Dict
	var err error
	switch {
	case l.NumKeywords() == 0:
		kw = r.keywords
	case r.NumKeywords() == 0:
		kw = l.keywords
	default:
		kw, err = updatedCopy(l.keywords, r.keywords)
		if err != nil {
			return nil, err
		}
	}
	return newOwned(pos, kw), nil
}

// mergeContainerMapping keeps the left positionals and overlays the mapping
// entries on a copy of the left keywords.
func mergeContainerMapping(left, right starlark.Value) (*Container, error) {
	l, r := left.(*Container), right.(starlark.IterableMapping)

	kw, err := updatedCopy(l.keywords, r)
	if err != nil {
		return nil, err
	}
	return newOwned(l.positional, kw), nil
}

// mergeContainerSequence appends the iterable's values after the left
// positionals; keywords carry over by reference.
func mergeContainerSequence(left, right starlark.Value) (*Container, error) {
	l, r := left.(*Container), right.(starlark.Iterable)

	return newOwned(concatTuples(l.positional, tupleOf(r)), l.keywords), nil
}

// mergeMappingContainer keeps the right positionals and overlays the right
// keywords on a copy of the left mapping.
func mergeMappingContainer(left, right starlark.Value) (*Container, error) {
	l, r := left.(starlark.IterableMapping), right.(*Container)

	kw := starlark.NewDict(len(l.Items()) + r.NumKeywords())
	for _, item := range l.Items() {
		if err := kw.SetKey(item[0], item[1]); err != nil {
			return nil, err
		}
	}
	if r.keywords != nil {
		for _, item := range r.keywords.Items() {
			if err := kw.SetKey(item[0], item[1]); err != nil {
				return nil, err
			}
		}
	}
	return newOwned(r.positional, kw), nil
}

// mergeSequenceContainer prepends the iterable's values before the right
// positionals; the right keywords carry over by reference.
func mergeSequenceContainer(left, right starlark.Value) (*Container, error) {
	l, r := left.(starlark.Iterable), right.(*Container)

	return newOwned(concatTuples(tupleOf(l), r.positional), r.keywords), nil
}

// updatedCopy copies base (or starts empty when base is nil) and overlays
// the entries of the mapping, its values winning on key conflicts.
func updatedCopy(base *starlark.Dict, overlay starlark.IterableMapping) (*starlark.Dict, error) {
	items := overlay.Items()

	var kw *starlark.Dict
	if base == nil {
		kw = starlark.NewDict(len(items))
	} else {
		kw = starlark.NewDict(base.Len() + len(items))
		for _, item := range base.Items() {
			if err := kw.SetKey(item[0], item[1]); err != nil {
				return nil, err
			}
		}
	}
	for _, item := range items {
		if err := kw.SetKey(item[0], item[1]); err != nil {
			return nil, err
		}
	}
	return kw, nil
}

func concatTuples(a, b starlark.Tuple) starlark.Tuple {
	out := make(starlark.Tuple, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

func tupleOf(it starlark.Iterable) starlark.Tuple {
	if t, ok := it.(starlark.Tuple); ok {
		return t
	}
	var elems starlark.Tuple
	iter := it.Iterate()
	defer iter.Done()
	var x starlark.Value
	for iter.Next(&x) {
		elems = append(elems, x)
	}
	return elems
}
