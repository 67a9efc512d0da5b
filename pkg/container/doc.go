// Package container implements a hybrid positional/keyword argument
// container as a Starlark extension value.
//
// # Overview
//
// A Container owns a fixed tuple of positional values and an optional
// insertion-ordered keyword mapping. It behaves like a tuple when iterated
// or indexed with an integer, and like a dict when subscripted with any
// other key. Containers are immutable after construction; the only field
// that ever changes is the lazily memoized hash.
//
// # Starlark protocols
//
// Container implements starlark.Value, Iterable, Mapping, Callable,
// Comparable, HasBinary, and HasAttrs:
//
//   - Iteration yields positional values only, in order. Keyword entries
//     are reachable through subscripting and the keys() method.
//   - c[i] indexes the positional tuple (negative indices count from the
//     end); c[k] for any non-int key looks up the keyword mapping.
//   - c(fn, args..., kw=...) forwards a call to fn, prepending the stored
//     positionals and overlaying the stored keywords with the supplied ones.
//   - c + x merges containers with other containers, mappings, and
//     iterables, always producing a fresh Container.
//   - == and != compare structurally, including against bare tuples (when
//     the container has no keywords) and bare dicts (when it has no
//     positionals). Ordering comparisons are not supported.
//
// # Usage
//
//	c, err := container.New(starlark.Tuple{starlark.MakeInt(1)}, nil)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(c) // container(1)
//
// Scripts construct containers through the builtin returned by Builtin:
//
//	predeclared := starlark.StringDict{"container": container.Builtin()}
package container
