package container

import (
	"strings"
	"testing"

	"go.starlark.net/starlark"
)

// execScript runs a script with the container builtin predeclared and
// returns its globals.
func execScript(t *testing.T, script string) starlark.StringDict {
	t.Helper()
	thread := &starlark.Thread{Name: "test"}
	predeclared := starlark.StringDict{"container": Builtin()}
	globals, err := starlark.ExecFile(thread, "test.star", script, predeclared)
	if err != nil {
		t.Fatalf("ExecFile: %v", err)
	}
	return globals
}

func TestScript_ConstructAndRender(t *testing.T) {
	globals := execScript(t, `
c = container(1, 2, 3, foo=4, bar=5)
s = str(c)
empty = str(container())
`)

	if got := globals["s"]; got != starlark.String("container(1, 2, 3, foo=4, bar=5)") {
		t.Errorf("s = %v", got)
	}
	if got := globals["empty"]; got != starlark.String("container()") {
		t.Errorf("empty = %v", got)
	}
}

func TestScript_Subscript(t *testing.T) {
	globals := execScript(t, `
c = container(10, 20, x=1)
first = c[0]
last = c[-1]
kw = c["x"]
`)

	if globals["first"] != starlark.MakeInt(10) {
		t.Errorf("first = %v", globals["first"])
	}
	if globals["last"] != starlark.MakeInt(20) {
		t.Errorf("last = %v", globals["last"])
	}
	if globals["kw"] != starlark.MakeInt(1) {
		t.Errorf("kw = %v", globals["kw"])
	}
}

func TestScript_MissingKeyError(t *testing.T) {
	thread := &starlark.Thread{Name: "test"}
	predeclared := starlark.StringDict{"container": Builtin()}

	_, err := starlark.ExecFile(thread, "test.star", `v = container(x=1)["y"]`, predeclared)
	if err == nil {
		t.Fatal("expected an error for a missing keyword")
	}
	if !strings.Contains(err.Error(), `"y"`) {
		t.Errorf("error does not carry the quoted key: %v", err)
	}
}

func TestScript_MergeOperator(t *testing.T) {
	globals := execScript(t, `
a = container(1, a=1)
b = container(2, b=2)
merged = str(a + b)
over = str(container(a=1) + {"a": 2})
seq = str(a + (2, 3))
rseq = str([0] + a)
rmap = str({"z": 0} + a)
`)

	want := map[string]string{
		"merged": "container(1, 2, a=1, b=2)",
		"over":   "container(a=2)",
		"seq":    "container(1, 2, 3, a=1)",
		"rseq":   "container(0, 1, a=1)",
		"rmap":   "container(1, z=0, a=1)",
	}
	for name, w := range want {
		if got := globals[name]; got != starlark.String(w) {
			t.Errorf("%s = %v, want %q", name, got, w)
		}
	}
}

func TestScript_CallForwarding(t *testing.T) {
	globals := execScript(t, `
def f(a, b, c, x=0, y=0):
    return (a, b, c, x, y)

r = container(1, 2, x=3)(f, 9, y=4)
`)

	want := starlark.Tuple{
		starlark.MakeInt(1), starlark.MakeInt(2), starlark.MakeInt(9),
		starlark.MakeInt(3), starlark.MakeInt(4),
	}
	got, ok := globals["r"].(starlark.Tuple)
	if !ok || len(got) != len(want) {
		t.Fatalf("r = %v", globals["r"])
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("r[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestScript_EqualityAndTruth(t *testing.T) {
	globals := execScript(t, `
eq = container(1, x=2) == container(1, x=2)
ne = container(1) != container(2)
t1 = bool(container(1))
t2 = bool(container(x=1))
f1 = bool(container())
looped = [v for v in container(1, 2, x=3)]
`)

	for name, want := range map[string]bool{
		"eq": true, "ne": true, "t1": true, "t2": true, "f1": false,
	} {
		if got := globals[name]; got != starlark.Bool(want) {
			t.Errorf("%s = %v, want %v", name, got, want)
		}
	}

	looped := globals["looped"].(*starlark.List)
	if looped.Len() != 2 {
		t.Errorf("iteration yielded %d values, want positionals only", looped.Len())
	}
}

func TestScript_KeysMethod(t *testing.T) {
	globals := execScript(t, `
ks = [k for k in container(1, a=1, b=2).keys()]
none = [k for k in container(1).keys()]
`)

	ks := globals["ks"].(*starlark.List)
	if ks.Len() != 2 || ks.Index(0) != starlark.String("a") || ks.Index(1) != starlark.String("b") {
		t.Errorf("keys = %v", ks)
	}
	if globals["none"].(*starlark.List).Len() != 0 {
		t.Errorf("keys of keyword-less container = %v", globals["none"])
	}
}
