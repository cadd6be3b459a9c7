package modkit

import (
	"net/http"
	"testing"

	phttp "incant/internal/platform/net/http"
)

func TestBuildDefaults(t *testing.T) {
	b := Build()
	if b.Name != "" || b.Prefix != "" || len(b.Mw) != 0 {
		t.Fatalf("unexpected defaults: %+v", b)
	}
	if b.Register == nil {
		t.Fatalf("register hook must default to a no-op, not nil")
	}
	b.Register(nil)
}

func TestBuildAppliesOptions(t *testing.T) {
	mw := func(next http.Handler) http.Handler { return next }
	called := false

	b := Build(
		WithName("translate"),
		WithPrefix("/translate"),
		WithMiddlewares(mw),
		WithRegister(func(phttp.Router) { called = true }),
	)
	if b.Name != "translate" || b.Prefix != "/translate" || len(b.Mw) != 1 {
		t.Fatalf("built = %+v", b)
	}
	b.Register(nil)
	if !called {
		t.Fatalf("register hook not wired")
	}
}
