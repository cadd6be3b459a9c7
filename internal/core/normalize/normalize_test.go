package normalize

import (
	"context"
	"testing"

	"incant/internal/core/capability"
)

func TestNormalizeCaseAndDiacritics(t *testing.T) {
	n := New()
	got := n.Normalize(context.Background(), "Mostrar Diretórios")
	if got != "show diretorios" {
		t.Fatalf("got %q", got)
	}
}

func TestNormalizeTypoTable(t *testing.T) {
	n := New()
	cases := map[string]string{
		"dokcer ps":     "docker ps",
		"dcoker images": "docker images",
		"lsit files":    "list files",
		"gerp errors":   "grep errors",
	}
	for in, want := range cases {
		if got := n.Normalize(context.Background(), in); got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeVerbCanonicalization(t *testing.T) {
	n := New()
	cases := map[string]string{
		"deletar arquivos":  "remove arquivos",
		"reinicie o nginx":  "restart o nginx",
		"showing processes": "show processes",
	}
	for in, want := range cases {
		if got := n.Normalize(context.Background(), in); got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeWhitespaceAndWidth(t *testing.T) {
	n := New()
	if got := n.Normalize(context.Background(), "  find \t  files\n"); got != "find files" {
		t.Fatalf("whitespace: got %q", got)
	}
	if got := n.Normalize(context.Background(), "ｄｏｃｋｅｒ ｐｓ"); got != "docker ps" {
		t.Fatalf("width fold: got %q", got)
	}
}

func TestNormalizeTotality(t *testing.T) {
	n := New()
	if got := n.Normalize(context.Background(), ""); got != "" {
		t.Fatalf("empty: got %q", got)
	}
	// invalid UTF-8 must not panic or leak invalid bytes
	got := n.Normalize(context.Background(), "find\xff files")
	if got != "find files" && got != "findfiles" {
		t.Fatalf("invalid utf8: got %q", got)
	}
}

func TestNormalizeDeterministic(t *testing.T) {
	n := New()
	in := "Buscar *.LOG arquivos maiores que 10MB"
	a := n.Normalize(context.Background(), in)
	b := n.Normalize(context.Background(), a)
	c := n.Normalize(context.Background(), a)
	if b != c {
		t.Fatalf("normalize not deterministic: %q vs %q", b, c)
	}
	if a == "" {
		t.Fatalf("unexpected empty normalization")
	}
}

type fixedLemma struct{ out string }

func (f fixedLemma) Lemmatize(context.Context, string) (string, error) { return f.out, nil }

func TestNormalizeLemmatizerApplied(t *testing.T) {
	n := New(WithLemmatizer(fixedLemma{out: "canonical form"}))
	if got := n.Normalize(context.Background(), "anything"); got != "canonical form" {
		t.Fatalf("got %q", got)
	}
}

func TestNormalizeLemmatizerUnavailableSkipped(t *testing.T) {
	n := New(WithLemmatizer(capability.NullLemmatizer{}))
	if got := n.Normalize(context.Background(), "find files"); got != "find files" {
		t.Fatalf("got %q", got)
	}
}
