package entity

import (
	"testing"

	"incant/internal/platform/testkit"
)

func TestExtractFindLogFiles(t *testing.T) {
	r := Default()
	bag := r.Extract("find *.log files bigger than 10mb older than 2 days", "shell")

	want := map[string]string{
		"extension": "log",
		"size":      ">10M",
		"age":       ">2d",
		"target":    "files",
	}
	for name, rendered := range want {
		v, ok := bag.Get(name)
		if !ok {
			t.Fatalf("entity %q missing, have %v", name, bag.Names())
		}
		if v.String() != rendered {
			t.Fatalf("entity %q = %q, want %q", name, v.String(), rendered)
		}
	}
	if !bag.Frozen() {
		t.Fatalf("bag not frozen after extraction")
	}
}

func TestExtractUserFolders(t *testing.T) {
	r := Default()
	bag := r.Extract("show root user's folders", "shell")

	if got := bag.StringVal("target"); got != "directories" {
		t.Fatalf("target = %q", got)
	}
	v, ok := bag.Get("path")
	if !ok {
		t.Fatalf("path missing, have %v", bag.Names())
	}
	if v.String() != "/home/root" {
		t.Fatalf("path = %q", v.String())
	}
	e, _ := bag.Entry("path")
	if e.Prov.Source != SourcePost {
		t.Fatalf("path provenance = %v", e.Prov)
	}
}

func TestExtractUserNounIsNotAUsername(t *testing.T) {
	r := Default()
	// "user folders" uses user as an adjective, not an account name
	for _, in := range []string{"list user folders", "show user folders"} {
		bag := r.Extract(in, "shell")
		if got := bag.StringVal("user"); got != "" {
			t.Fatalf("Extract(%q) user = %q", in, got)
		}
		if v, ok := bag.Get("path"); ok && v.String() == "/home/folders" {
			t.Fatalf("Extract(%q) path = %q", in, v.String())
		}
		if got := bag.StringVal("target"); got != "directories" {
			t.Fatalf("Extract(%q) target = %q", in, got)
		}
	}

	// a real account name right after "user" still extracts
	bag := r.Extract("list folders of user alice", "shell")
	if got := bag.StringVal("user"); got != "alice" {
		t.Fatalf("user = %q", got)
	}
}

func TestExtractPathLiteral(t *testing.T) {
	r := Default()
	bag := r.Extract("find big files in /var/log", "shell")
	v, ok := bag.Get("path")
	if !ok {
		t.Fatalf("path missing, have %v", bag.Names())
	}
	p, ok := v.(Path)
	if !ok || p.Kind != PathLiteral || p.Raw != "/var/log" {
		t.Fatalf("path = %#v", v)
	}
}

func TestExtractCurrentUserHome(t *testing.T) {
	r := Default()
	bag := r.Extract("find my files", "shell")
	v, ok := bag.Get("path")
	if !ok {
		t.Fatalf("path missing, have %v", bag.Names())
	}
	p, ok := v.(Path)
	if !ok || p.Kind != PathHome {
		t.Fatalf("path = %#v", v)
	}
}

func TestExtractPriorityFirstMatchWins(t *testing.T) {
	r := Default()
	// the glob form outranks the ".ext files" form for the same entity name
	bag := r.Extract("show .log files and *.tmp stuff", "shell")
	if got := bag.StringVal("extension"); got != "tmp" {
		t.Fatalf("extension = %q", got)
	}
}

func TestExtractSQLTableSkipsArticles(t *testing.T) {
	r := Default()
	bag := r.Extract("remove old records from the users table", "sql")
	if got := bag.StringVal("table"); got != "users" {
		t.Fatalf("table = %q", got)
	}
}

func TestExtractDockerDefaultTail(t *testing.T) {
	r := Default()
	bag := r.Extract("show the logs of nginx", "docker")
	if got := bag.StringVal("container"); got != "nginx" {
		t.Fatalf("container = %q", got)
	}
	v, ok := bag.Get("lines")
	if !ok {
		t.Fatalf("lines missing, have %v", bag.Names())
	}
	if v.String() != "100" {
		t.Fatalf("lines = %q", v.String())
	}

	// a spoken count beats the injected default
	bag = r.Extract("show the last 50 lines of logs of nginx", "docker")
	if v, _ := bag.Get("lines"); v.String() != "50" {
		t.Fatalf("lines = %q", v.String())
	}
}

func TestExtractUnknownDomain(t *testing.T) {
	r := Default()
	bag := r.Extract("find *.log files", "nope")
	if bag.Len() != 0 {
		t.Fatalf("expected empty bag, got %v", bag.Names())
	}
	if !bag.Frozen() {
		t.Fatalf("bag not frozen")
	}
}

func TestPostProcessorsIdempotent(t *testing.T) {
	r := Default()
	text := "show root user's folders bigger than 10mb older than 2 days"
	frozen := r.Extract(text, "shell")

	once := frozen.Clone()
	twice := frozen.Clone()
	for _, name := range r.PostProcessors("shell") {
		if !r.RunPost("shell", name, once, text) {
			t.Fatalf("post processor %q missing", name)
		}
		r.RunPost("shell", name, twice, text)
		r.RunPost("shell", name, twice, text)
	}
	if !once.Equal(twice) {
		t.Fatalf("post processors not idempotent: %v vs %v", once.Names(), twice.Names())
	}
}

func TestFrozenBagRejectsWrites(t *testing.T) {
	r := Default()
	bag := r.Extract("find *.log files", "shell")
	testkit.MustPanic(t, func() {
		bag.Set("extension", String{V: "tmp"}, Provenance{})
	})
	testkit.MustPanic(t, func() {
		bag.Delete("extension")
	})
}

func TestRegisterBadPattern(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("shell", "x", "(unclosed", 1, buildStr(1)); err == nil {
		t.Fatalf("expected compile error")
	}
}
