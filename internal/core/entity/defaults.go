package entity

import (
	"strconv"
	"strings"
)

// Default returns a registry preloaded with the stock pattern set and post
// processors for the shipped domains. Text reaching these patterns is already
// normalized: lowercased, diacritics folded, typos fixed, verbs canonicalized
func Default() *Registry {
	r := NewRegistry()
	registerShell(r)
	registerSQL(r)
	registerDocker(r)
	registerBrowser(r)
	return r
}

func registerShell(r *Registry) {
	// extension: "*.log", ".log files", "log files"
	r.MustRegister("shell", "extension",
		`\*\.([a-z0-9]{1,8})\b`, 20, buildStr(1))
	r.MustRegister("shell", "extension",
		`\.([a-z0-9]{1,8})\s+(?:files?|arquivos?)\b`, 10, buildStr(1))
	r.MustRegister("shell", "extension",
		`(?:files?|arquivos?)\s+\.([a-z0-9]{1,8})\b`, 5, buildStr(1))

	// size: comparisons in either language; unit normalization happens in a
	// post processor so the pattern stays unit-agnostic
	r.MustRegister("shell", "size",
		`(?:bigger|larger|greater|more)\s+than\s+(\d+(?:\.\d+)?)\s*(kb|mb|gb|tb|k|m|g|t)\b`, 10,
		buildSize(OpAfter))
	r.MustRegister("shell", "size",
		`(?:maior(?:es)?)\s+(?:que|do que)\s+(\d+(?:\.\d+)?)\s*(kb|mb|gb|tb|k|m|g|t)\b`, 10,
		buildSize(OpAfter))
	r.MustRegister("shell", "size",
		`(?:smaller|less)\s+than\s+(\d+(?:\.\d+)?)\s*(kb|mb|gb|tb|k|m|g|t)\b`, 9,
		buildSize(OpBefore))
	r.MustRegister("shell", "size",
		`(?:menor(?:es)?)\s+(?:que|do que)\s+(\d+(?:\.\d+)?)\s*(kb|mb|gb|tb|k|m|g|t)\b`, 9,
		buildSize(OpBefore))

	// age: time windows with before/after/within operators
	r.MustRegister("shell", "age",
		`(?:older\s+than|mais\s+antigos?\s+(?:que|do que))\s+(\d+(?:\.\d+)?)\s*(days?|dias?|hours?|horas?)\b`, 10,
		buildWindow(OpBefore))
	r.MustRegister("shell", "age",
		`(?:newer\s+than|mais\s+novos?\s+(?:que|do que))\s+(\d+(?:\.\d+)?)\s*(days?|dias?|hours?|horas?)\b`, 10,
		buildWindow(OpAfter))
	r.MustRegister("shell", "age",
		`(?:within|in)\s+(?:the\s+)?last\s+(\d+(?:\.\d+)?)\s*(days?|dias?|hours?|horas?)\b`, 9,
		buildWindow(OpWithin))
	r.MustRegister("shell", "age",
		`(?:nos?\s+)?ultim[oa]s\s+(\d+(?:\.\d+)?)\s*(days?|dias?|hours?|horas?)\b`, 9,
		buildWindow(OpWithin))

	// path: explicit absolute paths beat prepositional phrases beat bare paths
	r.MustRegister("shell", "path",
		`(?:in|at|under|inside|em|no|na|dentro de)\s+(/[a-z0-9._/-]+)`, 10, buildPathLiteral(1))
	r.MustRegister("shell", "path",
		`(/[a-z0-9._/-]{2,})`, 5, buildPathLiteral(1))
	r.MustRegister("shell", "path",
		`\b(?:my home|home dir(?:ectory)?|minha (?:pasta|casa)|pasta pessoal)\b`, 3,
		func([]string) (Value, bool) { return Path{Kind: PathHome}, true })

	// username: explicit user beats possessive beats first-person sentinel
	r.MustRegister("shell", "user",
		`(?:user|usuario|do usuario)\s+([a-z_][a-z0-9_-]*)\b`, 10, buildUserExplicit())
	r.MustRegister("shell", "user",
		`\b([a-z_][a-z0-9_-]*)\s+user'?s\b`, 8, buildUserPossessive())
	r.MustRegister("shell", "user",
		`\b(?:my|minha|minhas|meu|meus)\b`, 5,
		func([]string) (Value, bool) { return String{V: CurrentUser}, true })

	// target: what kind of node the command should operate on
	r.MustRegister("shell", "target",
		`\b(?:folders?|director(?:y|ies)|dirs?|pastas?|diretorios?)\b`, 10,
		func([]string) (Value, bool) { return String{V: "directories"}, true })
	r.MustRegister("shell", "target",
		`\b(?:files?|arquivos?)\b`, 5,
		func([]string) (Value, bool) { return String{V: "files"}, true })

	// process name for process listing/kill
	r.MustRegister("shell", "process",
		`(?:process(?:es)?|processos?)\s+(?:of\s+|do\s+|de\s+)?([a-z0-9_.-]{2,})\b`, 10, buildStr(1))

	// Post processors, in order. Each is idempotent
	r.RegisterPost("shell", "collapse_user_path", collapseUserPath)
	r.RegisterPost("shell", "normalize_size_unit", normalizeSizeUnit)
	r.RegisterPost("shell", "normalize_age_unit", normalizeAgeUnit)
}

func registerSQL(r *Registry) {
	r.MustRegister("sql", "table",
		`(?:from|table|tabela|da tabela|na tabela)\s+(?:the\s+|a\s+|as\s+)?([a-z_][a-z0-9_]*)\b`, 10,
		buildTableName())
	r.MustRegister("sql", "table",
		`([a-z_][a-z0-9_]*)\s+(?:table|tabela)s?\b`, 5, buildTableName())
	r.MustRegister("sql", "limit",
		`(?:limit|top|first|primeir[oa]s?)\s+(\d+)\b`, 10, buildNum(1))
	r.MustRegister("sql", "column",
		`(?:column|coluna|campo)\s+([a-z_][a-z0-9_]*)\b`, 10, buildStr(1))
}

func registerDocker(r *Registry) {
	r.MustRegister("docker", "container",
		`(?:container|conteiner)\s+([a-z0-9][a-z0-9_.-]*)\b`, 10, buildStr(1))
	r.MustRegister("docker", "container",
		`(?:restart|stop|start)\s+(?:the\s+|o\s+|a\s+)?([a-z0-9][a-z0-9_.-]+)\b`, 5,
		buildContainerFromVerb())
	r.MustRegister("docker", "container",
		`(?:logs?\s+(?:of|do|da|from)\s+)([a-z0-9][a-z0-9_.-]+)\b`, 5, buildStr(1))
	r.MustRegister("docker", "lines",
		`(?:last|tail|ultimas?)\s+(\d+)\s+(?:lines?|linhas?)\b`, 10, buildNum(1))

	r.RegisterPost("docker", "default_tail", defaultTail)
}

func registerBrowser(r *Registry) {
	r.MustRegister("browser", "query",
		`(?:search(?:\s+the\s+web)?(?:\s+for)?|google|pesquise?\s+(?:por\s+)?)\s*(.+)$`, 10, buildStr(1))
	r.MustRegister("browser", "url",
		`\b((?:https?://)?[a-z0-9-]+(?:\.[a-z0-9-]+)+(?:/[^\s]*)?)\b`, 20, buildStr(1))
}

// builders

func buildStr(group int) Builder {
	return func(m []string) (Value, bool) {
		if group >= len(m) || strings.TrimSpace(m[group]) == "" {
			return nil, false
		}
		return String{V: strings.TrimSpace(m[group])}, true
	}
}

func buildPathLiteral(group int) Builder {
	return func(m []string) (Value, bool) {
		if group >= len(m) || strings.TrimSpace(m[group]) == "" {
			return nil, false
		}
		return Path{Kind: PathLiteral, Raw: strings.TrimSpace(m[group])}, true
	}
}

func buildNum(group int) Builder {
	return func(m []string) (Value, bool) {
		if group >= len(m) {
			return nil, false
		}
		f, err := strconv.ParseFloat(m[group], 64)
		if err != nil {
			return nil, false
		}
		return Number{V: f}, true
	}
}

func buildSize(op Op) Builder {
	return func(m []string) (Value, bool) {
		if len(m) < 3 {
			return nil, false
		}
		f, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return nil, false
		}
		return Size{V: f, Unit: strings.ToUpper(m[2]), Op: op}, true
	}
}

func buildWindow(op Op) Builder {
	return func(m []string) (Value, bool) {
		if len(m) < 3 {
			return nil, false
		}
		f, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return nil, false
		}
		return Window{V: f, Unit: m[2], Op: op}, true
	}
}

// buildUserExplicit rejects common nouns that follow "user" as a plain
// adjective ("user folders", "user files") rather than naming an account
func buildUserExplicit() Builder {
	stop := map[string]bool{
		"folders": true, "folder": true, "files": true, "file": true,
		"directories": true, "directory": true, "dirs": true, "dir": true,
		"pastas": true, "pasta": true, "arquivos": true, "arquivo": true,
		"diretorios": true, "diretorio": true, "home": true, "account": true,
	}
	return func(m []string) (Value, bool) {
		if len(m) < 2 || stop[m[1]] {
			return nil, false
		}
		return String{V: m[1]}, true
	}
}

// buildUserPossessive rejects generic possessives ("current user's") so the
// explicit-user pattern does not swallow them
func buildUserPossessive() Builder {
	stop := map[string]bool{"current": true, "the": true, "a": true, "this": true, "any": true}
	return func(m []string) (Value, bool) {
		if len(m) < 2 || stop[m[1]] {
			return nil, false
		}
		return String{V: m[1]}, true
	}
}

// buildTableName rejects articles and generic qualifiers that sit between
// the preposition and the real table name
func buildTableName() Builder {
	stop := map[string]bool{
		"the": true, "a": true, "this": true, "that": true, "from": true,
		"table": true, "tabela": true, "old": true, "all": true, "every": true,
	}
	return func(m []string) (Value, bool) {
		if len(m) < 2 || stop[m[1]] {
			return nil, false
		}
		return String{V: m[1]}, true
	}
}

// buildContainerFromVerb rejects bare nouns that are really service keywords
func buildContainerFromVerb() Builder {
	stop := map[string]bool{"container": true, "conteiner": true, "service": true, "servico": true, "all": true, "todos": true}
	return func(m []string) (Value, bool) {
		if len(m) < 2 || stop[m[1]] {
			return nil, false
		}
		return String{V: m[1]}, true
	}
}

// post processors

// collapseUserPath resolves a user-context phrase plus a target entity into a
// home-directory path, overriding whatever the generic path pattern produced.
// An explicit user maps to that user's home; the current-user sentinel maps to
// the home sentinel. Idempotent: resolving twice lands on the same path
func collapseUserPath(b *Bag, _ string) {
	user := b.StringVal("user")
	if user == "" {
		return
	}
	if !b.Has("target") && !b.Has("path") {
		return
	}
	prov := Provenance{Source: SourcePost, Pattern: "collapse_user_path"}
	if user == CurrentUser {
		b.Set("path", Path{Kind: PathHome}, prov)
		return
	}
	b.Set("path", Path{Kind: PathUserHome, User: user}, prov)
}

// normalizeSizeUnit rewrites size units to the shell convention used by
// find(1): KB -> k, MB -> M, GB -> G, TB -> T. Idempotent
func normalizeSizeUnit(b *Bag, _ string) {
	v, ok := b.Get("size")
	if !ok {
		return
	}
	s, ok := v.(Size)
	if !ok {
		return
	}
	unit := s.Unit
	switch unit {
	case "KB", "K":
		unit = "k"
	case "MB":
		unit = "M"
	case "GB":
		unit = "G"
	case "TB":
		unit = "T"
	}
	if unit == s.Unit {
		return
	}
	s.Unit = unit
	b.Set("size", s, Provenance{Source: SourcePost, Pattern: "normalize_size_unit"})
}

// normalizeAgeUnit rewrites window units to single letters: days -> d,
// hours -> h. Idempotent
func normalizeAgeUnit(b *Bag, _ string) {
	v, ok := b.Get("age")
	if !ok {
		return
	}
	w, ok := v.(Window)
	if !ok {
		return
	}
	unit := w.Unit
	switch {
	case strings.HasPrefix(unit, "d"):
		unit = "d"
	case strings.HasPrefix(unit, "h"):
		unit = "h"
	}
	if unit == w.Unit {
		return
	}
	w.Unit = unit
	b.Set("age", w, Provenance{Source: SourcePost, Pattern: "normalize_age_unit"})
}

// defaultTail gives docker log queries a line count when none was spoken
func defaultTail(b *Bag, text string) {
	if b.Has("lines") {
		return
	}
	if !strings.Contains(text, "log") {
		return
	}
	b.Set("lines", Number{V: 100}, Provenance{Source: SourcePost, Pattern: "default_tail"})
}
