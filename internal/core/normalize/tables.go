package normalize

// diacriticTable is the fixed substitution set for the languages the catalog
// actually carries (pt/es accents plus a few tr/de letters). Applied after
// case folding, so only lowercase forms appear here
var diacriticTable = map[rune]rune{
	'á': 'a', 'à': 'a', 'â': 'a', 'ã': 'a', 'ä': 'a', 'å': 'a',
	'é': 'e', 'è': 'e', 'ê': 'e', 'ë': 'e',
	'í': 'i', 'ì': 'i', 'î': 'i', 'ï': 'i', 'ı': 'i',
	'ó': 'o', 'ò': 'o', 'ô': 'o', 'õ': 'o', 'ö': 'o',
	'ú': 'u', 'ù': 'u', 'û': 'u', 'ü': 'u',
	'ç': 'c', 'ñ': 'n', 'ş': 's', 'ğ': 'g', 'ý': 'y',
}

// typoTable fixes known misspellings of domain tool names. Whole-token match
// only; anything subtler is the fuzzy matcher's job
var typoTable = map[string]string{
	"dokcer":    "docker",
	"docekr":    "docker",
	"dcoker":    "docker",
	"kubectll":  "kubectl",
	"kubctl":    "kubectl",
	"kuebctl":   "kubectl",
	"gerp":      "grep",
	"grpe":      "grep",
	"finde":     "find",
	"fnd":       "find",
	"lsit":      "list",
	"slq":       "sql",
	"postgress": "postgres",
	"posgres":   "postgres",
	"ngnix":     "nginx",
	"nginix":    "nginx",
}

// verbTable canonicalizes inflected imperatives across the supported
// languages onto one english verb per action, so intent patterns only need
// the canonical form
var verbTable = map[string]string{
	// show
	"shows": "show", "showing": "show", "showed": "show",
	"mostrar": "show", "mostre": "show", "mostra": "show", "muestra": "show", "muestre": "show",
	"exibir": "show", "exiba": "show",
	// list
	"lists": "list", "listing": "list", "listed": "list",
	"listar": "list", "liste": "list", "lista": "list",
	// find
	"finds": "find", "finding": "find", "found": "find",
	"encontrar": "find", "encontre": "find", "buscar": "find", "busque": "find",
	"procurar": "find", "procure": "find", "achar": "find", "ache": "find",
	// remove
	"removes": "remove", "removing": "remove", "removed": "remove",
	"remover": "remove", "remova": "remove",
	"delete": "remove", "deletes": "remove", "deleting": "remove", "deleted": "remove",
	"deletar": "remove",
	"apagar": "remove", "apague": "remove", "apaga": "remove",
	"excluir": "remove", "exclua": "remove",
	// restart
	"restarts": "restart", "restarting": "restart", "restarted": "restart",
	"reiniciar": "restart", "reinicie": "restart", "reinicia": "restart",
	// stop
	"stops": "stop", "stopping": "stop", "stopped": "stop",
	// note: "para" stays untouched, it is also the pt preposition "for"
	"parar": "stop", "pare": "stop", "detener": "stop", "detenga": "stop",
	// count
	"counts": "count", "counting": "count", "counted": "count",
	"contar": "count", "conte": "count", "cuenta": "count",
	// search
	"searches": "search", "searching": "search", "searched": "search",
	"pesquisar": "search", "pesquise": "search", "pesquisa": "search",
	// open
	"opens": "open", "opening": "open", "opened": "open",
	"abrir": "open", "abra": "open", "abre": "open",
}
