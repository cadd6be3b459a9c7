package synth

import (
	"testing"

	"incant/internal/core/catalog"
	"incant/internal/core/entity"
	perr "incant/internal/platform/errors"
	"incant/internal/platform/testkit"
)

func tpl(id, domain, intent, text string) catalog.Template {
	return catalog.Template{ID: id, Domain: domain, Intent: intent, Text: text}
}

func TestSynthesizeFind(t *testing.T) {
	bag := entity.NewBag()
	bag.Set("extension", entity.String{V: "log"}, entity.Provenance{})
	bag.Set("size", entity.Size{V: 10, Unit: "M", Op: entity.OpAfter}, entity.Provenance{})
	bag.Set("age", entity.Window{V: 2, Unit: "d", Op: entity.OpBefore}, entity.Provenance{})
	bag.Set("target", entity.String{V: "files"}, entity.Provenance{})

	cmd, err := Defaults().Synthesize(
		tpl("shell.find", "shell", "find", "find {path}{target}{extension}{size}{age}"), bag)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if cmd.TemplateID != "shell.find" {
		t.Fatalf("template id = %q", cmd.TemplateID)
	}
	testkit.MustContain(t, cmd.Text, `find .`)
	testkit.MustContain(t, cmd.Text, `-type f`)
	testkit.MustContain(t, cmd.Text, `-name "*.log"`)
	testkit.MustContain(t, cmd.Text, `-size +10M`)
	testkit.MustContain(t, cmd.Text, `-mtime -2`)
	if len(cmd.Warnings) != 0 {
		t.Fatalf("warnings = %v", cmd.Warnings)
	}
}

func TestSynthesizeDefaultsFillHoles(t *testing.T) {
	cmd, err := Defaults().Synthesize(
		tpl("shell.find", "shell", "find", "find {path}{target}{extension}{size}{age}"), entity.NewBag())
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if cmd.Text != "find ." {
		t.Fatalf("command = %q", cmd.Text)
	}
}

func TestSynthesizeGapMarker(t *testing.T) {
	cmd, err := Defaults().Synthesize(
		tpl("sql.select", "sql", "select", "SELECT * FROM {table} LIMIT {limit};"), entity.NewBag())
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	testkit.MustContain(t, cmd.Text, "<missing:table>")
	testkit.MustContain(t, cmd.Text, "LIMIT 100")
	if len(cmd.Warnings) != 1 {
		t.Fatalf("warnings = %v", cmd.Warnings)
	}
}

func TestSynthesizeDockerLinesDefault(t *testing.T) {
	bag := entity.NewBag()
	bag.Set("container", entity.String{V: "nginx"}, entity.Provenance{})
	cmd, err := Defaults().Synthesize(
		tpl("docker.service_logs", "docker", "service_logs", "docker logs --tail {lines} {container}"), bag)
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if cmd.Text != "docker logs --tail 100 nginx" {
		t.Fatalf("command = %q", cmd.Text)
	}
}

func TestSynthesizeUnknownDomain(t *testing.T) {
	_, err := Defaults().Synthesize(tpl("x.y", "mainframe", "y", "{z}"), entity.NewBag())
	if err == nil || !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestShellEscape(t *testing.T) {
	a := ShellAdapter{}
	if got := a.Escape(`a"b$c`); got != `a\"b\$c` {
		t.Fatalf("escape = %q", got)
	}
}

func TestDockerEscapeStripsHostileRunes(t *testing.T) {
	a := DockerAdapter{}
	if got := a.Escape("ngi nx;rm -rf"); got != "nginxrm-rf" {
		t.Fatalf("escape = %q", got)
	}
}

func TestBrowserEscapeEncodesQuery(t *testing.T) {
	a := BrowserAdapter{}
	if got := a.Escape(`cat "videos" & more`); got != `cat+%22videos%22+%26+more` {
		t.Fatalf("escape = %q", got)
	}
}

func TestSQLEscape(t *testing.T) {
	a := SQLAdapter{}
	if got := a.Escape(`users; DROP TABLE x`); got != `users DROP TABLE x` {
		t.Fatalf("escape = %q", got)
	}
}
