package pipeline

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"incant/internal/core/capability"
	"incant/internal/core/catalog"
	"incant/internal/core/classify"
	"incant/internal/core/entity"
	"incant/internal/core/normalize"
	"incant/internal/core/synth"
	"incant/internal/platform/testkit"
)

func newTestPipeline(t *testing.T, opts Options) *Pipeline {
	t.Helper()
	snap, err := catalog.Load()
	if err != nil {
		t.Fatalf("catalog.Load: %v", err)
	}
	return Default(catalog.NewProvider(snap, zerolog.Nop()), opts, zerolog.Nop())
}

func TestEmptyInputRejected(t *testing.T) {
	p := newTestPipeline(t, Options{})
	res := p.Run(context.Background(), "")
	if res.Status != StatusRejected || res.Success() {
		t.Fatalf("status = %v", res.Status)
	}
	if res.Command != UnknownCommand {
		t.Fatalf("command = %q", res.Command)
	}
	if res.Detection.Confidence != 0 {
		t.Fatalf("confidence = %v", res.Detection.Confidence)
	}
}

func TestFindLogFilesEndToEnd(t *testing.T) {
	p := newTestPipeline(t, Options{})
	res := p.Run(context.Background(), "Find *.log files bigger than 10MB older than 2 days")
	if !res.Success() {
		t.Fatalf("rejected: %+v", res)
	}
	if res.Detection.Domain != "shell" || res.Detection.Intent != "find" {
		t.Fatalf("detection = %+v", res.Detection)
	}
	if res.TemplateID != "shell.find" {
		t.Fatalf("template = %q", res.TemplateID)
	}
	testkit.MustContain(t, res.Command, `*.log`)
	testkit.MustContain(t, res.Command, `+10M`)
	testkit.MustContain(t, res.Command, `-2`)
	if res.Entities["size"] != ">10M" || res.Entities["age"] != ">2d" {
		t.Fatalf("entities = %v", res.Entities)
	}
}

func TestUserFoldersEndToEnd(t *testing.T) {
	p := newTestPipeline(t, Options{})
	res := p.Run(context.Background(), "show root user's folders")
	if !res.Success() {
		t.Fatalf("rejected: %+v", res)
	}
	if res.TemplateID != "shell.list_dirs" {
		t.Fatalf("template = %q command = %q", res.TemplateID, res.Command)
	}
	if res.Command != `ls -la /home/root | grep "^d"` {
		t.Fatalf("command = %q", res.Command)
	}
}

func TestConfidenceGateForcesRejection(t *testing.T) {
	p := newTestPipeline(t, Options{Threshold: 0.99})
	res := p.Run(context.Background(), "stop the nginx container")
	if res.Success() {
		t.Fatalf("expected rejection, got %q", res.Command)
	}
	// a rejected run never leaks a partial command
	if res.Command != UnknownCommand {
		t.Fatalf("command = %q", res.Command)
	}
	// but it still reports what was understood before the gate
	if res.Entities["container"] != "nginx" {
		t.Fatalf("entities = %v", res.Entities)
	}
}

func TestHighRiskEndToEnd(t *testing.T) {
	p := newTestPipeline(t, Options{})
	res := p.Run(context.Background(), "delete the old records from the users table")
	if !res.Success() {
		t.Fatalf("rejected: %+v", res)
	}
	if res.Detection.Stage != "high_risk" || res.Detection.Confidence < 0.90 {
		t.Fatalf("detection = %+v", res.Detection)
	}
	if res.Command != "DELETE FROM users;" {
		t.Fatalf("command = %q", res.Command)
	}
}

type spyFuzzy struct{ calls int }

func (s *spyFuzzy) BestMatch(context.Context, string, []string) (capability.Match, error) {
	s.calls++
	return capability.Match{}, capability.ErrUnavailable
}

func TestTypoTableBeatsFuzzy(t *testing.T) {
	snap, err := catalog.Load()
	if err != nil {
		t.Fatalf("catalog.Load: %v", err)
	}
	provider := catalog.NewProvider(snap, zerolog.Nop())
	spy := &spyFuzzy{}
	p := New(
		provider,
		normalize.New(),
		classify.New(provider, spy, zerolog.Nop()),
		entity.Default(),
		synth.Defaults(),
		Options{},
		zerolog.Nop(),
	)

	res := p.Run(context.Background(), "dokcer ps")
	if !res.Success() || res.Command != "docker ps" {
		t.Fatalf("res = %+v", res)
	}
	if spy.calls != 0 {
		t.Fatalf("fuzzy invoked %d times for a typo the table fixes", spy.calls)
	}
}

type panicReRanker struct{}

func (panicReRanker) Score(context.Context, string, string, string) (float64, error) {
	panic("boom")
}

func TestPanicRecoveredToRejection(t *testing.T) {
	p := newTestPipeline(t, Options{ReRanker: panicReRanker{}})
	res := p.Run(context.Background(), "find *.log files")
	if res.Success() {
		t.Fatalf("expected rejection")
	}
	if res.Command != UnknownCommand {
		t.Fatalf("command = %q", res.Command)
	}
	if len(res.Warnings) == 0 {
		t.Fatalf("expected an internal failure warning")
	}
}

type fixedReRanker struct{ score float64 }

func (f fixedReRanker) Score(context.Context, string, string, string) (float64, error) {
	return f.score, nil
}

func TestReRankerIsAdvisory(t *testing.T) {
	// a hostile score drags confidence down but never renames the detection
	p := newTestPipeline(t, Options{ReRanker: fixedReRanker{score: 0}})
	res := p.Run(context.Background(), "find *.log files")
	if res.Detection.Intent != "find" {
		t.Fatalf("reranker changed the intent: %+v", res.Detection)
	}
	full := newTestPipeline(t, Options{}).Run(context.Background(), "find *.log files")
	if res.Detection.Confidence >= full.Detection.Confidence {
		t.Fatalf("expected blended confidence below %v, got %v",
			full.Detection.Confidence, res.Detection.Confidence)
	}
}

func TestRunIsTotal(t *testing.T) {
	p := newTestPipeline(t, Options{})
	inputs := []string{
		"", " ", "????", "find", "stop", "DROP TABLE users",
		"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		"\xff\xfe\xfd",
	}
	for _, in := range inputs {
		res := p.Run(context.Background(), in)
		if res.Status != StatusSuccess && res.Status != StatusRejected {
			t.Fatalf("Run(%q) status = %q", in, res.Status)
		}
		if res.Status == StatusRejected && res.Command != UnknownCommand {
			t.Fatalf("Run(%q) leaked %q", in, res.Command)
		}
	}
}
