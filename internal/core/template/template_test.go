package template

import (
	"testing"

	"incant/internal/core/catalog"
	"incant/internal/core/entity"
	perr "incant/internal/platform/errors"
)

func testSnapshot(t *testing.T) *catalog.Snapshot {
	t.Helper()
	s, err := catalog.Load()
	if err != nil {
		t.Fatalf("catalog.Load: %v", err)
	}
	return s
}

func TestSelectPrimary(t *testing.T) {
	sel, err := New(testSnapshot(t)).Select("shell", "find", entity.NewBag())
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if sel.Template.ID != "shell.find" || sel.Override != "" {
		t.Fatalf("got %q override %q", sel.Template.ID, sel.Override)
	}
}

func TestSelectOverrideOnEntityValue(t *testing.T) {
	bag := entity.NewBag()
	bag.Set("target", entity.String{V: "directories"}, entity.Provenance{})

	sel, err := New(testSnapshot(t)).Select("shell", "list", bag)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if sel.Template.ID != "shell.list_dirs" || sel.Override != "target" {
		t.Fatalf("got %q override %q", sel.Template.ID, sel.Override)
	}

	// a different value keeps the primary
	bag = entity.NewBag()
	bag.Set("target", entity.String{V: "files"}, entity.Provenance{})
	sel, err = New(testSnapshot(t)).Select("shell", "list", bag)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if sel.Template.ID != "shell.list" {
		t.Fatalf("got %q", sel.Template.ID)
	}
}

func TestSelectOverrideOnPresence(t *testing.T) {
	s := testSnapshot(t)

	bag := entity.NewBag()
	sel, err := New(s).Select("docker", "service_status", bag)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if sel.Template.ID != "docker.service_status" {
		t.Fatalf("got %q", sel.Template.ID)
	}

	bag.Set("container", entity.String{V: "nginx"}, entity.Provenance{})
	sel, err = New(s).Select("docker", "service_status", bag)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if sel.Template.ID != "docker.service_status_named" {
		t.Fatalf("got %q", sel.Template.ID)
	}
}

func TestSelectDeterministic(t *testing.T) {
	s := testSnapshot(t)
	bag := entity.NewBag()
	bag.Set("target", entity.String{V: "directories"}, entity.Provenance{})

	var prev string
	for i := 0; i < 10; i++ {
		sel, err := New(s).Select("shell", "list", bag)
		if err != nil {
			t.Fatalf("Select: %v", err)
		}
		if prev != "" && sel.Template.ID != prev {
			t.Fatalf("selection changed: %q -> %q", prev, sel.Template.ID)
		}
		prev = sel.Template.ID
	}
}

func TestSelectUnknownIntent(t *testing.T) {
	_, err := New(testSnapshot(t)).Select("shell", "dance", entity.NewBag())
	if err == nil || !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("err = %v", err)
	}
}
