package assets

import (
	"io/fs"
	"strings"
	"testing"
)

func TestGetTemplatesFS(t *testing.T) {
	for _, name := range []string{GroupReadmeTemplate, LessonReadmeTemplate, ContainerReadmeTemplate} {
		data, err := fs.ReadFile(GetTemplatesFS(), name)
		if err != nil {
			t.Fatalf("Failed to read %s: %v", name, err)
		}
		if !strings.HasPrefix(string(data), "# {{{title}}}") {
			t.Errorf("%s should start with the title heading, got %q", name, data)
		}
	}
}

func TestGetTemplate_Missing(t *testing.T) {
	if _, err := GetTemplate("readme/nope.md.hbs"); err == nil {
		t.Error("expected error for missing template")
	}
}

func TestGetSchemasFS(t *testing.T) {
	data, err := fs.ReadFile(GetSchemasFS(), "meta/meta-record-v1.yaml")
	if err != nil {
		t.Fatalf("Failed to read schema: %v", err)
	}
	if len(data) == 0 {
		t.Error("schema is empty")
	}
}

func TestGetSchemaNames(t *testing.T) {
	infos := GetSchemaNames()
	if len(infos) != 1 {
		t.Fatalf("expected 1 schema, got %d", len(infos))
	}
	if infos[0].Name != MetaRecordSchema || infos[0].Draft != "Draft-07" {
		t.Errorf("unexpected schema info: %+v", infos[0])
	}
	if infos[0].Path != "meta/meta-record-v1.yaml" {
		t.Errorf("unexpected schema path: %q", infos[0].Path)
	}
}
