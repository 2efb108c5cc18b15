package suggest

import (
	"testing"
)

func TestParseDraft_PlainJSON(t *testing.T) {
	draft, err := parseDraft(`{"title":"5 minute reading","description":"Read one page.","target":7}`)
	if err != nil {
		t.Fatalf("parseDraft() error = %v", err)
	}
	if draft.Title != "5 minute reading" {
		t.Errorf("Title = %q", draft.Title)
	}
	if draft.Target != 7 {
		t.Errorf("Target = %d, want 7", draft.Target)
	}
}

func TestParseDraft_CodeFenced(t *testing.T) {
	content := "```json\n{\"title\":\"Daily recap\",\"description\":\"Write three sentences.\",\"target\":5}\n```"
	draft, err := parseDraft(content)
	if err != nil {
		t.Fatalf("parseDraft() error = %v", err)
	}
	if draft.Title != "Daily recap" {
		t.Errorf("Title = %q", draft.Title)
	}
}

func TestParseDraft_MissingTitle(t *testing.T) {
	if _, err := parseDraft(`{"description":"no title","target":3}`); err == nil {
		t.Error("parseDraft() = nil error, want failure for missing title")
	}
}

func TestParseDraft_DefaultsTarget(t *testing.T) {
	draft, err := parseDraft(`{"title":"t","description":"d"}`)
	if err != nil {
		t.Fatalf("parseDraft() error = %v", err)
	}
	if draft.Target != 10 {
		t.Errorf("Target = %d, want defaulted 10", draft.Target)
	}
}

func TestParseDraft_Garbage(t *testing.T) {
	if _, err := parseDraft("sorry, I cannot help with that"); err == nil {
		t.Error("parseDraft() = nil error, want failure for non-JSON output")
	}
}
