package editor

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestServiceOpenPrefersStoredDraft(t *testing.T) {
	store := newFakeStore()
	store.drafts["p"] = Draft{Code: "int main(void) { return 1; }\n", Language: "cpp"}
	svc := NewService(store, zerolog.Nop())

	d, err := svc.Open(context.Background(), "p", map[string]string{"c": "// starter"})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if d.Language != "cpp" {
		t.Fatalf("Open returned language %q, want stored cpp", d.Language)
	}
}

func TestServiceOpenFallsBackToStarterCode(t *testing.T) {
	svc := NewService(newFakeStore(), zerolog.Nop())

	d, err := svc.Open(context.Background(), "p", map[string]string{
		"c":      "#include <stdio.h>\n\nint main(void) {\n}\n\n",
		"python": "def solve():\n    pass\n",
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if d.Language != DefaultLanguage {
		t.Fatalf("starter draft language %q, want %q", d.Language, DefaultLanguage)
	}
	want := "#include <stdio.h>\n\nint main(void) {\n}\n"
	if d.Code != want {
		t.Fatalf("starter code %q, want %q", d.Code, want)
	}
}

func TestServiceOpenPropagatesStoreError(t *testing.T) {
	store := newFakeStore()
	store.loadErr = errors.New("db locked")
	svc := NewService(store, zerolog.Nop())

	if _, err := svc.Open(context.Background(), "p", nil); !errors.Is(err, store.loadErr) {
		t.Fatalf("Open returned %v, want %v", err, store.loadErr)
	}
}

func TestServiceSaveFillsDefaultLanguage(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, zerolog.Nop())

	if err := svc.Save(context.Background(), "p", Draft{Code: "x"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	waitIdle(t, svc.co, "p")

	store.mu.Lock()
	d := store.drafts["p"]
	store.mu.Unlock()
	if d.Language != DefaultLanguage {
		t.Fatalf("saved language %q, want %q", d.Language, DefaultLanguage)
	}
}

func TestLanguageRegistry(t *testing.T) {
	if _, ok := LanguageByID(DefaultLanguage); !ok {
		t.Fatalf("default language %q not registered", DefaultLanguage)
	}
	if _, ok := LanguageByID("cobol"); ok {
		t.Fatal("unknown language reported as registered")
	}

	first := Languages()[0]
	last := Languages()[len(Languages())-1]
	if got := NextLanguage(last.ID); got.ID != first.ID {
		t.Fatalf("NextLanguage(%q) = %q, want wrap to %q", last.ID, got.ID, first.ID)
	}
	if got := NextLanguage("cobol"); got.ID != first.ID {
		t.Fatalf("NextLanguage(unknown) = %q, want %q", got.ID, first.ID)
	}
}
