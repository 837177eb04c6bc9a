package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeLimit(t *testing.T) {
	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("zero limit normalized to %d", got)
	}
	if got := NormalizeLimit(-5); got != DefaultLimit {
		t.Fatalf("negative limit normalized to %d", got)
	}
	if got := NormalizeLimit(MaxLimit + 50); got != MaxLimit {
		t.Fatalf("oversized limit normalized to %d", got)
	}
	if got := NormalizeLimit(40); got != 40 {
		t.Fatalf("valid limit rewritten to %d", got)
	}
	if got := LimitWithBuffer(40); got != 41 {
		t.Fatalf("buffered limit is %d", got)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	original := Cursor{
		CreatedAt: time.Date(2026, 3, 14, 9, 26, 53, 589793238, time.UTC),
		ID:        uuid.New(),
	}

	parsed, err := ParseCursor(EncodeCursor(original))
	if err != nil {
		t.Fatal(err)
	}
	if parsed == nil {
		t.Fatal("round trip lost the cursor")
	}
	if !parsed.CreatedAt.Equal(original.CreatedAt) || parsed.ID != original.ID {
		t.Fatalf("got %+v, want %+v", parsed, original)
	}
}

func TestParseCursorEmptyMeansFirstPage(t *testing.T) {
	cursor, err := ParseCursor("   ")
	if err != nil {
		t.Fatal(err)
	}
	if cursor != nil {
		t.Fatalf("blank cursor parsed as %+v", cursor)
	}
}

func TestParseCursorRejectsGarbage(t *testing.T) {
	cases := map[string]string{
		"not base64":  "%%%",
		"no parts":    base64.StdEncoding.EncodeToString([]byte("justonefield")),
		"bad time":    base64.StdEncoding.EncodeToString([]byte("yesterday|" + uuid.NewString())),
		"bad uuid":    base64.StdEncoding.EncodeToString([]byte(time.Now().UTC().Format(time.RFC3339Nano) + "|not-a-uuid")),
		"empty parts": base64.StdEncoding.EncodeToString([]byte("|")),
	}
	for name, value := range cases {
		if _, err := ParseCursor(value); err == nil {
			t.Fatalf("%s: cursor accepted", name)
		}
	}
}
