package browser

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSnapshot(t *testing.T) {
	tests := []struct {
		name string
		text string
		want map[string]RefEntry
	}{
		{
			name: "full line with name and nth",
			text: `  - button "Search" [ref=e7] [nth=2]`,
			want: map[string]RefEntry{
				"e7": {Role: "button", Name: "Search", Nth: 2},
			},
		},
		{
			name: "name and nth optional",
			text: "- link \"Docs\" [ref=e1]\n- textbox [ref=e2]",
			want: map[string]RefEntry{
				"e1": {Role: "link", Name: "Docs"},
				"e2": {Role: "textbox"},
			},
		},
		{
			name: "lines without ref markers are skipped",
			text: "- heading \"Welcome\"\n- list:\n  - listitem",
			want: map[string]RefEntry{},
		},
		{
			name: "missing role token defaults to generic",
			text: `- "unnamed" [ref=e3]`,
			want: map[string]RefEntry{
				"e3": {Role: "generic", Name: "unnamed"},
			},
		},
		{
			name: "duplicate ref keeps the later occurrence",
			text: "- button \"Old\" [ref=e5]\n- link \"New\" [ref=e5]",
			want: map[string]RefEntry{
				"e5": {Role: "link", Name: "New"},
			},
		},
		{
			name: "deeply indented lines parse the same",
			text: `      - checkbox "Agree" [ref=e9]`,
			want: map[string]RefEntry{
				"e9": {Role: "checkbox", Name: "Agree"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSnapshot(tt.text))
		})
	}
}

func TestTruncate(t *testing.T) {
	t.Run("under the limit passes through", func(t *testing.T) {
		result := Truncate("short tree", 100)
		assert.Equal(t, "short tree", result.Text)
		assert.False(t, result.Truncated)
	})

	t.Run("exactly at the limit passes through", func(t *testing.T) {
		text := strings.Repeat("a", 50)
		result := Truncate(text, 50)
		assert.Equal(t, text, result.Text)
		assert.False(t, result.Truncated)
	})

	t.Run("over the limit keeps the first maxChars characters", func(t *testing.T) {
		text := strings.Repeat("ab", 60)
		result := Truncate(text, 100)
		assert.True(t, result.Truncated)
		assert.Len(t, result.Text, 100+len(TruncationNotice))
		assert.Equal(t, text[:100], result.Text[:100])
		assert.True(t, strings.HasSuffix(result.Text, TruncationNotice))
	})

	t.Run("zero limit uses the default", func(t *testing.T) {
		result := Truncate("tree", 0)
		assert.False(t, result.Truncated)
		assert.Equal(t, "tree", result.Text)
	})

	t.Run("cut backs up to a rune boundary", func(t *testing.T) {
		// "日" is 3 bytes; a limit of 4 lands mid-rune.
		text := strings.Repeat("日", 10)
		result := Truncate(text, 4)
		assert.True(t, result.Truncated)
		assert.True(t, utf8.ValidString(result.Text))
		assert.Equal(t, "日"+TruncationNotice, result.Text)
	})

	t.Run("ascii cut stays exact", func(t *testing.T) {
		text := strings.Repeat("x", 20)
		result := Truncate(text, 7)
		assert.Equal(t, strings.Repeat("x", 7)+TruncationNotice, result.Text)
	})
}

func TestAnnotateRefs(t *testing.T) {
	text := strings.Join([]string{
		`- banner:`,
		`  - heading "Welcome"`,
		`  - link "Docs"`,
		`- button "Go"`,
		`- button "Go"`,
		`- list:`,
	}, "\n")

	annotated := annotateRefs(text)
	lines := strings.Split(annotated, "\n")

	// Non-interactive lines stay unannotated.
	assert.Equal(t, `- banner:`, lines[0])
	assert.Equal(t, `  - heading "Welcome"`, lines[1])
	assert.Equal(t, `- list:`, lines[5])

	// Interactive lines get sequential refs, duplicates get nth markers.
	assert.Equal(t, `  - link "Docs" [ref=e1]`, lines[2])
	assert.Equal(t, `- button "Go" [ref=e2]`, lines[3])
	assert.Equal(t, `- button "Go" [ref=e3] [nth=1]`, lines[4])

	// The annotated text round-trips through the parser.
	refs := ParseSnapshot(annotated)
	assert.Equal(t, RefEntry{Role: "link", Name: "Docs"}, refs["e1"])
	assert.Equal(t, RefEntry{Role: "button", Name: "Go"}, refs["e2"])
	assert.Equal(t, RefEntry{Role: "button", Name: "Go", Nth: 1}, refs["e3"])
}

func TestSnapshotReplacesRefTable(t *testing.T) {
	driver := newFakeDriver(`- link "Docs" [ref=e1]`)
	session := NewSession("test", driver.factory(nil), SessionOptions{}, nil)

	payload, err := session.Snapshot(0)
	require.NoError(t, err)
	assert.Equal(t, 1, payload["refCount"])

	refs, ok := payload["refs"].(map[string]RefEntry)
	require.True(t, ok)
	assert.Equal(t, RefEntry{Role: "link", Name: "Docs"}, refs["e1"])

	// A second snapshot of different content fully replaces the table:
	// e1 is stale and resolves through the raw-id fallback, not via the
	// role/name stored for it by the first snapshot.
	driver.snapshotText = `- button "Go" [ref=e2]`
	payload, err = session.Snapshot(0)
	require.NoError(t, err)
	assert.Equal(t, 1, payload["refCount"])

	desc := session.resolve("e1")
	assert.Equal(t, TargetByRawRef, desc.Strategy)
	assert.Equal(t, "e1", desc.RawRef)
	assert.Empty(t, desc.Role)

	desc = session.resolve("e2")
	assert.Equal(t, TargetByRole, desc.Strategy)
	assert.Equal(t, "button", desc.Role)
}

func TestSnapshotTruncationFlows(t *testing.T) {
	tree := "- link \"Docs\" [ref=e1]\n" + strings.Repeat("- paragraph\n", 100)
	driver := newFakeDriver(tree)
	session := NewSession("test", driver.factory(nil), SessionOptions{}, nil)

	payload, err := session.Snapshot(40)
	require.NoError(t, err)

	assert.Equal(t, true, payload["truncated"])
	text, ok := payload["snapshot"].(string)
	require.True(t, ok)
	assert.Len(t, text, 40+len(TruncationNotice))

	// Parsing ran on the full tree, not the truncated text.
	assert.Equal(t, 1, payload["refCount"])
}
