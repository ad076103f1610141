package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const songs = `<head>
#Title: Songs
#Author: Anon
</head>
<book>
#One
##First
A line of verse
and another line
##Second
short and sweet
</book>
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestValidate(t *testing.T) {
	good := writeFile(t, "good.txt", songs)
	bad := writeFile(t, "bad.txt", "<book>\n#s\n##t\nbad | pipe\n</book>\n")

	out, err := run(t, "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "ok   "+good+": 2 poems, 3 lines")

	out, err = run(t, "validate", good, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 files failed")
	assert.Contains(t, out, "FAIL "+bad)
	assert.Contains(t, out, "invalid character")
}

func TestExcerpt_Seeded(t *testing.T) {
	path := writeFile(t, "songs.txt", songs)

	first, err := run(t, "excerpt", "--seed", "7", "-n", "3", path)
	require.NoError(t, err)
	second, err := run(t, "excerpt", "--seed", "7", "-n", "3", path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 3, strings.Count(first, "# Songs / One / "))

	for _, l := range strings.Split(strings.TrimSpace(first), "\n") {
		if l == "" || strings.HasPrefix(l, "# ") {
			continue
		}
		assert.LessOrEqual(t, len(l), 20, l)
	}
}

func TestExcerpt_WidthTooSmall(t *testing.T) {
	path := writeFile(t, "songs.txt", songs)
	_, err := run(t, "excerpt", "--width", "3", path)
	assert.ErrorContains(t, err, "no space boundary")
}

func TestDump(t *testing.T) {
	path := writeFile(t, "songs.txt", songs)

	out, err := run(t, "dump", path)
	require.NoError(t, err)
	var books []dumpBook
	require.NoError(t, yaml.Unmarshal([]byte(out), &books))
	require.Len(t, books, 1)
	assert.Equal(t, "Songs", books[0].Title)
	assert.Equal(t, "songs.txt", books[0].Source)
	assert.Len(t, books[0].Digest, 64)
	assert.Equal(t, []string{"A line of verse", "and another line"}, books[0].Poems[0].Lines)

	out, err = run(t, "dump", "--format", "json", path)
	require.NoError(t, err)
	books = nil
	require.NoError(t, json.Unmarshal([]byte(out), &books))
	assert.Equal(t, "Second", books[0].Poems[1].Title)

	_, err = run(t, "dump", "--format", "xml", path)
	assert.ErrorContains(t, err, "unknown format")
}

func TestShow(t *testing.T) {
	path := writeFile(t, "songs.txt", songs)

	out, err := run(t, "show", path, "1")
	require.NoError(t, err)
	assert.Contains(t, out, "### Second")
	assert.Contains(t, out, "short and sweet")

	out, err = run(t, "show", "--html", path, "0")
	require.NoError(t, err)
	assert.Contains(t, out, "<h3>First</h3>")

	_, err = run(t, "show", path, "9")
	assert.ErrorContains(t, err, "out of range")

	_, err = run(t, "show", path, "x")
	assert.ErrorContains(t, err, "poem index")
}

func TestMissingArgs(t *testing.T) {
	for _, sub := range []string{"validate", "excerpt", "dump"} {
		_, err := run(t, sub)
		assert.Error(t, err, sub)
	}
}
