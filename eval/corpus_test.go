package eval

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/go-deideval/annotation"
)

func writeAnn(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestLoadDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run1")
	writeAnn(t, dir, "b.ann", "T1\tDATE 0 4\t2018\n")
	writeAnn(t, dir, "a.ann", "T1\tNAME 0 4\tJuan\n")
	writeAnn(t, dir, "a.txt", "Juan")
	writeAnn(t, dir, "broken.ann", "T1\tNAME x 4\tJuan\n")
	writeAnn(t, dir, "README.md", "# not an annotation")

	docs, failed, err := LoadDir(annotation.BratParser{}, dir)
	require.NoError(t, err)

	require.Len(t, docs, 2)
	assert.Equal(t, "a", docs[0].ID, "file name order")
	assert.Equal(t, "run1", docs[0].SystemID)
	assert.Equal(t, "Juan", docs[0].Text)

	require.Len(t, failed, 1)
	assert.Equal(t, "broken", failed[0].DocumentID)
	assert.Equal(t, "run1", failed[0].SystemID)
	assert.ErrorIs(t, failed[0], annotation.ErrParse)
}

func TestLoadDirMissing(t *testing.T) {
	_, _, err := LoadDir(annotation.BratParser{}, filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestGoldDuplicates(t *testing.T) {
	gold, problems := Gold([]*annotation.Document{
		{ID: "01", Path: "x/01.ann"},
		{ID: "01", Path: "y/01.ann"},
		{ID: "02", Path: "x/02.ann"},
	})
	assert.Len(t, gold, 2)
	assert.Equal(t, "x/01.ann", gold["01"].Path)
	require.Len(t, problems, 1)
	assert.ErrorIs(t, problems[0], ErrDuplicateDocument)
}

func TestGroupRunsAndPair(t *testing.T) {
	gold := map[string]*annotation.Document{
		"01": {ID: "01"},
		"02": {ID: "02"},
		"03": {ID: "03"},
	}
	docs := []*annotation.Document{
		{ID: "01", SystemID: "runA"},
		{ID: "02", SystemID: "runA"},
		{ID: "99", SystemID: "runA"},
		{ID: "01", SystemID: "runB"},
	}
	failed := []*FileError{{Path: "runB/02.ann", DocumentID: "02", SystemID: "runB", Err: annotation.ErrParse}}

	runs := GroupRuns(docs, failed)
	assert.Equal(t, []string{"runA", "runB"}, SortedIDs(runs))

	a := runs["runA"]
	pairs := a.Pair(gold)
	require.Len(t, pairs, 3)
	assert.Equal(t, []string{"01", "02", "03"}, []string{pairs[0].ID, pairs[1].ID, pairs[2].ID})
	assert.NotNil(t, pairs[0].System)
	assert.Nil(t, pairs[2].System, "missing output is paired with nothing")
	require.Len(t, a.Problems, 2)
	assert.ErrorIs(t, a.Problems[0], ErrMissingSystem)
	assert.ErrorIs(t, a.Problems[1], ErrMissingGold)

	b := runs["runB"]
	pairs = b.Pair(gold)
	require.Len(t, pairs, 3)
	assert.Nil(t, pairs[1].System, "unparseable output counts as missing")
	// parse failure for 02, missing 03; 02 is not reported twice.
	require.Len(t, b.Problems, 2)
	assert.ErrorIs(t, b.Problems[0], annotation.ErrParse)
	assert.ErrorIs(t, b.Problems[1], ErrMissingSystem)
}

func TestGroupRunsDuplicate(t *testing.T) {
	runs := GroupRuns([]*annotation.Document{
		{ID: "01", SystemID: "run1", Path: "a/run1/01.ann"},
		{ID: "01", SystemID: "run1", Path: "b/run1/01.ann"},
	}, nil)
	r := runs["run1"]
	assert.Equal(t, "a/run1/01.ann", r.Documents["01"].Path)
	require.Len(t, r.Problems, 1)
	assert.ErrorIs(t, r.Problems[0], ErrDuplicateDocument)
}

func TestGroupRunsSeedsEmptyRuns(t *testing.T) {
	gold := map[string]*annotation.Document{
		"01": {ID: "01", Entities: []annotation.Entity{{ID: "T1", Type: "EDAD", Start: 0, End: 2}}},
	}
	runs := GroupRuns([]*annotation.Document{{ID: "01", SystemID: "runA"}}, nil, "runA", "runEmpty")
	assert.Equal(t, []string{"runA", "runEmpty"}, SortedIDs(runs))

	r := runs["runEmpty"]
	pairs := r.Pair(gold)
	require.Len(t, pairs, 1)
	assert.Nil(t, pairs[0].System)
	require.Len(t, r.Problems, 1)
	assert.ErrorIs(t, r.Problems[0], ErrMissingSystem)
}
