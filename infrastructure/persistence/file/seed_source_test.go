package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSeedSource_YAML(t *testing.T) {
	path := writeFile(t, "seed.yaml", `
comments:
  - id: 3
    authorId: "13258165"
    authorName: Jay Zhou
    body: Nice, well done
    createdAt: "10-18 08:15"
    likeCount: 88
  - id: 1
    authorId: "30009257"
    authorName: John
    body: hello
    createdAt: "2024-10-19T09:00:00Z"
    likeCount: 66
`)

	source := NewSeedSource(path)
	comments, err := source.LoadSeed(context.Background())

	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, int64(3), comments[0].ID().Int64())
	assert.Equal(t, "13258165", comments[0].Author().ID())
	assert.Equal(t, 66, comments[1].LikeCount())
	assert.Equal(t, "file:seed.yaml", source.Name())
}

func TestSeedSource_JSON(t *testing.T) {
	path := writeFile(t, "seed.json", `{"comments":[
		{"id":2,"authorId":"36080105","authorName":"Song Xu","body":"hi","createdAt":"11-13 11:29","likeCount":88}
	]}`)

	comments, err := NewSeedSource(path).LoadSeed(context.Background())

	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "Song Xu", comments[0].Author().DisplayName())
}

func TestSeedSource_EmptyFile(t *testing.T) {
	path := writeFile(t, "empty.yaml", "")

	comments, err := NewSeedSource(path).LoadSeed(context.Background())

	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestSeedSource_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := NewSeedSource(filepath.Join(t.TempDir(), "nope.yaml")).LoadSeed(context.Background())
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeFile(t, "bad.yaml", "comments: [unterminated")
		_, err := NewSeedSource(path).LoadSeed(context.Background())
		assert.ErrorContains(t, err, "failed to parse")
	})

	t.Run("unknown json field", func(t *testing.T) {
		path := writeFile(t, "bad.json", `{"threads":[]}`)
		_, err := NewSeedSource(path).LoadSeed(context.Background())
		assert.ErrorContains(t, err, "failed to parse")
	})

	t.Run("invalid record", func(t *testing.T) {
		path := writeFile(t, "invalid.yaml", `
comments:
  - id: 1
    authorId: ""
    body: hi
    createdAt: "10-18 08:15"
`)
		_, err := NewSeedSource(path).LoadSeed(context.Background())
		assert.ErrorContains(t, err, "seed record 0")
	})
}

func TestReadRecords(t *testing.T) {
	path := writeFile(t, "seed.yml", `
comments:
  - id: 9
    authorId: "30009257"
    authorName: John
    body: "   "
    createdAt: "10-19 09:00"
`)

	records, err := ReadRecords(path)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(9), records[0].ID)
	assert.Equal(t, "   ", records[0].Body)

	_, err = ReadRecords(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to open seed file")
}
