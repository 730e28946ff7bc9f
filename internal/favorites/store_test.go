package favorites

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var linux = RepoSummary{
	ID:    "torvalds/linux",
	Owner: "torvalds",
	Name:  "linux",
	URL:   "https://github.com/torvalds/linux",
}

func newTestStore(t *testing.T) (*Store, *MemoryBackend) {
	t.Helper()
	backend := NewMemoryBackend()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewStore(backend, WithClock(func() time.Time {
		now = now.Add(time.Minute)
		return now
	}))
	return store, backend
}

func TestGetAll_EmptyWithoutDocument(t *testing.T) {
	store, backend := newTestStore(t)
	ctx := context.Background()

	favs, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, favs)
	assert.Empty(t, favs)
	assert.Equal(t, 0, backend.Writes, "reads must not persist the default document")
}

func TestAdd_ThenGetAll(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, linux))

	favs, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, "torvalds/linux", favs[0].ID)
	assert.Equal(t, "torvalds", favs[0].Owner)
	assert.Equal(t, "", favs[0].Description)
	assert.Equal(t, "2024-03-01T12:01:00.000Z", favs[0].AddedAt)
	assert.NotNil(t, favs[0].Tags)
	assert.Empty(t, favs[0].Tags)

	require.NoError(t, store.Remove(ctx, "torvalds/linux"))
	favs, err = store.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, favs)

	require.NoError(t, store.Clear(ctx))
	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestIsFavorite(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	ok, err := store.IsFavorite(ctx, linux.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Add(ctx, linux))

	ok, err = store.IsFavorite(ctx, linux.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = store.IsFavorite(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyID)
}

func TestAdd_Idempotent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, linux))
	first, err := store.GetAll(ctx)
	require.NoError(t, err)

	changed := linux
	changed.Description = "changed"
	require.NoError(t, store.Add(ctx, changed))

	favs, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, favs)
}

func TestAdd_KeepsInsertionOrder(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"c/c", "a/a", "b/b"} {
		require.NoError(t, store.Add(ctx, RepoSummary{ID: id, Owner: id[:1], Name: id[2:], URL: "https://github.com/" + id}))
	}

	favs, err := store.GetAll(ctx)
	require.NoError(t, err)
	ids := make([]string, 0, len(favs))
	for _, f := range favs {
		ids = append(ids, f.ID)
	}
	assert.Equal(t, []string{"c/c", "a/a", "b/b"}, ids)
}

func TestRemove_AbsentIsNoop(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, linux))
	require.NoError(t, store.Remove(ctx, "nobody/nothing"))

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestToggle(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	on, err := store.Toggle(ctx, linux)
	require.NoError(t, err)
	assert.True(t, on)

	on, err = store.Toggle(ctx, linux)
	require.NoError(t, err)
	assert.False(t, on)

	ok, err := store.IsFavorite(ctx, linux.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestExportImport_RoundTrip(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, linux))
	require.NoError(t, store.Add(ctx, RepoSummary{ID: "golang/go", Owner: "golang", Name: "go", URL: "https://github.com/golang/go", Description: "The Go programming language"}))
	before, err := store.GetAll(ctx)
	require.NoError(t, err)

	exported, err := store.Export(ctx)
	require.NoError(t, err)
	assert.Contains(t, exported, "\n  \"favorites\": [")
	assert.Contains(t, exported, "\"version\": 1")

	other, _ := newTestStore(t)
	res, err := other.Import(ctx, exported, false)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 2, res.Count)

	after, err := other.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	again, err := other.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, exported, again)
}

func TestExport_KeepsHTMLCharacters(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	repo := linux
	repo.Description = "fast <json> & co"
	require.NoError(t, store.Add(ctx, repo))

	exported, err := store.Export(ctx)
	require.NoError(t, err)
	assert.Contains(t, exported, `"description": "fast <json> & co"`)
	assert.NotContains(t, exported, `\u003c`)
	assert.False(t, strings.HasSuffix(exported, "\n"))
}

func TestExport_StoredRecordWithoutTags(t *testing.T) {
	ctx := context.Background()
	records := mapRecords{RecordKey: []byte(`{"favorites":[{"id":"a/b","name":"b","owner":"a","url":"https://github.com/a/b","description":"","addedAt":"2020-01-01T00:00:00.000Z"}],"version":1}`)}
	store := NewStore(NewRecordBackend(records))

	favs, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.NotNil(t, favs[0].Tags)

	first, err := store.Export(ctx)
	require.NoError(t, err)
	assert.Contains(t, first, `"tags": []`)

	res, err := store.Import(ctx, first, false)
	require.NoError(t, err)
	require.True(t, res.Success)

	second, err := store.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestImport_ReplaceKeepsTagsAndVersion(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Add(ctx, linux))

	text := `{"favorites":[{"id":"a/b","name":"b","owner":"a","url":"https://github.com/a/b","description":"","addedAt":"2020-01-01T00:00:00.000Z","tags":["x","y"]}],"version":1}`
	res, err := store.Import(ctx, text, false)
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, 1, res.Count)

	favs, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, "a/b", favs[0].ID)
	assert.Equal(t, []string{"x", "y"}, favs[0].Tags)
	assert.Equal(t, "2020-01-01T00:00:00.000Z", favs[0].AddedAt)
}

func TestImport_MergeNeverOverwrites(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.Add(ctx, RepoSummary{ID: "a/b", Owner: "a", Name: "old", URL: "https://github.com/a/b"}))

	text := `{"favorites":[
		{"id":"a/b","name":"new","owner":"a","url":"https://github.com/a/b"},
		{"id":"c/d","name":"d","owner":"c","url":"https://github.com/c/d"},
		{"id":"c/d","name":"dup","owner":"c","url":"https://github.com/c/d"}
	],"version":1}`
	res, err := store.Import(ctx, text, true)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, 3, res.Count, "count reports the imported set size")

	favs, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, favs, 2)
	assert.Equal(t, "old", favs[0].Name)
	assert.Equal(t, "c/d", favs[1].ID)
	assert.Equal(t, "d", favs[1].Name)
}

func TestImport_Invalid(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"not json", "not json"},
		{"no favorites", `{"foo":1}`},
		{"favorites not a list", `{"favorites":{"id":"a/b"}}`},
		{"null favorites", `{"favorites":null}`},
		{"top level null", `null`},
		{"missing url", `{"favorites":[{"id":"a/b","name":"b","owner":"a"}]}`},
		{"empty name", `{"favorites":[{"id":"a/b","name":"","owner":"a","url":"u"}]}`},
		{"element not object", `{"favorites":[42]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, backend := newTestStore(t)
			ctx := context.Background()

			res, err := store.Import(ctx, tt.text, true)
			require.NoError(t, err)
			assert.False(t, res.Success)
			assert.Equal(t, 0, res.Count)
			assert.NotEmpty(t, res.Error)
			assert.ErrorIs(t, res.Err, ErrInvalidImportFormat)
			assert.Equal(t, 0, backend.Writes)
		})
	}
}

func TestImport_ReplaceWithoutVersionDefaults(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	res, err := store.Import(ctx, `{"favorites":[]}`, false)
	require.NoError(t, err)
	require.True(t, res.Success)

	exported, err := store.Export(ctx)
	require.NoError(t, err)
	assert.Contains(t, exported, `"version": 1`)
}

func TestStorageUnavailable(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk gone")

	store, backend := newTestStore(t)
	backend.ReadErr = boom

	_, err := store.GetAll(ctx)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.ErrorIs(t, err, boom)

	_, err = store.Toggle(ctx, linux)
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	_, err = store.Import(ctx, `{"favorites":[]}`, true)
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	backend.ReadErr = nil
	backend.WriteErr = boom
	assert.ErrorIs(t, store.Add(ctx, linux), ErrStorageUnavailable)
	assert.ErrorIs(t, store.Clear(ctx), ErrStorageUnavailable)

	_, err = store.Import(ctx, `{"favorites":[]}`, false)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestRecordBackend(t *testing.T) {
	ctx := context.Background()
	records := mapRecords{}
	store := NewStore(NewRecordBackend(records))

	require.NoError(t, store.Add(ctx, linux))
	assert.Contains(t, string(records[RecordKey]), `"id":"torvalds/linux"`)

	records[RecordKey] = []byte("{broken")
	_, err := store.GetAll(ctx)
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

type mapRecords map[string][]byte

func (m mapRecords) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

func (m mapRecords) Put(_ context.Context, key string, value []byte) error {
	m[key] = value
	return nil
}
