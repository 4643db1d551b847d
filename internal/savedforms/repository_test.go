package savedforms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formforge/formforge/internal/form"
)

func sampleForm(id string, createdAt int64) form.SavedForm {
	return form.SavedForm{
		ID:        id,
		CreatedAt: createdAt,
		Questions: form.QuestionList{
			{Question: "Name", Required: true, AnswerType: form.AnswerTypeTextBox},
		},
		Answers:  map[int]form.Value{0: form.TextValue("Ada")},
		ImageMap: map[int]string{},
	}
}

func TestRepository_EmptyStore(t *testing.T) {
	repo := NewRepository(NewMemKV())
	assert.Empty(t, repo.List())

	_, ok := repo.Get("missing")
	assert.False(t, ok)
}

func TestRepository_AppendPreservesOrder(t *testing.T) {
	repo := NewRepository(NewMemKV())

	require.NoError(t, repo.Append(sampleForm("first", 100)))
	require.NoError(t, repo.Append(sampleForm("second", 200)))
	require.NoError(t, repo.Append(sampleForm("third", 300)))

	forms := repo.List()
	require.Len(t, forms, 3)
	assert.Equal(t, "first", forms[0].ID)
	assert.Equal(t, "second", forms[1].ID)
	assert.Equal(t, "third", forms[2].ID)
}

func TestRepository_GetByID(t *testing.T) {
	repo := NewRepository(NewMemKV())
	require.NoError(t, repo.Append(sampleForm("a", 1)))
	require.NoError(t, repo.Append(sampleForm("b", 2)))

	got, ok := repo.Get("b")
	require.True(t, ok)
	assert.Equal(t, int64(2), got.CreatedAt)
	assert.Equal(t, form.TextValue("Ada"), got.Answers[0])
}

func TestRepository_CorruptStoreTreatedAsEmpty(t *testing.T) {
	kv := NewMemKV()
	require.NoError(t, kv.Set(StorageKey, []byte("{not json")))

	repo := NewRepository(kv)
	assert.Empty(t, repo.List())

	// Appending over the corrupt value resets the store to a valid list.
	require.NoError(t, repo.Append(sampleForm("fresh", 42)))
	forms := repo.List()
	require.Len(t, forms, 1)
	assert.Equal(t, "fresh", forms[0].ID)
}

func TestRepository_FileKVSurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	kv, err := NewFileKV(dir)
	require.NoError(t, err)
	repo := NewRepository(kv)
	require.NoError(t, repo.Append(sampleForm("persisted", 7)))

	kv2, err := NewFileKV(dir)
	require.NoError(t, err)
	reopened := NewRepository(kv2)

	forms := reopened.List()
	require.Len(t, forms, 1)
	assert.Equal(t, "persisted", forms[0].ID)
	assert.Equal(t, int64(7), forms[0].CreatedAt)
}

func TestFileKV_MissingKey(t *testing.T) {
	kv, err := NewFileKV(t.TempDir())
	require.NoError(t, err)

	_, ok, err := kv.Get("nothing")
	require.NoError(t, err)
	assert.False(t, ok)
}
