package io

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
)

func TestDepot_PutGet(t *testing.T) {
	assert := assert.New(t)

	depot := &Depot{}

	image := []byte{0x20, 0x01, 0x00, 0x00, 0x00, 0x05, 0xff}
	assert.NoError(depot.Put("prog", image))

	// The depot holds its own copy.
	image[0] = 0
	got, err := depot.Get("prog")
	assert.NoError(err)
	assert.Equal([]byte{0x20, 0x01, 0x00, 0x00, 0x00, 0x05, 0xff}, got)

	got[1] = 0x42
	again, err := depot.Get("prog")
	assert.NoError(err)
	assert.Equal(byte(0x01), again[1])

	_, err = depot.Get("other")
	assert.ErrorIs(err, ErrImageMissing)

	assert.NoError(depot.Put("empty", nil))
	assert.NoError(depot.Put("a.b-c_1", []byte{0}))
	assert.Equal([]string{"a.b-c_1", "empty", "prog"}, depot.Names())

	assert.NoError(depot.Delete("empty"))
	assert.ErrorIs(depot.Delete("empty"), ErrImageMissing)
	assert.Equal([]string{"a.b-c_1", "prog"}, depot.Names())
}

func TestDepot_ValidName(t *testing.T) {
	assert := assert.New(t)

	for _, name := range []string{"x", "hello_2", "v1.2", "A-b"} {
		assert.True(ValidName(name), name)
	}

	depot := &Depot{}
	for _, name := range []string{"", ".hidden", "a/b", "../up", "a..b", "sp ace", "-dash"} {
		assert.False(ValidName(name), name)
		assert.ErrorIs(depot.Put(name, []byte{1}), ErrImageName, name)
	}
	assert.Empty(depot.Names())
}

func TestDepot_Unmarshal(t *testing.T) {
	assert := assert.New(t)

	filesys := fstest.MapFS{
		"one.sac":      {Data: []byte{1}},
		"two.sac":      {Data: []byte{2, 2}},
		"notes.txt":    {Data: []byte("ignored")},
		".bad.sac":     {Data: []byte{3}},
		"dir/four.sac": {Data: []byte{4}},
	}

	depot := &Depot{}
	err := depot.Unmarshal(filesys)
	assert.NoError(err)
	assert.Equal([]string{"one", "two"}, depot.Names())
	assert.Equal([]byte{2, 2}, depot.Images["two"])
}

func TestDepot_Marshal(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()

	depot := &Depot{}
	assert.NoError(depot.Put("alpha", []byte{0x1d, 0, 0, 0, 0x20}))
	assert.NoError(depot.Put("beta", []byte{0xff}))

	err := depot.Marshal(DirFS(dir))
	assert.NoError(err)

	data, err := os.ReadFile(filepath.Join(dir, "alpha"+IMAGE_EXT))
	assert.NoError(err)
	assert.Equal([]byte{0x1d, 0, 0, 0, 0x20}, data)

	loaded := &Depot{}
	err = loaded.Unmarshal(os.DirFS(dir))
	assert.NoError(err)
	assert.Equal(depot.Images, loaded.Images)

	err = loaded.Unmarshal(os.DirFS(filepath.Join(dir, "missing")))
	assert.Error(err)

	err = depot.Marshal(DirFS(filepath.Join(dir, "missing")))
	assert.Error(err)

	_, err = DirFS(dir).Create("../escape.sac")
	assert.Error(err)
}
