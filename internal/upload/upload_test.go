package upload

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultExts = []string{"jpg", "jpeg", "png", "gif"}

type memImageStore struct {
	saved   map[string][]byte
	saveErr error
}

func newMemImageStore() *memImageStore {
	return &memImageStore{saved: make(map[string][]byte)}
}

func (m *memImageStore) Save(_ context.Context, name string, r io.Reader) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.saved[name] = data
	return name, nil
}

func (m *memImageStore) Open(_ context.Context, name string) (io.ReadCloser, error) {
	data, ok := m.saved[name]
	if !ok {
		return nil, errors.New("not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func TestAllowedFile(t *testing.T) {
	allowed := map[string]bool{"jpg": true, "jpeg": true, "png": true, "gif": true}

	tests := []struct {
		filename string
		want     bool
	}{
		{"photo.png", true},
		{"photo.PNG", true},
		{"photo.JpEg", true},
		{"archive.tar.gif", true},
		{"photo.EXE", false},
		{"photo", false},
		{"photo.", false},
		{"png", false},
		{".gif", true},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, AllowedFile(tt.filename, allowed))
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"photo.PNG", "photo.PNG"},
		{"My cool photo.jpg", "My_cool_photo.jpg"},
		{"../../etc/passwd", "etc_passwd"},
		{`C:\Users\me\pic.gif`, "C_Users_me_pic.gif"},
		{"café.jpeg", "cafe.jpeg"},
		{"i contain cool \u00fcml\u00e4uts.gif", "i_contain_cool_umlauts.gif"},
		{"..hidden.png", "hidden.png"},
		{"a$b%c.png", "abc.png"},
		{"____", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}

func TestHelperSaveAccepted(t *testing.T) {
	store := newMemImageStore()
	h := NewHelper(store, defaultExts, slog.Default())

	name, ok, err := h.Save(context.Background(), "../photo.PNG", bytes.NewReader([]byte("img")))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "photo.PNG", name)
	assert.Equal(t, []byte("img"), store.saved["photo.PNG"])
}

func TestHelperSaveRejected(t *testing.T) {
	store := newMemImageStore()
	h := NewHelper(store, defaultExts, slog.Default())

	for _, filename := range []string{"photo.EXE", "photo", "ph.oto.", "image.bmp"} {
		name, ok, err := h.Save(context.Background(), filename, bytes.NewReader([]byte("img")))
		require.NoError(t, err, filename)
		assert.False(t, ok, filename)
		assert.Empty(t, name, filename)
	}
	assert.Empty(t, store.saved)
}

func TestHelperSaveNormalisesConfiguredExtensions(t *testing.T) {
	store := newMemImageStore()
	h := NewHelper(store, []string{".PNG"}, slog.Default())

	_, ok, err := h.Save(context.Background(), "photo.png", bytes.NewReader(nil))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHelperSaveStoreError(t *testing.T) {
	store := newMemImageStore()
	store.saveErr = errors.New("disk full")
	h := NewHelper(store, defaultExts, slog.Default())

	_, ok, err := h.Save(context.Background(), "photo.png", bytes.NewReader([]byte("img")))
	assert.Error(t, err)
	assert.False(t, ok)
}
