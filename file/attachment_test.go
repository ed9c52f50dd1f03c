package file

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAttachmentText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("some notes"), 0644))

	attachment, err := LoadAttachment(path)
	require.NoError(t, err)
	assert.Equal(t, "text/plain", attachment.MediaType)
	assert.Equal(t, "some notes", attachment.Data)
	assert.Equal(t, "notes.txt", attachment.Name)
}

func TestLoadAttachmentImage(t *testing.T) {
	raw := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	path := filepath.Join(t.TempDir(), "capture.jpg")
	require.NoError(t, os.WriteFile(path, raw, 0644))

	attachment, err := LoadAttachment(path)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", attachment.MediaType)
	assert.Equal(t, "data:image/jpeg;base64,"+base64.StdEncoding.EncodeToString(raw), attachment.Data)
	assert.Equal(t, "capture.jpg", attachment.Name)
}

func TestLoadAttachmentUnknownExtensionDefaultsToText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.unknownext")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	attachment, err := LoadAttachment(path)
	require.NoError(t, err)
	assert.Equal(t, "text/plain", attachment.MediaType)
}

func TestLoadAttachmentMissingFile(t *testing.T) {
	_, err := LoadAttachment(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
}
