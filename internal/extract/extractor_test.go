package extract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestExtractor_TextFromFile_UnsupportedType(t *testing.T) {
	e := NewExtractor(zap.NewNop())

	tests := []struct {
		name string
		path string
	}{
		{name: "word document", path: "permits/scan.docx"},
		{name: "image", path: "permits/scan.png"},
		{name: "no extension", path: "permits/scan"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.TextFromFile(tt.path)
			var unreadable *DocumentUnreadableError
			require.ErrorAs(t, err, &unreadable)
			assert.Equal(t, tt.path, unreadable.Source)
			assert.Contains(t, unreadable.Reason, "unsupported document type")
		})
	}
}

func TestExtractor_TextFromBytes_EmptyPayload(t *testing.T) {
	e := NewExtractor(zap.NewNop())

	_, err := e.TextFromBytes(nil, "upload-1")
	var unreadable *DocumentUnreadableError
	require.ErrorAs(t, err, &unreadable)
	assert.Equal(t, "upload-1", unreadable.Source)
	assert.Equal(t, "empty payload", unreadable.Reason)
}

func TestExtractor_TextFromBytes_GarbagePayload(t *testing.T) {
	e := NewExtractor(zap.NewNop())

	_, err := e.TextFromBytes([]byte("not a pdf at all"), "upload-2")
	var unreadable *DocumentUnreadableError
	require.ErrorAs(t, err, &unreadable)
	assert.Equal(t, "upload-2", unreadable.Source)
}

func TestDocumentUnreadableError_Message(t *testing.T) {
	cause := errors.New("boom")

	withCause := &DocumentUnreadableError{Source: "a.pdf", Reason: "cannot open document", Err: cause}
	assert.Contains(t, withCause.Error(), `"a.pdf"`)
	assert.Contains(t, withCause.Error(), "cannot open document")
	assert.Equal(t, cause, errors.Unwrap(withCause))

	withoutCause := &DocumentUnreadableError{Source: "b.pdf", Reason: "no extractable text"}
	assert.Contains(t, withoutCause.Error(), "no extractable text")
	assert.Nil(t, errors.Unwrap(withoutCause))
}
