package flushio_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/gobf/internal/flushio"
)

type plainWriter struct{ buf bytes.Buffer }

func (pw *plainWriter) Write(p []byte) (int, error) { return pw.buf.Write(p) }

func Test_NewWriteFlusher(t *testing.T) {
	assert.Equal(t, flushio.Discard, flushio.NewWriteFlusher(io.Discard))
	assert.Equal(t, flushio.Discard, flushio.NewWriteFlusher(nil))

	var sb strings.Builder
	wf := flushio.NewWriteFlusher(&sb)
	io.WriteString(wf, "hi")
	assert.Equal(t, "hi", sb.String(), "expected in-memory buffers to be written through")

	var pw plainWriter
	wf = flushio.NewWriteFlusher(&pw)
	io.WriteString(wf, "hello")
	assert.Equal(t, "", pw.buf.String(), "expected buffering")
	require.NoError(t, wf.Flush())
	assert.Equal(t, "hello", pw.buf.String())

	assert.Equal(t, wf, flushio.NewWriteFlusher(wf), "expected a WriteFlusher to pass through")
}

func Test_WriteByte(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, flushio.WriteByte(&buf, 'a'))
	var pw plainWriter
	require.NoError(t, flushio.WriteByte(&pw, 'b'))
	assert.Equal(t, "a", buf.String())
	assert.Equal(t, "b", pw.buf.String())
}

func Test_WriteFlushers(t *testing.T) {
	assert.Nil(t, flushio.WriteFlushers())

	var a, b plainWriter
	wa := flushio.NewWriteFlusher(&a)
	assert.Equal(t, wa, flushio.WriteFlushers(nil, wa))

	wf := flushio.WriteFlushers(wa, flushio.NewWriteFlusher(&b))
	io.WriteString(wf, "both")
	require.NoError(t, wf.Flush())
	assert.Equal(t, "both", a.buf.String())
	assert.Equal(t, "both", b.buf.String())
}
