package logging

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLevels(t *testing.T) {
	var buf bytes.Buffer
	l, err := New("debug", &buf)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())

	l.WithField("component", "test").Debug("hello")
	assert.Contains(t, buf.String(), "hello")
	assert.Contains(t, buf.String(), "component=test")

	l, err = New("", &buf)
	require.NoError(t, err)
	assert.Equal(t, logrus.InfoLevel, l.GetLevel())

	_, err = New("loud", &buf)
	assert.Error(t, err)
}

func TestOpenFileAppends(t *testing.T) {
	p := filepath.Join(t.TempDir(), "fruits.log")
	f, err := OpenFile(p)
	require.NoError(t, err)
	_, err = f.WriteString("one\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	f, err = OpenFile(p)
	require.NoError(t, err)
	defer f.Close()
	st, err := f.Stat()
	require.NoError(t, err)
	assert.EqualValues(t, 4, st.Size())
}
