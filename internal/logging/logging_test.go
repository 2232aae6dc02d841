package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_WritesJSONToFile(t *testing.T) {
	t.Cleanup(func() { logrus.SetOutput(os.Stderr) })

	path := filepath.Join(t.TempDir(), "nested", "shelf.log")
	closer, err := Setup(Options{Level: "debug", Format: "json", File: path})
	require.NoError(t, err)

	logrus.WithField("operation", "bookmarks").Debugln("hello")
	require.NoError(t, closer.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"operation":"bookmarks"`)
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())
}

func TestSetup_DefaultsToTextAndInfo(t *testing.T) {
	t.Cleanup(func() { logrus.SetOutput(os.Stderr) })

	var buf bytes.Buffer
	_, err := Setup(Options{Output: &buf})
	require.NoError(t, err)

	logrus.Debugln("hidden")
	logrus.Infoln("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestSetup_RejectsBadValues(t *testing.T) {
	_, err := Setup(Options{Level: "loud"})
	assert.Error(t, err)

	_, err = Setup(Options{Format: "xml"})
	assert.Error(t, err)
}
