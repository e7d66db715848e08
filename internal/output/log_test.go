package output

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger_DebugOnlyWhenVerbose(t *testing.T) {
	SetNoColor(true)

	var quiet bytes.Buffer
	NewLogger(&quiet, false).Debugf("Could not read directory %s: %s", "/x", "denied")
	assert.Empty(t, quiet.String())

	var loud bytes.Buffer
	NewLogger(&loud, true).Debugf("Could not read directory %s: %s", "/x", "denied")
	assert.Equal(t, "   Debug: Could not read directory /x: denied\n", loud.String())
}

func TestLogger_WarnAndInfo(t *testing.T) {
	SetNoColor(true)

	var buf bytes.Buffer
	l := NewLogger(&buf, false)
	l.Infof("✅ Processed JS: %s", "a.js")
	l.Warnf("%s: (no <script> block found)", "b.vue")

	assert.Equal(t, "✅ Processed JS: a.js\n⚠️  b.vue: (no <script> block found)\n", buf.String())
}

func TestLogger_NilIsSafe(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() {
		l.Infof("x")
		l.Warnf("x")
		l.Debugf("x")
	})
}

func TestErrorf(t *testing.T) {
	SetNoColor(true)

	var buf bytes.Buffer
	Errorf(&buf, errors.New("boom"))
	assert.Equal(t, "❌ Error: boom\n", buf.String())
}
