package sketch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sevenScript = `
name: seven
width: 280
height: 280
events:
  - {type: start}
  - {type: move, x: 60, y: 60}
  - {type: move, x: 220, y: 60}
  - {type: move, x: 120, y: 240}
  - {type: end}
`

func TestParseScript(t *testing.T) {
	s, err := ParseScript(strings.NewReader(sevenScript))
	require.NoError(t, err)

	assert.Equal(t, "seven", s.Name)
	assert.Equal(t, 280, s.Width)
	require.Len(t, s.Events, 5)
	assert.Equal(t, Event{Type: EventMove, X: 220, Y: 60}, s.Events[2])

	rec := &recorder{}
	n, err := NewPad(rec).Replay(s.Events)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Len(t, rec.segments, 2)
}

func TestParseScriptRejectsUnknownEvents(t *testing.T) {
	_, err := ParseScript(strings.NewReader("events:\n  - {type: hover}\n"))
	assert.ErrorIs(t, err, ErrUnknownEvent)
}

func TestParseScriptRejectsUnknownFields(t *testing.T) {
	_, err := ParseScript(strings.NewReader("colour: red\n"))
	assert.Error(t, err)
}

func TestLoadScriptDefaultsName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("events:\n  - {type: start}\n  - {type: end}\n"), 0o644))

	s, err := LoadScript(path)
	require.NoError(t, err)
	assert.Equal(t, path, s.Name)
	assert.Len(t, s.Events, 2)
}
