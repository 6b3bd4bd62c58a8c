package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "link.ini")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[link]
interface = termios
device    = /dev/ttyUSB0
baudrate  = 115200
timeout   = 5
retries   = 7

[transfer]
file = penguin.gif
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "termios", cfg.Interface)
	assert.Equal(t, "/dev/ttyUSB0", cfg.Device)
	assert.Equal(t, 115200, cfg.BaudRate)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.EqualValues(t, 7, cfg.MaxRetransmissions)
	assert.Equal(t, "penguin.gif", cfg.File)
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "[link]\ndevice = /dev/ttyACM0\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	defaults := Default()
	assert.Equal(t, "/dev/ttyACM0", cfg.Device)
	assert.Equal(t, defaults.Interface, cfg.Interface)
	assert.Equal(t, defaults.BaudRate, cfg.BaudRate)
	assert.Equal(t, defaults.Timeout, cfg.Timeout)
	assert.Equal(t, defaults.MaxRetransmissions, cfg.MaxRetransmissions)
}

func TestLoadInvalidValues(t *testing.T) {
	path := writeConfig(t, "[link]\ntimeout = -1\n")
	_, err := Load(path)
	assert.Error(t, err)
	path = writeConfig(t, "[link]\nretries = -2\n")
	_, err = Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.ini"))
	assert.Error(t, err)
}
