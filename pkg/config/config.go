// Package config loads transfer parameters from an ini file
package config

import (
	"fmt"
	"time"

	"gopkg.in/ini.v1"
)

// Config holds the runtime parameters of a transfer
type Config struct {
	Interface          string
	Device             string
	BaudRate           int
	Timeout            time.Duration
	MaxRetransmissions uint
	File               string
}

func Default() Config {
	return Config{
		Interface:          "serial",
		Device:             "/dev/ttyS0",
		BaudRate:           9600,
		Timeout:            3 * time.Second,
		MaxRetransmissions: 3,
	}
}

// Load reads the configuration from an ini file, missing keys keep their
// default values.
//
//	[link]
//	interface = serial
//	device    = /dev/ttyUSB0
//	baudrate  = 115200
//	timeout   = 3
//	retries   = 3
//
//	[transfer]
//	file = penguin.gif
func Load(path string) (Config, error) {
	cfg := Default()
	f, err := ini.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to load configuration : %w", err)
	}
	linkSection := f.Section("link")
	cfg.Interface = linkSection.Key("interface").MustString(cfg.Interface)
	cfg.Device = linkSection.Key("device").MustString(cfg.Device)
	cfg.BaudRate = linkSection.Key("baudrate").MustInt(cfg.BaudRate)
	timeoutS := linkSection.Key("timeout").MustInt(int(cfg.Timeout / time.Second))
	if timeoutS <= 0 {
		return cfg, fmt.Errorf("timeout must be positive, got %v", timeoutS)
	}
	cfg.Timeout = time.Duration(timeoutS) * time.Second
	retries := linkSection.Key("retries").MustInt(int(cfg.MaxRetransmissions))
	if retries < 0 {
		return cfg, fmt.Errorf("retries must not be negative, got %v", retries)
	}
	cfg.MaxRetransmissions = uint(retries)
	cfg.File = f.Section("transfer").Key("file").MustString(cfg.File)
	return cfg, nil
}
