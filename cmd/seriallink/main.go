package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/samsamfire/goseriallink/pkg/config"
	"github.com/samsamfire/goseriallink/pkg/link"
	"github.com/samsamfire/goseriallink/pkg/serial"
	_ "github.com/samsamfire/goseriallink/pkg/serial/all"
	"github.com/samsamfire/goseriallink/pkg/transfer"
)

func main() {
	log.SetLevel(log.InfoLevel)
	// Command line arguments
	role := flag.String("r", "", "role : tx or rx")
	iface := flag.String("i", "serial", "port implementation e.g. serial,termios")
	device := flag.String("d", "/dev/ttyS0", "serial device path")
	baudRate := flag.Int("b", 9600, "baud rate")
	file := flag.String("f", "", "file to send (tx) or to write (rx)")
	timeout := flag.Int("t", 3, "acknowledgement timeout in seconds")
	retries := flag.Int("n", 3, "maximum retransmissions per frame")
	configPath := flag.String("c", "", "optional ini configuration file")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Errorf("could not load configuration : %v", err)
			os.Exit(1)
		}
	}
	// Explicit flags take precedence over the configuration file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "i":
			cfg.Interface = *iface
		case "d":
			cfg.Device = *device
		case "b":
			cfg.BaudRate = *baudRate
		case "f":
			cfg.File = *file
		case "t":
			cfg.Timeout = time.Duration(*timeout) * time.Second
		case "n":
			cfg.MaxRetransmissions = uint(*retries)
		}
	})

	level := slog.LevelInfo
	if *verbose {
		log.SetLevel(log.DebugLevel)
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if *role != "tx" && *role != "rx" {
		log.Error("role must be tx or rx")
		flag.Usage()
		os.Exit(1)
	}
	if cfg.File == "" {
		log.Error("no file given")
		flag.Usage()
		os.Exit(1)
	}

	port, err := serial.NewPort(cfg.Interface, cfg.Device, cfg.BaudRate)
	if err != nil {
		log.Errorf("could not open %v : %v", cfg.Device, err)
		os.Exit(1)
	}

	linkRole := link.RoleReceiver
	if *role == "tx" {
		linkRole = link.RoleTransmitter
	}
	sess := link.NewSession(port, link.Config{
		Role:               linkRole,
		Timeout:            cfg.Timeout,
		MaxRetransmissions: cfg.MaxRetransmissions,
	}, slog.Default())

	if err := sess.Open(); err != nil {
		log.Errorf("connection failed : %v", err)
		port.Close()
		os.Exit(1)
	}

	switch linkRole {
	case link.RoleTransmitter:
		err = transfer.NewTransmitter(sess, slog.Default()).SendFile(cfg.File)
	default:
		err = transfer.NewReceiver(sess, slog.Default()).ReceiveFile(cfg.File)
	}
	if err != nil {
		log.Errorf("transfer failed : %v", err)
		// the link is still taken down cleanly
	}
	if closeErr := sess.Close(true); closeErr != nil {
		log.Errorf("disconnect failed : %v", closeErr)
	}
	if err != nil {
		os.Exit(1)
	}
	stats := sess.Stats()
	log.Infof("done, %d frames sent, %d retransmissions, %d timeouts",
		stats.FramesSent, stats.Retransmissions, stats.Timeouts)
}
