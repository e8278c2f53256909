// rfidctl is a command-line frontend for the gorfid driver: continuous
// tag scanning plus one-shot EPC, user-memory, password and kill
// operations against SparkFun ThingMagic reader boards.
package main

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/motius/gorfid/protocol"
	"github.com/motius/gorfid/rfid"
	"github.com/motius/gorfid/serial"
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage: rfidctl [-config file] [-debug] <command> [args]

commands:
  scan                 continuously read tags until interrupted
  version              print module firmware version
  setup                apply region/power/protocol configuration
  epc read             read the first tag's EPC
  epc write <hex>      write a new EPC to the first tag
  user read            read the first tag's user memory
  user write <hex>     write user memory
  password kill read|write <hex>    kill password (reserved bank)
  password access read|write <hex>  access password (reserved bank)
  kill <password-hex>  permanently disable the first tag (irreversible)
`)
	os.Exit(2)
}

func main() {
	configPath := flag.String("config", "rfidctl.yaml", "path to YAML configuration")
	debug := flag.Bool("debug", false, "log raw frames")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
	}

	log := newLogger(*debug)
	defer log.Sync()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal("configuration", zap.Error(err))
	}

	if err := run(cfg, log, *debug, flag.Args()); err != nil {
		log.Fatal("command failed", zap.Error(err))
	}
}

func newLogger(debug bool) *zap.Logger {
	zcfg := zap.NewDevelopmentConfig()
	if !debug {
		zcfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	log, err := zcfg.Build()
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	return log
}

func run(cfg *Config, log *zap.Logger, debug bool, args []string) error {
	r, err := openReader(cfg, log, debug)
	if err != nil {
		return err
	}
	defer r.Close()

	switch args[0] {
	case "scan":
		return scan(r, cfg, log)
	case "version":
		return version(r, log)
	case "setup":
		return setup(r, cfg, log)
	case "epc":
		return bankOp(r, cfg, log, args[1:], r.ReadEPC, r.WriteEPC, "EPC")
	case "user":
		return bankOp(r, cfg, log, args[1:], r.ReadUserData, r.WriteUserData, "user data")
	case "password":
		return password(r, cfg, log, args[1:])
	case "kill":
		return kill(r, cfg, log, args[1:])
	default:
		usage()
		return nil
	}
}

func openReader(cfg *Config, log *zap.Logger, debug bool) (*rfid.Reader, error) {
	module, err := cfg.moduleType()
	if err != nil {
		return nil, err
	}

	port, err := serial.Open(&serial.Config{
		Device:      cfg.Device,
		Baud:        cfg.Baud,
		ReadTimeout: 100 * time.Millisecond,
	})
	if err != nil {
		return nil, err
	}
	log.Info("port open",
		zap.String("device", cfg.Device),
		zap.Int("baud", cfg.Baud),
		zap.Stringer("module", module))

	opts := []rfid.Option{
		rfid.WithModuleType(module),
		rfid.WithCommandTimeout(cfg.timeout()),
	}
	if debug {
		opts = append(opts, rfid.WithLogger(log))
	}
	return rfid.New(port, opts...), nil
}

// setup mirrors the vendor's recommended bring-up order: protocol,
// antenna, region, power.
func setup(r *rfid.Reader, cfg *Config, log *zap.Logger) error {
	region, err := cfg.region()
	if err != nil {
		return err
	}

	if err := r.SetTagProtocol(protocol.Gen2); err != nil {
		return fmt.Errorf("set tag protocol: %w", err)
	}
	if err := r.SetAntennaPort(); err != nil {
		return fmt.Errorf("set antenna port: %w", err)
	}
	if err := r.SetRegion(region); err != nil {
		return fmt.Errorf("set region: %w", err)
	}
	if err := r.SetReadPower(cfg.ReadPower); err != nil {
		return fmt.Errorf("set read power: %w", err)
	}

	log.Info("module configured",
		zap.String("region", cfg.Region),
		zap.Int16("read_power", cfg.ReadPower))
	return nil
}

func version(r *rfid.Reader, log *zap.Logger) error {
	v, err := r.Version()
	if err != nil {
		return fmt.Errorf("get version: %w", err)
	}
	log.Info("firmware", zap.String("version", fmt.Sprintf("% X", v)))
	return nil
}

func scan(r *rfid.Reader, cfg *Config, log *zap.Logger) error {
	if err := setup(r, cfg, log); err != nil {
		return err
	}
	if err := r.StartReading(); err != nil {
		return fmt.Errorf("start reading: %w", err)
	}
	log.Info("scanning, interrupt to stop")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case <-stop:
			log.Info("stopping")
			if err := r.StopReading(); err != nil {
				return err
			}
			// The module keeps talking for a moment after the stop.
			time.Sleep(2 * time.Second)
			return nil
		default:
		}

		ev, err := r.NextEvent(500 * time.Millisecond)
		if errors.Is(err, rfid.ErrTimeout) {
			continue
		}
		if err != nil {
			return err
		}
		printEvent(log, ev)
	}
}

func printEvent(log *zap.Logger, ev rfid.Event) {
	switch {
	case ev.Tag != nil:
		log.Info("tag",
			zap.String("epc", strings.ToUpper(hex.EncodeToString(ev.Tag.EPC))),
			zap.Int("rssi_dbm", ev.Tag.RSSI),
			zap.Uint32("freq_hz", ev.Tag.Frequency),
			zap.Uint32("time_ms", ev.Tag.Timestamp))
	case ev.Kind == protocol.ResponseKeepAlive:
		log.Debug("scanning")
	default:
		log.Warn("module report", zap.Stringer("kind", ev.Kind))
	}
}

func bankOp(r *rfid.Reader, cfg *Config, log *zap.Logger, args []string,
	read func(time.Duration) ([]byte, error),
	write func([]byte, time.Duration) error,
	what string,
) error {
	if len(args) < 1 {
		usage()
	}

	switch args[0] {
	case "read":
		data, err := read(cfg.timeout())
		if err != nil {
			return fmt.Errorf("read %s: %w", what, err)
		}
		log.Info("read "+what, zap.String("data", strings.ToUpper(hex.EncodeToString(data))))
		return nil

	case "write":
		if len(args) < 2 {
			usage()
		}
		data, err := hex.DecodeString(args[1])
		if err != nil {
			return fmt.Errorf("decode hex %q: %w", args[1], err)
		}
		if err := write(data, cfg.timeout()); err != nil {
			return fmt.Errorf("write %s: %w", what, err)
		}
		log.Info("wrote " + what)
		return nil

	default:
		usage()
		return nil
	}
}

func password(r *rfid.Reader, cfg *Config, log *zap.Logger, args []string) error {
	if len(args) < 1 {
		usage()
	}
	switch args[0] {
	case "kill":
		return bankOp(r, cfg, log, args[1:], r.ReadKillPassword, r.WriteKillPassword, "kill password")
	case "access":
		return bankOp(r, cfg, log, args[1:], r.ReadAccessPassword, r.WriteAccessPassword, "access password")
	default:
		usage()
		return nil
	}
}

func kill(r *rfid.Reader, cfg *Config, log *zap.Logger, args []string) error {
	if len(args) < 1 {
		usage()
	}
	password, err := hex.DecodeString(args[0])
	if err != nil {
		return fmt.Errorf("decode password %q: %w", args[0], err)
	}
	if err := r.KillTag(password, cfg.timeout()); err != nil {
		return fmt.Errorf("kill tag: %w", err)
	}
	log.Warn("tag killed")
	return nil
}
