package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/golang/glog"

	"github.com/ElvBry/samplelog/pkg/config"
	"github.com/ElvBry/samplelog/pkg/device"
	"github.com/ElvBry/samplelog/pkg/flashlog"
	"github.com/ElvBry/samplelog/pkg/framework"
	"github.com/ElvBry/samplelog/pkg/telemetry"
	"github.com/ElvBry/samplelog/pkg/uart"
)

var (
	configPath string
	serialDev  string
	imagePath  string
	brokerURL  string
)

func init() {
	flag.StringVar(&configPath, "config", "", "Path to YAML config file.")
	flag.StringVar(&serialDev, "device", "", "Serial device, empty for stdio.")
	flag.StringVar(&imagePath, "image", "", "Flash image file, empty for in-memory.")
	flag.StringVar(&brokerURL, "broker", "", "MQTT broker URL for telemetry.")
}

// stdio adapts the process's stdin/stdout to the uart transport for
// running without hardware.
type stdio struct{}

func (stdio) Read(p []byte) (int, error)  { return os.Stdin.Read(p) }
func (stdio) Write(p []byte) (int, error) { return os.Stdout.Write(p) }
func (stdio) FlushInput() error           { return nil }

// Close closes stdin so a pending Read unblocks on shutdown.
func (stdio) Close() error { return os.Stdin.Close() }

// simSource is the demo sample source: a bounded random walk standing
// in for the external sensor driver.
func simSource() device.Source {
	value := float32(21)
	return device.SourceFunc(func() (float32, error) {
		value += float32(rand.NormFloat64() * 0.2)
		if value < -10 {
			value = -10
		} else if value > 80 {
			value = 80
		}
		return value, nil
	})
}

func buildPartition(cfg config.PartitionConfig) (flashlog.Partition, io.Closer, error) {
	if cfg.Image == "" {
		glog.Warning("no image configured, log will not survive restarts")
		return flashlog.NewMemPartition(cfg.Size, cfg.SectorSize), nil, nil
	}
	p, err := flashlog.OpenFilePartition(cfg.Image, cfg.Size, cfg.SectorSize)
	if err != nil {
		return nil, nil, err
	}
	return p, p, nil
}

func buildFramer(cfg config.FramingConfig) uart.Framer {
	if cfg.Mode == "timeout" {
		return &uart.TimeoutFramer{Terminator: cfg.Terminator[0]}
	}
	return &uart.LineFramer{}
}

func main() {
	flag.Parse()

	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			glog.Exitf("load config: %v", err)
		}
	}
	if serialDev != "" {
		cfg.Serial.Device = serialDev
	}
	if imagePath != "" {
		cfg.Partition.Image = imagePath
	}
	if brokerURL != "" {
		cfg.Telemetry.BrokerURL = brokerURL
	}
	if err := config.Validate(&cfg); err != nil {
		glog.Exitf("invalid config: %v", err)
	}

	part, closer, err := buildPartition(cfg.Partition)
	if err != nil {
		glog.Exitf("open partition: %v", err)
	}
	if closer != nil {
		defer closer.Close()
	}

	store, err := flashlog.Open(part)
	if err != nil {
		glog.Exitf("open store: %v", err)
	}

	// The reader task owns the transport and closes it on shutdown to
	// unblock its pending read.
	var transport interface {
		io.ReadCloser
		uart.Transport
	}
	if cfg.Serial.Device != "" {
		port, err := uart.OpenSerial(cfg.Serial.Device, cfg.Serial.Baud)
		if err != nil {
			glog.Exitf("open serial %s: %v", cfg.Serial.Device, err)
		}
		transport = port
	} else {
		transport = stdio{}
	}

	gate := uart.NewGate(transport)
	handler := uart.NewHandler(buildFramer(cfg.Framing), transport, gate)
	if cfg.Framing.TimeoutMS > 0 {
		handler.Timeout = time.Duration(cfg.Framing.TimeoutMS) * time.Millisecond
	}
	reader := &uart.Reader{Source: transport, Events: handler.Events()}

	dev, err := device.New(store, gate, handler.Commands(), simSource(),
		device.NewMonotonicClock())
	if err != nil {
		glog.Exitf("init device: %v", err)
	}

	runner := framework.NewRunner().HandleSignals()
	if cfg.Telemetry.BrokerURL != "" {
		pub, err := telemetry.NewPublisher(cfg.Telemetry.BrokerURL)
		if err != nil {
			glog.Exitf("init telemetry: %v", err)
		}
		dev.Telemetry = pub.Entries()
		runner.Go(framework.NamedRun("telemetry", pub))
	}

	runner.Go(
		framework.NamedRun("uart-reader", reader),
		framework.NamedRun("uart-handler", handler),
		framework.NamedRun("device", dev),
	)
	if err := runner.Wait(); err != nil {
		glog.Exit(err)
	}
}
