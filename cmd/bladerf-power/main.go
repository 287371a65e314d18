package main

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/chzchzchz/bladerf-power/interrupt"
	"github.com/chzchzchz/bladerf-power/power"
	"github.com/chzchzchz/bladerf-power/radio"
	_ "github.com/chzchzchz/bladerf-power/radio/bladerf"
	"github.com/chzchzchz/bladerf-power/spectrum"
)

// exitSoftware is EX_SOFTWARE from sysexits.h.
const exitSoftware = 70

var rootCmd = &cobra.Command{
	Use:           "bladerf-power",
	Short:         "Stream IQ samples from an SDR through an FFT.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          func(cmd *cobra.Command, args []string) error { return run(cmd) },
}

var (
	cfg          = power.DefaultConfig()
	dryRun       bool
	fftBackend   string
	reportFrames int
	metricsAddr  string
	instanceID   string
	configPath   string
)

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&cfg.DeviceID, "device-id", "d", "", `Device identifier, e.g. "*:serial=f12ce1037830a1b27f3ceeba1f521413" for bladerf`)
	f.StringVarP(&cfg.Driver, "driver", "", cfg.Driver, fmt.Sprintf("Device driver %v", radio.Drivers()))
	f.StringVarP(&cfg.Hardware, "hardware", "", "", fmt.Sprintf("Hardware limits to check against %v (default from driver)", radio.Hardware()))
	f.VarP(&cfg.Frequency, "frequency", "f", "Frequency; accepts <num>H, <num>K, <num>M or <num>G")
	f.VarP(&cfg.SampleRate, "sample-rate", "s", "Sample rate in samples per second; accepts the same suffixes")
	f.VarP(&cfg.Bandwidth, "bandwidth", "b", "Bandwidth; accepts <num>H, <num>K, <num>M or <num>G")
	f.IntVarP(&cfg.Bins, "fft-bins", "", power.DefaultBins, "Number of bins in the FFT")
	f.BoolVarP(&dryRun, "dry-run", "", false, "Print info and exit")
	f.StringVarP(&fftBackend, "fft-backend", "", "fftw", fmt.Sprintf("FFT implementation %v", planBackends()))
	f.IntVarP(&reportFrames, "report-frames", "", 64, "Log the peak bin and noise floor every n frames; 0 disables")
	f.StringVarP(&metricsAddr, "metrics-addr", "", "", "Serve prometheus metrics on this address")
	f.StringVarP(&instanceID, "id", "", "", "Instance id for metric labels (default random)")
	f.StringVarP(&configPath, "config", "c", "", "YAML file of flag values")
	for name, env := range envNames {
		f.Lookup(name).Usage += fmt.Sprintf(" [$%s]", env)
	}
	f.AddGoFlagSet(flag.CommandLine)
}

func run(cmd *cobra.Command) error {
	intr := interrupt.New()
	defer interrupt.Notify(intr)()

	fs := cmd.Flags()
	if err := bindConfig(fs, os.LookupEnv); err != nil {
		return err
	}
	for _, name := range []string{"frequency", "sample-rate", "bandwidth"} {
		if !fs.Lookup(name).Changed {
			return fmt.Errorf("required flag %q not set", name)
		}
	}
	if cfg.Hardware == "" {
		hw, err := radio.DefaultHardware(cfg.Driver)
		if err != nil {
			return err
		}
		cfg.Hardware = hw
	}
	newPlan, err := planBackend(fftBackend)
	if err != nil {
		return err
	}

	cfg.Log()
	if err := cfg.Validate(); err != nil {
		return err
	}
	if dryRun {
		return nil
	}

	plan := newPlan(cfg.Bins)
	defer plan.Destroy()

	dev, err := power.Open(cfg)
	if err != nil {
		return err
	}
	l, err := power.NewLoop(dev, plan, cfg)
	if err != nil {
		dev.Close()
		return err
	}
	if reportFrames > 0 {
		l.Sink = spectrum.NewReporter(cfg.Band(), cfg.Bins, reportFrames)
	}
	if metricsAddr != "" {
		if instanceID == "" {
			instanceID = uuid.NewString()
		}
		reg := prometheus.NewRegistry()
		l.Metrics = power.NewMetrics(reg, instanceID)
		if err := serveMetrics(metricsAddr, reg); err != nil {
			l.Shutdown()
			return err
		}
	}
	return l.Run(intr)
}

func serveMetrics(addr string, reg *prometheus.Registry) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	glog.Infof("serving metrics on http://%s/metrics", ln.Addr())
	go func() {
		if err := http.Serve(ln, mux); err != nil {
			glog.Errorf("metrics server: %v", err)
		}
	}()
	return nil
}

func main() {
	flag.Set("logtostderr", "true")
	flag.CommandLine.Parse(nil)
	if err := rootCmd.Execute(); err != nil {
		glog.Error(err)
		for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
			glog.Errorf("caused by: %v", cause)
		}
		glog.Flush()
		os.Exit(exitSoftware)
	}
	glog.Flush()
}
