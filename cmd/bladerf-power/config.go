package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// envNames maps flags to the environment variables that can supply them.
var envNames = map[string]string{
	"device-id":     "BLADERF_DEVICE_ID",
	"driver":        "BLADERF_DRIVER",
	"hardware":      "BLADERF_HARDWARE",
	"frequency":     "BLADERF_FREQUENCY",
	"sample-rate":   "BLADERF_SAMPLE_RATE",
	"bandwidth":     "BLADERF_BANDWIDTH",
	"fft-bins":      "BLADERF_FFT_BINS",
	"fft-backend":   "BLADERF_FFT_BACKEND",
	"report-frames": "BLADERF_REPORT_FRAMES",
	"metrics-addr":  "BLADERF_METRICS_ADDR",
	"id":            "BLADERF_INSTANCE_ID",
	"config":        "BLADERF_CONFIG",
}

// bindConfig fills every flag not given on the command line, first from the
// environment and then from the YAML file named by --config.
func bindConfig(fs *pflag.FlagSet, lookupEnv func(string) (string, bool)) error {
	if err := setFromEnv(fs, fs.Lookup("config"), lookupEnv); err != nil {
		return err
	}
	var file map[string]string
	if path := fs.Lookup("config").Value.String(); path != "" {
		var err error
		if file, err = loadConfigFile(path); err != nil {
			return err
		}
		var unknown []string
		for k := range file {
			if fs.Lookup(k) == nil {
				unknown = append(unknown, k)
			}
		}
		if len(unknown) > 0 {
			sort.Strings(unknown)
			return fmt.Errorf("%s: unknown keys %v", path, unknown)
		}
	}

	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Changed || f.Name == "config" {
			return
		}
		if err = setFromEnv(fs, f, lookupEnv); err != nil || f.Changed {
			return
		}
		if v, ok := file[f.Name]; ok {
			if err = fs.Set(f.Name, v); err != nil {
				err = fmt.Errorf("config key %s: %w", f.Name, err)
			}
		}
	})
	return err
}

func setFromEnv(fs *pflag.FlagSet, f *pflag.Flag, lookupEnv func(string) (string, bool)) error {
	env, ok := envNames[f.Name]
	if !ok || f.Changed {
		return nil
	}
	v, ok := lookupEnv(env)
	if !ok {
		return nil
	}
	if err := fs.Set(f.Name, v); err != nil {
		return fmt.Errorf("$%s: %w", env, err)
	}
	return nil
}

// loadConfigFile reads a flat YAML mapping of flag names to values.
func loadConfigFile(path string) (map[string]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raw map[string]any
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m := make(map[string]string, len(raw))
	for k, v := range raw {
		switch v.(type) {
		case map[string]any, []any:
			return nil, fmt.Errorf("%s: key %s is not a scalar", path, k)
		case nil:
			continue
		}
		m[k] = fmt.Sprint(v)
	}
	return m, nil
}
