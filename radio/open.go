package radio

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// OpenFunc opens a device given a driver specific identifier.
type OpenFunc func(id string) (Device, error)

type driver struct {
	open     OpenFunc
	hardware string
}

var (
	driversMu sync.RWMutex
	drivers   = make(map[string]driver)
)

// Register makes a driver available to Open. The hardware class names the
// default limits used to validate a configuration for the driver.
func Register(name, hardware string, open OpenFunc) {
	driversMu.Lock()
	defer driversMu.Unlock()
	if open == nil {
		panic("radio: Register open func is nil")
	}
	if _, dup := drivers[name]; dup {
		panic("radio: Register called twice for driver " + name)
	}
	drivers[name] = driver{open: open, hardware: hardware}
}

func lookup(name string) (driver, error) {
	driversMu.RLock()
	defer driversMu.RUnlock()
	d, ok := drivers[name]
	if !ok {
		return driver{}, fmt.Errorf("unknown driver %q (have %v)", name, driverNames())
	}
	return d, nil
}

func Open(name, id string) (Device, error) {
	d, err := lookup(name)
	if err != nil {
		return nil, err
	}
	dev, err := d.open(id)
	if err != nil {
		return nil, fmt.Errorf("open %s device %q: %w", name, id, err)
	}
	return dev, nil
}

// DefaultHardware returns the hardware class registered with the driver.
func DefaultHardware(name string) (string, error) {
	d, err := lookup(name)
	if err != nil {
		return "", err
	}
	return d.hardware, nil
}

func Drivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()
	return driverNames()
}

func driverNames() (ret []string) {
	for k := range drivers {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

// parseOptions splits an identifier of the form "path key=val key2=val2" into
// its bare word and options. Fields may be separated by spaces or commas.
func parseOptions(id string) (bare string, opts map[string]string, err error) {
	opts = make(map[string]string)
	fields := strings.FieldsFunc(id, func(r rune) bool { return r == ',' || r == ' ' })
	for _, f := range fields {
		k, v, ok := strings.Cut(f, "=")
		if !ok {
			if bare != "" {
				return "", nil, fmt.Errorf("bad device identifier %q", id)
			}
			bare = f
			continue
		}
		opts[k] = v
	}
	return bare, opts, nil
}
