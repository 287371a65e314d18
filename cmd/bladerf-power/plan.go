package main

import (
	"fmt"
	"sort"

	"github.com/chzchzchz/bladerf-power/spectrum"
	"github.com/chzchzchz/bladerf-power/spectrum/fftw"
)

var backends = map[string]func(bins int) spectrum.Plan{
	"fftw":  func(bins int) spectrum.Plan { return fftw.NewPlan(bins) },
	"gonum": spectrum.NewGonumPlan,
}

func planBackend(name string) (func(bins int) spectrum.Plan, error) {
	p, ok := backends[name]
	if !ok {
		return nil, fmt.Errorf("unknown fft backend %q (have %v)", name, planBackends())
	}
	return p, nil
}

func planBackends() (ret []string) {
	for k := range backends {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}
