// Package sysinfo classifies the machine into a performance tier that sizes
// the diff budget: slower machines get shorter prompts.
package sysinfo

import (
	"context"
	"runtime"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"go.uber.org/zap"

	"commayte/cli/internal/diff"
)

// Tier is a coarse machine performance level.
type Tier int

const (
	VeryLow Tier = iota
	Low
	Medium
	Good
	High
	VeryHigh
)

// DefaultTier is used when detection fails.
const DefaultTier = Medium

var tierNames = [...]string{"very-low", "low", "medium", "good", "high", "very-high"}

var tierBudgets = [...]diff.Budget{
	{PerFile: 100, Total: 1000},
	{PerFile: 200, Total: 2000},
	{PerFile: 300, Total: 3000},
	{PerFile: 500, Total: 5000},
	{PerFile: 1000, Total: 10000},
	{PerFile: 1500, Total: 15000},
}

func (t Tier) valid() bool { return t >= VeryLow && t <= VeryHigh }

func (t Tier) String() string {
	if !t.valid() {
		return "unknown"
	}
	return tierNames[t]
}

// Budget returns the diff budget for the tier; unknown tiers get the
// DefaultTier budget.
func (t Tier) Budget() diff.Budget {
	if !t.valid() {
		return tierBudgets[DefaultTier]
	}
	return tierBudgets[t]
}

// Specs is what Detect measured.
type Specs struct {
	Cores    int
	CPUModel string
	MemoryGB uint64
	OS       string
	Tier     Tier
}

var (
	veryHighEndCPUs = []string{"i9", "ryzen 9", "m2 pro", "m2 max", "m3 pro", "m3 max", "threadripper"}
	highEndCPUs     = []string{"i7", "ryzen 7", "m1", "m2", "m3"}
	goodCPUs        = []string{"i5", "ryzen 5", "fx"}
	lowEndCPUs      = []string{"celeron", "atom", "pentium", "athlon", "sempron"}
	veryLowEndCPUs  = []string{"atom", "sempron"}
)

// Classify maps core count, whole gigabytes of memory and the CPU model name
// to a tier. Each tier needs both enough cores and memory and a CPU family
// that is not known to be slower.
func Classify(cores int, memoryGB uint64, cpuModel string) Tier {
	model := strings.ToLower(cpuModel)
	is := func(families []string) bool {
		for _, f := range families {
			if strings.Contains(model, f) {
				return true
			}
		}
		return false
	}
	switch {
	case cores >= 12 && memoryGB >= 32 && is(veryHighEndCPUs):
		return VeryHigh
	case cores >= 8 && memoryGB >= 16 && is(highEndCPUs):
		return High
	case cores >= 6 && memoryGB >= 12 && (is(goodCPUs) || is(highEndCPUs)):
		return Good
	case cores >= 4 && memoryGB >= 8 && !is(lowEndCPUs):
		return Medium
	case cores >= 2 && memoryGB >= 4 && !is(veryLowEndCPUs):
		return Low
	default:
		return VeryLow
	}
}

// Hardware queries; replaced in tests.
var (
	cpuCounts     = cpu.CountsWithContext
	cpuInfo       = cpu.InfoWithContext
	virtualMemory = mem.VirtualMemoryWithContext
)

// Detect measures the machine and classifies it. An unknown CPU model is not
// an error; missing core or memory figures are.
func Detect(ctx context.Context) (Specs, error) {
	cores, err := cpuCounts(ctx, true)
	if err != nil {
		return Specs{}, errors.Wrap(err, "count cpus")
	}
	if cores <= 0 {
		cores = runtime.NumCPU()
	}
	vm, err := virtualMemory(ctx)
	if err != nil {
		return Specs{}, errors.Wrap(err, "read memory")
	}
	var model string
	if infos, err := cpuInfo(ctx); err == nil && len(infos) > 0 {
		model = strings.TrimSpace(infos[0].ModelName)
	}
	s := Specs{
		Cores:    cores,
		CPUModel: model,
		MemoryGB: vm.Total >> 30,
		OS:       runtime.GOOS + "/" + runtime.GOARCH,
	}
	s.Tier = Classify(s.Cores, s.MemoryGB, s.CPUModel)
	return s, nil
}

// DetectTier is Detect reduced to the tier, falling back to DefaultTier
// (logged at warn) when the machine cannot be measured.
func DetectTier(ctx context.Context, log *zap.Logger) Tier {
	s, err := Detect(ctx)
	if err != nil {
		if log != nil {
			log.Warn("hardware detection failed, using default tier",
				zap.Error(err), zap.Stringer("tier", DefaultTier))
		}
		return DefaultTier
	}
	if log != nil {
		log.Debug("performance tier",
			zap.Int("cores", s.Cores),
			zap.String("cpu", s.CPUModel),
			zap.Uint64("memory_gb", s.MemoryGB),
			zap.Stringer("tier", s.Tier))
	}
	return s.Tier
}
