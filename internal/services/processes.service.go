package services

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sort"
	"strings"

	"killprocess/internal/config"

	"github.com/shirou/gopsutil/v3/process"
)

// ErrListing marks a failure to obtain the process table. It is fatal for a run.
var ErrListing = errors.New("process listing failed")

// Lister returns the process table as `pid %cpu args` text, one process per line.
type Lister interface {
	List(ctx context.Context) (string, error)
}

// PSLister runs ps(1).
type PSLister struct {
	Bin string
}

// List runs `ps -A -o pid -o %cpu -o args`.
func (l PSLister) List(ctx context.Context) (string, error) {
	bin := l.Bin
	if bin == "" {
		bin = "ps"
	}

	out, err := exec.CommandContext(ctx, bin, "-A", "-o", "pid", "-o", "%cpu", "-o", "args").Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("%w: %s: %v: %s", ErrListing, bin, err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", fmt.Errorf("%w: %s: %v", ErrListing, bin, err)
	}
	return strings.ToValidUTF8(string(out), "�"), nil
}

// GopsutilLister builds the same text from gopsutil so the parser stays the
// single source of truth. Processes that cannot be inspected are skipped.
type GopsutilLister struct{}

func (GopsutilLister) List(ctx context.Context) (string, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: gopsutil: %v", ErrListing, err)
	}
	sort.Slice(procs, func(i, j int) bool { return procs[i].Pid < procs[j].Pid })

	var b strings.Builder
	b.WriteString("  PID  %CPU ARGS\n")
	for _, p := range procs {
		cmdline, err := p.CmdlineWithContext(ctx)
		if err != nil || cmdline == "" {
			if cmdline, err = p.ExeWithContext(ctx); err != nil || cmdline == "" {
				continue
			}
		}
		cpuPercent, err := p.CPUPercentWithContext(ctx)
		if err != nil {
			cpuPercent = 0
		}
		fmt.Fprintf(&b, "%5d %5.1f %s\n", p.Pid, cpuPercent, cmdline)
	}
	return strings.ToValidUTF8(b.String(), "�"), nil
}

// NewLister picks the listing source named in cfg.
func NewLister(cfg config.ListingConfig) Lister {
	if cfg.Source == config.SourceGopsutil {
		return GopsutilLister{}
	}
	return PSLister{Bin: cfg.PSBin}
}

// ProcessCount returns the number of running processes.
func ProcessCount(ctx context.Context) (int, error) {
	pids, err := process.PidsWithContext(ctx)
	if err != nil {
		return 0, err
	}
	return len(pids), nil
}
