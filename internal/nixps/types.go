package nixps

import (
	"math"
	"path"
	"sort"
	"strings"
	"time"
)

const (
	hashLength = 32
	drvSuffix  = ".drv"
)

// Process mirrors one entry of a build's "processes" array.
type Process struct {
	PID        int      `json:"pid"`
	ParentPID  int      `json:"parentPid"`
	Argv       []string `json:"argv"`
	SystemTime float64  `json:"stime"`
	UserTime   float64  `json:"utime"`
}

// Label returns the command line used when drawing the process.
func (p Process) Label() string {
	return strings.Join(p.Argv, " ")
}

// Build describes one derivation currently being built.
type Build struct {
	Derivation string    `json:"derivation"`
	MainPID    int       `json:"mainPid"`
	NixPID     int       `json:"nixPid"`
	StartTime  float64   `json:"startTime"`
	Processes  []Process `json:"processes"`
}

// Name strips the store directory, the hash prefix and the .drv suffix from
// the derivation. Identifiers that do not look like "<hash>-<name>" are
// returned unchanged (minus any directory).
func (b Build) Name() string {
	base := path.Base(strings.TrimSpace(b.Derivation))
	if base == "." || base == "/" {
		return b.Derivation
	}
	if len(base) <= hashLength+1 || base[hashLength] != '-' {
		return base
	}
	name := strings.TrimSuffix(base[hashLength+1:], drvSuffix)
	if name == "" {
		return base
	}
	return name
}

// PName returns the package name part of Name.
func (b Build) PName() string {
	pname, _ := splitName(b.Name())
	return pname
}

// Version returns the version part of Name, or "" when there is none.
func (b Build) Version() string {
	_, version := splitName(b.Name())
	return version
}

func splitName(name string) (string, string) {
	idx := strings.LastIndex(name, "-")
	if idx <= 0 || idx == len(name)-1 {
		return name, ""
	}
	return name[:idx], name[idx+1:]
}

// StartedAt converts StartTime (unix seconds) to a time. The bool is false
// when the start time is unknown.
func (b Build) StartedAt() (time.Time, bool) {
	if b.StartTime <= 0 || math.IsNaN(b.StartTime) || math.IsInf(b.StartTime, 0) {
		return time.Time{}, false
	}
	sec, frac := math.Modf(b.StartTime)
	return time.Unix(int64(sec), int64(frac*float64(time.Second))), true
}

// Elapsed returns how long the build has been running at now. Unknown or
// future start times yield zero.
func (b Build) Elapsed(now time.Time) time.Duration {
	started, ok := b.StartedAt()
	if !ok {
		return 0
	}
	d := now.Sub(started)
	if d < 0 {
		return 0
	}
	return d
}

// CPUTime sums system and user time over all processes of the build.
func (b Build) CPUTime() time.Duration {
	var total float64
	for _, p := range b.Processes {
		total += p.SystemTime + p.UserTime
	}
	return time.Duration(total * float64(time.Second))
}

// Snapshot is the full set of active builds returned by one fetch, ordered by
// derivation.
type Snapshot []Build

// Sorted returns a copy of the builds ordered by derivation.
func Sorted(builds []Build) Snapshot {
	if len(builds) == 0 {
		return nil
	}
	out := make(Snapshot, len(builds))
	copy(out, builds)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Derivation < out[j].Derivation
	})
	return out
}

// Index returns the position of the build with the given derivation, or -1.
func (s Snapshot) Index(derivation string) int {
	for i, b := range s {
		if b.Derivation == derivation {
			return i
		}
	}
	return -1
}
