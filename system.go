package samss

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	kitlog "github.com/go-kit/kit/log"
)

// System drives a Timestep forward in time, applying gravity and thrust
// interactions each step and periodically saving snapshots to History and
// to disk.
type System struct {
	Name string

	Current *Timestep
	// History holds every saved Timestep, keyed by integer save index
	// (floor(step/SaveInterval)).
	History map[int]*Timestep

	Dt           float64
	EndTime      float64
	SaveInterval int
	Scheme       Scheme
	SaveDir      string

	// MdotIsp supplies (mdot, isp) for a named vessel's firing stage at
	// each step. A vessel absent from this map, or with no firing stage
	// set, simply coasts.
	MdotIsp map[string][2]float64

	logger kitlog.Logger
}

// NewSystem constructs a System around an initial Timestep.
func NewSystem(name string, initial *Timestep, dt, endTime float64, saveInterval int, scheme Scheme, saveDir string) *System {
	logger := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	logger = kitlog.With(logger, "ts", kitlog.DefaultTimestampUTC, "subsys", "system")
	return &System{
		Name:         name,
		Current:      initial,
		History:      map[int]*Timestep{0: initial},
		Dt:           dt,
		EndTime:      endTime,
		SaveInterval: saveInterval,
		Scheme:       scheme,
		SaveDir:      saveDir,
		MdotIsp:      map[string][2]float64{},
		logger:       logger,
	}
}

// sortedBodyNames returns ts.Bodies' keys in sorted order, for deterministic
// interaction and integration order.
func sortedBodyNames(ts *Timestep) []string {
	names := make([]string, 0, len(ts.Bodies))
	for name := range ts.Bodies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// sortedVesselNames returns ts.Vessels' keys in sorted order, for
// deterministic interaction and integration order.
func sortedVesselNames(ts *Timestep) []string {
	names := make([]string, 0, len(ts.Vessels))
	for name := range ts.Vessels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// interactions returns the ordered list of (source, target) gravity pairs
// for the current Timestep: every distinct pair of celestial bodies
// interacts both ways (mutual gravity), while each vessel is pulled by
// every celestial body but exerts none of its own (a vessel's mass is
// negligible next to a celestial body's).
func (sys *System) interactions() [][2]Body {
	bodyNames := sortedBodyNames(sys.Current)
	var pairs [][2]Body
	var bodies []Body
	for _, name := range bodyNames {
		bodies = append(bodies, sys.Current.Bodies[name])
	}
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			pairs = append(pairs, [2]Body{bodies[i], bodies[j]})
			pairs = append(pairs, [2]Body{bodies[j], bodies[i]})
		}
	}
	for _, vName := range sortedVesselNames(sys.Current) {
		v := sys.Current.Vessels[vName]
		for _, cb := range bodies {
			pairs = append(pairs, [2]Body{cb, v})
		}
	}
	return pairs
}

// step applies one interval of force accumulation, integrates every body,
// and rotates body-fixed celestial frames. Bodies and vessels are visited
// in sorted-name order so that results are reproducible regardless of Go's
// randomized map iteration.
func (sys *System) step() {
	for _, pair := range sys.interactions() {
		Gravity(pair[0], pair[1])
	}
	for _, name := range sortedVesselNames(sys.Current) {
		v := sys.Current.Vessels[name]
		if mi, ok := sys.MdotIsp[name]; ok && v.ActiveStage() != nil {
			Thrust(v, mi[0], mi[1], sys.Dt)
		}
	}
	for _, name := range sortedBodyNames(sys.Current) {
		cb := sys.Current.Bodies[name]
		cb.core.Simulate(sys.Dt, sys.Scheme)
		cb.RotateBodyFixedRF(sys.Dt)
	}
	for _, name := range sortedVesselNames(sys.Current) {
		v := sys.Current.Vessels[name]
		v.core.Simulate(sys.Dt, sys.Scheme)
		if p, ok := v.core.Parent.(*CelestialBody); ok {
			v.RebuildNED(p)
		}
	}
}

// Simulate advances Current from t=0 to EndTime in Dt increments, saving a
// snapshot to History (and, if SaveDir is non-empty, to disk) once every
// SaveInterval steps. The save for a given step always happens before that
// step's integration, so History[step/SaveInterval] reflects the state at
// the start of the interval ending at t+Dt. The final state is always
// saved, regardless of where it falls relative to SaveInterval.
func (sys *System) Simulate() error {
	sys.logger.Log("event", "simulate_start", "name", sys.Name, "end_time", sys.EndTime, "dt", sys.Dt, "scheme", sys.Scheme.String())
	step := 0
	// t is derived from the step count rather than accumulated, so that
	// floating-point drift cannot add an extra step before EndTime.
	for t := 0.0; t < sys.EndTime; t = float64(step) * sys.Dt {
		if step%sys.SaveInterval == 0 {
			if err := sys.save(step); err != nil {
				return err
			}
		}
		sys.step()
		step++
		sys.logger.Log("event", "step", "t", t+sys.Dt)
	}
	if err := sys.save(step); err != nil {
		return err
	}
	sys.logger.Log("event", "simulate_end", "name", sys.Name)
	return nil
}

// dataDirName returns the directory, alongside the pointer file, that holds
// this System's numbered snapshot files.
func (sys *System) dataDirName() string {
	return filepath.Join(sys.SaveDir, sys.Name+"_data")
}

// psmPath returns the pointer file's path: <SaveDir>/<Name>.psm.
func (sys *System) psmPath() string {
	return filepath.Join(sys.SaveDir, sys.Name+".psm")
}

// pointerFile is the gob-encoded contents of a System's .psm pointer file:
// the list of save indices written so far, in ascending order.
type pointerFile struct {
	Indices []int
}

// save persists the current Timestep as save index = floor(step/SaveInterval)
// into History and, if SaveDir is set, as a numbered snapshot file under
// <Name>_data/, updating the <Name>.psm pointer file to record it.
func (sys *System) save(step int) error {
	index := step / sys.SaveInterval
	snap, err := sys.Current.Clone()
	if err != nil {
		return err
	}
	snap.SaveIndex = index
	sys.History[index] = snap
	if sys.SaveDir == "" {
		return nil
	}
	dataDir := sys.dataDirName()
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return &IOError{Path: dataDir, Err: err}
	}
	path := filepath.Join(dataDir, fmt.Sprintf("%d.gob", index))
	if err := snap.Save(path); err != nil {
		return err
	}
	if err := sys.updatePointerFile(index); err != nil {
		return err
	}
	sys.logger.Log("event", "save", "index", index, "path", path)
	return nil
}

// updatePointerFile appends index (if new) to the .psm pointer file's
// recorded index list, keeping it sorted.
func (sys *System) updatePointerFile(index int) error {
	indices := make([]int, 0, len(sys.History))
	for i := range sys.History {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(pointerFile{Indices: indices}); err != nil {
		return &IOError{Path: sys.psmPath(), Err: err}
	}
	if err := os.WriteFile(sys.psmPath(), buf.Bytes(), 0644); err != nil {
		return &IOError{Path: sys.psmPath(), Err: err}
	}
	return nil
}

// LoadPointerFile reads a System's .psm pointer file and returns the save
// indices it records, in ascending order.
func LoadPointerFile(path string) ([]int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	var pf pointerFile
	if err := gob.NewDecoder(bytes.NewBuffer(data)).Decode(&pf); err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	return pf.Indices, nil
}
