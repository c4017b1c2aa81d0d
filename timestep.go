package samss

import (
	"bytes"
	"encoding/gob"
	"os"
)

// universalFrameName names the root frame every Timestep is constructed
// with; all other frames and bodies ultimately chain back to it. This is
// the frame graph's one distinguished name (spec §9/GLOSSARY).
const universalFrameName = "UniversalRF"

// Timestep is a named snapshot of a simulation instant: every reference
// frame, celestial body, and vessel that exists at that instant, keyed by
// name. Bodies reference their parent frame and parent body by name; those
// links are resolved to live pointers at construction time and re-resolved
// by resolveParents after Load.
type Timestep struct {
	Frames  map[string]*ReferenceFrame
	Bodies  map[string]*CelestialBody
	Vessels map[string]*Vessel

	// SaveIndex is the integer save index (floor(step/saveInterval)) that a
	// System driver records on the snapshot copy it stores in History. The
	// live Timestep being simulated is not updated, and SaveIndex is not
	// persisted by Save, so it is zero outside History.
	SaveIndex int
}

// NewTimestep returns an empty Timestep containing only the universal
// reference frame.
func NewTimestep() *Timestep {
	return &Timestep{
		Frames:  map[string]*ReferenceFrame{universalFrameName: NewReferenceFrame(universalFrameName)},
		Bodies:  map[string]*CelestialBody{},
		Vessels: map[string]*Vessel{},
	}
}

func (ts *Timestep) nameTaken(name string) bool {
	if _, ok := ts.Frames[name]; ok {
		return true
	}
	if _, ok := ts.Bodies[name]; ok {
		return true
	}
	if _, ok := ts.Vessels[name]; ok {
		return true
	}
	return false
}

// AddReferenceFrame registers a new frame named name, initially aligned
// with parentName's triad. parentName must already exist.
func (ts *Timestep) AddReferenceFrame(name, parentName string) (*ReferenceFrame, error) {
	if ts.nameTaken(name) {
		return nil, &ConstructionError{Name: name, Reason: "name already in use"}
	}
	parent, ok := ts.Frames[parentName]
	if !ok {
		return nil, &ConstructionError{Name: name, Reason: "parent frame " + parentName + " does not exist"}
	}
	rf := parent.Clone(name)
	ts.Frames[name] = rf
	return rf, nil
}

// AddCelestialBody constructs and registers a CelestialBody under
// parentFrameName, optionally orbiting parentBodyName (pass "" for a root
// body with no physical parent, such as a system's primary star).
func (ts *Timestep) AddCelestialBody(name string, mass, radius float64, parentFrameName, parentBodyName string) (*CelestialBody, error) {
	if ts.nameTaken(name) {
		return nil, &ConstructionError{Name: name, Reason: "name already in use"}
	}
	parentRF, ok := ts.Frames[parentFrameName]
	if !ok {
		return nil, &ConstructionError{Name: name, Reason: "parent frame " + parentFrameName + " does not exist"}
	}
	universalRF := ts.Frames[universalFrameName]
	cb, err := NewCelestialBody(name, mass, radius, universalRF, parentRF)
	if err != nil {
		return nil, err
	}
	if parentBodyName != "" {
		parent, ok := ts.Bodies[parentBodyName]
		if !ok {
			return nil, &ConstructionError{Name: name, Reason: "parent body " + parentBodyName + " does not exist"}
		}
		cb.core.Parent = parent
		cb.core.ParentName = parentBodyName
	}
	bodyRFName := name + "RF"
	cb.core.BodyRF = parentRF.Clone(bodyRFName)
	ts.Frames[bodyRFName] = cb.core.BodyRF
	ts.Bodies[name] = cb
	return cb, nil
}

// AddVessel constructs and registers a Vessel under parentFrameName,
// positioned relative to parentBodyName (which must already exist), and
// normalizes its stored position to its center of mass (spec §4.7).
func (ts *Timestep) AddVessel(name string, stages []*Stage, parentFrameName, parentBodyName string) (*Vessel, error) {
	if ts.nameTaken(name) {
		return nil, &ConstructionError{Name: name, Reason: "name already in use"}
	}
	parentRF, ok := ts.Frames[parentFrameName]
	if !ok {
		return nil, &ConstructionError{Name: name, Reason: "parent frame " + parentFrameName + " does not exist"}
	}
	parent, ok := ts.Bodies[parentBodyName]
	if !ok {
		return nil, &ConstructionError{Name: name, Reason: "parent body " + parentBodyName + " does not exist"}
	}
	universalRF := ts.Frames[universalFrameName]
	v, err := NewVessel(name, stages, universalRF, parentRF)
	if err != nil {
		return nil, err
	}
	v.core.Parent = parent
	v.core.ParentName = parentBodyName
	bodyRFName := name + "RF"
	v.core.BodyRF = parentRF.Clone(bodyRFName)
	ts.Frames[bodyRFName] = v.core.BodyRF
	v.NormalizeToCoM()
	ts.Vessels[name] = v
	return v, nil
}

// Clone deep-copies the Timestep by round-tripping it through its gob
// snapshot, so that System can retain per-saved-step history without
// aliasing live state.
func (ts *Timestep) Clone() (*Timestep, error) {
	var buf bytes.Buffer
	if err := ts.encode(&buf); err != nil {
		return nil, err
	}
	return decodeTimestep(&buf)
}

// timestepState is the persisted, gob-encodable representation of a
// Timestep: a flat container of the three namespaces plus the name-based
// links needed to re-wire pointers on load.
type timestepState struct {
	Frames  map[string]frameState
	Bodies  map[string]celestialBodyState
	Vessels map[string]vesselState
}

func (ts *Timestep) encode(w *bytes.Buffer) error {
	s := timestepState{
		Frames:  make(map[string]frameState, len(ts.Frames)),
		Bodies:  make(map[string]celestialBodyState, len(ts.Bodies)),
		Vessels: make(map[string]vesselState, len(ts.Vessels)),
	}
	for k, v := range ts.Frames {
		s.Frames[k] = v.snapshot()
	}
	for k, v := range ts.Bodies {
		s.Bodies[k] = v.snapshot()
	}
	for k, v := range ts.Vessels {
		s.Vessels[k] = v.snapshot()
	}
	enc := gob.NewEncoder(w)
	return enc.Encode(s)
}

func decodeTimestep(r *bytes.Buffer) (*Timestep, error) {
	var s timestepState
	dec := gob.NewDecoder(r)
	if err := dec.Decode(&s); err != nil {
		return nil, err
	}
	ts := &Timestep{
		Frames:  make(map[string]*ReferenceFrame, len(s.Frames)),
		Bodies:  make(map[string]*CelestialBody, len(s.Bodies)),
		Vessels: make(map[string]*Vessel, len(s.Vessels)),
	}
	for k, v := range s.Frames {
		ts.Frames[k] = frameFromSnapshot(v)
	}
	for k, v := range s.Bodies {
		ts.Bodies[k] = celestialBodyFromSnapshot(v)
	}
	for k, v := range s.Vessels {
		ts.Vessels[k] = vesselFromSnapshot(v)
	}
	ts.resolveParents()
	return ts, nil
}

// resolveParents re-links every body's Parent pointer, UniversalRF,
// ParentRF, and BodyRF to the live, shared objects in this Timestep's
// Frames map after a Load/Clone, by name. It is run once immediately
// after decoding.
func (ts *Timestep) resolveParents() {
	universal := ts.Frames[universalFrameName]
	link := func(rb *RigidBody) {
		rb.UniversalRF = universal
		if rb.BodyRF != nil {
			if f, ok := ts.Frames[rb.BodyRF.Name]; ok {
				rb.BodyRF = f
			}
		}
		if rb.ParentRF != nil {
			if f, ok := ts.Frames[rb.ParentRF.Name]; ok {
				rb.ParentRF = f
			}
		}
		if rb.ParentName != "" {
			if p, ok := ts.Bodies[rb.ParentName]; ok {
				rb.Parent = p
			}
		}
	}
	for _, cb := range ts.Bodies {
		link(cb.core)
	}
	for _, v := range ts.Vessels {
		link(v.core)
	}
}

// Save writes the Timestep to path as a single gob-encoded snapshot.
func (ts *Timestep) Save(path string) error {
	var buf bytes.Buffer
	if err := ts.encode(&buf); err != nil {
		return &IOError{Path: path, Err: err}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return &IOError{Path: path, Err: err}
	}
	return nil
}

// LoadTimestep reads a Timestep previously written by Save. No partial
// Timestep is ever returned: decode failures return a nil Timestep and an
// *IOError.
func LoadTimestep(path string) (*Timestep, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	ts, err := decodeTimestep(bytes.NewBuffer(data))
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	return ts, nil
}
