package hotspot

import (
	"fmt"

	"github.com/colonyops/hotspot/internal/core/seqmap"
	"github.com/colonyops/hotspot/internal/core/structure"
)

// Target is one contiguous chain segment of a structure, ready to display.
type Target struct {
	Path     string
	Chain    string
	Segment  int // index into Segments
	Segments []seqmap.LocalWindow
}

// Window returns the selected segment.
func (t Target) Window() seqmap.LocalWindow {
	return t.Segments[t.Segment]
}

// LoadTarget reads the structure at path and selects a chain segment. An
// empty chain picks the first chain in the file.
func LoadTarget(path, chain string, segment int) (Target, error) {
	s, err := structure.ParseFile(path)
	if err != nil {
		return Target{}, err
	}
	return TargetFrom(s, path, chain, segment)
}

// TargetFrom selects a chain segment from an already parsed structure.
func TargetFrom(s *structure.Structure, path, chain string, segment int) (Target, error) {
	if chain == "" {
		ids := s.ChainIDs()
		if len(ids) == 0 {
			return Target{}, fmt.Errorf("%s: no protein chains", path)
		}
		chain = ids[0]
	}

	windows, err := s.Windows(chain)
	if err != nil {
		return Target{}, err
	}
	if segment < 0 || segment >= len(windows) {
		return Target{}, fmt.Errorf("chain %s has %d segment(s); segment %d out of range", chain, len(windows), segment)
	}

	return Target{Path: path, Chain: chain, Segment: segment, Segments: windows}, nil
}
