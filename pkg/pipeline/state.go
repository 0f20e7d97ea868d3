package pipeline

import (
	"hotelprep/pkg/dataprep"
	"hotelprep/pkg/stats"
)

// State is everything a fit run learns. It is written by fit-mode calls only
// and read by transform-only calls, so a fitted State can be persisted and
// handed to another process to reproduce the same transform.
type State struct {
	Scaler        *stats.StandardScaler
	Encoders      map[string]*dataprep.LabelEncoder
	FeatureNames  []string
	OutlierBounds map[string]stats.Bounds
}

func NewState() *State {
	return &State{
		Encoders:      make(map[string]*dataprep.LabelEncoder),
		OutlierBounds: make(map[string]stats.Bounds),
	}
}

// Fitted reports whether the state carries a scaler and a feature list.
func (s *State) Fitted() bool {
	return s != nil && s.Scaler.Fitted() && len(s.FeatureNames) > 0
}
