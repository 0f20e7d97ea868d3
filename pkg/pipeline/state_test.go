package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hotelprep/pkg/stats"
)

func TestStateFitted(t *testing.T) {
	var nilState *State
	assert.False(t, nilState.Fitted())

	s := NewState()
	assert.False(t, s.Fitted())

	s.Scaler = &stats.StandardScaler{Mean: []float64{0}, Var: []float64{1}, Scale: []float64{1}}
	assert.False(t, s.Fitted())

	s.FeatureNames = []string{"lead_time"}
	assert.True(t, s.Fitted())
}
