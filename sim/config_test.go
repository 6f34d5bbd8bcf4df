package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inference-sim/belief-sim/sim/trace"
)

func TestNewSimConfig_FieldEquivalence(t *testing.T) {
	got := NewSimConfig(3, trace.TraceLevelTicks)
	want := SimConfig{SensingInterval: 3, TraceLevel: trace.TraceLevelTicks}
	assert.Equal(t, want, got)
}

func TestNewSimConfig_ZeroValues_NoDefaults(t *testing.T) {
	assert.Equal(t, SimConfig{}, NewSimConfig(0, ""))
	assert.NoError(t, NewSimConfig(0, "").Validate())
}

func TestSimConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     SimConfig
		wantErr bool
	}{
		{"zero interval", NewSimConfig(0, trace.TraceLevelNone), false},
		{"large interval", NewSimConfig(50, trace.TraceLevelTicks), false},
		{"negative interval", NewSimConfig(-1, ""), true},
		{"unknown trace level", NewSimConfig(1, "decisions"), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
