package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSkin_IsDefault(t *testing.T) {
	assert.True(t, Skin{}.IsDefault())
	assert.False(t, NewSkin("tex", "").IsDefault())
	assert.False(t, NewSkin("", "sig").IsDefault())
}

func TestPreset_Location(t *testing.T) {
	p := Preset{X: 1, Y: 2, Z: 3, Yaw: 90, Pitch: -10}
	assert.Equal(t, NewLocation(1, 2, 3, 90, -10), p.Location())
}

func TestEnumStrings(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{PoseStanding.String(), "STANDING"},
		{PoseDying.String(), "DYING"},
		{Pose(99).String(), "UNKNOWN"},
		{InteractActionInteract.String(), "interact"},
		{InteractActionAttack.String(), "attack"},
		{InteractActionInteractAt.String(), "interact_at"},
		{InteractAction(42).String(), "unknown"},
		{HandMain.String(), "main"},
		{HandOff.String(), "off"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.got)
	}
}
