package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlace(t *testing.T) {
	tests := []struct {
		name    string
		ev      DropEvent
		origin  Position
		want    Position
		wantErr bool
	}{
		{
			name:   "CanvasRelative",
			ev:     DropEvent{ComponentKey: "Timer", ClientX: 320, ClientY: 180},
			origin: Position{X: 200, Y: 100},
			want:   Position{X: 120, Y: 80},
		},
		{
			name: "ZeroOrigin",
			ev:   DropEvent{ComponentKey: "Logger", ClientX: 5, ClientY: 6},
			want: Position{X: 5, Y: 6},
		},
		{
			name:    "UnknownKey",
			ev:      DropEvent{ComponentKey: "Ghost"},
			wantErr: true,
		},
		{
			name:    "EmptyKey",
			ev:      DropEvent{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Place(testRegistry(), NewIDGenerator(), tt.ev, tt.origin)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownComponent)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, n.Position)
			assert.Equal(t, tt.ev.ComponentKey, n.ComponentKey)
			assert.True(t, n.Resolved)
			assert.Empty(t, n.ErrorMessage)
			require.NotNil(t, n.Descriptor)
			assert.Equal(t, tt.ev.ComponentKey, n.Descriptor.Key)
		})
	}
}

func TestLink_AcceptsAnything(t *testing.T) {
	ids := NewIDGenerator()
	c := Connection{Source: "a", SourceHandle: HandleBottom, Target: "a", TargetHandle: HandleTop}

	e1 := Link(ids, c)
	e2 := Link(ids, c)

	assert.True(t, e1.Animated)
	assert.Equal(t, "a", e1.Source)
	assert.Equal(t, "a", e1.Target)
	assert.Equal(t, HandleBottom, e1.SourceHandle)
	assert.Equal(t, HandleTop, e1.TargetHandle)
	assert.NotEqual(t, e1.ID, e2.ID)
}
