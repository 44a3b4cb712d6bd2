package touch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		addr    string
		want    Address
		wantErr bool
	}{
		{"/fader12", Address{"fader12", "fader", 12}, false},
		{"/xy1", Address{"xy1", "xy", 1}, false},
		{"//button3", Address{"button3", "button", 3}, false},
		{"/fader01", Address{"fader01", "fader", 1}, false},
		{"/PBUTTONS/3", Address{"PBUTTONS/3", PresetButtons, 3}, false},
		{"RBUTTONS/8", Address{"RBUTTONS/8", RandomButtons, 8}, false},
		{"/PBUTTONS/x", Address{}, true},
		{"/12abc", Address{}, true},
		{"/fader", Address{}, true},
		{"/fader1/z", Address{}, true},
		{"/", Address{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			got, err := ParseAddress(tt.addr)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAddress() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				assert.True(t, errors.Is(err, ErrUnresolvedAddress))
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
