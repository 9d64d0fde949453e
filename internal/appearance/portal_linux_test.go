//go:build linux

package appearance

import (
	"testing"

	"github.com/godbus/dbus/v5"
)

func TestColorSchemeValue(t *testing.T) {
	tests := []struct {
		name    string
		v       dbus.Variant
		want    uint32
		wantErr bool
	}{
		{"plain", dbus.MakeVariant(uint32(1)), 1, false},
		{"nested", dbus.MakeVariant(dbus.MakeVariant(uint32(2))), 2, false},
		{"wrong type", dbus.MakeVariant("dark"), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := colorSchemeValue(tt.v)
			if (err != nil) != tt.wantErr {
				t.Fatalf("colorSchemeValue() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("colorSchemeValue() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPortalUpdateNotifiesListeners(t *testing.T) {
	p := &portal{theme: Light}
	var got []Theme
	p.listeners = append(p.listeners, func(th Theme) { got = append(got, th) })

	p.update(Light)
	p.update(Dark)

	if len(got) != 1 || got[0] != Dark {
		t.Errorf("notifications = %v, want [dark]", got)
	}
	if themeFromColorScheme(0) != Light || themeFromColorScheme(2) != Light || themeFromColorScheme(1) != Dark {
		t.Error("themeFromColorScheme mapping is wrong")
	}
}
