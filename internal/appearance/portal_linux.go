//go:build linux

package appearance

import (
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
)

const (
	portalDest      = "org.freedesktop.portal.Desktop"
	portalPath      = "/org/freedesktop/portal/desktop"
	portalSettings  = "org.freedesktop.portal.Settings"
	appearanceNS    = "org.freedesktop.appearance"
	colorSchemeKey  = "color-scheme"
	colorSchemeDark = uint32(1)
)

// portal reads the color scheme from the XDG desktop portal.
type portal struct {
	conn *dbus.Conn
	obj  dbus.BusObject

	mu         sync.RWMutex
	theme      Theme
	listeners  []func(Theme)
	subscribed bool
}

// NewSystem connects to the session bus and reads the current color scheme
// from the XDG desktop portal.
func NewSystem() (Provider, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}

	p := &portal{
		conn: conn,
		obj:  conn.Object(portalDest, dbus.ObjectPath(portalPath)),
	}

	scheme, err := p.readColorScheme()
	if err != nil {
		conn.Close()
		return nil, err
	}
	p.theme = themeFromColorScheme(scheme)
	return p, nil
}

func (p *portal) readColorScheme() (uint32, error) {
	call := p.obj.Call(portalSettings+".Read", 0, appearanceNS, colorSchemeKey)
	if call.Err != nil {
		return 0, fmt.Errorf("read %s.%s: %w", appearanceNS, colorSchemeKey, call.Err)
	}

	var v dbus.Variant
	if err := call.Store(&v); err != nil {
		return 0, fmt.Errorf("read %s.%s: %w", appearanceNS, colorSchemeKey, err)
	}
	return colorSchemeValue(v)
}

// colorSchemeValue unwraps the portal reply. Older portals nest the value in
// a second variant.
func colorSchemeValue(v dbus.Variant) (uint32, error) {
	switch val := v.Value().(type) {
	case uint32:
		return val, nil
	case dbus.Variant:
		return colorSchemeValue(val)
	default:
		return 0, fmt.Errorf("unexpected color-scheme type %s", v.Signature())
	}
}

func themeFromColorScheme(scheme uint32) Theme {
	if scheme == colorSchemeDark {
		return Dark
	}
	return Light
}

func (p *portal) CurrentTheme() Theme {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.theme
}

func (p *portal) AddListener(fn func(Theme)) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.subscribed {
		if err := p.conn.AddMatchSignal(
			dbus.WithMatchInterface(portalSettings),
			dbus.WithMatchMember("SettingChanged"),
			dbus.WithMatchObjectPath(portalPath),
		); err != nil {
			return fmt.Errorf("subscribe to %s.SettingChanged: %w", portalSettings, err)
		}

		signals := make(chan *dbus.Signal, 8)
		p.conn.Signal(signals)
		go p.dispatch(signals)
		p.subscribed = true
	}

	p.listeners = append(p.listeners, fn)
	return nil
}

func (p *portal) dispatch(signals <-chan *dbus.Signal) {
	for signal := range signals {
		if signal.Name != portalSettings+".SettingChanged" || len(signal.Body) != 3 {
			continue
		}
		namespace, _ := signal.Body[0].(string)
		key, _ := signal.Body[1].(string)
		if namespace != appearanceNS || key != colorSchemeKey {
			continue
		}
		value, ok := signal.Body[2].(dbus.Variant)
		if !ok {
			continue
		}
		scheme, err := colorSchemeValue(value)
		if err != nil {
			continue
		}
		p.update(themeFromColorScheme(scheme))
	}
}

func (p *portal) update(theme Theme) {
	p.mu.Lock()
	if p.theme == theme {
		p.mu.Unlock()
		return
	}
	p.theme = theme
	listeners := make([]func(Theme), len(p.listeners))
	copy(listeners, p.listeners)
	p.mu.Unlock()

	for _, fn := range listeners {
		fn(theme)
	}
}
