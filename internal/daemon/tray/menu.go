package tray

// EntryKind distinguishes menu entries.
type EntryKind int

const (
	KindAction EntryKind = iota
	KindSeparator
	KindSubmenu
)

// Entry is one node of the tray menu tree.
type Entry struct {
	Kind EntryKind
	// Key identifies the entry independent of its localized label. Vault
	// submenus use the vault ID.
	Key      string
	Label    string
	Enabled  bool
	Action   func()
	Children []Entry
}

// Menu is the ordered list of root entries.
type Menu []Entry

func action(key, label string, fn func()) Entry {
	return Entry{Kind: KindAction, Key: key, Label: label, Enabled: true, Action: fn}
}

func separator() Entry {
	return Entry{Kind: KindSeparator}
}

func submenu(key, label string, children []Entry) Entry {
	return Entry{Kind: KindSubmenu, Key: key, Label: label, Enabled: true, Children: children}
}

// Click runs the entry's action if it is an enabled action entry.
func (e Entry) Click() {
	if e.Kind == KindAction && e.Enabled && e.Action != nil {
		e.Action()
	}
}
