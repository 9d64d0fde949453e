package vault

import (
	"sync"

	"github.com/cryptomator/cryptomator-tray/internal/models"
)

// ChangeKind classifies a collection change.
type ChangeKind int

// Change kinds.
const (
	ChangeAdded ChangeKind = iota
	ChangeRemoved
	ChangeReordered
	ChangeState
	ChangeRenamed
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeAdded:
		return "added"
	case ChangeRemoved:
		return "removed"
	case ChangeReordered:
		return "reordered"
	case ChangeState:
		return "state"
	case ChangeRenamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// Change describes one mutation of the collection or of a contained vault.
type Change struct {
	Kind    ChangeKind
	VaultID string
}

// subscriberBuffer bounds pending changes per subscriber. Sends never block:
// when the buffer is full the subscriber already has unread changes and will
// re-read the whole list anyway.
const subscriberBuffer = 64

// List is the ordered vault collection. It is safe for concurrent use.
// Subscribers receive changes on their own channel and read state back through
// Snapshot; per-vault state and name changes are published as list changes.
type List struct {
	mu     sync.RWMutex
	vaults []*Vault

	subMu  sync.Mutex
	subs   map[int]chan Change
	nextID int
}

// NewList creates an empty list.
func NewList() *List {
	return &List{subs: make(map[int]chan Change)}
}

// Subscribe registers for change notifications. The returned cancel func
// unsubscribes and closes the channel.
func (l *List) Subscribe() (<-chan Change, func()) {
	ch := make(chan Change, subscriberBuffer)

	l.subMu.Lock()
	id := l.nextID
	l.nextID++
	l.subs[id] = ch
	l.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			l.subMu.Lock()
			delete(l.subs, id)
			l.subMu.Unlock()
			close(ch)
		})
	}
}

func (l *List) publish(c Change) {
	l.subMu.Lock()
	defer l.subMu.Unlock()
	for _, ch := range l.subs {
		select {
		case ch <- c:
		default:
		}
	}
}

func (l *List) vaultChanged(v *Vault, kind ChangeKind) {
	l.publish(Change{Kind: kind, VaultID: v.ID()})
}

// Snapshot returns the vaults in display order. The slice is a copy; the
// vaults are shared.
func (l *List) Snapshot() []*Vault {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*Vault, len(l.vaults))
	copy(out, l.vaults)
	return out
}

// Len returns the number of vaults.
func (l *List) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.vaults)
}

// Get returns the vault with the given ID, or nil.
func (l *List) Get(id string) *Vault {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, v := range l.vaults {
		if v.id == id {
			return v
		}
	}
	return nil
}

// Unlocked returns the currently unlocked vaults in display order.
func (l *List) Unlocked() []*Vault {
	return l.Filter((*Vault).IsUnlocked)
}

// Filter returns the vaults matching fn in display order.
func (l *List) Filter(fn func(*Vault) bool) []*Vault {
	var out []*Vault
	for _, v := range l.Snapshot() {
		if fn(v) {
			out = append(out, v)
		}
	}
	return out
}

// Add appends v. A vault with the same ID already in the list is not replaced.
func (l *List) Add(v *Vault) bool {
	l.mu.Lock()
	for _, existing := range l.vaults {
		if existing.id == v.id {
			l.mu.Unlock()
			return false
		}
	}
	l.vaults = append(l.vaults, v)
	l.mu.Unlock()

	v.observe(l.vaultChanged)
	l.publish(Change{Kind: ChangeAdded, VaultID: v.id})
	return true
}

// Remove removes the vault with the given ID.
func (l *List) Remove(id string) bool {
	l.mu.Lock()
	var removed *Vault
	for i, v := range l.vaults {
		if v.id == id {
			removed = v
			l.vaults = append(l.vaults[:i], l.vaults[i+1:]...)
			break
		}
	}
	l.mu.Unlock()

	if removed == nil {
		return false
	}
	removed.observe(nil)
	l.publish(Change{Kind: ChangeRemoved, VaultID: id})
	return true
}

// Reconcile makes the list match entries: unknown vaults are added locked,
// vaults not in entries are removed, names are updated, and the order follows
// entries. Runtime state of surviving vaults is kept.
func (l *List) Reconcile(entries []models.VaultEntry) {
	l.mu.Lock()
	byID := make(map[string]*Vault, len(l.vaults))
	for _, v := range l.vaults {
		byID[v.id] = v
	}

	var (
		next     = make([]*Vault, 0, len(entries))
		added    []*Vault
		renamed  []*Vault
		inOrder  = true
		kept     = make(map[string]bool, len(entries))
		oldIndex = make(map[string]int, len(l.vaults))
	)
	for i, v := range l.vaults {
		oldIndex[v.id] = i
	}

	for _, e := range entries {
		if kept[e.ID] {
			continue
		}
		kept[e.ID] = true

		v, ok := byID[e.ID]
		if !ok {
			v = New(e.ID, e.Name, e.Path, StateLocked)
			added = append(added, v)
		} else if v.DisplayName() != e.Name {
			renamed = append(renamed, v)
		}
		next = append(next, v)
	}

	var removed []*Vault
	for _, v := range l.vaults {
		if !kept[v.id] {
			removed = append(removed, v)
		}
	}

	// Reordering only matters among vaults present before and after.
	last := -1
	for _, v := range next {
		if i, ok := oldIndex[v.id]; ok {
			if i < last {
				inOrder = false
				break
			}
			last = i
		}
	}

	l.vaults = next
	l.mu.Unlock()

	for _, v := range removed {
		v.observe(nil)
		l.publish(Change{Kind: ChangeRemoved, VaultID: v.id})
	}
	for _, v := range added {
		v.observe(l.vaultChanged)
		l.publish(Change{Kind: ChangeAdded, VaultID: v.id})
	}
	if !inOrder {
		l.publish(Change{Kind: ChangeReordered})
	}
	for _, v := range renamed {
		for _, e := range entries {
			if e.ID == v.id {
				v.SetDisplayName(e.Name)
				break
			}
		}
	}
}
