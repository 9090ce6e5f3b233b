// Package nav holds the dashboard menu state: which content is shown and
// whether the settlement submenu is expanded. Nothing here is persisted.
package nav

import (
	"fmt"
	"sync"

	"backoffice/internal/records"
)

type Key string

const (
	Dashboard   Key = "dashboard"
	Settlements Key = "settlements" // parent group, never shown as content
	Dispatch    Key = "dispatch"
	Recruitment Key = "recruitment"
	TaxInvoice  Key = "taxinvoice"
)

// Item is one menu entry.
type Item struct {
	Key    Key
	Label  string
	Parent Key
	// List is the records variant shown for this entry, "" for the chart page.
	List string
}

var items = []Item{
	{Key: Dashboard, Label: "차트"},
	{Key: Settlements, Label: "정산 내역"},
	{Key: Dispatch, Label: "파견", Parent: Settlements, List: records.KeySettlements},
	{Key: Recruitment, Label: "채용대행", Parent: Settlements, List: records.KeyRecruitments},
	{Key: TaxInvoice, Label: "세금계산서", List: records.KeyTaxInvoices},
}

func lookup(k Key) (Item, bool) {
	for _, it := range items {
		if it.Key == k {
			return it, true
		}
	}
	return Item{}, false
}

// ParseKey validates a key coming from a URL or a command line.
func ParseKey(s string) (Key, error) {
	if _, ok := lookup(Key(s)); !ok {
		return "", fmt.Errorf("unknown menu %q", s)
	}
	return Key(s), nil
}

// IsLeaf reports whether k lives under a parent group.
func IsLeaf(k Key) bool {
	it, ok := lookup(k)
	return ok && it.Parent != ""
}

// Shell is the navigation state of one workspace.
type Shell struct {
	mu       sync.Mutex
	selected Key
	open     bool
}

func New() *Shell {
	return &Shell{selected: Dashboard}
}

// Click handles a top-level entry. The parent group toggles its submenu and
// leaves the active content alone; any other entry becomes active and closes it.
func (s *Shell) Click(k Key) error {
	it, ok := lookup(k)
	if !ok {
		return fmt.Errorf("unknown menu %q", k)
	}
	if it.Parent != "" {
		return s.SelectLeaf(k)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if k == Settlements {
		s.open = !s.open
		return nil
	}
	s.selected = k
	s.open = false
	return nil
}

// SelectLeaf activates a submenu entry and keeps the submenu open.
func (s *Shell) SelectLeaf(k Key) error {
	if !IsLeaf(k) {
		return fmt.Errorf("%q is not a submenu entry", k)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = k
	s.open = true
	return nil
}

// Reset returns to the chart page with the submenu closed.
func (s *Shell) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = Dashboard
	s.open = false
}

func (s *Shell) Selected() Key {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

func (s *Shell) SubmenuOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// ActiveList is the records variant for the active content, "" for the chart page.
func (s *Shell) ActiveList() string {
	it, _ := lookup(s.Selected())
	return it.List
}

// Highlighted reports whether k is drawn as selected: the active entry
// itself, or the parent group of the active entry.
func (s *Shell) Highlighted(k Key) bool {
	sel := s.Selected()
	if sel == k {
		return true
	}
	it, _ := lookup(sel)
	return it.Parent == k
}

// Entry is a menu item as it should be drawn right now.
type Entry struct {
	Item
	Highlighted bool
	Sub         bool
	// Arrow is ▲ or ▼ on the parent group.
	Arrow string
}

// Menu returns the visible entries in display order. Submenu entries are
// present only while the submenu is open.
func (s *Shell) Menu() []Entry {
	open := s.SubmenuOpen()
	out := make([]Entry, 0, len(items))
	for _, it := range items {
		if it.Parent != "" && !open {
			continue
		}
		e := Entry{Item: it, Highlighted: s.Highlighted(it.Key), Sub: it.Parent != ""}
		if it.Key == Settlements {
			e.Arrow = "▼"
			if open {
				e.Arrow = "▲"
			}
		}
		out = append(out, e)
	}
	return out
}
