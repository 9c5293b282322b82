package selection

import (
	"sync"
	"time"

	"github.com/payflowhq/payflow/app/models"
)

// FeePerInvoice is the flat processing fee charged per selected invoice.
const FeePerInvoice = 5

// Totals are pure derivations of (invoices, selection); they are computed on
// demand and never stored independently.
type Totals struct {
	Subtotal float64
	Fee      float64
	Total    float64
}

// Store owns the invoice snapshot and the set of selected invoice ids. The
// selection is always a subset of the ids currently present in the snapshot:
// every snapshot change re-filters the selection. A single Store instance is
// injected into whichever components need it.
type Store struct {
	mu          sync.RWMutex
	invoices    []models.Invoice
	selected    map[string]struct{}
	lastUpdated time.Time
}

// NewStore creates a store over an initial invoice snapshot.
func NewStore(invoices []models.Invoice) *Store {
	s := &Store{selected: make(map[string]struct{})}
	s.SetInvoices(invoices)
	return s
}

// SetInvoices replaces the invoice snapshot and drops selected ids that are
// no longer present.
func (s *Store) SetInvoices(invoices []models.Invoice) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.invoices = make([]models.Invoice, len(invoices))
	copy(s.invoices, invoices)
	s.lastUpdated = time.Now()
	s.filterSelectionLocked()
}

// Select replaces the selection with the de-duplicated subset of ids that
// exist in the current snapshot. Unknown ids are silently dropped.
func (s *Store) Select(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if s.hasInvoiceLocked(id) {
			next[id] = struct{}{}
		}
	}
	s.selected = next
}

// Toggle flips membership of id in the selection; no-op for unknown ids.
func (s *Store) Toggle(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasInvoiceLocked(id) {
		return
	}
	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
	} else {
		s.selected[id] = struct{}{}
	}
}

// Clear empties the selection.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[string]struct{})
}

// RemovePaid drops the given invoices from the snapshot after a successful
// payment and re-filters the selection.
func (s *Store) RemovePaid(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	paid := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		paid[id] = struct{}{}
	}
	kept := s.invoices[:0]
	for _, inv := range s.invoices {
		if _, ok := paid[inv.ID]; !ok {
			kept = append(kept, inv)
		}
	}
	s.invoices = kept
	s.lastUpdated = time.Now()
	s.filterSelectionLocked()
}

// Invoices returns a copy of the current snapshot.
func (s *Store) Invoices() []models.Invoice {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Invoice, len(s.invoices))
	copy(out, s.invoices)
	return out
}

// SelectedIDs returns the selected ids in snapshot order.
func (s *Store) SelectedIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.selected))
	for _, inv := range s.invoices {
		if _, ok := s.selected[inv.ID]; ok {
			ids = append(ids, inv.ID)
		}
	}
	return ids
}

// SelectedInvoices returns the selected invoices in snapshot order.
func (s *Store) SelectedInvoices() []models.Invoice {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Invoice, 0, len(s.selected))
	for _, inv := range s.invoices {
		if _, ok := s.selected[inv.ID]; ok {
			out = append(out, inv)
		}
	}
	return out
}

// IsSelected reports whether id is currently selected.
func (s *Store) IsSelected(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.selected[id]
	return ok
}

// Totals derives subtotal, fee and total for the current selection.
func (s *Store) Totals() Totals {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var t Totals
	for _, inv := range s.invoices {
		if _, ok := s.selected[inv.ID]; ok {
			t.Subtotal += inv.Amount
			t.Fee += FeePerInvoice
		}
	}
	t.Total = t.Subtotal + t.Fee
	return t
}

// LastUpdated returns the time of the last snapshot change.
func (s *Store) LastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdated
}

func (s *Store) hasInvoiceLocked(id string) bool {
	for _, inv := range s.invoices {
		if inv.ID == id {
			return true
		}
	}
	return false
}

func (s *Store) filterSelectionLocked() {
	for id := range s.selected {
		if !s.hasInvoiceLocked(id) {
			delete(s.selected, id)
		}
	}
}
