package audit

import (
	"sync"

	"fiber-wms/models"
)

// Document type tags used in the trail.
const (
	DocTypeReceipt = "receipt"
	DocTypeCount   = "count"
)

// Actor identifies who performed a transition.
type Actor struct {
	ID   int
	Role string
}

// Store persists trail entries. Append-only: no update or delete.
type Store interface {
	Append(ev *models.AuditEvent) error
	ForDocument(docType string, docID int64) ([]models.AuditEvent, error)
}

// Recorder writes document transitions into a Store.
type Recorder struct {
	store Store
}

func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store}
}

func (r *Recorder) Transition(docType string, docID int64, docNo, action, from, to string, actor Actor, notes string) error {
	return r.store.Append(&models.AuditEvent{
		DocType:    docType,
		DocId:      docID,
		DocNo:      docNo,
		Action:     action,
		FromStatus: from,
		ToStatus:   to,
		Actor:      actor.ID,
		Role:       actor.Role,
		Notes:      notes,
	})
}

func (r *Recorder) Trail(docType string, docID int64) ([]models.AuditEvent, error) {
	return r.store.ForDocument(docType, docID)
}

// MemoryStore is an in-process Store used by tests and tooling.
type MemoryStore struct {
	mu     sync.Mutex
	events []models.AuditEvent
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Append(ev *models.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, *ev)
	return nil
}

func (s *MemoryStore) ForDocument(docType string, docID int64) ([]models.AuditEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.AuditEvent
	for _, ev := range s.events {
		if ev.DocType == docType && ev.DocId == docID {
			out = append(out, ev)
		}
	}
	return out, nil
}
