package services

import (
	"context"
	"sync"
	"time"

	"github.com/yigit/tam/internal/app/models"
	"github.com/yigit/tam/internal/app/repositories"
	"github.com/yigit/tam/internal/pkg/apperrors"
)

// memStore is an in-memory TxRunner. One store-wide mutex is held for the
// whole transaction, which serializes transactions the way row locks would.
// Work happens on a copy that replaces the state only on commit.
type memStore struct {
	mu sync.Mutex

	events        map[int64]models.Event
	registrations map[int64]models.Registration
	checkins      []models.Checkin
	nextID        int64

	txCount int
	// fail, when set, is consulted before every Tx operation
	fail func(op string) error
	// hideExistingCheckins makes CheckinExistsForCode report false
	hideExistingCheckins bool
}

func newMemStore() *memStore {
	return &memStore{
		events:        make(map[int64]models.Event),
		registrations: make(map[int64]models.Registration),
		nextID:        100,
	}
}

func (s *memStore) addEvent(e models.Event) *models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == 0 {
		s.nextID++
		e.ID = s.nextID
	}
	s.events[e.ID] = e
	return &e
}

func (s *memStore) addRegistration(r models.Registration) *models.Registration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == 0 {
		s.nextID++
		r.ID = s.nextID
	}
	s.registrations[r.ID] = r
	return &r
}

func (s *memStore) event(id int64) models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.events[id]
}

func (s *memStore) registration(id int64) models.Registration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registrations[id]
}

func (s *memStore) checkinsFor(code string) []models.Checkin {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Checkin
	for _, c := range s.checkins {
		if c.QRCode == code {
			out = append(out, c)
		}
	}
	return out
}

func (s *memStore) transactions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.txCount
}

func (s *memStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repositories.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txCount++

	tx := &memTx{
		store:         s,
		events:        make(map[int64]models.Event, len(s.events)),
		registrations: make(map[int64]models.Registration, len(s.registrations)),
		checkins:      append([]models.Checkin(nil), s.checkins...),
		nextID:        s.nextID,
	}
	for id, e := range s.events {
		tx.events[id] = e
	}
	for id, r := range s.registrations {
		if r.Payment != nil {
			p := *r.Payment
			r.Payment = &p
		}
		tx.registrations[id] = r
	}

	if err := fn(ctx, tx); err != nil {
		return err
	}

	s.events = tx.events
	s.registrations = tx.registrations
	s.checkins = tx.checkins
	s.nextID = tx.nextID
	return nil
}

type memTx struct {
	store         *memStore
	events        map[int64]models.Event
	registrations map[int64]models.Registration
	checkins      []models.Checkin
	nextID        int64
}

func (t *memTx) check(op string) error {
	if t.store.fail != nil {
		return t.store.fail(op)
	}
	return nil
}

func (t *memTx) RegistrationByCodeForUpdate(ctx context.Context, code string) (*models.Registration, error) {
	if err := t.check("RegistrationByCodeForUpdate"); err != nil {
		return nil, err
	}
	for _, r := range t.registrations {
		if r.QRCode == code {
			return &r, nil
		}
	}
	return nil, apperrors.ErrRegistrationNotFound
}

func (t *memTx) RegistrationByIDForUpdate(ctx context.Context, id int64) (*models.Registration, error) {
	if err := t.check("RegistrationByIDForUpdate"); err != nil {
		return nil, err
	}
	r, ok := t.registrations[id]
	if !ok {
		return nil, apperrors.ErrRegistrationNotFound
	}
	return &r, nil
}

func (t *memTx) EventByIDForUpdate(ctx context.Context, id int64) (*models.Event, error) {
	if err := t.check("EventByIDForUpdate"); err != nil {
		return nil, err
	}
	e, ok := t.events[id]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	return &e, nil
}

func (t *memTx) CheckinExistsForCode(ctx context.Context, code string) (bool, error) {
	if err := t.check("CheckinExistsForCode"); err != nil {
		return false, err
	}
	if t.store.hideExistingCheckins {
		return false, nil
	}
	for _, c := range t.checkins {
		if c.QRCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (t *memTx) MarkCheckedIn(ctx context.Context, registrationID int64, at time.Time) error {
	if err := t.check("MarkCheckedIn"); err != nil {
		return err
	}
	r, ok := t.registrations[registrationID]
	if !ok {
		return apperrors.ErrRegistrationNotFound
	}
	r.IsCheckedIn = true
	r.CheckInTime = &at
	t.registrations[registrationID] = r
	return nil
}

func (t *memTx) InsertCheckins(ctx context.Context, checkins []*models.Checkin) error {
	if err := t.check("InsertCheckins"); err != nil {
		return err
	}
	for _, c := range checkins {
		for _, existing := range t.checkins {
			if existing.QRCode == c.QRCode && existing.TeamIndex == c.TeamIndex {
				return apperrors.ErrAlreadyCheckedIn
			}
		}
		t.nextID++
		c.ID = t.nextID
		t.checkins = append(t.checkins, *c)
	}
	return nil
}

func (t *memTx) UpdatePayment(ctx context.Context, registrationID int64, payment *models.Payment) error {
	if err := t.check("UpdatePayment"); err != nil {
		return err
	}
	r, ok := t.registrations[registrationID]
	if !ok || r.Payment == nil {
		return apperrors.ErrNoPaymentRecord
	}
	p := *payment
	r.Payment = &p
	t.registrations[registrationID] = r
	return nil
}

func (t *memTx) IncrementRegisteredCount(ctx context.Context, eventID int64, delta int) error {
	if err := t.check("IncrementRegisteredCount"); err != nil {
		return err
	}
	e, ok := t.events[eventID]
	if !ok {
		return apperrors.ErrEventNotFound
	}
	e.RegisteredCount += delta
	t.events[eventID] = e
	return nil
}

func (t *memTx) InsertRegistration(ctx context.Context, registration *models.Registration) error {
	if err := t.check("InsertRegistration"); err != nil {
		return err
	}
	if _, ok := t.events[registration.EventID]; !ok {
		return apperrors.ErrEventNotFound
	}
	for _, r := range t.registrations {
		if r.QRCode == registration.QRCode {
			return apperrors.ErrDuplicateCheckinCode
		}
	}
	t.nextID++
	registration.ID = t.nextID
	registration.CreatedAt = time.Now()
	registration.UpdatedAt = registration.CreatedAt
	stored := *registration
	if stored.Payment != nil {
		p := *stored.Payment
		stored.Payment = &p
	}
	t.registrations[registration.ID] = stored
	return nil
}

var _ repositories.TxRunner = (*memStore)(nil)
var _ repositories.Tx = (*memTx)(nil)
