package booking

import (
	"context"
	"sort"
	"sync"

	bookingRepo "glowbook/database/repository/booking"
	"glowbook/database/repository"
	"glowbook/models"
)

// In-memory repositories mirroring the storage-level guarantees the mongo
// implementations provide: buffered non-overlap at insert/move time and
// compare-and-swap transitions.

type fakeProviderRepo struct {
	mu        sync.Mutex
	providers map[string]*models.Provider
}

func newFakeProviderRepo(ps ...*models.Provider) *fakeProviderRepo {
	r := &fakeProviderRepo{providers: make(map[string]*models.Provider)}
	for _, p := range ps {
		r.providers[p.ID] = p
	}
	return r
}

func (r *fakeProviderRepo) GetByID(_ context.Context, id string) (*models.Provider, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.providers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProviderRepo) Create(_ context.Context, p *models.Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[p.ID] = p
	return nil
}

func (r *fakeProviderRepo) Update(_ context.Context, p *models.Provider) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.providers[p.ID]; !ok {
		return repository.ErrNotFound
	}
	r.providers[p.ID] = p
	return nil
}

func (r *fakeProviderRepo) UpdatePolicy(_ context.Context, providerID string, policy models.PolicyConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.providers[providerID]
	if !ok {
		return repository.ErrNotFound
	}
	p.Policy = policy
	return nil
}

type fakeScheduleRepo struct {
	mu        sync.Mutex
	schedules map[string]*models.Schedule
}

func newFakeScheduleRepo(ss ...*models.Schedule) *fakeScheduleRepo {
	r := &fakeScheduleRepo{schedules: make(map[string]*models.Schedule)}
	for _, s := range ss {
		r.schedules[s.ProviderID] = s
	}
	return r
}

func (r *fakeScheduleRepo) GetByProvider(_ context.Context, providerID string) (*models.Schedule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.schedules[providerID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeScheduleRepo) Upsert(_ context.Context, s *models.Schedule) error {
	if err := s.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schedules[s.ProviderID] = s
	return nil
}

type fakeTimeOffRepo struct {
	mu      sync.Mutex
	entries []models.TimeOff
}

func (r *fakeTimeOffRepo) Create(_ context.Context, t *models.TimeOff) error {
	if err := t.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *t)
	return nil
}

func (r *fakeTimeOffRepo) Delete(_ context.Context, providerID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.entries {
		if r.entries[i].ProviderID == providerID && r.entries[i].ID == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeTimeOffRepo) ListCovering(_ context.Context, providerID, date string) ([]models.TimeOff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.TimeOff
	for _, t := range r.entries {
		if t.ProviderID == providerID && t.Covers(date) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTimeOffRepo) ListFrom(_ context.Context, providerID, date string) ([]models.TimeOff, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.TimeOff
	for _, t := range r.entries {
		if t.ProviderID == providerID && t.EndDate >= date {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
}

func newFakeBookingRepo(bs ...*models.Booking) *fakeBookingRepo {
	r := &fakeBookingRepo{bookings: make(map[string]*models.Booking)}
	for _, b := range bs {
		cp := *b
		r.bookings[b.ID] = &cp
	}
	return r
}

func (r *fakeBookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) ListActiveForDay(_ context.Context, providerID, date string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.ProviderID == providerID && b.Date == date && b.Status != models.BookingCancelled {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out, nil
}

func (r *fakeBookingRepo) ListByClient(_ context.Context, clientID, fromDate string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.ClientID == clientID && (fromDate == "" || b.Date >= fromDate) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) ListByProvider(_ context.Context, providerID, fromDate string) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Booking
	for _, b := range r.bookings {
		if b.ProviderID == providerID && (fromDate == "" || b.Date >= fromDate) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) overlapsLocked(providerID, date string, start, end, buffer int, excludeID string) bool {
	for _, b := range r.bookings {
		if b.ID == excludeID || b.ProviderID != providerID || b.Date != date || b.Status == models.BookingCancelled {
			continue
		}
		if start < b.End+buffer && b.Start < end+buffer {
			return true
		}
	}
	return false
}

func (r *fakeBookingRepo) InsertIfFree(_ context.Context, b *models.Booking, bufferMinutes int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.overlapsLocked(b.ProviderID, b.Date, b.Start, b.End, bufferMinutes, "") {
		return repository.ErrConflict
	}
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *fakeBookingRepo) MoveIfFree(_ context.Context, id, newDate string, newStart, newEnd, bufferMinutes int,
	from []models.BookingStatus, expectedRescheduleCount int) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if !statusIn(b.Status, from) || b.RescheduleCount != expectedRescheduleCount {
		return nil, repository.ErrConflict
	}
	if r.overlapsLocked(b.ProviderID, newDate, newStart, newEnd, bufferMinutes, id) {
		return nil, repository.ErrConflict
	}
	b.Date = newDate
	b.Start = newStart
	b.End = newEnd
	b.RescheduleCount++
	cp := *b
	return &cp, nil
}

func (r *fakeBookingRepo) Transition(_ context.Context, id string, from []models.BookingStatus,
	to models.BookingStatus, patch bookingRepo.TransitionPatch) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if !statusIn(b.Status, from) {
		return nil, repository.ErrConflict
	}
	b.Status = to
	if patch.PaymentStatus != nil {
		b.PaymentStatus = *patch.PaymentStatus
	}
	if patch.PaymentRef != nil {
		b.PaymentRef = *patch.PaymentRef
	}
	if patch.CancelReason != nil {
		b.CancelReason = *patch.CancelReason
	}
	if patch.CancelledBy != nil {
		b.CancelledBy = *patch.CancelledBy
	}
	cp := *b
	return &cp, nil
}

func statusIn(s models.BookingStatus, set []models.BookingStatus) bool {
	for _, v := range set {
		if s == v {
			return true
		}
	}
	return false
}

type fakeRescheduleRepo struct {
	mu       sync.Mutex
	requests map[string]*models.RescheduleRequest
}

func newFakeRescheduleRepo() *fakeRescheduleRepo {
	return &fakeRescheduleRepo{requests: make(map[string]*models.RescheduleRequest)}
}

func (r *fakeRescheduleRepo) GetByID(_ context.Context, id string) (*models.RescheduleRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *req
	return &cp, nil
}

func (r *fakeRescheduleRepo) ListByBooking(_ context.Context, bookingID string) ([]models.RescheduleRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.RescheduleRequest
	for _, req := range r.requests {
		if req.BookingID == bookingID {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (r *fakeRescheduleRepo) CreatePending(_ context.Context, req *models.RescheduleRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.requests {
		if existing.BookingID == req.BookingID && existing.Status == models.ReschedulePending {
			return repository.ErrConflict
		}
	}
	cp := *req
	r.requests[req.ID] = &cp
	return nil
}

func (r *fakeRescheduleRepo) Resolve(_ context.Context, id string, status models.RescheduleStatus,
	responseReason string) (*models.RescheduleRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if req.Status != models.ReschedulePending {
		return nil, repository.ErrConflict
	}
	req.Status = status
	req.ResponseReason = responseReason
	cp := *req
	return &cp, nil
}

func (r *fakeRescheduleRepo) ArchivePending(_ context.Context, bookingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, req := range r.requests {
		if req.BookingID == bookingID && req.Status == models.ReschedulePending {
			req.Status = models.RescheduleArchived
		}
	}
	return nil
}

type recordingPayments struct {
	mu           sync.Mutex
	instructions []models.PaymentInstruction
}

func (p *recordingPayments) Emit(_ context.Context, ins *models.PaymentInstruction) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.instructions = append(p.instructions, *ins)
	return nil
}

func (p *recordingPayments) byKind(kind models.InstructionKind) []models.PaymentInstruction {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []models.PaymentInstruction
	for _, ins := range p.instructions {
		if ins.Kind == kind {
			out = append(out, ins)
		}
	}
	return out
}

type recordingCalendar struct {
	mu     sync.Mutex
	events []models.CalendarEvent
}

func (c *recordingCalendar) Emit(_ context.Context, ev models.CalendarEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
	return nil
}
