// Package memory is an in-process repository.Store backed by maps. It serves
// tests and local runs without postgres. Transactions are serialized and
// rolled back by restoring a snapshot; writes made outside a transaction wait
// for the running one to finish, so a rollback never discards them.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Windi-Fikriyansyah/platform_freelance/internal/apperrors"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/models"
	"github.com/Windi-Fikriyansyah/platform_freelance/internal/repository"
)

type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	users         map[uuid.UUID]models.User
	jobs          map[uuid.UUID]models.Job
	proposals     map[uuid.UUID]models.Proposal
	notifications map[uuid.UUID]models.Notification
	messages      map[uuid.UUID]models.Message

	last time.Time
}

func NewStore() *Store {
	return &Store{
		users:         map[uuid.UUID]models.User{},
		jobs:          map[uuid.UUID]models.Job{},
		proposals:     map[uuid.UUID]models.Proposal{},
		notifications: map[uuid.UUID]models.Notification{},
		messages:      map[uuid.UUID]models.Message{},
	}
}

var (
	_ repository.Store = (*Store)(nil)
	_ repository.Store = txStore{}
)

func (s *Store) Users() repository.UserRepository                 { return userRepo{s: s} }
func (s *Store) Jobs() repository.JobRepository                   { return jobRepo{s: s} }
func (s *Store) Proposals() repository.ProposalRepository         { return proposalRepo{s: s} }
func (s *Store) Notifications() repository.NotificationRepository { return notificationRepo{s: s} }
func (s *Store) Messages() repository.MessageRepository           { return messageRepo{s: s} }

// Transaction runs fn with exclusive write access to the store and restores
// the previous state when fn fails.
func (s *Store) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	if err := fn(txStore{s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// txStore is the Store handed to a transaction body. Its writes run under the
// txMu already held by Transaction.
type txStore struct{ s *Store }

func (t txStore) Users() repository.UserRepository                 { return userRepo{s: t.s, tx: true} }
func (t txStore) Jobs() repository.JobRepository                   { return jobRepo{s: t.s, tx: true} }
func (t txStore) Proposals() repository.ProposalRepository         { return proposalRepo{s: t.s, tx: true} }
func (t txStore) Notifications() repository.NotificationRepository { return notificationRepo{s: t.s, tx: true} }
func (t txStore) Messages() repository.MessageRepository           { return messageRepo{s: t.s, tx: true} }

// Transaction joins the surrounding transaction.
func (t txStore) Transaction(_ context.Context, fn func(tx repository.Store) error) error {
	return fn(t)
}

// lockWrite serializes a write outside a transaction against running
// transactions. Writes issued by a transaction body already hold txMu.
func (s *Store) lockWrite(inTx bool) func() {
	if inTx {
		return func() {}
	}
	s.txMu.Lock()
	return s.txMu.Unlock
}

type snapshot struct {
	users         map[uuid.UUID]models.User
	jobs          map[uuid.UUID]models.Job
	proposals     map[uuid.UUID]models.Proposal
	notifications map[uuid.UUID]models.Notification
	messages      map[uuid.UUID]models.Message
}

func cloneMap[V any](m map[uuid.UUID]V) map[uuid.UUID]V {
	out := make(map[uuid.UUID]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		users:         cloneMap(s.users),
		jobs:          cloneMap(s.jobs),
		proposals:     cloneMap(s.proposals),
		notifications: cloneMap(s.notifications),
		messages:      cloneMap(s.messages),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = snap.users
	s.jobs = snap.jobs
	s.proposals = snap.proposals
	s.notifications = snap.notifications
	s.messages = snap.messages
}

// now returns strictly increasing timestamps so created_at ordering is stable.
// Callers hold s.mu.
func (s *Store) now() time.Time {
	t := time.Now().UTC()
	if !t.After(s.last) {
		t = s.last.Add(time.Microsecond)
	}
	s.last = t
	return t
}

type userRepo struct {
	s  *Store
	tx bool
}

func (r userRepo) Create(_ context.Context, u *models.User) error {
	defer r.s.lockWrite(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return apperrors.Conflict("Email already exists")
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.CreatedAt = r.s.now()
	u.UpdatedAt = u.CreatedAt
	r.s.users[u.ID] = *u
	return nil
}

func (r userRepo) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, apperrors.NotFound("User not found")
	}
	return &u, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, apperrors.NotFound("User not found")
}

func (r userRepo) List(_ context.Context) ([]models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]models.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r userRepo) UpdateProfile(_ context.Context, id uuid.UUID, name, email string) error {
	defer r.s.lockWrite(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return apperrors.NotFound("User not found")
	}
	for _, other := range r.s.users {
		if other.ID != id && other.Email == email {
			return apperrors.Conflict("Email already exists")
		}
	}
	u.Name = name
	u.Email = email
	u.UpdatedAt = r.s.now()
	r.s.users[id] = u
	return nil
}

func (r userRepo) ToggleBan(_ context.Context, id uuid.UUID) (bool, error) {
	defer r.s.lockWrite(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return false, apperrors.NotFound("User not found")
	}
	u.Banned = !u.Banned
	r.s.users[id] = u
	return u.Banned, nil
}

func (r userRepo) Delete(_ context.Context, id uuid.UUID) error {
	defer r.s.lockWrite(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return apperrors.NotFound("User not found")
	}
	delete(r.s.users, id)
	return nil
}

type jobRepo struct {
	s  *Store
	tx bool
}

func (r jobRepo) Create(_ context.Context, j *models.Job) error {
	defer r.s.lockWrite(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	if j.Status == "" {
		j.Status = models.JobStatusOpen
	}
	j.CreatedAt = r.s.now()
	j.UpdatedAt = j.CreatedAt
	r.s.jobs[j.ID] = *j
	return nil
}

func (r jobRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Job, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	j, ok := r.s.jobs[id]
	if !ok {
		return nil, apperrors.NotFound("Job not found")
	}
	return &j, nil
}

// GetForUpdate needs no row lock here; Transaction already serializes writers.
func (r jobRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	return r.GetByID(ctx, id)
}

func (r jobRepo) List(_ context.Context, f models.JobFilter) ([]models.JobView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := []models.JobView{}
	for _, j := range r.s.jobs {
		owner := r.s.users[j.OwnerID]
		if search != "" &&
			!strings.Contains(strings.ToLower(j.Title), search) &&
			!strings.Contains(strings.ToLower(j.Description), search) &&
			!strings.Contains(strings.ToLower(owner.Name), search) {
			continue
		}
		if f.MinBudget > 0 && j.Budget < f.MinBudget {
			continue
		}
		if f.MaxBudget > 0 && j.Budget > f.MaxBudget {
			continue
		}
		if f.Status != "" && j.Status != f.Status {
			continue
		}
		if f.OwnerID != uuid.Nil && j.OwnerID != f.OwnerID {
			continue
		}
		if f.AwardedTo != uuid.Nil && !r.awarded(j.ID, f.AwardedTo) {
			continue
		}
		out = append(out, models.JobView{
			ID:          j.ID,
			Title:       j.Title,
			Description: j.Description,
			Budget:      j.Budget,
			OwnerID:     j.OwnerID,
			ClientName:  owner.Name,
			Status:      j.Status,
			CreatedAt:   j.CreatedAt,
			Proposals:   []models.ProposalView{},
		})
	}
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.After(out[k].CreatedAt) })
	return out, nil
}

func (r jobRepo) awarded(jobID, freelancerID uuid.UUID) bool {
	for _, p := range r.s.proposals {
		if p.JobID == jobID && p.FreelancerID == freelancerID && p.Status == models.ProposalAccepted {
			return true
		}
	}
	return false
}

func (r jobRepo) Delete(_ context.Context, id uuid.UUID) error {
	defer r.s.lockWrite(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.jobs[id]; !ok {
		return apperrors.NotFound("Job not found")
	}
	delete(r.s.jobs, id)
	return nil
}

func (r jobRepo) DeleteByOwner(_ context.Context, ownerID uuid.UUID) error {
	defer r.s.lockWrite(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, j := range r.s.jobs {
		if j.OwnerID == ownerID {
			delete(r.s.jobs, id)
		}
	}
	return nil
}

type proposalRepo struct {
	s  *Store
	tx bool
}

func (r proposalRepo) Create(_ context.Context, p *models.Proposal) error {
	defer r.s.lockWrite(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = models.ProposalPending
	}
	p.CreatedAt = r.s.now()
	p.UpdatedAt = p.CreatedAt
	r.s.proposals[p.ID] = *p
	return nil
}

func (r proposalRepo) GetForUpdate(_ context.Context, jobID, id uuid.UUID) (*models.Proposal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.proposals[id]
	if !ok || p.JobID != jobID {
		return nil, apperrors.NotFound("Proposal not found")
	}
	return &p, nil
}

func (r proposalRepo) ListByJobs(_ context.Context, jobIDs []uuid.UUID) ([]models.ProposalView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	want := make(map[uuid.UUID]struct{}, len(jobIDs))
	for _, id := range jobIDs {
		want[id] = struct{}{}
	}

	out := []models.ProposalView{}
	for _, p := range r.s.proposals {
		if _, ok := want[p.JobID]; !ok {
			continue
		}
		author := r.s.users[p.FreelancerID]
		out = append(out, models.ProposalView{
			ID:              p.ID,
			JobID:           p.JobID,
			FreelancerID:    p.FreelancerID,
			FreelancerName:  author.Name,
			FreelancerEmail: author.Email,
			Message:         p.Message,
			Status:          p.Status,
			CreatedAt:       p.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r proposalRepo) UpdateStatus(_ context.Context, id uuid.UUID, status models.ProposalStatus) error {
	defer r.s.lockWrite(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.proposals[id]
	if !ok {
		return apperrors.NotFound("Proposal not found")
	}
	p.Status = status
	p.UpdatedAt = r.s.now()
	r.s.proposals[id] = p
	return nil
}

// deleteWhere removes matching proposals. Callers hold the write lock.
func (r proposalRepo) deleteWhere(match func(models.Proposal) bool) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, p := range r.s.proposals {
		if match(p) {
			delete(r.s.proposals, id)
		}
	}
}

func (r proposalRepo) DeleteByJob(_ context.Context, jobID uuid.UUID) error {
	defer r.s.lockWrite(r.tx)()
	r.deleteWhere(func(p models.Proposal) bool { return p.JobID == jobID })
	return nil
}

func (r proposalRepo) DeleteByJobOwner(_ context.Context, ownerID uuid.UUID) error {
	defer r.s.lockWrite(r.tx)()
	owned := r.s.ownedJobs(ownerID)
	r.deleteWhere(func(p models.Proposal) bool {
		_, ok := owned[p.JobID]
		return ok
	})
	return nil
}

func (r proposalRepo) DeleteByFreelancer(_ context.Context, freelancerID uuid.UUID) error {
	defer r.s.lockWrite(r.tx)()
	r.deleteWhere(func(p models.Proposal) bool { return p.FreelancerID == freelancerID })
	return nil
}

func (s *Store) ownedJobs(ownerID uuid.UUID) map[uuid.UUID]struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	owned := map[uuid.UUID]struct{}{}
	for id, j := range s.jobs {
		if j.OwnerID == ownerID {
			owned[id] = struct{}{}
		}
	}
	return owned
}

type notificationRepo struct {
	s  *Store
	tx bool
}

func (r notificationRepo) Create(_ context.Context, n *models.Notification) error {
	defer r.s.lockWrite(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	n.CreatedAt = r.s.now()
	r.s.notifications[n.ID] = *n
	return nil
}

func (r notificationRepo) ListByUser(_ context.Context, userID uuid.UUID, unreadOnly bool) ([]models.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.Notification{}
	for _, n := range r.s.notifications {
		if n.UserID != userID || (unreadOnly && n.Read) {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r notificationRepo) MarkRead(_ context.Context, userID, id uuid.UUID) error {
	defer r.s.lockWrite(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.notifications[id]
	if !ok || n.UserID != userID {
		return apperrors.NotFound("Notification not found")
	}
	n.Read = true
	r.s.notifications[id] = n
	return nil
}

func (r notificationRepo) DeleteByUser(_ context.Context, userID uuid.UUID) error {
	defer r.s.lockWrite(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, n := range r.s.notifications {
		if n.UserID == userID {
			delete(r.s.notifications, id)
		}
	}
	return nil
}

type messageRepo struct {
	s  *Store
	tx bool
}

func (r messageRepo) Create(_ context.Context, m *models.Message) error {
	defer r.s.lockWrite(r.tx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.jobs[m.JobID]; !ok {
		return apperrors.NotFound("Job not found")
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = r.s.now()
	r.s.messages[m.ID] = *m
	return nil
}

func (r messageRepo) ListByJob(_ context.Context, jobID uuid.UUID) ([]models.MessageView, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []models.MessageView{}
	for _, m := range r.s.messages {
		if m.JobID != jobID {
			continue
		}
		sender := r.s.users[m.SenderID]
		out = append(out, models.MessageView{
			ID:         m.ID,
			JobID:      m.JobID,
			SenderID:   m.SenderID,
			SenderName: sender.Name,
			SenderRole: sender.Role,
			Text:       m.Text,
			CreatedAt:  m.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r messageRepo) deleteWhere(match func(models.Message) bool) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, m := range r.s.messages {
		if match(m) {
			delete(r.s.messages, id)
		}
	}
}

func (r messageRepo) DeleteByJob(_ context.Context, jobID uuid.UUID) error {
	defer r.s.lockWrite(r.tx)()
	r.deleteWhere(func(m models.Message) bool { return m.JobID == jobID })
	return nil
}

func (r messageRepo) DeleteByJobOwner(_ context.Context, ownerID uuid.UUID) error {
	defer r.s.lockWrite(r.tx)()
	owned := r.s.ownedJobs(ownerID)
	r.deleteWhere(func(m models.Message) bool {
		_, ok := owned[m.JobID]
		return ok
	})
	return nil
}

func (r messageRepo) DeleteBySender(_ context.Context, senderID uuid.UUID) error {
	defer r.s.lockWrite(r.tx)()
	r.deleteWhere(func(m models.Message) bool { return m.SenderID == senderID })
	return nil
}
