// Package memory keeps every repository in process memory. It backs
// STORAGE_DRIVER=memory and the service tests.
package memory

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ArowuTest/secret-santa-backend/internal/models"
	"github.com/ArowuTest/secret-santa-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store bundles one instance of each in-memory repository
type Store struct {
	Participants  *ParticipantRepository
	Assignments   *AssignmentRepository
	MatchRuns     *MatchRunRepository
	Notifications *NotificationRepository
	Settings      *SystemSettingsRepository
}

// NewStore creates empty repositories. settings seeds GetSettings on first use.
func NewStore(settings models.SystemSettings) *Store {
	return &Store{
		Participants:  NewParticipantRepository(),
		Assignments:   NewAssignmentRepository(),
		MatchRuns:     NewMatchRunRepository(),
		Notifications: NewNotificationRepository(),
		Settings:      NewSystemSettingsRepository(settings),
	}
}

var (
	_ repositories.ParticipantRepository    = (*ParticipantRepository)(nil)
	_ repositories.AssignmentRepository     = (*AssignmentRepository)(nil)
	_ repositories.MatchRunRepository       = (*MatchRunRepository)(nil)
	_ repositories.NotificationRepository   = (*NotificationRepository)(nil)
	_ repositories.SystemSettingsRepository = (*SystemSettingsRepository)(nil)
)

func cloneParticipant(p *models.Participant) *models.Participant {
	out := *p
	out.Wishlist = slices.Clone(p.Wishlist)
	return &out
}

// ParticipantRepository stores participants keyed by identifier
type ParticipantRepository struct {
	mu           sync.RWMutex
	byIdentifier map[string]*models.Participant
}

func NewParticipantRepository() *ParticipantRepository {
	return &ParticipantRepository{byIdentifier: make(map[string]*models.Participant)}
}

func (r *ParticipantRepository) Upsert(ctx context.Context, participant *models.Participant) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	existing, ok := r.byIdentifier[participant.Identifier]
	if ok {
		participant.ID = existing.ID
		if participant.CreatedAt.IsZero() {
			participant.CreatedAt = existing.CreatedAt
		}
	} else if participant.ID.IsZero() {
		participant.ID = primitive.NewObjectID()
	}
	if participant.CreatedAt.IsZero() {
		participant.CreatedAt = now
	}
	participant.UpdatedAt = now
	r.byIdentifier[participant.Identifier] = cloneParticipant(participant)
	return !ok, nil
}

func (r *ParticipantRepository) FindByIdentifier(ctx context.Context, identifier string) (*models.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byIdentifier[identifier]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneParticipant(p), nil
}

func (r *ParticipantRepository) FindByEmail(ctx context.Context, email string) (*models.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if p, ok := r.byIdentifier[email]; ok {
		return cloneParticipant(p), nil
	}
	var found *models.Participant
	for _, p := range r.byIdentifier {
		if !strings.EqualFold(p.Email, email) && !strings.EqualFold(p.Identifier, email) {
			continue
		}
		if found == nil || p.CreatedAt.Before(found.CreatedAt) ||
			(p.CreatedAt.Equal(found.CreatedAt) && p.ID.Hex() < found.ID.Hex()) {
			found = p
		}
	}
	if found == nil {
		return nil, repositories.ErrNotFound
	}
	return cloneParticipant(found), nil
}

// FindAll returns participants in registration order
func (r *ParticipantRepository) FindAll(ctx context.Context) ([]*models.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Participant, 0, len(r.byIdentifier))
	for _, p := range r.byIdentifier {
		out = append(out, cloneParticipant(p))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.Hex() < out[j].ID.Hex()
	})
	return out, nil
}

func (r *ParticipantRepository) SetPINHash(ctx context.Context, identifier, pinHash string, generatedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byIdentifier[identifier]
	if !ok {
		return repositories.ErrNotFound
	}
	p.PINHash = pinHash
	p.PINGeneratedAt = generatedAt
	p.UpdatedAt = time.Now()
	return nil
}

func (r *ParticipantRepository) ClearWishlists(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.byIdentifier {
		p.Wishlist = []models.WishlistItem{}
		p.UpdatedAt = time.Now()
	}
	return nil
}

func (r *ParticipantRepository) Delete(ctx context.Context, identifier string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byIdentifier[identifier]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.byIdentifier, identifier)
	return nil
}

func (r *ParticipantRepository) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byIdentifier = make(map[string]*models.Participant)
	return nil
}

// AssignmentRepository stores pairs grouped by run
type AssignmentRepository struct {
	mu    sync.RWMutex
	byRun map[primitive.ObjectID][]models.Assignment
}

func NewAssignmentRepository() *AssignmentRepository {
	return &AssignmentRepository{byRun: make(map[primitive.ObjectID][]models.Assignment)}
}

func (r *AssignmentRepository) CreateMany(ctx context.Context, assignments []*models.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for _, a := range assignments {
		if a.ID.IsZero() {
			a.ID = primitive.NewObjectID()
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
		r.byRun[a.RunID] = append(r.byRun[a.RunID], *a)
	}
	return nil
}

// FindByRunID returns the pairs of a run ordered by giver
func (r *AssignmentRepository) FindByRunID(ctx context.Context, runID primitive.ObjectID) ([]*models.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.byRun[runID]
	out := make([]*models.Assignment, 0, len(stored))
	for i := range stored {
		a := stored[i]
		out = append(out, &a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Giver < out[j].Giver })
	return out, nil
}

func (r *AssignmentRepository) FindByRunAndGiver(ctx context.Context, runID primitive.ObjectID, giver string) (*models.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.byRun[runID] {
		if a.Giver == giver {
			found := a
			return &found, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *AssignmentRepository) CountByRunID(ctx context.Context, runID primitive.ObjectID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.byRun[runID])), nil
}

func (r *AssignmentRepository) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byRun = make(map[primitive.ObjectID][]models.Assignment)
	return nil
}

// MatchRunRepository stores run records
type MatchRunRepository struct {
	mu   sync.RWMutex
	runs map[primitive.ObjectID]models.MatchRun
}

func NewMatchRunRepository() *MatchRunRepository {
	return &MatchRunRepository{runs: make(map[primitive.ObjectID]models.MatchRun)}
}

func cloneRun(run models.MatchRun) *models.MatchRun {
	run.ExecutionLog = slices.Clone(run.ExecutionLog)
	return &run
}

func (r *MatchRunRepository) Create(ctx context.Context, run *models.MatchRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if run.ID.IsZero() {
		run.ID = primitive.NewObjectID()
	}
	run.CreatedAt = time.Now()
	run.UpdatedAt = run.CreatedAt
	r.runs[run.ID] = *cloneRun(*run)
	return nil
}

func (r *MatchRunRepository) Update(ctx context.Context, run *models.MatchRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.runs[run.ID]; !ok {
		return repositories.ErrNotFound
	}
	run.UpdatedAt = time.Now()
	r.runs[run.ID] = *cloneRun(*run)
	return nil
}

func (r *MatchRunRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.MatchRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, ok := r.runs[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneRun(run), nil
}

// FindAll returns runs newest first
func (r *MatchRunRepository) FindAll(ctx context.Context) ([]*models.MatchRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.MatchRun, 0, len(r.runs))
	for _, run := range r.runs {
		out = append(out, cloneRun(run))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.Hex() > out[j].ID.Hex()
	})
	return out, nil
}

func (r *MatchRunRepository) FindLatestByStatus(ctx context.Context, status models.MatchRunStatus) (*models.MatchRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *models.MatchRun
	for _, run := range r.runs {
		if run.Status != status {
			continue
		}
		if latest == nil || run.ExecutionEndTime.After(latest.ExecutionEndTime) ||
			(run.ExecutionEndTime.Equal(latest.ExecutionEndTime) && run.ID.Hex() > latest.ID.Hex()) {
			latest = cloneRun(run)
		}
	}
	if latest == nil {
		return nil, repositories.ErrNotFound
	}
	return latest, nil
}

func (r *MatchRunRepository) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.runs = make(map[primitive.ObjectID]models.MatchRun)
	return nil
}

// NotificationRepository stores notifications in insertion order
type NotificationRepository struct {
	mu            sync.RWMutex
	notifications []models.Notification
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if notification.ID.IsZero() {
		notification.ID = primitive.NewObjectID()
	}
	notification.CreatedAt = time.Now()
	notification.UpdatedAt = notification.CreatedAt
	r.notifications = append(r.notifications, *notification)
	return nil
}

func (r *NotificationRepository) Update(ctx context.Context, notification *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.notifications {
		if r.notifications[i].ID == notification.ID {
			notification.UpdatedAt = time.Now()
			r.notifications[i] = *notification
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *NotificationRepository) FindByRecipient(ctx context.Context, recipient string, page, limit int) ([]*models.Notification, error) {
	return r.find(page, limit, func(n models.Notification) bool { return n.Recipient == recipient }), nil
}

// FindByStatus pages through notifications with the given status. An empty status matches all.
func (r *NotificationRepository) FindByStatus(ctx context.Context, status string, page, limit int) ([]*models.Notification, error) {
	return r.find(page, limit, func(n models.Notification) bool { return status == "" || n.Status == status }), nil
}

// find returns matches newest first
func (r *NotificationRepository) find(page, limit int, match func(models.Notification) bool) []*models.Notification {
	r.mu.RLock()
	defer r.mu.RUnlock()

	skip, size := repositories.Pagination(page, limit)
	out := []*models.Notification{}
	for i := len(r.notifications) - 1; i >= 0 && len(out) < size; i-- {
		n := r.notifications[i]
		if !match(n) {
			continue
		}
		if skip > 0 {
			skip--
			continue
		}
		out = append(out, &n)
	}
	return out
}

// SystemSettingsRepository holds the single settings document
type SystemSettingsRepository struct {
	mu       sync.Mutex
	settings *models.SystemSettings
	defaults models.SystemSettings
}

func NewSystemSettingsRepository(defaults models.SystemSettings) *SystemSettingsRepository {
	return &SystemSettingsRepository{defaults: defaults}
}

func (r *SystemSettingsRepository) GetSettings(ctx context.Context) (*models.SystemSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.settings == nil {
		s := r.defaults
		s.ID = primitive.NewObjectID()
		s.CreatedAt = time.Now()
		s.UpdatedAt = s.CreatedAt
		r.settings = &s
	}
	out := *r.settings
	return &out, nil
}

func (r *SystemSettingsRepository) UpdateSettings(ctx context.Context, settings *models.SystemSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	settings.UpdatedAt = time.Now()
	stored := *settings
	r.settings = &stored
	return nil
}
