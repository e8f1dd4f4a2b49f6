package service

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/minesafe-service/internal/domain"
	"github.com/spec-kit/minesafe-service/internal/events"
	"github.com/spec-kit/minesafe-service/internal/repository"
)

func supervisorUser(id string) *domain.User {
	return &domain.User{UserID: id, Name: "Supervisor " + id, Role: domain.RoleSupervisor}
}

func minerUser(id string) *domain.User {
	return &domain.User{UserID: id, Name: "Miner " + id, Role: domain.RoleMiner}
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User // keyed by user_id
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (r *fakeUserRepo) add(user *domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *user
	r.users[user.UserID] = &copied
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = int64(len(r.users) + 1)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	r.users[user.UserID] = &copied
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.UserID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *user
	r.users[user.UserID] = &copied
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[userID]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.users, userID)
	return nil
}

func (r *fakeUserRepo) GetByUserID(_ context.Context, userID string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) ListByRole(_ context.Context, role domain.Role) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.User
	for _, user := range r.users {
		if user.Role == role {
			result = append(result, *user)
		}
	}
	return result, nil
}

func (r *fakeUserRepo) CountByRole(_ context.Context, role domain.Role) (int, error) {
	users, _ := r.ListByRole(context.Background(), role)
	return len(users), nil
}

type fakeIncidentRepo struct {
	mu        sync.Mutex
	incidents map[int64]*domain.Incident
	nextID    int64
}

func newFakeIncidentRepo() *fakeIncidentRepo {
	return &fakeIncidentRepo{incidents: map[int64]*domain.Incident{}}
}

func (r *fakeIncidentRepo) Create(_ context.Context, incident *domain.Incident) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	incident.ID = r.nextID
	incident.CreatedAt = time.Now()
	copied := *incident
	r.incidents[incident.ID] = &copied
	return nil
}

func (r *fakeIncidentRepo) GetByID(_ context.Context, id int64) (*domain.Incident, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	incident, ok := r.incidents[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *incident
	return &copied, nil
}

func (r *fakeIncidentRepo) List(_ context.Context, filter repository.IncidentFilter) ([]domain.Incident, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Incident
	for _, incident := range r.incidents {
		if filter.Status != nil && incident.Status != *filter.Status {
			continue
		}
		if filter.ReporterID != nil && incident.ReporterID != *filter.ReporterID {
			continue
		}
		result = append(result, *incident)
	}
	return result, nil
}

// UpdateStatus mirrors the conditional UPDATE: the write lands only when
// the stored status still matches the expected one.
func (r *fakeIncidentRepo) UpdateStatus(_ context.Context, id int64, from, to domain.IncidentStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	incident, ok := r.incidents[id]
	if !ok || incident.Status != from {
		return false, nil
	}
	incident.Status = to
	return true, nil
}

func (r *fakeIncidentRepo) UpdateMedia(_ context.Context, id int64, mediaURL string, mediaStatus domain.MediaStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	incident, ok := r.incidents[id]
	if !ok {
		return pgx.ErrNoRows
	}
	incident.MediaURL = &mediaURL
	incident.MediaStatus = &mediaStatus
	return nil
}

func (r *fakeIncidentRepo) CountSince(_ context.Context, since time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, incident := range r.incidents {
		if !incident.ReportedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

type fakeDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *fakeDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *fakeDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *fakeDispatcher) published() []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]events.Event{}, d.events...)
}

type fakeCompletionRepo struct {
	mu          sync.Mutex
	completions []domain.ModuleCompletion
	streaks     map[string]*domain.LearningStreak
	nextID      int64
}

func newFakeCompletionRepo() *fakeCompletionRepo {
	return &fakeCompletionRepo{streaks: map[string]*domain.LearningStreak{}}
}

func (r *fakeCompletionRepo) Create(_ context.Context, completion *domain.ModuleCompletion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	completion.ID = r.nextID
	r.completions = append(r.completions, *completion)
	return nil
}

func (r *fakeCompletionRepo) ListByUser(_ context.Context, userID string) ([]domain.ModuleCompletion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.ModuleCompletion
	for _, c := range r.completions {
		if c.UserID == userID {
			result = append(result, c)
		}
	}
	return result, nil
}

func (r *fakeCompletionRepo) CountDistinctUsers(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := map[string]struct{}{}
	for _, c := range r.completions {
		seen[c.UserID] = struct{}{}
	}
	return len(seen), nil
}

func (r *fakeCompletionRepo) GetStreak(_ context.Context, userID string) (*domain.LearningStreak, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	streak, ok := r.streaks[userID]
	if !ok {
		return &domain.LearningStreak{UserID: userID}, nil
	}
	copied := *streak
	return &copied, nil
}

func (r *fakeCompletionRepo) UpsertStreak(_ context.Context, streak *domain.LearningStreak) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *streak
	r.streaks[streak.UserID] = &copied
	return nil
}

type fakeModuleRepo struct {
	mu      sync.Mutex
	modules map[int64]*domain.TrainingModule
	nextID  int64
}

func newFakeModuleRepo() *fakeModuleRepo {
	return &fakeModuleRepo{modules: map[int64]*domain.TrainingModule{}}
}

func (r *fakeModuleRepo) Create(_ context.Context, module *domain.TrainingModule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	module.ID = r.nextID
	module.CreatedAt = time.Now()
	module.UpdatedAt = module.CreatedAt
	copied := *module
	r.modules[module.ID] = &copied
	return nil
}

func (r *fakeModuleRepo) GetByID(_ context.Context, id int64) (*domain.TrainingModule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	module, ok := r.modules[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *module
	return &copied, nil
}

func (r *fakeModuleRepo) List(_ context.Context) ([]domain.TrainingModule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.TrainingModule
	for _, module := range r.modules {
		result = append(result, *module)
	}
	return result, nil
}

func (r *fakeModuleRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.modules), nil
}

func (r *fakeModuleRepo) SetStar(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.modules[id]; !ok {
		return pgx.ErrNoRows
	}
	for _, module := range r.modules {
		module.Starred = module.ID == id
	}
	return nil
}

func (r *fakeModuleRepo) GetStarred(_ context.Context) (*domain.TrainingModule, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, module := range r.modules {
		if module.Starred {
			copied := *module
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeQuestionRepo struct {
	mu        sync.Mutex
	questions []domain.ModuleQuestion
	nextID    int64
}

func (r *fakeQuestionRepo) Create(_ context.Context, question *domain.ModuleQuestion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	question.ID = r.nextID
	r.questions = append(r.questions, *question)
	return nil
}

func (r *fakeQuestionRepo) ListByModule(_ context.Context, moduleID int64) ([]domain.ModuleQuestion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.ModuleQuestion
	for _, q := range r.questions {
		if q.ModuleID == moduleID {
			result = append(result, q)
		}
	}
	return result, nil
}
