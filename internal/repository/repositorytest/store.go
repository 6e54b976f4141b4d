// Package repositorytest содержит реализацию repository.Store в памяти для
// тестов. Transact держит общий мьютекс и откатывает снимок данных при
// ошибке, воспроизводя атомарность и взаимное исключение настоящего
// хранилища. Уникальные индексы БД проверяются на вставке.
package repositorytest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/optimald/medequiptech/internal/apperr"
	"github.com/optimald/medequiptech/internal/models"
	"github.com/optimald/medequiptech/internal/repository"

	"github.com/google/uuid"
)

type data struct {
	users  map[string]models.User
	jobs   map[string]models.Job
	bids   map[string]models.Bid
	awards map[string]models.Award
}

func newData() *data {
	return &data{
		users:  make(map[string]models.User),
		jobs:   make(map[string]models.Job),
		bids:   make(map[string]models.Bid),
		awards: make(map[string]models.Award),
	}
}

func (d *data) clone() *data {
	c := newData()
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.jobs {
		c.jobs[k] = v
	}
	for k, v := range d.bids {
		c.bids[k] = v
	}
	for k, v := range d.awards {
		c.awards[k] = v
	}
	return c
}

// MemStore - хранилище в памяти, реализующее repository.Store.
type MemStore struct {
	mu   sync.Mutex
	data *data
}

// NewMemStore создает пустое хранилище.
func NewMemStore() *MemStore {
	return &MemStore{data: newData()}
}

// AddUser добавляет пользователя в проекцию профилей.
func (s *MemStore) AddUser(user models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.users[user.ID] = user
}

// AddJob добавляет работу с заданным статусом.
func (s *MemStore) AddJob(job models.Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.jobs[job.ID] = job
}

// AddBid добавляет предложение, минуя проверки жизненного цикла.
func (s *MemStore) AddBid(bid models.Bid) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.bids[bid.ID] = bid
}

// Job возвращает текущее состояние работы.
func (s *MemStore) Job(jobID string) (models.Job, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.data.jobs[jobID]
	return job, ok
}

// Bid возвращает текущее состояние предложения.
func (s *MemStore) Bid(bidID string) (models.Bid, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bid, ok := s.data.bids[bidID]
	return bid, ok
}

// ActiveAwardCount возвращает число неотозванных присуждений по работе.
func (s *MemStore) ActiveAwardCount(jobID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, award := range s.data.awards {
		if award.JobID == jobID && award.RevokedAt == nil {
			count++
		}
	}
	return count
}

func (s *MemStore) repos(mu *sync.Mutex) memRepos {
	return memRepos{store: s, mu: mu}
}

func (s *MemStore) Jobs() repository.JobRepository     { return s.repos(&s.mu) }
func (s *MemStore) Bids() repository.BidRepository     { return s.repos(&s.mu) }
func (s *MemStore) Awards() repository.AwardRepository { return s.repos(&s.mu) }
func (s *MemStore) Users() repository.UserRepository   { return s.repos(&s.mu) }

// Transact выполняет fn под общим мьютексом и откатывает изменения при
// ошибке. Конкурентные операции сериализуются так же, как блокировкой
// строки работы в Postgres.
func (s *MemStore) Transact(_ context.Context, fn func(repository.Repos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	backup := s.data.clone()
	if err := fn(s.repos(nil)); err != nil {
		s.data = backup
		return err
	}
	return nil
}

// memRepos реализует все интерфейсы репозиториев над общими данными.
// При mu == nil блокировка уже взята в Transact.
type memRepos struct {
	store *MemStore
	mu    *sync.Mutex
}

func (r memRepos) lock() func() {
	if r.mu == nil {
		return func() {}
	}
	r.mu.Lock()
	return r.mu.Unlock
}

func (r memRepos) Jobs() repository.JobRepository     { return r }
func (r memRepos) Bids() repository.BidRepository     { return r }
func (r memRepos) Awards() repository.AwardRepository { return r }
func (r memRepos) Users() repository.UserRepository   { return r }

func (r memRepos) GetUser(_ context.Context, userID string) (*models.User, error) {
	defer r.lock()()
	user, ok := r.store.data.users[userID]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "user not found")
	}
	return &user, nil
}

func (r memRepos) CreateJob(_ context.Context, jobReq models.JobRequest, createdBy string) (*models.Job, error) {
	defer r.lock()()
	job := models.Job{
		ID:           uuid.New().String(),
		Title:        jobReq.Title,
		JobType:      jobReq.JobType,
		Status:       models.OpenJob,
		Priority:     jobReq.Priority,
		City:         jobReq.City,
		State:        jobReq.State,
		ContactName:  jobReq.ContactName,
		ContactPhone: jobReq.ContactPhone,
		CreatedBy:    createdBy,
		CreatedAt:    time.Now().UTC(),
	}
	r.store.data.jobs[job.ID] = job
	return &job, nil
}

func (r memRepos) GetJob(_ context.Context, jobID string) (*models.Job, error) {
	defer r.lock()()
	return r.getJob(jobID)
}

func (r memRepos) GetJobForUpdate(_ context.Context, jobID string) (*models.Job, error) {
	defer r.lock()()
	return r.getJob(jobID)
}

func (r memRepos) getJob(jobID string) (*models.Job, error) {
	job, ok := r.store.data.jobs[jobID]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "job not found")
	}
	return &job, nil
}

func (r memRepos) UpdateJobStatus(_ context.Context, jobID string, status models.JobStatus) error {
	defer r.lock()()
	job, ok := r.store.data.jobs[jobID]
	if !ok {
		return apperr.New(apperr.NotFound, "job not found")
	}
	job.Status = status
	job.UpdatedAt = time.Now().UTC()
	r.store.data.jobs[jobID] = job
	return nil
}

func (r memRepos) GetJobSummary(_ context.Context, jobID string) (*models.JobSummary, error) {
	defer r.lock()()
	job, err := r.getJob(jobID)
	if err != nil {
		return nil, err
	}
	summary := models.JobSummary{Job: *job}
	for _, bid := range r.store.data.bids {
		if bid.JobID == jobID && bid.Status == models.SubmittedBid {
			summary.BidCount++
		}
	}
	return &summary, nil
}

func (r memRepos) ListUserAwardedJobs(_ context.Context, userID string, limit, offset int) ([]models.Job, error) {
	defer r.lock()()
	var jobs []models.Job
	for _, award := range r.store.data.awards {
		if award.AwardedUserID == userID && award.RevokedAt == nil {
			if job, ok := r.store.data.jobs[award.JobID]; ok {
				jobs = append(jobs, job)
			}
		}
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].ID < jobs[j].ID })
	return page(jobs, limit, offset), nil
}

func (r memRepos) CreateBid(_ context.Context, bidReq models.BidRequest) (*models.Bid, error) {
	defer r.lock()()
	for _, bid := range r.store.data.bids {
		if bid.JobID == bidReq.JobID && bid.BidderID == bidReq.BidderID && bid.Status == models.SubmittedBid {
			return nil, apperr.New(apperr.Conflict, "bidder already has a submitted bid on this job")
		}
	}
	bid := models.Bid{
		ID:        uuid.New().String(),
		JobID:     bidReq.JobID,
		BidderID:  bidReq.BidderID,
		AskPrice:  bidReq.AskPrice,
		Note:      bidReq.Note,
		Status:    models.SubmittedBid,
		CreatedAt: time.Now().UTC(),
	}
	r.store.data.bids[bid.ID] = bid
	return &bid, nil
}

func (r memRepos) GetBid(_ context.Context, bidID string) (*models.Bid, error) {
	defer r.lock()()
	return r.getBid(bidID)
}

func (r memRepos) GetBidForUpdate(_ context.Context, bidID string) (*models.Bid, error) {
	defer r.lock()()
	return r.getBid(bidID)
}

func (r memRepos) getBid(bidID string) (*models.Bid, error) {
	bid, ok := r.store.data.bids[bidID]
	if !ok {
		return nil, apperr.New(apperr.NotFound, "bid not found")
	}
	return &bid, nil
}

func (r memRepos) UpdateBidStatus(_ context.Context, bidID string, status models.BidStatus) error {
	defer r.lock()()
	bid, ok := r.store.data.bids[bidID]
	if !ok {
		return apperr.New(apperr.NotFound, "bid not found")
	}
	bid.Status = status
	bid.UpdatedAt = time.Now().UTC()
	r.store.data.bids[bidID] = bid
	return nil
}

func (r memRepos) RejectSubmittedBids(_ context.Context, jobID, exceptBidID string) error {
	defer r.lock()()
	for id, bid := range r.store.data.bids {
		if bid.JobID == jobID && bid.Status == models.SubmittedBid && id != exceptBidID {
			bid.Status = models.RejectedBid
			r.store.data.bids[id] = bid
		}
	}
	return nil
}

func (r memRepos) CountSubmittedBids(_ context.Context, jobID string) (int, error) {
	defer r.lock()()
	count := 0
	for _, bid := range r.store.data.bids {
		if bid.JobID == jobID && bid.Status == models.SubmittedBid {
			count++
		}
	}
	return count, nil
}

func (r memRepos) ListJobBids(_ context.Context, jobID string, limit, offset int) ([]models.Bid, error) {
	defer r.lock()()
	var bids []models.Bid
	for _, bid := range r.store.data.bids {
		if bid.JobID == jobID {
			bids = append(bids, bid)
		}
	}
	sort.Slice(bids, func(i, j int) bool { return bids[i].CreatedAt.Before(bids[j].CreatedAt) })
	return page(bids, limit, offset), nil
}

func (r memRepos) ListUserBids(_ context.Context, bidderID string, limit, offset int) ([]models.Bid, error) {
	defer r.lock()()
	var bids []models.Bid
	for _, bid := range r.store.data.bids {
		if bid.BidderID == bidderID {
			bids = append(bids, bid)
		}
	}
	sort.Slice(bids, func(i, j int) bool { return bids[i].CreatedAt.Before(bids[j].CreatedAt) })
	return page(bids, limit, offset), nil
}

func (r memRepos) CreateAward(_ context.Context, award models.Award) (*models.Award, error) {
	defer r.lock()()
	for _, existing := range r.store.data.awards {
		if existing.JobID == award.JobID && existing.RevokedAt == nil {
			return nil, apperr.New(apperr.Conflict, "job already has an active award")
		}
	}
	award.ID = uuid.New().String()
	award.CreatedAt = time.Now().UTC()
	r.store.data.awards[award.ID] = award
	return &award, nil
}

func (r memRepos) GetActiveAward(_ context.Context, jobID string) (*models.Award, error) {
	defer r.lock()()
	for _, award := range r.store.data.awards {
		if award.JobID == jobID && award.RevokedAt == nil {
			return &award, nil
		}
	}
	return nil, apperr.New(apperr.NotFound, "job has no active award")
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
