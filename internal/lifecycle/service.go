// Package lifecycle реализует машину состояний работа-предложение-присуждение.
// Каждая изменяющая операция выполняется в одной транзакции с блокировкой
// строки работы, поэтому проверка статуса, изменение и веерные обновления
// неделимы для любых конкурентных операций по той же работе.
package lifecycle

import (
	"context"

	"github.com/optimald/medequiptech/internal/apperr"
	"github.com/optimald/medequiptech/internal/models"
	"github.com/optimald/medequiptech/internal/notify"
	"github.com/optimald/medequiptech/internal/repository"

	"go.uber.org/zap"
)

// Notifier принимает события после фиксации операции. Публикация не
// блокирует и не откатывает вызвавшую операцию.
type Notifier interface {
	Publish(event notify.Event)
}

// Service - координатор жизненного цикла. Последовательно выполняет
// операции над работами, предложениями и присуждениями.
type Service struct {
	store    repository.Store
	notifier Notifier
	logger   *zap.Logger
}

// NewService создает новый экземпляр Service.
func NewService(store repository.Store, notifier Notifier, logger *zap.Logger) *Service {
	return &Service{store: store, notifier: notifier, logger: logger}
}

// setJobStatus - единственная точка изменения статуса работы. Недопустимый
// переход отклоняется здесь, обработчики не пишут статус напрямую.
func setJobStatus(ctx context.Context, repos repository.Repos, job *models.Job, next models.JobStatus) error {
	if !job.Status.CanTransition(next) {
		return apperr.Newf(apperr.InvalidState, "job cannot move from %s to %s", job.Status, next)
	}
	if err := repos.Jobs().UpdateJobStatus(ctx, job.ID, next); err != nil {
		return err
	}
	job.Status = next
	return nil
}

// CreateJob создает новую работу в статусе OPEN. Доступно только админу.
func (s *Service) CreateJob(ctx context.Context, jobReq models.JobRequest, actorID string) (*models.Job, error) {
	if jobReq.Title == "" {
		return nil, apperr.New(apperr.InvalidArgument, "title is required")
	}
	if !models.ValidJobType(jobReq.JobType) {
		return nil, apperr.New(apperr.InvalidArgument, "jobType must be 'tech' or 'trainer'")
	}

	var job *models.Job
	err := s.store.Transact(ctx, func(repos repository.Repos) error {
		actor, err := repos.Users().GetUser(ctx, actorID)
		if err != nil {
			return err
		}
		if !actor.RoleAdmin {
			return apperr.New(apperr.Forbidden, "only admins can create jobs")
		}
		job, err = repos.Jobs().CreateJob(ctx, jobReq, actorID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return job, nil
}

// SubmitBid подает предложение по работе. Участник должен быть одобрен,
// его роль - совпадать с типом работы, а работа - принимать предложения.
// Первое предложение переводит работу OPEN -> BIDDING.
func (s *Service) SubmitBid(ctx context.Context, bidReq models.BidRequest) (*models.Bid, error) {
	if bidReq.AskPrice <= 0 {
		return nil, apperr.New(apperr.InvalidArgument, "askPrice must be positive")
	}

	var (
		bid    *models.Bid
		bidder *models.User
		job    *models.Job
	)
	err := s.store.Transact(ctx, func(repos repository.Repos) error {
		var err error
		bidder, err = repos.Users().GetUser(ctx, bidReq.BidderID)
		if err != nil {
			return err
		}
		if !bidder.IsApproved {
			return apperr.New(apperr.Forbidden, "bidder account is not approved")
		}

		job, err = repos.Jobs().GetJobForUpdate(ctx, bidReq.JobID)
		if err != nil {
			return err
		}
		if !bidder.CanBidOn(job.JobType) {
			return apperr.Newf(apperr.Forbidden, "bidder role does not match %s job", job.JobType)
		}
		if !job.Status.AcceptsBids() {
			return apperr.Newf(apperr.InvalidState, "job in status %s does not accept bids", job.Status)
		}

		bid, err = repos.Bids().CreateBid(ctx, bidReq)
		if err != nil {
			return err
		}

		// Первое предложение: OPEN -> BIDDING. Для работы уже в BIDDING
		// ничего не меняется.
		if job.Status == models.OpenJob {
			return setJobStatus(ctx, repos, job, models.BiddingJob)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Publish(notify.Event{
		Type:      notify.BidSubmitted,
		JobID:     job.ID,
		JobTitle:  job.Title,
		ActorName: bidder.FullName,
		City:      job.City,
		State:     job.State,
		Amount:    bid.AskPrice,
	})
	return bid, nil
}

// WithdrawBid отзывает предложение. Разрешено только автору и только пока
// предложение в статусе submitted. Если отозвано последнее активное
// предложение, работа без присуждения возвращается в OPEN.
func (s *Service) WithdrawBid(ctx context.Context, bidID, actorID string) error {
	var job *models.Job
	err := s.store.Transact(ctx, func(repos repository.Repos) error {
		// Сначала ищем работу, чтобы всегда брать блокировки в порядке
		// работа -> предложение и не пересекаться с присуждением.
		peek, err := repos.Bids().GetBid(ctx, bidID)
		if err != nil {
			return err
		}

		job, err = repos.Jobs().GetJobForUpdate(ctx, peek.JobID)
		if err != nil {
			return err
		}

		bid, err := repos.Bids().GetBidForUpdate(ctx, bidID)
		if err != nil {
			return err
		}
		if bid.BidderID != actorID {
			return apperr.New(apperr.Forbidden, "only the bid owner can withdraw it")
		}
		if bid.Status != models.SubmittedBid {
			return apperr.Newf(apperr.InvalidState, "bid in status %s cannot be withdrawn", bid.Status)
		}

		if err := repos.Bids().UpdateBidStatus(ctx, bidID, models.WithdrawnBid); err != nil {
			return err
		}

		remaining, err := repos.Bids().CountSubmittedBids(ctx, job.ID)
		if err != nil {
			return err
		}
		// Отозвано последнее активное предложение: BIDDING -> OPEN.
		// Работа с присуждением находится в AWARDED и дальше, таблица
		// переходов назад в OPEN ее не пустит.
		if remaining == 0 && job.Status == models.BiddingJob {
			return setJobStatus(ctx, repos, job, models.OpenJob)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if job.Status == models.OpenJob {
		s.logger.Info("last active bid withdrawn, job reopened", zap.String("jobId", job.ID))
	}

	s.notifier.Publish(notify.Event{
		Type:     notify.BidWithdrawn,
		JobID:    job.ID,
		JobTitle: job.Title,
	})
	return nil
}

// AwardJob присуждает работу одному из поданных предложений. Атомарно
// создает присуждение, принимает выигравшее предложение, отклоняет
// остальные поданные и переводит работу в AWARDED.
func (s *Service) AwardJob(ctx context.Context, jobID, bidID, adminID string, amount float64, notes string) (*models.Award, error) {
	if amount <= 0 {
		return nil, apperr.New(apperr.InvalidArgument, "award amount must be positive")
	}

	var (
		award  *models.Award
		job    *models.Job
		winner *models.User
	)
	err := s.store.Transact(ctx, func(repos repository.Repos) error {
		admin, err := repos.Users().GetUser(ctx, adminID)
		if err != nil {
			return err
		}
		if !admin.RoleAdmin {
			return apperr.New(apperr.Forbidden, "only admins can award jobs")
		}

		job, err = repos.Jobs().GetJobForUpdate(ctx, jobID)
		if err != nil {
			return err
		}
		if job.Status == models.AwardedJob {
			return apperr.New(apperr.Conflict, "job is already awarded")
		}
		if !job.Status.AcceptsBids() {
			return apperr.Newf(apperr.InvalidState, "job in status %s cannot be awarded", job.Status)
		}

		bid, err := repos.Bids().GetBidForUpdate(ctx, bidID)
		if err != nil {
			return err
		}
		if bid.JobID != jobID {
			return apperr.New(apperr.NotFound, "bid does not belong to this job")
		}
		if bid.Status != models.SubmittedBid {
			return apperr.Newf(apperr.Conflict, "bid in status %s cannot be awarded", bid.Status)
		}

		award, err = repos.Awards().CreateAward(ctx, models.Award{
			JobID:         jobID,
			BidID:         bidID,
			AwardedUserID: bid.BidderID,
			AwardedBy:     adminID,
			AwardAmount:   amount,
			Notes:         notes,
		})
		if err != nil {
			return err
		}
		if err := repos.Bids().UpdateBidStatus(ctx, bidID, models.AcceptedBid); err != nil {
			return err
		}
		if err := repos.Bids().RejectSubmittedBids(ctx, jobID, bidID); err != nil {
			return err
		}
		if err := setJobStatus(ctx, repos, job, models.AwardedJob); err != nil {
			return err
		}

		winner, err = repos.Users().GetUser(ctx, bid.BidderID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("job awarded",
		zap.String("jobId", job.ID),
		zap.String("bidId", bidID),
		zap.String("awardedUserId", award.AwardedUserID))

	s.notifier.Publish(notify.Event{
		Type:      notify.JobAwarded,
		JobID:     job.ID,
		JobTitle:  job.Title,
		ActorName: winner.FullName,
		City:      job.City,
		State:     job.State,
		Amount:    award.AwardAmount,
	})
	return award, nil
}

// UpdateExecutionStatus меняет статус выполнения работы. Доступно только
// исполнителю, которому присуждена работа. После COMPLETED переходы
// запрещены.
func (s *Service) UpdateExecutionStatus(ctx context.Context, jobID, actorID string, next models.JobStatus) (*models.Job, error) {
	if !next.ExecutionStatus() {
		return nil, apperr.Newf(apperr.InvalidArgument, "%s is not an execution status", next)
	}

	var job *models.Job
	err := s.store.Transact(ctx, func(repos repository.Repos) error {
		var err error
		job, err = repos.Jobs().GetJobForUpdate(ctx, jobID)
		if err != nil {
			return err
		}

		award, err := repos.Awards().GetActiveAward(ctx, jobID)
		if err != nil {
			if apperr.KindOf(err) == apperr.NotFound {
				return apperr.New(apperr.InvalidState, "job has not been awarded")
			}
			return err
		}
		if award.AwardedUserID != actorID {
			return apperr.New(apperr.Forbidden, "only the awarded user can update job status")
		}
		return setJobStatus(ctx, repos, job, next)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Publish(notify.Event{
		Type:     notify.JobStatusSet,
		JobID:    job.ID,
		JobTitle: job.Title,
	})
	return job, nil
}

// CancelJob отменяет работу до присуждения. Доступно только админу.
func (s *Service) CancelJob(ctx context.Context, jobID, actorID string) (*models.Job, error) {
	var job *models.Job
	err := s.store.Transact(ctx, func(repos repository.Repos) error {
		actor, err := repos.Users().GetUser(ctx, actorID)
		if err != nil {
			return err
		}
		if !actor.RoleAdmin {
			return apperr.New(apperr.Forbidden, "only admins can cancel jobs")
		}
		job, err = repos.Jobs().GetJobForUpdate(ctx, jobID)
		if err != nil {
			return err
		}
		return setJobStatus(ctx, repos, job, models.CancelledJob)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Publish(notify.Event{
		Type:     notify.JobCancelled,
		JobID:    job.ID,
		JobTitle: job.Title,
	})
	return job, nil
}

// GetJob получает работу по ID.
func (s *Service) GetJob(ctx context.Context, jobID string) (*models.Job, error) {
	return s.store.Jobs().GetJob(ctx, jobID)
}

// GetJobSummary возвращает публичную сводку по работе со счетчиком
// активных предложений.
func (s *Service) GetJobSummary(ctx context.Context, jobID string) (*models.JobSummary, error) {
	return s.store.Jobs().GetJobSummary(ctx, jobID)
}

// ListJobBids возвращает список предложений по работе. Доступно только
// админу.
func (s *Service) ListJobBids(ctx context.Context, jobID, actorID string, limit, offset int) ([]models.Bid, error) {
	actor, err := s.store.Users().GetUser(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !actor.RoleAdmin {
		return nil, apperr.New(apperr.Forbidden, "only admins can list job bids")
	}
	if _, err := s.store.Jobs().GetJob(ctx, jobID); err != nil {
		return nil, err
	}
	return s.store.Bids().ListJobBids(ctx, jobID, limit, offset)
}

// ListUserBids возвращает список предложений пользователя. Пользователь
// видит только свои предложения.
func (s *Service) ListUserBids(ctx context.Context, userID, actorID string, limit, offset int) ([]models.Bid, error) {
	if userID != actorID {
		return nil, apperr.New(apperr.Forbidden, "users can only list their own bids")
	}
	return s.store.Bids().ListUserBids(ctx, userID, limit, offset)
}

// ListUserAwardedJobs возвращает список работ, присужденных пользователю.
func (s *Service) ListUserAwardedJobs(ctx context.Context, userID, actorID string, limit, offset int) ([]models.Job, error) {
	if userID != actorID {
		return nil, apperr.New(apperr.Forbidden, "users can only list their own awarded jobs")
	}
	return s.store.Jobs().ListUserAwardedJobs(ctx, userID, limit, offset)
}
