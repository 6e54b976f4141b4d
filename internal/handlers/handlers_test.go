package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/optimald/medequiptech/internal/handlers"
	"github.com/optimald/medequiptech/internal/lifecycle"
	"github.com/optimald/medequiptech/internal/models"
	"github.com/optimald/medequiptech/internal/notify"
	"github.com/optimald/medequiptech/internal/repository/repositorytest"
	"github.com/optimald/medequiptech/internal/router"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	adminID = "11111111-1111-1111-1111-111111111111"
	techID  = "22222222-2222-2222-2222-222222222222"
	otherID = "33333333-3333-3333-3333-333333333333"
	jobID   = "66666666-6666-6666-6666-666666666666"
)

type noopNotifier struct{}

func (noopNotifier) Publish(notify.Event) {}

func newTestRouter(t *testing.T) (http.Handler, *repositorytest.MemStore) {
	t.Helper()
	store := repositorytest.NewMemStore()
	store.AddUser(models.User{ID: adminID, FullName: "Admin", IsApproved: true, RoleAdmin: true})
	store.AddUser(models.User{ID: techID, FullName: "Tech", IsApproved: true, RoleTech: true})
	store.AddUser(models.User{ID: otherID, FullName: "Other", IsApproved: true, RoleTech: true})
	store.AddJob(models.Job{ID: jobID, Title: "Calibrate laser", JobType: models.TechJob, Status: models.OpenJob, CreatedBy: adminID})

	service := lifecycle.NewService(store, noopNotifier{}, zap.NewNop())
	jobHandler := handlers.NewJobHandler(service, zap.NewNop(), 5*time.Second)
	bidHandler := handlers.NewBidHandler(service, zap.NewNop(), 5*time.Second)
	return router.InitRoutes(jobHandler, bidHandler), store
}

func doRequest(t *testing.T, h http.Handler, method, target, actor, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if actor != "" {
		req.Header.Set("X-User-Id", actor)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPing(t *testing.T) {
	h, _ := newTestRouter(t)
	rec := doRequest(t, h, http.MethodGet, "/api/ping", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}

func TestCreateBidHandler(t *testing.T) {
	h, store := newTestRouter(t)

	rec := doRequest(t, h, http.MethodPost, "/api/jobs/"+jobID+"/bids", techID, `{"askPrice": 500, "note": "can start monday"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var bid models.Bid
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bid))
	require.Equal(t, techID, bid.BidderID)
	require.Equal(t, models.SubmittedBid, bid.Status)

	job, _ := store.Job(jobID)
	require.Equal(t, models.BiddingJob, job.Status)
}

func TestCreateBidHandler_Errors(t *testing.T) {
	h, _ := newTestRouter(t)

	// Нет заголовка с пользователем.
	rec := doRequest(t, h, http.MethodPost, "/api/jobs/"+jobID+"/bids", "", `{"askPrice": 500}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Невалидное тело.
	rec = doRequest(t, h, http.MethodPost, "/api/jobs/"+jobID+"/bids", techID, `{bad json`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Неположительная цена.
	rec = doRequest(t, h, http.MethodPost, "/api/jobs/"+jobID+"/bids", techID, `{"askPrice": -5}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var errResp struct {
		Reason string `json:"reason"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	require.NotEmpty(t, errResp.Reason)

	// Повторная активная подача.
	rec = doRequest(t, h, http.MethodPost, "/api/jobs/"+jobID+"/bids", techID, `{"askPrice": 500}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = doRequest(t, h, http.MethodPost, "/api/jobs/"+jobID+"/bids", techID, `{"askPrice": 400}`)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestAwardFlowOverHTTP(t *testing.T) {
	h, store := newTestRouter(t)

	rec := doRequest(t, h, http.MethodPost, "/api/jobs/"+jobID+"/bids", techID, `{"askPrice": 500}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var bid models.Bid
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bid))

	// Не админ не может присуждать.
	rec = doRequest(t, h, http.MethodPost, "/api/jobs/"+jobID+"/award", otherID, `{"bidId": "`+bid.ID+`", "amount": 500}`)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, h, http.MethodPost, "/api/jobs/"+jobID+"/award", adminID, `{"bidId": "`+bid.ID+`", "amount": 500}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var award models.Award
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &award))
	require.Equal(t, techID, award.AwardedUserID)

	// Исполнитель ведет работу по статусам выполнения.
	rec = doRequest(t, h, http.MethodPut, "/api/jobs/"+jobID+"/status", techID, `{"status": "IN_PROGRESS"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// Чужой запрос отклоняется.
	rec = doRequest(t, h, http.MethodPut, "/api/jobs/"+jobID+"/status", otherID, `{"status": "COMPLETED"}`)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, h, http.MethodPut, "/api/jobs/"+jobID+"/status", techID, `{"status": "COMPLETED"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	job, _ := store.Job(jobID)
	require.Equal(t, models.CompletedJob, job.Status)

	// После COMPLETED переходы запрещены.
	rec = doRequest(t, h, http.MethodPut, "/api/jobs/"+jobID+"/status", techID, `{"status": "ON_HOLD"}`)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestWithdrawBidHandler(t *testing.T) {
	h, store := newTestRouter(t)

	rec := doRequest(t, h, http.MethodPost, "/api/jobs/"+jobID+"/bids", techID, `{"askPrice": 500}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var bid models.Bid
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bid))

	// Отзывать может только автор.
	rec = doRequest(t, h, http.MethodPost, "/api/bids/"+bid.ID+"/withdraw", otherID, "")
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, h, http.MethodPost, "/api/bids/"+bid.ID+"/withdraw", techID, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	job, _ := store.Job(jobID)
	require.Equal(t, models.OpenJob, job.Status)
}

func TestJobSummaryHandler(t *testing.T) {
	h, _ := newTestRouter(t)

	doRequest(t, h, http.MethodPost, "/api/jobs/"+jobID+"/bids", techID, `{"askPrice": 500}`)
	doRequest(t, h, http.MethodPost, "/api/jobs/"+jobID+"/bids", otherID, `{"askPrice": 450}`)

	rec := doRequest(t, h, http.MethodGet, "/api/jobs/"+jobID, "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var summary models.JobSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	require.Equal(t, 2, summary.BidCount)
	require.Equal(t, models.BiddingJob, summary.Status)

	rec = doRequest(t, h, http.MethodGet, "/api/jobs/00000000-0000-0000-0000-000000000000", "", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListHandlers(t *testing.T) {
	h, _ := newTestRouter(t)

	doRequest(t, h, http.MethodPost, "/api/jobs/"+jobID+"/bids", techID, `{"askPrice": 500}`)

	// Список предложений по работе видит только админ.
	rec := doRequest(t, h, http.MethodGet, "/api/jobs/"+jobID+"/bids", techID, "")
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, h, http.MethodGet, "/api/jobs/"+jobID+"/bids", adminID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var bids []models.Bid
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &bids))
	require.Len(t, bids, 1)

	// Свои предложения видит их автор.
	rec = doRequest(t, h, http.MethodGet, "/api/users/"+techID+"/bids", techID, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, h, http.MethodGet, "/api/users/"+techID+"/bids", otherID, "")
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCreateJobHandler(t *testing.T) {
	h, _ := newTestRouter(t)

	rec := doRequest(t, h, http.MethodPost, "/api/jobs", adminID, `{"title": "Replace handpiece", "jobType": "tech", "city": "Salt Lake City", "state": "UT"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var job models.Job
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &job))
	require.Equal(t, models.OpenJob, job.Status)

	rec = doRequest(t, h, http.MethodPost, "/api/jobs", techID, `{"title": "x", "jobType": "tech"}`)
	require.Equal(t, http.StatusForbidden, rec.Code)
}
