package application

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"gorm.io/gorm"

	"jobboard-backend/internal/auth"
	"jobboard-backend/internal/database"
	"jobboard-backend/internal/middleware"
	"jobboard-backend/internal/model"
	"jobboard-backend/internal/notify"
	"jobboard-backend/internal/storage"
	"jobboard-backend/internal/testutil"
)

var testDB *database.DBinstanceStruct

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	var err error
	var midTeardown func(context.Context, ...testcontainers.TerminateOption) error
	midTeardown, testDB, err = database.GetTestDB()
	if err != nil {
		os.Exit(1)
	}
	code := m.Run()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if midTeardown != nil {
		_ = midTeardown(ctx)
	}
	os.Exit(code)
}

type sentMail struct {
	to, subject, text string
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (f *fakeSender) SendEmail(_ context.Context, to, subject, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMail{to, subject, text})
	return f.err
}

type fakePublisher struct {
	events []notify.StatusEvent
}

func (f *fakePublisher) PublishStatusChange(_ context.Context, e notify.StatusEvent) error {
	f.events = append(f.events, e)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

type memoryStorage struct {
	mu    sync.Mutex
	files map[string][]byte
}

func (m *memoryStorage) UploadFile(_ context.Context, name string, r io.Reader, _ int64, _ string) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = b
	return nil
}

func (m *memoryStorage) DownloadFile(context.Context, string) (io.ReadCloser, int64, error) {
	return nil, 0, storage.ErrNotFound
}

type fixture struct {
	router    *gin.Engine
	sender    *fakeSender
	publisher *fakePublisher
	store     *memoryStorage
}

func newFixture() *fixture {
	f := &fixture{
		sender:    &fakeSender{},
		publisher: &fakePublisher{},
		store:     &memoryStorage{files: map[string][]byte{}},
	}
	ac := NewApplicationController(testDB, notify.NewNotifier(f.sender, f.publisher, nil), nil)

	r := gin.New()
	g := r.Group("/api/applications", middleware.RequireAuth(testDB, auth.NewTokenManager(auth.TestSecret)))
	g.POST("/:id/apply",
		middleware.SizeLimit(1<<20),
		middleware.ResumeUpload(f.store, storage.NopScanner{}),
		ac.ApplyHandler)
	g.GET("/:id/applications", ac.ListApplicationsHandler)
	g.PUT("/:id/shortlist", ac.ShortlistHandler)
	g.PUT("/:id/reject", ac.RejectHandler)
	f.router = r
	return f
}

func token(t *testing.T, u model.User) string {
	tok, err := auth.GetAccessToken(t, testDB, u.Email, database.TestSeedPassword)
	require.NoError(t, err)
	return tok
}

func newJob(t *testing.T, owner model.User) model.Job {
	job := model.JobInput{
		Title:       "QA Engineer " + uuid.NewString()[:8],
		Company:     "Acme",
		Location:    "Remote",
		Description: "Break things before users do.",
		JobType:     model.JobTypeFullTime,
	}.ToJob(owner.ID)
	require.NoError(t, testDB.Create(&job).Error)
	return job
}

func pdf(name string) *testutil.FormFile {
	return &testutil.FormFile{Field: middleware.ResumeField, Name: name, Content: []byte("%PDF-1.4")}
}

func applyForm() map[string]string {
	return map[string]string{
		"experience":   "2",
		"currentRole":  "Developer",
		"skills":       "go, sql",
		"portfolioURL": "https://example.com/me",
	}
}

func countApplications(t *testing.T, jobID uuid.UUID) int64 {
	var n int64
	require.NoError(t, testDB.Model(&model.Application{}).Where("job_id = ?", jobID).Count(&n).Error)
	return n
}

func TestApply_CreatesApplication(t *testing.T) {
	f := newFixture()
	job := newJob(t, database.TestEmployer1)

	rec, resp := testutil.MakeMultipartRequest(applyForm(), pdf("Jane CV.pdf"), token(t, database.TestJobseeker1),
		f.router, "/api/applications/"+job.ID.String()+"/apply", http.MethodPost)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "Application submitted successfully.", resp["message"])

	app := resp["application"].(map[string]interface{})
	assert.Equal(t, "pending", app["status"])
	assert.Equal(t, job.ID.String(), app["job"])
	assert.Equal(t, float64(2), app["experience"])
	assert.Regexp(t, `^resumes/\d+-Jane CV\.pdf$`, app["resume"])
	assert.Contains(t, f.store.files, app["resume"])

	var reloaded model.Job
	require.NoError(t, testDB.First(&reloaded, "id = ?", job.ID).Error)
	assert.Equal(t, []string{app["id"].(string)}, []string(reloaded.Applications))
}

func TestApply_ReapplyUpdatesInPlace(t *testing.T) {
	f := newFixture()
	job := newJob(t, database.TestEmployer1)
	tok := token(t, database.TestJobseeker1)
	endpoint := "/api/applications/" + job.ID.String() + "/apply"

	rec, first := testutil.MakeMultipartRequest(applyForm(), pdf("v1.pdf"), tok, f.router, endpoint, http.MethodPost)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	firstApp := first["application"].(map[string]interface{})

	rec, second := testutil.MakeJSONRequest(gin.H{"experience": 5, "currentRole": "Lead"}, tok, f.router, endpoint, http.MethodPost)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Application updated successfully.", second["message"])

	secondApp := second["application"].(map[string]interface{})
	assert.Equal(t, firstApp["id"], secondApp["id"])
	assert.Equal(t, float64(5), secondApp["experience"])
	assert.Equal(t, "Lead", secondApp["currentRole"])
	assert.Equal(t, "", secondApp["skills"])
	assert.Equal(t, firstApp["resume"], secondApp["resume"], "resume is kept when no new file is sent")

	form := applyForm()
	rec, third := testutil.MakeMultipartRequest(form, pdf("v2.pdf"), tok, f.router, endpoint, http.MethodPost)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Regexp(t, `v2\.pdf$`, third["application"].(map[string]interface{})["resume"])

	assert.Equal(t, int64(1), countApplications(t, job.ID))

	var reloaded model.Job
	require.NoError(t, testDB.First(&reloaded, "id = ?", job.ID).Error)
	assert.Len(t, reloaded.Applications, 1)
}

func TestApply_TwoApplicants(t *testing.T) {
	f := newFixture()
	job := newJob(t, database.TestEmployer2)
	endpoint := "/api/applications/" + job.ID.String() + "/apply"

	for _, u := range []model.User{database.TestJobseeker1, database.TestJobseeker2} {
		rec, _ := testutil.MakeMultipartRequest(applyForm(), pdf("cv.pdf"), token(t, u), f.router, endpoint, http.MethodPost)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}
	assert.Equal(t, int64(2), countApplications(t, job.ID))
}

func TestApply_MissingFields(t *testing.T) {
	f := newFixture()
	job := newJob(t, database.TestEmployer1)
	tok := token(t, database.TestJobseeker2)
	endpoint := "/api/applications/" + job.ID.String() + "/apply"

	rec, resp := testutil.MakeJSONRequest(gin.H{"experience": 2, "currentRole": "Dev"}, tok, f.router, endpoint, http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Experience, current role, and resume are required.", resp["message"])

	noRole := applyForm()
	delete(noRole, "currentRole")
	rec, resp = testutil.MakeMultipartRequest(noRole, pdf("cv.pdf"), tok, f.router, endpoint, http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Experience, current role, and resume are required.", resp["message"])

	blankExp := applyForm()
	blankExp["experience"] = ""
	rec, resp = testutil.MakeMultipartRequest(blankExp, pdf("cv.pdf"), tok, f.router, endpoint, http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Experience, current role, and resume are required.", resp["message"])

	assert.Zero(t, countApplications(t, job.ID))
}

func TestApply_InvalidExperience(t *testing.T) {
	f := newFixture()
	job := newJob(t, database.TestEmployer1)
	tok := token(t, database.TestJobseeker2)
	endpoint := "/api/applications/" + job.ID.String() + "/apply"

	for _, exp := range []string{"-1", "lots"} {
		form := applyForm()
		form["experience"] = exp
		rec, resp := testutil.MakeMultipartRequest(form, pdf("cv.pdf"), tok, f.router, endpoint, http.MethodPost)
		assert.Equal(t, http.StatusBadRequest, rec.Code, exp)
		assert.Equal(t, "Experience must be a non-negative number.", resp["message"])
	}
}

func TestApply_JobNotFound(t *testing.T) {
	f := newFixture()
	tok := token(t, database.TestJobseeker1)

	for _, id := range []string{uuid.NewString(), "abc"} {
		rec, resp := testutil.MakeMultipartRequest(applyForm(), pdf("cv.pdf"), tok, f.router, "/api/applications/"+id+"/apply", http.MethodPost)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Job not found", resp["message"])
	}
}

func TestApply_RejectsExecutable(t *testing.T) {
	f := newFixture()
	job := newJob(t, database.TestEmployer1)

	rec, resp := testutil.MakeMultipartRequest(applyForm(),
		&testutil.FormFile{Field: middleware.ResumeField, Name: "cv.exe", Content: []byte("MZ")},
		token(t, database.TestJobseeker1), f.router, "/api/applications/"+job.ID.String()+"/apply", http.MethodPost)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Only PDF, DOC, and DOCX files are allowed.", resp["message"])
	assert.Zero(t, countApplications(t, job.ID))
	assert.Empty(t, f.store.files)
}

func TestListApplications(t *testing.T) {
	f := newFixture()
	tok := token(t, database.TestEmployer1)

	rec, _ := testutil.MakeJSONRequest(nil, tok, f.router, "/api/applications/"+database.TestJob2.ID.String()+"/applications", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)

	apps := testutil.DecodeList(rec)
	require.NotEmpty(t, apps)
	assert.Equal(t, database.TestApplication1.ID.String(), apps[0]["id"])
	applicant := apps[0]["applicant"].(map[string]interface{})
	assert.Equal(t, database.TestJobseeker2.Name, applicant["name"])
	assert.Equal(t, database.TestJobseeker2.Email, applicant["email"])

	rec, _ = testutil.MakeJSONRequest(nil, tok, f.router, "/api/applications/"+database.TestJob3.ID.String()+"/applications", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", rec.Body.String())

	rec, resp := testutil.MakeJSONRequest(nil, tok, f.router, "/api/applications/"+uuid.NewString()+"/applications", http.MethodGet)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Job not found", resp["message"])
}

func newApplication(t *testing.T, status model.ApplicationStatus) model.Application {
	job := newJob(t, database.TestEmployer2)
	app := model.Application{
		JobID:       job.ID,
		ApplicantID: database.TestJobseeker1.ID,
		Experience:  3,
		CurrentRole: "Analyst",
		Resume:      "resumes/1-cv.pdf",
		Status:      status,
	}
	require.NoError(t, testDB.Create(&app).Error)
	return app
}

func TestShortlist(t *testing.T) {
	f := newFixture()
	app := newApplication(t, model.ApplicationStatusRejected)

	rec, resp := testutil.MakeJSONRequest(nil, token(t, database.TestEmployer2), f.router, "/api/applications/"+app.ID.String()+"/shortlist", http.MethodPut)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, "Application shortlisted successfully.", resp["message"])
	assert.Equal(t, "shortlisted", resp["application"].(map[string]interface{})["status"])

	var reloaded model.Application
	require.NoError(t, testDB.First(&reloaded, "id = ?", app.ID).Error)
	assert.Equal(t, model.ApplicationStatusShortlisted, reloaded.Status)

	require.Len(t, f.sender.sent, 1)
	assert.Equal(t, database.TestJobseeker1.Email, f.sender.sent[0].to)
	assert.Equal(t, "Your Application has been Shortlisted!", f.sender.sent[0].subject)
	assert.Equal(t, "Hello Jane Seeker,\n\nCongratulations! Your application for job ID "+app.JobID.String()+
		" has been shortlisted.\n\nBest regards,\nJob Board Team", f.sender.sent[0].text)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, model.ApplicationStatusShortlisted, f.publisher.events[0].Status)
}

func TestReject_EmailFailureStillSucceeds(t *testing.T) {
	f := newFixture()
	f.sender.err = errors.New("smtp unavailable")
	app := newApplication(t, model.ApplicationStatusShortlisted)

	rec, resp := testutil.MakeJSONRequest(nil, token(t, database.TestJobseeker2), f.router, "/api/applications/"+app.ID.String()+"/reject", http.MethodPut)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Application rejected successfully.", resp["message"])
	assert.Equal(t, "rejected", resp["application"].(map[string]interface{})["status"])

	require.Len(t, f.sender.sent, 1)
	assert.Equal(t, "Your Application has been Rejected", f.sender.sent[0].subject)
}

func TestStatusChange_NotFound(t *testing.T) {
	f := newFixture()
	tok := token(t, database.TestEmployer1)

	for _, path := range []string{"/api/applications/abc/shortlist", "/api/applications/" + uuid.NewString() + "/reject"} {
		rec, resp := testutil.MakeJSONRequest(nil, tok, f.router, path, http.MethodPut)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Equal(t, "Application not found", resp["message"])
	}
	assert.Empty(t, f.sender.sent)
}

func TestApply_NoResumeChecksRequiredFieldsFirst(t *testing.T) {
	f := newFixture()
	tok := token(t, database.TestJobseeker1)

	for _, id := range []string{"123", uuid.NewString()} {
		rec, resp := testutil.MakeMultipartRequest(map[string]string{"experience": "2", "currentRole": "Dev"}, nil,
			tok, f.router, "/api/applications/"+id+"/apply", http.MethodPost)
		assert.Equal(t, http.StatusBadRequest, rec.Code, id)
		assert.Equal(t, "Experience, current role, and resume are required.", resp["message"], id)
	}
}

func TestApply_BadBody(t *testing.T) {
	f := newFixture()
	job := newJob(t, database.TestEmployer1)
	tok := token(t, database.TestJobseeker2)
	endpoint := "/api/applications/" + job.ID.String() + "/apply"

	req := httptest.NewRequest(http.MethodPost, endpoint, strings.NewReader(`{"experience": 2,`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"message":"Invalid request body"`)

	rec, resp := testutil.MakeJSONRequest(gin.H{"experience": "two", "currentRole": "Dev"}, tok, f.router, endpoint, http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Experience must be a non-negative number.", resp["message"])
}

func TestApply_ConcurrentFirstApplies(t *testing.T) {
	f := newFixture()
	job := newJob(t, database.TestEmployer1)
	tok := token(t, database.TestJobseeker1)
	endpoint := "/api/applications/" + job.ID.String() + "/apply"

	const n = 8
	codes := make([]int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec, _ := testutil.MakeMultipartRequest(applyForm(), pdf("cv.pdf"), tok, f.router, endpoint, http.MethodPost)
			codes[i] = rec.Code
		}(i)
	}
	wg.Wait()

	created := 0
	for _, code := range codes {
		assert.Contains(t, []int{http.StatusOK, http.StatusCreated}, code)
		if code == http.StatusCreated {
			created++
		}
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, int64(1), countApplications(t, job.ID))

	var reloaded model.Job
	require.NoError(t, testDB.First(&reloaded, "id = ?", job.ID).Error)
	assert.Len(t, reloaded.Applications, 1)
}

func TestStatusChange_ApplicantLookupErrorKeepsStatus(t *testing.T) {
	f := newFixture()
	app := newApplication(t, model.ApplicationStatusPending)

	ac := NewApplicationController(testDB, notify.NewNotifier(f.sender, f.publisher, nil), nil)
	r := gin.New()
	r.PUT("/:id/reject", ac.RejectHandler)

	const callback = "test:fail_user_lookup"
	require.NoError(t, testDB.Callback().Query().Before("gorm:query").Register(callback, func(db *gorm.DB) {
		if db.Statement.Table == "users" {
			_ = db.AddError(errors.New("users table unavailable"))
		}
	}))
	t.Cleanup(func() { _ = testDB.Callback().Query().Remove(callback) })

	rec, resp := testutil.MakeJSONRequest(nil, "", r, "/"+app.ID.String()+"/reject", http.MethodPut)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Application rejected successfully.", resp["message"])

	var reloaded model.Application
	require.NoError(t, testDB.First(&reloaded, "id = ?", app.ID).Error)
	assert.Equal(t, model.ApplicationStatusRejected, reloaded.Status)
	assert.Empty(t, f.sender.sent)
}
