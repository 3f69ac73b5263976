package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard-backend/internal/config"
	"jobboard-backend/internal/model"
)

var testDB *DBinstanceStruct

func TestMain(m *testing.M) {
	td, db, err := GetTestDB()
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not start postgres container: %v\n", err)
		os.Exit(1)
	}
	testDB = db

	code := m.Run()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := td(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "could not teardown postgres container: %v\n", err)
	}
	os.Exit(code)
}

func TestHealth(t *testing.T) {
	stats := testDB.Health()

	assert.Equal(t, "up", stats["status"])
	assert.NotContains(t, stats, "error")
	assert.Equal(t, "It's healthy", stats["message"])
}

func TestSeededFixtures(t *testing.T) {
	var job model.Job
	require.NoError(t, testDB.First(&job, "id = ?", TestJob2.ID).Error)
	assert.Equal(t, TestEmployer1.ID, job.PostedByID)
	assert.Equal(t, []string{TestApplication1.ID.String()}, []string(job.Applications))

	var app model.Application
	require.NoError(t, testDB.First(&app, "id = ?", TestApplication1.ID).Error)
	assert.Equal(t, model.ApplicationStatusPending, app.Status)
}

func TestDuplicateEmailIsUniqueViolation(t *testing.T) {
	dup := model.User{
		Name:     "Copy",
		Email:    TestJobseeker1.Email,
		Password: "x",
	}
	err := testDB.Create(&dup).Error
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}

func TestDuplicateApplicationIsUniqueViolation(t *testing.T) {
	dup := model.Application{
		JobID:       TestApplication1.JobID,
		ApplicantID: TestApplication1.ApplicantID,
		CurrentRole: "Dev",
		Resume:      "resumes/x.pdf",
	}
	err := testDB.Create(&dup).Error
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.False(t, IsUniqueViolation(errors.New("plain")))
	assert.True(t, IsUniqueViolation(fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
}

func TestSeedAdmin(t *testing.T) {
	// An admin already exists in the fixtures so nothing new is created.
	require.NoError(t, testDB.SeedAdmin(config.AdminConfig{Email: "other-admin@example.com", Password: "pw123456"}))

	var count int64
	require.NoError(t, testDB.Model(&model.User{}).Where("email = ?", "other-admin@example.com").Count(&count).Error)
	assert.Zero(t, count)

	assert.NoError(t, testDB.SeedAdmin(config.AdminConfig{}))
}

func TestNewDBInstanceIncompleteConfig(t *testing.T) {
	_, err := NewDBInstance(&config.DatabaseConfig{Host: "localhost"}, nil)
	assert.Error(t, err)
}

func TestPublicUsers(t *testing.T) {
	users, err := testDB.PublicUsers(context.Background(), []uuid.UUID{TestEmployer1.ID, TestJobseeker1.ID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, TestEmployer1.Email, users[TestEmployer1.ID].Email)
	assert.Equal(t, model.RoleJobseeker, users[TestJobseeker1.ID].Role)

	empty, err := testDB.PublicUsers(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestApplicationsInOrder(t *testing.T) {
	ids := []string{uuid.NewString(), TestApplication1.ID.String()}
	apps, err := testDB.ApplicationsInOrder(context.Background(), ids)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, TestApplication1.ID, apps[0].ID)
	require.NotNil(t, apps[0].Applicant)
	assert.Equal(t, TestJobseeker2.Name, apps[0].Applicant.Name)
}
