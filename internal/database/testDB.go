package database

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"jobboard-backend/internal/config"
	m "jobboard-backend/internal/model"
	"jobboard-backend/internal/utilities"
)

var testDBInstance *DBinstanceStruct
var teardown func(context.Context, ...testcontainers.TerminateOption) error

// Exported test users, jobs and applications
var (
	TestAdminUser  m.User
	TestJobseeker1 m.User
	TestJobseeker2 m.User
	TestEmployer1  m.User
	TestEmployer2  m.User

	// Plain password shared by every seeded user
	TestSeedPassword = "SeedPass123!"

	// TestJob1 and TestJob2 are owned by TestEmployer1, TestJob3 by TestEmployer2.
	TestJob1 m.Job
	TestJob2 m.Job
	TestJob3 m.Job

	// TestApplication1 is TestJobseeker2's pending application to TestJob2.
	TestApplication1 m.Application
)

// GetTestDB starts a PostgreSQL test container and returns a teardown function,
// the DB instance, and any error encountered during setup.
func GetTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, *DBinstanceStruct, error) {

	if testDBInstance != nil && teardown != nil {
		return teardown, testDBInstance, nil
	}

	var (
		dbName = "database"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:16-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return nil, nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), nat.Port("5432/tcp"))
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	cfg := &config.DatabaseConfig{
		ConnectionString: fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", dbHost, dbPort.Port(), dbUser, dbPwd, dbName),
	}

	db, err := NewDBInstance(cfg, zap.NewNop())
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	if err := seedTestData(db); err != nil {
		_ = dbContainer.Terminate(context.Background())
		return nil, nil, err
	}

	testDBInstance = db
	teardown = dbContainer.Terminate

	return dbContainer.Terminate, db, nil
}

func seedTestData(db *DBinstanceStruct) error {
	hashedPwd, err := utilities.HashPassword(TestSeedPassword)
	if err != nil {
		return err
	}

	userSpecs := []struct {
		target *m.User
		name   string
		email  string
		role   m.Role
	}{
		{&TestJobseeker1, "Jane Seeker", "jane.seeker@example.com", m.RoleJobseeker},
		{&TestJobseeker2, "John Seeker", "john.seeker@example.com", m.RoleJobseeker},
		{&TestEmployer1, "Acme Recruiting", "hr@acme.example.com", m.RoleEmployer},
		{&TestEmployer2, "Globex Talent", "talent@globex.example.com", m.RoleEmployer},
		{&TestAdminUser, "Site Admin", "admin@example.com", m.RoleAdmin},
	}

	for _, s := range userSpecs {
		u := m.User{
			Name:     s.name,
			Email:    s.email,
			Password: hashedPwd,
			Role:     s.role,
		}
		if err := db.Create(&u).Error; err != nil {
			return err
		}
		*s.target = u
	}

	jobs := []struct {
		target *m.Job
		input  m.JobInput
		owner  m.User
	}{
		{&TestJob1, m.JobInput{
			Title:       "Backend Engineer",
			Company:     "Acme",
			Location:    "Bangkok (Hybrid)",
			Description: "Work on Go services and the database layer.",
			JobType:     m.JobTypeFullTime,
		}, TestEmployer1},
		{&TestJob2, m.JobInput{
			Title:       "Frontend Developer Intern",
			Company:     "Acme",
			Location:    "Remote",
			Description: "Help build our component library in React.",
			JobType:     m.JobTypeInternship,
		}, TestEmployer1},
		{&TestJob3, m.JobInput{
			Title:       "Data Analyst",
			Company:     "Globex",
			Location:    "Chiang Mai (On-site)",
			Description: "Data cleansing and dashboard creation.",
			JobType:     m.JobTypeContract,
		}, TestEmployer2},
	}

	for _, j := range jobs {
		job := j.input.ToJob(j.owner.ID)
		if err := db.Create(&job).Error; err != nil {
			return err
		}
		*j.target = job
	}

	TestApplication1 = m.Application{
		JobID:       TestJob2.ID,
		ApplicantID: TestJobseeker2.ID,
		Experience:  1,
		CurrentRole: "Student",
		Skills:      "react, typescript",
		Resume:      "resumes/1700000000000-john-seeker.pdf",
		Status:      m.ApplicationStatusPending,
	}
	if err := db.Create(&TestApplication1).Error; err != nil {
		return err
	}

	TestJob2.Applications = pq.StringArray{TestApplication1.ID.String()}
	return db.Model(&TestJob2).Update("applications", TestJob2.Applications).Error
}
