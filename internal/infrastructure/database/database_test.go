package database

import (
	"errors"
	"testing"

	"auditnet-backend/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestPinger_UsesUnderlyingConnection(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{DisableAutomaticPing: true})
	require.NoError(t, err)

	p := &Pinger{DB: db}

	mock.ExpectPing()
	assert.NoError(t, p.Ping())

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	assert.Error(t, p.Ping())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPinger_NilIsHealthy(t *testing.T) {
	var p *Pinger
	assert.NoError(t, p.Ping())
}

func TestOpen_SQLiteMigratesUniqueIndexes(t *testing.T) {
	db, err := Open("sqlite::memory:")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, AutoMigrate(db))

	for _, m := range Models() {
		assert.True(t, db.Migrator().HasTable(m))
	}
	assert.True(t, db.Migrator().HasIndex(&domain.Organization{}, "RegistrationNumber"))
	assert.True(t, db.Migrator().HasIndex(&domain.JoinRequest{}, "idx_join_requests_pending"))

	admin := uuid.New()
	org := func(reg, sub string) *domain.Organization {
		return &domain.Organization{Type: domain.OrganizationTypeCompany, NameAr: "ش", NameEn: "C", RegistrationNumber: reg, Subdomain: sub, AdminID: admin}
	}
	require.NoError(t, db.Create(org("100", "c-one")).Error)
	assert.Error(t, db.Create(org("100", "c-two")).Error)
	assert.Error(t, db.Create(org("101", "c-one")).Error)
}

func TestJoinRequestPendingIndex(t *testing.T) {
	db, err := Open("sqlite::memory:")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, AutoMigrate(db))

	user, org := uuid.New(), uuid.New()
	reason := "incomplete"
	require.NoError(t, db.Create(&domain.JoinRequest{UserID: user, OrganizationID: org, Status: domain.JoinRequestRejected, RejectionReason: &reason}).Error)
	require.NoError(t, db.Create(&domain.JoinRequest{UserID: user, OrganizationID: org, Status: domain.JoinRequestPending}).Error)
	assert.Error(t, db.Create(&domain.JoinRequest{UserID: user, OrganizationID: org, Status: domain.JoinRequestPending}).Error)
}
