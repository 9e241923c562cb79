package students

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/libraryhub/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB) {
	dbPath := filepath.Join(t.TempDir(), "students.db")

	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.Student{},
		&entities.Book{},
		&entities.SubscriptionPlan{},
		&entities.Subscription{},
		&entities.Checkout{},
		&entities.Fee{},
		&entities.Payment{},
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return NewRepository(db), db
}

func newStudent(code string) *entities.Student {
	return &entities.Student{
		Name:        "Student " + code,
		Email:       code + "@example.com",
		Phone:       "9876543210",
		StudentCode: code,
	}
}

func TestRepository_CreateAndLookup(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()

	student := newStudent("LIB001")
	require.NoError(t, repo.Create(ctx, student))
	assert.NotEmpty(t, student.ID)
	assert.False(t, student.EnrollmentDate.IsZero())

	byID, err := repo.GetByID(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, "LIB001", byID.StudentCode)

	byEmail, err := repo.GetByEmail(ctx, "LIB001@example.com")
	require.NoError(t, err)
	assert.Equal(t, student.ID, byEmail.ID)

	byCode, err := repo.GetByCode(ctx, "LIB001")
	require.NoError(t, err)
	assert.Equal(t, student.ID, byCode.ID)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	dup := newStudent("LIB002")
	dup.Email = student.Email
	assert.Error(t, repo.Create(ctx, dup), "email must be unique")
}

func TestRepository_UpdateBillingRefs(t *testing.T) {
	repo, _ := setupTestDB(t)
	ctx := context.Background()

	student := newStudent("LIB001")
	require.NoError(t, repo.Create(ctx, student))

	updated, err := repo.UpdateBillingRefs(ctx, student.ID, "cus_123", "sub_456")
	require.NoError(t, err)
	require.NotNil(t, updated.BillingCustomerRef)
	assert.Equal(t, "cus_123", *updated.BillingCustomerRef)
	assert.Equal(t, "sub_456", *updated.BillingSubscriptionRef)

	_, err = repo.UpdateBillingRefs(ctx, "missing", "a", "b")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_DeleteCascade(t *testing.T) {
	repo, db := setupTestDB(t)
	ctx := context.Background()

	student := newStudent("LIB001")
	other := newStudent("LIB002")
	require.NoError(t, repo.Create(ctx, student))
	require.NoError(t, repo.Create(ctx, other))

	book := &entities.Book{Title: "1984", Author: "Orwell", ISBN: "1", TotalCopies: 3, AvailableCopies: 1}
	require.NoError(t, db.Create(book).Error)

	plan := &entities.SubscriptionPlan{Name: "Basic", Price: "499.00", Duration: 1}
	require.NoError(t, db.Create(plan).Error)

	now := time.Now()
	require.NoError(t, db.Create(&entities.Subscription{
		StudentID: student.ID, PlanID: plan.ID, StartDate: now, EndDate: now.AddDate(0, 1, 0),
		Status: entities.SubscriptionStatusActive, Amount: "499.00",
	}).Error)
	require.NoError(t, db.Create(&entities.Checkout{
		StudentID: student.ID, BookID: book.ID, DueDate: now.Add(24 * time.Hour),
	}).Error)
	fee := &entities.Fee{StudentID: student.ID, Amount: "5.00", Type: "late-fee", Description: "x", DueDate: now}
	require.NoError(t, db.Create(fee).Error)
	require.NoError(t, db.Create(&entities.Payment{
		StudentID: student.ID, FeeID: &fee.ID, Amount: "5.00", PaymentMethod: "cash",
	}).Error)
	otherPayment := &entities.Payment{StudentID: other.ID, FeeID: &fee.ID, Amount: "5.00", PaymentMethod: "upi"}
	require.NoError(t, db.Create(otherPayment).Error)

	require.NoError(t, repo.DeleteCascade(ctx, student.ID))

	_, err := repo.GetByID(ctx, student.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	for _, model := range []any{&entities.Subscription{}, &entities.Checkout{}, &entities.Fee{}, &entities.Payment{}} {
		var count int64
		require.NoError(t, db.Model(model).Where("student_id = ?", student.ID).Count(&count).Error)
		assert.Zero(t, count)
	}

	var reloaded entities.Book
	require.NoError(t, db.First(&reloaded, "id = ?", book.ID).Error)
	assert.Equal(t, 2, reloaded.AvailableCopies, "active checkout copy is restored")

	var kept entities.Payment
	require.NoError(t, db.First(&kept, "id = ?", otherPayment.ID).Error)
	assert.Nil(t, kept.FeeID)

	assert.ErrorIs(t, repo.DeleteCascade(ctx, student.ID), gorm.ErrRecordNotFound)
}
