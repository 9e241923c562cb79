package books

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/libraryhub/internal/entities"
)

func setupTestDB(t *testing.T) *Repository {
	dbPath := filepath.Join(t.TempDir(), "books.db")

	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on&_busy_timeout=5000"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.Book{}))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	return NewRepository(db)
}

func createBook(t *testing.T, repo *Repository, total, available int) *entities.Book {
	book := &entities.Book{
		Title:           "Clean Code",
		Author:          "Robert C. Martin",
		ISBN:            t.Name(),
		Category:        "Technology",
		TotalCopies:     total,
		AvailableCopies: available,
	}
	require.NoError(t, repo.Create(context.Background(), book))
	return book
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	book := createBook(t, repo, 5, 3)
	assert.NotEmpty(t, book.ID)

	found, err := repo.GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Clean Code", found.Title)
	assert.Equal(t, 3, found.AvailableCopies)

	byISBN, err := repo.GetByISBN(ctx, book.ISBN)
	require.NoError(t, err)
	assert.Equal(t, book.ID, byISBN.ID)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRepository_DecrementAvailable(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	book := createBook(t, repo, 5, 1)

	ok, err := repo.DecrementAvailable(ctx, book.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.DecrementAvailable(ctx, book.ID)
	require.NoError(t, err)
	assert.False(t, ok, "no copies left")

	found, err := repo.GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, found.AvailableCopies)

	ok, err = repo.DecrementAvailable(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRepository_DecrementAvailable_Concurrent(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	book := createBook(t, repo, 5, 3)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		granted int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := repo.DecrementAvailable(ctx, book.ID)
			if err == nil && ok {
				mu.Lock()
				granted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	found, err := repo.GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, found.AvailableCopies, 0)
	assert.Equal(t, 3-granted, found.AvailableCopies)
}

func TestRepository_IncrementAvailable(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	book := createBook(t, repo, 2, 1)

	ok, err := repo.IncrementAvailable(ctx, book.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.IncrementAvailable(ctx, book.ID)
	require.NoError(t, err)
	assert.False(t, ok, "already at total")

	found, err := repo.GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, found.AvailableCopies)
}

func TestRepository_UpdateAvailableCopies(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()
	book := createBook(t, repo, 4, 4)

	require.NoError(t, repo.UpdateAvailableCopies(ctx, book.ID, 2))

	assert.ErrorIs(t, repo.UpdateAvailableCopies(ctx, book.ID, 5), ErrCopiesOutOfRange)
	assert.ErrorIs(t, repo.UpdateAvailableCopies(ctx, book.ID, -1), ErrCopiesOutOfRange)
	assert.ErrorIs(t, repo.UpdateAvailableCopies(ctx, "missing", 1), gorm.ErrRecordNotFound)

	found, err := repo.GetByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, found.AvailableCopies)
}

func TestRepository_List(t *testing.T) {
	repo := setupTestDB(t)
	ctx := context.Background()

	for _, title := range []string{"Sapiens", "1984"} {
		require.NoError(t, repo.Create(ctx, &entities.Book{
			Title: title, Author: "A", ISBN: title, TotalCopies: 1, AvailableCopies: 1,
		}))
	}

	books, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "1984", books[0].Title)
}
