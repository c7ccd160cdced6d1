package repository

import (
	"context"
	"testing"

	"medialibrary_backend/internals/databases/dbtest"
	"medialibrary_backend/internals/features/catalog/books/model"
	branchModel "medialibrary_backend/internals/features/catalog/branches/model"
	branchRepo "medialibrary_backend/internals/features/catalog/branches/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedBooks(t *testing.T) (*gorm.DB, map[string]uuid.UUID) {
	t.Helper()
	db := dbtest.New(t)

	br := branchModel.BranchModel{BranchName: "Central", BranchAddress: "a", BranchCity: "b", BranchPostalCode: "c", BranchPhone: "d", BranchEmail: "e"}
	require.NoError(t, branchRepo.CreateBranch(db, &br))

	fiction, programming := "Fiction", "Programming"
	books := []struct {
		title, author string
		category      *string
		copies        int
	}{
		{"Laskar Pelangi", "Andrea Hirata", &fiction, 1},
		{"The Go Programming Language", "Alan Donovan", &programming, 2},
		{"Bumi Manusia", "Pramoedya Ananta Toer", &fiction, 0},
		{"100%_Pure", "Some Author", nil, 0},
	}
	ids := map[string]uuid.UUID{}
	for _, b := range books {
		m := model.BookModel{BookTitle: b.title, BookAuthor: b.author, BookCategory: b.category}
		require.NoError(t, CreateBook(db, &m))
		_, err := AddCopies(db, m.BookID, br.BranchID, b.copies)
		require.NoError(t, err)
		ids[b.title] = m.BookID
	}
	return db, ids
}

func titles(rows []model.BookModel) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.BookTitle)
	}
	return out
}

func TestListFilters(t *testing.T) {
	db, _ := seedBooks(t)
	ctx := context.Background()

	rows, total, err := List(ctx, db, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Equal(t, []string{"100%_Pure", "Bumi Manusia", "Laskar Pelangi", "The Go Programming Language"}, titles(rows))

	rows, _, err = List(ctx, db, ListFilter{Search: "HIRATA"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Laskar Pelangi"}, titles(rows))

	// wildcard LIKE di-escape
	rows, _, err = List(ctx, db, ListFilter{Search: "%_"})
	require.NoError(t, err)
	assert.Equal(t, []string{"100%_Pure"}, titles(rows))

	rows, total, err = List(ctx, db, ListFilter{Category: "Fiction"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, []string{"Bumi Manusia", "Laskar Pelangi"}, titles(rows))

	rows, _, err = List(ctx, db, ListFilter{AvailableOnly: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"Laskar Pelangi", "The Go Programming Language"}, titles(rows))

	rows, total, err = List(ctx, db, ListFilter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Equal(t, []string{"Bumi Manusia", "Laskar Pelangi"}, titles(rows))
}

func TestGetByIDAndExists(t *testing.T) {
	db, ids := seedBooks(t)
	ctx := context.Background()

	b, err := GetByID(ctx, db, ids["Laskar Pelangi"])
	require.NoError(t, err)
	assert.Equal(t, "Andrea Hirata", b.BookAuthor)

	_, err = GetByID(ctx, db, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	ok, err := Exists(db, ids["Bumi Manusia"])
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Exists(db, uuid.New())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCopyCounts(t *testing.T) {
	db, ids := seedBooks(t)

	counts, err := CopyCounts(context.Background(), db, ids["The Go Programming Language"])
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{model.CopyStatusAvailable: 2}, counts)

	counts, err = CopyCounts(context.Background(), db, ids["Bumi Manusia"])
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestFindByISBN(t *testing.T) {
	db := dbtest.New(t)
	isbn := "9780134190440"
	require.NoError(t, CreateBook(db, &model.BookModel{BookTitle: "Go", BookAuthor: "Donovan", BookISBN: &isbn}))

	b, err := FindByISBN(db, isbn)
	require.NoError(t, err)
	assert.Equal(t, "Go", b.BookTitle)

	err = CreateBook(db, &model.BookModel{BookTitle: "Dup", BookAuthor: "X", BookISBN: &isbn})
	assert.Error(t, err)
}
