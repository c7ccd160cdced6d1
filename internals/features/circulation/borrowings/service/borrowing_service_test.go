package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"medialibrary_backend/internals/databases/dbtest"
	bookModel "medialibrary_backend/internals/features/catalog/books/model"
	bookRepo "medialibrary_backend/internals/features/catalog/books/repository"
	branchModel "medialibrary_backend/internals/features/catalog/branches/model"
	branchRepo "medialibrary_backend/internals/features/catalog/branches/repository"
	"medialibrary_backend/internals/features/circulation/borrowings/model"
	ledger "medialibrary_backend/internals/features/subscriptions/ledger/service"
	helper "medialibrary_backend/internals/helpers"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	svc     *Service
	now     time.Time
	central uuid.UUID
	east    uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.New(t)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	f := &fixture{db: db, now: now}
	f.central = f.addBranch(t, "Central")
	f.east = f.addBranch(t, "East")
	f.svc = &Service{
		DB:   db,
		Gate: ledger.NewGate(ledger.Policy{}),
		Now:  func() time.Time { return f.now },
	}
	return f
}

func (f *fixture) addBranch(t *testing.T, name string) uuid.UUID {
	t.Helper()
	b := branchModel.BranchModel{
		BranchName: name, BranchAddress: "Jl. " + name, BranchCity: "Bandung",
		BranchPostalCode: "40111", BranchPhone: "022", BranchEmail: name + "@lib.test",
	}
	require.NoError(t, branchRepo.CreateBranch(f.db, &b))
	return b.BranchID
}

func (f *fixture) addBook(t *testing.T, title string, copies map[uuid.UUID]int) uuid.UUID {
	t.Helper()
	b := bookModel.BookModel{BookTitle: title, BookAuthor: "Author"}
	require.NoError(t, bookRepo.CreateBook(f.db, &b))
	for branch, n := range copies {
		_, err := bookRepo.AddCopies(f.db, b.BookID, branch, n)
		require.NoError(t, err)
	}
	return b.BookID
}

func (f *fixture) subscribe(t *testing.T, userID uuid.UUID, plan string) {
	t.Helper()
	_, err := ledger.SetPlanTx(f.db, userID, plan, "", f.now)
	require.NoError(t, err)
}

func (f *fixture) copyStatus(t *testing.T, copyID uuid.UUID) string {
	t.Helper()
	var c bookModel.BookCopyModel
	require.NoError(t, f.db.Where("book_copy_id = ?", copyID).Take(&c).Error)
	return c.BookCopyStatus
}

func TestBorrowHappyPath(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := uuid.New()
	f.subscribe(t, user, ledger.PlanBasicMonthly)
	book := f.addBook(t, "Go", map[uuid.UUID]int{f.central: 1})

	res, err := f.svc.Borrow(ctx, user, book, nil)
	require.NoError(t, err)
	assert.Equal(t, f.central, res.BranchID)
	assert.Equal(t, model.StatusBorrowed, res.Borrowing.BorrowingStatus)
	assert.Equal(t, f.now.Add(model.LoanPeriod), res.Borrowing.BorrowingDueDate)
	assert.Equal(t, bookModel.CopyStatusBorrowed, f.copyStatus(t, res.Borrowing.BorrowingBookCopyID))

	status, err := f.svc.BookStatusForUser(ctx, user, book)
	require.NoError(t, err)
	assert.Equal(t, model.StatusBorrowed, status)
}

func TestBorrowPrefersRequestedBranch(t *testing.T) {
	f := newFixture(t)
	user := uuid.New()
	f.subscribe(t, user, ledger.PlanPremiumMonthly)
	book := f.addBook(t, "Laskar Pelangi", map[uuid.UUID]int{f.central: 1, f.east: 1})

	res, err := f.svc.Borrow(context.Background(), user, book, &f.east)
	require.NoError(t, err)
	assert.Equal(t, f.east, res.BranchID)
}

func TestBorrowFallsBackToOtherBranch(t *testing.T) {
	f := newFixture(t)
	user := uuid.New()
	f.subscribe(t, user, ledger.PlanPremiumMonthly)
	book := f.addBook(t, "Sapiens", map[uuid.UUID]int{f.central: 1})

	res, err := f.svc.Borrow(context.Background(), user, book, &f.east)
	require.NoError(t, err)
	assert.Equal(t, f.central, res.BranchID)
}

func TestBorrowLimitReached(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := uuid.New()
	f.subscribe(t, user, ledger.PlanBasicMonthly)
	first := f.addBook(t, "One", map[uuid.UUID]int{f.central: 1})
	second := f.addBook(t, "Two", map[uuid.UUID]int{f.central: 1})

	_, err := f.svc.Borrow(ctx, user, first, nil)
	require.NoError(t, err)

	_, err = f.svc.Borrow(ctx, user, second, nil)
	assert.Equal(t, helper.KindSubscriptionRequired, helper.KindOf(err))

	n, err := CountOpen(f.db, user)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestBorrowDeniedWhenCancelledOrMissing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	book := f.addBook(t, "Book", map[uuid.UUID]int{f.central: 2})

	_, err := f.svc.Borrow(ctx, uuid.New(), book, nil)
	assert.Equal(t, helper.KindSubscriptionRequired, helper.KindOf(err))

	user := uuid.New()
	f.subscribe(t, user, ledger.PlanPremiumMonthly)
	_, err = ledger.CancelTx(f.db, user, f.now.Add(time.Minute))
	require.NoError(t, err)
	_, err = f.svc.Borrow(ctx, user, book, nil)
	assert.Equal(t, helper.KindSubscriptionRequired, helper.KindOf(err))
}

func TestBorrowFailOpenWithoutSubscription(t *testing.T) {
	f := newFixture(t)
	f.svc.Gate = ledger.NewGate(ledger.DefaultPolicy())
	book := f.addBook(t, "Book", map[uuid.UUID]int{f.central: 1})

	_, err := f.svc.Borrow(context.Background(), uuid.New(), book, nil)
	assert.NoError(t, err)
}

func TestBorrowSameBookTwice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := uuid.New()
	f.subscribe(t, user, ledger.PlanPremiumYearly)
	book := f.addBook(t, "Bumi Manusia", map[uuid.UUID]int{f.central: 2})

	_, err := f.svc.Borrow(ctx, user, book, nil)
	require.NoError(t, err)
	_, err = f.svc.Borrow(ctx, user, book, nil)
	assert.Equal(t, helper.KindConflict, helper.KindOf(err))
}

func TestBorrowUnknownBookAndNoCopies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := uuid.New()
	f.subscribe(t, user, ledger.PlanPremiumYearly)

	_, err := f.svc.Borrow(ctx, user, uuid.New(), nil)
	assert.Equal(t, helper.KindNotFound, helper.KindOf(err))

	empty := f.addBook(t, "No Copies", nil)
	_, err = f.svc.Borrow(ctx, user, empty, nil)
	assert.Equal(t, helper.KindNotFound, helper.KindOf(err))

	_, err = f.svc.Borrow(ctx, user, uuid.Nil, nil)
	assert.Equal(t, helper.KindValidation, helper.KindOf(err))
	_, err = f.svc.Borrow(ctx, uuid.Nil, empty, nil)
	assert.Equal(t, helper.KindUnauthenticated, helper.KindOf(err))
}

func TestBorrowAutoProvision(t *testing.T) {
	f := newFixture(t)
	f.svc.AutoProvision = true
	user := uuid.New()
	f.subscribe(t, user, ledger.PlanPremiumYearly)
	book := f.addBook(t, "Provisioned", nil)

	// tanpa cabang tidak ada yang dibuat
	_, err := f.svc.Borrow(context.Background(), user, book, nil)
	assert.Equal(t, helper.KindNotFound, helper.KindOf(err))

	res, err := f.svc.Borrow(context.Background(), user, book, &f.east)
	require.NoError(t, err)
	assert.Equal(t, f.east, res.BranchID)
}

func TestReturn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := uuid.New()
	f.subscribe(t, user, ledger.PlanBasicMonthly)
	book := f.addBook(t, "Go", map[uuid.UUID]int{f.central: 1})

	res, err := f.svc.Borrow(ctx, user, book, nil)
	require.NoError(t, err)
	id := res.Borrowing.BorrowingID

	// orang lain tidak bisa mengembalikan
	_, err = f.svc.Return(ctx, uuid.New(), id)
	assert.Equal(t, helper.KindNotFound, helper.KindOf(err))

	f.now = f.now.Add(48 * time.Hour)
	gotBook, err := f.svc.Return(ctx, user, id)
	require.NoError(t, err)
	assert.Equal(t, book, gotBook)
	assert.Equal(t, bookModel.CopyStatusAvailable, f.copyStatus(t, res.Borrowing.BorrowingBookCopyID))

	_, err = f.svc.Return(ctx, user, id)
	assert.Equal(t, helper.KindNotFound, helper.KindOf(err))

	// slot limit kembali, buku yang sama bisa dipinjam lagi
	_, err = f.svc.Borrow(ctx, user, book, nil)
	assert.NoError(t, err)
}

func TestListMine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user := uuid.New()
	f.subscribe(t, user, ledger.PlanPremiumMonthly)
	a := f.addBook(t, "A", map[uuid.UUID]int{f.central: 1})
	b := f.addBook(t, "B", map[uuid.UUID]int{f.central: 1})

	ra, err := f.svc.Borrow(ctx, user, a, nil)
	require.NoError(t, err)
	f.now = f.now.Add(time.Hour)
	_, err = f.svc.Borrow(ctx, user, b, nil)
	require.NoError(t, err)
	_, err = f.svc.Return(ctx, user, ra.Borrowing.BorrowingID)
	require.NoError(t, err)

	all, err := f.svc.ListMine(ctx, user, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "B", all[0].BookTitle)

	returned, err := f.svc.ListMine(ctx, user, "returned")
	require.NoError(t, err)
	require.Len(t, returned, 1)
	assert.Equal(t, "A", returned[0].BookTitle)

	overdue, err := f.svc.ListMine(ctx, user, "overdue")
	require.NoError(t, err)
	assert.Empty(t, overdue)

	f.now = f.now.Add(model.LoanPeriod + time.Hour)
	overdue, err = f.svc.ListMine(ctx, user, "OVERDUE")
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.True(t, overdue[0].IsOverdue(f.now))

	_, err = f.svc.ListMine(ctx, user, "lost")
	assert.Equal(t, helper.KindValidation, helper.KindOf(err))
}

func TestConcurrentBorrowOfLastCopy(t *testing.T) {
	f := newFixture(t)
	book := f.addBook(t, "Last Copy", map[uuid.UUID]int{f.central: 1})

	const n = 5
	users := make([]uuid.UUID, n)
	for i := range users {
		users[i] = uuid.New()
		f.subscribe(t, users[i], ledger.PlanPremiumMonthly)
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		ok   int
		errs []error
	)
	for _, u := range users {
		wg.Add(1)
		go func(u uuid.UUID) {
			defer wg.Done()
			_, err := f.svc.Borrow(context.Background(), u, book, nil)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
				return
			}
			errs = append(errs, err)
		}(u)
	}
	wg.Wait()

	assert.Equal(t, 1, ok)
	for _, err := range errs {
		kind := helper.KindOf(err)
		assert.True(t, kind == helper.KindNotFound || kind == helper.KindConflict, err.Error())
	}

	var open int64
	require.NoError(t, f.db.Model(&model.BorrowingModel{}).
		Where("borrowing_book_id = ? AND borrowing_status = ?", book, model.StatusBorrowed).
		Count(&open).Error)
	assert.Equal(t, int64(1), open)
}

func TestConcurrentBorrowRespectsLimit(t *testing.T) {
	f := newFixture(t)
	user := uuid.New()
	f.subscribe(t, user, ledger.PlanBasicMonthly)

	books := make([]uuid.UUID, 4)
	for i := range books {
		books[i] = f.addBook(t, "Book", map[uuid.UUID]int{f.central: 1})
	}

	var wg sync.WaitGroup
	for _, b := range books {
		wg.Add(1)
		go func(b uuid.UUID) {
			defer wg.Done()
			_, _ = f.svc.Borrow(context.Background(), user, b, nil)
		}(b)
	}
	wg.Wait()

	n, err := CountOpen(f.db, user)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
