package leave

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-attendance-go/internal/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	alice   = user.User{ID: "u-alice", Username: "1001", Name: "Alice", Department: "Dev", Role: user.RoleUser}
	bob     = user.User{ID: "u-bob", Username: "1002", Name: "Bob", Department: "Ops", Role: user.RoleUser}
	manager = user.User{ID: "m-dev", Username: "2001", Name: "Mina", Department: "Dev", Role: user.RoleManager}
	admin   = user.User{ID: "a-1", Username: "9001", Name: "Root", Role: user.RoleAdmin}
)

func actorOf(u user.User) user.Actor {
	return user.Actor{UserID: u.ID, Role: u.Role, Department: u.Department}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func floatPtr(f float64) *float64 {
	return &f
}

func setup(t *testing.T) (*memory.Store, *LeaveService) {
	t.Helper()
	store := memory.NewStore()
	for _, u := range []user.User{alice, bob, manager, admin} {
		store.PutUser(u)
	}
	svc := NewLeaveService(store.TxManager(), NewLedger(store.Balances()), store.Balances(), store.Users(), dec("15"), decimal.Zero)
	svc.now = func() time.Time { return time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC) }
	return store, svc
}

func balanceOf(t *testing.T, store *memory.Store, userID string, year int, lt leave.LeaveType) leave.Balance {
	t.Helper()
	b, ok := store.Balance(leave.Key{UserID: userID, Year: year, LeaveType: lt})
	require.True(t, ok)
	return b
}

// ===== LEDGER =====

func TestLedger_DebitAndCredit(t *testing.T) {
	store, _ := setup(t)
	store.PutBalance(leave.NewBalance(alice.ID, 2025, leave.LeaveTypeAnnual, dec("15")))
	ledger := NewLedger(store.Balances())
	key := leave.Key{UserID: alice.ID, Year: 2025, LeaveType: leave.LeaveTypeAnnual}

	b, err := ledger.Debit(context.Background(), key, dec("0.25"))
	require.NoError(t, err)
	assert.True(t, b.Used.Equal(dec("0.25")))
	assert.True(t, b.Remaining.Equal(dec("14.75")))

	b, err = ledger.Credit(context.Background(), key, dec("0.25"))
	require.NoError(t, err)
	assert.True(t, b.Used.IsZero())
	assert.True(t, b.Remaining.Equal(dec("15")))
}

func TestLedger_RejectsNegativeAmounts(t *testing.T) {
	store, _ := setup(t)
	ledger := NewLedger(store.Balances())
	key := leave.Key{UserID: alice.ID, Year: 2025, LeaveType: leave.LeaveTypeAnnual}

	_, err := ledger.Debit(context.Background(), key, dec("-1"))
	assert.Error(t, err)

	_, err = ledger.Credit(context.Background(), key, dec("-1"))
	assert.Error(t, err)
}

func TestLedger_EnsureAvailable(t *testing.T) {
	store, _ := setup(t)
	store.PutBalance(leave.NewBalance(alice.ID, 2025, leave.LeaveTypeAnnual, dec("0.5")))
	ledger := NewLedger(store.Balances())
	key := leave.Key{UserID: alice.ID, Year: 2025, LeaveType: leave.LeaveTypeAnnual}

	_, err := ledger.EnsureAvailable(context.Background(), key, dec("0.5"))
	assert.NoError(t, err)

	_, err = ledger.EnsureAvailable(context.Background(), key, dec("1"))
	var insufficient *leave.InsufficientBalanceError
	require.ErrorAs(t, err, &insufficient)
	assert.True(t, insufficient.Remaining.Equal(dec("0.5")))

	_, err = ledger.EnsureAvailable(context.Background(), leave.Key{UserID: bob.ID, Year: 2025, LeaveType: leave.LeaveTypeAnnual}, dec("1"))
	assert.ErrorIs(t, err, leave.ErrInsufficientBalance)
}

func TestLedger_InitializeIsIdempotent(t *testing.T) {
	store, _ := setup(t)
	ledger := NewLedger(store.Balances())

	first, err := ledger.Initialize(context.Background(), alice.ID, 2025, dec("15"), dec("2"))
	require.NoError(t, err)
	assert.True(t, first.Created[leave.LeaveTypeAnnual])
	assert.True(t, first.Created[leave.LeaveTypeCompensatory])

	second, err := ledger.Initialize(context.Background(), alice.ID, 2025, dec("20"), dec("5"))
	require.NoError(t, err)
	assert.False(t, second.Created[leave.LeaveTypeAnnual])
	assert.False(t, second.Created[leave.LeaveTypeCompensatory])

	assert.True(t, balanceOf(t, store, alice.ID, 2025, leave.LeaveTypeAnnual).Total.Equal(dec("15")))
	assert.True(t, balanceOf(t, store, alice.ID, 2025, leave.LeaveTypeCompensatory).Total.Equal(dec("2")))
}

// ===== BULK INITIALIZE =====

func TestLeaveService_BulkInitialize(t *testing.T) {
	store, svc := setup(t)

	resp, err := svc.BulkInitialize(context.Background(), actorOf(admin), leave.BulkInitializeRequest{Year: 2025})
	require.NoError(t, err)

	assert.Equal(t, 4, resp.UsersSucceeded)
	assert.Zero(t, resp.UsersFailed)
	assert.Equal(t, leave.TypeCounts{Created: 4}, resp.ByLeaveType["annual"])
	assert.Equal(t, leave.TypeCounts{Created: 4}, resp.ByLeaveType["compensatory"])

	b := balanceOf(t, store, bob.ID, 2025, leave.LeaveTypeAnnual)
	assert.True(t, b.Total.Equal(dec("15")))
	assert.True(t, b.Remaining.Equal(dec("15")))
	assert.True(t, balanceOf(t, store, bob.ID, 2025, leave.LeaveTypeCompensatory).Total.IsZero())
}

func TestLeaveService_BulkInitialize_SecondRunSkips(t *testing.T) {
	store, svc := setup(t)
	store.PutBalance(leave.NewBalance(alice.ID, 2025, leave.LeaveTypeAnnual, dec("15")))
	_, err := NewLedger(store.Balances()).Debit(context.Background(), leave.Key{UserID: alice.ID, Year: 2025, LeaveType: leave.LeaveTypeAnnual}, dec("3"))
	require.NoError(t, err)

	_, err = svc.BulkInitialize(context.Background(), actorOf(admin), leave.BulkInitializeRequest{Year: 2025})
	require.NoError(t, err)

	resp, err := svc.BulkInitialize(context.Background(), actorOf(admin), leave.BulkInitializeRequest{Year: 2025, AnnualTotal: floatPtr(20)})
	require.NoError(t, err)

	assert.Equal(t, leave.TypeCounts{Skipped: 4}, resp.ByLeaveType["annual"])
	b := balanceOf(t, store, alice.ID, 2025, leave.LeaveTypeAnnual)
	assert.True(t, b.Total.Equal(dec("15")))
	assert.True(t, b.Used.Equal(dec("3")))
}

func TestLeaveService_BulkInitialize_OverwriteKeepsUsed(t *testing.T) {
	store, svc := setup(t)
	store.PutBalance(leave.NewBalance(alice.ID, 2025, leave.LeaveTypeAnnual, dec("15")))
	_, err := NewLedger(store.Balances()).Debit(context.Background(), leave.Key{UserID: alice.ID, Year: 2025, LeaveType: leave.LeaveTypeAnnual}, dec("3"))
	require.NoError(t, err)

	resp, err := svc.BulkInitialize(context.Background(), actorOf(admin), leave.BulkInitializeRequest{
		Year:        2025,
		AnnualTotal: floatPtr(20),
		CompTotal:   floatPtr(2),
		Overwrite:   true,
	})
	require.NoError(t, err)

	assert.Equal(t, leave.TypeCounts{Created: 3, Updated: 1}, resp.ByLeaveType["annual"])
	assert.Equal(t, leave.TypeCounts{Created: 4}, resp.ByLeaveType["compensatory"])

	b := balanceOf(t, store, alice.ID, 2025, leave.LeaveTypeAnnual)
	assert.True(t, b.Total.Equal(dec("20")))
	assert.True(t, b.Used.Equal(dec("3")))
	assert.True(t, b.Remaining.Equal(dec("17")))
}

func TestLeaveService_BulkInitialize_OverwriteBelowUsedFailsThatUser(t *testing.T) {
	store, svc := setup(t)
	store.PutBalance(leave.NewBalance(alice.ID, 2025, leave.LeaveTypeAnnual, dec("15")))
	_, err := NewLedger(store.Balances()).Debit(context.Background(), leave.Key{UserID: alice.ID, Year: 2025, LeaveType: leave.LeaveTypeAnnual}, dec("3"))
	require.NoError(t, err)

	resp, err := svc.BulkInitialize(context.Background(), actorOf(admin), leave.BulkInitializeRequest{
		Year:        2025,
		AnnualTotal: floatPtr(2),
		Overwrite:   true,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, resp.UsersSucceeded)
	assert.Equal(t, 1, resp.UsersFailed)
	require.Len(t, resp.Failures, 1)
	assert.Equal(t, alice.ID, resp.Failures[0].UserID)
	assert.Contains(t, resp.Failures[0].Error, "already used")
	assert.Equal(t, leave.TypeCounts{Created: 3, Failed: 1}, resp.ByLeaveType["annual"])

	b := balanceOf(t, store, alice.ID, 2025, leave.LeaveTypeAnnual)
	assert.True(t, b.Total.Equal(dec("15")))
	assert.True(t, b.Remaining.Equal(dec("12")))
	_, ok := store.Balance(leave.Key{UserID: alice.ID, Year: 2025, LeaveType: leave.LeaveTypeCompensatory})
	assert.False(t, ok)
}

func TestLedger_SetTotal_RefusesBelowUsed(t *testing.T) {
	store, _ := setup(t)
	ledger := NewLedger(store.Balances())
	key := leave.Key{UserID: alice.ID, Year: 2025, LeaveType: leave.LeaveTypeAnnual}
	store.PutBalance(leave.NewBalance(alice.ID, 2025, leave.LeaveTypeAnnual, dec("15")))
	_, err := ledger.Debit(context.Background(), key, dec("5"))
	require.NoError(t, err)

	_, err = ledger.SetTotal(context.Background(), key, dec("4.5"))
	var belowUsed *leave.TotalBelowUsedError
	require.ErrorAs(t, err, &belowUsed)
	assert.True(t, belowUsed.Used.Equal(dec("5")))
	assert.ErrorIs(t, err, leave.ErrTotalBelowUsed)

	b, err := ledger.SetTotal(context.Background(), key, dec("5"))
	require.NoError(t, err)
	assert.True(t, b.Remaining.IsZero())
}

func TestLeaveService_BulkInitialize_ContinuesPastFailures(t *testing.T) {
	store, svc := setup(t)
	store.FailNext("leave.Create", errors.New("disk full"))

	resp, err := svc.BulkInitialize(context.Background(), actorOf(admin), leave.BulkInitializeRequest{Year: 2025})
	require.NoError(t, err)

	assert.Equal(t, 3, resp.UsersSucceeded)
	assert.Equal(t, 1, resp.UsersFailed)
	require.Len(t, resp.Failures, 1)
	assert.Equal(t, admin.ID, resp.Failures[0].UserID)
	assert.Contains(t, resp.Failures[0].Error, "disk full")
	assert.Equal(t, leave.TypeCounts{Created: 3, Failed: 1}, resp.ByLeaveType["annual"])

	_, ok := store.Balance(leave.Key{UserID: admin.ID, Year: 2025, LeaveType: leave.LeaveTypeAnnual})
	assert.False(t, ok)
}

func TestLeaveService_BulkInitialize_RequiresAdmin(t *testing.T) {
	_, svc := setup(t)

	_, err := svc.BulkInitialize(context.Background(), actorOf(manager), leave.BulkInitializeRequest{Year: 2025})
	assert.ErrorIs(t, err, user.ErrAdminAccessRequired)
}

func TestLeaveService_BulkInitialize_Validation(t *testing.T) {
	_, svc := setup(t)

	_, err := svc.BulkInitialize(context.Background(), actorOf(admin), leave.BulkInitializeRequest{Year: 1999, AnnualTotal: floatPtr(-1)})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 2)

	_, err = svc.BulkInitialize(context.Background(), actorOf(admin), leave.BulkInitializeRequest{Year: 2025, CompTotal: floatPtr(10000)})
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "compTotal", verrs[0].Field)
}

func TestLeaveService_RolloverYear(t *testing.T) {
	store, svc := setup(t)

	resp, err := svc.RolloverYear(context.Background(), 2026)
	require.NoError(t, err)

	assert.Equal(t, 4, resp.UsersSucceeded)
	assert.True(t, balanceOf(t, store, manager.ID, 2026, leave.LeaveTypeAnnual).Remaining.Equal(dec("15")))
}

// ===== SET TOTAL =====

func TestLeaveService_SetTotal(t *testing.T) {
	store, svc := setup(t)
	store.PutBalance(leave.NewBalance(alice.ID, 2025, leave.LeaveTypeAnnual, dec("15")))
	_, err := NewLedger(store.Balances()).Debit(context.Background(), leave.Key{UserID: alice.ID, Year: 2025, LeaveType: leave.LeaveTypeAnnual}, dec("4.5"))
	require.NoError(t, err)

	resp, err := svc.SetTotal(context.Background(), actorOf(admin), leave.SetTotalRequest{
		UserID: alice.ID, Year: 2025, LeaveType: "annual", Total: 10,
	})
	require.NoError(t, err)

	assert.Equal(t, 10.0, resp.Total)
	assert.Equal(t, 4.5, resp.Used)
	assert.Equal(t, 5.5, resp.Remaining)
}

func TestLeaveService_SetTotal_CreatesMissingRow(t *testing.T) {
	store, svc := setup(t)

	resp, err := svc.SetTotal(context.Background(), actorOf(admin), leave.SetTotalRequest{
		UserID: bob.ID, Year: 2025, LeaveType: "compensatory", Total: 2,
	})
	require.NoError(t, err)

	assert.Equal(t, 2.0, resp.Remaining)
	assert.True(t, balanceOf(t, store, bob.ID, 2025, leave.LeaveTypeCompensatory).Total.Equal(dec("2")))
}

func TestLeaveService_SetTotal_BelowUsed(t *testing.T) {
	store, svc := setup(t)
	store.PutBalance(leave.NewBalance(alice.ID, 2025, leave.LeaveTypeAnnual, dec("15")))
	_, err := NewLedger(store.Balances()).Debit(context.Background(), leave.Key{UserID: alice.ID, Year: 2025, LeaveType: leave.LeaveTypeAnnual}, dec("5"))
	require.NoError(t, err)

	_, err = svc.SetTotal(context.Background(), actorOf(admin), leave.SetTotalRequest{
		UserID: alice.ID, Year: 2025, LeaveType: "annual", Total: 4,
	})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "total", verrs[0].Field)
	assert.True(t, balanceOf(t, store, alice.ID, 2025, leave.LeaveTypeAnnual).Total.Equal(dec("15")))
}

func TestLeaveService_SetTotal_Errors(t *testing.T) {
	_, svc := setup(t)

	_, err := svc.SetTotal(context.Background(), actorOf(manager), leave.SetTotalRequest{UserID: alice.ID, Year: 2025, LeaveType: "annual", Total: 1})
	assert.ErrorIs(t, err, user.ErrAdminAccessRequired)

	_, err = svc.SetTotal(context.Background(), actorOf(admin), leave.SetTotalRequest{UserID: "ghost", Year: 2025, LeaveType: "annual", Total: 1})
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	_, err = svc.SetTotal(context.Background(), actorOf(admin), leave.SetTotalRequest{UserID: alice.ID, Year: 2025, LeaveType: "sick", Total: 1})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

// ===== READ =====

func TestLeaveService_GetUserBalances(t *testing.T) {
	store, svc := setup(t)
	store.PutBalance(leave.NewBalance(alice.ID, 2025, leave.LeaveTypeAnnual, dec("15")))
	store.PutBalance(leave.NewBalance(alice.ID, 2025, leave.LeaveTypeCompensatory, dec("1")))
	store.PutBalance(leave.NewBalance(alice.ID, 2024, leave.LeaveTypeAnnual, dec("12")))

	own, err := svc.GetUserBalances(context.Background(), actorOf(alice), "", 0)
	require.NoError(t, err)
	require.Len(t, own, 2)
	assert.Equal(t, "annual", own[0].LeaveType)
	assert.Equal(t, 2025, own[0].Year)

	previous, err := svc.GetUserBalances(context.Background(), actorOf(manager), alice.ID, 2024)
	require.NoError(t, err)
	require.Len(t, previous, 1)
	assert.Equal(t, 12.0, previous[0].Total)

	_, err = svc.GetUserBalances(context.Background(), actorOf(bob), alice.ID, 2025)
	assert.ErrorIs(t, err, user.ErrForbidden)

	_, err = svc.GetUserBalances(context.Background(), actorOf(admin), "ghost", 2025)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestLeaveService_ListBalances_Scoped(t *testing.T) {
	store, svc := setup(t)
	for _, u := range []user.User{alice, bob, manager} {
		store.PutBalance(leave.NewBalance(u.ID, 2025, leave.LeaveTypeAnnual, dec("15")))
	}

	_, err := svc.ListBalances(context.Background(), actorOf(alice), 2025)
	assert.ErrorIs(t, err, user.ErrManagerAccessRequired)

	dept, err := svc.ListBalances(context.Background(), actorOf(manager), 0)
	require.NoError(t, err)
	ids := make([]string, 0, len(dept))
	for _, b := range dept {
		ids = append(ids, b.UserID)
	}
	assert.ElementsMatch(t, []string{alice.ID, manager.ID}, ids)

	all, err := svc.ListBalances(context.Background(), actorOf(admin), 2025)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
