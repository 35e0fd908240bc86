package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticketgo/ticketgo/internal/queue"
	"github.com/ticketgo/ticketgo/internal/repository"
	"github.com/ticketgo/ticketgo/internal/staging"
)

// recordingEvents captures published events instead of dialing a
// broker.
type recordingEvents struct {
	events []queue.OrderConfirmedEvent
}

func (r *recordingEvents) OrderConfirmed(_ context.Context, ev queue.OrderConfirmedEvent) error {
	r.events = append(r.events, ev)
	return nil
}

func newTestService(t *testing.T) (*BookingService, sqlmock.Sqlmock, *staging.MemoryStore, *recordingEvents) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	drafts := staging.NewMemoryStore()
	events := &recordingEvents{}
	svc := NewBookingService(db,
		repository.NewSeatRepo(db),
		repository.NewCoachRepo(db),
		repository.NewOrderRepo(db),
		repository.NewTicketRepo(db),
		drafts,
		events,
	)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC) }
	return svc, mock, drafts, events
}

func seatRows(id, coachID uint64, name string, occupied bool) *sqlmock.Rows {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{"id", "coach_id", "name", "occupied", "created_at", "updated_at"}).
		AddRow(id, coachID, name, occupied, now, now)
}

func coachRows(id uint64, departureID interface{}) *sqlmock.Rows {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{"id", "departure_id", "name", "category", "base_price_cents", "created_at", "updated_at"}).
		AddRow(id, departureID, "C3", "sleeper", 10000, now, now)
}

func expectSeatSold(mock sqlmock.Sqlmock, seatID, coachID uint64, name string, ticketID int64, total uint32) {
	mock.ExpectQuery(regexp.QuoteMeta("FROM seats")).
		WithArgs(name, coachID).
		WillReturnRows(seatRows(seatID, coachID, name, false))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE seats")).
		WithArgs(seatID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM coaches WHERE id = ?")).
		WithArgs(coachID).
		WillReturnRows(coachRows(coachID, 5))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tickets")).
		WithArgs(seatID, uint64(5), sqlmock.AnyArg(), total).
		WillReturnResult(sqlmock.NewResult(ticketID, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO order_tickets")).
		WithArgs(uint64(11), uint64(ticketID)).
		WillReturnResult(sqlmock.NewResult(0, 1))
}

func TestConfirmBookingHappyPath(t *testing.T) {
	svc, mock, drafts, events := newTestService(t)
	ctx := context.Background()

	draft := staging.Draft{
		CustomerName: "Nguyen Van A",
		Phone:        "0901234567",
		SeatNames:    []string{"A1", "A2"},
		CoachID:      3,
		TotalCents:   45000,
		AccountID:    7,
	}
	require.NoError(t, drafts.Put(ctx, "7", draft))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO orders")).
		WillReturnResult(sqlmock.NewResult(11, 1))
	expectSeatSold(mock, 101, 3, "A1", 501, 45000)
	expectSeatSold(mock, 102, 3, "A2", 502, 45000)
	mock.ExpectCommit()

	orderID, err := svc.ConfirmBooking(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, uint64(11), orderID)
	require.NoError(t, mock.ExpectationsWereMet())

	require.Len(t, events.events, 1)
	ev := events.events[0]
	assert.Equal(t, uint64(11), ev.OrderID)
	assert.Equal(t, uint64(7), ev.AccountID)
	assert.Equal(t, []string{"A1", "A2"}, ev.SeatNames)
	assert.Equal(t, uint32(45000), ev.TotalCents)

	// The draft was consumed; a replayed callback finds nothing.
	_, err = svc.ConfirmBooking(ctx, "7")
	assert.ErrorIs(t, err, staging.ErrDraftNotFound)
}

// Each ticket is priced at the whole order total, not a per-seat
// share. The WithArgs assertion inside expectSeatSold pins that: both
// tickets carry 45000 even though two seats split the order.
func TestConfirmBookingTicketPriceIsOrderTotal(t *testing.T) {
	svc, mock, drafts, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, drafts.Put(ctx, "7", staging.Draft{
		SeatNames: []string{"A1", "A2"}, CoachID: 3, TotalCents: 45000, AccountID: 7,
	}))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO orders")).
		WillReturnResult(sqlmock.NewResult(11, 1))
	expectSeatSold(mock, 101, 3, "A1", 501, 45000)
	expectSeatSold(mock, 102, 3, "A2", 502, 45000)
	mock.ExpectCommit()

	_, err := svc.ConfirmBooking(ctx, "7")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmBookingSeatTakenRollsBack(t *testing.T) {
	svc, mock, drafts, events := newTestService(t)
	ctx := context.Background()

	require.NoError(t, drafts.Put(ctx, "7", staging.Draft{
		SeatNames: []string{"A1", "A2"}, CoachID: 3, TotalCents: 45000, AccountID: 7,
	}))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO orders")).
		WillReturnResult(sqlmock.NewResult(11, 1))
	expectSeatSold(mock, 101, 3, "A1", 501, 45000)
	// Second seat lost the race: conditional update matches no row.
	mock.ExpectQuery(regexp.QuoteMeta("FROM seats")).
		WithArgs("A2", uint64(3)).
		WillReturnRows(seatRows(102, 3, "A2", true))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE seats")).
		WithArgs(uint64(102)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := svc.ConfirmBooking(ctx, "7")
	assert.ErrorIs(t, err, repository.ErrSeatTaken)
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Empty(t, events.events)
}

func TestConfirmBookingUnknownSeatRollsBack(t *testing.T) {
	svc, mock, drafts, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, drafts.Put(ctx, "7", staging.Draft{
		SeatNames: []string{"Z9"}, CoachID: 3, TotalCents: 15000, AccountID: 7,
	}))

	empty := sqlmock.NewRows([]string{"id", "coach_id", "name", "occupied", "created_at", "updated_at"})
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO orders")).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM seats")).
		WithArgs("Z9", uint64(3)).
		WillReturnRows(empty)
	mock.ExpectRollback()

	_, err := svc.ConfirmBooking(ctx, "7")
	assert.ErrorIs(t, err, repository.ErrSeatNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

// A seat row that scans with id 0 must abort before any write: an
// update keyed on id 0 would match nothing and the ticket would point
// at a seat that does not exist.
func TestConfirmBookingZeroSeatIDRollsBack(t *testing.T) {
	svc, mock, drafts, events := newTestService(t)
	ctx := context.Background()

	require.NoError(t, drafts.Put(ctx, "7", staging.Draft{
		SeatNames: []string{"A1"}, CoachID: 3, TotalCents: 15000, AccountID: 7,
	}))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO orders")).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM seats")).
		WithArgs("A1", uint64(3)).
		WillReturnRows(seatRows(0, 3, "A1", false))
	mock.ExpectRollback()

	_, err := svc.ConfirmBooking(ctx, "7")
	assert.ErrorIs(t, err, repository.ErrInvalidSeatIdentity)
	// No seat update, no ticket, no commit, no event.
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Empty(t, events.events)
}

func TestConfirmBookingUnscheduledCoachRollsBack(t *testing.T) {
	svc, mock, drafts, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, drafts.Put(ctx, "7", staging.Draft{
		SeatNames: []string{"A1"}, CoachID: 3, TotalCents: 15000, AccountID: 7,
	}))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO orders")).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM seats")).
		WithArgs("A1", uint64(3)).
		WillReturnRows(seatRows(101, 3, "A1", false))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE seats")).
		WithArgs(uint64(101)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM coaches WHERE id = ?")).
		WithArgs(uint64(3)).
		WillReturnRows(coachRows(3, nil))
	mock.ExpectRollback()

	_, err := svc.ConfirmBooking(ctx, "7")
	assert.ErrorIs(t, err, repository.ErrDepartureNotAssigned)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConfirmBookingNoDraft(t *testing.T) {
	svc, mock, _, _ := newTestService(t)

	_, err := svc.ConfirmBooking(context.Background(), "7")
	assert.ErrorIs(t, err, staging.ErrDraftNotFound)
	// No transaction was even opened.
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStageBookingValidation(t *testing.T) {
	svc, _, drafts, _ := newTestService(t)
	ctx := context.Background()

	err := svc.StageBooking(ctx, "7", staging.Draft{SeatNames: []string{"A1"}})
	assert.ErrorIs(t, err, ErrCoachRequired)

	err = svc.StageBooking(ctx, "7", staging.Draft{CoachID: 3})
	assert.ErrorIs(t, err, ErrNoSeatsSelected)

	// Nothing invalid was staged.
	_, err = drafts.Take(ctx, "7")
	assert.ErrorIs(t, err, staging.ErrDraftNotFound)

	err = svc.StageBooking(ctx, "7", staging.Draft{CoachID: 3, SeatNames: []string{"A1"}})
	assert.NoError(t, err)
}
