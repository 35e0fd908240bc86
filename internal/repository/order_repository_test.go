package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderRepo(t *testing.T) (*OrderRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewOrderRepo(db), mock
}

func orderHeaderRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "total_cents", "ordered_at", "customer_name", "phone", "account_id", "name",
	})
}

func orderTicketRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"order_id", "seat_name", "departure_name", "point_start", "point_end",
		"date_start", "coach_name", "coach_category",
	})
}

func TestByIDFirstTicketWinsTripMetadata(t *testing.T) {
	repo, mock := newOrderRepo(t)
	ordered := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	starts := time.Date(2024, 6, 2, 6, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE o.id = ?")).
		WithArgs(uint64(11)).
		WillReturnRows(orderHeaderRows().
			AddRow(11, 45000, ordered, "Nguyen Van A", "0901234567", 7, nil))
	// Two tickets; the second carries divergent trip context that must
	// not leak into the view.
	mock.ExpectQuery(regexp.QuoteMeta("FROM order_tickets")).
		WithArgs(uint64(11)).
		WillReturnRows(orderTicketRows().
			AddRow(11, "A1", "SE1", "Hanoi", "Saigon", starts, "C3", "sleeper").
			AddRow(11, "A2", "SE7", "Hue", "Da Nang", starts.Add(time.Hour), "C9", "seating"))

	view, err := repo.ByID(context.Background(), 11)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, []string{"A1", "A2"}, view.ListSeats)
	require.NotNil(t, view.DepartureName)
	assert.Equal(t, "SE1", *view.DepartureName)
	assert.Equal(t, "Hanoi", *view.PointStart)
	assert.Equal(t, "Saigon", *view.PointEnd)
	assert.Equal(t, starts, view.DepartureTime.UTC())
	assert.Equal(t, "C3", *view.CoachName)
	assert.Equal(t, "sleeper", *view.CoachCategory)
	require.NotNil(t, view.AccountID)
	assert.Equal(t, uint64(7), *view.AccountID)
	assert.Nil(t, view.DiscountName)
}

func TestByIDNotFound(t *testing.T) {
	repo, mock := newOrderRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE o.id = ?")).
		WithArgs(uint64(99)).
		WillReturnRows(orderHeaderRows())

	_, err := repo.ByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrOrderNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListByAccountGroupsSeatsPerOrder(t *testing.T) {
	repo, mock := newOrderRepo(t)
	ordered := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	starts := time.Date(2024, 6, 2, 6, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE o.account_id = ?")).
		WithArgs(uint64(7)).
		WillReturnRows(orderHeaderRows().
			AddRow(12, 30000, ordered.Add(time.Hour), "Nguyen Van A", "0901234567", 7, "Summer Sale").
			AddRow(11, 45000, ordered, "Nguyen Van A", "0901234567", 7, nil))
	mock.ExpectQuery(regexp.QuoteMeta("FROM order_tickets")).
		WithArgs(uint64(12), uint64(11)).
		WillReturnRows(orderTicketRows().
			AddRow(11, "A1", "SE1", "Hanoi", "Saigon", starts, "C3", "sleeper").
			AddRow(11, "A2", "SE1", "Hanoi", "Saigon", starts, "C3", "sleeper").
			AddRow(12, "B5", "SE3", "Hanoi", "Hue", starts, "C1", "seating"))

	views, err := repo.ListByAccount(context.Background(), 7)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	require.Len(t, views, 2)
	assert.Equal(t, uint64(12), views[0].ID)
	assert.Equal(t, []string{"B5"}, views[0].ListSeats)
	require.NotNil(t, views[0].DiscountName)
	assert.Equal(t, "Summer Sale", *views[0].DiscountName)
	assert.Equal(t, uint64(11), views[1].ID)
	assert.Equal(t, []string{"A1", "A2"}, views[1].ListSeats)
}

func TestListByAccountEmpty(t *testing.T) {
	repo, mock := newOrderRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE o.account_id = ?")).
		WithArgs(uint64(7)).
		WillReturnRows(orderHeaderRows())

	views, err := repo.ListByAccount(context.Background(), 7)
	require.NoError(t, err)
	assert.Empty(t, views)
	// No ticket query runs for an empty result.
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteRemovesOrderOnly(t *testing.T) {
	repo, mock := newOrderRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM order_tickets WHERE order_id = ?")).
		WithArgs(uint64(11)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM orders WHERE id = ?")).
		WithArgs(uint64(11)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), 11))
	// ExpectationsWereMet doubles as proof that no seat or ticket
	// statement ran: sold seats stay occupied after order cleanup.
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteNotFound(t *testing.T) {
	repo, mock := newOrderRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM order_tickets WHERE order_id = ?")).
		WithArgs(uint64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM orders WHERE id = ?")).
		WithArgs(uint64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), 99)
	assert.ErrorIs(t, err, ErrOrderNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
