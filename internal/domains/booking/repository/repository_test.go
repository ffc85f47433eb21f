package repository_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storeloft/infras/otel/mocks"
	"storeloft/infras/postgres"
	"storeloft/internal/domains/booking/model"
	"storeloft/internal/domains/booking/repository"
	paymentModel "storeloft/internal/domains/payment/model"
	"storeloft/shared/constant"
	"storeloft/shared/failure"
	gModel "storeloft/shared/model"
	"storeloft/shared/timezone"
)

func newRepository(t *testing.T) (repository.Booking, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	wrapped := sqlx.NewDb(db, "sqlmock")

	conn := &postgres.Connection{
		Read:  wrapped,
		Write: wrapped,
	}

	return repository.New(conn, mocks.NewOtel()), mock
}

func date(value string) time.Time {
	parsed, err := time.Parse(constant.DateOnlyFormat, value)
	if err != nil {
		panic(err)
	}

	return parsed
}

func pendingBooking() model.Booking {
	now := timezone.Now()

	return model.Booking{
		ID:         "booking-1",
		RenterID:   "renter-1",
		LocationID: "loc-1",
		StartDate:  date("2026-03-10"),
		EndDate:    date("2026-03-15"),
		TotalPrice: 10000,
		Status:     model.StatusPending,
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  "renter-1",
			ModifiedBy: "renter-1",
		},
	}
}

func draftPayment(booking model.Booking) paymentModel.Payment {
	return paymentModel.Payment{
		ID:                "payment-1",
		BookingID:         booking.ID,
		RenterID:          booking.RenterID,
		LenderID:          "lender-1",
		AmountCharged:     booking.TotalPrice,
		PlatformFee:       300,
		AmountTransferred: 9700,
		Status:            paymentModel.StatusDraft,
		Metadata:          booking.Metadata,
	}
}

func noConflictRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"exists"}).AddRow(false)
}

func TestBookingRepository_CreateWithPayment(t *testing.T) {
	t.Run("commits booking and draft payment together", func(t *testing.T) {
		repo, mock := newRepository(t)
		booking := pendingBooking()

		mock.ExpectBegin()
		mock.ExpectExec("pg_advisory_xact_lock").WithArgs(booking.LocationID).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT EXISTS").WillReturnRows(noConflictRows())
		mock.ExpectExec("INSERT INTO bookings").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO payments").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE bookings SET").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.CreateWithPayment(context.Background(), booking, draftPayment(booking))

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failed payment insert rolls back the booking", func(t *testing.T) {
		repo, mock := newRepository(t)
		booking := pendingBooking()

		mock.ExpectBegin()
		mock.ExpectExec("pg_advisory_xact_lock").WithArgs(booking.LocationID).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT EXISTS").WillReturnRows(noConflictRows())
		mock.ExpectExec("INSERT INTO bookings").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO payments").WillReturnError(errors.New("payments insert failed"))
		mock.ExpectRollback()

		err := repo.CreateWithPayment(context.Background(), booking, draftPayment(booking))

		require.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("in-transaction recheck stops a racing booking", func(t *testing.T) {
		repo, mock := newRepository(t)
		booking := pendingBooking()

		mock.ExpectBegin()
		mock.ExpectExec("pg_advisory_xact_lock").WithArgs(booking.LocationID).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT EXISTS").WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectRollback()

		err := repo.CreateWithPayment(context.Background(), booking, draftPayment(booking))

		require.Error(t, err)
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestBookingRepository_UpdateStatusGuarded(t *testing.T) {
	fields := map[string]any{
		model.FieldStatus:        model.StatusConfirmed,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: "lender-1",
	}

	t.Run("applies the transition while the status still matches", func(t *testing.T) {
		repo, mock := newRepository(t)

		mock.ExpectExec("UPDATE bookings SET").WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateStatusGuarded(context.Background(), "booking-1", model.StatusPending, fields)

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero matched rows is an invalid state", func(t *testing.T) {
		repo, mock := newRepository(t)

		mock.ExpectExec("UPDATE bookings SET").WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateStatusGuarded(context.Background(), "booking-1", model.StatusPending, fields)

		require.Error(t, err)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
