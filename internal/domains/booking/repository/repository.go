package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"storeloft/infras/otel"
	"storeloft/infras/postgres"
	"storeloft/internal/domains/booking/model"
	paymentModel "storeloft/internal/domains/payment/model"
	"storeloft/shared"
	"storeloft/shared/constant"
	gDto "storeloft/shared/dto"
	"storeloft/shared/failure"
	"storeloft/shared/logger"
	gRepo "storeloft/shared/repository"
)

const msgDatesUnavailable = "requested dates are no longer available"

type Booking interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	ExistConflict(ctx context.Context, locationID string, start, end time.Time, excludeID string) (bool, error)
	CreateWithPayment(ctx context.Context, booking model.Booking, payment paymentModel.Payment) error
	UpdateGuarded(ctx context.Context, booking model.Booking, fields map[string]any) error
	UpdateStatusGuarded(ctx context.Context, id, fromStatus string, fields map[string]any) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	payments gRepo.Repository[paymentModel.Payment]
	db       *postgres.Connection
	otel     otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		payments:   gRepo.NewRepository[paymentModel.Payment](paymentModel.EntityName, paymentModel.TableName, paymentModel.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// conflictFilter matches non-cancelled bookings of the location whose
// half-open [start_date, end_date) intersects [start, end):
// start_date < end AND end_date > start.
func conflictFilter(locationID string, start, end time.Time, excludeID string) gDto.FilterGroup {
	filters := []any{
		gDto.Filter{
			Field:    model.FieldLocationID,
			Operator: gDto.FilterOperatorEq,
			Value:    locationID,
			Table:    model.TableName,
		},
		gDto.Filter{
			Field:    model.FieldStatus,
			Operator: gDto.FilterOperatorNotEq,
			Value:    model.StatusCancelled,
			Table:    model.TableName,
		},
		gDto.Filter{
			Field:    model.FieldStartDate,
			Operator: gDto.FilterOperatorLess,
			Value:    end,
			ArgName:  "range_end",
			Table:    model.TableName,
		},
		gDto.Filter{
			Field:    model.FieldEndDate,
			Operator: gDto.FilterOperatorGreater,
			Value:    start,
			ArgName:  "range_start",
			Table:    model.TableName,
		},
	}

	if excludeID != constant.Empty {
		filters = append(filters, gDto.Filter{
			Field:    model.FieldID,
			Operator: gDto.FilterOperatorNotEq,
			Value:    excludeID,
			ArgName:  "exclude_id",
			Table:    model.TableName,
		})
	}

	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  filters,
	}
}

func (repo *repositoryImpl) ExistConflict(ctx context.Context, locationID string, start, end time.Time, excludeID string) (bool, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.ExistConflict")
	defer scope.End()

	return repo.Exist(ctx, conflictFilter(locationID, start, end, excludeID)) //nolint:wrapcheck
}

// existConflictTx re-evaluates the conflict predicate on the write
// transaction, so the check and the insert see the same snapshot.
func (repo *repositoryImpl) existConflictTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) (bool, error) {
	where, args := repo.BuildWhereClause(ctx, filter)

	query, queryArgs, err := sqlx.Named(fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s %s)", model.TableName, where), args)
	if err != nil {
		logger.ErrorWithStack(err)

		return false, fmt.Errorf("failed to build conflict query (%s): %w", model.EntityName, err)
	}

	exist := false

	err = sqltx.GetContext(ctx, &exist, sqltx.Rebind(query), queryArgs...)
	if err != nil {
		logger.ErrorWithStack(err)

		return false, fmt.Errorf("failed to check booking conflict (%s): %w", model.EntityName, err)
	}

	return exist, nil
}

// lockLocation serializes writers of a location for the remainder of
// the transaction. The lock is released on commit or rollback.
func (repo *repositoryImpl) lockLocation(ctx context.Context, sqltx *sqlx.Tx, locationID string) error {
	if _, err := sqltx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", locationID); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to lock location (%s): %w", model.EntityName, err)
	}

	return nil
}

// asConflict maps unique and exclusion violations raised by the
// bookings schema to a conflict failure. Anything else passes through.
func asConflict(err error) error {
	var pqErr *pq.Error

	if errors.As(err, &pqErr) {
		code := string(pqErr.Code)
		if code == constant.PqErrorCodeUniqueViolation || code == constant.PqErrorCodeExclusionViolation {
			return failure.Conflict(msgDatesUnavailable)
		}
	}

	return err
}

// CreateWithPayment inserts the booking and its draft payment in one
// transaction, after re-checking availability under the location lock.
// A racing writer either waits on the lock or trips the schema's
// exclusion constraint; both surface as a conflict failure.
func (repo *repositoryImpl) CreateWithPayment(ctx context.Context, booking model.Booking, payment paymentModel.Payment) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.CreateWithPayment")
	defer scope.End()
	defer scope.TraceIfError(err)

	sqltx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to begin transaction (%s): %w", model.EntityName, err)
	}

	defer func() {
		if err != nil {
			if rbErr := sqltx.Rollback(); rbErr != nil {
				logger.ErrorWithStack(rbErr)
			}
		}
	}()

	if err = repo.lockLocation(ctx, sqltx, booking.LocationID); err != nil {
		return err
	}

	exist, err := repo.existConflictTx(ctx, sqltx, conflictFilter(booking.LocationID, booking.StartDate, booking.EndDate, constant.Empty))
	if err != nil {
		return err
	}

	if exist {
		return failure.Conflict(msgDatesUnavailable) //nolint:wrapcheck
	}

	if err = repo.InsertTx(ctx, sqltx, booking); err != nil {
		return asConflict(err)
	}

	if err = repo.payments.InsertTx(ctx, sqltx, payment); err != nil {
		return err
	}

	booking.AttachPayment(payment.ID)

	err = repo.UpdateTx(ctx, sqltx, map[string]any{
		model.FieldPaymentID:     booking.PaymentID,
		constant.FieldModifiedAt: booking.ModifiedAt,
		constant.FieldModifiedBy: booking.ModifiedBy,
	}, shared.FilterByID(booking.ID, model.FieldID, model.TableName))
	if err != nil {
		return err
	}

	if err = sqltx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return asConflict(fmt.Errorf("failed to commit booking creation (%s): %w", model.EntityName, err))
	}

	return nil
}

// UpdateStatusGuarded applies the field changes only while the booking
// is still in fromStatus. The status predicate and the update are one
// statement, so of two concurrent transitions exactly one wins; the
// loser sees zero rows and gets an invalid state failure.
func (repo *repositoryImpl) UpdateStatusGuarded(ctx context.Context, id, fromStatus string, fields map[string]any) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.UpdateStatusGuarded")
	defer scope.End()
	defer scope.TraceIfError(err)

	updateField := make([]string, 0, len(fields))

	for col := range maps.Keys(fields) {
		updateField = append(updateField, fmt.Sprintf("%s = :%s", col, col))
	}

	args := maps.Clone(fields)
	args["guard_id"] = id
	args["guard_status"] = fromStatus

	query := fmt.Sprintf(
		"UPDATE %s SET %s WHERE %s = :guard_id AND %s = :guard_status",
		model.TableName, strings.Join(updateField, ", "), model.FieldID, model.FieldStatus,
	)

	result, err := repo.db.Write.NamedExecContext(ctx, query, args)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to update data (%s): %w", model.EntityName, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to update data (%s): %w", model.EntityName, err)
	}

	if affected == 0 {
		return failure.InvalidState(fmt.Sprintf("booking is no longer %s", fromStatus)) //nolint:wrapcheck
	}

	return nil
}

// UpdateGuarded applies the field changes only if the booking's new
// date range is still free, using the same lock-and-recheck protocol as
// creation. The booking argument carries the post-update dates.
func (repo *repositoryImpl) UpdateGuarded(ctx context.Context, booking model.Booking, fields map[string]any) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.UpdateGuarded")
	defer scope.End()
	defer scope.TraceIfError(err)

	sqltx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to begin transaction (%s): %w", model.EntityName, err)
	}

	defer func() {
		if err != nil {
			if rbErr := sqltx.Rollback(); rbErr != nil {
				logger.ErrorWithStack(rbErr)
			}
		}
	}()

	if err = repo.lockLocation(ctx, sqltx, booking.LocationID); err != nil {
		return err
	}

	exist, err := repo.existConflictTx(ctx, sqltx, conflictFilter(booking.LocationID, booking.StartDate, booking.EndDate, booking.ID))
	if err != nil {
		return err
	}

	if exist {
		return failure.Conflict(msgDatesUnavailable) //nolint:wrapcheck
	}

	err = repo.UpdateTx(ctx, sqltx, fields, shared.FilterByID(booking.ID, model.FieldID, model.TableName))
	if err != nil {
		return asConflict(err)
	}

	if err = sqltx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return asConflict(fmt.Errorf("failed to commit booking update (%s): %w", model.EntityName, err))
	}

	return nil
}
