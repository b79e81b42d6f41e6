package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists bookings and answers the temporal queries of the
// search engine. Lookups scoped to an owner or participant return
// ErrNotFound both for missing bookings and for bookings the given user
// may not see; callers cannot tell the two apart.
type Repository interface {
	// Create persists a WAITING booking. The no-overlap check against
	// approved bookings is re-run atomically at the storage boundary;
	// a collision returns ErrConflict.
	Create(ctx context.Context, b *Booking) error
	GetByIDForOwner(ctx context.Context, id, ownerID int64) (*Booking, error)
	GetByIDForParticipant(ctx context.Context, id, userID int64) (*Booking, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
	// FindOverlapping returns approved bookings on the item whose closed
	// interval intersects [start, end]: existing.start <= end AND
	// existing.end >= start, so touching endpoints count as overlap.
	FindOverlapping(ctx context.Context, itemID int64, start, end time.Time) ([]*Booking, error)
	Search(ctx context.Context, q SearchQuery) ([]*Booking, error)
	// FindLastForItem returns the latest approved booking started before
	// now, or nil when there is none.
	FindLastForItem(ctx context.Context, itemID int64, now time.Time) (*Booking, error)
	// FindNextForItem returns the earliest approved booking starting
	// after now, or nil when there is none.
	FindNextForItem(ctx context.Context, itemID int64, now time.Time) (*Booking, error)
	// WasItemBookedBy reports whether the user has a non-rejected booking
	// of the item that already ended.
	WasItemBookedBy(ctx context.Context, itemID, userID int64, now time.Time) (bool, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRepository creates a Repository backed by pgxpool.
func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

const bookingColumns = "b.id, b.item_id, i.name, b.initiator_id, u.name, i.owner_id, b.start_time, b.end_time, b.status"

func joined(builder squirrel.SelectBuilder) squirrel.SelectBuilder {
	return builder.
		From("bookings b").
		Join("items i ON b.item_id = i.id").
		Join("users u ON b.initiator_id = u.id")
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	err := row.Scan(
		&b.ID, &b.ItemID, &b.ItemName, &b.InitiatorID, &b.InitiatorName,
		&b.OwnerID, &b.Start, &b.End, &b.Status,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create booking tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	// Serialize check-then-insert per item so two concurrent creates
	// cannot both pass the overlap check.
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, b.ItemID); err != nil {
		return fmt.Errorf("acquire item lock failed: %w", err)
	}

	const overlapQuery = `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE item_id = $1 AND status = 'APPROVED'
			  AND start_time <= $3 AND end_time >= $2
		)
	`
	var overlaps bool
	if err := tx.QueryRow(ctx, overlapQuery, b.ItemID, b.Start, b.End).Scan(&overlaps); err != nil {
		return fmt.Errorf("check overlap failed: %w", err)
	}
	if overlaps {
		return ErrConflict
	}

	const insertQuery = `
		INSERT INTO bookings (item_id, initiator_id, start_time, end_time, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	if err := tx.QueryRow(ctx, insertQuery, b.ItemID, b.InitiatorID, b.Start, b.End, b.Status).
		Scan(&b.ID); err != nil {
		return fmt.Errorf("insert booking failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create booking failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByIDForOwner(ctx context.Context, id, ownerID int64) (*Booking, error) {
	return r.getOne(ctx, squirrel.And{
		squirrel.Eq{"b.id": id},
		squirrel.Eq{"i.owner_id": ownerID},
	})
}

func (r *pgxRepository) GetByIDForParticipant(ctx context.Context, id, userID int64) (*Booking, error) {
	return r.getOne(ctx, squirrel.And{
		squirrel.Eq{"b.id": id},
		squirrel.Or{
			squirrel.Eq{"i.owner_id": userID},
			squirrel.Eq{"b.initiator_id": userID},
		},
	})
}

func (r *pgxRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*Booking, error) {
	query, args, err := joined(psql.Select(bookingColumns)).Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) UpdateStatus(ctx context.Context, id int64, status Status) error {
	query, args, err := psql.Update("bookings").
		Set("status", status).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking status query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update booking status failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) FindOverlapping(ctx context.Context, itemID int64, start, end time.Time) ([]*Booking, error) {
	return r.listWhere(ctx, squirrel.And{
		squirrel.Eq{"b.item_id": itemID},
		squirrel.Eq{"b.status": StatusApproved},
		squirrel.LtOrEq{"b.start_time": end},
		squirrel.GtOrEq{"b.end_time": start},
	}, 0, 0)
}

func (r *pgxRepository) Search(ctx context.Context, q SearchQuery) ([]*Booking, error) {
	var scope squirrel.Sqlizer
	switch q.Viewpoint {
	case ViewpointOwner:
		scope = squirrel.Eq{"i.owner_id": q.UserID}
	default:
		scope = squirrel.Eq{"b.initiator_id": q.UserID}
	}

	conditions := squirrel.And{scope}
	switch q.State {
	case SearchAll:
		// no state filter
	case SearchCurrent:
		conditions = append(conditions,
			squirrel.Lt{"b.start_time": q.Now},
			squirrel.Gt{"b.end_time": q.Now})
	case SearchPast:
		conditions = append(conditions,
			squirrel.Eq{"b.status": StatusApproved},
			squirrel.Lt{"b.end_time": q.Now})
	case SearchFuture:
		conditions = append(conditions,
			squirrel.NotEq{"b.status": StatusRejected},
			squirrel.Gt{"b.start_time": q.Now})
	case SearchWaiting:
		conditions = append(conditions, squirrel.Eq{"b.status": StatusWaiting})
	case SearchRejected:
		conditions = append(conditions, squirrel.Eq{"b.status": StatusRejected})
	default:
		return nil, ErrUnsupportedState
	}

	return r.listWhere(ctx, conditions, q.Limit, q.Offset)
}

func (r *pgxRepository) listWhere(ctx context.Context, where squirrel.Sqlizer, limit, offset int) ([]*Booking, error) {
	builder := joined(psql.Select(bookingColumns)).
		Where(where).
		OrderBy("b.start_time DESC", "b.id ASC")
	if limit > 0 {
		builder = builder.Limit(uint64(limit)).Offset(uint64(offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *pgxRepository) FindLastForItem(ctx context.Context, itemID int64, now time.Time) (*Booking, error) {
	return r.findEdge(ctx, squirrel.And{
		squirrel.Eq{"b.item_id": itemID},
		squirrel.Eq{"b.status": StatusApproved},
		squirrel.Lt{"b.start_time": now},
	}, "b.start_time DESC")
}

func (r *pgxRepository) FindNextForItem(ctx context.Context, itemID int64, now time.Time) (*Booking, error) {
	return r.findEdge(ctx, squirrel.And{
		squirrel.Eq{"b.item_id": itemID},
		squirrel.Eq{"b.status": StatusApproved},
		squirrel.Gt{"b.start_time": now},
	}, "b.start_time ASC")
}

func (r *pgxRepository) findEdge(ctx context.Context, where squirrel.Sqlizer, order string) (*Booking, error) {
	query, args, err := joined(psql.Select(bookingColumns)).
		Where(where).
		OrderBy(order).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build edge booking query failed: %w", err)
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find edge booking failed: %w", err)
	}
	return b, nil
}

func (r *pgxRepository) WasItemBookedBy(ctx context.Context, itemID, userID int64, now time.Time) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE item_id = $1 AND initiator_id = $2
			  AND status <> 'REJECTED' AND end_time < $3
		)
	`
	var booked bool
	if err := r.pool.QueryRow(ctx, query, itemID, userID, now).Scan(&booked); err != nil {
		return false, fmt.Errorf("check booking history failed: %w", err)
	}
	return booked, nil
}
