package item

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines methods for accessing items and their comments.
type Repository interface {
	Create(ctx context.Context, i *Item) error
	GetByID(ctx context.Context, id int64) (*Item, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*Item, error)
	ListByRequest(ctx context.Context, requestID int64) ([]*Item, error)
	Search(ctx context.Context, text string) ([]*Item, error)
	Update(ctx context.Context, i *Item) error

	CreateComment(ctx context.Context, cmt *Comment) error
	ListComments(ctx context.Context, itemID int64) ([]*Comment, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRepository creates a Repository backed by pgxpool.
func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

const itemColumns = "id, owner_id, name, description, available, request_id"

func (r *pgxRepository) Create(ctx context.Context, i *Item) error {
	query, args, err := psql.Insert("items").
		Columns("owner_id", "name", "description", "available", "request_id").
		Values(i.OwnerID, i.Name, i.Description, i.Available, i.RequestID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create item query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&i.ID); err != nil {
		return fmt.Errorf("create item failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id int64) (*Item, error) {
	query, args, err := psql.Select(itemColumns).
		From("items").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get item query failed: %w", err)
	}

	var i Item
	if err := r.pool.QueryRow(ctx, query, args...).
		Scan(&i.ID, &i.OwnerID, &i.Name, &i.Description, &i.Available, &i.RequestID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get item failed: %w", err)
	}
	return &i, nil
}

func (r *pgxRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*Item, error) {
	return r.list(ctx, squirrel.Eq{"owner_id": ownerID})
}

func (r *pgxRepository) ListByRequest(ctx context.Context, requestID int64) ([]*Item, error) {
	return r.list(ctx, squirrel.Eq{"request_id": requestID})
}

func (r *pgxRepository) Search(ctx context.Context, text string) ([]*Item, error) {
	pattern := "%" + text + "%"
	return r.list(ctx, squirrel.And{
		squirrel.Eq{"available": true},
		squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"description": pattern},
		},
	})
}

func (r *pgxRepository) list(ctx context.Context, where squirrel.Sqlizer) ([]*Item, error) {
	query, args, err := psql.Select(itemColumns).
		From("items").
		Where(where).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list items query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list items failed: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		var i Item
		if err := rows.Scan(&i.ID, &i.OwnerID, &i.Name, &i.Description, &i.Available, &i.RequestID); err != nil {
			return nil, fmt.Errorf("scan item failed: %w", err)
		}
		items = append(items, &i)
	}
	return items, rows.Err()
}

func (r *pgxRepository) Update(ctx context.Context, i *Item) error {
	query, args, err := psql.Update("items").
		Set("name", i.Name).
		Set("description", i.Description).
		Set("available", i.Available).
		Where(squirrel.Eq{"id": i.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update item query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update item failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) CreateComment(ctx context.Context, cmt *Comment) error {
	query, args, err := psql.Insert("comments").
		Columns("item_id", "author_id", "text", "created_at").
		Values(cmt.ItemID, cmt.AuthorID, cmt.Text, cmt.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create comment query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&cmt.ID); err != nil {
		return fmt.Errorf("create comment failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) ListComments(ctx context.Context, itemID int64) ([]*Comment, error) {
	query, args, err := psql.Select("c.id", "c.item_id", "c.author_id", "u.name", "c.text", "c.created_at").
		From("comments c").
		Join("users u ON c.author_id = u.id").
		Where(squirrel.Eq{"c.item_id": itemID}).
		OrderBy("c.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list comments query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list comments failed: %w", err)
	}
	defer rows.Close()

	var comments []*Comment
	for rows.Next() {
		var cmt Comment
		if err := rows.Scan(&cmt.ID, &cmt.ItemID, &cmt.AuthorID, &cmt.AuthorName, &cmt.Text, &cmt.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment failed: %w", err)
		}
		comments = append(comments, &cmt)
	}
	return comments, rows.Err()
}
