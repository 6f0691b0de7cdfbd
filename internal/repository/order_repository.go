package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sejin/dispatch-platform/internal/domain"
)

// OrderRepository defines persistence access for dispatch orders.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.DispatchOrder) error
	Update(ctx context.Context, order *domain.DispatchOrder) error
	GetByID(ctx context.Context, id int64) (*domain.DispatchOrder, error)
	List(ctx context.Context) ([]*domain.DispatchOrder, error)
	ListByPlant(ctx context.Context, plantID int64) ([]*domain.DispatchOrder, error)
	ListByDriver(ctx context.Context, driverID int64) ([]*domain.DispatchOrder, error)
}

type orderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns a Postgres-backed implementation.
func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &orderRepository{pool: pool}
}

const orderColumns = `id, plant_id, driver_id, material, quantity, status, created_at, updated_at`

func (r *orderRepository) Create(ctx context.Context, order *domain.DispatchOrder) error {
	const query = `
        INSERT INTO dispatch_orders (plant_id, driver_id, material, quantity, status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		order.PlantID,
		order.DriverID,
		order.Material,
		order.Quantity,
		order.Status,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
}

func (r *orderRepository) Update(ctx context.Context, order *domain.DispatchOrder) error {
	const query = `
        UPDATE dispatch_orders SET driver_id=$1, material=$2, quantity=$3, status=$4, updated_at=NOW()
        WHERE id=$5`

	cmd, err := r.pool.Exec(ctx, query,
		order.DriverID,
		order.Material,
		order.Quantity,
		order.Status,
		order.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*domain.DispatchOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM dispatch_orders WHERE id=$1`
	return scanOrder(r.pool.QueryRow(ctx, query, id))
}

func (r *orderRepository) List(ctx context.Context) ([]*domain.DispatchOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM dispatch_orders ORDER BY id`
	return r.queryMany(ctx, query)
}

func (r *orderRepository) ListByPlant(ctx context.Context, plantID int64) ([]*domain.DispatchOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM dispatch_orders WHERE plant_id=$1 ORDER BY id`
	return r.queryMany(ctx, query, plantID)
}

func (r *orderRepository) ListByDriver(ctx context.Context, driverID int64) ([]*domain.DispatchOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM dispatch_orders WHERE driver_id=$1 ORDER BY id`
	return r.queryMany(ctx, query, driverID)
}

func (r *orderRepository) queryMany(ctx context.Context, query string, args ...interface{}) ([]*domain.DispatchOrder, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*domain.DispatchOrder
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func scanOrder(row pgx.Row) (*domain.DispatchOrder, error) {
	order := &domain.DispatchOrder{}
	if err := row.Scan(
		&order.ID,
		&order.PlantID,
		&order.DriverID,
		&order.Material,
		&order.Quantity,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return order, nil
}
