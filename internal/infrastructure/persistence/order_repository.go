package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lastikpazari/backend/internal/domain/shared"
	"github.com/lastikpazari/backend/internal/domain/trade"
	"github.com/lastikpazari/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements trade.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

var _ trade.OrderRepository = (*GormOrderRepository)(nil)

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}

// FindByID finds an order by ID with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items", preloadItems).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("find order %s: %w", id, err)
	}
	return model.ToDomain(), nil
}

// FindByIDs finds the orders with the given IDs
func (r *GormOrderRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]trade.Order, error) {
	if len(ids) == 0 {
		return []trade.Order{}, nil
	}
	var rows []models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items", preloadItems).
		Where("id IN ?", ids).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find orders by ids: %w", err)
	}
	return toDomainOrders(rows), nil
}

// FindByOrderNumber finds an order by its order number
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*trade.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items", preloadItems).
		Where("order_number = ?", orderNumber).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("find order %s: %w", orderNumber, err)
	}
	return model.ToDomain(), nil
}

// FindAll finds the orders visible in scope, newest first unless the filter says otherwise
func (r *GormOrderRepository) FindAll(ctx context.Context, scope trade.OrderScope, filter shared.Filter) ([]trade.Order, error) {
	query := r.applyFilter(r.applyScope(r.db.WithContext(ctx).Model(&models.OrderModel{}), scope), filter)

	orderBy := ValidateSortField(filter.OrderBy, OrderSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	var rows []models.OrderModel
	if err := query.Preload("Items", preloadItems).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return toDomainOrders(rows), nil
}

// Count counts the orders visible in scope matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, scope trade.OrderScope, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.applyScope(r.db.WithContext(ctx).Model(&models.OrderModel{}), scope), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return count, nil
}

// Create writes the order, its items and pending status logs in one transaction
func (r *GormOrderRepository) Create(ctx context.Context, order *trade.Order) error {
	model := models.OrderModelFromDomain(order)
	logs := order.PendingStatusLogs()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			return err
		}
		if len(model.Items) > 0 {
			if err := tx.Create(&model.Items).Error; err != nil {
				return err
			}
		}
		return insertStatusLogs(tx, logs)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return fmt.Errorf("create order %s: %w", order.OrderNumber, err)
	}
	order.ClearPendingStatusLogs()
	return nil
}

// SaveStatus writes the status fields guarded by the loaded version.
// The version is bumped on success.
func (r *GormOrderRepository) SaveStatus(ctx context.Context, order *trade.Order) error {
	expected := order.Version
	logs := order.PendingStatusLogs()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.OrderModel{}).
			Where("id = ? AND version = ?", order.ID, expected).
			Updates(map[string]any{
				"status":        order.Status,
				"cancel_reason": order.CancelReason,
				"confirmed_at":  order.ConfirmedAt,
				"completed_at":  order.CompletedAt,
				"cancelled_at":  order.CancelledAt,
				"version":       expected + 1,
				"updated_at":    order.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.OrderModel{}).Where("id = ?", order.ID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return shared.ErrNotFound
			}
			return shared.ErrConcurrencyConflict
		}
		return insertStatusLogs(tx, logs)
	})
	if err != nil {
		if shared.ErrorCode(err) != "" {
			return err
		}
		return fmt.Errorf("save order status %s: %w", order.ID, err)
	}

	order.Version = expected + 1
	order.ClearPendingStatusLogs()
	return nil
}

// ExistsByOrderNumber checks if an order number is taken
func (r *GormOrderRepository) ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("order_number = ?", orderNumber).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("check order number: %w", err)
	}
	return count > 0, nil
}

// FindStatusLogs returns the status history of an order, oldest first
func (r *GormOrderRepository) FindStatusLogs(ctx context.Context, orderID uuid.UUID) ([]trade.StatusLog, error) {
	var rows []models.OrderStatusLogModel
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("find status logs: %w", err)
	}
	logs := make([]trade.StatusLog, len(rows))
	for i := range rows {
		logs[i] = rows[i].ToDomain()
	}
	return logs, nil
}

func (r *GormOrderRepository) applyScope(query *gorm.DB, scope trade.OrderScope) *gorm.DB {
	if scope.CustomerID != nil {
		query = query.Where("customer_id = ?", *scope.CustomerID)
	}
	if scope.StoreID != nil {
		query = query.Where("store_id = ?", *scope.StoreID)
	}
	return query
}

// applyFilter understands the status, store_id, customer_id, delivery_type,
// created_from and created_to filters plus an order number search
func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("LOWER(order_number) LIKE ?", "%"+strings.ToLower(search)+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			switch v := value.(type) {
			case []string:
				if len(v) > 0 {
					query = query.Where("status IN ?", v)
				}
			case string:
				if v != "" {
					query = query.Where("status = ?", v)
				}
			}
		case "store_id":
			query = query.Where("store_id = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "delivery_type":
			query = query.Where("delivery_type = ?", value)
		case "created_from":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at >= ?", t)
			}
		case "created_to":
			if t, ok := value.(time.Time); ok {
				query = query.Where("created_at < ?", t)
			}
		}
	}
	return query
}

func insertStatusLogs(tx *gorm.DB, logs []trade.StatusLog) error {
	if len(logs) == 0 {
		return nil
	}
	rows := make([]models.OrderStatusLogModel, len(logs))
	for i, l := range logs {
		rows[i] = models.OrderStatusLogModelFromDomain(l)
	}
	return tx.Create(&rows).Error
}

func toDomainOrders(rows []models.OrderModel) []trade.Order {
	orders := make([]trade.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders
}
