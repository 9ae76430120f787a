package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lastikpazari/backend/internal/domain/identity"
	"github.com/lastikpazari/backend/internal/domain/shared"
	"github.com/lastikpazari/backend/internal/domain/trade"
	"github.com/lastikpazari/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
)

// newSQLiteDatabase opens a migrated in-memory database on a single connection
func newSQLiteDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := Open(sqlite.Open(":memory:"), nil)
	require.NoError(t, err)

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.DB.AutoMigrate(models.AllModels()...))
	return db
}

// newMockDatabase creates a Database instance with a mocked SQL connection
func newMockDatabase(t *testing.T) (*Database, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	mock.ExpectPing() // gorm pings on open

	db, err := Open(postgres.New(postgres.Config{Conn: mockDB, DriverName: "postgres"}), nil)
	require.NoError(t, err)
	return db, mock, mockDB
}

func storeOrder(t *testing.T, number string, customerID uuid.UUID, storeID int64) *trade.Order {
	t.Helper()
	order, err := trade.NewOrder(number, customerID, trade.Delivery{
		Type:    trade.DeliveryTypeStore,
		StoreID: &storeID,
		Installation: &trade.Installation{
			Date:     time.Date(2026, 10, 25, 0, 0, 0, 0, time.UTC),
			TimeSlot: "10:00-12:00",
			Note:     "Jant kapağı var",
		},
	}, trade.PaymentInfo{Method: trade.PaymentMethodCard}, decimal.Zero, []trade.LineInput{
		{StockCode: "MIC-205-55-16", ProductName: "Michelin Primacy 4", TireSize: "205/55 R16", Quantity: 4, UnitPrice: decimal.RequireFromString("1299.99")},
	})
	require.NoError(t, err)
	return order
}

func addressOrder(t *testing.T, number string, customerID uuid.UUID) *trade.Order {
	t.Helper()
	addressID := uuid.New()
	order, err := trade.NewOrder(number, customerID, trade.Delivery{
		Type:              trade.DeliveryTypeAddress,
		DeliveryAddressID: &addressID,
		BillingAddressID:  &addressID,
	}, trade.PaymentInfo{Method: trade.PaymentMethodBankTransfer}, decimal.NewFromInt(150), []trade.LineInput{
		{StockCode: "PIR-225-45-17", ProductName: "Pirelli P Zero", TireSize: "225/45 R17", Quantity: 2, UnitPrice: decimal.NewFromInt(2500)},
	})
	require.NoError(t, err)
	return order
}

func actor(role string) trade.Actor {
	return trade.Actor{UserID: uuid.New(), Role: role}
}

func TestGormOrderRepository_CreateAndFind(t *testing.T) {
	db := newSQLiteDatabase(t)
	repo := NewGormOrderRepository(db.DB)
	ctx := context.Background()

	order := storeOrder(t, "LP20261019-ABCDEF", uuid.New(), 7)
	require.NoError(t, repo.Create(ctx, order))
	assert.Empty(t, order.PendingStatusLogs())

	found, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, found.OrderNumber)
	assert.Equal(t, trade.OrderStatusReceived, found.Status)
	assert.Equal(t, int64(7), found.StoreID())
	require.NotNil(t, found.Delivery.Installation)
	assert.Equal(t, "10:00-12:00", found.Delivery.Installation.TimeSlot)
	assert.True(t, found.HasInstallationDealer())
	assert.Equal(t, trade.PaymentMethodCard, found.Payment.Method)
	require.Len(t, found.Items, 1)
	assert.Equal(t, 4, found.Items[0].Quantity)
	assert.True(t, decimal.RequireFromString("5199.96").Equal(found.GrandTotal))

	byNumber, err := repo.FindByOrderNumber(ctx, order.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, order.ID, byNumber.ID)

	logs, err := repo.FindStatusLogs(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, trade.OrderStatusReceived, logs[0].ToStatus)

	exists, err := repo.ExistsByOrderNumber(ctx, order.OrderNumber)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestGormOrderRepository_CreateDuplicateNumber(t *testing.T) {
	db := newSQLiteDatabase(t)
	repo := NewGormOrderRepository(db.DB)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, addressOrder(t, "LP20261019-DUPDUP", uuid.New())))
	err := repo.Create(ctx, addressOrder(t, "LP20261019-DUPDUP", uuid.New()))
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestGormOrderRepository_FindByID_NotFound(t *testing.T) {
	db := newSQLiteDatabase(t)
	repo := NewGormOrderRepository(db.DB)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormOrderRepository_ScopedQueries(t *testing.T) {
	db := newSQLiteDatabase(t)
	repo := NewGormOrderRepository(db.DB)
	ctx := context.Background()

	alice, bob := uuid.New(), uuid.New()
	require.NoError(t, repo.Create(ctx, storeOrder(t, "LP20261019-AAAAA2", alice, 7)))
	require.NoError(t, repo.Create(ctx, storeOrder(t, "LP20261019-AAAAA3", bob, 9)))
	require.NoError(t, repo.Create(ctx, addressOrder(t, "LP20261019-AAAAA4", alice)))

	filter := shared.DefaultFilter()

	mine, err := repo.FindAll(ctx, trade.CustomerScope(alice), filter)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	for _, o := range mine {
		assert.Equal(t, alice, o.CustomerID)
	}

	store7, err := repo.FindAll(ctx, trade.StoreScope(7), filter)
	require.NoError(t, err)
	require.Len(t, store7, 1)
	assert.Equal(t, "LP20261019-AAAAA2", store7[0].OrderNumber)

	all, err := repo.Count(ctx, trade.OrderScope{}, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(3), all)

	filter.Filters["delivery_type"] = string(trade.DeliveryTypeAddress)
	addressOnly, err := repo.Count(ctx, trade.OrderScope{}, filter)
	require.NoError(t, err)
	assert.Equal(t, int64(1), addressOnly)

	search := shared.DefaultFilter()
	search.Search = "aaaaa3"
	found, err := repo.FindAll(ctx, trade.OrderScope{}, search)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, bob, found[0].CustomerID)

	paged := shared.DefaultFilter()
	paged.PageSize = 2
	paged.Page = 2
	page2, err := repo.FindAll(ctx, trade.OrderScope{}, paged)
	require.NoError(t, err)
	assert.Len(t, page2, 1)
}

func TestGormOrderRepository_SaveStatus(t *testing.T) {
	db := newSQLiteDatabase(t)
	repo := NewGormOrderRepository(db.DB)
	ctx := context.Background()

	order := storeOrder(t, "LP20261019-STATUS", uuid.New(), 7)
	require.NoError(t, repo.Create(ctx, order))

	loaded, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	require.NoError(t, loaded.Confirm(actor("dealer")))
	require.NoError(t, repo.SaveStatus(ctx, loaded))
	assert.Equal(t, 2, loaded.Version)

	reloaded, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, trade.OrderStatusConfirmed, reloaded.Status)
	assert.NotNil(t, reloaded.ConfirmedAt)
	assert.Equal(t, 2, reloaded.Version)

	logs, err := repo.FindStatusLogs(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, trade.OrderStatusReceived, logs[1].FromStatus)
	assert.Equal(t, trade.OrderStatusConfirmed, logs[1].ToStatus)
	assert.Equal(t, "dealer", logs[1].ActorRole)
}

func TestGormOrderRepository_SaveStatus_StaleVersion(t *testing.T) {
	db := newSQLiteDatabase(t)
	repo := NewGormOrderRepository(db.DB)
	ctx := context.Background()

	order := addressOrder(t, "LP20261019-STALE2", uuid.New())
	require.NoError(t, repo.Create(ctx, order))

	first, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)

	require.NoError(t, first.Confirm(actor("dealer")))
	require.NoError(t, repo.SaveStatus(ctx, first))

	require.NoError(t, second.Cancel(actor("admin"), "stok yok"))
	err = repo.SaveStatus(ctx, second)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

	current, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, trade.OrderStatusConfirmed, current.Status)

	logs, err := repo.FindStatusLogs(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, logs, 2)
}

func TestGormOrderRepository_SaveStatus_Missing(t *testing.T) {
	db := newSQLiteDatabase(t)
	repo := NewGormOrderRepository(db.DB)

	order := addressOrder(t, "LP20261019-GHOST2", uuid.New())
	require.NoError(t, order.Confirm(actor("admin")))
	assert.ErrorIs(t, repo.SaveStatus(context.Background(), order), shared.ErrNotFound)
}

func TestGormOrderRepository_FindByIDs(t *testing.T) {
	db := newSQLiteDatabase(t)
	repo := NewGormOrderRepository(db.DB)
	ctx := context.Background()

	a := addressOrder(t, "LP20261019-BATCH2", uuid.New())
	b := storeOrder(t, "LP20261019-BATCH3", uuid.New(), 7)
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	orders, err := repo.FindByIDs(ctx, []uuid.UUID{a.ID, b.ID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	none, err := repo.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGormUserRepository_RoundTrip(t *testing.T) {
	db := newSQLiteDatabase(t)
	repo := NewGormUserRepository(db.DB)
	ctx := context.Background()

	store := int64(7)
	user, err := identity.NewUser("Bayi@Example.com", "sifre1234", "Kadıköy Bayi", identity.RoleDealer, &store)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, user))

	found, err := repo.FindByEmail(ctx, "BAYI@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, identity.RoleDealer, found.Role)
	assert.Equal(t, int64(7), found.StoreIDValue())
	assert.True(t, found.VerifyPassword("sifre1234"))

	exists, err := repo.ExistsByEmail(ctx, "bayi@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	found.RecordLoginFailure(5, time.Minute)
	require.NoError(t, repo.Update(ctx, found))
	again, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, again.FailedAttempts)

	dup, err := identity.NewUser("bayi@example.com", "sifre1234", "Other", identity.RoleCustomer, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Create(ctx, dup), shared.ErrAlreadyExists)

	_, err = repo.FindByEmail(ctx, "")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormUserRepository_FindByID_Mock(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()
	repo := NewGormUserRepository(db.DB)

	id := uuid.New()
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1 ORDER BY .* LIMIT .*`).
		WithArgs(id, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "full_name", "role", "status", "version"}).
			AddRow(id.String(), "admin@example.com", "Yönetici", "admin", "active", 3))

	user, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, identity.RoleAdmin, user.Role)
	assert.Equal(t, 3, user.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDatabase_Ping(t *testing.T) {
	db, mock, mockDB := newMockDatabase(t)
	defer mockDB.Close()

	mock.ExpectPing()
	assert.NoError(t, db.Ping(context.Background()))

	mock.ExpectPing().WillReturnError(sql.ErrConnDone)
	assert.Error(t, db.Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
