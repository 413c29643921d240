package db

import (
	"database/sql"
	"fmt"

	"vending-machine/internal/config"
	"vending-machine/internal/models"

	_ "github.com/lib/pq"
)

type InventoryDB interface {
	BeginTx() (*sql.Tx, error)
	GetCoinInventory() ([]StockLevel, error)
	GetProductInventory() ([]StockLevel, error)
	SetCoinQuantity(tx *sql.Tx, coin string, quantity int) error
	SetProductQuantity(tx *sql.Tx, product string, quantity int) error
	InsertSale(tx *sql.Tx, product string, price int) error
	GetSales() ([]models.Sale, error)
}

// StockLevel is one row of coin_inventory or product_inventory.
type StockLevel struct {
	Name     string
	Quantity int
}

type AuthDB interface {
	GetOperatorAuthData(username string) (int, string, error)
	UpsertOperator(username, passwordHash string) error
}

func Connect(cfg *config.Config) (*sql.DB, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DatabaseHost,
		cfg.DatabasePort,
		cfg.DatabaseUser,
		cfg.DatabasePassword,
		cfg.DatabaseName,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to reach %s:%s/%s: %w", cfg.DatabaseHost, cfg.DatabasePort, cfg.DatabaseName, err)
	}
	return db, nil
}
