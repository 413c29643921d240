package db

import (
	"database/sql"
	"fmt"

	"vending-machine/internal/models"
)

type inventoryDBImplementation struct {
	db *sql.DB
}

func NewInventoryDB(dbConn *sql.DB) InventoryDB {
	return &inventoryDBImplementation{
		db: dbConn,
	}
}

type authDBImplementation struct {
	db *sql.DB
}

func NewAuthDB(dbConn *sql.DB) AuthDB {
	return &authDBImplementation{
		db: dbConn,
	}
}

func (a *authDBImplementation) GetOperatorAuthData(username string) (int, string, error) {
	var (
		id           int
		passwordHash string
	)
	err := a.db.QueryRow("SELECT id, password_hash FROM operators WHERE username=$1", username).
		Scan(&id, &passwordHash)
	if err != nil {
		return 0, "", fmt.Errorf("failed to get operator auth data for '%s': %w", username, err)
	}
	return id, passwordHash, nil
}

func (a *authDBImplementation) UpsertOperator(username, passwordHash string) error {
	_, err := a.db.Exec(`
INSERT INTO operators (username, password_hash) VALUES ($1, $2)
ON CONFLICT (username) DO UPDATE SET password_hash = EXCLUDED.password_hash
`, username, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to upsert operator '%s': %w", username, err)
	}
	return nil
}

func (i *inventoryDBImplementation) BeginTx() (*sql.Tx, error) {
	tx, err := i.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

func (i *inventoryDBImplementation) GetCoinInventory() ([]StockLevel, error) {
	return i.stockLevels("SELECT coin, quantity FROM coin_inventory")
}

func (i *inventoryDBImplementation) GetProductInventory() ([]StockLevel, error) {
	return i.stockLevels("SELECT product, quantity FROM product_inventory")
}

func (i *inventoryDBImplementation) stockLevels(query string) ([]StockLevel, error) {
	rows, err := i.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock levels: %w", err)
	}
	defer rows.Close()

	var levels []StockLevel
	for rows.Next() {
		var l StockLevel
		if err := rows.Scan(&l.Name, &l.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan stock level: %w", err)
		}
		levels = append(levels, l)
	}
	return levels, rows.Err()
}

func (i *inventoryDBImplementation) SetCoinQuantity(tx *sql.Tx, coin string, quantity int) error {
	_, err := tx.Exec(`
INSERT INTO coin_inventory (coin, quantity) VALUES ($1, $2)
ON CONFLICT (coin) DO UPDATE SET quantity = EXCLUDED.quantity
`, coin, quantity)
	if err != nil {
		return fmt.Errorf("failed to set %s quantity: %w", coin, err)
	}
	return nil
}

func (i *inventoryDBImplementation) SetProductQuantity(tx *sql.Tx, product string, quantity int) error {
	_, err := tx.Exec(`
INSERT INTO product_inventory (product, quantity) VALUES ($1, $2)
ON CONFLICT (product) DO UPDATE SET quantity = EXCLUDED.quantity
`, product, quantity)
	if err != nil {
		return fmt.Errorf("failed to set %s quantity: %w", product, err)
	}
	return nil
}

func (i *inventoryDBImplementation) InsertSale(tx *sql.Tx, product string, price int) error {
	_, err := tx.Exec("INSERT INTO sales (product, price) VALUES ($1, $2)", product, price)
	if err != nil {
		return fmt.Errorf("failed to insert sale: %w", err)
	}
	return nil
}

func (i *inventoryDBImplementation) GetSales() ([]models.Sale, error) {
	rows, err := i.db.Query("SELECT id, product, price FROM sales ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query sales: %w", err)
	}
	defer rows.Close()

	var sales []models.Sale
	for rows.Next() {
		var s models.Sale
		if err := rows.Scan(&s.ID, &s.Product, &s.Price); err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		sales = append(sales, s)
	}
	return sales, rows.Err()
}
