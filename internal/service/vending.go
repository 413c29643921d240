package service

import (
	"errors"
	"fmt"
	"sync"

	"vending-machine/internal/db"
	"vending-machine/internal/machine"
	"vending-machine/internal/models"
	"vending-machine/pkg"

	"go.uber.org/zap"
)

var (
	ErrUnknownCoin    = errors.New("unknown coin")
	ErrUnknownProduct = errors.New("unknown product")
	ErrInvalidCount   = errors.New("invalid count")
)

type Status struct {
	Balance         models.Cents
	InsertedCoins   models.CoinCounts
	CoinReturn      models.CoinCounts
	DispenseBin     string
	SoldOut         bool
	ExactChangeOnly bool
}

type Inventory struct {
	Coins    models.CoinCounts
	Products models.ProductCounts
}

// Collected is what the customer takes out of the bins.
type Collected struct {
	Coins   models.CoinCounts
	Product string
}

type VendingService interface {
	// Load replaces the machine's inventories with the stored ones.
	Load() error

	// InsertCoin, Select and ReturnChange also return the display text,
	// read under the same lock so the one-shot message cannot be lost.
	InsertCoin(coin string) (bool, string, error)

	Select(product string) (bool, string, error)

	ReturnCoins()

	ReturnChange() (bool, string, error)

	Display() string

	Status() Status

	Collect() Collected

	RestockCoins(coin string, count int) error

	RestockProducts(product string, count int) error

	Inventory() Inventory

	Sales() ([]models.Sale, error)
}

type vendingService struct {
	mu     sync.Mutex
	vm     *machine.VendingMachine
	dbProv db.InventoryDB
	log    pkg.Logger
}

func NewVendingService(vm *machine.VendingMachine, dbProv db.InventoryDB, log pkg.Logger) VendingService {
	return &vendingService{
		vm:     vm,
		dbProv: dbProv,
		log:    log,
	}
}

func (s *vendingService) Load() error {
	coins, err := s.dbProv.GetCoinInventory()
	if err != nil {
		s.log.Error("failed to load coin inventory", zap.Error(err))
		return err
	}
	products, err := s.dbProv.GetProductInventory()
	if err != nil {
		s.log.Error("failed to load product inventory", zap.Error(err))
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.vm.State()
	state.CoinInventory = models.CoinCounts{}
	state.ProductInventory = models.ProductCounts{}
	for _, l := range coins {
		c, ok := models.ParseCoin(l.Name)
		if !ok || !c.Accepted() || l.Quantity < 0 {
			s.log.Warn("skipping stored coin stock", zap.String("coin", l.Name), zap.Int("quantity", l.Quantity))
			continue
		}
		state.CoinInventory[c] = l.Quantity
	}
	for _, l := range products {
		p, ok := models.ParseProduct(l.Name)
		if !ok || l.Quantity < 0 {
			s.log.Warn("skipping stored product stock", zap.String("product", l.Name), zap.Int("quantity", l.Quantity))
			continue
		}
		state.ProductInventory[p] = l.Quantity
	}
	s.vm.Restore(state)

	s.log.Info("Inventory loaded",
		zap.Any("coins", state.CoinInventory.ToMap()),
		zap.Any("products", state.ProductInventory.ToMap()))
	return nil
}

func (s *vendingService) InsertCoin(coin string) (bool, string, error) {
	c, ok := models.ParseCoin(coin)
	if !ok {
		return false, "", fmt.Errorf("%w: %q", ErrUnknownCoin, coin)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.vm.Insert(c)
	if !c.Accepted() {
		s.log.Info("Coin rejected", zap.String("coin", c.String()))
		return false, s.vm.Display(), nil
	}
	return true, s.vm.Display(), nil
}

func (s *vendingService) Select(product string) (bool, string, error) {
	p, ok := models.ParseProduct(product)
	if !ok {
		return false, "", fmt.Errorf("%w: %q", ErrUnknownProduct, product)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.vm.State()
	if !s.vm.Select(p) {
		return false, s.vm.Display(), nil
	}
	if err := s.persist(prev, &p); err != nil {
		return false, "", err
	}
	s.log.Info("Product dispensed",
		zap.String("product", p.String()),
		zap.Int("price", int(p.Price())),
		zap.Int("balance", int(s.vm.Balance())))
	return true, s.vm.Display(), nil
}

func (s *vendingService) ReturnCoins() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.vm.ReturnInsertedCoins()
}

func (s *vendingService) ReturnChange() (bool, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.vm.State()
	if !s.vm.ReturnChange() {
		return false, s.vm.Display(), nil
	}
	if err := s.persist(prev, nil); err != nil {
		return false, "", err
	}
	s.log.Info("Change returned", zap.Int("amount", int(prev.Balance-s.vm.Balance())))
	return true, s.vm.Display(), nil
}

func (s *vendingService) Display() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.vm.Display()
}

func (s *vendingService) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		Balance:         s.vm.Balance(),
		InsertedCoins:   s.vm.InsertedCoins(),
		CoinReturn:      s.vm.CoinReturn(),
		SoldOut:         s.vm.IsSoldOut(),
		ExactChangeOnly: s.vm.IsExactChangeOnly(),
	}
	if p, ok := s.vm.DispenseBin(); ok {
		st.DispenseBin = p.String()
	}
	return st
}

func (s *vendingService) Collect() Collected {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := Collected{Coins: s.vm.TakeCoinReturn()}
	if p, ok := s.vm.TakeProduct(); ok {
		c.Product = p.String()
	}
	return c
}

func (s *vendingService) RestockCoins(coin string, count int) error {
	c, ok := models.ParseCoin(coin)
	if !ok || !c.Accepted() {
		return fmt.Errorf("%w: %q", ErrUnknownCoin, coin)
	}
	if count <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.vm.State()
	s.vm.StockCoins(c, count)
	if err := s.persist(prev, nil); err != nil {
		return err
	}
	s.log.Info("Coins restocked", zap.String("coin", c.String()), zap.Int("count", count))
	return nil
}

func (s *vendingService) RestockProducts(product string, count int) error {
	p, ok := models.ParseProduct(product)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownProduct, product)
	}
	if count <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCount, count)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.vm.State()
	s.vm.StockProduct(p, count)
	if err := s.persist(prev, nil); err != nil {
		return err
	}
	s.log.Info("Products restocked", zap.String("product", p.String()), zap.Int("count", count))
	return nil
}

func (s *vendingService) Inventory() Inventory {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Inventory{
		Coins:    s.vm.CoinInventory(),
		Products: s.vm.ProductInventory(),
	}
}

func (s *vendingService) Sales() ([]models.Sale, error) {
	sales, err := s.dbProv.GetSales()
	if err != nil {
		s.log.Error("failed to get sales", zap.Error(err))
		return nil, err
	}
	return sales, nil
}

// persist writes both inventories, and the sale if there was one, in a
// single transaction. On failure the machine is put back to prev.
func (s *vendingService) persist(prev machine.State, sold *models.Product) error {
	if err := s.writeInventory(sold); err != nil {
		s.vm.Restore(prev)
		s.log.Error("failed to persist inventory, machine state restored", zap.Error(err))
		return err
	}
	return nil
}

func (s *vendingService) writeInventory(sold *models.Product) error {
	tx, err := s.dbProv.BeginTx()
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	coins := s.vm.CoinInventory()
	for _, c := range models.AcceptedCoins {
		if err := s.dbProv.SetCoinQuantity(tx, c.String(), coins[c]); err != nil {
			return err
		}
	}
	products := s.vm.ProductInventory()
	for _, p := range models.Products {
		if err := s.dbProv.SetProductQuantity(tx, p.String(), products[p]); err != nil {
			return err
		}
	}
	if sold != nil {
		if err := s.dbProv.InsertSale(tx, sold.String(), int(sold.Price())); err != nil {
			return err
		}
	}
	return tx.Commit()
}
