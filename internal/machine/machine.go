// Package machine holds the coin-handling and product-dispensing state of a
// single vending machine. It does no I/O and is not safe for concurrent use.
package machine

import (
	"vending-machine/internal/models"
)

const (
	MsgInsertCoin      = "INSERT COIN"
	MsgThankYou        = "THANK YOU"
	MsgSoldOut         = "SOLD OUT"
	MsgExactChangeOnly = "EXACT CHANGE ONLY"
)

// State is a copy of everything a VendingMachine tracks.
type State struct {
	Balance          models.Cents
	InsertedCoins    models.CoinCounts
	CoinInventory    models.CoinCounts
	ProductInventory models.ProductCounts
	CoinReturn       models.CoinCounts
	DispenseBin      *models.Product
	Message          *string
}

type VendingMachine struct {
	balance          models.Cents
	insertedCoins    models.CoinCounts
	coinInventory    models.CoinCounts
	productInventory models.ProductCounts
	coinReturn       models.CoinCounts
	dispenseBin      *models.Product

	// message overrides the display until it is read once.
	message *string
}

func New() *VendingMachine {
	return &VendingMachine{}
}

// Insert accepts a nickel, dime or quarter into the pending coins. A penny
// drops straight into the coin return. Unknown coin kinds are ignored.
func (m *VendingMachine) Insert(c models.Coin) {
	if !c.Valid() {
		return
	}
	if !c.Accepted() {
		m.coinReturn[c]++
		return
	}
	m.balance += c.Value()
	m.insertedCoins[c]++
}

// Select tries to sell p and reports whether it was dispensed. Change owed
// after a sale stays in the balance until ReturnChange is called.
func (m *VendingMachine) Select(p models.Product) bool {
	if !p.Valid() {
		return false
	}
	price := p.Price()
	if m.balance < price {
		m.setMessage("PRICE " + price.String())
		return false
	}
	if m.productInventory[p] == 0 {
		m.setMessage(MsgSoldOut)
		return false
	}

	for i, n := range m.insertedCoins {
		if n > 0 {
			m.coinInventory[i] += n
			m.insertedCoins[i] = 0
		}
	}

	product := p
	m.dispenseBin = &product
	m.productInventory[p]--
	m.balance -= price
	m.setMessage(MsgThankYou)
	return true
}

// ReturnInsertedCoins moves every pending coin to the coin return.
func (m *VendingMachine) ReturnInsertedCoins() {
	for i, n := range m.insertedCoins {
		if n == 0 {
			continue
		}
		m.coinReturn[i] += n
		m.balance -= models.Coin(i).Value() * models.Cents(n)
		m.insertedCoins[i] = 0
	}
}

// MakeChange reports whether the coin inventory can pay out amount exactly,
// taking the largest coins first. When commit is set every coin taken moves
// from the inventory to the coin return as it is taken, so a failed attempt
// can leave part of the amount in the coin return.
func (m *VendingMachine) MakeChange(amount models.Cents, commit bool) bool {
	var taken models.CoinCounts
	remaining := amount
	for _, c := range models.AcceptedCoins {
		value := c.Value()
		for value <= remaining && m.coinInventory[c]-taken[c] > 0 {
			remaining -= value
			if commit {
				m.coinInventory[c]--
				m.coinReturn[c]++
			} else {
				taken[c]++
			}
		}
	}
	return remaining == 0
}

// ReturnChange pays out the outstanding balance from the coin inventory.
// Nothing moves unless the whole amount can be paid. Pending coins are not
// used; call ReturnInsertedCoins for those.
func (m *VendingMachine) ReturnChange() bool {
	owed := m.balance - m.insertedCoins.Total()
	if owed <= 0 || !m.MakeChange(owed, false) {
		return false
	}
	m.MakeChange(owed, true)
	m.balance -= owed
	return true
}

func (m *VendingMachine) IsSoldOut() bool {
	for _, n := range m.productInventory {
		if n > 0 {
			return false
		}
	}
	return true
}

// IsExactChangeOnly samples every amount between the smallest and largest
// accepted coin, stepping by the smallest, and reports whether any of them
// cannot be paid out.
func (m *VendingMachine) IsExactChangeOnly() bool {
	lowest := models.AcceptedCoins[len(models.AcceptedCoins)-1].Value()
	highest := models.AcceptedCoins[0].Value()
	for amount := lowest; amount <= highest; amount += lowest {
		if !m.MakeChange(amount, false) {
			return true
		}
	}
	return false
}

// Display returns the text the machine currently shows. A message set by
// Select is returned exactly once.
func (m *VendingMachine) Display() string {
	if m.message != nil {
		msg := *m.message
		m.message = nil
		return msg
	}
	if m.IsSoldOut() {
		return MsgSoldOut
	}
	if m.balance > 0 {
		return m.balance.String()
	}
	if m.IsExactChangeOnly() {
		return MsgExactChangeOnly
	}
	return MsgInsertCoin
}

func (m *VendingMachine) setMessage(msg string) {
	m.message = &msg
}

// TakeCoinReturn empties the coin return and hands back what was in it.
func (m *VendingMachine) TakeCoinReturn() models.CoinCounts {
	taken := m.coinReturn
	m.coinReturn = models.CoinCounts{}
	return taken
}

// TakeProduct empties the dispense bin.
func (m *VendingMachine) TakeProduct() (models.Product, bool) {
	if m.dispenseBin == nil {
		return 0, false
	}
	p := *m.dispenseBin
	m.dispenseBin = nil
	return p, true
}

// StockCoins adds n coins of kind c to the change inventory. Rejected coin
// kinds and negative counts are ignored.
func (m *VendingMachine) StockCoins(c models.Coin, n int) bool {
	if !c.Accepted() || n < 0 {
		return false
	}
	m.coinInventory[c] += n
	return true
}

func (m *VendingMachine) StockProduct(p models.Product, n int) bool {
	if !p.Valid() || n < 0 {
		return false
	}
	m.productInventory[p] += n
	return true
}

func (m *VendingMachine) Balance() models.Cents { return m.balance }

func (m *VendingMachine) InsertedCoins() models.CoinCounts { return m.insertedCoins }

func (m *VendingMachine) CoinInventory() models.CoinCounts { return m.coinInventory }

func (m *VendingMachine) ProductInventory() models.ProductCounts { return m.productInventory }

func (m *VendingMachine) CoinReturn() models.CoinCounts { return m.coinReturn }

func (m *VendingMachine) DispenseBin() (models.Product, bool) {
	if m.dispenseBin == nil {
		return 0, false
	}
	return *m.dispenseBin, true
}

func (m *VendingMachine) State() State {
	s := State{
		Balance:          m.balance,
		InsertedCoins:    m.insertedCoins,
		CoinInventory:    m.coinInventory,
		ProductInventory: m.productInventory,
		CoinReturn:       m.coinReturn,
	}
	if m.dispenseBin != nil {
		p := *m.dispenseBin
		s.DispenseBin = &p
	}
	if m.message != nil {
		msg := *m.message
		s.Message = &msg
	}
	return s
}

// Restore replaces the machine's state with s.
func (m *VendingMachine) Restore(s State) {
	m.balance = s.Balance
	m.insertedCoins = s.InsertedCoins
	m.coinInventory = s.CoinInventory
	m.productInventory = s.ProductInventory
	m.coinReturn = s.CoinReturn
	m.dispenseBin = nil
	if s.DispenseBin != nil {
		p := *s.DispenseBin
		m.dispenseBin = &p
	}
	m.message = nil
	if s.Message != nil {
		msg := *s.Message
		m.message = &msg
	}
}
