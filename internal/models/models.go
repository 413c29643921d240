package models

import (
	"fmt"
	"strings"
)

// Cents is an amount of money in minor units.
type Cents int

func (c Cents) String() string {
	return fmt.Sprintf("$%d.%02d", int(c)/100, int(c)%100)
}

type Coin int

const (
	Penny Coin = iota
	Nickel
	Dime
	Quarter

	NumCoins = int(Quarter) + 1
)

var coinNames = [NumCoins]string{"penny", "nickel", "dime", "quarter"}

var coinValues = [NumCoins]Cents{1, 5, 10, 25}

// AcceptedCoins is ordered by descending value.
var AcceptedCoins = []Coin{Quarter, Dime, Nickel}

// Valid reports whether c is one of the known coin kinds.
func (c Coin) Valid() bool {
	return c >= 0 && int(c) < NumCoins
}

func (c Coin) String() string {
	if !c.Valid() {
		return fmt.Sprintf("coin(%d)", int(c))
	}
	return coinNames[c]
}

// Value is zero for unknown coin kinds.
func (c Coin) Value() Cents {
	if !c.Valid() {
		return 0
	}
	return coinValues[c]
}

func (c Coin) Accepted() bool {
	return c.Valid() && c != Penny
}

func ParseCoin(s string) (Coin, bool) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range coinNames {
		if n == name {
			return Coin(i), true
		}
	}
	return 0, false
}

type Product int

const (
	Cola Product = iota
	Chips
	Candy

	NumProducts = int(Candy) + 1
)

var productNames = [NumProducts]string{"cola", "chips", "candy"}

var productPrices = [NumProducts]Cents{100, 50, 65}

var Products = []Product{Cola, Chips, Candy}

func (p Product) Valid() bool {
	return p >= 0 && int(p) < NumProducts
}

func (p Product) String() string {
	if !p.Valid() {
		return fmt.Sprintf("product(%d)", int(p))
	}
	return productNames[p]
}

// Price is zero for unknown products.
func (p Product) Price() Cents {
	if !p.Valid() {
		return 0
	}
	return productPrices[p]
}

func ParseProduct(s string) (Product, bool) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range productNames {
		if n == name {
			return Product(i), true
		}
	}
	return 0, false
}

// CoinCounts holds a count per coin kind.
type CoinCounts [NumCoins]int

func (c CoinCounts) Total() Cents {
	var total Cents
	for i, n := range c {
		total += Coin(i).Value() * Cents(n)
	}
	return total
}

// ToMap keys the non-zero counts by coin name.
func (c CoinCounts) ToMap() map[string]int {
	out := make(map[string]int)
	for i, n := range c {
		if n > 0 {
			out[Coin(i).String()] = n
		}
	}
	return out
}

type ProductCounts [NumProducts]int

func (p ProductCounts) ToMap() map[string]int {
	out := make(map[string]int, NumProducts)
	for i, n := range p {
		out[Product(i).String()] = n
	}
	return out
}

type Sale struct {
	ID      int
	Product string
	Price   int
}
