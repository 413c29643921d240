package models

import "testing"

func TestCentsString(t *testing.T) {
	tests := map[Cents]string{
		0:   "$0.00",
		5:   "$0.05",
		65:  "$0.65",
		100: "$1.00",
		125: "$1.25",
	}
	for in, want := range tests {
		if got := in.String(); got != want {
			t.Errorf("Cents(%d): expected %q, got %q", int(in), want, got)
		}
	}
}

func TestParseCoin(t *testing.T) {
	c, ok := ParseCoin(" Quarter ")
	if !ok || c != Quarter {
		t.Errorf("Expected quarter, got %v (%v)", c, ok)
	}
	c, ok = ParseCoin("penny")
	if !ok || c != Penny || c.Accepted() {
		t.Errorf("Expected a recognised but rejected penny, got %v (%v)", c, ok)
	}
	if _, ok := ParseCoin("euro"); ok {
		t.Error("Expected euro not to parse")
	}
}

func TestParseProduct(t *testing.T) {
	p, ok := ParseProduct("CANDY")
	if !ok || p != Candy || p.Price() != 65 {
		t.Errorf("Expected candy at 65, got %v (%v)", p, ok)
	}
	if _, ok := ParseProduct("gum"); ok {
		t.Error("Expected gum not to parse")
	}
}

func TestAcceptedCoinsDescending(t *testing.T) {
	for i := 1; i < len(AcceptedCoins); i++ {
		if AcceptedCoins[i-1].Value() <= AcceptedCoins[i].Value() {
			t.Fatalf("AcceptedCoins not in descending order: %v", AcceptedCoins)
		}
	}
}

func TestCoinCounts(t *testing.T) {
	var c CoinCounts
	c[Quarter] = 2
	c[Nickel] = 1
	if c.Total() != 55 {
		t.Errorf("Expected 55, got %v", c.Total())
	}
	m := c.ToMap()
	if len(m) != 2 || m["quarter"] != 2 || m["nickel"] != 1 {
		t.Errorf("Unexpected map %v", m)
	}
}

func TestUnknownKinds(t *testing.T) {
	c := Coin(7)
	if c.Valid() || c.Accepted() || c.Value() != 0 {
		t.Errorf("Expected coin(7) to be invalid with no value, got valid=%v accepted=%v value=%v", c.Valid(), c.Accepted(), c.Value())
	}
	if Coin(-1).Valid() {
		t.Error("Expected coin(-1) to be invalid")
	}
	p := Product(9)
	if p.Valid() || p.Price() != 0 || p.String() != "product(9)" {
		t.Errorf("Expected product(9) to be invalid with no price, got %v %v", p.Valid(), p.Price())
	}
}
