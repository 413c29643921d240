package api

type ErrorResponse struct {
	Errors string `json:"errors"`
}

type AuthRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
}

type InsertCoinRequest struct {
	Coin string `json:"coin" binding:"required"`
}

type InsertCoinResponse struct {
	Accepted bool   `json:"accepted"`
	Display  string `json:"display"`
}

type SelectResponse struct {
	Dispensed bool   `json:"dispensed"`
	Display   string `json:"display"`
}

type ChangeResponse struct {
	Returned bool   `json:"returned"`
	Display  string `json:"display"`
}

type DisplayResponse struct {
	Display string `json:"display"`
}

type StatusResponse struct {
	Balance         string         `json:"balance"`
	InsertedCoins   map[string]int `json:"insertedCoins"`
	CoinReturn      map[string]int `json:"coinReturn"`
	DispenseBin     string         `json:"dispenseBin,omitempty"`
	SoldOut         bool           `json:"soldOut"`
	ExactChangeOnly bool           `json:"exactChangeOnly"`
}

type CollectResponse struct {
	Coins   map[string]int `json:"coins"`
	Product string         `json:"product,omitempty"`
}

type RestockCoinsRequest struct {
	Coin  string `json:"coin" binding:"required"`
	Count int    `json:"count"`
}

type RestockProductsRequest struct {
	Product string `json:"product" binding:"required"`
	Count   int    `json:"count"`
}

type InventoryResponse struct {
	Coins    map[string]int `json:"coins"`
	Products map[string]int `json:"products"`
}

type SaleResponse struct {
	ID      int    `json:"id"`
	Product string `json:"product"`
	Price   string `json:"price"`
}
