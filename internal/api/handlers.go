package api

import (
	"errors"
	"net/http"

	"vending-machine/internal/models"
	"vending-machine/internal/service"
	"vending-machine/pkg"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	AuthService    service.AuthService
	VendingService service.VendingService
	Logger         pkg.Logger
}

// RegisterHandlers mounts the customer routes and, behind operatorAuth, the
// operator routes.
func RegisterHandlers(r *gin.Engine, h *Handlers, operatorAuth gin.HandlerFunc) {
	api := r.Group("/api")
	api.POST("/auth", h.PostAuth)
	api.POST("/coins", h.PostCoin)
	api.POST("/select/:product", h.PostSelect)
	api.POST("/return", h.PostReturn)
	api.POST("/change", h.PostChange)
	api.POST("/collect", h.PostCollect)
	api.GET("/display", h.GetDisplay)
	api.GET("/status", h.GetStatus)

	operator := api.Group("/operator", operatorAuth)
	operator.POST("/coins", h.PostRestockCoins)
	operator.POST("/products", h.PostRestockProducts)
	operator.GET("/inventory", h.GetInventory)
	operator.GET("/sales", h.GetSales)
}

func (h *Handlers) PostAuth(c *gin.Context) {
	var req AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Errors: "Invalid request body"})
		return
	}

	token, err := h.AuthService.Authenticate(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Errors: "Invalid credentials"})
			return
		}
		h.Logger.Error("failed to authenticate", zap.String("username", req.Username), zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Errors: "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, AuthResponse{Token: token})
}

func (h *Handlers) PostCoin(c *gin.Context) {
	var req InsertCoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Errors: "Invalid request body"})
		return
	}

	accepted, display, err := h.VendingService.InsertCoin(req.Coin)
	if err != nil {
		h.writeError(c, "failed to insert coin", err)
		return
	}
	c.JSON(http.StatusOK, InsertCoinResponse{Accepted: accepted, Display: display})
}

func (h *Handlers) PostSelect(c *gin.Context) {
	product := c.Param("product")
	dispensed, display, err := h.VendingService.Select(product)
	if err != nil {
		h.writeError(c, "failed to select product", err, zap.String("product", product))
		return
	}
	c.JSON(http.StatusOK, SelectResponse{Dispensed: dispensed, Display: display})
}

func (h *Handlers) PostReturn(c *gin.Context) {
	h.VendingService.ReturnCoins()
	c.JSON(http.StatusOK, h.statusResponse())
}

func (h *Handlers) PostChange(c *gin.Context) {
	returned, display, err := h.VendingService.ReturnChange()
	if err != nil {
		h.writeError(c, "failed to return change", err)
		return
	}
	c.JSON(http.StatusOK, ChangeResponse{Returned: returned, Display: display})
}

func (h *Handlers) PostCollect(c *gin.Context) {
	collected := h.VendingService.Collect()
	c.JSON(http.StatusOK, CollectResponse{
		Coins:   collected.Coins.ToMap(),
		Product: collected.Product,
	})
}

func (h *Handlers) GetDisplay(c *gin.Context) {
	c.JSON(http.StatusOK, DisplayResponse{Display: h.VendingService.Display()})
}

func (h *Handlers) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.statusResponse())
}

func (h *Handlers) PostRestockCoins(c *gin.Context) {
	var req RestockCoinsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Errors: "Invalid request body"})
		return
	}
	if err := h.VendingService.RestockCoins(req.Coin, req.Count); err != nil {
		h.writeError(c, "failed to restock coins", err, zap.String("coin", req.Coin), zap.Int("count", req.Count))
		return
	}
	c.JSON(http.StatusOK, h.inventoryResponse())
}

func (h *Handlers) PostRestockProducts(c *gin.Context) {
	var req RestockProductsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Errors: "Invalid request body"})
		return
	}
	if err := h.VendingService.RestockProducts(req.Product, req.Count); err != nil {
		h.writeError(c, "failed to restock products", err, zap.String("product", req.Product), zap.Int("count", req.Count))
		return
	}
	c.JSON(http.StatusOK, h.inventoryResponse())
}

func (h *Handlers) GetInventory(c *gin.Context) {
	c.JSON(http.StatusOK, h.inventoryResponse())
}

func (h *Handlers) GetSales(c *gin.Context) {
	sales, err := h.VendingService.Sales()
	if err != nil {
		h.writeError(c, "failed to get sales", err)
		return
	}
	resp := make([]SaleResponse, 0, len(sales))
	for _, s := range sales {
		resp = append(resp, SaleResponse{
			ID:      s.ID,
			Product: s.Product,
			Price:   models.Cents(s.Price).String(),
		})
	}
	c.JSON(http.StatusOK, resp)
}

// writeError maps domain errors to 400 and logs anything else as a 500.
func (h *Handlers) writeError(c *gin.Context, msg string, err error, fields ...zap.Field) {
	switch {
	case errors.Is(err, service.ErrUnknownCoin):
		c.JSON(http.StatusBadRequest, ErrorResponse{Errors: "Unknown coin"})
	case errors.Is(err, service.ErrUnknownProduct):
		c.JSON(http.StatusBadRequest, ErrorResponse{Errors: "Unknown product"})
	case errors.Is(err, service.ErrInvalidCount):
		c.JSON(http.StatusBadRequest, ErrorResponse{Errors: "Count must be > 0"})
	default:
		h.Logger.Error(msg, append(fields, zap.Error(err))...)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Errors: "Internal server error"})
	}
}

func (h *Handlers) statusResponse() StatusResponse {
	st := h.VendingService.Status()
	return StatusResponse{
		Balance:         st.Balance.String(),
		InsertedCoins:   st.InsertedCoins.ToMap(),
		CoinReturn:      st.CoinReturn.ToMap(),
		DispenseBin:     st.DispenseBin,
		SoldOut:         st.SoldOut,
		ExactChangeOnly: st.ExactChangeOnly,
	}
}

func (h *Handlers) inventoryResponse() InventoryResponse {
	inv := h.VendingService.Inventory()
	return InventoryResponse{
		Coins:    inv.Coins.ToMap(),
		Products: inv.Products.ToMap(),
	}
}
