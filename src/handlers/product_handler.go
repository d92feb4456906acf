package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rojhatkeles/Kuyumcu-AI/src/database"
	"github.com/rojhatkeles/Kuyumcu-AI/src/logger"
	"github.com/rojhatkeles/Kuyumcu-AI/src/model"
	"github.com/rojhatkeles/Kuyumcu-AI/src/models"
	"github.com/rojhatkeles/Kuyumcu-AI/src/utils"
)

type ProductHandler struct{}

func NewProductHandler() *ProductHandler {
	return &ProductHandler{}
}

// HandleListProducts lists manufactured items currently in stock. Items at
// zero stock remain in the database for history but are not listed.
func (h *ProductHandler) HandleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := model.ListProductsInStock(database.DB)
	if err != nil {
		utils.SendJSONError(w, "Failed to list products", http.StatusInternalServerError)
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	utils.SendJSON(w, products, http.StatusOK)
}

func (h *ProductHandler) HandleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name      string  `json:"name"`
		Category  string  `json:"category"`
		Weight    float64 `json:"weight"`
		Purity    float64 `json:"purity"`
		LaborCost float64 `json:"labor_cost"`
		StockQty  int64   `json:"stock_qty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(payload.Name) == "" {
		utils.SendJSONError(w, "name is required", http.StatusBadRequest)
		return
	}

	product := &models.Product{
		Name:      payload.Name,
		Category:  payload.Category,
		Weight:    payload.Weight,
		Purity:    payload.Purity,
		LaborCost: payload.LaborCost,
		StockQty:  payload.StockQty,
	}
	if product.StockQty == 0 {
		product.StockQty = 1
	}
	if err := model.CreateProduct(database.DB, product); err != nil {
		logger.L.Error("Failed to create product", "name", payload.Name, "error", err)
		utils.SendJSONError(w, "Failed to create product", http.StatusInternalServerError)
		return
	}
	utils.SendJSON(w, product, http.StatusCreated)
}
