package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/AQIB050506/stockmaster/internal/application/forecast"
	"github.com/AQIB050506/stockmaster/internal/application/ledger"
	"github.com/AQIB050506/stockmaster/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC     *usecase.ProductUseCase
	WarehouseUC   *usecase.WarehouseUseCase
	StockUC       *usecase.StockUseCase
	TransactionUC *ledger.TransactionUseCase
	ForecastUC    *forecast.ForecastUseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)

	// Warehouses (protegido)
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", warehouseHandler.Update)

	// Stock (protegido, solo lectura + nota de ubicación)
	stock := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC)
	stock.Get("/", stockHandler.List)
	stock.Get("/alerts", stockHandler.Alerts)
	stock.Get("/product/:productId", stockHandler.GetProductStock)
	stock.Put("/:id/location", stockHandler.UpdateLocation)

	// Transactions (protegido): un endpoint de creación por tipo
	transactions := protected.Group("/transactions")
	transactionHandler := NewTransactionHandler(deps.TransactionUC)
	transactions.Post("/receipt", transactionHandler.CreateReceipt)
	transactions.Post("/delivery", transactionHandler.CreateDelivery)
	transactions.Post("/transfer", transactionHandler.CreateTransfer)
	transactions.Post("/adjustment", transactionHandler.CreateAdjustment)
	transactions.Get("/", transactionHandler.List)
	transactions.Get("/:id", transactionHandler.GetByID)
	transactions.Get("/:id/document", transactionHandler.Document)
	transactions.Put("/:id/complete", transactionHandler.Complete)
	transactions.Put("/:id/cancel", transactionHandler.Cancel)

	// Forecasts (protegido)
	forecasts := protected.Group("/forecasts")
	forecastHandler := NewForecastHandler(deps.ForecastUC)
	forecasts.Get("/", forecastHandler.List)
}
