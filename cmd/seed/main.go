// seed puebla la base de datos con productos y bodegas de demostración.
//
// Uso: go run ./cmd/seed
// Idempotente: los registros ya existentes (por SKU/código) se omiten.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AQIB050506/stockmaster/internal/domain/entity"
	"github.com/AQIB050506/stockmaster/internal/infrastructure/postgres"
	"github.com/AQIB050506/stockmaster/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	now := time.Now()

	warehouses := []*entity.Warehouse{
		{Code: "BOD-CENTRAL", Name: "Bodega Central", Address: "Calle 10 # 25-30"},
		{Code: "BOD-NORTE", Name: "Bodega Norte", Address: "Autopista Norte Km 12"},
	}
	for _, w := range warehouses {
		existing, err := warehouseRepo.GetByCode(ctx, w.Code)
		if err != nil {
			fmt.Fprintf(os.Stderr, "consultar bodega %s: %v\n", w.Code, err)
			os.Exit(1)
		}
		if existing != nil {
			fmt.Printf("bodega %s ya existe, se omite\n", w.Code)
			continue
		}
		w.ID = uuid.New().String()
		w.IsActive = true
		w.CreatedAt = now
		w.UpdatedAt = now
		if err := warehouseRepo.Create(ctx, w); err != nil {
			fmt.Fprintf(os.Stderr, "crear bodega %s: %v\n", w.Code, err)
			os.Exit(1)
		}
		fmt.Printf("bodega %s creada\n", w.Code)
	}

	products := []*entity.Product{
		{SKU: "ARROZ-5KG", Name: "Arroz blanco 5kg", Category: "granos", UnitOfMeasure: "units",
			CostPrice: decimal.NewFromInt(12000), SellingPrice: decimal.NewFromInt(16500),
			MinStockLevel: decimal.NewFromInt(40), MaxStockLevel: decimal.NewFromInt(200)},
		{SKU: "ACEITE-1L", Name: "Aceite vegetal 1L", Category: "aceites", UnitOfMeasure: "liters",
			CostPrice: decimal.NewFromInt(8500), SellingPrice: decimal.NewFromInt(11900),
			MinStockLevel: decimal.NewFromInt(30), MaxStockLevel: decimal.NewFromInt(150)},
		{SKU: "CAFE-500G", Name: "Café molido 500g", Category: "bebidas", UnitOfMeasure: "pcs",
			CostPrice: decimal.NewFromInt(14000), SellingPrice: decimal.NewFromInt(19500),
			MinStockLevel: decimal.NewFromInt(25), MaxStockLevel: decimal.NewFromInt(120)},
		{SKU: "CABLE-UTP", Name: "Cable UTP cat6", Category: "ferretería", UnitOfMeasure: "meters",
			CostPrice: decimal.NewFromInt(1200), SellingPrice: decimal.NewFromInt(2100),
			MinStockLevel: decimal.NewFromInt(100), MaxStockLevel: decimal.NewFromInt(500)},
	}
	for _, p := range products {
		existing, err := productRepo.GetBySKU(ctx, p.SKU)
		if err != nil {
			fmt.Fprintf(os.Stderr, "consultar producto %s: %v\n", p.SKU, err)
			os.Exit(1)
		}
		if existing != nil {
			fmt.Printf("producto %s ya existe, se omite\n", p.SKU)
			continue
		}
		p.ID = uuid.New().String()
		p.IsActive = true
		p.CreatedAt = now
		p.UpdatedAt = now
		if err := productRepo.Create(ctx, p); err != nil {
			fmt.Fprintf(os.Stderr, "crear producto %s: %v\n", p.SKU, err)
			os.Exit(1)
		}
		fmt.Printf("producto %s creado\n", p.SKU)
	}

	fmt.Println("seed completado")
}
