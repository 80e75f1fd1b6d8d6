package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/jhoicas/pos-bale/internal/application/dto"
	"github.com/jhoicas/pos-bale/internal/application/inventory"
	"github.com/jhoicas/pos-bale/internal/application/ledger"
	"github.com/jhoicas/pos-bale/internal/domain"
	"github.com/jhoicas/pos-bale/internal/domain/entity"
	"github.com/jhoicas/pos-bale/internal/infrastructure/excel"
	"github.com/jhoicas/pos-bale/pkg/logger"
)

// result conteo de lo enviado al ledger.
type result struct {
	CategoriesCreated int
	CategoriesMatched int
	Purchases         int
	Sales             int
	Oversold          int // ventas sobre stock enviadas igualmente (-allow-oversold)
	Skipped           int
}

// importer sube un libro legado al ledger. Las categorías se emparejan por ID o nombre y
// se crean si faltan; compras antes que ventas para que el control de stock vea todo lo comprado.
type importer struct {
	entries       *inventory.EntryUseCase
	store         *ledger.Store
	log           *logger.Logger
	allowOversold bool

	byID   map[string]entity.Category
	byName map[string]entity.Category
	fold   cases.Caser
}

func newImporter(store *ledger.Store, log *logger.Logger, allowOversold bool) *importer {
	if log == nil {
		log = logger.Nop()
	}
	return &importer{
		entries:       inventory.NewEntryUseCase(store),
		store:         store,
		log:           log.Component("import"),
		allowOversold: allowOversold,
		byID:          map[string]entity.Category{},
		byName:        map[string]entity.Category{},
		fold:          cases.Fold(),
	}
}

func (im *importer) run(ctx context.Context, book *excel.Workbook) (result, error) {
	var res result
	if err := im.store.EnsureLoaded(ctx); err != nil {
		return res, fmt.Errorf("cargar ledger: %w", err)
	}
	if !im.store.State().Loaded() {
		return res, fmt.Errorf("ledger incompleto: %w", domain.ErrRemote)
	}

	for _, row := range book.Categories {
		cat, created, err := im.category(ctx, row.ID, row.Name)
		if err != nil {
			return res, fmt.Errorf("categoría fila %d: %w", row.Row, err)
		}
		if created {
			res.CategoriesCreated++
		} else {
			res.CategoriesMatched++
		}
		if row.ID != "" {
			im.byID[row.ID] = cat
		}
	}

	for _, row := range book.Purchases {
		cat, created, err := im.category(ctx, row.CategoryID, row.Category)
		if err != nil {
			return res, fmt.Errorf("compra fila %d: %w", row.Row, err)
		}
		if created {
			res.CategoriesCreated++
		}
		if _, err := im.entries.RegisterPurchase(ctx, dto.PurchaseEntry{
			Date:                row.Date.Format(entity.DateLayout),
			CategoryID:          cat.ID,
			Quantity:            row.Quantity,
			TotalCost:           decimal.NewNullDecimal(row.TotalCost),
			SellingPricePerItem: decimal.NewNullDecimal(row.SellingPricePerItem),
			Supplier:            row.Supplier,
		}); err != nil {
			return res, fmt.Errorf("compra fila %d: %w", row.Row, err)
		}
		res.Purchases++
	}

	for _, row := range book.Sales {
		cat, created, err := im.category(ctx, row.CategoryID, row.Category)
		if err != nil {
			return res, fmt.Errorf("venta fila %d: %w", row.Row, err)
		}
		if created {
			res.CategoriesCreated++
		}
		date := row.Date.Format(entity.DateLayout)
		_, err = im.entries.RegisterSale(ctx, dto.SaleEntry{
			Date:                date,
			CategoryID:          cat.ID,
			Quantity:            row.Quantity,
			SellingPricePerItem: decimal.NewNullDecimal(row.SellingPricePerItem),
		})
		switch {
		case err == nil:
			res.Sales++
		case errors.Is(err, domain.ErrInsufficientStock) && im.allowOversold:
			if _, err := im.store.CreateSale(ctx, dto.CreateSaleRequest{
				Date:                date,
				CategoryID:          cat.ID,
				CategoryName:        cat.Name,
				Quantity:            row.Quantity,
				SellingPricePerItem: row.SellingPricePerItem,
			}); err != nil {
				return res, fmt.Errorf("venta fila %d: %w", row.Row, err)
			}
			res.Sales++
			res.Oversold++
		case errors.Is(err, domain.ErrInsufficientStock):
			im.log.Warn().Int("row", row.Row).Str("category", cat.Name).Err(err).Msg("venta omitida")
			res.Skipped++
		default:
			return res, fmt.Errorf("venta fila %d: %w", row.Row, err)
		}
	}
	return res, nil
}

// category resuelve la categoría de una fila: primero el ID legado ya emparejado, luego el ID
// y el nombre en el ledger. Si no existe y hay nombre, la crea.
func (im *importer) category(ctx context.Context, id, name string) (entity.Category, bool, error) {
	id, name = strings.TrimSpace(id), strings.TrimSpace(name)
	if c, ok := im.byID[id]; ok && id != "" {
		return c, false, nil
	}
	key := im.fold.String(name)
	if c, ok := im.byName[key]; ok && name != "" {
		return c, false, nil
	}

	for _, ref := range []string{id, name} {
		if ref == "" {
			continue
		}
		c, err := im.entries.ResolveCategory(ctx, ref)
		if err == nil {
			im.remember(id, c)
			return c, false, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return entity.Category{}, false, err
		}
	}

	if name == "" {
		return entity.Category{}, false, fmt.Errorf("categoría %q sin nombre: %w", id, domain.ErrNotFound)
	}
	c, err := im.entries.RegisterCategory(ctx, dto.CategoryEntry{Name: name})
	if err != nil {
		return entity.Category{}, false, err
	}
	im.log.Info().Str("category", c.Name).Str("id", c.ID).Msg("categoría creada")
	im.remember(id, c)
	return c, true, nil
}

func (im *importer) remember(legacyID string, c entity.Category) {
	if legacyID != "" {
		im.byID[legacyID] = c
	}
	im.byName[im.fold.String(strings.TrimSpace(c.Name))] = c
}
