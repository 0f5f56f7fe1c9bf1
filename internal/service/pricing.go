package service

import (
	"github.com/mansij47/Optiven-Backend/internal/model"
	"github.com/mansij47/Optiven-Backend/pkg/apperror"

	"github.com/shopspring/decimal"
)

// priceLine builds one order line from the current inventory record. The line
// keeps unit_price and tax as snapshots; no rounding happens here. Totals are
// rounded exactly once, at order level. Returns the line plus its
// total-with-tax contribution.
func priceLine(product *model.Product, quantity int) (model.SalesOrderLine, decimal.Decimal, error) {
	unitPrice, err := decimal.NewFromString(product.UnitPrice)
	if err != nil {
		// A non-numeric stored price must never silently become free.
		return model.SalesOrderLine{}, decimal.Zero,
			apperror.Validation("invalid unit price for product " + product.ProductID)
	}

	// Missing tax defaults to zero; a missing price does not.
	tax := decimal.NewFromFloat(product.Tax)
	qty := decimal.NewFromInt(int64(quantity))

	lineTotal := unitPrice.Mul(qty)
	lineTax := tax.Mul(qty)

	line := model.SalesOrderLine{
		ProductID:         product.ProductID,
		ProductName:       product.ProductName,
		Category:          product.Category,
		Unit:              product.Unit,
		UnitPrice:         unitPrice,
		Tax:               tax,
		OrderQuantity:     quantity,
		InventoryQuantity: product.Quantity,
	}
	return line, lineTotal.Add(lineTax), nil
}

// parsePrice parses a stored decimal-as-string price.
func parsePrice(raw string) (decimal.Decimal, error) {
	return decimal.NewFromString(raw)
}

// orderTotal rounds the accumulated lines-with-tax sum to two decimal places.
// This is the only place order money gets rounded.
func orderTotal(sum decimal.Decimal) decimal.Decimal {
	return sum.Round(2)
}

// returnedAmount computes the refund for one eligible return line:
// (unit_price - tax) x return_quantity. Tax is subtracted on refunds, unlike
// order pricing where it is added.
func returnedAmount(unitPrice, tax decimal.Decimal, returnQuantity int) decimal.Decimal {
	return unitPrice.Sub(tax).Mul(decimal.NewFromInt(int64(returnQuantity)))
}

// lineStockStatus derives the per-line display flag from the live inventory
// level versus the ordered quantity. Never persisted.
func lineStockStatus(inventoryQuantity, orderQuantity int) string {
	if inventoryQuantity < orderQuantity {
		return model.StockOut
	}
	return model.StockIn
}
