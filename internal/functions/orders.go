package functions

import (
	"context"
	"strings"

	"algogrid/internal/grid"
)

// OrderParams carries the scalar arguments for place and modify operations.
// All values are transmitted as strings; empty numeric fields default to "0".
type OrderParams struct {
	Strategy          string
	OrderID           string
	Symbol            string
	Action            string
	Exchange          string
	PriceType         string
	Product           string
	Quantity          string
	Price             string
	TriggerPrice      string
	DisclosedQuantity string
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

// PlaceOrder submits a new order. This places a real order with the broker.
func (s *Service) PlaceOrder(ctx context.Context, p OrderParams) grid.Grid {
	_, raw, errGrid := s.fetch(ctx, "placeorder", map[string]string{
		"strategy":           p.Strategy,
		"symbol":             p.Symbol,
		"action":             p.Action,
		"exchange":           p.Exchange,
		"pricetype":          p.PriceType,
		"product":            p.Product,
		"quantity":           orDefault(p.Quantity, "0"),
		"price":              orDefault(p.Price, "0"),
		"trigger_price":      orDefault(p.TriggerPrice, "0"),
		"disclosed_quantity": orDefault(p.DisclosedQuantity, "0"),
	})
	if errGrid != nil {
		return errGrid
	}

	return grid.Grid{
		{"Status", envelope(raw, "status", "Unknown")},
		{"Order ID", envelope(raw, "orderid", "Unknown")},
	}
}

// ModifyOrder modifies an open order.
func (s *Service) ModifyOrder(ctx context.Context, p OrderParams) grid.Grid {
	_, raw, errGrid := s.fetch(ctx, "modifyorder", map[string]string{
		"strategy":           p.Strategy,
		"orderid":            p.OrderID,
		"symbol":             p.Symbol,
		"action":             p.Action,
		"exchange":           p.Exchange,
		"pricetype":          orDefault(p.PriceType, "MARKET"),
		"product":            orDefault(p.Product, "MIS"),
		"quantity":           orDefault(p.Quantity, "0"),
		"price":              orDefault(p.Price, "0"),
		"trigger_price":      orDefault(p.TriggerPrice, "0"),
		"disclosed_quantity": orDefault(p.DisclosedQuantity, "0"),
	})
	if errGrid != nil {
		return errGrid
	}

	return grid.Grid{
		{"Status", envelope(raw, "status", "Unknown")},
		{"Message", envelope(raw, "message", "Order modification request sent")},
	}
}

// CancelOrder cancels one order.
func (s *Service) CancelOrder(ctx context.Context, strategy, orderID string) grid.Grid {
	_, raw, errGrid := s.fetch(ctx, "cancelorder", map[string]string{
		"strategy": strategy,
		"orderid":  orderID,
	})
	if errGrid != nil {
		return errGrid
	}

	return grid.Grid{
		{"Status", envelope(raw, "status", "Unknown")},
		{"Message", envelope(raw, "message", "Order cancellation request sent")},
	}
}

// OrderStatus returns the details of one order as a key/value grid.
func (s *Service) OrderStatus(ctx context.Context, strategy, orderID string) grid.Grid {
	st, raw, errGrid := s.fetch(ctx, "orderstatus", map[string]string{
		"strategy": strategy,
		"orderid":  orderID,
	})
	if errGrid != nil {
		return errGrid
	}

	g := grid.ProcessResponse("orderstatus", raw, st.Format, "")
	if grid.IsNoData(g) {
		return grid.ErrorGrid("No order status data found")
	}
	return g
}

// basketColumns is the fixed column order for a basket range. Missing price
// columns default to "0".
var basketColumns = []string{"symbol", "exchange", "action", "quantity", "pricetype", "product", "price", "trigger_price"}

// BasketOrder places a batch of orders from a range of rows. Each row holds
// symbol, exchange, action, quantity, pricetype, product and optionally price
// and trigger price. Blank rows are skipped.
func (s *Service) BasketOrder(ctx context.Context, strategy string, rows [][]string) grid.Grid {
	orders := make([]any, 0, len(rows))
	for _, row := range rows {
		if isBlankRow(row) {
			continue
		}
		order := make(map[string]any, len(basketColumns))
		for i, col := range basketColumns {
			value := ""
			if i < len(row) {
				value = strings.TrimSpace(row[i])
			}
			if value == "" && (col == "price" || col == "trigger_price") {
				value = "0"
			}
			order[col] = value
		}
		orders = append(orders, order)
	}

	if len(orders) == 0 {
		return grid.ErrorGrid("Basket is empty: no order rows provided")
	}

	st, raw, errGrid := s.fetchPayload(ctx, "basketorder", map[string]any{
		"strategy": strategy,
		"orders":   orders,
	})
	if errGrid != nil {
		return errGrid
	}
	return grid.ProcessResponse("basketorder", raw, st.Format, "")
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
