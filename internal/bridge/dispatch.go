package bridge

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"algogrid/internal/functions"
	"algogrid/internal/grid"
	"algogrid/logger"
)

// callRequest is the body of a function call. Scalar arguments travel in
// args in positional order; order operations use the named params mapping
// and basket orders carry their range in rows.
type callRequest struct {
	Args   []string          `json:"args"`
	Rows   [][]string        `json:"rows"`
	Params map[string]string `json:"params"`
}

func (r callRequest) arg(i int) string {
	if i < len(r.Args) {
		return r.Args[i]
	}
	return ""
}

func (r callRequest) orderParams() functions.OrderParams {
	return functions.OrderParams{
		Strategy:          r.Params["strategy"],
		OrderID:           r.Params["orderid"],
		Symbol:            r.Params["symbol"],
		Action:            r.Params["action"],
		Exchange:          r.Params["exchange"],
		PriceType:         r.Params["pricetype"],
		Product:           r.Params["product"],
		Quantity:          r.Params["quantity"],
		Price:             r.Params["price"],
		TriggerPrice:      r.Params["trigger_price"],
		DisclosedQuantity: r.Params["disclosed_quantity"],
	}
}

func (s *Server) handleCall(c *gin.Context) {
	name := c.Param("name")

	var req callRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	g, known := s.dispatch(c.Request.Context(), name, req)
	if !known {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown function: " + name})
		return
	}

	s.log.WithFields(logger.Fields{
		"function": name,
		"rows":     len(g),
	}).Debug("function call served")

	c.JSON(http.StatusOK, gin.H{"grid": g})
}

func (s *Server) dispatch(ctx context.Context, name string, req callRequest) (grid.Grid, bool) {
	switch name {
	case "api", "set_api":
		return s.svc.SetAPI(req.arg(0), req.arg(1), req.arg(2)), true
	case "get_config":
		return s.svc.GetConfig(), true
	case "set_format":
		return s.svc.SetFormat(req.arg(0)), true
	case "status":
		return s.svc.Status(), true
	case "response_info":
		return s.svc.ResponseInfo(), true
	case "all_functions":
		return s.svc.AllFunctions(), true
	case "test_connection":
		return s.svc.TestConnection(ctx), true

	case "quotes":
		return s.svc.Quotes(ctx, req.arg(0), req.arg(1)), true
	case "depth":
		return s.svc.Depth(ctx, req.arg(0), req.arg(1)), true
	case "history":
		return s.svc.History(ctx, req.arg(0), req.arg(1), req.arg(2), req.arg(3), req.arg(4)), true
	case "intervals":
		return s.svc.Intervals(ctx), true

	case "funds":
		return s.svc.Funds(ctx), true
	case "orderbook":
		return s.svc.Orderbook(ctx), true
	case "tradebook":
		return s.svc.Tradebook(ctx), true
	case "positionbook":
		return s.svc.Positionbook(ctx), true
	case "holdings":
		return s.svc.Holdings(ctx), true

	case "placeorder":
		return s.svc.PlaceOrder(ctx, req.orderParams()), true
	case "modifyorder":
		return s.svc.ModifyOrder(ctx, req.orderParams()), true
	case "cancelorder":
		return s.svc.CancelOrder(ctx, req.arg(0), req.arg(1)), true
	case "orderstatus":
		return s.svc.OrderStatus(ctx, req.arg(0), req.arg(1)), true
	case "basketorder":
		return s.svc.BasketOrder(ctx, req.arg(0), req.Rows), true

	case "debug_last_request":
		return s.svc.LastRequest(), true
	case "debug_last_response":
		return s.svc.LastResponse(), true
	case "debug_full_log":
		return s.svc.FullLog(), true
	case "preview_request":
		return s.svc.PreviewRequest(req.arg(0), req.Params), true

	default:
		return nil, false
	}
}
