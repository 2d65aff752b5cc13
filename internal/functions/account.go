package functions

import (
	"context"

	"algogrid/internal/grid"
)

// Funds returns the account funds summary.
func (s *Service) Funds(ctx context.Context) grid.Grid {
	return s.account(ctx, "funds")
}

// Orderbook returns the order book.
func (s *Service) Orderbook(ctx context.Context) grid.Grid {
	return s.account(ctx, "orderbook")
}

// Tradebook returns the trade book.
func (s *Service) Tradebook(ctx context.Context) grid.Grid {
	return s.account(ctx, "tradebook")
}

// Positionbook returns the position book.
func (s *Service) Positionbook(ctx context.Context) grid.Grid {
	return s.account(ctx, "positionbook")
}

// Holdings returns the holdings.
func (s *Service) Holdings(ctx context.Context) grid.Grid {
	return s.account(ctx, "holdings")
}

func (s *Service) account(ctx context.Context, resource string) grid.Grid {
	st, raw, errGrid := s.fetch(ctx, resource, nil)
	if errGrid != nil {
		return errGrid
	}
	return grid.ProcessResponse(resource, raw, st.Format, "")
}
