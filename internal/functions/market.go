package functions

import (
	"context"
	"fmt"

	"algogrid/internal/grid"
)

// Quotes returns real-time quotes for one symbol.
func (s *Service) Quotes(ctx context.Context, symbol, exchange string) grid.Grid {
	st, raw, errGrid := s.fetch(ctx, "quotes", map[string]string{
		"symbol":   symbol,
		"exchange": exchange,
	})
	if errGrid != nil {
		return errGrid
	}
	title := fmt.Sprintf("%s (%s)", symbol, exchange)
	return grid.ProcessResponse("quotes", raw, st.Format, title)
}

// Depth returns market depth in the fixed four-column asks/bids layout.
func (s *Service) Depth(ctx context.Context, symbol, exchange string) grid.Grid {
	_, raw, errGrid := s.fetch(ctx, "depth", map[string]string{
		"symbol":   symbol,
		"exchange": exchange,
	})
	if errGrid != nil {
		return errGrid
	}

	data, ok := envelopeData(raw).(*grid.OrderedMap)
	if !ok || data.Len() == 0 {
		return grid.ErrorGrid("No depth data received")
	}

	asks := depthLevels(data, "asks")
	bids := depthLevels(data, "bids")

	g := grid.Grid{{"Ask Price", "Ask Qty", "Bid Price", "Bid Qty"}}
	depth := len(asks)
	if len(bids) > depth {
		depth = len(bids)
	}
	for i := 0; i < depth; i++ {
		row := make([]string, 4)
		if i < len(asks) {
			row[0], row[1] = asks[i][0], asks[i][1]
		}
		if i < len(bids) {
			row[2], row[3] = bids[i][0], bids[i][1]
		}
		g = append(g, row)
	}
	return g
}

// depthLevels extracts formatted price/quantity pairs from one side of the
// book.
func depthLevels(data *grid.OrderedMap, side string) [][2]string {
	raw, ok := data.Get(side)
	if !ok {
		return nil
	}
	seq, ok := raw.([]any)
	if !ok {
		return nil
	}

	levels := make([][2]string, 0, len(seq))
	for _, item := range seq {
		level, ok := item.(*grid.OrderedMap)
		if !ok {
			continue
		}
		price, _ := level.Get("price")
		qty, _ := level.Get("quantity")
		levels = append(levels, [2]string{
			grid.FormatValue("price", price),
			grid.FormatValue("quantity", qty),
		})
	}
	return levels
}

// History returns candle data with the symbol column and the timestamp split
// into IST date and time.
func (s *Service) History(ctx context.Context, symbol, exchange, interval, startDate, endDate string) grid.Grid {
	_, raw, errGrid := s.fetch(ctx, "history", map[string]string{
		"symbol":     symbol,
		"exchange":   exchange,
		"interval":   interval,
		"start_date": startDate,
		"end_date":   endDate,
	})
	if errGrid != nil {
		return errGrid
	}

	candles, ok := envelopeData(raw).([]any)
	if !ok || len(candles) == 0 {
		return grid.ErrorGrid("No historical data found")
	}

	g := grid.Grid{{"Ticker", "Date", "Time", "Open", "High", "Low", "Close", "Volume"}}
	for _, item := range candles {
		candle, ok := item.(*grid.OrderedMap)
		if !ok {
			continue
		}

		ts, _ := candle.Get("timestamp")
		date, clock, ok := grid.EpochDateTime(ts)
		if !ok {
			date, clock = "N/A", "N/A"
		}

		open, _ := candle.Get("open")
		high, _ := candle.Get("high")
		low, _ := candle.Get("low")
		close_, _ := candle.Get("close")
		volume, _ := candle.Get("volume")

		g = append(g, []string{
			symbol,
			date,
			clock,
			grid.FormatValue("open", open),
			grid.FormatValue("high", high),
			grid.FormatValue("low", low),
			grid.FormatValue("close", close_),
			grid.FormatValue("volume", volume),
		})
	}
	return g
}

// Intervals returns the supported candle intervals, falling back to the
// standard set when the API reports none.
func (s *Service) Intervals(ctx context.Context) grid.Grid {
	st, raw, errGrid := s.fetch(ctx, "intervals", nil)
	if errGrid != nil {
		return errGrid
	}

	g := grid.ProcessResponse("intervals", raw, st.Format, "")
	if grid.IsNoData(g) {
		return grid.Grid{
			{"Category", "Interval"},
			{"Minutes", "1m"},
			{"Minutes", "5m"},
			{"Minutes", "15m"},
			{"Minutes", "30m"},
			{"Hours", "1h"},
			{"Hours", "4h"},
			{"Daily", "1d"},
			{"Weekly", "1w"},
			{"Monthly", "1M"},
		}
	}
	return g
}
