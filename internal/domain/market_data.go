package domain

// TimeseriesPoint is one (timestamp, value) observation in a history series.
type TimeseriesPoint struct {
	TimestampMs int64   // Unix timestamp in milliseconds
	Value       float64 // observed value (price, volume or sentiment)
}

// MarketData bundles a token snapshot with its recent history series.
// Constructed per evaluation call and never persisted by the engine.
// Series are ordered ascending by timestamp and may be empty or short.
type MarketData struct {
	Token *Token

	PriceHistory     []TimeseriesPoint
	VolumeHistory    []TimeseriesPoint
	SentimentHistory []TimeseriesPoint
}

// PriceValues returns the price series values in timestamp order.
func (m *MarketData) PriceValues() []float64 {
	if m == nil {
		return nil
	}
	return seriesValues(m.PriceHistory)
}

// VolumeValues returns the volume series values in timestamp order.
func (m *MarketData) VolumeValues() []float64 {
	if m == nil {
		return nil
	}
	return seriesValues(m.VolumeHistory)
}

func seriesValues(series []TimeseriesPoint) []float64 {
	if len(series) == 0 {
		return nil
	}
	values := make([]float64, len(series))
	for i, p := range series {
		values[i] = p.Value
	}
	return values
}
