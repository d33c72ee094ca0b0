package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalTicks           int
	PeakCrowd            int
	PeakTicketShop       int
	PeakBoardingLine     int
	TicksWithShopFull    int
	Purchases            int
	PurchasesPerLine     map[int]int // line index → completed purchases
	Departures           int
	TotalBoarded         int
	MeanBoarded          float64
	MaxBoarded           int
	MeanPurchaseDuration float64 // ticks
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		PurchasesPerLine: make(map[int]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalTicks = len(st.Ticks)
	for _, t := range st.Ticks {
		summary.PeakCrowd = max(summary.PeakCrowd, t.CrowdSize)
		summary.PeakTicketShop = max(summary.PeakTicketShop, t.TicketShopSize)
		summary.PeakBoardingLine = max(summary.PeakBoardingLine, t.BoardingLineSize)
		if t.TicketShopFull {
			summary.TicksWithShopFull++
		}
	}

	summary.Purchases = len(st.Purchases)
	if len(st.Purchases) > 0 {
		var total int64
		for _, p := range st.Purchases {
			summary.PurchasesPerLine[p.Line]++
			total += p.Clock - p.Started
		}
		summary.MeanPurchaseDuration = float64(total) / float64(len(st.Purchases))
	}

	summary.Departures = len(st.Departures)
	for _, d := range st.Departures {
		summary.TotalBoarded += d.Boarded
		summary.MaxBoarded = max(summary.MaxBoarded, d.Boarded)
	}
	if summary.Departures > 0 {
		summary.MeanBoarded = float64(summary.TotalBoarded) / float64(summary.Departures)
	}

	return summary
}
