package series

import "time"

// Night groups the window samples of a single night period. Date is the
// calendar day the night started on.
type Night struct {
	Date    time.Time
	Samples Series
}

// Nights splits the in-window samples of the series into night periods,
// in series order.
func (s Series) Nights(w Window) []Night {
	var nights []Night
	for _, sample := range s {
		if !w.Contains(sample.Timestamp) {
			continue
		}

		date := w.NightOf(sample.Timestamp)
		if n := len(nights); n > 0 && nights[n-1].Date.Equal(date) {
			nights[n-1].Samples = append(nights[n-1].Samples, sample)
			continue
		}

		nights = append(nights, Night{Date: date, Samples: Series{sample}})
	}

	return nights
}
