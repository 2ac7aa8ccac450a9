package incentive

import "fmt"

// Slab is one row of the gross-count rate table.
type Slab struct {
	Min   int    `json:"min"`
	Rate  int    `json:"rate"`
	Label string `json:"label"`
	ID    string `json:"id"`
}

// Slabs is ordered by Min, highest first. Classification depends on that order.
var Slabs = []Slab{
	{Min: 50, Rate: 200, Label: "50+", ID: "slab-50"},
	{Min: 40, Rate: 175, Label: "40", ID: "slab-40"},
	{Min: 30, Rate: 150, Label: "30", ID: "slab-30"},
	{Min: 20, Rate: 125, Label: "20", ID: "slab-20"},
	{Min: 10, Rate: 75, Label: "10", ID: "slab-10"},
}

// SlabInfo is the classification of a gross count.
type SlabInfo struct {
	Rate        int    `json:"rate"`
	Label       string `json:"label"`
	ID          string `json:"id,omitempty"`
	Next        *Slab  `json:"next,omitempty"`
	UnitsToNext int    `json:"unitsToNext"`
	IsTopSlab   bool   `json:"isTopSlab"`
}

// ClassifySlab returns the first slab whose minimum does not exceed grossCount.
// Below the lowest slab the rate is 0 and Next points at the lowest slab.
func ClassifySlab(grossCount int) SlabInfo {
	for i, s := range Slabs {
		if grossCount < s.Min {
			continue
		}
		info := SlabInfo{
			Rate:      s.Rate,
			Label:     s.Label,
			ID:        s.ID,
			IsTopSlab: i == 0,
		}
		if i > 0 {
			next := Slabs[i-1]
			info.Next = &next
			info.UnitsToNext = next.Min - grossCount
		}
		return info
	}

	lowest := Slabs[len(Slabs)-1]
	return SlabInfo{
		Rate:        0,
		Label:       "Below 10",
		Next:        &lowest,
		UnitsToNext: lowest.Min - grossCount,
	}
}

// Progress is the percentage of the way from the current slab to the next one, clamped to 0..100.
func (s SlabInfo) Progress() float64 {
	if s.IsTopSlab {
		return 100
	}
	if s.Next == nil {
		return 0
	}
	var pct float64
	if s.Rate == 0 {
		lowest := float64(s.Next.Min)
		pct = (lowest - float64(s.UnitsToNext)) / lowest * 100
	} else {
		currentMin := 0
		for _, slab := range Slabs {
			if slab.ID == s.ID {
				currentMin = slab.Min
				break
			}
		}
		span := s.Next.Min - currentMin
		if span <= 0 {
			return 0
		}
		current := s.Next.Min - s.UnitsToNext - currentMin
		pct = float64(current) / float64(span) * 100
	}
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// Badge is the short rate label shown next to the gross row.
func (s SlabInfo) Badge() string {
	if s.Rate > 0 {
		return fmt.Sprintf("₹%d/MNP", s.Rate)
	}
	return "No Slab"
}

// Summary describes the commitment earned for mnpCount at this slab.
func (s SlabInfo) Summary(mnpCount int) string {
	if s.Rate == 0 {
		return "Need minimum 10 Gross to unlock slab incentive"
	}
	return fmt.Sprintf("Slab %s → ₹%d × %d MNP = ₹%s", s.Label, s.Rate, mnpCount, FormatINR(int64(s.Rate*mnpCount)))
}

// ProgressText tells the user how far the next slab is.
func (s SlabInfo) ProgressText() string {
	switch {
	case s.IsTopSlab:
		return "🏆 Maximum slab achieved!"
	case s.Next != nil:
		return fmt.Sprintf("🎯 %d more for ₹%d/MNP slab", s.UnitsToNext, s.Next.Rate)
	default:
		return ""
	}
}

// RowStatus is the highlight state of a slab table row.
type RowStatus string

const (
	RowActive   RowStatus = "active-slab"
	RowNext     RowStatus = "next-slab"
	RowInactive RowStatus = "inactive-slab"
	RowIdle     RowStatus = ""
)

// SlabRow pairs a table row with its highlight.
type SlabRow struct {
	Slab   Slab      `json:"slab"`
	Status RowStatus `json:"status"`
}

// Rows returns every slab with its highlight relative to s.
func (s SlabInfo) Rows() []SlabRow {
	rows := make([]SlabRow, 0, len(Slabs))
	for _, slab := range Slabs {
		status := RowIdle
		switch {
		case slab.ID == s.ID:
			status = RowActive
		case s.Next != nil && slab.ID == s.Next.ID:
			status = RowNext
		case slab.Rate > s.Rate:
			status = RowInactive
		}
		rows = append(rows, SlabRow{Slab: slab, Status: status})
	}
	return rows
}
