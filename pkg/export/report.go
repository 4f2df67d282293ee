package export

import "strconv"

// Row is one aggregated productivity line of a report.
type Row struct {
	Time         string
	OperatorName string
	BinningCount int
	PickingCount int
	TotalItems   int
	Productivity float64
}

// Report is a renderable productivity report: a title, the covered period
// and the aggregated rows.
type Report struct {
	Title  string
	Period string
	Rows   []Row
}

var headers = []string{"Waktu", "Nama Operator", "Binning", "Picking", "Total Item", "Produktivitas (%)"}

func (r Row) record() []string {
	return []string{
		r.Time,
		r.OperatorName,
		strconv.Itoa(r.BinningCount),
		strconv.Itoa(r.PickingCount),
		strconv.Itoa(r.TotalItems),
		strconv.FormatFloat(r.Productivity, 'f', 2, 64),
	}
}
