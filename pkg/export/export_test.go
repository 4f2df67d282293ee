package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() Report {
	return Report{
		Title:  "Laporan Produktivitas Mingguan",
		Period: "01 Jun 2025 - 30 Jun 2025",
		Rows: []Row{
			{Time: "02 Jun 2025", OperatorName: "Budi Santoso", BinningCount: 120, PickingCount: 80, TotalItems: 200, Productivity: 95.5},
			{Time: "03 Jun 2025", OperatorName: "Siti Rahma", BinningCount: 90, PickingCount: 110, TotalItems: 200, Productivity: 102.1},
		},
	}
}

func TestCSVRenderIncludesHeaderAndRows(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleReport())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Waktu,Nama Operator,Binning,Picking,Total Item,Produktivitas (%)", lines[0])
	assert.Equal(t, "02 Jun 2025,Budi Santoso,120,80,200,95.50", lines[1])
	assert.Equal(t, "03 Jun 2025,Siti Rahma,90,110,200,102.10", lines[2])
}

func TestCSVRenderEmptyReportKeepsHeader(t *testing.T) {
	out, err := NewCSVExporter().Render(Report{})
	require.NoError(t, err)
	assert.Equal(t, "Waktu,Nama Operator,Binning,Picking,Total Item,Produktivitas (%)\n", string(out))
}

func TestPDFRenderProducesDocument(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleReport())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF-"))
}
