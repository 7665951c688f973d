package binning

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/stat"
)

// AssemblerSummary is one assembler pipeline's counters, collected for the
// run report.
type AssemblerSummary struct {
	Assembler    string  `dataframe:"assembler"`
	ReadSamples  int     `dataframe:"read_samples"`
	Matched      int     `dataframe:"matched"`
	ReadsOnly    int     `dataframe:"reads_only"`
	AssemblyOnly int     `dataframe:"assembly_only"`
	Submitted    int     `dataframe:"submitted"`
	Failed       int     `dataframe:"failed"`
	MeanContigMB float64 `dataframe:"mean_contig_mb"`
	MedContigMB  float64 `dataframe:"median_contig_mb"`
}

// ContigSizeStats summarises the on-disk sizes (MB) of the matched contig
// files; an early read on whether an assembler produced unusually small
// assemblies.
func ContigSizeStats(jobs []MatchedJob) (mean float64, median float64) {
	var sizes []float64
	for _, job := range jobs {
		info, err := os.Stat(job.Contigs)
		if err != nil {
			continue
		}
		sizes = append(sizes, float64(info.Size())/1e6)
	}
	if len(sizes) == 0 {
		return 0, 0
	}
	sort.Float64s(sizes)
	return stat.Mean(sizes, nil), stat.Quantile(0.5, stat.Empirical, sizes, nil)
}

// WriteRunReport writes the per-assembler summary as CSV and renders an HTML
// page with the matched/submitted/failed counts.
func WriteRunReport(outputDir string, summaries []AssemblerSummary) error {
	csvPath := filepath.Join(outputDir, "binning_summary.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("cannot create summary %s: %w", csvPath, err)
	}
	defer csvFile.Close()

	df := dataframe.LoadStructs(summaries)
	if df.Err != nil {
		return fmt.Errorf("building summary dataframe: %w", df.Err)
	}
	if err := df.WriteCSV(csvFile); err != nil {
		return fmt.Errorf("writing summary %s: %w", csvPath, err)
	}

	htmlPath := filepath.Join(outputDir, "binning_report.html")
	htmlFile, err := os.Create(htmlPath)
	if err != nil {
		return fmt.Errorf("cannot create report %s: %w", htmlPath, err)
	}
	defer htmlFile.Close()

	page := components.NewPage()
	page.SetLayout(components.PageFlexLayout)
	page.AddCharts(createOutcomeChart(summaries))
	if err := page.Render(htmlFile); err != nil {
		return fmt.Errorf("rendering report %s: %w", htmlPath, err)
	}
	return nil
}

func createOutcomeChart(summaries []AssemblerSummary) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		charts.WithTitleOpts(opts.Title{Title: "Binning batch outcomes"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Samples"}),
	)

	var assemblers []string
	var matched, submitted, failed []opts.BarData
	for _, s := range summaries {
		assemblers = append(assemblers, s.Assembler)
		matched = append(matched, opts.BarData{Value: s.Matched})
		submitted = append(submitted, opts.BarData{Value: s.Submitted})
		failed = append(failed, opts.BarData{Value: s.Failed})
	}

	bar.SetXAxis(assemblers).
		AddSeries("matched", matched).
		AddSeries("submitted", submitted).
		AddSeries("failed", failed)
	return bar
}
