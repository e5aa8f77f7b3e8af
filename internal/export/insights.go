package export

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/russross/blackfriday/v2"
	"github.com/spacesedan/brandvoice/internal/metrics"
	"github.com/spacesedan/brandvoice/internal/models"
)

const (
	INSIGHTS_TOP_BRANDS = 5
	NO_MENTIONS_MESSAGE = "No brand mentions detected in the selected corpus. Consider increasing Top-N or keywords."
	INSIGHTS_TIP        = "*Tip:* Try more keywords like 'BLDC fan', 'voice control fan', 'IoT fan'."
)

// ComposeInsights renders the markdown summary of a run: the top brands by
// SoV and, when any brand was discussed in comments, the SPV table sorted by
// SPV.
func ComposeInsights(sov []models.BrandShare, spv []models.BrandSentimentShare) string {
	var b strings.Builder
	b.WriteString("# Insights (Auto-Generated)\n")

	if len(sov) == 0 {
		b.WriteString(NO_MENTIONS_MESSAGE)
		b.WriteString("\n")
		return b.String()
	}

	top := sov
	if len(top) > INSIGHTS_TOP_BRANDS {
		top = top[:INSIGHTS_TOP_BRANDS]
	}

	b.WriteString("\n## Top Brands by SoV\n\n")
	rows := make([][]string, 0, len(top))
	for _, s := range top {
		rows = append(rows, []string{s.Brand, formatDecimal(s.Weight), formatDecimal(s.Share)})
	}
	writeMarkdownTable(&b, sovHeader, rows)

	if len(spv) > 0 {
		b.WriteString("\n## Share of Positive Voice (SPV)\n\n")
		rows = make([][]string, 0, len(spv))
		for _, s := range metrics.SortSPVForPresentation(spv) {
			rows = append(rows, []string{
				s.Brand,
				s.SPV.Format(4),
				strconv.Itoa(s.Pos),
				strconv.Itoa(s.Neg),
				strconv.Itoa(s.Neu),
				strconv.Itoa(s.Total),
			})
		}
		writeMarkdownTable(&b, spvHeader, rows)
	}

	b.WriteString("\n")
	b.WriteString(INSIGHTS_TIP)
	b.WriteString("\n")
	return b.String()
}

// RenderInsightsHTML turns the insights markdown into a standalone HTML page.
func RenderInsightsHTML(markdown string) []byte {
	body := blackfriday.Run([]byte(markdown), blackfriday.WithExtensions(blackfriday.CommonExtensions))

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>Insights</title>\n</head>\n<body>\n")
	b.Write(body)
	b.WriteString("</body>\n</html>\n")
	return []byte(b.String())
}

func formatDecimal(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}

func writeMarkdownTable(b *strings.Builder, header []string, rows [][]string) {
	fmt.Fprintf(b, "| %s |\n", strings.Join(header, " | "))

	sep := make([]string, len(header))
	for i := range sep {
		sep[i] = "---"
	}
	fmt.Fprintf(b, "| %s |\n", strings.Join(sep, " | "))

	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = strings.ReplaceAll(cell, "|", `\|`)
		}
		fmt.Fprintf(b, "| %s |\n", strings.Join(cells, " | "))
	}
}
