package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spacesedan/brandvoice/internal/models"
)

var (
	postsHeader         = []string{"keyword", "platform", "post_id", "title", "description", "channel", "publishedAt", "views", "likes", "comments", "brand_hits", "weight"}
	brandCommentsHeader = []string{"post_id", "comment_id", "brand", "text", "label", "compound", "pos", "neg", "neu"}
	sovHeader           = []string{"brand", "brand_weight", "sov"}
	spvHeader           = []string{"brand", "spv", "pos", "neg", "neu", "total"}
)

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("[Export] failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := encodeCSV(f, header, rows); err != nil {
		return fmt.Errorf("[Export] failed to write %s: %w", path, err)
	}
	return f.Close()
}

func encodeCSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

func WritePosts(path string, posts []models.ContentItem) error {
	rows := make([][]string, 0, len(posts))
	for _, p := range posts {
		rows = append(rows, []string{
			p.Keyword,
			p.Platform,
			p.ID,
			p.Title,
			p.Description,
			p.Channel,
			p.PublishedAt,
			strconv.FormatInt(p.Views, 10),
			strconv.FormatInt(p.Likes, 10),
			strconv.FormatInt(p.Comments, 10),
			p.BrandHits.String(),
			formatFloat(p.Weight),
		})
	}
	return writeCSV(path, postsHeader, rows)
}

func WriteBrandComments(path string, comments []models.BrandComment) error {
	rows := make([][]string, 0, len(comments))
	for _, c := range comments {
		rows = append(rows, []string{
			c.PostID,
			c.CommentID,
			c.Brand,
			c.Text,
			c.Label,
			formatFloat(c.Compound),
			formatFloat(c.Pos),
			formatFloat(c.Neg),
			formatFloat(c.Neu),
		})
	}
	return writeCSV(path, brandCommentsHeader, rows)
}

func WriteSoV(path string, shares []models.BrandShare) error {
	rows := make([][]string, 0, len(shares))
	for _, s := range shares {
		rows = append(rows, []string{s.Brand, formatFloat(s.Weight), formatFloat(s.Share)})
	}
	return writeCSV(path, sovHeader, rows)
}

// WriteSPV writes SPV rows; a missing SPV is written as an empty cell.
func WriteSPV(path string, shares []models.BrandSentimentShare) error {
	rows := make([][]string, 0, len(shares))
	for _, s := range shares {
		rows = append(rows, []string{
			s.Brand,
			s.SPV.Format(-1),
			strconv.Itoa(s.Pos),
			strconv.Itoa(s.Neg),
			strconv.Itoa(s.Neu),
			strconv.Itoa(s.Total),
		})
	}
	return writeCSV(path, spvHeader, rows)
}

func readCSV(path string, header []string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("[Export] failed to open %s: %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("[Export] failed to parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("[Export] %s is empty", path)
	}
	if len(records[0]) != len(header) {
		return nil, fmt.Errorf("[Export] %s has %d columns, want %d", path, len(records[0]), len(header))
	}
	return records[1:], nil
}

func ReadSoV(path string) ([]models.BrandShare, error) {
	records, err := readCSV(path, sovHeader)
	if err != nil {
		return nil, err
	}

	shares := make([]models.BrandShare, 0, len(records))
	for i, r := range records {
		weight, err := strconv.ParseFloat(r[1], 64)
		if err != nil {
			return nil, fmt.Errorf("[Export] %s row %d: bad brand_weight: %w", path, i+2, err)
		}
		share, err := strconv.ParseFloat(r[2], 64)
		if err != nil {
			return nil, fmt.Errorf("[Export] %s row %d: bad sov: %w", path, i+2, err)
		}
		shares = append(shares, models.BrandShare{Brand: r[0], Weight: weight, Share: share})
	}
	return shares, nil
}

func ReadSPV(path string) ([]models.BrandSentimentShare, error) {
	records, err := readCSV(path, spvHeader)
	if err != nil {
		return nil, err
	}

	shares := make([]models.BrandSentimentShare, 0, len(records))
	for i, r := range records {
		row := models.BrandSentimentShare{Brand: r[0], SPV: models.MissingRatio()}
		if r[1] != "" {
			v, err := strconv.ParseFloat(r[1], 64)
			if err != nil {
				return nil, fmt.Errorf("[Export] %s row %d: bad spv: %w", path, i+2, err)
			}
			row.SPV = models.SomeRatio(v)
		}

		counts := make([]int, 4)
		for j := range counts {
			n, err := strconv.Atoi(r[j+2])
			if err != nil {
				return nil, fmt.Errorf("[Export] %s row %d: bad count in column %s: %w", path, i+2, spvHeader[j+2], err)
			}
			counts[j] = n
		}
		row.Pos, row.Neg, row.Neu, row.Total = counts[0], counts[1], counts[2], counts[3]

		shares = append(shares, row)
	}
	return shares, nil
}
