package eval

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// 输出文件名
const (
	MetricsFile   = "metrics.csv"
	ConfusionFile = "confusion_matrix.csv"
)

// WriteMetrics 写 metrics.csv（scenario,label,pred,correct,confidence）
func WriteMetrics(rows []Row, outdir string) (string, error) {
	records := [][]string{{"scenario", "label", "pred", "correct", "confidence"}}
	for _, r := range rows {
		correct := "0"
		if r.Correct {
			correct = "1"
		}
		records = append(records, []string{
			r.Scenario, r.Label, r.Pred, correct,
			strconv.FormatFloat(r.Confidence, 'f', -1, 64),
		})
	}
	return writeCSV(filepath.Join(outdir, MetricsFile), records)
}

// WriteConfusion 写 confusion_matrix.csv，首列为标注、表头为预测
func WriteConfusion(c Confusion, outdir string) (string, error) {
	header := append([]string{"label\\pred"}, c.Categories...)
	records := [][]string{header}
	for i, label := range c.Categories {
		row := []string{label}
		for _, n := range c.Matrix[i] {
			row = append(row, strconv.Itoa(n))
		}
		records = append(records, row)
	}
	return writeCSV(filepath.Join(outdir, ConfusionFile), records)
}

func writeCSV(path string, records [][]string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
