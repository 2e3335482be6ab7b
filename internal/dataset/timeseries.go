package dataset

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"iiot-responder/pkg/errors"
)

// TimeSeries 一段时序窗口
type TimeSeries struct {
	SensorID   string    `json:"sensor_id"`
	Points     []float64 `json:"points"`
	SamplingHz float64   `json:"sampling_hz"`
}

// GetTimeSeries 读取 timeseries/<scenario>.csv 的 value 列最后 window 行；
// window<=0 表示整列。文件不存在为硬错误（ErrSourceMissing）
func (s *Source) GetTimeSeries(ctx context.Context, sensorID string, window int, scenario string) (*TimeSeries, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.path("timeseries", scenario, ".csv")
	if err != nil {
		return nil, err
	}
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return nil, errors.Wrapf(err, "read header of %s", path)
	}
	col := -1
	for i, h := range header {
		if strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) == "value" {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, errors.Wrapf(errors.ErrInvalidArg, "%s has no value column", path)
	}

	var points []float64
	for row := 2; ; row++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", path)
		}
		if col >= len(rec) || strings.TrimSpace(rec[col]) == "" {
			return nil, errors.Wrapf(errors.ErrInvalidArg, "%s row %d: missing value", path, row)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[col]), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "%s row %d", path, row)
		}
		points = append(points, v)
	}
	if window > 0 && len(points) > window {
		points = points[len(points)-window:]
	}
	return &TimeSeries{SensorID: sensorID, Points: points, SamplingHz: 1.0}, nil
}
