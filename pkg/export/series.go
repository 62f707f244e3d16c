// Package export streams sampled curves to disk or any writer.
package export

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/oxygene76/univers-client/pkg/physics"
)

// SeriesMeta describes a curve before its points are written.
type SeriesMeta struct {
	Name   string `json:"name"`
	XLabel string `json:"x"`
	YLabel string `json:"y"`
	Points int    `json:"points"`
}

// SeriesSink receives a curve point by point.
type SeriesSink interface {
	OnStart(meta SeriesMeta) error
	OnPoint(p physics.DataPoint) error
	OnEnd() error
	Close() error
}

// Format is an on-disk encoding for series.
type Format string

const (
	FormatJSONL Format = "jsonl"
	FormatCSV   Format = "csv"
)

// ParseFormat accepts jsonl or csv, or infers the format from a file extension.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if i := strings.LastIndex(s, "."); i >= 0 {
		s = s[i+1:]
	}
	switch s {
	case "jsonl", "ndjson":
		return FormatJSONL, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (use: jsonl, csv)", s)
	}
}

// Create opens path and returns a sink of the given format writing to it.
func Create(path string, format Format) (SeriesSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatCSV:
		return newCSVWriter(f, f), nil
	case FormatJSONL:
		return newJSONLWriter(f, f), nil
	default:
		f.Close()
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// Write drives a sink through a whole series and closes it.
func Write(sink SeriesSink, meta SeriesMeta, points []physics.DataPoint) (err error) {
	defer func() {
		if cerr := sink.Close(); err == nil {
			err = cerr
		}
	}()

	meta.Points = len(points)
	if err := sink.OnStart(meta); err != nil {
		return err
	}
	for _, p := range points {
		if err := sink.OnPoint(p); err != nil {
			return err
		}
	}
	return sink.OnEnd()
}

// JSONLWriter writes one JSON object per line: a header then one line per point.
type JSONLWriter struct {
	c  io.Closer
	bw *bufio.Writer
}

type jsonlHeader struct {
	Series SeriesMeta `json:"series"`
}

// NewJSONLWriter writes JSON lines to w. Close flushes but does not close w.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	return newJSONLWriter(w, nil)
}

func newJSONLWriter(w io.Writer, c io.Closer) *JSONLWriter {
	return &JSONLWriter{c: c, bw: bufio.NewWriter(w)}
}

func (w *JSONLWriter) OnStart(meta SeriesMeta) error {
	return w.line(jsonlHeader{Series: meta})
}

func (w *JSONLWriter) OnPoint(p physics.DataPoint) error {
	return w.line(p)
}

func (w *JSONLWriter) line(v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.bw.Write(b); err != nil {
		return err
	}
	return w.bw.WriteByte('\n')
}

func (w *JSONLWriter) OnEnd() error { return w.bw.Flush() }

func (w *JSONLWriter) Close() error {
	if err := w.bw.Flush(); err != nil {
		return err
	}
	if w.c != nil {
		return w.c.Close()
	}
	return nil
}

// CSVWriter writes a header row of axis labels followed by one row per point.
type CSVWriter struct {
	c  io.Closer
	cw *csv.Writer
}

// NewCSVWriter writes CSV to w. Close flushes but does not close w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return newCSVWriter(w, nil)
}

func newCSVWriter(w io.Writer, c io.Closer) *CSVWriter {
	return &CSVWriter{c: c, cw: csv.NewWriter(w)}
}

func (w *CSVWriter) OnStart(meta SeriesMeta) error {
	x, y := meta.XLabel, meta.YLabel
	if x == "" {
		x = "x"
	}
	if y == "" {
		y = "y"
	}
	return w.cw.Write([]string{x, y})
}

func (w *CSVWriter) OnPoint(p physics.DataPoint) error {
	return w.cw.Write([]string{
		strconv.FormatFloat(p.X, 'g', -1, 64),
		strconv.FormatFloat(p.Y, 'g', -1, 64),
	})
}

func (w *CSVWriter) OnEnd() error {
	w.cw.Flush()
	return w.cw.Error()
}

func (w *CSVWriter) Close() error {
	if err := w.OnEnd(); err != nil {
		return err
	}
	if w.c != nil {
		return w.c.Close()
	}
	return nil
}
