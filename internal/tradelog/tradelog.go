// Package tradelog appends fills and decisions to daily JSONL files under
// the log directory. Fill files double as the file-backed ledger driver for
// setups without postgres.
package tradelog

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var mu sync.Mutex

const timeLayout = "2006-01-02 15:04:05"

type FillEntry struct {
	Time        string `json:"time"`
	Market      string `json:"market"`
	Side        string `json:"side"`
	OrderID     string `json:"order_id,omitempty"`
	Quantity    string `json:"quantity"`
	Price       string `json:"price"`
	TotalAmount string `json:"total_amount"`
	DryRun      bool   `json:"dry_run,omitempty"`
}

type DecisionEntry struct {
	Time       string             `json:"time"`
	Market     string             `json:"market"`
	Action     string             `json:"action"`
	Percentage int                `json:"percentage"`
	Reason     string             `json:"reason,omitempty"`
	Price      float64            `json:"price"`
	Indicators map[string]float64 `json:"indicators,omitempty"`
	Forced     bool               `json:"forced,omitempty"`
}

func logDir() string {
	if v := os.Getenv("TRADER_LOG_DIR"); v != "" {
		return v
	}
	return "logs"
}

func fillsFilepath(t time.Time) string {
	return filepath.Join(logDir(), "fills", t.Format("2006-01-02")+".jsonl")
}

func decisionsFilepath(t time.Time) string {
	return filepath.Join(logDir(), "decisions", t.Format("2006-01-02")+".jsonl")
}

func appendLine(p string, v any) error {
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	b, _ := json.Marshal(v)
	_, err = fmt.Fprintln(f, string(b))
	return err
}

func AppendFill(e FillEntry) error {
	mu.Lock()
	defer mu.Unlock()
	now := time.Now()
	if e.Time == "" {
		e.Time = now.Format(timeLayout)
	}
	return appendLine(fillsFilepath(now), e)
}

func AppendDecision(e DecisionEntry) error {
	mu.Lock()
	defer mu.Unlock()
	now := time.Now()
	e.Time = now.Format(timeLayout)
	return appendLine(decisionsFilepath(now), e)
}

// ReadFills returns every fill recorded in the last `days` daily files,
// oldest first. Used by the file ledger driver.
func ReadFills(days int) ([]FillEntry, error) {
	mu.Lock()
	defer mu.Unlock()
	var out []FillEntry
	now := time.Now()
	for i := days - 1; i >= 0; i-- {
		p := fillsFilepath(now.AddDate(0, 0, -i))
		f, err := os.Open(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			var e FillEntry
			if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
				continue
			}
			out = append(out, e)
		}
		err = sc.Err()
		f.Close()
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// CompressOlder gzips daily files older than the retention window and
// removes the originals.
func CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	root := logDir()
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	return filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(p) != ".jsonl" {
			return nil
		}
		info, er := os.Stat(p)
		if er != nil || !info.ModTime().Before(cutoff) {
			return nil
		}
		gz := p + ".gz"
		if _, e2 := os.Stat(gz); e2 == nil {
			_ = os.Remove(p)
			return nil
		}
		in, e3 := os.Open(p)
		if e3 != nil {
			return nil
		}
		defer in.Close()
		out, e4 := os.OpenFile(gz, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if e4 != nil {
			return nil
		}
		gw := gzip.NewWriter(out)
		if _, e5 := io.Copy(gw, in); e5 == nil {
			_ = gw.Close()
			_ = out.Close()
			_ = os.Remove(p)
		} else {
			_ = gw.Close()
			_ = out.Close()
		}
		return nil
	})
}
