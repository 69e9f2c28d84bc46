package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// tableHeader returns the fixed column schema: 11 run-level columns followed
// by ten top_cpu triples and ten top_mem triples. The schema never varies with
// how many ranking slots a given row filled.
func tableHeader() []string {
	header := []string{
		"timestamp_unix", "timestamp_human", "hw_label",
		"cpu_percent", "ram_percent", "ram_used_gb",
		"disk_read_kb_s", "disk_write_kb_s",
		"net_sent_kb_s", "net_recv_kb_s",
		"charging",
	}
	for i := 1; i <= rankLimit; i++ {
		header = append(header,
			fmt.Sprintf("top_cpu_%d_pid", i),
			fmt.Sprintf("top_cpu_%d_name", i),
			fmt.Sprintf("top_cpu_%d_value", i),
		)
	}
	for i := 1; i <= rankLimit; i++ {
		header = append(header,
			fmt.Sprintf("top_mem_%d_pid", i),
			fmt.Sprintf("top_mem_%d_name", i),
			fmt.Sprintf("top_mem_%d_value", i),
		)
	}
	return header
}

// WriteTable serializes the sample record to a CSV file at path, one row per
// sample plus the header. The record itself is never modified, so a caller
// may retry a failed write against a different path.
func WriteTable(path, hwLabel string, samples []Sample) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file %q: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing output file %q: %w", path, closeErr)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(tableHeader()); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, sample := range samples {
		if err := w.Write(tableRow(hwLabel, sample)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}
	return nil
}

func tableRow(hwLabel string, s Sample) []string {
	row := []string{
		formatFloat(s.TimestampUnix),
		s.TimestampHuman,
		hwLabel,
		formatRounded(s.CPUPercent),
		formatRounded(s.MemoryPercent),
		formatRounded(s.MemoryUsedGB),
		formatRounded(s.DiskReadKBs),
		formatRounded(s.DiskWriteKBs),
		formatRounded(s.NetSentKBs),
		formatRounded(s.NetRecvKBs),
		strconv.FormatBool(s.Charging),
	}
	row = appendRankSlots(row, s.TopCPU, func(o ProcessObservation) float64 { return o.CPUShare })
	row = appendRankSlots(row, s.TopMem, func(o ProcessObservation) float64 { return o.MemoryShare })
	return row
}

// appendRankSlots writes exactly rankLimit triples, leaving unfilled slots
// blank so every row has the full column count.
func appendRankSlots(row []string, obs []ProcessObservation, value func(ProcessObservation) float64) []string {
	for i := 0; i < rankLimit; i++ {
		if i < len(obs) {
			row = append(row,
				strconv.FormatInt(int64(obs[i].PID), 10),
				obs[i].Name,
				formatRounded(value(obs[i])),
			)
		} else {
			row = append(row, "", "", "")
		}
	}
	return row
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatRounded renders a float rounded to 2 decimal places, the precision
// the output format mandates.
func formatRounded(v float64) string {
	return strconv.FormatFloat(round2(v), 'f', -1, 64)
}
