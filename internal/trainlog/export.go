package trainlog

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var csvHeader = []string{
	"athleteName", "sessionDate", "timeSlot",
	"duration", "distance", "rpe",
	"performance", "engagement", "fatigue",
	"load", "comments",
}

// WriteCSV renders the sessions as a spreadsheet-friendly csv. Newlines
// inside comments collapse to spaces so each record stays on one row
// even for readers that don't honor quoting.
func WriteCSV(w io.Writer, sessions []SessionRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, rec := range sessions {
		row := []string{
			rec.AthleteName,
			rec.SessionDate.Key(),
			string(rec.TimeSlot),
			strconv.Itoa(rec.Duration),
			optIntKey(rec.Distance),
			strconv.Itoa(rec.RPE),
			optIntKey(rec.Performance),
			optIntKey(rec.Engagement),
			optIntKey(rec.Fatigue),
			strconv.Itoa(rec.Load()),
			strings.ReplaceAll(rec.Comments, "\n", " "),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON renders the sessions as indented json, the same shape the
// store keeps on disk.
func WriteJSON(w io.Writer, sessions []SessionRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(sessions)
}
