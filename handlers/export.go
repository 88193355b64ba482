package handlers

import (
	"fmt"
	"io"
	"slices"

	"github.com/xuri/excelize/v2"

	"github.com/padraicbc/golfapi/scoring"
)

const leaderboardSheet = "Leaderboard"

// writeLeaderboardXLSX writes rows as a one-sheet workbook. Row 1 holds the
// tournament name, row 2 the headers, and one column is added per round number.
func writeLeaderboardXLSX(w io.Writer, name string, rows []scoring.Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), leaderboardSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	var numbers []int
	for _, r := range rows {
		for _, rp := range r.Rounds {
			if !slices.Contains(numbers, rp.RoundNumber) {
				numbers = append(numbers, rp.RoundNumber)
			}
		}
	}
	slices.Sort(numbers)

	header := []any{"Pos", "Player", "Stableford", "Back 9", "Front 9", "Gross"}
	for _, n := range numbers {
		header = append(header, fmt.Sprintf("R%d", n))
	}
	header = append(header, "Countback")

	if err := f.SetCellValue(leaderboardSheet, "A1", name); err != nil {
		return err
	}
	if err := setRow(f, 2, header); err != nil {
		return err
	}

	for i, r := range rows {
		line := []any{r.Position, r.PlayerName, r.Stableford, r.Back9, r.Front9, r.Gross}
		for _, n := range numbers {
			idx := slices.IndexFunc(r.Rounds, func(rp scoring.RoundPoints) bool { return rp.RoundNumber == n })
			if idx < 0 {
				line = append(line, "")
				continue
			}
			line = append(line, r.Rounds[idx].Points)
		}
		cb := ""
		if r.CountbackApplied {
			cb = "yes"
		}
		line = append(line, cb)
		if err := setRow(f, i+3, line); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(leaderboardSheet, "B", "B", 24); err != nil {
		return err
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, row int, cells []any) error {
	axis, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(leaderboardSheet, axis, &cells)
}
