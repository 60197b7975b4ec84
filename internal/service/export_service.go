package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/noah-isme/registro-go-api/internal/models"
	"github.com/noah-isme/registro-go-api/internal/repository"
)

const matrixSheet = "Matriz"

// noDataPlaceholder is emitted instead of an empty grid when the range
// matches no rows.
const noDataPlaceholder = "Sin datos para el rango seleccionado"

// CellPolicy decides which status wins when two rows share the same
// (specialist, activity, unit) group and day.
type CellPolicy string

// Supported duplicate-cell policies. First preserves the legacy
// behaviour; last lets the newest row win.
const (
	CellPolicyFirst CellPolicy = "first"
	CellPolicyLast  CellPolicy = "last"
)

// ErrInvalidCellPolicy indicates an unknown duplicate-cell policy.
var ErrInvalidCellPolicy = errors.New("invalid cell policy")

// ParseCellPolicy normalizes a policy token; blank defaults to first.
func ParseCellPolicy(value string) (CellPolicy, error) {
	switch CellPolicy(strings.ToLower(strings.TrimSpace(value))) {
	case "", CellPolicyFirst:
		return CellPolicyFirst, nil
	case CellPolicyLast:
		return CellPolicyLast, nil
	}
	return "", ErrInvalidCellPolicy
}

// ExportService renders the monthly day-column matrix as an XLSX
// workbook.
type ExportService interface {
	ExportMonthMatrix(ctx context.Context, monthFirst, monthLast, specialist string, policy CellPolicy) ([]byte, error)
}

type exportService struct {
	repo   repository.ScheduleRepository
	logger zerolog.Logger
}

// NewExportService constructs the matrix exporter.
func NewExportService(repo repository.ScheduleRepository, logger zerolog.Logger) ExportService {
	return &exportService{
		repo:   repo,
		logger: logger.With().Str("component", "export_service").Logger(),
	}
}

// matrixRow is one pivoted (specialist, activity, unit) group with its
// per-day status cells.
type matrixRow struct {
	specialist string
	activity   string
	unit       string
	days       map[int]string
	filled     map[int]bool
}

func (s *exportService) ExportMonthMatrix(ctx context.Context, monthFirst, monthLast, specialist string, policy CellPolicy) ([]byte, error) {
	first, err := time.Parse(isoDate, monthFirst)
	if err != nil {
		return nil, ErrInvalidRange
	}
	last, err := time.Parse(isoDate, monthLast)
	if err != nil {
		return nil, ErrInvalidRange
	}
	if first.After(last) {
		return nil, ErrInvalidRange
	}
	if policy == "" {
		policy = CellPolicyFirst
	}

	records, err := s.repo.QueryRange(ctx, monthFirst, monthLast, strings.TrimSpace(specialist))
	if err != nil {
		return nil, err
	}

	workbook := excelize.NewFile()
	defer workbook.Close()
	workbook.SetSheetName(workbook.GetSheetName(0), matrixSheet)

	if len(records) == 0 {
		if err := workbook.SetCellValue(matrixSheet, "A1", noDataPlaceholder); err != nil {
			return nil, err
		}
		return workbookBytes(workbook)
	}

	rows := pivot(records, policy)
	maxDay := last.Day()

	if err := renderMatrix(workbook, first, rows, maxDay); err != nil {
		return nil, err
	}

	s.logger.Info().Int("groups", len(rows)).Int("rows", len(records)).Str("month", first.Format("2006-01")).Msg("matrix exported")
	return workbookBytes(workbook)
}

// pivot groups the query result by (specialist, activity, unit) and
// maps day-of-month to status. Groups are emitted sorted by the triple,
// matching the legacy pivot table.
func pivot(records []models.ScheduledActivity, policy CellPolicy) []*matrixRow {
	rows := make([]*matrixRow, 0)
	index := make(map[string]*matrixRow)

	for _, record := range records {
		key := record.Specialist + "\x00" + record.Activity + "\x00" + record.Unit
		row, ok := index[key]
		if !ok {
			row = &matrixRow{
				specialist: record.Specialist,
				activity:   record.Activity,
				unit:       record.Unit,
				days:       make(map[int]string),
				filled:     make(map[int]bool),
			}
			index[key] = row
			rows = append(rows, row)
		}

		date, err := time.Parse(isoDate, record.ScheduledDate)
		if err != nil {
			continue
		}
		day := date.Day()

		if row.filled[day] && policy == CellPolicyFirst {
			continue
		}
		row.days[day] = record.Status
		row.filled[day] = true
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.specialist != b.specialist {
			return a.specialist < b.specialist
		}
		if a.activity != b.activity {
			return a.activity < b.activity
		}
		return a.unit < b.unit
	})

	return rows
}

func renderMatrix(workbook *excelize.File, monthFirst time.Time, rows []*matrixRow, maxDay int) error {
	disabled := false
	if err := workbook.SetSheetView(matrixSheet, 0, &excelize.ViewOptions{ShowGridLines: &disabled}); err != nil {
		return err
	}

	titleStyle, err := workbook.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 14, Bold: true, Color: "1F4E79"},
	})
	if err != nil {
		return err
	}

	thin := excelize.Border{Style: 1, Color: "9E9E9E"}
	borders := []excelize.Border{
		{Type: "left", Style: thin.Style, Color: thin.Color},
		{Type: "right", Style: thin.Style, Color: thin.Color},
		{Type: "top", Style: thin.Style, Color: thin.Color},
		{Type: "bottom", Style: thin.Style, Color: thin.Color},
	}

	headerStyle, err := workbook.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1F4E79"}},
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    borders,
	})
	if err != nil {
		return err
	}

	leftStyle, err := workbook.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center", WrapText: true},
		Border:    borders,
	})
	if err != nil {
		return err
	}

	centerStyle, err := workbook.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    borders,
	})
	if err != nil {
		return err
	}

	title := fmt.Sprintf("Matriz mensual: %s", monthFirst.Format("2006-01"))
	if err := workbook.SetCellValue(matrixSheet, "A1", title); err != nil {
		return err
	}
	if err := workbook.SetCellStyle(matrixSheet, "A1", "A1", titleStyle); err != nil {
		return err
	}
	if err := workbook.MergeCell(matrixSheet, "A1", "AI1"); err != nil {
		return err
	}

	const headerRow = 3
	headers := []string{"Especialista", "Actividad", "Unidad de medida"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, headerRow)
		if err != nil {
			return err
		}
		if err := workbook.SetCellValue(matrixSheet, cell, header); err != nil {
			return err
		}
		if err := workbook.SetCellStyle(matrixSheet, cell, cell, headerStyle); err != nil {
			return err
		}
	}
	for day := 1; day <= maxDay; day++ {
		cell, err := excelize.CoordinatesToCellName(3+day, headerRow)
		if err != nil {
			return err
		}
		if err := workbook.SetCellValue(matrixSheet, cell, day); err != nil {
			return err
		}
		if err := workbook.SetCellStyle(matrixSheet, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	if err := workbook.SetColWidth(matrixSheet, "A", "A", 24); err != nil {
		return err
	}
	if err := workbook.SetColWidth(matrixSheet, "B", "B", 38); err != nil {
		return err
	}
	if err := workbook.SetColWidth(matrixSheet, "C", "C", 18); err != nil {
		return err
	}
	firstDayCol, err := excelize.ColumnNumberToName(4)
	if err != nil {
		return err
	}
	lastDayCol, err := excelize.ColumnNumberToName(3 + maxDay)
	if err != nil {
		return err
	}
	if err := workbook.SetColWidth(matrixSheet, firstDayCol, lastDayCol, 4.2); err != nil {
		return err
	}

	for i, row := range rows {
		rowNum := headerRow + 1 + i
		values := []string{row.specialist, row.activity, row.unit}
		styles := []int{leftStyle, leftStyle, centerStyle}
		for col := 0; col < 3; col++ {
			cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
			if err != nil {
				return err
			}
			if err := workbook.SetCellValue(matrixSheet, cell, values[col]); err != nil {
				return err
			}
			if err := workbook.SetCellStyle(matrixSheet, cell, cell, styles[col]); err != nil {
				return err
			}
		}
		for day := 1; day <= maxDay; day++ {
			cell, err := excelize.CoordinatesToCellName(3+day, rowNum)
			if err != nil {
				return err
			}
			if row.filled[day] {
				if err := workbook.SetCellValue(matrixSheet, cell, row.days[day]); err != nil {
					return err
				}
			}
			if err := workbook.SetCellStyle(matrixSheet, cell, cell, centerStyle); err != nil {
				return err
			}
		}
	}

	return nil
}

func workbookBytes(workbook *excelize.File) ([]byte, error) {
	buffer, err := workbook.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
