package share

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/rook-computer/crosshair/internal/crosshair"
)

const WorkbookSheet = "Crosshairs"

var workbookHeaders = []string{
	"id", "name", "color", "outlineColor", "hasOutline", "shape",
	"thickness", "length", "gap", "opacity", "blur", "positionX", "positionY",
	"scale", "rotation", "showDot", "dotSize", "animated", "animationSpeed",
}

// WriteWorkbook writes configs as a spreadsheet, one row per configuration
// and one column per field.
func WriteWorkbook(w io.Writer, configs []crosshair.Config) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(WorkbookSheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := workbookHeaders
	if err := f.SetSheetRow(WorkbookSheet, "A1", &headers); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, cfg := range configs {
		row := []interface{}{
			cfg.ID, cfg.Name, cfg.Color, cfg.OutlineColor, cfg.HasOutline, string(cfg.Shape),
			cfg.Thickness, cfg.Length, cfg.Gap, cfg.Opacity, cfg.Blur, cfg.Position.X, cfg.Position.Y,
			cfg.Scale, cfg.Rotation, cfg.ShowDot, cfg.DotSize, cfg.Animated, cfg.AnimationSpeed,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(WorkbookSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(WorkbookSheet, "A", "B", 24); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// ReadWorkbook reads configurations back from a workbook written by
// WriteWorkbook. Columns are matched by header name, so reordered sheets
// still load; missing columns keep their default values.
func ReadWorkbook(r io.Reader) ([]crosshair.Config, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &DecodeError{Kind: ErrInvalidPayload, Cause: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &DecodeError{Kind: ErrInvalidPayload, Cause: fmt.Errorf("workbook has no sheets")}
	}
	sheet := sheets[0]
	for _, name := range sheets {
		if name == WorkbookSheet {
			sheet = name
		}
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &DecodeError{Kind: ErrInvalidPayload, Cause: err}
	}
	if len(rows) == 0 {
		return []crosshair.Config{}, nil
	}

	columns := map[string]int{}
	for i, h := range rows[0] {
		columns[h] = i
	}
	configs := make([]crosshair.Config, 0, len(rows)-1)
	for i, row := range rows[1:] {
		cfg, err := configFromRow(row, columns)
		if err != nil {
			return nil, &DecodeError{Kind: ErrInvalidPayload, Cause: fmt.Errorf("row %d: %w", i+2, err)}
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}

func configFromRow(row []string, columns map[string]int) (crosshair.Config, error) {
	cfg := crosshair.Default()
	get := func(name string) (string, bool) {
		i, ok := columns[name]
		if !ok || i >= len(row) || row[i] == "" {
			return "", false
		}
		return row[i], true
	}

	var firstErr error
	setString := func(name string, dst *string) {
		if v, ok := get(name); ok {
			*dst = v
		}
	}
	setInt := func(name string, dst *int) {
		if v, ok := get(name); ok && firstErr == nil {
			n, err := strconv.Atoi(v)
			if err != nil {
				firstErr = fmt.Errorf("%s: %w", name, err)
				return
			}
			*dst = n
		}
	}
	setFloat := func(name string, dst *float64) {
		if v, ok := get(name); ok && firstErr == nil {
			n, err := strconv.ParseFloat(v, 64)
			if err != nil {
				firstErr = fmt.Errorf("%s: %w", name, err)
				return
			}
			*dst = n
		}
	}
	setBool := func(name string, dst *bool) {
		if v, ok := get(name); ok && firstErr == nil {
			b, err := strconv.ParseBool(v)
			if err != nil {
				firstErr = fmt.Errorf("%s: %w", name, err)
				return
			}
			*dst = b
		}
	}

	setString("id", &cfg.ID)
	setString("name", &cfg.Name)
	setString("color", &cfg.Color)
	setString("outlineColor", &cfg.OutlineColor)
	setBool("hasOutline", &cfg.HasOutline)
	if v, ok := get("shape"); ok {
		if err := cfg.Shape.UnmarshalText([]byte(v)); err != nil {
			return cfg, err
		}
	}
	setInt("thickness", &cfg.Thickness)
	setInt("length", &cfg.Length)
	setInt("gap", &cfg.Gap)
	setInt("opacity", &cfg.Opacity)
	setFloat("blur", &cfg.Blur)
	setFloat("positionX", &cfg.Position.X)
	setFloat("positionY", &cfg.Position.Y)
	setFloat("scale", &cfg.Scale)
	setInt("rotation", &cfg.Rotation)
	setBool("showDot", &cfg.ShowDot)
	setInt("dotSize", &cfg.DotSize)
	setBool("animated", &cfg.Animated)
	setFloat("animationSpeed", &cfg.AnimationSpeed)
	if firstErr != nil {
		return cfg, firstErr
	}
	return cfg, cfg.Validate()
}
