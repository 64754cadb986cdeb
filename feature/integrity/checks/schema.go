package checks

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"ahb-manager/core/database"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// SchemaReport strictly types the result of a schema integrity check.
type SchemaReport struct {
	Driver  string                 `json:"driver"`
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
	Errors  []string               `json:"errors"`
}

type TableReport struct {
	MissingColumns []string `json:"missing_columns"`
	TypeMismatches []string `json:"type_mismatches"`
	Status         string   `json:"status"` // "ok", "error"
}

// CheckSchema verifies the row store schema using the gorm models as the source of truth.
// models is keyed by table name.
func CheckSchema(db *gorm.DB, models map[string]any) (*SchemaReport, error) {
	if db == nil {
		return nil, errors.New("database connection is nil")
	}

	report := &SchemaReport{
		Driver:  db.Dialector.Name(),
		Tables:  make(map[string]TableReport),
		Matched: true,
	}

	tables := make([]string, 0, len(models))
	for name := range models {
		tables = append(tables, name)
	}
	sort.Strings(tables)

	cache := &sync.Map{}
	for _, table := range tables {
		expected, err := schema.Parse(models[table], cache, db.NamingStrategy)
		if err != nil {
			return nil, fmt.Errorf("failed to parse model for %s: %w", table, err)
		}

		actualCols, err := database.GetTableColumns(db, table)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Failed to inspect table %s: %v", table, err))
			report.Matched = false
			continue
		}

		tblReport := compareTable(expected, actualCols)
		if tblReport.Status != "ok" {
			report.Matched = false
		}
		report.Tables[table] = tblReport
	}

	return report, nil
}

func compareTable(expected *schema.Schema, actualCols []database.ColumnInfo) TableReport {
	tblReport := TableReport{
		MissingColumns: []string{},
		TypeMismatches: []string{},
		Status:         "ok",
	}

	actualMap := make(map[string]database.ColumnInfo, len(actualCols))
	for _, col := range actualCols {
		actualMap[col.Field] = col
	}

	for _, field := range expected.Fields {
		if field.DBName == "" {
			continue
		}
		actCol, exists := actualMap[field.DBName]
		if !exists {
			tblReport.MissingColumns = append(tblReport.MissingColumns, field.DBName)
			tblReport.Status = "error"
			continue
		}

		// Only explicit type tags are compared.
		expType := strings.ToLower(field.TagSettings["TYPE"])
		if expType != "" && !strings.Contains(actCol.Type, expType) {
			tblReport.TypeMismatches = append(tblReport.TypeMismatches,
				fmt.Sprintf("%s: expected %s, got %s", field.DBName, expType, actCol.Type))
			tblReport.Status = "error"
		}
	}
	return tblReport
}
