// Package database handles database connections and schema inspection.
//
// It wraps GORM and opens either SQLite (the default, a single file next to
// the binary) or MySQL, depending on Config.Driver.
//
// # Connect
//
// Connect opens the database, tunes the connection pool for the dialect and
// pings it within the configured timeout.
//
// # Schema Inspection
//
// GetTableColumns lists the columns of a table for both dialects. The
// integrity feature compares them with the columns the row store migrates.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "ahb_lines")
package database
