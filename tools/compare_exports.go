// compare_exports compares a CSV export and a SQLite export of the same
// MARC input. This is a tool for validating that sinks agree on every cell.
//
// Usage:
//
//	go run tools/compare_exports.go --csv out.csv --db out.db --table records
package main

import (
	"database/sql"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	_ "modernc.org/sqlite"
)

type ComparisonResult struct {
	CSVRows        int
	SQLiteRows     int
	ColumnsMatch   bool
	DifferentCells int
	FirstDiffs     []string
}

func main() {
	csvPath := flag.String("csv", "", "CSV export")
	dbPath := flag.String("db", "", "SQLite database")
	table := flag.String("table", "records", "SQLite table")
	maxDiffs := flag.Int("max-diffs", 10,
		"Number of differences to show")

	flag.Parse()

	if *csvPath == "" || *dbPath == "" {
		fmt.Println("Error: --csv and --db are required")
		flag.Usage()
		os.Exit(1)
	}

	f, err := os.Open(*csvPath)
	if err != nil {
		log.Fatalf("Failed to open CSV: %v", err)
	}
	defer f.Close()

	db, err := sql.Open("sqlite", *dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	fmt.Printf("Comparing %s with %s:%s\n", *csvPath, *dbPath, *table)
	fmt.Println(strings.Repeat("=", 3))
	fmt.Println()

	result := &ComparisonResult{}
	if err = compare(csv.NewReader(f), db, *table, *maxDiffs, result); err != nil {
		log.Fatalf("Failed to compare: %v", err)
	}

	fmt.Println("Row Counts")
	fmt.Println("----------")
	fmt.Printf("  rows: %s\n", compareInts(result.CSVRows, result.SQLiteRows))
	fmt.Println()

	printSummary(result)
}

func compare(
	cr *csv.Reader,
	db *sql.DB,
	table string,
	maxDiffs int,
	result *ComparisonResult,
) error {
	header, err := cr.Read()
	if err != nil {
		return fmt.Errorf("csv header: %w", err)
	}

	q := fmt.Sprintf(`SELECT * FROM "%s" ORDER BY rowid`, table)
	rows, err := db.Query(q)
	if err != nil {
		return err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return err
	}
	result.ColumnsMatch = strings.Join(cols, ",") == strings.Join(header, ",")
	if !result.ColumnsMatch {
		return nil
	}

	vals := make([]sql.NullString, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}

	for rows.Next() {
		if err = rows.Scan(ptrs...); err != nil {
			return err
		}
		result.SQLiteRows++

		rec, err := cr.Read()
		if err == io.EOF {
			continue
		}
		if err != nil {
			return err
		}
		result.CSVRows++

		for i, v := range vals {
			// absent values are empty in CSV and NULL in SQLite
			if v.String == rec[i] {
				continue
			}
			result.DifferentCells++
			if len(result.FirstDiffs) < maxDiffs {
				result.FirstDiffs = append(result.FirstDiffs,
					fmt.Sprintf("row %d %s: %s",
						result.SQLiteRows, cols[i], compareStrings(rec[i], v.String)))
			}
		}
	}
	if err = rows.Err(); err != nil {
		return err
	}

	for {
		_, err = cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		result.CSVRows++
	}
	return nil
}

func compareStrings(a, b string) string {
	if a == b {
		return fmt.Sprintf("✓ %s", a)
	}
	return fmt.Sprintf("✗ csv='%s' sqlite='%s'", a, b)
}

func compareInts(a, b int) string {
	if a == b {
		return fmt.Sprintf("✓ %d", a)
	}
	return fmt.Sprintf("✗ csv=%d sqlite=%d (diff: %d)", a, b, b-a)
}

func printSummary(result *ComparisonResult) {
	allMatch := result.ColumnsMatch &&
		result.CSVRows == result.SQLiteRows &&
		result.DifferentCells == 0

	if allMatch {
		fmt.Println("  ✓ All comparisons match!")
		fmt.Println("  The exports are identical.")
		return
	}

	fmt.Println("  ✗ Differences found:")
	if !result.ColumnsMatch {
		fmt.Printf("    - Columns differ\n")
	}
	if result.CSVRows != result.SQLiteRows {
		fmt.Printf("    - Row count differs\n")
	}
	if result.DifferentCells > 0 {
		fmt.Printf("    - %d cells differ\n", result.DifferentCells)
		for _, v := range result.FirstDiffs {
			fmt.Printf("      %s\n", v)
		}
	}
}
