// Command coursereport writes the course enrollment report.
// The API's background job runs it as an external process; its only
// interface is the exit code and stdout/stderr.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sahilchouksey/online-courses-api/config"
	"github.com/sahilchouksey/online-courses-api/database"
	"github.com/sahilchouksey/online-courses-api/services/report"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadENV(); err != nil {
		return err
	}
	env, err := config.Get()
	if err != nil {
		return err
	}

	db, err := database.OpenSQL(env)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), env.ReportTimeout())
	defer cancel()

	r, err := report.Build(ctx, db, time.Now())
	if err != nil {
		return err
	}

	path, err := r.WriteFile(env.REPORT_OUTPUT_DIR)
	if err != nil {
		return err
	}

	r.PrintSummary(os.Stdout)
	fmt.Printf("Report saved to: %s\n", path)
	return nil
}
