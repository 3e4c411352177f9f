package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/jessevdk/go-flags"

	"cleansweep/internal/database"
	"cleansweep/internal/exitcodes"
)

type options struct {
	DB     string `long:"db" description:"Path to the event history database" default:"/var/lib/cleansweep/history.db"`
	Recent int    `long:"recent" description:"Show N most recent events"`
	Kind   string `long:"kind" description:"Filter by event kind (BASE_DIR_SET, BASE_DIR_REVERTED, VALIDATION, CONFIRMATION, DISCOVERY)"`
	Failed int    `long:"failed" description:"Show N most recent failed validations"`
	Stats  bool   `long:"stats" description:"Show event statistics"`
	Days   int    `long:"days" description:"Number of days for statistics" default:"30"`
	JSON   bool   `long:"json" description:"Output in JSON format"`
	Vacuum bool   `long:"vacuum" description:"Compact the database file"`
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	var opts options
	parser := flags.NewParser(&opts, flags.Default^flags.PrintErrors)
	if _, err := parser.ParseArgs(args); err != nil {
		var flagErr *flags.Error
		if errors.As(err, &flagErr) && errors.Is(flagErr.Type, flags.ErrHelp) {
			fmt.Fprintln(os.Stdout, flagErr)
			return exitcodes.Success
		}
		log.Printf("ERROR: can't parse CLI flags: %v", err)
		return exitcodes.InvalidConfig
	}

	db, err := database.NewHistoryDB(opts.DB)
	if err != nil {
		log.Printf("ERROR: Failed to open database %s: %v", opts.DB, err)
		return exitcodes.RuntimeError
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("ERROR: Failed to close database: %v", err)
		}
	}()

	switch {
	case opts.Vacuum:
		err = db.Vacuum()
		if err == nil {
			fmt.Printf("Vacuumed %s\n", opts.DB)
		}
	case opts.Stats:
		err = showStats(db, opts.Days, opts.JSON)
	case opts.Recent > 0:
		err = showRecent(db, opts.Recent, opts.JSON)
	case opts.Kind != "":
		err = showByKind(db, opts.Kind, opts.JSON)
	case opts.Failed > 0:
		err = showFailed(db, opts.Failed, opts.JSON)
	default:
		parser.WriteHelp(os.Stdout)
		fmt.Println("\nExamples:")
		fmt.Println("  cleansweep-history --recent 10            # Show 10 most recent events")
		fmt.Println("  cleansweep-history --stats --days 7       # Show statistics for the last week")
		fmt.Println("  cleansweep-history --kind BASE_DIR_REVERTED")
		fmt.Println("  cleansweep-history --failed 5 --json      # Show failed validations as JSON")
		fmt.Println("  cleansweep-history --vacuum               # Compact the database")
		return exitcodes.InvalidConfig
	}

	if err != nil {
		log.Printf("ERROR: %v", err)
		return exitcodes.RuntimeError
	}
	return exitcodes.Success
}

func showStats(db *database.HistoryDB, days int, jsonOutput bool) error {
	stats, err := db.GetEventStats(days)
	if err != nil {
		return fmt.Errorf("failed to get statistics: %w", err)
	}

	if jsonOutput {
		return printJSON(stats)
	}

	fmt.Printf("Event Statistics (Last %d days)\n", days)
	fmt.Printf("Period: %s to %s\n\n", stats.StartDate.Format("2006-01-02"), stats.EndDate.Format("2006-01-02"))
	fmt.Printf("Total Events:        %d\n", stats.TotalEvents)
	fmt.Printf("Failed Validations:  %d\n", stats.FailedValidations)
	fmt.Printf("Base Dir Reverts:    %d\n\n", stats.Reverts)

	printCounts("By Kind:", stats.ByKind)
	printCounts("By Outcome:", stats.ByOutcome)
	return nil
}

func printCounts(title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Println(title)
	for _, k := range keys {
		fmt.Printf("  %-20s %d\n", k, counts[k])
	}
	fmt.Println()
}

func showRecent(db *database.HistoryDB, limit int, jsonOutput bool) error {
	events, err := db.GetRecentEvents(limit)
	if err != nil {
		return fmt.Errorf("failed to get recent events: %w", err)
	}
	if jsonOutput {
		return printJSON(events)
	}
	printEvents(events)
	return nil
}

func showByKind(db *database.HistoryDB, kind string, jsonOutput bool) error {
	events, err := db.GetEventsByKind(kind)
	if err != nil {
		return fmt.Errorf("failed to query by kind: %w", err)
	}
	if jsonOutput {
		return printJSON(events)
	}
	fmt.Printf("Events of kind: %s\n\n", kind)
	printEvents(events)
	return nil
}

func showFailed(db *database.HistoryDB, limit int, jsonOutput bool) error {
	events, err := db.GetFailedValidations(limit)
	if err != nil {
		return fmt.Errorf("failed to get failed validations: %w", err)
	}
	if jsonOutput {
		return printJSON(events)
	}
	fmt.Printf("Last %d failed validations:\n\n", limit)
	printEvents(events)
	return nil
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func printEvents(events []database.Event) {
	if len(events) == 0 {
		fmt.Println("No events found")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTimestamp\tKind\tField\tValidated\tOutcome\tPath")
	_, _ = fmt.Fprintln(w, "--\t---------\t----\t-----\t---------\t-------\t----")

	for _, e := range events {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%t\t%s\t%s\n",
			e.ID, e.Timestamp.Format("2006-01-02 15:04:05"), e.Kind, dash(e.FieldName), e.Validated, dash(e.Outcome), e.Path)
	}
	_ = w.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
