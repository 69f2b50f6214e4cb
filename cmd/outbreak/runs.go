package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/outbreak-xyz/go-outbreak/results"
	"github.com/outbreak-xyz/go-outbreak/store"
)

func runsCmd(args []string) error {
	fs := flag.NewFlagSet("runs", flag.ExitOnError)
	dbPath := fs.String("db", "runs.db", "SQLite run database")
	show := fs.String("show", "", "Print the full document for a run ID")
	export := fs.String("export", "", "With --show, write the document to this file instead")
	remove := fs.String("delete", "", "Delete a run by ID")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: outbreak runs [options]

List and manage runs archived with "simulate --db". Without --show or
--delete, lists all archived runs newest first.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  outbreak runs --db runs.db
  outbreak runs --db runs.db --show 6f1c... --export rerun.json
  outbreak runs --db runs.db --delete 6f1c...
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	db, err := store.NewSQLiteStore(*dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	ctx := context.Background()

	switch {
	case *remove != "":
		if err := db.Delete(ctx, *remove); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Deleted run %s\n", *remove)
		return nil

	case *show != "":
		r, err := db.Load(ctx, *show)
		if err != nil {
			return err
		}
		if *export != "" {
			if err := results.WriteJSON(r, *export); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Wrote run %s to %s\n", *show, *export)
			return nil
		}
		doc, err := results.ToJSON(r)
		if err != nil {
			return err
		}
		fmt.Println(doc)
		return nil

	default:
		runs, err := db.List(ctx)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No archived runs.")
			return nil
		}
		fmt.Printf("%-36s %-12s %-20s %8s %8s %-8s\n",
			"id", "name", "created", "r0", "days", "status")
		for _, r := range runs {
			fmt.Printf("%-36s %-12s %-20s %8.3f %8.1f %-8s\n",
				r.ID, r.Name, r.Created.Format("2006-01-02 15:04:05"), r.R0, r.FinalDay, r.Status)
		}
		return nil
	}
}
