// Command inspect prints the content of a dm-chat Badger store.
package main

import (
	"context"
	"dm-chat/repositories"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/kelseyhightower/envconfig"
	"github.com/olekukonko/tablewriter"
)

type Config struct {
	BadgerFilepath string `envconfig:"BADGER_FILEPATH" required:"true"`
	Prefix         string `envconfig:"INSPECT_PREFIX" default:""`
	Limit          int    `envconfig:"INSPECT_LIMIT" default:"200"`
	// INSPECT_COLOURS highlights each record kind
	Colours bool `envconfig:"INSPECT_COLOURS" default:"true"`
}

var kindStyles = map[string]color.Style{
	"room":   color.New(color.FgGreen, color.OpBold),
	"sub":    color.New(color.FgCyan),
	"msg":    color.New(color.FgYellow),
	"user":   color.New(color.FgMagenta),
	"pair":   color.New(color.FgBlue),
	"member": color.New(color.FgGray),
	"msgidx": color.New(color.FgGray),
}

func main() {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		log.Fatalf("Config error: %v", err)
	}
	prefix := flag.String("prefix", config.Prefix, "Key prefix to scan (room:, sub:, msg:, user:, pair:)")
	limit := flag.Int("limit", config.Limit, "Maximum number of keys, 0 for all")
	flag.Parse()
	if !config.Colours {
		color.Disable()
	}

	// Read-only, works next to a running server
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Kind", "Detail"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	count := 0
	err = repositories.Scan(context.Background(), db, *prefix, *limit, func(row repositories.InspectRow) error {
		kind := row.Kind
		if style, ok := kindStyles[kind]; ok {
			kind = style.Render(kind)
		}
		table.Append([]string{row.Key, kind, row.Detail})
		count++
		return nil
	})
	if err != nil {
		log.Fatalf("Scan failed: %v", err)
	}
	table.Render()
	fmt.Println(color.FgGray.Render(fmt.Sprintf("%d keys under %q", count, *prefix)))
}
