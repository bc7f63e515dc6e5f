package main

import (
	"channel-gate/repositories"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/kelseyhightower/envconfig"
	"github.com/olekukonko/tablewriter"
)

type Config struct {
	IdentityStorePath string `envconfig:"IDENTITY_STORE_PATH"`
	// INSPECT_COLOURS highlights the summary line
	Colours bool `envconfig:"INSPECT_COLOURS" default:"true"`
}

func main() {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		log.Fatal("Error while reading the environment: ", err)
	}
	dbPath := flag.String("db", config.IdentityStorePath, "Path to the identity store")
	flag.Parse()

	if *dbPath == "" {
		log.Fatal("No identity store: set IDENTITY_STORE_PATH or -db")
	}

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	entries, err := repositories.ScanIdentities(db)
	if err != nil {
		log.Fatal(err)
	}
	render(os.Stdout, entries, time.Now(), config.Colours)
}

func render(w io.Writer, entries []repositories.DiskIdentity, now time.Time, colours bool) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Session", "User", "Attributes", "Watchlist", "Stored", "Expires in"})
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

	for _, entry := range entries {
		table.Append([]string{
			entry.Session,
			entry.Identity.ID,
			attributes(entry.Identity.Attributes),
			strings.Join(entry.Identity.Watchlist, ","),
			time.UnixMilli(entry.StoredAt).Format("15:04:05"),
			expiresIn(entry.ExpiresAt, now),
		})
	}
	table.Render()
	summary := fmt.Sprintf("%d session(s)", len(entries))
	if colours {
		summary = color.New(color.BgBlack, color.FgGreen).Render(summary)
	}
	fmt.Fprintln(w, summary)
}

func attributes(attrs map[string]string) string {
	pairs := make([]string, 0, len(attrs))
	for k, v := range attrs {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, " ")
}

func expiresIn(expiresAt uint64, now time.Time) string {
	if expiresAt == 0 {
		return "never"
	}
	return time.Unix(int64(expiresAt), 0).Sub(now).Truncate(time.Second).String()
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true)
	return badger.Open(opts)
}
