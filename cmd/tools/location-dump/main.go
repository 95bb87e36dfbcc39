// cmd/tools/location-dump/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"outy-workers/internal/common/logger"
	"outy-workers/internal/locations"
	"outy-workers/internal/outy"
)

func main() {
	baseURL := flag.String("base-url", os.Getenv("OUTY_API_URL"), "Outy API base URL")
	token := flag.String("token", os.Getenv("OUTY_API_TOKEN"), "Bearer token")
	dept := flag.String("dept", "", "Only list this department's municipalities")
	query := flag.String("q", "", "With -dept, print suggestions for this partial name")
	asJSON := flag.Bool("json", false, "Print JSON instead of text")
	pageSize := flag.Int("page-size", locations.DefaultPageSize, "Catalog page size")
	timeout := flag.Duration("timeout", 2*time.Minute, "Overall load timeout")
	verbose := flag.Bool("v", false, "Log catalog paging")
	flag.Parse()

	if *baseURL == "" {
		fmt.Fprintln(os.Stderr, "Usage: location-dump -base-url <url> [-token <t>] [-dept <name> [-q <partial>]] [-json]")
		os.Exit(1)
	}

	level := "warn"
	if *verbose {
		level = "debug"
	}
	log := logger.NewStructured(level, "console")

	api := outy.NewClient(outy.Options{BaseURL: *baseURL, Token: *token, Logger: log})
	catalog := locations.NewCatalog(api, locations.Options{PageSize: *pageSize, Logger: log})

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	if err := catalog.LoadAll(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading catalog: %v\n", err)
		os.Exit(1)
	}

	result := map[string][]string{}
	switch {
	case *dept != "" && *query != "":
		result[*dept] = catalog.Suggest(*dept, *query, 0)
	case *dept != "":
		result[*dept] = catalog.CitiesOf(*dept)
	default:
		for _, d := range catalog.Departments() {
			result[d] = catalog.CitiesOf(d)
		}
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding output: %v\n", err)
			os.Exit(1)
		}
		return
	}

	names := catalog.Departments()
	if *dept != "" {
		names = []string{*dept}
	}
	for _, d := range names {
		cities := result[d]
		fmt.Printf("%s (%d)\n", d, len(cities))
		for _, c := range cities {
			fmt.Printf("  %s\n", c)
		}
	}
}
