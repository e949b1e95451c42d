package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/kyelem/reliefradar/internal/collector"
	"github.com/kyelem/reliefradar/internal/config"
	"github.com/kyelem/reliefradar/internal/processor"
)

// A one-shot command-line entrypoint: run the fetch-filter-rank pipeline once
// and print the primary payload to stdout.
func main() {
	cfg := config.Load()

	srcCfg, err := config.LoadSources(cfg.NewsConfig)
	if err != nil {
		log.Fatalf("load sources config failed: %v", err)
	}
	loc := srcCfg.Location()

	d := collector.NewDispatcher()
	results := d.Dispatch(srcCfg.Specs(), loc)

	filter := processor.NewFilter(srcCfg.Regions, srcCfg.MaxAgeDays)
	items := processor.Render(filter.Apply(processor.Flatten(results)))

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(map[string]any{
		"count":    len(items),
		"timezone": srcCfg.Timezone,
		"items":    items,
	}); err != nil {
		log.Fatalf("encode output failed: %v", err)
	}
}
