// scan looks up the price of a single card image from the command line and
// optionally exports its trend chart.
//
// Usage: go run main.go [-alt=<text>] [-src=<url>] [-query=<name>] [-range=3m|6m|1y] [options]
//
// The tool runs the same identification, lookup and chart pipeline as the
// overlay server. Lookup settings come from the environment (.env, CONFIG_FILE,
// POKEMON_TCG_API_KEY, ...).
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/codyseavey/pokeprice/internal/chart"
	"github.com/codyseavey/pokeprice/internal/config"
	"github.com/codyseavey/pokeprice/internal/database"
	"github.com/codyseavey/pokeprice/internal/models"
	"github.com/codyseavey/pokeprice/internal/overlay"
	"github.com/codyseavey/pokeprice/internal/services"
	"github.com/codyseavey/pokeprice/internal/trigger"
)

func main() {
	alt := flag.String("alt", "", "Image alt text")
	src := flag.String("src", "", "Image source URL")
	queryText := flag.String("query", "", "Search this card name verbatim instead of identifying an image")
	rangeFlag := flag.String("range", string(models.DefaultRange), "Chart range: 3m, 6m or 1y")
	pagePath := flag.String("page", "", "List scannable images in a saved HTML page instead of scanning")
	baseURL := flag.String("base", "", "Base URL for relative image sources with -page")
	svgPath := flag.String("svg", "", "Write the chart as SVG to this file")
	pngPath := flag.String("png", "", "Write the chart as PNG to this file")
	htmlPath := flag.String("html", "", "Write an interactive chart page to this file")
	useCache := flag.Bool("cache", false, "Use the SQLite lookup cache at DB_PATH")
	flag.Parse()

	if *pagePath != "" {
		listPageImages(*pagePath, *baseURL)
		return
	}

	if *alt == "" && *src == "" && *queryText == "" {
		fmt.Println("Usage: scan [-alt=<text>] [-src=<url>] [-query=<name>] [options]")
		fmt.Println("")
		fmt.Println("Identifies a Pokemon card from image metadata, looks up its price")
		fmt.Println("and draws an illustrative trend chart.")
		fmt.Println("")
		fmt.Println("Options:")
		flag.PrintDefaults()
		fmt.Println("")
		fmt.Println("Examples:")
		fmt.Println("  scan -alt=\"Pokemon TCG Charizard Card Mint\"")
		fmt.Println("  scan -src=https://example.com/images/pikachu-base-set.jpg -range=1y -svg=pikachu.svg")
		os.Exit(1)
	}

	r, err := models.ParseRange(*rangeFlag)
	if err != nil {
		log.Fatalf("Invalid range: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var lookupCache *services.LookupCacheService
	if *useCache {
		if err := database.Initialize(cfg.Database.Path); err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		lookupCache = services.NewLookupCacheService(database.GetDB())
	}

	pokemonService := services.NewPokemonTCGService(services.PokemonTCGConfig{
		BaseURL:  cfg.Lookup.BaseURL,
		APIKey:   cfg.Lookup.APIKey,
		Timeout:  cfg.LookupTimeout(),
		CacheTTL: cfg.LookupCacheTTL(),
	}, lookupCache)

	panel := overlay.NewPanel()
	controller := overlay.NewController(pokemonService, panel)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.LookupTimeout()+5*time.Second)
	defer cancel()

	if *queryText != "" {
		err = controller.Search(ctx, *queryText)
	} else {
		err = controller.StartScan(ctx, models.ImageSignal{SourceURL: *src, AltText: *alt})
	}
	if err != nil {
		log.Fatalf("Scan failed: %v", err)
	}

	if controller.State() != overlay.StateResultShown {
		fmt.Println("Card not identified. Try again with -query=\"<card name>\"")
		os.Exit(2)
	}

	if r != models.DefaultRange {
		if err := controller.SwitchRange(r); err != nil {
			log.Fatalf("Failed to switch range: %v", err)
		}
	}

	view := panel.View()
	fmt.Printf("%s\n", view.Name)
	fmt.Printf("  Set:    %s\n", view.SetLabel)
	fmt.Printf("  Price:  %s\n", view.PriceText)
	if view.TCGPlayerURL != "" {
		fmt.Printf("  Market: %s\n", view.TCGPlayerURL)
	}

	current := controller.Chart()
	trendWord := "down"
	if current.Series.Rising() {
		trendWord = "up"
	}
	fmt.Printf("  Trend:  %s over %s (%s)\n", trendWord, current.Range.Label(), chart.SyntheticNotice)

	writeExports(current, view.Name, *svgPath, *pngPath, *htmlPath)
}

func writeExports(current *overlay.Chart, title, svgPath, pngPath, htmlPath string) {
	svg := chart.SVG(current.Path, current.Canvas)

	if svgPath != "" {
		if err := os.WriteFile(svgPath, svg, 0o644); err != nil {
			log.Fatalf("Failed to write SVG: %v", err)
		}
		log.Printf("Wrote %s", svgPath)
	}

	if pngPath != "" {
		data, err := chart.PNG(svg, int(current.Canvas.Width)*2, int(current.Canvas.Height)*2)
		if err != nil {
			log.Fatalf("Failed to render PNG: %v", err)
		}
		if err := os.WriteFile(pngPath, data, 0o644); err != nil {
			log.Fatalf("Failed to write PNG: %v", err)
		}
		log.Printf("Wrote %s", pngPath)
	}

	if htmlPath != "" {
		f, err := os.Create(htmlPath)
		if err != nil {
			log.Fatalf("Failed to create HTML file: %v", err)
		}
		defer f.Close()

		cfg := chart.DefaultHTMLConfig()
		cfg.Title = title + " (" + current.Range.Label() + ")"
		if err := chart.HTML(f, current.Series, current.Range.Months(), cfg); err != nil {
			log.Fatalf("Failed to render HTML: %v", err)
		}
		log.Printf("Wrote %s", htmlPath)
	}
}

func listPageImages(path, baseURL string) {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("Failed to open page: %v", err)
	}
	defer f.Close()

	images, err := trigger.ExtractImages(f, baseURL)
	if err != nil {
		log.Fatalf("Failed to read page: %v", err)
	}

	fmt.Printf("Found %d scannable images\n", len(images))
	for _, img := range images {
		fmt.Printf("  %dx%d  %s", img.Width, img.Height, img.SourceURL)
		if img.AltText != "" {
			fmt.Printf("  (%s)", img.AltText)
		}
		fmt.Println()
	}
}
