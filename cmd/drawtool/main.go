/* Copyright © 2025 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/mikeb26/solarchallenge-drawbot/internal"
	"github.com/mikeb26/solarchallenge-drawbot/knockout"
	"github.com/mikeb26/solarchallenge-drawbot/roster"
	"github.com/mikeb26/solarchallenge-drawbot/s3cache"
)

//go:embed help.txt
var helpText string

// cmdHandler defines the signature for command handler functions.
type cmdHandler func(ctx context.Context, args []string)

// commands maps command names to their respective handler functions.
var commands = map[string]cmdHandler{
	"help":    handleHelp,
	"fetch":   handleFetch,
	"new":     handleNew,
	"show":    handleShow,
	"order":   handleOrder,
	"podium":  handlePodium,
	"options": handleOptions,
	"result":  handleResult,
	"push":    handlePush,
	"pull":    handlePull,
	"list":    handleList,
}

func main() {
	ctx := context.Background()

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	if handler, ok := commands[cmd]; ok {
		handler(ctx, os.Args[2:])
	} else {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Printf("%v", helpText)
}

func handleHelp(ctx context.Context, args []string) {
	usage()
}

// loadEvent reads and reconstructs a draw from a JSON file.
func loadEvent(path string) (*knockout.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read draw %v: %w", path, err)
	}
	return knockout.RestoreJSON(data)
}

// saveEvent serializes a draw to a JSON file.
func saveEvent(path string, e *knockout.Event) error {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to serialize draw: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("unable to write draw %v: %w", path, err)
	}
	return nil
}

func handleFetch(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)
	url := fs.String("url", "", "Event site root URL")
	out := fs.String("out", "cars.csv", "Output car list file")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *url == "" {
		fmt.Fprintln(os.Stderr, "Please provide a valid --url.")
		fs.Usage()
		os.Exit(1)
	}

	cars, err := roster.FetchRoster(ctx, *url)
	if err != nil {
		log.Fatalf("Error fetching roster: %v", err)
	}

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("Error creating %v: %v", *out, err)
	}
	defer f.Close()
	if err := roster.WriteCars(f, cars); err != nil {
		log.Fatalf("Error writing %v: %v", *out, err)
	}
	fmt.Printf("Wrote %d cars to %v\n", len(cars), *out)
}

func handleNew(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("new", flag.ExitOnError)
	carsPath := fs.String("cars", "cars.csv", "Car list CSV file")
	name := fs.String("name", "Solar Challenge Knockout", "Event name")
	date := fs.String("date", "", "Event date")
	consolation := fs.Int("consolation", 4,
		"Number of spare consolation races")
	random := fs.Bool("random", false,
		"Assign random points for a practice draw")
	out := fs.String("out", "draw.json", "Output draw file")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cars, err := roster.LoadCars(*carsPath)
	if err != nil {
		log.Fatalf("Error loading car list: %v", err)
	}
	entrants := roster.KnockoutEntrants(cars)
	if *random {
		roster.AssignRandomPoints(entrants)
	}

	event, err := knockout.NewEvent(entrants, *name, *consolation)
	if err != nil {
		log.Fatalf("Error creating draw: %v", err)
	}
	event.Date, err = internal.ParseDateOrZero(*date)
	if err != nil {
		log.Fatalf("Error parsing --date: %v", err)
	}

	if err := saveEvent(*out, event); err != nil {
		log.Fatalf("Error saving draw: %v", err)
	}
	fmt.Printf("Created a %d car draw in %v\n", len(entrants), *out)
	fmt.Print(knockout.BuildPlayOrderOutput(event))
}

func handleShow(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	draw := fs.String("draw", "draw.json", "Draw file")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	event, err := loadEvent(*draw)
	if err != nil {
		log.Fatalf("Error loading draw: %v", err)
	}
	fmt.Print(knockout.BuildBracketOutput(event))
}

func handleOrder(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("order", flag.ExitOnError)
	draw := fs.String("draw", "draw.json", "Draw file")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	event, err := loadEvent(*draw)
	if err != nil {
		log.Fatalf("Error loading draw: %v", err)
	}
	fmt.Print(knockout.BuildPlayOrderOutput(event))
}

func handlePodium(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("podium", flag.ExitOnError)
	draw := fs.String("draw", "draw.json", "Draw file")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	event, err := loadEvent(*draw)
	if err != nil {
		log.Fatalf("Error loading draw: %v", err)
	}
	fmt.Print(knockout.BuildPodiumOutput(event))
}

// resolveRace parses --round/--race flags against a loaded draw.
func resolveRace(event *knockout.Event, round string, race int) (*knockout.Race, error) {
	id, err := knockout.ParseRoundID(round)
	if err != nil {
		return nil, err
	}
	races, err := event.Round(id)
	if err != nil {
		return nil, err
	}
	if race < 0 || race >= len(races) {
		return nil, fmt.Errorf("round %v has %d races", id, len(races))
	}
	return races[race], nil
}

func handleOptions(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("options", flag.ExitOnError)
	draw := fs.String("draw", "draw.json", "Draw file")
	round := fs.String("round", "", "Round name (e.g. P1, SC3, GF)")
	race := fs.Int("race", 0, "Race index within the round")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *round == "" {
		fmt.Fprintln(os.Stderr, "Please provide a valid --round.")
		fs.Usage()
		os.Exit(1)
	}

	event, err := loadEvent(*draw)
	if err != nil {
		log.Fatalf("Error loading draw: %v", err)
	}
	r, err := resolveRace(event, *round, *race)
	if err != nil {
		log.Fatalf("Error resolving race: %v", err)
	}
	fmt.Print(knockout.BuildOptionsOutput(r))
}

func handleResult(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("result", flag.ExitOnError)
	draw := fs.String("draw", "draw.json", "Draw file")
	round := fs.String("round", "", "Round name (e.g. P1, SC3, GF)")
	race := fs.Int("race", 0, "Race index within the round")
	winner := fs.String("winner", "",
		"Winning car id or name, or 'dnr', or 'none' to retract")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *round == "" || *winner == "" {
		fmt.Fprintln(os.Stderr,
			"Please provide a valid --round and --winner.")
		fs.Usage()
		os.Exit(1)
	}

	event, err := loadEvent(*draw)
	if err != nil {
		log.Fatalf("Error loading draw: %v", err)
	}
	r, err := resolveRace(event, *round, *race)
	if err != nil {
		log.Fatalf("Error resolving race: %v", err)
	}

	carID := 0
	switch strings.ToLower(*winner) {
	case "dnr":
		carID = knockout.WinnerDNR
	case "none", "empty":
		carID = knockout.WinnerEmpty
	default:
		car, err := roster.FindCar(event.Cars, *winner)
		if err != nil {
			log.Fatalf("Error resolving --winner: %v", err)
		}
		carID = car.ID
	}

	if err := event.SetResult(r, carID); err != nil {
		log.Fatalf("Error recording result: %v", err)
	}
	if err := saveEvent(*draw, event); err != nil {
		log.Fatalf("Error saving draw: %v", err)
	}
	fmt.Printf("Recorded result for %v\n", r.Name())
}

func handlePush(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("push", flag.ExitOnError)
	draw := fs.String("draw", "draw.json", "Draw file")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	event, err := loadEvent(*draw)
	if err != nil {
		log.Fatalf("Error loading draw: %v", err)
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("Error serializing draw: %v", err)
	}

	store := s3cache.NewDrawStore(ctx, internal.DrawBucket)
	if err := store.Init(); err != nil {
		log.Fatalf("Error initializing draw store: %v", err)
	}
	if err := store.PutDraw(event.Name, data); err != nil {
		log.Fatalf("Error pushing draw: %v", err)
	}
	fmt.Printf("Pushed %q\n", event.Name)
}

func handlePull(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("pull", flag.ExitOnError)
	name := fs.String("name", "", "Stored event name")
	out := fs.String("out", "draw.json", "Output draw file")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *name == "" {
		fmt.Fprintln(os.Stderr, "Please provide a valid --name.")
		fs.Usage()
		os.Exit(1)
	}

	store := s3cache.NewDrawStore(ctx, internal.DrawBucket)
	if err := store.Init(); err != nil {
		log.Fatalf("Error initializing draw store: %v", err)
	}
	data, err := store.GetDraw(*name)
	if err != nil {
		log.Fatalf("Error pulling draw: %v", err)
	}

	// Validate before writing
	event, err := knockout.RestoreJSON(data)
	if err != nil {
		log.Fatalf("Error reconstructing draw: %v", err)
	}
	if err := saveEvent(*out, event); err != nil {
		log.Fatalf("Error saving draw: %v", err)
	}
	fmt.Printf("Pulled %q to %v\n", event.Name, *out)
}

func handleList(ctx context.Context, args []string) {
	store := s3cache.NewDrawStore(ctx, internal.DrawBucket)
	if err := store.Init(); err != nil {
		log.Fatalf("Error initializing draw store: %v", err)
	}
	names, err := store.ListDraws()
	if err != nil {
		log.Fatalf("Error listing draws: %v", err)
	}
	for _, name := range names {
		fmt.Println(name)
	}
}
