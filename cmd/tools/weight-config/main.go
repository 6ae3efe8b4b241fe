// cmd/tools/weight-config/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"idea-scoring/internal/common/config"
	"idea-scoring/internal/common/database"
	"idea-scoring/internal/common/logger"
	"idea-scoring/internal/models"
	"idea-scoring/internal/weightconfig"
)

func main() {
	listCmd := flag.NewFlagSet("list", flag.ExitOnError)
	showCmd := flag.NewFlagSet("show", flag.ExitOnError)
	createCmd := flag.NewFlagSet("create", flag.ExitOnError)
	activateCmd := flag.NewFlagSet("activate", flag.ExitOnError)
	canaryCmd := flag.NewFlagSet("canary", flag.ExitOnError)
	adjustCmd := flag.NewFlagSet("adjust", flag.ExitOnError)

	listLimit := listCmd.Int("limit", 20, "Number of versions to show")
	showVersion := showCmd.String("version", "", "Version to show")
	createFile := createCmd.String("file", "", "JSON file holding the new version")
	activateVersion := activateCmd.String("version", "", "Version to activate")
	canaryVersion := canaryCmd.String("version", "", "Version to start as canary")
	canaryPct := canaryCmd.Int("percentage", 10, "Traffic share in percent")
	adjustVersion := adjustCmd.String("version", "", "Running canary to adjust")
	adjustPct := adjustCmd.Int("percentage", -1, "New traffic share in percent")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}
	if os.Args[1] == "help" || os.Args[1] == "-h" {
		help()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fail("config load failed", err)
	}
	pg, err := database.NewPostgres(cfg.Database.Postgres)
	if err != nil {
		fail("postgres connection failed", err)
	}
	defer pg.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store := weightconfig.NewPostgresStore(pg.GetDB())
	mutated := true

	switch os.Args[1] {
	case "list":
		listCmd.Parse(os.Args[2:])
		configs, err := store.History(ctx, *listLimit)
		if err != nil {
			fail("list failed", err)
		}
		for _, c := range configs {
			fmt.Printf("%-12s active=%-5t canary=%-5t pct=%-3d created=%s  %s\n",
				c.Version, c.IsActive, c.IsCanary, c.CanaryPercentage, c.CreatedAt.Format(time.RFC3339), c.Description)
		}
		mutated = false

	case "active":
		configs, err := store.ActiveConfigs(ctx)
		if err != nil {
			fail("active lookup failed", err)
		}
		printJSON(configs)
		mutated = false

	case "show":
		showCmd.Parse(os.Args[2:])
		requireFlag(showCmd, "version", *showVersion)
		c, err := store.Get(ctx, *showVersion)
		if err != nil {
			fail("show failed", err)
		}
		printJSON(c)
		mutated = false

	case "create":
		createCmd.Parse(os.Args[2:])
		requireFlag(createCmd, "file", *createFile)
		data, err := os.ReadFile(*createFile)
		if err != nil {
			fail("read file failed", err)
		}
		var c models.WeightConfigVersion
		if err := json.Unmarshal(data, &c); err != nil {
			fail("parse file failed", err)
		}
		created, err := store.Create(ctx, c)
		if err != nil {
			fail("create failed", err)
		}
		fmt.Printf("Created version %s (%s), inactive until activated\n", created.Version, created.ID)

	case "activate":
		activateCmd.Parse(os.Args[2:])
		requireFlag(activateCmd, "version", *activateVersion)
		if err := store.Activate(ctx, *activateVersion); err != nil {
			fail("activate failed", err)
		}
		fmt.Printf("Activated version %s\n", *activateVersion)

	case "canary":
		canaryCmd.Parse(os.Args[2:])
		requireFlag(canaryCmd, "version", *canaryVersion)
		if err := store.StartCanary(ctx, *canaryVersion, *canaryPct); err != nil {
			fail("canary start failed", err)
		}
		fmt.Printf("Version %s now receives %d%% of traffic\n", *canaryVersion, *canaryPct)

	case "adjust":
		adjustCmd.Parse(os.Args[2:])
		requireFlag(adjustCmd, "version", *adjustVersion)
		if err := store.AdjustCanary(ctx, *adjustVersion, *adjustPct); err != nil {
			fail("canary adjust failed", err)
		}
		fmt.Printf("Version %s now receives %d%% of traffic\n", *adjustVersion, *adjustPct)

	case "rollback":
		n, err := store.Rollback(ctx)
		if err != nil {
			fail("rollback failed", err)
		}
		fmt.Printf("Stopped %d canaries\n", n)

	case "seed":
		seeded, err := store.SeedDefault(ctx)
		if err != nil {
			fail("seed failed", err)
		}
		if !seeded {
			fmt.Println("Weight configs already present, nothing seeded")
			mutated = false
		} else {
			fmt.Printf("Seeded and activated version %s\n", weightconfig.SeedVersion)
		}

	default:
		help()
		os.Exit(1)
	}

	if mutated {
		invalidateCache(ctx, cfg, store)
	}
}

// invalidateCache drops the cached active set so running services pick up
// the change on their next refresh.
func invalidateCache(ctx context.Context, cfg *config.Config, store *weightconfig.PostgresStore) {
	if cfg.Database.Redis.Address == "" {
		return
	}
	rdb := database.NewRedis(cfg.Database.Redis)
	defer rdb.Close()

	cache := weightconfig.NewCachedSource(rdb.Client, store, config.GetDuration(cfg.Weights.CacheTTLMs), logger.NewNoOpLogger())
	if err := cache.Invalidate(ctx); err != nil {
		fmt.Printf("Warning: cache invalidation failed, services refresh within %dms: %v\n", cfg.Weights.CacheTTLMs, err)
	}
}

func requireFlag(fs *flag.FlagSet, name, value string) {
	if value == "" {
		fmt.Printf("Error: -%s is required for %s.\n", name, fs.Name())
		fs.Usage()
		os.Exit(1)
	}
}

func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fail("encode failed", err)
	}
	fmt.Println(string(data))
}

func fail(msg string, err error) {
	fmt.Printf("Error: %s: %v\n", msg, err)
	os.Exit(1)
}

func help() {
	fmt.Print(`
Usage: weight-config <command> [flags]

Commands:
  list      Show version history, newest first
  active    Show the versions currently serving traffic
  show      Show one version
  create    Store a new version from a JSON file (inactive)
  activate  Make a version the only stable config, ending canaries
  canary    Start routing a share of traffic to a version
  adjust    Change the traffic share of a running canary
  rollback  Stop all canaries
  seed      Store and activate the default calibration on an empty table
  help      Show this help message

Examples:
  weight-config create -file weights-1.1.0.json
  weight-config canary -version 1.1.0 -percentage 10
  weight-config adjust -version 1.1.0 -percentage 50
  weight-config activate -version 1.1.0
  weight-config rollback
` + "\n")
}
