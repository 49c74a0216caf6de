package main

import (
	"flag"
	"os"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hugo-antunes19/Hugo-Antunes-OTM-2025.2/internal/catalog"
	"github.com/hugo-antunes19/Hugo-Antunes-OTM-2025.2/internal/config"
	"github.com/hugo-antunes19/Hugo-Antunes-OTM-2025.2/internal/milp"
	"github.com/hugo-antunes19/Hugo-Antunes-OTM-2025.2/internal/planner"
	"github.com/hugo-antunes19/Hugo-Antunes-OTM-2025.2/internal/server"
)

var (
	validSolvers = []string{"highs", "cbc"}
	solvers      = map[string]func() milp.Solver{
		"highs": milp.NewHighsSolver,
		"cbc":   milp.NewCBCSolver,
	}
)

func main() {
	configPathPtr := flag.String("config", "config.yaml", "Path to the YAML configuration file")
	solverPtr := flag.String("solver", "highs", `MILP backend to use. Allowed values are: "highs" (in-process, default) and "cbc" (external binary)`)
	flag.Parse()

	if !slices.Contains(validSolvers, *solverPtr) {
		log.Fatal().Msgf("%v is not a valid solver", *solverPtr)
	}

	cfg, err := config.Load(*configPathPtr)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load configuration")
	}
	setupLogging(cfg)

	activeCatalog, err := catalog.Load(cfg.Data.CoursesPath, cfg.Data.OfferingsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load catalog")
	}
	log.Info().
		Int("courses", activeCatalog.Len()).
		Int("offered", activeCatalog.OfferedCount()).
		Msg("catalog loaded")

	coursePlanner := planner.NewPlanner(activeCatalog, planner.Config{
		Horizon:           cfg.Planner.Horizon,
		MaxCreditsPerTerm: cfg.Planner.MaxCreditsPerTerm,
		CreditMinimums: catalog.CreditRequirements{
			catalog.RestrictedElective:  cfg.Planner.Minimums.Restricted,
			catalog.ConditionedElective: cfg.Planner.Minimums.Conditioned,
			catalog.FreeElective:        cfg.Planner.Minimums.Free,
		},
		GatingCourseID: cfg.Planner.GatingCourseID,
		SolveTimeLimit: cfg.TimeLimit(),
	}, solvers[*solverPtr]())

	if err := server.New(activeCatalog, coursePlanner, cfg.Server.Port).Run(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.Logging.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}
}
