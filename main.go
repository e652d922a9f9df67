package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"railbird.club/server/game"
	"railbird.club/server/internal/cardmap"
	"railbird.club/server/logging"
	"railbird.club/server/nats"
	"railbird.club/server/rest"
	"railbird.club/server/util"
	"railbird.club/server/util/simulation"
)

var runServer *bool
var tuningConfigFile *string
var simDeals *bool
var numDeals *uint
var mainLogger = logging.GetZeroLogger("main::main", os.Stdout)

const cardMapCacheSize = 256

func init() {
	runServer = flag.Bool("server", true, "runs the table server")
	tuningConfigFile = flag.String("tuning", "tuning.yaml", "YAML file with estimator and scanner tuning")
	simDeals = flag.Bool("sim-deals", false, "deals and counts ranks instead of serving")
	numDeals = flag.Uint("num-deals", 100000, "number of deals when -sim-deals is set")
}

func main() {
	err := run()
	if err != nil {
		mainLogger.Error().Msg(err.Error())
		os.Exit(1)
	}
}

func run() error {
	logLevel := util.Env.GetZeroLogLogLevel()
	fmt.Printf("Setting log level to %s\n", logLevel)
	zerolog.SetGlobalLevel(logLevel)
	flag.Parse()

	if *simDeals {
		return simulation.Run(int(*numDeals))
	}
	if !*runServer {
		return nil
	}

	tuning, err := game.ParseTuningConfig(*tuningConfigFile)
	if err != nil {
		return errors.Wrap(err, "Error while parsing tuning config")
	}

	tableManager, err := game.CreateTableManager(tuning)
	if err != nil {
		return errors.Wrap(err, "Error while creating table manager")
	}

	resolver, err := createCardResolver()
	if err != nil {
		return errors.Wrap(err, "Error while opening the card map")
	}

	var natsManager *nats.Manager
	if util.Env.GetNatsURL() != "" {
		natsManager, err = nats.NewManager(tableManager, resolver)
		if err != nil {
			return errors.Wrap(err, "Error while connecting to NATS")
		}
		tableManager.SetListenerFactory(natsManager.TableListener)
	} else {
		mainLogger.Warn().Msg("NATS_URL is not set, running without push notifications")
	}

	if resumed := tableManager.ResumeTables(); resumed > 0 {
		mainLogger.Info().Msgf("Resumed %d table(s)", resumed)
	}

	mainLogger.Info().Msgf("Serving on port %d", util.Env.GetListenPort())
	return rest.RunRestServer(tableManager, natsManager, resolver, tuning)
}

// createCardResolver opens the trained tag database when one is
// configured. Without it, scans must carry resolved card labels.
func createCardResolver() (nats.CardResolver, error) {
	if !util.Env.IsCardMapEnabled() {
		mainLogger.Warn().Msg("POSTGRES_HOST is not set, scans must carry card labels")
		return cardmap.NewStaticStore(), nil
	}

	db, err := cardmap.Connect()
	if err != nil {
		return nil, err
	}
	return cardmap.NewCache(cardMapCacheSize, cardmap.NewSQLStore(db))
}
