package main

import (
	"fmt"
	logger "log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ardanlabs/conf"
	"github.com/joho/godotenv"

	"github.com/wgagne-maynard/kcm-bus-tracker/app/bus-collector/collector"
	"github.com/wgagne-maynard/kcm-bus-tracker/foundation/database"
)

var build = "develop"

func main() {
	log := logger.New(os.Stdout, "BUS_COLLECTOR : ", logger.LstdFlags|logger.Lmicroseconds|logger.Lshortfile)
	if err := run(log); err != nil {
		log.Printf("main: error: %v", err)
		os.Exit(1)
	}
}

func run(log *logger.Logger) error {
	//pick up a local .env when deployed on platforms that provide one
	_ = godotenv.Load()

	var cfg struct {
		conf.Version
		DB struct {
			User       string `conf:"default:postgres"`
			Password   string `conf:"default:postgres,noprint"`
			Host       string `conf:"default:0.0.0.0"`
			Name       string `conf:"default:postgres"`
			DisableTLS bool   `conf:"default:true"`
		}
		Feed struct {
			URL              string `conf:"default:https://s3.amazonaws.com/kcm-alerts-realtime-prod/vehiclepositions_enhanced.json"`
			Format           string `conf:"default:json"`
			IntervalSeconds  int    `conf:"default:30"`
			FailureThreshold int    `conf:"default:10"`
			RetrySeconds     int    `conf:"default:5"`
		}
		Nats struct {
			URL     string `conf:"default:"`
			Subject string `conf:"default:bus-positions"`
		}
		Ops struct {
			Addr string `conf:"default:"`
		}
	}
	cfg.Version.SVN = build
	cfg.Version.Desc = "Collect live bus positions into the bus_positions log"
	const prefix = "COLLECTOR"
	if err := conf.Parse(os.Args[1:], prefix, &cfg); err != nil {
		switch err {
		case conf.ErrHelpWanted:
			usage, err := conf.Usage(prefix, &cfg)
			if err != nil {
				return fmt.Errorf("generating config usage: %w", err)
			}
			fmt.Println(usage)
			return nil
		case conf.ErrVersionWanted:
			version, err := conf.VersionString(prefix, &cfg)
			if err != nil {
				return fmt.Errorf("generating config version: %w", err)
			}
			fmt.Println(version)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	log.Printf("main : Started : Application initializing : version %s", build)
	defer log.Println("main: Completed")

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Printf("main: Config :\n%v\n", out)

	// Make a channel to listen for an interrupt or terminate signal from the OS.
	// Use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	return collector.RunCollectorLoop(log,
		database.Config{
			User:       cfg.DB.User,
			Password:   cfg.DB.Password,
			Host:       cfg.DB.Host,
			Name:       cfg.DB.Name,
			DisableTLS: cfg.DB.DisableTLS,
		},
		collector.Config{
			FeedURL:             cfg.Feed.URL,
			FeedFormat:          cfg.Feed.Format,
			IntervalSeconds:     cfg.Feed.IntervalSeconds,
			FailureThreshold:    cfg.Feed.FailureThreshold,
			StorageRetrySeconds: cfg.Feed.RetrySeconds,
			NatsURL:             cfg.Nats.URL,
			NatsSubject:         cfg.Nats.Subject,
			OpsAddr:             cfg.Ops.Addr,
		},
		shutdown)
}
