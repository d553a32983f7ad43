package main

import (
	"fmt"
	logger "log"
	"os"
	"time"

	"github.com/ardanlabs/conf"
	"github.com/joho/godotenv"

	"github.com/wgagne-maynard/kcm-bus-tracker/app/delay-analyzer/delays"
	"github.com/wgagne-maynard/kcm-bus-tracker/business/data/gtfs"
	"github.com/wgagne-maynard/kcm-bus-tracker/foundation/database"
)

var build = "develop"

func main() {
	log := logger.New(os.Stdout, "DELAY_ANALYZER : ", logger.LstdFlags|logger.Lmicroseconds|logger.Lshortfile)
	if err := run(log); err != nil {
		log.Printf("main: error: %v", err)
		os.Exit(1)
	}
}

func run(log *logger.Logger) error {
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
		Report struct {
			// ServiceDate is YYYYMMDD, empty means today in the agency timezone
			ServiceDate     string
			MinObservations int    `conf:"default:10"`
			Timezone        string `conf:"default:America/Los_Angeles"`
		}
	}
	cfg.Version.SVN = build
	cfg.Version.Desc = "Report per route schedule delays for a service date"
	const prefix = "DELAY_ANALYZER"
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

	if len(cfg.Report.ServiceDate) == 0 {
		loc, err := time.LoadLocation(cfg.Report.Timezone)
		if err != nil {
			return fmt.Errorf("loading agency timezone %q: %w", cfg.Report.Timezone, err)
		}
		cfg.Report.ServiceDate = gtfs.FormatServiceDate(time.Now().In(loc))
	}

	log.Println("main: Initializing database support")

	db, err := database.Open(database.Config{
		User:       cfg.DB.User,
		Password:   cfg.DB.Password,
		Host:       cfg.DB.Host,
		Name:       cfg.DB.Name,
		DisableTLS: cfg.DB.DisableTLS,
	})
	if err != nil {
		return fmt.Errorf("connecting to db: %w", err)
	}
	defer func() {
		log.Printf("main: Database Stopping : %s", cfg.DB.Host)
		err = db.Close()
		if err != nil {
			log.Printf("main: error closing database: %v", err)
		}
	}()

	return delays.RunDelayReport(log, db, os.Stdout, delays.Config{
		ServiceDate:     cfg.Report.ServiceDate,
		MinObservations: cfg.Report.MinObservations,
		Timezone:        cfg.Report.Timezone,
	})
}
