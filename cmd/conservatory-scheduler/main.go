package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/clefworks/conservatory-scheduler/internal/dto"
	"github.com/clefworks/conservatory-scheduler/internal/service"
	"github.com/clefworks/conservatory-scheduler/pkg/config"
	"github.com/clefworks/conservatory-scheduler/pkg/dataset"
	"github.com/clefworks/conservatory-scheduler/pkg/logger"
)

func main() {
	var (
		datasetPath    string
		outPath        string
		mode           string
		maxConsecutive int
	)

	flag.StringVar(&datasetPath, "dataset", "dataset.json", "Path to the JSON dataset file")
	flag.StringVar(&outPath, "out", "", "Write the JSON result here instead of stdout")
	flag.StringVar(&mode, "mode", "schedule", "Run mode: schedule or validate")
	flag.IntVar(&maxConsecutive, "max-consecutive", 0, "Override the consecutive-period cap")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ds, err := dataset.Load(datasetPath)
	if err != nil {
		logr.Sugar().Fatalw("failed to load dataset", "path", datasetPath, "error", err)
	}

	validate := validator.New()
	metrics := service.NewMetrics()

	var result any
	switch mode {
	case "schedule":
		scheduler := service.NewAutoScheduler(cfg.Scheduler, validate, logr, metrics)
		if maxConsecutive <= 0 {
			maxConsecutive = cfg.Scheduler.DefaultMaxConsecutive
		}
		result, err = scheduler.Schedule(dto.ScheduleRequest{
			Courses:          ds.Courses,
			Rooms:            ds.Rooms,
			Students:         ds.Students,
			ExistingBookings: ds.Bookings,
			Params: dto.ScheduleParams{
				PreferredDays:  cfg.Scheduler.DefaultPreferredDays,
				MaxConsecutive: maxConsecutive,
			},
		})
	case "validate":
		svc := service.NewValidationService(cfg.Validation, validate, logr, metrics)
		result, err = svc.ValidateBulkAllocation(ds.Allocations, ds.Students, ds.Teachers)
	default:
		logr.Sugar().Fatalw("unknown mode", "mode", mode)
	}
	if err != nil {
		logr.Sugar().Fatalw("run failed", "mode", mode, "error", err)
	}

	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logr.Sugar().Fatalw("failed to encode result", "error", err)
	}

	if outPath == "" {
		fmt.Println(string(payload))
		return
	}
	if err := os.WriteFile(outPath, payload, 0o644); err != nil {
		logr.Sugar().Fatalw("failed to write result", "path", outPath, "error", err)
	}
	logr.Sugar().Infow("result written", "path", outPath, "mode", mode)
}
