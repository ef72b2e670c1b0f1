package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"headline-trader/internal/control"
	"headline-trader/internal/eod"
	"headline-trader/internal/eod/eodobs"
	"headline-trader/internal/interfaces"
	"headline-trader/internal/logger"
	"headline-trader/internal/trace"
	"headline-trader/internal/tradelog"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred shutdown always executes.
func run() int {
	configPath := flag.String("config", "config.yaml", "path to config file")
	serve := flag.Bool("serve", false, "start the operator control server instead of a single run")
	flag.Parse()

	if err := initializeSystem(); err != nil {
		log.Print(err)
		return 1
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	defer func() {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		_ = trace.Shutdown(shutdownCtx)
	}()

	cfg, creds, err := loadConfig(ctx, *configPath)
	if err != nil {
		return 1
	}

	logDir := tradelog.LogDir()
	compressOldLogs(ctx, logDir)

	journal, err := tradelog.NewJournal(tradelog.JournalConfig{Dir: logDir, Buffer: cfg.Control.LogBuffer})
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to open journal", err)
		return 1
	}
	defer journal.Close()

	p, err := initializePipeline(ctx, cfg, creds, journal)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to initialize pipeline", err)
		return 1
	}

	// runs outlive the signal context so an in-flight call is never cut off
	ctrl := control.New(context.WithoutCancel(ctx), p.newEngine, journal)
	report := eodobs.Wrap(eod.NewSummarizer(logDir))

	if *serve {
		gin.SetMode(gin.ReleaseMode)
		runServer(ctx, ctrl, cfg.Control.Listen, control.NewRouter(ctrl, cfg))
		writeReport(report)
		return 0
	}

	if err := ctrl.StartRun(cfg); err != nil {
		logger.ErrorWithErr(ctx, "Failed to start run", err)
		return 1
	}
	// first signal asks for a cooperative stop between headlines
	go func() {
		<-ctx.Done()
		ctrl.RequestStop()
	}()

	summary, err := ctrl.Wait(context.Background())
	if err != nil {
		logger.ErrorWithErr(ctx, "Run failed", err)
		return 1
	}
	b, _ := json.MarshalIndent(summary, "", "  ")
	fmt.Println(string(b))
	writeReport(report)
	return 0
}

// writeReport refreshes today's order report from the journal.
func writeReport(report interfaces.DaySummarizer) {
	_, _ = report.SummarizeDay(context.Background(), time.Now())
}

func runServer(ctx context.Context, ctrl *control.Controller, addr string, router *gin.Engine) {
	srv := &http.Server{Addr: addr, Handler: router}

	go func() {
		logger.Info(ctx, "Control server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorWithErr(ctx, "Control server failed", err)
		}
	}()

	<-ctx.Done()
	logger.Info(context.Background(), "Shutting down...")
	ctrl.RequestStop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	_, _ = ctrl.Wait(shutdownCtx)
}
