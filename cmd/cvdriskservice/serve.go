package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/mgo.v2"

	"github.com/intervention-engine/cvdriskservice/assessments"
	"github.com/intervention-engine/cvdriskservice/config"
	"github.com/intervention-engine/cvdriskservice/logging"
	"github.com/intervention-engine/cvdriskservice/middleware"
	"github.com/intervention-engine/cvdriskservice/server"
	"github.com/intervention-engine/cvdriskservice/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP risk service",
	Long: `serve accepts FHIR bundles on POST /calculate, stores the resulting risk
assessments and pies in MongoDB, and serves pies on GET /pies/:id.

Settings come from the environment or a .env file: PORT, ENV, MONGO_URL,
MONGO_DB, BASE_URL, CODE_TABLE_FILE and LOG_LEVEL.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if codes, _ := cmd.Flags().GetString("codes"); codes != "" {
		cfg.CodeTableFile = codes
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var logger zerolog.Logger
	if cfg.IsDev() {
		logger, err = logging.NewConsole(cfg.LogLevel, os.Stdout)
	} else {
		logger, err = logging.New(cfg.LogLevel, os.Stdout)
	}
	if err != nil {
		return err
	}

	table, err := loadCodeTable(cfg.CodeTableFile)
	if err != nil {
		return err
	}
	logger.Info().Str("file", cfg.CodeTableFile).Int("codes", table.Len()).Msg("loaded code table")

	session, err := mgo.Dial(cfg.MongoURL)
	if err != nil {
		return fmt.Errorf("connect to mongo at %s: %w", cfg.MongoURL, err)
	}
	defer session.Close()
	db := session.DB(cfg.MongoDB)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = discoverSelf(cfg.Port, logger)
	}
	basePieURL := strings.TrimSuffix(baseURL, "/") + "/pies"

	svc := service.NewReferenceRiskService(db)
	svc.RegisterPlugin(assessments.NewPCEPlugin(table))

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestID(), middleware.Logger(logger), middleware.Recovery(logger))
	server.RegisterRoutes(e, db, basePieURL, svc, logger)

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("pies", basePieURL).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}

// discoverSelf guesses the service's own base URL from the host's IPv4 address.
func discoverSelf(port string, logger zerolog.Logger) string {
	selfURL := "http://localhost:" + port + "/"
	host, err := os.Hostname()
	if err != nil {
		logger.Warn().Err(err).Msg("unable to read hostname, defaulting to localhost")
		return selfURL
	}
	addrs, err := net.LookupIP(host)
	if err != nil {
		logger.Warn().Err(err).Msg("unable to lookup IP based on hostname, defaulting to localhost")
		return selfURL
	}
	for _, addr := range addrs {
		if ipv4 := addr.To4(); ipv4 != nil {
			selfURL = "http://" + ipv4.String() + ":" + port + "/"
		}
	}
	return selfURL
}
