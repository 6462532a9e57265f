// File: main.go

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"speedtest-tester/pkg/api"
	"speedtest-tester/pkg/database"
	"speedtest-tester/pkg/fetch"
	"speedtest-tester/pkg/meter"
	"speedtest-tester/pkg/models"
	"speedtest-tester/pkg/reporter"
	"speedtest-tester/pkg/selector"
	"speedtest-tester/pkg/throughput"
	"speedtest-tester/pkg/urls"
)

var (
	debugFlag bool
	logger    *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "speedtest-tester",
	Short: "A tool for measuring internet link quality",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Set up logging based on the debug flag
		var logLevel slog.Level
		if debugFlag {
			logLevel = slog.LevelDebug
		} else {
			logLevel = slog.LevelInfo
		}

		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
		slog.SetDefault(logger)
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a full speed test against the fastest nearby server",
	Long: `Run a speed test: fetch the test configuration and server directory,
race all candidate servers to pick the lowest-latency one, then drive the
download and upload workloads against it. Results are stored in the
database when one is configured.`,
	Run: func(cmd *cobra.Command, args []string) {
		transport, _ := cmd.Flags().GetString("transport")
		useTLS, _ := cmd.Flags().GetBool("tls")
		skipDownload, _ := cmd.Flags().GetBool("skip-download")
		skipUpload, _ := cmd.Flags().GetBool("skip-upload")
		noSave, _ := cmd.Flags().GetBool("no-save")

		if err := runTest(transport, useTLS, skipDownload, skipUpload, noSave); err != nil {
			logger.Error("Speed test failed", "error", err)
			os.Exit(1)
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve stored results over HTTP",
	Run: func(cmd *cobra.Command, args []string) {
		db, err := initDB()
		if err != nil {
			logger.Error("Error initializing database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		addr := viper.GetString("api.addr")
		if addr == "" {
			addr = ":8080"
		}

		srv := api.NewServer(logger, db, addr)

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-stop
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("Error shutting down server", "error", err)
			}
		}()

		if err := srv.Run(); err != nil {
			logger.Error("Server stopped with error", "error", err)
			os.Exit(1)
		}
	},
}

func runTest(transport string, useTLS, skipDownload, skipUpload, noSave bool) error {
	ctx := context.Background()

	client, err := fetch.NewHTTPClient(transport)
	if err != nil {
		return fmt.Errorf("failed to create HTTP client: %v", err)
	}

	fetcher := fetch.NewFetcher(client, urls.Builder{UseTLS: useTLS}, logger)

	logger.Info("Fetching test configuration")
	config, err := fetcher.FetchConfig(ctx)
	if err != nil {
		return err
	}
	logger.Info("Configuration fetched",
		"clientIP", config.Client.IP,
		"isp", config.Client.ISP,
		"country", config.Client.Country)

	logger.Info("Fetching server directory")
	servers, err := fetcher.FetchServers(ctx, config.Threads())
	if err != nil {
		return err
	}

	servers = models.FilterServers(servers, config.IgnoreIDs())
	logger.Info("Server directory fetched", "candidates", len(servers))

	sel := selector.New(client, logger)
	server, delay, err := sel.SelectFastest(ctx, servers)
	if err != nil {
		return err
	}
	logger.Info("Server selected",
		"host", server.Host,
		"sponsor", server.Sponsor,
		"delay", delay)

	result := &models.Result{
		ID:            uuid.NewString(),
		ServerID:      server.ID,
		ServerName:    server.Name,
		ServerSponsor: server.Sponsor,
		ServerHost:    server.Host,
		ServerURL:     server.URL,
		ClientIP:      config.Client.IP,
		ClientISP:     config.Client.ISP,
		ClientCountry: config.Client.Country,
		SelectDelayMs: delay.Milliseconds(),
		Transport:     transport,
	}

	if !skipDownload {
		counter := meter.NewCounter()
		sampler := reporter.Start("download", counter, reporter.DefaultInterval, logger)
		throughput.Download(ctx, client, config, server, counter, logger)
		bytes, elapsed := sampler.Stop()
		result.DownloadBytes = int64(bytes)
		result.DownloadMs = elapsed.Milliseconds()
		logger.Info("Download phase done",
			"bytes", bytes,
			"mbps", result.DownloadMbps())
	}

	if !skipUpload {
		counter := meter.NewCounter()
		sampler := reporter.Start("upload", counter, reporter.DefaultInterval, logger)
		throughput.Upload(ctx, client, config, server, counter, logger)
		bytes, elapsed := sampler.Stop()
		result.UploadBytes = int64(bytes)
		result.UploadMs = elapsed.Milliseconds()
		logger.Info("Upload phase done",
			"bytes", bytes,
			"mbps", result.UploadMbps())
	}

	if noSave || !viper.IsSet("database.host") {
		return nil
	}

	db, err := initDB()
	if err != nil {
		return fmt.Errorf("error initializing database: %v", err)
	}
	defer db.Close()

	if err := db.InsertResult(ctx, result); err != nil {
		return err
	}
	logger.Info("Result saved", "id", result.ID)

	return nil
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false, "Enable debug logging")

	runCmd.Flags().String("transport", "", "Transport config string to tunnel all requests through")
	runCmd.Flags().Bool("tls", true, "Use HTTPS for directory requests")
	runCmd.Flags().Bool("skip-download", false, "Skip the download phase")
	runCmd.Flags().Bool("skip-upload", false, "Skip the upload phase")
	runCmd.Flags().Bool("no-save", false, "Do not store the result in the database")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
}

func initConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.speedtest-tester")
	viper.AddConfigPath("/etc/speedtest-tester/")

	// A run without a database needs no config file.
	_ = viper.ReadInConfig()
}

func initDB() (*database.DB, error) {
	db, err := database.NewDB()
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %v", err)
	}

	err = db.InitSchema(context.Background())
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("error initializing database schema: %v", err)
	}

	return db, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
