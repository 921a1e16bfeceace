package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rigmend/rigmend/pkg/api"
	"github.com/rigmend/rigmend/pkg/controlplane"
	"github.com/rigmend/rigmend/pkg/events"
	"github.com/rigmend/rigmend/pkg/healer"
	"github.com/rigmend/rigmend/pkg/log"
	"github.com/rigmend/rigmend/pkg/notify"
	"github.com/rigmend/rigmend/pkg/provision"
	"github.com/rigmend/rigmend/pkg/storage"
	"github.com/rigmend/rigmend/pkg/types"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "rigmend",
	Short: "Rigmend - Fleet auto-healer for mining rigs",
	Long: `Rigmend watches a fleet of mining rigs through the control plane,
learns per-rig performance baselines, and applies graduated remediation
when rigs degrade: alert, restart, cache clear, or replacement provisioning.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"Rigmend version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the auto-healer daemon",
	Long: `Run the auto-healer control loop and its HTTP API.

The healer polls the control plane for fleet snapshots, assesses each
rig against its learned baseline, and dispatches remediation commands.
State (config, baselines, action log) is persisted so restarts resume
where the previous process left off.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		apiAddr, _ := cmd.Flags().GetString("api-addr")
		dataDir, _ := cmd.Flags().GetString("data-dir")
		controlPlaneURL, _ := cmd.Flags().GetString("control-plane")
		webhookURL, _ := cmd.Flags().GetString("webhook")
		provisionerURL, _ := cmd.Flags().GetString("provisioner")
		storeBackend, _ := cmd.Flags().GetString("store")
		redisAddr, _ := cmd.Flags().GetString("redis-addr")
		redisPassword, _ := cmd.Flags().GetString("redis-password")
		redisDB, _ := cmd.Flags().GetInt("redis-db")
		configFile, _ := cmd.Flags().GetString("config")
		logLevel, _ := cmd.Flags().GetString("log-level")
		logJSON, _ := cmd.Flags().GetBool("log-json")

		log.Init(log.Config{
			Level:      log.Level(logLevel),
			JSONOutput: logJSON,
		})

		fmt.Println("Starting Rigmend auto-healer...")
		fmt.Printf("  Control Plane: %s\n", controlPlaneURL)
		fmt.Printf("  API Address: %s\n", apiAddr)
		fmt.Printf("  Store: %s\n", storeBackend)
		fmt.Println()

		store, err := newStore(storeBackend, dataDir, redisAddr, redisPassword, redisDB)
		if err != nil {
			return fmt.Errorf("failed to open store: %v", err)
		}
		defer store.Close()

		var notifier notify.Notifier = notify.Noop{}
		if webhookURL != "" {
			notifier = notify.NewWebhook(webhookURL)
		}

		var provisioner provision.Provisioner
		if provisionerURL != "" {
			provisioner = provision.NewHTTPProvisioner(provisionerURL)
		}

		broker := events.NewBroker()
		broker.Start()
		fmt.Println("✓ Event broker started")

		h := healer.New(healer.Options{
			Source:      controlplane.NewHTTPClient(controlPlaneURL),
			Commander:   controlplane.NewHTTPClient(controlPlaneURL),
			Notifier:    notifier,
			Provisioner: provisioner,
			Store:       store,
			Broker:      broker,
		})

		if configFile != "" {
			cfg, err := loadConfigFile(configFile)
			if err != nil {
				return fmt.Errorf("failed to load config file: %v", err)
			}
			if err := h.ApplyConfig(*cfg); err != nil {
				return fmt.Errorf("invalid config file: %v", err)
			}
			fmt.Printf("✓ Config loaded from %s\n", configFile)
		}

		h.Start()
		fmt.Println("✓ Healer control loop started")

		apiServer := api.NewServer(h, broker)
		errCh := make(chan error, 1)
		go func() {
			if err := apiServer.Start(apiAddr); err != nil {
				errCh <- fmt.Errorf("API server error: %v", err)
			}
		}()
		fmt.Printf("✓ API listening on %s\n", apiAddr)

		fmt.Println()
		fmt.Println("Healer is running. Press Ctrl+C to stop.")

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		select {
		case <-sigCh:
			fmt.Println("\nShutting down...")
		case err := <-errCh:
			fmt.Fprintf(os.Stderr, "\nError: %v\n", err)
		}

		apiServer.Stop()
		h.Stop()
		broker.Stop()

		fmt.Println("✓ Shutdown complete")
		return nil
	},
}

func init() {
	runCmd.Flags().String("api-addr", "127.0.0.1:8090", "Address for the HTTP API")
	runCmd.Flags().String("data-dir", "./rigmend-data", "Data directory for persisted state")
	runCmd.Flags().String("control-plane", "http://127.0.0.1:4000", "Base URL of the fleet control plane")
	runCmd.Flags().String("webhook", "", "Webhook URL for alert notifications (optional)")
	runCmd.Flags().String("provisioner", "", "Provisioner URL for replacement rigs (optional)")
	runCmd.Flags().String("store", "bolt", "State store backend: bolt or redis")
	runCmd.Flags().String("redis-addr", "127.0.0.1:6379", "Redis address (store=redis)")
	runCmd.Flags().String("redis-password", "", "Redis password (store=redis)")
	runCmd.Flags().Int("redis-db", 0, "Redis database number (store=redis)")
	runCmd.Flags().String("config", "", "Path to a YAML healer config file (optional)")
	runCmd.Flags().String("log-level", "info", "Log level: debug, info, warn, error")
	runCmd.Flags().Bool("log-json", false, "Emit logs as JSON")
}

func newStore(backend, dataDir, redisAddr, redisPassword string, redisDB int) (storage.Store, error) {
	switch backend {
	case "bolt":
		return storage.NewBoltStore(dataDir)
	case "redis":
		return storage.NewRedisStore(redisAddr, redisPassword, redisDB)
	default:
		return nil, fmt.Errorf("unknown store backend %q (want bolt or redis)", backend)
	}
}

func loadConfigFile(path string) (*types.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := types.DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
