package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ochronus/gocomppare/internal/app"
	"github.com/ochronus/gocomppare/internal/config"
	"github.com/ochronus/gocomppare/internal/driver"
	"github.com/ochronus/gocomppare/internal/utils"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

var (
	configPath  string
	interactive bool
	imagePath   string
	baseURL     string
)

func main() {
	// Get default config path
	defaultConfigPath, err := config.DefaultConfigPath()
	if err != nil {
		defaultConfigPath = "./config.toml"
	}

	// Root command
	rootCmd := &cobra.Command{
		Use:   "gocomppare",
		Short: "CompPare API client",
		Long:  "Example client for the CompPare API: authentication, folders, image upload, user data, plans and coupons.",
		// main reports the error itself
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	// Demo command
	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the scripted demo, or the interactive menu with --interactive",
		RunE:  runDemo,
	}
	demoCmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "Path to config file")
	demoCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Start the interactive menu")
	demoCmd.Flags().StringVar(&imagePath, "image", "", "Image uploaded into the folder created by the scripted demo")

	// Generate-config command
	generateConfigCmd := &cobra.Command{
		Use:   "generate-config",
		Short: "Generate config",
		RunE: func(cmd *cobra.Command, args []string) error {
			return utils.GenerateConfig(configPath, baseURL, cmd.OutOrStdout())
		},
	}
	generateConfigCmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "Path to config file")
	generateConfigCmd.Flags().StringVar(&baseURL, "base-url", "", "API base URL written to the config")

	// Version command
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("gocomppare version %s\n", version)
		},
	}

	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(generateConfigCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runDemo(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The default config file is optional, an explicit one is not
	cfg, err := config.Load(configPath, !cmd.Flags().Changed("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	container, err := app.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to build container: %w", err)
	}

	container.Logger.Debugf("Starting gocomppare %s against %s", version, cfg.BaseURL)

	if interactive {
		return driver.NewInteractive(container.Client, cmd.InOrStdin(), cmd.OutOrStdout()).Run(ctx)
	}

	if !cfg.HasCredentials() {
		return fmt.Errorf("credentials.email and credentials.password are required for the scripted demo")
	}

	return driver.NewDemo(container.Client, cmd.OutOrStdout()).Run(ctx, driver.DemoOptions{
		Email:     cfg.Credentials.Email,
		Password:  cfg.Credentials.Password,
		ImagePath: imagePath,
	})
}
