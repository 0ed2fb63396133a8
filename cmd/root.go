package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KKKircheff/Auto-Bosch-GTP/internal/config"
)

const defaultConfigPath = "config.toml"

// NewRootCmd корневая команда CLI
func NewRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "gtp",
		Short:         "Auto-Bosch GTP: онлайн запись на технический осмотр",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath, "path to config.toml")

	load := func() (*config.Config, error) {
		return config.Load(configPath)
	}

	root.AddCommand(newServeCmd(load))
	root.AddCommand(newMigrateCmd(load))
	root.AddCommand(newTokenCmd(load))
	root.AddCommand(newSlotsCmd())

	return root
}

// Execute запускает CLI и завершает процесс с кодом 1 при ошибке
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type configLoader func() (*config.Config, error)
