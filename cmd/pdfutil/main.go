// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pdfutil CLI.
// Each subcommand runs one remote operation (merge, split, compress, ...)
// or manages the signed-in session (login, logout, whoami).
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// app holds the services shared by subcommands. It is built on first use
// and closed when main returns.
var app *appContext

// rootCmd is the base command for the pdfutil CLI.
var rootCmd = &cobra.Command{
	Use:   "pdfutil",
	Short: "Client for the PDF and speech processing service",
	Long: `pdfutil sends PDF and audio files to the processing service and saves
the results. Every operation is a subcommand: merge, split, extract-text,
extract-images, sign, protect, rotate, compress, tts, stt, stt-capture,
and translate.

Operations require a session. Sign in once with "pdfutil login"; the
session is kept in the configured store until "pdfutil logout".`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pdfutil.yaml or ~/.config/pdfutil/pdfutil.yaml)")
	rootCmd.PersistentFlags().String("base-url", "", "processing service base URL (overrides service.base_url)")
	rootCmd.PersistentFlags().String("log-level", "", "diagnostic log level: debug, info, warn, error")

	_ = viper.BindPFlag("service.base_url", rootCmd.PersistentFlags().Lookup("base-url"))
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pdfutil")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pdfutil"))
		}
	}

	viper.SetEnvPrefix("PDFUTIL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// services returns the shared app context, building it from the loaded
// configuration on first call.
func services() (*appContext, error) {
	if app != nil {
		return app, nil
	}
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}
	a, err := newAppContext(cfg, os.Stdout)
	if err != nil {
		return nil, err
	}
	app = a
	return app, nil
}

func main() {
	err := rootCmd.Execute()
	if app != nil {
		app.Close()
	}
	if err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
