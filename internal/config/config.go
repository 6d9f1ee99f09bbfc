// Package config wires viper to the config file, HOMETUBE_ environment
// variables, and the root command's persistent flags.
package config

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/EgalitarianMonkey/hometube-sub000/internal/cli"
	"github.com/EgalitarianMonkey/hometube-sub000/internal/dirs"
)

// Init connects viper to its sources. Precedence is flag > env >
// config file > default. A missing config file is not an error.
func Init(root *cobra.Command) error {
	_ = dirs.EnsureAll()

	if cfgDir, err := dirs.ConfigDir(); err == nil {
		_ = dirs.Ensure(cfgDir)
		viper.AddConfigPath(cfgDir)
	}
	viper.SetConfigName("config") // any of config.{yaml,yml,json,toml}

	viper.SetEnvPrefix("HOMETUBE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	// Defaults for every key, so config files only need the overrides.
	viper.SetDefault(cli.KeyOutputDir, ".")
	viper.SetDefault(cli.KeyVerbose, false)
	viper.SetDefault(cli.KeyDownloader, "")
	viper.SetDefault(cli.KeyFFmpeg, "")
	viper.SetDefault(cli.KeyFFprobe, "")
	viper.SetDefault(cli.KeyJobs, 2)
	viper.SetDefault(cli.KeyLanguages, []string{})
	viper.SetDefault(cli.KeySBPreset, "default")
	viper.SetDefault(cli.KeySBAPI, "")
	viper.SetDefault(cli.KeyCutMode, "keyframes")
	viper.SetDefault(cli.KeyCutMargin, 0.0)
	viper.SetDefault(cli.KeyKeepTemp, false)

	// A set persistent flag overrides everything below it.
	_ = viper.BindPFlag(cli.KeyOutputDir, root.PersistentFlags().Lookup(cli.FlagOutDir))
	_ = viper.BindPFlag(cli.KeyVerbose, root.PersistentFlags().Lookup(cli.FlagVerbose))
	_ = viper.BindPFlag(cli.KeyDownloader, root.PersistentFlags().Lookup(cli.FlagDLBinary))
	_ = viper.BindPFlag(cli.KeyFFmpeg, root.PersistentFlags().Lookup(cli.FlagFFmpegBinary))
	_ = viper.BindPFlag(cli.KeyFFprobe, root.PersistentFlags().Lookup(cli.FlagFFprobeBinary))
	_ = viper.BindPFlag(cli.KeyJobs, root.PersistentFlags().Lookup(cli.FlagJobs))

	_ = viper.ReadInConfig()
	return nil
}
