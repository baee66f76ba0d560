package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "rcfdemo",
	Short: "rcfdemo drives a random cut tree from the command line",
	Long: `rcfdemo builds a random cut tree and either scores a single point
against a tree built from points read on stdin, or serves a small HTTP API
over a tree that grows as points are posted to it.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.rcfdemo.yaml)")
	rootCmd.PersistentFlags().Int("dimensions", 2, "point dimensionality")
	rootCmd.PersistentFlags().Int("capacity", 256, "interior-node arena capacity (sliding window size)")
	rootCmd.PersistentFlags().Float64("cache-fraction", 1.0, "bounding-box cache fraction in [0,1]")
	rootCmd.PersistentFlags().Bool("center-of-mass", false, "maintain per-node center-of-mass vectors")

	_ = viper.BindPFlag("dimensions", rootCmd.PersistentFlags().Lookup("dimensions"))
	_ = viper.BindPFlag("capacity", rootCmd.PersistentFlags().Lookup("capacity"))
	_ = viper.BindPFlag("cache-fraction", rootCmd.PersistentFlags().Lookup("cache-fraction"))
	_ = viper.BindPFlag("center-of-mass", rootCmd.PersistentFlags().Lookup("center-of-mass"))

	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(serveCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".rcfdemo")
	}

	viper.SetEnvPrefix("RCFDEMO")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "rcfdemo: reading config: %v\n", err)
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
