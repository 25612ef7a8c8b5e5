package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stock-insight",
	Short: "A CLI for managing the Stock Insight services",
	Long:  `Stock Insight analyzes market news sentiment, predicts price trends, and serves the dashboard API.`,
}

func main() {

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your CLI '%s'", err)
		os.Exit(1)
	}
}
