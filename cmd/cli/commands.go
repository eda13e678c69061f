package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
)

var (
	winner string
	loser  string
	cost   float64
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(payerCmd)
	rootCmd.AddCommand(badgesCmd)
	rootCmd.AddCommand(metricsCmd)

	recordCmd.Flags().StringVar(&winner, "winner", "", "Name of the winning player")
	recordCmd.Flags().StringVar(&loser, "loser", "", "Name of the losing player")
	recordCmd.Flags().Float64Var(&cost, "cost", 0, "Cost of the match")
	recordCmd.MarkFlagRequired("winner")
	recordCmd.MarkFlagRequired("loser")
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List the registered players",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/players")
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List the recorded matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/matches")
	},
}

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a match result",
	RunE: func(cmd *cobra.Command, args []string) error {
		body := fmt.Sprintf(`{"winner": %q, "loser": %q, "cost": %g}`, winner, loser, cost)
		return performPostRequest("/matches", body)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the player statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/stats")
	},
}

var payerCmd = &cobra.Command{
	Use:   "payer",
	Short: "Show who pays for the next match",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/matches/payer/next")
	},
}

var badgesCmd = &cobra.Command{
	Use:   "badges",
	Short: "List the badge catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/badges")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func performPostRequest(endpoint, body string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
