package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"stylebot/internal/config"
	"stylebot/internal/store"
)

var statsTopN int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print usage statistics from the local database",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().IntVar(&statsTopN, "top", 10, "number of top styles to list")
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	st, err := store.New(cfg.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("usage store: %w", err)
	}
	defer st.Close()

	stats, err := st.UsageStats(statsTopN)
	if err != nil {
		return err
	}

	fmt.Printf("Users:   %d\n", stats.Users)
	fmt.Printf("Renders: %d\n", stats.Renders)

	if len(stats.ByFamily) > 0 {
		fmt.Println("\nBy family:")
		families := make([]string, 0, len(stats.ByFamily))
		for fam := range stats.ByFamily {
			families = append(families, fam)
		}
		sort.Strings(families)
		for _, fam := range families {
			fmt.Printf("  %-12s %d\n", fam, stats.ByFamily[fam])
		}
	}

	if len(stats.Top) > 0 {
		fmt.Println("\nTop styles:")
		for i, sc := range stats.Top {
			fmt.Printf("  %2d. %s/%s: %d\n", i+1, sc.Family, sc.Style, sc.Count)
		}
	}
	return nil
}
