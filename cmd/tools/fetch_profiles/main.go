package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kapu/wrestler-profile-api/internal/config"
	"github.com/kapu/wrestler-profile-api/internal/domain"
	"github.com/kapu/wrestler-profile-api/internal/service/cagematch"
	"github.com/kapu/wrestler-profile-api/internal/util"
)

var (
	namesFile   string
	outputFile  string
	concurrency int
	delay       time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "fetch_profiles [names...] [--file names.txt] [--out profiles.json]",
	Short: "Scrapes wrestler profiles for a list of names and writes them as JSON.",
	RunE:  run,
}

func init() {
	rootCmd.Flags().StringVar(&namesFile, "file", "", "File with one wrestler name per line.")
	rootCmd.Flags().StringVar(&outputFile, "out", "data/wrestler_profiles.json", "Output JSON file.")
	rootCmd.Flags().IntVar(&concurrency, "concurrency", 2, "Maximum concurrent profile lookups.")
	rootCmd.Flags().DurationVar(&delay, "delay", 350*time.Millisecond, "Pause after each lookup, per worker.")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := util.NewLogger(cfg.Logging.Level, "")
	if err != nil {
		return err
	}
	defer logger.Sync()

	names, err := collectNames(args, namesFile)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return fmt.Errorf("no wrestler names given")
	}

	client := cagematch.NewClient(cagematch.ClientConfig{
		BaseURL:   cfg.Cagematch.BaseURL,
		UserAgent: cfg.Cagematch.UserAgent,
		Timeout:   cfg.Cagematch.Timeout,
	}, logger)
	resolver := cagematch.NewResolver(client, nil, 0, logger)

	result := resolver.ResolveAll(cmd.Context(), names, cagematch.BatchOptions{
		Concurrency: concurrency,
		Delay:       delay,
	})

	if len(result.Profiles) == 0 {
		return fmt.Errorf("no profiles fetched (%d failures)", len(result.Failures))
	}

	if err := writeProfiles(outputFile, result.Profiles); err != nil {
		return fmt.Errorf("failed to write profiles: %w", err)
	}

	logger.Info("Profile fetch completed",
		zap.Int("count", len(result.Profiles)),
		zap.Int("failures", len(result.Failures)),
		zap.String("output", outputFile))
	return nil
}

func collectNames(args []string, file string) ([]string, error) {
	names := make([]string, 0, len(args))
	seen := make(map[string]struct{})
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	for _, arg := range args {
		add(arg)
	}

	if file == "" {
		return names, nil
	}

	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		add(line)
	}
	return names, scanner.Err()
}

func writeProfiles(path string, profiles map[string]*domain.WrestlerProfile) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(profiles, "", "  ")
	if err != nil {
		return err
	}

	tmpFile := path + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpFile, path)
}
