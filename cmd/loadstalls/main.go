package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"parking_recommender/internal/cache"
	"parking_recommender/internal/config"
	"parking_recommender/internal/loader"
	"parking_recommender/internal/logger"
	"parking_recommender/internal/repository"
)

var (
	surveyFile string
	lotID      string
	scopeFlag  string
	migrate    bool
)

var rootCmd = &cobra.Command{
	Use:   "loadstalls",
	Short: "Load parking stall data from a GeoJSON file",
	Long: `Replace every stall of a lot with the polygons of a GeoJSON survey and
recompute stall adjacency. The whole load runs in one transaction.`,
	SilenceUsage: true,
	RunE:         runLoad,
}

func init() {
	rootCmd.Flags().StringVar(&surveyFile, "file", "", "Path to the GeoJSON source file")
	rootCmd.Flags().StringVar(&lotID, "lot-id", "", "The lot id to assign to the stalls (e.g. LotA)")
	rootCmd.Flags().StringVar(&scopeFlag, "scope", "", "Adjacency recompute scope: lot or global (default from ADJACENCY_SCOPE)")
	rootCmd.Flags().BoolVar(&migrate, "migrate", true, "Create or update tables before loading")
	_ = rootCmd.MarkFlagRequired("file")
	_ = rootCmd.MarkFlagRequired("lot-id")
}

func runLoad(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	logger.Setup(logger.Options{File: cfg.LogFile, Level: cfg.LogLevel, Console: true})

	if scopeFlag == "" {
		scopeFlag = cfg.AdjacencyScope
	}
	scope, err := loader.ParseScope(scopeFlag)
	if err != nil {
		return err
	}

	db, err := config.OpenDB(cfg)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if migrate {
		if err := config.Migrate(db); err != nil {
			return err
		}
	}

	opts := []loader.Option{loader.WithScope(scope)}
	if rc := config.OpenRedis(cfg); rc != nil {
		defer rc.Close()
		opts = append(opts, loader.WithInvalidator(cache.NewSpotCache(rc, cfg.CacheTTL)))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := loader.New(repository.New(db), opts...).LoadFile(ctx, surveyFile, lotID)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d stalls into %s (%d skipped, %d neighbor pairs) in %s\n",
		res.Stalls, res.LotID, res.Skipped, res.Pairs, res.Duration)
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logrus.WithError(err).Error("Stall load failed")
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
