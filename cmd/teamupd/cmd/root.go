package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"github.com/teamup-uiuc/teamup/pkg/clog"
	"github.com/teamup-uiuc/teamup/pkg/config"
	"github.com/teamup-uiuc/teamup/pkg/matching"
	"github.com/teamup-uiuc/teamup/pkg/notify"
	"github.com/teamup-uiuc/teamup/pkg/tmdb"
	"github.com/teamup-uiuc/teamup/pkg/tmdb/stor"
	"github.com/teamup-uiuc/teamup/pkg/webapi"
	"github.com/teamup-uiuc/teamup/pkg/webapi/apimiddleware"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "teamupd",
	Short: "Run the teamup API server",
	Long: `teamupd serves the teamup API: posts advertising teams, join requests,
team membership and post comments. Configuration comes from the environment,
a dotenv file named by TEAMUP_DOTENV_PATH, or a config file given with --config.`,
	Run: func(cmd *cobra.Command, args []string) {
		c := loadConfig()
		if err := Run(context.Background(), c); err != nil {
			log.Fatalf("teamupd: %s", err)
		}
	},
}

func Run(ctx context.Context, c config.Configer) error {
	db := tmdb.MustConnectToDB(c)

	if c.GetBoolKeyWithDefault("TEAMUP_AUTO_MIGRATE", false) {
		if err := tmdb.RunMigrations(db); err != nil {
			return err
		}
	}

	hub := notify.NewHub()
	svc := matching.NewService(db, matching.Options{
		ReopenOnLeave: c.GetBoolKeyWithDefault("TEAMUP_REOPEN_ON_LEAVE", true),
		Notifier:      hub,
	})

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	if origins := c.GetListKey("TEAMUP_CORS_ORIGINS"); len(origins) != 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{AllowOrigins: origins}))
	}

	webapi.SetupRoutes(e, webapi.RouteOpts{
		DB:        db,
		Service:   svc,
		Hub:       hub,
		UserCache: apimiddleware.NewUserCache(stor.NewGormUserStor(db)),
		RefStor:   stor.NewGormReferenceStor(db),
	})

	addr := ":" + c.GetKeyWithDefault("TEAMUP_PORT", "8000")
	go func() {
		clog.Global().Infof("Listening on %s", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Unable to start server: %s", err)
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	clog.Global().Infof("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return e.Shutdown(shutdownCtx)
}

// loadConfig reads the --config file when given and the dotenv file otherwise, then sets
// up logging from it.
func loadConfig() config.Configer {
	var c config.Configer
	if cfgFile != "" {
		c = config.MustLoadFromFile(cfgFile)
	} else {
		c = config.MustLoadFromDotenv()
	}

	for _, logCtx := range []string{matching.LogCtx, webapi.LogCtx, notify.LogCtx} {
		clog.AddLoggingContext(logCtx, os.Stdout)
	}

	level := c.GetKeyWithDefault("TEAMUP_LOG_LEVEL", "info")
	if err := clog.SetGlobalLoggerLevelFromString(level); err != nil {
		log.Fatalf("Invalid TEAMUP_LOG_LEVEL %q: %s", level, err)
	}

	for logCtx := range clog.Levels() {
		if logCtx == clog.GlobalLoggerCtx {
			continue
		}

		if err := clog.SetLevelFromString(logCtx, level); err != nil {
			log.Fatalf("Invalid TEAMUP_LOG_LEVEL %q: %s", level, err)
		}
	}

	return c
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, toml or json)")
}
