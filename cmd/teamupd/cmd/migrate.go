package cmd

import (
	"github.com/apex/log"
	"github.com/spf13/cobra"
	"github.com/teamup-uiuc/teamup/pkg/tmdb"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema and exit",
	Run: func(cmd *cobra.Command, args []string) {
		c := loadConfig()
		db := tmdb.MustConnectToDB(c)
		if err := tmdb.RunMigrations(db); err != nil {
			log.Fatalf("Migration failed: %s", err)
		}

		log.Infof("Migrations complete")
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
