package cmd

import (
	"github.com/apex/log"
	"github.com/spf13/cobra"
	"github.com/teamup-uiuc/teamup/pkg/tmdb"
	"github.com/teamup-uiuc/teamup/pkg/tmdb/stor"
	"github.com/teamup-uiuc/teamup/pkg/tmdb/tmmodel"
)

var (
	userEmail       string
	userDisplayName string
	userMajor       string
	userGrade       string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var userAddCmd = &cobra.Command{
	Use:   "add <netid>",
	Short: "Create a user account unless one already exists for the netid",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		netID := args[0]
		c := loadConfig()
		userStor := stor.NewGormUserStor(tmdb.MustConnectToDB(c))

		existing, err := userStor.GetUserByNetID(netID)
		switch {
		case err == nil:
			log.Infof("User %s already exists with id %d", netID, existing.ID)
			return
		case !stor.IsNotFound(err):
			log.Fatalf("Unable to look up user %s: %s", netID, err)
		}

		if userDisplayName == "" {
			userDisplayName = netID
		}

		user, err := userStor.CreateUser(&tmmodel.User{
			NetID:       netID,
			Email:       userEmail,
			DisplayName: userDisplayName,
			Major:       userMajor,
			Grade:       userGrade,
		})
		if err != nil {
			log.Fatalf("Unable to create user %s: %s", netID, err)
		}

		log.Infof("Created user %s with id %d", netID, user.ID)
	},
}

func init() {
	userAddCmd.Flags().StringVar(&userEmail, "email", "", "Email address")
	userAddCmd.Flags().StringVar(&userDisplayName, "name", "", "Display name (defaults to the netid)")
	userAddCmd.Flags().StringVar(&userMajor, "major", "", "Major")
	userAddCmd.Flags().StringVar(&userGrade, "grade", "", "Grade")
	userCmd.AddCommand(userAddCmd)
	rootCmd.AddCommand(userCmd)
}
