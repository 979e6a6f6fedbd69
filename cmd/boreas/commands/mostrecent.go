package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fortuna/boreas/internal/store/repository"
)

func init() {
	rootCmd.AddCommand(mostRecentCmd)
}

var mostRecentCmd = &cobra.Command{
	Use:   "most-recent",
	Short: "Prints the highest LeagueStat game id stored locally.",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, _, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer db.Close()

		games := repository.NewGameRepository(db)
		id, err := games.MostRecentExternalID(cmd.Context())
		if err != nil {
			return err
		}
		if id == 0 {
			fmt.Println("No games stored yet")
			return nil
		}
		fmt.Println(id)
		return nil
	},
}
