package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ely.by/appearance/internal/security"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Creates a new token, which allows to interact with the appearances API",
	RunE: func(cmd *cobra.Command, args []string) error {
		container := shouldGetContainer()
		var auth *security.Jwt
		err := container.Resolve(&auth)
		if err != nil {
			return err
		}

		token, err := auth.NewToken(security.AppearanceScope)
		if err != nil {
			return fmt.Errorf("unable to create a new token: %w", err)
		}

		fmt.Println(string(token))

		return nil
	},
}

func init() {
	RootCmd.AddCommand(tokenCmd)
}
