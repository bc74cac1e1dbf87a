/*
Copyright © 2021 Edmond Cotterell

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/Daskott/rolodex/server"
	"github.com/Daskott/rolodex/server/models"
	"github.com/spf13/cobra"
)

var (
	firstNameArg string
	lastNameArg  string
	emailArg     string
	passwordArg  string
	dataDirArg   string
)

func createUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage rolodex accounts",
	}

	cmd.AddCommand(createUserAddCmd())
	return cmd
}

func createUserAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an account",
		Long: `Create an account directly in the server's db, e.g. to seed the first user.
The server should not be running, as it would overwrite the backup on shutdown.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := serverConfig(cmd)
			if err != nil {
				return err
			}

			dataDir := dataDirArg
			if dataDir == "" {
				dataDir = server.ConfigDirectory(isDevEnv)
			}

			user := &models.User{
				FirstName: firstNameArg,
				LastName:  lastNameArg,
				Email:     strings.ToLower(strings.TrimSpace(emailArg)),
				Password:  passwordArg,
			}

			if err := server.AddUser(config, dataDir, user); err != nil {
				return formattedError("could not add user: %v", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "user %v was created\n", user.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&firstNameArg, "first-name", "", "first name of the user")
	cmd.Flags().StringVar(&lastNameArg, "last-name", "", "last name of the user")
	cmd.Flags().StringVarP(&emailArg, "email", "e", "", "email the user logs in with")
	cmd.Flags().StringVarP(&passwordArg, "password", "p", "", "password the user logs in with")
	cmd.Flags().StringVar(&dataDirArg, "data-dir", "", "directory holding the db (default is ~/rolodex, or ./dev in dev mode)")
	addServerConfigFlag(cmd)

	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}
