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

	"github.com/Daskott/rolodex/server/logger"
	"github.com/Daskott/rolodex/version"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	isDevEnv bool
	logLevel string

	yellow       = color.New(color.FgYellow).SprintFunc()
	red          = color.New(color.FgRed).SprintFunc()
	warningLabel = yellow("Warning:")
)

// rootCmd represents the base command when called without any subcommands
var rootCmd *cobra.Command

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd = createRootCmd()
}

// createRootCmd builds the whole command tree, with flags bound to fresh defaults
func createRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rolodex",
		Short: "rolodex is a small web app for keeping your contacts & a product catalog",
		Long: `rolodex serves a contact book (contacts & their phone numbers, private to each account)
and a product catalog, from an encrypted sqlite db that can be backed up to google storage.`,
		Version:       fmt.Sprintf("v%s", version.Version),
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := logger.SetLevel(logLevel); err != nil {
				return formattedError("invalid --log-level %q", logLevel)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&isDevEnv, "dev", "", false, "run in development mode")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "debug", "log level i.e. debug, info, warn or error")

	cmd.AddCommand(createServerCmd(), createUserCmd())

	return cmd
}

func formattedError(format string, a ...interface{}) error {
	return fmt.Errorf(red(format), a...)
}
