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
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	devConfig "github.com/Daskott/rolodex/dev/config"
	"github.com/Daskott/rolodex/server"
	"github.com/Daskott/rolodex/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serverConfigFile string

func createServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start a rolodex server",
		Long: `Start the rolodex web server. It serves /contacts, /products & /auth until it
receives SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := serverConfig(cmd)
			if err != nil {
				return err
			}

			server.Start(config, isDevEnv)
			return nil
		},
	}

	addServerConfigFlag(cmd)

	return cmd
}

func addServerConfigFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&serverConfigFile, "sconfig", "", "config for server (default is dev/config/server.yml in dev mode)")
}

// serverConfig reads the server config file. Env vars override it e.g. SQLITE_PASSPHRASE
func serverConfig(cmd *cobra.Command) (*viper.Viper, error) {
	config := viper.New()

	configFile := serverConfigFile
	if configFile == "" {
		if !isDevEnv {
			return nil, formattedError("\"sconfig\" not set")
		}

		devConfigFile, err := devConfigFilePath()
		if err != nil {
			return nil, err
		}

		fmt.Fprintf(cmd.ErrOrStderr(), "%s using dev config %v\n", warningLabel, devConfigFile)
		configFile = devConfigFile
	}

	config.SetConfigFile(configFile)
	config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	config.AutomaticEnv() // read in environment variables that match

	if err := config.ReadInConfig(); err != nil {
		return nil, formattedError("error reading server config file: %v", err)
	}

	return config, nil
}

// devConfigFilePath returns dev/config/server.yml, creating it from the defaults if it doesn't exist
func devConfigFilePath() (string, error) {
	rootDir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	configDir := filepath.Join(rootDir, "dev", "config")
	if err := utils.CreateDirIfNotExist(configDir); err != nil {
		return "", err
	}

	configFile := filepath.Join(configDir, "server.yml")
	exists, err := utils.FileExist(configFile)
	if err != nil {
		return "", err
	}

	if !exists {
		if err := ioutil.WriteFile(configFile, []byte(devConfig.SERVER_YML), 0600); err != nil {
			return "", err
		}
	}

	return configFile, nil
}
