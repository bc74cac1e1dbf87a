package cmd

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Daskott/rolodex/server/auth"
	"github.com/Daskott/rolodex/server/logger"
	"github.com/Daskott/rolodex/version"
	"golang.org/x/crypto/bcrypt"
)

type TestDataProvider []struct {
	description string
	args        []string
	expectedOut string
}

const TEST_SERVER_YML = `
rolodex:
  cron:
    timeZone: "UTC"
  listener:
    port: 3000

sqlite:
  passPhrase: passphrase
`

func TestRootCmd(t *testing.T) {
	auth.PasswordHashCost = bcrypt.MinCost
	defer logger.SetLevel("debug")

	tempDir := t.TempDir()
	configFile := filepath.Join(tempDir, "server.yml")
	if err := ioutil.WriteFile(configFile, []byte(TEST_SERVER_YML), 0600); err != nil {
		t.Fatal(err)
	}

	addUserArgs := func(email string) []string {
		return []string{"user", "add",
			"--sconfig", configFile,
			"--data-dir", tempDir,
			"--first-name", "Ada",
			"--last-name", "Lovelace",
			"--email", email,
			"--password", "password",
		}
	}

	cases := TestDataProvider{
		{
			description: "Should print version",
			args:        []string{"--version"},
			expectedOut: fmt.Sprintf("v%s", version.Version),
		},
		{
			description: "Should fail with an unknown log level",
			args:        []string{"--log-level", "loud", "user", "add", "-e", "ada@example.com", "-p", "password"},
			expectedOut: "invalid --log-level \"loud\"",
		},
		{
			description: "Should NOT start server without a config outside dev mode",
			args:        []string{"server"},
			expectedOut: "\"sconfig\" not set",
		},
		{
			description: "Should NOT add user without email & password",
			args:        []string{"user", "add", "--sconfig", configFile},
			expectedOut: "required flag(s) \"email\", \"password\" not set",
		},
		{
			description: "Should NOT add user with a missing config file",
			args:        []string{"user", "add", "-e", "ada@example.com", "-p", "password", "--sconfig", filepath.Join(tempDir, "missing.yml")},
			expectedOut: "error reading server config file",
		},
		{
			description: "Should add user",
			args:        addUserArgs("ada@example.com"),
			expectedOut: "user ada@example.com was created",
		},
		{
			description: "Should NOT add the same user twice",
			args:        addUserArgs("ada@example.com"),
			expectedOut: "an account with this email already exists",
		},
		{
			description: "Should NOT add user with an invalid email",
			args:        addUserArgs("ada"),
			expectedOut: "could not add user",
		},
	}

	for _, c := range cases {
		t.Run(c.description, func(t *testing.T) {
			buff := new(bytes.Buffer)

			cmd := createRootCmd()
			cmd.SetOut(buff)
			cmd.SetErr(buff)
			cmd.SetArgs(c.args)

			cmd.Execute()

			actualOut := buff.String()
			if !strings.Contains(actualOut, c.expectedOut) {
				t.Errorf("Expected: \n\"%s\" \nTo contain: \n\"%s\"", actualOut, c.expectedOut)
			}
		})
	}
}
