package server

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/Daskott/rolodex/shared"
	"github.com/Daskott/rolodex/utils"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

// ---------------------------------------------------------------------------------//
// Server Helper functions
// --------------------------------------------------------------------------------//

func serve(server *http.Server) {
	logg.Infof("rolodex server is listening on %v", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Fatal(err)
	}
}

// newSessionStore uses the configured keys as hash/block key pairs.
// Without keys, sessions are signed with a random key & won't survive a restart.
func newSessionStore(config shared.SessionConfig) *sessions.CookieStore {
	keyPairs := [][]byte{}
	for _, key := range config.Keys {
		keyPairs = append(keyPairs, []byte(key))
	}

	if len(keyPairs) == 0 {
		logg.Warn("no 'rolodex.session.keys' set, using a generated session key")
		keyPairs = append(keyPairs, securecookie.GenerateRandomKey(32))
	}

	store := sessions.NewCookieStore(keyPairs...)
	store.Options.HttpOnly = true
	store.Options.Secure = config.Secure
	store.Options.SameSite = http.SameSiteLaxMode
	if config.MaxAge > 0 {
		store.MaxAge(config.MaxAge)
	}

	return store
}

// ConfigDirectory retrieves the directory to store rolodex data
// Or logs an error message and then calls os.Exit if it's unable to.
func ConfigDirectory(devMode bool) string {
	// Use 'rolodex' folder in home directory for prod
	configFolderName := "rolodex"
	rootDir, err := os.UserHomeDir()
	fatalOnError(err)

	// Use 'dev' folder in current directory for dev mode
	if devMode {
		configFolderName = "dev"
		rootDir, err = os.Getwd()
		fatalOnError(err)
	}

	configDir := filepath.Join(rootDir, configFolderName)

	err = utils.CreateDirIfNotExist(configDir)
	fatalOnError(err)

	return configDir
}

func fatalOnError(err error) {
	if err != nil {
		logg.Fatal(err)
	}
}
