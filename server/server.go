package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Daskott/rolodex/server/auth/key"
	"github.com/Daskott/rolodex/server/backup"
	"github.com/Daskott/rolodex/server/cron"
	"github.com/Daskott/rolodex/server/gstorage"
	"github.com/Daskott/rolodex/server/logger"
	"github.com/Daskott/rolodex/server/models"
	"github.com/Daskott/rolodex/shared"
	"github.com/go-co-op/gocron"
	"github.com/spf13/viper"
)

var logg = logger.NewLogger()

// Start boots the web server with config & blocks until it gets SIGINT/SIGTERM
func Start(config *viper.Viper, devMode bool) {
	serverConfig, err := LoadConfig(config)
	fatalOnError(err)

	configDir := ConfigDirectory(devMode)

	store, dbBackup, err := openStore(serverConfig, configDir)
	fatalOnError(err)

	dbFilePath := store.Path()

	keyPair, err := loadKeyPair(serverConfig.Rolodex.PrivateKeyPem, devMode)
	fatalOnError(err)

	app, err := NewApp(AppConfig{
		Store:             store,
		KeyPair:           keyPair,
		SessionStore:      newSessionStore(serverConfig.Rolodex.Session),
		SignatureLifespan: time.Duration(serverConfig.Rolodex.SignedURL.LifespanInSeconds) * time.Second,
	})
	fatalOnError(err)

	scheduler := cron.NewScheduler(serverConfig.Rolodex.Cron.TimeZone)
	if dbBackup != nil {
		schedule := serverConfig.Google.Storage.SqliteBackupSchedule
		fatalOnError(dbBackup.Schedule(scheduler, schedule, store, dbFilePath))
	}
	scheduler.StartAsync()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%v", serverConfig.Rolodex.Listener.Port),
		Handler:      app.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go serve(server)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	<-interrupt

	cleanup(scheduler, server, store, dbBackup, dbFilePath)
}

// LoadConfig reads the server section of config & validates it
func LoadConfig(config *viper.Viper) (*shared.ServerConfig, error) {
	serverConfig := &shared.ServerConfig{}
	if err := config.Unmarshal(serverConfig); err != nil {
		return nil, fmt.Errorf("invalid server config: %v", err)
	}

	if err := validate.Struct(serverConfig); err != nil {
		return nil, fmt.Errorf("invalid server config: %v", err)
	}

	return serverConfig, nil
}

// AddUser creates an account, e.g. to seed the first user of a new server
func AddUser(config *viper.Viper, dataDir string, user *models.User) error {
	serverConfig, err := LoadConfig(config)
	if err != nil {
		return err
	}

	if err := validate.Struct(user); err != nil {
		return err
	}

	store, dbBackup, err := openStore(serverConfig, dataDir)
	if err != nil {
		return err
	}
	defer store.Close()
	if dbBackup != nil {
		defer dbBackup.Close()
	}

	if err := store.CreateUser(user); err != nil {
		return err
	}

	if dbBackup != nil {
		return dbBackup.Save(context.Background(), store, store.Path())
	}

	return nil
}

// openStore restores the db from its backup when needed, then opens & migrates it.
// The returned backup is nil when backups are disabled.
func openStore(serverConfig *shared.ServerConfig, dataDir string) (*models.Store, *backup.Backup, error) {
	dbFilePath, err := models.DbFilePath(dataDir)
	if err != nil {
		return nil, nil, err
	}

	var dbBackup *backup.Backup
	storageConfig := serverConfig.Google.Storage
	if storageConfig.EnableSqliteBackupAndSync {
		gStorage, err := gstorage.NewGStorage(context.Background(), serverConfig.Google.ApplicationCredentials)
		if err != nil {
			return nil, nil, err
		}

		dbBackup = backup.New(gStorage, storageConfig.Bucket, storageConfig.Prefix)
		if err := dbBackup.Restore(context.Background(), dbFilePath); err != nil {
			dbBackup.Close()
			return nil, nil, err
		}
	}

	store, err := models.Open(serverConfig.Sqlite.PassPhrase, dataDir)
	if err == nil {
		err = store.AutoMigrate()
		if err != nil {
			store.Close()
		}
	}

	if err != nil {
		if dbBackup != nil {
			dbBackup.Close()
		}
		return nil, nil, err
	}

	return store, dbBackup, nil
}

func loadKeyPair(privateKeyPem string, devMode bool) (*key.KeyPair, error) {
	if privateKeyPem != "" {
		return key.NewKeyPairFromRSAPrivateKeyPem(privateKeyPem)
	}

	if !devMode {
		return nil, fmt.Errorf("'rolodex.privateKeyPem' is required")
	}

	logg.Warn("no 'rolodex.privateKeyPem' set, using a generated key. Signed urls won't survive a restart")
	return key.GenerateKeyPair()
}

// runs on shutdown, the last backup is taken after the server stops taking writes
func cleanup(scheduler *gocron.Scheduler, server *http.Server, store *models.Store, dbBackup *backup.Backup, dbFilePath string) {
	scheduler.Stop()

	// Shutdown server gracefully
	ctxShutDown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutDown); err != nil {
		logg.Errorf("rolodex server shutdown failed:%+s", err)
	}

	if dbBackup != nil {
		if err := dbBackup.Save(context.Background(), store, dbFilePath); err != nil {
			logg.Error(err)
		}

		if err := dbBackup.Close(); err != nil {
			logg.Error(err)
		}
	}

	if err := store.Close(); err != nil {
		logg.Error(err)
	}

	logg.Infof("rolodex server stopped properly")
}
