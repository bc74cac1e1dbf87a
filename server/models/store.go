package models

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/Daskott/rolodex/server/logger"
	"github.com/Daskott/rolodex/utils"
	sqliteEncrypt "github.com/Daskott/gorm-sqlite-cipher"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const DB_NAME = "rolodex.db"

var logg = logger.NewLogger()

// Store is the storage handle passed to every request
type Store struct {
	db   *gorm.DB
	path string
}

// Open opens (creating if needed) the encrypted sqlite db in '<dbRootDir>/db'
func Open(passPhrase string, dbRootDir string) (*Store, error) {
	dbFilePath, err := DbFilePath(dbRootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to set sqlite DSN: %v", err)
	}

	db, err := gorm.Open(sqliteEncrypt.Open(dbDSN(passPhrase, dbFilePath)), &gorm.Config{
		Logger: gormLogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormLogger.Config{
				LogLevel:                  gormLogger.Silent,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %v", err)
	}

	return &Store{db: db, path: dbFilePath}, nil
}

// AutoMigrate auto-migrates the db schema
func (store *Store) AutoMigrate() error {
	err := store.db.AutoMigrate(&User{}, &Product{}, &Contact{}, &Phone{})
	if err != nil {
		return fmt.Errorf("AutoMigrate: %v", err)
	}

	logg.Debugf("db schema migrated: %v", store.path)
	return nil
}

// Path is the location of the sqlite file on disk
func (store *Store) Path() string {
	return store.path
}

// Checkpoint flushes the WAL into the main db file, so the file can be copied
func (store *Store) Checkpoint() error {
	return store.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)").Error
}

func (store *Store) Close() error {
	sqlDB, err := store.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

func dbDSN(passPhrase string, dbFilePath string) string {
	return fmt.Sprintf(
		"file:%v?_pragma_key=%s&_pragma_cipher_page_size=4096&_journal_mode=WAL",
		dbFilePath,
		passPhrase,
	)
}

func DbDirectory(dbRootDir string) (string, error) {
	dbDir := filepath.Join(dbRootDir, "db")

	err := utils.CreateDirIfNotExist(dbDir)
	if err != nil {
		return "", err
	}

	return dbDir, nil
}

func DbFilePath(dbRootDir string) (string, error) {
	dbDir, err := DbDirectory(dbRootDir)
	if err != nil {
		return "", err
	}

	return filepath.Join(dbDir, DB_NAME), nil
}
