// Package backup keeps a copy of the sqlite db in an object store & restores it
// when a server boots without a local db.
package backup

import (
	"context"
	"errors"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/Daskott/rolodex/server/gstorage"
	"github.com/Daskott/rolodex/server/logger"
	"github.com/Daskott/rolodex/utils"
	"github.com/go-co-op/gocron"
	pkgerrors "github.com/pkg/errors"
)

const JOB_TAG = "backupSqliteDb"

var logg = logger.NewLogger()

// ObjectStore is satisfied by *gstorage.GStorage
type ObjectStore interface {
	UploadFile(ctx context.Context, bucket, object, filePath string) error
	DownloadFile(ctx context.Context, bucket, object, destFileName string) error
}

// Checkpointer flushes pending writes into the db file, so the file alone is a full copy
type Checkpointer interface {
	Checkpoint() error
}

type Backup struct {
	store  ObjectStore
	bucket string
	prefix string
}

func New(store ObjectStore, bucket, prefix string) *Backup {
	return &Backup{store: store, bucket: bucket, prefix: prefix}
}

// ObjectName is where the file at filePath lives in the bucket
func (b *Backup) ObjectName(filePath string) string {
	return path.Join(b.prefix, filepath.Base(filePath))
}

// Restore downloads the backup to dbFilePath, unless a local db already exists.
// A missing backup isn't an error, the server just starts with an empty db.
func (b *Backup) Restore(ctx context.Context, dbFilePath string) error {
	exists, err := utils.FileExist(dbFilePath)
	if err != nil {
		return err
	}

	if exists {
		logg.Infof("using local db %v", dbFilePath)
		return nil
	}

	err = b.store.DownloadFile(ctx, b.bucket, b.ObjectName(dbFilePath), dbFilePath)
	if errors.Is(err, gstorage.ErrObjectNotExist) {
		logg.Infof("no backup found in %v, starting with an empty db", b.bucket)
		return nil
	}

	if err != nil {
		// Don't leave a partial file behind to be mistaken for a db
		os.Remove(dbFilePath)
		return pkgerrors.Wrap(err, "could not restore db")
	}

	return nil
}

// Save checkpoints the db, then uploads its file
func (b *Backup) Save(ctx context.Context, db Checkpointer, dbFilePath string) error {
	if err := db.Checkpoint(); err != nil {
		return pkgerrors.Wrap(err, "could not checkpoint db")
	}

	if err := b.store.UploadFile(ctx, b.bucket, b.ObjectName(dbFilePath), dbFilePath); err != nil {
		return pkgerrors.Wrap(err, "could not backup db")
	}

	return nil
}

// Close releases the object store's client, if it has one
func (b *Backup) Close() error {
	if closer, ok := b.store.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// Schedule runs Save on scheduler for each tick of the cron expression
func (b *Backup) Schedule(scheduler *gocron.Scheduler, cronExpression string, db Checkpointer, dbFilePath string) error {
	_, err := scheduler.Cron(cronExpression).Tag(JOB_TAG).Do(func() {
		if err := b.Save(context.Background(), db, dbFilePath); err != nil {
			logg.Error(err)
		}
	})

	return err
}
