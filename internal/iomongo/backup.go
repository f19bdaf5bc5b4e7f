package iomongo

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fishresearch/trapdb/pkg/docstore"
	"github.com/fishresearch/trapdb/pkg/sample"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// fileBackup writes records as canonical Extended JSON, one document per
// line. The files can be restored with
// `mongoimport --mode upsert --file <backup>`.
type fileBackup struct {
	dir    string
	create func(path string) (io.WriteCloser, error)
}

// NewBackup creates a backup writer that keeps files in dir.
func NewBackup(dir string) docstore.Backup {
	return &fileBackup{dir: dir, create: createFile}
}

func createFile(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// Write saves records to <dir>/<collection>-<uuid>.jsonl.
func (b *fileBackup) Write(coll string, recs []sample.Record) (string, error) {
	if err := os.MkdirAll(b.dir, 0755); err != nil {
		return "", BackupError(b.dir, err)
	}

	name := fmt.Sprintf("%s-%s.jsonl", coll, uuid.NewString())
	path := filepath.Join(b.dir, name)
	f, err := b.create(path)
	if err != nil {
		return "", BackupError(path, err)
	}

	err = writeLines(f, recs)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return "", BackupError(path, err)
	}
	return path, nil
}

// writeLines writes one Extended JSON document per line.
func writeLines(f io.Writer, recs []sample.Record) error {
	w := bufio.NewWriter(f)
	for _, rec := range recs {
		line, err := bson.MarshalExtJSON(ToDocument(rec), true, false)
		if err != nil {
			return err
		}
		if _, err = w.Write(line); err != nil {
			return err
		}
		if err = w.WriteByte('\n'); err != nil {
			return err
		}
	}
	return w.Flush()
}
