package export

import (
	"os"
	"path/filepath"

	"github.com/teranos/archex/errors"
	"github.com/teranos/archex/logger"
)

// Layout of the written tree, relative to the output directory
const (
	TreeDir   = "adl-bmm"
	SchemaDir = "rm_schemas"
	RepoDir   = "adl-repo"
)

// rename is swapped in tests
var rename = os.Rename

// WriteTree writes res under dir/adl-bmm, replacing any previous tree. The
// documents are written to a staging directory first and swapped in, so a
// failed write leaves the previous tree in place.
func WriteTree(dir string, res *Result) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "failed to create output directory %s", dir)
	}

	staging, err := os.MkdirTemp(dir, "."+TreeDir+"-")
	if err != nil {
		return errors.Wrap(err, "failed to create staging directory")
	}
	defer os.RemoveAll(staging)

	if err := writeDocument(filepath.Join(staging, SchemaDir), res.Schema); err != nil {
		return err
	}
	for _, d := range res.Archetypes {
		if err := writeDocument(filepath.Join(staging, RepoDir), d); err != nil {
			return err
		}
	}

	target := filepath.Join(dir, TreeDir)
	// the previous tree is set aside, not removed, until the new one is in place
	var previous string
	if _, err := os.Stat(target); err == nil {
		previous = staging + ".old"
		if err := rename(target, previous); err != nil {
			return errors.Wrapf(err, "failed to set aside previous tree %s", target)
		}
	}
	if err := rename(staging, target); err != nil {
		if previous != "" {
			if rerr := rename(previous, target); rerr != nil {
				return errors.Wrapf(err, "failed to move tree into %s; previous tree left at %s", target, previous)
			}
		}
		return errors.Wrapf(err, "failed to move tree into %s", target)
	}
	if previous != "" {
		if err := os.RemoveAll(previous); err != nil {
			logger.Warnw("failed to remove previous tree", logger.FieldPath, previous, logger.FieldError, err)
		}
	}
	// MkdirTemp creates 0700 directories
	if err := os.Chmod(target, 0755); err != nil {
		return errors.Wrapf(err, "failed to set permissions on %s", target)
	}

	logger.Infow("wrote export tree",
		logger.FieldPath, target,
		logger.FieldCount, len(res.Archetypes)+1)
	return nil
}

func writeDocument(dir string, d Document) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, "failed to create %s", dir)
	}
	path := filepath.Join(dir, d.File)
	if err := os.WriteFile(path, []byte(d.Text), 0644); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	logger.Debugw("wrote document", logger.FieldFile, path, logger.FieldSize, len(d.Text))
	return nil
}
