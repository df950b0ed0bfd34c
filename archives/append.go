package archives

import (
	"archive/zip"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"github.com/digimatspa/sertit-utils/files"
	"github.com/digimatspa/sertit-utils/internal/constants"
	"github.com/digimatspa/sertit-utils/logs"
)

// AppendToZip adds folders to an already existing zip file, recursively.
// Inputs that are archive files themselves are extracted into a scratch
// directory first, so mixed folder/archive inputs all end up as folders.
// Each folder is stored relative to its parent, keeping the folder's own
// name as the top-level prefix inside the zip.
//
// The zip must already exist; this function only appends, never creates.
// The update is not atomic towards readers of the file: Go's archive/zip
// cannot open a writer in append mode, so existing entries are carried
// over into a rewritten file which then replaces the original.
//
// A remote zip is downloaded first and the updated archive is returned
// at a durable local path under the scratch root, owned by the caller.
// Nothing is written back to the remote backend: the Resolver only reads.
func (s *ServiceImpl) AppendToZip(ctx context.Context, zipPath string, inputs []string) (string, error) {
	if !s.resolver.IsFile(zipPath) {
		return "", fmt.Errorf("%w: non existing '%s'", ErrNotFound, zipPath)
	}

	var (
		localZip = zipPath
		remote   = s.resolver.IsRemote(zipPath)
	)

	if remote {
		scratch, cleanup, err := s.newScratchDir()
		if err != nil {
			return "", err
		}

		defer cleanup(ctx)

		downloaded, err := s.resolver.DownloadTo(ctx, zipPath, scratch)
		if err != nil {
			return "", fmt.Errorf("failed to download '%s': %w", zipPath, err)
		}

		localZip = downloaded
	}

	existing, err := zip.OpenReader(localZip)
	if err != nil {
		return "", fmt.Errorf("%w: impossible to open '%s': %w", ErrCorruptArchive, localZip, err)
	}

	updated, err := os.CreateTemp(filepath.Dir(localZip), filepath.Base(localZip)+".*")
	if err != nil {
		_ = existing.Close()

		return "", fmt.Errorf("failed to create updated zip next to '%s': %w", localZip, err)
	}

	updatedPath := updated.Name()
	writer := zip.NewWriter(updated)

	err = s.appendInputs(ctx, writer, existing, localZip, inputs)

	_ = existing.Close()

	if closeErr := writer.Close(); err == nil {
		err = closeErr
	}

	if closeErr := updated.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		if removeErr := files.Remove(updatedPath); removeErr != nil {
			logs.Debugf(ctx, "Failed to clean '%s': %v", updatedPath, removeErr)
		}

		return "", err
	}

	if err = os.Rename(updatedPath, localZip); err != nil {
		return "", fmt.Errorf("failed to replace '%s': %w", localZip, err)
	}

	if remote {
		// The staging directory is removed on return, so the updated
		// archive moves to its own directory under the scratch root.
		durable := filepath.Join(s.scratchRoot, "sertit-"+uuid.NewString())
		if err = os.MkdirAll(durable, constants.DefaultFolderPermissions); err != nil {
			return "", fmt.Errorf("failed to create '%s': %w", durable, err)
		}

		kept := filepath.Join(durable, filepath.Base(localZip))
		if err = os.Rename(localZip, kept); err != nil {
			return "", fmt.Errorf("failed to keep updated '%s': %w", localZip, err)
		}

		return kept, nil
	}

	return localZip, nil
}

func (s *ServiceImpl) appendInputs(
	ctx context.Context,
	writer *zip.Writer,
	existing *zip.ReadCloser,
	zipPath string,
	inputs []string,
) error {
	// Carry existing members over without recompressing them.
	for _, member := range existing.File {
		if err := writer.Copy(member); err != nil {
			return fmt.Errorf("%w: impossible to carry over member '%s': %w", ErrCorruptArchive, member.Name, err)
		}
	}

	bar := progressbar.Default(int64(len(inputs)), "Adding")

	for _, input := range inputs {
		bar.Describe(fmt.Sprintf("Adding %s to %s", filepath.Base(input), filepath.Base(zipPath)))

		folders, cleanup, err := s.normalizeInput(ctx, input)
		if err != nil {
			return err
		}

		for _, folder := range folders {
			if err = addFolderToZip(writer, folder); err != nil {
				cleanup(ctx)

				return err
			}
		}

		cleanup(ctx)

		_ = bar.Add(1)
	}

	return nil
}

// normalizeInput turns an input into one or more folders to add.
// Archive files are extracted into a scratch directory first. The
// returned cleanup discards that scratch directory; for plain folders
// it is a no-op.
func (s *ServiceImpl) normalizeInput(ctx context.Context, input string) ([]string, func(context.Context), error) {
	noop := func(context.Context) {}

	if !s.resolver.IsFile(input) {
		return []string{input}, noop, nil
	}

	scratch, cleanup, err := s.newScratchDir()
	if err != nil {
		return nil, nil, err
	}

	extracted, err := s.Extract(ctx, input, scratch, false)
	if err != nil {
		cleanup(ctx)

		return nil, nil, err
	}

	return extracted, cleanup, nil
}
