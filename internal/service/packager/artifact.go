package packager

import (
	"context"
	"crypto"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	goupdate "github.com/doitdistributed/go-update"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/breathe-build/internal/config"
	"github.com/oshokin/breathe-build/internal/domain/build"
	"github.com/oshokin/breathe-build/internal/logger"
	"github.com/oshokin/breathe-build/internal/service/common"
	"github.com/oshokin/breathe-build/internal/version"

	// Ensure SHA512 available for checksum calculation.
	_ "crypto/sha512"
)

const (
	// ArtifactFileMode is the mode of the published executable.
	ArtifactFileMode os.FileMode = 0o755

	// ChecksumFunction is used to verify and record the executable.
	ChecksumFunction crypto.Hash = crypto.SHA512
)

var errHashUnavailable = errors.New("hash function unavailable")

// publish moves the staged executable into the output directory, replacing
// the previous build only after the checksum of the new one is verified.
func (b *Builder) publish(ctx context.Context, staged string) (string, []byte, error) {
	checksum, err := FileChecksum(staged)
	if err != nil {
		return "", nil, err
	}

	if err = os.MkdirAll(b.opts.DistDir, dirMode); err != nil {
		return "", nil, fmt.Errorf("create output directory: %w", err)
	}

	target := filepath.Join(b.opts.DistDir, filepath.Base(staged))

	source, err := os.Open(filepath.Clean(staged))
	if err != nil {
		return "", nil, fmt.Errorf("open staged executable: %w", err)
	}

	defer func() {
		_ = source.Close()
	}()

	// go-update swaps an existing file, so a first build needs a placeholder.
	createdPlaceholder := false

	if _, err = os.Stat(target); errors.Is(err, os.ErrNotExist) {
		var placeholder *os.File

		placeholder, err = os.OpenFile(filepath.Clean(target), os.O_CREATE|os.O_WRONLY, ArtifactFileMode)
		if err != nil {
			return "", nil, fmt.Errorf("create %s: %w", target, err)
		}

		_ = placeholder.Close()
		createdPlaceholder = true
	}

	logger.InfoKV(ctx, "Publishing the executable", "path", target)

	options := goupdate.Options{
		TargetPath: target,
		TargetMode: ArtifactFileMode,
		Checksum:   checksum,
		Hash:       ChecksumFunction,
	}

	if err = goupdate.Apply(source, options); err != nil {
		// A failed first build must not leave an empty executable behind.
		if createdPlaceholder {
			if removeErr := os.Remove(target); removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
				logger.WarnKV(ctx, "Unable to remove the placeholder", "path", target, "error", removeErr)
			}
		}

		return "", nil, fmt.Errorf("publish %s: %w", target, err)
	}

	// The previous executable is kept under a hidden name until it can be removed.
	oldFileName := filepath.Join(b.opts.DistDir, "."+filepath.Base(target)+".old")
	if _, err = os.Stat(oldFileName); err == nil {
		_ = os.Remove(oldFileName)
	}

	return target, checksum, nil
}

// saveManifest writes the build record next to the intermediate artifacts.
func (b *Builder) saveManifest(ctx context.Context, manifest *build.Manifest) error {
	contents, err := yaml.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("marshal build manifest: %w", err)
	}

	path := filepath.Join(b.opts.WorkDir, build.ManifestFilename(b.opts))

	logger.DebugKV(ctx, "Saving build manifest", "path", path)

	if err = os.WriteFile(path, contents, config.DefaultFilePermissions); err != nil {
		return fmt.Errorf("write build manifest: %w", err)
	}

	return nil
}

func newManifest(
	ctx context.Context,
	opts build.Options,
	toolVersion, artifact string,
	checksum []byte,
	builtAt time.Time,
) *build.Manifest {
	actor, err := common.DetectActor()
	if err != nil {
		logger.DebugKV(ctx, "Unable to detect the build actor", "error", err)
	}

	return &build.Manifest{
		VersionNumber:   version.Short(),
		PackagerVersion: toolVersion,
		Artifact:        artifact,
		Checksum:        base64.StdEncoding.EncodeToString(checksum),
		Options:         opts,
		BuiltAt:         builtAt.UTC(),
		BuiltBy:         actor,
	}
}

// FileChecksum returns the ChecksumFunction digest of a file.
func FileChecksum(path string) ([]byte, error) {
	if !ChecksumFunction.Available() {
		return nil, fmt.Errorf("checksum calculation not possible: %w", errHashUnavailable)
	}

	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = file.Close()
	}()

	hasher := ChecksumFunction.New()
	if _, err = io.Copy(hasher, file); err != nil {
		return nil, fmt.Errorf("calculate checksum: %w", err)
	}

	return hasher.Sum(nil), nil
}
