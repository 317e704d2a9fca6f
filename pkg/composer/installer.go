package composer

import (
	"context"
	"io"
	"os/exec"
	"path/filepath"

	"github.com/qoqn/comze/pkg/errors"
)

// Installer runs the composer binary to bring the lock file and vendor
// directory in line with a rewritten manifest.
type Installer struct {
	// Binary is the composer executable. Defaults to "composer" on PATH.
	Binary string

	// Stdout and Stderr receive composer's output. Nil discards it.
	Stdout io.Writer
	Stderr io.Writer
}

// Update runs `composer update` limited to the given packages in the
// directory containing manifestPath. With no packages it updates
// everything the manifest allows.
func (i *Installer) Update(ctx context.Context, manifestPath string, packages []string) error {
	binary := i.Binary
	if binary == "" {
		binary = "composer"
	}
	if _, err := exec.LookPath(binary); err != nil {
		return errors.Wrap(errors.ErrCodeUnsupported, err,
			"composer executable not found; run `composer update` manually")
	}

	args := append([]string{"update", "--no-interaction"}, packages...)
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Dir = filepath.Dir(manifestPath)
	cmd.Stdout = i.Stdout
	cmd.Stderr = i.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "composer update failed")
	}
	return nil
}
