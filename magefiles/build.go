//go:build mage

package main

import (
	"os"

	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Builds the screenwipe binary into bin/.
func (Build) Binary() error {
	_, err := executeCmd("go", withArgs("build", "-o", "bin/"+binaryName, "."), withStream())
	return err
}

// Generates the demo FADE masks into fades.wad. MASK_FRAMES overrides the frame count.
func (Build) Masks() error {
	if err := (Build{}).Binary(); err != nil {
		return err
	}
	root, err := moduleRoot()
	if err != nil {
		return err
	}
	args := []string{"-generate", "fades.wad"}
	if frames := os.Getenv("MASK_FRAMES"); frames != "" {
		args = append(args, "-frames", frames)
	}
	_, err = executeCmd(binaryPath(root), withArgs(args...), withStream())
	return err
}
