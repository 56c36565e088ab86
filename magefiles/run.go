//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Plays the wipe configured in wipe.toml and writes its frames.
func (Run) Demo() error {
	if err := (Build{}).Binary(); err != nil {
		return err
	}
	root, err := moduleRoot()
	if err != nil {
		return err
	}
	fmt.Println("Run demo...")
	_, err = executeCmd(binaryPath(root), withArgs("-config", "wipe.toml"), withStream())
	return err
}

type Test mg.Namespace

// Runs the unit tests with the race detector, which needs cgo.
func (Test) Unit() error {
	_, err := executeCmd("go", withArgs("test", "-race", "./..."), withEnv("CGO_ENABLED=1"), withStream())
	return err
}
