//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Sync groups the targets that run papersync against the current site.
type Sync mg.Namespace

// Refresh rebuilds the paper list from Semantic Scholar.
func (Sync) Refresh() error {
	mg.Deps(Build)
	return sh.RunV("./bin/papersync", "refresh")
}

// Merge adds papers that are not yet in the paper list.
func (Sync) Merge() error {
	mg.Deps(Build)
	return sh.RunV("./bin/papersync", "merge")
}

// Hide marks a paper show: false. Pass "" for author to match on title only.
func (Sync) Hide(title, author string) error {
	mg.Deps(Build)
	args := []string{"merge", "--hide-paper", title}
	if author != "" {
		args = append(args, "--author", author)
	}
	return sh.RunV("./bin/papersync", args...)
}

// History lists recorded runs.
func (Sync) History() error {
	mg.Deps(Build)
	return sh.RunV("./bin/papersync", "history")
}
