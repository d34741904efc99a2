// Package services contains pure domain logic for picking and laying out minikube versions.
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/blang/semver/v4"

	"github.com/ochairo/minikube-matrix/internal/domain/entities"
)

// ErrFamilyOrder is returned when tags of one family are not listed newest first
var ErrFamilyOrder = errors.New("release tags are not sorted newest first")

// ExcludeTags drops every tag containing one of the exclusion substrings.
// Surviving tags keep their relative order.
func ExcludeTags(tags, exclusions []string) []string {
	kept := make([]string, 0, len(tags))
	for _, tag := range tags {
		if !containsAny(tag, exclusions) {
			kept = append(kept, tag)
		}
	}
	return kept
}

func containsAny(tag string, substrings []string) bool {
	for _, s := range substrings {
		if s != "" && strings.Contains(tag, s) {
			return true
		}
	}
	return false
}

// LatestPerFamily keeps the first tag seen for each MAJOR.MINOR family.
//
// Callers must pass tags sorted newest first within each family (the order the
// GitHub releases API returns); the first tag of a family is taken as its newest
// patch and nothing is re-sorted here. CheckFamilyOrder verifies that contract.
func LatestPerFamily(tags []string) []string {
	seen := make(map[string]struct{})
	latest := make([]string, 0, len(tags))
	for _, tag := range tags {
		key := entities.FamilyKey(tag)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		latest = append(latest, tag)
	}
	return latest
}

// CheckFamilyOrder reports the first family whose tags are not newest first.
// Tags that do not parse as semantic versions are ignored.
func CheckFamilyOrder(tags []string) error {
	previous := make(map[string]semver.Version)
	previousTag := make(map[string]string)
	for _, tag := range tags {
		v, err := semver.ParseTolerant(tag)
		if err != nil {
			continue
		}
		key := entities.FamilyKey(tag)
		if prev, ok := previous[key]; ok && v.GT(prev) {
			return fmt.Errorf("%w: %s is listed after %s in family %s", ErrFamilyOrder, tag, previousTag[key], key)
		}
		previous[key] = v
		previousTag[key] = tag
	}
	return nil
}

// Truncate returns the first n tags; n <= 0 keeps all of them
func Truncate(tags []string, n int) []string {
	if n <= 0 || n >= len(tags) {
		return tags
	}
	return tags[:n]
}

// SelectVersions applies exclusion, family deduplication and truncation in that order.
// When strict is set, an ordering violation in the excluded list is returned as an error.
func SelectVersions(tags, exclusions []string, n int, strict bool) ([]string, error) {
	kept := ExcludeTags(tags, exclusions)
	if err := CheckFamilyOrder(kept); err != nil && strict {
		return nil, err
	}
	return Truncate(LatestPerFamily(kept), n), nil
}
