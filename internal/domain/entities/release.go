package entities

import "strings"

// Release represents a published minikube release as listed by the release registry
type Release struct {
	TagName string
	Draft   bool
}

// FamilyKey returns the MAJOR.MINOR prefix of a tag ("v1.15" for "v1.15.1").
// Tags with fewer than two dot-separated fields form their own family.
func FamilyKey(tag string) string {
	fields := strings.SplitN(tag, ".", 3)
	if len(fields) < 2 {
		return tag
	}
	return fields[0] + "." + fields[1]
}
