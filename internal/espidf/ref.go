package espidf

import (
	"regexp"
	"strings"

	"github.com/blang/semver/v4"
)

// RefKind discriminates the RemoteRef variants.
type RefKind string

const (
	RefBranch RefKind = "branch"
	RefTag    RefKind = "tag"
	RefCommit RefKind = "commit"
)

// RemoteRef identifies a specific SDK revision. All variants receive
// identical downstream treatment; the kind only matters when building
// the source archive URL.
type RemoteRef struct {
	Kind RefKind
	Name string
}

// Branch returns a branch ref.
func Branch(name string) RemoteRef { return RemoteRef{Kind: RefBranch, Name: name} }

// Tag returns a tag ref.
func Tag(name string) RemoteRef { return RemoteRef{Kind: RefTag, Name: name} }

// Commit returns a commit ref.
func Commit(hash string) RemoteRef { return RemoteRef{Kind: RefCommit, Name: hash} }

var tagPattern = regexp.MustCompile(`^v\d+(\.\d+){1,2}$`)

// ParseRef interprets a user-supplied SDK version string. The prefixes
// "commit:", "branch:" and "tag:" force their kind; a bare
// "v<major>.<minor>[.<patch>]" is a tag; anything else names a branch.
func ParseRef(version string) RemoteRef {
	s := strings.TrimSpace(version)
	switch {
	case strings.HasPrefix(s, "commit:"):
		return Commit(strings.TrimPrefix(s, "commit:"))
	case strings.HasPrefix(s, "branch:"):
		return Branch(strings.TrimPrefix(s, "branch:"))
	case strings.HasPrefix(s, "tag:"):
		return Tag(strings.TrimPrefix(s, "tag:"))
	case tagPattern.MatchString(s):
		return Tag(s)
	}
	return Branch(s)
}

// Version resolves the semantic SDK version a ref names, or nil when
// the ref does not encode one (commits, branches like master).
func (r RemoteRef) Version() *semver.Version {
	if r.Kind == RefCommit {
		return nil
	}
	name := strings.TrimPrefix(r.Name, "release/")
	name = strings.TrimPrefix(name, "v")
	v, err := semver.ParseTolerant(name)
	if err != nil {
		return nil
	}
	return &v
}

func (r RemoteRef) String() string {
	return string(r.Kind) + ":" + r.Name
}

var refSanitizer = strings.NewReplacer("/", "-", "\\", "-")

// sanitizeRef collapses path separators so a ref name stays a single
// path segment.
func sanitizeRef(name string) string { return refSanitizer.Replace(name) }
