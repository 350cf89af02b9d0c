package matcher

import (
	"github.com/zyedidia/glob"
	"golang.org/x/xerrors"

	"github.com/keel-framework/go-keel/framework/keel"
)

func NewGlobPattern(pattern string) keel.Matcher {
	glob, _ := glob.Compile(pattern)
	return globPatternMatcher{glob}
}

type globPatternMatcher struct {
	glob *glob.Glob
}

func (gpm globPatternMatcher) DoesMatch(i interface{}) (bool, error) {
	if gpm.glob == nil {
		return false, xerrors.New("has no glob, possibly the pattern would not compile")
	}
	switch m := i.(type) {
	case string:
		return gpm.glob.Match([]byte(m)), nil
	case keel.Ident:
		return gpm.glob.Match([]byte(m)), nil
	default:
		return false, xerrors.Errorf("don't know how to handle type in glob matcher")
	}
}
