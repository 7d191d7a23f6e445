package util

import "strings"

// CollapseSpace folds runs of whitespace (including nbsp) into one space.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
