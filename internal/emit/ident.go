package emit

import (
	"crypto/sha256"
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/gosimple/slug"
)

// Identifier builds a stable class identifier for a rule: the slugged rule
// name plus a short hash of scope and name, e.g. "primary-button__1x9k2a".
// scope is usually the document path, so equally named rules in different
// documents do not collide.
func Identifier(prefix, scope, name string) string {
	base := slug.Make(name)
	if base == "" {
		base = "rule"
	}
	if prefix != "" {
		base = slug.Make(prefix) + "-" + base
	}
	return base + "__" + shortHash(scope+"\x00"+name)
}

// shortHash returns a base36 digest of s, at most seven characters
func shortHash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return strconv.FormatUint(uint64(binary.BigEndian.Uint32(sum[:4])), 36)
}

// contentName names hoisted bodies by their content, so identical
// keyframes or font faces share one definition
func contentName(kind, content string) string {
	return kind + "_" + shortHash(content)
}

// quoteFamily quotes a generated font family name for a font-family value
func quoteFamily(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `\"`) + `"`
}
