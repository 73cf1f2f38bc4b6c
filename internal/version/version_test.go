package version

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo(t *testing.T) {
	origVersion, origCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = origVersion, origCommit })

	Version = "1.2.3"
	Commit = "0123456789abcdef"
	assert.Equal(t, "marketplace 1.2.3 (commit: 0123456, "+runtime.GOOS+"/"+runtime.GOARCH+")", Info())
}

func TestShort(t *testing.T) {
	assert.Equal(t, "abc", short("abc"))
	assert.Equal(t, "abcdefg", short("abcdefgh"))
}
