package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memtable-golang/leveldb/db"
)

func TestToolSession(t *testing.T) {
	var out bytes.Buffer
	tool := newTool(db.NewMemTable(nil), &out)

	script := `
put a x
put b y
del a
get a
get a 1
get b
get c 99
scan
bogus
stats
`
	require.NoError(t, tool.run(strings.NewReader(script)))

	expected := []string{
		"ok 1",
		"ok 2",
		"ok 3",
		"(Deleted)",
		"x",
		"y",
		"(NotFound)",
		"a@3(Deletion) ",
		"a@1(Value) x",
		"b@2(Value) y",
		`line 10: unknown command "bogus": usage`,
		"entries=3 memory=4096 last_seq=3",
	}
	assert.Equal(t, expected, strings.Split(strings.TrimRight(out.String(), "\n"), "\n"))
}
