// Command memtool drives a memtable from commands read on stdin:
//
//	put <key> <value>
//	del <key>
//	get <key> [seq]
//	scan
//	stats
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"memtable-golang/leveldb/db"
)

func main() {
	configPath := flag.String("config", "", "YAML options file")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	jsonLogs := flag.Bool("json", false, "log in JSON")
	flag.Parse()

	logger := initLogger(*logLevel, *jsonLogs)
	opts, err := initConfig(*configPath)
	if err != nil {
		logger.Error("failed to load options", "error", err)
		os.Exit(1)
	}
	opts.Logger = logger

	tool := newTool(db.NewMemTable(opts), os.Stdout)
	if err := tool.run(os.Stdin); err != nil {
		logger.Error("memtool failed", "error", err)
		os.Exit(1)
	}
}

// tool plays the upstream writer: it hands out increasing sequence numbers.
type tool struct {
	mem     *db.MemTable
	out     io.Writer
	lastSeq db.SequenceNumber
}

func newTool(mem *db.MemTable, out io.Writer) *tool {
	return &tool{mem: mem, out: out}
}

func (t *tool) run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		if err := t.exec(fields); err != nil {
			if isUsageError(err) {
				fmt.Fprintf(t.out, "line %d: %v\n", line, err)
				continue
			}
			return errors.Wrapf(err, "line %d", line)
		}
	}
	return scanner.Err()
}

var errUsage = errors.New("usage")

func isUsageError(err error) bool {
	return errors.Is(err, errUsage)
}

func (t *tool) exec(fields []string) error {
	switch cmd, args := fields[0], fields[1:]; cmd {
	case "put":
		if len(args) != 2 {
			return errors.Wrap(errUsage, "put <key> <value>")
		}
		return t.add(db.ValueTypeValue, args[0], args[1])
	case "del":
		if len(args) != 1 {
			return errors.Wrap(errUsage, "del <key>")
		}
		return t.add(db.ValueTypeDeletion, args[0], "")
	case "get":
		if len(args) < 1 || len(args) > 2 {
			return errors.Wrap(errUsage, "get <key> [seq]")
		}
		seq := t.lastSeq
		if len(args) == 2 {
			n, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return errors.Wrapf(errUsage, "bad sequence %q", args[1])
			}
			seq = db.SequenceNumber(n)
		}
		return t.get(args[0], seq)
	case "scan":
		return t.scan()
	case "stats":
		fmt.Fprintf(t.out, "entries=%d memory=%d last_seq=%d\n",
			t.mem.Len(), t.mem.ApproximateMemoryUsage(), t.lastSeq)
		return nil
	}
	return errors.Wrapf(errUsage, "unknown command %q", fields[0])
}

func (t *tool) add(valueType db.ValueType, key, value string) error {
	seq := t.lastSeq + 1
	if err := t.mem.Add(seq, valueType, db.Slice(key), db.Slice(value)); err != nil {
		return err
	}
	t.lastSeq = seq
	slog.Debug("added", "key", key, "seq", seq, "type", valueType)
	fmt.Fprintf(t.out, "ok %d\n", seq)
	return nil
}

func (t *tool) get(key string, seq db.SequenceNumber) error {
	result, value, err := t.mem.Get(db.NewLookupKey(db.Slice(key), seq))
	if err != nil {
		return err
	}
	switch result {
	case db.GetFound:
		fmt.Fprintf(t.out, "%s\n", value)
	default:
		fmt.Fprintf(t.out, "(%s)\n", result)
	}
	return nil
}

func (t *tool) scan() error {
	iter := t.mem.NewIterator()
	for iter.SeekToFirst(); iter.Valid(); iter.Next() {
		key, err := db.ParseInternalKey(iter.Key())
		if err != nil {
			return err
		}
		fmt.Fprintf(t.out, "%s %s\n", key, iter.Value())
	}
	return iter.Error()
}
