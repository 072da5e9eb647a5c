package db

import (
	"log/slog"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-yaml"

	"memtable-golang/leveldb/util"
)

// DefaultSeed is the node height seed used when none is configured.
const DefaultSeed uint32 = 0xdeadbeef

type Options struct {
	// Comparator orders user keys. Nil means bytewise.
	Comparator Comparator[Slice] `yaml:"-"`

	Seed           uint32 `yaml:"seed"`
	ArenaBlockSize int    `yaml:"arena_block_size"`
	// ArenaLimit caps arena memory in bytes; 0 is unlimited.
	ArenaLimit int64 `yaml:"arena_limit"`

	// A positive BloomBitsPerKey enables the user key filter consulted by
	// MemTable.Get, sized for BloomExpectedKeys keys.
	BloomBitsPerKey   int `yaml:"bloom_bits_per_key"`
	BloomExpectedKeys int `yaml:"bloom_expected_keys"`

	Logger *slog.Logger `yaml:"-"`
}

func DefaultOptions() *Options {
	return &Options{
		Comparator:     NewBytewiseComparator(),
		Seed:           DefaultSeed,
		ArenaBlockSize: util.DefaultArenaBlockSize,
	}
}

// LoadOptions reads YAML options from path over the defaults. A missing
// file yields the defaults.
func LoadOptions(path string) (*Options, error) {
	opts := DefaultOptions()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Info("options file not found, using default options", "path", path)
			return opts, nil
		}
		return nil, errors.Wrapf(err, "read options %s", path)
	}

	if err := yaml.Unmarshal(data, opts); err != nil {
		return nil, errors.Wrapf(
			util.NewLevelDbError(util.ErrInvalidArgument, "%v", err), "parse options %s", path)
	}
	if err := opts.Validate(); err != nil {
		return nil, errors.Wrapf(err, "options %s", path)
	}
	return opts, nil
}

func (o *Options) Validate() error {
	switch {
	case o.ArenaBlockSize < 0:
		return util.NewLevelDbError(util.ErrInvalidArgument, "arena_block_size must not be negative: %d", o.ArenaBlockSize)
	case o.ArenaLimit < 0:
		return util.NewLevelDbError(util.ErrInvalidArgument, "arena_limit must not be negative: %d", o.ArenaLimit)
	case o.BloomBitsPerKey < 0:
		return util.NewLevelDbError(util.ErrInvalidArgument, "bloom_bits_per_key must not be negative: %d", o.BloomBitsPerKey)
	case o.BloomBitsPerKey > 0 && o.BloomExpectedKeys <= 0:
		return util.NewLevelDbError(util.ErrInvalidArgument, "bloom_expected_keys must be positive when the bloom filter is enabled")
	case o.BloomBitsPerKey > 0 && int64(o.BloomExpectedKeys) > util.MaxBloomBits/int64(o.BloomBitsPerKey):
		return util.NewLevelDbError(util.ErrInvalidArgument,
			"bloom filter of %d keys at %d bits per key exceeds %d bits", o.BloomExpectedKeys, o.BloomBitsPerKey, util.MaxBloomBits)
	case o.BloomBitsPerKey > 0 && !isBytewise(o.comparator()):
		return util.NewLevelDbError(util.ErrInvalidArgument,
			"bloom filter needs a bytewise comparator, have %s", o.comparator().Name())
	}
	return nil
}

func (o *Options) comparator() Comparator[Slice] {
	if o == nil || o.Comparator == nil {
		return NewBytewiseComparator()
	}
	return o.Comparator
}

func (o *Options) logger() *slog.Logger {
	if o == nil || o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}
