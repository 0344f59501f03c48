package quranapi

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/google/renameio/maybe"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/tadabbur/internal/corpus"
)

// SaveCache writes d to path as a single JSON document readable by
// corpus.LoadFile.
func SaveCache(path string, d corpus.Data) error {
	data, err := json.Marshal(d)
	if err != nil {
		return errors.Wrap(err, "could not encode corpus")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "could not create cache dir for %s", path)
	}
	if err := maybe.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "could not write corpus cache %s", path)
	}
	return nil
}

// Load returns the corpus from the cache file at path, fetching and caching
// it first when the file does not exist. An empty path always fetches.
func (c *Client) Load(ctx context.Context, path string) (*corpus.Index, error) {
	if path != "" {
		ix, err := corpus.LoadFile(path)
		if err == nil {
			return ix, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		log.Info().Str("path", path).Msg("corpus cache missing; fetching")
	}

	d, err := c.LoadCorpus(ctx)
	if err != nil {
		return nil, err
	}
	ix, err := corpus.New(d)
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := SaveCache(path, d); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("corpus cache not written")
		}
	}
	return ix, nil
}
