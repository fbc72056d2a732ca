package config

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/walteh/diffmorpher/pkg/morph"
	"gitlab.com/tozd/go/errors"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "DIFFMORPHER_"

// 🌱 LoadDotEnv loads path into the process environment when it exists. Variables already set
// in the environment win over the file.
func LoadDotEnv(ctx context.Context, path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.Errorf("loading %s: %w", path, err)
	}
	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("loaded dotenv file")
	return nil
}

// ApplyEnv overrides cfg with DIFFMORPHER_* variables found through lookup.
func (cfg *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"SOURCE":  &cfg.Source,
		"TARGET":  &cfg.Target,
		"PATCH":   &cfg.Patch,
		"OUT":     &cfg.Out,
		"FILL":    &cfg.Fill,
		"ENGINE":  &cfg.Engine,
		"TIMEOUT": &cfg.Timeout,
	}
	for key, dst := range strs {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}

	bools := map[string]*bool{
		"AUTO":   &cfg.Auto,
		"DIRS":   &cfg.Dirs,
		"IGNORE": &cfg.Ignore,
		"FORCE":  &cfg.Force,
	}
	for key, dst := range bools {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Errorf("%w: %s%s=%q is not a boolean", morph.ErrArgument, EnvPrefix, key, v)
		}
		*dst = b
	}

	ints := map[string]*int{
		"MARGIN": &cfg.Margin,
		"JOBS":   &cfg.Jobs,
	}
	for key, dst := range ints {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Errorf("%w: %s%s=%q is not an integer", morph.ErrArgument, EnvPrefix, key, v)
		}
		*dst = n
	}

	if v, ok := lookup(EnvPrefix + "EXCLUDE"); ok {
		cfg.Exclude = nil
		for _, glob := range strings.Split(v, ",") {
			if glob = strings.TrimSpace(glob); glob != "" {
				cfg.Exclude = append(cfg.Exclude, glob)
			}
		}
	}

	return nil
}
