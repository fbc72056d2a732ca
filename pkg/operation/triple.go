// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package operation

import (
	"bytes"
	"context"
	"os"

	"github.com/walteh/diffmorpher/pkg/log"
	"github.com/walteh/diffmorpher/pkg/morph"
	"github.com/walteh/diffmorpher/pkg/status"
	"gitlab.com/tozd/go/errors"
)

// 📂 Triple names the four files of one operation
type Triple struct {
	Source string
	Target string
	Patch  string
	Out    string

	// Name is used in log lines. Defaults to Out.
	Name string
}

func (t Triple) name() string {
	if t.Name != "" {
		return t.Name
	}
	return t.Out
}

// 📦 NewTripleOperation creates the operation for a single file triple
func NewTripleOperation(opts Options, t Triple) Operation {
	return &tripleOperation{
		BaseOperation: NewBaseOperation(opts),
		triple:        t,
	}
}

type tripleOperation struct {
	BaseOperation
	triple Triple
}

// 🏃 Execute reads the inputs, morphs them and writes, removes or skips the output
func (op *tripleOperation) Execute(ctx context.Context) error {
	name := op.triple.name()
	logger := op.logger(ctx).With().Str("file", name).Logger()
	ctx = logger.WithContext(ctx)

	info, err := op.execute(ctx)
	info.Path = name
	if err != nil {
		info.Status = status.StatusFailed
		info.Error = err
	}

	op.StatusMgr.TrackFile(ctx, info)
	log.FromContext(ctx).LogFileOperation(ctx, log.FileOperation{
		Path:      name,
		Status:    info.Status,
		Records:   info.Records,
		Ops:       info.Ops,
		Truncated: info.Truncated,
		Padded:    info.Padded,
	})

	if err != nil {
		return errors.Errorf("processing %s: %w", name, err)
	}
	return nil
}

func (op *tripleOperation) execute(ctx context.Context) (status.FileInfo, error) {
	logger := op.logger(ctx)

	source, _, err := op.read(ctx, op.triple.Source)
	if err != nil {
		return status.FileInfo{}, err
	}

	target, targetFound, err := op.read(ctx, op.triple.Target)
	if err != nil {
		return status.FileInfo{}, err
	}

	patchData, patchFound, err := op.read(ctx, op.triple.Patch)
	if err != nil {
		return status.FileInfo{}, err
	}

	if !targetFound {
		exists, err := op.StatusMgr.FileExists(ctx, op.triple.Out)
		if err != nil {
			return status.FileInfo{}, err
		}
		if !exists {
			logger.Debug().Msg("nothing to do")
			return status.FileInfo{Status: status.StatusSkipped}, nil
		}
		if err := op.StatusMgr.DeleteFile(ctx, op.triple.Out); err != nil {
			return status.FileInfo{}, err
		}
		return status.FileInfo{Status: status.StatusDeleted}, nil
	}

	if op.Ignore && bytes.Equal(source, target) {
		logger.Debug().Msg("no change - ignored")
		return status.FileInfo{Status: status.StatusIgnored}, nil
	}

	in := morph.Input{Source: source, Target: target, Patch: patchData}
	if !patchFound {
		in.Patch = source
		in.Blank = true
	}

	res, err := morph.Morph(ctx, in, op.Morph)
	if err != nil {
		return status.FileInfo{}, err
	}

	st, err := op.StatusMgr.WriteFile(ctx, op.triple.Out, res.Output)
	if err != nil {
		return status.FileInfo{}, err
	}
	if res.Copied {
		st = status.StatusCopied
	}

	return status.FileInfo{
		Status:    st,
		Size:      int64(len(res.Output)),
		Checksum:  status.Checksum(res.Output),
		Records:   res.Records,
		Ops:       res.Ops,
		Truncated: res.Truncated,
		Padded:    res.Padded,
	}, nil
}

// read returns the content of path. A path that is not a readable regular file is reported
// as absent under auto mode and as ErrUnreadableInput otherwise.
func (op *tripleOperation) read(ctx context.Context, path string) ([]byte, bool, error) {
	data, err := readFile(path)
	if err == nil {
		return data, true, nil
	}
	if op.Auto {
		op.logger(ctx).Debug().Str("path", path).Err(err).Msg("input absent")
		return nil, false, nil
	}
	return nil, false, errors.WithDetails(
		errors.Errorf("%w: %s not readable: %s", morph.ErrUnreadableInput, path, err),
		"path", path,
	)
}

func readFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, errors.New("not a regular file")
	}
	return os.ReadFile(path)
}
