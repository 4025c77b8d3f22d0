package sheet

import (
	"context"
	"fmt"

	"bennypowers.dev/stylenorm/internal/document"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// CompileFiles loads and compiles every document in paths. Documents are
// independent, so one failing document does not stop the others: outputs
// holds a nil entry for each failure and the returned error combines all
// failures, each prefixed with its path.
func CompileFiles(ctx context.Context, paths []string, opts Options) ([]*Output, error) {
	outputs := make([]*Output, len(paths))
	errs := make([]error, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range paths {
		g.Go(func() error {
			out, err := CompileFile(gctx, p, opts)
			if err != nil {
				errs[i] = err
				return nil
			}
			outputs[i] = out
			return nil
		})
	}
	_ = g.Wait()

	return outputs, multierr.Combine(errs...)
}

// CompileFile loads and compiles the document at path
func CompileFile(ctx context.Context, path string, opts Options) (*Output, error) {
	doc, err := document.Load(path)
	if err != nil {
		return nil, err
	}
	out, err := Compile(ctx, doc, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}
