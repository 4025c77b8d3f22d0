package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"bennypowers.dev/stylenorm/internal/emit"
	"bennypowers.dev/stylenorm/internal/log"
	"bennypowers.dev/stylenorm/internal/sheet"
	"bennypowers.dev/stylenorm/internal/style"
	"bennypowers.dev/stylenorm/lsp"
	cli "github.com/urfave/cli/v3"
	"github.com/xlab/treeprint"
	"go.uber.org/multierr"
)

// compile compiles the documents selected by the command line. Outputs of
// documents that failed are dropped; their errors are combined.
func compile(ctx context.Context, cmd *cli.Command, opts sheet.Options) ([]*sheet.Output, error) {
	e := envFrom(ctx)
	paths, err := e.documents(cmd.Args().Slice())
	if err != nil {
		return nil, err
	}

	outputs, err := sheet.CompileFiles(ctx, paths, opts)
	compiled := outputs[:0]
	for _, out := range outputs {
		if out != nil {
			compiled = append(compiled, out)
		}
	}
	log.Info("Compiled %d of %d documents", len(compiled), len(paths))
	return compiled, err
}

func runNormalize(ctx context.Context, cmd *cli.Command) error {
	e := envFrom(ctx)
	outputs, err := compile(ctx, cmd, e.cfg.SheetOptions(e.root))
	if err != nil {
		return err
	}

	tree := style.NewMap()
	for _, out := range outputs {
		tree.Set(displayPath(e.root, out.Document.Path), out.Tree())
	}
	data, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to encode rule trees: %w", err)
	}
	_, err = fmt.Fprintln(cmd.Root().Writer, string(data))
	return err
}

func runBuild(ctx context.Context, cmd *cli.Command) error {
	e := envFrom(ctx)
	opts := e.cfg.SheetOptions(e.root)
	if cmd.Bool("validate") {
		opts.Validate = true
	}

	outputs, err := compile(ctx, cmd, opts)
	if err != nil {
		return err
	}

	css := joinCSS(e.root, outputs)
	dest := cmd.String("out")
	if dest == "" {
		dest = e.cfg.OutPath(e.root)
	}
	if dest == "" {
		_, err = io.WriteString(cmd.Root().Writer, css)
		return err
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	if err := os.WriteFile(dest, []byte(css), 0o644); err != nil {
		return fmt.Errorf("unable to write '%s': %w", dest, err)
	}
	log.Info("Wrote %s", dest)
	return nil
}

func runCheck(ctx context.Context, cmd *cli.Command) error {
	e := envFrom(ctx)
	opts := e.cfg.SheetOptions(e.root)
	opts.Validate = true

	outputs, err := compile(ctx, cmd, opts)
	for _, out := range outputs {
		undeclared, inspectErr := undeclaredProperties(out)
		if inspectErr != nil {
			err = multierr.Append(err, fmt.Errorf("%s: %w", out.Document.Path, inspectErr))
			continue
		}
		for _, name := range undeclared {
			log.Warn("%s: %s is used but never declared", displayPath(e.root, out.Document.Path), name)
		}
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.Root().Writer, "%d documents ok\n", len(outputs))
	return nil
}

func runTree(ctx context.Context, cmd *cli.Command) error {
	e := envFrom(ctx)
	outputs, err := compile(ctx, cmd, e.cfg.SheetOptions(e.root))
	if err != nil {
		return err
	}
	for _, out := range outputs {
		fmt.Fprint(cmd.Root().Writer, renderTree(displayPath(e.root, out.Document.Path), out))
	}
	return nil
}

func runLSP(ctx context.Context, _ *cli.Command) error {
	server, err := lsp.NewServer()
	if err != nil {
		return fmt.Errorf("unable to create language server: %w", err)
	}
	defer server.Close()
	return server.RunStdio()
}

// joinCSS concatenates the style sheets of outputs, each headed by its
// document path
func joinCSS(root string, outputs []*sheet.Output) string {
	var b strings.Builder
	for i, out := range outputs {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "/* %s */\n", displayPath(root, out.Document.Path))
		b.WriteString(out.CSS())
	}
	return b.String()
}

// undeclaredProperties lists custom properties the output uses without
// declaring them. Those are expected to come from elsewhere on the page, so
// they are worth a warning but not a failure.
func undeclaredProperties(out *sheet.Output) ([]string, error) {
	report, err := emit.Inspect(out.CSS())
	if err != nil {
		return nil, err
	}
	return report.Undeclared(), nil
}

// renderTree draws the normalized rules of out
func renderTree(title string, out *sheet.Output) string {
	tree := treeprint.NewWithRoot(title)
	for _, r := range out.Rules {
		branch := tree.AddMetaBranch("."+r.Class, r.Name)
		addEntries(branch, r.Result)
		if r.Variants.Len() > 0 {
			addEntries(branch.AddBranch("variants"), r.Variants)
		}
	}
	return tree.String()
}

func addEntries(branch treeprint.Tree, m *style.Map) {
	m.Range(func(key string, value any) bool {
		switch v := value.(type) {
		case *style.Map:
			addEntries(branch.AddBranch(key), v)
		case []any:
			parts := make([]string, len(v))
			for i, item := range v {
				parts[i] = style.FormatScalar(item)
			}
			branch.AddNode(key + ": " + strings.Join(parts, " | "))
		default:
			branch.AddNode(key + ": " + style.FormatScalar(v))
		}
		return true
	})
}

// displayPath shortens paths under root for messages and headers
func displayPath(root, path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	if rel, err := filepath.Rel(root, abs); err == nil && !strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(rel)
	}
	return path
}
