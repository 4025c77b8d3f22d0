// Package sheet compiles style documents.
//
// Compiling a document is the two-phase batch protocol around the
// normalizer: every rule of the document is normalized (in parallel, each
// with its own context), then each rule gets its class identifier, the
// identifiers fill the variant map, every rule's variant references are
// resolved against it, and the results are emitted.
package sheet

import (
	"context"
	"fmt"
	"maps"
	"runtime"

	"bennypowers.dev/stylenorm/internal/document"
	"bennypowers.dev/stylenorm/internal/emit"
	"bennypowers.dev/stylenorm/internal/log"
	"bennypowers.dev/stylenorm/internal/normalize"
	"bennypowers.dev/stylenorm/internal/style"
	"bennypowers.dev/stylenorm/internal/tokens"
	"bennypowers.dev/stylenorm/internal/values"
	"bennypowers.dev/stylenorm/internal/variants"
	"golang.org/x/sync/errgroup"
)

// Options configure compilation
type Options struct {
	// ClassPrefix is prepended to generated class identifiers
	ClassPrefix string

	// TokenFiles are design-token files loaded for every document, before the
	// document's own token files
	TokenFiles []string

	// Tokens are the token parsing options
	Tokens tokens.Options

	// Validate parses the emitted CSS and fails on syntax errors
	Validate bool

	// Concurrency bounds parallel normalization; zero means GOMAXPROCS
	Concurrency int
}

// Rule is one compiled rule
type Rule struct {
	Name  string
	Class string
	// Result is the normalized rule
	Result *style.Map
	// Variants are the rule's resolved variant references: selector → result,
	// where "&" stands for Class
	Variants *style.Map
	Span     document.Span
}

// Output is a compiled document
type Output struct {
	Document   *document.Document
	Rules      []Rule
	References map[string]any
	Sheet      *emit.Sheet
}

// CSS returns the document's style sheet
func (o *Output) CSS() string {
	return o.Sheet.CSS()
}

// Rule returns the compiled rule named name
func (o *Output) Rule(name string) (Rule, bool) {
	for _, r := range o.Rules {
		if r.Name == name {
			return r, true
		}
	}
	return Rule{}, false
}

// Tree returns the normalized rules keyed by rule name, for inspection and
// JSON output
func (o *Output) Tree() *style.Map {
	tree := style.NewMap()
	for _, r := range o.Rules {
		entry := style.MapOf("class", r.Class, "result", r.Result)
		if r.Variants.Len() > 0 {
			entry.Set("variants", r.Variants)
		}
		tree.Set(r.Name, entry)
	}
	return tree
}

// References loads the property references available to doc: token files
// from opts, then the document's token files, then the document's own
// references, later sources overriding earlier ones.
func References(doc *document.Document, opts Options) (map[string]any, error) {
	files := append(append([]string{}, opts.TokenFiles...), doc.TokenPaths()...)
	if len(files) == 0 {
		return maps.Clone(doc.References), nil
	}
	set, err := tokens.Load(files, opts.Tokens)
	if err != nil {
		return nil, err
	}
	return tokens.Merge(set.References(), doc.References), nil
}

// Compile compiles doc. Any rule failing to normalize or resolve fails the
// whole document with a RuleError; nothing is emitted.
func Compile(ctx context.Context, doc *document.Document, opts Options) (*Output, error) {
	refs, err := References(doc, opts)
	if err != nil {
		return nil, err
	}

	graph := values.BuildReferenceGraph(refs)
	if cycle := graph.FindCycle(); cycle != nil {
		return nil, style.NewCircularReferenceError(cycle)
	}
	for _, missing := range graph.Missing() {
		log.Debug("Reference @%s is used by %v but not defined", missing, graph.Dependents(missing))
	}

	sheet := emit.NewSheet(emit.Options{ClassPrefix: opts.ClassPrefix})
	rules, contexts, err := normalizeRules(ctx, doc, refs, sheet, opts.Concurrency)
	if err != nil {
		return nil, err
	}

	// every identifier exists before any variant reference is resolved
	variantMap := make(map[string]string, len(rules))
	for _, r := range rules {
		variantMap["%"+r.Name] = "." + r.Class
	}

	for i := range rules {
		resolved, err := variants.Resolve(contexts[i].VariantReference, variantMap)
		if err != nil {
			return nil, &RuleError{Rule: rules[i].Name, Span: rules[i].Span, Err: err}
		}
		rules[i].Variants = resolved
		sheet.AddClass(emit.ClassRule{Name: rules[i].Name, Class: rules[i].Class, Result: rules[i].Result})
		sheet.AddGlobals(rules[i].Class, resolved)
	}

	if opts.Validate {
		if err := sheet.Validate(); err != nil {
			return nil, fmt.Errorf("emitted CSS for %s: %w", scope(doc), err)
		}
	}

	log.Debug("Compiled %d rules from %s", len(rules), scope(doc))
	return &Output{Document: doc, Rules: rules, References: refs, Sheet: sheet}, nil
}

func normalizeRules(ctx context.Context, doc *document.Document, refs map[string]any, sheet *emit.Sheet, concurrency int) ([]Rule, []*style.Context, error) {
	rules := make([]Rule, len(doc.Rules))
	contexts := make([]*style.Context, len(doc.Rules))

	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, rule := range doc.Rules {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			c := style.NewContext()
			c.PropertyReference = maps.Clone(refs)
			c.Hoister = sheet

			result, err := normalize.Normalize(rule.Node, c)
			if err != nil {
				return &RuleError{Rule: rule.Name, Span: rule.Span, Err: err}
			}
			rules[i] = Rule{
				Name:   rule.Name,
				Class:  sheet.ClassName(scope(doc), rule.Name),
				Result: result,
				Span:   rule.Span,
			}
			contexts[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return rules, contexts, nil
}

func scope(doc *document.Document) string {
	if doc.Path == "" {
		return "<inline>"
	}
	return doc.Path
}
