package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/refsign-check/internal/application/consistency"
	"github.com/turtacn/refsign-check/internal/config"
	"github.com/turtacn/refsign-check/internal/domain/reference"
	"github.com/turtacn/refsign-check/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/refsign-check/internal/intelligence/linguistics"
	"github.com/turtacn/refsign-check/pkg/client"
	"github.com/turtacn/refsign-check/pkg/errors"
)

type checkOptions struct {
	language  string
	multiWord []string
	ignore    []string
	strict    bool
	server    string
	timeout   time.Duration
}

// NewCheckCmd creates the one-shot check command.
func NewCheckCmd() *cobra.Command {
	opts := &checkOptions{}

	cmd := &cobra.Command{
		Use:   "check FILE",
		Short: "Check a text file for reference-sign inconsistencies",
		Long: "Scan FILE (or stdin when FILE is \"-\") once and print the reference\n" +
			"overview, the reference list and every finding with its line and column.",
		Example: `  refcheck check claims.txt
  refcheck check --lang en -o json description.txt
  cat draft.txt | refcheck check --multi-word lager --strict -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.language, "lang", "l", "", "analysis language (de, en); defaults to analysis.language")
	cmd.Flags().StringSliceVarP(&opts.multiWord, "multi-word", "m", nil, "base stems to match as two-word terms")
	cmd.Flags().StringSliceVar(&opts.ignore, "ignore", nil, "reference numbers whose errors are cleared")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "exit non-zero when any finding is reported")
	cmd.Flags().StringVar(&opts.server, "server", "", "check against a running refcheck server at this URL")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "per-request timeout with --server")
	return cmd
}

func runCheck(cmd *cobra.Command, path string, opts *checkOptions) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	logger := cliCtx.Logger.Named("check")

	text, err := readInput(cmd, path)
	if err != nil {
		return err
	}

	var res *consistency.Result
	if opts.server != "" {
		res, err = remoteCheck(cmd, opts, text)
	} else {
		res, err = localCheck(cmd, cliCtx.Config, opts, text, logger)
	}
	if err != nil {
		return err
	}
	logging.LogOperationDuration(logger, "check", time.Now().Add(-res.Duration),
		logging.String("file", path),
		logging.Int("findings", len(res.All)))

	report := NewCheckReport(path, text, res)
	if err := PrintResult(cmd, report); err != nil {
		return err
	}
	if opts.strict && len(report.Findings) > 0 {
		return errors.Newf(errors.ErrCodeValidation, "%d reference-sign findings in %s", len(report.Findings), path)
	}
	return nil
}

func localCheck(cmd *cobra.Command, cfg *config.Config, opts *checkOptions, text string, logger logging.Logger) (*consistency.Result, error) {
	engine, err := newEngine(cfg, opts.language, logger, opts.multiWord...)
	if err != nil {
		return nil, err
	}
	// ClearError toggles, so a repeated number must not restore itself.
	ignored := make(map[string]struct{}, len(opts.ignore))
	for _, bz := range opts.ignore {
		if _, dup := ignored[bz]; dup || bz == "" {
			continue
		}
		ignored[bz] = struct{}{}
		engine.ClearError(bz)
	}
	return engine.Scan(cmd.Context(), text)
}

// remoteCheck sends text to a refcheck server. Cleared numbers need a
// session and are not supported remotely.
func remoteCheck(cmd *cobra.Command, opts *checkOptions, text string) (*consistency.Result, error) {
	if len(opts.ignore) > 0 {
		return nil, errors.New(errors.ErrCodeBadRequest, "--ignore is not supported with --server")
	}
	c, err := client.NewClient(opts.server,
		client.WithUserAgent("refcheck-cli/"+Version),
		client.WithTimeout(opts.timeout))
	if err != nil {
		return nil, err
	}
	res, err := c.Check(cmd.Context(), &client.CheckRequest{
		Text:      text,
		Language:  opts.language,
		MultiWord: opts.multiWord,
	})
	if err != nil {
		return nil, err
	}
	return fromRemote(res), nil
}

func fromRemote(r *client.Result) *consistency.Result {
	spans := func(in []client.Span) []reference.Span {
		out := make([]reference.Span, len(in))
		for i, s := range in {
			out[i] = reference.Span{Start: s.Start, End: s.End}
		}
		return out
	}
	overview := make([]consistency.OverviewEntry, len(r.Overview))
	for i, e := range r.Overview {
		overview[i] = consistency.OverviewEntry{BZ: e.BZ, OK: e.OK, Words: e.Words}
	}
	refs := make([]reference.Entry, len(r.References))
	for i, ref := range r.References {
		entry := reference.Entry{BZ: ref.BZ, OriginalWords: ref.OriginalWords}
		for _, stems := range ref.Stems {
			if v, err := reference.NewStemVector(stems...); err == nil {
				entry.Stems = append(entry.Stems, v)
			}
		}
		for _, p := range ref.Positions {
			entry.Positions = append(entry.Positions, reference.Position{Start: p.Start, Length: p.Length})
		}
		refs[i] = entry
	}
	return &consistency.Result{
		Language:      linguistics.Language(r.Language),
		Unnumbered:    spans(r.Unnumbered),
		WrongArticles: spans(r.WrongArticles),
		Conflicts:     spans(r.Conflicts),
		Splits:        spans(r.Splits),
		All:           spans(r.All),
		Overview:      overview,
		ReferenceList: r.ReferenceList,
		AutoMultiWord: r.AutoMultiWord,
		References:    refs,
		Duration:      r.Duration,
	}
}

// newEngine builds an engine from the analysis settings; lang and extra
// multi-word stems override the configuration.
func newEngine(cfg *config.Config, lang string, logger logging.Logger, multiWord ...string) (*consistency.Engine, error) {
	if lang == "" {
		lang = cfg.Analysis.Language
	}
	language, err := linguistics.ParseLanguage(lang)
	if err != nil {
		return nil, err
	}
	stems := append(append([]string(nil), cfg.Analysis.ManualMultiWord...), multiWord...)
	return consistency.NewEngine(language,
		consistency.WithLogger(logger),
		consistency.WithMultiWordGap(cfg.Analysis.MultiWordGap),
		consistency.WithMaxTextSize(cfg.Analysis.MaxTextSize),
		consistency.WithManualMultiWord(stems...),
	)
}

func readInput(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeBadRequest, "failed to read input").WithDetail(path)
	}
	return string(data), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Report
// ─────────────────────────────────────────────────────────────────────────────

// Finding is one error span located by line and column (both 1-based,
// columns counted in code points).
type Finding struct {
	Kind   reference.Kind `json:"kind"`
	Line   int            `json:"line"`
	Column int            `json:"column"`
	Start  int            `json:"start"`
	End    int            `json:"end"`
	Text   string         `json:"text"`
}

// CheckReport is the printable outcome of a check run.
type CheckReport struct {
	File          string                      `json:"file"`
	Language      string                      `json:"language"`
	Duration      time.Duration               `json:"duration_ns"`
	Overview      []consistency.OverviewEntry `json:"overview"`
	ReferenceList []string                    `json:"reference_list"`
	References    []reference.Entry           `json:"references"`
	Findings      []Finding                   `json:"findings"`
	Counts        map[string]int              `json:"counts"`
}

// NewCheckReport locates every error span of res in text.
func NewCheckReport(file, text string, res *consistency.Result) *CheckReport {
	runes := []rune(text)
	idx := newLineIndex(runes)

	var findings []Finding
	for _, kind := range reference.ErrorKinds {
		for _, sp := range res.Spans(kind) {
			line, col := idx.position(sp.Start)
			findings = append(findings, Finding{
				Kind:   kind,
				Line:   line,
				Column: col,
				Start:  sp.Start,
				End:    sp.End,
				Text:   excerpt(runes, sp),
			})
		}
	}
	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].Start != findings[j].Start {
			return findings[i].Start < findings[j].Start
		}
		return findings[i].End < findings[j].End
	})

	return &CheckReport{
		File:          file,
		Language:      string(res.Language),
		Duration:      res.Duration,
		Overview:      res.Overview,
		ReferenceList: res.ReferenceList,
		References:    res.References,
		Findings:      findings,
		Counts:        res.Counts(),
	}
}

func excerpt(runes []rune, sp reference.Span) string {
	start, end := sp.Start, sp.End
	if start < 0 {
		start = 0
	}
	if end > len(runes) {
		end = len(runes)
	}
	if start >= end {
		return ""
	}
	return strings.Join(strings.Fields(string(runes[start:end])), " ")
}

// TableHeaders implements tableProvider.
func (r *CheckReport) TableHeaders() []string {
	return []string{"LINE", "COL", "KIND", "TEXT"}
}

// TableRows implements tableProvider.
func (r *CheckReport) TableRows() [][]string {
	rows := make([][]string, 0, len(r.Findings))
	for _, f := range r.Findings {
		rows = append(rows, []string{strconv.Itoa(f.Line), strconv.Itoa(f.Column), string(f.Kind), f.Text})
	}
	return rows
}

// String renders the human-readable report.
func (r *CheckReport) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (%s, %s)\n\n", r.File, r.Language, r.Duration.Round(time.Microsecond))

	sb.WriteString("Reference signs:\n")
	if len(r.Overview) == 0 {
		sb.WriteString("  none\n")
	}
	for _, e := range r.Overview {
		status := "ok"
		if !e.OK {
			status = "!!"
		}
		fmt.Fprintf(&sb, "  %-6s %s  %s\n", e.BZ, status, e.Words)
	}

	if len(r.ReferenceList) > 0 {
		sb.WriteString("\nReference list:\n")
		for _, line := range r.ReferenceList {
			sb.WriteString("  " + line + "\n")
		}
	}

	fmt.Fprintf(&sb, "\nFindings: %d\n", len(r.Findings))
	for _, f := range r.Findings {
		fmt.Fprintf(&sb, "  %d:%d\t%-14s %s\n", f.Line, f.Column, f.Kind, f.Text)
	}
	return sb.String()
}

// lineIndex maps code-point offsets to line and column numbers.
type lineIndex struct {
	starts []int
}

func newLineIndex(runes []rune) *lineIndex {
	starts := []int{0}
	for i, r := range runes {
		if r == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{starts: starts}
}

// position returns the 1-based line and column of offset.
func (l *lineIndex) position(offset int) (int, int) {
	i := sort.Search(len(l.starts), func(i int) bool { return l.starts[i] > offset }) - 1
	if i < 0 {
		i = 0
	}
	return i + 1, offset - l.starts[i] + 1
}

//Personal.AI order the ending
