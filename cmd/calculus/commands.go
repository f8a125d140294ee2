package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	calculus "github.com/njchilds90/gocalculus"
	"github.com/njchilds90/gocalculus/internal/config"
	"github.com/njchilds90/gocalculus/internal/telemetry"
)

const tokensHelp = `
Tokens are Reverse-Polish "(TYPE:value)" strings, one per argument or
separated by whitespace. The expression 2*x+5 is

    (VAL:2.0) (VAR:x) (TIMES:*) (VAL:5.0) (PLUS:+)
`

// RootOptions holds the flags shared by every subcommand.
type RootOptions struct {
	ConfigPath string
	LogLevel   string

	cfg    config.Config
	logger *slog.Logger
}

// NewCommandCalculus builds the command tree writing results to out and logs
// to errOut.
func NewCommandCalculus(out, errOut io.Writer) *cobra.Command {
	o := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "calculus",
		Short:         "Evaluate, differentiate and simplify single-variable expressions",
		Long:          "Evaluate, differentiate and simplify single-variable expressions.\n" + tokensHelp,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.Complete(errOut)
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.PersistentFlags().StringVar(&o.ConfigPath, "config", "", "YAML or JSON config file")
	cmd.PersistentFlags().StringVar(&o.LogLevel, "log-level", "error", "debug, info, warn or error")

	cmd.AddCommand(
		newCommandEval(o, out),
		newCommandDiff(o, out),
		newCommandSimplify(o, out),
		newCommandRender(o, out),
		newCommandSample(o, out),
	)

	// Flag errors still show usage.
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return fmt.Errorf("%w\n%s", err, c.UsageString())
	})
	return cmd
}

// Complete loads the config file and sets up logging.
func (o *RootOptions) Complete(errOut io.Writer) error {
	level, err := config.ParseLevel(o.LogLevel)
	if err != nil {
		return err
	}
	o.logger = telemetry.NewLogger(errOut, level, false)

	o.cfg = config.New(nil)
	if o.ConfigPath != "" {
		if o.cfg, err = config.FromFile(o.ConfigPath); err != nil {
			return err
		}
	}
	return nil
}

// fail logs err with its kind and returns it for cobra.
func (o *RootOptions) fail(tool string, err error) error {
	telemetry.LogToolError(telemetry.RequestLogger(o.logger, "cli", tool), calculus.ErrorKind(err), err.Error(), 0)
	return err
}

func parseArgs(args []string) (*calculus.Expression, error) {
	var tokens []string
	for _, a := range args {
		tokens = append(tokens, strings.Fields(a)...)
	}
	if len(tokens) == 0 {
		return nil, errors.New("no tokens given")
	}
	return calculus.Parse(tokens)
}

func newCommandEval(o *RootOptions, out io.Writer) *cobra.Command {
	var x float64
	cmd := &cobra.Command{
		Use:   "eval TOKEN...",
		Short: "Evaluate the expression at x",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := parseArgs(args)
			if err != nil {
				return o.fail("evaluate", err)
			}
			v, err := e.Evaluate(x)
			if err != nil {
				return o.fail("evaluate", err)
			}
			fmt.Fprintln(out, v)
			return nil
		},
	}
	cmd.Flags().Float64Var(&x, "x", 0, "value substituted for x")
	return cmd
}

func newCommandDiff(o *RootOptions, out io.Writer) *cobra.Command {
	var raw, latex bool
	cmd := &cobra.Command{
		Use:   "diff TOKEN...",
		Short: "Print the derivative with respect to x",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := parseArgs(args)
			if err != nil {
				return o.fail("diff", err)
			}
			d, err := e.Diff(!raw)
			if err != nil {
				return o.fail("diff", err)
			}
			if latex {
				fmt.Fprintln(out, d.LaTeX())
			} else {
				fmt.Fprintln(out, d.String())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "skip simplification of the derivative")
	cmd.Flags().BoolVar(&latex, "latex", false, "print LaTeX instead of infix")
	return cmd
}

func newCommandSimplify(o *RootOptions, out io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "simplify TOKEN...",
		Short: "Print the simplified expression",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := parseArgs(args)
			if err != nil {
				return o.fail("simplify", err)
			}
			if _, err := e.Simplify(); err != nil {
				return o.fail("simplify", err)
			}
			fmt.Fprintln(out, e.String())
			return nil
		},
	}
}

func newCommandRender(o *RootOptions, out io.Writer) *cobra.Command {
	var latex bool
	cmd := &cobra.Command{
		Use:   "render TOKEN...",
		Short: "Print the expression in infix or LaTeX form",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := parseArgs(args)
			if err != nil {
				return o.fail("render", err)
			}
			if latex {
				fmt.Fprintln(out, e.LaTeX())
			} else {
				fmt.Fprintln(out, e.String())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&latex, "latex", false, "print LaTeX instead of infix")
	return cmd
}

func newCommandSample(o *RootOptions, out io.Writer) *cobra.Command {
	var from, to float64
	var steps int
	cmd := &cobra.Command{
		Use:   "sample TOKEN...",
		Short: "Tabulate f and f' over an interval",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := parseArgs(args)
			if err != nil {
				return o.fail("sample", err)
			}
			if !cmd.Flags().Changed("steps") {
				steps = o.cfg.Int("sample.steps", steps)
			}
			s, err := calculus.Sample(e, from, to, steps)
			if err != nil {
				return o.fail("sample", err)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "# f'(x) = %s\n", s.Derivative)
			fmt.Fprintln(tw, "x\tf(x)\tf'(x)")
			for _, p := range s.Points {
				if p.Defined {
					fmt.Fprintf(tw, "%g\t%g\t%g\n", p.X, p.Y, p.Slope)
				} else {
					fmt.Fprintf(tw, "%g\t-\t-\n", p.X)
				}
			}
			return tw.Flush()
		},
	}
	cmd.Flags().Float64Var(&from, "from", -5, "start of the interval")
	cmd.Flags().Float64Var(&to, "to", 5, "end of the interval")
	cmd.Flags().IntVar(&steps, "steps", 100, "number of intervals")
	return cmd
}
