package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clinical-scoring-mcp-server/internal/domain"
	"github.com/clinical-scoring-mcp-server/internal/service"
)

func newInstrumentsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "instruments [id]",
		Short: "List scoring instruments, or show one instrument's inputs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				list := a.Service.ListInstruments()
				var b strings.Builder
				for _, inst := range list {
					fmt.Fprintf(&b, "%-12s %-28s %d-%d\n", inst.ID, inst.Name, inst.Range.Min, inst.Range.Max)
				}
				return printResult(out, opts, list, strings.TrimRight(b.String(), "\n"))
			}

			inst, err := a.Service.GetInstrument(args[0])
			if err != nil {
				return err
			}
			return printResult(out, opts, inst, describeInstrument(inst))
		},
	}
}

func describeInstrument(inst *domain.Instrument) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s), score %d-%d\n", inst.Name, inst.ID, inst.Range.Min, inst.Range.Max)
	for _, in := range inst.Inputs {
		switch in.Kind {
		case domain.ENUMERATED:
			values := make([]string, len(in.Choices))
			for i, c := range in.Choices {
				values[i] = c.Value
			}
			fmt.Fprintf(&b, "  %-18s %s [%s]\n", in.ID, in.Label, strings.Join(values, "|"))
		case domain.NUMERIC:
			fmt.Fprintf(&b, "  %-18s %s (number)\n", in.ID, in.Label)
		default:
			fmt.Fprintf(&b, "  %-18s %s (true|false)\n", in.ID, in.Label)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func newEvaluateCmd(opts *rootOptions) *cobra.Command {
	var values map[string]string

	cmd := &cobra.Command{
		Use:   "evaluate <instrument>",
		Short: "Score an instrument from --set input=value pairs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			params := service.EvaluateParams{InstrumentID: args[0], Values: domain.Values{}}
			for k, v := range values {
				params.Values[k] = v
			}

			res, err := a.Service.Evaluate(cmd.Context(), params)
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), opts, res, res.Display)
		},
	}
	cmd.Flags().StringToStringVar(&values, "set", nil, "input value as id=value (repeatable)")
	return cmd
}

func newClassifyCmd(opts *rootOptions) *cobra.Command {
	var in domain.ClassificationInputs
	var lobar int

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify cerebral amyloid angiopathy by the Boston Criteria v2.0",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, _, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			in.LobarLesions = domain.LesionCount(lobar)
			res := a.Service.Classify(cmd.Context(), in)
			return printResult(cmd.OutOrStdout(), opts, res, res.Display)
		},
	}

	f := cmd.Flags()
	f.IntVar(&in.Age, "age", 0, "patient age in years")
	f.BoolVar(&in.PathologyDefinite, "pathology-definite", false, "full post-mortem examination shows severe CAA")
	f.BoolVar(&in.PathologySupporting, "pathology-supporting", false, "evacuated hematoma or biopsy shows CAA")
	f.BoolVar(&in.QualifyingPresentation, "presentation", false, "ICH, TFNE or cognitive impairment presentation")
	f.IntVar(&lobar, "lobar", 0, "strictly lobar hemorrhagic lesions (0, 1, 2 for two or more)")
	f.BoolVar(&in.WhiteMatterFeature, "white-matter", false, "severe centrum semiovale PVS or multispot WMH")
	f.BoolVar(&in.DeepLesions, "deep", false, "deep hemorrhagic lesions present")
	f.BoolVar(&in.OtherCause, "other-cause", false, "another cause of hemorrhage is present")
	_ = cmd.MarkFlagRequired("age")
	return cmd
}

func newTrialsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "trials",
		Short: "List the trial catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, _, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			trials, err := a.Service.ListTrials(cmd.Context())
			if err != nil {
				return err
			}
			var b strings.Builder
			for _, t := range trials {
				fmt.Fprintf(&b, "%-14s %d  %s\n", t.ID, t.Year, t.Name)
			}
			return printResult(cmd.OutOrStdout(), opts, trials, strings.TrimRight(b.String(), "\n"))
		},
	}
}

func newSummarizeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summarize <trial-id>",
		Short: "Summarize a catalog trial's comparative outcome",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, _, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.Service.SummarizeTrial(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printResult(cmd.OutOrStdout(), opts, res, res.Display)
		},
	}
}

func newRatesCmd(opts *rootOptions) *cobra.Command {
	var params service.RatesParams
	var nnt float64

	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Summarize an ad-hoc two-arm comparison",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, _, err := loadApp(cmd, opts)
			if err != nil {
				return err
			}
			defer a.Close()

			if cmd.Flags().Changed("nnt") {
				params.NNT = &nnt
			}
			res := a.Service.SummarizeRates(cmd.Context(), params)
			return printResult(cmd.OutOrStdout(), opts, res, res.Display)
		},
	}

	f := cmd.Flags()
	f.StringVar(&params.TreatmentRate, "treatment", "", "treatment arm rate, e.g. 45%")
	f.StringVar(&params.ControlRate, "control", "", "control arm rate, e.g. 20%")
	f.StringVar(&params.PValue, "p", "", "reported p-value")
	f.StringVar(&params.EffectSize, "effect", "", "reported effect size")
	f.BoolVar(&params.IsNegativeTrial, "negative", false, "trial did not meet its primary outcome")
	f.BoolVar(&params.IsEstimationTrial, "estimation", false, "trial reports estimates rather than superiority")
	f.Float64Var(&nnt, "nnt", 0, "reported number needed to treat")
	return cmd
}
