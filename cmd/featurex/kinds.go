package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/RyanBlaney/sonido-features/extraction"
	"github.com/RyanBlaney/sonido-features/extraction/config"
	"github.com/spf13/cobra"
)

func newKindsCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "kinds",
		Short: "List the available feature kinds with their dependencies and parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listKinds(cmd.OutOrStdout(), extraction.NewDefaultCatalog(), verbose)
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Include descriptions")
	return cmd
}

func listKinds(w io.Writer, catalog *extraction.Catalog, verbose bool) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tID\tDIMENSION\tHISTORY\tDEPENDENCIES\tPARAMETERS")

	for _, kind := range catalog.Kinds() {
		desc, err := catalog.Lookup(kind)
		if err != nil {
			return err
		}
		ext, err := catalog.NewExtractor(kind)
		if err != nil {
			return err
		}
		depth, err := extraction.HistoryDepth(catalog, kind)
		if err != nil {
			return err
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			desc.Name,
			kind,
			dimensionLabel(ext),
			depth,
			describeDependencies(desc.Dependencies),
			describeParameters(desc.Parameters),
		)
		if verbose && desc.Description != "" {
			fmt.Fprintf(tw, "\t%s\t\t\t\t\n", desc.Description)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "\nHISTORY is the number of earlier windows a kind reads. Kinds with a nonzero\n"+
		"HISTORY fail under --lag-policy strict, the default; use --lag-policy skip.")
	return err
}

// dimensionLabel reports the vector length at the default window size
func dimensionLabel(ext *extraction.Extractor) string {
	return strconv.Itoa(ext.Dimension(config.DefaultWindowSize))
}

// describeDependencies groups runs of the same kind, e.g. ROOT_MEAN_SQUARE[0..-99]
func describeDependencies(deps []extraction.Dependency) string {
	if len(deps) == 0 {
		return "-"
	}

	var parts []string
	for i := 0; i < len(deps); {
		j := i
		for j+1 < len(deps) && deps[j+1].Kind == deps[i].Kind && deps[j+1].Lag == deps[j].Lag-1 {
			j++
		}
		switch {
		case j > i:
			parts = append(parts, fmt.Sprintf("%s[%d..%d]", deps[i].Kind, deps[i].Lag, deps[j].Lag))
		case deps[i].Lag != 0:
			parts = append(parts, fmt.Sprintf("%s[%d]", deps[i].Kind, deps[i].Lag))
		default:
			parts = append(parts, deps[i].Kind.String())
		}
		i = j + 1
	}
	return strings.Join(parts, ", ")
}

func describeParameters(specs []extraction.ParameterSpec) string {
	if len(specs) == 0 {
		return "-"
	}
	parts := make([]string, len(specs))
	for i, s := range specs {
		parts[i] = fmt.Sprintf("%s=%s", s.Name, strconv.FormatFloat(s.Default, 'g', -1, 64))
	}
	return strings.Join(parts, "; ")
}
