package command

import (
	"fmt"
	"io"
	"strings"

	"github.com/rodaine/table"
	"github.com/spf13/cobra"

	"github.com/askiada/go-pipegraph/pkg/pipeline/model"
	"github.com/askiada/go-pipegraph/pkg/pipeline/params"
)

func newInspectCommand() *cobra.Command {
	var opts graphOptions

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "List the nodes, pipeline parameters and outputs of a graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, values, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}

			return inspect(cmd.OutOrStdout(), g, values)
		},
	}

	opts.bind(cmd.Flags())

	return cmd
}

func inspect(w io.Writer, g *model.Graph, values map[string]any) error {
	sorted, err := g.Sorted()
	if err != nil {
		return err
	}

	inbound := make(map[string][]string)
	for _, e := range g.Edges() {
		id := e.Destination.Node().ID()
		inbound[id] = append(inbound[id], e.Source.String())
	}

	nodes := table.New("NODE", "KIND", "NAME", "INPUTS").WithWriter(w)

	for _, n := range sorted {
		kind := "module"
		if _, ok := n.(*model.DataSource); ok {
			kind = "datasource"
		}

		nodes.AddRow(n.ID(), kind, n.Name(), strings.Join(inbound[n.ID()], ", "))
	}

	nodes.Print()

	declared, err := g.Parameters()
	if err != nil {
		return err
	}

	if len(declared) > 0 {
		fmt.Fprintln(w)

		tbl := table.New("PARAMETER", "KIND", "DEFAULT", "VALUE").WithWriter(w)

		for _, p := range declared {
			kind := params.Classify(p.Default).String()
			if p.IsDataPath() {
				kind = "DataPath"
			}

			value := ""
			if v, ok := values[p.Name]; ok {
				value = fmt.Sprint(v)
			}

			tbl.AddRow(p.Name, kind, fmt.Sprint(p.Default), value)
		}

		tbl.Print()
	}

	if outputs := g.Outputs(); len(outputs) > 0 {
		fmt.Fprintln(w)

		tbl := table.New("OUTPUT", "PORT", "DATA TYPE").WithWriter(w)
		for _, o := range outputs {
			tbl.AddRow(o.Name, o.Port.String(), o.Port.DataType())
		}

		tbl.Print()
	}

	return nil
}
