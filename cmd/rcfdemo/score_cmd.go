package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var ignoreMass int

var scoreCmd = &cobra.Command{
	Use:   "score <query-point>",
	Short: "Build a tree from stdin and score a query point against it",
	Long: `score reads one point per line from stdin, inserts each into a fresh
tree in order, then reports the anomaly score of the point given as an
argument (comma or whitespace separated coordinates).`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().IntVar(&ignoreMass, "ignore-mass", 0, "ignore exact leaf matches with mass at or below this")
}

func runScore(cmd *cobra.Command, args []string) error {
	settings := loadTreeSettings()

	points, err := readPoints(os.Stdin, settings.dimensions)
	if err != nil {
		return err
	}

	tree, store, coord, err := newTree(settings)
	if err != nil {
		return err
	}

	for _, point := range points {
		if _, err := coord.Update(tree, point); err != nil {
			return err
		}
	}
	_ = store

	query, err := parsePoint(args[0], settings.dimensions)
	if err != nil {
		return err
	}

	score := tree.Score(query, ignoreMass, defaultScoreSeen, defaultScoreUnseen, defaultTreeDamp)
	fmt.Fprintf(cmd.OutOrStdout(), "%f\n", score)
	return nil
}

func parsePoint(s string, dimensions int) ([]float32, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	if len(fields) != dimensions {
		return nil, fmt.Errorf("rcfdemo: query point has %d values, want %d", len(fields), dimensions)
	}
	point := make([]float32, dimensions)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return nil, err
		}
		point[i] = float32(v)
	}
	return point, nil
}
