package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/dblock/random-cut-forest-by-aws/coordinator"
	"github.com/dblock/random-cut-forest-by-aws/pointstore"
	"github.com/dblock/random-cut-forest-by-aws/rcf"
)

// treeSettings is the subset of viper-bound configuration needed to build
// a tree, merged from flags, environment (RCFDEMO_*), and an optional
// config file by initConfig's viper setup.
type treeSettings struct {
	dimensions    int
	capacity      int
	cacheFraction float64
	centerOfMass  bool
}

func loadTreeSettings() treeSettings {
	return treeSettings{
		dimensions:    viper.GetInt("dimensions"),
		capacity:      viper.GetInt("capacity"),
		cacheFraction: viper.GetFloat64("cache-fraction"),
		centerOfMass:  viper.GetBool("center-of-mass"),
	}
}

// newTree builds an empty tree and its backing point store and
// coordinator from the resolved settings. The point store is sized two
// slots larger than the arena: update's sliding-window eviction frees an
// arena slot only after the incoming point is already stored, so the
// store needs room for one more live point than the arena can ever hold.
func newTree(s treeSettings) (*rcf.Tree, *pointstore.Store, *coordinator.Single, error) {
	store := pointstore.NewStore(s.dimensions, s.capacity+2)
	coord := coordinator.New(store)

	cfg := rcf.NewConfig().
		WithDimensions(s.dimensions).
		WithCapacity(s.capacity).
		WithBoundingBoxCacheFraction(s.cacheFraction).
		WithCenterOfMassEnabled(s.centerOfMass).
		WithPointStoreView(store)

	tree, err := rcf.NewTree(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	return tree, store, coord, nil
}

// readPoints parses one whitespace/comma-separated point per line from r.
func readPoints(r io.Reader, dimensions int) ([][]float32, error) {
	var points [][]float32
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.FieldsFunc(line, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
		if len(fields) != dimensions {
			return nil, fmt.Errorf("rcfdemo: line %d has %d values, want %d", lineNo, len(fields), dimensions)
		}
		point := make([]float32, dimensions)
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 32)
			if err != nil {
				return nil, fmt.Errorf("rcfdemo: line %d: %w", lineNo, err)
			}
			point[i] = float32(v)
		}
		points = append(points, point)
	}
	return points, scanner.Err()
}
