package rcf

import (
	"fmt"
	"math/rand"
)

// Config is the explicit options record for constructing a Tree, matching
// spec.md §6.3. Build one with NewConfig and the With* setters, then pass
// it to NewTree, which validates cross-field constraints the way the
// teacher's Config/DefaultConfig/validateConfig trio does in hdbscan.go.
type Config struct {
	Dimensions               int
	Capacity                 int
	BoundingBoxCacheFraction float64
	CenterOfMassEnabled      bool
	StoreSequencesEnabled    bool
	StoreParent              bool
	PointStoreView           PointStoreView
	CutPolicy                CutPolicy
	Rand                     *rand.Rand

	// Pre-filled reconstruction columns (spec.md §6.3, SUPPLEMENTED
	// FEATURES in SPEC_FULL.md): all four of LeftIndex/RightIndex/
	// CutDimension/CutValues must be set together, each of length
	// Capacity, for NewTree to rebuild a tree from persisted columns
	// instead of starting empty.
	LeftIndex    []int
	RightIndex   []int
	CutDimension []int
	CutValues    []float32
	Root         int

	hasColumns bool
}

// NewConfig returns a Config with reasonable defaults: full bounding-box
// caching (see DESIGN.md Open Question decision 5), no center-of-mass or sequence
// tracking, the uniform cut policy, and an empty tree (Root = NULL).
func NewConfig() *Config {
	return &Config{
		BoundingBoxCacheFraction: 1.0,
		CutPolicy:                UniformCutPolicy{},
		Root:                     NULL,
	}
}

func (c *Config) WithDimensions(d int) *Config {
	c.Dimensions = d
	return c
}

func (c *Config) WithCapacity(capacity int) *Config {
	c.Capacity = capacity
	return c
}

func (c *Config) WithBoundingBoxCacheFraction(fraction float64) *Config {
	c.BoundingBoxCacheFraction = fraction
	return c
}

func (c *Config) WithCenterOfMassEnabled(enabled bool) *Config {
	c.CenterOfMassEnabled = enabled
	return c
}

func (c *Config) WithStoreSequencesEnabled(enabled bool) *Config {
	c.StoreSequencesEnabled = enabled
	return c
}

func (c *Config) WithStoreParent(enabled bool) *Config {
	c.StoreParent = enabled
	return c
}

func (c *Config) WithPointStoreView(view PointStoreView) *Config {
	c.PointStoreView = view
	return c
}

func (c *Config) WithCutPolicy(policy CutPolicy) *Config {
	c.CutPolicy = policy
	return c
}

func (c *Config) WithRand(rng *rand.Rand) *Config {
	c.Rand = rng
	return c
}

// WithColumns supplies persisted interior-node columns to reconstruct a
// tree instead of building one from scratch. left, right, cutDim, and
// cutVal must each have length Capacity; root is NULL for an empty tree or
// a valid interior-node slot.
func (c *Config) WithColumns(left, right, cutDim []int, cutVal []float32, root int) *Config {
	c.LeftIndex = left
	c.RightIndex = right
	c.CutDimension = cutDim
	c.CutValues = cutVal
	c.Root = root
	c.hasColumns = true
	return c
}

// Validate checks cross-field constraints, returning a descriptive error
// rather than panicking: misconfiguration is a caller mistake discoverable
// before any tree state exists, not a mid-operation contract violation.
func (c *Config) Validate() error {
	if c.PointStoreView == nil {
		return fmt.Errorf("rcf: a point store view is required")
	}
	if c.Dimensions <= 0 {
		return fmt.Errorf("rcf: Dimensions must be > 0, got %d", c.Dimensions)
	}
	if c.Capacity <= 0 {
		return fmt.Errorf("rcf: Capacity must be > 0, got %d", c.Capacity)
	}
	if c.BoundingBoxCacheFraction < 0 || c.BoundingBoxCacheFraction > 1 {
		return fmt.Errorf("rcf: BoundingBoxCacheFraction must be in [0,1], got %f", c.BoundingBoxCacheFraction)
	}
	if c.PointStoreView.Dimensions() != c.Dimensions {
		return fmt.Errorf("rcf: PointStoreView dimensions %d do not match Dimensions %d",
			c.PointStoreView.Dimensions(), c.Dimensions)
	}

	anyColumn := c.LeftIndex != nil || c.RightIndex != nil || c.CutDimension != nil || c.CutValues != nil
	if anyColumn && !c.hasColumns {
		// Defensive: fields were set directly rather than via WithColumns.
		c.hasColumns = true
	}
	if c.hasColumns {
		if c.LeftIndex == nil || c.RightIndex == nil || c.CutDimension == nil || c.CutValues == nil {
			return fmt.Errorf("rcf: LeftIndex, RightIndex, CutDimension, and CutValues must all be provided together")
		}
		if len(c.LeftIndex) != c.Capacity || len(c.RightIndex) != c.Capacity ||
			len(c.CutDimension) != c.Capacity || len(c.CutValues) != c.Capacity {
			return fmt.Errorf("rcf: LeftIndex, RightIndex, CutDimension, and CutValues must all have length Capacity (%d)", c.Capacity)
		}
		if c.Root != NULL && (c.Root < 0 || c.Root >= c.Capacity) {
			return fmt.Errorf("rcf: Root must be NULL or in [0, Capacity), got %d", c.Root)
		}
	}

	if c.CutPolicy == nil {
		return fmt.Errorf("rcf: a cut policy is required")
	}
	return nil
}
