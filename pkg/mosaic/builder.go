package mosaic

// Builder assembles a single split with a fluent API. Nest builders by
// passing one builder's [Builder.MustBuildTree] (or checked [Builder.BuildTree])
// result as a child of another:
//
//	l, err := mosaic.HorizontalBuilder().
//		Left(mosaic.Tile("sidebar")).
//		Right(mosaic.VerticalBuilder().
//			Top(mosaic.Tile("editor")).
//			Bottom(mosaic.Tile("terminal")).
//			Split(70).
//			MustBuildTree()).
//		Split(25).
//		Build()
type Builder struct {
	direction  Direction
	first      *Tree
	second     *Tree
	percentage float64
}

// NewBuilder starts a split along dir with an even 50/50 share.
func NewBuilder(dir Direction) *Builder {
	return &Builder{direction: dir, percentage: DefaultSplitPercentage}
}

// HorizontalBuilder starts a left | right split.
func HorizontalBuilder() *Builder { return NewBuilder(Horizontal) }

// VerticalBuilder starts a top / bottom split.
func VerticalBuilder() *Builder { return NewBuilder(Vertical) }

// First sets the first child.
func (b *Builder) First(t *Tree) *Builder {
	b.first = t
	return b
}

// Second sets the second child.
func (b *Builder) Second(t *Tree) *Builder {
	b.second = t
	return b
}

// Left is First for horizontal splits.
func (b *Builder) Left(t *Tree) *Builder { return b.First(t) }

// Right is Second for horizontal splits.
func (b *Builder) Right(t *Tree) *Builder { return b.Second(t) }

// Top is First for vertical splits.
func (b *Builder) Top(t *Tree) *Builder { return b.First(t) }

// Bottom is Second for vertical splits.
func (b *Builder) Bottom(t *Tree) *Builder { return b.Second(t) }

// Split sets the first child's share, clamped to [0, 100]. The layout later
// narrows it to the arena's split bounds.
func (b *Builder) Split(percentage float64) *Builder {
	b.percentage = clamp(percentage, 0, 100)
	return b
}

// BuildTree returns the declarative split, or [ErrIncompleteSplit] when a
// child is missing.
func (b *Builder) BuildTree() (*Tree, error) {
	if b.first == nil || b.second == nil {
		return nil, ErrIncompleteSplit
	}
	return &Tree{
		Direction:       b.direction,
		First:           b.first,
		Second:          b.second,
		SplitPercentage: b.percentage,
	}, nil
}

// MustBuildTree is like BuildTree but panics on a missing child.
func (b *Builder) MustBuildTree() *Tree {
	t, err := b.BuildTree()
	if err != nil {
		panic(err)
	}
	return t
}

// Build materializes the split into a layout via [FromTree].
func (b *Builder) Build() (*Layout, error) {
	t, err := b.BuildTree()
	if err != nil {
		return nil, err
	}
	return FromTree(t), nil
}
