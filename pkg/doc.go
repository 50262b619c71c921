// Package pkg holds the public libraries behind the mosaic tiling layout
// engine.
//
//   - [mosaic] is the layout core: the node arena, split/close/resize and
//     relocation, tree conversion, drop-zone geometry, drag sessions and
//     snapshot persistence against a [mosaic.Storage].
//   - [store] provides Storage backends (file, memory, Redis, MongoDB,
//     SQLite) plus key scoping, retry and instrumentation wrappers.
//   - [errors] defines coded errors shared by the CLI and HTTP surfaces.
//   - [render] draws a layout's split tree as Graphviz DOT or SVG.
//   - [observability] exposes hook interfaces for logging and metrics.
//
// A typical session:
//
//	l := mosaic.FromTree(mosaic.HorizontalTree(
//		mosaic.Leaf("sidebar"),
//		mosaic.VerticalTree(mosaic.Leaf("editor"), mosaic.Leaf("console"), 60),
//		25,
//	))
//	l.InsertTileWithSplit("sidebar", "console", mosaic.Bottom)
//	err := mosaic.Save(ctx, store.NewMemoryStore(), "workspace", l)
//
// [mosaic]: github.com/matzehuels/mosaic/pkg/mosaic
// [store]: github.com/matzehuels/mosaic/pkg/store
// [errors]: github.com/matzehuels/mosaic/pkg/errors
// [render]: github.com/matzehuels/mosaic/pkg/render
// [observability]: github.com/matzehuels/mosaic/pkg/observability
package pkg
