// Package graph defines the wire format of a rendered scene.
//
// A [Scene] is what `orakul layout` writes, what `orakul serve` returns
// from GET /scene, and what `orakul visualize` reads back. It is a flat,
// tool-friendly view of an [interaction.Snapshot]: kinds, levels and
// directions are strings, and every node carries its own box size.
//
//	{
//	  "version": 1,
//	  "level": "components",
//	  "direction": "TB",
//	  "width": 172,
//	  "height": 268,
//	  "nodes": [
//	    {"id": "A", "label": "A", "kind": "actual", "x": 0, "y": 0, "width": 172, "height": 36}
//	  ],
//	  "edges": [
//	    {"id": "A->B", "source": "A", "target": "B", "points": [{"x": 86, "y": 18}, {"x": 86, "y": 134}]}
//	  ]
//	}
//
// Use [FromSnapshot] and [Scene.Snapshot] to convert, and [WriteScene],
// [ReadScene] and the file helpers to serialise.
//
// [interaction.Snapshot]: github.com/orakul/orakul/pkg/interaction
package graph
