// Package pkg holds the libraries behind Orakul, a viewer that projects a
// system description into layered node-link diagrams at three levels of
// detail and lets a user explore and sketch on them.
//
// # Data flow
//
//	raw document (file or MongoDB)
//	         ↓
//	    [source]       load and normalise
//	         ↓
//	    [projection]   nodes and edges for one level
//	         ↓
//	    [layout]       positions and edge routes
//	         ↓
//	    [interaction]  selection, planned nodes, connections
//	         ↓
//	    [graph]        wire format, then [render/nodelink] DOT/SVG/PNG
//
// [pipeline] runs the batch path with caching ([cache]); the interactive
// hosts in internal/cli drive an [interaction.Controller] directly.
//
// # Packages
//
// [scene] is the shared data model: levels, node kinds and their capability
// table, nodes, edges and the element builders that give user-created
// elements their ids.
//
// [dag], [dag/transform] and [ordering] are the graph machinery used by
// [layout]: an insertion-ordered DAG, cycle breaking, long-edge
// subdivision and crossing reduction.
//
// [views] is the level selector. [observability] is the hook registry
// that the serve command backs with Prometheus. [errors] carries the
// error codes hosts map to exit messages and HTTP statuses.
//
// [source]: https://pkg.go.dev/github.com/orakul/orakul/pkg/source
// [projection]: https://pkg.go.dev/github.com/orakul/orakul/pkg/projection
// [layout]: https://pkg.go.dev/github.com/orakul/orakul/pkg/layout
// [interaction]: https://pkg.go.dev/github.com/orakul/orakul/pkg/interaction
// [interaction.Controller]: https://pkg.go.dev/github.com/orakul/orakul/pkg/interaction#Controller
// [graph]: https://pkg.go.dev/github.com/orakul/orakul/pkg/graph
// [render/nodelink]: https://pkg.go.dev/github.com/orakul/orakul/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/orakul/orakul/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/orakul/orakul/pkg/cache
// [scene]: https://pkg.go.dev/github.com/orakul/orakul/pkg/scene
// [dag]: https://pkg.go.dev/github.com/orakul/orakul/pkg/dag
// [dag/transform]: https://pkg.go.dev/github.com/orakul/orakul/pkg/dag/transform
// [ordering]: https://pkg.go.dev/github.com/orakul/orakul/pkg/ordering
// [views]: https://pkg.go.dev/github.com/orakul/orakul/pkg/views
// [observability]: https://pkg.go.dev/github.com/orakul/orakul/pkg/observability
// [errors]: https://pkg.go.dev/github.com/orakul/orakul/pkg/errors
package pkg
