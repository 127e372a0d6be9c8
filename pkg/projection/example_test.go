package projection_test

import (
	"fmt"

	"github.com/orakul/orakul/pkg/projection"
	"github.com/orakul/orakul/pkg/scene"
)

func ExampleProject() {
	raw := projection.RawData{
		"systems": []any{
			map[string]any{"id": "api", "name": "API", "dependsOn": []any{"store"}},
			map[string]any{"id": "store", "name": "Store", "kind": "database"},
		},
	}

	nodes, edges := projection.Project(scene.Abstract, raw)
	for _, n := range nodes {
		fmt.Println(n.ID, n.Kind)
	}
	for _, e := range edges {
		fmt.Println(e.ID)
	}
	// Output:
	// api actual
	// store database
	// api->store
}
