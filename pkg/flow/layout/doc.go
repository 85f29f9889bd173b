// Package layout arranges a diagram as a top-to-bottom layered flow.
//
// # Overview
//
// Auto-arrange runs in three phases:
//
//  1. Leveling ([Levels]): every node gets a level equal to the length of the
//     longest directed path from any root (a node without incoming edges).
//  2. Ordering: nodes sharing a level keep their relative order from the
//     graph's node sequence.
//  3. Coordinates ([Arrange]): levels become rows spaced vertically, and the
//     nodes of a row are spaced horizontally and centred around x = 0.
//
// The new positions replace the old ones in a single [flow.Graph.SetPositions]
// update.
//
// # Cycles
//
// The editor lets users draw cycles. Leveling never descends into a node
// already on the active path, so cyclic graphs always terminate with finite
// levels. Nodes reachable from no root (for example a bare cycle a→b→a)
// stay at level 0. [BackEdges] reports the edges that close cycles, for
// diagnostics.
//
// # Determinism
//
// For a fixed graph the result depends only on node and edge order, never
// on current positions, so arranging twice without a structural change
// yields identical positions.
package layout
