// Package scheduler partitions a set of systems sharing a phase into an
// ordered list of layers: batches of systems that may run concurrently,
// with every resource-dependency or forced-ordering edge running from a
// lower-indexed layer to a higher-indexed one.
//
// The package is a pure, synchronous graph algorithm — no state is held
// across calls, and Schedule is safe to call repeatedly with the same
// input for the same result (determinism is part of the contract).
package scheduler

import (
	"fmt"
	"sort"
)

// Access is the read/write mode a system holds on a Resource.
type Access int

const (
	Read Access = iota
	Write
)

// ResourceKind distinguishes the closed set of schedulable resource
// categories.
type ResourceKind int

const (
	ComponentResource ResourceKind = iota
	FrameContextResource
	UserStateResource
)

// Resource identifies a schedulable entity: a component, the frame
// context, or a named user state.
type Resource struct {
	Kind ResourceKind
	Name string // empty for FrameContextResource
}

// Dependency is one resource access a system declares.
type Dependency struct {
	Resource Resource
	Access   Access
}

// ID identifies a system for scheduling purposes.
type ID uint64

// System is the minimal view of a system the scheduler needs: its id,
// the names of systems it must run after, and its resource dependencies.
type System struct {
	ID           ID
	Name         string
	RunAfter     []string
	Dependencies []Dependency
}

// CycleError is returned when the dependency graph cannot be fully
// layered. Between is set when a specific remaining edge could be
// identified; otherwise only a generic cycle is reported.
type CycleError struct {
	Between bool
	A, B    string
}

func (e *CycleError) Error() string {
	if e.Between {
		return fmt.Sprintf("cycle detected between systems '%s' and '%s'", e.A, e.B)
	}
	return "cycle detected in system run order"
}

// Schedule computes the layered execution plan for systems, all assumed
// to share one phase. Systems must be named uniquely within the set;
// RunAfter entries reference other systems in the same set by name.
//
// run_after edges are authored constraints, never broken: a cycle
// among them alone is a hard error (CycleDetectedInSystemRunOrder).
// Resource edges (derived from shared reads/writes) are softer — a
// bidirectional resource conflict between two systems is resolved by
// forced reachability first, then by id tie-break (the higher-source
// edge is retained, so the higher-id system schedules first), and any
// cycle that still survives after that is broken by dropping its
// highest-source-id resource edge.
func Schedule(systems []System) ([][]ID, error) {
	idByName := make(map[string]ID, len(systems))
	for _, s := range systems {
		idByName[s.Name] = s.ID
	}

	forced := make(map[ID]map[ID]bool, len(systems))
	forcedAdj := make(map[ID][]ID)
	for _, s := range systems {
		if forced[s.ID] == nil {
			forced[s.ID] = make(map[ID]bool)
		}
		for _, predName := range s.RunAfter {
			p := idByName[predName]
			if forced[p] == nil {
				forced[p] = make(map[ID]bool)
			}
			forced[p][s.ID] = true
			forcedAdj[p] = append(forcedAdj[p], s.ID)
		}
	}

	if cycle := findCycle(forced); cycle != nil {
		return nil, &CycleError{}
	}

	// graph starts as a copy of forced, then gains resource edges.
	graph := make(map[ID]map[ID]bool, len(systems))
	for u, succs := range forced {
		graph[u] = make(map[ID]bool, len(succs))
		for v := range succs {
			graph[u][v] = true
		}
	}
	for _, s := range systems {
		if graph[s.ID] == nil {
			graph[s.ID] = make(map[ID]bool)
		}
	}

	// Resource edges: A -> B whenever A writes a resource B reads or writes.
	for _, a := range systems {
		for _, b := range systems {
			if a.ID == b.ID {
				continue
			}
			if writesSharedWith(a, b) {
				graph[a.ID][b.ID] = true
			}
		}
	}

	resolveBidirectionalConflicts(systems, graph, forced, forcedAdj)
	breakResidualCycles(graph, forced)

	return layer(systems, graph)
}

func writesSharedWith(a, b System) bool {
	for _, da := range a.Dependencies {
		if da.Access != Write {
			continue
		}
		for _, db := range b.Dependencies {
			if db.Resource == da.Resource {
				return true
			}
		}
	}
	return false
}

func forcedReachable(adj map[ID][]ID, start, target ID) bool {
	stack := []ID{start}
	seen := make(map[ID]bool)
	for len(stack) > 0 {
		u := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if u == target {
			return true
		}
		if seen[u] {
			continue
		}
		seen[u] = true
		stack = append(stack, adj[u]...)
	}
	return false
}

// resolveBidirectionalConflicts resolves A<->B edge pairs that arose from
// resource sharing. A pair where both directions are themselves
// run_after edges is left untouched — that is a hard authored
// contradiction, not a conflict for this pass to arbitrate, and
// Schedule already rejected it via the forced-graph cycle check above.
func resolveBidirectionalConflicts(systems []System, graph map[ID]map[ID]bool, forced map[ID]map[ID]bool, forcedAdj map[ID][]ID) {
	for i, a := range systems {
		for _, b := range systems[i+1:] {
			a := a
			if a.ID == b.ID {
				continue
			}
			if a.ID > b.ID {
				a, b = b, a
			}
			hasAB := graph[a.ID][b.ID]
			hasBA := graph[b.ID][a.ID]
			if !hasAB || !hasBA {
				continue
			}
			if forced[a.ID][b.ID] && forced[b.ID][a.ID] {
				continue
			}

			reachAB := forcedReachable(forcedAdj, a.ID, b.ID)
			reachBA := forcedReachable(forcedAdj, b.ID, a.ID)

			switch {
			case reachAB && !reachBA:
				deleteIfNotForced(graph, forced, b.ID, a.ID)
			case reachBA && !reachAB:
				deleteIfNotForced(graph, forced, a.ID, b.ID)
			default:
				// No clear forced preference: retain the higher-source
				// edge, so the higher-id system schedules first.
				if a.ID < b.ID {
					deleteIfNotForced(graph, forced, a.ID, b.ID)
				} else {
					deleteIfNotForced(graph, forced, b.ID, a.ID)
				}
			}
		}
	}
}

// deleteIfNotForced removes a graph edge unless it is itself a
// run_after edge, in which case the authored constraint always wins.
func deleteIfNotForced(graph map[ID]map[ID]bool, forced map[ID]map[ID]bool, u, v ID) {
	if forced[u][v] {
		return
	}
	delete(graph[u], v)
}

type edge struct{ u, v ID }

// findCycle returns the edges of one cycle in graph, if any, via DFS.
func findCycle(graph map[ID]map[ID]bool) []edge {
	visited := make(map[ID]bool)
	onStack := make(map[ID]bool)
	var stack []ID

	ids := make([]ID, 0, len(graph))
	for id := range graph {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var dfs func(ID) []edge
	dfs = func(u ID) []edge {
		visited[u] = true
		onStack[u] = true
		stack = append(stack, u)

		neighbors := make([]ID, 0, len(graph[u]))
		for v := range graph[u] {
			neighbors = append(neighbors, v)
		}
		sort.Slice(neighbors, func(i, j int) bool { return neighbors[i] < neighbors[j] })

		for _, v := range neighbors {
			if !visited[v] {
				if cyc := dfs(v); cyc != nil {
					return cyc
				}
			} else if onStack[v] {
				var cyc []edge
				started := false
				prev := v
				for _, node := range stack {
					if node == v {
						started = true
						prev = v
						continue
					}
					if started {
						cyc = append(cyc, edge{prev, node})
						prev = node
					}
				}
				cyc = append(cyc, edge{u, v})
				return cyc
			}
		}

		stack = stack[:len(stack)-1]
		onStack[u] = false
		return nil
	}

	for _, u := range ids {
		if !visited[u] {
			if cyc := dfs(u); cyc != nil {
				return cyc
			}
		}
	}
	return nil
}

// breakResidualCycles removes edges from cycles that survive
// resolveBidirectionalConflicts, by repeatedly finding a cycle and
// dropping its highest-source-id edge. It never removes a run_after
// edge: the forced graph is already known acyclic (Schedule checks
// it up front), so any residual cycle necessarily has at least one
// resource edge in it.
func breakResidualCycles(graph map[ID]map[ID]bool, forced map[ID]map[ID]bool) {
	for {
		cycle := findCycle(graph)
		if cycle == nil {
			return
		}

		candidates := make([]edge, 0, len(cycle))
		for _, e := range cycle {
			if !forced[e.u][e.v] {
				candidates = append(candidates, e)
			}
		}
		if len(candidates) == 0 {
			// Every edge in the cycle is forced; Schedule's up-front
			// check should have already caught this.
			return
		}

		remove := candidates[0]
		for _, e := range candidates[1:] {
			if e.u > remove.u {
				remove = e
			}
		}
		delete(graph[remove.u], remove.v)
	}
}

func layer(systems []System, graph map[ID]map[ID]bool) ([][]ID, error) {
	inDeg := make(map[ID]int, len(systems))
	nameByID := make(map[ID]string, len(systems))
	for _, s := range systems {
		inDeg[s.ID] = 0
		nameByID[s.ID] = s.Name
	}
	for u := range graph {
		for v := range graph[u] {
			inDeg[v]++
		}
	}

	remaining := make(map[ID]bool, len(systems))
	for _, s := range systems {
		remaining[s.ID] = true
	}

	seed := func() []ID {
		var zero []ID
		for id := range remaining {
			if inDeg[id] == 0 {
				zero = append(zero, id)
			}
		}
		sort.Slice(zero, func(i, j int) bool { return zero[i] < zero[j] })
		return zero
	}

	var layers [][]ID
	current := seed()

	for len(current) > 0 {
		sort.Slice(current, func(i, j int) bool { return current[i] < current[j] })
		layers = append(layers, current)

		next := make(map[ID]bool)
		for _, u := range current {
			delete(remaining, u)
			for v := range graph[u] {
				inDeg[v]--
				if inDeg[v] == 0 {
					next[v] = true
				}
			}
		}

		current = current[:0]
		for id := range next {
			current = append(current, id)
		}
	}

	visitedCount := len(systems) - len(remaining)
	if visitedCount != len(systems) {
		unvisited := make([]ID, 0, len(remaining))
		for u := range remaining {
			unvisited = append(unvisited, u)
		}
		sort.Slice(unvisited, func(i, j int) bool { return unvisited[i] < unvisited[j] })

		for _, u := range unvisited {
			succs := make([]ID, 0, len(graph[u]))
			for v := range graph[u] {
				if remaining[v] {
					succs = append(succs, v)
				}
			}
			sort.Slice(succs, func(i, j int) bool { return succs[i] < succs[j] })
			if len(succs) > 0 {
				return nil, &CycleError{Between: true, A: nameByID[u], B: nameByID[succs[0]]}
			}
		}
		return nil, &CycleError{}
	}

	return layers, nil
}
