// Copyright 2026 The JazzPetri Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package inner

// components returns the strongly connected components of the graph with
// nodes 0..n-1 in the order Tarjan's algorithm closes them, which is a
// reverse topological order: every component precedes the components that
// can reach it.
//
// The traversal keeps its own call stack so that deep graphs do not grow
// the goroutine stack.
func components(n int, succ func(int) []int) [][]int {
	const unvisited = -1

	index := make([]int, n)
	lowlink := make([]int, n)
	onStack := make([]bool, n)
	for i := range index {
		index[i] = unvisited
	}

	type callFrame struct {
		node  int
		edge  int
		child int
		phase int // 0=init, 1=edges, 2=post-child, 3=close
	}

	var (
		result  [][]int
		stack   []int
		counter int
	)

	for start := 0; start < n; start++ {
		if index[start] != unvisited {
			continue
		}

		calls := []callFrame{{node: start}}
		for len(calls) > 0 {
			top := len(calls) - 1
			frame := calls[top]

			switch frame.phase {
			case 0:
				index[frame.node] = counter
				lowlink[frame.node] = counter
				counter++
				stack = append(stack, frame.node)
				onStack[frame.node] = true
				frame.phase = 1
				calls[top] = frame

			case 1:
				out := succ(frame.node)
				pushed := false
				for frame.edge < len(out) {
					w := out[frame.edge]
					frame.edge++
					if index[w] == unvisited {
						frame.phase = 2
						frame.child = w
						calls[top] = frame
						calls = append(calls, callFrame{node: w})
						pushed = true
						break
					}
					if onStack[w] && index[w] < lowlink[frame.node] {
						lowlink[frame.node] = index[w]
					}
				}
				if !pushed {
					frame.phase = 3
					calls[top] = frame
				}

			case 2:
				if lowlink[frame.child] < lowlink[frame.node] {
					lowlink[frame.node] = lowlink[frame.child]
				}
				frame.phase = 1
				calls[top] = frame

			case 3:
				if lowlink[frame.node] == index[frame.node] {
					var comp []int
					for {
						w := stack[len(stack)-1]
						stack = stack[:len(stack)-1]
						onStack[w] = false
						comp = append(comp, w)
						if w == frame.node {
							break
						}
					}
					result = append(result, comp)
				}
				calls = calls[:top]
			}
		}
	}

	return result
}
