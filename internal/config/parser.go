package config

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// maxDepth bounds how deeply the indentation grammar may nest.
const maxDepth = 32

// gcdSeed is the starting value the indent-unit GCD fold begins from.
// It is the product of 1 through 6 (720), chosen so any indentation
// scheme using between 1 and 6 spaces per level divides it evenly on
// the first pass.
const gcdSeed = 720

type rawLine struct {
	padding int
	content string
}

// buildNode is the mutable tree node used while parsing. Unlike Level
// (an immutable value type returned to callers), buildNode is always
// referenced through a pointer, so appending a sibling to one node's
// children never invalidates a pointer other lines have already taken
// into a different node's child list.
type buildNode struct {
	kind     LevelKind
	name     string
	value    Value
	children []*buildNode
}

// ParseFile parses the custom indentation grammar (not YAML, despite
// the conventional .yml extension configuration files use) into a
// tree of Levels rooted at an implicit top-level node.
func ParseFile(r io.Reader) (Level, error) {
	lines, err := readLines(r)
	if err != nil {
		return Level{}, err
	}
	if len(lines) == 0 {
		return Level{Kind: LevelNode}, nil
	}

	unit := indentUnit(lines)

	parents := make([]*buildNode, maxDepth+1)
	root := &buildNode{kind: LevelNode}
	parents[0] = root

	for _, line := range lines {
		depth := 0
		if unit > 0 {
			depth = line.padding / unit
		}
		if depth >= maxDepth {
			return Level{}, fmt.Errorf("config: line nests deeper than %d levels: %q", maxDepth, line.content)
		}
		parent := parents[depth]
		if parent == nil {
			return Level{}, fmt.Errorf("config: indentation has no enclosing level: %q", line.content)
		}

		node, isNode := classify(line.content)
		parent.children = append(parent.children, node)
		if isNode {
			parents[depth+1] = node
		}
	}

	return root.toLevel(), nil
}

func (n *buildNode) toLevel() Level {
	children := make([]Level, len(n.children))
	for i, c := range n.children {
		children[i] = c.toLevel()
	}
	return Level{Kind: n.kind, Name: n.name, Value: n.value, Children: children}
}

// classify turns one line's trimmed content into a buildNode. A line
// ending in ":" opens a named node; a line starting with "-" is a
// list element; a line ending in "]" is inline-list sugar for
// "key: [a, b, c]"; anything else is a scalar "key: value" pair.
func classify(content string) (node *buildNode, isNode bool) {
	trimmed := strings.TrimSpace(content)

	if strings.HasSuffix(trimmed, ":") {
		name := strings.TrimSuffix(trimmed, ":")
		return &buildNode{kind: LevelNode, name: name}, true
	}

	if strings.HasPrefix(trimmed, "-") {
		value := strings.TrimSpace(strings.TrimPrefix(trimmed, "-"))
		return &buildNode{kind: LevelList, value: NewValue(value)}, false
	}

	if strings.HasSuffix(trimmed, "]") {
		colon := strings.Index(trimmed, ":")
		if colon < 0 {
			return &buildNode{kind: LevelScalar, value: NewValue(trimmed)}, false
		}
		name := strings.TrimSpace(trimmed[:colon])
		inline := strings.TrimSpace(trimmed[colon+1:])
		inline = strings.TrimPrefix(inline, "[")
		inline = strings.TrimSuffix(inline, "]")

		var items []*buildNode
		if strings.TrimSpace(inline) != "" {
			for _, part := range strings.Split(inline, ",") {
				items = append(items, &buildNode{kind: LevelList, value: NewValue(part)})
			}
		}
		return &buildNode{kind: LevelNode, name: name, children: items}, true
	}

	colon := strings.Index(trimmed, ":")
	if colon < 0 {
		return &buildNode{kind: LevelScalar, value: NewValue(trimmed)}, false
	}
	name := strings.TrimSpace(trimmed[:colon])
	value := strings.TrimSpace(trimmed[colon+1:])
	return &buildNode{
		kind:     LevelNode,
		name:     name,
		children: []*buildNode{{kind: LevelScalar, value: NewValue(value)}},
	}, true
}

func readLines(r io.Reader) ([]rawLine, error) {
	scanner := bufio.NewScanner(r)
	var lines []rawLine
	for scanner.Scan() {
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		padding := 0
		for padding < len(text) && text[padding] == ' ' {
			padding++
		}
		lines = append(lines, rawLine{padding: padding, content: text[padding:]})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// indentUnit derives the single space-count increment one level of
// nesting corresponds to, by folding gcd across every line's leading
// space count starting from a seed value divisible by every
// indentation width from 1 to 6 spaces. Lines with zero padding do
// not constrain the result. If no nonzero padding is present at all,
// unit falls back to 1 (every line is its own depth-0 sibling).
func indentUnit(lines []rawLine) int {
	unit := gcdSeed
	seenNonzero := false
	for _, l := range lines {
		if l.padding == 0 {
			continue
		}
		seenNonzero = true
		unit = gcd(unit, l.padding)
	}
	if !seenNonzero || unit == 0 {
		return 1
	}
	return unit
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
