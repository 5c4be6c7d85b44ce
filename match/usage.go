package match

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/pinpoint/core"
	"github.com/termfx/pinpoint/parser"
)

// Usage is one instantiation site of a component within a tree.
type Usage struct {
	Node                   *sitter.Node
	ComponentName          string
	HasInlineClassOverride bool
	PropNames              []string
}

// Summary converts a usage into the outbound UsageMatch shape.
func (u Usage) Summary(filePath string) core.UsageMatch {
	return core.UsageMatch{
		ComponentName:          u.ComponentName,
		HasInlineClassOverride: u.HasInlineClassOverride,
		PropNames:              u.PropNames,
		FilePath:               filePath,
	}
}

// FindUsages collects every instantiation of componentName in the tree.
func FindUsages(t *parser.Tree, componentName string) []Usage {
	var usages []Usage

	var walk func(node *sitter.Node)
	walk = func(node *sitter.Node) {
		if isElement(node) && ElementName(t, node) == componentName {
			usages = append(usages, buildUsage(t, node, componentName))
		}
		for i := 0; i < int(node.ChildCount()); i++ {
			walk(node.Child(i))
		}
	}
	walk(t.Root())

	return usages
}

// BestUsage picks the usage whose props or children contain the target
// text. With no target text the first usage wins; multiple usages matching
// the same text are ambiguous and yield nil.
func BestUsage(t *parser.Tree, usages []Usage, targetText string) *Usage {
	if len(usages) == 0 {
		return nil
	}
	target := core.Normalize(targetText)
	if target == "" {
		if len(usages) == 1 {
			return &usages[0]
		}
		return nil
	}

	var matched []*Usage
	for i := range usages {
		if usageContainsText(t, usages[i].Node, target) {
			matched = append(matched, &usages[i])
		}
	}
	switch len(matched) {
	case 1:
		return matched[0]
	case 0:
		if len(usages) == 1 {
			return &usages[0]
		}
	}
	return nil
}

func buildUsage(t *parser.Tree, node *sitter.Node, componentName string) Usage {
	u := Usage{Node: node, ComponentName: componentName}
	for _, attr := range CollectAttributes(t, node) {
		u.PropNames = append(u.PropNames, attr.Name)
		if attr.Name == "className" || attr.Name == "class" {
			u.HasInlineClassOverride = true
		}
	}
	return u
}

func usageContainsText(t *parser.Tree, node *sitter.Node, normalizedTarget string) bool {
	c := Candidate{Node: node}
	c.Attributes = CollectAttributes(t, node)
	c.Text, _ = ExtractText(t, node)

	if c.ContainsText(normalizedTarget) {
		return true
	}
	for _, attr := range c.Attributes {
		if attr.Static && core.Normalize(attr.Value) != "" {
			if containsEitherWay(core.Normalize(attr.Value), normalizedTarget) {
				return true
			}
		}
	}
	return false
}

func containsEitherWay(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
