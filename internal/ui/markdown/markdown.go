// Package markdown renders problem statements and tutor replies as
// ANSI-styled terminal text.
package markdown

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"

	"github.com/jammy0903/C-ode-to-you-sub001/internal/ui/theme"
)

var (
	h1Style     = lipgloss.NewStyle().Bold(true).Foreground(theme.Primary)
	h2Style     = lipgloss.NewStyle().Bold(true).Foreground(theme.Secondary)
	hnStyle     = lipgloss.NewStyle().Bold(true).Foreground(theme.Text)
	codeStyle   = lipgloss.NewStyle().Foreground(theme.Accent)
	quoteStyle  = lipgloss.NewStyle().Foreground(theme.TextDim)
	linkStyle   = lipgloss.NewStyle().Foreground(theme.Primary).Underline(true)
	urlStyle    = lipgloss.NewStyle().Foreground(theme.TextDim)
	strongStyle = lipgloss.NewStyle().Bold(true)
	emphStyle   = lipgloss.NewStyle().Italic(true)
)

const mdExtensions = parser.Tables | parser.FencedCode | parser.Autolink |
	parser.Strikethrough | parser.SpaceHeadings | parser.HeadingIDs |
	parser.NoIntraEmphasis | parser.OrderedListStart

// Renderer converts Markdown to terminal text at a fixed width.
type Renderer struct {
	width int
}

// NewRenderer creates a renderer wrapping at the given width.
func NewRenderer(width int) *Renderer {
	if width < 20 {
		width = 20
	}
	return &Renderer{width: width}
}

// Render converts one Markdown document. The result ends without a
// trailing blank line.
func (r *Renderer) Render(source string) string {
	doc := parser.NewWithExtensions(mdExtensions).Parse([]byte(source))

	var blocks []string
	for _, child := range doc.GetChildren() {
		if s := r.block(child, 0); s != "" {
			blocks = append(blocks, s)
		}
	}
	return strings.Join(blocks, "\n\n")
}

// block renders one block-level node. depth tracks list nesting.
func (r *Renderer) block(node ast.Node, depth int) string {
	switch n := node.(type) {
	case *ast.Heading:
		style := hnStyle
		switch n.Level {
		case 1:
			style = h1Style
		case 2:
			style = h2Style
		}
		return style.Render(r.inlineChildren(n))

	case *ast.Paragraph:
		return r.wrap(r.inlineChildren(n))

	case *ast.CodeBlock:
		return r.codeBlock(n)

	case *ast.List:
		return r.list(n, depth)

	case *ast.BlockQuote:
		var inner []string
		for _, c := range n.GetChildren() {
			if s := r.block(c, depth); s != "" {
				inner = append(inner, s)
			}
		}
		var out []string
		for _, line := range strings.Split(strings.Join(inner, "\n"), "\n") {
			out = append(out, quoteStyle.Render("│ ")+line)
		}
		return strings.Join(out, "\n")

	case *ast.HorizontalRule:
		return quoteStyle.Render(strings.Repeat("─", r.width))

	default:
		// Unknown containers flatten to their children's blocks.
		if node.AsContainer() != nil {
			var inner []string
			for _, c := range node.GetChildren() {
				if s := r.block(c, depth); s != "" {
					inner = append(inner, s)
				}
			}
			return strings.Join(inner, "\n")
		}
		if leaf := node.AsLeaf(); leaf != nil {
			return r.wrap(string(leaf.Literal))
		}
		return ""
	}
}

func (r *Renderer) codeBlock(n *ast.CodeBlock) string {
	lang := string(n.Info)
	code := strings.TrimRight(string(n.Literal), "\n")

	var out []string
	for _, line := range strings.Split(Highlight(code, lang), "\n") {
		out = append(out, "  "+line)
	}
	return strings.Join(out, "\n")
}

func (r *Renderer) list(n *ast.List, depth int) string {
	ordered := n.ListFlags&ast.ListTypeOrdered != 0
	indent := strings.Repeat("  ", depth)

	var items []string
	num := n.Start
	if num == 0 {
		num = 1
	}
	for _, child := range n.GetChildren() {
		item, ok := child.(*ast.ListItem)
		if !ok {
			continue
		}

		marker := "• "
		if ordered {
			marker = fmt.Sprintf("%d. ", num)
			num++
		}

		var parts []string
		for _, c := range item.GetChildren() {
			switch cc := c.(type) {
			case *ast.List:
				parts = append(parts, r.block(cc, depth+1))
			default:
				parts = append(parts, indent+marker+r.inlineChildren(c))
			}
		}
		items = append(items, strings.Join(parts, "\n"))
	}
	return strings.Join(items, "\n")
}

// inlineChildren renders a node's inline children into one styled string.
func (r *Renderer) inlineChildren(node ast.Node) string {
	var b strings.Builder
	for _, c := range node.GetChildren() {
		b.WriteString(r.inline(c))
	}
	return b.String()
}

func (r *Renderer) inline(node ast.Node) string {
	switch n := node.(type) {
	case *ast.Text:
		return string(n.Literal)
	case *ast.Code:
		return codeStyle.Render(string(n.Literal))
	case *ast.Strong:
		return strongStyle.Render(r.inlineChildren(n))
	case *ast.Emph:
		return emphStyle.Render(r.inlineChildren(n))
	case *ast.Link:
		label := r.inlineChildren(n)
		dest := string(n.Destination)
		if label == "" || label == dest {
			return linkStyle.Render(dest)
		}
		return linkStyle.Render(label) + urlStyle.Render(" ("+dest+")")
	case *ast.Softbreak:
		return " "
	case *ast.Hardbreak:
		return "\n"
	default:
		if node.AsContainer() != nil {
			return r.inlineChildren(node)
		}
		if leaf := node.AsLeaf(); leaf != nil {
			return string(leaf.Literal)
		}
		return ""
	}
}

func (r *Renderer) wrap(s string) string {
	return lipgloss.NewStyle().Width(r.width).Render(s)
}
