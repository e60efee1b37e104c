// Copyright 2026 The Citydesk Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// markdownParserInstance is initialized once and reused. The parser
// configuration never changes and the goldmark Parser is safe to
// share — actual parsing creates per-call state via Parse(reader).
var (
	markdownParserInstance goldmark.Markdown
	markdownParserOnce     sync.Once
)

func getMarkdownParser() goldmark.Markdown {
	markdownParserOnce.Do(func() {
		markdownParserInstance = goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		)
	})
	return markdownParserInstance
}

// RenderMarkdown parses markdown text and renders it as styled
// terminal output wrapped to width. Soft line breaks (single newlines
// within paragraphs) become spaces so hard-wrapped source reflows at
// any terminal width. Record descriptions and classification
// acknowledgment/suggestion text are rendered through here.
func RenderMarkdown(input string, theme Theme, width int) string {
	if input == "" {
		return ""
	}
	source := []byte(input)
	document := getMarkdownParser().Parser().Parse(text.NewReader(source))

	// Force the ANSI256 profile: this output is always for terminal
	// display inside the TUI, so auto-detection (which sees no TTY in
	// tests) must not strip the colors. SetColorProfile is needed
	// because the lipgloss renderer re-detects from the environment
	// unless the profile is set explicitly.
	lipRenderer := lipgloss.NewRenderer(os.Stderr, termenv.WithProfile(termenv.ANSI256))
	lipRenderer.SetColorProfile(termenv.ANSI256)

	renderer := &markdownRenderer{
		source:      source,
		theme:       theme,
		width:       width,
		lipRenderer: lipRenderer,
	}
	ast.Walk(document, renderer.walk)
	return strings.TrimRight(renderer.output.String(), "\n")
}

// markdownRenderer walks a goldmark AST and produces styled terminal
// text. It uses a direct ast.Walk rather than goldmark's renderer
// interface because terminal rendering needs accumulate-then-wrap
// semantics: paragraph inline content collects in a buffer and gets
// word-wrapped as a unit when the paragraph closes.
type markdownRenderer struct {
	source []byte
	theme  Theme
	width  int

	output strings.Builder

	// Inline accumulator, flushed with word-wrap when the containing
	// block closes.
	inline strings.Builder

	// Prefix applied to every emitted line (blockquote bars, list
	// indentation). pendingBullet replaces it for the very next line.
	linePrefix    string
	pendingBullet string

	// Counters rather than booleans so nested emphasis unwinds
	// correctly.
	boldCount   int
	italicCount int

	listStack []listState

	lipRenderer *lipgloss.Renderer
}

type listState struct {
	ordered bool
	counter int
}

func (renderer *markdownRenderer) newStyle() lipgloss.Style {
	return renderer.lipRenderer.NewStyle()
}

func (renderer *markdownRenderer) currentWidth() int {
	width := renderer.width - ansi.StringWidth(renderer.linePrefix)
	if width < 10 {
		width = 10
	}
	return width
}

// flushInline word-wraps the accumulated inline content, applies line
// prefixes, and writes it out followed by a blank line.
func (renderer *markdownRenderer) flushInline() {
	content := renderer.inline.String()
	renderer.inline.Reset()
	if content == "" {
		return
	}

	wrapped := ansi.Wrap(content, renderer.currentWidth(), " ,.;-+|")
	for index, line := range strings.Split(wrapped, "\n") {
		if index == 0 && renderer.pendingBullet != "" {
			renderer.output.WriteString(renderer.pendingBullet)
			renderer.pendingBullet = ""
		} else {
			renderer.output.WriteString(renderer.linePrefix)
		}
		renderer.output.WriteString(line)
		renderer.output.WriteString("\n")
	}
	if len(renderer.listStack) == 0 {
		renderer.output.WriteString("\n")
	}
}

func (renderer *markdownRenderer) styledText(content string) string {
	style := renderer.newStyle().Foreground(renderer.theme.NormalText)
	if renderer.boldCount > 0 {
		style = style.Bold(true)
	}
	if renderer.italicCount > 0 {
		style = style.Italic(true)
	}
	return style.Render(content)
}

func (renderer *markdownRenderer) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch typed := node.(type) {

	case *ast.Document:

	case *ast.Paragraph, *ast.TextBlock:
		if entering {
			renderer.inline.Reset()
		} else {
			renderer.flushInline()
		}

	case *ast.Heading:
		if entering {
			renderer.inline.Reset()
		} else {
			heading := renderer.inline.String()
			renderer.inline.Reset()
			style := renderer.newStyle().
				Foreground(renderer.theme.HeaderForeground).
				Bold(true)
			renderer.output.WriteString(renderer.linePrefix)
			renderer.output.WriteString(style.Render(heading))
			renderer.output.WriteString("\n\n")
		}

	case *ast.FencedCodeBlock:
		if entering {
			renderer.renderCodeLines(typed.Lines())
			return ast.WalkSkipChildren, nil
		}

	case *ast.CodeBlock:
		if entering {
			renderer.renderCodeLines(typed.Lines())
			return ast.WalkSkipChildren, nil
		}

	case *ast.Blockquote:
		bar := renderer.newStyle().Foreground(renderer.theme.BorderColor).Render("│ ")
		if entering {
			renderer.linePrefix += bar
		} else {
			renderer.linePrefix = strings.TrimSuffix(renderer.linePrefix, bar)
			renderer.output.WriteString("\n")
		}

	case *ast.List:
		if entering {
			renderer.listStack = append(renderer.listStack, listState{
				ordered: typed.IsOrdered(),
				counter: typed.Start,
			})
		} else {
			renderer.listStack = renderer.listStack[:len(renderer.listStack)-1]
			if len(renderer.listStack) == 0 {
				renderer.output.WriteString("\n")
			}
		}

	case *ast.ListItem:
		if entering {
			state := &renderer.listStack[len(renderer.listStack)-1]
			bullet := "• "
			if state.ordered {
				bullet = fmt.Sprintf("%d. ", state.counter)
				state.counter++
			}
			renderer.pendingBullet = renderer.linePrefix + bullet
			renderer.linePrefix += strings.Repeat(" ", ansi.StringWidth(bullet))
		} else {
			// Undo the alignment indent added on entry.
			state := renderer.listStack[len(renderer.listStack)-1]
			indent := 2
			if state.ordered {
				indent = len(fmt.Sprintf("%d. ", state.counter-1))
			}
			renderer.linePrefix = renderer.linePrefix[:len(renderer.linePrefix)-indent]
			renderer.pendingBullet = ""
		}

	case *ast.ThematicBreak:
		if entering {
			rule := strings.Repeat("─", renderer.currentWidth())
			renderer.output.WriteString(renderer.linePrefix)
			renderer.output.WriteString(renderer.newStyle().Foreground(renderer.theme.BorderColor).Render(rule))
			renderer.output.WriteString("\n\n")
		}

	case *ast.Text:
		if entering {
			renderer.inline.WriteString(renderer.styledText(string(typed.Segment.Value(renderer.source))))
			if typed.SoftLineBreak() {
				renderer.inline.WriteString(" ")
			} else if typed.HardLineBreak() {
				renderer.inline.WriteString("\n")
			}
		}

	case *ast.String:
		if entering {
			renderer.inline.WriteString(renderer.styledText(string(typed.Value)))
		}

	case *ast.Emphasis:
		if typed.Level >= 2 {
			if entering {
				renderer.boldCount++
			} else {
				renderer.boldCount--
			}
		} else {
			if entering {
				renderer.italicCount++
			} else {
				renderer.italicCount--
			}
		}

	case *ast.CodeSpan:
		if entering {
			var code strings.Builder
			for child := node.FirstChild(); child != nil; child = child.NextSibling() {
				if textNode, ok := child.(*ast.Text); ok {
					code.Write(textNode.Segment.Value(renderer.source))
				}
			}
			renderer.inline.WriteString(renderer.newStyle().
				Foreground(renderer.theme.FaintText).
				Render(code.String()))
			return ast.WalkSkipChildren, nil
		}

	case *ast.Link:
		if !entering {
			destination := string(typed.Destination)
			renderer.inline.WriteString(renderer.newStyle().
				Foreground(renderer.theme.LinkForeground).
				Render(" ("+destination+")"))
		}

	case *ast.AutoLink:
		if entering {
			renderer.inline.WriteString(renderer.newStyle().
				Foreground(renderer.theme.LinkForeground).
				Render(string(typed.URL(renderer.source))))
		}
	}

	return ast.WalkContinue, nil
}

// renderCodeLines emits a code block verbatim, faint, indented two
// columns. No syntax highlighting: the text here is complaint prose
// and resolution notes, not source code.
func (renderer *markdownRenderer) renderCodeLines(lines *text.Segments) {
	style := renderer.newStyle().Foreground(renderer.theme.FaintText)
	for index := 0; index < lines.Len(); index++ {
		segment := lines.At(index)
		line := strings.TrimRight(string(segment.Value(renderer.source)), "\n")
		renderer.output.WriteString(renderer.linePrefix)
		renderer.output.WriteString("  ")
		renderer.output.WriteString(style.Render(line))
		renderer.output.WriteString("\n")
	}
	renderer.output.WriteString("\n")
}
