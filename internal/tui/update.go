// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/matt-FFFFFF/svgbatch/internal/progress"
)

const (
	minStatusBarAvailableHeight = 10
	itemDurationRounding        = 10 * time.Millisecond
	defaultViewportWidth        = 80
	defaultViewportHeight       = 20
	minViewportWidth            = 20
	reservedLines               = 9 // title, border, status bar and help
	ellipsis                    = "…"
)

// ProgressEventMsg wraps a progress event for the tea framework.
type ProgressEventMsg struct {
	Event progress.Event
}

// BatchStartedMsg is sent when the orchestrator has started a batch.
type BatchStartedMsg struct {
	Source string
}

// BatchCompletedMsg is sent when the batch has finished, before its summary is written.
type BatchCompletedMsg struct {
	Successful bool
	Cancelled  bool
}

// Init implements bubbletea.Model.Init.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements bubbletea.Model.Update.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.mutex.Lock()
		m.width = msg.Width
		m.height = msg.Height
		m.updateViewportSize()
		m.mutex.Unlock()

		return m, nil

	case spinner.TickMsg:
		if m.Completed() {
			return m, nil
		}

		var cmd tea.Cmd

		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case ProgressEventMsg:
		m.processProgressEvent(msg.Event)
		return m, nil

	case BatchStartedMsg:
		m.mutex.Lock()
		m.source = msg.Source
		m.mutex.Unlock()

		return m, nil

	case BatchCompletedMsg:
		m.mutex.Lock()
		m.completed = true
		m.successful = msg.Successful
		m.cancelled = msg.Cancelled
		m.mutex.Unlock()

		return m, nil
	}

	return m, nil
}

// handleKeyPress processes keyboard input.
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "c":
		if !m.completed && !m.cancelling && m.canceller != nil {
			m.cancelling = true
			m.canceller.CancelAsync()
		}

		return m, nil
	}

	var cmd tea.Cmd

	m.viewport, cmd = m.viewport.Update(msg)

	return m, cmd
}

// updateViewportSize sizes the viewport from the window. Callers hold the lock.
func (m *Model) updateViewportSize() {
	w := m.width - 2 //nolint:mnd // border
	if w < minViewportWidth {
		w = minViewportWidth
	}

	h := m.height - reservedLines
	if h < 1 {
		h = 1
	}

	m.viewport.Width = w
	m.viewport.Height = h
}

// View implements bubbletea.Model.View.
func (m *Model) View() string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	if m.quitting {
		return "Shutting down...\n"
	}

	var content strings.Builder

	m.renderTree(&content, m.rootNode, "", true)

	if m.completed {
		content.WriteString("\n")

		switch {
		case m.cancelled:
			content.WriteString(m.styles.Running.Render("⏹  Conversion cancelled"))
		case m.successful:
			content.WriteString(m.styles.Success.Render("✅ Conversion completed successfully"))
		default:
			content.WriteString(m.styles.Failed.Render("⚠️  Conversion completed with errors"))
		}

		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())

	var view strings.Builder

	title := "🖼  svgbatch"
	if m.source != "" {
		title += " " + m.source
	}

	view.WriteString(m.styles.Title.Render(title))
	view.WriteString("\n")
	view.WriteString(m.styles.Border.Render(m.viewport.View()))

	if m.height > minStatusBarAvailableHeight || m.height == 0 {
		view.WriteString("\n")
		view.WriteString(m.renderStatusBar())
		view.WriteString("\n")

		helpText := "↑/↓ to scroll, 'c' to cancel, 'q' to quit"
		if m.completed {
			helpText = "↑/↓ to scroll, 'q' to quit and print the summary"
		}

		view.WriteString(m.styles.Help.Render(helpText))
	}

	return view.String()
}

func (m *Model) renderStatusBar() string {
	counts := fmt.Sprintf("Converted %d • Failed %d", m.converted, m.failed)

	switch {
	case m.completed:
		return counts
	case m.cancelling:
		return m.spinner.View() + " Cancelling after the current file • " + counts
	case m.message != "":
		return m.spinner.View() + " " + counts + " • " + m.styles.Output.Render(m.message)
	default:
		return m.spinner.View() + " " + counts
	}
}

// renderTree recursively renders the tree below node. The root itself is not drawn.
func (m *Model) renderTree(b *strings.Builder, node *Node, prefix string, isLast bool) {
	if node == nil {
		return
	}

	node.mutex.RLock()
	children := append([]*Node(nil), node.Children...)
	node.mutex.RUnlock()

	if node == m.rootNode {
		for i, child := range children {
			m.renderTree(b, child, "", i == len(children)-1)
		}

		return
	}

	m.renderNode(b, node, prefix, isLast)

	childPrefix := prefix
	if isLast {
		childPrefix += "    "
	} else {
		childPrefix += "│   "
	}

	for i, child := range children {
		m.renderTree(b, child, childPrefix, i == len(children)-1)
	}
}

// renderNode renders a single line: icon, name, timing and any error.
func (m *Model) renderNode(b *strings.Builder, node *Node, prefix string, isLast bool) {
	info := node.GetDisplayInfo()

	connector := "├── "
	if isLast {
		connector = "└── "
	}

	var icon, name string

	switch info.Status {
	case StatusPending:
		icon, name = "⏳", m.styles.Pending.Render(info.Name)
	case StatusRunning:
		icon, name = "⚡", m.styles.Running.Render(info.Name)
	case StatusConverted:
		icon, name = "✅", m.styles.Success.Render(info.Name)
	case StatusFailed:
		icon, name = "❌", m.styles.Failed.Render(info.Name)
	case StatusDirectory:
		icon, name = "📁", m.styles.Directory.Render(info.Name)
	default:
		icon, name = "❓", m.styles.Pending.Render(info.Name)
	}

	left := fmt.Sprintf("%s %s", icon, name)

	if info.StartTime != nil && info.EndTime != nil {
		left += m.styles.Output.Render(fmt.Sprintf(" (%v)", info.EndTime.Sub(*info.StartTime).Round(itemDurationRounding)))
	}

	if info.Degraded {
		left += m.styles.Output.Render(" [fallback]")
	}

	var right string
	if info.Status == StatusFailed && info.Detail != "" {
		right = m.styles.Error.Render(truncate("Error: "+info.Detail, m.viewport.Width/2)) //nolint:mnd
	}

	b.WriteString(m.styles.TreeBranch.Render(prefix + connector))
	b.WriteString(left)

	if right != "" {
		b.WriteString("  ")
		b.WriteString(right)
	}

	b.WriteString("\n")
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}

	if width <= 1 {
		return string(r[:width])
	}

	return string(r[:width-1]) + ellipsis
}
