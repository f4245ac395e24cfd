// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package tui

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/matt-FFFFFF/svgbatch/internal/progress"
)

// ItemStatus represents the current state of a file or directory in the TUI.
type ItemStatus int

const (
	StatusPending ItemStatus = iota
	StatusRunning
	StatusConverted
	StatusFailed
	StatusDirectory
)

// String returns a string representation of the item status.
func (s ItemStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusConverted:
		return "converted"
	case StatusFailed:
		return "failed"
	case StatusDirectory:
		return "directory"
	default:
		return "unknown"
	}
}

// Node is a file or directory in the displayed tree.
type Node struct {
	Path      string
	Name      string
	Status    ItemStatus
	StartTime *time.Time
	EndTime   *time.Time
	Detail    string // error text of a failed file
	Degraded  bool
	Children  []*Node
	mutex     sync.RWMutex
}

// DisplayInfo is a consistent snapshot of a Node for rendering.
type DisplayInfo struct {
	Status    ItemStatus
	Name      string
	Detail    string
	Degraded  bool
	StartTime *time.Time
	EndTime   *time.Time
}

// NewNode creates a new node.
func NewNode(path, name string, status ItemStatus) *Node {
	return &Node{
		Path:     path,
		Name:     name,
		Status:   status,
		Children: make([]*Node, 0),
	}
}

// UpdateStatus safely updates the status, stamping start and end times.
func (n *Node) UpdateStatus(status ItemStatus) {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	n.Status = status
	now := time.Now()

	switch status {
	case StatusRunning:
		if n.StartTime == nil {
			n.StartTime = &now
		}
	case StatusConverted, StatusFailed:
		if n.EndTime == nil {
			n.EndTime = &now
		}
	}
}

// UpdateDetail safely sets the error detail.
func (n *Node) UpdateDetail(detail string) {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	n.Detail = detail
}

// SetDegraded safely marks the node as converted by a fallback strategy.
func (n *Node) SetDegraded(v bool) {
	n.mutex.Lock()
	defer n.mutex.Unlock()

	n.Degraded = v
}

// GetDisplayInfo safely retrieves display information.
func (n *Node) GetDisplayInfo() DisplayInfo {
	n.mutex.RLock()
	defer n.mutex.RUnlock()

	return DisplayInfo{
		Status:    n.Status,
		Name:      n.Name,
		Detail:    n.Detail,
		Degraded:  n.Degraded,
		StartTime: n.StartTime,
		EndTime:   n.EndTime,
	}
}

// Canceller is the part of the orchestrator the TUI drives.
type Canceller interface {
	CancelAsync()
}

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	canceller Canceller
	source    string
	rootNode  *Node
	nodeMap   map[string]*Node
	viewport  viewport.Model
	spinner   spinner.Model
	width     int
	height    int

	quitting   bool
	cancelling bool
	completed  bool
	successful bool
	cancelled  bool
	converted  int
	failed     int
	message    string // last free-form progress message

	mutex  sync.RWMutex
	styles *Styles
}

// Styles contains all the styling for the TUI.
type Styles struct {
	Title      lipgloss.Style
	Pending    lipgloss.Style
	Running    lipgloss.Style
	Success    lipgloss.Style
	Failed     lipgloss.Style
	Directory  lipgloss.Style
	Output     lipgloss.Style
	Error      lipgloss.Style
	Help       lipgloss.Style
	TreeBranch lipgloss.Style
	Border     lipgloss.Style
}

// NewStyles creates the default styling for the TUI.
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginBottom(1),
		Pending: lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")),
		Running: lipgloss.NewStyle().
			Foreground(lipgloss.Color("11")).
			Bold(true),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")),
		Failed: lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")),
		Directory: lipgloss.NewStyle().
			Foreground(lipgloss.Color("12")),
		Output: lipgloss.NewStyle().
			Foreground(lipgloss.Color("7")).
			Italic(true),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Italic(true),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")).
			MarginTop(1),
		TreeBranch: lipgloss.NewStyle().
			Foreground(lipgloss.Color("8")),
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")),
	}
}

// NewModel creates a new TUI model.
func NewModel(ctx context.Context) *Model {
	return &Model{
		ctx:      ctx,
		rootNode: NewNode("", "Root", StatusDirectory),
		nodeMap:  make(map[string]*Node),
		viewport: viewport.New(defaultViewportWidth, defaultViewportHeight),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		styles:   NewStyles(),
	}
}

// SetCanceller sets what the 'c' key cancels.
func (m *Model) SetCanceller(c Canceller) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.canceller = c
}

// Completed reports whether the batch has finished.
func (m *Model) Completed() bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return m.completed
}

// getOrCreateNode returns the node for path, attaching a new one under its
// parent directory when that directory is shown, otherwise under the root.
func (m *Model) getOrCreateNode(path string, status ItemStatus) *Node {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if node, exists := m.nodeMap[path]; exists {
		return node
	}

	node := NewNode(path, filepath.Base(path), status)
	m.nodeMap[path] = node

	if parent, ok := m.nodeMap[filepath.Dir(path)]; ok {
		parent.mutex.Lock()
		parent.Children = append(parent.Children, node)
		parent.mutex.Unlock()
	} else {
		m.rootNode.Children = append(m.rootNode.Children, node)
	}

	return node
}

// processProgressEvent handles incoming progress events.
func (m *Model) processProgressEvent(event progress.Event) {
	switch event.Type {
	case progress.EventBatchStarted:
		m.mutex.Lock()
		m.source = event.Path
		m.mutex.Unlock()

	case progress.EventDirectory:
		m.getOrCreateNode(event.Path, StatusDirectory)

	case progress.EventItemStarted:
		node := m.getOrCreateNode(event.Path, StatusPending)
		node.UpdateStatus(StatusRunning)

	case progress.EventItemConverted:
		node := m.getOrCreateNode(event.Path, StatusPending)
		node.UpdateStatus(StatusConverted)
		node.SetDegraded(event.Data.Degraded)

		m.mutex.Lock()
		m.converted++
		m.mutex.Unlock()

	case progress.EventItemFailed:
		node := m.getOrCreateNode(event.Path, StatusPending)
		node.UpdateStatus(StatusFailed)

		if event.Data.Error != nil {
			node.UpdateDetail(event.Data.Error.Error())
		} else {
			node.UpdateDetail(event.Message)
		}

		m.mutex.Lock()
		m.failed++
		m.mutex.Unlock()

	case progress.EventMessage:
		m.mutex.Lock()
		m.message = event.Message
		m.mutex.Unlock()
	}
}
