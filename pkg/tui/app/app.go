// Package teaui hosts the Bubble Tea program for the standup board.
package teaui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/standup/pkg/app"
	"tableflip.dev/standup/pkg/board"
	"tableflip.dev/standup/pkg/glyph"
	"tableflip.dev/standup/pkg/item"
	"tableflip.dev/standup/pkg/stage"
	"tableflip.dev/standup/pkg/store"
	"tableflip.dev/standup/pkg/tui/components/bottombar"
	"tableflip.dev/standup/pkg/tui/components/columns"
	"tableflip.dev/standup/pkg/tui/components/help"
	"tableflip.dev/standup/pkg/tui/events"
	"tableflip.dev/standup/pkg/tui/theme"
)

// Model states and actions
type mode int

const (
	modeNormal mode = iota
	modeInsert
	modeCommand
	modeHelp
	modeConfirm
)

type action int

const (
	actionNone action = iota
	actionAdd
	actionEdit
)

type confirmAction int

const (
	confirmNone confirmAction = iota
	confirmDeleteItem
	confirmDeleteStage
)

const componentID = events.ComponentID("board")

const ddWindow = 600 * time.Millisecond

var commandDefinitions = []bottombar.CommandOption{
	{Name: "q", Description: "Quit application"},
	{Name: "quit", Description: "Quit application"},
	{Name: "exit", Description: "Quit application"},
	{Name: "new-stage", Description: "Add a stage to the board"},
	{Name: "limit", Description: "Set the WIP limit for the current stage"},
	{Name: "rename-stage", Description: "Rename the current stage"},
	{Name: "delete-stage", Description: "Remove the current stage (must be empty)"},
	{Name: "refresh", Description: "Reload the board from storage"},
	{Name: "help", Description: "Show help guide"},
}

// dispatcher buffers the commands the engine emits during a commit so the
// model can run them in a single tea.Cmd once the engine returns.
type dispatcher struct {
	moves    []moveCommand
	reorders []reorderCommand
}

type moveCommand struct {
	itemID string
	stage  string
}

type reorderCommand struct {
	stage   string
	updates []board.PositionUpdate
}

func (d *dispatcher) RequestStageChange(itemID, stage string) {
	d.moves = append(d.moves, moveCommand{itemID: itemID, stage: stage})
}

func (d *dispatcher) RequestPositionUpdate(stage string, updates []board.PositionUpdate) {
	d.reorders = append(d.reorders, reorderCommand{stage: stage, updates: updates})
}

func (d *dispatcher) drain() ([]moveCommand, []reorderCommand) {
	moves, reorders := d.moves, d.reorders
	d.moves, d.reorders = nil, nil
	return moves, reorders
}

type errMsg struct{ err error }

type boardLoadedMsg struct {
	metas []stage.Meta
	items []*item.Item
}

type watchStartedMsg struct {
	ch     <-chan store.Event
	cancel context.CancelFunc
	err    error
}

type watchEventMsg struct{ event store.Event }

type watchStoppedMsg struct{}

// Model contains UI state
type Model struct {
	svc    *app.Service
	ctx    context.Context
	cancel context.CancelFunc
	mode   mode
	action action

	engine   *board.Engine
	dispatch *dispatcher
	metas    []stage.Meta
	cursor   columns.Cursor

	// hoverID is the last target handed to DragOver; Drop reuses it so the
	// committed target always matches the rendered indicator.
	hoverID string

	input        textinput.Model
	editTargetID string

	awaitingDD bool
	lastDTime  time.Time

	confirmAction   confirmAction
	confirmTargetID string

	commandSelectActive  bool
	commandOriginalInput string

	termWidth       int
	termHeight      int
	verticalReserve int
	overlayReserve  int

	watchCh     <-chan store.Event
	watchCancel context.CancelFunc

	board    *columns.Model
	helpView *help.Model
	bottom   bottombar.Model

	theme theme.Theme
}

// New creates a new UI model backed by the Service.
func New(svc *app.Service) *Model {
	ti := textinput.New()
	ti.Placeholder = "Type here"
	ti.CharLimit = 256
	ti.Focus()
	ti.Prompt = ""
	ti.VirtualCursor = true
	ti.Styles.Cursor.Color = lipgloss.Color("212")
	ti.Styles.Cursor.Shape = tea.CursorBlock
	ti.Styles.Cursor.Blink = true

	th := theme.Default()
	dispatch := &dispatcher{}
	ctx, cancel := context.WithCancel(context.Background())

	m := &Model{
		svc:      svc,
		ctx:      ctx,
		cancel:   cancel,
		mode:     modeNormal,
		action:   actionNone,
		engine:   board.New(dispatch),
		dispatch: dispatch,
		input:    ti,
		board:    columns.New(th.Board),
		helpView: help.New(th.Modal, 72, 20),
		bottom:   bottombar.New(th.Footer),
		theme:    th,
	}
	m.bottom.SetMode(bottombar.ModePassive)
	m.updateBottomContext()
	m.applyReserve()
	return m
}

// Init loads initial data
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadBoard(), startWatchCmd(m.ctx, m.svc))
}

func (m *Model) loadBoard() tea.Cmd {
	if m.svc == nil {
		return nil
	}
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		metas, err := svc.Stages(ctx)
		if err != nil {
			return errMsg{err}
		}
		items, err := svc.Items(ctx)
		if err != nil {
			return errMsg{err}
		}
		return boardLoadedMsg{metas: metas, items: items}
	}
}

func startWatchCmd(parent context.Context, svc *app.Service) tea.Cmd {
	if svc == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(parent)
		ch, err := svc.Watch(ctx)
		if err != nil {
			cancel()
			return watchStartedMsg{err: err}
		}
		return watchStartedMsg{ch: ch, cancel: cancel}
	}
}

func waitForWatch(ch <-chan store.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return watchStoppedMsg{}
		}
		return watchEventMsg{event: ev}
	}
}

func (m *Model) stopWatch() {
	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
	}
	m.watchCh = nil
}

// Update routes messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
		m.applySizes()
		return m, nil

	case errMsg:
		m.setStatus("ERR: " + msg.err.Error())
		return m, nil

	case boardLoadedMsg:
		m.metas = msg.metas
		m.engine.SetStages(stage.Names(msg.metas))
		m.engine.ApplySnapshot(msg.items)
		m.clampCursor()
		return m, nil

	case events.ItemChangeMsg:
		m.setStatus(itemChangeStatus(msg))
		return m, m.loadBoard()

	case events.StageChangeMsg:
		m.setStatus(stageChangeStatus(msg))
		return m, m.loadBoard()

	case watchStartedMsg:
		if msg.err != nil {
			m.setStatus("ERR: " + msg.err.Error())
			return m, nil
		}
		m.stopWatch()
		m.watchCh = msg.ch
		m.watchCancel = msg.cancel
		m.setStatus("Watching for changes")
		return m, waitForWatch(m.watchCh)

	case watchEventMsg:
		cmds = append(cmds, m.loadBoard())
		if m.watchCh != nil {
			cmds = append(cmds, waitForWatch(m.watchCh))
		}
		return m, tea.Batch(cmds...)

	case watchStoppedMsg:
		m.stopWatch()
		return m, startWatchCmd(m.ctx, m.svc)

	case tea.KeyPressMsg:
		if m.handleKeyPress(msg, &cmds) {
			return m, tea.Batch(cmds...)
		}
	}

	// Non-key traffic (cursor blinks, viewport motion) still reaches the
	// focused widget.
	switch m.mode {
	case modeInsert, modeConfirm:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	case modeCommand:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		m.bottom.UpdateCommandPreview(m.input.View())
	case modeHelp:
		var cmd tea.Cmd
		m.helpView, cmd = m.helpView.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKeyPress(msg tea.KeyPressMsg, cmds *[]tea.Cmd) bool {
	if msg.String() == "ctrl+c" {
		*cmds = append(*cmds, m.quit())
		return true
	}
	switch m.mode {
	case modeInsert:
		return m.handleInsertKey(msg, cmds)
	case modeCommand:
		return m.handleCommandKey(msg, cmds)
	case modeConfirm:
		return m.handleConfirmKey(msg, cmds)
	case modeHelp:
		return m.handleHelpKey(msg, cmds)
	default:
		return m.handleNormalKey(msg, cmds)
	}
}

func (m *Model) handleNormalKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) bool {
	key := msg.String()
	if key != "d" {
		m.awaitingDD = false
	}

	if m.engine.Dragging() {
		switch key {
		case "j", "down":
			m.hoverMove(1)
		case "k", "up":
			m.hoverMove(-1)
		case "h", "left":
			m.hoverStage(-1)
		case "l", "right":
			m.hoverStage(1)
		case "space", "enter":
			m.finishDrop(cmds)
		case "esc":
			m.cancelDrag(cmds)
		}
		return true
	}

	switch key {
	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)
	case "h", "left":
		m.moveStage(-1)
	case "l", "right":
		m.moveStage(1)
	case "space", "enter":
		m.startDrag()
	case "a":
		m.enterInsertMode(actionAdd, "", cmds)
	case "e":
		m.startEdit(cmds)
	case "d":
		if m.awaitingDD && time.Since(m.lastDTime) < ddWindow {
			m.awaitingDD = false
			m.startDeleteConfirm(cmds)
		} else {
			m.awaitingDD = true
			m.lastDTime = time.Now()
		}
	case "b":
		m.cycleKind(cmds)
	case "*":
		m.toggleFlag(glyph.Priority, cmds)
	case "!":
		m.toggleFlag(glyph.Blocked, cmds)
	case "r":
		m.setStatus("Refreshing")
		if cmd := m.loadBoard(); cmd != nil {
			*cmds = append(*cmds, cmd)
		}
	case ":":
		m.enterCommandMode(cmds)
	case "?":
		m.enterHelpMode()
	case "q":
		*cmds = append(*cmds, m.quit())
	}
	return true
}

func (m *Model) handleInsertKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) bool {
	switch msg.String() {
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		act := m.action
		target := m.editTargetID
		m.exitInsertMode()
		if value == "" {
			m.setStatus("Nothing to do")
			return true
		}
		switch act {
		case actionAdd:
			if cmd := m.applyAdd(value); cmd != nil {
				*cmds = append(*cmds, cmd)
			}
		case actionEdit:
			if cmd := m.applyEdit(target, value); cmd != nil {
				*cmds = append(*cmds, cmd)
			}
		}
		return true
	case "esc":
		m.exitInsertMode()
		m.setStatus("Cancelled")
		return true
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if cmd != nil {
			*cmds = append(*cmds, cmd)
		}
		return true
	}
}

func (m *Model) handleCommandKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) bool {
	switch msg.String() {
	case "tab", "down":
		m.stepCommandSuggestion(1)
		return true
	case "shift+tab", "up":
		m.stepCommandSuggestion(-1)
		return true
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		m.executeCommand(value, cmds)
		return true
	case "esc":
		if m.commandSelectActive {
			m.input.SetValue(m.commandOriginalInput)
			m.input.CursorEnd()
			m.commandSelectActive = false
			m.bottom.ClearSuggestion()
			m.bottom.UpdateCommandInput(m.input.Value(), m.input.View())
			return true
		}
		m.exitCommandMode()
		m.setStatus("Cancelled")
		return true
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if cmd != nil {
			*cmds = append(*cmds, cmd)
		}
		m.commandSelectActive = false
		m.bottom.ClearSuggestion()
		m.bottom.UpdateCommandInput(m.input.Value(), m.input.View())
		m.applyReserve()
		return true
	}
}

func (m *Model) handleConfirmKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) bool {
	switch msg.String() {
	case "enter":
		value := strings.ToLower(strings.TrimSpace(m.input.Value()))
		if value != "yes" {
			m.input.Reset()
			m.setStatus("Type yes to confirm")
			return true
		}
		act, target := m.confirmAction, m.confirmTargetID
		m.cancelConfirm()
		switch act {
		case confirmDeleteItem:
			if cmd := m.applyDelete(target); cmd != nil {
				*cmds = append(*cmds, cmd)
			}
		case confirmDeleteStage:
			if cmd := m.applyRemoveStage(target); cmd != nil {
				*cmds = append(*cmds, cmd)
			}
		}
		return true
	case "esc":
		m.cancelConfirm()
		m.setStatus("Kept")
		return true
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if cmd != nil {
			*cmds = append(*cmds, cmd)
		}
		return true
	}
}

func (m *Model) handleHelpKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) bool {
	switch msg.String() {
	case "esc", "q", "?":
		m.setMode(modeNormal)
		m.setStatus("")
		return true
	default:
		var cmd tea.Cmd
		m.helpView, cmd = m.helpView.Update(msg)
		if cmd != nil {
			*cmds = append(*cmds, cmd)
		}
		return true
	}
}

// Cursor movement

func (m *Model) currentStageName() string {
	if len(m.metas) == 0 {
		return ""
	}
	i := m.cursor.Stage
	if i < 0 || i >= len(m.metas) {
		i = 0
	}
	return m.metas[i].Name
}

func (m *Model) currentItem() *item.Item {
	items := m.engine.ItemsIn(m.currentStageName())
	if m.cursor.Item < 0 || m.cursor.Item >= len(items) {
		return nil
	}
	return items[m.cursor.Item]
}

func (m *Model) findItem(id string) *item.Item {
	for _, it := range m.engine.Items() {
		if it.ID == id {
			return it
		}
	}
	return nil
}

func (m *Model) moveCursor(delta int) {
	items := m.engine.ItemsIn(m.currentStageName())
	if len(items) == 0 {
		m.cursor.Item = 0
		return
	}
	next := m.cursor.Item + delta
	if next < 0 {
		next = 0
	}
	if next >= len(items) {
		next = len(items) - 1
	}
	m.cursor.Item = next
}

func (m *Model) moveStage(delta int) {
	if len(m.metas) == 0 {
		return
	}
	next := m.cursor.Stage + delta
	if next < 0 {
		next = 0
	}
	if next >= len(m.metas) {
		next = len(m.metas) - 1
	}
	if next == m.cursor.Stage {
		return
	}
	m.cursor.Stage = next
	m.clampCursor()
}

func (m *Model) clampCursor() {
	if len(m.metas) == 0 {
		m.cursor = columns.Cursor{}
		return
	}
	if m.cursor.Stage < 0 {
		m.cursor.Stage = 0
	}
	if m.cursor.Stage >= len(m.metas) {
		m.cursor.Stage = len(m.metas) - 1
	}
	items := m.engine.ItemsIn(m.metas[m.cursor.Stage].Name)
	if m.cursor.Item < 0 {
		m.cursor.Item = 0
	}
	if m.cursor.Item >= len(items) {
		if len(items) == 0 {
			m.cursor.Item = 0
		} else {
			m.cursor.Item = len(items) - 1
		}
	}
}

func (m *Model) focusItem(id string) {
	for si, meta := range m.metas {
		for ii, it := range m.engine.ItemsIn(meta.Name) {
			if it.ID == id {
				m.cursor = columns.Cursor{Stage: si, Item: ii}
				return
			}
		}
	}
}

// Dragging

func (m *Model) startDrag() {
	it := m.currentItem()
	if it == nil {
		m.setStatus("Nothing to grab")
		return
	}
	if !m.engine.DragStart(it.ID) {
		return
	}
	m.hoverID = it.ID
	m.setStatus("Dragging: " + it.Title)
	m.updateBottomContext()
}

func (m *Model) hoverMove(delta int) {
	m.moveCursor(delta)
	target := m.currentStageName()
	if it := m.currentItem(); it != nil {
		target = it.ID
	}
	m.hoverID = target
	m.engine.DragOver(target)
}

// hoverStage hovers the neighbouring column; the card would land at its end.
func (m *Model) hoverStage(delta int) {
	if len(m.metas) == 0 {
		return
	}
	next := m.cursor.Stage + delta
	if next < 0 || next >= len(m.metas) {
		return
	}
	m.cursor.Stage = next
	name := m.metas[next].Name
	m.hoverID = name
	m.engine.DragOver(name)
	items := m.engine.ItemsIn(name)
	if len(items) > 0 {
		m.cursor.Item = len(items) - 1
	} else {
		m.cursor.Item = 0
	}
}

func (m *Model) finishDrop(cmds *[]tea.Cmd) {
	dragged := m.findItem(m.engine.DraggedID())
	if !m.engine.Drop(m.hoverID) {
		m.hoverID = ""
		m.setStatus("Nothing moved")
		m.updateBottomContext()
		m.clampCursor()
		if cmd := m.loadBoard(); cmd != nil {
			*cmds = append(*cmds, cmd)
		}
		return
	}
	m.hoverID = ""
	m.updateBottomContext()

	landed := ""
	var ref events.ItemRef
	if dragged != nil {
		landed = dragged.Stage
		ref = events.RefFromItem(dragged)
		m.focusItem(dragged.ID)
	}
	m.clampCursor()

	moves, reorders := m.dispatch.drain()
	if cmd := m.runBoardCommands(moves, reorders, landed, ref); cmd != nil {
		*cmds = append(*cmds, cmd)
	}
}

func (m *Model) cancelDrag(cmds *[]tea.Cmd) {
	m.engine.Cancel()
	m.hoverID = ""
	m.setStatus("Drag cancelled")
	m.updateBottomContext()
	m.clampCursor()
	if cmd := m.loadBoard(); cmd != nil {
		*cmds = append(*cmds, cmd)
	}
}

// runBoardCommands persists a committed drop. The engine never waits on the
// result; failures come back as errMsg and land on the status bar.
func (m *Model) runBoardCommands(moves []moveCommand, reorders []reorderCommand, landed string, ref events.ItemRef) tea.Cmd {
	if m.svc == nil || (len(moves) == 0 && len(reorders) == 0) {
		return nil
	}
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		for _, mv := range moves {
			if _, err := svc.MoveItem(ctx, mv.itemID, mv.stage); err != nil {
				return errMsg{err}
			}
		}
		for _, ro := range reorders {
			if err := svc.Reorder(ctx, ro.updates); err != nil {
				return errMsg{err}
			}
		}
		return events.ItemChangeMsg{
			Component: componentID,
			Action:    events.ChangeMove,
			Stage:     landed,
			Item:      ref,
		}
	}
}

// Insert mode

func (m *Model) enterInsertMode(act action, prefill string, cmds *[]tea.Cmd) {
	if act == actionAdd && m.currentStageName() == "" {
		m.setStatus("No stage to add to")
		return
	}
	m.action = act
	m.input.Reset()
	if act == actionAdd {
		m.input.Placeholder = "title"
		m.bottom.SetPendingKind(glyph.Task.String() + " task")
	} else {
		m.input.Placeholder = "new title"
	}
	if prefill != "" {
		m.input.SetValue(prefill)
	}
	m.input.CursorEnd()
	m.setMode(modeInsert)
	*cmds = append(*cmds, m.input.Focus(), textinput.Blink)
	if act == actionAdd {
		m.setStatus("ADD to " + m.currentStageName())
	} else {
		m.setStatus("EDIT title")
	}
}

func (m *Model) startEdit(cmds *[]tea.Cmd) {
	it := m.currentItem()
	if it == nil {
		m.setStatus("Nothing to edit")
		return
	}
	m.editTargetID = it.ID
	m.enterInsertMode(actionEdit, it.Title, cmds)
}

func (m *Model) exitInsertMode() {
	m.action = actionNone
	m.editTargetID = ""
	m.input.Reset()
	m.bottom.SetPendingKind("")
	m.setMode(modeNormal)
}

// Command mode

func (m *Model) enterCommandMode(cmds *[]tea.Cmd) {
	m.setMode(modeCommand)
	m.bottom.ClearSuggestion()
	m.commandSelectActive = false
	m.commandOriginalInput = ""
	m.input.Reset()
	m.input.Placeholder = "command"
	m.input.CursorEnd()
	*cmds = append(*cmds, m.input.Focus(), textinput.Blink)
	m.bottom.SetCommandPrefix(":")
	m.bottom.SetCommandDefinitions(commandDefinitions)
	m.bottom.UpdateCommandInput(m.input.Value(), m.input.View())
	m.setStatus("COMMAND: enter to run, esc to close")
	m.applyReserve()
}

func (m *Model) exitCommandMode() {
	m.commandSelectActive = false
	m.commandOriginalInput = ""
	m.input.Reset()
	m.setMode(modeNormal)
}

func (m *Model) stepCommandSuggestion(delta int) {
	if !m.commandSelectActive {
		m.commandOriginalInput = m.input.Value()
	}
	opt, ok := m.bottom.StepSuggestion(delta)
	if !ok {
		return
	}
	m.commandSelectActive = true
	m.input.SetValue(opt.Name)
	m.input.CursorEnd()
	m.bottom.UpdateCommandPreview(m.input.View())
}

func (m *Model) executeCommand(input string, cmds *[]tea.Cmd) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		m.exitCommandMode()
		return
	}
	cmd := strings.ToLower(fields[0])
	rawArgs := strings.TrimSpace(strings.TrimPrefix(input, fields[0]))
	m.exitCommandMode()

	switch cmd {
	case "q", "quit", "exit":
		*cmds = append(*cmds, m.quit())
	case "new-stage":
		if rawArgs == "" {
			m.setStatus("Usage: new-stage <name>")
			return
		}
		if c := m.applyNewStage(rawArgs); c != nil {
			*cmds = append(*cmds, c)
		}
	case "limit":
		n, err := strconv.Atoi(rawArgs)
		if err != nil || n < 0 {
			m.setStatus("Usage: limit <n>")
			return
		}
		if c := m.applyStageLimit(m.currentStageName(), n); c != nil {
			*cmds = append(*cmds, c)
		}
	case "rename-stage":
		if rawArgs == "" {
			m.setStatus("Usage: rename-stage <name>")
			return
		}
		if c := m.applyRenameStage(m.currentStageName(), rawArgs); c != nil {
			*cmds = append(*cmds, c)
		}
	case "delete-stage":
		m.startDeleteStageConfirm(cmds)
	case "refresh":
		m.setStatus("Refreshing")
		if c := m.loadBoard(); c != nil {
			*cmds = append(*cmds, c)
		}
	case "help":
		m.enterHelpMode()
	default:
		m.setStatus(fmt.Sprintf("Unknown command: %s", input))
	}
}

// Confirm mode

func (m *Model) startDeleteConfirm(cmds *[]tea.Cmd) {
	it := m.currentItem()
	if it == nil {
		m.setStatus("Nothing to delete")
		return
	}
	m.confirmAction = confirmDeleteItem
	m.confirmTargetID = it.ID
	m.input.Reset()
	m.input.Placeholder = "type yes to delete"
	m.setMode(modeConfirm)
	*cmds = append(*cmds, m.input.Focus(), textinput.Blink)
	m.setStatus(fmt.Sprintf("Delete %q?", it.Title))
}

func (m *Model) startDeleteStageConfirm(cmds *[]tea.Cmd) {
	name := m.currentStageName()
	if name == "" {
		m.setStatus("No stage selected")
		return
	}
	m.confirmAction = confirmDeleteStage
	m.confirmTargetID = name
	m.input.Reset()
	m.input.Placeholder = "type yes to delete"
	m.setMode(modeConfirm)
	*cmds = append(*cmds, m.input.Focus(), textinput.Blink)
	m.setStatus(fmt.Sprintf("Delete stage %q?", name))
}

func (m *Model) cancelConfirm() {
	m.confirmAction = confirmNone
	m.confirmTargetID = ""
	m.input.Reset()
	m.setMode(modeNormal)
}

// Help mode

func (m *Model) enterHelpMode() {
	m.setMode(modeHelp)
	m.setStatus("HELP: esc to close")
}

// Service commands

func (m *Model) applyAdd(title string) tea.Cmd {
	stageName := m.currentStageName()
	if m.svc == nil || stageName == "" {
		return nil
	}
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		it, err := svc.Add(ctx, stageName, glyph.Task, title, glyph.None)
		if err != nil {
			return errMsg{err}
		}
		return events.ItemChangeMsg{
			Component: componentID,
			Action:    events.ChangeCreate,
			Stage:     stageName,
			Item:      events.RefFromItem(it),
		}
	}
}

func (m *Model) applyEdit(id, title string) tea.Cmd {
	if m.svc == nil || id == "" {
		return nil
	}
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		it, err := svc.Edit(ctx, id, title)
		if err != nil {
			return errMsg{err}
		}
		return events.ItemChangeMsg{
			Component: componentID,
			Action:    events.ChangeUpdate,
			Stage:     it.Stage,
			Item:      events.RefFromItem(it),
		}
	}
}

func (m *Model) applyDelete(id string) tea.Cmd {
	if m.svc == nil || id == "" {
		return nil
	}
	ref := events.RefFromItem(m.findItem(id))
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		if err := svc.Delete(ctx, id); err != nil {
			return errMsg{err}
		}
		return events.ItemChangeMsg{
			Component: componentID,
			Action:    events.ChangeDelete,
			Item:      ref,
		}
	}
}

func (m *Model) cycleKind(cmds *[]tea.Cmd) {
	it := m.currentItem()
	if it == nil || m.svc == nil {
		return
	}
	next := nextKind(it.Kind)
	svc, ctx := m.svc, m.ctx
	id := it.ID
	*cmds = append(*cmds, func() tea.Msg {
		updated, err := svc.SetKind(ctx, id, next)
		if err != nil {
			return errMsg{err}
		}
		return events.ItemChangeMsg{
			Component: componentID,
			Action:    events.ChangeUpdate,
			Stage:     updated.Stage,
			Item:      events.RefFromItem(updated),
		}
	})
}

func (m *Model) toggleFlag(flag glyph.Flag, cmds *[]tea.Cmd) {
	it := m.currentItem()
	if it == nil || m.svc == nil {
		return
	}
	svc, ctx := m.svc, m.ctx
	id := it.ID
	*cmds = append(*cmds, func() tea.Msg {
		updated, err := svc.ToggleFlag(ctx, id, flag)
		if err != nil {
			return errMsg{err}
		}
		return events.ItemChangeMsg{
			Component: componentID,
			Action:    events.ChangeUpdate,
			Stage:     updated.Stage,
			Item:      events.RefFromItem(updated),
		}
	})
}

func (m *Model) applyNewStage(name string) tea.Cmd {
	if m.svc == nil {
		return nil
	}
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		if err := svc.EnsureStage(ctx, name); err != nil {
			return errMsg{err}
		}
		return events.StageChangeMsg{
			Component: componentID,
			Action:    events.ChangeCreate,
			Stage:     name,
		}
	}
}

func (m *Model) applyStageLimit(name string, limit int) tea.Cmd {
	if m.svc == nil || name == "" {
		return nil
	}
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		if err := svc.SetStageLimit(ctx, name, limit); err != nil {
			return errMsg{err}
		}
		return events.StageChangeMsg{
			Component: componentID,
			Action:    events.ChangeUpdate,
			Stage:     name,
		}
	}
}

func (m *Model) applyRenameStage(oldName, newName string) tea.Cmd {
	if m.svc == nil || oldName == "" {
		return nil
	}
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		if err := svc.RenameStage(ctx, oldName, newName); err != nil {
			return errMsg{err}
		}
		return events.StageChangeMsg{
			Component: componentID,
			Action:    events.ChangeUpdate,
			Stage:     newName,
			Previous:  oldName,
		}
	}
}

func (m *Model) applyRemoveStage(name string) tea.Cmd {
	if m.svc == nil || name == "" {
		return nil
	}
	svc, ctx := m.svc, m.ctx
	return func() tea.Msg {
		if err := svc.RemoveStage(ctx, name); err != nil {
			return errMsg{err}
		}
		return events.StageChangeMsg{
			Component: componentID,
			Action:    events.ChangeDelete,
			Stage:     name,
		}
	}
}

func nextKind(k glyph.Kind) glyph.Kind {
	switch k {
	case glyph.Task:
		return glyph.Bug
	case glyph.Bug:
		return glyph.Chore
	case glyph.Chore:
		return glyph.Spike
	default:
		return glyph.Task
	}
}

func itemChangeStatus(msg events.ItemChangeMsg) string {
	switch msg.Action {
	case events.ChangeCreate:
		return fmt.Sprintf("Added to %s: %s", msg.Stage, msg.Item.Label())
	case events.ChangeDelete:
		return "Deleted: " + msg.Item.Label()
	case events.ChangeMove:
		return fmt.Sprintf("Moved to %s: %s", msg.Stage, msg.Item.Label())
	default:
		return "Updated: " + msg.Item.Label()
	}
}

func stageChangeStatus(msg events.StageChangeMsg) string {
	switch msg.Action {
	case events.ChangeCreate:
		return "Stage added: " + msg.Stage
	case events.ChangeDelete:
		return "Stage removed: " + msg.Stage
	default:
		if msg.Previous != "" {
			return fmt.Sprintf("Stage renamed: %s -> %s", msg.Previous, msg.Stage)
		}
		return "Stage updated: " + msg.Stage
	}
}

// Modes, sizing, status

func mapBottomMode(md mode) bottombar.Mode {
	switch md {
	case modeCommand:
		return bottombar.ModeCommand
	case modeInsert:
		return bottombar.ModeInput
	default:
		return bottombar.ModePassive
	}
}

func (m *Model) setMode(md mode) {
	m.mode = md
	m.bottom.SetMode(mapBottomMode(md))
	switch md {
	case modeInsert, modeConfirm:
		m.overlayReserve = 2
	default:
		m.overlayReserve = 0
	}
	m.updateBottomContext()
	m.applyReserve()
}

func (m *Model) updateBottomContext() {
	switch {
	case m.mode == modeNormal && m.engine.Dragging():
		m.bottom.SetHelp("j/k/h/l hover · space drop · esc cancel")
	case m.mode == modeNormal:
		m.bottom.SetHelp("? help · : command · q quit")
	case m.mode == modeInsert:
		m.bottom.SetHelp("enter save · esc cancel")
	case m.mode == modeCommand:
		m.bottom.SetHelp("tab complete · enter run · esc close")
	case m.mode == modeConfirm:
		m.bottom.SetHelp("type yes · esc keep")
	case m.mode == modeHelp:
		m.bottom.SetHelp("esc close")
	}
}

func (m *Model) setStatus(text string) {
	m.bottom.SetStatus(text)
}

func (m *Model) applyReserve() {
	total := m.overlayReserve + m.bottom.ExtraHeight()
	if total != m.verticalReserve {
		m.verticalReserve = total
		m.applySizes()
	}
}

func (m *Model) applySizes() {
	if m.termWidth == 0 && m.termHeight == 0 {
		return
	}
	height := m.termHeight - 4 - m.verticalReserve
	if height < 5 {
		height = 5
	}
	m.board.SetSize(m.termWidth, height)

	helpWidth := m.termWidth - 4
	if helpWidth > 80 {
		helpWidth = 80
	}
	m.helpView.SetSize(helpWidth, height)
}

func (m *Model) quit() tea.Cmd {
	m.stopWatch()
	m.cancel()
	return tea.Quit
}

// syncBoard pushes the engine's working copy into the board component.
func (m *Model) syncBoard() {
	cols := make([]columns.Column, 0, len(m.metas))
	for _, meta := range m.metas {
		cols = append(cols, columns.Column{Meta: meta, Items: m.engine.ItemsIn(meta.Name)})
	}
	m.board.SetColumns(cols)
	m.board.SetCursor(m.cursor)
	m.board.SetDrag(m.engine.DraggedID(), m.engine.Indicator())
}

// View renders the UI
func (m *Model) View() string {
	m.syncBoard()

	var sections []string
	if m.mode == modeHelp {
		sections = append(sections, m.helpView.View())
	} else {
		sections = append(sections, m.board.View())
	}

	switch m.mode {
	case modeInsert:
		prompt := "Add to " + m.currentStageName() + ": "
		if m.action == actionEdit {
			prompt = "Edit title: "
		}
		sections = append(sections, prompt+m.input.View())
	case modeConfirm:
		sections = append(sections, "Confirm delete (type yes): "+m.input.View())
	}

	footer, _ := m.bottom.View()
	sections = append(sections, footer)

	return strings.Join(sections, "\n\n")
}

// Run starts the fullscreen board program and blocks until it exits.
func Run(svc *app.Service) error {
	p := tea.NewProgram(New(svc), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
