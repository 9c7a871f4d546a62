// Package tui is the terminal client for DoDeck: a login/register
// screen and a task list with client-side filtering and sorting. Every
// mutation is dispatched to the API and followed by a full list
// refresh, so the screen always converges on the server's copy.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/subhrajit77/DoDeck-The-Task-manager/client"
	"github.com/subhrajit77/DoDeck-The-Task-manager/models"
	"github.com/subhrajit77/DoDeck-The-Task-manager/view"
)

type screen int

const (
	screenLogin screen = iota
	screenTasks
	screenEdit
	screenProfile
)

// Auth input indexes.
const (
	fieldName = iota
	fieldEmail
	fieldPassword
	fieldCount
)

// Edit form input indexes.
const (
	editTitle = iota
	editDescription
	editPriority
	editDueDate
	editCompleted
	editFieldCount
)

// Profile form input indexes. The first pair is the profile section,
// the second pair the password section; enter submits whichever one
// holds the focus.
const (
	profName = iota
	profEmail
	profCurrent
	profNew
	profFieldCount
)

// authResultMsg reports a login or register attempt.
type authResultMsg struct {
	err error
}

// tasksLoadedMsg delivers a fresh task list.
type tasksLoadedMsg struct {
	tasks []models.Task
	err   error
}

// mutationResultMsg reports a create/edit/toggle/delete. On success
// the model schedules a full refresh.
type mutationResultMsg struct {
	err error
}

// profileResultMsg reports a profile update or password change.
type profileResultMsg struct {
	notice string
	err    error
}

var filterCycle = []view.Filter{
	view.FilterAll, view.FilterToday, view.FilterWeek,
	view.FilterPending, view.FilterCompleted,
	view.FilterHigh, view.FilterMedium, view.FilterLow,
}

var sortCycle = []view.Sort{view.SortNewest, view.SortOldest, view.SortPriority}

// Model is the bubbletea model for the whole client.
type Model struct {
	session *client.Session
	keys    KeyMap
	styles  Styles
	screen  screen

	// Login screen state.
	registering bool
	inputs      [fieldCount]textinput.Model
	focused     int
	authErr     string

	// Task screen state.
	tasks    []models.Task
	cursor   int
	filter   view.Filter
	order    view.Sort
	adding   bool
	addInput textinput.Model
	status   string

	// Edit form state.
	editID     string
	editInputs [editFieldCount]textinput.Model
	editFocus  int

	// Profile screen state.
	profInputs [profFieldCount]textinput.Model
	profFocus  int
	profErr    string

	width int
}

// NewModel builds the initial model. When the session is already
// authenticated (restored from a saved token) it opens directly on the
// task list.
func NewModel(session *client.Session) Model {
	m := Model{
		session: session,
		keys:    DefaultKeyMap,
		styles:  DefaultStyles(),
		filter:  view.FilterAll,
		order:   view.SortNewest,
	}

	for i := range m.inputs {
		m.inputs[i] = textinput.New()
	}
	m.inputs[fieldName].Placeholder = "name"
	m.inputs[fieldEmail].Placeholder = "email"
	m.inputs[fieldPassword].Placeholder = "password"
	m.inputs[fieldPassword].EchoMode = textinput.EchoPassword

	m.addInput = textinput.New()
	m.addInput.Placeholder = "task title"

	for i := range m.editInputs {
		m.editInputs[i] = textinput.New()
	}
	m.editInputs[editTitle].Placeholder = "title"
	m.editInputs[editDescription].Placeholder = "description"
	m.editInputs[editPriority].Placeholder = "Low/Medium/High"
	m.editInputs[editDueDate].Placeholder = "YYYY-MM-DD"
	m.editInputs[editCompleted].Placeholder = "Yes/No"

	for i := range m.profInputs {
		m.profInputs[i] = textinput.New()
	}
	m.profInputs[profName].Placeholder = "name"
	m.profInputs[profEmail].Placeholder = "email"
	m.profInputs[profCurrent].Placeholder = "current password"
	m.profInputs[profCurrent].EchoMode = textinput.EchoPassword
	m.profInputs[profNew].Placeholder = "new password"
	m.profInputs[profNew].EchoMode = textinput.EchoPassword

	if session.Authenticated() {
		m.screen = screenTasks
	} else {
		m.focused = fieldEmail
		m.inputs[fieldEmail].Focus()
	}
	return m
}

func (m Model) Init() tea.Cmd {
	if m.screen == screenTasks {
		return m.loadTasks()
	}
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case authResultMsg:
		if msg.err != nil {
			m.authErr = msg.err.Error()
			return m, nil
		}
		m.screen = screenTasks
		m.authErr = ""
		m.status = ""
		return m, m.loadTasks()

	case tasksLoadedMsg:
		if msg.err != nil {
			return m.handleError(msg.err)
		}
		m.tasks = msg.tasks
		if n := len(m.visible()); m.cursor >= n && n > 0 {
			m.cursor = n - 1
		}
		return m, nil

	case mutationResultMsg:
		if msg.err != nil {
			return m.handleError(msg.err)
		}
		return m, m.loadTasks()

	case profileResultMsg:
		if msg.err != nil {
			if errors.Is(msg.err, client.ErrSessionExpired) {
				return m.toLogin("session expired, please log in again"), nil
			}
			m.profErr = msg.err.Error()
			return m, nil
		}
		m.screen = screenTasks
		m.status = msg.notice
		m.profInputs[profCurrent].SetValue("")
		m.profInputs[profNew].SetValue("")
		return m, nil

	case tea.KeyMsg:
		switch m.screen {
		case screenLogin:
			return m.updateLogin(msg)
		case screenEdit:
			return m.updateEdit(msg)
		case screenProfile:
			return m.updateProfile(msg)
		}
		return m.updateTasks(msg)
	}

	return m, nil
}

// handleError routes call failures: a rejected token sends the user
// back to the login screen, anything else lands in the status line.
func (m Model) handleError(err error) (tea.Model, tea.Cmd) {
	if errors.Is(err, client.ErrSessionExpired) {
		return m.toLogin("session expired, please log in again"), nil
	}
	m.status = err.Error()
	return m, nil
}

func (m Model) toLogin(notice string) Model {
	m.screen = screenLogin
	m.authErr = notice
	m.tasks = nil
	m.cursor = 0
	m.adding = false
	m.addInput.SetValue("")
	m.profErr = ""
	for i := range m.profInputs {
		m.profInputs[i].SetValue("")
		m.profInputs[i].Blur()
	}
	for i := range m.inputs {
		m.inputs[i].SetValue("")
		m.inputs[i].Blur()
	}
	m.focused = fieldEmail
	m.inputs[fieldEmail].Focus()
	return m
}

// --- login screen ---

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "ctrl+r":
		m.registering = !m.registering
		if !m.registering && m.focused == fieldName {
			m = m.focusField(fieldEmail)
		}
		return m, nil

	case "tab", "shift+tab", "down", "up":
		return m.cycleField(msg.String() == "tab" || msg.String() == "down"), nil

	case "enter":
		return m, m.submitAuth()
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return m, cmd
}

func (m Model) firstField() int {
	if m.registering {
		return fieldName
	}
	return fieldEmail
}

func (m Model) cycleField(forward bool) Model {
	first := m.firstField()
	span := fieldCount - first
	offset := m.focused - first
	if forward {
		offset = (offset + 1) % span
	} else {
		offset = (offset + span - 1) % span
	}
	return m.focusField(first + offset)
}

func (m Model) focusField(idx int) Model {
	m.inputs[m.focused].Blur()
	m.focused = idx
	m.inputs[m.focused].Focus()
	return m
}

func (m Model) submitAuth() tea.Cmd {
	session := m.session
	name := strings.TrimSpace(m.inputs[fieldName].Value())
	email := strings.TrimSpace(m.inputs[fieldEmail].Value())
	password := m.inputs[fieldPassword].Value()
	registering := m.registering

	return func() tea.Msg {
		var err error
		if registering {
			err = session.Register(name, email, password)
		} else {
			err = session.Login(email, password)
		}
		return authResultMsg{err: err}
	}
}

// --- task screen ---

func (m Model) updateTasks(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.adding {
		switch msg.String() {
		case "esc":
			m.adding = false
			m.addInput.SetValue("")
			return m, nil
		case "enter":
			title := strings.TrimSpace(m.addInput.Value())
			m.adding = false
			m.addInput.SetValue("")
			if title == "" {
				return m, nil
			}
			return m, m.createTask(title)
		}
		var cmd tea.Cmd
		m.addInput, cmd = m.addInput.Update(msg)
		return m, cmd
	}

	visible := m.visible()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		if m.cursor < len(visible) {
			return m, m.toggleTask(visible[m.cursor])
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if m.cursor < len(visible) {
			return m, m.deleteTask(visible[m.cursor].ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.Edit):
		if m.cursor < len(visible) {
			return m.startEdit(visible[m.cursor]), textinput.Blink
		}
		return m, nil

	case key.Matches(msg, m.keys.New):
		m.adding = true
		m.addInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Profile):
		return m.startProfile(), textinput.Blink

	case key.Matches(msg, m.keys.Filter):
		m.filter = next(filterCycle, m.filter)
		m.cursor = 0
		return m, nil

	case key.Matches(msg, m.keys.Sort):
		m.order = next(sortCycle, m.order)
		m.cursor = 0
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		return m, m.loadTasks()

	case key.Matches(msg, m.keys.Logout):
		m.session.Logout()
		return m.toLogin(""), nil
	}

	return m, nil
}

// --- edit form ---

// startEdit opens the edit form prefilled with the selected task.
// Completed is shown in its form representation, "Yes" or "No".
func (m Model) startEdit(t models.Task) Model {
	m.screen = screenEdit
	m.editID = t.ID
	m.editInputs[editTitle].SetValue(t.Title)
	m.editInputs[editDescription].SetValue(t.Description)
	m.editInputs[editPriority].SetValue(string(t.Priority))
	m.editInputs[editDueDate].SetValue(t.DueDate)
	completed := "No"
	if t.Completed {
		completed = "Yes"
	}
	m.editInputs[editCompleted].SetValue(completed)
	for i := range m.editInputs {
		m.editInputs[i].Blur()
	}
	m.editFocus = editTitle
	m.editInputs[editTitle].Focus()
	return m
}

func (m Model) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.screen = screenTasks
		return m, nil

	case "tab", "down":
		return m.cycleEdit(1), nil

	case "shift+tab", "up":
		return m.cycleEdit(-1), nil

	case "enter":
		return m.submitEdit()
	}

	var cmd tea.Cmd
	m.editInputs[m.editFocus], cmd = m.editInputs[m.editFocus].Update(msg)
	return m, cmd
}

func (m Model) cycleEdit(step int) Model {
	m.editInputs[m.editFocus].Blur()
	m.editFocus = (m.editFocus + step + editFieldCount) % editFieldCount
	m.editInputs[m.editFocus].Focus()
	return m
}

// submitEdit sends the whole form as a partial update and returns to
// the list; a failure lands in the status line like any mutation.
func (m Model) submitEdit() (tea.Model, tea.Cmd) {
	fields := map[string]any{
		"title":       strings.TrimSpace(m.editInputs[editTitle].Value()),
		"description": m.editInputs[editDescription].Value(),
		"completed":   strings.TrimSpace(m.editInputs[editCompleted].Value()),
	}
	if v := strings.TrimSpace(m.editInputs[editPriority].Value()); v != "" {
		fields["priority"] = v
	}
	if v := strings.TrimSpace(m.editInputs[editDueDate].Value()); v != "" {
		fields["dueDate"] = v
	}

	id := m.editID
	session := m.session
	m.screen = screenTasks
	return m, func() tea.Msg {
		_, err := session.UpdateTask(id, fields)
		return mutationResultMsg{err: err}
	}
}

// --- profile screen ---

// startProfile opens the profile screen with name and email prefilled
// from the cached identity and the password fields blank.
func (m Model) startProfile() Model {
	m.screen = screenProfile
	m.profErr = ""
	user := m.session.User()
	m.profInputs[profName].SetValue(user.Name)
	m.profInputs[profEmail].SetValue(user.Email)
	m.profInputs[profCurrent].SetValue("")
	m.profInputs[profNew].SetValue("")
	for i := range m.profInputs {
		m.profInputs[i].Blur()
	}
	m.profFocus = profName
	m.profInputs[profName].Focus()
	return m
}

func (m Model) updateProfile(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.screen = screenTasks
		return m, nil

	case "tab", "down":
		return m.cycleProfile(1), nil

	case "shift+tab", "up":
		return m.cycleProfile(-1), nil

	case "enter":
		return m, m.submitProfile()
	}

	var cmd tea.Cmd
	m.profInputs[m.profFocus], cmd = m.profInputs[m.profFocus].Update(msg)
	return m, cmd
}

func (m Model) cycleProfile(step int) Model {
	m.profInputs[m.profFocus].Blur()
	m.profFocus = (m.profFocus + step + profFieldCount) % profFieldCount
	m.profInputs[m.profFocus].Focus()
	return m
}

func (m Model) submitProfile() tea.Cmd {
	session := m.session

	if m.profFocus == profCurrent || m.profFocus == profNew {
		current := m.profInputs[profCurrent].Value()
		updated := m.profInputs[profNew].Value()
		return func() tea.Msg {
			if err := session.ChangePassword(current, updated); err != nil {
				return profileResultMsg{err: err}
			}
			return profileResultMsg{notice: "password changed"}
		}
	}

	name := strings.TrimSpace(m.profInputs[profName].Value())
	email := strings.TrimSpace(m.profInputs[profEmail].Value())
	return func() tea.Msg {
		if err := session.UpdateProfile(name, email); err != nil {
			return profileResultMsg{err: err}
		}
		return profileResultMsg{notice: "profile updated"}
	}
}

func next[T comparable](cycle []T, current T) T {
	for i, v := range cycle {
		if v == current {
			return cycle[(i+1)%len(cycle)]
		}
	}
	return cycle[0]
}

func (m Model) visible() []models.Task {
	return view.Order(view.Apply(m.tasks, m.filter, time.Now()), m.order)
}

func (m Model) loadTasks() tea.Cmd {
	session := m.session
	return func() tea.Msg {
		tasks, err := session.Tasks()
		return tasksLoadedMsg{tasks: tasks, err: err}
	}
}

func (m Model) createTask(title string) tea.Cmd {
	session := m.session
	return func() tea.Msg {
		_, err := session.CreateTask(client.TaskForm{Title: title})
		return mutationResultMsg{err: err}
	}
}

func (m Model) toggleTask(t models.Task) tea.Cmd {
	session := m.session
	return func() tea.Msg {
		_, err := session.ToggleComplete(t)
		return mutationResultMsg{err: err}
	}
}

func (m Model) deleteTask(id string) tea.Cmd {
	session := m.session
	return func() tea.Msg {
		return mutationResultMsg{err: session.DeleteTask(id)}
	}
}

// --- rendering ---

func (m Model) View() string {
	switch m.screen {
	case screenLogin:
		return m.viewLogin()
	case screenEdit:
		return m.viewEdit()
	case screenProfile:
		return m.viewProfile()
	}
	return m.viewTasks()
}

func (m Model) viewLogin() string {
	var b strings.Builder

	title := "DoDeck — log in"
	if m.registering {
		title = "DoDeck — create account"
	}
	b.WriteString(m.styles.Header.Render(title))
	b.WriteString("\n\n")

	if m.registering {
		b.WriteString("  " + m.inputs[fieldName].View() + "\n")
	}
	b.WriteString("  " + m.inputs[fieldEmail].View() + "\n")
	b.WriteString("  " + m.inputs[fieldPassword].View() + "\n\n")

	if m.authErr != "" {
		b.WriteString(m.styles.Error.Render("  "+m.authErr) + "\n\n")
	}

	b.WriteString(m.styles.Help.Render("  enter submit · tab next field · C-r toggle register · C-c quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewTasks() string {
	var b strings.Builder

	stats := view.Collect(m.tasks)
	b.WriteString(m.styles.Header.Render("DoDeck — " + m.session.User().Name))
	b.WriteString("\n")
	b.WriteString(m.styles.Stats.Render(fmt.Sprintf(
		"%d tasks · %d done · %d%% productivity · filter %s · sort %s",
		stats.Total, stats.Completed, stats.Productivity(), m.filter, m.order)))
	b.WriteString("\n\n")

	visible := m.visible()
	if len(visible) == 0 {
		b.WriteString(m.styles.Help.Render("  no tasks here — press n to add one"))
		b.WriteString("\n")
	}
	for i, t := range visible {
		marker := "  "
		if i == m.cursor {
			marker = m.styles.Selected.Render("▸ ")
		}
		check := "[ ]"
		if t.Completed {
			check = "[x]"
		}
		line := fmt.Sprintf("%s %s %s", check, m.styles.priority(t.Priority).Render(string(t.Priority)), t.Title)
		if t.DueDate != "" {
			line += m.styles.Help.Render(" · due " + t.DueDate)
		}
		if t.Completed {
			line = m.styles.Done.Render(line)
		}
		b.WriteString(marker + line + "\n")
	}

	if m.adding {
		b.WriteString("\n  new: " + m.addInput.View() + "\n")
	}
	if m.status != "" {
		b.WriteString("\n" + m.styles.Error.Render("  "+m.status) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render(
		"  space toggle · n new · e edit · d delete · p profile · f filter · s sort · r refresh · C-l log out · q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewEdit() string {
	var b strings.Builder

	b.WriteString(m.styles.Header.Render("DoDeck — edit task"))
	b.WriteString("\n\n")

	labels := [editFieldCount]string{"title", "description", "priority", "due date", "completed"}
	for i := range m.editInputs {
		b.WriteString(fmt.Sprintf("  %-12s %s\n", labels[i], m.editInputs[i].View()))
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("  enter save · tab next field · esc cancel"))
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewProfile() string {
	var b strings.Builder

	b.WriteString(m.styles.Header.Render("DoDeck — profile"))
	b.WriteString("\n\n")

	labels := [profFieldCount]string{"name", "email", "current", "new"}
	for i := range m.profInputs {
		if i == profCurrent {
			b.WriteString("\n  change password\n")
		}
		b.WriteString(fmt.Sprintf("  %-10s %s\n", labels[i], m.profInputs[i].View()))
	}

	if m.profErr != "" {
		b.WriteString("\n" + m.styles.Error.Render("  "+m.profErr) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("  enter submit section · tab next field · esc back"))
	b.WriteString("\n")
	return b.String()
}
