package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"supplyask/internal/markdown"
	"supplyask/internal/query"
	"supplyask/internal/render"
	"supplyask/internal/session"
)

const (
	defaultWidth  = 80
	defaultHeight = 24

	// Lines taken by everything except the response viewport.
	chromeHeight = 11
	labelWidth   = 10
)

// Options configures NewAppModel.
type Options struct {
	Submitter session.Submitter
	Markdown  markdown.Renderer // nil uses markdown.New()
	Role      query.Role
	Region    query.Region
	Logger    *zap.Logger
	Context   context.Context // passed to every submission; nil means Background
}

// AppModel is the root model: the ask form above the response panel.
type AppModel struct {
	Session   *session.Session
	Submitter session.Submitter
	Renderer  *render.View
	Input     textinput.Model
	Role      *Selector[query.Role]
	Region    *Selector[query.Region]
	Focus     *FocusManager
	Response  *ResponsePanel
	Keys      KeyMap
	Help      help.Model
	Logger    *zap.Logger

	// Status is the one-line message under the form.
	Status     string
	statusWarn bool

	ctx    context.Context
	width  int
	height int
}

// Ensure AppModel can be used as tea.Model via adapter.
var _ tea.Model = (*appModelAdapter)(nil)

// appModelAdapter wraps AppModel to implement tea.Model.
type appModelAdapter struct {
	*AppModel
}

// NewAppModel creates the root application model.
func NewAppModel(opts Options) *AppModel {
	md := opts.Markdown
	if md == nil {
		md = markdown.New()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	ti := textinput.New()
	ti.Placeholder = "e.g. What is the gross margin for Q3?"
	ti.Prompt = ""
	ti.CharLimit = 2000
	ti.Focus()

	m := &AppModel{
		Session:   session.New(),
		Submitter: opts.Submitter,
		Renderer:  render.NewView(md),
		Input:     ti,
		Role:      NewSelector("Role", query.Roles(), opts.Role),
		Region:    NewSelector("Region", query.Regions(), opts.Region),
		Keys:      DefaultKeyMap(),
		Help:      help.New(),
		Logger:    logger,
		ctx:       ctx,
	}
	m.Focus = NewFocusManager(FocusQuestion, FocusRole, FocusRegion, FocusSubmit)
	m.Focus.OnChange = func(_, to FocusID) {
		if to == FocusQuestion {
			m.Input.Focus()
		} else {
			m.Input.Blur()
		}
	}
	m.Response = NewResponsePanel(defaultWidth-4, defaultHeight-chromeHeight)
	m.resize(defaultWidth, defaultHeight)
	return m
}

// AsTeaModel returns a tea.Model adapter for use with tea.NewProgram.
func (m *AppModel) AsTeaModel() tea.Model {
	return &appModelAdapter{AppModel: m}
}

// Init implements tea.Model.
func (a *appModelAdapter) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (a *appModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil
	case SubmitMsg:
		return a, a.submit()
	case QuerySettledMsg:
		a.settle(msg)
		return a, nil
	case tea.KeyMsg:
		return a, a.handleKey(msg)
	}

	_, cmd := a.Response.Update(msg)
	return a, cmd
}

func (a *AppModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.Keys.Quit):
		return tea.Quit
	case key.Matches(msg, a.Keys.Submit):
		return a.submit()
	case key.Matches(msg, a.Keys.NextField):
		a.Focus.Next()
		return nil
	case key.Matches(msg, a.Keys.PrevField):
		a.Focus.Prev()
		return nil
	case key.Matches(msg, a.Keys.ScrollUp):
		a.Response.ScrollUp()
		return nil
	case key.Matches(msg, a.Keys.ScrollDown):
		a.Response.ScrollDown()
		return nil
	}

	switch a.Focus.Current {
	case FocusQuestion:
		var cmd tea.Cmd
		a.Input, cmd = a.Input.Update(msg)
		return cmd
	case FocusRole:
		switch {
		case key.Matches(msg, a.Keys.NextOption):
			a.Role.Next()
		case key.Matches(msg, a.Keys.PrevOption):
			a.Role.Prev()
		}
	case FocusRegion:
		switch {
		case key.Matches(msg, a.Keys.NextOption):
			a.Region.Next()
		case key.Matches(msg, a.Keys.PrevOption):
			a.Region.Prev()
		}
	}
	return nil
}

// Request builds a fresh request from the current form values.
func (a *AppModel) Request() query.Request {
	return query.Request{
		Text:   a.Input.Value(),
		Role:   a.Role.Value(),
		Region: a.Region.Value(),
	}
}

// submit moves the session to pending and starts the query.
// While a query is pending the submission is refused.
func (a *AppModel) submit() tea.Cmd {
	if a.Submitter == nil {
		a.setStatus("No query service configured", true)
		return nil
	}
	req := a.Request()
	ticket, err := a.Session.Submit(req)
	if errors.Is(err, session.ErrSubmissionPending) {
		a.setStatus("A query is already running", true)
		return nil
	}
	if err != nil {
		a.Logger.Error("submit refused", zap.Error(err))
		a.setStatus(err.Error(), true)
		return nil
	}

	a.Logger.Debug("query submitted",
		zap.Uint64("ticket", uint64(ticket)),
		zap.String("role", req.Role.String()),
		zap.String("region", req.Region.String()),
	)
	a.setStatus(fmt.Sprintf("Asking as %s (%s)…", req.Role, req.Region), false)
	return tea.Batch(
		a.Response.SetPending(true),
		submitQueryCmd(a.ctx, a.Submitter, ticket, req),
	)
}

func (a *AppModel) settle(msg QuerySettledMsg) {
	if err := a.Session.Settle(msg.Ticket, msg.Outcome); err != nil {
		a.Logger.Warn("dropping query result", zap.Uint64("ticket", uint64(msg.Ticket)), zap.Error(err))
		return
	}
	a.Response.Show(a.Renderer.Render(msg.Outcome))
	a.setStatus(fmt.Sprintf("%s answer in %s", msg.Outcome.Kind(), msg.Elapsed.Round(10*time.Millisecond)), msg.Outcome.Kind() == query.KindFailure)
}

func (a *AppModel) setStatus(s string, warn bool) {
	a.Status = s
	a.statusWarn = warn
}

func (a *AppModel) resize(width, height int) {
	a.width = width
	a.height = height
	a.Input.Width = max(width-labelWidth-2, 10)
	a.Help.Width = width
	a.Response.SetSize(max(width-4, 10), max(height-chromeHeight, 3))
}
