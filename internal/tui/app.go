package tui

import (
	"context"
	"errors"
	"slices"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/vitaflow/internal/flow"
	"github.com/jask/vitaflow/internal/session"
)

const maxConcernsHint = "You can prioritize up to 5 concerns. Deselect one first."

// App is the bubbletea model over a started flow.Flow. Controller calls run
// synchronously inside Update so every store write lands before the next frame.
type App struct {
	ctx    context.Context
	flow   *flow.Flow
	keys   *KeyRegistry
	help   help.Model
	search textinput.Model

	width  int
	height int
	step   flow.StepID

	cursors   map[flow.StepID]int
	status    string
	statusErr bool
	fieldErrs map[session.Field]string
	hint      string
	nearest   string
	// chip indexes the selected allergy ctrl+x removes; -1 means the last one.
	chip int
}

func New(ctx context.Context, f *flow.Flow, keys *KeyRegistry) *App {
	if keys == nil {
		keys = NewKeyRegistry(DefaultBindings())
	}
	inp := textinput.New()
	inp.Placeholder = "Search allergies"
	inp.Prompt = "search> "
	inp.CharLimit = 40

	h := help.New()
	h.Styles.ShortKey = cursorStyle
	h.Styles.ShortDesc = mutedStyle
	h.Styles.ShortSeparator = mutedStyle

	a := &App{
		ctx:       ctx,
		flow:      f,
		keys:      keys,
		help:      h,
		search:    inp,
		width:     80,
		cursors:   map[flow.StepID]int{},
		fieldErrs: map[session.Field]string{},
	}
	a.enter(f.Current())
	return a
}

func (a *App) Init() tea.Cmd {
	return nil
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.help.Width = m.Width
		return a, nil
	case tea.KeyMsg:
		scope := a.scope()
		action := a.keys.Action(m, scope)
		if action == actionQuit {
			return a, tea.Quit
		}
		var cmd tea.Cmd
		switch scope {
		case scopeHome:
			a.updateHome(action)
		case scopeConcerns:
			a.updateConcerns(action)
		case scopeDiet:
			a.updateDiet(action)
		case scopeAllergies:
			cmd = a.updateAllergies(action, m)
		case scopeLifestyle:
			a.updateLifestyle(action)
		case scopeDone:
			if action == actionRestart {
				a.flow.Restart(a.ctx)
			}
		}
		if cur := a.flow.Current(); cur != a.step {
			a.enter(cur)
		}
		return a, cmd
	}
	return a, nil
}

// enter resets per-screen state when the flow lands on a new step.
func (a *App) enter(step flow.StepID) {
	a.step = step
	a.cursors[step] = 0
	a.hint, a.nearest = "", ""
	a.chip = -1
	clear(a.fieldErrs)
	a.setStatus("", false)
	if step == flow.StepAllergies {
		a.search.SetValue(a.flow.Allergies().Query())
		a.search.Focus()
	} else {
		a.search.Blur()
	}
}

func (a *App) scope() string {
	cur := a.flow.Current()
	if cur == flow.StepLifestyle && a.flow.Completed() {
		return scopeDone
	}
	return "step:" + string(cur)
}

func (a *App) setStatus(text string, isErr bool) {
	a.status, a.statusErr = text, isErr
}

func (a *App) moveCursor(step flow.StepID, delta, n int) {
	if n == 0 {
		a.cursors[step] = 0
		return
	}
	c := a.cursors[step] + delta
	a.cursors[step] = min(max(c, 0), n-1)
}

// showErr records a proceed/submit failure for inline display.
func (a *App) showErr(err error) {
	clear(a.fieldErrs)
	var many session.ValidationErrors
	var one *session.ValidationError
	switch {
	case errors.As(err, &many):
		for _, e := range many {
			a.fieldErrs[e.Field] = e.Message
		}
		a.setStatus("Please answer every question", true)
	case errors.As(err, &one):
		a.fieldErrs[one.Field] = one.Message
		a.setStatus(one.Message, true)
	default:
		a.setStatus(err.Error(), true)
	}
}

func (a *App) updateHome(action string) {
	if action == actionStart {
		a.flow.Home().Start(a.ctx)
	}
}

func (a *App) updateConcerns(action string) {
	c := a.flow.Concerns()
	catalog := c.Catalog()
	switch action {
	case actionUp:
		a.moveCursor(flow.StepConcerns, -1, len(catalog))
	case actionDown:
		a.moveCursor(flow.StepConcerns, 1, len(catalog))
	case actionToggle:
		name := catalog[a.cursors[flow.StepConcerns]].Name
		a.hint = ""
		if c.Toggle(a.ctx, name) {
			delete(a.fieldErrs, session.FieldConcerns)
			a.setStatus("", false)
		} else if c.Full() {
			a.hint = maxConcernsHint
		}
	case actionEarlier, actionLater:
		name := catalog[a.cursors[flow.StepConcerns]].Name
		order := c.Selected()
		from := slices.Index(order, name)
		if from < 0 {
			return
		}
		to := from - 1
		if action == actionLater {
			to = from + 1
		}
		if to < 0 || to >= len(order) {
			return
		}
		if err := c.Move(a.ctx, from, to); err != nil {
			a.setStatus(err.Error(), true)
		}
	case actionProceed:
		if err := c.Proceed(a.ctx); err != nil {
			a.showErr(err)
		}
	case actionBack:
		c.Back(a.ctx)
	}
}

func (a *App) updateDiet(action string) {
	d := a.flow.Diet()
	catalog := d.Catalog()
	id := catalog[a.cursors[flow.StepDiet]].ID
	switch action {
	case actionUp:
		a.moveCursor(flow.StepDiet, -1, len(catalog))
		d.HideInfo()
	case actionDown:
		a.moveCursor(flow.StepDiet, 1, len(catalog))
		d.HideInfo()
	case actionToggle:
		if d.Toggle(a.ctx, id) {
			delete(a.fieldErrs, session.FieldDiets)
			a.setStatus("", false)
		}
	case actionInfo:
		if info, ok := d.Info(); ok && info.ID == id {
			d.HideInfo()
		} else {
			d.ShowInfo(id)
		}
	case actionProceed:
		if err := d.Proceed(a.ctx); err != nil {
			a.showErr(err)
		}
	case actionBack:
		d.Back(a.ctx)
	}
}

func (a *App) updateAllergies(action string, msg tea.KeyMsg) tea.Cmd {
	al := a.flow.Allergies()
	suggestions := al.Suggestions()
	switch action {
	case actionUp:
		a.moveCursor(flow.StepAllergies, -1, len(suggestions))
		return nil
	case actionDown:
		a.moveCursor(flow.StepAllergies, 1, len(suggestions))
		return nil
	case actionAccept:
		a.pick(suggestions)
		return nil
	case actionChipPrev, actionChipNext:
		n := len(al.Selected())
		if n == 0 {
			return nil
		}
		i := a.chipIndex(n)
		if action == actionChipPrev {
			a.chip = max(i-1, 0)
		} else {
			a.chip = min(i+1, n-1)
		}
		return nil
	case actionRemove:
		if sel := al.Selected(); len(sel) > 0 {
			al.Remove(a.ctx, sel[a.chipIndex(len(sel))])
			if a.chip >= len(sel)-1 {
				a.chip = -1
			}
		}
		return nil
	case actionProceed:
		if len(suggestions) > 0 || a.nearest != "" {
			a.pick(suggestions)
			return nil
		}
		if err := al.Proceed(a.ctx); err != nil {
			a.showErr(err)
		}
		return nil
	case actionBack:
		al.Back(a.ctx)
		return nil
	}

	var cmd tea.Cmd
	a.search, cmd = a.search.Update(msg)
	a.refreshSearch()
	return cmd
}

// chipIndex resolves the chip cursor against n selected allergies.
func (a *App) chipIndex(n int) int {
	if a.chip < 0 || a.chip >= n {
		return n - 1
	}
	return a.chip
}

// pick selects the highlighted suggestion, or the "did you mean" entry.
func (a *App) pick(suggestions []string) {
	al := a.flow.Allergies()
	name := a.nearest
	if len(suggestions) > 0 {
		name = suggestions[min(a.cursors[flow.StepAllergies], len(suggestions)-1)]
	}
	if name == "" || !al.SelectSuggestion(a.ctx, name) {
		return
	}
	a.search.SetValue(al.Query())
	a.refreshSearch()
}

func (a *App) refreshSearch() {
	al := a.flow.Allergies()
	suggestions := al.Search(a.search.Value())
	a.moveCursor(flow.StepAllergies, 0, len(suggestions))
	a.nearest = ""
	if len(suggestions) == 0 && al.Query() != "" {
		if n, ok := al.Nearest(al.Query()); ok {
			a.nearest = n
		}
	}
}

type question struct {
	field   session.Field
	prompt  string
	options []string
}

var questions = []question{
	{field: session.FieldSunExposure, prompt: "Do you get at least 15 minutes of sun exposure a day?", options: []string{string(session.Yes), string(session.No)}},
	{field: session.FieldSmoking, prompt: "Do you currently smoke (tobacco or marijuana)?", options: []string{string(session.Yes), string(session.No)}},
	{field: session.FieldAlcoholConsumption, prompt: "On average, how many alcoholic beverages do you have in a week?", options: alcoholOptions()},
}

func alcoholOptions() []string {
	out := make([]string, 0, len(session.AlcoholIntakes))
	for _, v := range session.AlcoholIntakes {
		out = append(out, string(v))
	}
	return out
}

func answerOf(ans session.LifestyleAnswers, field session.Field) string {
	switch field {
	case session.FieldSunExposure:
		return string(ans.SunExposure)
	case session.FieldSmoking:
		return string(ans.Smoking)
	case session.FieldAlcoholConsumption:
		return string(ans.AlcoholConsumption)
	}
	return ""
}

func (a *App) updateLifestyle(action string) {
	l := a.flow.Lifestyle()
	q := questions[a.cursors[flow.StepLifestyle]]
	switch action {
	case actionUp:
		a.moveCursor(flow.StepLifestyle, -1, len(questions))
	case actionDown:
		a.moveCursor(flow.StepLifestyle, 1, len(questions))
	case actionPrevOpt, actionNextOpt:
		i := slices.Index(q.options, answerOf(l.Answers(), q.field))
		switch {
		case i < 0:
			i = 0
		case action == actionNextOpt:
			i = (i + 1) % len(q.options)
		default:
			i = (i - 1 + len(q.options)) % len(q.options)
		}
		if err := l.Answer(a.ctx, q.field, q.options[i]); err != nil {
			a.setStatus(err.Error(), true)
			return
		}
		delete(a.fieldErrs, q.field)
	case actionSubmit:
		if err := l.Submit(a.ctx); err != nil {
			a.showErr(err)
			return
		}
		clear(a.fieldErrs)
		a.setStatus("Answers saved", false)
	case actionBack:
		l.Back(a.ctx)
	}
}
