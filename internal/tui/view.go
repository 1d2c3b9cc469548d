package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/vitaflow/internal/flow"
	"github.com/jask/vitaflow/internal/session"
)

var stepTitles = map[flow.StepID]string{
	flow.StepHome:      "Welcome",
	flow.StepConcerns:  "Select the top health concerns",
	flow.StepDiet:      "Select the diets you follow",
	flow.StepAllergies: "Write any specific allergies or sensitivity towards specific things",
	flow.StepLifestyle: "Lifestyle",
}

func (a *App) View() string {
	var body string
	switch a.flow.Current() {
	case flow.StepHome:
		body = a.renderHome()
	case flow.StepConcerns:
		body = a.renderConcerns()
	case flow.StepDiet:
		body = a.renderDiet()
	case flow.StepAllergies:
		body = a.renderAllergies()
	case flow.StepLifestyle:
		body = a.renderLifestyle()
	}
	parts := []string{a.renderHeader(), body}
	if a.hint != "" {
		parts = append(parts, hintStyle.Render(a.hint))
	}
	parts = append(parts, "", a.renderStatusBar(), a.renderFooter())
	out := strings.Join(parts, "\n")
	if a.height > 0 {
		out = clipHeight(out, a.height)
	}
	return out
}

func (a *App) renderHeader() string {
	cur := a.flow.Current()
	title := headerStyle.Render("vitaflow  " + stepTitles[cur])
	if cur == flow.StepHome {
		return title
	}
	n := slices.Index(flow.Steps, cur)
	return title + "\n" + progressStyle.Render(fmt.Sprintf("Step %d of %d", n, len(flow.Steps)-1))
}

func (a *App) renderHome() string {
	return "Answer a few questions about your health, diet and lifestyle.\n" +
		mutedStyle.Render("Starting over clears any saved answers.")
}

func marker(active bool) string {
	if active {
		return cursorStyle.Render("▶")
	}
	return " "
}

func check(on bool) string {
	if on {
		return selectedStyle.Render("[x]")
	}
	return "[ ]"
}

func (a *App) renderConcerns() string {
	c := a.flow.Concerns()
	order := c.Selected()
	var b strings.Builder
	for i, item := range c.Catalog() {
		line := fmt.Sprintf("%s %s %s", marker(i == a.cursors[flow.StepConcerns]), check(c.IsSelected(item.Name)), item.Name)
		if p := slices.Index(order, item.Name); p >= 0 {
			line += mutedStyle.Render(fmt.Sprintf("  #%d", p+1))
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + mutedStyle.Render("Priority: "))
	if len(order) == 0 {
		b.WriteString(mutedStyle.Render("none yet"))
	} else {
		b.WriteString(strings.Join(order, " > "))
	}
	b.WriteString(fmt.Sprintf("  %s", mutedStyle.Render(fmt.Sprintf("(%d/%d)", len(order), session.MaxConcerns))))
	a.writeFieldErr(&b, session.FieldConcerns)
	return b.String()
}

func (a *App) renderDiet() string {
	d := a.flow.Diet()
	var b strings.Builder
	for i, item := range d.Catalog() {
		b.WriteString(fmt.Sprintf("%s %s %s\n", marker(i == a.cursors[flow.StepDiet]), check(d.IsSelected(item.ID)), item.Name))
	}
	if info, ok := d.Info(); ok {
		width := max(20, min(a.width-4, 60))
		b.WriteString(infoBoxStyle.Width(width).Render(headerStyle.Render(info.Name) + "\n" + info.Info))
		b.WriteString("\n")
	}
	a.writeFieldErr(&b, session.FieldDiets)
	return b.String()
}

func (a *App) renderAllergies() string {
	al := a.flow.Allergies()
	var b strings.Builder
	b.WriteString(a.search.View() + "\n")
	suggestions := al.Suggestions()
	for i, s := range suggestions {
		b.WriteString(fmt.Sprintf("%s %s\n", marker(i == a.cursors[flow.StepAllergies]), s))
	}
	if len(suggestions) == 0 && a.nearest != "" {
		b.WriteString(hintStyle.Render(fmt.Sprintf("No match. Did you mean %s? (tab to add)", a.nearest)) + "\n")
	}
	b.WriteString("\n")
	sel := al.Selected()
	if len(sel) == 0 {
		b.WriteString(mutedStyle.Render("No allergies added (optional)"))
	} else {
		active := a.chipIndex(len(sel))
		chips := make([]string, 0, len(sel))
		for i, s := range sel {
			if i == active {
				chips = append(chips, chipActiveStyle.Render(s+" x"))
				continue
			}
			chips = append(chips, chipStyle.Render(s))
		}
		b.WriteString(strings.Join(chips, " "))
	}
	return b.String()
}

func (a *App) renderLifestyle() string {
	l := a.flow.Lifestyle()
	ans := l.Answers()
	var b strings.Builder
	for i, q := range questions {
		b.WriteString(fmt.Sprintf("%s %s\n", marker(i == a.cursors[flow.StepLifestyle]), q.prompt))
		cur := answerOf(ans, q.field)
		opts := make([]string, 0, len(q.options))
		for _, o := range q.options {
			if o == cur {
				opts = append(opts, selectedStyle.Render("("+o+")"))
			} else {
				opts = append(opts, " "+o+" ")
			}
		}
		b.WriteString("    " + strings.Join(opts, "  "))
		a.writeFieldErr(&b, q.field)
		b.WriteString("\n")
	}
	if a.flow.Completed() {
		st := a.flow.State()
		b.WriteString("\n" + selectedStyle.Render("All done.") + "\n")
		b.WriteString(mutedStyle.Render("Concerns: ") + strings.Join(st.PrioritizedConcerns, ", ") + "\n")
		b.WriteString(mutedStyle.Render("Diets: ") + strings.Join(st.SelectedDiets, ", ") + "\n")
		allergies := "none"
		if len(st.SelectedAllergies) > 0 {
			allergies = strings.Join(st.SelectedAllergies, ", ")
		}
		b.WriteString(mutedStyle.Render("Allergies: ") + allergies)
	}
	return b.String()
}

func (a *App) writeFieldErr(b *strings.Builder, field session.Field) {
	if msg, ok := a.fieldErrs[field]; ok {
		b.WriteString("\n" + errorStyle.Render("! "+msg))
	}
}

func (a *App) renderStatusBar() string {
	msg := strings.TrimSpace(a.status)
	if msg == "" {
		msg = "Ready"
	}
	if a.statusErr {
		return renderBar(statusErrStyle, max(1, a.width), msg)
	}
	return renderBar(statusBarStyle, max(1, a.width), msg)
}

func (a *App) renderFooter() string {
	line := a.help.ShortHelpView(a.keys.HelpBindings(a.scope()))
	if line == "" {
		line = mutedStyle.Render("No shortcuts")
	}
	return footerStyle.Render(ansi.Truncate(line, max(1, a.width), ""))
}

func renderBar(style lipgloss.Style, width int, text string) string {
	line := strings.ReplaceAll(text, "\n", " ")
	line = ansi.Truncate(line, width, "")
	if w := ansi.StringWidth(line); w < width {
		line += strings.Repeat(" ", width-w)
	}
	return style.Width(width).MaxWidth(width).Render(line)
}

func clipHeight(s string, height int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}
